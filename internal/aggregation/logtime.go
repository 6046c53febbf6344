package aggregation

import (
	"fmt"
	"time"
)

// LogTime is a syslog-style timestamp: month, day and time of day. Syslog
// lines carry no year, so LogTime cannot be converted to an absolute instant
// without picking one (see At).
type LogTime struct {
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Second int
}

func (t LogTime) String() string {
	return fmt.Sprintf("%s %d %02d:%02d:%02d", t.Month.String()[:3], t.Day, t.Hour, t.Minute, t.Second)
}

// At materializes the timestamp in the given year.
func (t LogTime) At(year int, loc *time.Location) time.Time {
	return time.Date(year, t.Month, t.Day, t.Hour, t.Minute, t.Second, 0, loc)
}

// Before reports whether t precedes other in calendar order within one year.
func (t LogTime) Before(other LogTime) bool {
	return t.key() < other.key()
}

// SameDate reports whether t falls on the given month and day.
func (t LogTime) SameDate(month time.Month, day int) bool {
	return t.Month == month && t.Day == day
}

// SecondOfDay returns the time of day as seconds since midnight.
func (t LogTime) SecondOfDay() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

func (t LogTime) key() int {
	return ((int(t.Month)*100+t.Day)*100000 + t.SecondOfDay())
}
