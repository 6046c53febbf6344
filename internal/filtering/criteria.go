package filtering

import (
	"strconv"
	"strings"
	"time"

	"mailtrace/internal/aggregation"
	"mailtrace/pkg/errors"
)

type SearchType string

const (
	SearchSender    SearchType = "sender"
	SearchRecipient SearchType = "recipient"
	SearchBoth      SearchType = "both"
)

type DateMode int

const (
	DateAll DateMode = iota
	DateLookback
	DateSpecific
)

// DayClock is a time-of-day floor combined with a specific date.
type DayClock struct {
	Hour   int
	Minute int
	Second int
}

func (c DayClock) SecondOfDay() int {
	return c.Hour*3600 + c.Minute*60 + c.Second
}

// Criteria is the validated filter input applied to aggregated records.
type Criteria struct {
	SearchTerm   string
	SearchType   SearchType
	Status       aggregation.Status // empty = all statuses
	DateMode     DateMode
	LookbackDays int
	Month        time.Month
	Day          int
	TimeFloor    *DayClock
	Expression   string // optional CEL expression over record fields
}

// Input is the raw, user-supplied filter text before validation. All fields
// are optional; empty input means "everything".
type Input struct {
	Search     string
	Type       string
	Status     string
	Days       string
	Date       string
	Time       string
	Expression string
}

// ParseCriteria validates raw input at the boundary, before any aggregation
// runs. Every failure is an invalid-criteria error.
func ParseCriteria(in Input) (Criteria, error) {
	crit := Criteria{
		SearchTerm: strings.TrimSpace(in.Search),
		SearchType: SearchBoth,
		DateMode:   DateAll,
		Expression: strings.TrimSpace(in.Expression),
	}

	if t := strings.TrimSpace(in.Type); t != "" {
		switch SearchType(t) {
		case SearchSender, SearchRecipient, SearchBoth:
			crit.SearchType = SearchType(t)
		default:
			return Criteria{}, errors.ErrInvalidCriteria.WithMessage("unknown search type %q (want sender, recipient or both)", t)
		}
	}

	status, err := parseStatus(in.Status)
	if err != nil {
		return Criteria{}, err
	}
	crit.Status = status

	if date := strings.TrimSpace(in.Date); date != "" {
		month, day, err := parseDate(date)
		if err != nil {
			return Criteria{}, err
		}
		crit.DateMode = DateSpecific
		crit.Month = month
		crit.Day = day
	} else if days := strings.TrimSpace(in.Days); days != "" && !strings.EqualFold(days, "all") {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return Criteria{}, errors.ErrInvalidCriteria.WithMessage("invalid lookback days %q (want a number or \"all\")", days)
		}
		crit.DateMode = DateLookback
		crit.LookbackDays = n
	}

	if t := strings.TrimSpace(in.Time); t != "" {
		if crit.DateMode != DateSpecific {
			return Criteria{}, errors.ErrInvalidCriteria.WithMessage("a time filter needs a specific date")
		}
		floor, err := parseClock(t)
		if err != nil {
			return Criteria{}, err
		}
		crit.TimeFloor = floor
	}

	if crit.Expression != "" {
		if _, err := CompileExpression(crit.Expression); err != nil {
			return Criteria{}, err
		}
	}

	return crit, nil
}

func parseStatus(raw string) (aggregation.Status, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "":
		return "", nil
	// Aliases kept from the interactive prompt wording.
	case "success":
		return aggregation.StatusSent, nil
	case "unknown":
		return aggregation.StatusPending, nil
	}
	switch st := aggregation.Status(s); st {
	case aggregation.StatusPending, aggregation.StatusSent, aggregation.StatusDeferred,
		aggregation.StatusBounced, aggregation.StatusBlocked:
		return st, nil
	}
	return "", errors.ErrInvalidCriteria.WithMessage("unknown status %q", raw)
}

// parseDate accepts "8 Dec", "Dec 8" and either with a trailing year. The
// year is advisory only: log timestamps carry none, so it is validated and
// dropped.
func parseDate(raw string) (time.Month, int, error) {
	var (
		month    time.Month
		day      int
		haveDay  bool
		haveYear bool
	)
	for _, part := range strings.Fields(raw) {
		if m, ok := monthAbbr(part); ok {
			month = m
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, 0, errors.ErrInvalidCriteria.WithMessage("cannot parse date %q", raw)
		}
		switch {
		case !haveDay && n >= 1 && n <= 31:
			day = n
			haveDay = true
		case !haveYear && n >= 1000:
			haveYear = true
		default:
			return 0, 0, errors.ErrInvalidCriteria.WithMessage("cannot parse date %q", raw)
		}
	}
	if month == 0 || !haveDay {
		return 0, 0, errors.ErrInvalidCriteria.WithMessage("cannot parse date %q (want e.g. \"8 Dec\" or \"Dec 8\")", raw)
	}
	return month, day, nil
}

func parseClock(raw string) (*DayClock, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, errors.ErrInvalidCriteria.WithMessage("cannot parse time %q (want HH:MM[:SS])", raw)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, errors.ErrInvalidCriteria.WithMessage("cannot parse time %q", raw)
		}
		nums[i] = n
	}
	c := &DayClock{Hour: nums[0], Minute: nums[1], Second: nums[2]}
	if c.Hour > 23 || c.Minute > 59 || c.Second > 59 {
		return nil, errors.ErrInvalidCriteria.WithMessage("time %q out of range", raw)
	}
	return c, nil
}

func monthAbbr(s string) (time.Month, bool) {
	t, err := time.Parse("Jan", s)
	if err != nil {
		return 0, false
	}
	return t.Month(), true
}
