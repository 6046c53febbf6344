package reporting

import (
	"mailtrace/internal/aggregation"
)

// Summary holds the aggregate view of a filtered record set.
type Summary struct {
	Total    int                        `json:"total"`
	ByStatus map[aggregation.Status]int `json:"by_status"`
	Earliest *aggregation.LogTime       `json:"-"`
	Latest   *aggregation.LogTime       `json:"-"`
}

// Summarize is a pure reduction over records; an empty input yields total 0
// and no timestamp bounds.
func Summarize(records []*aggregation.DeliveryRecord) Summary {
	sum := Summary{ByStatus: make(map[aggregation.Status]int)}
	for _, rec := range records {
		sum.Total++
		sum.ByStatus[rec.Status]++
		if rec.Timestamp == nil {
			continue
		}
		ts := *rec.Timestamp
		if sum.Earliest == nil || ts.Before(*sum.Earliest) {
			t := ts
			sum.Earliest = &t
		}
		if sum.Latest == nil || sum.Latest.Before(ts) {
			t := ts
			sum.Latest = &t
		}
	}
	return sum
}

// Count returns the number of records with the given status.
func (s Summary) Count(status aggregation.Status) int {
	return s.ByStatus[status]
}
