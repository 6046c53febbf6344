package filtering

import (
	"strings"
	"time"

	"mailtrace/internal/aggregation"
)

// Filter applies criteria to completed delivery records. Filtering only runs
// after the whole batch is aggregated: a record's fields may arrive on later
// lines than its first sighting.
type Filter struct {
	crit Criteria
	now  time.Time
	expr *Expression
}

func New(crit Criteria, now time.Time) (*Filter, error) {
	f := &Filter{crit: crit, now: now}
	if crit.Expression != "" {
		expr, err := CompileExpression(crit.Expression)
		if err != nil {
			return nil, err
		}
		f.expr = expr
	}
	return f, nil
}

// Apply returns the matching records in their original order.
func (f *Filter) Apply(records []*aggregation.DeliveryRecord) []*aggregation.DeliveryRecord {
	out := make([]*aggregation.DeliveryRecord, 0, len(records))
	for _, rec := range records {
		if f.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func (f *Filter) Matches(rec *aggregation.DeliveryRecord) bool {
	return f.matchesSearch(rec) && f.matchesStatus(rec) && f.matchesDate(rec) && f.matchesExpression(rec)
}

func (f *Filter) matchesSearch(rec *aggregation.DeliveryRecord) bool {
	if f.crit.SearchTerm == "" {
		return true
	}
	term := strings.ToLower(f.crit.SearchTerm)
	fromMatch := rec.Sender != "" && strings.Contains(strings.ToLower(rec.Sender), term)
	toMatch := rec.Recipient != "" && strings.Contains(strings.ToLower(rec.Recipient), term)
	switch f.crit.SearchType {
	case SearchSender:
		return fromMatch
	case SearchRecipient:
		return toMatch
	default:
		return fromMatch || toMatch
	}
}

func (f *Filter) matchesStatus(rec *aggregation.DeliveryRecord) bool {
	return f.crit.Status == "" || rec.Status == f.crit.Status
}

func (f *Filter) matchesDate(rec *aggregation.DeliveryRecord) bool {
	switch f.crit.DateMode {
	case DateAll:
		return true
	case DateLookback:
		if rec.Timestamp == nil {
			return false
		}
		ts := f.materialize(*rec.Timestamp)
		cutoff := f.now.AddDate(0, 0, -f.crit.LookbackDays)
		return !ts.Before(cutoff)
	case DateSpecific:
		if rec.Timestamp == nil {
			return false
		}
		ts := *rec.Timestamp
		if f.crit.TimeFloor == nil {
			return ts.SameDate(f.crit.Month, f.crit.Day)
		}
		// The floor only constrains the named day; any later day passes.
		if ts.SameDate(f.crit.Month, f.crit.Day) {
			return ts.SecondOfDay() >= f.crit.TimeFloor.SecondOfDay()
		}
		return dateKey(ts.Month, ts.Day) > dateKey(f.crit.Month, f.crit.Day)
	}
	return true
}

func (f *Filter) matchesExpression(rec *aggregation.DeliveryRecord) bool {
	if f.expr == nil {
		return true
	}
	ok, err := f.expr.Eval(rec)
	if err != nil {
		// An expression that cannot be evaluated matches nothing.
		return false
	}
	return ok
}

// materialize pins a year-less timestamp to a year. Records carry no year, so
// assume the current one; a month/day that lands in the future relative to
// now must be from the previous year.
func (f *Filter) materialize(ts aggregation.LogTime) time.Time {
	t := ts.At(f.now.Year(), f.now.Location())
	if t.After(f.now) {
		t = t.AddDate(-1, 0, 0)
	}
	return t
}

func dateKey(month time.Month, day int) int {
	return int(month)*100 + day
}
