package aggregation

// Aggregator owns the id-to-record mapping for one batch. Construct one per
// invocation; it is not safe for concurrent use and never needs to be.
type Aggregator struct {
	records map[string]*DeliveryRecord
	order   []string
}

func NewAggregator() *Aggregator {
	return &Aggregator{records: make(map[string]*DeliveryRecord)}
}

// Apply folds one event into the record for its transaction id. Events must
// arrive in line order; the last write wins per field, except for blocking
// events which discard all previously accumulated state for the id so a
// blocked attempt's metadata can never mix with a reused id's.
func (a *Aggregator) Apply(ev Event) {
	if ev.Kind == EventBlocking {
		rec := &DeliveryRecord{
			ID:                      ev.ID,
			Sender:                  ev.Sender,
			Recipient:               ev.Recipient,
			Status:                  StatusBlocked,
			RoutedViaAlternateRelay: ev.AlternateRelay,
			ProcessID:               ev.ProcessID,
			Timestamp:               ev.Timestamp,
		}
		if _, seen := a.records[ev.ID]; !seen {
			a.order = append(a.order, ev.ID)
		}
		a.records[ev.ID] = rec
		return
	}

	rec, ok := a.records[ev.ID]
	if !ok {
		rec = &DeliveryRecord{ID: ev.ID, Status: StatusPending}
		a.records[ev.ID] = rec
		a.order = append(a.order, ev.ID)
	}
	if ev.Sender != "" {
		rec.Sender = ev.Sender
	}
	if ev.Recipient != "" {
		rec.Recipient = ev.Recipient
	}
	if ev.Size != nil {
		size := *ev.Size
		rec.Size = &size
	}
	if terminalStatuses[ev.Status] {
		rec.Status = ev.Status
	}
	if ev.AlternateRelay {
		rec.RoutedViaAlternateRelay = true
	}
	if ev.ProcessID != "" {
		rec.ProcessID = ev.ProcessID
	}
	if ev.Timestamp != nil {
		ts := *ev.Timestamp
		rec.Timestamp = &ts
	}
}

// Records returns all records in first-seen order.
func (a *Aggregator) Records() []*DeliveryRecord {
	out := make([]*DeliveryRecord, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.records[id])
	}
	return out
}

// Len is the number of distinct transaction ids seen so far.
func (a *Aggregator) Len() int {
	return len(a.records)
}
