package aggregation

// Status is the disposition of a delivery transaction.
type Status string

const (
	StatusPending  Status = "pending"
	StatusSent     Status = "sent"
	StatusDeferred Status = "deferred"
	StatusBounced  Status = "bounced"
	StatusBlocked  Status = "blocked"
)

// terminalStatuses is the closed set of status keywords the relay reports on
// delivery attempts. Anything else found after "status=" is ignored.
var terminalStatuses = map[Status]bool{
	StatusSent:     true,
	StatusDeferred: true,
	StatusBounced:  true,
}

// EventKind distinguishes a normal per-field update from a pre-queue
// rejection, which replaces the whole record.
type EventKind int

const (
	EventUpdate EventKind = iota
	EventBlocking
)

// Event is one classified log line. Zero-valued fields were not carried by
// the line and must not overwrite record state.
type Event struct {
	ID             string
	Kind           EventKind
	Sender         string
	Recipient      string
	Size           *int64
	Status         Status
	AlternateRelay bool
	ProcessID      string
	Timestamp      *LogTime
}

// DeliveryRecord is the reconstructed state of one message's transit through
// the relay, keyed by its transaction id. Absent fields stay nil/empty until
// a line carries them; rendering decides how to display absence.
type DeliveryRecord struct {
	ID                      string
	Sender                  string
	Recipient               string
	Size                    *int64
	Status                  Status
	RoutedViaAlternateRelay bool
	ProcessID               string
	Timestamp               *LogTime
}

// Observed reports whether any delivery field was ever seen for this record.
// Records that only ever matched on their id (queue housekeeping lines) carry
// no report-worthy data.
func (r *DeliveryRecord) Observed() bool {
	return r.Sender != "" || r.Recipient != "" || r.Size != nil ||
		r.Status != StatusPending || r.RoutedViaAlternateRelay
}
