package reporting

import (
	"fmt"

	"mailtrace/internal/aggregation"
)

// Tag is a semantic color hint for a renderer; the projection itself never
// touches a terminal.
type Tag string

const (
	TagAlert   Tag = "alert"
	TagSuccess Tag = "success"
	TagNeutral Tag = "neutral"
)

// Row is one display-ready report line. All fields are already strings;
// absence has been resolved to placeholders here and nowhere earlier.
type Row struct {
	Time           string `json:"time"`
	From           string `json:"from"`
	To             string `json:"to"`
	Size           string `json:"size"`
	Status         string `json:"status"`
	AlternateRelay string `json:"alternate_relay"`
	Tag            Tag    `json:"-"`
}

// Project maps records onto rows, preserving order.
func Project(records []*aggregation.DeliveryRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, projectRecord(rec))
	}
	return rows
}

func projectRecord(rec *aggregation.DeliveryRecord) Row {
	row := Row{
		Time:           "-",
		From:           "unknown",
		To:             "unknown",
		Size:           "-",
		Status:         string(rec.Status),
		AlternateRelay: "No",
		Tag:            TagNeutral,
	}
	if rec.Timestamp != nil {
		row.Time = rec.Timestamp.String()
	}
	if rec.Sender != "" {
		row.From = rec.Sender
	}
	if rec.Recipient != "" {
		row.To = rec.Recipient
	}
	if rec.Size != nil {
		row.Size = humanSize(*rec.Size)
	}
	if rec.RoutedViaAlternateRelay {
		row.AlternateRelay = "Yes"
	}
	switch rec.Status {
	case aggregation.StatusBlocked:
		row.Tag = TagAlert
	case aggregation.StatusSent:
		row.Tag = TagSuccess
	}
	return row
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%dKB", n/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}
