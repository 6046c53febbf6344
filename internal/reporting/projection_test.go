package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailtrace/internal/aggregation"
)

func TestProject_ResolvesAbsence(t *testing.T) {
	rows := Project([]*aggregation.DeliveryRecord{
		{ID: "A1B2C3D4E5", Status: aggregation.StatusPending},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "-", rows[0].Time)
	assert.Equal(t, "unknown", rows[0].From)
	assert.Equal(t, "unknown", rows[0].To)
	assert.Equal(t, "-", rows[0].Size)
	assert.Equal(t, "pending", rows[0].Status)
	assert.Equal(t, "No", rows[0].AlternateRelay)
	assert.Equal(t, TagNeutral, rows[0].Tag)
}

func TestProject_FullRecord(t *testing.T) {
	size := int64(120)
	rows := Project([]*aggregation.DeliveryRecord{
		{
			ID:                      "A1B2C3D4E5",
			Sender:                  "a@x.com",
			Recipient:               "b@y.com",
			Size:                    &size,
			Status:                  aggregation.StatusSent,
			RoutedViaAlternateRelay: true,
			Timestamp:               &aggregation.LogTime{Month: time.December, Day: 5, Hour: 10, Second: 3},
		},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "Dec 5 10:00:03", rows[0].Time)
	assert.Equal(t, "a@x.com", rows[0].From)
	assert.Equal(t, "b@y.com", rows[0].To)
	assert.Equal(t, "120B", rows[0].Size)
	assert.Equal(t, "sent", rows[0].Status)
	assert.Equal(t, "Yes", rows[0].AlternateRelay)
	assert.Equal(t, TagSuccess, rows[0].Tag)
}

func TestProject_Tags(t *testing.T) {
	tests := []struct {
		status aggregation.Status
		want   Tag
	}{
		{aggregation.StatusBlocked, TagAlert},
		{aggregation.StatusSent, TagSuccess},
		{aggregation.StatusDeferred, TagNeutral},
		{aggregation.StatusBounced, TagNeutral},
		{aggregation.StatusPending, TagNeutral},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			rows := Project([]*aggregation.DeliveryRecord{{Status: tt.status}})
			assert.Equal(t, tt.want, rows[0].Tag)
		})
	}
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0B"},
		{1023, "1023B"},
		{1024, "1KB"},
		{120 * 1024, "120KB"},
		{1 << 20, "1.0MB"},
		{5<<20 + 1<<19, "5.5MB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, humanSize(tt.in), "%d bytes", tt.in)
	}
}
