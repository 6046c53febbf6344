package aggregation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applyLines(t *testing.T, c *Classifier, agg *Aggregator, lines []string) {
	t.Helper()
	for i, line := range lines {
		if ev, ok := c.Classify(line, i); ok {
			agg.Apply(ev)
		}
	}
}

func TestAggregator_FullTransaction(t *testing.T) {
	c := NewClassifier("")
	agg := NewAggregator()

	applyLines(t, c, agg, []string{
		"Dec  5 10:00:01 mail postfix/smtpd[10]: A1B2C3D4E5: client=mail.x.com[9.8.7.6]",
		"Dec  5 10:00:01 mail postfix/qmgr[11]: A1B2C3D4E5: from=<a@x.com>, size=120, nrcpt=1 (queue active)",
		"Dec  5 10:00:03 mail postfix/smtp[12]: A1B2C3D4E5: to=<b@y.com>, relay=mx.y.com, status=sent (250 ok)",
	})

	require.Equal(t, 1, agg.Len())
	rec := agg.Records()[0]
	assert.Equal(t, "A1B2C3D4E5", rec.ID)
	assert.Equal(t, "a@x.com", rec.Sender)
	assert.Equal(t, "b@y.com", rec.Recipient)
	require.NotNil(t, rec.Size)
	assert.Equal(t, int64(120), *rec.Size)
	assert.Equal(t, StatusSent, rec.Status)
	require.NotNil(t, rec.Timestamp)
	assert.Equal(t, LogTime{Month: time.December, Day: 5, Hour: 10, Minute: 0, Second: 3}, *rec.Timestamp)
}

func TestAggregator_OneRecordPerID(t *testing.T) {
	c := NewClassifier("")
	agg := NewAggregator()

	applyLines(t, c, agg, []string{
		"Dec  5 10:00:01 mail postfix/qmgr[1]: AAAABBBBCC: from=<a@x.com>",
		"Dec  5 10:00:02 mail postfix/qmgr[1]: DDDDEEEEFF: from=<c@z.com>",
		"Dec  5 10:00:03 mail postfix/smtp[2]: AAAABBBBCC: to=<b@y.com>, status=sent",
		"Dec  5 10:00:04 mail postfix/smtpd[3]: NOQUEUE: reject: RCPT from bad[1.1.1.1]",
	})

	assert.Equal(t, 3, agg.Len())

	// First-seen order is preserved.
	recs := agg.Records()
	require.Len(t, recs, 3)
	assert.Equal(t, "AAAABBBBCC", recs[0].ID)
	assert.Equal(t, "DDDDEEEEFF", recs[1].ID)
}

func TestAggregator_BlockingReplacesRecord(t *testing.T) {
	c := NewClassifier("")
	agg := NewAggregator()

	applyLines(t, c, agg, []string{
		"Dec  5 10:00:01 mail postfix/qmgr[1]: F00DBEEF42: from=<a@x.com>, size=9999",
		"Dec  5 10:00:02 mail postfix/smtp[2]: F00DBEEF42: to=<b@y.com>",
		"Dec  5 10:00:05 mail postfix/cleanup[3]: F00DBEEF42: milter-reject: END-OF-MESSAGE from bad[2.2.2.2]: 5.7.1 Blocked",
	})

	require.Equal(t, 1, agg.Len())
	rec := agg.Records()[0]

	// No residue from the partial transaction before the reject.
	assert.Equal(t, StatusBlocked, rec.Status)
	assert.Empty(t, rec.Sender)
	assert.Empty(t, rec.Recipient)
	assert.Nil(t, rec.Size)
	require.NotNil(t, rec.Timestamp)
	assert.Equal(t, 5, rec.Timestamp.Second)
}

func TestAggregator_BlockingLineCarriesAddresses(t *testing.T) {
	c := NewClassifier("")
	agg := NewAggregator()

	applyLines(t, c, agg, []string{
		"Dec  5 10:00:01 mail postfix/smtpd[1]: NOQUEUE: reject: RCPT from unknown[1.2.3.4]: 554; from=<spam@bad.com> to=<victim@x.com>",
	})

	require.Equal(t, 1, agg.Len())
	rec := agg.Records()[0]
	assert.Equal(t, StatusBlocked, rec.Status)
	assert.Equal(t, "spam@bad.com", rec.Sender)
	assert.Equal(t, "victim@x.com", rec.Recipient)
	assert.Nil(t, rec.Size)
}

func TestAggregator_IDReuseAfterBlock(t *testing.T) {
	c := NewClassifier("")
	agg := NewAggregator()

	applyLines(t, c, agg, []string{
		"Dec  5 10:00:01 mail postfix/cleanup[1]: F00DBEEF42: milter-reject: END-OF-MESSAGE: 5.7.1 Blocked; from=<spam@bad.com>",
		"Dec  6 09:00:00 mail postfix/qmgr[2]: F00DBEEF42: from=<legit@x.com>, size=200",
		"Dec  6 09:00:01 mail postfix/smtp[3]: F00DBEEF42: to=<b@y.com>, status=sent (250 ok)",
	})

	require.Equal(t, 1, agg.Len())
	rec := agg.Records()[0]

	// Redelivery under a reused id wins: last terminal status observed.
	assert.Equal(t, StatusSent, rec.Status)
	assert.Equal(t, "legit@x.com", rec.Sender)
	assert.Equal(t, "b@y.com", rec.Recipient)
	require.NotNil(t, rec.Size)
	assert.Equal(t, int64(200), *rec.Size)
}

func TestAggregator_UnknownStatusKeywordIgnored(t *testing.T) {
	c := NewClassifier("")
	agg := NewAggregator()

	applyLines(t, c, agg, []string{
		"Dec  5 10:00:01 mail postfix/smtp[1]: A1B2C3D4E5: to=<b@y.com>, status=sent (250 ok)",
		"Dec  5 10:00:09 mail postfix/smtp[1]: A1B2C3D4E5: to=<c@z.com>, status=expired (gone)",
	})

	rec := agg.Records()[0]
	// The unrecognized keyword is dropped; the rest of the line still lands.
	assert.Equal(t, StatusSent, rec.Status)
	assert.Equal(t, "c@z.com", rec.Recipient)
	require.NotNil(t, rec.Timestamp)
	assert.Equal(t, 9, rec.Timestamp.Second)
}

func TestAggregator_KeepsTimestampWhenEventLacksOne(t *testing.T) {
	agg := NewAggregator()
	ts := &LogTime{Month: time.December, Day: 5, Hour: 10}

	agg.Apply(Event{ID: "A1B2C3D4E5", Sender: "a@x.com", Timestamp: ts})
	agg.Apply(Event{ID: "A1B2C3D4E5", Recipient: "b@y.com"})

	rec := agg.Records()[0]
	require.NotNil(t, rec.Timestamp)
	assert.Equal(t, *ts, *rec.Timestamp)
	assert.Equal(t, "b@y.com", rec.Recipient)
}

func TestAggregator_DefaultsOnFirstSighting(t *testing.T) {
	agg := NewAggregator()
	agg.Apply(Event{ID: "A1B2C3D4E5"})

	rec := agg.Records()[0]
	assert.Equal(t, StatusPending, rec.Status)
	assert.Empty(t, rec.Sender)
	assert.Empty(t, rec.Recipient)
	assert.Nil(t, rec.Size)
	assert.False(t, rec.RoutedViaAlternateRelay)
	assert.False(t, rec.Observed())
}
