package aggregation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultAlternateRelay is the transport-map target the mailcow setup routes
// outbound mail through when not delivering directly.
const DefaultAlternateRelay = "smtp.sendgrid.net"

const transportMapMarker = "smtp_via_transport_maps:"

// blockingMarkers are checked before any field extraction: a line carrying
// one of these replaces the whole record (see Aggregator.Apply). Order is the
// precedence order.
var blockingMarkers = []string{
	"NOQUEUE: reject",
	"NOQUEUE: filter",
	"milter-reject",
}

var (
	queueIDPattern   = regexp.MustCompile(`\b([A-F0-9]{10,12})\b`)
	timestampPattern = regexp.MustCompile(`([A-Z][a-z]{2})\s+(\d{1,2})\s+(\d{2}):(\d{2}):(\d{2})`)
	processPattern   = regexp.MustCompile(`postfix/[\w-]+\[(\d+)\]`)
	senderPattern    = regexp.MustCompile(`from=<([^>]*)>`)
	recipientPattern = regexp.MustCompile(`to=<([^>]*)>`)
	sizePattern      = regexp.MustCompile(`size=(\d+)`)
	statusPattern    = regexp.MustCompile(`status=(\w+)`)
)

var monthsByAbbr = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// fieldRules is the ordered table of key=value extractors applied to every
// relevant line. Each rule only sets the field it matched.
var fieldRules = []struct {
	pattern *regexp.Regexp
	apply   func(ev *Event, value string)
}{
	{senderPattern, func(ev *Event, v string) { ev.Sender = v }},
	{recipientPattern, func(ev *Event, v string) { ev.Recipient = v }},
	{sizePattern, func(ev *Event, v string) {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			ev.Size = &n
		}
	}},
	{statusPattern, func(ev *Event, v string) { ev.Status = Status(strings.ToLower(v)) }},
	{processPattern, func(ev *Event, v string) { ev.ProcessID = v }},
}

// Classifier turns raw log lines into typed events. It holds no per-batch
// state; the line index is only used to mint synthetic ids for pre-queue
// rejections, keeping reruns deterministic.
type Classifier struct {
	alternateRelay string
}

func NewClassifier(alternateRelay string) *Classifier {
	if alternateRelay == "" {
		alternateRelay = DefaultAlternateRelay
	}
	return &Classifier{alternateRelay: alternateRelay}
}

// Classify returns the event described by line, or ok=false when the line
// carries neither a transaction id nor a blocking marker.
func (c *Classifier) Classify(line string, index int) (Event, bool) {
	id := extractQueueID(line)
	blocked := isBlocking(line)
	if id == "" && !blocked {
		return Event{}, false
	}
	if id == "" {
		// Rejected before the relay assigned a queue id; the attempt still
		// gets a record under an id derived from the line itself.
		id = syntheticID(line, index)
	}

	ev := Event{ID: id, Timestamp: extractTimestamp(line)}
	for _, rule := range fieldRules {
		if m := rule.pattern.FindStringSubmatch(line); m != nil {
			rule.apply(&ev, m[1])
		}
	}
	if blocked {
		// Blocking wins over any status keyword on the same line.
		ev.Kind = EventBlocking
		ev.Status = StatusBlocked
	}
	if strings.Contains(line, transportMapMarker+c.alternateRelay) {
		ev.AlternateRelay = true
	}
	return ev, true
}

func isBlocking(line string) bool {
	for _, marker := range blockingMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

func extractQueueID(line string) string {
	if m := queueIDPattern.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}

func extractTimestamp(line string) *LogTime {
	m := timestampPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	month, ok := monthsByAbbr[m[1]]
	if !ok {
		return nil
	}
	day, _ := strconv.Atoi(m[2])
	if day < 1 || day > 31 {
		return nil
	}
	hour, _ := strconv.Atoi(m[3])
	minute, _ := strconv.Atoi(m[4])
	second, _ := strconv.Atoi(m[5])
	if hour > 23 || minute > 59 || second > 59 {
		return nil
	}
	return &LogTime{Month: month, Day: day, Hour: hour, Minute: minute, Second: second}
}

// syntheticID derives a stable id for a blocked attempt from the rejecting
// line's position and content. Lowercase on purpose: it can never collide
// with a relay-assigned uppercase-hex queue id.
func syntheticID(line string, index int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s", index, line)))
	return "noqueue-" + hex.EncodeToString(sum[:6])
}
