package reporting

import (
	"time"

	"mailtrace/internal/aggregation"
	"mailtrace/internal/filtering"
	"mailtrace/internal/logger"
)

// Service runs the whole pipeline: classify lines, aggregate transactions,
// filter, then reduce and project. One Service may serve many batches; all
// per-batch state lives in the aggregator it builds per call.
type Service struct {
	classifier *aggregation.Classifier
	logger     logger.Logger
}

func NewService(classifier *aggregation.Classifier, log logger.Logger) *Service {
	return &Service{classifier: classifier, logger: log}
}

// Report aggregates lines and returns the filtered summary and rows. now
// anchors the lookback window; inject it for deterministic tests.
func (s *Service) Report(lines []string, crit filtering.Criteria, now time.Time) (Summary, []Row, error) {
	filter, err := filtering.New(crit, now)
	if err != nil {
		return Summary{}, nil, err
	}

	agg := aggregation.NewAggregator()
	matched := 0
	for i, line := range lines {
		ev, ok := s.classifier.Classify(line, i)
		if !ok {
			continue
		}
		matched++
		agg.Apply(ev)
	}
	s.logger.Debugw("aggregated batch",
		"lines", len(lines),
		"events", matched,
		"transactions", agg.Len(),
	)

	// Housekeeping-only ids never observed a delivery field and carry
	// nothing worth reporting.
	records := make([]*aggregation.DeliveryRecord, 0, agg.Len())
	for _, rec := range agg.Records() {
		if rec.Observed() {
			records = append(records, rec)
		}
	}

	records = filter.Apply(records)
	return Summarize(records), Project(records), nil
}
