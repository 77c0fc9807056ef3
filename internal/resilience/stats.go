package resilience

import (
	"sync/atomic"
)

// sessionStats provides thread-safe evaluation counters using atomics.
// Observability state only; never consulted by fallback decisions.
type sessionStats struct {
	totalEvaluations      atomic.Int64 // Plans attempted across the session
	successfulEvaluations atomic.Int64 // Plans that received a judge evaluation
	naEvaluations         atomic.Int64 // Plans recorded as NA
	partialBatches        atomic.Int64 // Batches that finished with gaps
}

// Stats is a snapshot of session evaluation statistics.
type Stats struct {
	// TotalEvaluations is the number of plans attempted this session.
	TotalEvaluations int64 `json:"total_evaluations"`
	// SuccessfulEvaluations is the number of plans a judge evaluated.
	SuccessfulEvaluations int64 `json:"successful_evaluations"`
	// NAEvaluations is the number of plans recorded as NA.
	NAEvaluations int64 `json:"na_evaluations"`
	// PartialBatches is the number of batches completed with gaps.
	PartialBatches int64 `json:"partial_batches"`
	// CompletionRate is SuccessfulEvaluations / TotalEvaluations, or 0.
	CompletionRate float64 `json:"completion_rate"`
}

func (s *sessionStats) snapshot() Stats {
	total := s.totalEvaluations.Load()
	success := s.successfulEvaluations.Load()

	var rate float64
	if total > 0 {
		rate = float64(success) / float64(total)
	}

	return Stats{
		TotalEvaluations:      total,
		SuccessfulEvaluations: success,
		NAEvaluations:         s.naEvaluations.Load(),
		PartialBatches:        s.partialBatches.Load(),
		CompletionRate:        rate,
	}
}

func (s *sessionStats) reset() {
	s.totalEvaluations.Store(0)
	s.successfulEvaluations.Store(0)
	s.naEvaluations.Store(0)
	s.partialBatches.Store(0)
}
