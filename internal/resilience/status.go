// Package resilience keeps dual-judge evaluation running under partial LLM
// availability. It tracks per-judge endpoint health, probes liveness, and
// orchestrates primary-then-secondary fallback with NA outcomes when both
// judges are down.
package resilience

import (
	"sync"
	"time"
)

// LLMStatus tracks one judge endpoint's operational health.
// One instance exists per judge, created at manager construction with an
// optimistic available default, and mutated in place by every probe or
// invocation attempt. Writes are serialized by a per-status mutex because
// both the availability check and an in-flight invocation's failure path
// update the same record.
type LLMStatus struct {
	mu sync.Mutex

	llmType             string
	available           bool
	lastCheck           time.Time
	failureCount        int
	consecutiveFailures int
	lastFailure         time.Time
	lastFailureReason   string
}

// StatusSnapshot is a point-in-time copy of an LLMStatus for safe reads.
type StatusSnapshot struct {
	LLMType             string    `json:"llm_type"`
	Available           bool      `json:"available"`
	LastCheck           time.Time `json:"last_check"`
	FailureCount        int       `json:"failure_count"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	LastFailure         time.Time `json:"last_failure,omitempty"`
	LastFailureReason   string    `json:"last_failure_reason,omitempty"`
}

// NewLLMStatus creates a health record for a judge endpoint.
// Starts available: endpoints are presumed live until a probe or
// invocation proves otherwise.
func NewLLMStatus(llmType string) *LLMStatus {
	return &LLMStatus{
		llmType:   llmType,
		available: true,
	}
}

// RecordSuccess marks the endpoint live and clears consecutive-failure
// state. The cumulative failure count is retained until an explicit Reset.
func (s *LLMStatus) RecordSuccess(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available = true
	s.consecutiveFailures = 0
	s.lastFailureReason = ""
	s.lastCheck = now
}

// RecordFailure marks the endpoint down and increments both failure counters.
func (s *LLMStatus) RecordFailure(now time.Time, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available = false
	s.failureCount++
	s.consecutiveFailures++
	s.lastFailure = now
	s.lastFailureReason = reason
	s.lastCheck = now
}

// Reset restores the optimistic default and zeroes all failure state.
// Operator action only; probes and invocations never call this.
func (s *LLMStatus) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available = true
	s.failureCount = 0
	s.consecutiveFailures = 0
	s.lastFailure = time.Time{}
	s.lastFailureReason = ""
}

// IsAvailable reports the current liveness flag.
func (s *LLMStatus) IsAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available
}

// Snapshot returns a copy of the current status for reporting.
func (s *LLMStatus) Snapshot() StatusSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatusSnapshot{
		LLMType:             s.llmType,
		Available:           s.available,
		LastCheck:           s.lastCheck,
		FailureCount:        s.failureCount,
		ConsecutiveFailures: s.consecutiveFailures,
		LastFailure:         s.lastFailure,
		LastFailureReason:   s.lastFailureReason,
	}
}
