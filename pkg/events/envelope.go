// Package events provides the generic event infrastructure for emitting
// evaluation and escalation events. The Envelope type wraps domain payloads
// with consistent metadata; EventSink abstracts where envelopes go.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Envelope wraps domain events with consistent metadata.
// Escalation records for critical judge conflicts travel through envelopes,
// which is what makes "needs human review" recoverable by operators rather
// than silently dropped.
type Envelope struct {
	// ID uniquely identifies this event instance.
	ID string `json:"id"`

	// Type identifies the event for routing.
	// Examples: "evaluation.batch_completed", "consensus.conflict_escalated".
	Type string `json:"type"`

	// Source identifies the component that emitted this event.
	Source string `json:"source"`

	// Version enables schema evolution; starts at "1.0.0".
	Version string `json:"version"`

	// Timestamp records when the event was emitted.
	Timestamp time.Time `json:"timestamp"`

	// IdempotencyKey deduplicates events across activity retries.
	IdempotencyKey string `json:"idempotency_key"`

	// WorkflowID and RunID correlate the event with its workflow execution.
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id"`

	// Payload contains the domain-specific event data as JSON.
	Payload json.RawMessage `json:"payload"`
}

// EventSink receives emitted envelopes.
// Implementations must tolerate duplicates and return quickly; event
// emission is best-effort and must never fail a primary operation.
type EventSink interface {
	// Append adds an event to the sink with best-effort delivery.
	Append(ctx context.Context, envelope Envelope) error
}

// NoOpEventSink discards all events. Useful in tests and when event
// emission is disabled.
type NoOpEventSink struct{}

// Append implements EventSink with no-op behavior.
func (n *NoOpEventSink) Append(_ context.Context, _ Envelope) error { return nil }

// NewNoOpEventSink creates a sink that discards everything.
func NewNoOpEventSink() EventSink { return &NoOpEventSink{} }

// MemorySink retains envelopes in memory, deduplicated by idempotency key.
// Serves as the operator-visible escalation log in single-process
// deployments and as an assertion point in tests.
type MemorySink struct {
	mu   sync.Mutex
	seen map[string]struct{}
	log  []Envelope
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{seen: make(map[string]struct{})}
}

// Append implements EventSink. Duplicate idempotency keys are no-ops.
func (m *MemorySink) Append(_ context.Context, envelope Envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if envelope.IdempotencyKey != "" {
		if _, dup := m.seen[envelope.IdempotencyKey]; dup {
			return nil
		}
		m.seen[envelope.IdempotencyKey] = struct{}{}
	}
	m.log = append(m.log, envelope)
	return nil
}

// Events returns a copy of the retained envelopes in append order.
func (m *MemorySink) Events() []Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Envelope, len(m.log))
	copy(out, m.log)
	return out
}

// EventsOfType returns retained envelopes matching the given type.
func (m *MemorySink) EventsOfType(eventType string) []Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Envelope
	for _, e := range m.log {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
