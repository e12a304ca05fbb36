package ibapi

import "sync"

// Interaction is a single request and the ordered responses observed for
// it since it was sent, the trace unit spec.md §3/§4.H describes.
type Interaction struct {
	Request   string
	Responses []string
}

// clone returns a deep copy so LastInteraction snapshots are safe to read
// concurrently with further mutation of the live interaction.
func (i Interaction) clone() Interaction {
	out := Interaction{Request: i.Request, Responses: make([]string, len(i.Responses))}
	copy(out.Responses, i.Responses)
	return out
}

// Tracer is the capture-last-interaction side effect the router invokes
// on every send and receive (spec.md §4.H). It holds one
// read-write-guarded interaction, replaced — not merged — on every new
// request. It is not a process-wide singleton: each Client creates its
// own unless one is passed with WithTracer, and the trace spans several
// Clients only when they are given the same Tracer. This matches the
// teacher's hook-invocation pattern (DESIGN.md "Trace hook") generalized
// from a multi-hook list down to this one fixed side effect.
type Tracer struct {
	mu      sync.RWMutex
	current Interaction
}

// NewTracer constructs an empty tracer. A Client owns one by default;
// nothing about it is actually client-specific, so callers that want a
// single process-wide trace across multiple Clients may share one.
func NewTracer() *Tracer {
	return &Tracer{}
}

// RecordRequest starts a new interaction, replacing whatever was current.
func (t *Tracer) RecordRequest(display string) {
	t.mu.Lock()
	t.current = Interaction{Request: display}
	t.mu.Unlock()
}

// RecordResponse appends one response's display form to the current
// interaction.
func (t *Tracer) RecordResponse(display string) {
	t.mu.Lock()
	t.current.Responses = append(t.current.Responses, display)
	t.mu.Unlock()
}

// LastInteraction returns a snapshot of the current interaction.
func (t *Tracer) LastInteraction() Interaction {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current.clone()
}
