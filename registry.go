package ibapi

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultDeliveryTimeout bounds how long the router waits for a slow
// consumer before failing its subscription with Overrun (spec.md §4.E).
const DefaultDeliveryTimeout = 5 * time.Second

// DefaultCancelGracePeriod is how long Drop waits, giving the server's
// terminal frame time to arrive, before it removes the entry if that
// entry is terminal by then (spec.md §5 "Cancellation").
const DefaultCancelGracePeriod = 2 * time.Second

// Registry is the single shared mapping from routing key to subscription
// (spec.md §4.F, Component F). It is a read-mostly lock: dispatch holds
// a read lock, registration/removal holds a write lock, matching the
// teacher's broker-map locking discipline generalized from a per-broker
// map to a per-request-id one (DESIGN.md "Subscription registry").
type Registry struct {
	mu      sync.RWMutex
	subs    map[RoutingKey]*Subscription
	log     zerolog.Logger
	metrics *Metrics

	deliveryTimeout   time.Duration
	cancelGracePeriod time.Duration
}

// NewRegistry constructs an empty registry. A zero logger disables
// logging (zerolog.Nop()).
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		subs:              make(map[RoutingKey]*Subscription),
		log:               log,
		deliveryTimeout:   DefaultDeliveryTimeout,
		cancelGracePeriod: DefaultCancelGracePeriod,
	}
}

// Allocate registers a new Active subscription for key. Fails with
// ErrDuplicateID if an Active entry already exists — reuse of a freed id
// is only legal once the previous subscription reached a terminal state
// (spec.md §3 invariant).
func (r *Registry) Allocate(key RoutingKey, bufSize int, cancelFn CancelFunc) (*Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.subs[key]; ok && !existing.State().terminal() {
		return nil, ErrDuplicateID
	}

	sub := newSubscription(key, bufSize, cancelFn, nil)
	r.subs[key] = sub
	return sub, nil
}

// AttachShared attaches to (or creates) a process-wide singleton
// subscription keyed by kind rather than id — the reference-counted
// sharing spec.md §4.F and S9 describe, used here by the position and
// completed-order streams. dial is the subscription's CancelFunc: it is
// kept only when no live shared subscription exists yet (created is then
// true and the caller sends the wire request), and it is issued on the
// wire only once the last attached consumer cancels. Every attached
// consumer gets the same *Subscription and reads from its one channel.
func (r *Registry) AttachShared(kind int32, bufSize int, dial CancelFunc) (sub *Subscription, created bool, err error) {
	key := RoutingKey{Kind: ByMessageKind, ID: kind}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.subs[key]; ok && !existing.State().terminal() {
		existing.addRef()
		return existing, false, nil
	}

	sub = newSubscription(key, bufSize, dial, nil)
	r.subs[key] = sub
	return sub, true, nil
}

// Lookup returns the subscription for key, if any live entry exists.
func (r *Registry) Lookup(key RoutingKey) (*Subscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.subs[key]
	return sub, ok
}

// Dispatch delivers an inbound frame to the owning subscription, or
// marks it Ended if kind is that subscription's end-of-stream marker.
// Router-only (spec.md §4.E step 5). Returns false if the registry has
// no entry for key, so the caller can fall back to the unsolicited sink;
// a terminal entry not yet removed by Drop still counts, and the frame is
// discarded.
func (r *Registry) Dispatch(key RoutingKey, fields []string, isEndOfStream bool) bool {
	r.mu.RLock()
	sub, ok := r.subs[key]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	if isEndOfStream {
		sub.End()
		return true
	}

	if !sub.deliver(fields, r.deliveryTimeout) {
		if sub.Fail(ErrOverrun) {
			r.metrics.incOverruns()
			r.log.Warn().
				Int32("id", key.ID).
				Msg("subscriber overrun, channel send timed out")
		}
		return true
	}
	return true
}

// Cancel is idempotent: it moves an Active subscription to Cancelled and
// emits its cancel wire message exactly once. For shared subscriptions
// the wire cancel is only actually sent once the ref count reaches zero;
// callers pass the frame to a send function so this package stays
// transport-agnostic.
func (r *Registry) Cancel(key RoutingKey, send func(fields []string) error) error {
	r.mu.RLock()
	sub, ok := r.subs[key]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	last := sub.release()
	if !last {
		return nil
	}

	if sub.State().terminal() {
		return nil
	}

	var sendErr error
	sub.cancelOnce.Do(func() {
		if sub.cancelFn != nil {
			frame := sub.cancelFn()
			if frame != nil && send != nil {
				sendErr = send(frame)
			}
		}
		sub.cancelled()
	})
	return sendErr
}

// Drop removes a terminal (or forcibly cancelled) subscription from the
// registry, after the configured grace period has had a chance to let
// the server's terminal frame arrive. Safe to call multiple times.
func (r *Registry) Drop(key RoutingKey) {
	time.AfterFunc(r.cancelGracePeriod, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if sub, ok := r.subs[key]; ok && sub.State().terminal() {
			delete(r.subs, key)
		}
	})
}

// FailAll drives every live subscription to Failed(err) — used by the
// router on connection shutdown (spec.md §4.E "Shutdown").
func (r *Registry) FailAll(err error) {
	r.mu.RLock()
	subs := make([]*Subscription, 0, len(r.subs))
	for _, s := range r.subs {
		subs = append(subs, s)
	}
	r.mu.RUnlock()

	for _, s := range subs {
		s.Fail(err)
	}
}

// Len reports the number of tracked entries, live or terminal-but-not-
// yet-reaped. Exposed for tests and metrics.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
