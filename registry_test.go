package ibapi

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestAllocateDuplicateID(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	key := RoutingKey{Kind: ByRequestID, ID: 9001}

	if _, err := reg.Allocate(key, 4, nil); err != nil {
		t.Fatalf("first allocate: %v", err)
	}
	if _, err := reg.Allocate(key, 4, nil); err != ErrDuplicateID {
		t.Fatalf("expected ErrDuplicateID on live reuse, got %v", err)
	}
}

// TestAllocateReusesTerminalID matches spec.md §3: reuse of a freed id is
// allowed once the previous subscription reached a terminal state.
func TestAllocateReusesTerminalID(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	key := RoutingKey{Kind: ByRequestID, ID: 9002}

	sub, err := reg.Allocate(key, 4, nil)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	sub.End()

	if _, err := reg.Allocate(key, 4, nil); err != nil {
		t.Fatalf("expected reuse of terminal id to succeed, got %v", err)
	}
}

// TestCancelIdempotent is S7: cancel(id) emits the registered cancel
// frame exactly once and is idempotent.
func TestCancelIdempotent(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	key := RoutingKey{Kind: ByRequestID, ID: 9003}

	var cancelCalls int32
	cancelFn := func() []string {
		atomic.AddInt32(&cancelCalls, 1)
		return []string{"2", "1", "9003"}
	}
	if _, err := reg.Allocate(key, 4, cancelFn); err != nil {
		t.Fatalf("allocate: %v", err)
	}

	var sendCalls int32
	send := func(fields []string) error {
		atomic.AddInt32(&sendCalls, 1)
		return nil
	}

	if err := reg.Cancel(key, send); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if err := reg.Cancel(key, send); err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if err := reg.Cancel(key, send); err != nil {
		t.Fatalf("third cancel: %v", err)
	}

	if got := atomic.LoadInt32(&cancelCalls); got != 1 {
		t.Fatalf("expected cancel frame built exactly once, got %d", got)
	}
	if got := atomic.LoadInt32(&sendCalls); got != 1 {
		t.Fatalf("expected cancel frame sent exactly once, got %d", got)
	}

	sub, _ := reg.Lookup(key)
	if sub.State() != StateCancelled {
		t.Fatalf("expected Cancelled, got %v", sub.State())
	}
}

// TestSharedSubscriptionRefCounting is S9: two consumers attached to a
// process-wide singleton see the same frames; the wire-level cancel is
// sent only when both handles drop.
func TestSharedSubscriptionRefCounting(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())

	sub1, created1, err := reg.AttachShared(KindPosition, 8, func() []string { return []string{"64"} })
	if err != nil || !created1 {
		t.Fatalf("first attach should create: created=%v err=%v", created1, err)
	}

	sub2, created2, err := reg.AttachShared(KindPosition, 8, func() []string { return []string{"64"} })
	if err != nil || created2 {
		t.Fatalf("second attach should reuse existing: created=%v err=%v", created2, err)
	}
	if sub1 != sub2 {
		t.Fatalf("expected the same shared subscription instance")
	}

	key := RoutingKey{Kind: ByMessageKind, ID: KindPosition}
	reg.Dispatch(key, []string{"61", "field"}, false)

	item1, ok1 := sub1.NextTimeout(time.Second)
	if !ok1 {
		t.Fatalf("consumer 1 should see the dispatched frame")
	}
	item2, ok2 := sub2.NextTimeout(time.Second)
	if !ok2 {
		t.Fatalf("consumer 2 should see the dispatched frame")
	}
	if len(item1.Fields) != len(item2.Fields) {
		t.Fatalf("both consumers should see the same frame shape")
	}

	var sent int32
	send := func(fields []string) error {
		atomic.AddInt32(&sent, 1)
		return nil
	}

	if err := reg.Cancel(key, send); err != nil {
		t.Fatalf("cancel for consumer 1: %v", err)
	}
	if got := atomic.LoadInt32(&sent); got != 0 {
		t.Fatalf("cancel should not hit the wire while a second consumer remains attached, got %d sends", got)
	}

	if err := reg.Cancel(key, send); err != nil {
		t.Fatalf("cancel for consumer 2: %v", err)
	}
	if got := atomic.LoadInt32(&sent); got != 1 {
		t.Fatalf("expected wire cancel on last-ref drop, got %d sends", got)
	}
}

// TestFailAllDrivesEveryLiveSubscriptionTerminal is invariant 5: every
// Active subscription eventually reaches a terminal state after router
// shutdown.
func TestFailAllDrivesEveryLiveSubscriptionTerminal(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	var subs []*Subscription
	for i := int32(0); i < 10; i++ {
		sub, err := reg.Allocate(RoutingKey{Kind: ByRequestID, ID: 9000 + i}, 4, nil)
		if err != nil {
			t.Fatalf("allocate %d: %v", i, err)
		}
		subs = append(subs, sub)
	}

	reg.FailAll(ErrDisconnected)

	for i, sub := range subs {
		if sub.State() != StateFailed {
			t.Fatalf("subscription %d expected Failed, got %v", i, sub.State())
		}
	}
}

// TestAtMostOneActiveSubscriptionPerKey is invariant 4.
func TestAtMostOneActiveSubscriptionPerKey(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	key := RoutingKey{Kind: ByOrderID, ID: 55}

	if _, err := reg.Allocate(key, 4, nil); err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if _, err := reg.Allocate(key, 4, nil); err != ErrDuplicateID {
		t.Fatalf("expected duplicate id rejection while active, got %v", err)
	}
}
