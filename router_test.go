package ibapi

import (
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// TestRouterShutdownOnEOFFailsSubscriptions is S8: reader EOF drives
// every live subscription to Failed(Disconnected) within a bounded
// number of scheduler turns.
func TestRouterShutdownOnEOFFailsSubscriptions(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()

	cn := newConn(client, 0, nil, nil, zerolog.Nop(), nil)
	reg := NewRegistry(zerolog.Nop())
	idgen := newIDGenerator()
	router := NewRouter(cn, reg, idgen, nil, zerolog.Nop())

	sub, err := reg.Allocate(RoutingKey{Kind: ByRequestID, ID: 9100}, 4, nil)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	done := make(chan struct{})
	go func() {
		router.Run()
		close(done)
	}()

	server.Close() // triggers EOF on the client's read half

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("router did not shut down after EOF")
	}

	if sub.State() != StateFailed {
		t.Fatalf("expected subscription Failed after shutdown, got %v", sub.State())
	}
	if router.Connected() {
		t.Fatal("router should report disconnected after shutdown")
	}
}

// TestRouterDispatchesByRequestID exercises the common routing path: an
// inbound frame carrying a request id is delivered to the subscription
// that owns it.
func TestRouterDispatchesByRequestID(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	cn := newConn(client, 0, nil, nil, zerolog.Nop(), nil)
	reg := NewRegistry(zerolog.Nop())
	idgen := newIDGenerator()
	router := NewRouter(cn, reg, idgen, nil, zerolog.Nop())

	sub, err := reg.Allocate(RoutingKey{Kind: ByRequestID, ID: 9200}, 4, nil)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	go router.Run()
	defer func() {
		server.Close()
	}()

	fields := []string{"2", "1", "9200", "100", "1.25", "0"} // TickSize-shaped: kind, version, reqId, ...
	go func() {
		w := newFrameWriter(server)
		w.writeFrame(fields)
	}()

	item, ok := sub.NextTimeout(2 * time.Second)
	if !ok {
		t.Fatal("expected a delivered item before timeout")
	}
	// The frame reader keeps the empty field after the terminal NUL.
	if len(item.Fields) != len(fields)+1 {
		t.Fatalf("expected %d fields, got %d", len(fields)+1, len(item.Fields))
	}
}

// TestRouterForwardsUnattributedErrorsAsUnsolicited matches spec.md
// §4.E: an Error frame with an unknown/negative id and no owning
// subscription is broadcast via Unsolicited.
func TestRouterForwardsUnattributedErrorsAsUnsolicited(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	cn := newConn(client, 0, nil, nil, zerolog.Nop(), nil)
	reg := NewRegistry(zerolog.Nop())
	idgen := newIDGenerator()
	router := NewRouter(cn, reg, idgen, nil, zerolog.Nop())

	go router.Run()

	fields := []string{"4", "-1", "1100", "Connectivity between IB and TWS has been lost."}
	go func() {
		w := newFrameWriter(server)
		w.writeFrame(fields)
	}()

	select {
	case item := <-router.Unsolicited():
		// The frame reader keeps the empty field after the terminal NUL.
		if len(item.Fields) != len(fields)+1 {
			t.Fatalf("expected %d fields, got %d", len(fields)+1, len(item.Fields))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected the unattributed error to be forwarded as unsolicited")
	}
}
