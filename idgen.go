package ibapi

import "sync/atomic"

// requestIDBase is the fixed starting point for the request-id counter
// (spec.md §4.D), chosen well clear of any order id the server might
// assign so the two correlator spaces never collide in logs.
const requestIDBase = 9000

// idGenerator owns the two independent monotonic counters the client
// needs: one for caller-allocated request ids, one seeded by the
// server's NextValidId message for order ids. Both are plain atomics,
// mirroring the teacher's corrID counter in brokerCxn (spec.md §4.D;
// DESIGN.md "ID generator").
type idGenerator struct {
	requestID int64
	orderID   int64
}

func newIDGenerator() *idGenerator {
	g := &idGenerator{}
	atomic.StoreInt64(&g.requestID, requestIDBase)
	return g
}

// NextRequestID returns the next request id and advances the counter.
func (g *idGenerator) NextRequestID() int32 {
	return int32(atomic.AddInt64(&g.requestID, 1) - 1)
}

// SeedOrderID installs the server's NextValidId seed. The seed only ever
// raises the counter: a later, lower seed (e.g. after a gateway restart
// resends an older NextValidId) is ignored so in-flight order ids never
// regress and collide.
func (g *idGenerator) SeedOrderID(seed int32) {
	for {
		cur := atomic.LoadInt64(&g.orderID)
		if int64(seed) <= cur {
			return
		}
		if atomic.CompareAndSwapInt64(&g.orderID, cur, int64(seed)) {
			return
		}
	}
}

// NextOrderID returns the next order id and advances the counter
// (return-then-increment, as spec.md §4.D requires).
func (g *idGenerator) NextOrderID() int32 {
	return int32(atomic.AddInt64(&g.orderID, 1) - 1)
}

// CurrentOrderID reports the next order id that would be issued, without
// advancing the counter. Useful for diagnostics and tests.
func (g *idGenerator) CurrentOrderID() int32 {
	return int32(atomic.LoadInt64(&g.orderID))
}
