package ibapi

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Router is the single reader loop that demultiplexes inbound frames to
// the subscription that owns them (spec.md §4.E, Component E). It is
// the direct generalization of the teacher's handleResps goroutine
// (DESIGN.md "Router"): one reader, no virtual hierarchy, a compile-time
// routing table instead of per-message dispatch methods.
type Router struct {
	conn     *conn
	registry *Registry
	idgen    *idGenerator
	startup  *startupSignals
	log      zerolog.Logger

	// unsolicited receives frames whose kind or id has no owning
	// subscription (connection-level errors and notices), so callers can
	// surface them without every caller polling the registry.
	unsolicited chan Item

	connected int32 // atomic bool
	done      chan struct{}
}

// NewRouter wires a reader loop against conn/registry/idgen. startup may
// be nil once the initial handshake signals have already been consumed
// (the router keeps forwarding NextValidId/ManagedAccounts afterward
// regardless, since the server can resend NextValidId at any time).
func NewRouter(c *conn, reg *Registry, idgen *idGenerator, startup *startupSignals, log zerolog.Logger) *Router {
	return &Router{
		conn:        c,
		registry:    reg,
		idgen:       idgen,
		startup:     startup,
		log:         log,
		unsolicited: make(chan Item, 64),
		connected:   1,
		done:        make(chan struct{}),
	}
}

// Unsolicited exposes the channel of frames with no owning subscription.
func (r *Router) Unsolicited() <-chan Item {
	return r.unsolicited
}

// Done is closed once the reader loop has exited (EOF or fatal I/O
// error) and every live subscription has been driven to Failed.
func (r *Router) Done() <-chan struct{} {
	return r.done
}

// Connected reports whether the reader loop is still running.
func (r *Router) Connected() bool {
	return atomic.LoadInt32(&r.connected) == 1
}

// Run is the reader loop itself; call it from a dedicated goroutine. It
// returns only on shutdown, after draining every live subscription to
// Failed(Disconnected) (spec.md §4.E "Shutdown").
func (r *Router) Run() {
	defer r.shutdown()

	for {
		fields, err := r.conn.readFrame()
		if err != nil {
			r.log.Error().Err(err).Msg("router read failed, shutting down")
			return
		}
		r.dispatchFrame(fields)
	}
}

func (r *Router) shutdown() {
	atomic.StoreInt32(&r.connected, 0)
	r.registry.FailAll(ErrDisconnected)
	close(r.unsolicited)
	close(r.done)
}

// dispatchFrame implements spec.md §4.E steps 1-5 for a single inbound
// frame.
func (r *Router) dispatchFrame(fields []string) {
	if len(fields) == 0 {
		return
	}
	kindVal, err := strconv.ParseInt(fields[0], 10, 32)
	if err != nil {
		r.log.Warn().Str("field0", fields[0]).Msg("non-numeric message kind, dropping frame")
		return
	}
	kind := int32(kindVal)

	if kind == KindError {
		r.dispatchError(fields)
		return
	}

	r.captureStartupSignal(kind, fields)

	route, ok := routeFor(kind)
	if !ok {
		r.forwardUnsolicited(fields)
		return
	}

	switch route.mode {
	case RouteByKind:
		// Shared kind-keyed streams (positions, account updates) have a
		// process-wide subscription; everything else is connection-level.
		if route.sharedKey != 0 {
			key := RoutingKey{Kind: ByMessageKind, ID: route.sharedKey}
			isEnd := route.endOfStream != 0 && kind == route.endOfStream
			if r.registry.Dispatch(key, fields, isEnd) {
				return
			}
		}
		r.forwardUnsolicited(fields)
	case RouteByRequestID, RouteByOrderID:
		key := r.extractKey(route, kind, fields)
		isEnd := route.endOfStream != 0 && kind == route.endOfStream
		if !r.registry.Dispatch(key, fields, isEnd) {
			r.forwardUnsolicited(fields)
		}
	}
}

func (r *Router) extractKey(route kindRoute, kind int32, fields []string) RoutingKey {
	byKind := ByRequestID
	if route.mode == RouteByOrderID {
		byKind = ByOrderID
	}

	idx := route.keyField + 1 // +1: keyField is offset past the kind field itself
	var id int32
	if idx >= 0 && idx < len(fields) {
		if v, err := strconv.ParseInt(fields[idx], 10, 32); err == nil {
			id = int32(v)
		}
	}
	return RoutingKey{Kind: byKind, ID: id}
}

// captureStartupSignal feeds ManagedAccounts and NextValidId to Connect
// if it is still waiting, and always seeds the order-id generator from
// NextValidId regardless of handshake status (the server may resend it
// later; spec.md §4.D "the seed is monotonic").
func (r *Router) captureStartupSignal(kind int32, fields []string) {
	// Both messages carry a message-version field between the kind and
	// the payload.
	switch kind {
	case KindManagedAccounts:
		if len(fields) > 2 && r.startup != nil {
			select {
			case r.startup.managedAccounts <- fields[2]:
			default:
			}
		}
	case KindNextValidID:
		if len(fields) > 2 {
			if v, err := strconv.ParseInt(fields[2], 10, 32); err == nil {
				r.idgen.SeedOrderID(int32(v))
				if r.startup != nil {
					select {
					case r.startup.nextValidID <- int32(v):
					default:
					}
				}
			}
		}
	}
}

// dispatchError handles the Error response kind: id, code, text. If the
// id belongs to a live subscription it is routed there as a Failed
// transition for fatal classes, or forwarded as an in-band item for
// every other class, connection-level codes included; unattributed ids
// (-1 or unknown) are broadcast via Unsolicited whatever their code
// (spec.md §4.E "Error-kind frames").
func (r *Router) dispatchError(fields []string) {
	var id, code int32
	var text string
	if len(fields) > 1 {
		if v, err := strconv.ParseInt(fields[1], 10, 32); err == nil {
			id = int32(v)
		}
	}
	if len(fields) > 2 {
		if v, err := strconv.ParseInt(fields[2], 10, 32); err == nil {
			code = int32(v)
		}
	}
	if len(fields) > 3 {
		text = fields[3]
	}

	class := ClassifyProtocolError(int(code))
	protoErr := &ProtocolError{RequestID: int(id), Code: int(code), Text: text, Class: class}

	if id >= 0 {
		if sub, ok := r.registry.Lookup(RoutingKey{Kind: ByRequestID, ID: id}); ok {
			if class == ErrorClassFatal {
				sub.Fail(protoErr)
				return
			}
			sub.deliver(fields, r.registry.deliveryTimeout)
			return
		}
		if sub, ok := r.registry.Lookup(RoutingKey{Kind: ByOrderID, ID: id}); ok {
			if class == ErrorClassFatal {
				sub.Fail(protoErr)
				return
			}
			sub.deliver(fields, r.registry.deliveryTimeout)
			return
		}
	}

	r.log.Warn().Int32("id", id).Int32("code", code).Str("text", text).Msg("unattributed protocol error")
	r.forwardUnsolicited(fields)
}

func (r *Router) forwardUnsolicited(fields []string) {
	select {
	case r.unsolicited <- Item{Fields: fields}:
	default:
		r.log.Warn().Msg("unsolicited channel full, dropping frame")
	}
}
