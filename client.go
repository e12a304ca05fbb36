package ibapi

import (
	"context"
	"fmt"
	"net"
	"time"
)

// Client wires together the four core subsystems spec.md §2 describes:
// the frame/handshake layer (A/C), the id generator (D), the router and
// subscription registry (E/F), and the trace and pacing side effects
// (H/J). It mirrors the teacher's Client/newBroker wiring (DESIGN.md
// "Client"), generalized from a pool of per-node brokers down to the
// single multiplexed connection this protocol requires.
type Client struct {
	cfg     cfg
	conn    *conn
	registry *Registry
	idgen   *idGenerator
	router  *Router
	tracer  *Tracer
	metrics *Metrics

	serverVersion   int32
	serverTime      string
	managedAccounts string
}

// Connect dials the gateway, performs the handshake, and starts the
// router. It blocks until both ManagedAccounts and NextValidId arrive
// or HandshakeTimeout elapses (spec.md §4.C).
func Connect(ctx context.Context, opts ...Option) (*Client, error) {
	base, err := LoadDialConfig()
	if err != nil {
		return nil, fmt.Errorf("ibapi: loading dial config: %w", err)
	}
	c := defaultCfgFrom(base)
	for _, opt := range opts {
		opt(&c)
	}

	addr := net.JoinHostPort(c.host, fmt.Sprintf("%d", c.port))
	c.logger.Debug().Str("addr", addr).Msg("dialing gateway")

	var d net.Dialer
	netConn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("ibapi: dial %s: %w", addr, err)
	}

	p := newPacer(c.pacingRate, c.pacingBurst)
	cn := newConn(netConn, c.maxFrameSize, p, c.tracer, c.logger, c.metrics)

	handshakeStart := time.Now()
	if err := sendPreamble(cn, MinServerVersion, c.maxVersion); err != nil {
		netConn.Close()
		return nil, fmt.Errorf("ibapi: sending preamble: %w", err)
	}

	serverVersion, serverTime, err := readServerVersion(cn)
	if err != nil {
		netConn.Close()
		return nil, fmt.Errorf("ibapi: reading server version: %w", err)
	}
	if int(serverVersion) < c.minServerVersion {
		netConn.Close()
		return nil, &ServerVersionUnsupportedError{Required: c.minServerVersion, Actual: int(serverVersion)}
	}
	c.logger.Debug().Int32("server_version", serverVersion).Str("server_time", serverTime).Msg("handshake negotiated")

	if err := cn.writeFrame(ctx, buildStartAPI(c.clientID, ""), false); err != nil {
		netConn.Close()
		return nil, fmt.Errorf("ibapi: sending StartApi: %w", err)
	}

	idgen := newIDGenerator()
	startup := newStartupSignals()
	registry := NewRegistry(c.logger)
	registry.metrics = c.metrics
	router := NewRouter(cn, registry, idgen, startup, c.logger)
	go router.Run()

	accounts, _, err := startup.await(c.handshakeTimeout)
	if err != nil {
		netConn.Close()
		return nil, err
	}
	c.metrics.observeHandshakeSeconds(time.Since(handshakeStart).Seconds())

	return &Client{
		cfg:             c,
		conn:            cn,
		registry:        registry,
		idgen:           idgen,
		router:          router,
		tracer:          c.tracer,
		metrics:         c.metrics,
		serverVersion:   serverVersion,
		serverTime:      serverTime,
		managedAccounts: accounts,
	}, nil
}

// ServerVersion returns the negotiated protocol version controlling
// every codec decision (spec.md §4.C).
func (c *Client) ServerVersion() int32 { return c.serverVersion }

// ClientID returns the client id this connection registered with.
func (c *Client) ClientID() int32 { return c.cfg.clientID }

// ManagedAccounts returns the comma-separated account list captured
// during the handshake.
func (c *Client) ManagedAccounts() string { return c.managedAccounts }

// NextRequestID allocates the next request id (Component D).
func (c *Client) NextRequestID() int32 { return c.idgen.NextRequestID() }

// NextOrderID returns-then-increments the server-seeded order id counter
// (Component D).
func (c *Client) NextOrderID() int32 { return c.idgen.NextOrderID() }

// LastInteraction returns a snapshot of the most recent request/response
// pair (Component H).
func (c *Client) LastInteraction() Interaction { return c.tracer.LastInteraction() }

// Connected reports whether the router's reader loop is still running.
func (c *Client) Connected() bool { return c.router.Connected() }

// Done is closed once the connection has been torn down, by either side.
func (c *Client) Done() <-chan struct{} { return c.router.Done() }

// Unsolicited exposes connection-level notices and errors with no owning
// subscription (gateway shutdown notices, data-farm warnings, etc.).
func (c *Client) Unsolicited() <-chan Item { return c.router.Unsolicited() }

// Close tears down the underlying connection. The router observes the
// resulting read error and drives every live subscription to
// Failed(Disconnected).
func (c *Client) Close() error {
	return c.conn.close()
}

// send writes an already-encoded request frame, respecting the pacing
// gate unless bypass is set (cancel messages bypass per spec.md §4.J).
func (c *Client) send(ctx context.Context, fields []string, bypass bool) error {
	if !c.Connected() {
		return ErrNotConnected
	}
	return c.conn.writeFrame(ctx, fields, bypass)
}

// subscribe allocates a request-id-keyed subscription and sends the
// encoded request frame, implementing the control flow spec.md §2
// describes: allocate id -> encode -> register -> send -> return handle.
func (c *Client) subscribe(ctx context.Context, requestID int32, bufSize int, request []string, cancelFn CancelFunc) (*Subscription, error) {
	key := RoutingKey{Kind: ByRequestID, ID: requestID}
	sub, err := c.registry.Allocate(key, bufSize, cancelFn)
	if err != nil {
		return nil, err
	}
	if err := c.send(ctx, request, false); err != nil {
		sub.Fail(err)
		return nil, err
	}
	return sub, nil
}

// subscribeOrder allocates an order-id-keyed subscription (OrderStatus,
// OpenOrder and ExecutionData route by order id, not request id;
// CommissionReport frames carry no order id and are not delivered here)
// and sends the encoded request.
func (c *Client) subscribeOrder(ctx context.Context, orderID int32, bufSize int, request []string, cancelFn CancelFunc) (*Subscription, error) {
	key := RoutingKey{Kind: ByOrderID, ID: orderID}
	sub, err := c.registry.Allocate(key, bufSize, cancelFn)
	if err != nil {
		return nil, err
	}
	if err := c.send(ctx, request, false); err != nil {
		sub.Fail(err)
		return nil, err
	}
	return sub, nil
}

// attachShared attaches to (creating if necessary) a process-wide
// singleton subscription keyed by response kind, issuing the dial
// request only for the first attaching consumer (spec.md §4.F "Shared-
// channel subscriptions").
func (c *Client) attachShared(ctx context.Context, responseKind int32, bufSize int, request []string, cancelFn CancelFunc) (*Subscription, error) {
	sub, created, err := c.registry.AttachShared(responseKind, bufSize, cancelFn)
	if err != nil {
		return nil, err
	}
	if created {
		if err := c.send(ctx, request, false); err != nil {
			sub.Fail(err)
			return nil, err
		}
	}
	return sub, nil
}

// Cancel cancels a subscription identified by its routing key, emitting
// the wire cancel frame exactly once (spec.md §4.F "cancel(id)").
func (c *Client) Cancel(key RoutingKey) error {
	return c.registry.Cancel(key, func(fields []string) error {
		return c.send(context.Background(), fields, true)
	})
}

// Drop releases a subscription's registry entry after the grace period,
// implying Cancel first if it was still Active (spec.md §4.F "drop").
func (c *Client) Drop(key RoutingKey) {
	c.Cancel(key)
	c.registry.Drop(key)
}
