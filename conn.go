package ibapi

import (
	"context"
	"net"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// conn owns one TCP connection to the gateway: a frameReader on the read
// half, a frameWriter on the write half serialized by writeMu, the pacer
// gating everything but cancel frames, and the trace hook invocation.
// This is the brokerCxn-equivalent of the teacher (DESIGN.md "Frame I/O"
// / "Router"), generalized from per-broker-type sub-connections down to
// the single connection this protocol multiplexes everything over.
type conn struct {
	netConn net.Conn
	reader  *frameReader
	writer  *frameWriter

	writeMu sync.Mutex
	pacer   *pacer
	tracer  *Tracer
	log     zerolog.Logger
	metrics *Metrics
}

func newConn(netConn net.Conn, maxFrameSize int, p *pacer, tracer *Tracer, log zerolog.Logger, metrics *Metrics) *conn {
	return &conn{
		netConn: netConn,
		reader:  newFrameReader(netConn, maxFrameSize),
		writer:  newFrameWriter(netConn),
		pacer:   p,
		tracer:  tracer,
		log:     log,
		metrics: metrics,
	}
}

// readFrame reads the next frame, invoking the trace hook on success.
func (c *conn) readFrame() ([]string, error) {
	fields, err := c.reader.readFrame()
	if err != nil {
		return nil, err
	}
	if c.tracer != nil {
		c.tracer.RecordResponse(displayFields(fields))
	}
	c.metrics.incFramesReceived()
	c.log.Debug().Int("fields", len(fields)).Msg("read frame")
	return fields, nil
}

// writeFrame serializes one outbound frame through the pacer (unless
// bypass is set, for cancel messages per spec.md §4.J), the write-half
// mutex, and the trace hook.
func (c *conn) writeFrame(ctx context.Context, fields []string, bypass bool) error {
	if !bypass && c.pacer != nil {
		if err := c.pacer.wait(ctx); err != nil {
			return err
		}
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.tracer != nil {
		c.tracer.RecordRequest(displayFields(fields))
	}
	if err := c.writer.writeFrame(fields); err != nil {
		return err
	}
	c.metrics.incFramesSent()
	c.log.Debug().Int("fields", len(fields)).Msg("wrote frame")
	return nil
}

// writeRaw sends the unframed handshake preamble bytes.
func (c *conn) writeRaw(b []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.writer.writeRaw(b)
}

func (c *conn) close() error {
	return c.netConn.Close()
}

// displayFields renders a field sequence the way the trace wants it
// shown: NUL-joined fields rendered as a readable, comma-joined string
// rather than the raw wire bytes.
func displayFields(fields []string) string {
	return strings.Join(fields, ",")
}
