package ibapi

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"net"
)

// DefaultMaxFrameSize is the largest frame this client will accept before
// giving up with ErrFrameTooLarge, rejecting sizes the codec could not
// plausibly need.
const DefaultMaxFrameSize = 16 << 20 // 16 MiB

// frameReader reads length-prefixed, NUL-delimited field frames off a
// net.Conn's read half: read exactly 4 bytes for the size, then read
// exactly that many payload bytes, translating EOF/short-read into a
// sentinel error rather than a raw I/O error.
type frameReader struct {
	conn    net.Conn
	maxSize int
}

func newFrameReader(conn net.Conn, maxSize int) *frameReader {
	if maxSize <= 0 {
		maxSize = DefaultMaxFrameSize
	}
	return &frameReader{conn: conn, maxSize: maxSize}
}

// readFrame reads one frame and splits its payload into an ordered field
// sequence. A trailing empty field produced by the terminal NUL is
// preserved, since decoders depend on it to detect end-of-message.
func (r *frameReader) readFrame() ([]string, error) {
	var sizeBuf [4]byte
	if _, err := io.ReadFull(r.conn, sizeBuf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrConnectionClosed
		}
		return nil, fmt.Errorf("ibapi: frame size read: %w", err)
	}

	size := int(binary.BigEndian.Uint32(sizeBuf[:]))
	if size < 0 || size > r.maxSize {
		return nil, ErrFrameTooLarge
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r.conn, payload); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrConnectionClosed
		}
		return nil, fmt.Errorf("ibapi: frame payload read: %w", err)
	}

	return splitFields(payload), nil
}

// splitFields splits a NUL-delimited payload into fields. Each field is
// terminated by NUL; the trailing empty field produced by a payload that
// ends in NUL is kept, matching TWS's own framing.
func splitFields(payload []byte) []string {
	if len(payload) == 0 {
		return nil
	}
	parts := bytes.Split(payload, []byte{0})
	// bytes.Split on a NUL-terminated payload yields one trailing empty
	// []byte for the final terminator; callers rely on that trailing
	// field being present.
	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = string(p)
	}
	return fields
}

// frameWriter writes frames to a net.Conn's write half. It does no
// internal locking; conn.go serializes every call to it under its
// writeMu mutex.
type frameWriter struct {
	conn net.Conn
}

func newFrameWriter(conn net.Conn) *frameWriter {
	return &frameWriter{conn: conn}
}

// writeFrame encodes fields (each terminated by NUL) length-prefixed by a
// 4-byte big-endian size, and writes it in a single Write call so the
// frame is never interleaved with a concurrent writer even if one
// bypassed the documented single-writer discipline.
func (w *frameWriter) writeFrame(fields []string) error {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 0}) // size placeholder
	for _, f := range fields {
		buf.WriteString(f)
		buf.WriteByte(0)
	}

	body := buf.Bytes()[4:]
	var sizeBuf [4]byte
	binary.BigEndian.PutUint32(sizeBuf[:], uint32(len(body)))
	copy(buf.Bytes()[:4], sizeBuf[:])

	_, err := w.conn.Write(buf.Bytes())
	if err != nil {
		return fmt.Errorf("ibapi: frame write: %w", err)
	}
	return nil
}

// writeRaw writes a pre-framed byte sequence verbatim; used only by the
// handshake for the magic-prefix + version-range preamble, which is not
// itself a NUL-delimited field frame.
func (w *frameWriter) writeRaw(b []byte) error {
	_, err := w.conn.Write(b)
	if err != nil {
		return fmt.Errorf("ibapi: raw write: %w", err)
	}
	return nil
}
