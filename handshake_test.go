package ibapi

import (
	"bytes"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSendPreambleWritesMagicAndVersionRange(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	cn := newConn(client, 0, nil, nil, zerolog.Nop(), nil)

	errc := make(chan error, 1)
	go func() { errc <- sendPreamble(cn, 151, 251) }()

	buf := make([]byte, len(handshakeMagic))
	if _, err := readFull(server, buf); err != nil {
		t.Fatalf("reading magic: %v", err)
	}
	if !bytes.Equal(buf, handshakeMagic) {
		t.Fatalf("expected magic %q, got %q", handshakeMagic, buf)
	}

	var lenBuf [4]byte
	if _, err := readFull(server, lenBuf[:]); err != nil {
		t.Fatalf("reading length prefix: %v", err)
	}
	size := binary.BigEndian.Uint32(lenBuf[:])

	token := make([]byte, size)
	if _, err := readFull(server, token); err != nil {
		t.Fatalf("reading version token: %v", err)
	}
	if got, want := string(token), "v151..251"; got != want {
		t.Fatalf("expected version token %q, got %q", want, got)
	}

	if err := <-errc; err != nil {
		t.Fatalf("sendPreamble: %v", err)
	}
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func TestReadServerVersion(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	cn := newConn(client, 0, nil, nil, zerolog.Nop(), nil)

	go func() {
		w := newFrameWriter(server)
		w.writeFrame([]string{"178", "20250101 00:00:00 UTC"})
	}()

	version, serverTime, err := readServerVersion(cn)
	if err != nil {
		t.Fatalf("readServerVersion: %v", err)
	}
	if version != 178 {
		t.Fatalf("expected version 178, got %d", version)
	}
	if serverTime != "20250101 00:00:00 UTC" {
		t.Fatalf("unexpected server time %q", serverTime)
	}
}

func TestStartupSignalsAwaitTimeout(t *testing.T) {
	s := newStartupSignals()
	_, _, err := s.await(0)
	if err != ErrHandshakeTimeout {
		t.Fatalf("expected ErrHandshakeTimeout, got %v", err)
	}
}

func TestStartupSignalsAwaitBothArrive(t *testing.T) {
	s := newStartupSignals()
	s.managedAccounts <- "DU1234567"
	s.nextValidID <- 42

	accounts, nextID, err := s.await(time.Second)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	if accounts != "DU1234567" {
		t.Fatalf("expected DU1234567, got %q", accounts)
	}
	if nextID != 42 {
		t.Fatalf("expected 42, got %d", nextID)
	}
}

func TestBuildStartAPI(t *testing.T) {
	fields := buildStartAPI(7, "")
	if fields[0] != "71" {
		t.Fatalf("expected kind 71, got %s", fields[0])
	}
	if fields[2] != "7" {
		t.Fatalf("expected client id field '7', got %s", fields[2])
	}
}
