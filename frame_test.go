package ibapi

import (
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFrameRoundTrip(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	w := newFrameWriter(server)
	r := newFrameReader(client, 0)

	fields := []string{"71", "2", "9000", ""}

	errc := make(chan error, 1)
	go func() { errc <- w.writeFrame(fields) }()

	got, err := r.readFrame()
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("writeFrame: %v", err)
	}

	// The reader keeps the empty field after the terminal NUL, so the
	// written fields come back followed by one extra "".
	want := []string{"71", "2", "9000", "", ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFrameTooLarge(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	r := newFrameReader(client, 8)

	go func() {
		// A declared size larger than the configured max.
		server.Write([]byte{0, 0, 0, 100})
	}()

	_, err := r.readFrame()
	if err != ErrFrameTooLarge {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
}

func TestFrameConnectionClosed(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	server.Close()

	r := newFrameReader(client, 0)
	_, err := r.readFrame()
	if err != ErrConnectionClosed {
		t.Fatalf("expected ErrConnectionClosed, got %v", err)
	}
}

func TestSplitFieldsPreservesTrailingEmpty(t *testing.T) {
	payload := []byte("71\x002\x009000\x00\x00")
	got := splitFields(payload)
	want := []string{"71", "2", "9000", "", ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("splitFields mismatch (-want +got):\n%s", diff)
	}
}
