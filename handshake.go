package ibapi

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"time"
)

// handshakeMagic is the fixed preamble TWS expects before any framed
// message (spec.md §6 "Handshake bytes").
var handshakeMagic = []byte("API\x00")

// DefaultHandshakeTimeout bounds how long Connect waits for both
// ManagedAccounts and NextValidId after StartApi (spec.md §4.C).
const DefaultHandshakeTimeout = 10 * time.Second

// versionRangeToken renders the ASCII "v{min}..{max}" token the client
// offers during the preamble.
func versionRangeToken(min, max int) string {
	return fmt.Sprintf("v%d..%d", min, max)
}

// sendPreamble writes the magic bytes followed by a 4-byte big-endian
// length and the ASCII version-range token (spec.md §6).
func sendPreamble(c *conn, minVersion, maxVersion int) error {
	token := []byte(versionRangeToken(minVersion, maxVersion))
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(token)))

	buf := make([]byte, 0, len(handshakeMagic)+4+len(token))
	buf = append(buf, handshakeMagic...)
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, token...)
	return c.writeRaw(buf)
}

// readServerVersion reads the server's reply frame: its chosen protocol
// version and its time string, forming server_version (spec.md §4.C
// step 2).
func readServerVersion(c *conn) (serverVersion int32, serverTime string, err error) {
	fields, err := c.readFrame()
	if err != nil {
		return 0, "", err
	}
	if len(fields) < 1 {
		return 0, "", &ParseError{Position: 0, Field: "", Reason: "empty handshake response"}
	}
	v, convErr := strconv.ParseInt(fields[0], 10, 32)
	if convErr != nil {
		return 0, "", &ParseError{Position: 0, Field: fields[0], Reason: "server version not numeric"}
	}
	if len(fields) > 1 {
		serverTime = fields[1]
	}
	return int32(v), serverTime, nil
}

// buildStartAPI encodes the StartApi message that begins the normal
// framed stream (spec.md §4.C step 3).
func buildStartAPI(clientID int32, optionalCapabilities string) []string {
	w := NewMessageWriter()
	w.PushInt(KindStartApi)
	w.PushString("2") // StartApi version
	w.PushInt(clientID)
	w.PushString(optionalCapabilities)
	return w.Fields()
}

// startupSignals collects the two unsolicited messages the router must
// observe before Connect returns control to the caller: ManagedAccounts
// and NextValidId (spec.md §4.C step 4). The router feeds these as it
// encounters them during the normal dispatch loop; Connect blocks on
// both or times out.
type startupSignals struct {
	managedAccounts chan string
	nextValidID     chan int32
}

func newStartupSignals() *startupSignals {
	return &startupSignals{
		managedAccounts: make(chan string, 1),
		nextValidID:     make(chan int32, 1),
	}
}

// await blocks until both signals arrive or timeout elapses.
func (s *startupSignals) await(timeout time.Duration) (accounts string, initialOrderID int32, err error) {
	deadline := time.After(timeout)

	var gotAccounts, gotNextID bool
	for !gotAccounts || !gotNextID {
		select {
		case accounts = <-s.managedAccounts:
			gotAccounts = true
		case initialOrderID = <-s.nextValidID:
			gotNextID = true
		case <-deadline:
			return "", 0, ErrHandshakeTimeout
		}
	}
	return accounts, initialOrderID, nil
}
