package ibapi

import (
	"math"
	"strconv"
)

// Sentinel wire values a field carries in place of a real value to mean
// "unset".
const (
	sentinelIntText    = "2147483647"
	sentinelLongText   = "9223372036854775807"
	sentinelDoubleText = "1.7976931348623157E308"
)

// MaxInt32Unset and MaxInt64Unset are the sentinel values themselves, for
// callers that want to compare decoded optionals by value rather than by
// Option-ness.
const (
	MaxInt32Unset = int32(math.MaxInt32)
	MaxInt64Unset = int64(math.MaxInt64)
)

// MessageBuffer is a cursor over one frame's ordered fields, with typed
// accessors matching the wire encoding. It is the decode counterpart to
// MessageWriter.
type MessageBuffer struct {
	fields []string
	pos    int
}

// NewMessageBuffer wraps a frame's fields for sequential typed reads.
func NewMessageBuffer(fields []string) *MessageBuffer {
	return &MessageBuffer{fields: fields}
}

// Len reports how many fields remain unread.
func (b *MessageBuffer) Len() int {
	return len(b.fields) - b.pos
}

func (b *MessageBuffer) advance() (string, int, bool) {
	if b.pos >= len(b.fields) {
		return "", b.pos, false
	}
	v := b.fields[b.pos]
	i := b.pos
	b.pos++
	return v, i, true
}

// Skip advances past one field without interpreting it.
func (b *MessageBuffer) Skip() {
	b.advance()
}

// NextString returns the next field as UTF-8 text; an empty field is a
// valid, non-error result.
func (b *MessageBuffer) NextString() (string, error) {
	v, _, ok := b.advance()
	if !ok {
		return "", nil
	}
	return v, nil
}

// NextInt reads the next field as an int32; an empty field decodes to 0.
func (b *MessageBuffer) NextInt() (int32, error) {
	v, pos, ok := b.advance()
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return 0, &ParseError{Position: pos, Field: v, Reason: "not a valid int"}
	}
	return int32(n), nil
}

// NextOptionalInt reads the next field as an int32, treating an empty
// field or the sentinel int32-max as "unset" (nil).
func (b *MessageBuffer) NextOptionalInt() (*int32, error) {
	v, pos, ok := b.advance()
	if !ok || v == "" || v == sentinelIntText {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return nil, &ParseError{Position: pos, Field: v, Reason: "not a valid optional int"}
	}
	i32 := int32(n)
	return &i32, nil
}

// NextLong reads the next field as an int64; an empty field decodes to 0.
func (b *MessageBuffer) NextLong() (int64, error) {
	v, pos, ok := b.advance()
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, &ParseError{Position: pos, Field: v, Reason: "not a valid long"}
	}
	return n, nil
}

// NextOptionalLong reads the next field as an int64, treating an empty
// field or the sentinel int64-max as "unset" (nil).
func (b *MessageBuffer) NextOptionalLong() (*int64, error) {
	v, pos, ok := b.advance()
	if !ok || v == "" || v == sentinelLongText {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, &ParseError{Position: pos, Field: v, Reason: "not a valid optional long"}
	}
	return &n, nil
}

// NextFloat64 reads the next field as a float64. An empty field or the
// sentinel double decodes to 0.0 — callers that need to distinguish
// "unset" from "literally zero" should use NextOptionalFloat64 instead;
// this accessor exists because some fields (e.g. filled_quantity) are
// never actually absent on the wire and are always safe to treat as a
// plain decimal, sentinel included.
func (b *MessageBuffer) NextFloat64() (float64, error) {
	v, pos, ok := b.advance()
	if !ok || v == "" || v == sentinelDoubleText {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &ParseError{Position: pos, Field: v, Reason: "not a valid double"}
	}
	return f, nil
}

// NextOptionalFloat64 reads the next field as a float64, treating an
// empty field or the sentinel double as "unset" (nil).
func (b *MessageBuffer) NextOptionalFloat64() (*float64, error) {
	v, pos, ok := b.advance()
	if !ok || v == "" || v == sentinelDoubleText {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, &ParseError{Position: pos, Field: v, Reason: "not a valid optional double"}
	}
	return &f, nil
}

// NextBool reads the next field as a boolean: "1" is true, everything
// else (including empty) is false.
func (b *MessageBuffer) NextBool() (bool, error) {
	v, _, ok := b.advance()
	if !ok {
		return false, nil
	}
	return v == "1", nil
}

// MessageWriter builds a frame's ordered fields with the encode
// counterpart of each MessageBuffer accessor. Round-tripping a decoded
// value back through these pushes must reproduce the original field
// text for any well-typed input.
type MessageWriter struct {
	fields []string
}

// NewMessageWriter starts an empty outbound field sequence; callers
// append the message kind and any request id themselves.
func NewMessageWriter() *MessageWriter {
	return &MessageWriter{}
}

// Fields returns the accumulated field sequence for framing.
func (w *MessageWriter) Fields() []string {
	return w.fields
}

// PushString appends a raw string field (empty is valid).
func (w *MessageWriter) PushString(v string) {
	w.fields = append(w.fields, v)
}

// PushInt appends an int32 field in canonical decimal form.
func (w *MessageWriter) PushInt(v int32) {
	w.fields = append(w.fields, strconv.FormatInt(int64(v), 10))
}

// PushOptionalInt appends an int32 field, or empty when nil.
func (w *MessageWriter) PushOptionalInt(v *int32) {
	if v == nil {
		w.fields = append(w.fields, "")
		return
	}
	w.PushInt(*v)
}

// PushLong appends an int64 field in canonical decimal form.
func (w *MessageWriter) PushLong(v int64) {
	w.fields = append(w.fields, strconv.FormatInt(v, 10))
}

// PushOptionalLong appends an int64 field, or empty when nil.
func (w *MessageWriter) PushOptionalLong(v *int64) {
	if v == nil {
		w.fields = append(w.fields, "")
		return
	}
	w.PushLong(*v)
}

// PushFloat64 appends a float64 field using Go's shortest round-trip
// decimal form, matching the plain (non-sentinel) numeric literals TWS
// emits for fields like filled_quantity.
func (w *MessageWriter) PushFloat64(v float64) {
	w.fields = append(w.fields, strconv.FormatFloat(v, 'g', -1, 64))
}

// PushOptionalFloat64 appends a float64 field, or empty when nil.
func (w *MessageWriter) PushOptionalFloat64(v *float64) {
	if v == nil {
		w.fields = append(w.fields, "")
		return
	}
	w.PushFloat64(*v)
}

// PushBool appends "1" for true, "0" for false.
func (w *MessageWriter) PushBool(v bool) {
	if v {
		w.fields = append(w.fields, "1")
	} else {
		w.fields = append(w.fields, "0")
	}
}
