package ibapi

import (
	"testing"
)

func TestNextOptionalIntSentinel(t *testing.T) {
	b := NewMessageBuffer([]string{sentinelIntText, "", "42"})
	v, err := b.NextOptionalInt()
	if err != nil || v != nil {
		t.Fatalf("sentinel should decode to nil, got %v, err %v", v, err)
	}
	v, err = b.NextOptionalInt()
	if err != nil || v != nil {
		t.Fatalf("empty should decode to nil, got %v, err %v", v, err)
	}
	v, err = b.NextOptionalInt()
	if err != nil || v == nil || *v != 42 {
		t.Fatalf("expected 42, got %v, err %v", v, err)
	}
}

func TestNextOptionalDoubleSentinel(t *testing.T) {
	b := NewMessageBuffer([]string{sentinelDoubleText, "", "1.25"})
	if v, err := b.NextOptionalFloat64(); err != nil || v != nil {
		t.Fatalf("sentinel should decode to nil, got %v, err %v", v, err)
	}
	if v, err := b.NextOptionalFloat64(); err != nil || v != nil {
		t.Fatalf("empty should decode to nil, got %v, err %v", v, err)
	}
	if v, err := b.NextOptionalFloat64(); err != nil || v == nil || *v != 1.25 {
		t.Fatalf("expected 1.25, got %v, err %v", v, err)
	}
}

func TestNextBool(t *testing.T) {
	b := NewMessageBuffer([]string{"1", "0", "", "garbage"})
	for _, want := range []bool{true, false, false, false} {
		got, err := b.NextBool()
		if err != nil || got != want {
			t.Fatalf("NextBool: got %v err %v, want %v", got, err, want)
		}
	}
}

func TestNextIntParseError(t *testing.T) {
	b := NewMessageBuffer([]string{"not-a-number"})
	_, err := b.NextInt()
	var pe *ParseError
	if err == nil {
		t.Fatal("expected parse error")
	}
	if pe2, ok := err.(*ParseError); !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	} else {
		pe = pe2
	}
	if pe.Position != 0 {
		t.Fatalf("expected position 0, got %d", pe.Position)
	}
}

func TestPushPullRoundTrip(t *testing.T) {
	w := NewMessageWriter()
	w.PushInt(71)
	w.PushString("hello")
	w.PushBool(true)
	f := int32(5)
	w.PushOptionalInt(&f)
	w.PushOptionalInt(nil)
	d := 1.5
	w.PushOptionalFloat64(&d)
	w.PushOptionalFloat64(nil)

	b := NewMessageBuffer(w.Fields())
	if v, _ := b.NextInt(); v != 71 {
		t.Fatalf("expected 71, got %d", v)
	}
	if v, _ := b.NextString(); v != "hello" {
		t.Fatalf("expected hello, got %q", v)
	}
	if v, _ := b.NextBool(); v != true {
		t.Fatalf("expected true, got %v", v)
	}
	if v, _ := b.NextOptionalInt(); v == nil || *v != 5 {
		t.Fatalf("expected 5, got %v", v)
	}
	if v, _ := b.NextOptionalInt(); v != nil {
		t.Fatalf("expected nil, got %v", v)
	}
	if v, _ := b.NextOptionalFloat64(); v == nil || *v != 1.5 {
		t.Fatalf("expected 1.5, got %v", v)
	}
	if v, _ := b.NextOptionalFloat64(); v != nil {
		t.Fatalf("expected nil, got %v", v)
	}
}
