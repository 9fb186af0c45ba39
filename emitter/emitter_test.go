package emitter_test

import (
	"bytes"
	"testing"

	"github.com/thelink2012/gta3sc-sub001/emitter"
)

func TestEmitIntPicksTightestEncoding(t *testing.T) {
	cases := []struct {
		value int32
		want  []byte
	}{
		{0, []byte{4, 0}},
		{127, []byte{4, 127}},
		{-128, []byte{4, 0x80}},
		{128, []byte{5, 128, 0}},
		{32767, []byte{5, 0xFF, 0x7F}},
		{32768, []byte{1, 0x00, 0x80, 0x00, 0x00}},
		{-1, []byte{4, 0xFF}},
	}
	for _, c := range cases {
		e := emitter.New(0)
		e.EmitInt(c.value)
		got := e.Drain()
		if !bytes.Equal(got, c.want) {
			t.Errorf("EmitInt(%d) = % x, want % x", c.value, got, c.want)
		}
	}
}

func TestEmitCommandFoldsNotFlagIntoHighBit(t *testing.T) {
	e := emitter.New(0)
	e.EmitCommand(0x0256, true)
	got := e.Drain()
	want := []byte{0x56, 0x82}
	if !bytes.Equal(got, want) {
		t.Fatalf("EmitCommand = % x, want % x", got, want)
	}
}

func TestEmitQ11_4ClampsOutOfRange(t *testing.T) {
	cases := []struct {
		value float64
		want  int16
	}{
		{0, 0},
		{1.0, 16},
		{-1.0, -16},
		{2047.9375, 32767},
		{10000.0, 32767},
		{-10000.0, -32768},
	}
	for _, c := range cases {
		e := emitter.New(0)
		e.EmitQ11_4(c.value)
		got := e.Drain()
		gotVal := int16(uint16(got[1]) | uint16(got[2])<<8)
		if got[0] != 6 || gotVal != c.want {
			t.Errorf("EmitQ11_4(%v) = tag %d val %d, want tag 6 val %d", c.value, got[0], gotVal, c.want)
		}
	}
}

func TestEmitRawBytesPadsAndTruncates(t *testing.T) {
	e := emitter.New(0)
	e.EmitRawBytes([]byte("HI"), 8)
	got := e.Drain()
	want := append([]byte("HI"), 0, 0, 0, 0, 0, 0)
	if !bytes.Equal(got, want) {
		t.Fatalf("EmitRawBytes padding = % x, want % x", got, want)
	}

	e2 := emitter.New(0)
	e2.EmitRawBytes([]byte("TOOLONGNAME"), 4)
	got2 := e2.Drain()
	if !bytes.Equal(got2, []byte("TOOL")) {
		t.Fatalf("EmitRawBytes truncation = % x, want TOOL", got2)
	}
}

func TestOffsetSurvivesDrain(t *testing.T) {
	e := emitter.New(0)
	e.EmitI8(1)
	if e.Offset() != 2 {
		t.Fatalf("Offset = %d, want 2", e.Offset())
	}
	e.Drain()
	if e.Offset() != 2 {
		t.Fatalf("Offset after Drain = %d, want 2 (offset must not reset)", e.Offset())
	}
	e.EmitEOAL()
	if e.Offset() != 3 {
		t.Fatalf("Offset after further emission = %d, want 3", e.Offset())
	}
}
