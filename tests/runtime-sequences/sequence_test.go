package tests

import (
	"bytes"
	"errors"
	"io"
	"testing"

	fxcbor "github.com/fxamacker/cbor/v2"

	cbor "github.com/synadia-labs/cborvisit/runtime"
)

func appendSequence(t *testing.T, items ...any) []byte {
	t.Helper()
	var out []byte
	for _, it := range items {
		b, err := fxcbor.Marshal(it)
		if err != nil {
			t.Fatalf("marshal %v: %v", it, err)
		}
		out = append(out, b...)
	}
	return out
}

func TestSequenceMoreDecode(t *testing.T) {
	seq := appendSequence(t, "hi", 42, []int{1, 2})
	d := cbor.NewDecoder(bytes.NewReader(seq))

	var s cbor.String
	var n cbor.Int64
	var xs []cbor.Int64
	targets := []cbor.Decodable{&s, &n, cbor.DecodableFunc(func(d *cbor.Decoder) error {
		return cbor.DecodeSlice[cbor.Int64, *cbor.Int64](d, &xs)
	})}

	i := 0
	for {
		more, err := d.More()
		if err != nil {
			t.Fatalf("More error: %v", err)
		}
		if !more {
			break
		}
		if i >= len(targets) {
			t.Fatalf("unexpected item %d", i)
		}
		if err := targets[i].DecodeCBOR(d); err != nil {
			t.Fatalf("item %d: %v", i, err)
		}
		i++
	}
	if i != 3 || s != "hi" || n != 42 || len(xs) != 2 || xs[1] != 2 {
		t.Fatalf("items mismatch: i=%d s=%q n=%d xs=%v", i, s, n, xs)
	}
	if err := d.End(); err != nil {
		t.Fatalf("End after sequence: %v", err)
	}
}

func TestSequenceDiagNext(t *testing.T) {
	seq := appendSequence(t, "hi", -3, map[string]bool{"ok": true})
	d := cbor.NewDecoder(bytes.NewReader(seq))

	want := []string{`"hi"`, "-3", `{"ok": true}`}
	var got []string
	for {
		more, err := d.More()
		if err != nil {
			t.Fatalf("More error: %v", err)
		}
		if !more {
			break
		}
		s, err := cbor.DiagNext(d)
		if err != nil {
			t.Fatalf("DiagNext error: %v", err)
		}
		got = append(got, s)
	}
	if len(got) != len(want) {
		t.Fatalf("got %q want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("item %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestSequenceTruncatedItem(t *testing.T) {
	seq := appendSequence(t, "hi", []int{1, 2, 3})
	seq = seq[:len(seq)-1]
	d := cbor.NewDecoder(bytes.NewReader(seq))

	if err := d.Decode(cbor.Ignored{}); err != nil {
		t.Fatalf("first item: %v", err)
	}
	more, err := d.More()
	if err != nil || !more {
		t.Fatalf("More = %v, %v", more, err)
	}
	err = d.Decode(cbor.Ignored{})
	var ioe *cbor.IOError
	if !errors.As(err, &ioe) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected IOError wrapping io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestSequenceBreakAtTopLevel(t *testing.T) {
	d := cbor.NewDecoder(bytes.NewReader([]byte{0x01, 0xff}))
	if err := d.Decode(cbor.Ignored{}); err != nil {
		t.Fatalf("first item: %v", err)
	}
	err := d.Decode(cbor.Ignored{})
	if !errors.Is(err, cbor.ErrUnexpectedBreak) {
		t.Fatalf("expected ErrUnexpectedBreak, got %v", err)
	}
}
