package tests

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	cbor "github.com/synadia-labs/cborvisit/runtime"
)

// arrayFunc and mapFunc turn a closure into a Visitor for one composite.
type arrayFunc func(c *cbor.Composite) error

func (f arrayFunc) visitor() cbor.Visitor {
	return &compositeVisitor{UnexpectedVisitor: cbor.UnexpectedVisitor{Want: cbor.ArrayType}, array: f}
}

type compositeVisitor struct {
	cbor.UnexpectedVisitor
	array func(c *cbor.Composite) error
	m     func(c *cbor.Composite) error
}

func (v *compositeVisitor) VisitArray(c *cbor.Composite) error {
	if v.array == nil {
		return v.UnexpectedVisitor.VisitArray(c)
	}
	return v.array(c)
}

func (v *compositeVisitor) VisitMap(c *cbor.Composite) error {
	if v.m == nil {
		return v.UnexpectedVisitor.VisitMap(c)
	}
	return v.m(c)
}

func decodeHex(t *testing.T, h string, v cbor.Visitor) (*cbor.Decoder, error) {
	t.Helper()
	d := cbor.NewDecoder(bytes.NewReader(mustHex(t, h)))
	return d, d.Decode(v)
}

func TestCompositeKnownCount(t *testing.T) {
	_, err := decodeHex(t, "83010203", arrayFunc(func(c *cbor.Composite) error {
		if c.Indefinite() || c.IsMap() {
			t.Fatalf("unexpected shape")
		}
		if lo, hi, ok := c.SizeHint(); lo != 3 || hi != 3 || !ok {
			t.Fatalf("SizeHint = %d, %d, %v", lo, hi, ok)
		}
		var sum cbor.Uint64
		for {
			var v cbor.Uint64
			ok, err := c.Next(&v)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			sum += v
		}
		if n, ok := c.Remaining(); n != 0 || !ok {
			t.Fatalf("Remaining = %d, %v", n, ok)
		}
		if sum != 6 {
			t.Fatalf("sum = %d", sum)
		}
		// Exhausted composites report no more items again.
		if ok, err := c.Next(cbor.Ignored{}); ok || err != nil {
			t.Fatalf("Next after exhaustion = %v, %v", ok, err)
		}
		return c.End()
	}).visitor())
	if err != nil {
		t.Fatal(err)
	}
}

func TestCompositeUnknownCount(t *testing.T) {
	d, err := decodeHex(t, "9f0102ff03", arrayFunc(func(c *cbor.Composite) error {
		if !c.Indefinite() {
			t.Fatalf("expected indefinite")
		}
		if _, _, ok := c.SizeHint(); ok {
			t.Fatalf("indefinite composite has no upper bound")
		}
		if _, ok := c.Remaining(); ok {
			t.Fatalf("Remaining should not be known before the break")
		}
		if err := c.End(); err != cbor.ErrTrailingBytes {
			t.Fatalf("End before break = %v", err)
		}
		n := 0
		for {
			ok, err := c.Next(cbor.Ignored{})
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			n++
		}
		if n != 2 {
			t.Fatalf("pulled %d", n)
		}
		if ok, err := c.Next(cbor.Ignored{}); ok || err != nil {
			t.Fatalf("Next after break = %v, %v", ok, err)
		}
		return c.End()
	}).visitor())
	if err != nil {
		t.Fatal(err)
	}
	// The item after the composite is untouched.
	var next cbor.Uint8
	if err := next.DecodeCBOR(d); err != nil || next != 3 {
		t.Fatalf("next item = %d, %v", next, err)
	}
}

func TestCompositeEndWithItemsLeft(t *testing.T) {
	_, err := decodeHex(t, "820102", arrayFunc(func(c *cbor.Composite) error {
		if _, err := c.Next(cbor.Ignored{}); err != nil {
			return err
		}
		return c.End()
	}).visitor())
	if err != cbor.ErrTrailingBytes {
		t.Fatalf("expected ErrTrailingBytes, got %v", err)
	}

	_, err = decodeHex(t, "820102", arrayFunc(func(c *cbor.Composite) error {
		if _, err := c.Next(cbor.Ignored{}); err != nil {
			return err
		}
		return c.Skip()
	}).visitor())
	if err != nil {
		t.Fatalf("Skip: %v", err)
	}
}

func TestCompositeMapPairs(t *testing.T) {
	v := &compositeVisitor{
		UnexpectedVisitor: cbor.UnexpectedVisitor{Want: cbor.MapType},
		m: func(c *cbor.Composite) error {
			if !c.IsMap() {
				t.Fatalf("expected map")
			}
			if lo, _, ok := c.SizeHint(); ok != !c.Indefinite() || (ok && lo != 2) {
				t.Fatalf("pairs = %d, %v", lo, ok)
			}
			var got []string
			for {
				var k cbor.String
				ok, err := c.Key(&k)
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				var val cbor.Int
				if err := c.Value(&val); err != nil {
					return err
				}
				got = append(got, string(k)+"="+strings.Repeat("*", int(val)))
			}
			if strings.Join(got, ",") != "a=*,b=**" {
				t.Fatalf("got %v", got)
			}
			return c.End()
		},
	}
	if _, err := decodeHex(t, "a2616101616202", v); err != nil {
		t.Fatal(err)
	}
	if _, err := decodeHex(t, "bf616101616202ff", v); err != nil {
		t.Fatal(err)
	}
	// Skip drains a map pair by pair.
	if _, err := decodeHex(t, "a3616101616202616303", &compositeVisitor{m: func(c *cbor.Composite) error {
		var k cbor.String
		if _, err := c.Key(&k); err != nil {
			return err
		}
		if err := c.Value(cbor.Ignored{}); err != nil {
			return err
		}
		return c.Skip()
	}}); err != nil {
		t.Fatalf("Skip: %v", err)
	}
}

func TestCompositeErrorContext(t *testing.T) {
	var xs []cbor.Int64
	err := cbor.DecodeSlice(cbor.NewDecoder(bytes.NewReader(mustHex(t, "8301616103"))), &xs)
	var te cbor.TypeError
	if !errors.As(err, &te) || te.Encoded != cbor.StrType || te.Method != cbor.IntType {
		t.Fatalf("expected TypeError, got %v", err)
	}
	if !strings.HasSuffix(err.Error(), " at 1") {
		t.Fatalf("missing index context: %v", err)
	}
	if !cbor.Resumable(err) {
		t.Fatalf("type errors are resumable")
	}

	err = cbor.DecodeFields(cbor.NewDecoder(bytes.NewReader(mustHex(t, "a16161a1616281f5"))), func(key string) cbor.Decodable {
		return cbor.DecodableFunc(func(d *cbor.Decoder) error {
			return cbor.DecodeFields(d, func(string) cbor.Decodable {
				var xs []cbor.Int
				return cbor.DecodableFunc(func(d *cbor.Decoder) error { return cbor.DecodeSlice(d, &xs) })
			})
		})
	})
	if !errors.As(err, &te) || te.Encoded != cbor.BoolType {
		t.Fatalf("expected TypeError, got %v", err)
	}
	if !strings.HasSuffix(err.Error(), " at a/b/0") {
		t.Fatalf("context = %v", err)
	}
}

func TestBindingHelpers(t *testing.T) {
	var xs []cbor.String
	if err := cbor.DecodeSlice(cbor.NewDecoder(bytes.NewReader(mustHex(t, "9f61616162ff"))), &xs); err != nil || len(xs) != 2 || xs[1] != "b" {
		t.Fatalf("slice = %v, %v", xs, err)
	}
	xs = []cbor.String{"x"}
	if err := cbor.DecodeSlice(cbor.NewDecoder(bytes.NewReader(mustHex(t, "f6"))), &xs); err != nil || xs != nil {
		t.Fatalf("null slice = %v, %v", xs, err)
	}

	var m map[cbor.String]cbor.Uint16
	if err := cbor.DecodeMap(cbor.NewDecoder(bytes.NewReader(mustHex(t, "a3616101616202616103"))), &m); err != nil {
		t.Fatal(err)
	}
	if len(m) != 2 || m["a"] != 3 || m["b"] != 2 {
		t.Fatalf("map = %v (last duplicate wins)", m)
	}

	var p *cbor.Bool
	if err := cbor.DecodeNullable(cbor.NewDecoder(bytes.NewReader(mustHex(t, "f5"))), &p); err != nil || p == nil || !*p {
		t.Fatalf("nullable = %v, %v", p, err)
	}
	if err := cbor.DecodeNullable(cbor.NewDecoder(bytes.NewReader(mustHex(t, "f7"))), &p); err != nil || p != nil {
		t.Fatalf("nullable undefined = %v, %v", p, err)
	}

	u8, err := cbor.UnmarshalOne[cbor.Uint8](mustHex(t, "190100"))
	var uo cbor.UintOverflow
	if !errors.As(err, &uo) || uo.FailedBitsize != 8 {
		t.Fatalf("uint8 overflow = %d, %v", u8, err)
	}
	_, err = cbor.UnmarshalOne[cbor.Uint64](mustHex(t, "20"))
	var bz cbor.UintBelowZero
	if !errors.As(err, &bz) || bz.Value != -1 {
		t.Fatalf("below zero = %v", err)
	}
	_, err = cbor.UnmarshalOne[cbor.Int8](mustHex(t, "3880"))
	var io cbor.IntOverflow
	if !errors.As(err, &io) || io.Value != -129 {
		t.Fatalf("int8 overflow = %v", err)
	}
	b, err := cbor.UnmarshalOne[cbor.Bytes](mustHex(t, "f6"))
	if err != nil || b != nil {
		t.Fatalf("null bytes = %v, %v", b, err)
	}
}

func TestProbeNullAndPeekType(t *testing.T) {
	d := cbor.NewDecoder(bytes.NewReader(mustHex(t, "f6f7c10180ff")))
	for i := 0; i < 2; i++ {
		if null, err := d.ProbeNull(); !null || err != nil {
			t.Fatalf("ProbeNull %d = %v, %v", i, null, err)
		}
	}
	if null, err := d.ProbeNull(); null || err != nil {
		t.Fatalf("ProbeNull on tag = %v, %v", null, err)
	}
	if typ, err := d.PeekType(); typ != cbor.UintType || err != nil {
		t.Fatalf("PeekType = %v, %v", typ, err)
	}
	var u cbor.Uint
	if err := u.DecodeCBOR(d); err != nil || u != 1 {
		t.Fatalf("after peek = %d, %v", u, err)
	}
	if typ, _ := d.PeekType(); typ != cbor.ArrayType {
		t.Fatalf("PeekType = %v", typ)
	}
	if err := d.Decode(cbor.Ignored{}); err != nil {
		t.Fatal(err)
	}
	if typ, _ := d.PeekType(); typ != cbor.InvalidType {
		t.Fatalf("PeekType on break = %v", typ)
	}
}

type variantFunc func(v *cbor.Variant) error

func (f variantFunc) VisitVariant(v *cbor.Variant) error { return f(v) }

func TestVariantProtocolErrors(t *testing.T) {
	decode := func(h string, f variantFunc) error {
		return cbor.NewDecoder(bytes.NewReader(mustHex(t, h))).DecodeVariant(f)
	}

	if err := decode("6161", func(*cbor.Variant) error { return nil }); err == nil {
		t.Fatalf("missing selector accepted")
	}
	err := decode("826161f6", func(v *cbor.Variant) error {
		var s cbor.String
		if err := v.Selector(&s); err != nil {
			return err
		}
		return v.Selector(&s)
	})
	if err == nil {
		t.Fatalf("second selector accepted")
	}
	if err := decode("826161f6", func(v *cbor.Variant) error { return v.Newtype(cbor.Ignored{}) }); err == nil {
		t.Fatalf("payload before selector accepted")
	}

	// Integer selectors are allowed in array form.
	var sel cbor.Uint8
	var payload cbor.String
	err = decode("82076178", func(v *cbor.Variant) error {
		if err := v.Selector(&sel); err != nil {
			return err
		}
		return v.Newtype(&payload)
	})
	if err != nil || sel != 7 || payload != "x" {
		t.Fatalf("integer selector = %d %q %v", sel, payload, err)
	}

	// An indefinite unit variant consumes its break.
	d := cbor.NewDecoder(bytes.NewReader(mustHex(t, "9f6161ff01")))
	err = d.DecodeVariant(variantFunc(func(v *cbor.Variant) error {
		if err := v.SelectorVisit(cbor.Ignored{}); err != nil {
			return err
		}
		return v.Unit()
	}))
	if err != nil {
		t.Fatal(err)
	}
	var next cbor.Int
	if err := next.DecodeCBOR(d); err != nil || next != 1 {
		t.Fatalf("after variant = %d, %v", next, err)
	}

	if err := decode("a0", func(*cbor.Variant) error { return nil }); !errors.Is(err, cbor.ErrVariantShape) {
		t.Fatalf("map variant = %v", err)
	}
	if err := decode("9f", func(*cbor.Variant) error { return nil }); err == nil {
		t.Fatalf("truncated indefinite variant accepted")
	}
}
