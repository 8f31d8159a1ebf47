package cbor

import (
	"errors"
	"strconv"
)

var (
	errNoSelector      = errors.New("cbor: variant selector was not decoded")
	errSelectorTwice   = errors.New("cbor: variant selector decoded twice")
	errSelectorPending = errors.New("cbor: variant payload accessed before selector")
)

// Variant is the access object handed to VisitVariant. A variant is encoded
// either as a bare text string naming a unit variant, or as an array whose
// first element selects the variant and whose remaining elements are its
// fields. The selector must be decoded first, then at most one of Unit,
// Newtype, Tuple or Struct.
type Variant struct {
	c        Composite
	text     bool
	selected bool
}

// DecodeVariant decodes one tagged union. The wire shape decides the
// access pattern: a text string is a unit variant whose selector is the
// string itself, an array of k+1 elements carries a selector and k fields.
// Anything else is a syntax error wrapping ErrVariantShape. Tags in front
// of the variant are discarded.
//
// Once VisitVariant returns, every field must have been consumed; leftover
// fields give ErrTrailingBytes.
func (d *Decoder) DecodeVariant(v VariantVisitor) error {
	b, err := d.header()
	if err != nil {
		return err
	}
	for getMajorType(b) == majorTypeTag {
		if _, err := d.definite(b); err != nil {
			return err
		}
		if b, err = d.header(); err != nil {
			return err
		}
	}
	var va Variant
	switch getMajorType(b) {
	case majorTypeText:
		d.unread(b)
		va = Variant{c: Composite{d: d}, text: true}
	case majorTypeArray:
		n, indefinite, err := d.length(b)
		if err != nil {
			return err
		}
		va = Variant{c: Composite{d: d, remaining: n, indefinite: indefinite}}
	default:
		d.unread(b)
		return d.syntaxErr("got "+typeOf(b).String(), ErrVariantShape)
	}
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()

	if err := v.VisitVariant(&va); err != nil {
		return err
	}
	if !va.selected {
		return errNoSelector
	}
	if va.c.indefinite {
		brk, err := d.atBreak()
		if err != nil {
			return err
		}
		if !brk {
			return ErrTrailingBytes
		}
		va.c.indefinite = false
	}
	return va.c.End()
}

// Selector decodes the selector into dst.
func (va *Variant) Selector(dst Decodable) error {
	if va.selected {
		return errSelectorTwice
	}
	va.selected = true
	if va.text {
		return dst.DecodeCBOR(va.c.d)
	}
	ok, err := va.c.Next(dst)
	if err != nil {
		return err
	}
	if !ok {
		return va.c.d.syntaxErr("empty array", ErrVariantShape)
	}
	return nil
}

// SelectorVisit decodes the selector into v.
func (va *Variant) SelectorVisit(v Visitor) error {
	if va.selected {
		return errSelectorTwice
	}
	va.selected = true
	if va.text {
		return va.c.d.Decode(v)
	}
	ok, err := va.c.NextVisit(v)
	if err != nil {
		return err
	}
	if !ok {
		return va.c.d.syntaxErr("empty array", ErrVariantShape)
	}
	return nil
}

// Unit accepts a variant without fields.
func (va *Variant) Unit() error {
	if !va.selected {
		return errSelectorPending
	}
	if va.c.indefinite {
		brk, err := va.c.d.atBreak()
		if err != nil {
			return err
		}
		if !brk {
			return va.c.d.syntaxErr("unit variant has fields", ErrVariantShape)
		}
		va.c.indefinite = false
		return nil
	}
	if va.c.remaining != 0 {
		return va.c.d.syntaxErr("unit variant has "+strconv.FormatUint(va.c.remaining, 10)+" fields", ErrVariantShape)
	}
	return nil
}

// Newtype decodes the single field of a newtype variant into dst.
func (va *Variant) Newtype(dst Decodable) error {
	if !va.selected {
		return errSelectorPending
	}
	ok, err := va.c.Next(dst)
	if err != nil {
		return err
	}
	if !ok {
		return va.c.d.syntaxErr("newtype variant has no field", ErrVariantShape)
	}
	return nil
}

// Tuple hands the remaining k fields to v as an array. A definite encoding
// must carry exactly k fields.
func (va *Variant) Tuple(k int, v Visitor) error {
	if !va.selected {
		return errSelectorPending
	}
	if !va.c.indefinite && (k < 0 || va.c.remaining != uint64(k)) {
		return va.c.d.syntaxErr("tuple variant wants "+strconv.Itoa(k)+" fields, has "+strconv.FormatUint(va.c.remaining, 10), ErrVariantShape)
	}
	return v.VisitArray(&va.c)
}

// Struct decodes the single payload item of a struct variant into v,
// normally a map.
func (va *Variant) Struct(v Visitor) error {
	if !va.selected {
		return errSelectorPending
	}
	ok, err := va.c.NextVisit(v)
	if err != nil {
		return err
	}
	if !ok {
		return va.c.d.syntaxErr("struct variant has no payload", ErrVariantShape)
	}
	return nil
}
