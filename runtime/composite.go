package cbor

import "math"

func (d *Decoder) parseArray(b byte, v Visitor) error {
	n, indefinite, err := d.length(b)
	if err != nil {
		return err
	}
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()
	c := Composite{d: d, remaining: n, indefinite: indefinite}
	return v.VisitArray(&c)
}

// parseMap is parseArray for maps; n counts key/value pairs.
func (d *Decoder) parseMap(b byte, v Visitor) error {
	n, indefinite, err := d.length(b)
	if err != nil {
		return err
	}
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()
	c := Composite{d: d, remaining: n, indefinite: indefinite, isMap: true}
	return v.VisitMap(&c)
}

// Composite is the cursor handed to VisitArray and VisitMap. It is either
// Known, with a count of items (or pairs) still to be pulled, or Unknown
// for indefinite-length encodings, which run until the break code. Once a
// Known count reaches zero or the break code has been consumed, pulling
// reports no more items without touching the input.
//
// For maps, Key and KeyVisit advance the pair count while Value and
// ValueVisit do not: every successful Key must be followed by exactly one
// Value.
//
// A Composite must not be used after the visitor method it was handed to
// returns.
type Composite struct {
	d *Decoder

	remaining  uint64
	indefinite bool
	isMap      bool

	pulled int
}

// NextVisit decodes the next element into v. It reports false, with a nil
// error, once the composite is exhausted.
func (c *Composite) NextVisit(v Visitor) (bool, error) {
	if !c.indefinite {
		if c.remaining == 0 {
			return false, nil
		}
		c.remaining--
		idx := c.pulled
		c.pulled++
		if err := c.d.Decode(v); err != nil {
			return false, WrapError(err, idx)
		}
		return true, nil
	}
	s, err := c.d.step(v)
	if err != nil {
		return false, WrapError(err, c.pulled)
	}
	if s == stepBreak {
		c.indefinite = false
		return false, nil
	}
	c.pulled++
	return true, nil
}

// Next decodes the next element into dst. It reports false, with a nil
// error, once the composite is exhausted.
func (c *Composite) Next(dst Decodable) (bool, error) {
	if !c.indefinite {
		if c.remaining == 0 {
			return false, nil
		}
		c.remaining--
	} else {
		brk, err := c.d.atBreak()
		if err != nil {
			return false, WrapError(err, c.pulled)
		}
		if brk {
			c.indefinite = false
			return false, nil
		}
	}
	idx := c.pulled
	c.pulled++
	if err := dst.DecodeCBOR(c.d); err != nil {
		return false, WrapError(err, idx)
	}
	return true, nil
}

// Key decodes the next map key into dst, see Next.
func (c *Composite) Key(dst Decodable) (bool, error) { return c.Next(dst) }

// KeyVisit decodes the next map key into v, see NextVisit.
func (c *Composite) KeyVisit(v Visitor) (bool, error) { return c.NextVisit(v) }

// Value decodes the value belonging to the key just read. The pair count
// is not consulted, and a break code in value position is a syntax error.
func (c *Composite) Value(dst Decodable) error {
	if err := dst.DecodeCBOR(c.d); err != nil {
		return WrapError(err, c.pulled-1)
	}
	return nil
}

// ValueVisit is Value for a Visitor.
func (c *Composite) ValueVisit(v Visitor) error {
	if err := c.d.Decode(v); err != nil {
		return WrapError(err, c.pulled-1)
	}
	return nil
}

// End checks that the composite was consumed completely. It returns
// ErrTrailingBytes while items remain or the break code has not been seen.
func (c *Composite) End() error {
	if c.indefinite || c.remaining != 0 {
		return ErrTrailingBytes
	}
	return nil
}

// Skip discards the elements not yet pulled and then checks End.
func (c *Composite) Skip() error {
	var ign Ignored
	for {
		ok, err := c.NextVisit(ign)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if c.isMap {
			if err := c.ValueVisit(ign); err != nil {
				return err
			}
		}
	}
	return c.End()
}

// SizeHint reports bounds on the number of elements (pairs for maps) still
// to be pulled. Indefinite composites have no upper bound.
func (c *Composite) SizeHint() (lower, upper int, bounded bool) {
	if c.indefinite {
		return 0, 0, false
	}
	n := int(min(c.remaining, math.MaxInt))
	return n, n, true
}

// Indefinite reports whether the composite runs until a break code.
func (c *Composite) Indefinite() bool { return c.indefinite }

// Remaining returns the count still to be pulled. ok is false while an
// indefinite composite has not yet reached its break code.
func (c *Composite) Remaining() (n uint64, ok bool) {
	return c.remaining, !c.indefinite
}

// IsMap reports whether the composite holds key/value pairs.
func (c *Composite) IsMap() bool { return c.isMap }
