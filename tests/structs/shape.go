package structs

import (
	"errors"
	"fmt"

	cbor "github.com/synadia-labs/cborvisit/runtime"
)

// Shape is a tagged union decoded through DecodeVariant:
//
//	"point"                 unit
//	["circle", radius]      newtype
//	["rect", w, h]          tuple
//	["poly", {"sides": n}]  struct
type Shape struct {
	Kind   string
	Radius float64
	W, H   float64
	Sides  int
}

// DecodeCBOR implements cbor.Decodable.
func (s *Shape) DecodeCBOR(d *cbor.Decoder) error { return d.DecodeVariant(s) }

// VisitVariant implements cbor.VariantVisitor.
func (s *Shape) VisitVariant(v *cbor.Variant) error {
	if err := v.Selector((*cbor.String)(&s.Kind)); err != nil {
		return err
	}
	switch s.Kind {
	case "point":
		return v.Unit()
	case "circle":
		return v.Newtype((*cbor.Float64)(&s.Radius))
	case "rect":
		return v.Tuple(2, rectFields{UnexpectedVisitor: cbor.UnexpectedVisitor{Want: cbor.ArrayType}, s: s})
	case "poly":
		return v.Struct(polyFields{UnexpectedVisitor: cbor.UnexpectedVisitor{Want: cbor.MapType}, s: s})
	default:
		return fmt.Errorf("unknown shape %q", s.Kind)
	}
}

type rectFields struct {
	cbor.UnexpectedVisitor
	s *Shape
}

// VisitArray pulls exactly the two fields; DecodeVariant checks that
// nothing follows them.
func (r rectFields) VisitArray(c *cbor.Composite) error {
	for _, dst := range []*float64{&r.s.W, &r.s.H} {
		ok, err := c.Next((*cbor.Float64)(dst))
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("rect: missing field")
		}
	}
	return nil
}

type polyFields struct {
	cbor.UnexpectedVisitor
	s *Shape
}

func (p polyFields) VisitMap(c *cbor.Composite) error {
	for {
		var key cbor.String
		ok, err := c.Key(&key)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		var dst cbor.Decodable = cbor.Ignored{}
		if key == "sides" {
			dst = (*cbor.Int)(&p.s.Sides)
		}
		if err := c.Value(dst); err != nil {
			return err
		}
	}
	return c.End()
}
