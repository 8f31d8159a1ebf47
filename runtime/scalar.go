package cbor

import (
	"math"

	"github.com/x448/float16"
)

func (d *Decoder) parseUint(b byte, v Visitor) error {
	u, err := d.definite(b)
	if err != nil {
		return err
	}
	return v.VisitUint(u)
}

// parseNegInt delivers -1-n. Arguments beyond math.MaxInt64 have no int64
// representation and are rejected rather than wrapped.
func (d *Decoder) parseNegInt(b byte, v Visitor) error {
	n, err := d.definite(b)
	if err != nil {
		return err
	}
	if n > math.MaxInt64 {
		return d.syntaxErr("", NegativeOverflow{Argument: n})
	}
	return v.VisitInt(-1 - int64(n))
}

func (d *Decoder) parseSimple(b byte, v Visitor) (step, error) {
	switch ai := getAddInfo(b); ai {
	case simpleFalse:
		return stepValue, v.VisitBool(false)
	case simpleTrue:
		return stepValue, v.VisitBool(true)
	case simpleNull, simpleUndefined:
		return stepValue, v.VisitNull()
	case simpleFloat16:
		p := d.scratch[:2]
		if err := d.readFull(p); err != nil {
			return stepValue, err
		}
		return stepValue, v.VisitFloat32(float16BitsToFloat32(be.Uint16(p)))
	case simpleFloat32:
		p := d.scratch[:4]
		if err := d.readFull(p); err != nil {
			return stepValue, err
		}
		return stepValue, v.VisitFloat32(math.Float32frombits(be.Uint32(p)))
	case simpleFloat64:
		p := d.scratch[:8]
		if err := d.readFull(p); err != nil {
			return stepValue, err
		}
		return stepValue, v.VisitFloat64(math.Float64frombits(be.Uint64(p)))
	case simpleBreak:
		return stepBreak, nil
	default:
		return stepValue, d.syntaxErr("", InvalidAdditionalInfoError{Major: majorTypeSimple, Info: ai})
	}
}

// float16BitsToFloat32 widens IEEE 754 binary16 bits to float32. Every NaN
// payload collapses to the canonical quiet NaN.
func float16BitsToFloat32(h uint16) float32 {
	exp := (h >> float16ExpShift) & float16ExpMask
	if exp == float16ExpMask && h&float16MantMask != 0 {
		return float32(math.NaN())
	}
	return float16.Frombits(h).Float32()
}
