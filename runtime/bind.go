package cbor

import (
	"math"
	"strconv"
)

// The types in this file are ready-made Decodable targets for Go's
// primitive shapes. Convert a pointer to the field being decoded, for
// example (*cbor.String)(&z.Name), and hand it to Next, Value or Decode.

type uintVisitor struct {
	UnexpectedVisitor
	bits int
	out  uint64
}

func (v *uintVisitor) VisitUint(u uint64) error {
	if v.bits < 64 && u > math.MaxUint64>>(64-v.bits) {
		return UintOverflow{Value: u, FailedBitsize: v.bits}
	}
	v.out = u
	return nil
}

func (v *uintVisitor) VisitInt(i int64) error { return UintBelowZero{Value: i} }

func decodeUint(d *Decoder, bits int) (uint64, error) {
	v := uintVisitor{UnexpectedVisitor: UnexpectedVisitor{Want: UintType}, bits: bits}
	err := d.Decode(&v)
	return v.out, err
}

type intVisitor struct {
	UnexpectedVisitor
	bits int
	out  int64
}

func (v *intVisitor) VisitUint(u uint64) error {
	if u > math.MaxInt64>>(64-v.bits) {
		return UintOverflow{Value: u, FailedBitsize: v.bits}
	}
	v.out = int64(u)
	return nil
}

func (v *intVisitor) VisitInt(i int64) error {
	if v.bits < 64 && (i < math.MinInt64>>(64-v.bits) || i > math.MaxInt64>>(64-v.bits)) {
		return IntOverflow{Value: i, FailedBitsize: v.bits}
	}
	v.out = i
	return nil
}

func decodeInt(d *Decoder, bits int) (int64, error) {
	v := intVisitor{UnexpectedVisitor: UnexpectedVisitor{Want: IntType}, bits: bits}
	err := d.Decode(&v)
	return v.out, err
}

// Uint64 decodes an unsigned integer.
type Uint64 uint64

// DecodeCBOR implements Decodable.
func (u *Uint64) DecodeCBOR(d *Decoder) error {
	v, err := decodeUint(d, 64)
	if err == nil {
		*u = Uint64(v)
	}
	return err
}

// Uint32 decodes an unsigned integer that fits 32 bits.
type Uint32 uint32

// DecodeCBOR implements Decodable.
func (u *Uint32) DecodeCBOR(d *Decoder) error {
	v, err := decodeUint(d, 32)
	if err == nil {
		*u = Uint32(v)
	}
	return err
}

// Uint16 decodes an unsigned integer that fits 16 bits.
type Uint16 uint16

// DecodeCBOR implements Decodable.
func (u *Uint16) DecodeCBOR(d *Decoder) error {
	v, err := decodeUint(d, 16)
	if err == nil {
		*u = Uint16(v)
	}
	return err
}

// Uint8 decodes an unsigned integer that fits 8 bits.
type Uint8 uint8

// DecodeCBOR implements Decodable.
func (u *Uint8) DecodeCBOR(d *Decoder) error {
	v, err := decodeUint(d, 8)
	if err == nil {
		*u = Uint8(v)
	}
	return err
}

// Uint decodes an unsigned integer that fits the platform uint.
type Uint uint

// DecodeCBOR implements Decodable.
func (u *Uint) DecodeCBOR(d *Decoder) error {
	v, err := decodeUint(d, strconv.IntSize)
	if err == nil {
		*u = Uint(v)
	}
	return err
}

// Int64 decodes a signed integer.
type Int64 int64

// DecodeCBOR implements Decodable.
func (i *Int64) DecodeCBOR(d *Decoder) error {
	v, err := decodeInt(d, 64)
	if err == nil {
		*i = Int64(v)
	}
	return err
}

// Int32 decodes a signed integer that fits 32 bits.
type Int32 int32

// DecodeCBOR implements Decodable.
func (i *Int32) DecodeCBOR(d *Decoder) error {
	v, err := decodeInt(d, 32)
	if err == nil {
		*i = Int32(v)
	}
	return err
}

// Int16 decodes a signed integer that fits 16 bits.
type Int16 int16

// DecodeCBOR implements Decodable.
func (i *Int16) DecodeCBOR(d *Decoder) error {
	v, err := decodeInt(d, 16)
	if err == nil {
		*i = Int16(v)
	}
	return err
}

// Int8 decodes a signed integer that fits 8 bits.
type Int8 int8

// DecodeCBOR implements Decodable.
func (i *Int8) DecodeCBOR(d *Decoder) error {
	v, err := decodeInt(d, 8)
	if err == nil {
		*i = Int8(v)
	}
	return err
}

// Int decodes a signed integer that fits the platform int.
type Int int

// DecodeCBOR implements Decodable.
func (i *Int) DecodeCBOR(d *Decoder) error {
	v, err := decodeInt(d, strconv.IntSize)
	if err == nil {
		*i = Int(v)
	}
	return err
}

// Bool decodes true or false.
type Bool bool

type boolVisitor struct {
	UnexpectedVisitor
	out bool
}

func (v *boolVisitor) VisitBool(b bool) error { v.out = b; return nil }

// DecodeCBOR implements Decodable.
func (b *Bool) DecodeCBOR(d *Decoder) error {
	v := boolVisitor{UnexpectedVisitor: UnexpectedVisitor{Want: BoolType}}
	if err := d.Decode(&v); err != nil {
		return err
	}
	*b = Bool(v.out)
	return nil
}

// floatVisitor accepts every numeric kind; integers are converted.
type floatVisitor struct {
	UnexpectedVisitor
	out float64
}

func (v *floatVisitor) VisitFloat32(f float32) error { v.out = float64(f); return nil }
func (v *floatVisitor) VisitFloat64(f float64) error { v.out = f; return nil }
func (v *floatVisitor) VisitUint(u uint64) error { v.out = float64(u); return nil }
func (v *floatVisitor) VisitInt(i int64) error { v.out = float64(i); return nil }

// Float64 decodes any number as a float64.
type Float64 float64

// DecodeCBOR implements Decodable.
func (f *Float64) DecodeCBOR(d *Decoder) error {
	v := floatVisitor{UnexpectedVisitor: UnexpectedVisitor{Want: Float64Type}}
	if err := d.Decode(&v); err != nil {
		return err
	}
	*f = Float64(v.out)
	return nil
}

// Float32 decodes any number as a float32. Float64 items are rounded.
type Float32 float32

// DecodeCBOR implements Decodable.
func (f *Float32) DecodeCBOR(d *Decoder) error {
	v := floatVisitor{UnexpectedVisitor: UnexpectedVisitor{Want: Float32Type}}
	if err := d.Decode(&v); err != nil {
		return err
	}
	*f = Float32(v.out)
	return nil
}

// String decodes a text string.
type String string

type stringVisitor struct {
	UnexpectedVisitor
	out string
}

func (v *stringVisitor) VisitString(s string) error { v.out = s; return nil }

// DecodeCBOR implements Decodable.
func (s *String) DecodeCBOR(d *Decoder) error {
	v := stringVisitor{UnexpectedVisitor: UnexpectedVisitor{Want: StrType}}
	if err := d.Decode(&v); err != nil {
		return err
	}
	*s = String(v.out)
	return nil
}

// Bytes decodes a byte string. Null decodes to a nil slice.
type Bytes []byte

type bytesVisitor struct {
	UnexpectedVisitor
	out []byte
}

func (v *bytesVisitor) VisitBytes(p []byte) error { v.out = p; return nil }
func (v *bytesVisitor) VisitNull() error { v.out = nil; return nil }

// DecodeCBOR implements Decodable.
func (b *Bytes) DecodeCBOR(d *Decoder) error {
	v := bytesVisitor{UnexpectedVisitor: UnexpectedVisitor{Want: BinType}}
	if err := d.Decode(&v); err != nil {
		return err
	}
	*b = v.out
	return nil
}

// Number holds any numeric item in the form it was encoded.
type Number struct {
	typ  Type
	bits uint64
}

// Type returns UintType, IntType, Float32Type or Float64Type, or
// InvalidType for the zero Number.
func (n Number) Type() Type { return n.typ }

// Uint returns the value if it was encoded as an unsigned integer.
func (n Number) Uint() (uint64, bool) { return n.bits, n.typ == UintType }

// Int returns the value as an int64 if it is an integer that fits.
func (n Number) Int() (int64, bool) {
	switch n.typ {
	case IntType:
		return int64(n.bits), true
	case UintType:
		return int64(n.bits), n.bits <= math.MaxInt64
	}
	return 0, false
}

// Float returns the value as a float64. Integers are converted; ok is
// false only for the zero Number.
func (n Number) Float() (float64, bool) {
	switch n.typ {
	case UintType:
		return float64(n.bits), true
	case IntType:
		return float64(int64(n.bits)), true
	case Float32Type, Float64Type:
		return math.Float64frombits(n.bits), true
	}
	return 0, false
}

// String implements fmt.Stringer.
func (n Number) String() string {
	switch n.typ {
	case UintType:
		return strconv.FormatUint(n.bits, 10)
	case IntType:
		return strconv.FormatInt(int64(n.bits), 10)
	case Float32Type:
		return strconv.FormatFloat(math.Float64frombits(n.bits), 'g', -1, 32)
	case Float64Type:
		return strconv.FormatFloat(math.Float64frombits(n.bits), 'g', -1, 64)
	}
	return "<invalid>"
}

type numberVisitor struct {
	UnexpectedVisitor
	out Number
}

func (v *numberVisitor) VisitUint(u uint64) error { v.out = Number{UintType, u}; return nil }
func (v *numberVisitor) VisitInt(i int64) error { v.out = Number{IntType, uint64(i)}; return nil }
func (v *numberVisitor) VisitFloat32(f float32) error {
	v.out = Number{Float32Type, math.Float64bits(float64(f))}
	return nil
}
func (v *numberVisitor) VisitFloat64(f float64) error {
	v.out = Number{Float64Type, math.Float64bits(f)}
	return nil
}

// DecodeCBOR implements Decodable.
func (n *Number) DecodeCBOR(d *Decoder) error {
	v := numberVisitor{UnexpectedVisitor: UnexpectedVisitor{Want: Float64Type}}
	if err := d.Decode(&v); err != nil {
		return err
	}
	*n = v.out
	return nil
}

// Ignored consumes any single item and discards it. Nested composites are
// drained, so decoding into Ignored checks well-formedness.
type Ignored struct{}

// DecodeCBOR implements Decodable.
func (Ignored) DecodeCBOR(d *Decoder) error { return d.Decode(Ignored{}) }

func (Ignored) VisitUint(uint64) error { return nil }
func (Ignored) VisitInt(int64) error { return nil }
func (Ignored) VisitBool(bool) error { return nil }
func (Ignored) VisitFloat32(float32) error { return nil }
func (Ignored) VisitFloat64(float64) error { return nil }
func (Ignored) VisitNull() error { return nil }
func (Ignored) VisitBytes([]byte) error { return nil }
func (Ignored) VisitString(string) error { return nil }
func (Ignored) VisitArray(c *Composite) error { return c.Skip() }
func (Ignored) VisitMap(c *Composite) error { return c.Skip() }

// compositeVisitor routes arrays and maps to plain functions.
type compositeVisitor struct {
	UnexpectedVisitor
	array func(c *Composite) error
	m     func(c *Composite) error
}

func (v *compositeVisitor) VisitArray(c *Composite) error {
	if v.array == nil {
		return v.UnexpectedVisitor.VisitArray(c)
	}
	return v.array(c)
}

func (v *compositeVisitor) VisitMap(c *Composite) error {
	if v.m == nil {
		return v.UnexpectedVisitor.VisitMap(c)
	}
	return v.m(c)
}

// preallocCap bounds up-front slice and map allocations; declared lengths
// are only trusted once the elements actually arrive.
const preallocCap = 1024

// DecodeSliceFunc decodes an array into *dst, using elem to obtain the
// target for each element. Null decodes to a nil slice.
func DecodeSliceFunc[T any](d *Decoder, dst *[]T, elem func(e *T) Decodable) error {
	null, err := d.ProbeNull()
	if err != nil || null {
		if null {
			*dst = nil
		}
		return err
	}
	return d.Decode(&compositeVisitor{
		UnexpectedVisitor: UnexpectedVisitor{Want: ArrayType},
		array: func(c *Composite) error {
			lo, _, _ := c.SizeHint()
			out := make([]T, 0, min(lo, preallocCap))
			for {
				var e T
				ok, err := c.Next(elem(&e))
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				out = append(out, e)
			}
			*dst = out
			return c.End()
		},
	})
}

// DecodeSlice decodes an array of T, where *T is Decodable.
func DecodeSlice[T any, PT interface {
	*T
	Decodable
}](d *Decoder, dst *[]T) error {
	return DecodeSliceFunc(d, dst, func(e *T) Decodable { return PT(e) })
}

// DecodeMapFunc decodes a map into *dst, using key and val to obtain the
// targets for each pair. Null decodes to a nil map; a repeated key keeps
// the last value.
func DecodeMapFunc[K comparable, V any](d *Decoder, dst *map[K]V, key func(k *K) Decodable, val func(v *V) Decodable) error {
	null, err := d.ProbeNull()
	if err != nil || null {
		if null {
			*dst = nil
		}
		return err
	}
	return d.Decode(&compositeVisitor{
		UnexpectedVisitor: UnexpectedVisitor{Want: MapType},
		m: func(c *Composite) error {
			lo, _, _ := c.SizeHint()
			out := make(map[K]V, min(lo, preallocCap))
			for {
				var k K
				ok, err := c.Key(key(&k))
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				var v V
				if err := c.Value(val(&v)); err != nil {
					return err
				}
				out[k] = v
			}
			*dst = out
			return c.End()
		},
	})
}

// DecodeMap decodes a map whose key and value pointers are Decodable.
func DecodeMap[K comparable, V any, PK interface {
	*K
	Decodable
}, PV interface {
	*V
	Decodable
}](d *Decoder, dst *map[K]V) error {
	return DecodeMapFunc(d, dst,
		func(k *K) Decodable { return PK(k) },
		func(v *V) Decodable { return PV(v) })
}

// DecodeNullableFunc decodes null as a nil pointer and anything else into
// a freshly allocated T, using elem to obtain its target.
func DecodeNullableFunc[T any](d *Decoder, dst **T, elem func(p *T) Decodable) error {
	null, err := d.ProbeNull()
	if err != nil {
		return err
	}
	if null {
		*dst = nil
		return nil
	}
	v := new(T)
	if err := elem(v).DecodeCBOR(d); err != nil {
		return err
	}
	*dst = v
	return nil
}

// DecodeNullable is DecodeNullableFunc for types whose pointer is Decodable.
func DecodeNullable[T any, PT interface {
	*T
	Decodable
}](d *Decoder, dst **T) error {
	return DecodeNullableFunc(d, dst, func(p *T) Decodable { return PT(p) })
}

// DecodeFields decodes a map with text string keys. For every key, field
// returns the target for its value, or nil to skip it. Null is accepted
// and leaves every field untouched.
func DecodeFields(d *Decoder, field func(key string) Decodable) error {
	null, err := d.ProbeNull()
	if err != nil || null {
		return err
	}
	return d.Decode(&compositeVisitor{
		UnexpectedVisitor: UnexpectedVisitor{Want: MapType},
		m: func(c *Composite) error {
			for {
				var key String
				ok, err := c.Key(&key)
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				dst := field(string(key))
				if dst == nil {
					dst = Ignored{}
				}
				if err := dst.DecodeCBOR(d); err != nil {
					return WrapError(err, string(key))
				}
			}
			return c.End()
		},
	})
}
