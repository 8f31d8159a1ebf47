package cbor

// Decodable is the interface fulfilled by targets that know how to pull
// themselves off a Decoder. DecodeCBOR must consume exactly one item,
// usually by handing a Visitor to (*Decoder).Decode.
type Decodable interface {
	DecodeCBOR(d *Decoder) error
}

// DecodableFunc adapts a function to the Decodable interface.
type DecodableFunc func(d *Decoder) error

// DecodeCBOR implements Decodable.
func (f DecodableFunc) DecodeCBOR(d *Decoder) error { return f(d) }

// Visitor receives exactly one callback per decoded item.
//
// Byte and text strings are handed over fully assembled, even when they were
// encoded as indefinite-length chunks; the slice passed to VisitBytes is
// freshly allocated and owned by the visitor. Arrays and maps arrive as a
// Composite cursor that is only valid for the duration of the call: the
// visitor pulls as many elements as it wants and normally finishes with
// (*Composite).End.
type Visitor interface {
	VisitUint(v uint64) error
	VisitInt(v int64) error
	VisitBool(v bool) error
	VisitFloat32(v float32) error
	VisitFloat64(v float64) error
	VisitNull() error
	VisitBytes(v []byte) error
	VisitString(v string) error
	VisitArray(c *Composite) error
	VisitMap(c *Composite) error
}

// VariantVisitor receives the access object for a tagged union, see
// (*Decoder).DecodeVariant.
type VariantVisitor interface {
	VisitVariant(v *Variant) error
}

// UnexpectedVisitor implements every Visitor method by returning a TypeError
// naming Want. Embed it and override the kinds a target accepts.
type UnexpectedVisitor struct {
	Want Type
}

func (u UnexpectedVisitor) mismatch(got Type) error {
	return TypeError{Method: u.Want, Encoded: got}
}

// VisitUint implements Visitor.
func (u UnexpectedVisitor) VisitUint(uint64) error { return u.mismatch(UintType) }

// VisitInt implements Visitor.
func (u UnexpectedVisitor) VisitInt(int64) error { return u.mismatch(IntType) }

// VisitBool implements Visitor.
func (u UnexpectedVisitor) VisitBool(bool) error { return u.mismatch(BoolType) }

// VisitFloat32 implements Visitor.
func (u UnexpectedVisitor) VisitFloat32(float32) error { return u.mismatch(Float32Type) }

// VisitFloat64 implements Visitor.
func (u UnexpectedVisitor) VisitFloat64(float64) error { return u.mismatch(Float64Type) }

// VisitNull implements Visitor.
func (u UnexpectedVisitor) VisitNull() error { return u.mismatch(NilType) }

// VisitBytes implements Visitor.
func (u UnexpectedVisitor) VisitBytes([]byte) error { return u.mismatch(BinType) }

// VisitString implements Visitor.
func (u UnexpectedVisitor) VisitString(string) error { return u.mismatch(StrType) }

// VisitArray implements Visitor.
func (u UnexpectedVisitor) VisitArray(*Composite) error { return u.mismatch(ArrayType) }

// VisitMap implements Visitor.
func (u UnexpectedVisitor) VisitMap(*Composite) error { return u.mismatch(MapType) }
