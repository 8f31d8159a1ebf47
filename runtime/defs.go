// This package is a streaming, visitor-driven CBOR decoder.
//
// Items are pulled from an io.Reader one header at a time and handed straight
// to the caller's target through the Visitor interface. No intermediate value
// tree is ever built: strings and byte strings are materialized, everything
// else is delivered as a scalar or as a Composite cursor that the visitor
// drains at its own pace.
//
// This package defines three "families" of entry points:
//   - Decode/Unmarshal decode exactly one item into a Decodable and check
//     that the input is exhausted.
//   - (*Decoder).Decode/DecodeVariant dispatch one item to a Visitor or
//     VariantVisitor.
//   - Uint64, String, DecodeSlice, DecodeFields and friends are ready-made
//     Decodable targets for the common Go shapes.
//
// Tags are transparent: the tag number is read and discarded and the tagged
// item is decoded in its place.
package cbor

const (
	// recursionLimit is the default limit of nested composites, tags and
	// string chunks a single decode may descend through.
	recursionLimit = 100000

	// defaultMaxContainerLen caps declared lengths (array and map counts,
	// byte and text string sizes) before anything is allocated.
	defaultMaxContainerLen = 1 << 19
)

// CBOR major types (3 bits)
const (
	majorTypeUint   = 0 // unsigned integer
	majorTypeNegInt = 1 // negative integer
	majorTypeBytes  = 2 // byte string
	majorTypeText   = 3 // text string (UTF-8)
	majorTypeArray  = 4 // array
	majorTypeMap    = 5 // map
	majorTypeTag    = 6 // semantic tag
	majorTypeSimple = 7 // float, simple values, break
)

// Additional info values (5 bits)
const (
	// 0-23: literal value
	addInfoDirect     = 23 // max direct value
	addInfoUint8      = 24 // 1-byte uint8 follows
	addInfoUint16     = 25 // 2-byte uint16 follows
	addInfoUint32     = 26 // 4-byte uint32 follows
	addInfoUint64     = 27 // 8-byte uint64 follows
	addInfoIndefinite = 31 // indefinite length (for bytes, text, array, map)
)

// Simple values in major type 7
const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
	simpleFloat16   = 25
	simpleFloat32   = 26
	simpleFloat64   = 27
	simpleBreak     = 31
)

// makeByte creates a CBOR initial byte from major type and additional info
func makeByte(majorType, addInfo uint8) byte {
	return byte((majorType << 5) | addInfo)
}

// getMajorType extracts the major type from a CBOR initial byte
func getMajorType(b byte) uint8 {
	return (b >> 5) & 0x07
}

// getAddInfo extracts the additional info from a CBOR initial byte
func getAddInfo(b byte) uint8 {
	return b & 0x1f
}

var (
	breakByte = makeByte(majorTypeSimple, simpleBreak)
	nullByte  = makeByte(majorTypeSimple, simpleNull)
)

// Type represents the kind of item a Visitor was handed.
type Type byte

// CBOR Types
const (
	InvalidType Type = iota

	StrType     // text string
	BinType     // byte string
	MapType     // map
	ArrayType   // array
	Float64Type // float64
	Float32Type // float32 (and widened float16)
	BoolType    // bool
	IntType     // negative integer
	UintType    // unsigned integer
	NilType     // null or undefined
)

// String implements fmt.Stringer
func (t Type) String() string {
	switch t {
	case StrType:
		return "str"
	case BinType:
		return "bin"
	case MapType:
		return "map"
	case ArrayType:
		return "array"
	case Float64Type:
		return "float64"
	case Float32Type:
		return "float32"
	case BoolType:
		return "bool"
	case UintType:
		return "uint"
	case IntType:
		return "int"
	case NilType:
		return "nil"
	default:
		return "<invalid>"
	}
}
