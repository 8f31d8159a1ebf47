package cbor

import "unicode/utf8"

// typeOf classifies a header byte. Tags report the type of nothing in
// particular since the tagged item follows; callers peeking through tags
// must look further.
func typeOf(b byte) Type {
	switch getMajorType(b) {
	case majorTypeUint:
		return UintType
	case majorTypeNegInt:
		return IntType
	case majorTypeBytes:
		return BinType
	case majorTypeText:
		return StrType
	case majorTypeArray:
		return ArrayType
	case majorTypeMap:
		return MapType
	case majorTypeSimple:
		switch getAddInfo(b) {
		case simpleTrue, simpleFalse:
			return BoolType
		case simpleNull, simpleUndefined:
			return NilType
		case simpleFloat16, simpleFloat32:
			return Float32Type
		case simpleFloat64:
			return Float64Type
		}
	}
	return InvalidType
}

// PeekType reports the type of the next item without consuming it. Tags
// in front of the item are consumed and discarded, which is what decoding
// would do anyway. The break code and malformed headers report InvalidType.
func (d *Decoder) PeekType() (Type, error) {
	for {
		b, err := d.header()
		if err != nil {
			return InvalidType, err
		}
		if getMajorType(b) != majorTypeTag {
			d.unread(b)
			return typeOf(b), nil
		}
		if _, err := d.definite(b); err != nil {
			return InvalidType, err
		}
	}
}

// IsLikelyJSON reports whether the given byte slice looks like JSON text
// rather than CBOR. It is a heuristic and not a formal discriminator:
//
//   - It requires the data to be valid UTF-8.
//   - It then checks the first non-whitespace byte against the JSON
//     value grammar (object/array/string/number/true/false/null).
//
// Most CBOR payloads will fail one of these checks (non-UTF-8 or
// invalid JSON starter) and thus be classified as non-JSON.
func IsLikelyJSON(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	i := 0
	for i < len(b) {
		c := b[i]
		if c == ' ' || c == '\n' || c == '\r' || c == '\t' {
			i++
			continue
		}
		break
	}
	if i >= len(b) {
		return false
	}
	switch ch := b[i]; {
	case ch == '{' || ch == '[' || ch == '"' || ch == '-':
		return true
	case ch >= '0' && ch <= '9':
		return true
	case ch == 't' || ch == 'f' || ch == 'n':
		return true
	}
	return false
}
