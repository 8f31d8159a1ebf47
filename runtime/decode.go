package cbor

import (
	"bytes"
	"io"
)

// DecOptions bundles the decoder limits for the package-level entry points.
// The zero value gives the defaults of NewDecoder.
type DecOptions struct {
	// MaxContainerLen caps declared lengths. Zero means the default of
	// 2^19; a negative value disables the check.
	MaxContainerLen int64

	// MaxDepth caps nesting. Zero means the default of 100000; a negative
	// value disables the check.
	MaxDepth int

	// SkipUTF8Validation turns off the UTF-8 check on text strings.
	SkipUTF8Validation bool
}

// NewDecoder returns a Decoder reading from r configured with o.
func (o DecOptions) NewDecoder(r io.Reader) *Decoder {
	d := NewDecoder(r)
	switch {
	case o.MaxContainerLen < 0:
		d.SetMaxContainerLen(0)
	case o.MaxContainerLen > 0:
		d.SetMaxContainerLen(uint64(o.MaxContainerLen))
	}
	switch {
	case o.MaxDepth < 0:
		d.SetMaxDepth(0)
	case o.MaxDepth > 0:
		d.SetMaxDepth(o.MaxDepth)
	}
	d.SetValidateUTF8(!o.SkipUTF8Validation)
	return d
}

// Decode decodes exactly one item from r into v and checks that r holds
// nothing more.
func (o DecOptions) Decode(r io.Reader, v Decodable) error {
	return decodeOne(o.NewDecoder(r), v)
}

// Unmarshal decodes exactly one item from b into v. Bytes left over after
// the item give ErrTrailingBytes.
func (o DecOptions) Unmarshal(b []byte, v Decodable) error {
	return decodeOne(o.NewDecoder(bytes.NewReader(b)), v)
}

// Decode decodes exactly one item from r into v with the default limits
// and checks that r holds nothing more.
func Decode(r io.Reader, v Decodable) error {
	return decodeOne(NewDecoder(r), v)
}

// DecodeWith is Decode with caller supplied limits.
func DecodeWith(r io.Reader, v Decodable, opts DecOptions) error {
	return opts.Decode(r, v)
}

// Unmarshal decodes exactly one item from b into v with the default limits.
func Unmarshal(b []byte, v Decodable) error {
	return decodeOne(NewDecoder(bytes.NewReader(b)), v)
}

func decodeOne(d *Decoder, v Decodable) error {
	if err := v.DecodeCBOR(d); err != nil {
		return err
	}
	return d.End()
}

// DecodeOne decodes exactly one item from r into a new T.
func DecodeOne[T any, PT interface {
	*T
	Decodable
}](r io.Reader) (T, error) {
	var out T
	err := Decode(r, PT(&out))
	return out, err
}

// UnmarshalOne decodes exactly one item from b into a new T.
func UnmarshalOne[T any, PT interface {
	*T
	Decodable
}](b []byte) (T, error) {
	var out T
	err := Unmarshal(b, PT(&out))
	return out, err
}

// Validate checks that r holds exactly one well-formed item. The item is
// decoded and discarded as it streams by.
func Validate(r io.Reader) error {
	return Decode(r, Ignored{})
}

// ValidateBytes is Validate for a byte slice.
func ValidateBytes(b []byte) error {
	return Unmarshal(b, Ignored{})
}
