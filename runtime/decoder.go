package cbor

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"strconv"
)

var be = binary.BigEndian

// step is the outcome of decoding a single item header: either a value was
// delivered to the visitor, or the break code was found in its place.
type step uint8

const (
	stepValue step = iota
	stepBreak
)

// Decoder pulls CBOR items from an io.Reader and dispatches them to a Visitor.
// It reads strictly forward; the only pushback is a single pending header
// byte. A Decoder is not safe for concurrent use.
type Decoder struct {
	r  io.Reader
	br io.ByteReader // r, when it can hand out single bytes cheaply

	off int64 // bytes consumed from r

	pending    byte
	hasPending bool

	depth        int
	maxDepth     int
	maxContainer uint64
	skipUTF8     bool

	scratch [8]byte
}

// NewDecoder constructs a Decoder reading from r with the default limits:
// declared lengths up to 2^19 and nesting up to 100000 levels.
func NewDecoder(r io.Reader) *Decoder {
	d := &Decoder{
		r:            r,
		maxDepth:     recursionLimit,
		maxContainer: defaultMaxContainerLen,
	}
	if br, ok := r.(io.ByteReader); ok {
		d.br = br
	}
	return d
}

// SetMaxContainerLen configures an upper bound on declared lengths
// (array and map counts, byte and text string sizes, and the assembled
// size of chunked strings). A value of zero disables the limit.
// When exceeded, a SyntaxError wrapping ErrContainerTooLarge is returned.
func (d *Decoder) SetMaxContainerLen(max uint64) { d.maxContainer = max }

// SetMaxDepth configures how deeply arrays, maps, variants and tags may
// nest. A value of zero disables the limit.
// When exceeded, a SyntaxError wrapping ErrMaxDepthExceeded is returned.
func (d *Decoder) SetMaxDepth(max int) { d.maxDepth = max }

// SetValidateUTF8 controls whether text strings are checked for
// well-formed UTF-8. Enabled by default.
func (d *Decoder) SetValidateUTF8(validate bool) { d.skipUTF8 = !validate }

// InputOffset returns the number of bytes consumed from the source,
// not counting a pending lookahead byte.
func (d *Decoder) InputOffset() int64 {
	if d.hasPending {
		return d.off - 1
	}
	return d.off
}

// readByte reads one byte from the source. io.EOF is returned unwrapped so
// callers can decide whether the end of input is legal at this point.
func (d *Decoder) readByte() (byte, error) {
	if d.br != nil {
		c, err := d.br.ReadByte()
		if err != nil {
			return 0, err
		}
		d.off++
		return c, nil
	}
	if _, err := io.ReadFull(d.r, d.scratch[:1]); err != nil {
		return 0, err
	}
	d.off++
	return d.scratch[0], nil
}

// header returns the next item header, taking the pending byte first.
// Running out of input here is always premature.
func (d *Decoder) header() (byte, error) {
	if d.hasPending {
		d.hasPending = false
		return d.pending, nil
	}
	c, err := d.readByte()
	if err != nil {
		return 0, d.ioErr(err)
	}
	return c, nil
}

// unread parks b in the lookahead slot; the next header call returns it.
func (d *Decoder) unread(b byte) {
	d.pending = b
	d.hasPending = true
}

// readFull fills p from the source.
func (d *Decoder) readFull(p []byte) error {
	n, err := io.ReadFull(d.r, p)
	d.off += int64(n)
	if err != nil {
		return d.ioErr(err)
	}
	return nil
}

func (d *Decoder) ioErr(err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return &IOError{Offset: d.off, Err: err}
}

func (d *Decoder) syntaxErr(msg string, cause error) error {
	return &SyntaxError{Offset: d.InputOffset(), Msg: msg, Err: cause}
}

// argument resolves the additional information of header b: a literal,
// a 1/2/4/8-byte big-endian value, or indefinite for 31.
func (d *Decoder) argument(b byte) (arg uint64, indefinite bool, err error) {
	ai := getAddInfo(b)
	switch {
	case ai <= addInfoDirect:
		return uint64(ai), false, nil
	case ai == addInfoIndefinite:
		return 0, true, nil
	case ai > addInfoUint64:
		return 0, false, d.syntaxErr("", InvalidAdditionalInfoError{Major: getMajorType(b), Info: ai})
	}
	n := 1 << (ai - addInfoUint8)
	p := d.scratch[:n]
	if err := d.readFull(p); err != nil {
		return 0, false, err
	}
	switch n {
	case 1:
		return uint64(p[0]), false, nil
	case 2:
		return uint64(be.Uint16(p)), false, nil
	case 4:
		return uint64(be.Uint32(p)), false, nil
	default:
		return be.Uint64(p), false, nil
	}
}

// definite is argument for items that have no indefinite form.
func (d *Decoder) definite(b byte) (uint64, error) {
	arg, indef, err := d.argument(b)
	if err != nil {
		return 0, err
	}
	if indef {
		return 0, d.syntaxErr("", InvalidAdditionalInfoError{Major: getMajorType(b), Info: addInfoIndefinite})
	}
	return arg, nil
}

// length is argument for strings, arrays and maps, with the declared
// length checked against the configured ceiling.
func (d *Decoder) length(b byte) (n uint64, indefinite bool, err error) {
	n, indefinite, err = d.argument(b)
	if err != nil || indefinite {
		return n, indefinite, err
	}
	if err := d.checkLen(n); err != nil {
		return 0, false, err
	}
	return n, false, nil
}

func (d *Decoder) checkLen(n uint64) error {
	if (d.maxContainer > 0 && n > d.maxContainer) || n > math.MaxInt {
		return d.syntaxErr("declared length "+strconv.FormatUint(n, 10), ErrContainerTooLarge)
	}
	return nil
}

func (d *Decoder) enter() error {
	d.depth++
	if d.maxDepth > 0 && d.depth > d.maxDepth {
		d.depth--
		return d.syntaxErr("", ErrMaxDepthExceeded)
	}
	return nil
}

func (d *Decoder) leave() { d.depth-- }

// Decode consumes exactly one item and hands it to v. A break code in
// this position is a syntax error.
func (d *Decoder) Decode(v Visitor) error {
	s, err := d.step(v)
	if err != nil {
		return err
	}
	if s == stepBreak {
		return d.syntaxErr("", ErrUnexpectedBreak)
	}
	return nil
}

// step decodes one item, reporting the break code as stepBreak instead of
// delivering it to v.
func (d *Decoder) step(v Visitor) (step, error) {
	b, err := d.header()
	if err != nil {
		return stepValue, err
	}
	switch getMajorType(b) {
	case majorTypeUint:
		return stepValue, d.parseUint(b, v)
	case majorTypeNegInt:
		return stepValue, d.parseNegInt(b, v)
	case majorTypeBytes:
		return stepValue, d.parseBytes(b, v)
	case majorTypeText:
		return stepValue, d.parseText(b, v)
	case majorTypeArray:
		return stepValue, d.parseArray(b, v)
	case majorTypeMap:
		return stepValue, d.parseMap(b, v)
	case majorTypeTag:
		return stepValue, d.parseTag(b, v)
	default:
		return d.parseSimple(b, v)
	}
}

// atBreak consumes the next header if it is the break code. Otherwise the
// header is left pending for the next decode.
func (d *Decoder) atBreak() (bool, error) {
	b, err := d.header()
	if err != nil {
		return false, err
	}
	if b == breakByte {
		return true, nil
	}
	d.unread(b)
	return false, nil
}

// parseTag discards the tag number and decodes the tagged item in its place.
func (d *Decoder) parseTag(b byte, v Visitor) error {
	if _, err := d.definite(b); err != nil {
		return err
	}
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()
	return d.Decode(v)
}

// ProbeNull consumes the next item if it is null or undefined and reports
// whether it did. Any other header is left pending, so the caller can go on
// to decode the present value.
func (d *Decoder) ProbeNull() (bool, error) {
	b, err := d.header()
	if err != nil {
		return false, err
	}
	if b == nullByte || b == makeByte(majorTypeSimple, simpleUndefined) {
		return true, nil
	}
	d.unread(b)
	return false, nil
}

// End reports whether the source is exhausted. It reads a single probe
// byte: end of input is success, anything else is ErrTrailingBytes.
func (d *Decoder) End() error {
	if d.hasPending {
		return ErrTrailingBytes
	}
	_, err := d.readByte()
	switch {
	case err == nil:
		return ErrTrailingBytes
	case errors.Is(err, io.EOF):
		return nil
	default:
		return &IOError{Offset: d.off, Err: err}
	}
}

// More reports whether another top-level item follows, for reading CBOR
// sequences. The probed byte is kept pending for the next decode.
func (d *Decoder) More() (bool, error) {
	if d.hasPending {
		return true, nil
	}
	b, err := d.readByte()
	switch {
	case err == nil:
		d.unread(b)
		return true, nil
	case errors.Is(err, io.EOF):
		return false, nil
	default:
		return false, &IOError{Offset: d.off, Err: err}
	}
}
