package cbor

import (
	"bytes"
	"encoding/hex"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DiagVisitor renders items in RFC 8949 diagnostic notation into Buf as
// they are visited. Tags are transparent to the decoder, so tag numbers do
// not appear in the output; chunked strings are rendered assembled.
type DiagVisitor struct {
	Buf *ByteBuffer
}

// VisitUint implements Visitor.
func (v DiagVisitor) VisitUint(u uint64) error {
	v.Buf.WriteString(strconv.FormatUint(u, 10))
	return nil
}

// VisitInt implements Visitor.
func (v DiagVisitor) VisitInt(i int64) error {
	v.Buf.WriteString(strconv.FormatInt(i, 10))
	return nil
}

// VisitBool implements Visitor.
func (v DiagVisitor) VisitBool(b bool) error {
	v.Buf.WriteString(strconv.FormatBool(b))
	return nil
}

// VisitFloat32 implements Visitor.
func (v DiagVisitor) VisitFloat32(f float32) error {
	v.Buf.WriteString(formatFloatDiag(float64(f)))
	return nil
}

// VisitFloat64 implements Visitor.
func (v DiagVisitor) VisitFloat64(f float64) error {
	v.Buf.WriteString(formatFloatDiag(f))
	return nil
}

// VisitNull implements Visitor.
func (v DiagVisitor) VisitNull() error {
	v.Buf.WriteString("null")
	return nil
}

// VisitBytes implements Visitor.
func (v DiagVisitor) VisitBytes(p []byte) error {
	v.Buf.WriteString("h'")
	v.Buf.Ensure(hex.EncodedLen(len(p)) + 1)
	hex.NewEncoder(v.Buf).Write(p)
	v.Buf.WriteByte('\'')
	return nil
}

// VisitString implements Visitor.
func (v DiagVisitor) VisitString(s string) error {
	quoteDiag(v.Buf, s)
	return nil
}

// VisitArray implements Visitor.
func (v DiagVisitor) VisitArray(c *Composite) error {
	v.Buf.WriteByte('[')
	if c.Indefinite() {
		v.Buf.WriteString("_ ")
	}
	for i := 0; ; i++ {
		mark := v.Buf.Len()
		if i > 0 {
			v.Buf.WriteString(", ")
		}
		ok, err := c.NextVisit(v)
		if err != nil {
			return err
		}
		if !ok {
			v.Buf.b = v.Buf.b[:mark]
			break
		}
	}
	v.Buf.WriteByte(']')
	return c.End()
}

// VisitMap implements Visitor.
func (v DiagVisitor) VisitMap(c *Composite) error {
	v.Buf.WriteByte('{')
	if c.Indefinite() {
		v.Buf.WriteString("_ ")
	}
	for i := 0; ; i++ {
		mark := v.Buf.Len()
		if i > 0 {
			v.Buf.WriteString(", ")
		}
		ok, err := c.KeyVisit(v)
		if err != nil {
			return err
		}
		if !ok {
			v.Buf.b = v.Buf.b[:mark]
			break
		}
		v.Buf.WriteString(": ")
		if err := c.ValueVisit(v); err != nil {
			return err
		}
	}
	v.Buf.WriteByte('}')
	return c.End()
}

// DiagNext renders the next item of d.
func DiagNext(d *Decoder) (string, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	if err := d.Decode(DiagVisitor{Buf: bb}); err != nil {
		return "", err
	}
	return string(bb.Bytes()), nil
}

// Diag renders the single item held by r.
func Diag(r io.Reader) (string, error) {
	d := NewDecoder(r)
	s, err := DiagNext(d)
	if err != nil {
		return "", err
	}
	return s, d.End()
}

// DiagBytes renders the next CBOR item in RFC diagnostic notation and returns the remaining bytes.
func DiagBytes(b []byte) (string, []byte, error) {
	d := NewDecoder(bytes.NewReader(b))
	s, err := DiagNext(d)
	if err != nil {
		return "", b, err
	}
	return s, b[d.InputOffset():], nil
}

// quoteDiag writes s as a JSON string literal, which is how diagnostic
// notation spells text. Control characters use \uXXXX (or the short JSON
// escapes); other characters are written as is. Bytes that are not UTF-8,
// possible only with validation disabled, become U+FFFD.
func quoteDiag(bb *ByteBuffer, s string) {
	bb.Ensure(len(s) + 2)
	bb.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				bb.WriteString(`\ufffd`)
			} else {
				bb.WriteString(s[i : i+size])
			}
			i += size
			continue
		}
		switch c {
		case '"':
			bb.WriteString(`\"`)
		case '\\':
			bb.WriteString(`\\`)
		case '\b':
			bb.WriteString(`\b`)
		case '\f':
			bb.WriteString(`\f`)
		case '\n':
			bb.WriteString(`\n`)
		case '\r':
			bb.WriteString(`\r`)
		case '\t':
			bb.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				bb.WriteString(`\u00`)
				bb.WriteByte(hexDigits[c>>4])
				bb.WriteByte(hexDigits[c&0xf])
			} else {
				bb.WriteByte(c)
			}
		}
		i++
	}
	bb.WriteByte('"')
}

const hexDigits = "0123456789abcdef"

// formatFloatDiag formats f the way the RFC 8949 examples do: decimal
// notation with a fractional part for moderate magnitudes, exponent
// notation with a fractional mantissa otherwise.
func formatFloatDiag(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	if af := math.Abs(f); af == 0 || (af >= 1e-5 && af < 1e15) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}
