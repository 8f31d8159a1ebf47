package cbor

// bodyChunk bounds how much is allocated ahead of the bytes actually
// arriving, so a large declared length costs nothing until the data exists.
const bodyChunk = 64 << 10

func (d *Decoder) parseBytes(b byte, v Visitor) error {
	p, err := d.stringBody(b)
	if err != nil {
		return err
	}
	return v.VisitBytes(p)
}

func (d *Decoder) parseText(b byte, v Visitor) error {
	p, err := d.stringBody(b)
	if err != nil {
		return err
	}
	return v.VisitString(unsafeString(p))
}

// stringBody reads the payload of a byte or text string header. Text is
// checked for valid UTF-8 unless validation was switched off.
func (d *Decoder) stringBody(b byte) ([]byte, error) {
	n, indefinite, err := d.length(b)
	if err != nil {
		return nil, err
	}
	if indefinite {
		return d.chunked(getMajorType(b))
	}
	p, err := d.readBody(n)
	if err != nil {
		return nil, err
	}
	if getMajorType(b) == majorTypeText && !d.skipUTF8 && !isUTF8Valid(p) {
		return nil, d.syntaxErr("", ErrInvalidUTF8)
	}
	return p, nil
}

func (d *Decoder) readBody(n uint64) ([]byte, error) {
	if n <= bodyChunk {
		p := make([]byte, n)
		if err := d.readFull(p); err != nil {
			return nil, err
		}
		return p, nil
	}
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	if err := d.appendBody(bb, n); err != nil {
		return nil, err
	}
	return append([]byte(nil), bb.Bytes()...), nil
}

func (d *Decoder) appendBody(bb *ByteBuffer, n uint64) error {
	for n > 0 {
		c := min(n, bodyChunk)
		if err := d.readFull(bb.Extend(int(c))); err != nil {
			return err
		}
		n -= c
	}
	return nil
}

// chunked assembles an indefinite-length string. Each chunk must be a
// definite string of the given major type; the break code ends the run.
// Text chunks are validated one by one, so a code point may not straddle
// two chunks.
func (d *Decoder) chunked(major uint8) ([]byte, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	for {
		b, err := d.header()
		if err != nil {
			return nil, err
		}
		if b == breakByte {
			break
		}
		if getMajorType(b) != major || getAddInfo(b) == addInfoIndefinite {
			return nil, d.syntaxErr("", ErrChunkType)
		}
		n, _, err := d.length(b)
		if err != nil {
			return nil, err
		}
		if err := d.checkLen(uint64(bb.Len()) + n); err != nil {
			return nil, err
		}
		start := bb.Len()
		if err := d.appendBody(bb, n); err != nil {
			return nil, err
		}
		if major == majorTypeText && !d.skipUTF8 && !isUTF8Valid(bb.Bytes()[start:]) {
			return nil, d.syntaxErr("", ErrInvalidUTF8)
		}
	}
	return append(make([]byte, 0, bb.Len()), bb.Bytes()...), nil
}
