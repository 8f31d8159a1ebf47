package tests

import (
	"bytes"
	"testing"

	cbor "github.com/synadia-labs/cborvisit/runtime"
)

// FuzzCBORSequences walks arbitrary input as a CBOR sequence. Every item
// must either decode or fail with an error, and the offset must advance.
func FuzzCBORSequences(f *testing.F) {
	f.Add([]byte{0x62, 'h', 'i', 0x18, 0x2a})
	f.Add([]byte{0x9f, 0x01, 0xff, 0xa0})

	f.Fuzz(func(t *testing.T, data []byte) {
		d := cbor.NewDecoder(bytes.NewReader(data))
		for {
			more, err := d.More()
			if err != nil || !more {
				return
			}
			before := d.InputOffset()
			if _, err := cbor.DiagNext(d); err != nil {
				return
			}
			if d.InputOffset() <= before {
				t.Fatalf("offset did not advance at %d", before)
			}
		}
	})
}
