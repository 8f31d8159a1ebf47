package structs

import (
	"bytes"
	"testing"

	fxcbor "github.com/fxamacker/cbor/v2"

	cbor "github.com/synadia-labs/cborvisit/runtime"
)

// FuzzDecodeStructs exercises the generated DecodeCBOR methods and the
// Shape variant for a few representative types to ensure they do not
// panic on arbitrary inputs.
func FuzzDecodeStructs(f *testing.F) {
	for _, seed := range []any{
		Person{Name: "Alice", Age: 30, Data: []byte{1, 2, 3}},
		Scalars{S: "s", B: true, I: 1, Names: []string{"x"}},
		Containers{Ptrs: []*Scalars{nil, {U64: 9}}},
		[]any{"rect", 1, 2},
		"point",
	} {
		if b, err := fxcbor.Marshal(seed); err == nil {
			f.Add(b)
		}
	}

	opts := cbor.DecOptions{MaxContainerLen: 1 << 16, MaxDepth: 64}
	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("panic in struct fuzz: %v", r)
			}
		}()
		var p Person
		_ = opts.Decode(bytes.NewReader(data), &p)
		var s Scalars
		_ = opts.Decode(bytes.NewReader(data), &s)
		var c Containers
		_ = opts.Decode(bytes.NewReader(data), &c)
		var sh Shape
		_ = opts.Decode(bytes.NewReader(data), &sh)
	})
}
