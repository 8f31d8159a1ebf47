package benchmarks

import (
	"bytes"
	"testing"

	fxcbor "github.com/fxamacker/cbor/v2"
	msgp "github.com/tinylib/msgp/msgp"
	"github.com/vmihailenco/msgpack/v5"

	cbor "github.com/synadia-labs/cborvisit/runtime"
	"github.com/synadia-labs/cborvisit/tests/structs"
)

// benchPerson mirrors the fields of structs.Person but is defined
// locally so we can add tags for other libraries without impacting
// cborgen-driven code.
type benchPerson struct {
	Name string `json:"name" cbor:"name" msgpack:"name"`
	Age  int    `json:"age" cbor:"age" msgpack:"age"`
	Data []byte `json:"data" cbor:"data" msgpack:"data"`
}

func newPerson() benchPerson {
	return benchPerson{Name: "Alice", Age: 42, Data: []byte("hello world")}
}

func personCBOR(b *testing.B) []byte {
	enc, err := fxcbor.Marshal(newPerson())
	if err != nil {
		b.Fatalf("Marshal: %v", err)
	}
	return enc
}

func personMsgp() []byte {
	p := newPerson()
	out := msgp.AppendMapHeader(nil, 3)
	out = msgp.AppendString(out, "name")
	out = msgp.AppendString(out, p.Name)
	out = msgp.AppendString(out, "age")
	out = msgp.AppendInt(out, p.Age)
	out = msgp.AppendString(out, "data")
	out = msgp.AppendBytes(out, p.Data)
	return out
}

func BenchmarkPerson_DecodeVisitor(b *testing.B) {
	enc := personCBOR(b)
	r := bytes.NewReader(enc)
	b.ReportAllocs()
	b.SetBytes(int64(len(enc)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Reset(enc)
		var out structs.Person
		if err := cbor.Decode(r, &out); err != nil {
			b.Fatalf("Decode: %v", err)
		}
	}
}

func BenchmarkPerson_DecodeFxamacker(b *testing.B) {
	enc := personCBOR(b)
	b.ReportAllocs()
	b.SetBytes(int64(len(enc)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var out benchPerson
		if err := fxcbor.Unmarshal(enc, &out); err != nil {
			b.Fatalf("Unmarshal: %v", err)
		}
	}
}

func BenchmarkPerson_DecodeFxamackerStream(b *testing.B) {
	enc := personCBOR(b)
	r := bytes.NewReader(enc)
	b.ReportAllocs()
	b.SetBytes(int64(len(enc)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Reset(enc)
		var out benchPerson
		if err := fxcbor.NewDecoder(r).Decode(&out); err != nil {
			b.Fatalf("Decode: %v", err)
		}
	}
}

func BenchmarkPerson_DecodeMsgp(b *testing.B) {
	enc := personMsgp()
	b.ReportAllocs()
	b.SetBytes(int64(len(enc)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var out benchPerson
		sz, rest, err := msgp.ReadMapHeaderBytes(enc)
		if err != nil {
			b.Fatal(err)
		}
		for j := uint32(0); j < sz; j++ {
			var key []byte
			key, rest, err = msgp.ReadMapKeyZC(rest)
			if err != nil {
				b.Fatal(err)
			}
			switch string(key) {
			case "name":
				out.Name, rest, err = msgp.ReadStringBytes(rest)
			case "age":
				out.Age, rest, err = msgp.ReadIntBytes(rest)
			case "data":
				out.Data, rest, err = msgp.ReadBytesBytes(rest, out.Data)
			default:
				rest, err = msgp.Skip(rest)
			}
			if err != nil {
				b.Fatal(err)
			}
		}
	}
}

func BenchmarkPerson_DecodeMsgpack(b *testing.B) {
	enc, err := msgpack.Marshal(newPerson())
	if err != nil {
		b.Fatalf("Marshal: %v", err)
	}
	b.ReportAllocs()
	b.SetBytes(int64(len(enc)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var out benchPerson
		if err := msgpack.Unmarshal(enc, &out); err != nil {
			b.Fatalf("Unmarshal: %v", err)
		}
	}
}

// TestPersonDecodersAgree guards the benchmarks above against comparing
// decoders that do different work.
func TestPersonDecodersAgree(t *testing.T) {
	want := newPerson()

	enc, err := fxcbor.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}
	var got structs.Person
	if err := cbor.Unmarshal(enc, &got); err != nil {
		t.Fatal(err)
	}
	if got.Name != want.Name || got.Age != want.Age || !bytes.Equal(got.Data, want.Data) {
		t.Fatalf("visitor decode: %+v", got)
	}

	menc, err := msgpack.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}
	var mp benchPerson
	if err := msgpack.Unmarshal(menc, &mp); err != nil {
		t.Fatal(err)
	}
	if mp.Name != want.Name || mp.Age != want.Age || !bytes.Equal(mp.Data, want.Data) {
		t.Fatalf("msgpack decode: %+v", mp)
	}

	if rest, err := msgp.Skip(personMsgp()); err != nil || len(rest) != 0 {
		t.Fatalf("msgp encoding: %v, %d left", err, len(rest))
	}
}
