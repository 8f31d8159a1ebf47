package structs

//go:generate go run ../../cborgen -i person.go

// Person is a simple example type used to exercise
// struct code generation semantics (map decoding,
// tag resolution and skipped keys).
type Person struct {
	Name string `cbor:"name"`
	Age  int    `cbor:"age,omitempty"`
	Data []byte `cbor:"data"`
}
