package structs

//go:generate go run ../../cborgen -i containers.go

// Containers exercises slices and maps of struct and pointer-to-struct
// fields to validate generated DecodeCBOR for container element types.
type Containers struct {
	Items  []Scalars           `cbor:"items"`
	Ptrs   []*Scalars          `cbor:"ptrs"`
	Map    map[string]Scalars  `cbor:"map"`
	PtrMap map[string]*Scalars `cbor:"ptr_map"`
}
