package cbor

import "math"

const (
	float16ExpBits  = 5
	float16MantBits = 10

	float16ExpShift         = float16MantBits
	float16ExpMask   uint16 = math.MaxUint16 >> (16 - float16ExpBits)
	float16MantMask  uint16 = math.MaxUint16 >> (16 - float16MantBits)
)
