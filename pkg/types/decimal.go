package types

import (
	"fmt"
	"math"
)

// Decimal geometry tables, derived once at startup. maxPrecision[len] is the
// largest decimal precision that fits in len bytes of unscaled
// two's-complement value; requiredLength[precision] is the smallest byte
// length that can hold the precision.
var (
	maxPrecision   [24]int
	requiredLength [40]int
)

func init() {
	for length := 0; length < len(maxPrecision); length++ {
		if length == 0 {
			maxPrecision[0] = 0
			continue
		}
		maxPrecision[length] = int(math.Floor(math.Log10(math.Pow(2, float64(8*length-1)) - 1)))
	}

	for precision := 0; precision < len(requiredLength); precision++ {
		requiredLength[precision] = -1
		for length := 0; length < len(maxPrecision); length++ {
			if precision <= maxPrecision[length] {
				requiredLength[precision] = length
				break
			}
		}
		if requiredLength[precision] < 0 {
			panic(fmt.Sprintf("types: could not find required length for precision %d", precision))
		}
	}
}

// DecimalMaxPrecision returns the maximum decimal precision that an unscaled
// value of numBytes bytes can hold. Panics if numBytes is outside [0, 24).
func DecimalMaxPrecision(numBytes int) int {
	if numBytes < 0 || numBytes >= len(maxPrecision) {
		panic(fmt.Sprintf("types: unsupported decimal length: %d", numBytes))
	}
	return maxPrecision[numBytes]
}

// DecimalRequiredBytes returns the minimum number of bytes needed to store
// an unscaled value of the given precision. Panics if precision is outside
// [0, 40).
func DecimalRequiredBytes(precision int) int {
	if precision < 0 || precision >= len(requiredLength) {
		panic(fmt.Sprintf("types: unsupported decimal precision: %d", precision))
	}
	return requiredLength[precision]
}
