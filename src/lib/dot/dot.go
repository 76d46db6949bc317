package dot

// Len is the fixed number of elements the accelerator multiplies.
const Len = 8

// Vector is one operand of the accelerator. It is a value type so callers
// can build it on the stack and hand it around without sharing.
type Vector [Len]int32

// Product is the software reference for the accelerator. Each product is
// widened to 64 bits before it is added and the sum wraps like the
// hardware's 64-bit accumulator: the result is the exact sum modulo 2^64,
// read as two's complement.  It is exact whenever the sum fits in an int64,
// which holds for operands below 2^30 in magnitude.
func Product(a, b Vector) int64 {
	acc := int64(0)
	for i := 0; i < Len; i++ {
		acc += int64(a[i]) * int64(b[i])
	}
	return acc
}

// FromInts copies exactly Len values into a Vector, truncating each to 32
// bits.  It reports false for a slice of any other length.
func FromInts(values []int64) (Vector, bool) {
	var v Vector
	if len(values) != Len {
		return v, false
	}
	for i, x := range values {
		v[i] = int32(x)
	}
	return v, true
}
