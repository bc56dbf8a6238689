// Package bits wraps math/bits with the fixed-width compiler-builtin
// helpers GPCC exposes in gpcc/compiler (CountLeadingZeros, CountTrailingZeros,
// bit-reverse, overflow-aware add/sub): Go has no __builtin_clz/__builtin_add_overflow
// equivalents in the language itself, but math/bits compiles them down to the
// same CPU instructions, so it is the natural home for this package rather
// than a hand-written bit-twiddling loop.
package bits

import "math/bits"

// CountLeadingZeros8 returns the number of leading zero bits in x; 8 if x
// is zero.
func CountLeadingZeros8(x uint8) int { return bits.LeadingZeros8(x) }

// CountLeadingZeros16 returns the number of leading zero bits in x; 16 if x
// is zero.
func CountLeadingZeros16(x uint16) int { return bits.LeadingZeros16(x) }

// CountLeadingZeros32 returns the number of leading zero bits in x; 32 if x
// is zero.
func CountLeadingZeros32(x uint32) int { return bits.LeadingZeros32(x) }

// CountLeadingZeros64 returns the number of leading zero bits in x; 64 if x
// is zero.
func CountLeadingZeros64(x uint64) int { return bits.LeadingZeros64(x) }

// CountLeadingOnes32 returns the number of leading one bits in x; 32 if x is
// all-ones.
func CountLeadingOnes32(x uint32) int { return bits.LeadingZeros32(^x) }

// CountTrailingZeros32 returns the number of trailing zero bits in x; 32 if
// x is zero.
func CountTrailingZeros32(x uint32) int { return bits.TrailingZeros32(x) }

// CountTrailingZeros64 returns the number of trailing zero bits in x; 64 if
// x is zero.
func CountTrailingZeros64(x uint64) int { return bits.TrailingZeros64(x) }

// PopCount32 returns the number of one bits ("population count") in x.
func PopCount32(x uint32) int { return bits.OnesCount32(x) }

// ReverseBits8 reverses the bit order of x.
func ReverseBits8(x uint8) uint8 { return bits.Reverse8(x) }

// ReverseBits32 reverses the bit order of x.
func ReverseBits32(x uint32) uint32 { return bits.Reverse32(x) }

// AddOverflow32 computes a+b and reports whether the result overflowed
// int32's range.
func AddOverflow32(a, b int32) (result int32, overflowed bool) {
	sum64 := int64(a) + int64(b)
	result = int32(sum64)
	return result, int64(result) != sum64
}

// SubOverflow32 computes a-b and reports whether the result overflowed
// int32's range.
func SubOverflow32(a, b int32) (result int32, overflowed bool) {
	diff64 := int64(a) - int64(b)
	result = int32(diff64)
	return result, int64(result) != diff64
}

// AddOverflowUint32 computes a+b and reports whether the result overflowed
// uint32's range.
func AddOverflowUint32(a, b uint32) (result uint32, overflowed bool) {
	sum, carry := bits.Add32(a, b, 0)
	return sum, carry != 0
}
