package bit

// Combine combines two 8 bit values into a single 16 bit value.
// The high byte will be the most significant one.
func Combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}

// CheckedAdd adds two 8 bit unsigned values and detects if an overflow happened.
func CheckedAdd(a, b uint8) (result uint8, overflow bool) {
	overflow = false
	highBits := (uint16(a) + uint16(b)) & 0xFF00

	if highBits > 0 {
		overflow = true
	}

	result = a + b
	return
}

// Add16 adds two 16 bit values one byte at a time: the low bytes first, then
// the high bytes plus the carry out of the low addition. The result wraps
// modulo 65536.
func Add16(value, increment uint16) uint16 {
	lo, carry := CheckedAdd(Low(value), Low(increment))
	hi := High(value) + High(increment)
	if carry {
		hi++
	}
	return Combine(hi, lo)
}

// WrapAdd adds two bytes modulo 256.
func WrapAdd(a, b uint8) uint8 {
	return a + b
}

// WrapSub subtracts two bytes modulo 256. Underflow wraps, it is not an error.
func WrapSub(a, b uint8) uint8 {
	return a - b
}

// Signed reinterprets a byte as a two's complement value.
func Signed(value uint8) int8 {
	return int8(value)
}

// Low returns the low (LSB) part of a 16 bit number.
func Low(value uint16) uint8 {
	return uint8(value)
}

// High returns the high (MSB) part of a 16 bit number.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}
