// Package bits implements encoding and decoding of fixed-width unsigned
// integer fields, as used by the FLAC metadata block layouts.
package bits

// EncodeBE encodes x into n big-endian bytes, most significant byte first.
// Callers guarantee n <= 8.
func EncodeBE(x uint64, n int) []byte {
	buf := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		buf[i] = byte(x)
		x >>= 8
	}
	return buf
}

// DecodeBE decodes buf as a big-endian unsigned integer, most significant
// byte first. Callers guarantee len(buf) <= 8.
func DecodeBE(buf []byte) uint64 {
	var x uint64
	for _, b := range buf {
		x = x<<8 | uint64(b)
	}
	return x
}

// EncodeLE encodes x into n little-endian bytes, least significant byte
// first. Callers guarantee n <= 8.
func EncodeLE(x uint64, n int) []byte {
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		buf[i] = byte(x)
		x >>= 8
	}
	return buf
}

// DecodeLE decodes buf as a little-endian unsigned integer, least
// significant byte first. Callers guarantee len(buf) <= 8.
func DecodeLE(buf []byte) uint64 {
	var x uint64
	for i, b := range buf {
		x |= uint64(b) << (8 * uint(i))
	}
	return x
}
