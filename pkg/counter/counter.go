// Package counter implements arbitrary-precision big-endian byte-string
// counter arithmetic shared by the SA IV/ARC increment and the
// anti-replay window check.
package counter

// Increment adds one to b, treated as a big-endian arbitrary-precision
// unsigned integer, incrementing from the least-significant byte (the
// rightmost one) and carrying left. It mutates b in place and reports
// whether the addition overflowed (all octets were 0xFF and wrapped to
// zero).
func Increment(b []byte) (overflow bool) {
	if len(b) == 0 {
		return false
	}
	for i := len(b) - 1; i >= 0; i-- {
		b[i]++
		if b[i] != 0 {
			return false
		}
	}
	return true
}

// Add returns a new byte string equal to b plus k, treated as a big-endian
// arbitrary-precision unsigned integer with wrap-around at 2^(8*len(b)). b
// is not modified.
func Add(b []byte, k int) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	carry := uint32(k)
	for i := len(out) - 1; i >= 0 && carry > 0; i-- {
		sum := uint32(out[i]) + carry
		out[i] = byte(sum)
		carry = sum >> 8
	}
	return out
}

// Equal reports whether a and b, both big-endian byte strings of the same
// length, encode the same value.
func Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
