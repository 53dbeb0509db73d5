package bufq

// ExpandBits converts a sequence of raw bytes into count boolean bit
// values, following the LSB pattern, where least-significant bits come
// first within each byte. data must hold at least ceil(count/8) bytes.
func ExpandBits(data []byte, count int) []bool {
	bits := make([]bool, count)
	for i := range bits {
		bits[i] = data[i/8]&(1<<(uint(i)%8)) != 0
	}
	return bits
}

// PackBits is the inverse of ExpandBits: it packs every 8 bits into one
// byte, LSB first, zero-filling the high bits of a trailing partial byte.
// An empty input yields nil.
func PackBits(bits []bool) []byte {
	if len(bits) == 0 {
		return nil
	}
	data := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit {
			data[i/8] |= 1 << (uint(i) % 8)
		}
	}
	return data
}
