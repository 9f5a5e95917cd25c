package rom

// ByteOrder identifies one of the three on-disk orderings a Zelda64 ROM may
// arrive in. Detection looks only at the first byte of the image, same as
// the N64 header convention: 0x80 (z64, native big-endian), 0x37
// (v64, 16-bit swapped), 0x40 (n64, 32-bit word swapped).
type ByteOrder string

const (
	BigEndian    ByteOrder = "z64"
	ByteSwapped  ByteOrder = "v64"
	WordSwapped  ByteOrder = "n64"
	UnknownOrder ByteOrder = "unknown"
)

// DetectByteOrder inspects the first byte of a ROM image to identify its
// on-disk byte ordering.
func DetectByteOrder(data []byte) ByteOrder {
	if len(data) == 0 {
		return UnknownOrder
	}
	switch data[0] {
	case 0x80:
		return BigEndian
	case 0x37:
		return ByteSwapped
	case 0x40:
		return WordSwapped
	default:
		return UnknownOrder
	}
}

// NormalizeByteOrder rewrites data in place to big-endian (z64) ordering,
// based on the ordering detected from its first byte. BigEndian and
// UnknownOrder images are left untouched; UnknownOrder is not an error here,
// callers that require a known order check DetectByteOrder separately.
func NormalizeByteOrder(data []byte) ByteOrder {
	order := DetectByteOrder(data)
	switch order {
	case ByteSwapped:
		swap16(data)
	case WordSwapped:
		swap32(data)
	}
	return order
}

// swap16 swaps each adjacent byte pair in place: AB CD -> BA DC.
func swap16(data []byte) {
	for i := 0; i+1 < len(data); i += 2 {
		data[i], data[i+1] = data[i+1], data[i]
	}
}

// swap32 reverses each 4-byte word in place: ABCD -> DCBA.
func swap32(data []byte) {
	for i := 0; i+3 < len(data); i += 4 {
		data[i], data[i+1], data[i+2], data[i+3] = data[i+3], data[i+2], data[i+1], data[i]
	}
}
