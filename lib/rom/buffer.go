package rom

import "fmt"

// Whence values for Buffer.Seek, matching io.Seeker's semantics.
const (
	SeekStart   = 0
	SeekCurrent = 1
	SeekEnd     = 2
)

// Buffer is a cursor-based big-endian sequential reader/writer over a fixed
// byte array. Every At-suffixed method is absolute: it reads or writes at a
// given offset and never touches the cursor. Every other method advances the
// cursor by the size it consumed.
type Buffer struct {
	data []byte
	pos  int
}

// NewBuffer wraps data for cursor-based and absolute access. It does not copy.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Bytes returns the underlying byte slice. Mutating it mutates the Buffer.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the total buffer size in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Pos returns the current cursor position.
func (b *Buffer) Pos() int {
	return b.pos
}

// Eof reports whether the cursor is at or past the end of the buffer.
func (b *Buffer) Eof() bool {
	return b.pos >= len(b.data)
}

// Seek moves the cursor relative to whence (SeekStart, SeekCurrent, SeekEnd)
// and returns the resulting absolute position.
func (b *Buffer) Seek(offset int, whence int) (int, error) {
	var target int
	switch whence {
	case SeekStart:
		target = offset
	case SeekCurrent:
		target = b.pos + offset
	case SeekEnd:
		target = len(b.data) + offset
	default:
		return 0, fmt.Errorf("rom: invalid whence %d: %w", whence, ErrBounds)
	}
	if target < 0 || target > len(b.data) {
		return 0, fmt.Errorf("rom: seek to %d (len %d): %w", target, len(b.data), ErrBounds)
	}
	b.pos = target
	return b.pos, nil
}

func (b *Buffer) checkRange(off, n int) error {
	if off < 0 || n < 0 || off+n > len(b.data) {
		return fmt.Errorf("rom: range [%d, %d) out of bounds (len %d): %w", off, off+n, len(b.data), ErrBounds)
	}
	return nil
}

// BytesAt returns a copy of n bytes at offset off, leaving the cursor unchanged.
func (b *Buffer) BytesAt(off, n int) ([]byte, error) {
	if err := b.checkRange(off, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b.data[off:off+n])
	return out, nil
}

// PutBytesAt writes data at offset off, leaving the cursor unchanged.
func (b *Buffer) PutBytesAt(off int, data []byte) error {
	if err := b.checkRange(off, len(data)); err != nil {
		return err
	}
	copy(b.data[off:off+len(data)], data)
	return nil
}

// Fill writes length copies of value starting at offset.
func (b *Buffer) Fill(value byte, length, offset int) error {
	if err := b.checkRange(offset, length); err != nil {
		return err
	}
	region := b.data[offset : offset+length]
	for i := range region {
		region[i] = value
	}
	return nil
}

// U8At reads a single byte at off.
func (b *Buffer) U8At(off int) (uint8, error) {
	if err := b.checkRange(off, 1); err != nil {
		return 0, err
	}
	return b.data[off], nil
}

// U16At reads a big-endian uint16 at off.
func (b *Buffer) U16At(off int) (uint16, error) {
	if err := b.checkRange(off, 2); err != nil {
		return 0, err
	}
	return uint16(b.data[off])<<8 | uint16(b.data[off+1]), nil
}

// U16LEAt reads a little-endian uint16 at off.
func (b *Buffer) U16LEAt(off int) (uint16, error) {
	if err := b.checkRange(off, 2); err != nil {
		return 0, err
	}
	return uint16(b.data[off+1])<<8 | uint16(b.data[off]), nil
}

// U24At reads a big-endian 24-bit value (zero-extended) at off.
func (b *Buffer) U24At(off int) (uint32, error) {
	if err := b.checkRange(off, 3); err != nil {
		return 0, err
	}
	return uint32(b.data[off])<<16 | uint32(b.data[off+1])<<8 | uint32(b.data[off+2]), nil
}

// U32At reads a big-endian uint32 at off.
func (b *Buffer) U32At(off int) (uint32, error) {
	if err := b.checkRange(off, 4); err != nil {
		return 0, err
	}
	return uint32(b.data[off])<<24 | uint32(b.data[off+1])<<16 | uint32(b.data[off+2])<<8 | uint32(b.data[off+3]), nil
}

// U32LEAt reads a little-endian uint32 at off.
func (b *Buffer) U32LEAt(off int) (uint32, error) {
	if err := b.checkRange(off, 4); err != nil {
		return 0, err
	}
	return uint32(b.data[off+3])<<24 | uint32(b.data[off+2])<<16 | uint32(b.data[off+1])<<8 | uint32(b.data[off]), nil
}

// PutU8At writes a single byte at off.
func (b *Buffer) PutU8At(off int, v uint8) error {
	if err := b.checkRange(off, 1); err != nil {
		return err
	}
	b.data[off] = v
	return nil
}

// PutU16At writes a big-endian uint16 at off.
func (b *Buffer) PutU16At(off int, v uint16) error {
	if err := b.checkRange(off, 2); err != nil {
		return err
	}
	b.data[off] = byte(v >> 8)
	b.data[off+1] = byte(v)
	return nil
}

// PutU24At writes the low 24 bits of v, big-endian, at off.
func (b *Buffer) PutU24At(off int, v uint32) error {
	if err := b.checkRange(off, 3); err != nil {
		return err
	}
	b.data[off] = byte(v >> 16)
	b.data[off+1] = byte(v >> 8)
	b.data[off+2] = byte(v)
	return nil
}

// PutU32At writes a big-endian uint32 at off.
func (b *Buffer) PutU32At(off int, v uint32) error {
	if err := b.checkRange(off, 4); err != nil {
		return err
	}
	b.data[off] = byte(v >> 24)
	b.data[off+1] = byte(v >> 16)
	b.data[off+2] = byte(v >> 8)
	b.data[off+3] = byte(v)
	return nil
}

// ReadBytes reads n bytes at the cursor and advances it.
func (b *Buffer) ReadBytes(n int) ([]byte, error) {
	out, err := b.BytesAt(b.pos, n)
	if err != nil {
		return nil, err
	}
	b.pos += n
	return out, nil
}

// ReadU8 reads a byte at the cursor and advances it.
func (b *Buffer) ReadU8() (uint8, error) {
	v, err := b.U8At(b.pos)
	if err != nil {
		return 0, err
	}
	b.pos++
	return v, nil
}

// ReadU16 reads a big-endian uint16 at the cursor and advances it.
func (b *Buffer) ReadU16() (uint16, error) {
	v, err := b.U16At(b.pos)
	if err != nil {
		return 0, err
	}
	b.pos += 2
	return v, nil
}

// ReadU24 reads a big-endian 24-bit value at the cursor and advances it.
func (b *Buffer) ReadU24() (uint32, error) {
	v, err := b.U24At(b.pos)
	if err != nil {
		return 0, err
	}
	b.pos += 3
	return v, nil
}

// ReadU32 reads a big-endian uint32 at the cursor and advances it.
func (b *Buffer) ReadU32() (uint32, error) {
	v, err := b.U32At(b.pos)
	if err != nil {
		return 0, err
	}
	b.pos += 4
	return v, nil
}

// WriteBytes writes data at the cursor and advances it.
func (b *Buffer) WriteBytes(data []byte) error {
	if err := b.PutBytesAt(b.pos, data); err != nil {
		return err
	}
	b.pos += len(data)
	return nil
}

// WriteU16 writes a big-endian uint16 at the cursor and advances it.
func (b *Buffer) WriteU16(v uint16) error {
	if err := b.PutU16At(b.pos, v); err != nil {
		return err
	}
	b.pos += 2
	return nil
}

// WriteU32 writes a big-endian uint32 at the cursor and advances it.
func (b *Buffer) WriteU32(v uint32) error {
	if err := b.PutU32At(b.pos, v); err != nil {
		return err
	}
	b.pos += 4
	return nil
}
