package rom

import (
	"errors"
	"testing"
)

func TestBuffer_U32AtRoundTrip(t *testing.T) {
	b := NewBuffer(make([]byte, 16))

	if err := b.PutU32At(4, 0xDEADBEEF); err != nil {
		t.Fatalf("PutU32At() error = %v", err)
	}
	got, err := b.U32At(4)
	if err != nil {
		t.Fatalf("U32At() error = %v", err)
	}
	if got != 0xDEADBEEF {
		t.Errorf("U32At() = %#x, want %#x", got, 0xDEADBEEF)
	}
}

func TestBuffer_CursorReadWrite(t *testing.T) {
	b := NewBuffer(make([]byte, 8))

	if err := b.WriteU16(0x1234); err != nil {
		t.Fatalf("WriteU16() error = %v", err)
	}
	if err := b.WriteU32(0xCAFEBABE); err != nil {
		t.Fatalf("WriteU32() error = %v", err)
	}
	if b.Pos() != 6 {
		t.Fatalf("Pos() = %d, want 6", b.Pos())
	}

	if _, err := b.Seek(0, SeekStart); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}

	v16, err := b.ReadU16()
	if err != nil {
		t.Fatalf("ReadU16() error = %v", err)
	}
	if v16 != 0x1234 {
		t.Errorf("ReadU16() = %#x, want %#x", v16, 0x1234)
	}

	v32, err := b.ReadU32()
	if err != nil {
		t.Fatalf("ReadU32() error = %v", err)
	}
	if v32 != 0xCAFEBABE {
		t.Errorf("ReadU32() = %#x, want %#x", v32, 0xCAFEBABE)
	}
}

func TestBuffer_OutOfBounds(t *testing.T) {
	b := NewBuffer(make([]byte, 4))

	if _, err := b.U32At(1); !errors.Is(err, ErrBounds) {
		t.Errorf("U32At(1) error = %v, want ErrBounds", err)
	}
	if _, err := b.BytesAt(-1, 2); !errors.Is(err, ErrBounds) {
		t.Errorf("BytesAt(-1, 2) error = %v, want ErrBounds", err)
	}
	if _, err := b.Seek(5, SeekStart); !errors.Is(err, ErrBounds) {
		t.Errorf("Seek(5) error = %v, want ErrBounds", err)
	}
}

func TestBuffer_Fill(t *testing.T) {
	b := NewBuffer(make([]byte, 8))
	if err := b.Fill(0xFF, 4, 2); err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	want := []byte{0, 0, 0xFF, 0xFF, 0xFF, 0xFF, 0, 0}
	got := b.Bytes()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Bytes()[%d] = %#x, want %#x", i, got[i], want[i])
		}
	}
}
