package rom

import (
	"errors"
	"testing"
)

// buildTable writes a DMA table starting at dmaScanStartWord*4 (the offset
// FindDMATableOffset expects to find the signature at) into a buffer of the
// given total size. The records are written as given, one after another;
// callers supply the signature and info records themselves.
func buildTable(t *testing.T, totalSize int, records []DmaRecord) (*Buffer, int) {
	t.Helper()
	offset := dmaScanStartWord * 4
	data := make([]byte, totalSize)
	b := NewBuffer(data)

	for i, rec := range records {
		if err := writeRecordRaw(b, offset+i*recordSize, rec); err != nil {
			t.Fatalf("writeRecordRaw(%d) error = %v", i, err)
		}
	}
	return b, offset
}

func TestFindDMATableOffset_S3(t *testing.T) {
	data := make([]byte, dmaScanStartWord*4+16)
	b := NewBuffer(data)
	if err := b.PutU32At(0x1060, 0); err != nil {
		t.Fatalf("PutU32At() error = %v", err)
	}
	if err := b.PutU32At(0x1064, 0x60100000); err != nil {
		t.Fatalf("PutU32At() error = %v", err)
	}

	offset, err := FindDMATableOffset(b)
	if err != nil {
		t.Fatalf("FindDMATableOffset() error = %v", err)
	}
	if offset != 0x1060 {
		t.Errorf("FindDMATableOffset() = %#x, want %#x", offset, 0x1060)
	}
}

func TestFindDMATableOffset_Missing(t *testing.T) {
	data := make([]byte, dmaScanStartWord*4+16)
	b := NewBuffer(data)
	if _, err := FindDMATableOffset(b); !errors.Is(err, ErrDMATableMissing) {
		t.Errorf("FindDMATableOffset() error = %v, want ErrDMATableMissing", err)
	}
}

func TestOpen(t *testing.T) {
	records := []DmaRecord{
		{VStart: 0, VEnd: 0x60100000, PStart: 0, PEnd: PEndRaw},
		{VStart: 0x1000, VEnd: 0x2000, PStart: 0x1000, PEnd: PEndRaw},
		{VStart: 0x2000, VEnd: 0x2000 + 4*recordSize, PStart: 0x2000, PEnd: PEndRaw},
		{VStart: 0x3000, VEnd: 0x4000, PStart: 0x3000, PEnd: PEndRaw},
	}
	b, offset := buildTable(t, dmaScanStartWord*4+0x4000, records)
	_ = offset

	r, err := Open(b.Bytes(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if r.DMAOffset != dmaScanStartWord*4 {
		t.Errorf("DMAOffset = %#x, want %#x", r.DMAOffset, dmaScanStartWord*4)
	}
	if r.DMACount != 4 {
		t.Errorf("DMACount = %d, want 4", r.DMACount)
	}
	if r.InfoRecord != records[dmaInfoRecordIndex] {
		t.Errorf("InfoRecord = %+v, want %+v", r.InfoRecord, records[dmaInfoRecordIndex])
	}

	rec, err := r.ReadRecord(3)
	if err != nil {
		t.Fatalf("ReadRecord(3) error = %v", err)
	}
	if rec != records[3] {
		t.Errorf("ReadRecord(3) = %+v, want %+v", rec, records[3])
	}
}

func TestReadRecord_IndexOutOfRange(t *testing.T) {
	records := []DmaRecord{
		{VStart: 0, VEnd: 0x60100000, PStart: 0, PEnd: PEndRaw},
		{VStart: 0x1000, VEnd: 0x2000, PStart: 0x1000, PEnd: PEndRaw},
		{VStart: 0x2000, VEnd: 0x2000 + 3*recordSize, PStart: 0x2000, PEnd: PEndRaw},
	}
	b, _ := buildTable(t, dmaScanStartWord*4+0x3000, records)
	r, err := Open(b.Bytes(), false)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := r.ReadRecord(99); !errors.Is(err, ErrRecordIndex) {
		t.Errorf("ReadRecord(99) error = %v, want ErrRecordIndex", err)
	}
}

func TestFindRecordByKey(t *testing.T) {
	records := []DmaRecord{
		{VStart: 0, VEnd: 0x1000, PStart: 0, PEnd: PEndRaw},
		{VStart: 0x1000, VEnd: 0x2000, PStart: 0x1000, PEnd: PEndRaw},
		{VStart: 0x2000, VEnd: 0x2000 + 3*recordSize, PStart: 0x2000, PEnd: PEndRaw},
	}
	b, offset := buildTable(t, dmaScanStartWord*4+0x3000, records)
	r := &Rom{Buf: b, DMAOffset: offset, DMACount: len(records)}

	rec, ok, err := r.FindRecordByKey(0x1000)
	if err != nil {
		t.Fatalf("FindRecordByKey() error = %v", err)
	}
	if !ok {
		t.Fatal("FindRecordByKey() ok = false, want true")
	}
	if rec != records[1] {
		t.Errorf("FindRecordByKey() = %+v, want %+v", rec, records[1])
	}

	_, ok, err = r.FindRecordByKey(0xBAD)
	if err != nil {
		t.Fatalf("FindRecordByKey() error = %v", err)
	}
	if ok {
		t.Error("FindRecordByKey() ok = true, want false for an absent key")
	}
}

// TestVerifyNonOverlapping_S6 exercises spec scenario S6: two records whose
// virtual ranges intersect must fail with ErrDMAOverlap.
func TestVerifyNonOverlapping_S6(t *testing.T) {
	records := []DmaRecord{
		{VStart: 0x1000, VEnd: 0x3000, PStart: 0x1000, PEnd: PEndRaw},
		{VStart: 0x2000, VEnd: 0x4000, PStart: 0x2000, PEnd: PEndRaw},
	}
	b, offset := buildTable(t, dmaScanStartWord*4+0x4000, records)
	r := &Rom{Buf: b, DMAOffset: offset, DMACount: len(records)}

	if err := r.VerifyNonOverlapping(); !errors.Is(err, ErrDMAOverlap) {
		t.Errorf("VerifyNonOverlapping() error = %v, want ErrDMAOverlap", err)
	}
}

func TestVerifyNonOverlapping_OK(t *testing.T) {
	records := []DmaRecord{
		{VStart: 0x1000, VEnd: 0x2000, PStart: 0x1000, PEnd: PEndRaw},
		{VStart: 0x2000, VEnd: 0x3000, PStart: 0x2000, PEnd: PEndRaw},
	}
	b, offset := buildTable(t, dmaScanStartWord*4+0x3000, records)
	r := &Rom{Buf: b, DMAOffset: offset, DMACount: len(records)}

	if err := r.VerifyNonOverlapping(); err != nil {
		t.Errorf("VerifyNonOverlapping() error = %v, want nil", err)
	}
}

func TestDmaRecord_Predicates(t *testing.T) {
	if !(DmaRecord{}).Empty() {
		t.Error("Empty() = false for zero-value record, want true")
	}
	if !(DmaRecord{PEnd: PEndNull}).Null() {
		t.Error("Null() = false for PEndNull record, want true")
	}
	if !(DmaRecord{PEnd: PEndRaw}).Raw() {
		t.Error("Raw() = false for PEndRaw record, want true")
	}
}
