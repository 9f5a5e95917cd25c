package rom

import (
	"fmt"
	"sort"
)

// recordSize is the byte size of one DMA record: four big-endian uint32 fields.
const recordSize = 16

// dmaScanStartWord is the word index (4-byte aligned) at which the DMA
// table signature scan begins.
const dmaScanStartWord = 1048

// dmaScanLimit is the byte offset the signature scan gives up at.
const dmaScanLimit = 0x01000000

// dmaInfoRecordIndex is the DMA record whose vStart..vEnd spans the table itself.
const dmaInfoRecordIndex = 2

// PEndRaw marks a DMA record stored uncompressed: its physical span is
// [pStart, pStart+(vEnd-vStart)).
const PEndRaw uint32 = 0

// PEndNull marks a DMA record whose file is logically absent.
const PEndNull uint32 = 0xFFFFFFFF

// DmaRecord is one 16-byte entry of the DMA file table.
type DmaRecord struct {
	VStart uint32 // virtual (decompressed) start address
	VEnd   uint32 // virtual end address, exclusive
	PStart uint32 // physical (on-ROM) start address
	PEnd   uint32 // physical end address; PEndRaw or PEndNull are sentinels
}

// Empty reports whether this is an unused table slot (vStart == vEnd == 0).
func (r DmaRecord) Empty() bool {
	return r.VStart == 0 && r.VEnd == 0
}

// Null reports whether this record's file is logically absent.
func (r DmaRecord) Null() bool {
	return r.PEnd == PEndNull
}

// Raw reports whether this record is stored uncompressed on the ROM.
func (r DmaRecord) Raw() bool {
	return r.PEnd == PEndRaw
}

// Rom is a parsed view over a ROM buffer: its byte order, the located DMA
// table, and the record count/size derived from the DMA info record.
type Rom struct {
	Buf        *Buffer
	ByteOrder  ByteOrder
	DMAOffset  int
	DMASize    uint32
	DMACount   int
	InfoRecord DmaRecord // DMA record index 2, spanning the table itself
	CICVersion CIC
}

// Info is a read-only snapshot of a Rom's derived metadata, useful to
// callers that only want to inspect a ROM without holding the live Buffer.
type Info struct {
	ByteOrder  ByteOrder
	DMAOffset  int
	DMACount   int
	CICVersion CIC
	Title      string
	GameCode   string
}

// Info returns a snapshot of this Rom's detected properties. Title and
// GameCode are left blank if the header fields can't be read rather than
// failing the whole call.
func (r *Rom) Info() Info {
	info := Info{
		ByteOrder:  r.ByteOrder,
		DMAOffset:  r.DMAOffset,
		DMACount:   r.DMACount,
		CICVersion: r.CICVersion,
	}
	if title, err := r.Title(); err == nil {
		info.Title = title
	}
	if code, err := r.GameCode(); err == nil {
		info.GameCode = code
	}
	return info
}

// Open parses data into a Rom: optionally normalizing byte order in place,
// locating the DMA table, and deriving the record count from the DMA info
// record. CIC identification is attempted but not required to succeed —
// CICVersion is left zero if the boot block doesn't match a known variant,
// since patch/deflate operations don't need it (only RecalculateCRC does).
func Open(data []byte, normalize bool) (*Rom, error) {
	order := DetectByteOrder(data)
	if normalize {
		order = NormalizeByteOrder(data)
	}

	buf := NewBuffer(data)

	offset, err := FindDMATableOffset(buf)
	if err != nil {
		return nil, err
	}

	info, err := readRecordRaw(buf, offset+dmaInfoRecordIndex*recordSize)
	if err != nil {
		return nil, fmt.Errorf("rom: read dma info record: %w", err)
	}
	dmaSize := info.VEnd - info.VStart
	dmaCount := int(dmaSize / recordSize)

	r := &Rom{
		Buf:        buf,
		ByteOrder:  order,
		DMAOffset:  offset,
		DMASize:    dmaSize,
		DMACount:   dmaCount,
		InfoRecord: info,
	}

	if cic, _, err := IdentifyCIC(buf); err == nil {
		r.CICVersion = cic
	}

	return r, nil
}

// FindDMATableOffset scans b for the (0x00000000, 0x60100000) word pair that
// marks the start of the DMA table, starting at word index 1048.
func FindDMATableOffset(b *Buffer) (int, error) {
	for offset := dmaScanStartWord * 4; offset+8 <= b.Len() && offset < dmaScanLimit; offset += 4 {
		lo, err := b.U32At(offset)
		if err != nil {
			return 0, err
		}
		if lo != 0 {
			continue
		}
		hi, err := b.U32At(offset + 4)
		if err != nil {
			return 0, err
		}
		if hi == 0x60100000 {
			return offset, nil
		}
	}
	return 0, ErrDMATableMissing
}

// readRecordRaw reads a DmaRecord at an absolute buffer offset, with no
// index-range checking against a known record count.
func readRecordRaw(b *Buffer, offset int) (DmaRecord, error) {
	vStart, err := b.U32At(offset)
	if err != nil {
		return DmaRecord{}, err
	}
	vEnd, err := b.U32At(offset + 4)
	if err != nil {
		return DmaRecord{}, err
	}
	pStart, err := b.U32At(offset + 8)
	if err != nil {
		return DmaRecord{}, err
	}
	pEnd, err := b.U32At(offset + 12)
	if err != nil {
		return DmaRecord{}, err
	}
	return DmaRecord{VStart: vStart, VEnd: vEnd, PStart: pStart, PEnd: pEnd}, nil
}

// writeRecordRaw writes a DmaRecord at an absolute buffer offset.
func writeRecordRaw(b *Buffer, offset int, rec DmaRecord) error {
	if err := b.PutU32At(offset, rec.VStart); err != nil {
		return err
	}
	if err := b.PutU32At(offset+4, rec.VEnd); err != nil {
		return err
	}
	if err := b.PutU32At(offset+8, rec.PStart); err != nil {
		return err
	}
	return b.PutU32At(offset+12, rec.PEnd)
}

// ReadRecord reads DMA record i from this Rom's own buffer.
func (r *Rom) ReadRecord(i int) (DmaRecord, error) {
	if i < 0 || i >= r.DMACount {
		return DmaRecord{}, fmt.Errorf("rom: record %d (count %d): %w", i, r.DMACount, ErrRecordIndex)
	}
	return readRecordRaw(r.Buf, r.DMAOffset+i*recordSize)
}

// WriteRecord writes DMA record i into out, at the same table offset this
// Rom located — the DMA table offset is invariant across transformations,
// so out is expected to share this Rom's layout prefix.
func (r *Rom) WriteRecord(out *Buffer, i int, rec DmaRecord) error {
	if i < 0 {
		return fmt.Errorf("rom: record %d: %w", i, ErrRecordIndex)
	}
	return writeRecordRaw(out, r.DMAOffset+i*recordSize, rec)
}

// FindRecordByKey scans records in table order for the first whose vStart
// equals key. Scanning stops at a (0,0) terminator record, returning
// (DmaRecord{}, false, nil) if none matched by then.
func (r *Rom) FindRecordByKey(key uint32) (DmaRecord, bool, error) {
	for offset := r.DMAOffset; offset+recordSize <= r.Buf.Len(); offset += recordSize {
		rec, err := readRecordRaw(r.Buf, offset)
		if err != nil {
			return DmaRecord{}, false, err
		}
		if rec.Empty() {
			return DmaRecord{}, false, nil
		}
		if rec.VStart == key {
			return rec, true, nil
		}
	}
	return DmaRecord{}, false, fmt.Errorf("rom: dma table scan ran off end of buffer: %w", ErrBounds)
}

// VerifyNonOverlapping collects all records up to the (0,0) terminator,
// sorts them by vStart, and fails with ErrDMAOverlap if any adjacent pair's
// virtual address ranges intersect.
func (r *Rom) VerifyNonOverlapping() error {
	var records []DmaRecord
	for offset := r.DMAOffset; offset+recordSize <= r.Buf.Len(); offset += recordSize {
		rec, err := readRecordRaw(r.Buf, offset)
		if err != nil {
			return err
		}
		if rec.Empty() {
			break
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].VStart < records[j].VStart })

	for i := 1; i < len(records); i++ {
		if records[i-1].VEnd > records[i].VStart {
			return fmt.Errorf("rom: record [%#x,%#x) overlaps [%#x,%#x): %w",
				records[i-1].VStart, records[i-1].VEnd, records[i].VStart, records[i].VEnd, ErrDMAOverlap)
		}
	}
	return nil
}
