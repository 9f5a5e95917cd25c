package rom

import "errors"

// Sentinel errors for ROM/DMA parsing and access, one per failure kind in
// the patcher/inflater/deflater taxonomy.
var (
	// ErrBounds indicates an out-of-range read/write on a Buffer.
	ErrBounds = errors.New("rom: out of bounds access")

	// ErrDMATableMissing indicates the DMA table signature scan found no match.
	ErrDMATableMissing = errors.New("rom: dma table not found")

	// ErrDMAOverlap indicates two live DMA records share virtual address space.
	ErrDMAOverlap = errors.New("rom: overlapping dma records")

	// ErrRecordIndex indicates an out-of-range DMA record index.
	ErrRecordIndex = errors.New("rom: dma record index out of range")

	// ErrCICUnknown indicates the boot block CRC did not match a known CIC variant.
	ErrCICUnknown = errors.New("rom: unknown CIC boot code")
)
