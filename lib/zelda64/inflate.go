package zelda64

import (
	"fmt"

	"github.com/zsrspell/zelda64-tools/lib/rom"
	"github.com/zsrspell/zelda64-tools/lib/yaz0"
)

// InflateResult is the output of Inflate: a fully decompressed 64 MiB ROM
// image plus the set of DMA record indices that were already uncompressed
// in the source. Deflate consumes Exclusions to avoid recompressing files
// the caller didn't ask it to touch.
type InflateResult struct {
	Data       []byte
	Exclusions []int
}

// Inflate expands compressedRom (a 32 MiB Yaz0-compressed Zelda64 ROM,
// in any of the three recognized byte orderings) into a 64 MiB fully
// decompressed image, rewriting every DMA record to point at its new
// virtual-addressed location and recomputing the header checksums.
//
// compressedRom's byte order is normalized in place if necessary; this is
// the one mutation Inflate performs on its input.
func Inflate(compressedRom []byte) (*InflateResult, error) {
	in, err := rom.Open(compressedRom, true)
	if err != nil {
		return nil, fmt.Errorf("zelda64: inflate: %w", err)
	}

	out := make([]byte, rom.Size64MiB)
	n := copy(out, in.Buf.Bytes())
	outBuf := rom.NewBuffer(out)

	zeroFrom := int(in.InfoRecord.VEnd)
	if zeroFrom < n {
		if err := outBuf.Fill(0, len(out)-zeroFrom, zeroFrom); err != nil {
			return nil, fmt.Errorf("zelda64: inflate: zero tail: %w", err)
		}
	}

	var exclusions []int
	for i := 3; i < in.DMACount; i++ {
		rec, err := in.ReadRecord(i)
		if err != nil {
			return nil, fmt.Errorf("zelda64: inflate: record %d: %w", i, err)
		}

		if rec.PStart >= rom.Size64MiB || rec.Null() {
			continue
		}

		vStart, vEnd := int(rec.VStart), int(rec.VEnd)
		pStart := int(rec.PStart)

		if rec.Raw() {
			exclusions = append(exclusions, i)
			payload, err := in.Buf.BytesAt(pStart, vEnd-vStart)
			if err != nil {
				return nil, fmt.Errorf("zelda64: inflate: record %d raw copy: %w", i, err)
			}
			if err := outBuf.PutBytesAt(vStart, payload); err != nil {
				return nil, fmt.Errorf("zelda64: inflate: record %d raw write: %w", i, err)
			}
		} else {
			src := in.Buf.Bytes()
			if pStart+0x10 > len(src) {
				return nil, fmt.Errorf("zelda64: inflate: record %d: compressed frame past end of input: %w", i, rom.ErrBounds)
			}
			dst := out[vStart:vEnd]
			if err := yaz0.Decode(src[pStart+0x10:], dst); err != nil {
				return nil, fmt.Errorf("zelda64: inflate: record %d: %w", i, err)
			}
		}

		rec.PStart = rec.VStart
		rec.PEnd = rom.PEndRaw
		if err := in.WriteRecord(outBuf, i, rec); err != nil {
			return nil, fmt.Errorf("zelda64: inflate: record %d rewrite: %w", i, err)
		}
	}

	if err := rom.RecalculateCRC(outBuf); err != nil {
		return nil, fmt.Errorf("zelda64: inflate: %w", err)
	}

	return &InflateResult{Data: out, Exclusions: exclusions}, nil
}
