package zelda64

import (
	"fmt"

	"github.com/zsrspell/zelda64-tools/lib/rom"
	"github.com/zsrspell/zelda64-tools/lib/yaz0"
)

// recordOp is the per-record physical layout policy Deflate applies to a
// DMA record: recompress it, copy it verbatim, or drop it entirely.
type recordOp int

const (
	opCompress recordOp = iota
	opCopy
	opNull
)

// DeflateOptions carries the optional cooperative-cancellation hook
// described for C7: a callback invoked after each record is laid out,
// letting a long-running Deflate call be aborted between files.
type DeflateOptions struct {
	// OnRecord is called after record i is written to the output. Returning
	// true aborts the deflate and causes it to return ErrAborted, discarding
	// the partial output.
	OnRecord func(i int) (abort bool)
}

// Deflate recompresses decompressedRom (a 64 MiB fully expanded Zelda64 ROM)
// back into a 32 MiB physical image. exclusions names DMA record indices
// that should be laid out uncompressed (non-negative, as returned by
// Inflate) or dropped entirely (negative, bitwise-complement-plus-one
// encoded, for a caller that wants to erase a file). Indices (or negative
// entries whose target index) at or beyond dmaCount are skipped and
// reported as warnings rather than failing the whole call; indices 0..2 are
// accepted without a warning and have no effect, since layout starts at
// record 3.
//
// decompressedRom's byte order is normalized in place if necessary.
func Deflate(decompressedRom []byte, exclusions []int, opts *DeflateOptions) (out []byte, warnings []string, err error) {
	in, err := rom.Open(decompressedRom, true)
	if err != nil {
		return nil, nil, fmt.Errorf("zelda64: deflate: %w", err)
	}

	ops := make([]recordOp, in.DMACount)
	for i := 3; i < in.DMACount; i++ {
		ops[i] = opCompress
	}
	for _, e := range exclusions {
		if e >= 0 {
			if e >= in.DMACount {
				warnings = append(warnings, fmt.Sprintf("exclusion index %d out of range (dmaCount %d)", e, in.DMACount))
				continue
			}
			ops[e] = opCopy
			continue
		}
		idx := ^e + 1
		if idx < 0 || idx >= in.DMACount {
			warnings = append(warnings, fmt.Sprintf("exclusion index %d (null target %d) out of range (dmaCount %d)", e, idx, in.DMACount))
			continue
		}
		ops[idx] = opNull
	}

	outData := make([]byte, rom.Size32MiB)
	outBuf := rom.NewBuffer(outData)

	prefixLen := in.DMAOffset + int(in.DMASize)
	prefix, err := in.Buf.BytesAt(0, prefixLen)
	if err != nil {
		return nil, nil, fmt.Errorf("zelda64: deflate: read prefix: %w", err)
	}
	if err := outBuf.PutBytesAt(0, prefix); err != nil {
		return nil, nil, fmt.Errorf("zelda64: deflate: write prefix: %w", err)
	}

	prev := prefixLen
	for i := 3; i < in.DMACount; i++ {
		rec, err := in.ReadRecord(i)
		if err != nil {
			return nil, nil, fmt.Errorf("zelda64: deflate: record %d: %w", i, err)
		}
		if rec.VStart == rec.VEnd {
			continue
		}

		var payload []byte
		if ops[i] != opNull {
			raw, err := in.Buf.BytesAt(int(rec.VStart), int(rec.VEnd-rec.VStart))
			if err != nil {
				return nil, nil, fmt.Errorf("zelda64: deflate: record %d read: %w", i, err)
			}
			switch ops[i] {
			case opCopy:
				payload = raw
			case opCompress:
				payload = yaz0.EncodeFrame(raw)
			}
		}

		switch ops[i] {
		case opNull:
			rec.PStart = rom.PEndNull
			rec.PEnd = rom.PEndNull
		case opCopy:
			rec.PStart = uint32(prev)
			rec.PEnd = rom.PEndRaw
		case opCompress:
			rec.PStart = uint32(prev)
			rec.PEnd = uint32(prev + len(payload))
		}

		if ops[i] != opNull {
			if err := outBuf.PutBytesAt(prev, payload); err != nil {
				return nil, nil, fmt.Errorf("zelda64: deflate: record %d write at %#x: %w", i, prev, err)
			}
		}

		if err := in.WriteRecord(outBuf, i, rec); err != nil {
			return nil, nil, fmt.Errorf("zelda64: deflate: record %d rewrite: %w", i, err)
		}

		prev += len(payload)

		if opts != nil && opts.OnRecord != nil && opts.OnRecord(i) {
			return nil, warnings, ErrAborted
		}
	}

	if err := rom.RecalculateCRC(outBuf); err != nil {
		return nil, nil, fmt.Errorf("zelda64: deflate: %w", err)
	}

	return outData, warnings, nil
}
