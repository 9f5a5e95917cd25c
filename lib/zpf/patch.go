package zpf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/zsrspell/zelda64-tools/lib/rom"
)

const (
	magic        = "ZPFv1"
	configOffset = len(magic)
	configSize   = 16 // dmaOffset, xorRangeLo, xorRangeHi, xorAddress: four big-endian u32
	phaseAOffset = configOffset + configSize
)

// config is the fixed header read from the decompressed patch payload,
// right after the magic.
type config struct {
	dmaOffset  int
	xorRangeLo uint32
	xorRangeHi uint32
	xorAddress uint32
}

// decodeContainer inflates the outer DEFLATE wrapper of a ZPF patch (a raw
// DEFLATE stream; a zlib header is not accepted) and validates the magic,
// returning the decompressed payload and its parsed config block.
func decodeContainer(zpf []byte) ([]byte, config, error) {
	zr := flate.NewReader(bytes.NewReader(zpf))
	defer zr.Close()

	payload, err := io.ReadAll(zr)
	if err != nil {
		return nil, config{}, fmt.Errorf("zpf: outer decompress: %w", err)
	}

	if len(payload) < len(magic) || string(payload[:len(magic)]) != magic {
		return nil, config{}, ErrBadMagic
	}

	buf := rom.NewBuffer(payload)
	dmaOffset, err := buf.U32At(configOffset)
	if err != nil {
		return nil, config{}, fmt.Errorf("zpf: %w", ErrTruncated)
	}
	xorRangeLo, err := buf.U32At(configOffset + 4)
	if err != nil {
		return nil, config{}, fmt.Errorf("zpf: %w", ErrTruncated)
	}
	xorRangeHi, err := buf.U32At(configOffset + 8)
	if err != nil {
		return nil, config{}, fmt.Errorf("zpf: %w", ErrTruncated)
	}
	xorAddress, err := buf.U32At(configOffset + 12)
	if err != nil {
		return nil, config{}, fmt.Errorf("zpf: %w", ErrTruncated)
	}

	return payload, config{
		dmaOffset:  int(dmaOffset),
		xorRangeLo: xorRangeLo,
		xorRangeHi: xorRangeHi,
		xorAddress: xorAddress,
	}, nil
}

// keystream is the XOR keystream cursor described in spec section 4.8: it
// walks forward through [rangeLo, rangeHi] of the INPUT rom (never the
// output being built), wrapping at rangeHi, and skips zero bytes since the
// patch encoding uses a literal zero source byte to mean "emit zero,
// consume no key".
type keystream struct {
	rom     *rom.Buffer
	addr    uint32
	rangeLo uint32
	rangeHi uint32
}

func (k *keystream) next() (byte, error) {
	for {
		k.addr++
		if k.addr > k.rangeHi {
			k.addr = k.rangeLo
		}
		v, err := k.rom.U8At(int(k.addr))
		if err != nil {
			return 0, fmt.Errorf("zpf: keystream read at %#x: %w", k.addr, err)
		}
		if v != 0 {
			return v, nil
		}
	}
}

// Apply applies a ZPFv1 patch to a decompressed Zelda64 ROM, returning a
// new ROM buffer of identical size.
//
// decompressedRom's byte order is normalized in place if necessary; this is
// the one mutation Apply performs on its input.
func Apply(decompressedRom []byte, patch []byte) ([]byte, error) {
	in, err := rom.Open(decompressedRom, true)
	if err != nil {
		return nil, fmt.Errorf("zpf: %w", err)
	}

	payload, cfg, err := decodeContainer(patch)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(decompressedRom))
	copy(out, in.Buf.Bytes())
	outBuf := rom.NewBuffer(out)

	patchBuf := rom.NewBuffer(payload)
	if _, err := patchBuf.Seek(phaseAOffset, rom.SeekStart); err != nil {
		return nil, fmt.Errorf("zpf: %w", ErrTruncated)
	}

	table := &rom.Rom{DMAOffset: cfg.dmaOffset}

	for {
		dmaIndex, err := patchBuf.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("zpf: phase A: %w", ErrTruncated)
		}
		if dmaIndex == 0xFFFF {
			break
		}

		fromFile, err := patchBuf.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("zpf: phase A: %w", ErrTruncated)
		}
		start, err := patchBuf.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("zpf: phase A: %w", ErrTruncated)
		}
		size, err := patchBuf.ReadU24()
		if err != nil {
			return nil, fmt.Errorf("zpf: phase A: %w", ErrTruncated)
		}

		rec := rom.DmaRecord{VStart: start, VEnd: start + size, PStart: start, PEnd: rom.PEndRaw}
		if err := table.WriteRecord(outBuf, int(dmaIndex), rec); err != nil {
			return nil, fmt.Errorf("zpf: phase A: dma record %d: %w", dmaIndex, err)
		}

		if fromFile != 0xFFFFFFFF {
			source, found, err := in.FindRecordByKey(fromFile)
			if err != nil {
				return nil, fmt.Errorf("zpf: phase A: find record %#x: %w", fromFile, err)
			}
			if !found {
				return nil, fmt.Errorf("zpf: phase A: dma key %#x not found", fromFile)
			}

			// record.pStart is a byte offset, not a length; using it as the
			// copy-length cap here matches the reference encoder's behavior
			// bit-for-bit rather than the (more sensible) derived length.
			length := int(size)
			if int(source.PStart) < length {
				length = int(source.PStart)
			}

			if length > 0 {
				chunk, err := in.Buf.BytesAt(int(fromFile), length)
				if err != nil {
					return nil, fmt.Errorf("zpf: phase A: read source at %#x: %w", fromFile, err)
				}
				if err := outBuf.PutBytesAt(int(start), chunk); err != nil {
					return nil, fmt.Errorf("zpf: phase A: write dest at %#x: %w", start, err)
				}
			}
			if remaining := int(size) - length; remaining > 0 {
				if err := outBuf.Fill(0, remaining, int(start)+length); err != nil {
					return nil, fmt.Errorf("zpf: phase A: zero-fill at %#x: %w", int(start)+length, err)
				}
			}
		} else {
			if err := outBuf.Fill(0, int(size), int(start)); err != nil {
				return nil, fmt.Errorf("zpf: phase A: zero-fill at %#x: %w", start, err)
			}
		}
	}

	ks := &keystream{rom: in.Buf, addr: cfg.xorAddress, rangeLo: cfg.xorRangeLo, rangeHi: cfg.xorRangeHi}

	var blockStart uint32
	for !patchBuf.Eof() {
		marker, err := patchBuf.ReadU8()
		if err != nil {
			return nil, fmt.Errorf("zpf: phase B: %w", ErrTruncated)
		}

		var blockSize uint16
		if marker != 0xFF {
			// marker is the first byte of blockStart; the encoder's contract
			// is that this byte is never 0xFF for valid ROM addresses, which
			// holds for all N64 ROM sizes.
			if _, err := patchBuf.Seek(-1, rom.SeekCurrent); err != nil {
				return nil, fmt.Errorf("zpf: phase B: %w", ErrTruncated)
			}
			bs, err := patchBuf.ReadU32()
			if err != nil {
				return nil, fmt.Errorf("zpf: phase B: %w", ErrTruncated)
			}
			blockStart = bs
			sz, err := patchBuf.ReadU16()
			if err != nil {
				return nil, fmt.Errorf("zpf: phase B: %w", ErrTruncated)
			}
			blockSize = sz
		} else {
			keySkip, err := patchBuf.ReadU8()
			if err != nil {
				return nil, fmt.Errorf("zpf: phase B: %w", ErrTruncated)
			}
			sz, err := patchBuf.ReadU16()
			if err != nil {
				return nil, fmt.Errorf("zpf: phase B: %w", ErrTruncated)
			}
			blockSize = sz
			for s := 0; s < int(keySkip); s++ {
				if _, err := ks.next(); err != nil {
					return nil, fmt.Errorf("zpf: phase B: %w", err)
				}
			}
		}

		src, err := patchBuf.ReadBytes(int(blockSize))
		if err != nil {
			return nil, fmt.Errorf("zpf: phase B: %w", ErrTruncated)
		}

		block := make([]byte, blockSize)
		for i, s := range src {
			if s == 0 {
				block[i] = 0
				continue
			}
			k, err := ks.next()
			if err != nil {
				return nil, fmt.Errorf("zpf: phase B: %w", err)
			}
			block[i] = s ^ k
		}

		if err := outBuf.PutBytesAt(int(blockStart), block); err != nil {
			return nil, fmt.Errorf("zpf: phase B: write block at %#x: %w", blockStart, err)
		}
		blockStart += uint32(blockSize)
	}

	if err := rom.RecalculateCRC(outBuf); err != nil {
		return nil, fmt.Errorf("zpf: %w", err)
	}

	return out, nil
}
