package yaz0

import (
	"encoding/binary"
	"fmt"
)

const (
	headerMagic = "Yaz0"
	headerSize  = 16
)

// DecodedSize reads the uncompressed size out of a Yaz0 frame's header
// without decoding the stream.
func DecodedSize(frame []byte) (int, error) {
	if len(frame) < headerSize || string(frame[:4]) != headerMagic {
		return 0, fmt.Errorf("yaz0: missing %q magic: %w", headerMagic, ErrMalformed)
	}
	return int(binary.BigEndian.Uint32(frame[4:8])), nil
}

// DecodeFrame decodes a full Yaz0 frame (16-byte header plus encoded
// stream), returning a freshly allocated output buffer of the declared
// uncompressed size.
func DecodeFrame(frame []byte) ([]byte, error) {
	size, err := DecodedSize(frame)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, size)
	if err := Decode(frame[headerSize:], dst); err != nil {
		return nil, err
	}
	return dst, nil
}

// Decode decodes an encoded Yaz0 stream (positioned after the 16-byte
// frame header) into dst, which must be sized to the exact uncompressed
// length.
func Decode(src []byte, dst []byte) error {
	srcPos, dstPos := 0, 0
	var codeBlock byte
	bitsLeft := 0

	nextSrcByte := func() (byte, error) {
		if srcPos >= len(src) {
			return 0, fmt.Errorf("yaz0: source exhausted at dst %d: %w", dstPos, ErrMalformed)
		}
		b := src[srcPos]
		srcPos++
		return b, nil
	}

	for dstPos < len(dst) {
		if bitsLeft == 0 {
			b, err := nextSrcByte()
			if err != nil {
				return err
			}
			codeBlock = b
			bitsLeft = 8
		}

		if codeBlock&0x80 != 0 {
			b, err := nextSrcByte()
			if err != nil {
				return err
			}
			dst[dstPos] = b
			dstPos++
		} else {
			b1, err := nextSrcByte()
			if err != nil {
				return err
			}
			b2, err := nextSrcByte()
			if err != nil {
				return err
			}
			distance := (int(b1&0x0F) << 8) | int(b2)
			copyPos := dstPos - distance - 1

			length := int(b1 >> 4)
			if length == 0 {
				b3, err := nextSrcByte()
				if err != nil {
					return err
				}
				length = int(b3) + 0x12
			} else {
				length += 2
			}

			if copyPos < 0 {
				return fmt.Errorf("yaz0: back-reference before start of output: %w", ErrMalformed)
			}
			for k := 0; k < length; k++ {
				if dstPos >= len(dst) {
					return fmt.Errorf("yaz0: back-reference overflows destination: %w", ErrMalformed)
				}
				// Forward byte-by-byte copy: when distance < length the
				// source and destination ranges overlap, so this must not
				// be a vectorized memcpy.
				dst[dstPos] = dst[copyPos]
				copyPos++
				dstPos++
			}
		}

		codeBlock <<= 1
		bitsLeft--
	}

	return nil
}
