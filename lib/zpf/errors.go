// Package zpf implements the ZPFv1 differential patch format: a
// raw-DEFLATE-compressed container describing DMA table edits and XOR-keystream-coded
// data blocks to apply against a decompressed Zelda64 ROM.
package zpf

import "errors"

var (
	// ErrBadMagic indicates the decompressed patch payload did not start
	// with the "ZPFv1" signature.
	ErrBadMagic = errors.New("zpf: bad magic")

	// ErrTruncated indicates the patch ended mid-record or mid-block.
	ErrTruncated = errors.New("zpf: truncated patch")
)
