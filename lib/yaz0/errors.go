// Package yaz0 implements Nintendo's Yaz0 LZ77-family compressor and its
// inverse decompressor, as used by Zelda64-family N64 ROMs.
package yaz0

import "errors"

// ErrMalformed indicates a Yaz0 stream referenced bytes past its source or
// wrote past its destination.
var ErrMalformed = errors.New("yaz0: malformed stream")
