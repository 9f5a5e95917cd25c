// Package zelda64 implements the Inflate and Deflate transformations that
// expand a compressed Zelda64-family N64 ROM to its full decompressed image
// and recompress it back, orchestrating the rom and yaz0 packages.
package zelda64

import "errors"

// ErrAborted is returned by Deflate when the caller's per-record callback
// requests cancellation.
var ErrAborted = errors.New("zelda64: deflate aborted by caller")
