package zelda64

import (
	"fmt"

	"github.com/zsrspell/zelda64-tools/lib/zpf"
)

// Pipeline sequences Inflate, an optional patch application, and Deflate
// over a single compressed ROM — a convenience for callers that would
// otherwise repeat this three-call chain, not a new transformation in its
// own right.
func Pipeline(compressedRom []byte, patch []byte, deflateOpts *DeflateOptions) ([]byte, error) {
	inflated, err := Inflate(compressedRom)
	if err != nil {
		return nil, fmt.Errorf("zelda64: pipeline: %w", err)
	}

	decompressed := inflated.Data
	if patch != nil {
		decompressed, err = zpf.Apply(decompressed, patch)
		if err != nil {
			return nil, fmt.Errorf("zelda64: pipeline: %w", err)
		}
	}

	out, _, err := Deflate(decompressed, inflated.Exclusions, deflateOpts)
	if err != nil {
		return nil, fmt.Errorf("zelda64: pipeline: %w", err)
	}
	return out, nil
}
