package rom

// Canonical Zelda64 ROM sizes: 32 MiB compressed/patched images, 64 MiB
// fully decompressed images.
const (
	Size32MiB = 32 * 1024 * 1024
	Size64MiB = 64 * 1024 * 1024
)
