package rom

import "strings"

const (
	titleOffset    = 0x20 // game title, 20 bytes, space-padded ASCII
	titleLen       = 20
	gameCodeOffset = 0x3B // 4-byte game code
	gameCodeLen    = 4
)

// extractASCII trims a null-terminated, space-padded ASCII field.
func extractASCII(data []byte) string {
	end := len(data)
	for i, b := range data {
		if b == 0 {
			end = i
			break
		}
	}
	return strings.TrimSpace(string(data[:end]))
}

// Title returns the ROM's space-padded ASCII game title field.
func (r *Rom) Title() (string, error) {
	b, err := r.Buf.BytesAt(titleOffset, titleLen)
	if err != nil {
		return "", err
	}
	return extractASCII(b), nil
}

// GameCode returns the ROM's 4-character game code field (e.g. "NZLE").
func (r *Rom) GameCode() (string, error) {
	b, err := r.Buf.BytesAt(gameCodeOffset, gameCodeLen)
	if err != nil {
		return "", err
	}
	return extractASCII(b), nil
}
