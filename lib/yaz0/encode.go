package yaz0

import "encoding/binary"

const (
	windowSize  = 0x1000 // maximum back-reference distance + 1
	minMatch    = 3
	maxMatch    = 0x111 // longest back-reference length (3-byte form)
	maxChain    = 128   // cap on same-hash candidates inspected per search
	groupTokens = 8
)

// EncodeFrame compresses src into a complete Yaz0 frame: 16-byte header
// ("Yaz0" + big-endian uncompressed size + 8 reserved bytes) followed by
// the encoded stream.
func EncodeFrame(src []byte) []byte {
	frame := make([]byte, headerSize, headerSize+len(src)/2+16)
	copy(frame[:4], headerMagic)
	binary.BigEndian.PutUint32(frame[4:8], uint32(len(src)))
	return append(frame, Encode(src)...)
}

// Encode compresses src into a Yaz0 encoded stream (no frame header), using
// a lazy (one-step look-ahead) LZ77 match heuristic over a 4 KiB window.
func Encode(src []byte) []byte {
	e := &matcher{src: src, chains: make(map[uint32][]int)}

	var out []byte
	var groupCode byte
	var groupBuf []byte
	tokens := 0

	flush := func() {
		if tokens == 0 {
			return
		}
		out = append(out, groupCode)
		out = append(out, groupBuf...)
		groupCode = 0
		groupBuf = groupBuf[:0]
		tokens = 0
	}

	pos := 0
	for pos < len(src) {
		length := e.findBest(pos)

		if length < minMatch {
			groupCode |= 1 << (7 - tokens)
			groupBuf = append(groupBuf, src[pos])
			e.insertRange(pos, 1)
			pos++
		} else {
			dist := pos - e.matchPosition - 1
			groupBuf = append(groupBuf, encodeBackref(length, dist)...)
			e.insertRange(pos, length)
			pos += length
		}

		tokens++
		if tokens == groupTokens {
			flush()
		}
	}
	flush()

	return out
}

// encodeBackref emits the 2- or 3-byte back-reference form for (length, dist).
func encodeBackref(length, dist int) []byte {
	if length <= 0x11 {
		return []byte{
			byte((length-2)<<4) | byte(dist>>8),
			byte(dist),
		}
	}
	if length > maxMatch {
		length = maxMatch
	}
	return []byte{
		byte(dist >> 8),
		byte(dist),
		byte(length - 0x12),
	}
}

// matcher holds the rolling match-search state: a hash-chain index of
// 3-byte prefixes (the reference implementation's cheap filter before a
// full byte comparison) and the one-step-deferred lazy match.
type matcher struct {
	src    []byte
	chains map[uint32][]int

	matchPosition int // set by findBest; the chosen match's source position

	pending      bool
	pendingSize  int
	pendingMatch int
}

// findBest implements the lazy-match heuristic of spec section 4.5: consume
// a deferred match if one is queued, otherwise search at pos and, if that
// search found a usable match, peek one byte ahead to see if waiting for
// the next position would find something meaningfully better.
func (m *matcher) findBest(pos int) int {
	if m.pending {
		m.pending = false
		m.matchPosition = m.pendingMatch
		return m.pendingSize
	}

	len1, pos1 := m.search(pos)
	m.matchPosition = pos1

	if len1 >= minMatch && pos+1 < len(m.src) {
		len2, pos2 := m.search(pos + 1)
		if len2 >= len1+2 {
			m.pending = true
			m.pendingSize = len2
			m.pendingMatch = pos2
			return 1
		}
	}

	return len1
}

// search finds a match for src[pos:pos+smp) within the preceding 4 KiB
// window. It inspects at most maxChain same-hash candidates, newest first;
// older candidates beyond that cap are not considered, so the result is not
// always the longest match in the window. Among the inspected candidates
// the longest wins and ties go to the oldest, except that the first
// candidate reaching the full length smp ends the search, so a full-length
// tie goes to the newest such candidate.
func (m *matcher) search(pos int) (length int, matchPos int) {
	smp := len(m.src) - pos
	if smp > maxMatch {
		smp = maxMatch
	}
	if smp < minMatch {
		return 0, 0
	}

	windowStart := pos - windowSize
	if windowStart < 0 {
		windowStart = 0
	}

	candidates := m.chains[hash3(m.src[pos:pos+3])]

	bestLen, bestPos := 0, 0
	examined := 0
	for i := len(candidates) - 1; i >= 0; i-- {
		cand := candidates[i]
		if cand < windowStart {
			break // older candidates are monotonically smaller; none left in window
		}
		examined++
		if examined > maxChain {
			break
		}
		l := matchLen(m.src, cand, pos, smp)
		if l >= bestLen {
			bestLen = l
			bestPos = cand
		}
		if bestLen == smp {
			break // can't do better than the full comparison window
		}
	}

	return bestLen, bestPos
}

// insertRange records positions [pos, pos+n) in the hash-chain index so
// later searches can reference them, including bytes consumed mid-match.
func (m *matcher) insertRange(pos, n int) {
	end := pos + n
	if end > len(m.src) {
		end = len(m.src)
	}
	for p := pos; p < end; p++ {
		if p+3 > len(m.src) {
			break
		}
		h := hash3(m.src[p : p+3])
		m.chains[h] = append(m.chains[h], p)
	}
}

// hash3 is the reference "rolling 24-bit hash": the high 24 bits of a
// big-endian load, i.e. the three bytes themselves packed into a uint32.
func hash3(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// matchLen returns the length of the common prefix of src[a:] and src[b:],
// capped at max.
func matchLen(src []byte, a, b, max int) int {
	n := 0
	for n < max && src[a+n] == src[b+n] {
		n++
	}
	return n
}
