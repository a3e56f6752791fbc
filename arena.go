package texmath

import "unsafe"

// defaultChunkSize is the size of each arena chunk; large enough that
// most macro expansions fit inside one chunk without a new allocation.
const defaultChunkSize = 4096

// Arena is a chunked bump allocator for macro-expansion strings. Every
// chunk is allocated once at its final capacity and never regrown, so
// a string returned by AllocString or Concat keeps a stable address
// for the arena's lifetime (spec.md §9, "span stack vs pointer
// arithmetic") — the span stack depends on this to do address
// comparisons in reachOriginalCallSite.
type Arena struct {
	chunks [][]byte
}

// NewArena returns an Arena with one empty chunk.
func NewArena() *Arena {
	return &Arena{chunks: [][]byte{make([]byte, 0, defaultChunkSize)}}
}

// AllocString copies s into the arena and returns a string backed by
// that stable copy.
func (a *Arena) AllocString(s string) string {
	return a.alloc(s)
}

// Concat copies the concatenation of parts into a single stable
// allocation, used to build a macro's substituted replacement plus
// the unread remainder of input in one non-moving string.
func (a *Arena) Concat(parts ...string) string {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	last := a.chunks[len(a.chunks)-1]
	if cap(last)-len(last) < total {
		size := defaultChunkSize
		if total > size {
			size = total
		}
		last = make([]byte, 0, size)
		a.chunks = append(a.chunks, last)
	}
	start := len(last)
	for _, p := range parts {
		last = append(last, p...)
	}
	a.chunks[len(a.chunks)-1] = last
	return bytesToString(last[start : start+total])
}

func (a *Arena) alloc(s string) string {
	return a.Concat(s)
}

// Reset discards every chunk but the first, and empties it, recycling
// the arena's backing memory for a fresh parse.
func (a *Arena) Reset() {
	a.chunks = a.chunks[:1]
	a.chunks[0] = a.chunks[0][:0]
}

// Bytes reports the arena's total allocated capacity, for the CLI's
// humanized memory report.
func (a *Arena) Bytes() int {
	n := 0
	for _, c := range a.chunks {
		n += cap(c)
	}
	return n
}

func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// stringAddr returns the address of s's first byte, or 0 for an empty
// string (which reachOriginalCallSite never needs to dereference).
func stringAddr(s string) uintptr {
	if len(s) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.StringData(s)))
}
