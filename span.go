package texmath

import (
	"fmt"
	"unicode/utf8"
)

// contextRadius is the number of bytes shown on either side of an
// offending position in a context window (spec.md §4.4).
const contextRadius = 12

// spanFrame is one expansion frame: fullExpansion is the arena string
// produced by substituting a macro's replacement and appending the
// unread remainder of its parent; expansionLength is how many of its
// leading bytes are the rewritten replacement (the rest is a verbatim
// copy of the parent's tail); callSiteStart/End is the byte range the
// invocation occupied in the parent.
type spanFrame struct {
	fullExpansion string
	expansionLen  int
	callSiteStart int
	callSiteEnd   int
}

// SpanStack maps pointers into live expansion strings back to a byte
// offset in the original input, for error reporting. It never affects
// parsing outcomes, only diagnostics.
type SpanStack struct {
	input  string
	frames []spanFrame
}

// NewSpanStack returns a SpanStack rooted at input.
func NewSpanStack(input string) *SpanStack {
	return &SpanStack{input: input}
}

// Push records a new expansion frame after a macro expansion.
func (s *SpanStack) Push(fullExpansion string, expansionLen, callSiteStart, callSiteEnd int) {
	s.frames = append(s.frames, spanFrame{
		fullExpansion: fullExpansion,
		expansionLen:  expansionLen,
		callSiteStart: callSiteStart,
		callSiteEnd:   callSiteEnd,
	})
}

// Pop discards the most recent expansion frame, e.g. once its content
// has been fully consumed and the driver has returned to the parent string.
func (s *SpanStack) Pop() {
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Depth reports the number of live expansion frames.
func (s *SpanStack) Depth() int { return len(s.frames) }

// PositionOf returns the address probe for a cursor currently reading
// string cur at byte offset off within it. The driver always knows
// which string (input, or the top frame's fullExpansion) its cursor
// is inside, so it can pass that string directly.
func PositionOf(cur string, off int) uintptr {
	if off < 0 || off > len(cur) {
		off = 0
	}
	if len(cur) == 0 {
		return stringAddr(cur)
	}
	return stringAddr(cur) + uintptr(off)
}

// ReachOriginalCallSite resolves an address probe p (produced by
// PositionOf against whichever string the cursor was reading) to a
// byte offset in the original input, plus the trail of "expanded
// from" context windows, one per frame it passed through on the way
// down (innermost first). When p lies in a frame's rewritten prefix,
// the walk stops there and the offset is relative to that frame's
// expansion string.
func (s *SpanStack) ReachOriginalCallSite(p uintptr) (offset int, trail []string) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		base := stringAddr(f.fullExpansion)
		end := base + uintptr(len(f.fullExpansion))
		if p < base || p >= end {
			continue
		}
		rel := int(p - base)
		if rel < f.expansionLen {
			trail = append(trail, contextWindow(f.fullExpansion, rel))
			return rel, trail
		}
		// p is in the shared tail: it is logically the same position
		// as callSiteEnd + (how far into the tail) in the parent.
		trail = append(trail, contextWindow(f.fullExpansion, rel))
		tailOffset := rel - f.expansionLen
		var parentBase uintptr
		if i > 0 {
			parentBase = stringAddr(s.frames[i-1].fullExpansion)
		} else {
			parentBase = stringAddr(s.input)
		}
		p = parentBase + uintptr(f.callSiteEnd+tailOffset)
	}
	base := stringAddr(s.input)
	if p < base {
		return 0, trail
	}
	offset = int(p - base)
	if offset > len(s.input) {
		offset = len(s.input)
	}
	return offset, trail
}

// contextWindow builds a ±contextRadius byte window around offset in
// s, clamped to UTF-8 character boundaries.
func contextWindow(s string, offset int) string {
	lo := offset - contextRadius
	if lo < 0 {
		lo = 0
	}
	for lo > 0 && !utf8.RuneStart(s[lo]) {
		lo--
	}
	hi := offset + contextRadius
	if hi > len(s) {
		hi = len(s)
	}
	for hi < len(s) && !utf8.RuneStart(s[hi]) {
		hi++
	}
	return s[lo:hi]
}

// BuildContext assembles the full multi-frame context string for a
// ParserError: the window of the original input around the resolved
// offset first, then one "which was expanded from: <window>" line per
// frame in the trail, innermost frame first, per spec.md §4.4.
func (s *SpanStack) BuildContext(p uintptr) (offset int, context string) {
	offset, trail := s.ReachOriginalCallSite(p)
	context = contextWindow(s.input, offset)
	for _, w := range trail {
		context += fmt.Sprintf("\n    which was expanded from: %s", w)
	}
	return offset, context
}
