package texmath

import (
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func TestSpanStackDepthAndPop(t *testing.T) {
	s := NewSpanStack("root")
	if s.Depth() != 0 {
		t.Fatalf("Depth = %d, want 0", s.Depth())
	}
	s.Push("root expanded", 4, 0, 4)
	s.Push("nested expanded", 3, 1, 2)
	if s.Depth() != 2 {
		t.Fatalf("Depth = %d, want 2", s.Depth())
	}
	s.Pop()
	if s.Depth() != 1 {
		t.Fatalf("Depth after Pop = %d, want 1", s.Depth())
	}
}

func TestSpanStackReachOriginalCallSiteNoFrames(t *testing.T) {
	s := NewSpanStack("abcdef")
	probe := PositionOf(s.input, 3)
	offset, trail := s.ReachOriginalCallSite(probe)
	if offset != 3 || trail != nil {
		t.Fatalf("got offset=%d trail=%v, want 3, nil", offset, trail)
	}
}

func TestSpanStackReachOriginalCallSiteThroughExpansion(t *testing.T) {
	mc := NewMacroContext()
	if err := mc.Define("greet", "", "hello"); err != nil {
		t.Fatalf("Define: %v", err)
	}
	arena := NewArena()
	input := `\greet world`
	rest := input[len(`\greet`):]
	expanded, expLen, _, err := mc.TryExpandIn("greet", rest, arena)
	if err != nil {
		t.Fatalf("TryExpandIn: %v", err)
	}

	s := NewSpanStack(input)
	s.Push(expanded, expLen, 0, len(`\greet`))

	probeInReplacement := PositionOf(expanded, 2) // inside "hello"
	offset, trail := s.ReachOriginalCallSite(probeInReplacement)
	if offset != 2 {
		t.Fatalf("offset in replacement = %d, want 2 (relative to expansion)", offset)
	}
	wantTrail := []string{"hello world"}
	if diff := pretty.Compare(wantTrail, trail); diff != "" {
		t.Fatalf("trail mismatch (-want +got):\n%s", diff)
	}

	probeInTail := PositionOf(expanded, expLen+1) // inside " world"
	offset2, _ := s.ReachOriginalCallSite(probeInTail)
	want := len(`\greet`) + 1
	if offset2 != want {
		t.Fatalf("offset in shared tail = %d, want %d", offset2, want)
	}
}

func TestSpanStackBuildContextIncludesExpansionTrail(t *testing.T) {
	mc := NewMacroContext()
	if err := mc.Define("greet", "", "hello"); err != nil {
		t.Fatalf("Define: %v", err)
	}
	arena := NewArena()
	input := `\greet!`
	rest := input[len(`\greet`):]
	expanded, expLen, _, err := mc.TryExpandIn("greet", rest, arena)
	if err != nil {
		t.Fatalf("TryExpandIn: %v", err)
	}

	s := NewSpanStack(input)
	s.Push(expanded, expLen, 0, len(`\greet`))

	probe := PositionOf(expanded, 0)
	_, context := s.BuildContext(probe)
	if context == "" {
		t.Fatalf("BuildContext returned empty context")
	}
	if !containsSubstring(context, "which was expanded from") {
		t.Fatalf("context missing expansion trail: %q", context)
	}
}

func containsSubstring(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
