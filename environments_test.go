package texmath

import "testing"

func drainEvents(t *testing.T, p *Parser) []Event {
	t.Helper()
	var out []Event
	for {
		ev, err, ok := p.Next()
		if !ok {
			return out
		}
		if err != nil {
			t.Fatalf("unexpected parse error: %v", err)
		}
		out = append(out, ev)
	}
}

func TestEnvironmentMatrixRowsAndColumns(t *testing.T) {
	p := NewParser(`\begin{pmatrix}a&b\\c&d\end{pmatrix}`, DefaultConfig())
	events := drainEvents(t, p)

	want := []struct {
		kind EventKind
		char rune
	}{
		{EventBegin, 0},
		{EventContent, 'a'},
		{EventContent, '&'},
		{EventContent, 'b'},
		{EventContent, '\n'},
		{EventContent, 'c'},
		{EventContent, '&'},
		{EventContent, 'd'},
		{EventEnd, 0},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(want), events)
	}
	for i, w := range want {
		if events[i].Kind != w.kind {
			t.Fatalf("event %d: kind = %v, want %v", i, events[i].Kind, w.kind)
		}
		if w.kind == EventContent && events[i].Content.Char != w.char {
			t.Fatalf("event %d: char = %q, want %q", i, events[i].Content.Char, w.char)
		}
	}
	if events[0].Grouping.Kind != GroupingEnvironment || events[0].Grouping.Environment != "pmatrix" {
		t.Fatalf("begin event: got %+v", events[0].Grouping)
	}
	if events[8].Grouping.Environment != "pmatrix" {
		t.Fatalf("end event: got %+v", events[8].Grouping)
	}
}

func TestEnvironmentLeadingHlineIsConsumed(t *testing.T) {
	p := NewParser(`\begin{matrix}\hline a&b\end{matrix}`, DefaultConfig())
	events := drainEvents(t, p)

	want := []struct {
		kind EventKind
		char rune
	}{
		{EventBegin, 0},
		{EventContent, 'a'},
		{EventContent, '&'},
		{EventContent, 'b'},
		{EventEnd, 0},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(want), events)
	}
	for i, w := range want {
		if events[i].Kind != w.kind {
			t.Fatalf("event %d: kind = %v, want %v", i, events[i].Kind, w.kind)
		}
		if w.kind == EventContent && events[i].Content.Char != w.char {
			t.Fatalf("event %d: char = %q, want %q", i, events[i].Content.Char, w.char)
		}
	}
}

func TestEnvironmentUnknownNameErrors(t *testing.T) {
	p := NewParser(`\begin{nosuch}x\end{nosuch}`, DefaultConfig())
	_, err, ok := p.Next()
	if !ok || err == nil || err.Kind != ErrEnvironment {
		t.Fatalf("got %v, %v, want ErrEnvironment", err, ok)
	}
}

func TestEnvironmentMismatchedEndErrors(t *testing.T) {
	p := NewParser(`\begin{matrix}a\end{pmatrix}`, DefaultConfig())
	var lastErr *ParserError
	for {
		_, err, ok := p.Next()
		if !ok {
			break
		}
		if err != nil {
			lastErr = err
			break
		}
	}
	if lastErr == nil || lastErr.Kind != ErrEnvironment {
		t.Fatalf("got %v, want ErrEnvironment", lastErr)
	}
}

func TestEnvironmentAlignmentCharOutsideEnvironmentErrors(t *testing.T) {
	p := NewParser(`a&b`, DefaultConfig())
	_, err, ok := p.Next() // 'a'
	if !ok || err != nil {
		t.Fatalf("unexpected: %v %v", err, ok)
	}
	_, err, ok = p.Next() // '&'
	if !ok || err == nil || err.Kind != ErrAlignmentChar {
		t.Fatalf("got %v, %v, want ErrAlignmentChar", err, ok)
	}
}

func TestEnvironmentGatherEnforcesSingleColumn(t *testing.T) {
	p := NewParser(`\begin{gather}a&b\end{gather}`, DefaultConfig())
	var lastErr *ParserError
	for {
		_, err, ok := p.Next()
		if !ok {
			break
		}
		if err != nil {
			lastErr = err
			break
		}
	}
	if lastErr == nil || lastErr.Kind != ErrAlignmentChar {
		t.Fatalf("got %v, want ErrAlignmentChar", lastErr)
	}
}

func TestLookupEnvironmentDelimiters(t *testing.T) {
	info, ok := LookupEnvironment("bmatrix")
	if !ok || !info.HasDelimiters || info.SurroundLeft != '[' || info.SurroundRight != ']' {
		t.Fatalf("LookupEnvironment(bmatrix): got %+v, %v", info, ok)
	}

	if _, ok := LookupEnvironment("nosuch"); ok {
		t.Fatalf("LookupEnvironment(nosuch): expected not found")
	}
}
