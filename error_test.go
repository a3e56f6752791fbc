package texmath

import (
	"errors"
	"testing"

	"github.com/go-test/deep"
)

func TestErrorKindStringAndError(t *testing.T) {
	if ErrDelimiter.String() != "expected a delimiter" {
		t.Fatalf("String() = %q", ErrDelimiter.String())
	}
	if ErrDelimiter.Error() != ErrDelimiter.String() {
		t.Fatalf("Error() and String() disagree")
	}
}

func TestErrorKindStringUnknown(t *testing.T) {
	var k ErrorKind = 999
	if k.String() != "unknown error" {
		t.Fatalf("String() = %q, want \"unknown error\"", k.String())
	}
}

func TestParserErrorUnwrapSupportsErrorsIs(t *testing.T) {
	perr := newError(ErrUnbalancedGroup, 3, "")
	if !errors.Is(perr, ErrUnbalancedGroup) {
		t.Fatalf("errors.Is(perr, ErrUnbalancedGroup) = false")
	}
	if errors.Is(perr, ErrEnvironment) {
		t.Fatalf("errors.Is(perr, ErrEnvironment) = true, want false")
	}
}

func TestParserErrorMessageIncludesContext(t *testing.T) {
	withoutCtx := &ParserError{Kind: ErrToken}
	if withoutCtx.Error() != "parsing error: invalid token" {
		t.Fatalf("Error() = %q", withoutCtx.Error())
	}
	withCtx := &ParserError{Kind: ErrToken, Context: "...x^..."}
	want := "parsing error: invalid token\n...x^..."
	if withCtx.Error() != want {
		t.Fatalf("Error() = %q, want %q", withCtx.Error(), want)
	}
}

func TestParserUnbalancedGroupReportsContext(t *testing.T) {
	p := NewParser(`{a`, DefaultConfig())
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
	if lastErr == nil {
		t.Fatalf("expected an error, got none")
	}
	if lastErr.Kind != ErrUnbalancedGroup {
		t.Fatalf("Kind = %v, want ErrUnbalancedGroup", lastErr.Kind)
	}
	if lastErr.Context == "" {
		t.Fatalf("expected non-empty Context")
	}
}

func TestParserRelaxAsArgumentErrors(t *testing.T) {
	p := NewParser(`\sqrt \relax`, DefaultConfig())
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
	if lastErr == nil || lastErr.Kind != ErrRelax {
		t.Fatalf("got %v, want ErrRelax", lastErr)
	}
}

func TestParserErrorDeepEqual(t *testing.T) {
	a := &ParserError{Kind: ErrNumber, Position: 4}
	b := &ParserError{Kind: ErrNumber, Position: 4}
	if diff := deep.Equal(a, b); diff != nil {
		t.Fatalf("expected equal, got diff: %v", diff)
	}
	c := &ParserError{Kind: ErrNumber, Position: 5}
	if diff := deep.Equal(a, c); diff == nil {
		t.Fatalf("expected a diff between differing positions")
	}
}
