package main

import (
	"io"
	"os"
	"strings"
	"testing"
)

// runCmd executes cmdRoot with args, resetting the flag-backed globals
// cobra mutates on each Execute so tests don't leak state into each
// other. The subcommands print straight to os.Stdout rather than
// through cobra's OutOrStdout, so capture it by swapping the
// descriptor rather than calling SetOut.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	argsRoot.input = ""
	argsRoot.inputFile = ""
	argsRoot.display = "inline"
	argsRoot.xml = false
	argsRoot.debug = false
	argsRoot.iterations = 2000

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	realStdout := os.Stdout
	os.Stdout = w
	cmdRoot.SetArgs(args)
	execErr := cmdRoot.Execute()
	w.Close()
	os.Stdout = realStdout
	out, _ := io.ReadAll(r)
	if execErr != nil {
		t.Fatalf("Execute(%v) error: %v", args, execErr)
	}
	return string(out)
}

func TestVersionCommand(t *testing.T) {
	if out := runCmd(t, "version"); !strings.Contains(out, "texmath") {
		t.Fatalf("version output = %q, want it to mention texmath", out)
	}
}

func TestMathmlCommandRendersBuiltinSample(t *testing.T) {
	out := runCmd(t, "mathml")
	if !strings.HasPrefix(strings.TrimSpace(out), "<math>") {
		t.Fatalf("mathml output = %q, want a <math> document", out)
	}
	if !strings.Contains(out, "<mtext>") {
		t.Fatalf("mathml output = %q, want the sample's \\text rendered", out)
	}
}

func TestMathmlCommandHonorsDisplayAndXMLFlags(t *testing.T) {
	out := runCmd(t, "mathml", "--input", "x", "--display", "block", "--xml")
	if !strings.Contains(out, `display="block"`) {
		t.Fatalf("output = %q, want display=\"block\"", out)
	}
	if !strings.Contains(out, "xmlns=") {
		t.Fatalf("output = %q, want an xmlns attribute", out)
	}
}

func TestParseCommandPrintsSessionAndArena(t *testing.T) {
	out := runCmd(t, "parse", "--input", `\alpha`)
	if !strings.Contains(out, "session ") || !strings.Contains(out, "arena ") {
		t.Fatalf("parse output = %q, want a trailing session/arena summary", out)
	}
}

func TestBenchCommandRunsRequestedIterations(t *testing.T) {
	out := runCmd(t, "bench", "--input", "x+1", "--iterations", "5")
	if !strings.Contains(out, "5 passes") {
		t.Fatalf("bench output = %q, want it to report 5 passes", out)
	}
}

func TestReadInputPrefersInlineOverFile(t *testing.T) {
	argsRoot.input = "abc"
	argsRoot.inputFile = ""
	got, err := readInput()
	if err != nil {
		t.Fatalf("readInput: %v", err)
	}
	if got != "abc" {
		t.Fatalf("readInput = %q, want %q", got, "abc")
	}
}

func TestReadInputFallsBackToSample(t *testing.T) {
	argsRoot.input = ""
	argsRoot.inputFile = ""
	got, err := readInput()
	if err != nil {
		t.Fatalf("readInput: %v", err)
	}
	if got != sampleInput {
		t.Fatalf("readInput = %q, want the built-in sample", got)
	}
}
