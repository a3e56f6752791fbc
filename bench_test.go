package texmath

import "testing"

// Benchmark inputs restored from original_source/benches: a run of
// Greek letter control sequences, a deeply nested subscript, and a
// \def-heavy physics formula, ported from criterion benchmarks to
// Go's testing.B harness.

const benchGreekInput = `\alpha \beta \gamma \delta \epsilon \zeta \eta \theta ` +
	`\iota \kappa \lambda \mu \nu \xi \pi \rho \sigma \tau \upsilon \phi \chi \psi \omega ` +
	`\Gamma \Delta \Theta \Lambda \Xi \Pi \Sigma \Upsilon \Phi \Psi \Omega`

const benchSubscriptTortureInput = `a_{5_{5_{5_{5_{5_{5_{5_{5_{5_{5_{5_5}}}}}}}}}}}`

const benchMacroInput = `\def\d{\mathrm{d}} ` +
	`\oint_C \vec{B}\circ \d\vec{l} = \mu_0 \left( I_{\text{enc}} ` +
	`+ \varepsilon_0 \frac{\d}{\d t} \int_S {\vec{E} \circ \hat{n}} ` +
	`\d a \right)`

func runToCompletion(b *testing.B, input string) {
	p := NewParser(input, DefaultConfig())
	for {
		_, _, ok := p.Next()
		if !ok {
			return
		}
	}
}

func BenchmarkMatchOnGreek(b *testing.B) {
	for i := 0; i < b.N; i++ {
		runToCompletion(b, benchGreekInput)
	}
}

func BenchmarkSubscriptTorture(b *testing.B) {
	for i := 0; i < b.N; i++ {
		runToCompletion(b, benchSubscriptTortureInput)
	}
}

func BenchmarkBasicMacro(b *testing.B) {
	for i := 0; i < b.N; i++ {
		runToCompletion(b, benchMacroInput)
	}
}

func BenchmarkResetReusesArena(b *testing.B) {
	p := NewParser(benchMacroInput, DefaultConfig())
	for {
		_, _, ok := p.Next()
		if !ok {
			break
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Reset(benchMacroInput)
		for {
			_, _, ok := p.Next()
			if !ok {
				break
			}
		}
	}
}
