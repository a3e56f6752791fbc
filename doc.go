// Package texmath implements a streaming parser for LaTeX math mode.
//
// The parser is pull-driven: a Parser wraps one input string and a
// MacroContext, and each call to Next returns the next semantic Event,
// an error, or the end-of-stream signal. There is no tree; callers that
// want one build it themselves by walking the Begin/End and
// Script/Visual announcements.
//
//	p := texmath.NewParser(`\frac{1}{2}`, texmath.DefaultConfig())
//	for {
//		ev, err, ok := p.Next()
//		if !ok {
//			break
//		}
//		if err != nil {
//			// errors are reported, not thrown; the stream continues
//			continue
//		}
//		_ = ev
//	}
//
// MathML rendering and the demo CLI live in the mathml and
// cmd/texmathdemo subpackages; this package only produces events.
package texmath
