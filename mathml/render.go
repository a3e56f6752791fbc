// Package mathml renders a texmath.Parser's event stream to MathML. It
// is an external collaborator (spec.md §1): it only consumes
// texmath.Event values through the public Parser.Next API and never
// reaches into the core package's unexported state.
package mathml

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/go-texmath/texmath"
)

// Renderer pulls a texmath.Parser to completion and writes MathML.
// Atoms are rendered by repeated recursive descent over Parser.Next:
// a Content event is a leaf; a Begin announces a group rendered until
// its matching End; a Script or Visual announcement recursively
// renders the one, two, or three child atoms it promises (spec.md §3,
// "Script/Visual arity").
type Renderer struct {
	p      *texmath.Parser
	config texmath.ParserConfig
	fonts  []texmath.Font
}

// NewRenderer wraps p, rendering under config (spec.md §6's
// renderer-facing configuration).
func NewRenderer(p *texmath.Parser, config texmath.ParserConfig) *Renderer {
	return &Renderer{p: p, config: config, fonts: []texmath.Font{texmath.FontUpright}}
}

// Render drains the parser and returns the assembled <math> document.
func (r *Renderer) Render() (string, error) {
	var b strings.Builder
	b.WriteString("<math")
	if r.config.XML {
		b.WriteString(` xmlns="http://www.w3.org/1998/Math/MathML"`)
	}
	if r.config.DisplayMode == texmath.DisplayBlock {
		b.WriteString(` display="block"`)
	}
	b.WriteString(">")

	sid := uuid.Nil
	if r.p != nil {
		sid = r.p.SessionID
	}
	for {
		ev, perr, ok := r.p.Next()
		if !ok {
			break
		}
		if perr != nil {
			texmath.Logf("mathml", "session %s: %v", sid, perr)
			r.writeError(&b, perr)
			continue
		}
		if err := r.dispatch(&b, ev); err != nil {
			return "", err
		}
	}
	b.WriteString("</math>")
	return b.String(), nil
}

func (r *Renderer) pushFont() { r.fonts = append(r.fonts, r.currentFont()) }
func (r *Renderer) popFont()  { r.fonts = r.fonts[:len(r.fonts)-1] }

func (r *Renderer) currentFont() texmath.Font {
	return r.fonts[len(r.fonts)-1]
}

func (r *Renderer) setFont(f *texmath.Font) {
	if f == nil {
		r.fonts[len(r.fonts)-1] = texmath.FontUpright
		return
	}
	r.fonts[len(r.fonts)-1] = *f
}

// renderNextAtom pulls exactly one event from the parser and renders
// the single atom it represents (a leaf, or an announcement plus
// however many child atoms it promises), per the Atom definition in
// spec.md's GLOSSARY.
func (r *Renderer) renderNextAtom(b *strings.Builder) error {
	ev, perr, ok := r.p.Next()
	if !ok {
		return fmt.Errorf("mathml: event stream ended while an atom was still expected")
	}
	if perr != nil {
		r.writeError(b, perr)
		return nil
	}
	return r.dispatch(b, ev)
}

// captureAtom renders the next atom into its own buffer, for
// constructs (like \sqrt[n]{x}) whose MathML child order differs from
// the order the events were announced in.
func (r *Renderer) captureAtom() (string, error) {
	var tmp strings.Builder
	if err := r.renderNextAtom(&tmp); err != nil {
		return "", err
	}
	return tmp.String(), nil
}

func (r *Renderer) dispatch(b *strings.Builder, ev texmath.Event) error {
	switch ev.Kind {
	case texmath.EventContent:
		return r.renderContent(b, ev.Content)
	case texmath.EventBegin:
		return r.renderGroup(b, ev.Grouping)
	case texmath.EventScript:
		return r.renderScript(b, ev)
	case texmath.EventVisual:
		return r.renderVisual(b, ev)
	case texmath.EventSpace:
		r.renderSpace(b, ev.Space)
		return nil
	case texmath.EventFontChange:
		r.setFont(ev.Font)
		return nil
	case texmath.EventEnd:
		return fmt.Errorf("mathml: End event with no open group")
	}
	return nil
}

func (r *Renderer) renderGroup(b *strings.Builder, g texmath.Grouping) error {
	if g.Kind == texmath.GroupingEnvironment {
		return r.renderEnvironment(b, g)
	}
	r.pushFont()
	defer r.popFont()

	b.WriteString("<mrow>")
	for {
		ev, perr, ok := r.p.Next()
		if !ok {
			return fmt.Errorf("mathml: event stream ended before a matching End")
		}
		if perr != nil {
			r.writeError(b, perr)
			continue
		}
		if ev.Kind == texmath.EventEnd {
			break
		}
		if err := r.dispatch(b, ev); err != nil {
			return err
		}
	}
	b.WriteString("</mrow>")
	return nil
}

// renderEnvironment renders a matrix-family environment as an
// <mtable>, special-casing the Operator{Char: '\n'}/Operator{Char:
// '&'} row/column convention documented in environments.go.
func (r *Renderer) renderEnvironment(b *strings.Builder, g texmath.Grouping) error {
	info, _ := texmath.LookupEnvironment(g.Environment)
	if info.HasDelimiters {
		b.WriteString("<mrow>")
		if info.SurroundLeft != 0 {
			fmt.Fprintf(b, `<mo fence="true" stretchy="true">%s</mo>`, html.EscapeString(string(info.SurroundLeft)))
		}
	}
	b.WriteString("<mtable>")
	b.WriteString("<mtr><mtd>")
	open := true
	for {
		ev, perr, ok := r.p.Next()
		if !ok {
			return fmt.Errorf("mathml: event stream ended inside environment %q", g.Environment)
		}
		if perr != nil {
			r.writeError(b, perr)
			continue
		}
		if ev.Kind == texmath.EventEnd {
			break
		}
		if ev.Kind == texmath.EventContent && ev.Content.Kind == texmath.ContentOperator {
			switch ev.Content.Operator.Char {
			case '\n':
				if open {
					b.WriteString("</mtd>")
				}
				b.WriteString("</mtr><mtr><mtd>")
				open = true
				continue
			case '&':
				if open {
					b.WriteString("</mtd>")
				}
				b.WriteString("<mtd>")
				open = true
				continue
			}
		}
		if err := r.dispatch(b, ev); err != nil {
			return err
		}
	}
	if open {
		b.WriteString("</mtd>")
	}
	b.WriteString("</mtr></mtable>")
	if info.HasDelimiters {
		if info.SurroundRight != 0 {
			fmt.Fprintf(b, `<mo fence="true" stretchy="true">%s</mo>`, html.EscapeString(string(info.SurroundRight)))
		}
		b.WriteString("</mrow>")
	}
	return nil
}

func (r *Renderer) renderScript(b *strings.Builder, ev texmath.Event) error {
	aboveBelow := ev.ScriptPosition == texmath.PositionAboveBelow
	switch ev.ScriptKind {
	case texmath.ScriptSubscript:
		tag := "msub"
		if aboveBelow {
			tag = "munder"
		}
		return r.wrapAtoms(b, tag, 2)
	case texmath.ScriptSuperscript:
		tag := "msup"
		if aboveBelow {
			tag = "mover"
		}
		return r.wrapAtoms(b, tag, 2)
	case texmath.ScriptSubSuperscript:
		tag := "msubsup"
		if aboveBelow {
			tag = "munderover"
		}
		return r.wrapAtoms(b, tag, 3)
	}
	return nil
}

func (r *Renderer) renderVisual(b *strings.Builder, ev texmath.Event) error {
	switch ev.VisualKind {
	case texmath.VisualFraction:
		b.WriteString("<mfrac")
		if ev.FractionThickness != nil {
			fmt.Fprintf(b, ` linethickness="%sem"`, formatNumber(ev.FractionThickness.Em()))
		}
		b.WriteString(">")
		if err := r.renderNextAtom(b); err != nil {
			return err
		}
		if err := r.renderNextAtom(b); err != nil {
			return err
		}
		b.WriteString("</mfrac>")
		return nil
	case texmath.VisualSquareRoot:
		b.WriteString("<msqrt>")
		if err := r.renderNextAtom(b); err != nil {
			return err
		}
		b.WriteString("</msqrt>")
		return nil
	case texmath.VisualRoot:
		// events are announced index-then-radicand; MathML's <mroot>
		// wants the radicand first, the index second.
		idx, err := r.captureAtom()
		if err != nil {
			return err
		}
		radicand, err := r.captureAtom()
		if err != nil {
			return err
		}
		b.WriteString("<mroot>")
		b.WriteString(radicand)
		b.WriteString(idx)
		b.WriteString("</mroot>")
		return nil
	case texmath.VisualOverscript:
		return r.wrapAtoms(b, "mover", 2)
	case texmath.VisualUnderscript:
		return r.wrapAtoms(b, "munder", 2)
	case texmath.VisualUnderOverscript:
		return r.wrapAtoms(b, "munderover", 3)
	}
	return nil
}

// wrapAtoms renders n child atoms in announced order, wrapped in tag.
func (r *Renderer) wrapAtoms(b *strings.Builder, tag string, n int) error {
	b.WriteString("<" + tag + ">")
	for i := 0; i < n; i++ {
		if err := r.renderNextAtom(b); err != nil {
			return err
		}
	}
	b.WriteString("</" + tag + ">")
	return nil
}

func (r *Renderer) renderContent(b *strings.Builder, c texmath.Content) error {
	switch c.Kind {
	case texmath.ContentIdentifierChar:
		ch := c.Char
		if styled, ok := texmath.MapChar(r.currentFont(), ch); ok {
			ch = styled
		}
		fmt.Fprintf(b, "<mi>%s</mi>", html.EscapeString(string(ch)))
	case texmath.ContentIdentifierName:
		fmt.Fprintf(b, "<mi>%s</mi>", html.EscapeString(c.Name))
	case texmath.ContentNumber:
		fmt.Fprintf(b, "<mn>%s</mn>", html.EscapeString(c.Name))
	case texmath.ContentText:
		fmt.Fprintf(b, "<mtext>%s</mtext>", html.EscapeString(c.Name))
	case texmath.ContentOperator:
		r.renderOperator(b, c.Operator)
	}
	return nil
}

func (r *Renderer) renderOperator(b *strings.Builder, op texmath.Operator) {
	b.WriteString("<mo")
	if op.Stretchy != nil {
		fmt.Fprintf(b, ` stretchy="%t"`, *op.Stretchy)
	}
	if op.MoveableLimits != nil && *op.MoveableLimits {
		b.WriteString(` movablelimits="true"`)
	}
	if op.Size != nil {
		size := formatNumber(op.Size.Em())
		fmt.Fprintf(b, ` minsize="%sem" maxsize="%sem"`, size, size)
	}
	if op.LeftSpace != nil {
		fmt.Fprintf(b, ` lspace="%sem"`, formatNumber(op.LeftSpace.Em()))
	}
	if op.RightSpace != nil {
		fmt.Fprintf(b, ` rspace="%sem"`, formatNumber(op.RightSpace.Em()))
	}
	b.WriteString(">")
	b.WriteString(html.EscapeString(string(op.Char)))
	b.WriteString("</mo>")
}

func (r *Renderer) renderSpace(b *strings.Builder, s texmath.Space) {
	b.WriteString("<mspace")
	if s.Width != nil {
		fmt.Fprintf(b, ` width="%sem"`, formatNumber(s.Width.Em()))
	}
	if s.Height != nil {
		fmt.Fprintf(b, ` height="%sem"`, formatNumber(s.Height.Em()))
	}
	if s.Depth != nil {
		fmt.Fprintf(b, ` depth="%sem"`, formatNumber(s.Depth.Em()))
	}
	b.WriteString(" />")
}

// writeError emits spec.md §7's "inline error token": an <merror>
// carrying the kind and span-stack context, colored per Config so
// downstream MathML stays well-formed even when the parse failed.
func (r *Renderer) writeError(b *strings.Builder, perr *texmath.ParserError) {
	color := fmt.Sprintf("#%02x%02x%02x", r.config.ErrorColor.R, r.config.ErrorColor.G, r.config.ErrorColor.B)
	fmt.Fprintf(b, `<merror><mtext mathcolor="%s">%s</mtext></merror>`, color, html.EscapeString(perr.Error()))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// MemoryReport humanizes an arena byte count (texmath.Parser.ArenaBytes)
// for callers, such as the texmathdemo CLI, that want to print parser
// footprint without pulling in humanize themselves.
func MemoryReport(bytesUsed int) string {
	return humanize.Bytes(uint64(bytesUsed))
}
