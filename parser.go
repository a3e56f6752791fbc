package texmath

import (
	"github.com/google/uuid"
)

// GroupingKind already enumerates the group-type stack alphabet
// (event.go); Parser reuses it directly rather than defining a
// parallel type (spec.md §4.6 "group-type stack").

// Parser is a pull-style streaming driver over LaTeX math-mode input:
// each call to Next produces exactly one Event, or reports that the
// stream is exhausted (spec.md §2, §4.6).
type Parser struct {
	SessionID uuid.UUID
	Config    ParserConfig
	Macros    *MacroContext

	arena *Arena
	spans *SpanStack

	instr      []*instruction
	groupStack []GroupingKind
	envNames   []string
	envStack   []*envFrame
}

// NewParser returns a Parser reading input under config.
func NewParser(input string, config ParserConfig) *Parser {
	p := &Parser{
		SessionID: uuid.New(),
		Config:    config,
		Macros:    NewMacroContext(),
		arena:     NewArena(),
		spans:     NewSpanStack(input),
	}
	root := subGroupInstr(input)
	root.spanDepthAtPush = 0
	p.instr = []*instruction{root}
	return p
}

// Reset discards all parsed state and starts over on a fresh input,
// reusing the Parser's MacroContext and configuration (spec.md §5:
// "the arena... grows monotonically until reset").
func (p *Parser) Reset(input string) {
	p.arena = NewArena()
	p.spans = NewSpanStack(input)
	p.groupStack = nil
	p.envNames = nil
	p.envStack = nil
	root := subGroupInstr(input)
	p.instr = []*instruction{root}
}

// ArenaBytes reports the parser's current arena allocation, for
// callers reporting memory footprint (e.g. the texmathdemo CLI's
// parse and bench subcommands).
func (p *Parser) ArenaBytes() int { return p.arena.Bytes() }

// isWhitespaceOnly reports whether s contains nothing but ASCII
// whitespace and comments, i.e. a SubGroup instruction whose content
// is this has nothing left to contribute (spec.md §4.6 step 2).
func isWhitespaceOnly(s string) bool {
	c := newCursor(s)
	c.skipWhitespaceAndComments()
	return c.atEnd()
}

// Next advances the parser by one Event. The returned bool is false
// once the stream is exhausted. A non-nil error reports a malformed
// atom; the stream does not stop there, and further calls continue
// after the offending position. Input that ends while a brace,
// \begingroup, \left or environment is still open yields one final
// ErrUnbalancedGroup before the stream ends.
func (p *Parser) Next() (Event, *ParserError, bool) {
	for {
		if len(p.instr) == 0 {
			if len(p.groupStack) > 0 {
				p.groupStack = nil
				p.envNames = nil
				p.envStack = nil
				end := PositionOf(p.spans.input, len(p.spans.input))
				offset, context := p.spans.BuildContext(end)
				return Event{}, newError(ErrUnbalancedGroup, offset, context), true
			}
			return Event{}, nil, false
		}
		top := p.instr[len(p.instr)-1]

		if top.kind == instrEvent {
			p.instr = p.instr[:len(p.instr)-1]
			return top.event, nil, true
		}

		if isWhitespaceOnly(top.content) {
			p.instr = p.instr[:len(p.instr)-1]
			for p.spans.Depth() > top.spanDepthAtPush {
				p.spans.Pop()
			}
			continue
		}

		src := top.content
		if err := p.parseAtom(top); err != nil {
			probe := PositionOf(src, err.Position)
			offset, context := p.spans.BuildContext(probe)
			err.Position = offset
			err.Context = context
			return Event{}, err, true
		}
	}
}

// parseAtom parses exactly one atom out of top.content, mutating
// top.content to the unconsumed remainder and pushing the atom's
// instructions (plus any script-lookahead wrapper) on top of the
// instruction stack (spec.md §4.6 steps 3-4).
func (p *Parser) parseAtom(top *instruction) *ParserError {
	c := newCursor(top.content)
	c.skipWhitespaceAndComments()
	if c.atEnd() {
		top.content = ""
		return nil
	}

	invocationStart := c.pos
	tok, terr := c.token()
	if terr != nil {
		top.content = c.rest()
		return terr
	}

	if tok.IsControlSequence() && p.Macros.IsDefined(tok.Name) {
		if p.spans.Depth() >= maxExpansionDepth {
			return c.errAt(ErrMissingExpansion, c.pos)
		}
		rest := c.rest()
		newStr, expLen, _, eerr := p.Macros.TryExpandIn(tok.Name, rest, p.arena)
		if eerr != nil {
			top.content = rest
			return eerr
		}
		p.spans.Push(newStr, expLen, invocationStart, c.pos)
		top.content = newStr
		return p.parseAtom(top)
	}

	alignmentAllowed := len(p.envStack) > 0
	var seq []*instruction
	var derr *ParserError
	if tok.IsCharacter() {
		seq, derr = p.dispatchCharacter(tok.Char, c, alignmentAllowed)
	} else {
		seq, derr = p.dispatchControlSequence(tok.Name, c, top)
	}
	if derr != nil {
		top.content = c.rest()
		return derr
	}

	seq, derr = p.lookaheadScripts(seq, c)
	top.content = c.rest()
	if derr != nil {
		return derr
	}

	p.pushSeq(seq)
	return nil
}

// pushSeq pushes seq (in forward emission order) onto the instruction
// stack so the first element of seq is the next one Next() returns,
// per spec.md §4.6 step 4's "reverse order" flush.
func (p *Parser) pushSeq(seq []*instruction) {
	for i := len(seq) - 1; i >= 0; i-- {
		p.instr = append(p.instr, seq[i])
	}
}

// lookaheadScripts implements spec.md §4.6 steps (d)-(f): after
// parsing a base atom, check for a trailing `_`/`^` (ignoring an
// optional \limits/\nolimits override first), read one or two script
// children, and emit the canonical Subscript-then-Superscript order
// regardless of which was written first.
func (p *Parser) lookaheadScripts(base []*instruction, c *cursor) ([]*instruction, *ParserError) {
	lim, hasLim := c.limitModifiers()
	save := c.pos
	c.skipWhitespaceAndComments()
	if c.atEnd() || (c.s[c.pos] != '_' && c.s[c.pos] != '^') {
		c.pos = save
		return base, nil
	}
	firstIsSub := c.s[c.pos] == '_'
	c.pos++
	firstChild, ferr := p.readScriptChild(c)
	if ferr != nil {
		return nil, ferr
	}

	save2 := c.pos
	c.skipWhitespaceAndComments()
	if !c.atEnd() && (c.s[c.pos] == '_' || c.s[c.pos] == '^') {
		secondIsSub := c.s[c.pos] == '_'
		if secondIsSub == firstIsSub {
			if firstIsSub {
				return nil, c.errAt(ErrDoubleSubscript, c.pos)
			}
			return nil, c.errAt(ErrDoubleSuperscript, c.pos)
		}
		c.pos++
		secondChild, serr := p.readScriptChild(c)
		if serr != nil {
			return nil, serr
		}
		var subChild, superChild []*instruction
		if firstIsSub {
			subChild, superChild = firstChild, secondChild
		} else {
			subChild, superChild = secondChild, firstChild
		}
		out := []*instruction{eventInstr(scriptEvent(ScriptSubSuperscript, p.scriptPosition(hasLim, lim, baseHasMoveableLimits(base))))}
		out = append(out, base...)
		out = append(out, subChild...)
		out = append(out, superChild...)
		return out, nil
	}
	c.pos = save2

	var kind ScriptKind
	if firstIsSub {
		kind = ScriptSubscript
	} else {
		kind = ScriptSuperscript
	}
	out := []*instruction{eventInstr(scriptEvent(kind, p.scriptPosition(hasLim, lim, baseHasMoveableLimits(base))))}
	out = append(out, base...)
	out = append(out, firstChild...)
	return out, nil
}

// baseHasMoveableLimits reports whether base is a single operator atom
// whose Operator.MoveableLimits is set, e.g. \sum or \oint (tables.go,
// primitives.go:146). Only such atoms take DisplayMode's above/below
// default; an ordinary base like "a" in "a^2" never does.
func baseHasMoveableLimits(base []*instruction) bool {
	if len(base) != 1 || base[0].kind != instrEvent {
		return false
	}
	ev := base[0].event
	if ev.Kind != EventContent || ev.Content.Kind != ContentOperator {
		return false
	}
	ml := ev.Content.Operator.MoveableLimits
	return ml != nil && *ml
}

// readScriptChild reads one script argument (spec.md §4.1
// "argument"): a braced group becomes a Begin(Normal)/SubGroup/End
// triple; a bare token becomes a single content event.
func (p *Parser) readScriptChild(c *cursor) ([]*instruction, *ParserError) {
	arg, err := c.argument()
	if err != nil {
		return nil, err
	}
	return p.argumentSeq(arg)
}

// scriptPosition decides whether a script renders to the side or
// above/below its base, per spec.md §4.6(e): an explicit
// \limits/\nolimits always wins; otherwise DisplayBlock's above/below
// default applies only to moveable-limits operators (config.go's
// ParserConfig.DisplayMode doc comment) — an ordinary base like "a" in
// "a^2" always renders its script to the side.
func (p *Parser) scriptPosition(hasLimitsModifier bool, modifier string, moveableLimits bool) ScriptPosition {
	if hasLimitsModifier {
		if modifier == "limits" {
			return PositionAboveBelow
		}
		return PositionRight
	}
	if moveableLimits && p.Config.DisplayMode == DisplayBlock {
		return PositionAboveBelow
	}
	return PositionRight
}
