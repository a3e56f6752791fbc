package texmath

// envFrame tracks the alignment-environment currently open, so that
// `&` and `\\` know whether they are allowed and which environment's
// policy governs them (spec.md §4.6 "Environments").
type envFrame struct {
	name           string
	alignmentCount int // 0 means unbounded
	column         int
}

// dispatchBegin implements \begin{name}: name must be a known
// environment (SPEC_FULL.md, Supplemented Features #1). The body is
// not split into a separate sub-content string; rows and columns are
// ordinary characters/control sequences in the flowing input, matched
// against the group-type stack like any other Begin/End pair.
func (p *Parser) dispatchBegin(c *cursor) ([]*instruction, *ParserError) {
	arg, err := c.argument()
	if err != nil {
		return nil, err
	}
	name := arg.Group
	if !arg.IsGroup {
		name = reproduceToken(arg.Token)
	}
	info, ok := environments[name]
	if !ok {
		return nil, c.errAt(ErrEnvironment, c.pos)
	}
	p.pushGroup(GroupingEnvironment, name)
	p.envStack = append(p.envStack, &envFrame{name: name, alignmentCount: info.AlignmentCount})
	c.horizontalLines() // a leading \hline/\hdashline before any row, policy-only
	return eventSeq(beginEvent(Grouping{Kind: GroupingEnvironment, Environment: name})), nil
}

// dispatchEnd implements \end{name}: name must match the innermost
// open environment.
func (p *Parser) dispatchEnd(c *cursor) ([]*instruction, *ParserError) {
	arg, err := c.argument()
	if err != nil {
		return nil, err
	}
	name := arg.Group
	if !arg.IsGroup {
		name = reproduceToken(arg.Token)
	}
	if len(p.envStack) == 0 || p.envStack[len(p.envStack)-1].name != name {
		return nil, newError(ErrEnvironment, c.pos, "")
	}
	if err := p.popGroup(GroupingEnvironment, c); err != nil {
		return nil, err
	}
	p.envStack = p.envStack[:len(p.envStack)-1]
	return eventSeq(endEvent(Grouping{Kind: GroupingEnvironment, Environment: name})), nil
}

// dispatchRowBreak implements `\\` inside an alignment environment: it
// resets the column counter and emits a row-separator operator event.
// The closed Event alphabet (spec.md §3) has no dedicated row/column
// variant, so a row break is represented as Operator{Char: '\n'} and a
// column advance as Operator{Char: '&'}; mathml/render.go special-cases
// these two characters when its enclosing Grouping is an environment.
func (p *Parser) dispatchRowBreak(c *cursor) ([]*instruction, *ParserError) {
	if len(p.envStack) == 0 {
		return nil, c.errAt(ErrAlignmentChar, c.pos)
	}
	_, _, derr := c.optionalArgument() // [extra-row-space], parsed and not carried further
	if derr != nil {
		return nil, derr
	}
	c.horizontalLines() // \hline/\hdashline markers trailing the break, policy-only
	frame := p.envStack[len(p.envStack)-1]
	frame.column = 0
	return eventSeq(operatorEvent(Operator{Char: '\n'})), nil
}

// columnAdvance is consulted by dispatchCharacter for a bare `&`
// inside an environment, enforcing the environment's fixed column
// count when it has one.
func (p *Parser) columnAdvance(c *cursor) *ParserError {
	if len(p.envStack) == 0 {
		return nil
	}
	frame := p.envStack[len(p.envStack)-1]
	frame.column++
	if frame.alignmentCount > 0 && frame.column >= frame.alignmentCount {
		return c.errAt(ErrAlignmentChar, c.pos)
	}
	return nil
}

// EnvironmentInfo exposes an environment's layout policy (delimiters,
// column count) to the mathml package, which has no access to this
// package's unexported tables.
type EnvironmentInfo struct {
	AlignmentCount int
	SurroundLeft   rune
	SurroundRight  rune
	HasDelimiters  bool
	IsArray        bool
}

// LookupEnvironment reports the layout policy for a \begin{name}
// environment name, for renderers that need to reproduce surrounding
// delimiters or column counts without re-deriving them from events.
func LookupEnvironment(name string) (EnvironmentInfo, bool) {
	info, ok := environments[name]
	if !ok {
		return EnvironmentInfo{}, false
	}
	return EnvironmentInfo{
		AlignmentCount: info.AlignmentCount,
		SurroundLeft:   info.SurroundLeft,
		SurroundRight:  info.SurroundRight,
		HasDelimiters:  info.HasDelimiters,
		IsArray:        info.IsArray,
	}, true
}
