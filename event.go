package texmath

// EventKind tags the variant held by an Event.
type EventKind int

const (
	EventContent EventKind = iota
	EventBegin
	EventEnd
	EventScript
	EventVisual
	EventSpace
	EventFontChange
)

// ContentKind tags the variant held by a Content.
type ContentKind int

const (
	ContentIdentifierChar ContentKind = iota
	ContentIdentifierName
	ContentNumber
	ContentOperator
	ContentText
)

// Operator carries a single operator character plus the attributes
// that influence its rendering.
type Operator struct {
	Char            rune
	Stretchy        *bool
	MoveableLimits  *bool
	LeftSpace       *Dimension
	RightSpace      *Dimension
	Size            *Dimension
}

// Content is the payload of an EventContent event.
type Content struct {
	Kind     ContentKind
	Char     rune   // ContentIdentifierChar, ContentOperator (via Operator.Char)
	Name     string // ContentIdentifierName, ContentNumber (literal slice), ContentText
	Operator Operator
}

// GroupingKind selects the delimiter/ornamentation a Begin/End pair encloses.
type GroupingKind int

const (
	GroupingNormal GroupingKind = iota
	GroupingLeftRight
	GroupingBeginGroup
	GroupingBrace
	GroupingEnvironment
)

// Grouping is the payload of Begin/End events.
type Grouping struct {
	Kind        GroupingKind
	Environment string // set when Kind == GroupingEnvironment
}

// ScriptKind is the kind of script announcement.
type ScriptKind int

const (
	ScriptSubscript ScriptKind = iota
	ScriptSuperscript
	ScriptSubSuperscript
)

// ScriptPosition controls whether the script renders to the side or
// above/below the base (moveable-limits operators in display style).
type ScriptPosition int

const (
	PositionRight ScriptPosition = iota
	PositionAboveBelow
)

// VisualKind is the kind of a Visual announcement.
type VisualKind int

const (
	VisualFraction VisualKind = iota
	VisualSquareRoot
	VisualRoot
	VisualOverscript
	VisualUnderscript
	VisualUnderOverscript
)

// Space is the payload of a Space event; any field may be nil.
type Space struct {
	Width  *Dimension
	Height *Dimension
	Depth  *Dimension
}

// Event is the single output type of Parser.Next, a flattened tagged
// union mirroring the variants in spec.md §3. Only the fields that
// belong to Kind are meaningful; the rest are zero.
type Event struct {
	Kind EventKind

	Content  Content  // EventContent
	Grouping Grouping // EventBegin, EventEnd

	ScriptKind     ScriptKind     // EventScript
	ScriptPosition ScriptPosition // EventScript

	VisualKind        VisualKind // EventVisual
	FractionThickness *Dimension // EventVisual, VisualFraction only

	Space Space // EventSpace

	Font *Font // EventFontChange; nil means "restore default"
}

func contentEvent(c Content) Event { return Event{Kind: EventContent, Content: c} }

func identifierCharEvent(r rune) Event {
	return contentEvent(Content{Kind: ContentIdentifierChar, Char: r})
}

func identifierNameEvent(name string) Event {
	return contentEvent(Content{Kind: ContentIdentifierName, Name: name})
}

func numberEvent(literal string) Event {
	return contentEvent(Content{Kind: ContentNumber, Name: literal})
}

func textEvent(text string) Event {
	return contentEvent(Content{Kind: ContentText, Name: text})
}

func operatorEvent(op Operator) Event {
	return contentEvent(Content{Kind: ContentOperator, Char: op.Char, Operator: op})
}

func beginEvent(g Grouping) Event { return Event{Kind: EventBegin, Grouping: g} }
func endEvent(g Grouping) Event   { return Event{Kind: EventEnd, Grouping: g} }

func scriptEvent(kind ScriptKind, pos ScriptPosition) Event {
	return Event{Kind: EventScript, ScriptKind: kind, ScriptPosition: pos}
}

func visualEvent(kind VisualKind) Event {
	return Event{Kind: EventVisual, VisualKind: kind}
}

func fractionEvent(thickness *Dimension) Event {
	return Event{Kind: EventVisual, VisualKind: VisualFraction, FractionThickness: thickness}
}

func spaceEvent(width *Dimension) Event {
	return Event{Kind: EventSpace, Space: Space{Width: width}}
}

func fontChangeEvent(f *Font) Event { return Event{Kind: EventFontChange, Font: f} }

func boolPtr(b bool) *bool { return &b }
