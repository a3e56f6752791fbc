package texmath

// DisplayMode selects block (\[ \]) or inline ($ $) rendering context,
// which influences whether moveable-limits operators default their
// script position to AboveBelow or Right (spec.md §6).
type DisplayMode int

const (
	DisplayInline DisplayMode = iota
	DisplayBlock
)

// Color is an 8-bit-per-channel RGB color, used for the renderer's
// error-highlighting and for \color/\textcolor.
type Color struct {
	R, G, B uint8
}

// ParserConfig holds the settings the renderer (an external
// collaborator, spec.md §6) recognizes. The core parser consults only
// DisplayMode, to pick the default ScriptPosition for moveable-limits
// operators.
type ParserConfig struct {
	DisplayMode       DisplayMode
	IncludeAnnotation string
	XML               bool
	ErrorColor        Color
	Strict            bool
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() ParserConfig {
	return ParserConfig{
		DisplayMode:       DisplayInline,
		IncludeAnnotation: "",
		XML:               false,
		ErrorColor:        Color{R: 178, G: 34, B: 34},
		Strict:            false,
	}
}

// Option mutates a ParserConfig; used with NewParser and NewConfig.
type Option func(*ParserConfig)

// NewConfig builds a ParserConfig from DefaultConfig with opts applied
// in order, mirroring the teacher's functional-option style.
func NewConfig(opts ...Option) ParserConfig {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func WithDisplayMode(m DisplayMode) Option {
	return func(c *ParserConfig) { c.DisplayMode = m }
}

func WithXML(xml bool) Option {
	return func(c *ParserConfig) { c.XML = xml }
}

func WithStrict(strict bool) Option {
	return func(c *ParserConfig) { c.Strict = strict }
}

func WithErrorColor(color Color) Option {
	return func(c *ParserConfig) { c.ErrorColor = color }
}

func WithIncludeAnnotation(annotation string) Option {
	return func(c *ParserConfig) { c.IncludeAnnotation = annotation }
}
