package texmath

// Font is a math font variant selected by \mathbf, \mathbb, and the
// prefix-form font switches (\bf, \it, \cal, ...).
type Font int

const (
	FontUpright Font = iota
	FontBold
	FontItalic
	FontBoldItalic
	FontScript
	FontBoldScript
	FontFraktur
	FontBoldFraktur
	FontSansSerif
	FontBoldSansSerif
	FontSansSerifItalic
	FontMonospace
	FontDoubleStruck
)

// MapChar maps a base Latin/Greek/digit character to its styled
// Unicode math-alphabet codepoint for f, following the piecewise
// ranges of the Unicode "Mathematical Alphanumeric Symbols" block.
// It reports ok=false for characters the targeted subset does not
// style (see DESIGN.md: coverage is Latin + Greek + digits, not the
// original's full Hebrew/archaic-letter ranges).
func MapChar(f Font, r rune) (rune, bool) {
	if f == FontUpright {
		return r, true
	}
	switch {
	case r >= 'A' && r <= 'Z':
		return mapLatinUpper(f, r)
	case r >= 'a' && r <= 'z':
		return mapLatinLower(f, r)
	case r >= '0' && r <= '9':
		return mapDigit(f, r)
	case r >= 'Α' && r <= 'Ω' && r != 'ϴ':
		return mapGreekUpper(f, r)
	case r >= 'α' && r <= 'ω':
		return mapGreekLower(f, r)
	}
	return r, false
}

// mapLatinUpper maps an uppercase Latin letter to its styled codepoint
// in the Mathematical Alphanumeric Symbols block (U+1D400 onward);
// blackboard-bold letters the block leaves out come from
// doubleStruckExceptionsUpper. A font not listed returns r, false.
func mapLatinUpper(f Font, r rune) (rune, bool) {
	offset := r - 'A'
	switch f {
	case FontBold:
		return 0x1D400 + offset, true
	case FontItalic:
		return 0x1D434 + offset, true
	case FontBoldItalic:
		return 0x1D468 + offset, true
	case FontScript:
		return 0x1D49C + offset, true
	case FontBoldScript:
		return 0x1D4D0 + offset, true
	case FontFraktur:
		return 0x1D504 + offset, true
	case FontBoldFraktur:
		return 0x1D56C + offset, true
	case FontSansSerif:
		return 0x1D5A0 + offset, true
	case FontBoldSansSerif:
		return 0x1D5D4 + offset, true
	case FontSansSerifItalic:
		return 0x1D608 + offset, true
	case FontMonospace:
		return 0x1D670 + offset, true
	case FontDoubleStruck:
		if bb, ok := doubleStruckExceptionsUpper[r]; ok {
			return bb, true
		}
		return 0x1D538 + offset, true
	}
	return r, false
}

func mapLatinLower(f Font, r rune) (rune, bool) {
	offset := r - 'a'
	switch f {
	case FontBold:
		return 0x1D41A + offset, true
	case FontItalic:
		if r == 'h' {
			return 0x210E, true // planck constant, the one exception
		}
		return 0x1D44E + offset, true
	case FontBoldItalic:
		return 0x1D482 + offset, true
	case FontScript:
		return 0x1D4B6 + offset, true
	case FontBoldScript:
		return 0x1D4EA + offset, true
	case FontFraktur:
		return 0x1D51E + offset, true
	case FontBoldFraktur:
		return 0x1D586 + offset, true
	case FontSansSerif:
		return 0x1D5BA + offset, true
	case FontBoldSansSerif:
		return 0x1D5EE + offset, true
	case FontSansSerifItalic:
		return 0x1D622 + offset, true
	case FontMonospace:
		return 0x1D68A + offset, true
	case FontDoubleStruck:
		if bb, ok := doubleStruckExceptionsLower[r]; ok {
			return bb, true
		}
		return 0x1D552 + offset, true
	}
	return r, false
}

func mapDigit(f Font, r rune) (rune, bool) {
	offset := r - '0'
	switch f {
	case FontBold:
		return 0x1D7CE + offset, true
	case FontDoubleStruck:
		return 0x1D7D8 + offset, true
	case FontSansSerif:
		return 0x1D7E2 + offset, true
	case FontBoldSansSerif:
		return 0x1D7EC + offset, true
	case FontMonospace:
		return 0x1D7F6 + offset, true
	}
	return r, false
}

func mapGreekUpper(f Font, r rune) (rune, bool) {
	offset := r - 'Α'
	switch f {
	case FontBold:
		return 0x1D6A8 + offset, true
	case FontItalic:
		return 0x1D6E2 + offset, true
	case FontBoldItalic:
		return 0x1D71C + offset, true
	case FontSansSerif, FontBoldSansSerif:
		return 0x1D756 + offset, true
	}
	return r, false
}

func mapGreekLower(f Font, r rune) (rune, bool) {
	offset := r - 'α'
	switch f {
	case FontBold:
		return 0x1D6C2 + offset, true
	case FontItalic:
		return 0x1D6FC + offset, true
	case FontBoldItalic:
		return 0x1D736 + offset, true
	case FontSansSerif, FontBoldSansSerif:
		return 0x1D770 + offset, true
	}
	return r, false
}

// doubleStruckExceptionsUpper covers the letters the Unicode block
// deliberately leaves holes for (they collide with pre-existing
// letterlike symbols), per the original's own font table.
var doubleStruckExceptionsUpper = map[rune]rune{
	'C': 0x2102,
	'H': 0x210D,
	'N': 0x2115,
	'P': 0x2119,
	'Q': 0x211A,
	'R': 0x211D,
	'Z': 0x2124,
}

var doubleStruckExceptionsLower = map[rune]rune{
	// the lowercase blackboard block has no holes in the targeted subset
}

// DimensionUnit is one of the TeX dimension unit suffixes accepted
// after a numeric literal.
type DimensionUnit int

const (
	UnitEm DimensionUnit = iota
	UnitEx
	UnitPt
	UnitPc
	UnitIn
	UnitBp
	UnitCm
	UnitMm
	UnitDd
	UnitCc
	UnitSp
	UnitMu
)

// unitNames maps the two-letter unit suffix (lowercased) to its
// DimensionUnit, used by the lexer's dimension routine.
var unitNames = map[string]DimensionUnit{
	"em": UnitEm,
	"ex": UnitEx,
	"pt": UnitPt,
	"pc": UnitPc,
	"in": UnitIn,
	"bp": UnitBp,
	"cm": UnitCm,
	"mm": UnitMm,
	"dd": UnitDd,
	"cc": UnitCc,
	"sp": UnitSp,
	"mu": UnitMu,
}

// ToEm returns the conversion factor from one unit of u to one em,
// per spec.md §6.
func (u DimensionUnit) ToEm() float64 {
	switch u {
	case UnitEm:
		return 1
	case UnitEx:
		return 0.4
	case UnitPt:
		return 0.1
	case UnitPc:
		return 1.2
	case UnitIn:
		return 6
	case UnitBp:
		return 72.0 / 72.27 * 0.1
	case UnitCm:
		return 6.0 / 2.54
	case UnitMm:
		return 6.0 / 25.4
	case UnitDd:
		return (1238.0 / 1157.0) * 0.1
	case UnitCc:
		return 12 * (1238.0 / 1157.0) * 0.1
	case UnitSp:
		return 1.5e-6
	case UnitMu:
		return 1.0 / 18.0
	}
	return 0
}

func (u DimensionUnit) String() string {
	for name, unit := range unitNames {
		if unit == u {
			return name
		}
	}
	return "?"
}

// Dimension is a signed numeric value paired with a unit.
type Dimension struct {
	Value float64
	Unit  DimensionUnit
}

// Em converts d to a plain em measurement.
func (d Dimension) Em() float64 { return d.Value * d.Unit.ToEm() }

// EmDimension is a convenience constructor for the fixed em-valued
// spacing and sizing primitives (\quad, \big, ...).
func EmDimension(v float64) Dimension { return Dimension{Value: v, Unit: UnitEm} }

// Glue is a dimension plus optional stretch and shrink, per TeXbook
// §24; numeric-glue arithmetic beyond parsing is a non-goal (spec.md §1).
type Glue struct {
	Natural Dimension
	Stretch *Dimension
	Shrink  *Dimension
}
