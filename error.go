package texmath

import "fmt"

// ErrorKind is the closed set of failure reasons the parser can report.
// It implements error so a *ParserError's Unwrap chain supports
// errors.Is(err, texmath.ErrDelimiter) and similar sentinel checks.
type ErrorKind int

const (
	// Structural
	ErrUnbalancedGroup ErrorKind = iota
	ErrEnvironment
	ErrEndOfInput
	ErrToken

	// Syntactic
	ErrMathShift
	ErrHashSign
	ErrAlignmentChar
	ErrSubscriptAsToken
	ErrSuperscriptAsToken
	ErrDoubleSubscript
	ErrDoubleSuperscript

	// Arguments
	ErrArgument
	ErrGroupArgument
	ErrDimensionArgument
	ErrDimension
	ErrDimensionUnit
	ErrMathUnit
	ErrGlue
	ErrNumber
	ErrCharacterNumber
	ErrInvalidCharNumber
	ErrDelimiter
	ErrControlSequence
	ErrEmptyControlSequence
	ErrTextModeControlSequence
	ErrScriptAsArgument
	ErrControlSequenceAsArgument

	// Macros
	ErrBracesInParamText
	ErrCommentInParamText
	ErrIncorrectMacroParams
	ErrIncorrectReplacementParams
	ErrStandaloneHashSign
	ErrTooManyParams
	ErrIncorrectMacroPrefix
	ErrMacroAlreadyDefined
	ErrMacroNotDefined
	ErrMissingExpansion
	ErrMacroSuffixNotFound

	// Miscellaneous
	ErrUnknownPrimitive
	ErrUnknownColor
	ErrRelax
)

var errorKindNames = map[ErrorKind]string{
	ErrUnbalancedGroup:            "unbalanced group",
	ErrEnvironment:                "environment mismatch",
	ErrEndOfInput:                 "unexpected end of input",
	ErrToken:                      "invalid token",
	ErrMathShift:                  "math shift character '$' in math mode",
	ErrHashSign:                   "stray '#' outside of macro replacement text",
	ErrAlignmentChar:              "'&' outside of an alignment environment",
	ErrSubscriptAsToken:           "'_' found where a token was expected",
	ErrSuperscriptAsToken:         "'^' found where a token was expected",
	ErrDoubleSubscript:            "double subscript",
	ErrDoubleSuperscript:          "double superscript",
	ErrArgument:                   "missing argument",
	ErrGroupArgument:              "argument must be a group",
	ErrDimensionArgument:          "invalid dimension argument",
	ErrDimension:                  "invalid dimension",
	ErrDimensionUnit:              "invalid dimension unit",
	ErrMathUnit:                   "invalid math unit",
	ErrGlue:                       "invalid glue",
	ErrNumber:                     "invalid number",
	ErrCharacterNumber:            "invalid character number",
	ErrInvalidCharNumber:          "character number out of range",
	ErrDelimiter:                  "expected a delimiter",
	ErrControlSequence:            "invalid control sequence",
	ErrEmptyControlSequence:       "empty control sequence name",
	ErrTextModeControlSequence:    "control sequence only valid in text mode",
	ErrScriptAsArgument:           "'_' or '^' cannot be used as an argument",
	ErrControlSequenceAsArgument:  "control sequence cannot be used as this argument",
	ErrBracesInParamText:          "braces are not allowed in macro parameter text",
	ErrCommentInParamText:         "comments are not allowed in macro parameter text",
	ErrIncorrectMacroParams:       "incorrect number of macro parameters",
	ErrIncorrectReplacementParams: "parameter index out of range in replacement text",
	ErrStandaloneHashSign:         "'#' must be followed by a parameter index or another '#'",
	ErrTooManyParams:              "too many macro parameters",
	ErrIncorrectMacroPrefix:       "invocation does not match macro prefix",
	ErrMacroAlreadyDefined:        "macro already defined",
	ErrMacroNotDefined:            "macro not defined",
	ErrMissingExpansion:           "macro expansion produced no output",
	ErrMacroSuffixNotFound:        "macro parameter suffix not found",
	ErrUnknownPrimitive:           "unknown or unsupported primitive",
	ErrUnknownColor:               "unknown color",
	ErrRelax:                      "\\relax is not a valid argument",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return "unknown error"
}

// Error implements the error interface so ErrorKind can serve as a
// sentinel target for errors.Is.
func (k ErrorKind) Error() string { return k.String() }

// ParserError is the single concrete error type the parser returns.
// Context is built by the span stack: a window around the offending
// byte, followed by a "which was expanded from" line per macro
// expansion frame it was resolved through.
type ParserError struct {
	Kind     ErrorKind
	Position int
	Context  string

	// Expected is a slot for the expected closing-group kind
	// (ErrUnbalancedGroup) or environment name (ErrEnvironment); the
	// parser leaves it empty for every error it reports.
	Expected string
	// Found and Max carry the two integers of IncorrectMacroParams
	// (found, expected) and IncorrectReplacementParams (index, max).
	Found int
	Max   int
}

func (e *ParserError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("parsing error: %s", e.Kind)
	}
	return fmt.Sprintf("parsing error: %s\n%s", e.Kind, e.Context)
}

func (e *ParserError) Unwrap() error { return e.Kind }

func newError(kind ErrorKind, position int, context string) *ParserError {
	return &ParserError{Kind: kind, Position: position, Context: context}
}
