package texmath

import (
	"testing"

	. "gopkg.in/check.v1"
)

// Hook up gocheck into the "go test" runner.

func TestMacro(t *testing.T) { TestingT(t) }

type MacroTestSuite struct{}

var _ = Suite(&MacroTestSuite{})

func literalsOf(repl []replElement) string {
	var out string
	for _, e := range repl {
		if !e.IsParam {
			out += e.Literal
		}
	}
	return out
}

func (s *MacroTestSuite) TestNoParams(c *C) {
	mc := NewMacroContext()
	err := mc.Define("foo", "", `\this {} is a ## test`)
	c.Assert(err, IsNil)

	def := mc.entries["foo"]
	c.Check(def.prefix, Equals, "")
	c.Check(def.suffixes, HasLen, 0)
	c.Check(literalsOf(def.replacement), Equals, `\this {} is a # test`)
}

func (s *MacroTestSuite) TestWithParams(c *C) {
	mc := NewMacroContext()
	err := mc.Define("foo", "this#1test#2. should #", `\this {} is a ## test#1`)
	c.Assert(err, IsNil)

	def := mc.entries["foo"]
	c.Check(def.prefix, Equals, "this")
	c.Check(def.suffixes, DeepEquals, []string{"test", ". should "})
	c.Check(def.braceDelim, Equals, true)
	c.Check(def.replacement, DeepEquals, []replElement{
		{Literal: `\this {} is a #`},
		{Literal: " test"},
		{IsParam: true, ParamIndex: 1},
	})
}

// A complex example from p.20.7 in TeXBook:
// \def\cs AB#1#2C$#3\$ {#3{ab#1}#1 c##\x #2}
func (s *MacroTestSuite) TestTexbook(c *C) {
	mc := NewMacroContext()
	err := mc.Define("cs", `AB#1#2C$#3\$ `, `#3{ab#1}#1 c##\x #2`)
	c.Assert(err, IsNil)

	def := mc.entries["cs"]
	c.Check(def.prefix, Equals, "AB")
	c.Check(def.suffixes, DeepEquals, []string{"", "C$", `\$ `})
	c.Check(def.replacement, DeepEquals, []replElement{
		{IsParam: true, ParamIndex: 3},
		{Literal: "{ab"},
		{IsParam: true, ParamIndex: 1},
		{Literal: "}"},
		{IsParam: true, ParamIndex: 1},
		{Literal: " c#"},
		{Literal: `\x `},
		{IsParam: true, ParamIndex: 2},
	})
}

func (s *MacroTestSuite) TestBraceDelimNoText(c *C) {
	mc := NewMacroContext()
	err := mc.Define("foo", "#", "2 + 2 = 4")
	c.Assert(err, IsNil)

	def := mc.entries["foo"]
	c.Check(def.prefix, Equals, "")
	c.Check(def.suffixes, HasLen, 0)
	c.Check(def.braceDelim, Equals, true)
	c.Check(def.replacement, DeepEquals, []replElement{{Literal: "2 + 2 = 4"}})
}

func (s *MacroTestSuite) TestStandaloneHashRejected(c *C) {
	mc := NewMacroContext()
	err := mc.Define("foo", "", `a # b`)
	c.Assert(err, NotNil)
	c.Check(err.Kind, Equals, ErrStandaloneHashSign)
}

func (s *MacroTestSuite) TestBracesInParamTextRejected(c *C) {
	mc := NewMacroContext()
	err := mc.Define("foo", "{1}", "x")
	c.Assert(err, NotNil)
	c.Check(err.Kind, Equals, ErrBracesInParamText)
}

func (s *MacroTestSuite) TestExpandSimplePrefixAndParam(c *C) {
	mc := NewMacroContext()
	c.Assert(mc.Define("greet", "#1", `hello #1`), IsNil)

	arena := NewArena()
	out, n, defined, err := mc.TryExpandIn("greet", "{world} tail", arena)
	c.Assert(err, IsNil)
	c.Check(defined, Equals, true)
	c.Check(out[:n], Equals, "hello world")
	c.Check(out[n:], Equals, " tail")
}

func (s *MacroTestSuite) TestExpandIncorrectPrefixErrors(c *C) {
	mc := NewMacroContext()
	c.Assert(mc.Define("cs", "AB#1", "#1"), IsNil)

	arena := NewArena()
	_, _, defined, err := mc.TryExpandIn("cs", "XY{z}", arena)
	c.Check(defined, Equals, true)
	c.Assert(err, NotNil)
	c.Check(err.Kind, Equals, ErrIncorrectMacroPrefix)
}

func (s *MacroTestSuite) TestExpandEagerlyReportsRelax(c *C) {
	mc := NewMacroContext()
	c.Assert(mc.Define("foo", "", "bar"), IsNil)

	arena := NewArena()
	_, err := mc.ExpandEagerly(`\foo \relax`, arena, 8)
	c.Assert(err, NotNil)
	c.Check(err.Kind, Equals, ErrRelax)
}

func (s *MacroTestSuite) TestExpandEagerlyExpandsNestedMacros(c *C) {
	mc := NewMacroContext()
	c.Assert(mc.Define("inner", "", "x"), IsNil)
	c.Assert(mc.Define("outer", "", `\inner+\inner`), IsNil)

	arena := NewArena()
	out, err := mc.ExpandEagerly(`\outer`, arena, 8)
	c.Assert(err, IsNil)
	c.Check(out, Equals, "x+x")
}

func (s *MacroTestSuite) TestAssignLetAlias(c *C) {
	mc := NewMacroContext()
	mc.Assign("bar", Token{Name: "foo"})
	c.Check(mc.IsDefined("bar"), Equals, true)

	arena := NewArena()
	out, n, defined, err := mc.TryExpandIn("bar", " rest", arena)
	c.Assert(err, IsNil)
	c.Check(defined, Equals, true)
	c.Check(out[:n], Equals, `\foo`)
	c.Check(out[n:], Equals, " rest")
}
