package celadon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenMatches(t *testing.T) {
	testCases := []struct {
		Open, Close string
		Matches     bool
	}{
		{"(", ")", true},
		{"[", "]", true},
		{"{", "}", true},
		{"(", "]", false},
		{"[", "}", false},
		{"{", ")", false},
	}

	for _, tc := range testCases {
		open, closing := NewOpen(tc.Open, ""), NewClose(tc.Close)
		assert.Equal(t, tc.Matches, open.Matches(closing), tc.Open+tc.Close)
		assert.Equal(t, tc.Matches, closing.Matches(open), tc.Close+tc.Open)
	}

	assert.False(t, NewOpen("(", "").Matches(NewOpen("(", "")))
	assert.True(t, NewOpen("[", "map").Matches(NewClose("]")))
	assert.False(t, NewLiteral("'", "x", "sym").Matches(NewClose("'")))
}

func TestTokenClassification(t *testing.T) {
	{
		tok := NewSymbol("foo")
		assert.True(t, tok.IsSymbol())
		assert.False(t, tok.IsDelimiter())
		assert.False(t, tok.Complete())
		assert.Equal(t, "foo", tok.String())
	}

	{
		tok := NewLiteral("'", "abc", "sym")
		assert.True(t, tok.IsLiteral())
		assert.False(t, tok.IsDelimiter())
		assert.False(t, tok.IsSymbol())
		assert.Equal(t, "#sym'abc'", tok.String())
	}

	{
		tok := NewOpen("[", "map")
		assert.True(t, tok.IsOpen())
		assert.False(t, tok.IsClose())
		assert.Equal(t, "#map[", tok.String())
	}

	{
		tok := Stable(NewInt(5))
		assert.True(t, tok.Complete())
		assert.Equal(t, KindResolved, tok.Kind)
		assert.Equal(t, "5", tok.String())
	}

	{
		tok := NewBuiltin("double", func(ctx *Context, args []*Token) (*Token, error) {
			return nil, nil
		})
		assert.Equal(t, KindFunction, tok.Kind)
		assert.Equal(t, "{builtin double}", tok.String())
	}

	assert.Equal(t, KindSymbolHandler, NewEnvoy(&splice{}).Kind)
	assert.Equal(t, KindBracketHandler, NewVarying(MorphFunc(listBracket)).Kind)
}

func TestTokensReplace(t *testing.T) {
	a, b, c, d := NewSymbol("a"), NewSymbol("b"), NewSymbol("c"), NewSymbol("d")
	x := NewSymbol("x")

	{
		ts := Tokens{a, b, c, d}
		n := ts.Replace(1, 3, x)
		assert.Equal(t, 1, n)
		assert.Equal(t, Tokens{a, x, d}, ts)
	}

	{
		ts := Tokens{a, b, c, d}
		n := ts.Replace(1, 2)
		assert.Equal(t, 0, n)
		assert.Equal(t, Tokens{a, c, d}, ts)
	}

	{
		ts := Tokens{a, b}
		n := ts.Replace(1, 1, x, x, x)
		assert.Equal(t, 3, n)
		assert.Equal(t, Tokens{a, x, x, x, b}, ts)
	}

	{
		// replacing a region with part of itself
		ts := Tokens{a, b, c, d}
		n := ts.Replace(0, 4, ts[1:3]...)
		assert.Equal(t, 2, n)
		assert.Equal(t, Tokens{b, c}, ts)
	}

	assert.Equal(t, "a b c", Tokens{a, b, c}.String())
}
