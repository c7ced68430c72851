package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanner(t *testing.T) {
	testCases := []string{
		`1`,

		`-1 -2.22`,

		`+ 1 1 1 1`,

		`[ [ [] ] [] []]`,

		`(+ 1 2 3)`,

		`(- 1 2 3)`,

		`(foo a b c-d-e-f 'ghi')`,

		`(foo
			a :b
			c-d-e-f
			"g
			hi"
		)`,

		`{def foo (+ 3 3)}`,

		`{defn sum [a b] (+ a b)}`,

		`#map['hey' m 'you' {= m (+ m 1)}]`,

		`#set[NaN (+ Infinity (/ -0.0 -0.0))]`,

		`{defmacro dup [a] [a a]} (+ {dup 11} {dup 10}) {dup 23}`,

		`(fn1 [:A "😊"])`,
	}

	{
		for i := range testCases {
			tokens, err := Tokenize([]byte(testCases[i]))
			t.Logf("tokens: %v", tokens)

			assert.NotNil(t, tokens)
			assert.NoError(t, err)
		}
	}
}

func TestTokenize(t *testing.T) {
	testCases := []struct {
		In  string
		Out []TokenType
	}{
		{
			`1`,
			[]TokenType{
				TokenWord,
				TokenEOF,
			},
		},
		{
			`+
			1`,
			[]TokenType{
				TokenWord,
				TokenWord,
				TokenEOF,
			},
		},
		{
			`(+
				[1,
				{}])`,
			[]TokenType{
				TokenOpen,
				TokenWord,
				TokenOpen,
				TokenWord,
				TokenOpen,
				TokenClose,
				TokenClose,
				TokenClose,
				TokenEOF,
			},
		},
		{
			`(:(1 2) @v)`,
			[]TokenType{
				TokenOpen,
				TokenQuote,
				TokenOpen,
				TokenWord,
				TokenWord,
				TokenClose,
				TokenUnquote,
				TokenWord,
				TokenClose,
				TokenEOF,
			},
		},
		{
			"'a' \"b\" `c`",
			[]TokenType{
				TokenString,
				TokenString,
				TokenChar,
				TokenEOF,
			},
		},
		{
			"1 ; comment (\n2 #! shebang\n3",
			[]TokenType{
				TokenWord,
				TokenWord,
				TokenWord,
				TokenEOF,
			},
		},
		{
			"1 ~/ block ( comment /~ 2 ~~/ nested /~ still /~~ 3",
			[]TokenType{
				TokenWord,
				TokenWord,
				TokenWord,
				TokenEOF,
			},
		},
	}

	getTokenTypes := func(tokens []Token) []TokenType {
		tt := make([]TokenType, 0, len(tokens))
		for i := range tokens {
			tt = append(tt, tokens[i].tt)
		}
		return tt
	}

	{
		for i := range testCases {
			tokens, err := Tokenize([]byte(testCases[i].In))

			assert.NotNil(t, tokens)
			assert.NoError(t, err)

			assert.Equal(t, testCases[i].Out, getTokenTypes(tokens))
		}
	}
}

func TestModes(t *testing.T) {
	tokens, err := Tokenize([]byte(`#map[ #set[ #infix( #sym'abc' #(`))
	assert.NoError(t, err)

	modes := []string{}
	texts := []string{}
	for _, tok := range tokens {
		modes = append(modes, tok.Mode())
		texts = append(texts, tok.Text())
	}

	assert.Equal(t, []string{"map", "set", "infix", "sym", "", ""}, modes)
	assert.Equal(t, []string{"[", "[", "(", "abc", "(", ""}, texts)
	assert.Equal(t, "'", tokens[3].Delim())
}

func TestEscapes(t *testing.T) {
	tokens, err := Tokenize([]byte(`'it\'s\n' "q\"" ` + "`\\t`"))
	assert.NoError(t, err)

	assert.Equal(t, "it's\n", tokens[0].Text())
	assert.Equal(t, `q"`, tokens[1].Text())
	assert.Equal(t, "\t", tokens[2].Text())
	assert.True(t, tokens[2].Is(TokenChar))
}

func TestErrors(t *testing.T) {
	testCases := []struct {
		In  string
		Err error
	}{
		{`'abc`, ErrUnterminatedString},
		{"`ab`", ErrUnterminatedChar},
		{`~/ never closed`, ErrUnterminatedComment},
		{`#map x`, ErrDanglingMode},
		{`~ x`, ErrUnexpectedChar},
	}

	for i := range testCases {
		tokens, err := Tokenize([]byte(testCases[i].In))
		assert.Nil(t, tokens)
		assert.ErrorIs(t, err, testCases[i].Err, testCases[i].In)
	}
}

func TestColumnAndLines(t *testing.T) {
	testCases := []struct {
		In  string
		Pos [][2]int
	}{
		{
			"",
			[][2]int{
				{1, 1},
			},
		},
		{
			"1",
			[][2]int{
				{1, 1}, {1, 2},
			},
		},
		{
			"\n\n\nABCDF efgh\n",
			[][2]int{
				{4, 1}, {4, 7},
				{5, 1},
			},
		},
		{
			"1\n\n\t\t(23456)",
			[][2]int{
				{1, 1},
				{3, 3}, {3, 4}, {3, 9},
				{3, 10},
			},
		},
	}

	getTokenPositions := func(tokens []Token) [][2]int {
		ret := make([][2]int, 0, len(tokens))
		for i := range tokens {
			ret = append(ret, [2]int{tokens[i].line, tokens[i].col})
		}
		return ret
	}

	{
		for i := range testCases {
			tokens, err := Tokenize([]byte(testCases[i].In))

			assert.NotNil(t, tokens)
			assert.NoError(t, err)

			assert.Equal(t, testCases[i].Pos, getTokenPositions(tokens))
		}
	}
}
