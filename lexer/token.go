package lexer

import (
	"fmt"
)

// Token represents a known sequence of characters (lexical unit)
type Token struct {
	tt     TokenType
	lexeme string

	mode  string
	delim string

	line int
	col  int
}

// NewToken creates a lexical unit
func NewToken(tt TokenType, lexeme string, line int, col int) *Token {
	return &Token{
		tt:     tt,
		lexeme: lexeme,
		line:   line,
		col:    col,
	}
}

// Type returns the type of the lexical unit
func (t Token) Type() TokenType {
	return t.tt
}

// Pos returns the line and column of the lexical unit
func (t Token) Pos() (int, int) {
	return t.line, t.col
}

// Text returns the text of the lexical unit. Brackets return the bracket
// itself and strings return their unescaped contents.
func (t Token) Text() string {
	return t.lexeme
}

// Mode returns the tag written after "#" in front of a bracket or string, if
// any.
func (t Token) Mode() string {
	return t.mode
}

// Delim returns the bracket or quote character that delimits the unit.
func (t Token) Delim() string {
	return t.delim
}

// Is returns true if the token matches the given type
func (t Token) Is(tt TokenType) bool {
	return t.tt == tt
}

func (t Token) String() string {
	if t.mode != "" {
		return fmt.Sprintf("(:%v #%s %q [%d %d])", t.tt, t.mode, t.lexeme, t.line, t.col)
	}
	return fmt.Sprintf("(:%v %q [%d %d])", t.tt, t.lexeme, t.line, t.col)
}
