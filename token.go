package celadon

import (
	"slices"
	"strings"
)

// Kind tells the scan what to do when it meets a token.
type Kind uint8

const (
	// KindPending tokens still have to be resolved by name.
	KindPending Kind = iota
	KindResolved
	// KindSymbolHandler tokens (envoys) rewrite the buffer as soon as the scan
	// reaches them.
	KindSymbolHandler
	// KindBracketHandler tokens (varyings) rewrite a bracketed region once its
	// closing bracket is reached.
	KindBracketHandler
	KindMacro
	KindFunction
)

var kindNames = map[Kind]string{
	KindPending:        "pending",
	KindResolved:       "resolved",
	KindSymbolHandler:  "envoy",
	KindBracketHandler: "varying",
	KindMacro:          "macro",
	KindFunction:       "function",
}

func (k Kind) String() string {
	return kindNames[k]
}

// Token is the unit of the rewrite buffer. Tokens are never mutated once
// created; rewriting replaces them.
type Token struct {
	Content string
	Bracket string
	Closing bool
	Mode    string
	Kind    Kind
	Value   *Value

	Line, Col int

	literal bool
}

var nilToken = Stable(Nil)

// NewSymbol creates a pending token that resolves by name.
func NewSymbol(name string) *Token {
	return &Token{Content: name, Kind: KindPending}
}

func NewOpen(bracket, mode string) *Token {
	return &Token{Bracket: bracket, Mode: mode, Kind: KindPending}
}

func NewClose(bracket string) *Token {
	return &Token{Bracket: bracket, Closing: true, Kind: KindPending}
}

// NewLiteral creates a moded string literal; its mode handler decides what it
// becomes.
func NewLiteral(delim, text, mode string) *Token {
	return &Token{Bracket: delim, Content: text, Mode: mode, Kind: KindPending, literal: true}
}

// Stable wraps a value in a complete token.
func Stable(v *Value) *Token {
	t := &Token{Kind: KindResolved, Value: v}
	switch v.Type {
	case ValueTypeFunction:
		t.Kind = KindFunction
	case ValueTypeMacro:
		t.Kind = KindMacro
	}
	return t
}

func NewFunction(fn Callable) *Token {
	return Stable(NewFunctionValue(fn))
}

func NewMacro(m Macro) *Token {
	return Stable(NewMacroValue(m))
}

// NewEnvoy creates a symbol handler.
func NewEnvoy(m Morph) *Token {
	return &Token{Kind: KindSymbolHandler, Value: NewMorphValue(m)}
}

// NewVarying creates a bracket handler.
func NewVarying(m Morph) *Token {
	return &Token{Kind: KindBracketHandler, Value: NewMorphValue(m)}
}

func (t *Token) at(line, col int) *Token {
	c := *t
	c.Line, c.Col = line, col
	return &c
}

// IsDelimiter reports whether t is an opening or closing bracket.
func (t *Token) IsDelimiter() bool {
	return t.Bracket != "" && !t.literal
}

func (t *Token) IsOpen() bool {
	return t.IsDelimiter() && !t.Closing
}

func (t *Token) IsClose() bool {
	return t.IsDelimiter() && t.Closing
}

func (t *Token) IsLiteral() bool {
	return t.literal
}

// IsSymbol reports whether t is a name that has not been resolved yet.
func (t *Token) IsSymbol() bool {
	return t.Kind == KindPending && t.Bracket == ""
}

// Complete reports whether the scan can hand t out as a result.
func (t *Token) Complete() bool {
	switch t.Kind {
	case KindResolved, KindFunction, KindMacro, KindBracketHandler:
		return t.Bracket == ""
	}
	return false
}

func (t *Token) quotes() bool {
	return t.Bracket == "{"
}

func mirror(r rune) rune {
	switch r {
	case '(':
		return ')'
	case ')':
		return '('
	case '[':
		return ']'
	case ']':
		return '['
	case '{':
		return '}'
	case '}':
		return '{'
	}
	return r
}

// Matches reports whether t and other close each other: one opens, the other
// closes, and each character mirrors its counterpart read backwards.
func (t *Token) Matches(other *Token) bool {
	if !t.IsDelimiter() || !other.IsDelimiter() || t.Closing == other.Closing {
		return false
	}
	a, b := []rune(t.Bracket), []rune(other.Bracket)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if mirror(a[i]) != b[len(b)-1-i] {
			return false
		}
	}
	return true
}

func (t *Token) String() string {
	if t.Kind != KindPending && t.Value != nil {
		return t.Value.String()
	}
	switch {
	case t.literal:
		return "#" + t.Mode + t.Bracket + t.Content + t.Bracket
	case t.IsOpen() && t.Mode != "":
		return "#" + t.Mode + t.Bracket
	case t.IsDelimiter():
		return t.Bracket
	}
	return t.Content
}

// Tokens is a rewrite buffer.
type Tokens []*Token

// Replace swaps ts[start:end] for with and returns how many tokens were
// placed. with may alias ts.
func (ts *Tokens) Replace(start, end int, with ...*Token) int {
	repl := slices.Clone(with)
	*ts = slices.Replace(*ts, start, end, repl...)
	return len(repl)
}

func (ts Tokens) Clone() Tokens {
	return slices.Clone(ts)
}

func (ts Tokens) String() string {
	values := make([]string, 0, len(ts))
	for _, t := range ts {
		values = append(values, t.String())
	}
	return strings.Join(values, " ")
}
