package lexer

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/scanner"
)

type lexState func(*Lexer) lexState

var (
	isOpen    = isTokenType(TokenOpen)
	isClose   = isTokenType(TokenClose)
	isQuote   = isTokenType(TokenQuote)
	isUnquote = isTokenType(TokenUnquote)
	isString  = isTokenType(TokenString)
	isChar    = isTokenType(TokenChar)
)

var escapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'b':  '\b',
	'f':  '\f',
	'0':  0,
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'`':  '`',
}

// New initializes a Lexer object
func New(r io.Reader) *Lexer {
	s := &scanner.Scanner{}

	return &Lexer{
		in:     s.Init(r),
		tokens: []Token{},
		buf:    []rune{},
		line:   1,
		col:    1,
	}
}

// Lexer represents a lexical analyzer
type Lexer struct {
	in *scanner.Scanner

	tokens  []Token
	lastErr error

	buf   []rune
	mode  string
	delim string

	line, col           int
	startLine, startCol int
}

// Tokens returns the tokens found so far.
func (lx *Lexer) Tokens() []Token {
	return lx.tokens
}

// Scan reads the whole input and collects its tokens. Comments and separators
// are dropped.
func (lx *Lexer) Scan() error {
	for state := lexDefaultState; state != nil; {
		state = state(lx)
	}

	if lx.lastErr == nil {
		lx.mark()
		lx.emitText(TokenEOF, "")
	}

	return lx.lastErr
}

func (lx *Lexer) mark() {
	lx.startLine, lx.startCol = lx.line, lx.col
	lx.buf = lx.buf[0:0]
}

func (lx *Lexer) emit(tt TokenType) {
	lx.emitText(tt, string(lx.buf))
}

func (lx *Lexer) emitText(tt TokenType, text string) {
	lx.tokens = append(lx.tokens, Token{
		tt:     tt,
		lexeme: text,

		mode:  lx.mode,
		delim: lx.delim,

		line: lx.startLine,
		col:  lx.startCol,
	})

	lx.buf = lx.buf[0:0]
	lx.mode, lx.delim = "", ""
}

func (lx *Lexer) errorf(err error) lexState {
	return lexStateError(fmt.Errorf("%d:%d: %w", lx.startLine, lx.startCol, err))
}

func (lx *Lexer) peek() rune {
	return lx.in.Peek()
}

func (lx *Lexer) next() (rune, error) {
	r := lx.in.Next()
	if r == scanner.EOF {
		return rune(0), io.EOF
	}

	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}

	lx.buf = append(lx.buf, r)
	return r, nil
}

func lexDefaultState(lx *Lexer) lexState {
	lx.mark()

	r, err := lx.next()
	if err != nil {
		return lexStateError(err)
	}

	switch {
	case isSeparator(r):
		return lexDefaultState

	case isOpen(r):
		lx.delim = string(r)
		return lexEmit(TokenOpen)
	case isClose(r):
		lx.delim = string(r)
		return lexEmit(TokenClose)

	case isString(r):
		return lexString(r)
	case isChar(r):
		return lexChar

	case isQuote(r):
		return lexEmit(TokenQuote)
	case isUnquote(r):
		return lexEmit(TokenUnquote)

	case r == ';':
		return lexLineComment
	case r == '#':
		return lexHash
	case r == '~':
		return lexBlockComment

	default:
		return lexWord
	}
}

func lexWord(lx *Lexer) lexState {
	for {
		p := lx.peek()
		if p == scanner.EOF || isWordBreaker(p) {
			break
		}
		if _, err := lx.next(); err != nil {
			return lexStateError(err)
		}
	}
	lx.emit(TokenWord)
	return lexDefaultState
}

func lexLineComment(lx *Lexer) lexState {
	for {
		p := lx.peek()
		if p == scanner.EOF || p == '\n' {
			return lexDefaultState
		}
		if _, err := lx.next(); err != nil {
			return lexStateError(err)
		}
	}
}

// lexBlockComment skips ~/ ... /~ regions; the number of tildes on both ends
// must be the same, so ~~/ ... /~~ may contain /~.
func lexBlockComment(lx *Lexer) lexState {
	tildes := 1
	for lx.peek() == '~' {
		if _, err := lx.next(); err != nil {
			return lexStateError(err)
		}
		tildes++
	}
	if lx.peek() != '/' {
		return lx.errorf(ErrUnexpectedChar)
	}
	if _, err := lx.next(); err != nil {
		return lexStateError(err)
	}

	closing := []rune("/" + strings.Repeat("~", tildes))
	body := []rune{}
	for {
		r, err := lx.next()
		if err != nil {
			return lx.errorf(ErrUnterminatedComment)
		}
		body = append(body, r)
		if len(body) >= len(closing) && string(body[len(body)-len(closing):]) == string(closing) {
			return lexDefaultState
		}
	}
}

// lexHash handles "#!" line comments and "#mode" tags in front of brackets
// and strings.
func lexHash(lx *Lexer) lexState {
	switch lx.peek() {
	case '!':
		return lexLineComment
	case '~':
		if _, err := lx.next(); err != nil {
			return lexStateError(err)
		}
	}

	mode := []rune{}
	for {
		p := lx.peek()
		if p == scanner.EOF || isWordBreaker(p) {
			break
		}
		r, err := lx.next()
		if err != nil {
			return lexStateError(err)
		}
		mode = append(mode, r)
	}

	r, err := lx.next()
	if err != nil {
		return lx.errorf(ErrDanglingMode)
	}

	lx.mode = string(mode)
	switch {
	case isOpen(r):
		lx.delim = string(r)
		return lexEmitText(TokenOpen, string(r))
	case isString(r):
		return lexString(r)
	}

	return lx.errorf(ErrDanglingMode)
}

func lexString(quote rune) lexState {
	return func(lx *Lexer) lexState {
		lit := []rune{}
		for {
			r, err := lx.next()
			if err != nil {
				return lx.errorf(ErrUnterminatedString)
			}
			if r == quote {
				break
			}
			if r == '\\' {
				e, err := lx.next()
				if err != nil {
					return lx.errorf(ErrUnterminatedString)
				}
				if v, ok := escapes[e]; ok {
					r = v
				} else {
					lit = append(lit, '\\')
					r = e
				}
			}
			lit = append(lit, r)
		}
		lx.delim = string(quote)
		return lexEmitText(TokenString, string(lit))
	}
}

func lexChar(lx *Lexer) lexState {
	r, err := lx.next()
	if err != nil {
		return lx.errorf(ErrUnterminatedChar)
	}
	if r == '\\' {
		e, err := lx.next()
		if err != nil {
			return lx.errorf(ErrUnterminatedChar)
		}
		v, ok := escapes[e]
		if !ok {
			v = e
		}
		r = v
	}
	if c, err := lx.next(); err != nil || c != '`' {
		return lx.errorf(ErrUnterminatedChar)
	}
	lx.delim = "`"
	return lexEmitText(TokenChar, string(r))
}

func lexEmit(tt TokenType) lexState {
	return func(lx *Lexer) lexState {
		lx.emit(tt)
		return lexDefaultState
	}
}

func lexEmitText(tt TokenType, text string) lexState {
	return func(lx *Lexer) lexState {
		lx.emitText(tt, text)
		return lexDefaultState
	}
}

func lexStateError(err error) lexState {
	if err == io.EOF {
		return nil
	}
	return func(lx *Lexer) lexState {
		lx.lastErr = err
		return nil
	}
}

// Tokenize takes an array of bytes and returns all the tokens within it,
// or an error if a token can't be identified.
func Tokenize(in []byte) ([]Token, error) {
	lx := New(bytes.NewReader(in))
	if err := lx.Scan(); err != nil {
		return nil, err
	}
	return lx.tokens, nil
}
