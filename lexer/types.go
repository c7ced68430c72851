package lexer

// TokenType represents all the possible types of a lexical unit
type TokenType uint8

// List of types of lexical units
const (
	TokenInvalid TokenType = iota
	TokenOpen             // Opening bracket, optionally tagged: "(", "[", "{", "#map["
	TokenClose            // Closing bracket: ")", "]", "}"
	TokenString           // Quoted text, optionally tagged: 'abc', "abc", #sym'abc'
	TokenChar             // Character literal: `c`
	TokenWord             // Any run of characters that is not a separator or delimiter
	TokenQuote            // Colon: ":"
	TokenUnquote          // At sign: "@"
	TokenEOF              // End of file
)

var tokenValues = map[TokenType][]rune{
	TokenOpen:    []rune("([{"),
	TokenClose:   []rune(")]}"),
	TokenString:  []rune(`'"`),
	TokenChar:    []rune("`"),
	TokenQuote:   []rune{':'},
	TokenUnquote: []rune{'@'},
}

var tokenNames = map[TokenType]string{
	TokenInvalid: "invalid",
	TokenOpen:    "open",
	TokenClose:   "close",
	TokenString:  "string",
	TokenChar:    "char",
	TokenWord:    "word",
	TokenQuote:   "quote",
	TokenUnquote: "unquote",
	TokenEOF:     "EOF",
}

func (tt TokenType) String() string {
	if v, ok := tokenNames[tt]; ok {
		return v
	}
	return tokenNames[TokenInvalid]
}

var (
	separators = []rune(" \f\t\r\n\v,")

	// wordBreakers end a word without being part of it.
	wordBreakers = []rune(`:@()[]{}"';#~`)
)

func isTokenType(tt TokenType) func(r rune) bool {
	return func(r rune) bool {
		for _, v := range tokenValues[tt] {
			if v == r {
				return true
			}
		}
		return false
	}
}

func isSeparator(r rune) bool {
	for _, v := range separators {
		if v == r {
			return true
		}
	}
	return false
}

func isWordBreaker(r rune) bool {
	if isSeparator(r) {
		return true
	}
	for _, v := range wordBreakers {
		if v == r {
			return true
		}
	}
	return false
}
