package celadon

import (
	"math"
	"strconv"
	"strings"

	"github.com/tommyettinger/celadon/lexer"
)

// Read turns source text into a buffer ready for Evaluate. Numbers, plain
// strings and chars come out resolved; everything else is pending.
func Read(in []byte) (Tokens, error) {
	lexemes, err := lexer.Tokenize(in)
	if err != nil {
		return nil, err
	}

	ts := make(Tokens, 0, len(lexemes))
	for _, lx := range lexemes {
		var t *Token
		switch lx.Type() {
		case lexer.TokenOpen:
			t = NewOpen(lx.Delim(), lx.Mode())
		case lexer.TokenClose:
			t = NewClose(lx.Delim())
		case lexer.TokenString:
			if lx.Mode() == "" {
				t = Stable(NewString(lx.Text()))
			} else {
				t = NewLiteral(lx.Delim(), lx.Text(), lx.Mode())
			}
		case lexer.TokenChar:
			t = Stable(NewChar([]rune(lx.Text())[0]))
		case lexer.TokenQuote:
			t = NewSymbol(":")
		case lexer.TokenUnquote:
			t = NewSymbol("@")
		case lexer.TokenWord:
			if v, ok := ParseNumber(lx.Text()); ok {
				t = Stable(v)
			} else {
				t = NewSymbol(lx.Text())
			}
		default:
			continue
		}
		line, col := lx.Pos()
		ts = append(ts, t.at(line, col))
	}
	return ts, nil
}

// ParseNumber reads an integer or float literal as the reader does.
func ParseNumber(s string) (*Value, bool) {
	if i, ok := parseInt(s); ok {
		return NewInt(i), true
	}
	if f, ok := parseFloat(s); ok {
		return NewFloat(f), true
	}
	return nil, false
}

func trimSuffix(s, suffixes string) string {
	if n := len(s); n > 1 && strings.ContainsRune(suffixes, rune(s[n-1])) {
		return s[:n-1]
	}
	return s
}

func splitSign(s string) (string, string) {
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		return s[:1], s[1:]
	}
	return "", s
}

func allDigits(s string, isDigit func(byte) bool) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDecimal(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDecimal(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isBinary(c byte) bool {
	return c == '0' || c == '1'
}

// parseInt accepts decimal, 0x hex and 0b binary with an optional sign and
// an optional l or n suffix. Hex and binary take all 64 bits.
func parseInt(s string) (int64, bool) {
	sign, body := splitSign(trimSuffix(s, "lLnN"))

	var (
		u   uint64
		err error
	)
	switch {
	case len(body) > 2 && (body[:2] == "0x" || body[:2] == "0X"):
		digits := body[2:]
		if len(digits) > 16 || !allDigits(digits, isHex) {
			return 0, false
		}
		u, err = strconv.ParseUint(digits, 16, 64)
	case len(body) > 2 && (body[:2] == "0b" || body[:2] == "0B"):
		digits := body[2:]
		if len(digits) > 64 || !allDigits(digits, isBinary) {
			return 0, false
		}
		u, err = strconv.ParseUint(digits, 2, 64)
	default:
		if !allDigits(body, isDecimal) {
			return 0, false
		}
		i, err := strconv.ParseInt(sign+body, 10, 64)
		return i, err == nil
	}
	if err != nil {
		return 0, false
	}
	if sign == "-" {
		return -int64(u), true
	}
	return int64(u), true
}

// parseFloat accepts NaN, Infinity and digits with an optional fraction and
// exponent, then an optional f or m suffix.
func parseFloat(s string) (float64, bool) {
	sign, body := splitSign(trimSuffix(s, "fFmM"))

	switch body {
	case "NaN":
		return math.NaN(), true
	case "Infinity":
		if sign == "-" {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}

	mantissa, exponent := body, ""
	if i := strings.IndexAny(body, "eE"); i >= 0 {
		mantissa, exponent = body[:i], body[i+1:]
		_, digits := splitSign(exponent)
		if !allDigits(digits, isDecimal) {
			return 0, false
		}
	}
	whole, fraction, dotted := strings.Cut(mantissa, ".")
	if !allDigits(whole, isDecimal) || (dotted && !allDigits(fraction, isDecimal)) {
		return 0, false
	}

	f, err := strconv.ParseFloat(sign+body, 64)
	if err != nil {
		// out of range values still parse to the nearest infinity
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f, true
		}
		return 0, false
	}
	return f, true
}
