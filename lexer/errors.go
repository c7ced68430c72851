package lexer

import (
	"errors"
)

var (
	ErrUnterminatedString  = errors.New("unterminated string")
	ErrUnterminatedChar    = errors.New("unterminated character literal")
	ErrUnterminatedComment = errors.New("unterminated block comment")
	ErrDanglingMode        = errors.New("mode must be followed by a bracket or a string")
	ErrUnexpectedChar      = errors.New("unexpected character")
)
