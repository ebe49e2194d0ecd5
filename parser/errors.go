package parser

import (
	"errors"
	"fmt"

	"github.com/metaphox/kaleido/ast"
)

// ErrSyntax is matched by every error the parser returns.
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports the token the parser wanted and the token it found.
type SyntaxError struct {
	Expected string    // what the parser was looking for, e.g. `")"` or "expression"
	Got      ast.Token // the offending token
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d col %d: expected %s, got %s",
		e.Got.Line, e.Got.Col, e.Expected, e.Got)
}

// Unwrap lets errors.Is(err, ErrSyntax) match.
func (e *SyntaxError) Unwrap() error { return ErrSyntax }

func unexpected(expected string, got ast.Token) error {
	return &SyntaxError{Expected: expected, Got: got}
}
