// Package ast defines the tokens and syntax tree nodes shared by the Kaleido
// lexer and parser.
//
// Tokens are the smallest meaningful units of a source string. Every token
// carries its kind, the exact text it was scanned from, and its source position
// (line + column). Position is 1-based: the first character is Line 1, Col 1.
package ast

import "fmt"

// TokenKind identifies the category of a scanned token.
type TokenKind int

const (
	// EOF marks the end of the input. Exactly one EOF ends every token sequence.
	EOF TokenKind = iota
	// DEF is the keyword introducing a function definition: def foo(x) x + 1
	DEF
	// EXTERN is the keyword introducing an external declaration: extern sin(arg)
	EXTERN
	// IDENTIFIER is a letter followed by letters or digits: foo, b2, C3d
	IDENTIFIER
	// NUMBER is a maximal run of digits and '.' characters, kept verbatim.
	// The lexer does not check that it contains at most one '.'.
	NUMBER
	// OPERATOR is any other single non-whitespace character: + - * ( ) , <
	OPERATOR
)

var kindNames = [...]string{
	EOF:        "EOF",
	DEF:        "DEF",
	EXTERN:     "EXTERN",
	IDENTIFIER: "IDENTIFIER",
	NUMBER:     "NUMBER",
	OPERATOR:   "OPERATOR",
}

// String returns the enumeration name of the kind, e.g. "IDENTIFIER".
func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// keywords maps the literal text of every keyword to its TokenKind.
var keywords = map[string]TokenKind{
	"def":    DEF,
	"extern": EXTERN,
}

// LookupIdent classifies a scanned identifier. Only an exact keyword spelling
// is reclassified; everything else is IDENTIFIER.
func LookupIdent(ident string) TokenKind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return IDENTIFIER
}

// Token is a single lexical unit produced by the lexer.
//
// Value is the exact source text: the empty string for EOF, the digit and dot
// run for NUMBER, one character for OPERATOR.
type Token struct {
	Kind  TokenKind
	Value string
	Line  int
	Col   int
}

// Is reports whether the token has the given kind and value.
func (t Token) Is(kind TokenKind, value string) bool {
	return t.Kind == kind && t.Value == value
}

// String renders the token for diagnostics, e.g. IDENTIFIER "foo".
func (t Token) String() string {
	if t.Kind == EOF {
		return "EOF"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Value)
}
