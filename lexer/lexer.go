// Package lexer implements the Kaleido tokeniser.
//
// The lexer converts a source string into an ordered stream of [ast.Token]
// values. Call [New] to create a lexer and then either call [Lexer.NextToken]
// until a token with Kind == [ast.EOF] comes back, or range over
// [Lexer.Tokens].
//
// Design notes:
//   - Single pass, byte by byte, over ASCII source.
//   - No global state; every [Lexer] is independent. A Lexer is not safe for
//     concurrent use.
//   - Comments run from '#' to the end of the line and emit no token.
//   - Lexing never fails: any character that does not start an identifier or a
//     number is returned as a one-character OPERATOR token. Rejecting unknown
//     operators is the parser's job.
package lexer

import (
	"iter"

	"github.com/metaphox/kaleido/ast"
)

// Lexer holds all state required to tokenise a single source string.
// Create one with [New]; never copy a Lexer after first use.
type Lexer struct {
	input string // the full source text
	pos   int    // index of the next byte to examine
	line  int    // 1-based line of input[pos]
	col   int    // 1-based column of input[pos]
	done  bool   // EOF has been handed out by Tokens
}

// New creates a [Lexer] over input, positioned at the first character.
func New(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// NextToken returns the next token from the input.
//
// Whitespace and '#' comments are skipped before each token. Once the input
// is exhausted NextToken returns an EOF token with an empty value on every
// subsequent call.
func (l *Lexer) NextToken() ast.Token {
	l.skipWhitespaceAndComments()

	if l.pos >= len(l.input) {
		return ast.Token{Kind: ast.EOF, Line: l.line, Col: l.col}
	}

	ch := l.input[l.pos]
	switch {
	case isLetter(ch):
		return l.readIdentifier()
	case isDigit(ch) || ch == '.':
		return l.readNumber()
	default:
		tok := ast.Token{Kind: ast.OPERATOR, Value: l.input[l.pos : l.pos+1], Line: l.line, Col: l.col}
		l.advance()
		return tok
	}
}

// Tokens returns the remaining tokens as a lazy sequence that ends with
// exactly one EOF token. The sequence shares the lexer's cursor: it is not
// restartable, and once EOF has been yielded later calls yield nothing.
// Build a fresh Lexer to tokenise the same source again.
func (l *Lexer) Tokens() iter.Seq[ast.Token] {
	return func(yield func(ast.Token) bool) {
		for !l.done {
			tok := l.NextToken()
			if tok.Kind == ast.EOF {
				l.done = true
			}
			if !yield(tok) {
				return
			}
		}
	}
}

// ── Internal helpers ──────────────────────────────────────────────────────────

// advance consumes one byte, keeping line and column current.
func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

// skipWhitespaceAndComments advances past whitespace and '#' line comments.
// A comment consumes its terminating newline, or runs to the end of input.
func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		switch ch := l.input[l.pos]; {
		case isSpace(ch):
			l.advance()
		case ch == '#':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

// readIdentifier scans the maximal run of letters and digits starting at the
// current position and classifies it via [ast.LookupIdent].
func (l *Lexer) readIdentifier() ast.Token {
	line, col, start := l.line, l.col, l.pos
	for l.pos < len(l.input) && (isLetter(l.input[l.pos]) || isDigit(l.input[l.pos])) {
		l.advance()
	}
	lit := l.input[start:l.pos]
	return ast.Token{Kind: ast.LookupIdent(lit), Value: lit, Line: line, Col: col}
}

// readNumber scans the maximal run of digits and '.' characters. "1.2.3" is a
// single NUMBER; validating it is left to later stages.
func (l *Lexer) readNumber() ast.Token {
	line, col, start := l.line, l.col, l.pos
	for l.pos < len(l.input) && (isDigit(l.input[l.pos]) || l.input[l.pos] == '.') {
		l.advance()
	}
	return ast.Token{Kind: ast.NUMBER, Value: l.input[start:l.pos], Line: line, Col: col}
}

// isSpace reports whether b is ASCII whitespace.
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// isLetter reports whether b is an ASCII letter. Underscore is not a letter.
func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// isDigit reports whether b is an ASCII decimal digit (0–9).
func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
