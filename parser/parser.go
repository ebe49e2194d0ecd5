// Package parser implements the Kaleido recursive-descent parser.
//
// The parser pulls tokens from a [lexer.Lexer] with one token of lookahead and
// builds [ast] nodes. Binary expressions use precedence climbing so that
// precedence and associativity live in a small table rather than a grammar
// rule per level.
//
// Usage:
//
//	p := parser.New()
//	top, err := p.ParseTopLevel("def add(a b) a + b")
//	if err != nil { ... }
//	fmt.Print(top.Dump(0))
//
// There is no error recovery: the first syntax error aborts the call and no
// partial tree is returned.
package parser

import (
	"iter"
	"log/slog"

	"github.com/metaphox/kaleido/ast"
	"github.com/metaphox/kaleido/lexer"
)

// ── Operator precedence ───────────────────────────────────────────────────────

// binopPrecedence maps each binary operator to its precedence; higher binds
// tighter. An operator missing from the table is not a binary operator.
var binopPrecedence = map[byte]int{
	'<': 10,
	'+': 20,
	'-': 20,
	'*': 40,
	'/': 40,
}

// Precedence returns the binary precedence of op and whether op is a binary
// operator at all.
func Precedence(op byte) (int, bool) {
	prec, ok := binopPrecedence[op]
	return prec, ok
}

// ── Parser ────────────────────────────────────────────────────────────────────

// Parser turns source strings into top-level AST nodes. It keeps no state
// between calls: every parse builds its own lexer and cursor, so one Parser
// may be reused for any number of sources.
type Parser struct {
	logger *slog.Logger
}

// Option configures a [Parser].
type Option func(*Parser)

// WithLogger makes the parser trace each parsed construct at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseTopLevel parses one top-level construct from src:
//
//	def name(args) body  → *ast.FunctionAST
//	extern name(args)    → *ast.PrototypeAST
//	expression           → *ast.FunctionAST named ast.AnonName with no args
//
// Tokens after the construct are ignored. On failure the result is nil and the
// error is a *SyntaxError.
func (p *Parser) ParseTopLevel(src string) (ast.TopLevel, error) {
	c := newCursor(lexer.New(src).Tokens())
	defer c.close()

	top, err := c.parseTopLevel()
	if err != nil {
		p.logger.Debug("parse failed", "error", err)
		return nil, err
	}
	p.trace(top)
	return top, nil
}

// ParseProgram parses top-level constructs until the end of src. A ';'
// between constructs is accepted as a separator and otherwise ignored.
func (p *Parser) ParseProgram(src string) ([]ast.TopLevel, error) {
	c := newCursor(lexer.New(src).Tokens())
	defer c.close()

	var tops []ast.TopLevel
	for {
		for c.curIsOp(';') {
			c.advance()
		}
		if c.cur.Kind == ast.EOF {
			return tops, nil
		}
		top, err := c.parseTopLevel()
		if err != nil {
			p.logger.Debug("parse failed", "error", err, "parsed", len(tops))
			return nil, err
		}
		p.trace(top)
		tops = append(tops, top)
	}
}

func (p *Parser) trace(top ast.TopLevel) {
	switch n := top.(type) {
	case *ast.FunctionAST:
		p.logger.Debug("parsed definition", "name", n.Proto.Name, "args", len(n.Proto.ArgNames))
	case *ast.PrototypeAST:
		p.logger.Debug("parsed extern", "name", n.Name, "args", len(n.ArgNames))
	}
}

// ── Token cursor ──────────────────────────────────────────────────────────────

// cursor is the one-token lookahead over a lexer's token sequence. It lives
// for a single parse call.
type cursor struct {
	next func() (ast.Token, bool)
	stop func()
	cur  ast.Token // current token (the one being examined)
}

func newCursor(seq iter.Seq[ast.Token]) *cursor {
	next, stop := iter.Pull(seq)
	c := &cursor{next: next, stop: stop}
	c.advance()
	return c
}

func (c *cursor) close() { c.stop() }

// advance moves to the next token. The sequence ends with EOF; once it is
// drained cur stays on that EOF.
func (c *cursor) advance() {
	if tok, ok := c.next(); ok {
		c.cur = tok
	}
}

// curIsOp reports whether the current token is the operator ch.
func (c *cursor) curIsOp(ch byte) bool {
	return c.cur.Kind == ast.OPERATOR && c.cur.Value[0] == ch
}

// expectOp consumes the operator ch or fails.
func (c *cursor) expectOp(ch byte) error {
	if !c.curIsOp(ch) {
		return unexpected(`"`+string(ch)+`"`, c.cur)
	}
	c.advance()
	return nil
}

// expectIdent consumes an identifier and returns its spelling.
func (c *cursor) expectIdent() (string, error) {
	if c.cur.Kind != ast.IDENTIFIER {
		return "", unexpected("identifier", c.cur)
	}
	name := c.cur.Value
	c.advance()
	return name, nil
}

// curPrecedence returns the precedence of the current token if it is a binary
// operator.
func (c *cursor) curPrecedence() (int, bool) {
	if c.cur.Kind != ast.OPERATOR {
		return 0, false
	}
	return Precedence(c.cur.Value[0])
}

// ── Top-level constructs ──────────────────────────────────────────────────────

func (c *cursor) parseTopLevel() (ast.TopLevel, error) {
	switch c.cur.Kind {
	case ast.DEF:
		return c.parseDefinition()
	case ast.EXTERN:
		return c.parseExtern()
	default:
		return c.parseTopLevelExpr()
	}
}

// parseDefinition parses: 'def' prototype expression
func (c *cursor) parseDefinition() (*ast.FunctionAST, error) {
	c.advance() // consume 'def'
	proto, err := c.parsePrototype()
	if err != nil {
		return nil, err
	}
	body, err := c.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionAST{Proto: proto, Body: body}, nil
}

// parseExtern parses: 'extern' prototype
func (c *cursor) parseExtern() (*ast.PrototypeAST, error) {
	c.advance() // consume 'extern'
	return c.parsePrototype()
}

// parseTopLevelExpr wraps a bare expression in an anonymous zero-argument
// function.
func (c *cursor) parseTopLevelExpr() (*ast.FunctionAST, error) {
	body, err := c.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionAST{Proto: &ast.PrototypeAST{Name: ast.AnonName}, Body: body}, nil
}

// parsePrototype parses: identifier '(' identifier* ')'
// Parameter names are separated by whitespace only; there are no commas.
func (c *cursor) parsePrototype() (*ast.PrototypeAST, error) {
	name, err := c.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := c.expectOp('('); err != nil {
		return nil, err
	}
	args := []string{}
	for c.cur.Kind == ast.IDENTIFIER {
		args = append(args, c.cur.Value)
		c.advance()
	}
	if err := c.expectOp(')'); err != nil {
		return nil, err
	}
	return &ast.PrototypeAST{Name: name, ArgNames: args}, nil
}

// ── Expressions ───────────────────────────────────────────────────────────────

func (c *cursor) parseExpression() (ast.ExprAST, error) {
	return c.parseBinary(0)
}

// parseBinary parses a primary operand and then folds in every following
// binary operator whose precedence is at least minPrec. The right operand is
// parsed at prec+1, so operators of equal precedence group to the left:
// 2+3-4 is (2+3)-4.
func (c *cursor) parseBinary(minPrec int) (ast.ExprAST, error) {
	lhs, err := c.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		prec, ok := c.curPrecedence()
		if !ok || prec < minPrec {
			return lhs, nil
		}
		op := c.cur.Value[0]
		c.advance()
		rhs, err := c.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryExprAST{Op: op, LHS: lhs, RHS: rhs}
	}
}

func (c *cursor) parsePrimary() (ast.ExprAST, error) {
	switch {
	case c.cur.Kind == ast.NUMBER:
		n := &ast.NumberExprAST{Val: c.cur.Value}
		c.advance()
		return n, nil
	case c.cur.Kind == ast.IDENTIFIER:
		return c.parseIdentifierOrCall()
	case c.curIsOp('('):
		return c.parseParenExpr()
	default:
		return nil, unexpected("expression", c.cur)
	}
}

// parseIdentifierOrCall parses a variable reference, or a call when the
// identifier is immediately followed by '('. Call arguments are separated by
// ','.
func (c *cursor) parseIdentifierOrCall() (ast.ExprAST, error) {
	name := c.cur.Value
	c.advance()
	if !c.curIsOp('(') {
		return &ast.VariableExprAST{Name: name}, nil
	}
	c.advance() // consume '('

	args := []ast.ExprAST{}
	if !c.curIsOp(')') {
		for {
			arg, err := c.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if c.curIsOp(')') {
				break
			}
			if err := c.expectOp(','); err != nil {
				return nil, err
			}
		}
	}
	c.advance() // consume ')'
	return &ast.CallExprAST{Callee: name, Args: args}, nil
}

// parseParenExpr parses: '(' expression ')'
// The parentheses shape the tree but leave no node of their own.
func (c *cursor) parseParenExpr() (ast.ExprAST, error) {
	c.advance() // consume '('
	expr, err := c.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := c.expectOp(')'); err != nil {
		return nil, err
	}
	return expr, nil
}
