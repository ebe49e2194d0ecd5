// The node hierarchy is closed:
//
//	Node (interface)
//	  ExprAST (interface)
//	    NumberExprAST, VariableExprAST, BinaryExprAST, CallExprAST
//	  TopLevel (interface), the result of one top-level parse
//	    FunctionAST, PrototypeAST
//
// Nodes are built bottom-up by the parser and never mutated afterwards. Each
// child is owned by exactly one parent, so every tree is a strict tree.

package ast

// ── Interfaces ────────────────────────────────────────────────────────────────

// Node is the root interface for every element of the tree.
type Node interface {
	// Dump returns the canonical indented form of the node, see [Dump].
	Dump(indent int) string
	// String is Dump(0).
	String() string
	astNode()
}

// ExprAST is a Node that evaluates to a value.
type ExprAST interface {
	Node
	exprNode()
}

// TopLevel is the outcome of parsing one top-level construct: a *FunctionAST
// for definitions and bare expressions, or a *PrototypeAST for an extern
// declaration, which has no body.
type TopLevel interface {
	Node
	topLevelNode()
}

// AnonName is the prototype name given to a bare top-level expression.
// Identifiers are letters and digits only, so it never collides with a user
// function.
const AnonName = "__anon_expr"

// ── Expressions ───────────────────────────────────────────────────────────────

// NumberExprAST is a numeric literal. Val is the raw lexed text; it is never
// converted, so precision and formatting survive untouched.
type NumberExprAST struct {
	Val string
}

// VariableExprAST is a reference to a named value.
type VariableExprAST struct {
	Name string
}

// BinaryExprAST applies a binary operator to two operands.
//
//	2 + 3  → Op='+', LHS=Number(2), RHS=Number(3)
type BinaryExprAST struct {
	Op  byte
	LHS ExprAST
	RHS ExprAST
}

// CallExprAST is a function call. Args keep call-site order and may be empty.
type CallExprAST struct {
	Callee string
	Args   []ExprAST
}

// ── Top-level constructs ──────────────────────────────────────────────────────

// PrototypeAST is a function's name and its parameter names, in positional
// order. It is shared by definitions and extern declarations.
type PrototypeAST struct {
	Name     string
	ArgNames []string
}

// FunctionAST is a function definition: a prototype and its body expression.
type FunctionAST struct {
	Proto *PrototypeAST
	Body  ExprAST
}

// IsAnonymous reports whether f wraps a bare top-level expression.
func (f *FunctionAST) IsAnonymous() bool {
	return f.Proto != nil && f.Proto.Name == AnonName && len(f.Proto.ArgNames) == 0
}

func (*NumberExprAST) astNode()   {}
func (*VariableExprAST) astNode() {}
func (*BinaryExprAST) astNode()   {}
func (*CallExprAST) astNode()     {}
func (*PrototypeAST) astNode()    {}
func (*FunctionAST) astNode()     {}

func (*NumberExprAST) exprNode()   {}
func (*VariableExprAST) exprNode() {}
func (*BinaryExprAST) exprNode()   {}
func (*CallExprAST) exprNode()     {}

func (*PrototypeAST) topLevelNode() {}
func (*FunctionAST) topLevelNode()  {}

func (n *NumberExprAST) Dump(indent int) string   { return Dump(n, indent) }
func (n *VariableExprAST) Dump(indent int) string { return Dump(n, indent) }
func (n *BinaryExprAST) Dump(indent int) string   { return Dump(n, indent) }
func (n *CallExprAST) Dump(indent int) string     { return Dump(n, indent) }
func (n *PrototypeAST) Dump(indent int) string    { return Dump(n, indent) }
func (n *FunctionAST) Dump(indent int) string     { return Dump(n, indent) }

func (n *NumberExprAST) String() string   { return Dump(n, 0) }
func (n *VariableExprAST) String() string { return Dump(n, 0) }
func (n *BinaryExprAST) String() string   { return Dump(n, 0) }
func (n *CallExprAST) String() string     { return Dump(n, 0) }
func (n *PrototypeAST) String() string    { return Dump(n, 0) }
func (n *FunctionAST) String() string     { return Dump(n, 0) }
