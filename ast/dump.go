package ast

import (
	"fmt"
	"strings"
)

// Dump returns the canonical textual form of n, indented by indent spaces.
// The format is a compatibility surface and must not change:
//
//	NumberExprAST[<val>]
//	VariableExprAST[<name>]
//	BinaryExprAST[<op>]    lhs and rhs follow on their own lines at indent+2
//	CallExprAST[<callee>]  args follow at indent+2, no trailing newline
//	PrototypeAST[<a, b>]   the name is not part of the dump
//	FunctionAST[<proto>]   body follows at indent+2, then a final newline
//
// Dump panics on a nil node or a nil child.
func Dump(n Node, indent int) string {
	var b strings.Builder
	dump(&b, n, indent)
	return b.String()
}

func dump(b *strings.Builder, n Node, indent int) {
	pad := strings.Repeat(" ", indent)
	switch n := n.(type) {
	case *NumberExprAST:
		fmt.Fprintf(b, "%sNumberExprAST[%s]", pad, n.Val)
	case *VariableExprAST:
		fmt.Fprintf(b, "%sVariableExprAST[%s]", pad, n.Name)
	case *BinaryExprAST:
		fmt.Fprintf(b, "%sBinaryExprAST[%c]\n", pad, n.Op)
		dump(b, n.LHS, indent+2)
		b.WriteByte('\n')
		dump(b, n.RHS, indent+2)
	case *CallExprAST:
		fmt.Fprintf(b, "%sCallExprAST[%s]", pad, n.Callee)
		for _, arg := range n.Args {
			b.WriteByte('\n')
			dump(b, arg, indent+2)
		}
	case *PrototypeAST:
		fmt.Fprintf(b, "%sPrototypeAST[%s]", pad, strings.Join(n.ArgNames, ", "))
	case *FunctionAST:
		fmt.Fprintf(b, "%sFunctionAST[", pad)
		dump(b, n.Proto, 0)
		b.WriteString("]\n")
		dump(b, n.Body, indent+2)
		b.WriteByte('\n')
	default:
		panic(fmt.Sprintf("ast: unexpected node %T", n))
	}
}
