// Package parser_test contains tests for the Kaleido parser.
//
// Each test parses a snippet and compares a flattened form of the tree against
// a nested []any, which keeps the expected shapes readable:
//
//	{"Binop", "+", {"Number", "2"}, {"Number", "3"}}
package parser_test

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/metaphox/kaleido/ast"
	"github.com/metaphox/kaleido/parser"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

// flatten turns a tree into nested slices for structural comparison.
func flatten(t *testing.T, n ast.Node) any {
	t.Helper()
	switch n := n.(type) {
	case *ast.NumberExprAST:
		return []any{"Number", n.Val}
	case *ast.VariableExprAST:
		return []any{"Variable", n.Name}
	case *ast.BinaryExprAST:
		return []any{"Binop", string(n.Op), flatten(t, n.LHS), flatten(t, n.RHS)}
	case *ast.CallExprAST:
		args := []any{}
		for _, a := range n.Args {
			args = append(args, flatten(t, a))
		}
		return []any{"Call", n.Callee, args}
	case *ast.PrototypeAST:
		return []any{"Proto", n.Name, strings.Join(n.ArgNames, " ")}
	case *ast.FunctionAST:
		return []any{"Function", flatten(t, n.Proto), flatten(t, n.Body)}
	default:
		t.Fatalf("unknown node type in flatten: %T", n)
		return nil
	}
}

// parse runs ParseTopLevel and fails the test on error.
func parse(t *testing.T, src string) ast.TopLevel {
	t.Helper()
	top, err := parser.New().ParseTopLevel(src)
	if err != nil {
		t.Fatalf("ParseTopLevel(%q): unexpected error: %v", src, err)
	}
	return top
}

// assertBody checks that src parses to a function whose flattened body is want.
func assertBody(t *testing.T, src string, want any) *ast.FunctionAST {
	t.Helper()
	fn, ok := parse(t, src).(*ast.FunctionAST)
	if !ok {
		t.Fatalf("ParseTopLevel(%q): expected *ast.FunctionAST", src)
	}
	if got := flatten(t, fn.Body); !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseTopLevel(%q) body:\n got  %v\n want %v", src, got, want)
	}
	return fn
}

// assertSyntaxError checks that src fails with a *parser.SyntaxError whose
// expectation and offending token match.
func assertSyntaxError(t *testing.T, src, expected string, got ast.TokenKind) {
	t.Helper()
	top, err := parser.New().ParseTopLevel(src)
	if err == nil {
		t.Fatalf("ParseTopLevel(%q): expected error, got %v", src, top)
	}
	if top != nil {
		t.Fatalf("ParseTopLevel(%q): expected nil result on error, got %v", src, top)
	}
	if !errors.Is(err, parser.ErrSyntax) {
		t.Fatalf("ParseTopLevel(%q): error %v does not match ErrSyntax", src, err)
	}
	var se *parser.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("ParseTopLevel(%q): error %T is not *SyntaxError", src, err)
	}
	if se.Expected != expected {
		t.Errorf("ParseTopLevel(%q): expected %q, got %q", src, expected, se.Expected)
	}
	if se.Got.Kind != got {
		t.Errorf("ParseTopLevel(%q): offending token kind %s, want %s", src, se.Got.Kind, got)
	}
}

func num(v string) []any  { return []any{"Number", v} }
func vari(n string) []any { return []any{"Variable", n} }
func binop(op string, lhs, rhs any) []any {
	return []any{"Binop", op, lhs, rhs}
}

// ── Primaries ─────────────────────────────────────────────────────────────────

func TestParser_Basic(t *testing.T) {
	fn, ok := parse(t, "2").(*ast.FunctionAST)
	if !ok {
		t.Fatal("expected *ast.FunctionAST")
	}
	n, ok := fn.Body.(*ast.NumberExprAST)
	if !ok {
		t.Fatalf("body: expected *ast.NumberExprAST, got %T", fn.Body)
	}
	if n.Val != "2" {
		t.Fatalf("body value: got %q, want %q", n.Val, "2")
	}
	if !fn.IsAnonymous() {
		t.Fatalf("bare expression: expected anonymous prototype, got %+v", fn.Proto)
	}
}

func TestParser_Variable(t *testing.T) {
	assertBody(t, "foobar", vari("foobar"))
}

// TestParser_NumberVerbatim verifies that numeric text reaches the tree as
// lexed, without conversion.
func TestParser_NumberVerbatim(t *testing.T) {
	assertBody(t, "007.50", num("007.50"))
	assertBody(t, ".1519", num(".1519"))
	assertBody(t, "1.2.3", num("1.2.3"))
}

// ── Binary expressions ────────────────────────────────────────────────────────

func TestParser_SinglePrecedence(t *testing.T) {
	assertBody(t, "2+ 3-4",
		binop("-", binop("+", num("2"), num("3")), num("4")))
}

func TestParser_MultiPrecedence(t *testing.T) {
	assertBody(t, "2+3*4-9",
		binop("-",
			binop("+", num("2"), binop("*", num("3"), num("4"))),
			num("9")))
}

func TestParser_Parens(t *testing.T) {
	assertBody(t, "2*(3-4)*7",
		binop("*",
			binop("*", num("2"), binop("-", num("3"), num("4"))),
			num("7")))
}

func TestParser_LeftAssociativity(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{"a-b-c", binop("-", binop("-", vari("a"), vari("b")), vari("c"))},
		{"a/b/c", binop("/", binop("/", vari("a"), vari("b")), vari("c"))},
		{"a*b/c", binop("/", binop("*", vari("a"), vari("b")), vari("c"))},
		{"a-b+c", binop("+", binop("-", vari("a"), vari("b")), vari("c"))},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assertBody(t, tt.src, tt.want)
		})
	}
}

func TestParser_LessThanBindsLoosest(t *testing.T) {
	assertBody(t, "a < b + c*2",
		binop("<", vari("a"), binop("+", vari("b"), binop("*", vari("c"), num("2")))))
}

func TestParser_NestedParens(t *testing.T) {
	assertBody(t, "((1))", num("1"))
	assertBody(t, "a-(b-c)", binop("-", vari("a"), binop("-", vari("b"), vari("c"))))
}

// TestParser_UnknownOperatorEndsExpression verifies that an operator missing
// from the precedence table ends the expression instead of failing it.
func TestParser_UnknownOperatorEndsExpression(t *testing.T) {
	assertBody(t, "a % b", vari("a"))
	assertBody(t, "1 + 2 ^ 3", binop("+", num("1"), num("2")))
}

// ── Calls ─────────────────────────────────────────────────────────────────────

func TestParser_Calls(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{"f()", []any{"Call", "f", []any{}}},
		{"f(x)", []any{"Call", "f", []any{vari("x")}}},
		{"f(1, a+b, g())", []any{"Call", "f", []any{
			num("1"),
			binop("+", vari("a"), vari("b")),
			[]any{"Call", "g", []any{}},
		}}},
		{"f(x)*2", binop("*", []any{"Call", "f", []any{vari("x")}}, num("2"))},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assertBody(t, tt.src, tt.want)
		})
	}
}

// TestParser_IdentifierBeforeParenGroup verifies that whitespace does not
// matter: an identifier followed by '(' is always a call.
func TestParser_IdentifierBeforeParenGroup(t *testing.T) {
	assertBody(t, "f (1)", []any{"Call", "f", []any{num("1")}})
}

// ── Externs and definitions ───────────────────────────────────────────────────

func TestParser_Externals(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{"extern sin(arg)", []any{"Proto", "sin", "arg"}},
		{"extern Foobar(nom denom abom)", []any{"Proto", "Foobar", "nom denom abom"}},
		{"extern rand()", []any{"Proto", "rand", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			top := parse(t, tt.src)
			if _, ok := top.(*ast.PrototypeAST); !ok {
				t.Fatalf("expected *ast.PrototypeAST, got %T", top)
			}
			if got := flatten(t, top); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParser_FuncDef(t *testing.T) {
	top := parse(t, "def foo(x) 1 + bar(x)")
	want := []any{"Function", []any{"Proto", "foo", "x"},
		binop("+", num("1"), []any{"Call", "bar", []any{vari("x")}})}
	if got := flatten(t, top); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParser_FuncDefArgOrder(t *testing.T) {
	fn, ok := parse(t, "def bina(a b c) a + b").(*ast.FunctionAST)
	if !ok {
		t.Fatal("expected *ast.FunctionAST")
	}
	if fn.Proto.Name != "bina" {
		t.Errorf("name: got %q, want %q", fn.Proto.Name, "bina")
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(fn.Proto.ArgNames, want) {
		t.Errorf("args: got %v, want %v", fn.Proto.ArgNames, want)
	}
	if fn.IsAnonymous() {
		t.Error("named definition reported as anonymous")
	}
}

// TestParser_TrailingTokensIgnored verifies that ParseTopLevel stops after one
// construct.
func TestParser_TrailingTokensIgnored(t *testing.T) {
	assertBody(t, "1 2 3", num("1"))
	top := parse(t, "extern f(x) extern g(y)")
	if p, ok := top.(*ast.PrototypeAST); !ok || p.Name != "f" {
		t.Fatalf("got %v, want extern f", top)
	}
}

// ── Errors ────────────────────────────────────────────────────────────────────

func TestParser_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
		got      ast.TokenKind
	}{
		{"missing close paren in prototype", "def foo(x", `")"`, ast.EOF},
		{"comma in prototype", "def foo(x, y) x", `")"`, ast.OPERATOR},
		{"missing name after def", "def (x) x", "identifier", ast.OPERATOR},
		{"keyword as name", "extern def()", "identifier", ast.DEF},
		{"missing open paren", "extern sin arg", `"("`, ast.IDENTIFIER},
		{"missing body", "def foo(x)", "expression", ast.EOF},
		{"dangling operator", "1 +", "expression", ast.EOF},
		{"unclosed group", "(1 + 2", `")"`, ast.EOF},
		{"unclosed call", "f(1, 2", `","`, ast.EOF},
		{"trailing comma in call", "f(1,)", "expression", ast.OPERATOR},
		{"space separated call args", "f(a b)", `","`, ast.IDENTIFIER},
		{"empty input", "", "expression", ast.EOF},
		{"stray operator", ")", "expression", ast.OPERATOR},
		{"keyword in expression", "1 + def", "expression", ast.DEF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertSyntaxError(t, tt.src, tt.expected, tt.got)
		})
	}
}

func TestSyntaxError_Message(t *testing.T) {
	_, err := parser.New().ParseTopLevel("def foo(x\n  y z")
	if err == nil {
		t.Fatal("expected error")
	}
	want := `syntax error at line 2 col 6: expected ")", got EOF`
	if err.Error() != want {
		t.Fatalf("message:\n got  %s\n want %s", err.Error(), want)
	}
}

// ── Programs ──────────────────────────────────────────────────────────────────

func TestParser_Program(t *testing.T) {
	src := `
# declarations
extern sin(x);
def twice(x) x * 2
twice(sin(1.5));;
`
	tops, err := parser.New().ParseProgram(src)
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if len(tops) != 3 {
		t.Fatalf("expected 3 constructs, got %d", len(tops))
	}
	if _, ok := tops[0].(*ast.PrototypeAST); !ok {
		t.Errorf("tops[0]: expected *ast.PrototypeAST, got %T", tops[0])
	}
	if fn, ok := tops[1].(*ast.FunctionAST); !ok || fn.Proto.Name != "twice" {
		t.Errorf("tops[1]: expected def twice, got %v", tops[1])
	}
	if fn, ok := tops[2].(*ast.FunctionAST); !ok || !fn.IsAnonymous() {
		t.Errorf("tops[2]: expected anonymous expression, got %v", tops[2])
	}
}

func TestParser_ProgramEmpty(t *testing.T) {
	tops, err := parser.New().ParseProgram("  # nothing\n;;")
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if len(tops) != 0 {
		t.Fatalf("expected no constructs, got %d", len(tops))
	}
}

func TestParser_ProgramError(t *testing.T) {
	tops, err := parser.New().ParseProgram("def ok(x) x; def bad(x x")
	if !errors.Is(err, parser.ErrSyntax) {
		t.Fatalf("expected syntax error, got %v", err)
	}
	if tops != nil {
		t.Fatalf("expected no partial result, got %v", tops)
	}
}

// TestParser_Reusable verifies that a Parser carries no state between calls.
func TestParser_Reusable(t *testing.T) {
	p := parser.New()
	if _, err := p.ParseTopLevel("def broken("); err == nil {
		t.Fatal("expected error")
	}
	top, err := p.ParseTopLevel("2")
	if err != nil {
		t.Fatalf("second parse: %v", err)
	}
	if got := top.Dump(0); got != "FunctionAST[PrototypeAST[]]\n  NumberExprAST[2]\n" {
		t.Fatalf("second parse dump: %q", got)
	}
}

func TestParser_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if _, err := parser.New(parser.WithLogger(logger)).ParseTopLevel("extern sin(x)"); err != nil {
		t.Fatalf("ParseTopLevel: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "parsed extern") || !strings.Contains(out, "name=sin") {
		t.Fatalf("log output missing trace: %q", out)
	}
}

func TestPrecedence(t *testing.T) {
	for _, op := range []byte("<+-*/") {
		if _, ok := parser.Precedence(op); !ok {
			t.Errorf("%q: expected a binary operator", op)
		}
	}
	for _, op := range []byte("%^(),;=") {
		if _, ok := parser.Precedence(op); ok {
			t.Errorf("%q: expected not a binary operator", op)
		}
	}
	plus, _ := parser.Precedence('+')
	minus, _ := parser.Precedence('-')
	times, _ := parser.Precedence('*')
	div, _ := parser.Precedence('/')
	if plus != minus || times != div || times <= plus {
		t.Fatalf("unexpected table: + %d, - %d, * %d, / %d", plus, minus, times, div)
	}
}
