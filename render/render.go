// Package render writes tokens and syntax trees to an io.Writer.
//
// Two tree formats are supported: the canonical dump produced by [ast.Dump],
// and a YAML mapping tree for tools that want structured output.
package render

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/metaphox/kaleido/ast"
)

// Format selects a tree encoding.
type Format int

const (
	FormatDump Format = iota // canonical ast.Dump text
	FormatYAML               // YAML sequence of node mappings
)

func (f Format) String() string {
	switch f {
	case FormatDump:
		return "dump"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat maps a format name to a Format. Names are case-insensitive.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "dump":
		return FormatDump, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("unknown format %q (want dump or yaml)", name)
	}
}

// Trees writes tops in format f.
func Trees(w io.Writer, f Format, tops ...ast.TopLevel) error {
	switch f {
	case FormatDump:
		return Dump(w, tops...)
	case FormatYAML:
		return YAML(w, tops...)
	default:
		return fmt.Errorf("render: unsupported format %v", f)
	}
}

// Dump writes the canonical dump of each construct. A FunctionAST dump already
// ends in a newline; a PrototypeAST dump does not, so one is added to keep
// consecutive constructs apart.
func Dump(w io.Writer, tops ...ast.TopLevel) error {
	for _, top := range tops {
		s := top.Dump(0)
		if !strings.HasSuffix(s, "\n") {
			s += "\n"
		}
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
	}
	return nil
}

// Tokens writes one line per token: kind, quoted value and line:col.
func Tokens(w io.Writer, seq iter.Seq[ast.Token]) error {
	for tok := range seq {
		if _, err := fmt.Fprintf(w, "%-10s\t%q\t%d:%d\n", tok.Kind, tok.Value, tok.Line, tok.Col); err != nil {
			return err
		}
	}
	return nil
}

// ── YAML ──────────────────────────────────────────────────────────────────────

// yamlNode is the YAML shape of any node. Fields irrelevant to a node's kind
// are left empty and omitted.
type yamlNode struct {
	Kind     string      `yaml:"kind"`
	Val      string      `yaml:"val,omitempty"`
	Name     string      `yaml:"name,omitempty"`
	Op       string      `yaml:"op,omitempty"`
	Callee   string      `yaml:"callee,omitempty"`
	ArgNames []string    `yaml:"argnames,flow,omitempty"`
	Args     []*yamlNode `yaml:"args,omitempty"`
	LHS      *yamlNode   `yaml:"lhs,omitempty"`
	RHS      *yamlNode   `yaml:"rhs,omitempty"`
	Proto    *yamlNode   `yaml:"proto,omitempty"`
	Body     *yamlNode   `yaml:"body,omitempty"`
}

// YAML writes tops as a YAML sequence, one mapping per construct.
func YAML(w io.Writer, tops ...ast.TopLevel) error {
	nodes := make([]*yamlNode, 0, len(tops))
	for _, top := range tops {
		nodes = append(nodes, toYAML(top))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(nodes); err != nil {
		return fmt.Errorf("render: encode yaml: %w", err)
	}
	return enc.Close()
}

func toYAML(n ast.Node) *yamlNode {
	switch n := n.(type) {
	case *ast.NumberExprAST:
		return &yamlNode{Kind: "NumberExprAST", Val: n.Val}
	case *ast.VariableExprAST:
		return &yamlNode{Kind: "VariableExprAST", Name: n.Name}
	case *ast.BinaryExprAST:
		return &yamlNode{Kind: "BinaryExprAST", Op: string(n.Op), LHS: toYAML(n.LHS), RHS: toYAML(n.RHS)}
	case *ast.CallExprAST:
		y := &yamlNode{Kind: "CallExprAST", Callee: n.Callee}
		for _, arg := range n.Args {
			y.Args = append(y.Args, toYAML(arg))
		}
		return y
	case *ast.PrototypeAST:
		return &yamlNode{Kind: "PrototypeAST", Name: n.Name, ArgNames: n.ArgNames}
	case *ast.FunctionAST:
		return &yamlNode{Kind: "FunctionAST", Proto: toYAML(n.Proto), Body: toYAML(n.Body)}
	default:
		panic(fmt.Sprintf("render: unexpected node %T", n))
	}
}
