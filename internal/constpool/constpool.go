// Package constpool interns integer, string and boolean literals behind
// stable labels, so that two occurrences of the same literal value always
// address the same data-segment location.
package constpool

import (
	"fmt"

	"choco32/ast"
	"choco32/internal/label"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Pool interns integer, string and boolean constants and hands back the
// label pointing at their prototype image in the data segment.
type Pool struct {
	lf *label.Factory

	ints      map[int]label.Label
	intOrder  []int
	strs      map[string]label.Label
	strOrder  []string

	falseLabel label.Label
	trueLabel  label.Label
}

// ---------------------
// ----- Functions -----
// ---------------------

// New returns an empty Pool with its two fixed boolean labels pre-created.
func New(lf *label.Factory) *Pool {
	return &Pool{
		lf:         lf,
		ints:       make(map[int]label.Label),
		strs:       make(map[string]label.Label),
		falseLabel: lf.User("falseConstant"),
		trueLabel:  lf.User("trueConstant"),
	}
}

// FalseConstant returns the fixed label of the interned "False" value.
func (p *Pool) FalseConstant() label.Label { return p.falseLabel }

// TrueConstant returns the fixed label of the interned "True" value.
func (p *Pool) TrueConstant() label.Label { return p.trueLabel }

// GetIntConstant returns the label for the interned integer v, creating and
// recording it on first use. Two calls with equal v always return the same
// label.
func (p *Pool) GetIntConstant(v int) label.Label {
	if l, ok := p.ints[v]; ok {
		return l
	}
	l := p.lf.User(intLabelName(len(p.intOrder)))
	p.ints[v] = l
	p.intOrder = append(p.intOrder, v)
	return l
}

// GetStrConstant returns the label for the interned string v, creating and
// recording it on first use.
func (p *Pool) GetStrConstant(v string) label.Label {
	if l, ok := p.strs[v]; ok {
		return l
	}
	l := p.lf.User(strLabelName(len(p.strOrder)))
	p.strs[v] = l
	p.strOrder = append(p.strOrder, v)
	return l
}

// Ints returns the interned integer constants in insertion order, paired
// with their labels. The layout emitter walks this slice verbatim so that
// two runs over the same AST produce byte-identical output.
func (p *Pool) Ints() []IntConstant {
	out := make([]IntConstant, len(p.intOrder))
	for i, v := range p.intOrder {
		out[i] = IntConstant{Value: v, Label: p.ints[v]}
	}
	return out
}

// Strs returns the interned string constants in insertion order, paired
// with their labels.
func (p *Pool) Strs() []StrConstant {
	out := make([]StrConstant, len(p.strOrder))
	for i, v := range p.strOrder {
		out[i] = StrConstant{Value: v, Label: p.strs[v]}
	}
	return out
}

// IntConstant pairs an interned integer value with its label.
type IntConstant struct {
	Value int
	Label label.Label
}

// StrConstant pairs an interned string value with its label.
type StrConstant struct {
	Value string
	Label label.Label
}

// FromLiteral maps a literal AST node to its interned label: integer and
// string literals intern through GetIntConstant / GetStrConstant; boolean
// literals map to the two fixed labels; None and any other literal kind
// (e.g. a list display) yield the zero Label.
func (p *Pool) FromLiteral(n ast.Expr) label.Label {
	switch v := n.(type) {
	case *ast.IntegerLiteral:
		return p.GetIntConstant(v.Value)
	case *ast.StringLiteral:
		return p.GetStrConstant(v.Value)
	case *ast.BooleanLiteral:
		if v.Value {
			return p.trueLabel
		}
		return p.falseLabel
	default:
		// *ast.NoneLiteral and anything else (list displays, etc.) has no
		// single interned image.
		return label.Label{}
	}
}

func intLabelName(seq int) string {
	return fmt.Sprintf("int$%d", seq)
}

func strLabelName(seq int) string {
	return fmt.Sprintf("str$%d", seq)
}
