package constpool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"choco32/ast"
	"choco32/internal/label"
)

func TestInternLaw(t *testing.T) {
	p := New(label.NewFactory())

	a := p.GetIntConstant(5)
	b := p.GetIntConstant(5)
	require.Equal(t, a, b, "same integer value must intern to the same label")

	c := p.GetIntConstant(6)
	require.NotEqual(t, a, c)

	s1 := p.GetStrConstant("hi")
	s2 := p.GetStrConstant("hi")
	require.Equal(t, s1, s2)
}

func TestFromLiteralRoundTrip(t *testing.T) {
	p := New(label.NewFactory())

	i := &ast.IntegerLiteral{Value: 42}
	require.Equal(t, p.GetIntConstant(42), p.FromLiteral(i))

	bt := &ast.BooleanLiteral{Value: true}
	require.Equal(t, p.TrueConstant(), p.FromLiteral(bt))

	bf := &ast.BooleanLiteral{Value: false}
	require.Equal(t, p.FalseConstant(), p.FromLiteral(bf))

	n := &ast.NoneLiteral{}
	require.False(t, p.FromLiteral(n).Valid(), "None must map to the null label")
}

func TestInsertionOrderIsStable(t *testing.T) {
	p := New(label.NewFactory())
	p.GetIntConstant(3)
	p.GetIntConstant(1)
	p.GetIntConstant(3) // repeat: must not reorder or duplicate.
	p.GetIntConstant(2)

	vals := make([]int, 0, 3)
	for _, c := range p.Ints() {
		vals = append(vals, c.Value)
	}
	require.Equal(t, []int{3, 1, 2}, vals)
}
