package sym

import (
	"testing"

	"github.com/stretchr/testify/require"

	"choco32/internal/label"
)

func TestAttributeIndexStability(t *testing.T) {
	lf := label.NewFactory()
	object := NewClass("object", 0, nil)

	a := NewClass("A", 1, object)
	a.AddAttr(&AttrInfo{Name: "x", Init: lf.User("int$0")})
	a.AddAttr(&AttrInfo{Name: "y"})

	b := NewClass("B", 2, a)
	b.AddAttr(&AttrInfo{Name: "z"}) // New attribute: appended after inherited ones.

	xa, _ := a.AttrIndex("x")
	xb, _ := b.AttrIndex("x")
	require.Equal(t, xa, xb, "inherited attribute must keep its ancestor's index")

	ya, _ := a.AttrIndex("y")
	yb, _ := b.AttrIndex("y")
	require.Equal(t, ya, yb)

	zb, ok := b.AttrIndex("z")
	require.True(t, ok)
	require.Equal(t, 2, zb)

	require.Equal(t, 3+2, a.ObjectSize())
	require.Equal(t, 3+3, b.ObjectSize())
}

func TestMethodOverrideKeepsSlot(t *testing.T) {
	object := NewClass("object", 0, nil)
	init := &FuncInfo{Name: "object.__init__"}
	object.AddMethod(init)

	a := NewClass("A", 1, object)
	fa := &FuncInfo{Name: "A.f"}
	a.AddMethod(fa)

	b := NewClass("B", 2, a)
	fb := &FuncInfo{Name: "B.f"} // Overrides A.f.
	b.AddMethod(fb)

	ia, _ := a.MethodIndex("f")
	ib, _ := b.MethodIndex("f")
	require.Equal(t, ia, ib)
	require.Same(t, fb, b.Methods[ib])
	require.Same(t, fa, a.Methods[ia])
}

func TestActivationRecordIndexing(t *testing.T) {
	f := &FuncInfo{Name: "f"}
	f.AddParam("a", label.Label{})
	f.AddParam("b", label.Label{})
	f.AddLocal("c", label.Label{})

	ai, _ := f.GetVarIndex("a")
	bi, _ := f.GetVarIndex("b")
	ci, _ := f.GetVarIndex("c")
	require.Equal(t, 0, ai)
	require.Equal(t, 1, bi)
	require.Equal(t, 2, ci)
	require.Equal(t, 2, f.Nparams())
	require.Equal(t, 1, f.Nlocals())
}

func TestSymbolTableScopeChain(t *testing.T) {
	global := NewSymbolTable(nil)
	global.Bind("g", &GlobalVarInfo{Name: "g"})

	outer := NewSymbolTable(global)
	x := &StackVarInfo{Name: "x"}
	outer.Bind("x", x)

	inner := NewSymbolTable(outer)

	if _, ok := inner.GetLocal("x"); ok {
		t.Fatal("GetLocal must not see enclosing scopes")
	}
	got, ok := inner.Get("x")
	require.True(t, ok)
	require.Same(t, x, got)

	_, ok = inner.Get("g")
	require.True(t, ok, "lookup must walk all the way to the global table")
}
