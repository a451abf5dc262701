package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"choco32/ast"
	"choco32/internal/sym"
)

func TestSeedPredefinedTagsAndShapes(t *testing.T) {
	a := New()
	require.Equal(t, 0, a.g.Object.TypeTag)
	require.Equal(t, 1, a.g.Int.TypeTag)
	require.Equal(t, 2, a.g.Bool.TypeTag)
	require.Equal(t, 3, a.g.Str.TypeTag)
	require.Equal(t, -1, a.g.List.TypeTag)
	require.False(t, a.g.List.DispatchTable.Valid(), ".list must emit no dispatch table")
	require.True(t, a.g.Object.DispatchTable.Valid())

	idx, ok := a.g.Str.AttrIndex("__len__")
	require.True(t, ok)
	require.Equal(t, 0, idx, "str.__len__ must share offset 0 with .list.__len__")
	idx, ok = a.g.List.AttrIndex("__len__")
	require.True(t, ok)
	require.Equal(t, 0, idx)

	for _, name := range []string{"print", "len", "input"} {
		info, ok := a.g.Global.Get(name)
		require.True(t, ok, name)
		_, ok = info.(*sym.FuncInfo)
		require.True(t, ok, name)
	}
}

func TestAnalyzeClassHierarchyAndGlobals(t *testing.T) {
	// class A(object):
	//   x: int = 1
	//   def f(self) -> int: return self.x
	// class B(A):
	//   y: int = 2
	// counter: int = 0
	prog := &ast.Program{
		Declarations: []ast.Declaration{
			&ast.VarDef{Name: "counter", Type: ast.ClassType{Name: "int"}, Value: &ast.IntegerLiteral{Value: 0}},
			&ast.ClassDef{
				Name: "A", SuperClass: "object",
				Declarations: []ast.Declaration{
					&ast.VarDef{Name: "x", Type: ast.ClassType{Name: "int"}, Value: &ast.IntegerLiteral{Value: 1}},
					&ast.FuncDef{
						Name:       "f",
						Params:     []ast.Param{{Name: "self", Type: ast.ClassType{Name: "A"}}},
						ReturnType: ast.ClassType{Name: "int"},
						Statements: []ast.Stmt{
							&ast.ReturnStmt{Value: &ast.MemberExpr{Object: &ast.SelfExpr{}, Attr: "x"}},
						},
					},
				},
			},
			&ast.ClassDef{
				Name: "B", SuperClass: "A",
				Declarations: []ast.Declaration{
					&ast.VarDef{Name: "y", Type: ast.ClassType{Name: "int"}, Value: &ast.IntegerLiteral{Value: 2}},
				},
			},
		},
	}

	a := New()
	g, err := a.Analyze(prog)
	require.NoError(t, err)

	require.Len(t, g.Globals, 1)
	require.Equal(t, "counter", g.Globals[0].Name)

	var classA, classB *sym.ClassInfo
	for _, c := range g.Classes {
		switch c.Name {
		case "A":
			classA = c
		case "B":
			classB = c
		}
	}
	require.NotNil(t, classA)
	require.NotNil(t, classB)
	require.Equal(t, classA.TypeTag+1, classB.TypeTag)

	xa, _ := classA.AttrIndex("x")
	xb, _ := classB.AttrIndex("x")
	require.Equal(t, xa, xb)
	yb, ok := classB.AttrIndex("y")
	require.True(t, ok)
	require.Equal(t, xa+1, yb)

	fa, ok := classA.MethodIndex("f")
	require.True(t, ok)
	fb, ok := classB.MethodIndex("f")
	require.True(t, ok)
	require.Equal(t, fa, fb, "B inherits f at A's slot")
}

func TestAnalyzeNestedFunctionCapture(t *testing.T) {
	// def outer(a: int) -> int:
	//   total: int = 0
	//   def inner(b: int) -> int:
	//     nonlocal total
	//     return total + b
	//   return inner(a)
	prog := &ast.Program{
		Declarations: []ast.Declaration{
			&ast.FuncDef{
				Name:       "outer",
				Params:     []ast.Param{{Name: "a", Type: ast.ClassType{Name: "int"}}},
				ReturnType: ast.ClassType{Name: "int"},
				Declarations: []ast.Declaration{
					&ast.VarDef{Name: "total", Type: ast.ClassType{Name: "int"}, Value: &ast.IntegerLiteral{Value: 0}},
					&ast.FuncDef{
						Name:       "inner",
						Params:     []ast.Param{{Name: "b", Type: ast.ClassType{Name: "int"}}},
						ReturnType: ast.ClassType{Name: "int"},
						Declarations: []ast.Declaration{
							&ast.NonLocalDecl{Name: "total"},
						},
						Statements: []ast.Stmt{
							&ast.ReturnStmt{Value: &ast.BinaryExpr{Op: "+",
								Left:  &ast.Identifier{Name: "total"},
								Right: &ast.Identifier{Name: "b"},
							}},
						},
					},
				},
				Statements: []ast.Stmt{
					&ast.ReturnStmt{Value: &ast.CallExpr{Func: "inner", Args: []ast.Expr{&ast.Identifier{Name: "a"}}}},
				},
			},
		},
	}

	a := New()
	g, err := a.Analyze(prog)
	require.NoError(t, err)

	var outer, inner *sym.FuncInfo
	for _, f := range g.Functions {
		switch f.Name {
		case "outer":
			outer = f
		case "outer.inner":
			inner = f
		}
	}
	require.NotNil(t, outer)
	require.NotNil(t, inner)
	require.Equal(t, 0, outer.Depth)
	require.Equal(t, 1, inner.Depth)
	require.Same(t, outer, inner.Parent)

	// "total" resolves for inner through its table's parent chain, without
	// inner itself binding a local or param of that name.
	_, localOK := inner.GetVarIndex("total")
	require.False(t, localOK)
	info, ok := inner.Table.Get("total")
	require.True(t, ok)
	_, isStack := info.(*sym.StackVarInfo)
	require.True(t, isStack)
}

func TestAnalyzeRejectsUndeclaredSuperclass(t *testing.T) {
	prog := &ast.Program{
		Declarations: []ast.Declaration{
			&ast.ClassDef{Name: "Ghost", SuperClass: "Nonexistent"},
		},
	}
	a := New()
	_, err := a.Analyze(prog)
	require.ErrorIs(t, err, sym.ErrInternal)
}

func TestDesugarForRewritesToWhileOverIndexCounter(t *testing.T) {
	prog := &ast.Program{
		Declarations: []ast.Declaration{
			&ast.VarDef{Name: "xs", Type: ast.ListType{ElementType: ast.ClassType{Name: "int"}}},
			&ast.VarDef{Name: "v", Type: ast.ClassType{Name: "int"}},
		},
		Statements: []ast.Stmt{
			&ast.ForStmt{
				Identifier: "v",
				Iterable:   &ast.Identifier{Name: "xs"},
				Body:       []ast.Stmt{&ast.ExprStmt{Inner: &ast.Identifier{Name: "v"}}},
			},
		},
	}
	a := New()
	g, err := a.Analyze(prog)
	require.NoError(t, err)

	require.Len(t, g.TopLevel, 2, "init assign + while")
	_, isAssign := g.TopLevel[0].(*ast.AssignStmt)
	require.True(t, isAssign)
	while, isWhile := g.TopLevel[1].(*ast.WhileStmt)
	require.True(t, isWhile)
	require.Len(t, while.Body, 3, "target assign, original body statement, increment")

	// The synthesized counter must have been registered as an implicit
	// global, since this loop is at top level.
	require.Len(t, g.Globals, 3, "xs, v, and the synthesized counter")
}
