package riscv

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"choco32/ast"
	"choco32/internal/analyzer"
	"choco32/internal/asmfmt"
	"choco32/internal/codegen"
)

// compile runs the full ten-step emission order for prog against the RV32
// back-end and returns the generated assembly text.
func compile(t *testing.T, prog *ast.Program) string {
	t.Helper()
	g, err := analyzer.New().Analyze(prog)
	require.NoError(t, err)

	var buf bytes.Buffer
	out := asmfmt.New(&buf)
	ctx := &codegen.Context{Graph: g}
	require.NoError(t, codegen.Compile(ctx, Strategy{}, out))
	return buf.String()
}

func TestCompileTopLevelPrint(t *testing.T) {
	// print(1 + 2)
	prog := &ast.Program{
		Statements: []ast.Stmt{
			&ast.ExprStmt{Inner: &ast.CallExpr{
				Func: "print",
				Args: []ast.Expr{&ast.BinaryExpr{
					Op:    "+",
					Left:  &ast.IntegerLiteral{Value: 1},
					Right: &ast.IntegerLiteral{Value: 2},
				}},
			}},
		},
	}
	text := compile(t, prog)

	require.Contains(t, text, ".globl main")
	require.Contains(t, text, ".globl $print")
	require.Contains(t, text, "jal ra, alloc")
	require.Contains(t, text, "jal ra, $print")
	require.Contains(t, text, ".globl alloc")
	require.Contains(t, text, ".globl abort")
	require.Contains(t, text, ".globl heap.init")
	// The builtin is emitted exactly once: the double-emission bug this
	// test guards against would additionally wrap it in its own
	// prologue/epilogue under the generic per-function Strategy path.
	require.Equal(t, 1, strings.Count(text, ".globl $print\n"))
}

func TestCompileUserFunctionAndGlobal(t *testing.T) {
	// count: int = 0
	// def bump(n: int) -> int:
	//   return n + count
	// count = bump(41)
	prog := &ast.Program{
		Declarations: []ast.Declaration{
			&ast.VarDef{Name: "count", Type: ast.ClassType{Name: "int"}, Value: &ast.IntegerLiteral{Value: 0}},
			&ast.FuncDef{
				Name:       "bump",
				Params:     []ast.Param{{Name: "n", Type: ast.ClassType{Name: "int"}}},
				ReturnType: ast.ClassType{Name: "int"},
				Statements: []ast.Stmt{
					&ast.ReturnStmt{Value: &ast.BinaryExpr{
						Op:    "+",
						Left:  &ast.Identifier{Name: "n"},
						Right: &ast.Identifier{Name: "count"},
					}},
				},
			},
		},
		Statements: []ast.Stmt{
			&ast.AssignStmt{
				Target: &ast.Identifier{Name: "count"},
				Value:  &ast.CallExpr{Func: "bump", Args: []ast.Expr{&ast.IntegerLiteral{Value: 41}}},
			},
		},
	}
	text := compile(t, prog)

	require.Contains(t, text, ".globl $bump")
	require.Contains(t, text, ".globl $count")
	require.Contains(t, text, "jal ra, $bump")
	require.Contains(t, text, "jr ra")
}

func TestCompileClassWithMethodAndForLoop(t *testing.T) {
	// class Counter(object):
	//   total: int = 0
	//   def add(self, v: int) -> object:
	//     self.total = self.total + v
	// c: Counter = None
	// xs: [int] = None
	// v: int = 0
	// for v in xs:
	//   c.add(v)
	prog := &ast.Program{
		Declarations: []ast.Declaration{
			&ast.ClassDef{
				Name: "Counter", SuperClass: "object",
				Declarations: []ast.Declaration{
					&ast.VarDef{Name: "total", Type: ast.ClassType{Name: "int"}, Value: &ast.IntegerLiteral{Value: 0}},
					&ast.FuncDef{
						Name: "add",
						Params: []ast.Param{
							{Name: "self", Type: ast.ClassType{Name: "Counter"}},
							{Name: "v", Type: ast.ClassType{Name: "int"}},
						},
						ReturnType: ast.ClassType{Name: "object"},
						Statements: []ast.Stmt{
							&ast.AssignStmt{
								Target: &ast.MemberExpr{Object: &ast.SelfExpr{}, Attr: "total", ObjectType: ast.ClassType{Name: "Counter"}},
								Value: &ast.BinaryExpr{
									Op:    "+",
									Left:  &ast.MemberExpr{Object: &ast.SelfExpr{}, Attr: "total", ObjectType: ast.ClassType{Name: "Counter"}},
									Right: &ast.Identifier{Name: "v"},
								},
							},
						},
					},
				},
			},
			&ast.VarDef{Name: "c", Type: ast.ClassType{Name: "Counter"}},
			&ast.VarDef{Name: "xs", Type: ast.ListType{ElementType: ast.ClassType{Name: "int"}}},
			&ast.VarDef{Name: "v", Type: ast.ClassType{Name: "int"}, Value: &ast.IntegerLiteral{Value: 0}},
		},
		Statements: []ast.Stmt{
			&ast.ForStmt{
				Identifier: "v",
				Iterable:   &ast.Identifier{Name: "xs"},
				Body: []ast.Stmt{
					&ast.ExprStmt{Inner: &ast.MethodCallExpr{
						Object:     &ast.Identifier{Name: "c"},
						Method:     "add",
						Args:       []ast.Expr{&ast.Identifier{Name: "v"}},
						ObjectType: ast.ClassType{Name: "Counter"},
					}},
				},
			},
		},
	}
	text := compile(t, prog)

	require.Contains(t, text, ".globl $Counter.add")
	require.Contains(t, text, "$Counter$prototype")
	require.Contains(t, text, "$Counter$dispatchTable")
	require.Contains(t, text, "jalr ra, t1, 0")
}

func TestCompileIsDeterministicAcrossRuns(t *testing.T) {
	prog := &ast.Program{
		Statements: []ast.Stmt{
			&ast.ExprStmt{Inner: &ast.CallExpr{
				Func: "print",
				Args: []ast.Expr{&ast.StringLiteral{Value: "hi"}},
			}},
		},
	}
	first := compile(t, prog)
	second := compile(t, prog)
	require.Equal(t, first, second)
}
