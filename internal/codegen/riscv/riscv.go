package riscv

import (
	"fmt"

	"choco32/ast"
	"choco32/internal/analyzer"
	"choco32/internal/asmfmt"
	"choco32/internal/codegen"
	"choco32/internal/sym"
)

// Strategy is the RV32 implementation of codegen.Strategy: it supplies the
// emission the layout/code emitter leaves to the back-end — top-level
// statements, user function bodies, and (here) no further custom code.
type Strategy struct{}

var _ codegen.Strategy = Strategy{}

// EmitTopLevel emits the program's top-level statements directly into
// main, with no enclosing activation record (fp still points at the
// caller-of-main sentinel frame codegen.emitEntry set up).
func (s Strategy) EmitTopLevel(ctx *codegen.Context, e *asmfmt.Emitter, stmts []ast.Stmt) error {
	c := &genCtx{g: ctx.Graph, e: e, f: nil}
	return c.emitStmts(stmts)
}

// EmitUserFunction emits one function's prologue, body, and a fallback
// epilogue for implicit "falls off the end" control flow.
func (s Strategy) EmitUserFunction(ctx *codegen.Context, e *asmfmt.Emitter, f *sym.FuncInfo) error {
	c := &genCtx{g: ctx.Graph, e: e, f: f}
	emitPrologue(e, f)
	if err := c.emitStmts(f.Body); err != nil {
		return err
	}
	e.Li("a0", 0, "implicit return None")
	emitEpilogue(e, f)
	return nil
}

// EmitCustomCode adds nothing: this back-end needs no extra trailing code
// beyond what codegen.Compile already emits.
func (s Strategy) EmitCustomCode(ctx *codegen.Context, e *asmfmt.Emitter) error {
	return nil
}

// genCtx carries the per-emission-site state shared by stmt.go and
// expr.go: the descriptor graph, the sink, and the enclosing function (nil
// at top level, where "return" is never emitted).
type genCtx struct {
	g *analyzer.Graph
	e *asmfmt.Emitter
	f *sym.FuncInfo
}

func (c *genCtx) table() *sym.SymbolTable {
	if c.f != nil {
		return c.f.Table
	}
	return c.g.Global
}

func internalf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{sym.ErrInternal}, args...)...)
}
