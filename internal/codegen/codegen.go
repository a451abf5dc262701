// Package codegen implements the fixed emission order shared by every
// back-end: the program's data section (prototypes, dispatch tables,
// globals, constant pool), the program entry sequence, and the built-in
// runtime routines. The back-end-specific half — user function bodies and
// top-level statements — is supplied through the Strategy interface,
// implemented for RV32 in internal/codegen/riscv; a second target
// architecture could be added by implementing Strategy without touching
// this package.
package codegen

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"choco32/ast"
	"choco32/internal/analyzer"
	"choco32/internal/asmfmt"
	"choco32/internal/sym"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// DefaultHeapSize is the default bump-allocator heap size passed to
// heap.init: 32 MiB.
const DefaultHeapSize = 32 * 1024 * 1024

// Context bundles everything a Strategy needs: the descriptor graph, label
// factory, constant pool, and the chosen heap size. The asm sink itself is
// not exposed directly — Strategy methods receive an *asmfmt.Emitter scoped
// to the function or statement list they are emitting, so concurrent
// per-function emission (below) can buffer each function's output
// independently before it is flushed in list order.
type Context struct {
	Graph    *analyzer.Graph
	HeapSize int
	Threads  int // Max goroutines used for per-function emission; <=1 means serial.
}

// Strategy supplies the back-end-specific emission the rest of this
// package cannot fix on its own: top-level statements, user function
// bodies, and any back-end-custom trailing code.
type Strategy interface {
	EmitTopLevel(ctx *Context, e *asmfmt.Emitter, stmts []ast.Stmt) error
	EmitUserFunction(ctx *Context, e *asmfmt.Emitter, f *sym.FuncInfo) error
	EmitCustomCode(ctx *Context, e *asmfmt.Emitter) error
}

// ---------------------
// ----- Functions -----
// ---------------------

// Compile drives the full emission order against out: data section, entry
// sequence, function bodies, built-ins and runtime, any back-end-custom
// trailing code, then the constant pool.
func Compile(ctx *Context, strat Strategy, out *asmfmt.Emitter) error {
	g := ctx.Graph

	out.DataSection()
	emitPrototypes(out, g)
	emitDispatchTables(out, g)
	emitGlobals(out, g)

	out.TextSection()
	if err := emitEntry(ctx, strat, out); err != nil {
		return fmt.Errorf("entry: %w", err)
	}
	if err := emitFunctions(ctx, strat, out); err != nil {
		return err
	}
	emitBuiltins(out, g)
	emitRuntime(out, g)

	if err := strat.EmitCustomCode(ctx, out); err != nil {
		return fmt.Errorf("custom code: %w", err)
	}

	out.DataSection()
	emitConstantPool(out, g)
	return out.Err()
}

// emitFunctions invokes each function's body emitter. Independent functions
// may be emitted concurrently; each runs against its own buffer so the
// final flush order — and therefore the emitted text — stays exactly
// Graph.Functions order regardless of completion order.
func emitFunctions(ctx *Context, strat Strategy, out *asmfmt.Emitter) error {
	bufs := make([]*bufferedEmitter, len(ctx.Graph.Functions))
	threads := ctx.Threads
	if threads <= 1 {
		for i, f := range ctx.Graph.Functions {
			be := newBufferedEmitter(out.WordSize())
			bufs[i] = be
			if err := emitOneFunction(ctx, strat, be.emitter, f); err != nil {
				return fmt.Errorf("function %s: %w", f.Name, err)
			}
		}
	} else {
		grp, _ := errgroup.WithContext(context.Background())
		grp.SetLimit(threads)
		for i, f := range ctx.Graph.Functions {
			i, f := i, f
			be := newBufferedEmitter(out.WordSize())
			bufs[i] = be
			grp.Go(func() error {
				if err := emitOneFunction(ctx, strat, be.emitter, f); err != nil {
					return fmt.Errorf("function %s: %w", f.Name, err)
				}
				return nil
			})
		}
		if err := grp.Wait(); err != nil {
			return err
		}
	}
	for _, be := range bufs {
		if err := be.flushTo(out); err != nil {
			return err
		}
	}
	return nil
}

func emitOneFunction(ctx *Context, strat Strategy, e *asmfmt.Emitter, f *sym.FuncInfo) error {
	return strat.EmitUserFunction(ctx, e, f)
}

func emitEntry(ctx *Context, strat Strategy, out *asmfmt.Emitter) error {
	heap := ctx.HeapSize
	if heap <= 0 {
		heap = DefaultHeapSize
	}
	out.Global("main")
	out.Comment("initialize heap: %d bytes", heap)
	out.Li("a0", heap, "heap size")
	out.Jal("ra", "heap.init", "")
	out.Ins2("mv", "gp", "a0", "gp = heap pointer (next free)")
	out.Ins2("mv", "s10", "a0", "s10 = heap start")
	out.Ins2Imm("addi", "s11", "a0", heap, "s11 = heap end")
	out.Ins2Imm("addi", "fp", "sp", ctx.wordSizeOrDefault(), "fp = sp + wordSize")

	if err := strat.EmitTopLevel(ctx, out, ctx.Graph.TopLevel); err != nil {
		return err
	}
	out.Li("a0", 10, "exit")
	out.Ecall("")
	return nil
}

func (ctx *Context) wordSizeOrDefault() int {
	return 4
}
