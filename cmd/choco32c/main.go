// Command choco32c drives the semantic-analysis + code-generation core
// over a JSON-encoded, already type-checked AST: it decodes ast.Program,
// runs the analyzer, then the RV32 code generator, and writes the
// resulting assembly text to -o (or stdout). Argument parsing, source
// reading and diagnostic surfacing live here rather than in the core
// itself.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"choco32/ast"
	"choco32/internal/analyzer"
	"choco32/internal/asmfmt"
	"choco32/internal/codegen"
	"choco32/internal/codegen/riscv"
)

var (
	outPath string
	heap    int
	threads int
	verbose bool
)

func run(cmd *cobra.Command, args []string) error {
	var in io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("could not read AST: %w", err)
		}
		defer f.Close()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("could not read AST: %w", err)
	}
	prog, err := ast.DecodeProgram(data)
	if err != nil {
		return fmt.Errorf("could not decode AST: %w", err)
	}
	if verbose {
		log.Printf("decoded %d declarations, %d top-level statements", len(prog.Declarations), len(prog.Statements))
	}

	g, err := analyzer.New().Analyze(prog)
	if err != nil {
		return fmt.Errorf("analysis error: %w", err)
	}
	if verbose {
		log.Printf("analyzed %d classes, %d functions, %d globals", len(g.Classes), len(g.Functions), len(g.Globals))
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.OpenFile(outPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("could not open %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}

	emitter := asmfmt.New(out)
	ctx := &codegen.Context{Graph: g, HeapSize: heap, Threads: threads}
	if err := codegen.Compile(ctx, riscv.Strategy{}, emitter); err != nil {
		return fmt.Errorf("code generation error: %w", err)
	}
	return nil
}

func main() {
	root := &cobra.Command{
		Use:   "choco32c [ast.json]",
		Short: "Lowers a type-checked SL AST into RV32 assembly",
		Long:  "choco32c reads a JSON-encoded, type-checked SL AST (from a file argument, or stdin if omitted) and emits RV32 assembly implementing its object layout, dispatch tables and calling convention.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run,
	}

	root.Flags().StringVarP(&outPath, "out", "o", "", "output assembly path (stdout if omitted)")
	root.Flags().IntVar(&heap, "heap", codegen.DefaultHeapSize, "runtime heap size in bytes, passed to heap.init")
	root.Flags().IntVarP(&threads, "threads", "t", 1, "max goroutines used for per-function emission")
	root.Flags().BoolVarP(&verbose, "vb", "v", false, "verbose diagnostics to stderr")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
