package riscv

import (
	"choco32/internal/asmfmt"
	"choco32/internal/sym"
)

// Calling convention:
//
// The caller pushes each argument in source order, then pushes one further
// "frame-link" word (uninitialized) before jal. That reserved word is what
// makes [sp+wordSize] the correct address for a built-in's single
// argument, and [sp+(paramsSize-i)*wordSize] correct in general: without
// it the top of the caller's pushed arguments would sit at offset 0.
//
// On entry the callee's prologue captures the caller's sp (before its own
// frame is carved out) to copy each argument into a flat activation record
// (params 0..N-1, then locals N..N+K-1), and sets fp to the base of that
// record. fp stays fixed for the rest of the function body — every
// GetVarIndex(name) access is fp + index*wordSize — so sp is free to move
// for nested call argument pushes and expression spills without disturbing
// local/parameter addressing.
func frameWords(f *sym.FuncInfo) int {
	return 2 + f.Nparams() + f.Nlocals()
}

// emitPrologue emits the function's global label, saves ra/fp, copies each
// argument from the caller's frame into this function's flat activation
// record (addressed by the new fp), and initializes each local from its
// StackVarInfo.Init label (zero if none).
func emitPrologue(e *asmfmt.Emitter, f *sym.FuncInfo) {
	w := e.WordSize()
	n, k := f.Nparams(), f.Nlocals()
	frame := frameWords(f) * w

	e.Global(f.CodeLabel.String())
	e.Ins2Imm("addi", "sp", "sp", -frame, "reserve activation record")
	e.Ins2Imm("addi", "t0", "sp", frame, "t0 = caller's sp (arguments live above here)")
	e.Store("sw", "ra", (n+k+1)*w, "sp", "save ra")
	e.Store("sw", "fp", (n+k)*w, "sp", "save caller's fp")

	for i := 0; i < n; i++ {
		callerOff := (n - i) * w
		e.Load("lw", "t1", callerOff, "t0", "copy param from caller frame")
		e.Store("sw", "t1", i*w, "sp", "")
	}
	for j, l := range f.Locals {
		idx := n + j
		if l.Init.Valid() {
			e.La("t1", l.Init.String(), "")
			e.Store("sw", "t1", idx*w, "sp", "")
		} else {
			e.Store("sw", "zero", idx*w, "sp", "")
		}
	}
	e.Ins2("mv", "fp", "sp", "fp = this activation record's fixed base")
}

// emitEpilogue restores ra/fp, deallocates the activation record, and
// returns. Callers of emitEpilogue must already have the return value (or
// None/zero) in a0.
func emitEpilogue(e *asmfmt.Emitter, f *sym.FuncInfo) {
	w := e.WordSize()
	n, k := f.Nparams(), f.Nlocals()
	frame := frameWords(f) * w

	e.Load("lw", "ra", (n+k+1)*w, "fp", "")
	e.Load("lw", "t0", (n+k)*w, "fp", "caller's fp")
	e.Ins2Imm("addi", "sp", "fp", frame, "restore caller's sp")
	e.Ins2("mv", "fp", "t0", "")
	e.Ins1("jr", "ra", "")
}

// emitCallTail finishes a call site whose nargs arguments have already
// been pushed onto the native stack in source order: it reserves the
// frame-link word, jals to target, and pops everything back off. The
// result is left in a0.
func emitCallTail(e *asmfmt.Emitter, target string, nargs int) {
	w := e.WordSize()
	e.Ins2Imm("addi", "sp", "sp", -w, "frame-link word")
	e.Jal("ra", target, "")
	e.Ins2Imm("addi", "sp", "sp", (nargs+1)*w, "pop args + frame-link")
}

// varOffset returns the fp-relative byte offset of a function-local
// reference (parameter or local), per GetVarIndex's flat indexing.
func varOffset(e *asmfmt.Emitter, f *sym.FuncInfo, name string) (int, bool) {
	idx, ok := f.GetVarIndex(name)
	if !ok {
		return 0, false
	}
	return idx * e.WordSize(), true
}
