package codegen

import (
	"choco32/internal/analyzer"
	"choco32/internal/asmfmt"
)

// emitRuntime emits the fixed quartet of runtime routines: alloc, alloc2,
// abort, heap.init. None of these has a FuncInfo or appears in a symbol
// table — they are referenced only from emitted code, never from SL
// source.
func emitRuntime(e *asmfmt.Emitter, g *analyzer.Graph) {
	emitAlloc(e, g)
	emitAbort(e)
	emitHeapInit(e)
}

func emitAlloc(e *asmfmt.Emitter, g *analyzer.Graph) {
	w := e.WordSize()
	oom := g.Labels.Local()
	loop := g.Labels.Local()
	done := g.Labels.Local()

	e.Global("alloc")
	e.Load("lw", "a1", w, "a0", "a1 = protoAddr[objectSize]")
	// Falls through into alloc2.

	e.Global("alloc2")
	e.Li("t5", w, "wordSize")
	e.Ins3("mul", "t6", "a1", "t5", "t6 = sizeWords*wordSize")
	e.Ins3("add", "a2", "gp", "t6", "a2 = end address")
	e.Branch("bgeu", "a2", "s11", oom.String(), "OOM if a2 >= heap end")

	e.Load("lw", "t0", w, "a0", "copy count = protoAddr[objectSize]")
	e.Ins2("mv", "t1", "a0", "src = protoAddr")
	e.Ins2("mv", "t2", "gp", "dst = gp")
	e.Label(loop.String())
	e.BranchZ("beqz", "t0", done.String(), "")
	e.Load("lw", "t4", 0, "t1", "")
	e.Store("sw", "t4", 0, "t2", "")
	e.Ins2Imm("addi", "t1", "t1", w, "")
	e.Ins2Imm("addi", "t2", "t2", w, "")
	e.Ins2Imm("addi", "t0", "t0", -1, "")
	e.Jump(loop.String(), "")

	e.Label(done.String())
	e.Store("sw", "a1", w, "gp", "patch the new object's objectSize to the allocated size")
	e.Ins2("mv", "a0", "gp", "return the old gp")
	e.Ins2("mv", "gp", "a2", "bump the frontier")
	e.Ins1("jr", "ra", "")

	e.Label(oom.String())
	AbortWith(e, g.Pool.GetStrConstant("Out of memory"), ErrOutOfMemory)
}

func emitAbort(e *asmfmt.Emitter) {
	e.Global("abort")
	e.Ins2("mv", "t0", "a0", "save exit code")
	e.Li("a0", 4, "print_string")
	e.Ecall("")
	e.Li("a0", 11, "print_char")
	e.Li("a1", '\n', "")
	e.Ecall("")
	e.Ins2("mv", "a1", "t0", "restore exit code")
	e.Li("a0", 17, "exit2")
	e.Ecall("")
	halt := "label_abort_halt"
	e.Label(halt)
	e.Jump(halt, "guard against fallthrough if the simulator ignores exit")
}

func emitHeapInit(e *asmfmt.Emitter) {
	e.Global("heap.init")
	e.Ins2("mv", "a1", "a0", "")
	e.Li("a0", 9, "sbrk")
	e.Ecall("")
	e.Ins1("jr", "ra", "")
}
