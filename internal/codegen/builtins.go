package codegen

import (
	"choco32/internal/analyzer"
	"choco32/internal/asmfmt"
	"choco32/internal/sym"
)

// emitBuiltins emits the four predefined functions. Each is a leaf routine
// returning in a0 without touching fp; print and len read their sole
// argument at [sp+wordSize] per the fixed calling convention, while
// object.__init__ and input read no argument.
func emitBuiltins(e *asmfmt.Emitter, g *analyzer.Graph) {
	emitObjectInit(e, g)
	emitPrint(e, g)
	emitLen(e, g)
	emitInput(e, g)
}

func emitObjectInit(e *asmfmt.Emitter, g *analyzer.Graph) {
	idx, _ := g.Object.MethodIndex("__init__")
	fi := g.Object.Methods[idx]
	e.Global(fi.CodeLabel.String())
	e.Li("a0", 0, "return None")
	e.Ins1("jr", "ra", "")
}

// AbortWith emits "la a1, <str>; addi a1, a1, payloadOffset; li a0, code; j abort".
func AbortWith(e *asmfmt.Emitter, msg interface{ String() string }, code int) {
	w := e.WordSize()
	e.La("a1", msg.String(), "")
	e.Ins2Imm("addi", "a1", "a1", w*(sym.HeaderSize+1), "skip header + __len__ to payload")
	e.Li("a0", code, "")
	e.Jump("abort", "")
}

func emitPrint(e *asmfmt.Emitter, g *analyzer.Graph) {
	f, _ := g.Global.Get("print")
	fi := f.(*sym.FuncInfo)
	w := e.WordSize()

	invalid := g.Labels.Local()
	boolLbl := g.Labels.Local()
	strLbl := g.Labels.Local()
	strTail := g.Labels.Local()
	intLbl := g.Labels.Local()

	e.Global(fi.CodeLabel.String())
	e.Load("lw", "t0", w, "sp", "arg")
	e.BranchZ("beqz", "t0", invalid.String(), "None -> invalid argument")
	e.Load("lw", "t1", 0, "t0", "typeTag")
	e.Li("t2", g.Int.TypeTag, "")
	e.Branch("beq", "t1", "t2", intLbl.String(), "int path")
	e.Li("t2", g.Bool.TypeTag, "")
	e.Branch("beq", "t1", "t2", boolLbl.String(), "bool path")
	e.Li("t2", g.Str.TypeTag, "")
	e.Branch("beq", "t1", "t2", strLbl.String(), "str path")
	e.Jump(invalid.String(), "unrecognised type -> invalid argument")

	e.Label(boolLbl.String())
	e.Load("lw", "t1", w*sym.HeaderSize, "t0", "__bool__")
	e.La("t0", g.Pool.GetStrConstant("True").String(), "")
	e.Branch("bne", "t1", "zero", strTail.String(), "nonzero -> \"True\"")
	e.La("t0", g.Pool.GetStrConstant("False").String(), "")
	e.Jump(strTail.String(), "")

	e.Label(strLbl.String())
	e.Label(strTail.String())
	e.Ins2Imm("addi", "a1", "t0", w*(sym.HeaderSize+1), "a1 = &payload")
	e.Li("a0", 4, "print_string")
	e.Ecall("")
	e.Li("a0", 11, "print_char")
	e.Li("a1", '\n', "")
	e.Ecall("")
	e.Li("a0", 0, "return None")
	e.Ins1("jr", "ra", "")

	e.Label(intLbl.String())
	e.Load("lw", "a1", w*sym.HeaderSize, "t0", "__int__")
	e.Li("a0", 1, "print_int")
	e.Ecall("")
	e.Li("a0", 11, "print_char")
	e.Li("a1", '\n', "")
	e.Ecall("")
	e.Li("a0", 0, "return None")
	e.Ins1("jr", "ra", "")

	e.Label(invalid.String())
	AbortWith(e, g.Pool.GetStrConstant("Invalid argument"), ErrInvalidArgument)
}

func emitLen(e *asmfmt.Emitter, g *analyzer.Graph) {
	f, _ := g.Global.Get("len")
	fi := f.(*sym.FuncInfo)
	w := e.WordSize()
	invalid := g.Labels.Local()
	lenLbl := g.Labels.Local()

	e.Global(fi.CodeLabel.String())
	e.Load("lw", "t0", w, "sp", "arg")
	e.BranchZ("beqz", "t0", invalid.String(), "None -> invalid argument")
	e.Load("lw", "t1", 0, "t0", "typeTag")
	e.Li("t2", g.Str.TypeTag, "")
	e.Branch("beq", "t1", "t2", lenLbl.String(), "")
	e.Li("t2", g.List.TypeTag, "")
	e.Branch("beq", "t1", "t2", lenLbl.String(), "")
	e.Jump(invalid.String(), "")

	e.Label(lenLbl.String())
	e.Load("lw", "a0", w*sym.HeaderSize, "t0", "__len__")
	e.Ins1("jr", "ra", "")

	e.Label(invalid.String())
	AbortWith(e, g.Pool.GetStrConstant("Invalid argument"), ErrInvalidArgument)
}

func emitInput(e *asmfmt.Emitter, g *analyzer.Graph) {
	f, _ := g.Global.Get("input")
	fi := f.(*sym.FuncInfo)
	e.Global(fi.CodeLabel.String())
	AbortWith(e, g.Pool.GetStrConstant("Unsupported operation"), ErrUnsupported)
}
