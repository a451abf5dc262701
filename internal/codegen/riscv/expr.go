package riscv

import (
	"choco32/ast"
	"choco32/internal/codegen"
	"choco32/internal/sym"
)

// emitExpr evaluates x and leaves its value (an object address, for every
// SL value is a pointer, or a bare 0/1 in the rare case callers unbox
// themselves) in register t0.
func (c *genCtx) emitExpr(x ast.Expr) error {
	switch e := x.(type) {
	case *ast.IntegerLiteral:
		c.e.La("t0", c.g.Pool.GetIntConstant(e.Value).String(), "")
		return nil
	case *ast.StringLiteral:
		c.e.La("t0", c.g.Pool.GetStrConstant(e.Value).String(), "")
		return nil
	case *ast.BooleanLiteral:
		if e.Value {
			c.e.La("t0", c.g.Pool.TrueConstant().String(), "")
		} else {
			c.e.La("t0", c.g.Pool.FalseConstant().String(), "")
		}
		return nil
	case *ast.NoneLiteral:
		c.e.Li("t0", 0, "None")
		return nil
	case *ast.Identifier:
		return c.emitIdentifier(e.Name)
	case *ast.SelfExpr:
		if c.f == nil {
			return internalf("self referenced outside any method")
		}
		c.e.Load("lw", "t0", 0, "fp", "self")
		return nil
	case *ast.BinaryExpr:
		return c.emitBinary(e)
	case *ast.UnaryExpr:
		return c.emitUnary(e)
	case *ast.IndexExpr:
		addr, err := c.emitElementAddress(e.List, e.Index)
		if err != nil {
			return err
		}
		c.e.Load("lw", "t0", 0, addr, "")
		return nil
	case *ast.MemberExpr:
		return c.emitMember(e)
	case *ast.MethodCallExpr:
		return c.emitMethodCall(e)
	case *ast.CallExpr:
		return c.emitCall(e)
	case *ast.ListExpr:
		return c.emitListDisplay(e)
	default:
		return internalf("unhandled expression type %T", x)
	}
}

func (c *genCtx) emitIdentifier(name string) error {
	info, ok := c.table().Get(name)
	if !ok {
		return internalf("identifier %q does not resolve", name)
	}
	switch v := info.(type) {
	case *sym.StackVarInfo:
		off, _ := varOffset(c.e, v.Func, name)
		c.e.Load("lw", "t0", off, "fp", name)
	case *sym.GlobalVarInfo:
		c.e.La("t0", v.Storage.String(), "")
		c.e.Load("lw", "t0", 0, "t0", name)
	case *sym.FuncInfo:
		c.e.La("t0", v.CodeLabel.String(), "")
	default:
		return internalf("identifier %q does not name a value", name)
	}
	return nil
}

// boxInt allocates a fresh int object and stores valueReg into its
// __int__ attribute, leaving the new object's address in t0. valueReg must
// not be t0 itself.
func (c *genCtx) boxInt(valueReg string) {
	w := c.e.WordSize()
	c.e.Ins2Imm("addi", "sp", "sp", -w, "")
	c.e.Store("sw", valueReg, 0, "sp", "save int value across alloc")
	c.e.La("a0", c.g.Int.Prototype.String(), "")
	c.e.Jal("ra", "alloc", "")
	c.e.Load("lw", "t1", 0, "sp", "")
	c.e.Ins2Imm("addi", "sp", "sp", w, "")
	c.e.Store("sw", "t1", w*sym.HeaderSize, "a0", "int.__int__")
	c.e.Ins2("mv", "t0", "a0", "")
}

// selectBool boxes the 0/1 word in condReg into the fixed true/false
// constant, leaving the result in t0.
func (c *genCtx) selectBool(condReg string) {
	trueLbl := c.g.Labels.Local()
	done := c.g.Labels.Local()
	c.e.BranchZ("bnez", condReg, trueLbl.String(), "")
	c.e.La("t0", c.g.Pool.FalseConstant().String(), "")
	c.e.Jump(done.String(), "")
	c.e.Label(trueLbl.String())
	c.e.La("t0", c.g.Pool.TrueConstant().String(), "")
	c.e.Label(done.String())
}

func (c *genCtx) emitBinary(x *ast.BinaryExpr) error {
	w := c.e.WordSize()
	switch x.Op {
	case "and", "or":
		return c.emitShortCircuit(x)
	case "is":
		if err := c.emitExpr(x.Left); err != nil {
			return err
		}
		c.e.Ins2Imm("addi", "sp", "sp", -w, "")
		c.e.Store("sw", "t0", 0, "sp", "")
		if err := c.emitExpr(x.Right); err != nil {
			return err
		}
		c.e.Ins2("mv", "t1", "t0", "")
		c.e.Load("lw", "t0", 0, "sp", "")
		c.e.Ins2Imm("addi", "sp", "sp", w, "")
		c.e.Ins3("sub", "t2", "t0", "t1", "")
		c.e.Ins2("seqz", "t2", "t2", "")
		c.selectBool("t2")
		return nil
	}

	if err := c.emitExpr(x.Left); err != nil {
		return err
	}
	c.e.Ins2Imm("addi", "sp", "sp", -w, "")
	c.e.Store("sw", "t0", 0, "sp", "save left across right's evaluation")
	if err := c.emitExpr(x.Right); err != nil {
		return err
	}
	c.e.Ins2("mv", "t1", "t0", "right (boxed)")
	c.e.Load("lw", "t0", 0, "sp", "left (boxed)")
	c.e.Ins2Imm("addi", "sp", "sp", w, "")
	c.e.Load("lw", "t0", w*sym.HeaderSize, "t0", "unbox left")
	c.e.Load("lw", "t1", w*sym.HeaderSize, "t1", "unbox right")

	switch x.Op {
	case "+":
		c.e.Ins3("add", "t2", "t0", "t1", "")
		c.boxInt("t2")
	case "-":
		c.e.Ins3("sub", "t2", "t0", "t1", "")
		c.boxInt("t2")
	case "*":
		c.e.Ins3("mul", "t2", "t0", "t1", "")
		c.boxInt("t2")
	case "//":
		c.emitDivZeroCheck("t1")
		c.e.Ins3("div", "t2", "t0", "t1", "")
		c.boxInt("t2")
	case "%":
		c.emitDivZeroCheck("t1")
		c.e.Ins3("rem", "t2", "t0", "t1", "")
		c.boxInt("t2")
	case "==":
		c.e.Ins3("sub", "t2", "t0", "t1", "")
		c.e.Ins2("seqz", "t2", "t2", "")
		c.selectBool("t2")
	case "!=":
		c.e.Ins3("sub", "t2", "t0", "t1", "")
		c.e.Ins2("snez", "t2", "t2", "")
		c.selectBool("t2")
	case "<":
		c.e.Ins3("slt", "t2", "t0", "t1", "")
		c.selectBool("t2")
	case ">":
		c.e.Ins3("slt", "t2", "t1", "t0", "")
		c.selectBool("t2")
	case "<=":
		c.e.Ins3("slt", "t2", "t1", "t0", "")
		c.e.Ins2("seqz", "t2", "t2", "")
		c.selectBool("t2")
	case ">=":
		c.e.Ins3("slt", "t2", "t0", "t1", "")
		c.e.Ins2("seqz", "t2", "t2", "")
		c.selectBool("t2")
	default:
		return internalf("unhandled binary operator %q", x.Op)
	}
	return nil
}

func (c *genCtx) emitDivZeroCheck(reg string) {
	ok := c.g.Labels.Local()
	c.e.BranchZ("bnez", reg, ok.String(), "")
	codegen.AbortWith(c.e, c.g.Pool.GetStrConstant("Division by zero"), codegen.ErrDivByZero)
	c.e.Label(ok.String())
}

func (c *genCtx) emitShortCircuit(x *ast.BinaryExpr) error {
	if err := c.emitExpr(x.Left); err != nil {
		return err
	}
	c.emitTruthy("t0")
	short := c.g.Labels.Local()
	done := c.g.Labels.Local()
	if x.Op == "and" {
		c.e.BranchZ("beqz", "t0", short.String(), "short-circuit: left is false")
	} else {
		c.e.BranchZ("bnez", "t0", short.String(), "short-circuit: left is true")
	}
	if err := c.emitExpr(x.Right); err != nil {
		return err
	}
	c.emitTruthy("t0")
	c.e.Jump(done.String(), "")
	c.e.Label(short.String())
	if x.Op == "and" {
		c.e.Li("t0", 0, "")
	} else {
		c.e.Li("t0", 1, "")
	}
	c.e.Label(done.String())
	c.selectBool("t0")
	return nil
}

func (c *genCtx) emitUnary(x *ast.UnaryExpr) error {
	w := c.e.WordSize()
	if err := c.emitExpr(x.Operand); err != nil {
		return err
	}
	switch x.Op {
	case "-":
		c.e.Load("lw", "t1", w*sym.HeaderSize, "t0", "unbox")
		c.e.Ins3("sub", "t1", "zero", "t1", "negate")
		c.boxInt("t1")
	case "not":
		c.emitTruthy("t0")
		c.e.Ins2("seqz", "t0", "t0", "invert")
		c.selectBool("t0")
	default:
		return internalf("unhandled unary operator %q", x.Op)
	}
	return nil
}

// classOf resolves a static ast.Type annotation to its ClassInfo.
func (c *genCtx) classOf(t ast.Type) (*sym.ClassInfo, error) {
	ct, ok := t.(ast.ClassType)
	if !ok {
		return nil, internalf("expected a class type, got %T", t)
	}
	info, ok := c.g.Global.Get(ct.Name)
	if !ok {
		return nil, internalf("class %q does not resolve", ct.Name)
	}
	class, ok := info.(*sym.ClassInfo)
	if !ok {
		return nil, internalf("%q does not name a class", ct.Name)
	}
	return class, nil
}

func (c *genCtx) emitMember(x *ast.MemberExpr) error {
	class, err := c.classOf(x.ObjectType)
	if err != nil {
		return err
	}
	off, ok := class.AttrOffset(x.Attr)
	if !ok {
		return internalf("class %q has no attribute %q", class.Name, x.Attr)
	}
	if err := c.emitExpr(x.Object); err != nil {
		return err
	}
	c.emitNoneCheck("t0")
	c.e.Load("lw", "t0", off*c.e.WordSize(), "t0", x.Attr)
	return nil
}

// emitNoneCheck aborts with ErrOperationOnNone if reg is the zero word.
func (c *genCtx) emitNoneCheck(reg string) {
	ok := c.g.Labels.Local()
	c.e.BranchZ("bnez", reg, ok.String(), "")
	codegen.AbortWith(c.e, c.g.Pool.GetStrConstant("Operation on None"), codegen.ErrOperationOnNone)
	c.e.Label(ok.String())
}

func (c *genCtx) emitMethodCall(x *ast.MethodCallExpr) error {
	class, err := c.classOf(x.ObjectType)
	if err != nil {
		return err
	}
	slot, ok := class.MethodIndex(x.Method)
	if !ok {
		return internalf("class %q has no method %q", class.Name, x.Method)
	}
	w := c.e.WordSize()

	if err := c.emitExpr(x.Object); err != nil { // receiver -> t0
		return err
	}
	c.emitNoneCheck("t0")
	c.e.Ins2Imm("addi", "sp", "sp", -w, "")
	c.e.Store("sw", "t0", 0, "sp", "push self")
	for _, arg := range x.Args {
		if err := c.emitExpr(arg); err != nil {
			return err
		}
		c.e.Ins2Imm("addi", "sp", "sp", -w, "")
		c.e.Store("sw", "t0", 0, "sp", "push arg")
	}

	c.e.Load("lw", "t0", w*(len(x.Args))+0, "sp", "reload self") // self is the deepest-pushed word
	c.e.Load("lw", "t1", w*2, "t0", "dispatch table")
	c.e.Load("lw", "t1", slot*w, "t1", "method code label")
	c.e.Ins2Imm("addi", "sp", "sp", -w, "frame-link word")
	c.e.Jalr("ra", "t1", 0, "")
	c.e.Ins2Imm("addi", "sp", "sp", (len(x.Args)+2)*w, "pop self + args + frame-link")
	c.e.Ins2("mv", "t0", "a0", "")
	return nil
}

func (c *genCtx) emitCall(x *ast.CallExpr) error {
	info, ok := c.g.Global.Get(x.Func)
	if !ok {
		return internalf("call target %q does not resolve", x.Func)
	}
	switch target := info.(type) {
	case *sym.FuncInfo:
		for _, arg := range x.Args {
			if err := c.emitExpr(arg); err != nil {
				return err
			}
			c.e.Ins2Imm("addi", "sp", "sp", -c.e.WordSize(), "")
			c.e.Store("sw", "t0", 0, "sp", "push arg")
		}
		emitCallTail(c.e, target.CodeLabel.String(), len(x.Args))
		c.e.Ins2("mv", "t0", "a0", "")
		return nil
	case *sym.ClassInfo:
		return c.emitConstruct(target)
	default:
		return internalf("%q does not name a function or class", x.Func)
	}
}

// emitConstruct allocates a new instance of class, then calls its
// __init__ (object.__init__ unless overridden) with self pushed per the
// normal calling convention.
func (c *genCtx) emitConstruct(class *sym.ClassInfo) error {
	w := c.e.WordSize()
	c.e.La("a0", class.Prototype.String(), "")
	c.e.Jal("ra", "alloc", "")
	c.e.Ins2Imm("addi", "sp", "sp", -w, "")
	c.e.Store("sw", "a0", 0, "sp", "push self for __init__")

	initSlot, ok := class.MethodIndex("__init__")
	if !ok {
		return internalf("class %q has no __init__", class.Name)
	}
	c.e.Load("lw", "t1", 2*w, "a0", "dispatch table")
	c.e.Load("lw", "t1", initSlot*w, "t1", "__init__ code label")
	c.e.Ins2Imm("addi", "sp", "sp", -w, "frame-link word")
	c.e.Jalr("ra", "t1", 0, "")
	c.e.Load("lw", "t0", w, "sp", "new object: pushed self, above the frame-link word")
	c.e.Ins2Imm("addi", "sp", "sp", 2*w, "pop self + frame-link")
	return nil
}

// emitListDisplay allocates a fresh .list object sized for len(x.Elements)
// entries and stores each evaluated element into its payload.
func (c *genCtx) emitListDisplay(x *ast.ListExpr) error {
	w := c.e.WordSize()
	n := len(x.Elements)

	c.e.La("a0", c.g.List.Prototype.String(), "")
	c.e.Li("a1", sym.HeaderSize+1+n, "sizeWords = header + __len__ + n elements")
	c.e.Jal("ra", "alloc2", "")
	c.e.Ins2Imm("addi", "sp", "sp", -w, "")
	c.e.Store("sw", "a0", 0, "sp", "save new list across element evaluation")
	c.e.Li("t0", n, "")
	c.e.Store("sw", "t0", w*sym.HeaderSize, "a0", "__len__")

	for i, elem := range x.Elements {
		if err := c.emitExpr(elem); err != nil { // value -> t0
			return err
		}
		c.e.Load("lw", "t1", 0, "sp", "reload list base")
		c.e.Store("sw", "t0", w*(sym.HeaderSize+1+i), "t1", "")
	}
	c.e.Load("lw", "t0", 0, "sp", "")
	c.e.Ins2Imm("addi", "sp", "sp", w, "")
	return nil
}
