package riscv

import (
	"choco32/ast"
	"choco32/internal/codegen"
	"choco32/internal/sym"
)

func (c *genCtx) emitStmts(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := c.emitStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *genCtx) emitStmt(s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.AssignStmt:
		return c.emitAssign(st)
	case *ast.IfStmt:
		return c.emitIf(st)
	case *ast.WhileStmt:
		return c.emitWhile(st)
	case *ast.ReturnStmt:
		return c.emitReturn(st)
	case *ast.ExprStmt:
		return c.emitExpr(st.Inner)
	default:
		return internalf("unhandled statement type %T (ForStmt must already be desugared)", s)
	}
}

func (c *genCtx) emitAssign(st *ast.AssignStmt) error {
	switch target := st.Target.(type) {
	case *ast.Identifier:
		if err := c.emitExpr(st.Value); err != nil { // value in t0
			return err
		}
		return c.storeIdentifier(target.Name, "t0")
	case *ast.IndexExpr:
		addr, err := c.emitElementAddress(target.List, target.Index) // element address in t1
		if err != nil {
			return err
		}
		w := c.e.WordSize()
		c.e.Ins2Imm("addi", "sp", "sp", -w, "")
		c.e.Store("sw", addr, 0, "sp", "save element address across value evaluation")
		if err := c.emitExpr(st.Value); err != nil { // value in t0
			return err
		}
		c.e.Load("lw", "t1", 0, "sp", "reload element address")
		c.e.Ins2Imm("addi", "sp", "sp", w, "")
		c.e.Store("sw", "t0", 0, "t1", "store element")
		return nil
	default:
		return internalf("unhandled assignment target %T", st.Target)
	}
}

func (c *genCtx) storeIdentifier(name, srcReg string) error {
	info, ok := c.table().Get(name)
	if !ok {
		return internalf("identifier %q does not resolve", name)
	}
	switch v := info.(type) {
	case *sym.StackVarInfo:
		off, _ := varOffset(c.e, v.Func, name)
		c.e.Store("sw", srcReg, off, "fp", name)
	case *sym.GlobalVarInfo:
		c.e.La("t6", v.Storage.String(), "")
		c.e.Store("sw", srcReg, 0, "t6", name)
	default:
		return internalf("identifier %q does not name an assignable variable", name)
	}
	return nil
}

func (c *genCtx) emitIf(st *ast.IfStmt) error {
	elseLbl := c.g.Labels.Local()
	endLbl := c.g.Labels.Local()
	if err := c.emitExpr(st.Condition); err != nil {
		return err
	}
	c.emitTruthy("t0")
	c.e.BranchZ("beqz", "t0", elseLbl.String(), "")
	if err := c.emitStmts(st.Then); err != nil {
		return err
	}
	c.e.Jump(endLbl.String(), "")
	c.e.Label(elseLbl.String())
	if err := c.emitStmts(st.Else); err != nil {
		return err
	}
	c.e.Label(endLbl.String())
	return nil
}

func (c *genCtx) emitWhile(st *ast.WhileStmt) error {
	top := c.g.Labels.Local()
	end := c.g.Labels.Local()
	c.e.Label(top.String())
	if err := c.emitExpr(st.Condition); err != nil {
		return err
	}
	c.emitTruthy("t0")
	c.e.BranchZ("beqz", "t0", end.String(), "")
	if err := c.emitStmts(st.Body); err != nil {
		return err
	}
	c.e.Jump(top.String(), "")
	c.e.Label(end.String())
	return nil
}

func (c *genCtx) emitReturn(st *ast.ReturnStmt) error {
	if st.Value == nil {
		c.e.Li("a0", 0, "bare return -> None")
	} else {
		if err := c.emitExpr(st.Value); err != nil {
			return err
		}
		c.e.Ins2("mv", "a0", "t0", "")
	}
	if c.f == nil {
		return internalf("return statement outside any function")
	}
	emitEpilogue(c.e, c.f)
	return nil
}

// emitTruthy reduces a bool object address in reg to a plain 0/1 word in
// the same register, by loading its __bool__ attribute.
func (c *genCtx) emitTruthy(reg string) {
	c.e.Load("lw", reg, c.e.WordSize()*sym.HeaderSize, reg, "__bool__")
}

// emitElementAddress evaluates listExpr and indexExpr, bounds-checks the
// index against the list/str object's __len__, aborts with
// ErrIndexOutOfBounds if it is out of range, and otherwise leaves the
// element's address in t1.
func (c *genCtx) emitElementAddress(listExpr, indexExpr ast.Expr) (string, error) {
	w := c.e.WordSize()
	if err := c.emitExpr(listExpr); err != nil { // base address in t0
		return "", err
	}
	c.e.Ins2Imm("addi", "sp", "sp", -w, "")
	c.e.Store("sw", "t0", 0, "sp", "save list/str object across index evaluation")
	if err := c.emitExpr(indexExpr); err != nil { // boxed index in t0
		return "", err
	}
	c.e.Load("lw", "t1", 0, "sp", "base = list/str object")
	c.e.Ins2Imm("addi", "sp", "sp", w, "")
	c.e.Load("lw", "t2", w*sym.HeaderSize, "t0", "unbox index")

	bad := c.g.Labels.Local()
	ok := c.g.Labels.Local()
	c.e.Branch("blt", "t2", "zero", bad.String(), "index < 0")
	c.e.Load("lw", "t3", w*sym.HeaderSize, "t1", "__len__")
	c.e.Branch("bge", "t2", "t3", bad.String(), "index >= len")
	c.e.Jump(ok.String(), "")
	c.e.Label(bad.String())
	codegen.AbortWith(c.e, c.g.Pool.GetStrConstant("Index out of bounds"), codegen.ErrIndexOutOfBounds)
	c.e.Label(ok.String())

	c.e.Li("t4", w, "wordSize")
	c.e.Ins3("mul", "t2", "t2", "t4", "byte offset of element")
	c.e.Ins2Imm("addi", "t2", "t2", w*(sym.HeaderSize+1), "+ payload base")
	c.e.Ins3("add", "t1", "t1", "t2", "element address")
	return "t1", nil
}
