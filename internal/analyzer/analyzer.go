// Package analyzer performs a single walk of a well-typed AST that
// populates the descriptor graph (classes, functions, globals) and the
// chain of symbol tables those descriptors live in. It asserts structural
// invariants the external type-checker is assumed to have already
// validated (superclass exists, global/nonlocal targets resolve) but never
// re-derives or re-checks types itself.
package analyzer

import (
	"fmt"

	"choco32/ast"
	"choco32/internal/constpool"
	"choco32/internal/label"
	"choco32/internal/sym"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Graph is the fully-populated descriptor graph: everything the Layout and
// Code emitters need, with every list in deterministic insertion order.
type Graph struct {
	Labels *label.Factory
	Pool   *constpool.Pool
	Global *sym.SymbolTable

	Classes   []*sym.ClassInfo
	Functions []*sym.FuncInfo
	Globals   []*sym.GlobalVarInfo
	TopLevel  []ast.Stmt

	Object, Int, Bool, Str, List *sym.ClassInfo
}

// Analyzer holds the mutable state of one analysis run: the type-tag
// counter and the in-progress Graph. These are instance fields rather than
// process-wide globals, owned by the one Analyzer that constructed them, so
// concurrent analysis runs in the same process never interfere.
type Analyzer struct {
	g          *Graph
	classes    map[string]*sym.ClassInfo
	nextTag    int
	forCounter int
}

// ---------------------
// ----- Functions -----
// ---------------------

// New constructs an Analyzer with the predefined classes and functions
// already registered, ready to analyze one Program.
func New() *Analyzer {
	lf := label.NewFactory()
	pool := constpool.New(lf)
	global := sym.NewSymbolTable(nil)

	a := &Analyzer{
		g: &Graph{
			Labels: lf,
			Pool:   pool,
			Global: global,
		},
		classes: make(map[string]*sym.ClassInfo),
	}
	a.seedPredefined()
	return a
}

func (a *Analyzer) newClass(name string, tag int, super *sym.ClassInfo) *sym.ClassInfo {
	c := sym.NewClass(name, tag, super)
	c.Prototype = a.g.Labels.User(name + "$prototype")
	if tag >= 0 {
		// The .list pseudo-class (tag -1) emits no dispatch table.
		c.DispatchTable = a.g.Labels.User(name + "$dispatchTable")
	}
	a.classes[name] = c
	a.g.Classes = append(a.g.Classes, c)
	a.g.Global.Bind(name, c)
	return c
}

func (a *Analyzer) takeTag() int {
	t := a.nextTag
	a.nextTag++
	return t
}

// seedPredefined registers object, int, bool, str, the internal .list
// pseudo-class, and the three predefined functions, before any user
// declaration is analyzed.
func (a *Analyzer) seedPredefined() {
	object := a.newClass("object", a.takeTag(), nil)
	initFn := &sym.FuncInfo{
		Name:      "object.__init__",
		Container: "object",
		Depth:     0,
		CodeLabel: a.g.Labels.User("object.__init__"),
	}
	initFn.AddParam("self", label.Label{})
	object.AddMethod(initFn)
	// Not appended to a.g.Functions: emitBuiltins emits its body directly,
	// so the generic per-function Strategy loop must skip it.
	a.g.Object = object

	intClass := a.newClass("int", a.takeTag(), object)
	intClass.AddAttr(&sym.AttrInfo{Name: "__int__"})
	a.g.Int = intClass

	boolClass := a.newClass("bool", a.takeTag(), object)
	boolClass.AddAttr(&sym.AttrInfo{Name: "__bool__"})
	a.g.Bool = boolClass

	strClass := a.newClass("str", a.takeTag(), object)
	strClass.AddAttr(&sym.AttrInfo{Name: "__len__", Init: a.g.Pool.GetIntConstant(0)})
	strClass.AddAttr(&sym.AttrInfo{Name: "__str__"})
	a.g.Str = strClass

	listClass := a.newClass(".list", -1, object)
	listClass.AddAttr(&sym.AttrInfo{Name: "__len__"})
	// listClass.DispatchTable stays the zero Label: list values are never
	// dispatched on, so they carry no dispatch table.
	a.g.List = listClass

	for _, name := range []string{"print", "len", "input"} {
		f := &sym.FuncInfo{Name: name, CodeLabel: a.g.Labels.User(name)}
		if name != "input" {
			f.AddParam("arg", label.Label{})
		}
		a.g.Global.Bind(name, f)
		// Not appended to a.g.Functions, same reason as object.__init__ above.
	}
}

// Analyze walks prog and returns the completed descriptor Graph, or an
// error wrapping sym.ErrInternal if a structural invariant the external
// type-checker should have guaranteed does not hold.
func (a *Analyzer) Analyze(prog *ast.Program) (*Graph, error) {
	// P1 — Globals, bound before any function body is analyzed so that
	// nested "global x" declarations resolve.
	for _, decl := range prog.Declarations {
		vd, ok := decl.(*ast.VarDef)
		if !ok {
			continue
		}
		gv := &sym.GlobalVarInfo{
			Name:    vd.Name,
			Init:    a.g.Pool.FromLiteral(vd.Value),
			Storage: a.g.Labels.User(vd.Name),
		}
		a.g.Globals = append(a.g.Globals, gv)
		a.g.Global.Bind(vd.Name, gv)
	}

	// P2 — Classes and global functions.
	for _, decl := range prog.Declarations {
		switch d := decl.(type) {
		case *ast.ClassDef:
			if err := a.buildClass(d); err != nil {
				return nil, err
			}
		case *ast.FuncDef:
			f, err := a.buildFunction(d, "", 0, a.g.Global, nil)
			if err != nil {
				return nil, err
			}
			a.g.Global.Bind(d.Name, f)
			a.g.Functions = append(a.g.Functions, f)
		}
	}

	a.g.TopLevel = desugarForAll(prog.Statements, nil, a)
	return a.g, nil
}

func (a *Analyzer) buildClass(cd *ast.ClassDef) error {
	super, ok := a.classes[cd.SuperClass]
	if !ok {
		return fmt.Errorf("%w: class %q names undeclared superclass %q", sym.ErrInternal, cd.Name, cd.SuperClass)
	}
	c := a.newClass(cd.Name, a.takeTag(), super)

	for _, decl := range cd.Declarations {
		vd, ok := decl.(*ast.VarDef)
		if !ok {
			continue
		}
		c.AddAttr(&sym.AttrInfo{Name: vd.Name, Init: a.g.Pool.FromLiteral(vd.Value)})
	}
	for _, decl := range cd.Declarations {
		fd, ok := decl.(*ast.FuncDef)
		if !ok {
			continue
		}
		f, err := a.buildFunction(fd, cd.Name, 0, a.g.Global, nil)
		if err != nil {
			return err
		}
		c.AddMethod(f)
		a.g.Functions = append(a.g.Functions, f)
	}
	return nil
}

// buildFunction analyzes one function/method recursively, in four phases:
// (A) parameters and local variables in source order, (B) global/nonlocal
// declarations, (C) nested function definitions, (D) attach the statement
// body.
func (a *Analyzer) buildFunction(fd *ast.FuncDef, container string, depth int, parentTable *sym.SymbolTable, parentFunc *sym.FuncInfo) (*sym.FuncInfo, error) {
	qualified := fd.Name
	if container != "" {
		qualified = container + "." + fd.Name
	} else if parentFunc != nil {
		qualified = parentFunc.Name + "." + fd.Name
	}
	table := sym.NewSymbolTable(parentTable)
	f := &sym.FuncInfo{
		Name:       qualified,
		Container:  container,
		Depth:      depth,
		Table:      table,
		Parent:     parentFunc,
		CodeLabel:  a.g.Labels.User(qualified),
		ReturnType: fd.ReturnType,
	}

	// Phase A: parameters, then local-variable declarations, in source order.
	for _, p := range fd.Params {
		v := f.AddParam(p.Name, label.Label{})
		table.Bind(p.Name, v)
	}
	for _, decl := range fd.Declarations {
		vd, ok := decl.(*ast.VarDef)
		if !ok {
			continue
		}
		v := f.AddLocal(vd.Name, a.g.Pool.FromLiteral(vd.Value))
		table.Bind(vd.Name, v)
	}

	// Phase B: global/nonlocal declarations.
	for _, decl := range fd.Declarations {
		switch d := decl.(type) {
		case *ast.GlobalDecl:
			info, ok := a.g.Global.Get(d.Name)
			if !ok {
				return nil, fmt.Errorf("%w: global %q in %q does not resolve", sym.ErrInternal, d.Name, qualified)
			}
			gv, ok := info.(*sym.GlobalVarInfo)
			if !ok {
				return nil, fmt.Errorf("%w: global %q in %q does not name a variable", sym.ErrInternal, d.Name, qualified)
			}
			table.Bind(d.Name, gv)
		case *ast.NonLocalDecl:
			info, ok := parentTable.Get(d.Name)
			if !ok {
				return nil, fmt.Errorf("%w: nonlocal %q in %q does not resolve", sym.ErrInternal, d.Name, qualified)
			}
			if _, ok := info.(*sym.StackVarInfo); !ok {
				return nil, fmt.Errorf("%w: nonlocal %q in %q does not name a stack variable", sym.ErrInternal, d.Name, qualified)
			}
			// No new binding installed: lookups of d.Name fall through
			// table's parent chain to the binding found above.
		}
	}

	// Phase C: nested function definitions.
	for _, decl := range fd.Declarations {
		nd, ok := decl.(*ast.FuncDef)
		if !ok {
			continue
		}
		nested, err := a.buildFunction(nd, "", depth+1, table, f)
		if err != nil {
			return nil, err
		}
		table.Bind(nd.Name, nested)
		a.g.Functions = append(a.g.Functions, nested)
	}

	// Phase D: attach the statement body (for loops desugared to whiles).
	f.Body = desugarForAll(fd.Statements, f, a)
	return f, nil
}
