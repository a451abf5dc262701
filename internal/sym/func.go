package sym

import (
	"strings"

	"choco32/ast"
	"choco32/internal/label"
)

// FuncInfo describes one global function, method or nested function.
// Parameters occupy activation-record indexes 0..N-1 and locals occupy
// N..N+K-1; GetVarIndex returns this flat index.
type FuncInfo struct {
	Name      string // Fully-qualified dotted name, e.g. "C.m" or "outer.inner".
	Container string // Enclosing class name for methods, else "".
	Depth     int    // 0 for globals and methods, d+1 for a function nested in a function of depth d.

	Params []*StackVarInfo
	Locals []*StackVarInfo

	Table  *SymbolTable // This function's own symbol table.
	Parent *FuncInfo    // Non-nil only for nested functions.

	CodeLabel label.Label

	ReturnType ast.Type
	Body       []ast.Stmt
}

func (*FuncInfo) infoMarker() {}

// BaseName is the unqualified name (the part after the last '.').
func (f *FuncInfo) BaseName() string {
	if i := strings.LastIndexByte(f.Name, '.'); i >= 0 {
		return f.Name[i+1:]
	}
	return f.Name
}

// Nparams is the parameter count.
func (f *FuncInfo) Nparams() int { return len(f.Params) }

// Nlocals is the local-variable count.
func (f *FuncInfo) Nlocals() int { return len(f.Locals) }

// AddParam appends a parameter, assigning it the next flat index.
func (f *FuncInfo) AddParam(name string, init label.Label) *StackVarInfo {
	v := &StackVarInfo{Name: name, Init: init, Func: f, Index: len(f.Params)}
	f.Params = append(f.Params, v)
	return v
}

// AddLocal appends a local variable, assigning it the next flat index
// (after all parameters and previously-added locals).
func (f *FuncInfo) AddLocal(name string, init label.Label) *StackVarInfo {
	v := &StackVarInfo{Name: name, Init: init, Func: f, Index: len(f.Params) + len(f.Locals)}
	f.Locals = append(f.Locals, v)
	return v
}

// GetVarIndex returns the flat activation-record index of name, searching
// parameters then locals declared directly on f (not through Parent: a
// nonlocal reference resolves via the SymbolTable chain instead).
func (f *FuncInfo) GetVarIndex(name string) (int, bool) {
	for _, p := range f.Params {
		if p.Name == name {
			return p.Index, true
		}
	}
	for _, l := range f.Locals {
		if l.Name == name {
			return l.Index, true
		}
	}
	return 0, false
}
