// Package sym implements the descriptor model: ClassInfo, FuncInfo,
// AttrInfo, StackVarInfo, GlobalVarInfo and the scope-chained SymbolTable
// that binds names to them. Descriptors are created and mutated only
// during analysis and are read-only once code generation begins.
//
// Info is a marker interface implemented by the five concrete descriptor
// types below; callers recover the concrete kind with a Go type switch or
// assertion rather than a class hierarchy.
package sym

import "errors"

// Info is implemented by every descriptor kind a SymbolTable can bind a
// name to.
type Info interface {
	infoMarker()
}

// ErrInternal is wrapped by every error raised when the analyzer finds a
// structural invariant violated that the external type-checker was
// supposed to have already enforced — such a failure is a compiler bug,
// not a user diagnostic. Driver code distinguishes these from ordinary
// diagnostics with errors.Is(err, ErrInternal).
var ErrInternal = errors.New("compiler internal invariant violated")
