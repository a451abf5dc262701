package codegen

import (
	"choco32/internal/analyzer"
	"choco32/internal/asmfmt"
	"choco32/internal/sym"
)

// emitPrototypes emits one prototype object per class, in Graph.Classes
// (insertion) order — header fields typeTag, objectSize,
// dispatchTablePointer, then one word per attribute initial value.
func emitPrototypes(e *asmfmt.Emitter, g *analyzer.Graph) {
	for _, c := range g.Classes {
		e.Global(c.Prototype.String())
		e.Word(c.TypeTag)
		e.Word(c.ObjectSize())
		e.WordLabel(c.DispatchTable)
		for _, a := range c.Attrs {
			e.WordLabel(a.Init)
		}
		e.Align(2)
	}
}

// emitDispatchTables implements step 3: one table per class whose
// DispatchTable label is non-zero, one word per method in method-list
// order.
func emitDispatchTables(e *asmfmt.Emitter, g *analyzer.Graph) {
	for _, c := range g.Classes {
		if !c.DispatchTable.Valid() {
			continue
		}
		e.Global(c.DispatchTable.String())
		for _, m := range c.Methods {
			e.WordLabel(m.CodeLabel)
		}
	}
}

// emitGlobals implements step 4: one storage cell per global variable, in
// insertion order.
func emitGlobals(e *asmfmt.Emitter, g *analyzer.Graph) {
	for _, gv := range g.Globals {
		e.Global(gv.Storage.String())
		e.WordLabel(gv.Init)
	}
}

// emitConstantPool implements step 10: the fixed false/true prototypes,
// then each interned string, then each interned integer, each as a full
// object (header + payload), in insertion order.
func emitConstantPool(e *asmfmt.Emitter, g *analyzer.Graph) {
	boolSize := g.Bool.ObjectSize()
	e.Global(g.Pool.FalseConstant().String())
	e.Word(g.Bool.TypeTag)
	e.Word(boolSize)
	e.WordLabel(g.Bool.DispatchTable)
	e.Word(0)

	e.Global(g.Pool.TrueConstant().String())
	e.Word(g.Bool.TypeTag)
	e.Word(boolSize)
	e.WordLabel(g.Bool.DispatchTable)
	e.Word(1)

	wordSize := e.WordSize()
	for _, sc := range g.Pool.Strs() {
		payloadWords := (len(sc.Value) + 1 + wordSize - 1) / wordSize
		e.Global(sc.Label.String())
		e.Word(g.Str.TypeTag)
		e.Word(sym.HeaderSize + 1 + payloadWords)
		e.WordLabel(g.Str.DispatchTable)
		e.Word(len(sc.Value)) // __len__
		e.Str(sc.Value)
		e.Align(2)
	}

	for _, ic := range g.Pool.Ints() {
		e.Global(ic.Label.String())
		e.Word(g.Int.TypeTag)
		e.Word(g.Int.ObjectSize())
		e.WordLabel(g.Int.DispatchTable)
		e.Word(ic.Value)
	}
}
