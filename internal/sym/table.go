package sym

// SymbolTable is a scope-chained mapping from identifier to descriptor.
// Lookups walk parent chains. The global table is created before
// class/function analysis; every FuncInfo owns a table whose parent is its
// containing function's table (or the global table). Each table's parent
// pointer is fixed at creation time, so a lookup never depends on the order
// in which enclosing scopes were visited.
type SymbolTable struct {
	parent  *SymbolTable
	entries map[string]Info
}

// NewSymbolTable returns an empty table chained to parent (nil for the
// global table).
func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{parent: parent, entries: make(map[string]Info)}
}

// Parent returns the enclosing table, or nil for the global table.
func (t *SymbolTable) Parent() *SymbolTable {
	return t.parent
}

// Bind installs name in t's own scope, shadowing (without removing) any
// binding of the same name in an enclosing scope.
func (t *SymbolTable) Bind(name string, info Info) {
	t.entries[name] = info
}

// Get looks up name, walking from t outward through parent scopes. The
// bool result is false if no scope in the chain binds name.
func (t *SymbolTable) Get(name string) (Info, bool) {
	for s := t; s != nil; s = s.parent {
		if info, ok := s.entries[name]; ok {
			return info, true
		}
	}
	return nil, false
}

// GetLocal looks up name in t's own scope only, without consulting parents.
func (t *SymbolTable) GetLocal(name string) (Info, bool) {
	info, ok := t.entries[name]
	return info, ok
}
