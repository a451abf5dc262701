// Package ast defines the tree handed to this compiler core by the external
// lexer/parser/type-checker collaborator. It carries no parsing or
// inference logic: every field here is assumed already validated (scoping,
// shadowing, return types, inheritance) by the time the core sees it, per
// the precondition in the analyzer package.
package ast

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Pos records the source location of a node, for diagnostics only.
type Pos struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Program is the root of a well-typed source file: an ordered list of
// global declarations followed by an ordered list of top-level statements.
type Program struct {
	Declarations []Declaration `json:"declarations"`
	Statements   []Stmt        `json:"statements"`
}

// Declaration is implemented by VarDef, ClassDef, FuncDef, GlobalDecl and
// NonLocalDecl.
type Declaration interface {
	declNode()
}

// Type is implemented by ClassType and ListType.
type Type interface {
	typeNode()
	String() string
}

// ClassType names a declared class (or one of the predefined classes
// object/int/bool/str) used as a variable, parameter or return type.
type ClassType struct {
	Name string `json:"name"`
}

func (ClassType) typeNode()     {}
func (c ClassType) String() string { return c.Name }

// ListType is the annotation for a homomorphic list, e.g. "[int]".
type ListType struct {
	ElementType Type `json:"elementType"`
}

func (ListType) typeNode() {}
func (l ListType) String() string {
	return "[" + l.ElementType.String() + "]"
}

// VarDef declares a global variable, a local variable or a class attribute,
// depending on where it appears. Value is nil for attributes with no
// explicit default image in source (the analyzer treats nil as "no
// initial-value label", i.e. a zero word).
type VarDef struct {
	Pos   Pos     `json:"pos"`
	Name  string  `json:"name"`
	Type  Type    `json:"type"`
	Value Literal `json:"value,omitempty"`
}

func (*VarDef) declNode() {}

// Param is a single function or method parameter.
type Param struct {
	Pos  Pos    `json:"pos"`
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// FuncDef declares a global function, a method (when nested directly in a
// ClassDef) or a nested function (when nested in another FuncDef).
type FuncDef struct {
	Pos          Pos           `json:"pos"`
	Name         string        `json:"name"`
	Params       []Param       `json:"params"`
	ReturnType   Type          `json:"returnType"`
	Declarations []Declaration `json:"declarations"` // VarDef, GlobalDecl, NonLocalDecl, nested FuncDef
	Statements   []Stmt        `json:"statements"`
}

func (*FuncDef) declNode() {}

// ClassDef declares a class with single inheritance. Declarations holds
// only VarDef (attributes) and FuncDef (methods), in source order.
type ClassDef struct {
	Pos          Pos           `json:"pos"`
	Name         string        `json:"name"`
	SuperClass   string        `json:"superClass"`
	Declarations []Declaration `json:"declarations"`
}

func (*ClassDef) declNode() {}

// GlobalDecl appears inside a FuncDef and binds an outer global into the
// function's own scope.
type GlobalDecl struct {
	Pos  Pos    `json:"pos"`
	Name string `json:"name"`
}

func (*GlobalDecl) declNode() {}

// NonLocalDecl appears inside a nested FuncDef; the analyzer asserts that
// Name already resolves to a StackVarInfo through the enclosing function
// chain and otherwise installs no new binding.
type NonLocalDecl struct {
	Pos  Pos    `json:"pos"`
	Name string `json:"name"`
}

func (*NonLocalDecl) declNode() {}

// Stmt is implemented by every statement node.
type Stmt interface {
	stmtNode()
}

// AssignStmt assigns Value to Target, where Target is an *Identifier or an
// *IndexExpr.
type AssignStmt struct {
	Pos    Pos    `json:"pos"`
	Target Expr   `json:"target"`
	Value  Expr   `json:"value"`
}

func (*AssignStmt) stmtNode() {}

// IfStmt is a two-way branch. Else is nil for a bare "if". elif chains are
// represented as a single-statement Else holding a nested IfStmt.
type IfStmt struct {
	Pos       Pos    `json:"pos"`
	Condition Expr   `json:"condition"`
	Then      []Stmt `json:"then"`
	Else      []Stmt `json:"else,omitempty"`
}

func (*IfStmt) stmtNode() {}

// WhileStmt is a condition-tested loop.
type WhileStmt struct {
	Pos       Pos    `json:"pos"`
	Condition Expr   `json:"condition"`
	Body      []Stmt `json:"body"`
}

func (*WhileStmt) stmtNode() {}

// ForStmt iterates Identifier over Iterable (a list or string valued
// expression). The analyzer desugars this into a WhileStmt over an index
// counter before code generation; see analyzer.desugarFor.
type ForStmt struct {
	Pos        Pos    `json:"pos"`
	Identifier string `json:"identifier"`
	Iterable   Expr   `json:"iterable"`
	Body       []Stmt `json:"body"`
}

func (*ForStmt) stmtNode() {}

// ReturnStmt returns Value, or bare control if Value is nil.
type ReturnStmt struct {
	Pos   Pos  `json:"pos"`
	Value Expr `json:"value,omitempty"`
}

func (*ReturnStmt) stmtNode() {}

// ExprStmt evaluates Inner for effect and discards its result.
type ExprStmt struct {
	Pos   Pos  `json:"pos"`
	Inner Expr `json:"inner"`
}

func (*ExprStmt) stmtNode() {}

// Expr is implemented by every expression node.
type Expr interface {
	exprNode()
	Position() Pos
}

// Literal is the subset of Expr that the constant pool's FromLiteral
// recognises: IntegerLiteral, StringLiteral, BooleanLiteral and
// NoneLiteral.
type Literal interface {
	Expr
	literalNode()
}

// IntegerLiteral is a decimal integer constant.
type IntegerLiteral struct {
	Pos   Pos `json:"pos"`
	Value int `json:"value"`
}

func (i *IntegerLiteral) exprNode()    {}
func (i *IntegerLiteral) literalNode() {}
func (i *IntegerLiteral) Position() Pos { return i.Pos }

// StringLiteral is a quoted string constant.
type StringLiteral struct {
	Pos   Pos    `json:"pos"`
	Value string `json:"value"`
}

func (s *StringLiteral) exprNode()    {}
func (s *StringLiteral) literalNode() {}
func (s *StringLiteral) Position() Pos { return s.Pos }

// BooleanLiteral is "True" or "False".
type BooleanLiteral struct {
	Pos   Pos  `json:"pos"`
	Value bool `json:"value"`
}

func (b *BooleanLiteral) exprNode()    {}
func (b *BooleanLiteral) literalNode() {}
func (b *BooleanLiteral) Position() Pos { return b.Pos }

// NoneLiteral is "None".
type NoneLiteral struct {
	Pos Pos `json:"pos"`
}

func (n *NoneLiteral) exprNode()    {}
func (n *NoneLiteral) literalNode() {}
func (n *NoneLiteral) Position() Pos { return n.Pos }

// Identifier references a variable, parameter or attribute-less name
// lookup; resolved through the enclosing scope chain at analysis time.
type Identifier struct {
	Pos  Pos    `json:"pos"`
	Name string `json:"name"`
}

func (i *Identifier) exprNode()     {}
func (i *Identifier) Position() Pos { return i.Pos }

// SelfExpr is sugar for "the receiver", i.e. parameter index 0 of the
// enclosing method.
type SelfExpr struct {
	Pos Pos `json:"pos"`
}

func (s *SelfExpr) exprNode()     {}
func (s *SelfExpr) Position() Pos { return s.Pos }

// BinaryExpr covers arithmetic (+ - * // %), comparison (== != < <= > >=
// is) and boolean (and or) operators.
type BinaryExpr struct {
	Pos   Pos    `json:"pos"`
	Op    string `json:"op"`
	Left  Expr   `json:"left"`
	Right Expr   `json:"right"`
}

func (b *BinaryExpr) exprNode()     {}
func (b *BinaryExpr) Position() Pos { return b.Pos }

// UnaryExpr covers "-" (negate) and "not" (boolean negate).
type UnaryExpr struct {
	Pos     Pos    `json:"pos"`
	Op      string `json:"op"`
	Operand Expr   `json:"operand"`
}

func (u *UnaryExpr) exprNode()     {}
func (u *UnaryExpr) Position() Pos { return u.Pos }

// IndexExpr is "List[Index]" for both list and string subjects.
type IndexExpr struct {
	Pos   Pos  `json:"pos"`
	List  Expr `json:"list"`
	Index Expr `json:"index"`
}

func (i *IndexExpr) exprNode()     {}
func (i *IndexExpr) Position() Pos { return i.Pos }

// MemberExpr is "Object.Attr". ObjectType is the static class type the
// checker inferred for Object — attribute offsets are a function of
// (class, name), not recoverable from Object's runtime value alone, so the
// codegen package resolves AttrInfo through this annotation rather than
// re-deriving it.
type MemberExpr struct {
	Pos        Pos    `json:"pos"`
	Object     Expr   `json:"object"`
	Attr       string `json:"attr"`
	ObjectType Type   `json:"objectType"`
}

func (m *MemberExpr) exprNode()     {}
func (m *MemberExpr) Position() Pos { return m.Pos }

// MethodCallExpr is "Object.Method(Args...)", dispatched dynamically
// through Object's runtime dispatch table. ObjectType is the static class
// type the checker inferred for Object, fixing which class's method list
// (and therefore dispatch-table slot) Method resolves against.
type MethodCallExpr struct {
	Pos        Pos    `json:"pos"`
	Object     Expr   `json:"object"`
	Method     string `json:"method"`
	Args       []Expr `json:"args"`
	ObjectType Type   `json:"objectType"`
}

func (m *MethodCallExpr) exprNode()     {}
func (m *MethodCallExpr) Position() Pos { return m.Pos }

// CallExpr is a call to a global function, a predefined function
// (print/len/input) or a class constructor (Func == class name).
type CallExpr struct {
	Pos  Pos    `json:"pos"`
	Func string `json:"func"`
	Args []Expr `json:"args"`
}

func (c *CallExpr) exprNode()     {}
func (c *CallExpr) Position() Pos { return c.Pos }

// ListExpr is a list-display literal "[e1, e2, ...]".
type ListExpr struct {
	Pos      Pos    `json:"pos"`
	Elements []Expr `json:"elements"`
}

func (l *ListExpr) exprNode()     {}
func (l *ListExpr) Position() Pos { return l.Pos }
