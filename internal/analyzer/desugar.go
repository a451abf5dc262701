package analyzer

import (
	"fmt"

	"choco32/ast"
	"choco32/internal/label"
	"choco32/internal/sym"
)

// desugarForAll rewrites every ForStmt in stmts (recursively, including
// nested If/While bodies) into a WhileStmt over a synthesized index
// counter, per ast.ForStmt's documented contract. f is the enclosing
// function, or nil for top-level statements, whose activation record (or,
// at top level, the global table) gains one synthesized counter per loop.
func desugarForAll(stmts []ast.Stmt, f *sym.FuncInfo, a *Analyzer) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, desugarStmt(s, f, a)...)
	}
	return out
}

func desugarStmt(s ast.Stmt, f *sym.FuncInfo, a *Analyzer) []ast.Stmt {
	switch st := s.(type) {
	case *ast.IfStmt:
		return []ast.Stmt{&ast.IfStmt{
			Pos:       st.Pos,
			Condition: st.Condition,
			Then:      desugarForAll(st.Then, f, a),
			Else:      desugarForAll(st.Else, f, a),
		}}
	case *ast.WhileStmt:
		return []ast.Stmt{&ast.WhileStmt{
			Pos:       st.Pos,
			Condition: st.Condition,
			Body:      desugarForAll(st.Body, f, a),
		}}
	case *ast.ForStmt:
		return a.desugarFor(st, f)
	default:
		return []ast.Stmt{s}
	}
}

// desugarFor rewrites "for id in iterable: body" into:
//
//	$forN = 0
//	while $forN < iterable.__len__:
//	  id = iterable[$forN]
//	  body
//	  $forN = $forN + 1
//
// exploiting the fact that both .list and str expose __len__ at attribute
// index 0 (the condition's member access is typed as .list, whose __len__
// offset str shares). $forN is a fresh name per loop (a.forCounter), stored as a
// local of f, or as an implicit global when desugaring a top-level loop
// (f == nil, top level has no activation record of its own).
func (a *Analyzer) desugarFor(fs *ast.ForStmt, f *sym.FuncInfo) []ast.Stmt {
	idxName := fmt.Sprintf("$for%d", a.forCounter)
	a.forCounter++

	idx := &ast.Identifier{Pos: fs.Pos, Name: idxName}
	if f != nil {
		v := f.AddLocal(idxName, label.Label{})
		f.Table.Bind(idxName, v)
	} else {
		gv := &sym.GlobalVarInfo{Name: idxName, Storage: a.g.Labels.User(idxName)}
		a.g.Globals = append(a.g.Globals, gv)
		a.g.Global.Bind(idxName, gv)
	}

	body := desugarForAll(fs.Body, f, a)
	loopBody := make([]ast.Stmt, 0, len(body)+2)
	loopBody = append(loopBody, &ast.AssignStmt{
		Pos:    fs.Pos,
		Target: &ast.Identifier{Pos: fs.Pos, Name: fs.Identifier},
		Value:  &ast.IndexExpr{Pos: fs.Pos, List: fs.Iterable, Index: idx},
	})
	loopBody = append(loopBody, body...)
	loopBody = append(loopBody, &ast.AssignStmt{
		Pos:    fs.Pos,
		Target: idx,
		Value: &ast.BinaryExpr{
			Pos: fs.Pos, Op: "+", Left: idx, Right: &ast.IntegerLiteral{Pos: fs.Pos, Value: 1},
		},
	})

	return []ast.Stmt{
		&ast.AssignStmt{Pos: fs.Pos, Target: idx, Value: &ast.IntegerLiteral{Pos: fs.Pos, Value: 0}},
		&ast.WhileStmt{
			Pos: fs.Pos,
			Condition: &ast.BinaryExpr{
				Pos: fs.Pos, Op: "<", Left: idx,
				Right: &ast.MemberExpr{Pos: fs.Pos, Object: fs.Iterable, Attr: "__len__", ObjectType: ast.ClassType{Name: ".list"}},
			},
			Body: loopBody,
		},
	}
}
