package ast

import (
	"encoding/json"
	"fmt"
)

// DecodeProgram decodes a JSON-encoded Program produced by the external
// parser/checker collaborator. Declaration, Stmt, Expr and Type are Go
// interfaces, so encoding/json cannot dispatch them on its own; every
// concrete node's JSON image is expected to carry a "kind" field (the
// node's Go type name, e.g. "BinaryExpr") alongside its regular
// json-tagged fields, and decoding walks the tree dispatching on it.
func DecodeProgram(data []byte) (*Program, error) {
	var raw struct {
		Declarations []json.RawMessage `json:"declarations"`
		Statements   []json.RawMessage `json:"statements"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ast: decoding program: %w", err)
	}
	decls, err := decodeDeclList(raw.Declarations)
	if err != nil {
		return nil, err
	}
	stmts, err := decodeStmtList(raw.Statements)
	if err != nil {
		return nil, err
	}
	return &Program{Declarations: decls, Statements: stmts}, nil
}

type kindEnvelope struct {
	Kind string `json:"kind"`
}

func kindOf(data json.RawMessage) (string, error) {
	var e kindEnvelope
	if err := json.Unmarshal(data, &e); err != nil {
		return "", err
	}
	if e.Kind == "" {
		return "", fmt.Errorf("ast: node missing \"kind\" discriminator: %s", data)
	}
	return e.Kind, nil
}

// ---------------------------
// ----- Declaration kind -----
// ---------------------------

func decodeDeclList(raw []json.RawMessage) ([]Declaration, error) {
	out := make([]Declaration, 0, len(raw))
	for _, r := range raw {
		d, err := decodeDecl(r)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func decodeDecl(data json.RawMessage) (Declaration, error) {
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "VarDef":
		var shadow struct {
			Pos   Pos             `json:"pos"`
			Name  string          `json:"name"`
			Type  json.RawMessage `json:"type"`
			Value json.RawMessage `json:"value,omitempty"`
		}
		if err := json.Unmarshal(data, &shadow); err != nil {
			return nil, err
		}
		typ, err := decodeType(shadow.Type)
		if err != nil {
			return nil, err
		}
		var value Literal
		if len(shadow.Value) > 0 {
			e, err := decodeExpr(shadow.Value)
			if err != nil {
				return nil, err
			}
			value, _ = e.(Literal)
		}
		return &VarDef{Pos: shadow.Pos, Name: shadow.Name, Type: typ, Value: value}, nil

	case "ClassDef":
		var shadow struct {
			Pos          Pos               `json:"pos"`
			Name         string            `json:"name"`
			SuperClass   string            `json:"superClass"`
			Declarations []json.RawMessage `json:"declarations"`
		}
		if err := json.Unmarshal(data, &shadow); err != nil {
			return nil, err
		}
		decls, err := decodeDeclList(shadow.Declarations)
		if err != nil {
			return nil, err
		}
		return &ClassDef{Pos: shadow.Pos, Name: shadow.Name, SuperClass: shadow.SuperClass, Declarations: decls}, nil

	case "FuncDef":
		var shadow struct {
			Pos        Pos    `json:"pos"`
			Name       string `json:"name"`
			Params     []struct {
				Pos  Pos             `json:"pos"`
				Name string          `json:"name"`
				Type json.RawMessage `json:"type"`
			} `json:"params"`
			ReturnType   json.RawMessage   `json:"returnType"`
			Declarations []json.RawMessage `json:"declarations"`
			Statements   []json.RawMessage `json:"statements"`
		}
		if err := json.Unmarshal(data, &shadow); err != nil {
			return nil, err
		}
		params := make([]Param, len(shadow.Params))
		for i, p := range shadow.Params {
			t, err := decodeType(p.Type)
			if err != nil {
				return nil, err
			}
			params[i] = Param{Pos: p.Pos, Name: p.Name, Type: t}
		}
		var retType Type
		if len(shadow.ReturnType) > 0 {
			t, err := decodeType(shadow.ReturnType)
			if err != nil {
				return nil, err
			}
			retType = t
		}
		decls, err := decodeDeclList(shadow.Declarations)
		if err != nil {
			return nil, err
		}
		stmts, err := decodeStmtList(shadow.Statements)
		if err != nil {
			return nil, err
		}
		return &FuncDef{
			Pos: shadow.Pos, Name: shadow.Name, Params: params, ReturnType: retType,
			Declarations: decls, Statements: stmts,
		}, nil

	case "GlobalDecl":
		var n GlobalDecl
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return &n, nil

	case "NonLocalDecl":
		var n NonLocalDecl
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return &n, nil

	default:
		return nil, fmt.Errorf("ast: unknown declaration kind %q", kind)
	}
}

// ---------------------
// ----- Type kind -----
// ---------------------

func decodeType(data json.RawMessage) (Type, error) {
	if len(data) == 0 {
		return nil, nil
	}
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "ClassType":
		var n ClassType
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return n, nil
	case "ListType":
		var shadow struct {
			ElementType json.RawMessage `json:"elementType"`
		}
		if err := json.Unmarshal(data, &shadow); err != nil {
			return nil, err
		}
		elem, err := decodeType(shadow.ElementType)
		if err != nil {
			return nil, err
		}
		return ListType{ElementType: elem}, nil
	default:
		return nil, fmt.Errorf("ast: unknown type kind %q", kind)
	}
}

// ---------------------
// ----- Stmt kind -----
// ---------------------

func decodeStmtList(raw []json.RawMessage) ([]Stmt, error) {
	out := make([]Stmt, 0, len(raw))
	for _, r := range raw {
		s, err := decodeStmt(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeStmt(data json.RawMessage) (Stmt, error) {
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "AssignStmt":
		var shadow struct {
			Pos    Pos             `json:"pos"`
			Target json.RawMessage `json:"target"`
			Value  json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(data, &shadow); err != nil {
			return nil, err
		}
		target, err := decodeExpr(shadow.Target)
		if err != nil {
			return nil, err
		}
		value, err := decodeExpr(shadow.Value)
		if err != nil {
			return nil, err
		}
		return &AssignStmt{Pos: shadow.Pos, Target: target, Value: value}, nil

	case "IfStmt":
		var shadow struct {
			Pos       Pos               `json:"pos"`
			Condition json.RawMessage   `json:"condition"`
			Then      []json.RawMessage `json:"then"`
			Else      []json.RawMessage `json:"else,omitempty"`
		}
		if err := json.Unmarshal(data, &shadow); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(shadow.Condition)
		if err != nil {
			return nil, err
		}
		then, err := decodeStmtList(shadow.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeStmtList(shadow.Else)
		if err != nil {
			return nil, err
		}
		return &IfStmt{Pos: shadow.Pos, Condition: cond, Then: then, Else: els}, nil

	case "WhileStmt":
		var shadow struct {
			Pos       Pos               `json:"pos"`
			Condition json.RawMessage   `json:"condition"`
			Body      []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(data, &shadow); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(shadow.Condition)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmtList(shadow.Body)
		if err != nil {
			return nil, err
		}
		return &WhileStmt{Pos: shadow.Pos, Condition: cond, Body: body}, nil

	case "ForStmt":
		var shadow struct {
			Pos        Pos               `json:"pos"`
			Identifier string            `json:"identifier"`
			Iterable   json.RawMessage   `json:"iterable"`
			Body       []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(data, &shadow); err != nil {
			return nil, err
		}
		iterable, err := decodeExpr(shadow.Iterable)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmtList(shadow.Body)
		if err != nil {
			return nil, err
		}
		return &ForStmt{Pos: shadow.Pos, Identifier: shadow.Identifier, Iterable: iterable, Body: body}, nil

	case "ReturnStmt":
		var shadow struct {
			Pos   Pos             `json:"pos"`
			Value json.RawMessage `json:"value,omitempty"`
		}
		if err := json.Unmarshal(data, &shadow); err != nil {
			return nil, err
		}
		var value Expr
		if len(shadow.Value) > 0 {
			value, err = decodeExpr(shadow.Value)
			if err != nil {
				return nil, err
			}
		}
		return &ReturnStmt{Pos: shadow.Pos, Value: value}, nil

	case "ExprStmt":
		var shadow struct {
			Pos   Pos             `json:"pos"`
			Inner json.RawMessage `json:"inner"`
		}
		if err := json.Unmarshal(data, &shadow); err != nil {
			return nil, err
		}
		inner, err := decodeExpr(shadow.Inner)
		if err != nil {
			return nil, err
		}
		return &ExprStmt{Pos: shadow.Pos, Inner: inner}, nil

	default:
		return nil, fmt.Errorf("ast: unknown statement kind %q", kind)
	}
}

// ---------------------
// ----- Expr kind -----
// ---------------------

func decodeExprList(raw []json.RawMessage) ([]Expr, error) {
	out := make([]Expr, 0, len(raw))
	for _, r := range raw {
		e, err := decodeExpr(r)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeExpr(data json.RawMessage) (Expr, error) {
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "IntegerLiteral":
		var n IntegerLiteral
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return &n, nil
	case "StringLiteral":
		var n StringLiteral
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return &n, nil
	case "BooleanLiteral":
		var n BooleanLiteral
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return &n, nil
	case "NoneLiteral":
		var n NoneLiteral
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return &n, nil
	case "Identifier":
		var n Identifier
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return &n, nil
	case "SelfExpr":
		var n SelfExpr
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return &n, nil

	case "BinaryExpr":
		var shadow struct {
			Pos   Pos             `json:"pos"`
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(data, &shadow); err != nil {
			return nil, err
		}
		left, err := decodeExpr(shadow.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(shadow.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Pos: shadow.Pos, Op: shadow.Op, Left: left, Right: right}, nil

	case "UnaryExpr":
		var shadow struct {
			Pos     Pos             `json:"pos"`
			Op      string          `json:"op"`
			Operand json.RawMessage `json:"operand"`
		}
		if err := json.Unmarshal(data, &shadow); err != nil {
			return nil, err
		}
		operand, err := decodeExpr(shadow.Operand)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Pos: shadow.Pos, Op: shadow.Op, Operand: operand}, nil

	case "IndexExpr":
		var shadow struct {
			Pos   Pos             `json:"pos"`
			List  json.RawMessage `json:"list"`
			Index json.RawMessage `json:"index"`
		}
		if err := json.Unmarshal(data, &shadow); err != nil {
			return nil, err
		}
		list, err := decodeExpr(shadow.List)
		if err != nil {
			return nil, err
		}
		index, err := decodeExpr(shadow.Index)
		if err != nil {
			return nil, err
		}
		return &IndexExpr{Pos: shadow.Pos, List: list, Index: index}, nil

	case "MemberExpr":
		var shadow struct {
			Pos        Pos             `json:"pos"`
			Object     json.RawMessage `json:"object"`
			Attr       string          `json:"attr"`
			ObjectType json.RawMessage `json:"objectType"`
		}
		if err := json.Unmarshal(data, &shadow); err != nil {
			return nil, err
		}
		object, err := decodeExpr(shadow.Object)
		if err != nil {
			return nil, err
		}
		objType, err := decodeType(shadow.ObjectType)
		if err != nil {
			return nil, err
		}
		return &MemberExpr{Pos: shadow.Pos, Object: object, Attr: shadow.Attr, ObjectType: objType}, nil

	case "MethodCallExpr":
		var shadow struct {
			Pos        Pos               `json:"pos"`
			Object     json.RawMessage   `json:"object"`
			Method     string            `json:"method"`
			Args       []json.RawMessage `json:"args"`
			ObjectType json.RawMessage   `json:"objectType"`
		}
		if err := json.Unmarshal(data, &shadow); err != nil {
			return nil, err
		}
		object, err := decodeExpr(shadow.Object)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprList(shadow.Args)
		if err != nil {
			return nil, err
		}
		objType, err := decodeType(shadow.ObjectType)
		if err != nil {
			return nil, err
		}
		return &MethodCallExpr{Pos: shadow.Pos, Object: object, Method: shadow.Method, Args: args, ObjectType: objType}, nil

	case "CallExpr":
		var shadow struct {
			Pos  Pos               `json:"pos"`
			Func string            `json:"func"`
			Args []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(data, &shadow); err != nil {
			return nil, err
		}
		args, err := decodeExprList(shadow.Args)
		if err != nil {
			return nil, err
		}
		return &CallExpr{Pos: shadow.Pos, Func: shadow.Func, Args: args}, nil

	case "ListExpr":
		var shadow struct {
			Pos      Pos               `json:"pos"`
			Elements []json.RawMessage `json:"elements"`
		}
		if err := json.Unmarshal(data, &shadow); err != nil {
			return nil, err
		}
		elements, err := decodeExprList(shadow.Elements)
		if err != nil {
			return nil, err
		}
		return &ListExpr{Pos: shadow.Pos, Elements: elements}, nil

	default:
		return nil, fmt.Errorf("ast: unknown expression kind %q", kind)
	}
}
