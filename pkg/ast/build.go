package ast

// Constructors for synthesized trees. Nodes built here carry dummy spans.

func NewIdent(name string) *Ident     { return &Ident{Name: name} }
func NewStr(v string) *StrLit         { return &StrLit{Value: v} }
func NewNum(v float64) *NumLit        { return &NumLit{Value: v} }
func NewBool(v bool) *BoolLit         { return &BoolLit{Value: v} }
func NewKeyword(k KeywordKind) TsType { return &TsKeyword{Kind: k} }

// NewRef builds a type reference annotation.
func NewRef(name string, args ...TsType) *TsTypeRef {
	return &TsTypeRef{Name: name, TypeArgs: args}
}

// NewArgs wraps plain expressions as call arguments.
func NewArgs(es ...Expr) []*ExprOrSpread {
	out := make([]*ExprOrSpread, len(es))
	for i, e := range es {
		out[i] = &ExprOrSpread{Expr: e}
	}
	return out
}

// NewCall builds `callee(args...)`.
func NewCall(callee Expr, args ...Expr) *CallExpr {
	return &CallExpr{Callee: callee, Args: NewArgs(args...)}
}

// NewNewExpr builds `new callee(args...)`.
func NewNewExpr(callee Expr, args ...Expr) *NewExpr {
	return &NewExpr{Callee: callee, Args: NewArgs(args...)}
}

// NewMember builds `obj.prop`.
func NewMember(obj Expr, prop string) *MemberExpr {
	return &MemberExpr{Obj: obj, Prop: NewIdent(prop)}
}

// NewVar builds a single-declarator declaration.
func NewVar(kind VarKind, name string, ann TsType, init Expr) *VarDecl {
	return &VarDecl{
		Kind:  kind,
		Decls: []*VarDeclarator{{Name: &IdentPat{Name: name, Type: ann}, Init: init}},
	}
}

// NewParam builds a named, optionally annotated parameter.
func NewParam(name string, ann TsType) *IdentPat {
	return &IdentPat{Name: name, Type: ann}
}

// NewExprStmt wraps an expression as a statement.
func NewExprStmt(e Expr) *ExprStmt { return &ExprStmt{Expr: e} }

// NewModule builds a module from statements.
func NewModule(body ...Stmt) *Module { return &Module{Body: body} }
