package ast

// Inspect traverses the tree rooted at n in depth-first order. It calls f for
// every node; if f returns false the node's children are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || isNilNode(n) || !f(n) {
		return
	}
	w := func(c Node) { Inspect(c, f) }
	exprs := func(es []Expr) {
		for _, e := range es {
			w(e)
		}
	}
	stmts := func(ss []Stmt) {
		for _, s := range ss {
			w(s)
		}
	}
	pats := func(ps []Pat) {
		for _, p := range ps {
			w(p)
		}
	}
	args := func(as []*ExprOrSpread) {
		for _, a := range as {
			if a != nil {
				w(a.Expr)
			}
		}
	}
	fn := func(fn *Function) {
		if fn == nil {
			return
		}
		pats(fn.Params)
		if fn.Body != nil {
			w(fn.Body)
		}
	}
	key := func(k *PropName) {
		if k != nil && k.Computed != nil {
			w(k.Computed)
		}
	}
	class := func(c *Class) {
		if c == nil {
			return
		}
		w(c.SuperClass)
		for _, m := range c.Body {
			w(m)
		}
	}

	switch n := n.(type) {
	case *Module:
		stmts(n.Body)

	// Statements
	case *BlockStmt:
		stmts(n.Stmts)
	case *ExprStmt:
		w(n.Expr)
	case *ReturnStmt:
		w(n.Arg)
	case *IfStmt:
		w(n.Test)
		w(n.Cons)
		w(n.Alt)
	case *ForStmt:
		w(n.Init)
		w(n.Test)
		w(n.Update)
		w(n.Body)
	case *ForInOfStmt:
		w(n.Left)
		w(n.Right)
		w(n.Body)
	case *WhileStmt:
		w(n.Test)
		w(n.Body)
	case *DoWhileStmt:
		w(n.Body)
		w(n.Test)
	case *ThrowStmt:
		w(n.Arg)
	case *TryStmt:
		w(n.Block)
		w(n.Param)
		w(n.Handler)
		w(n.Finalizer)
	case *SwitchStmt:
		w(n.Disc)
		for _, c := range n.Cases {
			w(c.Test)
			stmts(c.Cons)
		}
	case *LabeledStmt:
		w(n.Body)
	case *VarDecl:
		for _, d := range n.Decls {
			w(d.Name)
			w(d.Init)
		}
	case *FnDecl:
		fn(n.Fn)
	case *ClassDecl:
		class(n.Class)
	case *EnumDecl:
		for _, m := range n.Members {
			w(m.Init)
		}
	case *ExportDecl:
		w(n.Decl)
	case *ExportDefault:
		w(n.Expr)

	// Expressions
	case *TemplateLit:
		exprs(n.Exprs)
	case *ArrayLit:
		args(n.Elems)
	case *ObjectLit:
		for _, p := range n.Props {
			switch p := p.(type) {
			case *KeyValueProp:
				key(p.Key)
				w(p.Value)
			case *ShorthandProp:
				w(p.Name)
			case *MethodProp:
				key(p.Key)
				fn(p.Fn)
			case *SpreadProp:
				w(p.Expr)
			}
		}
	case *FnExpr:
		fn(n.Fn)
	case *ArrowExpr:
		pats(n.Params)
		if n.Body != nil {
			w(n.Body)
		} else {
			w(n.ExprBody)
		}
	case *ClassExpr:
		class(n.Class)
	case *UnaryExpr:
		w(n.Arg)
	case *UpdateExpr:
		w(n.Arg)
	case *BinExpr:
		w(n.Left)
		w(n.Right)
	case *AssignExpr:
		w(n.Left)
		w(n.Right)
	case *CondExpr:
		w(n.Test)
		w(n.Cons)
		w(n.Alt)
	case *SeqExpr:
		exprs(n.Exprs)
	case *ParenExpr:
		w(n.Expr)
	case *MemberExpr:
		w(n.Obj)
		if n.Computed {
			w(n.Prop)
		}
	case *CallExpr:
		w(n.Callee)
		args(n.Args)
	case *NewExpr:
		w(n.Callee)
		args(n.Args)
	case *AsExpr:
		w(n.Expr)
	case *NonNullExpr:
		w(n.Expr)
	case *AwaitExpr:
		w(n.Arg)

	// Patterns
	case *ArrayPat:
		pats(n.Elems)
	case *ObjectPat:
		for _, p := range n.Props {
			key(p.Key)
			w(p.Value)
		}
		w(n.Rest)
	case *AssignPat:
		w(n.Left)
		w(n.Right)
	case *RestPat:
		w(n.Arg)

	// Class members
	case *Constructor:
		pats(n.Params)
		w(n.Body)
	case *ClassMethod:
		key(n.Key)
		fn(n.Fn)
	case *ClassProp:
		key(n.Key)
		w(n.Value)
	}
}

// isNilNode reports whether n is a typed nil stored in an interface. Only
// fields declared with a concrete pointer type can produce one.
func isNilNode(n Node) bool {
	switch n := n.(type) {
	case *BlockStmt:
		return n == nil
	case *Ident:
		return n == nil
	}
	return false
}
