package tsparse

import (
	sitter "github.com/smacker/go-tree-sitter"

	"tscheck/pkg/ast"
)

// --- Statements ---

// stmts lowers the statement children of a program, block or case body.
func (l *lowerer) stmts(n *sitter.Node) []ast.Stmt {
	var out []ast.Stmt
	for _, c := range named(n) {
		out = append(out, l.stmtList(c)...)
	}
	return out
}

// stmtList lowers one statement node. Some forms expand to several
// statements or to none.
func (l *lowerer) stmtList(n *sitter.Node) []ast.Stmt {
	switch n.Type() {
	case "ERROR", "hash_bang_line", "comment":
		return nil
	case "ambient_declaration":
		var out []ast.Stmt
		for _, c := range named(n) {
			for _, s := range l.stmtList(c) {
				markDeclare(s)
				out = append(out, s)
			}
		}
		return out
	case "module", "internal_module", "global_statement":
		// Namespaces are not modelled.
		return nil
	}
	if s := l.stmt(n); s != nil {
		return []ast.Stmt{s}
	}
	return nil
}

func markDeclare(s ast.Stmt) {
	switch d := s.(type) {
	case *ast.VarDecl:
		d.Declare = true
	case *ast.FnDecl:
		d.Declare = true
	}
}

func (l *lowerer) stmt(n *sitter.Node) ast.Stmt {
	if n == nil {
		return nil
	}
	b := l.base(n)
	switch n.Type() {
	case "expression_statement":
		return &ast.ExprStmt{Base: b, Expr: l.expr(firstNamed(n))}
	case "statement_block":
		return l.block(n)
	case "empty_statement":
		return &ast.EmptyStmt{Base: b}
	case "return_statement":
		return &ast.ReturnStmt{Base: b, Arg: l.optExpr(firstNamed(n))}
	case "throw_statement":
		return &ast.ThrowStmt{Base: b, Arg: l.expr(firstNamed(n))}
	case "if_statement":
		s := &ast.IfStmt{Base: b, Test: l.expr(field(n, "condition")), Cons: l.stmt(field(n, "consequence"))}
		if alt := field(n, "alternative"); alt != nil {
			if alt.Type() == "else_clause" {
				alt = firstNamed(alt)
			}
			s.Alt = l.stmt(alt)
		}
		return s
	case "for_statement":
		return l.forStmt(n)
	case "for_in_statement":
		return l.forInStmt(n)
	case "while_statement":
		return &ast.WhileStmt{Base: b, Test: l.expr(field(n, "condition")), Body: l.stmt(field(n, "body"))}
	case "do_statement":
		return &ast.DoWhileStmt{Base: b, Body: l.stmt(field(n, "body")), Test: l.expr(field(n, "condition"))}
	case "try_statement":
		return l.tryStmt(n)
	case "switch_statement":
		return l.switchStmt(n)
	case "break_statement":
		return &ast.BreakStmt{Base: b, Label: l.optText(field(n, "label"))}
	case "continue_statement":
		return &ast.ContinueStmt{Base: b, Label: l.optText(field(n, "label"))}
	case "labeled_statement":
		return &ast.LabeledStmt{Base: b, Label: l.optText(field(n, "label")), Body: l.stmt(field(n, "body"))}

	// --- Declarations ---
	case "lexical_declaration", "variable_declaration":
		return l.varDecl(n)
	case "function_declaration", "generator_function_declaration", "function_signature":
		return &ast.FnDecl{Base: b, Ident: l.ident(field(n, "name")), Fn: l.function(n)}
	case "class_declaration", "abstract_class_declaration":
		return &ast.ClassDecl{Base: b, Ident: l.ident(field(n, "name")), Class: l.class(n)}
	case "interface_declaration":
		return l.interfaceDecl(n)
	case "type_alias_declaration":
		return &ast.TypeAliasDecl{
			Base:       b,
			Ident:      l.ident(field(n, "name")),
			TypeParams: l.typeParams(field(n, "type_parameters")),
			Type:       l.tsType(field(n, "value")),
		}
	case "enum_declaration":
		return l.enumDecl(n)

	// --- Modules ---
	case "import_statement":
		return l.importStmt(n)
	case "export_statement":
		return l.exportStmt(n)
	}
	debugPrintf("// [tsparse] unhandled statement %s\n", n.Type())
	return nil
}

func (l *lowerer) optText(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return l.text(n)
}

func (l *lowerer) block(n *sitter.Node) *ast.BlockStmt {
	if n == nil {
		return nil
	}
	return &ast.BlockStmt{Base: l.base(n), Stmts: l.stmts(n)}
}

func (l *lowerer) varDecl(n *sitter.Node) *ast.VarDecl {
	d := &ast.VarDecl{Base: l.base(n), Kind: ast.VarKindVar}
	if n.Type() == "lexical_declaration" {
		switch l.optText(field(n, "kind")) {
		case "const":
			d.Kind = ast.VarKindConst
		default:
			d.Kind = ast.VarKindLet
		}
	}
	for _, c := range named(n) {
		if c.Type() != "variable_declarator" {
			continue
		}
		pat := l.pattern(field(c, "name"))
		setPatType(pat, l.annotation(field(c, "type")))
		d.Decls = append(d.Decls, &ast.VarDeclarator{Base: l.base(c), Name: pat, Init: l.optExpr(field(c, "value"))})
	}
	return d
}

func (l *lowerer) forStmt(n *sitter.Node) ast.Stmt {
	s := &ast.ForStmt{Base: l.base(n)}
	if init := field(n, "initializer"); init != nil {
		switch init.Type() {
		case "lexical_declaration", "variable_declaration":
			s.Init = l.varDecl(init)
		case "expression_statement":
			s.Init = l.stmt(init)
		case "empty_statement":
		default:
			s.Init = &ast.ExprStmt{Base: l.base(init), Expr: l.expr(init)}
		}
	}
	s.Test = l.clauseExpr(field(n, "condition"))
	s.Update = l.optExpr(field(n, "increment"))
	s.Body = l.stmt(field(n, "body"))
	return s
}

// clauseExpr unwraps a loop clause that the grammar may wrap in an
// expression statement.
func (l *lowerer) clauseExpr(n *sitter.Node) ast.Expr {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "empty_statement", ";":
		return nil
	case "expression_statement":
		return l.optExpr(firstNamed(n))
	}
	return l.expr(n)
}

func (l *lowerer) forInStmt(n *sitter.Node) ast.Stmt {
	s := &ast.ForInOfStmt{Base: l.base(n), Of: hasToken(n, "of")}
	left := field(n, "left")
	if kind := field(n, "kind"); kind != nil {
		d := &ast.VarDecl{Base: l.base(left), Kind: ast.VarKindVar}
		switch l.text(kind) {
		case "let":
			d.Kind = ast.VarKindLet
		case "const":
			d.Kind = ast.VarKindConst
		}
		d.Decls = []*ast.VarDeclarator{{Base: l.base(left), Name: l.pattern(left)}}
		s.Left = d
	} else if left != nil {
		s.Left = &ast.ExprStmt{Base: l.base(left), Expr: l.expr(left)}
	}
	s.Right = l.expr(field(n, "right"))
	s.Body = l.stmt(field(n, "body"))
	return s
}

func (l *lowerer) tryStmt(n *sitter.Node) ast.Stmt {
	s := &ast.TryStmt{Base: l.base(n), Block: l.block(field(n, "body"))}
	if h := field(n, "handler"); h != nil {
		if p := field(h, "parameter"); p != nil {
			s.Param = l.pattern(p)
			setPatType(s.Param, l.annotation(field(h, "type")))
		}
		s.Handler = l.block(field(h, "body"))
	}
	if f := field(n, "finalizer"); f != nil {
		s.Finalizer = l.block(field(f, "body"))
	}
	return s
}

func (l *lowerer) switchStmt(n *sitter.Node) ast.Stmt {
	s := &ast.SwitchStmt{Base: l.base(n), Disc: l.expr(field(n, "value"))}
	for _, c := range named(field(n, "body")) {
		sc := &ast.SwitchCase{Base: l.base(c)}
		value := field(c, "value")
		if c.Type() == "switch_case" {
			sc.Test = l.expr(value)
		}
		for _, st := range named(c) {
			if value != nil && sameNode(st, value) {
				continue
			}
			sc.Cons = append(sc.Cons, l.stmtList(st)...)
		}
		s.Cases = append(s.Cases, sc)
	}
	return s
}

// --- Type declarations ---

func (l *lowerer) interfaceDecl(n *sitter.Node) ast.Stmt {
	d := &ast.InterfaceDecl{
		Base:       l.base(n),
		Ident:      l.ident(field(n, "name")),
		TypeParams: l.typeParams(field(n, "type_parameters")),
		Body:       l.typeMembers(field(n, "body")),
	}
	for _, c := range named(n) {
		if c.Type() != "extends_type_clause" && c.Type() != "extends_clause" {
			continue
		}
		for _, t := range named(c) {
			if ref, ok := l.tsType(t).(*ast.TsTypeRef); ok {
				d.Extends = append(d.Extends, ref)
			}
		}
	}
	return d
}

func (l *lowerer) enumDecl(n *sitter.Node) ast.Stmt {
	d := &ast.EnumDecl{Base: l.base(n), Ident: l.ident(field(n, "name")), Const: hasToken(n, "const")}
	for _, c := range named(field(n, "body")) {
		m := &ast.EnumMember{Base: l.base(c)}
		switch c.Type() {
		case "enum_assignment":
			m.Name = l.propText(field(c, "name"))
			m.Init = l.optExpr(field(c, "value"))
		default:
			m.Name = l.propText(c)
		}
		d.Members = append(d.Members, m)
	}
	return d
}

// propText is the name of a property-like key.
func (l *lowerer) propText(n *sitter.Node) string {
	if n.Type() == "string" {
		return l.stringValue(n)
	}
	return l.text(n)
}

// --- Modules ---

func (l *lowerer) importStmt(n *sitter.Node) ast.Stmt {
	d := &ast.ImportDecl{Base: l.base(n), TypeOnly: hasToken(n, "type")}
	src := field(n, "source")
	for _, c := range named(n) {
		switch c.Type() {
		case "import_clause":
			d.Specifiers = l.importClause(c)
		case "import_require_clause":
			// import x = require("m")
			id := l.ident(firstNamed(c))
			req := field(c, "source")
			call := &ast.CallExpr{
				Base:   l.base(c),
				Callee: &ast.Ident{Base: l.base(c), Name: "require"},
				Args:   []*ast.ExprOrSpread{{Expr: l.str(req)}},
			}
			return &ast.VarDecl{Base: l.base(n), Kind: ast.VarKindConst, Decls: []*ast.VarDeclarator{{
				Base: l.base(c),
				Name: &ast.IdentPat{Base: id.Base, Name: id.Name},
				Init: call,
			}}}
		}
	}
	if src != nil {
		d.Src = l.str(src)
	}
	return d
}

func (l *lowerer) importClause(n *sitter.Node) []*ast.ImportSpecifier {
	var out []*ast.ImportSpecifier
	for _, c := range named(n) {
		switch c.Type() {
		case "identifier":
			out = append(out, &ast.ImportSpecifier{Base: l.base(c), Kind: ast.ImportDefault, Local: l.ident(c)})
		case "namespace_import":
			out = append(out, &ast.ImportSpecifier{Base: l.base(c), Kind: ast.ImportNamespace, Local: l.ident(firstNamed(c))})
		case "named_imports":
			for _, sp := range named(c) {
				if sp.Type() != "import_specifier" {
					continue
				}
				name := field(sp, "name")
				s := &ast.ImportSpecifier{Base: l.base(sp), Kind: ast.ImportNamed, Local: l.ident(name)}
				if alias := field(sp, "alias"); alias != nil {
					s.Imported = l.propText(name)
					s.Local = l.ident(alias)
				}
				out = append(out, s)
			}
		}
	}
	return out
}

func (l *lowerer) exportStmt(n *sitter.Node) ast.Stmt {
	b := l.base(n)
	isDefault := hasToken(n, "default")
	if decl := field(n, "declaration"); decl != nil {
		if isDefault {
			return &ast.ExportDefault{Base: b, Expr: l.defaultDecl(decl)}
		}
		stmts := l.stmtList(decl)
		if len(stmts) == 0 {
			return nil
		}
		return &ast.ExportDecl{Base: b, Decl: stmts[0]}
	}
	if v := field(n, "value"); v != nil {
		return &ast.ExportDefault{Base: b, Expr: l.expr(v)}
	}

	var src *ast.StrLit
	if s := field(n, "source"); s != nil {
		src = l.str(s)
	}
	for _, c := range named(n) {
		switch c.Type() {
		case "export_clause":
			e := &ast.ExportNamed{Base: b, Src: src}
			for _, sp := range named(c) {
				if sp.Type() != "export_specifier" {
					continue
				}
				local := l.propText(field(sp, "name"))
				exported := local
				if alias := field(sp, "alias"); alias != nil {
					exported = l.propText(alias)
				}
				e.Specifiers = append(e.Specifiers, &ast.ExportSpecifier{Base: l.base(sp), Local: local, Exported: exported})
			}
			return e
		case "namespace_export":
			// export * as ns from "m": bind the namespace, then export it.
			if src == nil {
				return nil
			}
			name := l.ident(firstNamed(c))
			return &ast.ExportNamed{Base: b, Src: src, Specifiers: []*ast.ExportSpecifier{{Base: l.base(c), Local: "*", Exported: name.Name}}}
		}
	}
	if src != nil && hasToken(n, "*") {
		return &ast.ExportAll{Base: b, Src: src}
	}
	return nil
}

// defaultDecl turns `export default function/class` into an expression.
func (l *lowerer) defaultDecl(n *sitter.Node) ast.Expr {
	b := l.base(n)
	var id *ast.Ident
	if name := field(n, "name"); name != nil {
		id = l.ident(name)
	}
	switch n.Type() {
	case "function_declaration", "generator_function_declaration":
		return &ast.FnExpr{Base: b, Ident: id, Fn: l.function(n)}
	case "class_declaration", "abstract_class_declaration":
		return &ast.ClassExpr{Base: b, Ident: id, Class: l.class(n)}
	}
	return l.expr(n)
}
