package tsparse

import (
	sitter "github.com/smacker/go-tree-sitter"

	"tscheck/pkg/ast"
)

// --- Functions ---

// function lowers any node with the function field layout: declarations,
// expressions, methods and signatures.
func (l *lowerer) function(n *sitter.Node) *ast.Function {
	f := &ast.Function{
		Base:       l.base(n),
		TypeParams: l.typeParams(field(n, "type_parameters")),
		Params:     l.params(field(n, "parameters")),
		ReturnType: l.annotation(field(n, "return_type")),
		Async:      hasToken(n, "async"),
		Generator:  hasToken(n, "*") || n.Type() == "generator_function" || n.Type() == "generator_function_declaration",
	}
	if body := field(n, "body"); body != nil {
		f.Body = l.block(body)
	}
	return f
}

// params lowers formal parameters. A `this` parameter only annotates the
// receiver and is dropped.
func (l *lowerer) params(n *sitter.Node) []ast.Pat {
	var out []ast.Pat
	for _, c := range named(n) {
		switch c.Type() {
		case "required_parameter", "optional_parameter":
		default:
			continue
		}
		pn := field(c, "pattern")
		if pn == nil || pn.Type() == "this" {
			continue
		}
		pat := l.pattern(pn)
		setPatType(pat, l.annotation(field(c, "type")))
		if id, ok := pat.(*ast.IdentPat); ok && c.Type() == "optional_parameter" {
			id.Optional = true
		}
		if v := field(c, "value"); v != nil {
			pat = &ast.AssignPat{Base: l.base(c), Left: pat, Right: l.expr(v)}
		}
		out = append(out, pat)
	}
	return out
}

// paramProps returns the class properties declared by constructor
// parameters carrying a modifier.
func (l *lowerer) paramProps(n *sitter.Node) []ast.ClassMember {
	var out []ast.ClassMember
	for _, c := range named(n) {
		modified := hasToken(c, "readonly")
		for _, m := range named(c) {
			if m.Type() == "accessibility_modifier" || m.Type() == "override_modifier" {
				modified = true
			}
		}
		pn := field(c, "pattern")
		if !modified || pn == nil || pn.Type() != "identifier" {
			continue
		}
		out = append(out, &ast.ClassProp{
			Base:     l.base(c),
			Key:      &ast.PropName{Base: l.base(pn), Name: l.text(pn)},
			Type:     l.annotation(field(c, "type")),
			Optional: c.Type() == "optional_parameter",
			Readonly: hasToken(c, "readonly"),
		})
	}
	return out
}

// --- Classes ---

func (l *lowerer) class(n *sitter.Node) *ast.Class {
	c := &ast.Class{Base: l.base(n), TypeParams: l.typeParams(field(n, "type_parameters"))}
	for _, h := range named(n) {
		if h.Type() != "class_heritage" {
			continue
		}
		for _, clause := range named(h) {
			switch clause.Type() {
			case "extends_clause":
				v := field(clause, "value")
				if v == nil {
					v = firstNamed(clause)
				}
				c.SuperClass = l.expr(v)
				c.SuperTypeArgs = l.typeArgs(field(clause, "type_arguments"))
			case "implements_clause":
				for _, t := range named(clause) {
					c.Implements = append(c.Implements, l.tsType(t))
				}
			}
		}
	}
	for _, m := range named(field(n, "body")) {
		c.Body = append(c.Body, l.classMember(m)...)
	}
	return c
}

func (l *lowerer) classMember(n *sitter.Node) []ast.ClassMember {
	b := l.base(n)
	static := hasToken(n, "static")
	switch n.Type() {
	case "method_definition":
		name := field(n, "name")
		if !static && name != nil && l.text(name) == "constructor" {
			params := field(n, "parameters")
			ctor := &ast.Constructor{Base: b, Params: l.params(params), Body: l.block(field(n, "body"))}
			return append([]ast.ClassMember{ctor}, l.paramProps(params)...)
		}
		return []ast.ClassMember{&ast.ClassMethod{Base: b, Key: l.propName(name), Fn: l.function(n), Kind: methodKind(n), Static: static}}
	case "method_signature", "abstract_method_signature":
		name := field(n, "name")
		if name != nil && l.text(name) == "constructor" {
			return nil
		}
		return []ast.ClassMember{&ast.ClassMethod{Base: b, Key: l.propName(name), Fn: l.function(n), Kind: methodKind(n), Static: static}}
	case "public_field_definition":
		return []ast.ClassMember{&ast.ClassProp{
			Base:     b,
			Key:      l.propName(field(n, "name")),
			Value:    l.optExpr(field(n, "value")),
			Type:     l.annotation(field(n, "type")),
			Static:   static,
			Optional: hasToken(n, "?"),
			Readonly: hasToken(n, "readonly"),
		}}
	}
	return nil
}

// --- Patterns ---

func (l *lowerer) pattern(n *sitter.Node) ast.Pat {
	if n == nil {
		return &ast.IdentPat{}
	}
	b := l.base(n)
	switch n.Type() {
	case "object_pattern":
		p := &ast.ObjectPat{Base: b}
		for _, c := range named(n) {
			cb := l.base(c)
			switch c.Type() {
			case "pair_pattern":
				p.Props = append(p.Props, &ast.ObjectPatProp{Base: cb, Key: l.propName(field(c, "key")), Value: l.pattern(field(c, "value"))})
			case "shorthand_property_identifier_pattern", "shorthand_property_identifier":
				p.Props = append(p.Props, &ast.ObjectPatProp{
					Base:  cb,
					Key:   &ast.PropName{Base: cb, Name: l.text(c)},
					Value: &ast.IdentPat{Base: cb, Name: l.text(c)},
				})
			case "object_assignment_pattern":
				left := field(c, "left")
				p.Props = append(p.Props, &ast.ObjectPatProp{
					Base:  cb,
					Key:   &ast.PropName{Base: l.base(left), Name: l.text(left)},
					Value: &ast.AssignPat{Base: cb, Left: l.pattern(left), Right: l.expr(field(c, "right"))},
				})
			case "rest_pattern":
				p.Rest = l.pattern(firstNamed(c))
			}
		}
		return p
	case "array_pattern":
		p := &ast.ArrayPat{Base: b}
		expecting := true
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			switch {
			case c.Type() == ",":
				if expecting {
					p.Elems = append(p.Elems, nil)
				}
				expecting = true
			case c.IsNamed() && c.Type() != "comment":
				p.Elems = append(p.Elems, l.pattern(c))
				expecting = false
			}
		}
		return p
	case "assignment_pattern":
		return &ast.AssignPat{Base: b, Left: l.pattern(field(n, "left")), Right: l.expr(field(n, "right"))}
	case "rest_pattern":
		return &ast.RestPat{Base: b, Arg: l.pattern(firstNamed(n))}
	}
	return &ast.IdentPat{Base: b, Name: l.text(n)}
}

func setPatType(p ast.Pat, t ast.TsType) {
	if t == nil {
		return
	}
	switch p := p.(type) {
	case *ast.IdentPat:
		p.Type = t
	case *ast.ArrayPat:
		p.Type = t
	case *ast.ObjectPat:
		p.Type = t
	case *ast.RestPat:
		p.Type = t
	case *ast.AssignPat:
		setPatType(p.Left, t)
	}
}
