package tsparse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"tscheck/pkg/ast"
)

// --- Type annotations ---

func (l *lowerer) anyType(n *sitter.Node) ast.TsType {
	return &ast.TsKeyword{Base: l.base(n), Kind: ast.KwAny}
}

// annotation unwraps a `: T` annotation. Type predicates annotate a
// boolean return.
func (l *lowerer) annotation(n *sitter.Node) ast.TsType {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "type_annotation", "omitting_type_annotation", "opting_type_annotation":
		return l.tsType(firstNamed(n))
	case "type_predicate_annotation", "type_predicate":
		return &ast.TsKeyword{Base: l.base(n), Kind: ast.KwBoolean}
	case "asserts_annotation", "asserts":
		return &ast.TsKeyword{Base: l.base(n), Kind: ast.KwVoid}
	}
	return l.tsType(n)
}

func (l *lowerer) typeArgs(n *sitter.Node) []ast.TsType {
	if n == nil {
		return nil
	}
	var out []ast.TsType
	for _, c := range named(n) {
		out = append(out, l.tsType(c))
	}
	return out
}

func (l *lowerer) typeParams(n *sitter.Node) []*ast.TypeParamDecl {
	if n == nil {
		return nil
	}
	var out []*ast.TypeParamDecl
	for _, c := range named(n) {
		if c.Type() != "type_parameter" {
			continue
		}
		d := &ast.TypeParamDecl{Base: l.base(c), Name: l.optText(field(c, "name"))}
		if cons := field(c, "constraint"); cons != nil {
			d.Constraint = l.tsType(firstNamed(cons))
		}
		if def := field(c, "value"); def != nil {
			d.Default = l.tsType(firstNamed(def))
		}
		out = append(out, d)
	}
	return out
}

func (l *lowerer) tsType(n *sitter.Node) ast.TsType {
	if n == nil {
		return nil
	}
	b := l.base(n)
	switch n.Type() {
	case "predefined_type", "undefined", "null":
		name := l.text(n)
		if name == "bigint" {
			name = "number"
		}
		if k, ok := ast.LookupKeyword(name); ok {
			return &ast.TsKeyword{Base: b, Kind: k}
		}
		return l.anyType(n)
	case "type_identifier", "identifier":
		return &ast.TsTypeRef{Base: b, Name: l.text(n)}
	case "nested_type_identifier":
		return &ast.TsTypeRef{Base: b, Name: qualifiedName(l.text(n))}
	case "generic_type":
		name := field(n, "name")
		if name == nil {
			return l.anyType(n)
		}
		return &ast.TsTypeRef{Base: b, Name: qualifiedName(l.text(name)), TypeArgs: l.typeArgs(field(n, "type_arguments"))}
	case "union_type":
		u := &ast.TsUnion{Base: b}
		l.flattenUnion(n, u)
		if len(u.Types) == 1 {
			return u.Types[0]
		}
		return u
	case "array_type":
		return &ast.TsArray{Base: b, Elem: l.tsType(firstNamed(n))}
	case "tuple_type":
		t := &ast.TsTuple{Base: b}
		for _, c := range named(n) {
			t.Elems = append(t.Elems, l.tupleElem(c))
		}
		return t
	case "object_type":
		return &ast.TsTypeLit{Base: b, Members: l.typeMembers(n)}
	case "function_type":
		return &ast.TsFnType{
			Base:       b,
			TypeParams: l.typeParams(field(n, "type_parameters")),
			Params:     l.params(field(n, "parameters")),
			Return:     l.annotation(field(n, "return_type")),
		}
	case "constructor_type":
		return &ast.TsCtorType{
			Base:       b,
			TypeParams: l.typeParams(field(n, "type_parameters")),
			Params:     l.params(field(n, "parameters")),
			Return:     l.annotation(field(n, "type")),
		}
	case "type_query":
		return &ast.TsTypeQuery{Base: b, Name: qualifiedName(l.text(firstNamed(n)))}
	case "literal_type":
		return l.literalType(n)
	case "parenthesized_type", "readonly_type":
		return l.tsType(firstNamed(n))
	}
	// Intersections, conditional, mapped and indexed types are not modelled.
	debugPrintf("// [tsparse] type %s lowered to any\n", n.Type())
	return l.anyType(n)
}

func (l *lowerer) flattenUnion(n *sitter.Node, u *ast.TsUnion) {
	for _, c := range named(n) {
		if c.Type() == "union_type" {
			l.flattenUnion(c, u)
			continue
		}
		u.Types = append(u.Types, l.tsType(c))
	}
}

func (l *lowerer) tupleElem(n *sitter.Node) ast.TsType {
	switch n.Type() {
	case "optional_type", "rest_type":
		return l.tsType(firstNamed(n))
	case "tuple_parameter", "optional_tuple_parameter", "required_parameter", "optional_parameter":
		return l.annotation(field(n, "type"))
	}
	return l.tsType(n)
}

func (l *lowerer) literalType(n *sitter.Node) ast.TsType {
	b := l.base(n)
	c := firstNamed(n)
	if c == nil {
		return l.anyType(n)
	}
	switch c.Type() {
	case "number":
		return &ast.TsLitType{Base: b, Lit: &ast.NumLit{Base: l.base(c), Value: parseNumber(l.text(c))}}
	case "string":
		return &ast.TsLitType{Base: b, Lit: l.str(c)}
	case "true", "false":
		return &ast.TsLitType{Base: b, Lit: &ast.BoolLit{Base: l.base(c), Value: c.Type() == "true"}}
	case "null":
		return &ast.TsKeyword{Base: b, Kind: ast.KwNull}
	case "undefined":
		return &ast.TsKeyword{Base: b, Kind: ast.KwUndefined}
	case "unary_expression":
		arg := field(c, "argument")
		if arg != nil && arg.Type() == "number" && l.optText(field(c, "operator")) == "-" {
			return &ast.TsLitType{Base: b, Lit: &ast.NumLit{Base: l.base(c), Value: -parseNumber(l.text(arg))}}
		}
	}
	return l.anyType(n)
}

// typeMembers lowers an interface body or type literal.
func (l *lowerer) typeMembers(n *sitter.Node) []ast.TsTypeElement {
	var out []ast.TsTypeElement
	for _, c := range named(n) {
		b := l.base(c)
		switch c.Type() {
		case "property_signature":
			out = append(out, &ast.TsPropertySig{
				Base:     b,
				Key:      l.propName(field(c, "name")),
				Type:     l.annotation(field(c, "type")),
				Optional: hasToken(c, "?"),
				Readonly: hasToken(c, "readonly"),
			})
		case "method_signature":
			out = append(out, &ast.TsMethodSig{
				Base:       b,
				Key:        l.propName(field(c, "name")),
				TypeParams: l.typeParams(field(c, "type_parameters")),
				Params:     l.params(field(c, "parameters")),
				Return:     l.annotation(field(c, "return_type")),
				Optional:   hasToken(c, "?"),
			})
		case "call_signature":
			out = append(out, &ast.TsCallSig{
				Base:       b,
				TypeParams: l.typeParams(field(c, "type_parameters")),
				Params:     l.params(field(c, "parameters")),
				Return:     l.annotation(field(c, "return_type")),
			})
		case "construct_signature":
			out = append(out, &ast.TsConstructSig{
				Base:       b,
				TypeParams: l.typeParams(field(c, "type_parameters")),
				Params:     l.params(field(c, "parameters")),
				Return:     l.annotation(field(c, "type")),
			})
		default:
			debugPrintf("// [tsparse] unhandled type member %s\n", c.Type())
		}
	}
	return out
}

func qualifiedName(s string) string {
	return strings.Join(strings.Fields(s), "")
}
