package tsparse

import (
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"tscheck/pkg/ast"
)

// --- Expressions ---

func (l *lowerer) optExpr(n *sitter.Node) ast.Expr {
	if n == nil {
		return nil
	}
	return l.expr(n)
}

func (l *lowerer) expr(n *sitter.Node) ast.Expr {
	if n == nil {
		return &ast.InvalidExpr{}
	}
	b := l.base(n)
	switch n.Type() {
	case "identifier", "property_identifier", "shorthand_property_identifier",
		"private_property_identifier", "undefined":
		return &ast.Ident{Base: b, Name: l.text(n)}
	case "this":
		return &ast.ThisExpr{Base: b}
	case "super":
		return &ast.SuperExpr{Base: b}
	case "number":
		return &ast.NumLit{Base: b, Value: parseNumber(l.text(n))}
	case "string":
		return &ast.StrLit{Base: b, Value: l.stringValue(n)}
	case "template_string":
		t := &ast.TemplateLit{Base: b}
		for _, c := range named(n) {
			if c.Type() == "template_substitution" {
				t.Exprs = append(t.Exprs, l.expr(firstNamed(c)))
			}
		}
		return t
	case "regex":
		return &ast.RegexLit{Base: b, Pattern: l.optText(field(n, "pattern")), Flags: l.optText(field(n, "flags"))}
	case "true", "false":
		return &ast.BoolLit{Base: b, Value: n.Type() == "true"}
	case "null":
		return &ast.NullLit{Base: b}

	case "array":
		a := &ast.ArrayLit{Base: b}
		for _, c := range named(n) {
			a.Elems = append(a.Elems, l.exprOrSpread(c))
		}
		return a
	case "object":
		return l.object(n)

	case "function", "function_expression", "generator_function":
		e := &ast.FnExpr{Base: b, Fn: l.function(n)}
		if name := field(n, "name"); name != nil {
			e.Ident = l.ident(name)
		}
		return e
	case "arrow_function":
		return l.arrow(n)
	case "class":
		e := &ast.ClassExpr{Base: b, Class: l.class(n)}
		if name := field(n, "name"); name != nil {
			e.Ident = l.ident(name)
		}
		return e

	case "call_expression":
		fn := field(n, "function")
		if fn != nil && fn.Type() == "import" {
			debugPrintf("// [tsparse] dynamic import at %d\n", n.StartByte())
			return &ast.InvalidExpr{Base: b}
		}
		return &ast.CallExpr{
			Base:     b,
			Callee:   l.expr(fn),
			Args:     l.args(field(n, "arguments")),
			TypeArgs: l.typeArgs(field(n, "type_arguments")),
		}
	case "new_expression":
		return &ast.NewExpr{
			Base:     b,
			Callee:   l.expr(field(n, "constructor")),
			Args:     l.args(field(n, "arguments")),
			TypeArgs: l.typeArgs(field(n, "type_arguments")),
		}
	case "member_expression":
		prop := field(n, "property")
		return &ast.MemberExpr{Base: b, Obj: l.expr(field(n, "object")), Prop: &ast.Ident{Base: l.base(prop), Name: l.text(prop)}}
	case "subscript_expression":
		return &ast.MemberExpr{Base: b, Obj: l.expr(field(n, "object")), Prop: l.expr(field(n, "index")), Computed: true}

	case "assignment_expression":
		return &ast.AssignExpr{Base: b, Op: "=", Left: l.target(field(n, "left")), Right: l.expr(field(n, "right"))}
	case "augmented_assignment_expression":
		return &ast.AssignExpr{Base: b, Op: l.optText(field(n, "operator")), Left: l.target(field(n, "left")), Right: l.expr(field(n, "right"))}
	case "binary_expression":
		return &ast.BinExpr{Base: b, Op: l.optText(field(n, "operator")), Left: l.expr(field(n, "left")), Right: l.expr(field(n, "right"))}
	case "unary_expression":
		return &ast.UnaryExpr{Base: b, Op: l.optText(field(n, "operator")), Arg: l.expr(field(n, "argument"))}
	case "update_expression":
		op := field(n, "operator")
		return &ast.UpdateExpr{
			Base:   b,
			Op:     l.optText(op),
			Prefix: op != nil && op.StartByte() == n.StartByte(),
			Arg:    l.expr(field(n, "argument")),
		}
	case "ternary_expression":
		return &ast.CondExpr{Base: b, Test: l.expr(field(n, "condition")), Cons: l.expr(field(n, "consequence")), Alt: l.expr(field(n, "alternative"))}
	case "parenthesized_expression":
		return &ast.ParenExpr{Base: b, Expr: l.expr(firstNamed(n))}
	case "sequence_expression":
		s := &ast.SeqExpr{Base: b}
		l.flattenSeq(n, s)
		return s

	case "as_expression":
		kids := named(n)
		if len(kids) < 2 {
			return &ast.InvalidExpr{Base: b}
		}
		if kids[1].Type() == "const" {
			// `as const` keeps the expression's own type.
			return l.expr(kids[0])
		}
		return &ast.AsExpr{Base: b, Expr: l.expr(kids[0]), Type: l.tsType(kids[1])}
	case "type_assertion":
		kids := named(n)
		if len(kids) < 2 {
			return &ast.InvalidExpr{Base: b}
		}
		var t ast.TsType = &ast.TsKeyword{Base: l.base(kids[0]), Kind: ast.KwAny}
		if args := l.typeArgs(kids[0]); len(args) == 1 {
			t = args[0]
		}
		return &ast.AsExpr{Base: b, Expr: l.expr(kids[1]), Type: t}
	case "satisfies_expression":
		return l.expr(firstNamed(n))
	case "instantiation_expression":
		return l.expr(firstNamed(n))
	case "non_null_expression":
		return &ast.NonNullExpr{Base: b, Expr: l.expr(firstNamed(n))}
	case "await_expression":
		return &ast.AwaitExpr{Base: b, Arg: l.expr(firstNamed(n))}
	case "yield_expression":
		return &ast.InvalidExpr{Base: b}
	case "spread_element":
		// Only reachable outside argument and element lists.
		return l.expr(firstNamed(n))
	case "ERROR":
		return &ast.InvalidExpr{Base: b}
	}
	debugPrintf("// [tsparse] unhandled expression %s\n", n.Type())
	return &ast.InvalidExpr{Base: b}
}

func (l *lowerer) flattenSeq(n *sitter.Node, s *ast.SeqExpr) {
	for _, c := range named(n) {
		if c.Type() == "sequence_expression" {
			l.flattenSeq(c, s)
			continue
		}
		s.Exprs = append(s.Exprs, l.expr(c))
	}
}

// target lowers an assignment left-hand side. Destructuring targets are not
// typed and lower to an invalid expression.
func (l *lowerer) target(n *sitter.Node) ast.Expr {
	if n != nil && (n.Type() == "object_pattern" || n.Type() == "array_pattern") {
		return &ast.InvalidExpr{Base: l.base(n)}
	}
	return l.expr(n)
}

func (l *lowerer) exprOrSpread(n *sitter.Node) *ast.ExprOrSpread {
	if n.Type() == "spread_element" {
		return &ast.ExprOrSpread{Spread: true, Expr: l.expr(firstNamed(n))}
	}
	return &ast.ExprOrSpread{Expr: l.expr(n)}
}

func (l *lowerer) args(n *sitter.Node) []*ast.ExprOrSpread {
	if n == nil {
		return nil
	}
	if n.Type() == "template_string" {
		// Tagged template.
		return []*ast.ExprOrSpread{{Expr: l.expr(n)}}
	}
	var out []*ast.ExprOrSpread
	for _, c := range named(n) {
		out = append(out, l.exprOrSpread(c))
	}
	return out
}

func (l *lowerer) object(n *sitter.Node) ast.Expr {
	o := &ast.ObjectLit{Base: l.base(n)}
	for _, c := range named(n) {
		b := l.base(c)
		switch c.Type() {
		case "pair":
			o.Props = append(o.Props, &ast.KeyValueProp{Base: b, Key: l.propName(field(c, "key")), Value: l.expr(field(c, "value"))})
		case "shorthand_property_identifier":
			o.Props = append(o.Props, &ast.ShorthandProp{Base: b, Name: l.ident(c)})
		case "method_definition":
			o.Props = append(o.Props, &ast.MethodProp{Base: b, Key: l.propName(field(c, "name")), Fn: l.function(c), Kind: methodKind(c)})
		case "spread_element":
			o.Props = append(o.Props, &ast.SpreadProp{Base: b, Expr: l.expr(firstNamed(c))})
		default:
			debugPrintf("// [tsparse] unhandled object member %s\n", c.Type())
		}
	}
	return o
}

func methodKind(n *sitter.Node) ast.MethodKind {
	switch {
	case hasToken(n, "get"):
		return ast.MethodGetter
	case hasToken(n, "set"):
		return ast.MethodSetter
	}
	return ast.MethodPlain
}

// propName lowers a property key.
func (l *lowerer) propName(n *sitter.Node) *ast.PropName {
	if n == nil {
		return &ast.PropName{}
	}
	p := &ast.PropName{Base: l.base(n)}
	switch n.Type() {
	case "computed_property_name":
		p.Computed = l.expr(firstNamed(n))
	case "string":
		p.Name = l.stringValue(n)
	case "number":
		p.Name = strconv.FormatFloat(parseNumber(l.text(n)), 'g', -1, 64)
	default:
		p.Name = l.text(n)
	}
	return p
}

func (l *lowerer) arrow(n *sitter.Node) ast.Expr {
	e := &ast.ArrowExpr{
		Base:       l.base(n),
		TypeParams: l.typeParams(field(n, "type_parameters")),
		ReturnType: l.annotation(field(n, "return_type")),
		Async:      hasToken(n, "async"),
	}
	if p := field(n, "parameter"); p != nil {
		e.Params = []ast.Pat{l.pattern(p)}
	} else {
		e.Params = l.params(field(n, "parameters"))
	}
	body := field(n, "body")
	if body != nil && body.Type() == "statement_block" {
		e.Body = l.block(body)
	} else {
		e.ExprBody = l.expr(body)
	}
	return e
}

// --- Literals ---

func (l *lowerer) ident(n *sitter.Node) *ast.Ident {
	if n == nil {
		return nil
	}
	return &ast.Ident{Base: l.base(n), Name: l.text(n)}
}

func (l *lowerer) str(n *sitter.Node) *ast.StrLit {
	return &ast.StrLit{Base: l.base(n), Value: l.stringValue(n)}
}

// stringValue decodes a string node. Fragments are taken verbatim and
// escape sequences are decoded.
func (l *lowerer) stringValue(n *sitter.Node) string {
	if n.Type() != "string" {
		return l.text(n)
	}
	var sb strings.Builder
	for _, c := range named(n) {
		switch c.Type() {
		case "string_fragment":
			sb.WriteString(l.text(c))
		case "escape_sequence":
			sb.WriteString(unescape(l.text(c)))
		}
	}
	return sb.String()
}

// unescape decodes a single escape sequence including its backslash.
func unescape(esc string) string {
	if len(esc) < 2 || esc[0] != '\\' {
		return esc
	}
	body := esc[1:]
	switch body[0] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	case 'v':
		return "\v"
	case '0':
		if len(body) == 1 {
			return "\x00"
		}
	case '\n', '\r', 0xe2:
		// Line continuation.
		return ""
	case 'x':
		if v, err := strconv.ParseUint(body[1:], 16, 8); err == nil {
			return string(rune(v))
		}
	case 'u':
		hex := strings.TrimSuffix(strings.TrimPrefix(body[1:], "{"), "}")
		if v, err := strconv.ParseUint(hex, 16, 32); err == nil && utf8.ValidRune(rune(v)) {
			return string(rune(v))
		}
	}
	return body
}

// parseNumber evaluates a numeric literal. BigInt literals lose their
// suffix and are typed as numbers.
func parseNumber(text string) float64 {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "_", ""), "n")
	if len(text) > 1 && text[0] == '0' {
		switch text[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			if v, err := strconv.ParseUint(text, 0, 64); err == nil {
				return float64(v)
			}
			return 0
		}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		debugPrintf("// [tsparse] bad number literal %q\n", text)
		return 0
	}
	return v
}
