package checker

import (
	"strings"

	"tscheck/pkg/ast"
	"tscheck/pkg/errors"
	"tscheck/pkg/scope"
	"tscheck/pkg/types"
)

// --- Annotations ---

// resolveAnnotation converts a type annotation. Named references stay
// unexpanded TypeRefs so declarations may refer to each other in any order;
// names that resolve nowhere are reported here, once.
func (a *analyzer) resolveAnnotation(node ast.TsType) types.Type {
	switch n := node.(type) {
	case nil:
		return types.Any
	case *ast.TsKeyword:
		return keywordType(n.Kind)
	case *ast.TsTypeRef:
		return a.resolveTypeRef(n)
	case *ast.TsUnion:
		ts := make([]types.Type, len(n.Types))
		for i, t := range n.Types {
			ts[i] = a.resolveAnnotation(t)
		}
		return types.NewUnion(ts...)
	case *ast.TsArray:
		return &types.Array{Elem: a.resolveAnnotation(n.Elem)}
	case *ast.TsTuple:
		elems := make([]types.Type, len(n.Elems))
		for i, t := range n.Elems {
			elems[i] = a.resolveAnnotation(t)
		}
		return &types.Tuple{Elems: elems}
	case *ast.TsTypeLit:
		return &types.TypeLiteral{Members: a.typeElements(n.Members)}
	case *ast.TsFnType:
		return a.signature(n.TypeParams, n.Params, n.Return, types.Any)
	case *ast.TsCtorType:
		sig := a.signature(n.TypeParams, n.Params, n.Return, types.Any)
		return &types.TypeLiteral{Members: []types.TypeElement{&types.ConstructorSignature{Sig: sig}}}
	case *ast.TsTypeQuery:
		return &types.TypeQuery{Name: n.Name}
	case *ast.TsLitType:
		switch l := n.Lit.(type) {
		case *ast.StrLit:
			return types.StrLit(l.Value)
		case *ast.NumLit:
			return types.NumLit(l.Value)
		case *ast.BoolLit:
			return types.BoolLit(l.Value)
		}
	}
	return types.Any
}

func keywordType(k ast.KeywordKind) types.Type {
	switch k {
	case ast.KwUnknown:
		return types.Unknown
	case ast.KwNumber:
		return types.Number
	case ast.KwString:
		return types.String
	case ast.KwBoolean:
		return types.Boolean
	case ast.KwSymbol:
		return types.Symbol
	case ast.KwUndefined:
		return types.Undefined
	case ast.KwNull:
		return types.Null
	case ast.KwVoid:
		return types.Void
	case ast.KwNever:
		return types.Never
	case ast.KwObject:
		return types.Object
	default:
		return types.Any
	}
}

func (a *analyzer) resolveTypeRef(n *ast.TsTypeRef) types.Type {
	if k, ok := ast.LookupKeyword(n.Name); ok {
		return keywordType(k)
	}
	args := make([]types.Type, len(n.TypeArgs))
	for i, t := range n.TypeArgs {
		args[i] = a.resolveAnnotation(t)
	}

	if ns, member, ok := strings.Cut(n.Name, "."); ok {
		return a.qualifiedType(n, ns, member)
	}

	target, found := a.lookupType(n.Name)
	if !found {
		if a.erroredImports[n.Name] {
			return types.Any
		}
		err := a.errorf(errors.UndefinedSymbol, n.Span, "cannot find name '%s'", n.Name)
		err.Name = n.Name
		return types.Any
	}

	switch t := target.(type) {
	case *types.Param:
		return t
	case *types.Enum:
		return t
	}
	if params := typeParamsOf(target); len(args) > len(params) {
		a.errorf(errors.TypeArgCount, n.Span, "type '%s' expects %d type arguments, but got %d", n.Name, len(params), len(args))
		args = args[:len(params)]
	}
	if len(args) == 0 {
		args = nil
	}
	return &types.TypeRef{Name: n.Name, TypeArgs: args}
}

// qualifiedType resolves `ns.Name` against a namespace import.
func (a *analyzer) qualifiedType(n *ast.TsTypeRef, ns, member string) types.Type {
	if a.erroredImports[ns] {
		return types.Any
	}
	t, ok := a.resolvedImports[ns]
	if !ok {
		err := a.errorf(errors.UndefinedSymbol, n.Span, "cannot find namespace '%s'", ns)
		err.Name = ns
		return types.Any
	}
	if m := types.FindMember(t, member, nil); m != nil {
		return types.ElementType(m)
	}
	err := a.errorf(errors.NotExported, n.Span, "namespace '%s' has no exported member '%s'", ns, member)
	err.Name = member
	return types.Any
}

func typeParamsOf(t types.Type) []*types.Param {
	switch t := t.(type) {
	case *types.Interface:
		return t.TypeParams
	case *types.Class:
		return t.TypeParams
	case *types.Alias:
		return t.TypeParams
	}
	return nil
}

// lookupType finds a type name: scope, then type-like imports, then the
// builtin table.
func (a *analyzer) lookupType(name string) (types.Type, bool) {
	if t, ok := a.scopes.FindType(a.cur, name); ok {
		return t, true
	}
	if t, ok := a.resolvedImports[name]; ok {
		switch t.(type) {
		case *types.Interface, *types.Alias, *types.Class, *types.Enum:
			return t, true
		}
	}
	if t, ok := a.c.builtins.Type(name); ok {
		return t, true
	}
	return nil, false
}

// signature converts a function-shaped annotation. Type parameters are
// visible to the parameter and return annotations only. ret is used when
// the return annotation is missing.
func (a *analyzer) signature(tps []*ast.TypeParamDecl, params []ast.Pat, retAnn ast.TsType, ret types.Type) *types.Function {
	f := &types.Function{}
	a.withScope(scope.Block, func(id scope.ID) {
		f.TypeParams = a.declareTypeParams(tps)
		for _, p := range params {
			f.Params = append(f.Params, a.annotatedParam(p))
		}
		if retAnn != nil {
			f.Return = a.resolveAnnotation(retAnn)
		} else {
			f.Return = ret
		}
	})
	return f
}

// declareTypeParams registers type parameters in the current scope.
func (a *analyzer) declareTypeParams(decls []*ast.TypeParamDecl) []*types.Param {
	if len(decls) == 0 {
		return nil
	}
	out := make([]*types.Param, len(decls))
	for i, d := range decls {
		p := &types.Param{Name: d.Name}
		a.scopes.RegisterType(a.cur, d.Name, p)
		out[i] = p
	}
	// Constraints may mention any parameter of the list.
	for i, d := range decls {
		if d.Constraint != nil {
			out[i].Constraint = a.resolveAnnotation(d.Constraint)
		}
		if d.Default != nil {
			out[i].Default = a.resolveAnnotation(d.Default)
		}
	}
	return out
}

// annotatedParam describes a parameter from its annotation alone.
func (a *analyzer) annotatedParam(p ast.Pat) types.FnParam {
	fp := types.FnParam{Name: patName(p), Type: types.Any}
	switch p := p.(type) {
	case *ast.IdentPat:
		fp.Optional = p.Optional
	case *ast.AssignPat:
		fp.Optional = true
	case *ast.RestPat:
		fp.Rest = true
		fp.Type = &types.Array{Elem: types.Any}
	}
	if ann := ast.PatType(p); ann != nil {
		fp.Type = a.resolveAnnotation(ann)
	}
	return fp
}

func patName(p ast.Pat) string {
	switch p := p.(type) {
	case *ast.IdentPat:
		return p.Name
	case *ast.AssignPat:
		return patName(p.Left)
	case *ast.RestPat:
		return patName(p.Arg)
	}
	return ""
}

// typeElements converts interface and type literal members.
func (a *analyzer) typeElements(els []ast.TsTypeElement) []types.TypeElement {
	out := make([]types.TypeElement, 0, len(els))
	for _, el := range els {
		switch el := el.(type) {
		case *ast.TsPropertySig:
			out = append(out, &types.Property{
				Key:      a.propKey(el.Key),
				Type:     a.resolveAnnotation(el.Type),
				Optional: el.Optional,
				Readonly: el.Readonly,
			})
		case *ast.TsMethodSig:
			out = append(out, &types.Method{
				Key:      a.propKey(el.Key),
				Sig:      a.signature(el.TypeParams, el.Params, el.Return, types.Any),
				Optional: el.Optional,
			})
		case *ast.TsCallSig:
			out = append(out, &types.CallSignature{Sig: a.signature(el.TypeParams, el.Params, el.Return, types.Any)})
		case *ast.TsConstructSig:
			out = append(out, &types.ConstructorSignature{Sig: a.signature(el.TypeParams, el.Params, el.Return, types.Any)})
		}
	}
	return out
}

// propKey converts a property key. Computed keys whose value is unknown
// are typed for their diagnostics and keep no name.
func (a *analyzer) propKey(k *ast.PropName) types.Key {
	if name, ok := k.Static(); ok {
		return types.Key{Name: name}
	}
	if k != nil && k.Computed != nil {
		a.typeOf(k.Computed)
	}
	return types.Key{Computed: true}
}

// --- Expansion ---

const maxExpandDepth = 16

// expand resolves unexpanded references at the top of t and strips Alias
// and Static layers.
func (a *analyzer) expand(t types.Type) types.Type {
	for i := 0; i < maxExpandDepth; i++ {
		n := types.Normalize(t)
		next := a.expandOnce(n)
		if next == n {
			return n
		}
		t = next
	}
	return types.Normalize(t)
}

// expander adapts expand for the structural helpers in pkg/types.
func (a *analyzer) expander() types.Expander {
	return func(t types.Type) types.Type { return a.expand(t) }
}

func (a *analyzer) expandOnce(t types.Type) types.Type {
	switch t := t.(type) {
	case *types.TypeRef:
		return a.expandRef(t)
	case *types.TypeQuery:
		return a.expandQuery(t)
	}
	return t
}

func (a *analyzer) expandRef(r *types.TypeRef) types.Type {
	target, ok := a.lookupType(r.Name)
	if !ok {
		return types.Any
	}
	switch t := target.(type) {
	case *types.Interface:
		if t.Name == "Array" && a.isBuiltinType(r.Name, t) {
			elem := types.Type(types.Any)
			if len(r.TypeArgs) > 0 {
				elem = r.TypeArgs[0]
			}
			return &types.Array{Elem: elem}
		}
		if len(t.TypeParams) == 0 {
			return t
		}
		return t.Instantiate(r.TypeArgs)
	case *types.Class:
		return &types.ClassInstance{Class: t, TypeArgs: classArgs(t, r.TypeArgs)}
	case *types.Alias:
		if t.Target == nil {
			return types.Any
		}
		return t.Instantiate(r.TypeArgs)
	}
	return target
}

// classArgs completes the type arguments of a class reference.
func classArgs(c *types.Class, args []types.Type) []types.Type {
	if len(c.TypeParams) == 0 {
		return nil
	}
	b := types.BindParams(c.TypeParams, args)
	out := make([]types.Type, len(c.TypeParams))
	for i, p := range c.TypeParams {
		out[i] = b[p.Name]
	}
	return out
}

func (a *analyzer) isBuiltinType(name string, t types.Type) bool {
	b, ok := a.c.builtins.Type(name)
	return ok && b == t
}

// expandQuery resolves `typeof name` to the type of the value. A function
// being declared is bound to its own query; that stays unexpanded.
func (a *analyzer) expandQuery(q *types.TypeQuery) types.Type {
	if v, ok := a.scopes.Find(a.cur, q.Name); ok {
		if self, ok := v.Type().(*types.TypeQuery); ok && self.Name == q.Name {
			return q
		}
		return v.Type()
	}
	if t, ok := a.resolvedImports[q.Name]; ok {
		return t
	}
	if t, ok := a.c.builtins.Var(q.Name); ok {
		return t
	}
	return types.Any
}

// assignable checks assignability with references resolved in the current
// scope.
func (a *analyzer) assignable(source, target types.Type) bool {
	return types.Assignable(source, target, a.expander())
}

// box maps a receiver to the type whose members it exposes: primitives to
// their wrapper interfaces, arrays and tuples to Array<T>, functions to
// Function.
func (a *analyzer) box(t types.Type) types.Type {
	t = a.expand(types.Widen(t))
	switch v := t.(type) {
	case *types.Keyword:
		name := ""
		switch v {
		case types.Number:
			name = "Number"
		case types.String:
			name = "String"
		case types.Boolean:
			name = "Boolean"
		case types.Symbol:
			name = "Symbol"
		}
		if b, ok := a.c.builtins.Type(name); ok && name != "" {
			return b
		}
	case *types.Array:
		return a.arrayIface(v.Elem)
	case *types.Tuple:
		return a.arrayIface(v.ElemUnion())
	case *types.Function:
		if a.functionIface != nil {
			return a.functionIface
		}
	}
	return t
}

func (a *analyzer) arrayIface(elem types.Type) types.Type {
	b, ok := a.c.builtins.Type("Array")
	if !ok {
		return types.Any
	}
	if iface, ok := b.(*types.Interface); ok {
		return iface.Instantiate([]types.Type{elem})
	}
	return b
}
