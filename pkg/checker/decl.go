package checker

import (
	"tscheck/pkg/ast"
	"tscheck/pkg/errors"
	"tscheck/pkg/scope"
	"tscheck/pkg/source"
	"tscheck/pkg/types"
)

// --- Hoisting ---

// hoist makes the declarations of a statement list visible to the whole
// list before it is visited. Type names are registered first, as empty
// shells, so declarations may refer to each other in any order; the shells
// are then filled in place.
func (a *analyzer) hoist(stmts []ast.Stmt) {
	decls := make([]ast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		if e, ok := s.(*ast.ExportDecl); ok {
			s = e.Decl
		}
		decls = append(decls, s)
	}

	interfaces := map[string]*types.Interface{}
	for _, s := range decls {
		switch d := s.(type) {
		case *ast.InterfaceDecl:
			if _, ok := interfaces[d.Ident.Name]; ok {
				continue // merged below
			}
			iface := &types.Interface{Name: d.Ident.Name}
			interfaces[d.Ident.Name] = iface
			a.scopes.RegisterType(a.cur, d.Ident.Name, iface)
		case *ast.TypeAliasDecl:
			a.scopes.RegisterType(a.cur, d.Ident.Name, &types.Alias{Name: d.Ident.Name})
		case *ast.EnumDecl:
			a.scopes.RegisterType(a.cur, d.Ident.Name, &types.Enum{Name: d.Ident.Name, Const: d.Const})
		case *ast.ClassDecl:
			a.scopes.RegisterType(a.cur, d.Ident.Name, &types.Class{Name: d.Ident.Name})
		}
	}

	for _, s := range decls {
		if d, ok := s.(*ast.InterfaceDecl); ok {
			a.fillInterface(interfaces[d.Ident.Name], d)
		}
	}
	for _, s := range decls {
		switch d := s.(type) {
		case *ast.TypeAliasDecl:
			if t, ok := a.ownType(d.Ident.Name).(*types.Alias); ok {
				a.fillAlias(t, d)
			}
		case *ast.EnumDecl:
			if t, ok := a.ownType(d.Ident.Name).(*types.Enum); ok {
				a.fillEnum(t, d)
			}
		}
	}

	a.hoistFunctions(decls)

	for _, s := range decls {
		switch d := s.(type) {
		case *ast.VarDecl:
			if d.Kind != ast.VarKindVar {
				continue
			}
			vs := a.scopes.VarScope(a.cur)
			for _, v := range d.Decls {
				for _, name := range ast.BoundNames(v.Name) {
					if _, ok := a.scopes.FindOwn(vs, name); !ok {
						_ = a.scopes.Declare(vs, v.Span, name, scope.Var, nil, false, true)
					}
				}
			}
		case *ast.ClassDecl:
			a.declare(d.Ident.Span, d.Ident.Name, scope.ClassDecl, a.ownType(d.Ident.Name), false)
		case *ast.EnumDecl:
			a.declare(d.Ident.Span, d.Ident.Name, scope.EnumDecl, a.ownType(d.Ident.Name), true)
		}
	}
}

// ownType returns the type registered under name, or any.
func (a *analyzer) ownType(name string) types.Type {
	if t, ok := a.scopes.FindType(a.cur, name); ok {
		return t
	}
	return types.Any
}

// hoistFunctions binds every function declaration of the list to its
// annotated signature. Names with body-less overload signatures are bound
// to the set of overloads.
func (a *analyzer) hoistFunctions(decls []ast.Stmt) {
	overloads := map[string][]types.TypeElement{}
	var order []*ast.FnDecl
	for _, s := range decls {
		d, ok := s.(*ast.FnDecl)
		if !ok {
			continue
		}
		order = append(order, d)
		if d.Fn.Body == nil && !d.Declare {
			sig := a.signature(d.Fn.TypeParams, d.Fn.Params, d.Fn.ReturnType, types.Any)
			overloads[d.Ident.Name] = append(overloads[d.Ident.Name], &types.CallSignature{Sig: sig})
		}
	}
	seen := map[string]bool{}
	for _, d := range order {
		name := d.Ident.Name
		if seen[name] {
			continue
		}
		seen[name] = true
		var t types.Type
		if sigs := overloads[name]; len(sigs) > 1 {
			t = &types.TypeLiteral{Members: sigs}
		} else {
			t = a.signature(d.Fn.TypeParams, d.Fn.Params, d.Fn.ReturnType, types.Any)
		}
		a.declare(d.Ident.Span, name, scope.Fn, t, true)
	}
}

func (a *analyzer) isOverloaded(name string) bool {
	v, ok := a.scopes.FindOwn(a.cur, name)
	if !ok || v.Kind != scope.Fn {
		return false
	}
	_, ok = v.Type().(*types.TypeLiteral)
	return ok
}

func (a *analyzer) fillInterface(iface *types.Interface, d *ast.InterfaceDecl) {
	a.withScope(scope.Block, func(scope.ID) {
		if len(iface.TypeParams) == 0 {
			iface.TypeParams = a.declareTypeParams(d.TypeParams)
		} else {
			for _, p := range iface.TypeParams {
				a.scopes.RegisterType(a.cur, p.Name, p)
			}
		}
		for _, ext := range d.Extends {
			iface.Extends = append(iface.Extends, a.resolveTypeRef(ext))
		}
		iface.Body = append(iface.Body, a.typeElements(d.Body)...)
	})
}

// fillAlias resolves an alias target. Non-generic aliases are expanded
// eagerly unless the target names a type of this list that may still be
// incomplete.
func (a *analyzer) fillAlias(alias *types.Alias, d *ast.TypeAliasDecl) {
	a.withScope(scope.Block, func(scope.ID) {
		alias.TypeParams = a.declareTypeParams(d.TypeParams)
		alias.Target = a.resolveAnnotation(d.Type)
	})
	if len(alias.TypeParams) == 0 {
		if ref, ok := alias.Target.(*types.TypeRef); ok && ref.Name != alias.Name {
			if t, ok := a.lookupType(ref.Name); ok {
				if inner, ok := t.(*types.Alias); !ok || inner.Target != nil {
					alias.Target = a.expand(ref)
				}
			}
		}
	}
}

// --- Variables ---

func (a *analyzer) visitVarDecl(d *ast.VarDecl) {
	kind := varKind(d.Kind)
	for _, v := range d.Decls {
		a.visitDeclarator(kind, v, d.Declare)
	}
}

func (a *analyzer) visitDeclarator(kind scope.VarKind, v *ast.VarDeclarator, ambient bool) {
	ann := ast.PatType(v.Name)
	var declared types.Type
	if ann != nil {
		declared = a.resolveAnnotation(ann)
	}

	if v.Init == nil {
		t := declared
		if t == nil {
			t = types.Any
			if kind == scope.Var || kind == scope.Let {
				t = nil
			}
		}
		a.bindPattern(kind, v.Name, t, ambient)
		return
	}

	if declared != nil {
		a.implicitAnyAllowed = v.Init
	}
	mark := a.pushDeclaring(ast.BoundNames(v.Name), false)
	value := a.typeOf(v.Init)
	a.popDeclaring(mark)
	a.implicitAnyAllowed = nil

	if declared != nil {
		if !a.assignable(value, declared) {
			err := a.errorf(errors.AssignFailed, v.Span, "type '%s' is not assignable to type '%s'", value, declared)
			err.Expected, err.Actual = declared, value
		}
		a.bindPattern(kind, v.Name, declared, true)
		return
	}

	t, implicit := a.widenTuple(value)
	if implicit && a.c.opts.Rule.NoImplicitAny {
		a.reportImplicitAny(v.Name, value)
	}
	a.bindPattern(kind, v.Name, a.inferredType(kind, t), true)
}

// inferredType is the type a binding takes from its initializer: literals
// of a const stay exact, everything else is widened.
func (a *analyzer) inferredType(kind scope.VarKind, t types.Type) types.Type {
	if kind == scope.Const {
		if lit, ok := t.(*types.Literal); ok {
			return &types.Static{Value: lit, Declared: lit.Base()}
		}
		if _, ok := t.(*types.Static); ok {
			return t
		}
	}
	return types.DeepWiden(t)
}

// widenTuple replaces undefined and null tuple elements with any. implicit
// reports whether any element was replaced.
func (a *analyzer) widenTuple(t types.Type) (types.Type, bool) {
	tup, ok := t.(*types.Tuple)
	if !ok {
		return t, false
	}
	implicit := false
	elems := make([]types.Type, len(tup.Elems))
	for i, e := range tup.Elems {
		if types.IsNullish(types.Normalize(e)) {
			elems[i] = types.Any
			implicit = true
			continue
		}
		elems[i] = e
	}
	if !implicit {
		return t, false
	}
	return &types.Tuple{Elems: elems}, true
}

// reportImplicitAny reports the widened tuple elements: once at a plain
// name, or at each affected element of an array pattern.
func (a *analyzer) reportImplicitAny(p ast.Pat, value types.Type) {
	switch p := p.(type) {
	case *ast.ArrayPat:
		tup, _ := value.(*types.Tuple)
		for i, el := range p.Elems {
			if el == nil || tup == nil || i >= len(tup.Elems) {
				continue
			}
			if types.IsNullish(types.Normalize(tup.Elems[i])) {
				a.implicitAny(el.NodeSpan(), patName(el))
			}
		}
	default:
		a.implicitAny(p.NodeSpan(), patName(p))
	}
}

func (a *analyzer) implicitAny(span source.Span, name string) {
	err := a.errorf(errors.ImplicitAny, span, "variable '%s' implicitly has an 'any' type", name)
	err.Name = name
}

// --- Patterns ---

// bindPattern declares the names of a pattern against a value of type t.
// A nil t declares uninitialized bindings.
func (a *analyzer) bindPattern(kind scope.VarKind, p ast.Pat, t types.Type, initialized bool) {
	switch p := p.(type) {
	case *ast.IdentPat:
		a.bindName(kind, p.Span, p.Name, t, initialized)
	case *ast.AssignPat:
		def := a.typeOf(p.Right)
		if t == nil || types.Normalize(t) == types.Undefined {
			t = def
		} else if ast.PatType(p.Left) == nil {
			t = types.NewUnion(types.RemoveNullish(t), types.DeepWiden(def))
		}
		a.bindPattern(kind, p.Left, t, initialized)
	case *ast.RestPat:
		a.bindPattern(kind, p.Arg, t, initialized)
	case *ast.ArrayPat:
		for i, el := range p.Elems {
			if el == nil {
				continue
			}
			a.bindPattern(kind, el, a.elementAt(t, i, el), initialized)
		}
	case *ast.ObjectPat:
		var used []string
		for _, prop := range p.Props {
			name, ok := prop.Key.Static()
			if !ok {
				a.propKey(prop.Key)
				a.bindPattern(kind, prop.Value, types.Any, initialized)
				continue
			}
			used = append(used, name)
			pt := types.Type(types.Any)
			if t != nil {
				pt = a.access(prop.Span, t, name)
			}
			a.bindPattern(kind, prop.Value, pt, initialized)
		}
		if p.Rest != nil {
			a.bindPattern(kind, p.Rest, a.restOf(t, used), initialized)
		}
	}
}

func (a *analyzer) bindName(kind scope.VarKind, span source.Span, name string, t types.Type, initialized bool) {
	id := a.cur
	if kind == scope.Var {
		id = a.scopes.VarScope(a.cur)
	}
	if t == nil {
		initialized = false
	}
	if err := a.scopes.Declare(id, span, name, kind, t, initialized, kind == scope.Param); err != nil {
		a.report(err)
	}
}

// elementAt is the type bound by the i-th element of an array pattern.
func (a *analyzer) elementAt(t types.Type, i int, el ast.Pat) types.Type {
	if t == nil {
		return nil
	}
	_, rest := el.(*ast.RestPat)
	switch v := a.expand(t).(type) {
	case *types.Tuple:
		if rest {
			if i < len(v.Elems) {
				return &types.Tuple{Elems: v.Elems[i:]}
			}
			return &types.Tuple{Elems: []types.Type{}}
		}
		if i < len(v.Elems) {
			return v.Elems[i]
		}
		return types.Undefined
	case *types.Array:
		if rest {
			return v
		}
		return v.Elem
	}
	if rest {
		return &types.Array{Elem: types.Any}
	}
	return types.Any
}

// restOf is the object type bound by `...rest` in an object pattern.
func (a *analyzer) restOf(t types.Type, used []string) types.Type {
	if t == nil {
		return nil
	}
	lit := &types.TypeLiteral{}
next:
	for _, m := range types.Members(t, a.expander()) {
		k := m.ElementKey()
		if k.Name == "" {
			continue
		}
		for _, u := range used {
			if u == k.Name {
				continue next
			}
		}
		lit.Members = append(lit.Members, m)
	}
	return lit
}
