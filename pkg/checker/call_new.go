package checker

import (
	"fmt"

	"tscheck/pkg/ast"
	"tscheck/pkg/errors"
	"tscheck/pkg/source"
	"tscheck/pkg/types"
)

// ExtractKind selects the signature kind a callee must provide.
type ExtractKind int

const (
	ExtractCall ExtractKind = iota
	ExtractNew
)

func (k ExtractKind) String() string {
	if k == ExtractNew {
		return "new"
	}
	return "call"
}

// callArgs are the argument types of one call site. They are computed once
// and shared by every candidate signature.
type callArgs struct {
	types []types.Type
	// variadic is set when a spread of unknown length hides the real count.
	variadic bool
}

func (a *analyzer) typeArgs(args []*ast.ExprOrSpread) callArgs {
	var out callArgs
	for _, arg := range args {
		if arg == nil {
			continue
		}
		t := a.typeOf(arg.Expr)
		if !arg.Spread {
			out.types = append(out.types, t)
			continue
		}
		switch v := a.expand(t).(type) {
		case *types.Tuple:
			out.types = append(out.types, v.Elems...)
		default:
			out.variadic = true
		}
	}
	return out
}

// resolveCall types a call or new expression.
func (a *analyzer) resolveCall(span source.Span, callee ast.Expr, kind ExtractKind, argNodes []*ast.ExprOrSpread, typeArgNodes []ast.TsType) types.Type {
	if kind == ExtractCall && isRequireCallee(callee) && !a.requireShadowed && !a.isBound("require") {
		a.typeArgs(argNodes)
		return a.requireType(span, argNodes)
	}

	args := a.typeArgs(argNodes)
	var typeArgs []types.Type
	for _, t := range typeArgNodes {
		typeArgs = append(typeArgs, a.resolveAnnotation(t))
	}

	switch c := callee.(type) {
	case *ast.MemberExpr:
		if kind == ExtractCall {
			return a.callMember(span, c, args, typeArgs)
		}
		return a.extractOrAny(span, a.expand(a.typeOfMember(c)), ExtractNew, args, typeArgs)
	case *ast.SuperExpr:
		a.superType()
		return types.Void
	}

	t := a.expand(a.typeOf(callee))
	if kind == ExtractCall && t == types.Any {
		if len(typeArgs) > 0 {
			a.errorf(errors.TypeArgsOnUntyped, span, "untyped function calls may not accept type arguments")
		}
		return types.Any
	}
	return a.extractOrAny(span, t, kind, args, typeArgs)
}

func (a *analyzer) isBound(name string) bool {
	_, ok := a.scopes.Find(a.cur, name)
	return ok
}

// requireType is the namespace a literal require call loaded.
func (a *analyzer) requireType(span source.Span, args []*ast.ExprOrSpread) types.Type {
	src, ok := requireSource(&ast.CallExpr{Args: args})
	if !ok {
		// Reported when the imports were extracted.
		return types.Any
	}
	if t, ok := a.requires[src]; ok {
		return t
	}
	if a.erroredRequires[src] {
		return types.Any
	}
	err := a.errorf(errors.UndefinedSymbol, span, "module %q was not imported", src)
	err.Name = src
	return types.Any
}

func (a *analyzer) extractOrAny(span source.Span, t types.Type, kind ExtractKind, args callArgs, typeArgs []types.Type) types.Type {
	ret, err := a.extract(span, t, kind, args, typeArgs)
	if err != nil {
		a.report(err)
		return types.Any
	}
	return ret
}

// --- Member calls ---

// callMember resolves `obj.prop(args)` by method lookup on the receiver.
func (a *analyzer) callMember(span source.Span, m *ast.MemberExpr, args callArgs, typeArgs []types.Type) types.Type {
	obj := a.typeOf(m.Obj)
	name, ok := m.PropName()
	if !ok || m.Computed {
		index := types.Type(types.Any)
		if m.Computed {
			index = a.typeOf(m.Prop)
		}
		if !ok {
			return a.callValue(span, a.indexType(obj, index), args, typeArgs)
		}
	}
	if name == "toString" {
		return types.String
	}

	recv := a.expand(types.Widen(obj))
	switch v := recv.(type) {
	case *types.Union:
		return a.callUnionMember(span, v, name, args, typeArgs)
	case *types.TypeQuery:
		return types.Any
	case *types.Keyword:
		switch v {
		case types.Any:
			return types.Any
		case types.Unknown:
			a.errorf(errors.UnknownTypeUsed, span, "object is of type 'unknown'")
			return types.Any
		}
	case *types.Param:
		if v.Constraint == nil {
			return types.Any
		}
		recv = a.expand(v.Constraint)
	}

	ret, err := a.callMethod(span, recv, name, args, typeArgs)
	if err != nil {
		a.report(err)
		return types.Any
	}
	return ret
}

// callMethod selects a method named name on recv. Candidates are the
// receiver's own methods followed by those of Object; with several, the
// first whose parameter count equals the argument count is used.
func (a *analyzer) callMethod(span source.Span, recv types.Type, name string, args callArgs, typeArgs []types.Type) (types.Type, *errors.Error) {
	boxed := a.box(recv)
	xp := a.expander()
	candidates := types.MethodsNamed(boxed, name, xp)
	if a.objectIface != nil && boxed != a.objectIface {
		candidates = append(candidates, types.MethodsNamed(a.objectIface, name, xp)...)
	}
	debugPrintf("// [Checker callMethod] %s.%s: %d candidates\n", boxed, name, len(candidates))

	switch len(candidates) {
	case 0:
		if p, ok := types.FindMember(boxed, name, xp).(*types.Property); ok {
			t := a.expand(p.Type)
			if t == types.Any {
				return types.Any, nil
			}
			return a.extract(span, t, ExtractCall, args, typeArgs)
		}
		err := errors.New(errors.NoCallSignature, span, "property '%s' of type '%s' is not callable", name, recv)
		err.Name = name
		err.Callee = recv
		return nil, err
	case 1:
		return a.instantiate(span, candidates[0].Sig, args, typeArgs)
	}

	for _, c := range candidates {
		if len(c.Sig.Params) == len(args.types) {
			return a.instantiate(span, c.Sig, args, typeArgs)
		}
	}
	err := errors.New(errors.NoCallSignature, span, "no overload of '%s' takes %d arguments", name, len(args.types))
	err.Name = name
	err.Callee = recv
	for _, c := range candidates {
		err.Candidates = append(err.Candidates, c.Sig)
	}
	return nil, err
}

// callUnionMember calls the method on every member of a union receiver.
func (a *analyzer) callUnionMember(span source.Span, u *types.Union, name string, args callArgs, typeArgs []types.Type) types.Type {
	var rets []types.Type
	var errs []*errors.Error
	for _, m := range u.Types {
		if types.Normalize(m) == types.Any {
			rets = append(rets, types.Any)
			continue
		}
		ret, err := a.callMethod(span, a.expand(m), name, args, typeArgs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rets = append(rets, ret)
	}
	if len(errs) > 0 {
		err := errors.New(errors.UnionError, span, "cannot call '%s' on every member of '%s'", name, u)
		err.Callee = u
		a.report(err.Wrap(errs...))
		return types.Any
	}
	return types.NewUnion(rets...)
}

// callValue calls a value obtained by a computed access.
func (a *analyzer) callValue(span source.Span, t types.Type, args callArgs, typeArgs []types.Type) types.Type {
	t = a.expand(t)
	if t == types.Any {
		return types.Any
	}
	return a.extractOrAny(span, t, ExtractCall, args, typeArgs)
}

// --- Extract ---

// extract finds the signature of t matching kind and instantiates it.
func (a *analyzer) extract(span source.Span, t types.Type, kind ExtractKind, args callArgs, typeArgs []types.Type) (types.Type, *errors.Error) {
	t = a.expand(t)
	debugPrintf("// [Checker extract] %s of %s\n", kind, t)

	switch v := t.(type) {
	case *types.Keyword:
		switch v {
		case types.Any:
			if kind == ExtractNew {
				return types.Any, nil
			}
		case types.Unknown:
			return nil, errors.New(errors.UnknownTypeUsed, span, "object is of type 'unknown'")
		}

	case *types.Function:
		if kind == ExtractCall {
			return a.instantiate(span, v, args, typeArgs)
		}

	case *types.Union:
		var errs []*errors.Error
		for _, m := range v.Types {
			ret, err := a.extract(span, m, kind, args, typeArgs)
			if err == nil {
				return ret, nil
			}
			errs = append(errs, err)
		}
		err := errors.New(errors.UnionError, span, "no member of '%s' is %s", v, callableWord(kind))
		err.Callee = v
		return nil, err.Wrap(errs...)

	case *types.Interface, *types.TypeLiteral:
		var sigs []*types.Function
		if kind == ExtractCall {
			sigs = types.CallSignatures(v, a.expander())
		} else {
			sigs = types.ConstructSignatures(v, a.expander())
		}
		var errs []*errors.Error
		for _, sig := range sigs {
			ret, err := a.instantiate(span, sig, args, typeArgs)
			if err == nil {
				return ret, nil
			}
			errs = append(errs, err)
		}
		err := noSignature(span, t, kind)
		for _, sig := range sigs {
			err.Candidates = append(err.Candidates, sig)
		}
		return nil, err.Wrap(errs...)

	case *types.Class:
		if kind == ExtractNew {
			// Constructor arguments are typed but not checked.
			return &types.ClassInstance{Class: v, TypeArgs: classArgs(v, typeArgs)}, nil
		}

	case *types.TypeQuery:
		if a.scopes.IsDeclaringFn(a.cur, v.Name) {
			return types.Any, nil
		}
	}
	return nil, noSignature(span, t, kind)
}

func noSignature(span source.Span, t types.Type, kind ExtractKind) *errors.Error {
	var err *errors.Error
	if kind == ExtractNew {
		err = errors.New(errors.NoNewSignature, span, "type '%s' has no construct signatures", t)
	} else {
		err = errors.New(errors.NoCallSignature, span, "type '%s' has no call signatures", t)
	}
	err.Callee = t
	return err
}

func callableWord(kind ExtractKind) string {
	if kind == ExtractNew {
		return "constructible"
	}
	return "callable"
}

// --- Instantiation ---

// instantiate checks a call against one signature and returns its
// instantiated return type. Errors are returned, not reported, so callers
// can try the next candidate.
func (a *analyzer) instantiate(span source.Span, sig *types.Function, args callArgs, typeArgs []types.Type) (types.Type, *errors.Error) {
	if len(typeArgs) > len(sig.TypeParams) {
		err := errors.New(errors.TypeArgCount, span, "expected %d type arguments, but got %d", len(sig.TypeParams), len(typeArgs))
		err.Callee = sig
		return nil, err
	}

	var bindings map[string]types.Type
	if len(sig.TypeParams) > 0 {
		if len(typeArgs) > 0 {
			bindings = types.BindParams(sig.TypeParams, typeArgs)
		} else {
			bindings = a.inferBindings(sig, args)
		}
	}

	n := len(args.types)
	if !args.variadic {
		if n < sig.MinArgs() || (sig.MaxArgs() >= 0 && n > sig.MaxArgs()) {
			err := errors.New(errors.ArgCount, span, "expected %s arguments, but got %d", arity(sig), n)
			err.Callee = sig
			return nil, err
		}
	}

	for i, arg := range args.types {
		pt, ok := sig.ParamAt(i)
		if !ok {
			break
		}
		pt = types.Substitute(pt, bindings)
		if !a.assignable(arg, pt) {
			err := errors.New(errors.AssignFailed, span, "argument of type '%s' is not assignable to parameter of type '%s'", arg, pt)
			err.Callee = sig
			err.Expected, err.Actual = pt, arg
			return nil, err
		}
	}

	if sig.Return == nil {
		return types.Any, nil
	}
	return types.Substitute(sig.Return, bindings), nil
}

// inferBindings infers type arguments from the argument types; parameters
// left unbound fall back to their default, then constraint, then any.
func (a *analyzer) inferBindings(sig *types.Function, args callArgs) map[string]types.Type {
	inferred := make(map[string]types.Type, len(sig.TypeParams))
	for i, arg := range args.types {
		pt, ok := sig.ParamAt(i)
		if !ok {
			break
		}
		types.InferBindings(pt, arg, sig.TypeParams, inferred)
	}
	positional := make([]types.Type, len(sig.TypeParams))
	for i, p := range sig.TypeParams {
		positional[i] = inferred[p.Name]
	}
	return types.BindParams(sig.TypeParams, positional)
}

func arity(sig *types.Function) string {
	lo, hi := sig.MinArgs(), sig.MaxArgs()
	switch {
	case hi < 0:
		return fmt.Sprintf("at least %d", lo)
	case lo == hi:
		return fmt.Sprintf("%d", lo)
	}
	return fmt.Sprintf("%d-%d", lo, hi)
}
