package checker

import (
	"tscheck/pkg/ast"
	"tscheck/pkg/errors"
	"tscheck/pkg/scope"
	"tscheck/pkg/source"
	"tscheck/pkg/types"
)

// visitFn checks a function body and returns its signature. A named
// function sees itself as a query of its own name, so recursive calls type
// as any instead of recursing into the checker. this is nil for plain
// functions.
func (a *analyzer) visitFn(name string, fn *ast.Function, this types.Type) *types.Function {
	sig := &types.Function{}
	a.withScope(scope.Function, func(id scope.ID) {
		if this == nil {
			this = types.Any
		}
		a.scopes.SetThis(id, this)
		if name != "" {
			_ = a.scopes.Declare(id, fn.Span, name, scope.Fn, &types.TypeQuery{Name: name}, true, true)
			a.scopes.SetDeclaringFn(id, name)
		}
		sig.TypeParams = a.declareTypeParams(fn.TypeParams)
		sig.Params = a.declareParams(fn.Params)

		f := &fnFrame{async: fn.Async}
		if fn.ReturnType != nil {
			f.declared = a.resolveAnnotation(fn.ReturnType)
		}
		a.frames = append(a.frames, f)
		if fn.Body != nil {
			a.visitStmts(fn.Body.Stmts, false)
		}
		a.frames = a.frames[:len(a.frames)-1]

		switch {
		case fn.Generator:
			sig.Return = types.Any
		case f.declared != nil:
			sig.Return = f.declared
		default:
			sig.Return = a.returnType(fn.Span, name, f)
		}
	})
	return sig
}

// visitArrow checks an arrow function. this is inherited from the
// enclosing scope.
func (a *analyzer) visitArrow(e *ast.ArrowExpr) *types.Function {
	sig := &types.Function{}
	a.withScope(scope.Function, func(scope.ID) {
		sig.TypeParams = a.declareTypeParams(e.TypeParams)
		sig.Params = a.declareParams(e.Params)

		f := &fnFrame{async: e.Async}
		if e.ReturnType != nil {
			f.declared = a.resolveAnnotation(e.ReturnType)
		}
		a.frames = append(a.frames, f)
		if e.Body != nil {
			a.visitStmts(e.Body.Stmts, false)
		} else {
			a.visitReturn(&ast.ReturnStmt{Base: ast.Base{Span: e.ExprBody.NodeSpan()}, Arg: e.ExprBody})
		}
		a.frames = a.frames[:len(a.frames)-1]

		if f.declared != nil {
			sig.Return = f.declared
			return
		}
		sig.Return = a.returnType(e.Span, "", f)
	})
	return sig
}

// returnType infers the return type of an unannotated function from the
// collected returns.
func (a *analyzer) returnType(span source.Span, name string, f *fnFrame) types.Type {
	var ret types.Type = types.Void
	if len(f.returns) > 0 {
		widened := make([]types.Type, len(f.returns))
		for i, t := range f.returns {
			widened[i] = types.DeepWiden(t)
		}
		ret = types.NewUnion(widened...)
	}
	if t, implicit := a.widenTuple(ret); implicit {
		ret = t
		if a.c.opts.Rule.NoImplicitAny && a.implicitAnyAllowed == nil {
			if name == "" {
				name = "function"
			}
			a.errorf(errors.ImplicitAny, span, "'%s' implicitly has return type 'any'", name)
		}
	}
	if f.async {
		ret = a.promiseOf(ret)
	}
	return ret
}

// promiseOf wraps t in Promise<T> when the Promise type is available.
func (a *analyzer) promiseOf(t types.Type) types.Type {
	if _, ok := a.lookupType("Promise"); !ok {
		return types.Any
	}
	return &types.TypeRef{Name: "Promise", TypeArgs: []types.Type{a.awaited(t)}}
}

// declareParams binds parameters in the current scope and describes them.
// A default value cannot refer to the parameter it initializes.
func (a *analyzer) declareParams(params []ast.Pat) []types.FnParam {
	out := make([]types.FnParam, 0, len(params))
	for _, p := range params {
		fp := types.FnParam{Name: patName(p), Type: types.Any}
		ann := ast.PatType(p)
		if ann != nil {
			fp.Type = a.resolveAnnotation(ann)
		}
		target := p
		switch p := p.(type) {
		case *ast.IdentPat:
			fp.Optional = p.Optional
		case *ast.AssignPat:
			fp.Optional = true
			target = p.Left
			mark := a.pushDeclaring(ast.BoundNames(p.Left), true)
			def := a.typeOf(p.Right)
			a.popDeclaring(mark)
			if ann == nil {
				fp.Type = types.DeepWiden(def)
			} else if !a.assignable(def, fp.Type) {
				err := a.errorf(errors.AssignFailed, p.Right.NodeSpan(), "type '%s' is not assignable to type '%s'", def, fp.Type)
				err.Expected, err.Actual = fp.Type, def
			}
		case *ast.RestPat:
			fp.Rest = true
			target = p.Arg
			if ann == nil {
				fp.Type = &types.Array{Elem: types.Any}
			}
		}
		a.bindPattern(scope.Param, target, fp.Type, true)
		out = append(out, fp)
	}
	return out
}

// visitFnDecl checks a function declaration and rebinds its name to the
// inferred signature. Overloaded names keep their overload set.
func (a *analyzer) visitFnDecl(d *ast.FnDecl) {
	if d.Fn.Body == nil {
		return
	}
	sig := a.visitFn(d.Ident.Name, d.Fn, nil)
	if a.isOverloaded(d.Ident.Name) {
		return
	}
	a.scopes.Override(a.cur, scope.Fn, d.Ident.Name, sig)
}
