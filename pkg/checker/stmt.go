package checker

import (
	"tscheck/pkg/ast"
	"tscheck/pkg/errors"
	"tscheck/pkg/scope"
	"tscheck/pkg/types"
)

// visitStmt checks a statement. The returned type is the expression type
// of an expression statement and nil otherwise.
func (a *analyzer) visitStmt(s ast.Stmt) types.Type {
	switch s := s.(type) {
	case *ast.ExprStmt:
		return a.typeOf(s.Expr)
	case *ast.BlockStmt:
		a.withScope(scope.Block, func(scope.ID) { a.visitStmts(s.Stmts, false) })
	case *ast.EmptyStmt, *ast.BreakStmt, *ast.ContinueStmt:
	case *ast.ReturnStmt:
		a.visitReturn(s)
	case *ast.IfStmt:
		a.typeOf(s.Test)
		a.visitNested(s.Cons)
		a.visitNested(s.Alt)
	case *ast.ForStmt:
		a.withScope(scope.Block, func(scope.ID) {
			if s.Init != nil {
				a.visitStmt(s.Init)
			}
			a.typeOf(s.Test)
			a.typeOf(s.Update)
			a.visitNested(s.Body)
		})
	case *ast.ForInOfStmt:
		a.visitForInOf(s)
	case *ast.WhileStmt:
		a.typeOf(s.Test)
		a.visitNested(s.Body)
	case *ast.DoWhileStmt:
		a.visitNested(s.Body)
		a.typeOf(s.Test)
	case *ast.ThrowStmt:
		a.typeOf(s.Arg)
	case *ast.TryStmt:
		a.visitStmt(s.Block)
		if s.Handler != nil {
			a.withScope(scope.Block, func(scope.ID) {
				if s.Param != nil {
					a.bindPattern(scope.Let, s.Param, types.Any, true)
				}
				a.visitStmts(s.Handler.Stmts, false)
			})
		}
		if s.Finalizer != nil {
			a.visitStmt(s.Finalizer)
		}
	case *ast.SwitchStmt:
		a.typeOf(s.Disc)
		a.withScope(scope.Block, func(scope.ID) {
			var body []ast.Stmt
			for _, c := range s.Cases {
				a.typeOf(c.Test)
				body = append(body, c.Cons...)
			}
			a.visitStmts(body, false)
		})
	case *ast.LabeledStmt:
		a.visitNested(s.Body)

	// --- Declarations ---
	case *ast.VarDecl:
		a.visitVarDecl(s)
	case *ast.FnDecl:
		a.visitFnDecl(s)
	case *ast.ClassDecl:
		a.visitClassDecl(s)
	case *ast.InterfaceDecl, *ast.TypeAliasDecl:
		// Registered while hoisting.
	case *ast.EnumDecl:
		// Registered while hoisting.

	// --- Modules ---
	case *ast.ImportDecl, *ast.ExportAll:
		// Loaded before the list was visited.
	case *ast.ExportDecl:
		a.visitExportDecl(s)
	case *ast.ExportNamed:
		if s.Src == nil {
			for _, sp := range s.Specifiers {
				a.pendingExports = append(a.pendingExports, pendingExport{local: sp.Local, exported: sp.Exported, span: sp.Span})
			}
		}
	case *ast.ExportDefault:
		a.pendingDefault = s.Expr
	default:
		debugPrintf("// [Checker visitStmt] unhandled statement %T\n", s)
	}
	return nil
}

// visitNested visits the body of a control statement. A bare declaration
// still gets its own scope.
func (a *analyzer) visitNested(s ast.Stmt) {
	if s == nil {
		return
	}
	if b, ok := s.(*ast.BlockStmt); ok {
		a.visitStmt(b)
		return
	}
	a.withScope(scope.Block, func(scope.ID) { a.visitStmts([]ast.Stmt{s}, false) })
}

func (a *analyzer) visitReturn(s *ast.ReturnStmt) {
	t := types.Type(types.Void)
	if s.Arg != nil {
		t = a.typeOf(s.Arg)
	}
	f := a.frame()
	if f == nil {
		return
	}
	f.returns = append(f.returns, t)
	if f.declared == nil {
		return
	}
	want := f.declared
	if f.async {
		want = a.awaited(want)
	}
	if s.Arg == nil {
		return
	}
	if !a.assignable(t, want) {
		err := a.errorf(errors.AssignFailed, s.Span, "type '%s' is not assignable to type '%s'", t, want)
		err.Expected, err.Actual = want, t
	}
}

func (a *analyzer) visitForInOf(s *ast.ForInOfStmt) {
	right := a.typeOf(s.Right)
	elem := types.Type(types.String)
	if s.Of {
		elem = a.iteratedType(right)
	}
	a.withScope(scope.Block, func(scope.ID) {
		switch left := s.Left.(type) {
		case *ast.VarDecl:
			kind := varKind(left.Kind)
			for _, d := range left.Decls {
				t := elem
				if ann := ast.PatType(d.Name); ann != nil {
					t = a.resolveAnnotation(ann)
				}
				a.bindPattern(kind, d.Name, t, true)
			}
		case *ast.ExprStmt:
			a.typeOf(left.Expr)
		}
		a.visitNested(s.Body)
	})
}

// iteratedType is the element type produced by `for ... of`.
func (a *analyzer) iteratedType(t types.Type) types.Type {
	switch v := a.expand(types.Widen(t)).(type) {
	case *types.Array:
		return v.Elem
	case *types.Tuple:
		return v.ElemUnion()
	case *types.Keyword:
		if v == types.String {
			return types.String
		}
	case *types.Interface:
		if len(v.TypeArgs) == 1 {
			switch v.Name {
			case "Set", "Array", "ReadonlyArray":
				return v.TypeArgs[0]
			}
		}
		if v.Name == "Map" && len(v.TypeArgs) == 2 {
			return &types.Tuple{Elems: v.TypeArgs}
		}
	}
	return types.Any
}

func varKind(k ast.VarKind) scope.VarKind {
	switch k {
	case ast.VarKindLet:
		return scope.Let
	case ast.VarKindConst:
		return scope.Const
	}
	return scope.Var
}
