package checker

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tscheck/pkg/ast"
	"tscheck/pkg/errors"
	"tscheck/pkg/modules"
	"tscheck/pkg/source"
	"tscheck/pkg/types"
)

// --- Tree helpers ---

func id(name string) *ast.Ident { return ast.NewIdent(name) }

func kw(k ast.KeywordKind) ast.TsType { return ast.NewKeyword(k) }

func stmt(e ast.Expr) ast.Stmt { return ast.NewExprStmt(e) }

func ret(e ast.Expr) *ast.ReturnStmt { return &ast.ReturnStmt{Arg: e} }

func declare(kind ast.VarKind, name string, ann ast.TsType) *ast.VarDecl {
	d := ast.NewVar(kind, name, ann, nil)
	d.Declare = true
	return d
}

func fnDecl(name string, params []ast.Pat, result ast.TsType, body ...ast.Stmt) *ast.FnDecl {
	return &ast.FnDecl{
		Ident: id(name),
		Fn:    &ast.Function{Params: params, ReturnType: result, Body: &ast.BlockStmt{Stmts: body}},
	}
}

func method(name string, result ast.TsType, params ...ast.Pat) *ast.TsMethodSig {
	return &ast.TsMethodSig{Key: &ast.PropName{Name: name}, Params: params, Return: result}
}

func iface(name string, members ...ast.TsTypeElement) *ast.InterfaceDecl {
	return &ast.InterfaceDecl{Ident: id(name), Body: members}
}

func num(ann string) ast.Pat { return ast.NewParam(ann, kw(ast.KwNumber)) }

// stubLoader answers every import request with a fixed result.
type stubLoader struct {
	mu       sync.Mutex
	exports  map[string]types.Type
	err      error
	requests []*modules.ImportInfo
}

func (l *stubLoader) Load(_ context.Context, _ string, imp *modules.ImportInfo) (map[string]types.Type, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, imp)
	if l.err != nil {
		return nil, l.err
	}
	return l.exports, nil
}

func run(t *testing.T, opts Options, body ...ast.Stmt) *Info {
	t.Helper()
	c, err := New(opts)
	require.NoError(t, err)
	return c.CheckModule(context.Background(), "main.ts", ast.NewModule(body...))
}

func kinds(errs []*errors.Error) []errors.Kind {
	out := make([]errors.Kind, len(errs))
	for i, e := range errs {
		out[i] = e.Kind
	}
	return out
}

// --- Call and New on any ---

func TestNewOnAny(t *testing.T) {
	info := run(t, Options{},
		declare(ast.VarKindVar, "x", kw(ast.KwAny)),
		stmt(ast.NewNewExpr(id("x"), ast.NewNum(1))),
	)
	assert.Empty(t, info.Errors)
	assert.Equal(t, types.Any, info.LastExpr)
}

func TestCallOnAny(t *testing.T) {
	info := run(t, Options{},
		declare(ast.VarKindVar, "f", kw(ast.KwAny)),
		stmt(ast.NewCall(id("f"), ast.NewNum(1), ast.NewStr("a"))),
	)
	assert.Empty(t, info.Errors)
	assert.Equal(t, types.Any, info.LastExpr)
}

func TestTypeArgsOnUntypedCall(t *testing.T) {
	call := ast.NewCall(id("f"))
	call.TypeArgs = []ast.TsType{kw(ast.KwNumber)}
	info := run(t, Options{},
		declare(ast.VarKindVar, "f", kw(ast.KwAny)),
		stmt(call),
	)
	assert.Equal(t, []errors.Kind{errors.TypeArgsOnUntyped}, kinds(info.Errors))
	assert.Equal(t, types.Any, info.LastExpr)
}

// --- Method calls ---

func TestSingleMethod(t *testing.T) {
	decls := []ast.Stmt{
		iface("I", method("m", kw(ast.KwString), num("x"))),
		declare(ast.VarKindLet, "o", ast.NewRef("I")),
	}

	info := run(t, Options{}, append(decls, stmt(ast.NewCall(ast.NewMember(id("o"), "m"), ast.NewNum(1))))...)
	assert.Empty(t, info.Errors)
	assert.Equal(t, types.String, info.LastExpr)

	info = run(t, Options{}, append(decls, stmt(ast.NewCall(ast.NewMember(id("o"), "m"), ast.NewStr("s"))))...)
	require.Len(t, info.Errors, 1)
	assert.Equal(t, errors.AssignFailed, info.Errors[0].Kind)
	assert.Equal(t, types.Any, info.LastExpr)
}

func TestOverloadByArity(t *testing.T) {
	decls := []ast.Stmt{
		iface("I",
			method("f", kw(ast.KwString), num("x")),
			method("f", kw(ast.KwNumber), num("x"), num("y")),
		),
		declare(ast.VarKindLet, "o", ast.NewRef("I")),
	}
	call := func(args ...ast.Expr) ast.Stmt {
		return stmt(ast.NewCall(ast.NewMember(id("o"), "f"), args...))
	}

	info := run(t, Options{}, append(decls, call(ast.NewNum(1)))...)
	assert.Empty(t, info.Errors)
	assert.Equal(t, types.String, info.LastExpr)

	info = run(t, Options{}, append(decls, call(ast.NewNum(1), ast.NewNum(2)))...)
	assert.Empty(t, info.Errors)
	assert.Equal(t, types.Number, info.LastExpr)

	info = run(t, Options{}, append(decls, call())...)
	require.Len(t, info.Errors, 1)
	err := info.Errors[0]
	assert.Equal(t, errors.NoCallSignature, err.Kind)
	assert.Len(t, err.Candidates, 2)
}

func TestToStringOnObjectLiteral(t *testing.T) {
	obj := &ast.ObjectLit{Props: []ast.Prop{
		&ast.KeyValueProp{Key: &ast.PropName{Name: "x"}, Value: ast.NewNum(1)},
	}}
	info := run(t, Options{},
		ast.NewVar(ast.VarKindVar, "obj", nil, obj),
		stmt(ast.NewCall(ast.NewMember(id("obj"), "toString"))),
	)
	assert.Empty(t, info.Errors)
	assert.Equal(t, types.String, info.LastExpr)
}

func TestUnionReceiver(t *testing.T) {
	decls := []ast.Stmt{
		iface("A", method("m", kw(ast.KwNumber))),
		iface("B", method("m", kw(ast.KwString))),
		iface("C", &ast.TsPropertySig{Key: &ast.PropName{Name: "n"}, Type: kw(ast.KwNumber)}),
	}

	ok := append(decls,
		declare(ast.VarKindLet, "u", &ast.TsUnion{Types: []ast.TsType{ast.NewRef("A"), ast.NewRef("B")}}),
		stmt(ast.NewCall(ast.NewMember(id("u"), "m"))),
	)
	info := run(t, Options{}, ok...)
	assert.Empty(t, info.Errors)
	assert.True(t, types.NewUnion(types.Number, types.String).Equals(info.LastExpr), "got %s", info.LastExpr)

	bad := append(decls,
		declare(ast.VarKindLet, "v", &ast.TsUnion{Types: []ast.TsType{ast.NewRef("A"), ast.NewRef("C")}}),
		stmt(ast.NewCall(ast.NewMember(id("v"), "m"))),
	)
	info = run(t, Options{}, bad...)
	require.Len(t, info.Errors, 1)
	err := info.Errors[0]
	assert.Equal(t, errors.UnionError, err.Kind)
	require.Len(t, err.Nested, 1)
	assert.Equal(t, errors.NoCallSignature, err.Nested[0].Kind)
}

func TestCallUnionOfFunctions(t *testing.T) {
	fnType := func(ret ast.KeywordKind, params ...ast.Pat) ast.TsType {
		return &ast.TsFnType{Params: params, Return: kw(ret)}
	}
	info := run(t, Options{},
		declare(ast.VarKindLet, "f", &ast.TsUnion{Types: []ast.TsType{
			fnType(ast.KwString, num("a"), num("b")),
			fnType(ast.KwBoolean),
		}}),
		stmt(ast.NewCall(id("f"), ast.NewNum(1))),
	)
	require.Len(t, info.Errors, 1)
	assert.Equal(t, errors.UnionError, info.Errors[0].Kind)
	assert.Len(t, info.Errors[0].Nested, 2)
}

func TestExtractSignatures(t *testing.T) {
	str, number := kw(ast.KwString), kw(ast.KwNumber)
	overloaded := &ast.InterfaceDecl{Ident: id("C"), Body: []ast.TsTypeElement{
		&ast.TsCallSig{Params: []ast.Pat{ast.NewParam("a", str)}, Return: str},
		&ast.TsCallSig{Params: []ast.Pat{ast.NewParam("a", number)}, Return: number},
	}}
	ctors := &ast.InterfaceDecl{Ident: id("D"), Body: []ast.TsTypeElement{
		&ast.TsConstructSig{Params: []ast.Pat{ast.NewParam("a", str)}, Return: str},
		&ast.TsConstructSig{Params: []ast.Pat{ast.NewParam("a", number)}, Return: number},
	}}

	tests := []struct {
		name  string
		body  []ast.Stmt
		kinds []errors.Kind
		want  types.Type
	}{
		{
			name: "call signature after a failing one",
			body: []ast.Stmt{overloaded, declare(ast.VarKindLet, "c", ast.NewRef("C")), stmt(ast.NewCall(id("c"), ast.NewNum(1)))},
			want: types.Number,
		},
		{
			name: "construct signature after a failing one",
			body: []ast.Stmt{ctors, declare(ast.VarKindLet, "d", ast.NewRef("D")), stmt(ast.NewNewExpr(id("d"), ast.NewNum(1)))},
			want: types.Number,
		},
		{
			name:  "no signature accepts the arguments",
			body:  []ast.Stmt{overloaded, declare(ast.VarKindLet, "c", ast.NewRef("C")), stmt(ast.NewCall(id("c"), ast.NewBool(true)))},
			kinds: []errors.Kind{errors.NoCallSignature},
			want:  types.Any,
		},
		{
			name:  "unknown callee",
			body:  []ast.Stmt{declare(ast.VarKindLet, "u", kw(ast.KwUnknown)), stmt(ast.NewCall(id("u")))},
			kinds: []errors.Kind{errors.UnknownTypeUsed},
			want:  types.Any,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := run(t, Options{}, tt.body...)
			if len(tt.kinds) == 0 {
				assert.Empty(t, info.Errors)
			} else {
				assert.Equal(t, tt.kinds, kinds(info.Errors))
			}
			assert.Equal(t, tt.want, info.LastExpr)
		})
	}
}

func TestNewOnUnionPicksConstructibleMember(t *testing.T) {
	cls := &ast.ClassDecl{Ident: id("K"), Class: &ast.Class{}}
	info := run(t, Options{},
		cls,
		declare(ast.VarKindLet, "u", &ast.TsUnion{Types: []ast.TsType{kw(ast.KwNumber), &ast.TsTypeQuery{Name: "K"}}}),
		stmt(ast.NewNewExpr(id("u"))),
	)
	assert.Empty(t, info.Errors)
	inst, ok := info.LastExpr.(*types.ClassInstance)
	require.True(t, ok, "got %T", info.LastExpr)
	assert.Equal(t, "K", inst.Class.Name)
}

func TestGenericInstantiation(t *testing.T) {
	identity := &ast.FnDecl{Ident: id("id"), Fn: &ast.Function{
		TypeParams: []*ast.TypeParamDecl{{Name: "T"}},
		Params:     []ast.Pat{ast.NewParam("x", ast.NewRef("T"))},
		ReturnType: ast.NewRef("T"),
		Body:       &ast.BlockStmt{Stmts: []ast.Stmt{ret(id("x"))}},
	}}
	call := func(typeArgs []ast.TsType, arg ast.Expr) ast.Stmt {
		c := ast.NewCall(id("id"), arg)
		c.TypeArgs = typeArgs
		return stmt(c)
	}
	str, number := kw(ast.KwString), kw(ast.KwNumber)

	tests := []struct {
		name  string
		call  ast.Stmt
		kinds []errors.Kind
		want  types.Type
	}{
		{name: "inferred from the argument", call: call(nil, id("n")), want: types.Number},
		{name: "explicit type argument", call: call([]ast.TsType{str}, ast.NewStr("a")), want: types.String},
		{name: "too many type arguments", call: call([]ast.TsType{str, number}, ast.NewStr("a")), kinds: []errors.Kind{errors.TypeArgCount}},
		{name: "argument against substituted parameter", call: call([]ast.TsType{str}, ast.NewNum(3)), kinds: []errors.Kind{errors.AssignFailed}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := run(t, Options{}, identity, ast.NewVar(ast.VarKindLet, "n", nil, ast.NewNum(1)), tt.call)
			if len(tt.kinds) > 0 {
				assert.Equal(t, tt.kinds, kinds(info.Errors))
				return
			}
			assert.Empty(t, info.Errors)
			assert.True(t, tt.want.Equals(info.LastExpr), "got %s", info.LastExpr)
		})
	}
}

// --- Functions ---

func TestRecursiveCallIsAny(t *testing.T) {
	info := run(t, Options{},
		fnDecl("f", nil, nil, ret(ast.NewCall(id("f")))),
		stmt(ast.NewCall(id("f"))),
	)
	assert.Empty(t, info.Errors)
	assert.Equal(t, types.Any, info.LastExpr)
}

func TestInferredReturnIsWidened(t *testing.T) {
	info := run(t, Options{},
		fnDecl("f", nil, nil, ret(ast.NewNum(1))),
		stmt(ast.NewCall(id("f"))),
	)
	assert.Empty(t, info.Errors)
	assert.Equal(t, types.Number, info.LastExpr)
}

func TestArgCount(t *testing.T) {
	info := run(t, Options{},
		fnDecl("f", []ast.Pat{num("a")}, kw(ast.KwVoid)),
		stmt(ast.NewCall(id("f"))),
	)
	assert.Equal(t, []errors.Kind{errors.ArgCount}, kinds(info.Errors))
}

func TestParamDefaultSelfReference(t *testing.T) {
	info := run(t, Options{},
		fnDecl("h", []ast.Pat{&ast.AssignPat{Left: ast.NewParam("a", nil), Right: id("a")}}, nil),
	)
	assert.Equal(t, []errors.Kind{errors.SelfReference}, kinds(info.Errors))
}

func TestReturnAgainstAnnotation(t *testing.T) {
	info := run(t, Options{},
		fnDecl("f", nil, kw(ast.KwNumber), ret(ast.NewStr("s"))),
	)
	assert.Equal(t, []errors.Kind{errors.AssignFailed}, kinds(info.Errors))
}

// --- Declarations ---

func TestAnnotatedConstKeepsDeclaredType(t *testing.T) {
	info := run(t, Options{},
		ast.NewVar(ast.VarKindConst, "n", kw(ast.KwNumber), ast.NewStr("s")),
		stmt(id("n")),
	)
	require.Len(t, info.Errors, 1)
	assert.Equal(t, errors.AssignFailed, info.Errors[0].Kind)
	assert.Equal(t, types.Number, info.LastExpr)
}

func TestConstAssign(t *testing.T) {
	info := run(t, Options{},
		ast.NewVar(ast.VarKindConst, "c", nil, ast.NewNum(1)),
		stmt(&ast.AssignExpr{Op: "=", Left: id("c"), Right: ast.NewNum(2)}),
	)
	assert.Equal(t, []errors.Kind{errors.ConstAssign}, kinds(info.Errors))
}

func TestLetTakesTypeFromFirstAssignment(t *testing.T) {
	info := run(t, Options{},
		ast.NewVar(ast.VarKindLet, "x", nil, nil),
		stmt(&ast.AssignExpr{Op: "=", Left: id("x"), Right: ast.NewStr("a")}),
		stmt(&ast.AssignExpr{Op: "=", Left: id("x"), Right: ast.NewNum(1)}),
	)
	assert.Equal(t, []errors.Kind{errors.AssignFailed}, kinds(info.Errors))
}

func TestUndefinedSymbol(t *testing.T) {
	info := run(t, Options{}, stmt(id("missing")))
	require.Len(t, info.Errors, 1)
	assert.Equal(t, errors.UndefinedSymbol, info.Errors[0].Kind)
	assert.Equal(t, "missing", info.Errors[0].Name)
}

func TestNoImplicitAny(t *testing.T) {
	tuple := func() ast.Expr { return &ast.ArrayLit{Elems: ast.NewArgs(&ast.NullLit{})} }

	info := run(t, Options{Rule: Rule{NoImplicitAny: true}}, ast.NewVar(ast.VarKindLet, "t", nil, tuple()))
	assert.Equal(t, []errors.Kind{errors.ImplicitAny}, kinds(info.Errors))

	info = run(t, Options{}, ast.NewVar(ast.VarKindLet, "t", nil, tuple()))
	assert.Empty(t, info.Errors)

	annotated := &ast.TsArray{Elem: kw(ast.KwAny)}
	info = run(t, Options{Rule: Rule{NoImplicitAny: true}}, ast.NewVar(ast.VarKindLet, "t", annotated, tuple()))
	assert.Empty(t, info.Errors)
}

func TestEnumValues(t *testing.T) {
	info := run(t, Options{},
		&ast.ExportDecl{Decl: &ast.EnumDecl{Ident: id("Color"), Members: []*ast.EnumMember{
			{Name: "Red"},
			{Name: "Green", Init: ast.NewNum(5)},
			{Name: "Blue"},
			{Name: "Name", Init: ast.NewStr("c")},
		}}},
		stmt(ast.NewMember(id("Color"), "Blue")),
	)
	assert.Empty(t, info.Errors)
	e, ok := info.Exports["Color"].(*types.Enum)
	require.True(t, ok, "got %T", info.Exports["Color"])
	assert.Equal(t, 0.0, e.Member("Red").Num)
	assert.Equal(t, 6.0, e.Member("Blue").Num)
	assert.True(t, e.Member("Name").IsString)
	v, ok := info.LastExpr.(*types.EnumVariant)
	require.True(t, ok, "got %T", info.LastExpr)
	assert.Equal(t, "Blue", v.Name)
}

func TestClassConstructionAndMethods(t *testing.T) {
	this := &ast.ThisExpr{}
	cls := &ast.ClassDecl{Ident: id("P"), Class: &ast.Class{Body: []ast.ClassMember{
		&ast.ClassProp{Key: &ast.PropName{Name: "x"}, Type: kw(ast.KwNumber), Value: ast.NewNum(1)},
		&ast.Constructor{Params: []ast.Pat{num("a")}, Body: &ast.BlockStmt{}},
		&ast.ClassMethod{Key: &ast.PropName{Name: "m"}, Fn: &ast.Function{Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			ret(ast.NewMember(this, "x")),
		}}}},
	}}}

	info := run(t, Options{}, cls, stmt(ast.NewCall(ast.NewMember(ast.NewNewExpr(id("P"), ast.NewNum(1)), "m"))))
	assert.Empty(t, info.Errors)
	assert.Equal(t, types.Number, info.LastExpr)

	// Constructor arguments are not checked.
	info = run(t, Options{}, cls, stmt(ast.NewNewExpr(id("P"))))
	assert.Empty(t, info.Errors)
	_, ok := info.LastExpr.(*types.ClassInstance)
	assert.True(t, ok, "got %T", info.LastExpr)
}

func TestNewOnNonConstructor(t *testing.T) {
	info := run(t, Options{},
		ast.NewVar(ast.VarKindConst, "n", nil, ast.NewNum(1)),
		stmt(ast.NewNewExpr(id("n"))),
	)
	assert.Equal(t, []errors.Kind{errors.NoNewSignature}, kinds(info.Errors))
	assert.Equal(t, types.Any, info.LastExpr)
}

// --- Imports and exports ---

func TestImportFailureIsIsolated(t *testing.T) {
	nested := errors.New(errors.Syntax, source.Span{}, "unexpected token")
	failed := errors.New(errors.ModuleLoadFailed, source.Span{}, "cannot load module %q", "./dep").Wrap(nested)
	loader := &stubLoader{err: failed}

	info := run(t, Options{Loader: loader},
		&ast.ImportDecl{Src: ast.NewStr("./dep"), Specifiers: []*ast.ImportSpecifier{
			{Kind: ast.ImportNamed, Local: id("a")},
			{Kind: ast.ImportDefault, Local: id("d")},
		}},
		stmt(ast.NewCall(id("a"), ast.NewNum(1))),
		stmt(ast.NewMember(id("d"), "x")),
	)
	assert.Equal(t, []errors.Kind{errors.Syntax, errors.ModuleLoadFailed}, kinds(info.Errors))
	assert.Equal(t, 1, errors.Count(info.Errors, errors.ModuleLoadFailed))
	assert.Zero(t, errors.Count(info.Errors, errors.UndefinedSymbol))
	assert.Nil(t, info.Errors[1].Nested)
	assert.Equal(t, types.Any, info.LastExpr)
}

func TestImportWithoutLoader(t *testing.T) {
	info := run(t, Options{},
		&ast.ImportDecl{Src: ast.NewStr("x"), Specifiers: []*ast.ImportSpecifier{
			{Kind: ast.ImportNamed, Local: id("a")},
		}},
		stmt(id("a")),
	)
	assert.Equal(t, []errors.Kind{errors.ModuleLoadFailed}, kinds(info.Errors))
}

func TestImportedBindings(t *testing.T) {
	loader := &stubLoader{exports: map[string]types.Type{"a": types.String}}
	info := run(t, Options{Loader: loader},
		&ast.ImportDecl{Src: ast.NewStr("./dep"), Specifiers: []*ast.ImportSpecifier{
			{Kind: ast.ImportNamed, Local: id("a")},
		}},
		stmt(id("a")),
	)
	assert.Empty(t, info.Errors)
	assert.Equal(t, types.String, info.LastExpr)
	require.Len(t, loader.requests, 1)
	assert.Equal(t, "./dep", loader.requests[0].Src)
}

func TestRequire(t *testing.T) {
	loader := &stubLoader{exports: map[string]types.Type{"x": types.Number}}
	info := run(t, Options{Loader: loader},
		ast.NewVar(ast.VarKindConst, "m", nil, ast.NewCall(id("require"), ast.NewStr("./lib"))),
		stmt(ast.NewMember(id("m"), "x")),
	)
	assert.Empty(t, info.Errors)
	assert.Equal(t, types.Number, info.LastExpr)
	require.Len(t, loader.requests, 1)
	assert.True(t, loader.requests[0].IsRequire())
}

func TestNestedRequireIsScannedOnce(t *testing.T) {
	inner := &ast.BlockStmt{Stmts: []ast.Stmt{
		ast.NewVar(ast.VarKindConst, "m", nil, ast.NewCall(id("require"), ast.NewStr("./lib"))),
		ret(ast.NewMember(id("m"), "x")),
	}}
	body := []ast.Stmt{
		fnDecl("f", nil, nil, &ast.IfStmt{Test: ast.NewBool(true), Cons: inner}),
		stmt(ast.NewCall(id("f"))),
	}

	c, err := New(Options{})
	require.NoError(t, err)
	a := newAnalyzer(context.Background(), c, "main.ts")
	require.Len(t, a.findImports(body), 1)
	// The nested list was searched with its enclosing one.
	assert.Empty(t, a.findImports(inner.Stmts))

	loader := &stubLoader{exports: map[string]types.Type{"x": types.Number}}
	info := run(t, Options{Loader: loader}, body...)
	assert.Empty(t, info.Errors)
	assert.Equal(t, types.Number, info.LastExpr)
	assert.Len(t, loader.requests, 1)
}

func TestDynamicRequireIsUnsupported(t *testing.T) {
	loader := &stubLoader{}
	info := run(t, Options{Loader: loader},
		ast.NewVar(ast.VarKindConst, "p", nil, ast.NewStr("./lib")),
		stmt(ast.NewCall(id("require"), id("p"))),
	)
	assert.Equal(t, []errors.Kind{errors.Unsupported}, kinds(info.Errors))
	assert.Empty(t, loader.requests)
}

func TestDeclaredRequireIsPlainCall(t *testing.T) {
	loader := &stubLoader{}
	info := run(t, Options{Loader: loader},
		fnDecl("require", []ast.Pat{ast.NewParam("s", kw(ast.KwString))}, kw(ast.KwNumber)),
		stmt(ast.NewCall(id("require"), ast.NewStr("./lib"))),
	)
	assert.Empty(t, info.Errors)
	assert.Equal(t, types.Number, info.LastExpr)
	assert.Empty(t, loader.requests)
}

func TestExports(t *testing.T) {
	info := run(t, Options{},
		&ast.ExportDecl{Decl: ast.NewVar(ast.VarKindConst, "a", nil, ast.NewNum(1))},
		&ast.ExportDecl{Decl: fnDecl("g", nil, kw(ast.KwString), ret(ast.NewStr("")))},
		&ast.ExportNamed{Specifiers: []*ast.ExportSpecifier{{Local: "a", Exported: "b"}, {Local: "later", Exported: "later"}}},
		&ast.ExportDefault{Expr: ast.NewNum(42)},
		ast.NewVar(ast.VarKindLet, "later", kw(ast.KwBoolean), ast.NewBool(true)),
	)
	assert.Empty(t, info.Errors)
	assert.Equal(t, types.Number, types.Widen(info.Exports["a"]))
	assert.Equal(t, types.Number, types.Widen(info.Exports["b"]))
	assert.Equal(t, types.Boolean, info.Exports["later"])
	assert.Equal(t, types.Number, types.Widen(info.Exports["default"]))
	g, ok := info.Exports["g"].(*types.Function)
	require.True(t, ok, "got %T", info.Exports["g"])
	assert.Equal(t, types.String, g.Return)
}

func TestExportOfUnknownName(t *testing.T) {
	info := run(t, Options{},
		&ast.ExportNamed{Specifiers: []*ast.ExportSpecifier{{Local: "nope", Exported: "nope"}}},
	)
	assert.Equal(t, []errors.Kind{errors.UndefinedSymbol}, kinds(info.Errors))
}

// --- Analyzer ---

func TestTypeOfIsIdempotent(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)
	a := newAnalyzer(context.Background(), c, "main.ts")
	a.visitStmts([]ast.Stmt{
		iface("I", method("m", kw(ast.KwString), num("x"))),
		declare(ast.VarKindLet, "o", ast.NewRef("I")),
	}, true)

	e := ast.NewCall(ast.NewMember(id("o"), "m"), ast.NewNum(1))
	first := a.typeOf(e)
	second := a.typeOf(e)
	assert.True(t, first.Equals(second))
	assert.Equal(t, types.String, second)
	assert.Empty(t, a.info.Errors)
}

func TestCheckImplementsTypeChecker(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)
	exports, errs := c.Check(context.Background(), "lib.ts", ast.NewModule(
		&ast.ExportDecl{Decl: ast.NewVar(ast.VarKindLet, "v", kw(ast.KwString), ast.NewStr("x"))},
	))
	assert.Empty(t, errs)
	assert.Equal(t, map[string]types.Type{"v": types.String}, exports)
}
