package tsparse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tscheck/pkg/ast"
	"tscheck/pkg/errors"
)

func parse(t *testing.T, src string) *ast.Module {
	t.Helper()
	m, diags, err := ParseString(context.Background(), "test.ts", src)
	require.NoError(t, err)
	require.Empty(t, diags)
	require.NotNil(t, m)
	return m
}

func TestVarDeclWithAnnotation(t *testing.T) {
	m := parse(t, `const x: number = 1_000;`)
	require.Len(t, m.Body, 1)
	d, ok := m.Body[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, ast.VarKindConst, d.Kind)
	require.Len(t, d.Decls, 1)

	id, ok := d.Decls[0].Name.(*ast.IdentPat)
	require.True(t, ok)
	assert.Equal(t, "x", id.Name)
	kw, ok := id.Type.(*ast.TsKeyword)
	require.True(t, ok)
	assert.Equal(t, ast.KwNumber, kw.Kind)

	lit, ok := d.Decls[0].Init.(*ast.NumLit)
	require.True(t, ok)
	assert.Equal(t, 1000.0, lit.Value)
}

func TestFunctionDecl(t *testing.T) {
	m := parse(t, `function f(a: string, b = 2, ...rest: number[]): string { return a; }`)
	require.Len(t, m.Body, 1)
	d, ok := m.Body[0].(*ast.FnDecl)
	require.True(t, ok)
	assert.Equal(t, "f", d.Ident.Name)
	require.Len(t, d.Fn.Params, 3)

	_, ok = d.Fn.Params[1].(*ast.AssignPat)
	assert.True(t, ok, "default parameter")
	rest, ok := d.Fn.Params[2].(*ast.RestPat)
	require.True(t, ok)
	_, ok = rest.Type.(*ast.TsArray)
	assert.True(t, ok)

	require.NotNil(t, d.Fn.Body)
	require.Len(t, d.Fn.Body.Stmts, 1)
	_, ok = d.Fn.Body.Stmts[0].(*ast.ReturnStmt)
	assert.True(t, ok)
}

func TestOverloadSignatures(t *testing.T) {
	m := parse(t, `
function g(a: number): number;
function g(a: string): string;
function g(a: any): any { return a; }
`)
	require.Len(t, m.Body, 3)
	for i, s := range m.Body {
		d, ok := s.(*ast.FnDecl)
		require.True(t, ok)
		assert.Equal(t, i == 2, d.Fn.Body != nil)
	}
}

func TestClassMembers(t *testing.T) {
	m := parse(t, `
class P extends Base implements I {
  n: number = 1;
  static count = 0;
  constructor(private readonly id: string) { super(); }
  get size(): number { return this.n; }
  m(): void {}
}
`)
	require.Len(t, m.Body, 1)
	d, ok := m.Body[0].(*ast.ClassDecl)
	require.True(t, ok)
	assert.Equal(t, "P", d.Ident.Name)
	require.NotNil(t, d.Class.SuperClass)
	assert.Len(t, d.Class.Implements, 1)

	var props, methods, ctors int
	for _, member := range d.Class.Body {
		switch member := member.(type) {
		case *ast.ClassProp:
			props++
			if name, _ := member.Key.Static(); name == "id" {
				assert.True(t, member.Readonly)
			}
		case *ast.ClassMethod:
			methods++
			if name, _ := member.Key.Static(); name == "size" {
				assert.Equal(t, ast.MethodGetter, member.Kind)
			}
		case *ast.Constructor:
			ctors++
		}
	}
	assert.Equal(t, 3, props)
	assert.Equal(t, 2, methods)
	assert.Equal(t, 1, ctors)
}

func TestImportsAndExports(t *testing.T) {
	m := parse(t, `
import def, { a, b as c } from "./m";
import * as ns from "./n";
export { c as d };
export * from "./o";
export * as p from "./p";
export default 1;
`)
	require.Len(t, m.Body, 6)

	imp, ok := m.Body[0].(*ast.ImportDecl)
	require.True(t, ok)
	assert.Equal(t, "./m", imp.Src.Value)
	require.Len(t, imp.Specifiers, 3)
	assert.Equal(t, ast.ImportDefault, imp.Specifiers[0].Kind)
	assert.Equal(t, "c", imp.Specifiers[2].Local.Name)
	assert.Equal(t, "b", imp.Specifiers[2].Imported)

	ns, ok := m.Body[1].(*ast.ImportDecl)
	require.True(t, ok)
	assert.Equal(t, ast.ImportNamespace, ns.Specifiers[0].Kind)

	named, ok := m.Body[2].(*ast.ExportNamed)
	require.True(t, ok)
	assert.Nil(t, named.Src)
	assert.Equal(t, "d", named.Specifiers[0].Exported)

	_, ok = m.Body[3].(*ast.ExportAll)
	assert.True(t, ok)

	nsExport, ok := m.Body[4].(*ast.ExportNamed)
	require.True(t, ok)
	assert.Equal(t, "*", nsExport.Specifiers[0].Local)
	assert.Equal(t, "p", nsExport.Specifiers[0].Exported)

	_, ok = m.Body[5].(*ast.ExportDefault)
	assert.True(t, ok)
}

func TestImportRequireClause(t *testing.T) {
	m := parse(t, `import fs = require("fs");`)
	require.Len(t, m.Body, 1)
	d, ok := m.Body[0].(*ast.VarDecl)
	require.True(t, ok)
	call, ok := d.Decls[0].Init.(*ast.CallExpr)
	require.True(t, ok)
	assert.Equal(t, "require", call.Callee.(*ast.Ident).Name)
}

func TestTypeLowering(t *testing.T) {
	m := parse(t, `
interface Shape { kind: "circle" | "square"; area(): number; readonly id?: string; }
type Pair = [number, string];
type Fn = (x: number) => void;
`)
	require.Len(t, m.Body, 3)

	iface, ok := m.Body[0].(*ast.InterfaceDecl)
	require.True(t, ok)
	require.Len(t, iface.Body, 3)
	kind, ok := iface.Body[0].(*ast.TsPropertySig)
	require.True(t, ok)
	u, ok := kind.Type.(*ast.TsUnion)
	require.True(t, ok)
	assert.Len(t, u.Types, 2)
	_, ok = iface.Body[1].(*ast.TsMethodSig)
	assert.True(t, ok)
	id := iface.Body[2].(*ast.TsPropertySig)
	assert.True(t, id.Optional)
	assert.True(t, id.Readonly)

	pair := m.Body[1].(*ast.TypeAliasDecl)
	tuple, ok := pair.Type.(*ast.TsTuple)
	require.True(t, ok)
	assert.Len(t, tuple.Elems, 2)

	fn := m.Body[2].(*ast.TypeAliasDecl)
	_, ok = fn.Type.(*ast.TsFnType)
	assert.True(t, ok)
}

func TestDestructuringPatterns(t *testing.T) {
	m := parse(t, `let { a, b: [c, , d], ...rest } = obj;`)
	d := m.Body[0].(*ast.VarDecl)
	obj, ok := d.Decls[0].Name.(*ast.ObjectPat)
	require.True(t, ok)
	require.Len(t, obj.Props, 2)
	arr, ok := obj.Props[1].Value.(*ast.ArrayPat)
	require.True(t, ok)
	require.Len(t, arr.Elems, 3)
	assert.Nil(t, arr.Elems[1])
	assert.NotNil(t, obj.Rest)
	assert.Equal(t, []string{"a", "c", "d", "rest"}, ast.BoundNames(obj))
}

func TestEnumDecl(t *testing.T) {
	m := parse(t, `enum Color { Red, Green = 4, "Blue" }`)
	d, ok := m.Body[0].(*ast.EnumDecl)
	require.True(t, ok)
	require.Len(t, d.Members, 3)
	assert.Equal(t, "Green", d.Members[1].Name)
	assert.NotNil(t, d.Members[1].Init)
	assert.Equal(t, "Blue", d.Members[2].Name)
}

func TestSyntaxErrors(t *testing.T) {
	m, diags, err := ParseString(context.Background(), "bad.ts", "let x = ;\n")
	require.NoError(t, err)
	require.NotNil(t, m)
	require.NotEmpty(t, diags)
	for _, d := range diags {
		assert.Equal(t, errors.Syntax, d.Kind)
	}
}

func TestInvalidUTF8(t *testing.T) {
	_, _, err := ParseString(context.Background(), "bin.ts", "let x = '\xff';")
	assert.Error(t, err)
}

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{
		"42":    42,
		"1_000": 1000,
		"0x1F":  31,
		"0o17":  15,
		"0b101": 5,
		"1.5e3": 1500,
		"10n":   10,
		".5":    0.5,
	}
	for text, want := range cases {
		assert.Equal(t, want, parseNumber(text), text)
	}
}

func TestUnescape(t *testing.T) {
	cases := map[string]string{
		`\n`:        "\n",
		`\x41`:      "A",
		`\u0042`:    "B",
		`\u{1F600}`: "\U0001F600",
		`\'`:        "'",
		`\0`:        "\x00",
	}
	for esc, want := range cases {
		assert.Equal(t, want, unescape(esc), esc)
	}
}
