package builtins

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tscheck/pkg/types"
)

func TestLoadIsCached(t *testing.T) {
	a, err := Load([]Lib{ES2015, ES5})
	require.NoError(t, err)
	b, err := Load([]Lib{ES5, ES2015, ES5})
	require.NoError(t, err)
	assert.Same(t, a, b, "lib order and duplicates do not matter")
	assert.Equal(t, []Lib{ES2015, ES5}, a.Libs())

	def := MustLoad(nil)
	assert.ElementsMatch(t, DefaultLibs, def.Libs())
}

func TestLibGating(t *testing.T) {
	_, err := GetType([]Lib{ES5}, "Promise")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	p, err := GetType([]Lib{ES5, ES2015}, "Promise")
	require.NoError(t, err)
	iface, ok := p.(*types.Interface)
	require.True(t, ok)
	require.Len(t, iface.TypeParams, 1)
	assert.Equal(t, "T", iface.TypeParams[0].Name)

	_, err = GetVar([]Lib{ES5}, "console")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = GetVar([]Lib{ES5, DOM}, "console")
	assert.NoError(t, err)
}

func TestArrayReduceOverloads(t *testing.T) {
	arr, err := GetType(nil, "Array")
	require.NoError(t, err)
	reduce := types.MethodsNamed(arr, "reduce", nil)
	require.Len(t, reduce, 2)
	assert.Equal(t, 1, reduce[0].Sig.MaxArgs())
	assert.Equal(t, 2, reduce[1].Sig.MaxArgs())
	assert.Len(t, reduce[1].Sig.TypeParams, 1)

	push := types.MethodsNamed(arr, "push", nil)
	require.Len(t, push, 1)
	assert.Equal(t, -1, push[0].Sig.MaxArgs())
}

func TestConstructorsAndGlobals(t *testing.T) {
	tbl := MustLoad(nil)

	for _, name := range []string{"Object", "Array", "String", "Number", "Boolean", "Error", "TypeError", "Date", "RegExp", "Map", "Set", "Promise"} {
		v, ok := tbl.Var(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, types.ConstructSignatures(v, nil), "%s is constructible", name)
	}

	sym, ok := tbl.Var("Symbol")
	require.True(t, ok)
	assert.Empty(t, types.ConstructSignatures(sym, nil))
	assert.NotEmpty(t, types.CallSignatures(sym, nil))

	math, ok := tbl.Var("Math")
	require.True(t, ok)
	abs := types.FindMember(math, "abs", nil)
	require.NotNil(t, abs)
	assert.Equal(t, "(x: number) => number", types.ElementType(abs).String())

	nan, _ := tbl.Var("NaN")
	assert.Same(t, types.Number, nan)
}

func TestTypeErrorExtendsError(t *testing.T) {
	te, err := GetType(nil, "TypeError")
	require.NoError(t, err)
	assert.NotNil(t, types.FindMember(te, "message", nil))

	e, _ := GetType(nil, "Error")
	assert.True(t, types.IsAssignable(te, e))
}

func TestParseLibs(t *testing.T) {
	libs, err := ParseLibs([]string{"ES5", "dom"})
	require.NoError(t, err)
	assert.Equal(t, []Lib{ES5, DOM}, libs)

	_, err = ParseLibs([]string{"es2099"})
	assert.EqualError(t, err, `unknown lib "es2099"`)
}

func TestDuplicateDefinitionFails(t *testing.T) {
	_, err := build([]Lib{ES5}, []BuiltinInitializer{&MathInitializer{}, &MathInitializer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init Math")
}
