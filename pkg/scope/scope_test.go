package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tscheck/pkg/errors"
	"tscheck/pkg/source"
	"tscheck/pkg/types"
)

func TestFindWalksOutward(t *testing.T) {
	a := NewArena()
	root := a.Root()
	require.Nil(t, a.Declare(root, source.DummySpan, "x", Let, types.Number, true, false))

	fn := a.Push(root, Function)
	block := a.Push(fn, Block)
	require.Nil(t, a.Declare(block, source.DummySpan, "y", Const, types.String, true, false))

	v, ok := a.Find(block, "x")
	require.True(t, ok)
	assert.Same(t, types.Number, v.Type())

	_, ok = a.Find(fn, "y")
	assert.False(t, ok, "bindings do not leak out of their scope")

	assert.Equal(t, fn, a.Pop(block))
	assert.Equal(t, root, a.Pop(fn))
	assert.Equal(t, 0, a.Depth())
}

func TestDeclareDuplicates(t *testing.T) {
	a := NewArena()
	root := a.Root()

	require.Nil(t, a.Declare(root, source.DummySpan, "v", Var, types.Number, true, false))
	assert.Nil(t, a.Declare(root, source.DummySpan, "v", Var, types.String, true, false), "var may be redeclared")

	require.Nil(t, a.Declare(root, source.DummySpan, "l", Let, types.Number, true, false))
	err := a.Declare(root, source.DummySpan, "l", Let, types.String, true, false)
	require.NotNil(t, err)
	assert.Equal(t, errors.DuplicateVar, err.Kind)
	assert.Equal(t, "l", err.Name)

	v, _ := a.Find(root, "l")
	assert.Same(t, types.Number, v.Type(), "the original binding survives")

	assert.Nil(t, a.Declare(root, source.DummySpan, "l", Let, types.String, true, true))
}

func TestShadowingInChildScope(t *testing.T) {
	a := NewArena()
	root := a.Root()
	require.Nil(t, a.Declare(root, source.DummySpan, "x", Const, types.Number, true, false))
	child := a.Push(root, Block)
	assert.Nil(t, a.Declare(child, source.DummySpan, "x", Let, types.String, true, false))

	v, _ := a.Find(child, "x")
	assert.Same(t, types.String, v.Type())
}

func TestOverrideAndTypes(t *testing.T) {
	a := NewArena()
	root := a.Root()
	hoisted := &types.Function{Return: types.Any}
	a.Override(root, Fn, "f", hoisted)

	v, ok := a.FindOwn(root, "f")
	require.True(t, ok)
	assert.Same(t, hoisted, v.Declared)

	inferred := &types.Function{Return: types.Number}
	a.Override(root, Fn, "f", inferred)
	v, _ = a.Find(root, "f")
	assert.Same(t, inferred, v.Type())
	assert.True(t, v.Mutable(), "function bindings are mutable")

	iface := &types.Interface{Name: "I"}
	a.RegisterType(root, "I", iface)
	inner := a.Push(root, Block)
	got, ok := a.FindType(inner, "I")
	require.True(t, ok)
	assert.Same(t, iface, got)

	_, ok = a.Find(inner, "I")
	assert.False(t, ok, "type and value namespaces are separate")
}

func TestThisAndDeclaringFn(t *testing.T) {
	a := NewArena()
	root := a.Root()
	cls := a.Push(root, Class)
	inst := &types.ClassInstance{Class: &types.Class{Name: "C"}}
	a.SetThis(cls, inst)

	method := a.Push(cls, Function)
	a.SetDeclaringFn(method, "m")
	block := a.Push(method, Block)

	this, ok := a.This(block)
	require.True(t, ok)
	assert.Same(t, inst, this)
	assert.True(t, a.IsDeclaringFn(block, "m"))
	assert.False(t, a.IsDeclaringFn(block, "other"))
	assert.False(t, a.IsDeclaringFn(root, "m"))

	_, ok = a.This(root)
	assert.False(t, ok)
}

func TestVarScopeHoisting(t *testing.T) {
	a := NewArena()
	fn := a.Push(a.Root(), Function)
	b1 := a.Push(fn, Block)
	b2 := a.Push(b1, Block)
	assert.Equal(t, fn, a.VarScope(b2))
	assert.Equal(t, a.Root(), a.VarScope(a.Root()))
}
