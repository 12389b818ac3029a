package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tscheck/pkg/source"
)

func TestErrorStringIncludesNested(t *testing.T) {
	inner := New(NoCallSignature, source.DummySpan, "type 'number' has no call signatures")
	outer := New(UnionError, source.DummySpan, "no member of the union is callable").Wrap(inner)

	assert.Equal(t,
		"UnionError: no member of the union is callable (NoCallSignature: type 'number' has no call signatures)",
		outer.Error())
}

func TestUnwrapReachesNestedAndCause(t *testing.T) {
	cause := fmt.Errorf("open a.ts: no such file")
	nested := New(UndefinedSymbol, source.DummySpan, "cannot find name 'x'")
	err := New(ModuleLoadFailed, source.DummySpan, "failed to load './a'").Wrap(nested).CausedBy(cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, stderrors.Is(err, &Error{Kind: UndefinedSymbol}))
	assert.False(t, stderrors.Is(err, &Error{Kind: AssignFailed}))

	var target *Error
	require.True(t, stderrors.As(err, &target))
	assert.Equal(t, ModuleLoadFailed, target.Kind)
}

func TestCountAndFindWalkNested(t *testing.T) {
	errs := []*Error{
		New(ImplicitAny, source.DummySpan, "a"),
		New(UnionError, source.DummySpan, "b").Wrap(
			New(NoCallSignature, source.DummySpan, "c"),
			New(NoCallSignature, source.DummySpan, "d"),
		),
	}
	assert.Equal(t, 2, Count(errs, NoCallSignature))
	assert.Equal(t, 1, Count(errs, UnionError))
	assert.Equal(t, "c", Find(errs, NoCallSignature).Msg)
	assert.Nil(t, Find(errs, DuplicateVar))
}

func TestKindStringAndCode(t *testing.T) {
	assert.Equal(t, "AssignFailed", AssignFailed.String())
	assert.Equal(t, 2322, AssignFailed.Code())
	assert.Equal(t, 0, UnionError.Code())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func TestDisplayErrors(t *testing.T) {
	fset := source.NewFileSet()
	f := fset.Add(source.NewSourceFile("a.ts", "a.ts", "let x = 1;\nx();\n"))

	err := New(NoCallSignature, f.Span(11, 14), "type 'number' has no call signatures")
	var buf bytes.Buffer
	DisplayErrors(&buf, fset, []*Error{err})

	assert.Equal(t,
		"a.ts:2:1: error TS2349: type 'number' has no call signatures\n"+
			"  x();\n"+
			"  ^~~\n\n",
		buf.String())
}

func TestDisplayUnresolvedSpan(t *testing.T) {
	var buf bytes.Buffer
	DisplayErrors(&buf, source.NewFileSet(), []*Error{New(UnionError, source.DummySpan, "boom")})
	assert.Equal(t, "error UnionError: boom\n\n", buf.String())
}

func TestMarkerWideRunes(t *testing.T) {
	// Two fullwidth runes before the span occupy four cells.
	line := "ＡＢ = x"
	col := len("ＡＢ = ")
	assert.Equal(t, "       ^", Marker(line, col, 1))
	assert.Equal(t, "^~~~", Marker(line, 0, len("ＡＢ")))
	assert.Equal(t, "\t^", Marker("\tx", 1, 1))
}
