package driver

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/davecgh/go-spew/spew"
	"github.com/dlclark/regexp2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"tscheck/pkg/config"
	"tscheck/pkg/errors"
	"tscheck/pkg/modules"
	"tscheck/pkg/source"
	"tscheck/pkg/types"
)

func newSession(t *testing.T, files map[string]string, opts ...Option) *Session {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	cfg := config.Default(t.TempDir())
	cfg.Jobs = 2
	cfg.Exclude = []*regexp2.Regexp{regexp2.MustCompile(`\.test\.ts$`, regexp2.ECMAScript)}
	s, err := NewSession(cfg, append([]Option{WithFS(fsys), WithTracer(noop.NewTracerProvider().Tracer(""))}, opts...)...)
	require.NoError(t, err)
	return s
}

func paths(results []*Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Path
	}
	return out
}

func TestCheckProject(t *testing.T) {
	s := newSession(t, map[string]string{
		"lib/a.ts":          "export function twice(n: number): number { return n * 2; }\n",
		"b.ts":              "import { twice } from \"./lib/a\";\nexport const four = twice(2);\n",
		"b.test.ts":         "this is not checked",
		"node_modules/x.ts": "nor is this",
		".cache/y.ts":       "or this",
		"README.md":         "# docs",
	})
	results, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b.ts", "lib/a.ts"}, paths(results))
	for _, r := range results {
		assert.Empty(t, r.Errors, "%s: %s", r.Path, spew.Sdump(r.Errors))
	}
	assert.True(t, results[0].Exports["four"].Equals(types.Number))

	// lib/a.ts is reached both as a file and as an import, and loaded once.
	assert.Equal(t, 2, s.Stats().Loads)
}

func TestCheckReportsSyntaxErrors(t *testing.T) {
	s := newSession(t, map[string]string{"bad.ts": "let x = ;\n"})
	results, err := s.Check(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotEmpty(t, results[0].Errors)
	for _, e := range results[0].Errors {
		assert.Equal(t, errors.Syntax, e.Kind)
	}
}

func TestCheckReportsImportFailures(t *testing.T) {
	s := newSession(t, map[string]string{"main.ts": "import { a } from \"./missing\";\nexport const b = a;\n"})
	results, err := s.Check(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, errors.Count(results[0].Errors, errors.ModuleLoadFailed))
	assert.Zero(t, errors.Count(results[0].Errors, errors.UndefinedSymbol))
}

func TestCheckEntries(t *testing.T) {
	fsys := fstest.MapFS{"main.ts": &fstest.MapFile{Data: []byte("export const n = 1;\n")}}
	cfg := config.Default(t.TempDir())
	cfg.Entries = []string{cfg.Root + "/main.ts"}
	s, err := NewSession(cfg, WithFS(fsys))
	require.NoError(t, err)

	files, err := s.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"main.ts"}, files)
}

func TestCheckCancelled(t *testing.T) {
	s := newSession(t, map[string]string{"a.ts": "export const a = 1;\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Check(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtraResolver(t *testing.T) {
	mem := modules.NewMemoryResolver("virtual")
	mem.AddModule("virtual/v.ts", "export const v = \"x\";\n")
	s := newSession(t, map[string]string{"main.ts": "import { v } from \"virtual/v\";\nexport const w = v;\n"}, WithResolver(mem))
	res := s.CheckFile(context.Background(), "main.ts")
	assert.Empty(t, res.Errors, spew.Sdump(res.Errors))
	assert.True(t, types.IsAssignable(res.Exports["w"], types.String))
}

func TestEval(t *testing.T) {
	s := newSession(t, nil)
	ctx := context.Background()

	_, errs := s.Eval(ctx, "let x = 1;")
	require.Empty(t, errs)

	ty, errs := s.Eval(ctx, "x")
	require.Empty(t, errs)
	assert.True(t, ty.Equals(types.Number), "x: %s", ty)

	_, errs = s.Eval(ctx, "y")
	require.Len(t, errs, 1)
	assert.Equal(t, errors.UndefinedSymbol, errs[0].Kind)

	// The rejected line is not kept.
	ty, errs = s.Eval(ctx, "x")
	require.Empty(t, errs)
	assert.True(t, ty.Equals(types.Number))

	s.Reset()
	_, errs = s.Eval(ctx, "x")
	assert.Equal(t, 1, errors.Count(errs, errors.UndefinedSymbol))
}

func TestResetReloadsModules(t *testing.T) {
	fsys := fstest.MapFS{"lib.ts": &fstest.MapFile{Data: []byte("export let v = 1;\n")}}
	s, err := NewSession(config.Default(t.TempDir()), WithFS(fsys))
	require.NoError(t, err)
	ctx := context.Background()

	_, errs := s.Eval(ctx, `import { v } from "./lib";`)
	require.Empty(t, errs, spew.Sdump(errs))
	ty, errs := s.Eval(ctx, "v")
	require.Empty(t, errs)
	assert.True(t, ty.Equals(types.Number), "v: %s", ty)

	fsys["lib.ts"] = &fstest.MapFile{Data: []byte("export let v = \"s\";\n")}

	// Still served from the module cache.
	ty, errs = s.Eval(ctx, "v")
	require.Empty(t, errs)
	assert.True(t, ty.Equals(types.Number), "v: %s", ty)

	s.Reset()
	assert.Zero(t, s.Stats().Registry.TotalModules)
	_, errs = s.Eval(ctx, `import { v } from "./lib";`)
	require.Empty(t, errs, spew.Sdump(errs))
	ty, errs = s.Eval(ctx, "v")
	require.Empty(t, errs)
	assert.True(t, ty.Equals(types.String), "v: %s", ty)
}

func TestWithFileSet(t *testing.T) {
	fset := source.NewFileSet()
	s := newSession(t, map[string]string{"bad.ts": "let x = ;\n"}, WithFileSet(fset))
	assert.Same(t, fset, s.FileSet())

	res := s.CheckFile(context.Background(), "bad.ts")
	require.NotEmpty(t, res.Errors)
	pos := res.Errors[0].Pos(fset)
	require.NotNil(t, pos.Source, "span %s not registered in the caller's file set", res.Errors[0].Span)
	assert.Equal(t, 1, pos.Line)
}
