package modules

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tscheck/pkg/ast"
	"tscheck/pkg/errors"
	"tscheck/pkg/source"
	"tscheck/pkg/types"
)

// lineParser accepts anything without "!!"; the module keeps its file.
type lineParser struct{ parses atomic.Int32 }

func (p *lineParser) Parse(_ context.Context, file *source.SourceFile) (*ast.Module, []*errors.Error, error) {
	p.parses.Add(1)
	if i := strings.Index(file.Content, "!!"); i >= 0 {
		return nil, []*errors.Error{errors.New(errors.Syntax, file.Span(i, i+2), "unexpected token")}, nil
	}
	return &ast.Module{File: file}, nil, nil
}

// lineChecker interprets one directive per line:
//
//	export <name> <number|string>
//	import <specifier>
//	wait
type lineChecker struct {
	loader  Loader
	checks  atomic.Int32
	barrier *sync.WaitGroup
}

func (c *lineChecker) Check(ctx context.Context, path string, m *ast.Module) (map[string]types.Type, []*errors.Error) {
	c.checks.Add(1)
	exports := map[string]types.Type{}
	var errs []*errors.Error
	for _, line := range strings.Split(m.File.Content, "\n") {
		f := strings.Fields(line)
		if len(f) == 0 {
			continue
		}
		switch f[0] {
		case "export":
			t := types.Type(types.Number)
			if f[2] == "string" {
				t = types.String
			}
			exports[f[1]] = t
		case "import":
			if _, err := c.loader.Load(ctx, path, &ImportInfo{Src: f[1], All: true, Namespace: "ns"}); err != nil {
				errs = append(errs, err.(*errors.Error))
			}
		case "wait":
			c.barrier.Done()
			c.barrier.Wait()
		}
	}
	return exports, errs
}

func newTestLoader(files map[string]string) (*GraphLoader, *lineParser, *lineChecker) {
	mem := NewMemoryResolver("mem")
	for p, content := range files {
		mem.AddModule(p, content)
	}
	l := NewGraphLoader(nil, mem)
	parser := &lineParser{}
	checker := &lineChecker{loader: l}
	l.SetParser(parser)
	l.SetCheckerFactory(func() TypeChecker { return checker })
	return l, parser, checker
}

func TestLoadNamedImports(t *testing.T) {
	l, _, _ := newTestLoader(map[string]string{
		"lib.ts": "export a number\nexport default string",
	})

	got, err := l.Load(context.Background(), "main.ts", &ImportInfo{
		Src: "./lib",
		Items: []Specifier{
			{Local: "a", Export: "a"},
			{Local: "def", Export: "default"},
		},
	})
	require.NoError(t, err)
	assert.Same(t, types.Number, got["a"])
	assert.Same(t, types.String, got["def"])
}

func TestLoadNotExported(t *testing.T) {
	l, _, _ := newTestLoader(map[string]string{"lib.ts": "export a number"})

	span := source.Span{Lo: 10, Hi: 20}
	_, err := l.Load(context.Background(), "main.ts", &ImportInfo{
		Src:   "./lib",
		Span:  span,
		Items: []Specifier{{Local: "a", Export: "a"}, {Local: "b", Export: "b"}},
	})
	require.Error(t, err)

	var le *errors.Error
	require.True(t, stderrors.As(err, &le))
	assert.Equal(t, errors.ModuleLoadFailed, le.Kind)
	assert.Equal(t, span, le.Span)
	require.Len(t, le.Nested, 1)
	assert.Equal(t, errors.NotExported, le.Nested[0].Kind)
	assert.Equal(t, "b", le.Nested[0].Name)
}

func TestLoadNamespaceAndReExport(t *testing.T) {
	l, _, _ := newTestLoader(map[string]string{
		"lib.ts": "export a number\nexport b string\nexport default number",
	})
	ctx := context.Background()

	ns, err := l.Load(ctx, "main.ts", &ImportInfo{Src: "./lib", All: true, Namespace: "lib"})
	require.NoError(t, err)
	lit, ok := ns["lib"].(*types.TypeLiteral)
	require.True(t, ok)
	assert.Len(t, lit.Members, 3)
	assert.NotNil(t, lit.Lookup("default"))

	all, err := l.Load(ctx, "main.ts", &ImportInfo{Src: "./lib", All: true, ReExport: true})
	require.NoError(t, err)
	assert.Len(t, all, 2, "export * skips the default export")

	req := &ImportInfo{Src: "./lib", All: true}
	assert.True(t, req.IsRequire())
	all, err = l.Load(ctx, "main.ts", req)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLoadResolveFailure(t *testing.T) {
	l, parser, _ := newTestLoader(nil)

	_, err := l.Load(context.Background(), "main.ts", &ImportInfo{Src: "./missing", Items: []Specifier{{Local: "x", Export: "x"}}})
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.ModuleLoadFailed})
	assert.Contains(t, err.Error(), `cannot load module "./missing"`)
	assert.Zero(t, parser.parses.Load())
}

func TestLoadCachesFailures(t *testing.T) {
	l, parser, checker := newTestLoader(map[string]string{"bad.ts": "export x number\n!!"})
	ctx := context.Background()

	for range 3 {
		_, err := l.Load(ctx, "main.ts", &ImportInfo{Src: "./bad", All: true, Namespace: "b"})
		require.Error(t, err)
		var le *errors.Error
		require.ErrorAs(t, err, &le)
		assert.NotNil(t, errors.Find(le.Nested, errors.Syntax))
	}
	assert.EqualValues(t, 1, parser.parses.Load())
	assert.Zero(t, checker.checks.Load())
	assert.Equal(t, 1, l.GetStats().Registry.FailedModules)
}

func TestLoadDependencyWithTypeErrorsStillLoads(t *testing.T) {
	l, _, _ := newTestLoader(map[string]string{
		"a.ts": "import ./missing\nexport a number",
	})
	got, err := l.Load(context.Background(), "main.ts", &ImportInfo{Src: "./a", Items: []Specifier{{Local: "a", Export: "a"}}})
	require.NoError(t, err)
	assert.Same(t, types.Number, got["a"])

	rec := l.Registry().Get("a.ts")
	require.NotNil(t, rec)
	assert.Equal(t, ModuleChecked, rec.State)
	assert.Equal(t, 1, errors.Count(rec.Diagnostics, errors.ModuleLoadFailed))
}

func TestLoadDetectsCycle(t *testing.T) {
	l, _, checker := newTestLoader(map[string]string{
		"a.ts": "import ./b\nexport a number",
		"b.ts": "import ./a\nexport b number",
	})

	_, err := l.Load(modulesCtx("a.ts"), "a.ts", &ImportInfo{Src: "./b", All: true, Namespace: "b"})
	require.NoError(t, err, "a cycle fails the inner import, not the outer one")

	rec := l.Registry().Get("b.ts")
	require.NotNil(t, rec)
	cyc := errors.Find(rec.Diagnostics, errors.CircularImport)
	require.NotNil(t, cyc)
	assert.Equal(t, "import cycle: a.ts -> b.ts -> a.ts", cyc.Msg)
	assert.EqualValues(t, 1, checker.checks.Load())
}

func modulesCtx(path string) context.Context {
	return WithImporter(context.Background(), path)
}

func TestLoadSharesConcurrentFirstRequests(t *testing.T) {
	l, parser, checker := newTestLoader(map[string]string{"lib.ts": "export a number"})

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Load(context.Background(), "main.ts", &ImportInfo{Src: "./lib", Items: []Specifier{{Local: "a", Export: "a"}}})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, parser.parses.Load())
	assert.EqualValues(t, 1, checker.checks.Load())
	assert.Equal(t, 16, l.GetStats().Requests)
}

func TestLoadCrossGoroutineCycleDoesNotDeadlock(t *testing.T) {
	l, _, checker := newTestLoader(map[string]string{
		"x.ts": "wait\nimport ./y\nexport x number",
		"y.ts": "wait\nimport ./x\nexport y number",
	})
	checker.barrier = &sync.WaitGroup{}
	checker.barrier.Add(2)

	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for _, pair := range [][2]string{{"p.ts", "./x"}, {"q.ts", "./y"}} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := l.Load(modulesCtx(pair[0]), pair[0], &ImportInfo{Src: pair[1], All: true, Namespace: "m"})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("loads deadlocked")
	}

	var diags []*errors.Error
	for _, p := range []string{"x.ts", "y.ts"} {
		rec := l.Registry().Get(p)
		require.NotNil(t, rec)
		diags = append(diags, rec.Diagnostics...)
	}
	assert.Equal(t, 1, errors.Count(diags, errors.CircularImport))
}

func TestImportChain(t *testing.T) {
	ctx := WithImporter(context.Background(), "a.ts")
	ctx = WithImporter(ctx, "b.ts")
	same := WithImporter(ctx, "b.ts")
	assert.Equal(t, []string{"a.ts", "b.ts"}, ImportChain(same))
	assert.Nil(t, ImportChain(context.Background()))
}

func TestImportInfoString(t *testing.T) {
	tests := []struct {
		imp  ImportInfo
		want string
	}{
		{ImportInfo{Src: "m", Items: []Specifier{{Local: "a", Export: "a"}, {Local: "c", Export: "b"}}}, `import {a, b as c} from "m"`},
		{ImportInfo{Src: "m", All: true, Namespace: "ns"}, `import * as ns from "m"`},
		{ImportInfo{Src: "m", All: true}, `require("m")`},
		{ImportInfo{Src: "m", All: true, ReExport: true}, `export * from "m"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.imp.String())
	}

	imp := ImportInfo{Src: "m", Items: []Specifier{{Local: "x", Export: "default"}}}
	assert.Equal(t, []string{"x"}, imp.LocalNames())
	reexp := ImportInfo{Src: "m", ReExport: true, Items: []Specifier{{Local: "x", Export: "x"}}}
	assert.Empty(t, reexp.LocalNames())
}
