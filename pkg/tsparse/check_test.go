package tsparse_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tscheck/pkg/checker"
	"tscheck/pkg/errors"
	"tscheck/pkg/modules"
	"tscheck/pkg/source"
	"tscheck/pkg/tsparse"
	"tscheck/pkg/types"
)

// checkSources parses and checks main.ts with the other sources importable.
func checkSources(t *testing.T, files map[string]string) *checker.Info {
	t.Helper()
	resolver := modules.NewMemoryResolver("test")
	for name, content := range files {
		resolver.AddModule(name, content)
	}
	loader := modules.NewGraphLoader(nil, resolver)
	parser := tsparse.New()
	loader.SetParser(parser)

	chk, err := checker.New(checker.Options{Loader: loader, FileSet: loader.FileSet()})
	require.NoError(t, err)
	loader.SetCheckerFactory(func() modules.TypeChecker { return chk })

	ctx := context.Background()
	file := source.NewSourceFile("main.ts", "main.ts", files["main.ts"])
	m, diags, err := parser.Parse(ctx, file)
	require.NoError(t, err)
	require.Empty(t, diags)
	return chk.CheckModule(ctx, "main.ts", m)
}

func TestCheckParsedModules(t *testing.T) {
	info := checkSources(t, map[string]string{
		"lib.ts": `
export function twice(n: number): number { return n * 2; }
export const name = "lib";
`,
		"main.ts": `
import { twice, name } from "./lib";
export const r = twice(2);
export const s = name;
`,
	})
	require.Empty(t, info.Errors)
	assert.True(t, info.Exports["r"].Equals(types.Number), "r: %s", info.Exports["r"])
	assert.True(t, types.IsAssignable(info.Exports["s"], types.String), "s: %s", info.Exports["s"])
}

func TestCheckParsedErrors(t *testing.T) {
	info := checkSources(t, map[string]string{
		"main.ts": `
const c = 1;
c = 2;
missing();
`,
	})
	assert.Equal(t, 1, errors.Count(info.Errors, errors.ConstAssign))
	assert.Equal(t, 1, errors.Count(info.Errors, errors.UndefinedSymbol))
}

func TestCheckMissingExport(t *testing.T) {
	info := checkSources(t, map[string]string{
		"lib.ts":  `export const a = 1;`,
		"main.ts": `import { b } from "./lib";`,
	})
	assert.Equal(t, []errors.Kind{errors.NotExported, errors.ModuleLoadFailed}, kinds(info.Errors))
}

func kinds(errs []*errors.Error) []errors.Kind {
	out := make([]errors.Kind, len(errs))
	for i, e := range errs {
		out[i] = e.Kind
	}
	return out
}
