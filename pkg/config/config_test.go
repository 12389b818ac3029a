package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tscheck/pkg/builtins"
	"tscheck/pkg/modules"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tscheck.yaml")
	writeFile(t, file, `
root: src
entries: [main.ts]
exclude: ["\\.test\\.ts$"]
lib: [es5]
rules:
  noImplicitAny: true
jobs: 3
paths:
  "@app/*": ["app/*"]
`)
	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, file, cfg.File)
	assert.Equal(t, filepath.Join(dir, "src"), cfg.Root)
	assert.Equal(t, []string{filepath.Join(dir, "src", "main.ts")}, cfg.Entries)
	assert.Equal(t, []builtins.Lib{builtins.ES5}, cfg.Libs)
	assert.True(t, cfg.Rule.NoImplicitAny)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, []modules.PathMapping{{Pattern: "@app/*", Targets: []string{"app/*"}}}, cfg.Paths)

	assert.True(t, cfg.Excluded("lib/a.test.ts"))
	assert.False(t, cfg.Excluded("lib/a.ts"))
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tscheck.toml")
	writeFile(t, file, `
entries = ["index.ts"]
exclude = ["^vendor/"]
jobs = 2

[rules]
noImplicitAny = true
`)
	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, []string{filepath.Join(dir, "index.ts")}, cfg.Entries)
	assert.Equal(t, builtins.DefaultLibs, cfg.Libs)
	assert.True(t, cfg.Rule.NoImplicitAny)
	assert.Equal(t, 2, cfg.Jobs)
	assert.True(t, cfg.Excluded("vendor/x.ts"))
	assert.False(t, cfg.Excluded("src/vendor/x.ts"))
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"bad lib":     "lib: [es1999]\n",
		"bad regexp":  "exclude: [\"(\"]\n",
		"bad jobs":    "jobs: -1\n",
		"bad syntax":  "entries: [\n",
		"wrong shape": "entries: 3\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "tscheck.yaml")
			writeFile(t, file, content)
			_, err := Load(file)
			assert.Error(t, err)
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tscheck.yml"), "jobs: 5\n")
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Find(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tscheck.yml"), cfg.File)
	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, 5, cfg.Jobs)
}

func TestFindDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Find(dir)
	require.NoError(t, err)
	// A project file above the temp dir would be picked up instead.
	if cfg.File != "" {
		t.Skipf("found unrelated project file %s", cfg.File)
	}
	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, runtime.NumCPU(), cfg.Jobs)
	assert.Equal(t, builtins.DefaultLibs, cfg.Libs)
}

func TestRel(t *testing.T) {
	cfg := Default(t.TempDir())
	rel, err := cfg.Rel(filepath.Join(cfg.Root, "a", "b.ts"))
	require.NoError(t, err)
	assert.Equal(t, "a/b.ts", rel)
}
