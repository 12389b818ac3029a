// Package config loads tscheck project files.
//
// A project is described by tscheck.yaml, tscheck.yml or tscheck.toml:
//
//	root: src
//	entries: [main.ts]
//	exclude: ["\\.test\\.ts$", "^vendor/"]
//	lib: [es5, es2015]
//	rules:
//	  noImplicitAny: true
//	jobs: 4
//	paths:
//	  "@app/*": ["app/*"]
package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/dlclark/regexp2"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"tscheck/pkg/builtins"
	"tscheck/pkg/checker"
	"tscheck/pkg/modules"
)

// FileNames lists the project file names Find looks for, in order.
var FileNames = []string{"tscheck.yaml", "tscheck.yml", "tscheck.toml"}

// fileConfig is the project file as encoded in YAML or TOML.
type fileConfig struct {
	Root    string              `yaml:"root" toml:"root"`
	Entries []string            `yaml:"entries" toml:"entries"`
	Exclude []string            `yaml:"exclude" toml:"exclude"`
	Lib     []string            `yaml:"lib" toml:"lib"`
	Rules   fileRules           `yaml:"rules" toml:"rules"`
	Jobs    int                 `yaml:"jobs" toml:"jobs"`
	Paths   map[string][]string `yaml:"paths" toml:"paths"`
}

type fileRules struct {
	NoImplicitAny bool `yaml:"noImplicitAny" toml:"noImplicitAny"`
}

// Config is a validated project configuration. Root and Entries are
// absolute; path mapping targets are slash-separated and relative to Root.
type Config struct {
	// File is the project file the configuration was read from, empty for
	// defaults.
	File    string
	Root    string
	Entries []string
	Exclude []*regexp2.Regexp
	Libs    []builtins.Lib
	Rule    checker.Rule
	Jobs    int
	Paths   []modules.PathMapping
}

// Default returns the configuration used when no project file exists.
func Default(root string) *Config {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return &Config{
		Root: abs,
		Libs: builtins.DefaultLibs,
		Jobs: runtime.NumCPU(),
	}
}

// Find walks up from dir to the filesystem root and loads the first project
// file found. Without one it returns Default(dir).
func Find(dir string) (*Config, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("find config: %w", err)
	}
	for cur := abs; ; cur = filepath.Dir(cur) {
		for _, name := range FileNames {
			p := filepath.Join(cur, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return Load(p)
			}
		}
		if filepath.Dir(cur) == cur {
			break
		}
	}
	return Default(abs), nil
}

// Load reads one project file. Relative paths in it are taken from the
// file's directory.
func Load(file string) (*Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	switch filepath.Ext(file) {
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	default:
		err = yaml.Unmarshal(data, &fc)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", file, err)
	}
	cfg, err := fc.build(filepath.Dir(file))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", file, err)
	}
	cfg.File = file
	return cfg, nil
}

func (fc *fileConfig) build(dir string) (*Config, error) {
	base, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	cfg := Default(base)
	if fc.Root != "" {
		cfg.Root = resolve(base, fc.Root)
	}
	for _, e := range fc.Entries {
		cfg.Entries = append(cfg.Entries, resolve(cfg.Root, e))
	}
	for _, pat := range fc.Exclude {
		re, err := regexp2.Compile(pat, regexp2.ECMAScript)
		if err != nil {
			return nil, fmt.Errorf("exclude %q: %w", pat, err)
		}
		cfg.Exclude = append(cfg.Exclude, re)
	}
	if len(fc.Lib) > 0 {
		if cfg.Libs, err = builtins.ParseLibs(fc.Lib); err != nil {
			return nil, err
		}
	}
	cfg.Rule.NoImplicitAny = fc.Rules.NoImplicitAny
	switch {
	case fc.Jobs < 0:
		return nil, fmt.Errorf("jobs must not be negative, got %d", fc.Jobs)
	case fc.Jobs > 0:
		cfg.Jobs = fc.Jobs
	}

	patterns := make([]string, 0, len(fc.Paths))
	for p := range fc.Paths {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)
	for _, p := range patterns {
		m := modules.PathMapping{Pattern: p}
		for _, t := range fc.Paths[p] {
			m.Targets = append(m.Targets, path.Clean(filepath.ToSlash(t)))
		}
		cfg.Paths = append(cfg.Paths, m)
	}
	return cfg, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// Rel returns p relative to Root in slash form, as module paths are.
func (c *Config) Rel(p string) (string, error) {
	rel, err := filepath.Rel(c.Root, p)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Excluded reports whether rel, a slash-separated path relative to Root,
// matches an exclude pattern.
func (c *Config) Excluded(rel string) bool {
	for _, re := range c.Exclude {
		if ok, err := re.MatchString(rel); err == nil && ok {
			return true
		}
	}
	return false
}
