package modules

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"tscheck/pkg/errors"
	"tscheck/pkg/source"
	"tscheck/pkg/types"
)

const moduleLoaderDebug = false

func debugPrintf(format string, args ...interface{}) {
	if moduleLoaderDebug {
		fmt.Printf(format, args...)
	}
}

// GraphLoader loads, parses and checks imported modules on demand. Each
// resolved path is parsed and checked at most once; concurrent first
// requests share one load. Failures are cached like successes.
//
// A GraphLoader is safe for concurrent use.
type GraphLoader struct {
	resolvers []ModuleResolver
	registry  ModuleRegistry
	config    *LoaderConfig

	parser         Parser
	checkerFactory func() TypeChecker
	fset           *source.FileSet
	logger         *slog.Logger

	group singleflight.Group
	waits waitGraph

	mutex sync.Mutex
	stats LoaderStats
}

// NewGraphLoader creates a loader over the given resolvers
func NewGraphLoader(config *LoaderConfig, resolvers ...ModuleResolver) *GraphLoader {
	if config == nil {
		config = DefaultLoaderConfig()
	}

	l := &GraphLoader{
		registry: NewRegistry(config),
		config:   config,
		fset:     source.NewFileSet(),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, r := range resolvers {
		l.AddResolver(r)
	}
	return l
}

// AddResolver adds a module resolver to the chain, keeping it sorted by
// priority (lower = higher priority)
func (l *GraphLoader) AddResolver(resolver ModuleResolver) {
	l.resolvers = append(l.resolvers, resolver)
	sort.SliceStable(l.resolvers, func(i, j int) bool {
		return l.resolvers[i].Priority() < l.resolvers[j].Priority()
	})
}

// SetParser sets the frontend used to parse loaded sources
func (l *GraphLoader) SetParser(p Parser) { l.parser = p }

// SetCheckerFactory sets the factory function for creating type checkers
func (l *GraphLoader) SetCheckerFactory(factory func() TypeChecker) { l.checkerFactory = factory }

// SetFileSet sets the file set loaded sources are registered in. It must be
// shared with whatever resolves diagnostic spans.
func (l *GraphLoader) SetFileSet(fset *source.FileSet) { l.fset = fset }

// SetLogger sets the structured logger for load lifecycle events
func (l *GraphLoader) SetLogger(logger *slog.Logger) { l.logger = logger }

// FileSet returns the loader's file set
func (l *GraphLoader) FileSet() *source.FileSet { return l.fset }

// Registry exposes the module cache
func (l *GraphLoader) Registry() ModuleRegistry { return l.registry }

// GetStats returns loader statistics
func (l *GraphLoader) GetStats() LoaderStats {
	l.mutex.Lock()
	stats := l.stats
	l.mutex.Unlock()
	stats.Registry = l.registry.GetStats()
	return stats
}

// ClearCache clears the module cache
func (l *GraphLoader) ClearCache() { l.registry.Clear() }

// Load implements Loader.
func (l *GraphLoader) Load(ctx context.Context, from string, imp *ImportInfo) (map[string]types.Type, error) {
	l.mutex.Lock()
	l.stats.Requests++
	l.mutex.Unlock()

	record, failure := l.load(ctx, imp.Src, from, imp.Span)
	if failure != nil {
		return nil, failure
	}
	bound, failure := bind(record, imp)
	if failure != nil {
		return nil, failure
	}
	return bound, nil
}

// LoadModule loads the module a specifier names, relative to fromPath.
func (l *GraphLoader) LoadModule(ctx context.Context, specifier, fromPath string) (*ModuleRecord, error) {
	record, failure := l.load(ctx, specifier, fromPath, source.DummySpan)
	if failure != nil {
		return nil, failure
	}
	return record, nil
}

func loadFailed(specifier string, span source.Span) *errors.Error {
	e := errors.New(errors.ModuleLoadFailed, span, "cannot load module %q", specifier)
	e.Name = specifier
	return e
}

func (l *GraphLoader) load(ctx context.Context, specifier, from string, span source.Span) (*ModuleRecord, *errors.Error) {
	debugPrintf("// [ModuleLoader] load: %s from %s\n", specifier, from)

	resolved, err := l.resolveModule(specifier, from)
	if err != nil {
		return nil, loadFailed(specifier, span).CausedBy(err)
	}
	target := resolved.ResolvedPath
	content, err := readSource(resolved)
	if err != nil {
		return nil, loadFailed(specifier, span).CausedBy(err)
	}

	chain := ImportChain(ctx)
	if from != "" && (len(chain) == 0 || chain[len(chain)-1] != from) {
		chain = append(slices.Clone(chain), from)
	}
	if slices.Contains(chain, target) {
		return nil, loadFailed(specifier, span).Wrap(circular(span, append(chain, target)))
	}
	if l.config.MaxDepth > 0 && len(chain) >= l.config.MaxDepth {
		return nil, loadFailed(specifier, span).CausedBy(fmt.Errorf("import chain deeper than %d", l.config.MaxDepth))
	}

	record := l.registry.Get(target)
	if record == nil {
		// Waiting on a load that itself waits on this chain would never return.
		if cycle := l.waits.block(from, target, chain); cycle != nil {
			return nil, loadFailed(specifier, span).Wrap(circular(span, cycle))
		}
		v, _, _ := l.group.Do(target, func() (any, error) {
			if rec := l.registry.Get(target); rec != nil {
				return rec, nil
			}
			rec := l.build(WithImporter(ctx, target), chain, specifier, target, content)
			l.registry.Set(target, rec)
			return rec, nil
		})
		l.waits.unblock(from, target)
		record = v.(*ModuleRecord)
	}

	if record.Failure != nil {
		f := loadFailed(specifier, span).Wrap(record.Failure.Nested...)
		return nil, f.CausedBy(record.Failure.Cause)
	}
	return record, nil
}

// build parses and checks one module. The returned record is final.
func (l *GraphLoader) build(ctx context.Context, chain []string, specifier, modulePath, content string) *ModuleRecord {
	start := time.Now()
	record := &ModuleRecord{
		Specifier:    specifier,
		ResolvedPath: modulePath,
		State:        ModuleResolved,
		LoadTime:     start,
	}
	fail := func(cause error, nested ...*errors.Error) *ModuleRecord {
		record.State = ModuleError
		record.Failure = loadFailed(specifier, source.DummySpan).Wrap(nested...)
		record.Failure.Cause = cause
		l.logger.Debug("module load failed", "path", modulePath, "error", record.Failure)
		return record
	}

	file := l.fset.Add(source.NewSourceFile(path.Base(modulePath), modulePath, content))
	record.Source = file

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if l.parser == nil {
		return fail(fmt.Errorf("no parser configured"))
	}
	m, diags, err := l.parser.Parse(ctx, file)
	record.ParseDuration = time.Since(start)
	if err != nil {
		return fail(fmt.Errorf("parse %s: %w", modulePath, err))
	}
	if len(diags) > 0 {
		record.Diagnostics = diags
		return fail(nil, diags...)
	}
	record.AST = m
	record.State = ModuleParsed

	if l.checkerFactory != nil {
		record.State = ModuleChecking
		checkStart := time.Now()
		exports, errs := l.checkerFactory().Check(ctx, modulePath, m)
		record.Exports = exports
		record.Diagnostics = errs
		record.CheckDuration = time.Since(checkStart)
	}
	record.State = ModuleChecked

	l.mutex.Lock()
	l.stats.Loads++
	l.stats.TotalLoadTime += time.Since(start)
	l.mutex.Unlock()

	l.logger.Debug("module loaded",
		"path", modulePath,
		"importer", lastOf(chain),
		"exports", len(record.Exports),
		"diagnostics", len(record.Diagnostics),
		"duration", time.Since(start))
	return record
}

// resolveModule resolves a module specifier using the resolver chain
func (l *GraphLoader) resolveModule(specifier string, fromPath string) (*ResolvedModule, error) {
	var errs []string
	for _, resolver := range l.resolvers {
		if !resolver.CanResolve(specifier) {
			continue
		}
		resolved, err := resolver.Resolve(specifier, fromPath)
		if err == nil {
			debugPrintf("// [ModuleLoader] %s resolved %s to %s\n", resolver.Name(), specifier, resolved.ResolvedPath)
			return resolved, nil
		}
		// Continue to next resolver if this one fails
		errs = append(errs, resolver.Name()+": "+err.Error())
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("no resolver could handle specifier: %s", specifier)
	}
	return nil, fmt.Errorf("cannot resolve %s (%s)", specifier, strings.Join(errs, "; "))
}

func readSource(resolved *ResolvedModule) (string, error) {
	defer resolved.Source.Close()
	content, err := io.ReadAll(resolved.Source)
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}
	return string(content), nil
}

// bind maps a loaded module's exports to the local names of one request.
func bind(record *ModuleRecord, imp *ImportInfo) (map[string]types.Type, *errors.Error) {
	exports := record.Exports
	if imp.All {
		all := make(map[string]types.Type, len(exports))
		for name, t := range exports {
			if imp.ReExport && name == "default" {
				continue
			}
			all[name] = t
		}
		if imp.Namespace != "" {
			return map[string]types.Type{imp.Namespace: NamespaceType(all)}, nil
		}
		return all, nil
	}

	out := make(map[string]types.Type, len(imp.Items))
	var missing []*errors.Error
	for _, it := range imp.Items {
		t, ok := exports[it.Export]
		if !ok {
			e := errors.New(errors.NotExported, it.Span, "module %q has no exported member %q", imp.Src, it.Export)
			e.Name = it.Export
			missing = append(missing, e)
			continue
		}
		out[it.Local] = t
	}
	if len(missing) > 0 {
		return nil, loadFailed(imp.Src, imp.Span).Wrap(missing...)
	}
	return out, nil
}

func circular(span source.Span, cycle []string) *errors.Error {
	e := errors.New(errors.CircularImport, span, "import cycle: %s", strings.Join(cycle, " -> "))
	e.Name = lastOf(cycle)
	return e
}

func lastOf(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1]
}

// --- import chain ---

type chainKey struct{}

// WithImporter returns a context whose import chain ends with modulePath.
func WithImporter(ctx context.Context, modulePath string) context.Context {
	chain := ImportChain(ctx)
	if len(chain) > 0 && chain[len(chain)-1] == modulePath {
		return ctx
	}
	next := make([]string, len(chain), len(chain)+1)
	copy(next, chain)
	return context.WithValue(ctx, chainKey{}, append(next, modulePath))
}

// ImportChain returns the modules whose checks led to the current one,
// outermost first.
func ImportChain(ctx context.Context) []string {
	chain, _ := ctx.Value(chainKey{}).([]string)
	return chain
}

// --- wait graph ---

// waitGraph records which module checks are blocked on which loads, so a
// request closing a cycle across goroutines fails instead of deadlocking.
type waitGraph struct {
	mu    sync.Mutex
	edges map[string]map[string]int
}

// block records that from waits on to. If to already waits, transitively,
// on a module of chain, nothing is recorded and the cycle is returned.
func (g *waitGraph) block(from, to string, chain []string) []string {
	if from == "" {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if p := g.pathTo(to, chain); p != nil {
		return append(slices.Clone(chain), p...)
	}
	if g.edges == nil {
		g.edges = make(map[string]map[string]int)
	}
	if g.edges[from] == nil {
		g.edges[from] = make(map[string]int)
	}
	g.edges[from][to]++
	return nil
}

func (g *waitGraph) unblock(from, to string) {
	if from == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.edges[from][to]--; g.edges[from][to] <= 0 {
		delete(g.edges[from], to)
		if len(g.edges[from]) == 0 {
			delete(g.edges, from)
		}
	}
}

// pathTo returns a wait path from start ending in a member of targets, or
// nil (called with lock held).
func (g *waitGraph) pathTo(start string, targets []string) []string {
	seen := map[string]bool{}
	var walk func(n string, trail []string) []string
	walk = func(n string, trail []string) []string {
		trail = append(trail, n)
		if slices.Contains(targets, n) {
			return trail
		}
		if seen[n] {
			return nil
		}
		seen[n] = true
		next := make([]string, 0, len(g.edges[n]))
		for m := range g.edges[n] {
			next = append(next, m)
		}
		sort.Strings(next)
		for _, m := range next {
			if p := walk(m, trail); p != nil {
				return p
			}
		}
		return nil
	}
	return walk(start, nil)
}
