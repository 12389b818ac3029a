// Package driver wires the frontend, module loader and checker into a
// project check and an interactive session.
package driver

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"tscheck/pkg/checker"
	"tscheck/pkg/config"
	"tscheck/pkg/errors"
	"tscheck/pkg/modules"
	"tscheck/pkg/source"
	"tscheck/pkg/tsparse"
	"tscheck/pkg/types"
)

const debugDriver = false

func debugPrintf(format string, args ...interface{}) {
	if debugDriver {
		fmt.Printf(format, args...)
	}
}

// TracerName is the instrumentation scope of driver spans.
const TracerName = "tscheck/driver"

// Extensions lists the file extensions a project walk picks up.
var Extensions = []string{".ts", ".tsx"}

// Result is the outcome of checking one module.
type Result struct {
	Path     string // slash-separated, relative to the project root
	Exports  map[string]types.Type
	Errors   []*errors.Error
	Duration time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the structured logger for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracer sets the tracer module checks are recorded with. The global
// otel provider is used by default.
func WithTracer(t trace.Tracer) Option {
	return func(s *Session) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithResolver adds a module resolver in front of the project filesystem.
func WithResolver(r modules.ModuleResolver) Option {
	return func(s *Session) { s.extra = append(s.extra, r) }
}

// WithFS replaces the project filesystem, which is otherwise the OS
// directory cfg.Root.
func WithFS(fsys fs.FS) Option {
	return func(s *Session) { s.fsys = fsys }
}

// WithFileSet registers loaded sources in fset, so spans the session
// reports resolve against a file set the caller already holds.
func WithFileSet(fset *source.FileSet) Option {
	return func(s *Session) { s.fset = fset }
}

// Session checks the modules of one project. Modules are loaded, parsed and
// checked at most once per session, whether they are reached as entries or
// through imports.
type Session struct {
	cfg     *config.Config
	fsys    fs.FS
	fset    *source.FileSet
	extra   []modules.ModuleResolver
	loader  *modules.GraphLoader
	parser  *tsparse.Parser
	checker *checker.Checker
	logger  *slog.Logger
	tracer  trace.Tracer

	replMu  sync.Mutex
	replSrc strings.Builder
}

// NewSession builds a session for cfg.
func NewSession(cfg *config.Config, opts ...Option) (*Session, error) {
	s := &Session{
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer(TracerName),
	}
	for _, o := range opts {
		o(s)
	}

	var fsResolver *modules.FileSystemResolver
	if s.fsys != nil {
		fsResolver = modules.NewFileSystemResolver(s.fsys)
	} else {
		fsResolver = modules.NewOSFileSystemResolver(cfg.Root)
	}
	fsResolver.SetPaths(cfg.Paths)

	s.loader = modules.NewGraphLoader(nil, fsResolver)
	if s.fset != nil {
		s.loader.SetFileSet(s.fset)
	}
	for _, r := range s.extra {
		s.loader.AddResolver(r)
	}
	s.parser = tsparse.New(tsparse.WithLogger(s.logger))
	s.loader.SetParser(s.parser)
	s.loader.SetLogger(s.logger)

	chk, err := checker.New(checker.Options{
		Libs:    cfg.Libs,
		Rule:    cfg.Rule,
		Loader:  s.loader,
		FileSet: s.loader.FileSet(),
		Logger:  s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create checker: %w", err)
	}
	s.checker = chk
	// One checker serves every module; it keeps no per-module state.
	s.loader.SetCheckerFactory(func() modules.TypeChecker { return chk })
	return s, nil
}

// FileSet resolves the spans of every diagnostic the session reports.
func (s *Session) FileSet() *source.FileSet { return s.loader.FileSet() }

// Stats returns loader statistics.
func (s *Session) Stats() modules.LoaderStats { return s.loader.GetStats() }

// Files lists the modules a project check covers: the configured entries,
// then every source file under the root that is not excluded. Paths are
// slash-separated and relative to the root.
func (s *Session) Files() ([]string, error) {
	seen := map[string]bool{}
	var out []string
	add := func(rel string) {
		if !seen[rel] {
			seen[rel] = true
			out = append(out, rel)
		}
	}
	for _, e := range s.cfg.Entries {
		rel, err := s.cfg.Rel(e)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", e, err)
		}
		add(rel)
	}

	fsys := s.fsys
	if fsys == nil {
		fsys = os.DirFS(filepath.Clean(s.cfg.Root))
	}
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
				return fs.SkipDir
			}
			return nil
		}
		if !hasExtension(p) || s.cfg.Excluded(p) {
			return nil
		}
		add(p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.cfg.Root, err)
	}
	return out, nil
}

func hasExtension(p string) bool {
	ext := path.Ext(p)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Check checks every project file with at most cfg.Jobs checks in flight.
// Results are sorted by path. The error is reserved for failures to list
// the project or a cancelled context; diagnostics are in the results.
func (s *Session) Check(ctx context.Context) ([]*Result, error) {
	files, err := s.Files()
	if err != nil {
		return nil, err
	}
	s.logger.Info("checking project", "root", s.cfg.Root, "files", len(files), "jobs", s.cfg.Jobs)

	results := make([]*Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	if s.cfg.Jobs > 0 {
		g.SetLimit(s.cfg.Jobs)
	}
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.CheckFile(ctx, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}

// CheckFile checks one module given by its root-relative path.
func (s *Session) CheckFile(ctx context.Context, rel string) *Result {
	ctx, span := s.tracer.Start(ctx, "check module", trace.WithAttributes(attribute.String("tscheck.path", rel)))
	defer span.End()

	start := time.Now()
	res := &Result{Path: rel}
	record, err := s.loader.LoadModule(ctx, "/"+strings.TrimPrefix(rel, "/"), "")
	if err != nil {
		res.Errors = loadErrors(err)
	} else {
		res.Path = record.ResolvedPath
		res.Exports = record.Exports
		res.Errors = record.Diagnostics
	}
	res.Duration = time.Since(start)

	span.SetAttributes(attribute.Int("tscheck.errors", len(res.Errors)))
	if len(res.Errors) > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d diagnostics", len(res.Errors)))
	}
	s.logger.Debug("module checked", "path", res.Path, "errors", len(res.Errors), "duration", res.Duration)
	return res
}

// loadErrors unpacks a load failure of an entry. A module that failed to
// parse reports its syntax diagnostics directly.
func loadErrors(err error) []*errors.Error {
	var le *errors.Error
	if !stderrors.As(err, &le) {
		return []*errors.Error{errors.New(errors.ModuleLoadFailed, source.DummySpan, "%v", err)}
	}
	if len(le.Nested) > 0 {
		return le.Nested
	}
	if le.Cause != nil {
		flat := *le
		flat.Msg = fmt.Sprintf("%s: %v", le.Msg, le.Cause)
		return []*errors.Error{&flat}
	}
	return []*errors.Error{le}
}

// Eval checks line in the context of the lines accepted before it and
// returns the type of its last expression statement. A line with
// diagnostics is not kept.
func (s *Session) Eval(ctx context.Context, line string) (types.Type, []*errors.Error) {
	s.replMu.Lock()
	defer s.replMu.Unlock()

	content := s.replSrc.String() + line + "\n"
	file := s.loader.FileSet().Add(source.NewReplSource(content))
	m, diags, err := s.parser.Parse(ctx, file)
	if err != nil {
		return nil, []*errors.Error{errors.New(errors.Syntax, source.DummySpan, "%v", err)}
	}
	if len(diags) > 0 {
		return nil, diags
	}
	info := s.checker.CheckModule(ctx, file.Path, m)
	if len(info.Errors) > 0 {
		return nil, info.Errors
	}
	s.replSrc.WriteString(line)
	s.replSrc.WriteString("\n")
	debugPrintf("// [Driver] repl source now %d bytes\n", s.replSrc.Len())
	return info.LastExpr, nil
}

// Reset forgets the lines accepted by Eval and drops every cached module,
// so the next import reads the source again.
func (s *Session) Reset() {
	s.replMu.Lock()
	s.replSrc.Reset()
	s.loader.ClearCache()
	s.replMu.Unlock()
}
