package checker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tscheck/pkg/ast"
	"tscheck/pkg/builtins"
	"tscheck/pkg/errors"
	"tscheck/pkg/modules"
	"tscheck/pkg/scope"
	"tscheck/pkg/source"
	"tscheck/pkg/types"
)

const checkerDebug = false

func debugPrintf(format string, args ...interface{}) {
	if checkerDebug {
		fmt.Printf(format, args...)
	}
}

// Rule toggles optional strictness checks.
type Rule struct {
	NoImplicitAny bool
}

// Options configures a Checker.
type Options struct {
	Libs    []builtins.Lib // standard library sets, builtins.DefaultLibs when empty
	Rule    Rule
	Loader  modules.Loader  // resolves imports; imports fail when nil
	FileSet *source.FileSet // positions for debug output, optional
	Logger  *slog.Logger
}

// Info is the result of checking one module.
type Info struct {
	Exports map[string]types.Type
	Errors  []*errors.Error

	// LastExpr is the type of the last top-level expression statement.
	LastExpr types.Type
}

// Checker checks modules. It holds no per-module state and may be shared by
// concurrent checks.
type Checker struct {
	opts     Options
	builtins *builtins.Table
	logger   *slog.Logger
}

// New creates a checker for the given options.
func New(opts Options) (*Checker, error) {
	if len(opts.Libs) == 0 {
		opts.Libs = builtins.DefaultLibs
	}
	table, err := builtins.Load(opts.Libs)
	if err != nil {
		return nil, fmt.Errorf("load builtins: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Checker{opts: opts, builtins: table, logger: logger}, nil
}

// SetLoader replaces the import loader. It must not be called while checks
// are running.
func (c *Checker) SetLoader(l modules.Loader) { c.opts.Loader = l }

// Libs returns the standard library sets in use.
func (c *Checker) Libs() []builtins.Lib { return c.builtins.Libs() }

// CheckModule type checks one module. Diagnostics never abort the walk; the
// returned Info always carries the exports that could be determined.
func (c *Checker) CheckModule(ctx context.Context, path string, m *ast.Module) *Info {
	start := time.Now()
	a := newAnalyzer(ctx, c, path)
	a.visitModule(m)

	c.logger.Debug("module checked",
		slog.String("path", path),
		slog.Int("errors", len(a.info.Errors)),
		slog.Int("exports", len(a.info.Exports)),
		slog.Duration("elapsed", time.Since(start)))
	return &a.info
}

// Check implements modules.TypeChecker.
func (c *Checker) Check(ctx context.Context, path string, m *ast.Module) (map[string]types.Type, []*errors.Error) {
	info := c.CheckModule(ctx, path, m)
	return info.Exports, info.Errors
}

var _ modules.TypeChecker = (*Checker)(nil)

// --- Per-module traversal state ---

// fnFrame collects the return statements of the function being checked.
type fnFrame struct {
	declared types.Type // annotated return type, nil when inferred
	async    bool
	returns  []types.Type
}

// declaringName is a binding whose initializer is being typed.
type declaringName struct {
	name string
	// strict names may not be referenced at all (parameter defaults).
	strict bool
}

type pendingExport struct {
	local    string
	exported string
	span     source.Span
}

// analyzer walks a single module. It is not safe for concurrent use; the
// only concurrency is the import fan-out in loadImports.
type analyzer struct {
	ctx  context.Context
	c    *Checker
	path string

	scopes *scope.Arena
	cur    scope.ID

	info Info

	resolvedImports map[string]types.Type
	erroredImports  map[string]bool
	requires        map[string]types.Type // require("x") namespaces by source
	erroredRequires map[string]bool
	dispatched      map[ast.Node]bool // import requests already sent, by node
	scanned         map[ast.Stmt]bool // statements already searched for require calls
	requireShadowed bool

	pendingExports []pendingExport
	pendingDefault ast.Expr

	frames    []*fnFrame
	declaring []declaringName

	// implicitAnyAllowed is the initializer of an annotated declaration;
	// tuple widening inside it does not report.
	implicitAnyAllowed ast.Node

	objectIface   types.Type
	functionIface types.Type
}

func newAnalyzer(ctx context.Context, c *Checker, path string) *analyzer {
	a := &analyzer{
		ctx:             ctx,
		c:               c,
		path:            path,
		scopes:          scope.NewArena(),
		resolvedImports: make(map[string]types.Type),
		erroredImports:  make(map[string]bool),
		requires:        make(map[string]types.Type),
		erroredRequires: make(map[string]bool),
		dispatched:      make(map[ast.Node]bool),
		scanned:         make(map[ast.Stmt]bool),
		info:            Info{Exports: make(map[string]types.Type)},
	}
	a.cur = a.scopes.Root()
	if t, ok := c.builtins.Type("Object"); ok {
		a.objectIface = t
	}
	if t, ok := c.builtins.Type("Function"); ok {
		a.functionIface = t
	}
	return a
}

// --- Diagnostics ---

func (a *analyzer) report(err *errors.Error) {
	if err == nil {
		return
	}
	debugPrintf("// [Checker] %s at %s\n", err.Error(), a.position(err.Span))
	a.info.Errors = append(a.info.Errors, err)
}

func (a *analyzer) errorf(kind errors.Kind, span source.Span, format string, args ...any) *errors.Error {
	err := errors.New(kind, span, format, args...)
	a.report(err)
	return err
}

func (a *analyzer) position(span source.Span) string {
	if a.c.opts.FileSet == nil {
		return span.String()
	}
	if loc, ok := a.c.opts.FileSet.Resolve(span); ok {
		return fmt.Sprintf("%s:%d:%d", loc.File.DisplayPath(), loc.Line, loc.Column)
	}
	return span.String()
}

// --- Scope helpers ---

func (a *analyzer) push(kind scope.Kind) scope.ID {
	a.cur = a.scopes.Push(a.cur, kind)
	return a.cur
}

func (a *analyzer) pop() {
	a.cur = a.scopes.Pop(a.cur)
}

// withScope runs f inside a fresh child scope.
func (a *analyzer) withScope(kind scope.Kind, f func(id scope.ID)) {
	id := a.push(kind)
	defer a.pop()
	f(id)
}

func (a *analyzer) declare(span source.Span, name string, kind scope.VarKind, ty types.Type, initialized bool) {
	allow := kind == scope.Fn
	if err := a.scopes.Declare(a.cur, span, name, kind, ty, initialized, allow); err != nil {
		a.report(err)
	}
}

func (a *analyzer) frame() *fnFrame {
	if len(a.frames) == 0 {
		return nil
	}
	return a.frames[len(a.frames)-1]
}

func (a *analyzer) isDeclaring(name string) (declaringName, bool) {
	for i := len(a.declaring) - 1; i >= 0; i-- {
		if a.declaring[i].name == name {
			return a.declaring[i], true
		}
	}
	return declaringName{}, false
}

func (a *analyzer) pushDeclaring(names []string, strict bool) int {
	mark := len(a.declaring)
	for _, n := range names {
		a.declaring = append(a.declaring, declaringName{name: n, strict: strict})
	}
	return mark
}

func (a *analyzer) popDeclaring(mark int) {
	a.declaring = a.declaring[:mark]
}

// --- Module walk ---

func (a *analyzer) visitModule(m *ast.Module) {
	a.requireShadowed = declaresRequire(m)
	a.visitStmts(m.Body, true)
	a.resolvePendingExports()
}

// visitStmts loads the imports of a statement list, hoists its
// declarations and visits it in order.
func (a *analyzer) visitStmts(stmts []ast.Stmt, top bool) {
	a.loadImports(stmts)
	a.hoist(stmts)
	for _, s := range stmts {
		t := a.visitStmt(s)
		if top {
			if _, ok := s.(*ast.ExprStmt); ok {
				a.info.LastExpr = t
			}
		}
	}
}
