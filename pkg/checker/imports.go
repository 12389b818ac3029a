package checker

import (
	stderrors "errors"

	"golang.org/x/sync/errgroup"

	"tscheck/pkg/ast"
	"tscheck/pkg/errors"
	"tscheck/pkg/modules"
	"tscheck/pkg/types"
)

// importRequest is one load request found in a statement list.
type importRequest struct {
	node    ast.Node
	info    *modules.ImportInfo
	require bool
}

type importResult struct {
	exports map[string]types.Type
	err     error
}

// findImports extracts the import requests of a statement list. Import and
// re-export declarations are taken from the list itself; require calls are
// searched for in every nested statement and expression. Statements under
// an already scanned list are not walked again, and nodes already
// dispatched by an enclosing list are skipped.
func (a *analyzer) findImports(stmts []ast.Stmt) []importRequest {
	var reqs []importRequest
	add := func(node ast.Node, info *modules.ImportInfo, require bool) {
		if a.dispatched[node] {
			return
		}
		reqs = append(reqs, importRequest{node: node, info: info, require: require})
	}

	for _, s := range stmts {
		switch s := s.(type) {
		case *ast.ImportDecl:
			for _, info := range importInfos(s) {
				add(s, info, false)
			}
		case *ast.ExportNamed:
			if s.Src == nil {
				continue
			}
			if len(s.Specifiers) == 1 && s.Specifiers[0].Local == "*" {
				// export * as ns from "m"
				add(s, &modules.ImportInfo{Src: s.Src.Value, All: true, Namespace: s.Specifiers[0].Exported, Span: s.Span, ReExport: true}, false)
				continue
			}
			items := make([]modules.Specifier, len(s.Specifiers))
			for i, sp := range s.Specifiers {
				items[i] = modules.Specifier{Local: sp.Exported, Export: sp.Local, Span: sp.Span}
			}
			add(s, &modules.ImportInfo{Src: s.Src.Value, Items: items, Span: s.Span, ReExport: true}, false)
		case *ast.ExportAll:
			add(s, &modules.ImportInfo{Src: s.Src.Value, All: true, Span: s.Span, ReExport: true}, false)
		}
	}

	if a.requireShadowed {
		return reqs
	}
	for _, s := range stmts {
		if a.scanned[s] {
			continue
		}
		ast.Inspect(s, func(n ast.Node) bool {
			if st, ok := n.(ast.Stmt); ok {
				a.scanned[st] = true
			}
			call, ok := n.(*ast.CallExpr)
			if !ok || a.dispatched[call] || !isRequireCallee(call.Callee) {
				return true
			}
			src, ok := requireSource(call)
			if !ok {
				a.dispatched[call] = true
				a.errorf(errors.Unsupported, call.Span, "dynamic require is not supported")
				return true
			}
			add(call, &modules.ImportInfo{Src: src, All: true, Span: call.Span}, true)
			return true
		})
	}
	return reqs
}

// importInfos splits an import declaration into load requests: one for the
// named and default specifiers, one per namespace specifier, or a bare
// side-effect request.
func importInfos(d *ast.ImportDecl) []*modules.ImportInfo {
	var out []*modules.ImportInfo
	var items []modules.Specifier
	for _, sp := range d.Specifiers {
		switch sp.Kind {
		case ast.ImportDefault:
			items = append(items, modules.Specifier{Local: sp.Local.Name, Export: "default", Span: sp.Span})
		case ast.ImportNamed:
			export := sp.Imported
			if export == "" {
				export = sp.Local.Name
			}
			items = append(items, modules.Specifier{Local: sp.Local.Name, Export: export, Span: sp.Span})
		case ast.ImportNamespace:
			out = append(out, &modules.ImportInfo{Src: d.Src.Value, All: true, Namespace: sp.Local.Name, Span: d.Span})
		}
	}
	if len(items) > 0 {
		out = append(out, &modules.ImportInfo{Src: d.Src.Value, Items: items, Span: d.Span})
	}
	if len(d.Specifiers) == 0 {
		out = append(out, &modules.ImportInfo{Src: d.Src.Value, Items: []modules.Specifier{}, Span: d.Span})
	}
	return out
}

func isRequireCallee(e ast.Expr) bool {
	id, ok := e.(*ast.Ident)
	return ok && id.Name == "require"
}

// requireSource returns the module name of `require("x")`.
func requireSource(call *ast.CallExpr) (string, bool) {
	if len(call.Args) != 1 || call.Args[0].Spread {
		return "", false
	}
	lit, ok := call.Args[0].Expr.(*ast.StrLit)
	if !ok {
		return "", false
	}
	return lit.Value, true
}

// declaresRequire reports whether the module binds the name `require`
// itself, in which case require calls are ordinary calls.
func declaresRequire(m *ast.Module) bool {
	found := false
	ast.Inspect(m, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.IdentPat:
			found = found || n.Name == "require"
		case *ast.FnDecl:
			found = found || n.Ident.Name == "require"
		case *ast.ClassDecl:
			found = found || n.Ident.Name == "require"
		case *ast.ImportDecl:
			for _, sp := range n.Specifiers {
				found = found || sp.Local.Name == "require"
			}
		}
		return !found
	})
	return found
}

// loadImports dispatches the requests of a statement list concurrently and
// merges the results once every load returned.
func (a *analyzer) loadImports(stmts []ast.Stmt) {
	reqs := a.findImports(stmts)
	if len(reqs) == 0 {
		return
	}
	for _, r := range reqs {
		a.dispatched[r.node] = true
	}

	results := make([]importResult, len(reqs))
	var g errgroup.Group
	for i, r := range reqs {
		g.Go(func() error {
			exports, err := a.load(r.info)
			results[i] = importResult{exports: exports, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for i, r := range reqs {
		a.mergeImport(r, results[i])
	}
}

func (a *analyzer) load(imp *modules.ImportInfo) (map[string]types.Type, error) {
	loader := a.c.opts.Loader
	if loader == nil {
		err := errors.New(errors.ModuleLoadFailed, imp.Span, "cannot load module %q: no module loader configured", imp.Src)
		err.Name = imp.Src
		return nil, err
	}
	debugPrintf("// [Checker Imports] %s: %s\n", a.path, imp)
	return loader.Load(a.ctx, a.path, imp)
}

func (a *analyzer) mergeImport(r importRequest, res importResult) {
	if res.err != nil {
		a.importFailed(r, res.err)
		return
	}
	switch {
	case r.require:
		a.requires[r.info.Src] = modules.NamespaceType(res.exports)
	case r.info.ReExport:
		for name, t := range res.exports {
			a.info.Exports[name] = t
		}
	default:
		for name, t := range res.exports {
			a.resolvedImports[name] = t
		}
	}
}

// importFailed records a failed request: the diagnostics it aggregates come
// first, then a single ModuleLoadFailed. Every name the request would have
// bound is marked errored so later references stay quiet.
func (a *analyzer) importFailed(r importRequest, err error) {
	var le *errors.Error
	if !stderrors.As(err, &le) || le.Kind != errors.ModuleLoadFailed {
		le = errors.New(errors.ModuleLoadFailed, r.info.Span, "cannot load module %q", r.info.Src).CausedBy(err)
		le.Name = r.info.Src
	}
	for _, n := range le.Nested {
		a.report(n)
	}
	flat := *le
	flat.Nested = nil
	a.report(&flat)

	for _, name := range r.info.LocalNames() {
		a.erroredImports[name] = true
	}
	if r.info.ReExport {
		for _, it := range r.info.Items {
			a.info.Exports[it.Local] = types.Any
		}
		if r.info.Namespace != "" {
			a.info.Exports[r.info.Namespace] = types.Any
		}
	}
	if r.require {
		a.erroredRequires[r.info.Src] = true
	}
}
