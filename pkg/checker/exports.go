package checker

import (
	"tscheck/pkg/ast"
	"tscheck/pkg/errors"
	"tscheck/pkg/types"
)

// visitExportDecl checks an exported declaration and records the names it
// binds. Interfaces and type aliases export their type.
func (a *analyzer) visitExportDecl(s *ast.ExportDecl) {
	a.visitStmt(s.Decl)
	switch d := s.Decl.(type) {
	case *ast.VarDecl:
		for _, v := range d.Decls {
			for _, name := range ast.BoundNames(v.Name) {
				a.exportValue(name)
			}
		}
	case *ast.FnDecl:
		a.exportValue(d.Ident.Name)
	case *ast.ClassDecl:
		a.exportValue(d.Ident.Name)
	case *ast.EnumDecl:
		a.exportValue(d.Ident.Name)
	case *ast.InterfaceDecl:
		a.info.Exports[d.Ident.Name] = a.ownType(d.Ident.Name)
	case *ast.TypeAliasDecl:
		a.info.Exports[d.Ident.Name] = a.ownType(d.Ident.Name)
	}
}

func (a *analyzer) exportValue(name string) {
	if v, ok := a.scopes.Find(a.cur, name); ok {
		a.info.Exports[name] = v.Type()
		return
	}
	a.info.Exports[name] = types.Any
}

// resolvePendingExports binds `export { a as b }` lists and the default
// export once the whole module has been visited, so they may name bindings
// declared after them.
func (a *analyzer) resolvePendingExports() {
	root := a.scopes.Root()
	for _, p := range a.pendingExports {
		if v, ok := a.scopes.FindOwn(root, p.local); ok {
			t := v.Type()
			if t == nil {
				t = types.Any
			}
			a.info.Exports[p.exported] = t
			continue
		}
		if t, ok := a.scopes.FindType(root, p.local); ok {
			a.info.Exports[p.exported] = t
			continue
		}
		if t, ok := a.resolvedImports[p.local]; ok {
			a.info.Exports[p.exported] = t
			continue
		}
		if a.erroredImports[p.local] {
			a.info.Exports[p.exported] = types.Any
			continue
		}
		err := a.errorf(errors.UndefinedSymbol, p.span, "cannot find name '%s'", p.local)
		err.Name = p.local
	}
	if a.pendingDefault != nil {
		a.info.Exports["default"] = a.typeOf(a.pendingDefault)
	}
}
