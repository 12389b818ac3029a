package modules

import (
	"context"
	"io/fs"

	"tscheck/pkg/ast"
	"tscheck/pkg/errors"
	"tscheck/pkg/source"
	"tscheck/pkg/types"
)

// ModuleFS extends Go's standard io/fs interfaces for module loading
type ModuleFS interface {
	fs.FS
	fs.ReadFileFS // Required for reading module content
}

// ModuleResolver resolves module specifiers to concrete modules
type ModuleResolver interface {
	// Name returns a human-readable name for this resolver
	Name() string

	// CanResolve returns true if this resolver can handle the given specifier
	CanResolve(specifier string) bool

	// Resolve attempts to resolve a module specifier to a concrete module
	// fromPath is the path of the module that is importing (for relative resolution)
	Resolve(specifier string, fromPath string) (*ResolvedModule, error)

	// Priority returns the priority of this resolver (lower = higher priority)
	Priority() int
}

// Loader answers one import request of the module at path from. The result
// maps each local name the request binds to its type. A non-nil error is an
// *errors.Error of kind ModuleLoadFailed carrying the underlying diagnostics
// as Nested.
type Loader interface {
	Load(ctx context.Context, from string, imp *ImportInfo) (map[string]types.Type, error)
}

// ModuleRegistry manages the cache of loaded modules
type ModuleRegistry interface {
	// Get retrieves a module record by resolved path
	Get(path string) *ModuleRecord

	// Set stores a module record
	Set(path string, record *ModuleRecord)

	// Remove removes a module from the cache
	Remove(path string)

	// Clear clears all cached modules
	Clear()

	// List returns all cached module paths
	List() []string

	// Size returns the number of cached modules
	Size() int

	// GetStats returns registry statistics
	GetStats() RegistryStats
}

// Parser turns a source file into a syntax tree. Syntax diagnostics are
// returned as values; err is reserved for infrastructure failures.
type Parser interface {
	Parse(ctx context.Context, file *source.SourceFile) (m *ast.Module, diags []*errors.Error, err error)
}

// TypeChecker checks one module and reports its export table.
type TypeChecker interface {
	Check(ctx context.Context, path string, m *ast.Module) (exports map[string]types.Type, errs []*errors.Error)
}
