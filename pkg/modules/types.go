package modules

import (
	"io"
	"time"

	"tscheck/pkg/ast"
	"tscheck/pkg/errors"
	"tscheck/pkg/source"
	"tscheck/pkg/types"
)

// ModuleState represents the current state of a module during loading
type ModuleState int

const (
	ModuleUnknown  ModuleState = iota // Initial state
	ModuleResolved                    // Specifier resolved to path
	ModuleParsed                      // Parsed successfully
	ModuleChecking                    // Currently type checking
	ModuleChecked                     // Type checked (possibly with diagnostics)
	ModuleError                       // Resolve, read or parse failed
)

func (s ModuleState) String() string {
	switch s {
	case ModuleUnknown:
		return "unknown"
	case ModuleResolved:
		return "resolved"
	case ModuleParsed:
		return "parsed"
	case ModuleChecking:
		return "checking"
	case ModuleChecked:
		return "checked"
	case ModuleError:
		return "error"
	default:
		return "invalid"
	}
}

// ModuleRecord represents a module in the registry with all its metadata
type ModuleRecord struct {
	// Basic module information
	Specifier    string      // Specifier of the first request that loaded it
	ResolvedPath string      // Resolved file path
	State        ModuleState // Current loading state

	// Source and parsing
	Source *source.SourceFile
	AST    *ast.Module

	// Type information
	Exports     map[string]types.Type
	Diagnostics []*errors.Error // Syntax and type diagnostics of the module itself

	// Failure is set when the module could not be resolved, read or parsed.
	// It is cached like a success.
	Failure *errors.Error

	// Timing information
	LoadTime      time.Time
	ParseDuration time.Duration
	CheckDuration time.Duration
}

// ResolvedModule represents a module that has been resolved by a resolver
type ResolvedModule struct {
	Specifier    string        // Original specifier
	ResolvedPath string        // Resolved path (canonical)
	Source       io.ReadCloser // Source content (must be closed by caller)
	FS           ModuleFS      // File system context
	Resolver     string        // Name of resolver that resolved this
}

// LoaderConfig configures module loader behavior
type LoaderConfig struct {
	CacheSize int // Maximum number of cached modules (0 = unlimited)
	MaxDepth  int // Maximum import chain length (0 = unlimited)
}

// DefaultLoaderConfig returns sensible default configuration
func DefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		CacheSize: 0,
		MaxDepth:  100,
	}
}

// RegistryStats contains statistics about the module registry
type RegistryStats struct {
	TotalModules  int // Total modules in registry
	LoadedModules int // Modules successfully checked
	FailedModules int // Modules that failed to load
	CacheHits     int
	CacheMisses   int
	MemoryUsage   int64 // Approximate memory usage in bytes
}

// LoaderStats contains overall statistics about module loading
type LoaderStats struct {
	Registry      RegistryStats
	Loads         int           // Modules parsed and checked
	Requests      int           // Import requests answered
	TotalLoadTime time.Duration // Time spent parsing and checking
}
