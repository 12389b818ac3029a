package builtins

import (
	"tscheck/pkg/types"
)

// Lib names a set of standard declarations, like tsc's `lib` option.
type Lib string

const (
	ES5    Lib = "es5"
	ES2015 Lib = "es2015"
	DOM    Lib = "dom"
)

// DefaultLibs is used when a project does not configure `lib`.
var DefaultLibs = []Lib{ES5, ES2015, DOM}

// BuiltinInitializer is implemented by each builtin module
type BuiltinInitializer interface {
	// Name returns the module name (e.g., "Array", "String", "Math")
	Name() string

	// Priority returns initialization order (lower = earlier)
	Priority() int

	// Lib returns the declaration set the module belongs to
	Lib() Lib

	// InitTypes registers the module's types and global values
	InitTypes(ctx *TypeContext) error
}

// TypeContext provides everything needed for type initialization
type TypeContext struct {
	// Define a global value (constructor, namespace object, function)
	DefineGlobal func(name string, typ types.Type) error

	// Define a named type (interface, alias)
	DefineType func(name string, typ types.Type) error

	// Get a previously defined type
	GetType func(name string) (types.Type, bool)
}

// Priority constants for initialization order
const (
	PriorityObject   = 0   // Object must be first (base of every lookup)
	PriorityFunction = 1   // Function second
	PriorityArray    = 3   // Array
	PriorityString   = 10  // String primitives
	PriorityNumber   = 11  // Number primitives
	PriorityBoolean  = 12  // Boolean primitives
	PrioritySymbol   = 13  // Symbol primitives
	PriorityRegExp   = 14  // RegExp constructor
	PriorityError    = 20  // Error constructors
	PriorityPromise  = 30  // Promise
	PriorityMap      = 31  // Map and Set
	PriorityMath     = 100 // Math object
	PriorityJSON     = 101 // JSON object
	PriorityConsole  = 102 // Console object
	PriorityDate     = 103 // Date constructor
	PriorityGlobals  = 200 // Global functions and constants
)
