package builtins

import "sort"

// GetStandardInitializers returns all built-in initializers sorted by priority
func GetStandardInitializers() []BuiltinInitializer {
	var initializers []BuiltinInitializer

	// Core builtins
	initializers = append(initializers, &ObjectInitializer{})
	initializers = append(initializers, &FunctionInitializer{})
	initializers = append(initializers, &ArrayInitializer{})

	// Primitive wrappers
	initializers = append(initializers, &StringInitializer{})
	initializers = append(initializers, &NumberInitializer{})
	initializers = append(initializers, &BooleanInitializer{})
	initializers = append(initializers, &SymbolInitializer{})
	initializers = append(initializers, &RegExpInitializer{})

	initializers = append(initializers, &ErrorInitializer{})
	initializers = append(initializers, &PromiseInitializer{})
	initializers = append(initializers, &MapSetInitializer{})
	initializers = append(initializers, &MathInitializer{})
	initializers = append(initializers, &JSONInitializer{})
	initializers = append(initializers, &ConsoleInitializer{})
	initializers = append(initializers, &DateInitializer{})

	// Global constants and functions
	initializers = append(initializers, &GlobalsInitializer{})
	initializers = append(initializers, &TimersInitializer{})

	// Sort by priority (lower numbers first)
	sort.Slice(initializers, func(i, j int) bool {
		return initializers[i].Priority() < initializers[j].Priority()
	})

	return initializers
}
