package builtins

import "sort"

// GetStandardInitializers returns all built-in initializers sorted by priority
func GetStandardInitializers() []BuiltinInitializer {
	initializers := []BuiltinInitializer{
		&ObjectInitializer{},
		&FunctionInitializer{},
		&IteratorInitializer{},
		&ArrayInitializer{},
		&StringInitializer{},
		&NumberInitializer{},
		&BooleanInitializer{},
		&SymbolInitializer{},
		&RegExpInitializer{},
		&ErrorInitializer{},
		&PromiseInitializer{},
		&MapInitializer{},
		&SetInitializer{},
		&MathInitializer{},
		&JSONInitializer{},
		&ConsoleInitializer{},
		&DateInitializer{},
		&GlobalsInitializer{},
	}

	// Sort by priority (lower numbers first)
	sort.SliceStable(initializers, func(i, j int) bool {
		return initializers[i].Priority() < initializers[j].Priority()
	})

	return initializers
}
