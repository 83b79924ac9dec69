package builtins

import "github.com/nooga/tscheck/pkg/types"

// BuiltinInitializer is implemented by each builtin module
type BuiltinInitializer interface {
	// Name returns the module name (e.g., "Array", "String", "Math")
	Name() string

	// Lib is the target library that ships the declarations.
	Lib() Lib

	// Priority returns initialization order (lower = earlier)
	Priority() int

	// InitTypes registers the module's types and globals.
	InitTypes(ctx *TypeContext) error
}

// TypeContext provides everything needed for type initialization
type TypeContext struct {
	// Define a global value (constructor, namespace, function)
	DefineGlobal func(name string, typ types.Type) error

	// Define a global type (interface, alias)
	DefineType func(name string, typ types.Type) error

	// Get a previously defined type
	GetType func(name string) (types.Type, bool)
}

// Priority constants for initialization order
const (
	PriorityObject   = 0 // Object must be first (every interface inherits its members)
	PriorityFunction = 1
	PriorityIterator = 2
	PriorityArray    = 3
	PriorityString   = 10
	PriorityNumber   = 11
	PriorityBoolean  = 12
	PrioritySymbol   = 13
	PriorityRegExp   = 14
	PriorityError    = 20
	PriorityPromise  = 30
	PriorityMap      = 31
	PrioritySet      = 32
	PriorityMath     = 100
	PriorityJSON     = 101
	PriorityConsole  = 102
	PriorityDate     = 103
	PriorityGlobals  = 200
)
