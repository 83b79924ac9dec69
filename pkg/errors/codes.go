package errors

import "strconv"

// Code identifies the condition behind a TypeError. Codes that mirror a
// TypeScript compiler diagnostic are named after its number.
type Code int

const (
	Unsupported Code = iota // construct the checker does not handle yet

	// scope and declarations
	DuplicateDeclaration
	ReferencedInInit
	UndefinedSymbol
	CannotAssignToNonVariable
	ImplicitAny

	// expansion
	NameNotFound
	NotGeneric

	// expressions
	NoOverlap
	TS2365
	TS2362
	TS2363
	TS2447
	TS1345
	TS2360
	TS2361
	Unknown
	UselessSeqExpr
	InvalidRegExp

	// members and calls
	NoSuchProperty
	ReadOnly
	TupleIndexError
	ConstEnumNonIndexAccess
	InvalidLValue
	NoCallSignature
	NoNewSignature
	WrongParams
	AssignFailed
	UnionError

	// functions and patterns
	ReturnRequired
	TS2370
	TS2353

	// classes
	TS2394
	TS2391
	TS2389
	TS1166
	TS1318
	TS2378
	TS1095
	TS1183
	TS2515
	TS2369
	TS1016
	TS1094

	// statements
	Unreachable

	// exports
	UnresolvedExport

	// Errors groups several unrelated errors reported at once.
	Errors
)

type codeInfo struct {
	name  string
	text  string
	fatal bool
}

var codeTable = map[Code]codeInfo{
	Unsupported:               {"Unsupported", "unsupported construct", false},
	DuplicateDeclaration:      {"TS2451", "cannot redeclare block-scoped variable", false},
	ReferencedInInit:          {"TS2448", "variable is used before its declaration", true},
	UndefinedSymbol:           {"TS2304", "cannot find name", true},
	CannotAssignToNonVariable: {"TS2539", "cannot assign because it is not a variable", true},
	ImplicitAny:               {"TS7022", "expression implicitly has type 'any' because it references itself", false},
	NameNotFound:              {"TS2304", "cannot find type", true},
	NotGeneric:                {"TS2315", "type is not generic", true},
	NoOverlap:                 {"TS2367", "this condition will always return a constant since the types have no overlap", false},
	TS2365:                    {"TS2365", "operator cannot be applied to these types", true},
	TS2362:                    {"TS2362", "the left-hand side of an arithmetic operation must be of type 'any', 'number', 'bigint' or an enum type", false},
	TS2363:                    {"TS2363", "the right-hand side of an arithmetic operation must be of type 'any', 'number', 'bigint' or an enum type", false},
	TS2447:                    {"TS2447", "bitwise operator is not allowed for boolean types", false},
	TS1345:                    {"TS1345", "an expression of type 'void' cannot be tested for truthiness", false},
	TS2360:                    {"TS2360", "the left-hand side of an 'in' expression must be a private identifier or of type 'any', 'string', 'number', or 'symbol'", false},
	TS2361:                    {"TS2361", "the right-hand side of an 'in' expression must not be a primitive", false},
	Unknown:                   {"TS2571", "object is of type 'unknown'", true},
	UselessSeqExpr:            {"TS2695", "left side of comma operator is unused and has no side effects", false},
	InvalidRegExp:             {"TS1501", "invalid regular expression", false},
	NoSuchProperty:            {"TS2339", "property does not exist on type", false},
	ReadOnly:                  {"TS2540", "cannot assign to a read-only property", false},
	TupleIndexError:           {"TS2493", "tuple index out of range", false},
	ConstEnumNonIndexAccess:   {"TS2476", "a const enum member can only be accessed using a string literal", false},
	InvalidLValue:             {"TS2540", "invalid assignment target", false},
	NoCallSignature:           {"TS2349", "this expression is not callable", false},
	NoNewSignature:            {"TS2351", "this expression is not constructable", false},
	WrongParams:               {"TS2554", "wrong number of arguments", true},
	AssignFailed:              {"TS2322", "type is not assignable", false},
	UnionError:                {"UnionError", "no member of the union accepts the operation", true},
	ReturnRequired:            {"TS2355", "a function whose declared type is neither 'void' nor 'any' must return a value", false},
	TS2370:                    {"TS2370", "a rest parameter must be of an array type", false},
	TS2353:                    {"TS2353", "object literal may only specify known properties", false},
	TS2394:                    {"TS2394", "this overload signature is not compatible with its implementation signature", false},
	TS2391:                    {"TS2391", "function implementation is missing or not immediately following the declaration", false},
	TS2389:                    {"TS2389", "function implementation name must be the same as the overloads", false},
	TS1166:                    {"TS1166", "a computed property name in a class property declaration must have a simple literal type or a 'unique symbol' type", false},
	TS1318:                    {"TS1318", "an abstract method cannot have an implementation", false},
	TS2378:                    {"TS2378", "a 'get' accessor must return a value", false},
	TS1095:                    {"TS1095", "a 'set' accessor cannot have a return type annotation", false},
	TS1183:                    {"TS1183", "an implementation cannot be declared in ambient contexts", false},
	TS2515:                    {"TS2515", "non-abstract class does not implement inherited member", false},
	TS2369:                    {"TS2369", "a parameter property is only allowed in a constructor implementation", false},
	TS1016:                    {"TS1016", "a required parameter cannot follow an optional parameter", false},
	TS1094:                    {"TS1094", "an accessor cannot have type parameters", false},
	Unreachable:               {"TS7027", "unreachable code detected", false},
	UnresolvedExport:          {"TS2304", "cannot find exported name", false},
	Errors:                    {"Errors", "multiple errors", false},
}

// String returns the diagnostic number, or a short name for conditions
// without a TypeScript equivalent.
func (c Code) String() string {
	if info, ok := codeTable[c]; ok {
		return info.name
	}
	return "Code(" + strconv.Itoa(int(c)) + ")"
}

// Text is the default human readable message for the code.
func (c Code) Text() string {
	return codeTable[c].text
}

// Fatal codes short-circuit the current inference chain; the rest are
// recorded and checking continues with a substitute type.
func (c Code) Fatal() bool {
	return codeTable[c].fatal
}
