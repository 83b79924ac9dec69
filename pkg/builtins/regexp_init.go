package builtins

import "github.com/nooga/tscheck/pkg/types"

type RegExpInitializer struct{}

func (r *RegExpInitializer) Name() string  { return "RegExp" }
func (r *RegExpInitializer) Lib() Lib      { return LibES5 }
func (r *RegExpInitializer) Priority() int { return PriorityRegExp }

func (r *RegExpInitializer) InitTypes(ctx *TypeContext) error {
	proto := types.NewObjectType().
		WithMethod("test", fn(types.Boolean, types.String)).
		WithMethod("exec", fn(types.NewUnionType(arrayOf(types.String), types.Null), types.String)).
		WithMethod("toString", fn(types.String)).
		WithReadonlyProperty("source", types.String).
		WithReadonlyProperty("flags", types.String).
		WithReadonlyProperty("global", types.Boolean).
		WithReadonlyProperty("ignoreCase", types.Boolean).
		WithReadonlyProperty("multiline", types.Boolean).
		WithProperty("lastIndex", types.Number)
	if err := ctx.DefineType("RegExp", iface("RegExp", proto)); err != nil {
		return err
	}

	pattern := types.NewUnionType(types.String, ref("RegExp"))
	ctor := types.NewObjectType().
		WithCallSignature(fn(ref("RegExp"), pattern, types.String).WithOptional(1)).
		WithProperty("prototype", ref("RegExp"))
	ctor.Members = append(ctor.Members, &types.ConstructSignature{Fn: fn(ref("RegExp"), pattern, types.String).WithOptional(1)})
	return ctx.DefineGlobal("RegExp", ctor)
}

type ErrorInitializer struct{}

func (e *ErrorInitializer) Name() string  { return "Error" }
func (e *ErrorInitializer) Lib() Lib      { return LibES5 }
func (e *ErrorInitializer) Priority() int { return PriorityError }

func (e *ErrorInitializer) InitTypes(ctx *TypeContext) error {
	proto := types.NewObjectType().
		WithProperty("name", types.String).
		WithProperty("message", types.String)
	proto.Members = append(proto.Members, &types.Property{Key: types.NameKey("stack"), Type: types.String, Optional: true})
	if err := ctx.DefineType("Error", iface("Error", proto)); err != nil {
		return err
	}

	for _, name := range []string{"Error", "TypeError", "RangeError", "SyntaxError", "ReferenceError"} {
		ctor := types.NewObjectType().
			WithCallSignature(fn(ref("Error"), types.String).WithOptional(1)).
			WithProperty("prototype", ref("Error"))
		ctor.Members = append(ctor.Members, &types.ConstructSignature{Fn: fn(ref("Error"), types.String).WithOptional(1)})
		if err := ctx.DefineGlobal(name, ctor); err != nil {
			return err
		}
	}
	return nil
}
