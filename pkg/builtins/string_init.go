package builtins

import "github.com/nooga/tscheck/pkg/types"

type StringInitializer struct{}

func (s *StringInitializer) Name() string  { return "String" }
func (s *StringInitializer) Lib() Lib      { return LibES5 }
func (s *StringInitializer) Priority() int { return PriorityString }

func (s *StringInitializer) InitTypes(ctx *TypeContext) error {
	pattern := types.NewUnionType(types.String, ref("RegExp"))

	proto := types.NewObjectType().
		WithReadonlyProperty("length", types.Number).
		WithMethod("toString", fn(types.String)).
		WithMethod("valueOf", fn(types.String)).
		WithMethod("charAt", fn(types.String, types.Number)).
		WithMethod("charCodeAt", fn(types.Number, types.Number)).
		WithMethod("concat", fn(types.String).WithRest(arrayOf(types.String))).
		WithMethod("indexOf", fn(types.Number, types.String, types.Number).WithOptional(1)).
		WithMethod("lastIndexOf", fn(types.Number, types.String, types.Number).WithOptional(1)).
		WithMethod("includes", fn(types.Boolean, types.String, types.Number).WithOptional(1)).
		WithMethod("startsWith", fn(types.Boolean, types.String, types.Number).WithOptional(1)).
		WithMethod("endsWith", fn(types.Boolean, types.String, types.Number).WithOptional(1)).
		WithMethod("slice", fn(types.String, types.Number, types.Number).WithOptional(2)).
		WithMethod("substring", fn(types.String, types.Number, types.Number).WithOptional(1)).
		WithMethod("substr", fn(types.String, types.Number, types.Number).WithOptional(1)).
		WithMethod("toLowerCase", fn(types.String)).
		WithMethod("toUpperCase", fn(types.String)).
		WithMethod("trim", fn(types.String)).
		WithMethod("repeat", fn(types.String, types.Number)).
		WithMethod("padStart", fn(types.String, types.Number, types.String).WithOptional(1)).
		WithMethod("padEnd", fn(types.String, types.Number, types.String).WithOptional(1)).
		WithMethod("split", fn(arrayOf(types.String), pattern, types.Number).WithOptional(1)).
		WithMethod("replace", fn(types.String, pattern, types.NewUnionType(types.String, fn(types.String, types.String).WithRest(arrayOf(types.Any))))).
		WithMethod("match", fn(types.NewUnionType(arrayOf(types.String), types.Null), pattern)).
		WithMethod("search", fn(types.Number, pattern)).
		WithIndexSignature(types.Number, types.String)
	if err := ctx.DefineType("String", iface("String", proto)); err != nil {
		return err
	}

	ctor := types.NewObjectType().
		WithCallSignature(fn(types.String, types.Any).WithOptional(1)).
		WithMethod("fromCharCode", fn(types.String).WithRest(arrayOf(types.Number))).
		WithProperty("prototype", ref("String"))
	ctor.Members = append(ctor.Members, &types.ConstructSignature{Fn: fn(ref("String"), types.Any).WithOptional(1)})
	return ctx.DefineGlobal("String", ctor)
}
