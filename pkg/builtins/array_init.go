package builtins

import "github.com/nooga/tscheck/pkg/types"

type ArrayInitializer struct{}

func (a *ArrayInitializer) Name() string  { return "Array" }
func (a *ArrayInitializer) Lib() Lib      { return LibES5 }
func (a *ArrayInitializer) Priority() int { return PriorityArray }

func (a *ArrayInitializer) InitTypes(ctx *TypeContext) error {
	t := tparam("T")
	u := tparam("U")
	tArray := arrayOf(t)
	tps := func(ps ...*types.TypeParameterType) []*types.TypeParameterType { return ps }

	// callback(value, index, array)
	callback := func(ret types.Type) *types.FunctionType {
		return fn(ret, t, types.Number, tArray).WithOptional(2)
	}

	proto := types.NewObjectType().
		WithProperty("length", types.Number).
		WithMethod("toString", fn(types.String)).
		WithMethod("push", fn(types.Number).WithRest(tArray)).
		WithMethod("pop", fn(types.NewUnionType(t, types.Undefined))).
		WithMethod("shift", fn(types.NewUnionType(t, types.Undefined))).
		WithMethod("unshift", fn(types.Number).WithRest(tArray)).
		WithMethod("concat", fn(tArray).WithRest(arrayOf(types.NewUnionType(t, tArray)))).
		WithMethod("join", fn(types.String, types.String).WithOptional(1)).
		WithMethod("reverse", fn(tArray)).
		WithMethod("slice", fn(tArray, types.Number, types.Number).WithOptional(2)).
		WithMethod("splice", fn(tArray, types.Number, types.Number).WithOptional(1).WithRest(tArray)).
		WithMethod("sort", fn(tArray, fn(types.Number, t, t)).WithOptional(1)).
		WithMethod("indexOf", fn(types.Number, t, types.Number).WithOptional(1)).
		WithMethod("lastIndexOf", fn(types.Number, t, types.Number).WithOptional(1)).
		WithMethod("includes", fn(types.Boolean, t, types.Number).WithOptional(1)).
		WithMethod("every", fn(types.Boolean, callback(types.Any))).
		WithMethod("some", fn(types.Boolean, callback(types.Any))).
		WithMethod("forEach", fn(types.Void, callback(types.Void))).
		WithMethod("map", generic(tps(u), fn(arrayOf(u), callback(u)))).
		WithMethod("filter", fn(tArray, callback(types.Any))).
		WithMethod("find", fn(types.NewUnionType(t, types.Undefined), callback(types.Any))).
		WithMethod("findIndex", fn(types.Number, callback(types.Any))).
		WithMethod("reduce", generic(tps(u), fn(u, fn(u, u, t, types.Number, tArray).WithOptional(2), u))).
		WithIndexSignature(types.Number, t)
	if err := ctx.DefineType("Array", iface("Array", proto, t)); err != nil {
		return err
	}

	// the non-mutating subset
	readonly := types.NewObjectType().
		WithProperty("length", types.Number).
		WithMethod("toString", fn(types.String)).
		WithMethod("concat", fn(tArray).WithRest(arrayOf(types.NewUnionType(t, tArray)))).
		WithMethod("join", fn(types.String, types.String).WithOptional(1)).
		WithMethod("slice", fn(tArray, types.Number, types.Number).WithOptional(2)).
		WithMethod("indexOf", fn(types.Number, t, types.Number).WithOptional(1)).
		WithMethod("includes", fn(types.Boolean, t, types.Number).WithOptional(1)).
		WithMethod("every", fn(types.Boolean, callback(types.Any))).
		WithMethod("some", fn(types.Boolean, callback(types.Any))).
		WithMethod("forEach", fn(types.Void, callback(types.Void))).
		WithMethod("map", generic(tps(u), fn(arrayOf(u), callback(u)))).
		WithMethod("filter", fn(tArray, callback(types.Any))).
		WithMethod("find", fn(types.NewUnionType(t, types.Undefined), callback(types.Any))).
		WithIndexSignature(types.Number, t)
	if err := ctx.DefineType("ReadonlyArray", iface("ReadonlyArray", readonly, t)); err != nil {
		return err
	}

	ctor := types.NewObjectType().
		WithMethod("isArray", fn(types.Boolean, types.Any)).
		WithMethod("of", generic(tps(t), fn(tArray).WithRest(tArray))).
		WithProperty("prototype", arrayOf(types.Any))
	ctor.Members = append(ctor.Members,
		&types.CallSignature{Fn: generic(tps(t), fn(tArray, types.Number).WithOptional(1))},
		&types.ConstructSignature{Fn: generic(tps(t), fn(tArray, types.Number).WithOptional(1))},
	)
	return ctx.DefineGlobal("Array", ctor)
}

type IteratorInitializer struct{}

func (i *IteratorInitializer) Name() string  { return "Iterator" }
func (i *IteratorInitializer) Lib() Lib      { return LibES2015 }
func (i *IteratorInitializer) Priority() int { return PriorityIterator }

func (i *IteratorInitializer) InitTypes(ctx *TypeContext) error {
	t := tparam("T")
	result := iface("IteratorResult", types.NewObjectType().
		WithProperty("done", types.Boolean).
		WithProperty("value", t), t)
	if err := ctx.DefineType("IteratorResult", result); err != nil {
		return err
	}
	iterator := iface("Iterator", types.NewObjectType().
		WithMethod("next", fn(ref("IteratorResult", t))), t)
	if err := ctx.DefineType("Iterator", iterator); err != nil {
		return err
	}
	iterable := &types.InterfaceType{Name: "Iterable", TypeParams: []*types.TypeParameterType{t}, Members: []types.Member{
		&types.Method{Key: types.Key{Name: "Symbol.iterator", Computed: true}, Fn: fn(ref("Iterator", t))},
	}}
	return ctx.DefineType("Iterable", iterable)
}
