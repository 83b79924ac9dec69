package builtins

import "github.com/nooga/tscheck/pkg/types"

type ObjectInitializer struct{}

func (o *ObjectInitializer) Name() string  { return "Object" }
func (o *ObjectInitializer) Lib() Lib      { return LibES5 }
func (o *ObjectInitializer) Priority() int { return PriorityObject }

func (o *ObjectInitializer) InitTypes(ctx *TypeContext) error {
	objectIface := iface("Object", types.NewObjectType().
		WithMethod("toString", fn(types.String)).
		WithMethod("toLocaleString", fn(types.String)).
		WithMethod("valueOf", fn(ref("Object"))).
		WithMethod("hasOwnProperty", fn(types.Boolean, types.NewUnionType(types.String, types.Number, types.Symbol))).
		WithMethod("isPrototypeOf", fn(types.Boolean, types.Object)).
		WithMethod("propertyIsEnumerable", fn(types.Boolean, types.NewUnionType(types.String, types.Number, types.Symbol))).
		WithProperty("constructor", ref("Function")))
	if err := ctx.DefineType("Object", objectIface); err != nil {
		return err
	}

	t := tparam("T")
	ctor := types.NewObjectType().
		WithCallSignature(fn(types.Any, types.Any).WithOptional(1)).
		WithProperty("prototype", ref("Object")).
		WithMethod("keys", fn(arrayOf(types.String), types.Object)).
		WithMethod("values", fn(arrayOf(types.Any), types.Object)).
		WithMethod("entries", fn(arrayOf(types.NewTupleType(types.String, types.Any)), types.Object)).
		WithMethod("assign", fn(types.Any, types.Object).WithRest(arrayOf(types.Any))).
		WithMethod("create", fn(types.Any, types.NewUnionType(types.Object, types.Null))).
		WithMethod("freeze", generic([]*types.TypeParameterType{t}, fn(t, t))).
		WithMethod("getPrototypeOf", fn(types.Any, types.Any)).
		WithMethod("defineProperty", generic([]*types.TypeParameterType{t}, fn(t, t, types.NewUnionType(types.String, types.Number, types.Symbol), types.Any))).
		WithMethod("is", fn(types.Boolean, types.Any, types.Any))
	ctor.Members = append(ctor.Members, &types.ConstructSignature{Fn: fn(types.Any, types.Any).WithOptional(1)})
	return ctx.DefineGlobal("Object", ctor)
}

type FunctionInitializer struct{}

func (f *FunctionInitializer) Name() string  { return "Function" }
func (f *FunctionInitializer) Lib() Lib      { return LibES5 }
func (f *FunctionInitializer) Priority() int { return PriorityFunction }

func (f *FunctionInitializer) InitTypes(ctx *TypeContext) error {
	functionIface := iface("Function", types.NewObjectType().
		WithMethod("apply", fn(types.Any, types.Any, types.Any).WithOptional(1)).
		WithMethod("call", fn(types.Any, types.Any).WithRest(arrayOf(types.Any))).
		WithMethod("bind", fn(types.Any, types.Any).WithRest(arrayOf(types.Any))).
		WithMethod("toString", fn(types.String)).
		WithReadonlyProperty("length", types.Number).
		WithReadonlyProperty("name", types.String).
		WithProperty("prototype", types.Any))
	if err := ctx.DefineType("Function", functionIface); err != nil {
		return err
	}
	ctor := types.NewObjectType().
		WithCallSignature(fn(ref("Function")).WithRest(arrayOf(types.String))).
		WithProperty("prototype", ref("Function"))
	return ctx.DefineGlobal("Function", ctor)
}
