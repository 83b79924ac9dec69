package builtins

import "github.com/nooga/tscheck/pkg/types"

type PromiseInitializer struct{}

func (p *PromiseInitializer) Name() string  { return "Promise" }
func (p *PromiseInitializer) Lib() Lib      { return LibES2015 }
func (p *PromiseInitializer) Priority() int { return PriorityPromise }

func (p *PromiseInitializer) InitTypes(ctx *TypeContext) error {
	t := tparam("T")
	u := tparam("U")
	proto := types.NewObjectType().
		WithMethod("then", generic([]*types.TypeParameterType{u},
			fn(ref("Promise", u), fn(u, t), fn(types.Any, types.Any)).WithOptional(1))).
		WithMethod("catch", fn(ref("Promise", t), fn(types.Any, types.Any))).
		WithMethod("finally", fn(ref("Promise", t), fn(types.Void)))
	if err := ctx.DefineType("Promise", iface("Promise", proto, t)); err != nil {
		return err
	}

	executor := fn(types.Void, fn(types.Void, t), fn(types.Void, types.Any).WithOptional(1))
	ctor := types.NewObjectType().
		WithMethod("resolve", generic([]*types.TypeParameterType{t}, fn(ref("Promise", t), t))).
		WithMethod("reject", fn(ref("Promise", types.Never), types.Any).WithOptional(1)).
		WithMethod("all", fn(ref("Promise", arrayOf(types.Any)), arrayOf(types.Any)))
	ctor.Members = append(ctor.Members, &types.ConstructSignature{
		Fn: generic([]*types.TypeParameterType{t}, fn(ref("Promise", t), executor)),
	})
	return ctx.DefineGlobal("Promise", ctor)
}

type MapInitializer struct{}

func (m *MapInitializer) Name() string  { return "Map" }
func (m *MapInitializer) Lib() Lib      { return LibES2015 }
func (m *MapInitializer) Priority() int { return PriorityMap }

func (m *MapInitializer) InitTypes(ctx *TypeContext) error {
	k := tparam("K")
	v := tparam("V")
	self := ref("Map", k, v)
	proto := types.NewObjectType().
		WithMethod("get", fn(types.NewUnionType(v, types.Undefined), k)).
		WithMethod("set", fn(self, k, v)).
		WithMethod("has", fn(types.Boolean, k)).
		WithMethod("delete", fn(types.Boolean, k)).
		WithMethod("clear", fn(types.Void)).
		WithMethod("forEach", fn(types.Void, fn(types.Void, v, k, self).WithOptional(2))).
		WithReadonlyProperty("size", types.Number)
	if err := ctx.DefineType("Map", iface("Map", proto, k, v)); err != nil {
		return err
	}
	ctor := types.NewObjectType()
	ctor.Members = append(ctor.Members, &types.ConstructSignature{
		Fn: generic([]*types.TypeParameterType{k, v}, fn(self, types.Any).WithOptional(1)),
	})
	return ctx.DefineGlobal("Map", ctor)
}

type SetInitializer struct{}

func (s *SetInitializer) Name() string  { return "Set" }
func (s *SetInitializer) Lib() Lib      { return LibES2015 }
func (s *SetInitializer) Priority() int { return PrioritySet }

func (s *SetInitializer) InitTypes(ctx *TypeContext) error {
	t := tparam("T")
	self := ref("Set", t)
	proto := types.NewObjectType().
		WithMethod("add", fn(self, t)).
		WithMethod("has", fn(types.Boolean, t)).
		WithMethod("delete", fn(types.Boolean, t)).
		WithMethod("clear", fn(types.Void)).
		WithMethod("forEach", fn(types.Void, fn(types.Void, t, t, self).WithOptional(2))).
		WithReadonlyProperty("size", types.Number)
	if err := ctx.DefineType("Set", iface("Set", proto, t)); err != nil {
		return err
	}
	ctor := types.NewObjectType()
	ctor.Members = append(ctor.Members, &types.ConstructSignature{
		Fn: generic([]*types.TypeParameterType{t}, fn(self, arrayOf(t)).WithOptional(1)),
	})
	return ctx.DefineGlobal("Set", ctor)
}
