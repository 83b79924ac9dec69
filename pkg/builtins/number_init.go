package builtins

import "github.com/nooga/tscheck/pkg/types"

type NumberInitializer struct{}

func (n *NumberInitializer) Name() string  { return "Number" }
func (n *NumberInitializer) Lib() Lib      { return LibES5 }
func (n *NumberInitializer) Priority() int { return PriorityNumber }

func (n *NumberInitializer) InitTypes(ctx *TypeContext) error {
	proto := types.NewObjectType().
		WithMethod("toString", fn(types.String, types.Number).WithOptional(1)).
		WithMethod("toFixed", fn(types.String, types.Number).WithOptional(1)).
		WithMethod("toExponential", fn(types.String, types.Number).WithOptional(1)).
		WithMethod("toPrecision", fn(types.String, types.Number).WithOptional(1)).
		WithMethod("valueOf", fn(types.Number))
	if err := ctx.DefineType("Number", iface("Number", proto)); err != nil {
		return err
	}

	ctor := types.NewObjectType().
		WithCallSignature(fn(types.Number, types.Any).WithOptional(1)).
		WithReadonlyProperty("MAX_VALUE", types.Number).
		WithReadonlyProperty("MIN_VALUE", types.Number).
		WithReadonlyProperty("NaN", types.Number).
		WithReadonlyProperty("POSITIVE_INFINITY", types.Number).
		WithReadonlyProperty("NEGATIVE_INFINITY", types.Number).
		WithMethod("isInteger", fn(types.Boolean, types.Any)).
		WithMethod("isFinite", fn(types.Boolean, types.Any)).
		WithMethod("isNaN", fn(types.Boolean, types.Any)).
		WithMethod("parseFloat", fn(types.Number, types.String)).
		WithMethod("parseInt", fn(types.Number, types.String, types.Number).WithOptional(1)).
		WithProperty("prototype", ref("Number"))
	ctor.Members = append(ctor.Members, &types.ConstructSignature{Fn: fn(ref("Number"), types.Any).WithOptional(1)})
	return ctx.DefineGlobal("Number", ctor)
}

type BooleanInitializer struct{}

func (b *BooleanInitializer) Name() string  { return "Boolean" }
func (b *BooleanInitializer) Lib() Lib      { return LibES5 }
func (b *BooleanInitializer) Priority() int { return PriorityBoolean }

func (b *BooleanInitializer) InitTypes(ctx *TypeContext) error {
	proto := types.NewObjectType().WithMethod("valueOf", fn(types.Boolean))
	if err := ctx.DefineType("Boolean", iface("Boolean", proto)); err != nil {
		return err
	}
	ctor := types.NewObjectType().
		WithCallSignature(fn(types.Boolean, types.Any).WithOptional(1)).
		WithProperty("prototype", ref("Boolean"))
	ctor.Members = append(ctor.Members, &types.ConstructSignature{Fn: fn(ref("Boolean"), types.Any).WithOptional(1)})
	return ctx.DefineGlobal("Boolean", ctor)
}

type SymbolInitializer struct{}

func (s *SymbolInitializer) Name() string  { return "Symbol" }
func (s *SymbolInitializer) Lib() Lib      { return LibES5 }
func (s *SymbolInitializer) Priority() int { return PrioritySymbol }

func (s *SymbolInitializer) InitTypes(ctx *TypeContext) error {
	proto := types.NewObjectType().
		WithMethod("toString", fn(types.String)).
		WithMethod("valueOf", fn(types.Symbol)).
		WithReadonlyProperty("description", types.NewUnionType(types.String, types.Undefined))
	if err := ctx.DefineType("Symbol", iface("Symbol", proto)); err != nil {
		return err
	}

	ctor := types.NewObjectType().
		WithCallSignature(fn(types.Symbol, types.NewUnionType(types.String, types.Number)).WithOptional(1)).
		WithMethod("for", fn(types.Symbol, types.String)).
		WithMethod("keyFor", fn(types.NewUnionType(types.String, types.Undefined), types.Symbol))
	for _, wk := range []string{"iterator", "asyncIterator", "hasInstance", "isConcatSpreadable",
		"match", "replace", "search", "species", "split", "toPrimitive", "toStringTag", "unscopables"} {
		ctor.Members = append(ctor.Members, &types.Property{Key: types.NameKey(wk), Type: types.UniqueSymbol(), Readonly: true})
	}
	return ctx.DefineGlobal("Symbol", ctor)
}
