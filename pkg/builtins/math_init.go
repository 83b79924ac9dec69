package builtins

import "github.com/nooga/tscheck/pkg/types"

type MathInitializer struct{}

func (m *MathInitializer) Name() string  { return "Math" }
func (m *MathInitializer) Lib() Lib      { return LibES5 }
func (m *MathInitializer) Priority() int { return PriorityMath }

func (m *MathInitializer) InitTypes(ctx *TypeContext) error {
	obj := types.NewObjectType()
	for _, c := range []string{"E", "LN10", "LN2", "LOG10E", "LOG2E", "PI", "SQRT1_2", "SQRT2"} {
		obj.WithReadonlyProperty(c, types.Number)
	}
	for _, unary := range []string{"abs", "acos", "asin", "atan", "ceil", "cos", "exp", "floor",
		"log", "round", "sign", "sin", "sqrt", "tan", "trunc", "cbrt", "log2", "log10"} {
		obj.WithMethod(unary, fn(types.Number, types.Number))
	}
	obj.WithMethod("atan2", fn(types.Number, types.Number, types.Number)).
		WithMethod("pow", fn(types.Number, types.Number, types.Number)).
		WithMethod("random", fn(types.Number)).
		WithMethod("max", fn(types.Number).WithRest(arrayOf(types.Number))).
		WithMethod("min", fn(types.Number).WithRest(arrayOf(types.Number)))

	math := iface("Math", obj)
	if err := ctx.DefineType("Math", math); err != nil {
		return err
	}
	return ctx.DefineGlobal("Math", math)
}

type JSONInitializer struct{}

func (j *JSONInitializer) Name() string  { return "JSON" }
func (j *JSONInitializer) Lib() Lib      { return LibES5 }
func (j *JSONInitializer) Priority() int { return PriorityJSON }

func (j *JSONInitializer) InitTypes(ctx *TypeContext) error {
	json := iface("JSON", types.NewObjectType().
		WithMethod("parse", fn(types.Any, types.String, types.Any).WithOptional(1)).
		WithMethod("stringify", fn(types.String, types.Any, types.Any, types.NewUnionType(types.String, types.Number)).WithOptional(2)))
	if err := ctx.DefineType("JSON", json); err != nil {
		return err
	}
	return ctx.DefineGlobal("JSON", json)
}

type DateInitializer struct{}

func (d *DateInitializer) Name() string  { return "Date" }
func (d *DateInitializer) Lib() Lib      { return LibES5 }
func (d *DateInitializer) Priority() int { return PriorityDate }

func (d *DateInitializer) InitTypes(ctx *TypeContext) error {
	proto := types.NewObjectType().
		WithMethod("toString", fn(types.String)).
		WithMethod("toISOString", fn(types.String)).
		WithMethod("toJSON", fn(types.String)).
		WithMethod("getTime", fn(types.Number)).
		WithMethod("getFullYear", fn(types.Number)).
		WithMethod("getMonth", fn(types.Number)).
		WithMethod("getDate", fn(types.Number)).
		WithMethod("getDay", fn(types.Number)).
		WithMethod("getHours", fn(types.Number)).
		WithMethod("getMinutes", fn(types.Number)).
		WithMethod("getSeconds", fn(types.Number)).
		WithMethod("valueOf", fn(types.Number))
	if err := ctx.DefineType("Date", iface("Date", proto)); err != nil {
		return err
	}
	ctor := types.NewObjectType().
		WithCallSignature(fn(types.String)).
		WithMethod("now", fn(types.Number)).
		WithMethod("parse", fn(types.Number, types.String)).
		WithProperty("prototype", ref("Date"))
	ctor.Members = append(ctor.Members, &types.ConstructSignature{
		Fn: fn(ref("Date")).WithRest(arrayOf(types.Any)),
	})
	return ctx.DefineGlobal("Date", ctor)
}
