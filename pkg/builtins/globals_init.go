package builtins

import "github.com/nooga/tscheck/pkg/types"

type ConsoleInitializer struct{}

func (c *ConsoleInitializer) Name() string  { return "console" }
func (c *ConsoleInitializer) Lib() Lib      { return LibDOM }
func (c *ConsoleInitializer) Priority() int { return PriorityConsole }

func (c *ConsoleInitializer) InitTypes(ctx *TypeContext) error {
	obj := types.NewObjectType()
	for _, m := range []string{"log", "info", "warn", "error", "debug", "trace"} {
		obj.WithMethod(m, fn(types.Void).WithRest(arrayOf(types.Any)))
	}
	console := iface("Console", obj)
	if err := ctx.DefineType("Console", console); err != nil {
		return err
	}
	return ctx.DefineGlobal("console", console)
}

type GlobalsInitializer struct{}

func (g *GlobalsInitializer) Name() string  { return "globals" }
func (g *GlobalsInitializer) Lib() Lib      { return LibES5 }
func (g *GlobalsInitializer) Priority() int { return PriorityGlobals }

func (g *GlobalsInitializer) InitTypes(ctx *TypeContext) error {
	globals := map[string]types.Type{
		"NaN":                types.Number,
		"Infinity":           types.Number,
		"parseInt":           fn(types.Number, types.String, types.Number).WithOptional(1),
		"parseFloat":         fn(types.Number, types.String),
		"isNaN":              fn(types.Boolean, types.Number),
		"isFinite":           fn(types.Boolean, types.Number),
		"encodeURIComponent": fn(types.String, types.NewUnionType(types.String, types.Number, types.Boolean)),
		"decodeURIComponent": fn(types.String, types.String),
	}
	for name, t := range globals {
		if err := ctx.DefineGlobal(name, t); err != nil {
			return err
		}
	}
	return nil
}
