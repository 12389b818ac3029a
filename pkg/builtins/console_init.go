package builtins

import "tscheck/pkg/types"

type ConsoleInitializer struct{}

func (c *ConsoleInitializer) Name() string  { return "console" }
func (c *ConsoleInitializer) Priority() int { return PriorityConsole }
func (c *ConsoleInitializer) Lib() Lib      { return DOM }

func (c *ConsoleInitializer) InitTypes(ctx *TypeContext) error {
	s := newShape()
	for _, name := range []string{"log", "info", "warn", "error", "debug", "trace"} {
		s.WithMethod(name, fn(types.Void, rest("data", types.Any)))
	}
	consoleType := s.
		WithMethod("assert", fn(types.Void, optional("condition", types.Boolean), rest("data", types.Any))).
		WithMethod("time", fn(types.Void, optional("label", types.String))).
		WithMethod("timeEnd", fn(types.Void, optional("label", types.String))).
		Interface("Console")
	if err := ctx.DefineType("Console", consoleType); err != nil {
		return err
	}
	return ctx.DefineGlobal("console", consoleType)
}
