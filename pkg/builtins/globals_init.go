package builtins

import "tscheck/pkg/types"

type GlobalsInitializer struct{}

func (g *GlobalsInitializer) Name() string  { return "globals" }
func (g *GlobalsInitializer) Priority() int { return PriorityGlobals }
func (g *GlobalsInitializer) Lib() Lib      { return ES5 }

func (g *GlobalsInitializer) InitTypes(ctx *TypeContext) error {
	globals := []struct {
		name string
		typ  types.Type
	}{
		{"NaN", types.Number},
		{"Infinity", types.Number},
		{"undefined", types.Undefined},
		{"parseInt", fn(types.Number, param("string", types.String), optional("radix", types.Number))},
		{"parseFloat", fn(types.Number, param("string", types.String))},
		{"isNaN", fn(types.Boolean, param("number", types.Number))},
		{"isFinite", fn(types.Boolean, param("number", types.Number))},
		{"encodeURIComponent", fn(types.String, param("uriComponent", types.String))},
		{"decodeURIComponent", fn(types.String, param("encodedURIComponent", types.String))},
		{"eval", fn(types.Any, param("x", types.String))},
	}
	for _, gl := range globals {
		if err := ctx.DefineGlobal(gl.name, gl.typ); err != nil {
			return err
		}
	}
	return nil
}

// TimersInitializer declares the host timer functions.
type TimersInitializer struct{}

func (t *TimersInitializer) Name() string  { return "timers" }
func (t *TimersInitializer) Priority() int { return PriorityGlobals + 1 }
func (t *TimersInitializer) Lib() Lib      { return DOM }

func (t *TimersInitializer) InitTypes(ctx *TypeContext) error {
	handler := fn(types.Void, rest("args", types.Any))
	for _, name := range []string{"setTimeout", "setInterval"} {
		if err := ctx.DefineGlobal(name, fn(types.Number, param("handler", handler), optional("timeout", types.Number), rest("args", types.Any))); err != nil {
			return err
		}
	}
	for _, name := range []string{"clearTimeout", "clearInterval"} {
		if err := ctx.DefineGlobal(name, fn(types.Void, optional("id", types.Number))); err != nil {
			return err
		}
	}
	return nil
}
