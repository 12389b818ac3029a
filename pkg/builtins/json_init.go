package builtins

import "tscheck/pkg/types"

type JSONInitializer struct{}

func (j *JSONInitializer) Name() string  { return "JSON" }
func (j *JSONInitializer) Priority() int { return PriorityJSON }
func (j *JSONInitializer) Lib() Lib      { return ES5 }

func (j *JSONInitializer) InitTypes(ctx *TypeContext) error {
	jsonType := newShape().
		WithMethod("parse", fn(types.Any, param("text", types.String), optional("reviver", types.Any))).
		WithMethod("stringify", fn(types.String, param("value", types.Any), optional("replacer", types.Any), optional("space", types.NewUnion(types.String, types.Number)))).
		Interface("JSON")
	if err := ctx.DefineType("JSON", jsonType); err != nil {
		return err
	}
	return ctx.DefineGlobal("JSON", jsonType)
}
