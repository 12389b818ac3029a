package builtins

import "tscheck/pkg/types"

type RegExpInitializer struct{}

func (r *RegExpInitializer) Name() string  { return "RegExp" }
func (r *RegExpInitializer) Priority() int { return PriorityRegExp }
func (r *RegExpInitializer) Lib() Lib      { return ES5 }

func (r *RegExpInitializer) InitTypes(ctx *TypeContext) error {
	regexpIface := newShape().
		WithReadonly("source", types.String).
		WithReadonly("flags", types.String).
		WithReadonly("global", types.Boolean).
		WithReadonly("ignoreCase", types.Boolean).
		WithReadonly("multiline", types.Boolean).
		WithProperty("lastIndex", types.Number).
		WithMethod("test", fn(types.Boolean, param("string", types.String))).
		WithMethod("exec", fn(types.NewUnion(arrayOf(types.String), types.Null), param("string", types.String))).
		Interface("RegExp")
	if err := ctx.DefineType("RegExp", regexpIface); err != nil {
		return err
	}
	pattern := types.NewUnion(types.String, regexpIface)
	ctor := newShape().
		WithCall(fn(regexpIface, param("pattern", pattern), optional("flags", types.String))).
		WithConstruct(fn(regexpIface, param("pattern", pattern), optional("flags", types.String))).
		Interface("RegExpConstructor")
	return ctx.DefineGlobal("RegExp", ctor)
}
