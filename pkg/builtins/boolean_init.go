package builtins

import "tscheck/pkg/types"

type BooleanInitializer struct{}

func (b *BooleanInitializer) Name() string  { return "Boolean" }
func (b *BooleanInitializer) Priority() int { return PriorityBoolean }
func (b *BooleanInitializer) Lib() Lib      { return ES5 }

func (b *BooleanInitializer) InitTypes(ctx *TypeContext) error {
	booleanIface := newShape().
		WithMethod("valueOf", fn(types.Boolean)).
		Interface("Boolean")
	if err := ctx.DefineType("Boolean", booleanIface); err != nil {
		return err
	}
	ctor := newShape().
		WithCall(fn(types.Boolean, optional("value", types.Any))).
		WithConstruct(fn(booleanIface, optional("value", types.Any))).
		Interface("BooleanConstructor")
	return ctx.DefineGlobal("Boolean", ctor)
}
