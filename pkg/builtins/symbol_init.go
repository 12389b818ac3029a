package builtins

import "tscheck/pkg/types"

type SymbolInitializer struct{}

func (s *SymbolInitializer) Name() string  { return "Symbol" }
func (s *SymbolInitializer) Priority() int { return PrioritySymbol }
func (s *SymbolInitializer) Lib() Lib      { return ES2015 }

func (s *SymbolInitializer) InitTypes(ctx *TypeContext) error {
	symbolIface := newShape().
		WithReadonly("description", types.NewUnion(types.String, types.Undefined)).
		WithMethod("valueOf", fn(types.Symbol)).
		Interface("Symbol")
	if err := ctx.DefineType("Symbol", symbolIface); err != nil {
		return err
	}
	// Symbol has no construct signature: `new Symbol()` is an error.
	ctor := newShape().
		WithCall(fn(types.Symbol, optional("description", types.NewUnion(types.String, types.Number)))).
		WithReadonly("iterator", types.Symbol).
		WithReadonly("asyncIterator", types.Symbol).
		WithReadonly("hasInstance", types.Symbol).
		WithReadonly("toPrimitive", types.Symbol).
		WithReadonly("toStringTag", types.Symbol).
		WithMethod("for", fn(types.Symbol, param("key", types.String))).
		WithMethod("keyFor", fn(types.NewUnion(types.String, types.Undefined), param("sym", types.Symbol))).
		Interface("SymbolConstructor")
	return ctx.DefineGlobal("Symbol", ctor)
}
