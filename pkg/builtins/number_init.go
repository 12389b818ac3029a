package builtins

import "tscheck/pkg/types"

type NumberInitializer struct{}

func (n *NumberInitializer) Name() string  { return "Number" }
func (n *NumberInitializer) Priority() int { return PriorityNumber }
func (n *NumberInitializer) Lib() Lib      { return ES5 }

func (n *NumberInitializer) InitTypes(ctx *TypeContext) error {
	numberIface := newShape().
		WithMethod("toString", fn(types.String, optional("radix", types.Number))).
		WithMethod("toFixed", fn(types.String, optional("fractionDigits", types.Number))).
		WithMethod("toExponential", fn(types.String, optional("fractionDigits", types.Number))).
		WithMethod("toPrecision", fn(types.String, optional("precision", types.Number))).
		WithMethod("valueOf", fn(types.Number)).
		Interface("Number")
	if err := ctx.DefineType("Number", numberIface); err != nil {
		return err
	}

	ctor := newShape().
		WithCall(fn(types.Number, optional("value", types.Any))).
		WithConstruct(fn(numberIface, optional("value", types.Any))).
		WithReadonly("MAX_VALUE", types.Number).
		WithReadonly("MIN_VALUE", types.Number).
		WithReadonly("NaN", types.Number).
		WithReadonly("NEGATIVE_INFINITY", types.Number).
		WithReadonly("POSITIVE_INFINITY", types.Number).
		WithReadonly("EPSILON", types.Number).
		WithReadonly("MAX_SAFE_INTEGER", types.Number).
		WithReadonly("MIN_SAFE_INTEGER", types.Number).
		WithMethod("isInteger", fn(types.Boolean, param("number", types.Any))).
		WithMethod("isFinite", fn(types.Boolean, param("number", types.Any))).
		WithMethod("isNaN", fn(types.Boolean, param("number", types.Any))).
		WithMethod("parseFloat", fn(types.Number, param("string", types.String))).
		WithMethod("parseInt", fn(types.Number, param("string", types.String), optional("radix", types.Number))).
		Interface("NumberConstructor")
	return ctx.DefineGlobal("Number", ctor)
}
