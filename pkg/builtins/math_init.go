package builtins

import "tscheck/pkg/types"

type MathInitializer struct{}

func (m *MathInitializer) Name() string  { return "Math" }
func (m *MathInitializer) Priority() int { return PriorityMath }
func (m *MathInitializer) Lib() Lib      { return ES5 }

var mathUnary = []string{
	"abs", "acos", "asin", "atan", "ceil", "cos", "exp", "floor",
	"log", "round", "sin", "sqrt", "tan", "trunc", "sign", "cbrt",
}

func (m *MathInitializer) InitTypes(ctx *TypeContext) error {
	s := newShape()
	for _, c := range []string{"E", "LN10", "LN2", "LOG10E", "LOG2E", "PI", "SQRT1_2", "SQRT2"} {
		s.WithReadonly(c, types.Number)
	}
	for _, name := range mathUnary {
		s.WithMethod(name, fn(types.Number, param("x", types.Number)))
	}
	mathType := s.
		WithMethod("atan2", fn(types.Number, param("y", types.Number), param("x", types.Number))).
		WithMethod("pow", fn(types.Number, param("x", types.Number), param("y", types.Number))).
		WithMethod("max", fn(types.Number, rest("values", types.Number))).
		WithMethod("min", fn(types.Number, rest("values", types.Number))).
		WithMethod("random", fn(types.Number)).
		Interface("Math")
	if err := ctx.DefineType("Math", mathType); err != nil {
		return err
	}
	return ctx.DefineGlobal("Math", mathType)
}
