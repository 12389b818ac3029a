package builtins

import "tscheck/pkg/types"

type FunctionInitializer struct{}

func (f *FunctionInitializer) Name() string  { return "Function" }
func (f *FunctionInitializer) Priority() int { return PriorityFunction }
func (f *FunctionInitializer) Lib() Lib      { return ES5 }

func (f *FunctionInitializer) InitTypes(ctx *TypeContext) error {
	// Function values are boxed to this interface for member calls.
	functionIface := newShape().
		WithMethod("apply", fn(types.Any, param("thisArg", types.Any), optional("args", types.Any))).
		WithMethod("call", fn(types.Any, param("thisArg", types.Any), rest("args", types.Any))).
		WithMethod("bind", fn(types.Any, param("thisArg", types.Any), rest("args", types.Any))).
		WithReadonly("length", types.Number).
		WithReadonly("name", types.String).
		Interface("Function")
	if err := ctx.DefineType("Function", functionIface); err != nil {
		return err
	}

	ctor := newShape().
		WithCall(fn(functionIface, rest("args", types.String))).
		WithConstruct(fn(functionIface, rest("args", types.String))).
		Interface("FunctionConstructor")
	return ctx.DefineGlobal("Function", ctor)
}
