package builtins

import "tscheck/pkg/types"

type ErrorInitializer struct{}

func (e *ErrorInitializer) Name() string  { return "Error" }
func (e *ErrorInitializer) Priority() int { return PriorityError }
func (e *ErrorInitializer) Lib() Lib      { return ES5 }

var errorSubtypes = []string{"TypeError", "RangeError", "SyntaxError", "ReferenceError", "EvalError", "URIError"}

func (e *ErrorInitializer) InitTypes(ctx *TypeContext) error {
	errorIface := newShape().
		WithProperty("name", types.String).
		WithProperty("message", types.String).
		WithOptional("stack", types.String).
		Interface("Error")
	if err := ctx.DefineType("Error", errorIface); err != nil {
		return err
	}
	if err := ctx.DefineGlobal("Error", errorConstructor("ErrorConstructor", errorIface)); err != nil {
		return err
	}

	for _, name := range errorSubtypes {
		sub := &types.Interface{Name: name, Extends: []types.Type{errorIface}}
		if err := ctx.DefineType(name, sub); err != nil {
			return err
		}
		if err := ctx.DefineGlobal(name, errorConstructor(name+"Constructor", sub)); err != nil {
			return err
		}
	}
	return nil
}

func errorConstructor(name string, inst types.Type) *types.Interface {
	return newShape().
		WithCall(fn(inst, optional("message", types.String))).
		WithConstruct(fn(inst, optional("message", types.String))).
		WithReadonly("prototype", inst).
		Interface(name)
}
