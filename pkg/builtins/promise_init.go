package builtins

import "tscheck/pkg/types"

type PromiseInitializer struct{}

func (p *PromiseInitializer) Name() string  { return "Promise" }
func (p *PromiseInitializer) Priority() int { return PriorityPromise }
func (p *PromiseInitializer) Lib() Lib      { return ES2015 }

func (p *PromiseInitializer) InitTypes(ctx *TypeContext) error {
	t := tparam("T")
	u := tparam("U")

	promiseIface := newShape().
		WithMethod("then", generic([]*types.Param{u}, fn(ref("Promise", u),
			optional("onfulfilled", fn(types.NewUnion(u, ref("Promise", u)), param("value", t))),
			optional("onrejected", fn(types.Any, param("reason", types.Any)))))).
		WithMethod("catch", fn(ref("Promise", t),
			optional("onrejected", fn(types.Any, param("reason", types.Any))))).
		WithMethod("finally", fn(ref("Promise", t), optional("onfinally", fn(types.Void)))).
		Interface("Promise", t)
	if err := ctx.DefineType("Promise", promiseIface); err != nil {
		return err
	}

	executor := func(v types.Type) *types.Function {
		return fn(types.Void,
			param("resolve", fn(types.Void, param("value", v))),
			param("reject", fn(types.Void, optional("reason", types.Any))))
	}
	c := tparam("T")
	ctor := newShape().
		WithConstruct(generic([]*types.Param{c}, fn(ref("Promise", c), param("executor", executor(c))))).
		WithMethod("resolve", generic([]*types.Param{tparam("T")}, fn(ref("Promise", ref("T")), param("value", ref("T"))))).
		WithMethod("reject", fn(ref("Promise", types.Never), optional("reason", types.Any))).
		WithMethod("all", fn(ref("Promise", arrayOf(types.Any)), param("values", arrayOf(types.Any)))).
		WithMethod("race", fn(ref("Promise", types.Any), param("values", arrayOf(types.Any)))).
		Interface("PromiseConstructor")
	return ctx.DefineGlobal("Promise", ctor)
}
