package builtins

import "tscheck/pkg/types"

type ArrayInitializer struct{}

func (a *ArrayInitializer) Name() string  { return "Array" }
func (a *ArrayInitializer) Priority() int { return PriorityArray }
func (a *ArrayInitializer) Lib() Lib      { return ES5 }

func (a *ArrayInitializer) InitTypes(ctx *TypeContext) error {
	t := tparam("T")
	u := tparam("U")
	tArr := arrayOf(t)

	callback := func(ret types.Type) *types.Function {
		return fn(ret, param("value", t), optional("index", types.Number), optional("array", tArr))
	}

	arrayIface := newShape().
		WithProperty("length", types.Number).
		WithMethod("push", fn(types.Number, rest("items", t))).
		WithMethod("pop", fn(types.NewUnion(t, types.Undefined))).
		WithMethod("shift", fn(types.NewUnion(t, types.Undefined))).
		WithMethod("unshift", fn(types.Number, rest("items", t))).
		WithMethod("concat", fn(tArr, rest("items", types.Any))).
		WithMethod("join", fn(types.String, optional("separator", types.String))).
		WithMethod("reverse", fn(tArr)).
		WithMethod("slice", fn(tArr, optional("start", types.Number), optional("end", types.Number))).
		WithMethod("splice", fn(tArr, param("start", types.Number), optional("deleteCount", types.Number), rest("items", t))).
		WithMethod("sort", fn(tArr, optional("compareFn", fn(types.Number, param("a", t), param("b", t))))).
		WithMethod("indexOf", fn(types.Number, param("searchElement", t), optional("fromIndex", types.Number))).
		WithMethod("lastIndexOf", fn(types.Number, param("searchElement", t), optional("fromIndex", types.Number))).
		WithMethod("includes", fn(types.Boolean, param("searchElement", t), optional("fromIndex", types.Number))).
		WithMethod("every", fn(types.Boolean, param("predicate", callback(types.Any)))).
		WithMethod("some", fn(types.Boolean, param("predicate", callback(types.Any)))).
		WithMethod("forEach", fn(types.Void, param("callbackfn", callback(types.Void)))).
		WithMethod("map", generic([]*types.Param{u}, fn(arrayOf(u), param("callbackfn", callback(u))))).
		WithMethod("filter", fn(tArr, param("predicate", callback(types.Any)))).
		WithMethod("find", fn(types.NewUnion(t, types.Undefined), param("predicate", callback(types.Any)))).
		WithMethod("findIndex", fn(types.Number, param("predicate", callback(types.Any)))).
		// reduce is overloaded by arity: with and without an initial value.
		WithMethod("reduce", fn(t, param("callbackfn", fn(t, param("previousValue", t), param("currentValue", t))))).
		WithMethod("reduce", generic([]*types.Param{tparam("U")}, fn(ref("U"),
			param("callbackfn", fn(ref("U"), param("previousValue", ref("U")), param("currentValue", t))),
			param("initialValue", ref("U"))))).
		Interface("Array", t)
	if err := ctx.DefineType("Array", arrayIface); err != nil {
		return err
	}

	e := tparam("T")
	ctor := newShape().
		WithCall(generic([]*types.Param{e}, fn(arrayOf(e), rest("items", e)))).
		WithConstruct(generic([]*types.Param{tparam("T")}, fn(arrayOf(ref("T")), optional("arrayLength", types.Number)))).
		WithMethod("isArray", fn(types.Boolean, param("arg", types.Any))).
		WithMethod("of", generic([]*types.Param{tparam("T")}, fn(arrayOf(ref("T")), rest("items", ref("T"))))).
		WithMethod("from", fn(arrayOf(types.Any), param("iterable", types.Any))).
		Interface("ArrayConstructor")
	return ctx.DefineGlobal("Array", ctor)
}
