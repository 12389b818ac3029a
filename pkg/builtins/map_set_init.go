package builtins

import "tscheck/pkg/types"

type MapSetInitializer struct{}

func (m *MapSetInitializer) Name() string  { return "MapSet" }
func (m *MapSetInitializer) Priority() int { return PriorityMap }
func (m *MapSetInitializer) Lib() Lib      { return ES2015 }

func (m *MapSetInitializer) InitTypes(ctx *TypeContext) error {
	k, v := tparam("K"), tparam("V")
	mapIface := newShape().
		WithReadonly("size", types.Number).
		WithMethod("get", fn(types.NewUnion(v, types.Undefined), param("key", k))).
		WithMethod("set", fn(ref("Map", k, v), param("key", k), param("value", v))).
		WithMethod("has", fn(types.Boolean, param("key", k))).
		WithMethod("delete", fn(types.Boolean, param("key", k))).
		WithMethod("clear", fn(types.Void)).
		WithMethod("forEach", fn(types.Void, param("callbackfn", fn(types.Void, param("value", v), param("key", k))))).
		Interface("Map", k, v)
	if err := ctx.DefineType("Map", mapIface); err != nil {
		return err
	}
	mk, mv := tparam("K"), tparam("V")
	mapCtor := newShape().
		WithConstruct(generic([]*types.Param{mk, mv}, fn(ref("Map", mk, mv), optional("entries", arrayOf(types.Any))))).
		Interface("MapConstructor")
	if err := ctx.DefineGlobal("Map", mapCtor); err != nil {
		return err
	}

	t := tparam("T")
	setIface := newShape().
		WithReadonly("size", types.Number).
		WithMethod("add", fn(ref("Set", t), param("value", t))).
		WithMethod("has", fn(types.Boolean, param("value", t))).
		WithMethod("delete", fn(types.Boolean, param("value", t))).
		WithMethod("clear", fn(types.Void)).
		WithMethod("forEach", fn(types.Void, param("callbackfn", fn(types.Void, param("value", t))))).
		Interface("Set", t)
	if err := ctx.DefineType("Set", setIface); err != nil {
		return err
	}
	st := tparam("T")
	setCtor := newShape().
		WithConstruct(generic([]*types.Param{st}, fn(ref("Set", st), optional("values", arrayOf(st))))).
		Interface("SetConstructor")
	return ctx.DefineGlobal("Set", setCtor)
}
