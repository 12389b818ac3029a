package builtins

import "tscheck/pkg/types"

type ObjectInitializer struct{}

func (o *ObjectInitializer) Name() string  { return "Object" }
func (o *ObjectInitializer) Priority() int { return PriorityObject }
func (o *ObjectInitializer) Lib() Lib      { return ES5 }

func (o *ObjectInitializer) InitTypes(ctx *TypeContext) error {
	// Members every value inherits; method lookups always consult these.
	objectIface := newShape().
		WithMethod("toString", fn(types.String)).
		WithMethod("toLocaleString", fn(types.String)).
		WithMethod("valueOf", fn(types.Object)).
		WithMethod("hasOwnProperty", fn(types.Boolean, param("v", types.String))).
		WithMethod("isPrototypeOf", fn(types.Boolean, param("v", types.Object))).
		WithMethod("propertyIsEnumerable", fn(types.Boolean, param("v", types.String))).
		Interface("Object")
	if err := ctx.DefineType("Object", objectIface); err != nil {
		return err
	}

	t := tparam("T")
	u := tparam("U")
	ctor := newShape().
		WithCall(fn(types.Any, optional("value", types.Any))).
		WithConstruct(fn(types.Any, optional("value", types.Any))).
		WithMethod("keys", fn(arrayOf(types.String), param("o", types.Object))).
		WithMethod("values", fn(arrayOf(types.Any), param("o", types.Any))).
		WithMethod("entries", fn(arrayOf(&types.Tuple{Elems: []types.Type{types.String, types.Any}}), param("o", types.Any))).
		WithMethod("assign", generic([]*types.Param{t, u}, fn(types.NewUnion(t, u), param("target", t), param("source", u)))).
		WithMethod("freeze", generic([]*types.Param{tparam("T")}, fn(ref("T"), param("o", ref("T"))))).
		WithMethod("create", fn(types.Any, param("o", types.Any))).
		WithMethod("getPrototypeOf", fn(types.Any, param("o", types.Any))).
		WithMethod("defineProperty", fn(types.Any, param("o", types.Any), param("p", types.String), param("attributes", types.Any))).
		Interface("ObjectConstructor")
	if err := ctx.DefineType("ObjectConstructor", ctor); err != nil {
		return err
	}
	return ctx.DefineGlobal("Object", ctor)
}
