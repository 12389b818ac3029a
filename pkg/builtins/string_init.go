package builtins

import "tscheck/pkg/types"

type StringInitializer struct{}

func (s *StringInitializer) Name() string  { return "String" }
func (s *StringInitializer) Priority() int { return PriorityString }
func (s *StringInitializer) Lib() Lib      { return ES5 }

func (s *StringInitializer) InitTypes(ctx *TypeContext) error {
	strArr := arrayOf(types.String)
	stringIface := newShape().
		WithReadonly("length", types.Number).
		WithMethod("charAt", fn(types.String, param("pos", types.Number))).
		WithMethod("charCodeAt", fn(types.Number, param("index", types.Number))).
		WithMethod("concat", fn(types.String, rest("strings", types.String))).
		WithMethod("indexOf", fn(types.Number, param("searchString", types.String), optional("position", types.Number))).
		WithMethod("lastIndexOf", fn(types.Number, param("searchString", types.String), optional("position", types.Number))).
		WithMethod("includes", fn(types.Boolean, param("searchString", types.String), optional("position", types.Number))).
		WithMethod("startsWith", fn(types.Boolean, param("searchString", types.String), optional("position", types.Number))).
		WithMethod("endsWith", fn(types.Boolean, param("searchString", types.String), optional("endPosition", types.Number))).
		WithMethod("slice", fn(types.String, optional("start", types.Number), optional("end", types.Number))).
		WithMethod("substring", fn(types.String, param("start", types.Number), optional("end", types.Number))).
		WithMethod("substr", fn(types.String, param("from", types.Number), optional("length", types.Number))).
		WithMethod("split", fn(strArr, param("separator", types.NewUnion(types.String, ref("RegExp"))), optional("limit", types.Number))).
		WithMethod("replace", fn(types.String, param("searchValue", types.NewUnion(types.String, ref("RegExp"))), param("replaceValue", types.String))).
		WithMethod("match", fn(types.NewUnion(strArr, types.Null), param("regexp", types.NewUnion(types.String, ref("RegExp"))))).
		WithMethod("toLowerCase", fn(types.String)).
		WithMethod("toUpperCase", fn(types.String)).
		WithMethod("trim", fn(types.String)).
		WithMethod("repeat", fn(types.String, param("count", types.Number))).
		WithMethod("padStart", fn(types.String, param("maxLength", types.Number), optional("fillString", types.String))).
		WithMethod("padEnd", fn(types.String, param("maxLength", types.Number), optional("fillString", types.String))).
		WithMethod("valueOf", fn(types.String)).
		Interface("String")
	if err := ctx.DefineType("String", stringIface); err != nil {
		return err
	}

	ctor := newShape().
		WithCall(fn(types.String, optional("value", types.Any))).
		WithConstruct(fn(stringIface, optional("value", types.Any))).
		WithMethod("fromCharCode", fn(types.String, rest("codes", types.Number))).
		Interface("StringConstructor")
	return ctx.DefineGlobal("String", ctor)
}
