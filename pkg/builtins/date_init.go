package builtins

import "tscheck/pkg/types"

type DateInitializer struct{}

func (d *DateInitializer) Name() string  { return "Date" }
func (d *DateInitializer) Priority() int { return PriorityDate }
func (d *DateInitializer) Lib() Lib      { return ES5 }

func (d *DateInitializer) InitTypes(ctx *TypeContext) error {
	s := newShape()
	for _, name := range []string{
		"getTime", "getFullYear", "getMonth", "getDate", "getDay",
		"getHours", "getMinutes", "getSeconds", "getMilliseconds", "getTimezoneOffset",
	} {
		s.WithMethod(name, fn(types.Number))
	}
	for _, name := range []string{"toISOString", "toUTCString", "toDateString", "toTimeString", "toJSON"} {
		s.WithMethod(name, fn(types.String))
	}
	dateIface := s.
		WithMethod("setTime", fn(types.Number, param("time", types.Number))).
		WithMethod("valueOf", fn(types.Number)).
		Interface("Date")
	if err := ctx.DefineType("Date", dateIface); err != nil {
		return err
	}

	value := types.NewUnion(types.Number, types.String)
	ctor := newShape().
		WithCall(fn(types.String)).
		WithConstruct(fn(dateIface, optional("value", value))).
		WithConstruct(fn(dateIface,
			param("year", types.Number), param("monthIndex", types.Number),
			optional("date", types.Number), optional("hours", types.Number),
			optional("minutes", types.Number), optional("seconds", types.Number))).
		WithMethod("now", fn(types.Number)).
		WithMethod("parse", fn(types.Number, param("s", types.String))).
		Interface("DateConstructor")
	return ctx.DefineGlobal("Date", ctor)
}
