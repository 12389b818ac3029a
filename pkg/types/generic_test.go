package types

import (
	"testing"
)

func TestTypeParameter(t *testing.T) {
	param := &Param{Name: "T"}
	if param.String() != "T" {
		t.Errorf("Expected 'T', got '%s'", param.String())
	}

	constrained := &Param{Name: "U", Constraint: String, Default: StrLit("a")}
	if got := constrained.Declaration(); got != `U extends string = "a"` {
		t.Errorf("Expected 'U extends string = \"a\"', got '%s'", got)
	}

	if !param.Equals(&Param{Name: "T"}) {
		t.Error("Params with the same name should be equal")
	}
	if param.Equals(constrained) {
		t.Error("Params with different names should not be equal")
	}
	if param.Equals(String) {
		t.Error("Param should not equal a keyword type")
	}
}

func TestBindParamsFallbacks(t *testing.T) {
	params := []*Param{
		{Name: "A"},
		{Name: "B", Default: Boolean},
		{Name: "C", Constraint: String},
		{Name: "D"},
	}
	b := BindParams(params, []Type{Number})

	want := map[string]Type{"A": Number, "B": Boolean, "C": String, "D": Any}
	for name, w := range want {
		if b[name] != w {
			t.Errorf("binding %s: expected %s, got %v", name, w, b[name])
		}
	}
}

func TestComplexSubstitution(t *testing.T) {
	// Pair<T, U> = { first: T, second: U }
	paramT := &Param{Name: "T"}
	paramU := &Param{Name: "U"}
	pair := &Alias{
		Name:       "Pair",
		TypeParams: []*Param{paramT, paramU},
		Target: &TypeLiteral{Members: []TypeElement{
			&Property{Key: Key{Name: "first"}, Type: paramT},
			&Property{Key: Key{Name: "second"}, Type: paramU},
		}},
	}

	substituted := pair.Instantiate([]Type{String, Number})
	lit, ok := substituted.(*TypeLiteral)
	if !ok {
		t.Fatalf("Expected TypeLiteral, got %T", substituted)
	}
	first := lit.Lookup("first")
	second := lit.Lookup("second")
	if first == nil || second == nil {
		t.Fatal("Substituted type should have 'first' and 'second' properties")
	}
	if !ElementType(first).Equals(String) {
		t.Errorf("Expected 'first' to be string, got %s", ElementType(first))
	}
	if !ElementType(second).Equals(Number) {
		t.Errorf("Expected 'second' to be number, got %s", ElementType(second))
	}
}

func TestSubstitutionRespectsShadowing(t *testing.T) {
	outer := &Param{Name: "T"}
	inner := &Param{Name: "T"}
	// (x: T) => <T>(y: T) => T
	fn := &Function{
		Params: []FnParam{{Name: "x", Type: outer}},
		Return: &Function{
			TypeParams: []*Param{inner},
			Params:     []FnParam{{Name: "y", Type: inner}},
			Return:     inner,
		},
	}

	got := Substitute(fn, map[string]Type{"T": Number}).(*Function)
	if got.Params[0].Type != Number {
		t.Errorf("Expected outer T to be substituted, got %s", got.Params[0].Type)
	}
	ret := got.Return.(*Function)
	if ret.Params[0].Type != inner || ret.Return != inner {
		t.Errorf("Expected inner T to stay bound, got %s", ret)
	}
}

func TestNestedGenericSubstitution(t *testing.T) {
	param := &Param{Name: "T"}
	nested := &Array{Elem: &Array{Elem: param}}

	got := Substitute(nested, map[string]Type{"T": String})
	if got.String() != "string[][]" {
		t.Errorf("Expected 'string[][]', got '%s'", got)
	}
}

func TestInferBindingsFirstWins(t *testing.T) {
	param := &Param{Name: "T"}
	fn := &Function{
		TypeParams: []*Param{param},
		Params: []FnParam{
			{Name: "a", Type: param},
			{Name: "b", Type: &Array{Elem: param}},
		},
		Return: param,
	}

	bindings := map[string]Type{}
	InferBindings(fn.Params[0].Type, NumLit(1), fn.TypeParams, bindings)
	InferBindings(fn.Params[1].Type, &Tuple{Elems: []Type{StrLit("x")}}, fn.TypeParams, bindings)

	if bindings["T"] != Number {
		t.Errorf("Expected T bound to number by the first argument, got %v", bindings["T"])
	}

	inst := Instantiate(fn, bindings)
	if len(inst.TypeParams) != 0 {
		t.Error("Instantiated signature should not keep its type parameters")
	}
	if inst.Return != Number {
		t.Errorf("Expected return number, got %s", inst.Return)
	}
}

func TestInferThroughStructure(t *testing.T) {
	k := &Param{Name: "K"}
	v := &Param{Name: "V"}
	params := []*Param{k, v}
	// { key: K; get(): V }
	shape := &TypeLiteral{Members: []TypeElement{
		&Property{Key: Key{Name: "key"}, Type: k},
		&Method{Key: Key{Name: "get"}, Sig: &Function{Return: v}},
	}}
	arg := &TypeLiteral{Members: []TypeElement{
		&Property{Key: Key{Name: "key"}, Type: StrLit("id")},
		&Method{Key: Key{Name: "get"}, Sig: &Function{Return: Boolean}},
	}}

	bindings := map[string]Type{}
	InferBindings(shape, arg, params, bindings)
	if bindings["K"] != String {
		t.Errorf("Expected K = string, got %v", bindings["K"])
	}
	if bindings["V"] != Boolean {
		t.Errorf("Expected V = boolean, got %v", bindings["V"])
	}
}

func TestGenericInterfaceInstantiate(t *testing.T) {
	param := &Param{Name: "T"}
	box := &Interface{
		Name:       "Box",
		TypeParams: []*Param{param},
		Body: []TypeElement{
			&Method{Key: Key{Name: "get"}, Sig: &Function{Return: param}},
		},
	}

	inst := box.Instantiate([]Type{String})
	if inst.String() != "Box<string>" {
		t.Errorf("Expected 'Box<string>', got '%s'", inst)
	}
	m := inst.Lookup("get").(*Method)
	if m.Sig.Return != String {
		t.Errorf("Expected get() to return string, got %s", m.Sig.Return)
	}
	if box.Lookup("get").(*Method).Sig.Return != param {
		t.Error("Instantiation must not mutate the generic declaration")
	}
}
