package types

// Expander resolves unexpanded references (TypeRef, TypeQuery) to concrete
// types. Structural operations call it on interface bases, class supers and
// member types. A nil Expander leaves references as they are.
type Expander func(Type) Type

func (x Expander) expand(t Type) Type {
	if x == nil || t == nil {
		return t
	}
	return x(t)
}

// Members returns every member visible on a structural type: own members of
// an interface followed by its extends chain, a type literal's members, the
// instance side of a class instance followed by its super chain, or the
// static side of a class followed by its super's statics. Type arguments of
// generic classes are substituted. Other types have no members.
func Members(t Type, expand Expander) []TypeElement {
	var out []TypeElement
	collectMembers(Normalize(expand.expand(t)), expand, &out, map[any]bool{}, 0)
	return out
}

func collectMembers(t Type, expand Expander, out *[]TypeElement, seen map[any]bool, depth int) {
	if depth > 32 {
		return
	}
	switch v := t.(type) {
	case *TypeLiteral:
		*out = append(*out, v.Members...)
	case *Interface:
		if seen[v] {
			return
		}
		seen[v] = true
		*out = append(*out, v.Body...)
		for _, base := range v.Extends {
			collectMembers(Normalize(expand.expand(base)), expand, out, seen, depth+1)
		}
	case *ClassInstance:
		if seen[v.Class] {
			return
		}
		seen[v.Class] = true
		*out = append(*out, SubstituteElements(v.Class.Instance(), v.Bindings())...)
		if v.Class.Super != nil {
			super := Substitute(v.Class.Super, v.Bindings())
			collectMembers(Normalize(expand.expand(super)), expand, out, seen, depth+1)
		}
	case *Class:
		if seen[v] {
			return
		}
		seen[v] = true
		*out = append(*out, v.Statics()...)
		if sup, ok := Normalize(expand.expand(v.Super)).(*ClassInstance); ok {
			collectMembers(sup.Class, expand, out, seen, depth+1)
		}
	}
}

// FindMember returns the first visible member with the given name.
func FindMember(t Type, name string, expand Expander) TypeElement {
	return lookup(Members(t, expand), name)
}

// MethodsNamed returns every Method member named name, in lookup order.
func MethodsNamed(t Type, name string, expand Expander) []*Method {
	var out []*Method
	for _, e := range Members(t, expand) {
		if m, ok := e.(*Method); ok && m.Key.Name == name && !m.Key.Computed {
			out = append(out, m)
		}
	}
	return out
}

// CallSignatures returns the call signatures of a structural type.
func CallSignatures(t Type, expand Expander) []*Function {
	var out []*Function
	for _, e := range Members(t, expand) {
		if c, ok := e.(*CallSignature); ok {
			out = append(out, c.Sig)
		}
	}
	return out
}

// ConstructSignatures returns the constructor signatures of a structural type.
func ConstructSignatures(t Type, expand Expander) []*Function {
	var out []*Function
	for _, e := range Members(t, expand) {
		if c, ok := e.(*ConstructorSignature); ok {
			out = append(out, c.Sig)
		}
	}
	return out
}
