package types

import (
	"strings"
)

// --- Type Elements ---

// Key names a member. Computed keys whose value is not statically known keep
// the source text of the expression in Name.
type Key struct {
	Name     string
	Computed bool
}

func (k Key) String() string {
	if k.Computed {
		return "[" + k.Name + "]"
	}
	return k.Name
}

// TypeElement is a member of an interface, type literal or class body.
type TypeElement interface {
	ElementKey() Key
	String() string
	elementNode()
}

// Method is a named callable member.
type Method struct {
	Key      Key
	Sig      *Function
	Optional bool
	Static   bool
}

// CallSignature makes its container callable.
type CallSignature struct {
	Sig *Function
}

// ConstructorSignature makes its container constructible. In a class body it
// describes the constructor.
type ConstructorSignature struct {
	Sig *Function
}

// Property is a named data member.
type Property struct {
	Key      Key
	Type     Type
	Optional bool
	Readonly bool
	Static   bool
}

func (m *Method) ElementKey() Key               { return m.Key }
func (c *CallSignature) ElementKey() Key        { return Key{} }
func (c *ConstructorSignature) ElementKey() Key { return Key{} }
func (p *Property) ElementKey() Key             { return p.Key }

func (m *Method) elementNode()               {}
func (c *CallSignature) elementNode()        {}
func (c *ConstructorSignature) elementNode() {}
func (p *Property) elementNode()             {}

func (m *Method) String() string {
	opt := ""
	if m.Optional {
		opt = "?"
	}
	return staticPrefix(m.Static) + m.Key.String() + opt + m.Sig.signature(": ")
}

func (c *CallSignature) String() string { return c.Sig.signature(": ") }

func (c *ConstructorSignature) String() string { return "new " + c.Sig.signature(": ") }

func (p *Property) String() string {
	var sb strings.Builder
	sb.WriteString(staticPrefix(p.Static))
	if p.Readonly {
		sb.WriteString("readonly ")
	}
	sb.WriteString(p.Key.String())
	if p.Optional {
		sb.WriteString("?")
	}
	sb.WriteString(": ")
	sb.WriteString(typeString(p.Type))
	return sb.String()
}

func staticPrefix(static bool) string {
	if static {
		return "static "
	}
	return ""
}

// ElementType is the type a member contributes when read as a value.
func ElementType(e TypeElement) Type {
	switch e := e.(type) {
	case *Method:
		return e.Sig
	case *Property:
		return e.Type
	case *CallSignature:
		return e.Sig
	case *ConstructorSignature:
		return e.Sig
	}
	return Any
}

func elementsString(els []TypeElement) string {
	if len(els) == 0 {
		return "{}"
	}
	parts := make([]string, len(els))
	for i, e := range els {
		parts[i] = e.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func equalElements(a, b []TypeElement) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalElement(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalElement(a, b TypeElement) bool {
	switch x := a.(type) {
	case *Method:
		y, ok := b.(*Method)
		return ok && x.Key == y.Key && x.Optional == y.Optional && x.Static == y.Static && x.Sig.Equals(y.Sig)
	case *Property:
		y, ok := b.(*Property)
		return ok && x.Key == y.Key && x.Optional == y.Optional && x.Static == y.Static && equal(x.Type, y.Type)
	case *CallSignature:
		y, ok := b.(*CallSignature)
		return ok && x.Sig.Equals(y.Sig)
	case *ConstructorSignature:
		y, ok := b.(*ConstructorSignature)
		return ok && x.Sig.Equals(y.Sig)
	}
	return false
}

// --- Type Literals ---

// TypeLiteral is an anonymous object type: `{ a: number; m(): void }`.
// Object literals and namespace imports are typed as TypeLiterals.
type TypeLiteral struct {
	Members []TypeElement
}

func (t *TypeLiteral) String() string { return elementsString(t.Members) }
func (t *TypeLiteral) typeNode()      {}
func (t *TypeLiteral) Equals(other Type) bool {
	o, ok := other.(*TypeLiteral)
	return ok && (t == o || equalElements(t.Members, o.Members))
}

// Lookup returns the first member with the given name.
func (t *TypeLiteral) Lookup(name string) TypeElement {
	return lookup(t.Members, name)
}

func lookup(els []TypeElement, name string) TypeElement {
	for _, e := range els {
		if k := e.ElementKey(); k.Name == name && !k.Computed {
			return e
		}
	}
	return nil
}

// --- Interfaces ---

// Interface is a named object type. Extends holds the (possibly unexpanded)
// base types; TypeArgs is set on instantiations of a generic interface.
type Interface struct {
	Name       string
	TypeParams []*Param
	TypeArgs   []Type
	Extends    []Type
	Body       []TypeElement
}

func (i *Interface) String() string {
	if len(i.TypeArgs) > 0 {
		return i.Name + typeArgsString(i.TypeArgs)
	}
	return i.Name
}
func (i *Interface) typeNode() {}
func (i *Interface) Equals(other Type) bool {
	o, ok := other.(*Interface)
	if !ok {
		return false
	}
	if i == o {
		return true
	}
	return i.Name == o.Name && equalList(i.TypeArgs, o.TypeArgs) && equalElements(i.Body, o.Body)
}

// Lookup returns the first own member with the given name.
func (i *Interface) Lookup(name string) TypeElement {
	return lookup(i.Body, name)
}

// Instantiate binds the interface's type parameters to args. The result is
// a non-generic interface carrying TypeArgs.
func (i *Interface) Instantiate(args []Type) *Interface {
	if len(i.TypeParams) == 0 {
		return i
	}
	b := BindParams(i.TypeParams, args)
	typeArgs := make([]Type, len(i.TypeParams))
	for idx, p := range i.TypeParams {
		typeArgs[idx] = b[p.Name]
	}
	extends := make([]Type, len(i.Extends))
	for idx, e := range i.Extends {
		extends[idx] = Substitute(e, b)
	}
	return &Interface{
		Name:     i.Name,
		TypeArgs: typeArgs,
		Extends:  extends,
		Body:     SubstituteElements(i.Body, b),
	}
}
