package types

import "strings"

// Array is `T[]`.
type Array struct {
	Elem Type
}

func (a *Array) String() string {
	s := typeString(a.Elem)
	switch a.Elem.(type) {
	case *Union, *Function:
		s = "(" + s + ")"
	}
	return s + "[]"
}
func (a *Array) typeNode() {}
func (a *Array) Equals(other Type) bool {
	o, ok := other.(*Array)
	return ok && equal(a.Elem, o.Elem)
}

// Tuple is `[A, B]`. Array literals are typed as tuples.
type Tuple struct {
	Elems []Type
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = typeString(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (t *Tuple) typeNode() {}
func (t *Tuple) Equals(other Type) bool {
	o, ok := other.(*Tuple)
	return ok && equalList(t.Elems, o.Elems)
}

// ElemUnion is the union of the tuple's element types, or never when empty.
func (t *Tuple) ElemUnion() Type {
	return NewUnion(t.Elems...)
}
