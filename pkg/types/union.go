package types

import "strings"

// --- Union Types ---

// Union represents a union of multiple types (e.g., string | number).
// Member order is preserved: call resolution tries members left to right.
type Union struct {
	Types []Type
}

func (u *Union) String() string {
	parts := make([]string, len(u.Types))
	for i, t := range u.Types {
		s := t.String()
		if _, ok := t.(*Function); ok {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, " | ")
}
func (u *Union) typeNode() {}
func (u *Union) Equals(other Type) bool {
	o, ok := other.(*Union)
	if !ok {
		return false
	}
	if u == o {
		return true
	}

	// Unions are equal if they contain the same set of types, regardless of order.
	if len(u.Types) != len(o.Types) {
		return false
	}
	matched := make([]bool, len(o.Types))
	for _, t1 := range u.Types {
		found := false
		for j, t2 := range o.Types {
			if !matched[j] && t1.Equals(t2) {
				matched[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Contains checks if the union has a member equal to target.
func (u *Union) Contains(target Type) bool {
	for _, t := range u.Types {
		if t.Equals(target) {
			return true
		}
	}
	return false
}

// --- Union Type Constructor ---

// NewUnion creates a union type from the given types. It flattens nested
// unions, drops never, removes duplicates using structural equality and
// collapses to any when any member is any. A single remaining member is
// returned as is; no members yields never.
func NewUnion(ts ...Type) Type {
	members := make([]Type, 0, len(ts))

	var collect func(t Type) bool
	collect = func(t Type) bool {
		if t == nil || t == Never {
			return true
		}
		if t == Any {
			return false
		}
		if u, ok := t.(*Union); ok {
			for _, m := range u.Types {
				if !collect(m) {
					return false
				}
			}
			return true
		}
		for _, m := range members {
			if m.Equals(t) {
				return true
			}
		}
		members = append(members, t)
		return true
	}

	for _, t := range ts {
		if !collect(t) {
			return Any
		}
	}

	switch len(members) {
	case 0:
		return Never
	case 1:
		return members[0]
	}
	return &Union{Types: members}
}

// RemoveNullish removes null and undefined from a type. Used by the
// non-null assertion.
func RemoveNullish(t Type) Type {
	n := Normalize(t)
	if IsNullish(n) {
		return Never
	}
	u, ok := n.(*Union)
	if !ok {
		return t
	}
	var kept []Type
	for _, m := range u.Types {
		if !IsNullish(m) {
			kept = append(kept, m)
		}
	}
	return NewUnion(kept...)
}
