package types

// --- Type Widening ---

// Widen converts literal types to their keyword base types, the way a
// mutable binding generalizes its initializer. Unions are widened member by
// member; a Static widens to its declared type. Other types are returned
// unchanged.
func Widen(t Type) Type {
	switch v := t.(type) {
	case *Literal:
		return v.Base()
	case *Static:
		if v.Declared != nil {
			return v.Declared
		}
		return Widen(v.Value)
	case *EnumVariant:
		return v.Enum
	case *Union:
		ws := make([]Type, len(v.Types))
		for i, m := range v.Types {
			ws[i] = Widen(m)
		}
		return NewUnion(ws...)
	}
	return t
}

// DeepWiden widens literal types inside tuples, arrays and type literals as
// well, one structural level at a time.
func DeepWiden(t Type) Type {
	switch v := Widen(t).(type) {
	case *Tuple:
		elems := make([]Type, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = DeepWiden(e)
		}
		return &Tuple{Elems: elems}
	case *Array:
		return &Array{Elem: DeepWiden(v.Elem)}
	case *TypeLiteral:
		members := make([]TypeElement, len(v.Members))
		for i, m := range v.Members {
			if p, ok := m.(*Property); ok && !p.Readonly {
				cp := *p
				cp.Type = DeepWiden(p.Type)
				members[i] = &cp
				continue
			}
			members[i] = m
		}
		return &TypeLiteral{Members: members}
	default:
		return v
	}
}
