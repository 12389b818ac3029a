package types

// --- Type Assignability ---

// IsAssignable checks if a value of type `source` can be assigned to a
// location of type `target`, without expanding named references.
func IsAssignable(source, target Type) bool {
	return Assignable(source, target, nil)
}

// Assignable checks assignability, resolving unexpanded references through
// expand.
func Assignable(source, target Type, expand Expander) bool {
	return (&assignability{expand: expand}).check(source, target, 0)
}

type assignability struct {
	expand Expander
}

// Structural recursion deeper than this is assumed to succeed; it only
// happens with recursive object types.
const maxAssignDepth = 24

func (a *assignability) resolve(t Type) Type {
	switch t.(type) {
	case *TypeRef, *TypeQuery:
		t = a.expand.expand(t)
	}
	return Normalize(t)
}

func (a *assignability) check(source, target Type, depth int) bool {
	if source == nil || target == nil {
		return false
	}
	if depth > maxAssignDepth {
		return true
	}
	d := depth + 1
	source = a.resolve(source)
	target = a.resolve(target)

	// Basic rules:
	if target == Any || target == Unknown || source == Any || source == Never {
		return true
	}
	if source == Unknown {
		return false
	}
	if source == target || source.Equals(target) {
		return true
	}
	if target == Void && source == Undefined {
		return true
	}

	// Union type handling
	if su, ok := source.(*Union); ok {
		// Every member of the source must fit the target.
		for _, s := range su.Types {
			if !a.check(s, target, d) {
				return false
			}
		}
		return true
	}
	if tu, ok := target.(*Union); ok {
		for _, t := range tu.Types {
			if a.check(source, t, d) {
				return true
			}
		}
		return false
	}

	// Unresolved references only match themselves.
	if _, ok := source.(*TypeRef); ok {
		return false
	}
	if _, ok := target.(*TypeRef); ok {
		return false
	}

	switch t := target.(type) {
	case *Keyword:
		return a.toKeyword(source, t)
	case *Literal:
		if v, ok := source.(*EnumVariant); ok {
			return v.Value().Equals(t)
		}
		return false
	case *Param:
		return false
	case *Enum:
		switch s := source.(type) {
		case *EnumVariant:
			return s.Enum == t
		case *Literal:
			return s.Kind == LitNumber && t.IsNumeric()
		}
		return source == Number && t.IsNumeric()
	case *EnumVariant:
		return false
	case *Array:
		switch s := source.(type) {
		case *Array:
			return a.check(s.Elem, t.Elem, d)
		case *Tuple:
			for _, e := range s.Elems {
				if !a.check(e, t.Elem, d) {
					return false
				}
			}
			return true
		}
		return false
	case *Tuple:
		s, ok := source.(*Tuple)
		if !ok || len(s.Elems) != len(t.Elems) {
			return false
		}
		for i := range t.Elems {
			if !a.check(s.Elems[i], t.Elems[i], d) {
				return false
			}
		}
		return true
	case *Function:
		return a.toFunction(source, t, d)
	case *Class:
		s, ok := source.(*Class)
		return ok && inherits(s, t, a.expand)
	case *ClassInstance:
		if s, ok := source.(*ClassInstance); ok {
			if s.Class == t.Class {
				for i := 0; i < len(s.TypeArgs) && i < len(t.TypeArgs); i++ {
					if !a.check(s.TypeArgs[i], t.TypeArgs[i], d) {
						return false
					}
				}
				return true
			}
		}
		return a.structural(source, t, d)
	case *Interface, *TypeLiteral:
		return a.structural(source, target, d)
	}
	return false
}

func (a *assignability) toKeyword(source Type, target *Keyword) bool {
	switch s := source.(type) {
	case *Literal:
		return s.Base() == target
	case *EnumVariant:
		return a.toKeyword(Normalize(s.Value()), target)
	case *Enum:
		return target == Number && s.IsNumeric()
	}
	if target == Object {
		switch source.(type) {
		case *Interface, *TypeLiteral, *ClassInstance, *Class, *Function, *Array, *Tuple:
			return true
		}
	}
	return false
}

// toFunction compares signatures: parameters bivariantly, returns
// covariantly, and a source may take fewer parameters than the target.
func (a *assignability) toFunction(source Type, target *Function, d int) bool {
	var s *Function
	switch v := source.(type) {
	case *Function:
		s = v
	case *Interface, *TypeLiteral:
		sigs := CallSignatures(v, a.expand)
		if len(sigs) == 0 {
			return false
		}
		s = sigs[0]
	default:
		return false
	}
	if s.MinArgs() > len(target.Params) && target.MaxArgs() >= 0 {
		return false
	}
	for i, tp := range target.Params {
		sp, ok := s.ParamAt(i)
		if !ok {
			break
		}
		tt := tp.Type
		if tp.Rest {
			tt, _ = target.ParamAt(i)
		}
		if !a.check(tt, sp, d) && !a.check(sp, tt, d) {
			return false
		}
	}
	if target.Return == nil || target.Return == Void {
		return true
	}
	return a.check(s.Return, target.Return, d)
}

// structural checks that the source provides every required member of the
// target with an assignable type.
func (a *assignability) structural(source, target Type, d int) bool {
	if i, ok := target.(*Interface); ok && len(i.TypeParams) == 0 {
		switch {
		case i.Name == "Object":
			return !IsNullish(source) && source != Void
		case i.Name == "Function":
			if _, ok := source.(*Function); ok {
				return true
			}
		case boxes[i.Name] != nil && boxes[i.Name] == widenKeyword(source):
			return true
		}
	}
	switch source.(type) {
	case *Interface, *TypeLiteral, *ClassInstance, *Class, *Function:
	default:
		// Primitives satisfy only member-less object types.
		return len(Members(target, a.expand)) == 0 && !IsNullish(source) && source != Void
	}
	targetMembers := Members(target, a.expand)
	sourceMembers := Members(source, a.expand)
	for _, tm := range targetMembers {
		switch tm := tm.(type) {
		case *CallSignature:
			if !a.toFunction(source, tm.Sig, d) {
				return false
			}
		case *ConstructorSignature:
			if len(ConstructSignatures(source, a.expand)) == 0 {
				if _, isClass := source.(*Class); !isClass {
					return false
				}
			}
		case *Property, *Method:
			key := tm.ElementKey()
			sm := lookup(sourceMembers, key.Name)
			if sm == nil {
				if p, ok := tm.(*Property); ok && p.Optional {
					continue
				}
				if m, ok := tm.(*Method); ok && m.Optional {
					continue
				}
				return false
			}
			if !a.check(ElementType(sm), ElementType(tm), d) {
				return false
			}
		}
	}
	return true
}

// inherits reports whether class s is t or derives from it.
func inherits(s, t *Class, expand Expander) bool {
	for i := 0; s != nil && i < 32; i++ {
		if s == t {
			return true
		}
		sup, ok := Normalize(expand.expand(s.Super)).(*ClassInstance)
		if !ok {
			return false
		}
		s = sup.Class
	}
	return false
}

// boxes maps the builtin wrapper interfaces to their primitives.
var boxes = map[string]Type{
	"Number":  Number,
	"String":  String,
	"Boolean": Boolean,
	"Symbol":  Symbol,
}

func widenKeyword(t Type) Type {
	if l, ok := t.(*Literal); ok {
		return l.Base()
	}
	return t
}
