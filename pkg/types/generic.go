package types

// --- Generic instantiation ---

// BindParams maps type parameters to positional type arguments. Missing
// arguments fall back to the parameter's default, then its constraint, then
// any.
func BindParams(params []*Param, args []Type) map[string]Type {
	if len(params) == 0 {
		return nil
	}
	b := make(map[string]Type, len(params))
	for i, p := range params {
		switch {
		case i < len(args) && args[i] != nil:
			b[p.Name] = args[i]
		case p.Default != nil:
			b[p.Name] = p.Default
		case p.Constraint != nil:
			b[p.Name] = p.Constraint
		default:
			b[p.Name] = Any
		}
	}
	return b
}

// Substitute replaces type parameter references by their bindings. Type
// parameters redeclared by an inner generic signature shadow the outer
// bindings inside that signature.
func Substitute(t Type, bindings map[string]Type) Type {
	if len(bindings) == 0 || t == nil {
		return t
	}
	return (&substituter{bindings: bindings}).subst(t, 0)
}

type substituter struct {
	bindings map[string]Type
}

const maxSubstDepth = 48

func (s *substituter) subst(t Type, depth int) Type {
	if t == nil || depth > maxSubstDepth {
		return t
	}
	d := depth + 1
	switch v := t.(type) {
	case *Param:
		if b, ok := s.bindings[v.Name]; ok {
			return b
		}
		return v
	case *TypeRef:
		if len(v.TypeArgs) == 0 {
			if b, ok := s.bindings[v.Name]; ok {
				return b
			}
			return v
		}
		return &TypeRef{Name: v.Name, TypeArgs: s.list(v.TypeArgs, d)}
	case *Function:
		return s.function(v, d)
	case *Union:
		return NewUnion(s.list(v.Types, d)...)
	case *Array:
		return &Array{Elem: s.subst(v.Elem, d)}
	case *Tuple:
		return &Tuple{Elems: s.list(v.Elems, d)}
	case *TypeLiteral:
		return &TypeLiteral{Members: s.elements(v.Members, d)}
	case *Interface:
		inner := s.without(v.TypeParams)
		return &Interface{
			Name:       v.Name,
			TypeParams: v.TypeParams,
			TypeArgs:   inner.list(v.TypeArgs, d),
			Extends:    inner.list(v.Extends, d),
			Body:       inner.elements(v.Body, d),
		}
	case *ClassInstance:
		return &ClassInstance{Class: v.Class, TypeArgs: s.list(v.TypeArgs, d)}
	case *Static:
		return &Static{Value: s.subst(v.Value, d), Declared: s.subst(v.Declared, d)}
	}
	// Keyword, Literal, Class, Enum, EnumVariant, Alias and TypeQuery carry no
	// free parameters of the enclosing signature.
	return t
}

func (s *substituter) list(ts []Type, depth int) []Type {
	if ts == nil {
		return nil
	}
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = s.subst(t, depth)
	}
	return out
}

func (s *substituter) without(params []*Param) *substituter {
	if len(params) == 0 {
		return s
	}
	shadowed := false
	for _, p := range params {
		if _, ok := s.bindings[p.Name]; ok {
			shadowed = true
			break
		}
	}
	if !shadowed {
		return s
	}
	b := make(map[string]Type, len(s.bindings))
	for k, v := range s.bindings {
		b[k] = v
	}
	for _, p := range params {
		delete(b, p.Name)
	}
	return &substituter{bindings: b}
}

func (s *substituter) function(f *Function, depth int) *Function {
	inner := s.without(f.TypeParams)
	params := make([]FnParam, len(f.Params))
	for i, p := range f.Params {
		p.Type = inner.subst(p.Type, depth)
		params[i] = p
	}
	return &Function{
		TypeParams: f.TypeParams,
		Params:     params,
		Return:     inner.subst(f.Return, depth),
	}
}

func (s *substituter) elements(els []TypeElement, depth int) []TypeElement {
	out := make([]TypeElement, len(els))
	for i, e := range els {
		switch e := e.(type) {
		case *Method:
			m := *e
			m.Sig = s.function(e.Sig, depth)
			out[i] = &m
		case *Property:
			p := *e
			p.Type = s.subst(e.Type, depth)
			out[i] = &p
		case *CallSignature:
			out[i] = &CallSignature{Sig: s.function(e.Sig, depth)}
		case *ConstructorSignature:
			out[i] = &ConstructorSignature{Sig: s.function(e.Sig, depth)}
		default:
			out[i] = e
		}
	}
	return out
}

// SubstituteElements applies bindings to every member of a body.
func SubstituteElements(els []TypeElement, bindings map[string]Type) []TypeElement {
	if len(bindings) == 0 {
		return els
	}
	return (&substituter{bindings: bindings}).elements(els, 0)
}

// --- Inference ---

// InferBindings collects bindings for the named type parameters by matching
// a parameter type against an argument type. The first binding found for a
// parameter wins; later candidates are ignored.
func InferBindings(param, arg Type, params []*Param, out map[string]Type) {
	if len(params) == 0 || param == nil || arg == nil {
		return
	}
	names := make(map[string]bool, len(params))
	for _, p := range params {
		names[p.Name] = true
	}
	infer(param, arg, names, out, 0)
}

func infer(param, arg Type, names map[string]bool, out map[string]Type, depth int) {
	if depth > maxSubstDepth {
		return
	}
	d := depth + 1
	arg = Normalize(arg)

	switch p := param.(type) {
	case *Param:
		if names[p.Name] {
			if _, bound := out[p.Name]; !bound {
				out[p.Name] = Widen(arg)
			}
		}
	case *TypeRef:
		if len(p.TypeArgs) == 0 && names[p.Name] {
			if _, bound := out[p.Name]; !bound {
				out[p.Name] = Widen(arg)
			}
		}
	case *Array:
		switch a := arg.(type) {
		case *Array:
			infer(p.Elem, a.Elem, names, out, d)
		case *Tuple:
			infer(p.Elem, a.ElemUnion(), names, out, d)
		}
	case *Tuple:
		if a, ok := arg.(*Tuple); ok {
			for i := 0; i < len(p.Elems) && i < len(a.Elems); i++ {
				infer(p.Elems[i], a.Elems[i], names, out, d)
			}
		}
	case *Union:
		// Only members mentioning a parameter can bind; concrete members
		// absorb their share of the argument.
		for _, m := range p.Types {
			if mentionsParam(m, names) {
				infer(m, arg, names, out, d)
			}
		}
	case *Function:
		if a, ok := arg.(*Function); ok {
			for i := 0; i < len(p.Params) && i < len(a.Params); i++ {
				infer(p.Params[i].Type, a.Params[i].Type, names, out, d)
			}
			infer(p.Return, a.Return, names, out, d)
		}
	case *TypeLiteral:
		inferMembers(p.Members, arg, names, out, d)
	case *Interface:
		if a, ok := arg.(*Interface); ok && a.Name == p.Name {
			for i := 0; i < len(p.TypeArgs) && i < len(a.TypeArgs); i++ {
				infer(p.TypeArgs[i], a.TypeArgs[i], names, out, d)
			}
			return
		}
		inferMembers(p.Body, arg, names, out, d)
	case *ClassInstance:
		if a, ok := arg.(*ClassInstance); ok && a.Class == p.Class {
			for i := 0; i < len(p.TypeArgs) && i < len(a.TypeArgs); i++ {
				infer(p.TypeArgs[i], a.TypeArgs[i], names, out, d)
			}
		}
	}
}

func inferMembers(pm []TypeElement, arg Type, names map[string]bool, out map[string]Type, depth int) {
	var am []TypeElement
	switch a := arg.(type) {
	case *TypeLiteral:
		am = a.Members
	case *Interface:
		am = a.Body
	default:
		return
	}
	for _, e := range pm {
		k := e.ElementKey()
		if k.Name == "" {
			continue
		}
		if other := lookup(am, k.Name); other != nil {
			infer(ElementType(e), ElementType(other), names, out, depth)
		}
	}
}

func mentionsParam(t Type, names map[string]bool) bool {
	found := false
	Walk(t, func(t Type) bool {
		switch v := t.(type) {
		case *Param:
			found = found || names[v.Name]
		case *TypeRef:
			found = found || (len(v.TypeArgs) == 0 && names[v.Name])
		}
		return !found
	})
	return found
}

// Walk visits t and its structural components depth first until f returns
// false. Class bodies and interface bases are not entered.
func Walk(t Type, f func(Type) bool) {
	walk(t, f, 0)
}

func walk(t Type, f func(Type) bool, depth int) bool {
	if t == nil || depth > maxSubstDepth {
		return true
	}
	if !f(t) {
		return false
	}
	d := depth + 1
	each := func(ts []Type) bool {
		for _, x := range ts {
			if !walk(x, f, d) {
				return false
			}
		}
		return true
	}
	elements := func(els []TypeElement) bool {
		for _, e := range els {
			if !walk(ElementType(e), f, d) {
				return false
			}
		}
		return true
	}
	switch v := t.(type) {
	case *Function:
		for _, p := range v.Params {
			if !walk(p.Type, f, d) {
				return false
			}
		}
		return walk(v.Return, f, d)
	case *Union:
		return each(v.Types)
	case *Array:
		return walk(v.Elem, f, d)
	case *Tuple:
		return each(v.Elems)
	case *TypeRef:
		return each(v.TypeArgs)
	case *TypeLiteral:
		return elements(v.Members)
	case *Interface:
		return each(v.TypeArgs) && elements(v.Body)
	case *ClassInstance:
		return each(v.TypeArgs)
	case *Static:
		return walk(v.Value, f, d)
	}
	return true
}

// Instantiate returns the signature with bindings applied and its own type
// parameters removed.
func Instantiate(f *Function, bindings map[string]Type) *Function {
	out := (&substituter{bindings: bindings}).function(&Function{Params: f.Params, Return: f.Return}, 0)
	return out
}
