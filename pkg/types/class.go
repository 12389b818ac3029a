package types

// Class is the type of a class value (its static side). Instance members and
// statics share Body, distinguished by their Static flag; the constructor is
// a ConstructorSignature member.
type Class struct {
	Name       string
	TypeParams []*Param
	Super      Type // *ClassInstance of the base class, or nil
	Body       []TypeElement
}

func (c *Class) String() string { return "typeof " + c.Name }
func (c *Class) typeNode()      {}
func (c *Class) Equals(other Type) bool {
	// Classes are nominal: each declaration is its own type.
	return c == other
}

// Constructor returns the declared constructor signature, or nil.
func (c *Class) Constructor() *ConstructorSignature {
	for _, e := range c.Body {
		if ctor, ok := e.(*ConstructorSignature); ok {
			return ctor
		}
	}
	return nil
}

// Statics returns the static members.
func (c *Class) Statics() []TypeElement {
	var out []TypeElement
	for _, e := range c.Body {
		if isStatic(e) {
			out = append(out, e)
		}
	}
	return out
}

// Instance returns the non-static members, excluding the constructor.
func (c *Class) Instance() []TypeElement {
	var out []TypeElement
	for _, e := range c.Body {
		switch e.(type) {
		case *ConstructorSignature, *CallSignature:
			continue
		}
		if !isStatic(e) {
			out = append(out, e)
		}
	}
	return out
}

func isStatic(e TypeElement) bool {
	switch e := e.(type) {
	case *Method:
		return e.Static
	case *Property:
		return e.Static
	}
	return false
}

// ClassInstance is the type of `new C<Args>()`.
type ClassInstance struct {
	Class    *Class
	TypeArgs []Type
}

func (ci *ClassInstance) String() string {
	return ci.Class.Name + typeArgsString(ci.TypeArgs)
}
func (ci *ClassInstance) typeNode() {}
func (ci *ClassInstance) Equals(other Type) bool {
	o, ok := other.(*ClassInstance)
	return ok && ci.Class == o.Class && equalList(ci.TypeArgs, o.TypeArgs)
}

// Bindings maps the class's type parameters to the instance's type
// arguments. Missing arguments fall back to the parameter default, then Any.
func (ci *ClassInstance) Bindings() map[string]Type {
	return BindParams(ci.Class.TypeParams, ci.TypeArgs)
}
