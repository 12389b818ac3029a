package ast

// IdentPat binds a single name, optionally annotated.
type IdentPat struct {
	Base
	Name     string
	Type     TsType
	Optional bool
}

// ArrayPat is `[a, , b]`. Holes are nil.
type ArrayPat struct {
	Base
	Elems []Pat
	Type  TsType
}

// ObjectPatProp is `key: value` inside an object pattern. Shorthand `{ a }`
// has Value set to an *IdentPat named like the key.
type ObjectPatProp struct {
	Base
	Key   *PropName
	Value Pat
}

// ObjectPat is `{ a, b: c, ...rest }`.
type ObjectPat struct {
	Base
	Props []*ObjectPatProp
	Rest  Pat
	Type  TsType
}

// AssignPat is `left = right` (a default value).
type AssignPat struct {
	Base
	Left  Pat
	Right Expr
}

// RestPat is `...arg`.
type RestPat struct {
	Base
	Arg  Pat
	Type TsType
}

func (*IdentPat) patNode()  {}
func (*ArrayPat) patNode()  {}
func (*ObjectPat) patNode() {}
func (*AssignPat) patNode() {}
func (*RestPat) patNode()   {}

// PatType returns the annotation attached directly to a pattern, if any.
func PatType(p Pat) TsType {
	switch p := p.(type) {
	case *IdentPat:
		return p.Type
	case *ArrayPat:
		return p.Type
	case *ObjectPat:
		return p.Type
	case *RestPat:
		return p.Type
	case *AssignPat:
		return PatType(p.Left)
	}
	return nil
}

// BoundNames returns every name a pattern binds, in source order.
func BoundNames(p Pat) []string {
	var names []string
	var walk func(Pat)
	walk = func(p Pat) {
		switch p := p.(type) {
		case *IdentPat:
			names = append(names, p.Name)
		case *ArrayPat:
			for _, e := range p.Elems {
				if e != nil {
					walk(e)
				}
			}
		case *ObjectPat:
			for _, prop := range p.Props {
				walk(prop.Value)
			}
			if p.Rest != nil {
				walk(p.Rest)
			}
		case *AssignPat:
			walk(p.Left)
		case *RestPat:
			walk(p.Arg)
		}
	}
	walk(p)
	return names
}
