package types

// --- Alias Types ---

// Alias represents a named type alias. Generic aliases keep their TypeParams
// and are instantiated by substitution at each reference.
type Alias struct {
	Name       string
	TypeParams []*Param
	Target     Type
}

func (a *Alias) String() string {
	return a.Name
}
func (a *Alias) typeNode() {}
func (a *Alias) Equals(other Type) bool {
	if a == nil || other == nil {
		return false
	}
	if o, ok := other.(*Alias); ok && a == o {
		return true
	}
	if a.Target == nil {
		return false
	}
	// An alias is equal to whatever it resolves to.
	return Normalize(a).Equals(Normalize(other))
}

// Instantiate substitutes type arguments into a generic alias's target.
func (a *Alias) Instantiate(args []Type) Type {
	if len(a.TypeParams) == 0 {
		return a
	}
	return Substitute(a.Target, BindParams(a.TypeParams, args))
}
