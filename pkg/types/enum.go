package types

import (
	"fmt"
	"strconv"
)

// EnumMember is one member of an enum with its resolved value. String
// members have IsString set.
type EnumMember struct {
	Name     string
	Num      float64
	Str      string
	IsString bool
}

// Enum represents an enum type (e.g., Color with members Red, Green, Blue).
// The enum name is both a type (any member) and a value (the member table).
type Enum struct {
	Name    string
	Members []*EnumMember
	Const   bool
}

func (e *Enum) String() string { return e.Name }
func (e *Enum) typeNode()      {}
func (e *Enum) Equals(other Type) bool {
	// Enums are nominal.
	return e == other
}

// Member looks up a member by name.
func (e *Enum) Member(name string) *EnumMember {
	for _, m := range e.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// IsNumeric reports whether every member has a numeric value.
func (e *Enum) IsNumeric() bool {
	for _, m := range e.Members {
		if m.IsString {
			return false
		}
	}
	return true
}

// EnumVariant represents a specific enum member type (e.g., Color.Red).
type EnumVariant struct {
	Enum *Enum
	Name string
}

func (v *EnumVariant) String() string {
	return fmt.Sprintf("%s.%s", v.Enum.Name, v.Name)
}
func (v *EnumVariant) typeNode() {}
func (v *EnumVariant) Equals(other Type) bool {
	o, ok := other.(*EnumVariant)
	return ok && v.Enum == o.Enum && v.Name == o.Name
}

// Value returns the literal type of the member's value.
func (v *EnumVariant) Value() Type {
	m := v.Enum.Member(v.Name)
	if m == nil {
		return Any
	}
	if m.IsString {
		return StrLit(m.Str)
	}
	return NumLit(m.Num)
}

func (m *EnumMember) String() string {
	if m.IsString {
		return m.Name + " = " + strconv.Quote(m.Str)
	}
	return m.Name + " = " + strconv.FormatFloat(m.Num, 'g', -1, 64)
}
