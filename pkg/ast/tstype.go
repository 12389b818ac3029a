package ast

// KeywordKind enumerates the keyword type annotations.
type KeywordKind int

const (
	KwAny KeywordKind = iota
	KwUnknown
	KwNumber
	KwString
	KwBoolean
	KwSymbol
	KwUndefined
	KwNull
	KwVoid
	KwNever
	KwObject
)

var keywordNames = map[string]KeywordKind{
	"any":       KwAny,
	"unknown":   KwUnknown,
	"number":    KwNumber,
	"string":    KwString,
	"boolean":   KwBoolean,
	"symbol":    KwSymbol,
	"undefined": KwUndefined,
	"null":      KwNull,
	"void":      KwVoid,
	"never":     KwNever,
	"object":    KwObject,
}

// LookupKeyword maps a predefined type name to its kind.
func LookupKeyword(name string) (KeywordKind, bool) {
	k, ok := keywordNames[name]
	return k, ok
}

// TsKeyword is a predefined type such as `number`.
type TsKeyword struct {
	Base
	Kind KeywordKind
}

// TsTypeRef is a (possibly qualified) type name with optional type arguments.
type TsTypeRef struct {
	Base
	Name     string
	TypeArgs []TsType
}

// TsUnion is `A | B`.
type TsUnion struct {
	Base
	Types []TsType
}

// TsArray is `T[]`.
type TsArray struct {
	Base
	Elem TsType
}

// TsTuple is `[A, B]`.
type TsTuple struct {
	Base
	Elems []TsType
}

// TsTypeLit is `{ ... }` in type position.
type TsTypeLit struct {
	Base
	Members []TsTypeElement
}

// TsFnType is `<T>(a: A) => R`.
type TsFnType struct {
	Base
	TypeParams []*TypeParamDecl
	Params     []Pat
	Return     TsType
}

// TsCtorType is `new (a: A) => R`.
type TsCtorType struct {
	Base
	TypeParams []*TypeParamDecl
	Params     []Pat
	Return     TsType
}

// TsTypeQuery is `typeof name`.
type TsTypeQuery struct {
	Base
	Name string
}

// TsLitType is a literal used as a type: `"a"`, `1`, `true`.
// Lit is a *StrLit, *NumLit or *BoolLit.
type TsLitType struct {
	Base
	Lit Expr
}

func (*TsKeyword) tsTypeNode()   {}
func (*TsTypeRef) tsTypeNode()   {}
func (*TsUnion) tsTypeNode()     {}
func (*TsArray) tsTypeNode()     {}
func (*TsTuple) tsTypeNode()     {}
func (*TsTypeLit) tsTypeNode()   {}
func (*TsFnType) tsTypeNode()    {}
func (*TsCtorType) tsTypeNode()  {}
func (*TsTypeQuery) tsTypeNode() {}
func (*TsLitType) tsTypeNode()   {}

// --- Type elements (interface and type literal members) ---

// TsTypeElement is a member of an interface body or type literal.
type TsTypeElement interface {
	Node
	typeElementNode()
}

// TsPropertySig is `key?: T`.
type TsPropertySig struct {
	Base
	Key      *PropName
	Type     TsType
	Optional bool
	Readonly bool
}

// TsMethodSig is `key<T>(a: A): R`.
type TsMethodSig struct {
	Base
	Key        *PropName
	TypeParams []*TypeParamDecl
	Params     []Pat
	Return     TsType
	Optional   bool
}

// TsCallSig is `<T>(a: A): R`.
type TsCallSig struct {
	Base
	TypeParams []*TypeParamDecl
	Params     []Pat
	Return     TsType
}

// TsConstructSig is `new <T>(a: A): R`.
type TsConstructSig struct {
	Base
	TypeParams []*TypeParamDecl
	Params     []Pat
	Return     TsType
}

func (*TsPropertySig) typeElementNode()  {}
func (*TsMethodSig) typeElementNode()    {}
func (*TsCallSig) typeElementNode()      {}
func (*TsConstructSig) typeElementNode() {}
