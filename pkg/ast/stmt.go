package ast

// --- Plain statements ---

// BlockStmt is `{ ... }`.
type BlockStmt struct {
	Base
	Stmts []Stmt
}

// ExprStmt is an expression statement.
type ExprStmt struct {
	Base
	Expr Expr
}

// ReturnStmt is `return arg?`.
type ReturnStmt struct {
	Base
	Arg Expr
}

// IfStmt is `if (test) cons else alt`.
type IfStmt struct {
	Base
	Test Expr
	Cons Stmt
	Alt  Stmt
}

// ForStmt is a C-style for loop. Init is a *VarDecl, an Expr wrapped in
// *ExprStmt, or nil.
type ForStmt struct {
	Base
	Init   Stmt
	Test   Expr
	Update Expr
	Body   Stmt
}

// ForInOfStmt is `for (left in right)` or `for (left of right)`.
// Left is a *VarDecl without initializers or an *ExprStmt.
type ForInOfStmt struct {
	Base
	Of    bool
	Left  Stmt
	Right Expr
	Body  Stmt
}

// WhileStmt is `while (test) body`.
type WhileStmt struct {
	Base
	Test Expr
	Body Stmt
}

// DoWhileStmt is `do body while (test)`.
type DoWhileStmt struct {
	Base
	Body Stmt
	Test Expr
}

// ThrowStmt is `throw arg`.
type ThrowStmt struct {
	Base
	Arg Expr
}

// TryStmt is try/catch/finally. Param may be nil.
type TryStmt struct {
	Base
	Block     *BlockStmt
	Param     Pat
	Handler   *BlockStmt
	Finalizer *BlockStmt
}

// SwitchCase is one `case test:` (Test nil for `default:`).
type SwitchCase struct {
	Base
	Test Expr
	Cons []Stmt
}

// SwitchStmt is a switch statement.
type SwitchStmt struct {
	Base
	Disc  Expr
	Cases []*SwitchCase
}

// BreakStmt is `break label?`.
type BreakStmt struct {
	Base
	Label string
}

// ContinueStmt is `continue label?`.
type ContinueStmt struct {
	Base
	Label string
}

// LabeledStmt is `label: body`.
type LabeledStmt struct {
	Base
	Label string
	Body  Stmt
}

// EmptyStmt is `;`.
type EmptyStmt struct {
	Base
}

// --- Declarations ---

// VarKind is the declaration keyword.
type VarKind int

const (
	VarKindVar VarKind = iota
	VarKindLet
	VarKindConst
)

func (k VarKind) String() string {
	switch k {
	case VarKindLet:
		return "let"
	case VarKindConst:
		return "const"
	default:
		return "var"
	}
}

// VarDeclarator is one `name: T = init` entry.
type VarDeclarator struct {
	Base
	Name Pat
	Init Expr
}

// VarDecl is a var/let/const declaration.
type VarDecl struct {
	Base
	Kind    VarKind
	Decls   []*VarDeclarator
	Declare bool
}

// FnDecl is a function declaration.
type FnDecl struct {
	Base
	Ident   *Ident
	Fn      *Function
	Declare bool
}

// ClassDecl is a class declaration.
type ClassDecl struct {
	Base
	Ident *Ident
	Class *Class
}

// InterfaceDecl is an interface declaration.
type InterfaceDecl struct {
	Base
	Ident      *Ident
	TypeParams []*TypeParamDecl
	Extends    []*TsTypeRef
	Body       []TsTypeElement
}

// TypeAliasDecl is `type Name<T> = ...`.
type TypeAliasDecl struct {
	Base
	Ident      *Ident
	TypeParams []*TypeParamDecl
	Type       TsType
}

// EnumMember is one enum member with an optional initializer.
type EnumMember struct {
	Base
	Name string
	Init Expr
}

// EnumDecl is an enum declaration.
type EnumDecl struct {
	Base
	Ident   *Ident
	Members []*EnumMember
	Const   bool
}

// --- Modules ---

// ImportSpecKind distinguishes the import specifier forms.
type ImportSpecKind int

const (
	ImportNamed     ImportSpecKind = iota // import { a as b }
	ImportDefault                         // import a
	ImportNamespace                       // import * as ns
)

// ImportSpecifier is one binding introduced by an import declaration.
// Imported is empty when the local name is also the exported name.
type ImportSpecifier struct {
	Base
	Kind     ImportSpecKind
	Local    *Ident
	Imported string
}

// ImportDecl is `import ... from "src"`.
type ImportDecl struct {
	Base
	Specifiers []*ImportSpecifier
	Src        *StrLit
	TypeOnly   bool
}

// ExportDecl is `export <declaration>`.
type ExportDecl struct {
	Base
	Decl Stmt
}

// ExportSpecifier is `local as exported`.
type ExportSpecifier struct {
	Base
	Local    string
	Exported string
}

// ExportNamed is `export { a, b as c }`, optionally re-exporting from Src.
// A lone specifier with Local "*" is `export * as ns from "src"`.
type ExportNamed struct {
	Base
	Specifiers []*ExportSpecifier
	Src        *StrLit
}

// ExportDefault is `export default expr`. Default function and class
// declarations are represented as *FnExpr and *ClassExpr.
type ExportDefault struct {
	Base
	Expr Expr
}

// ExportAll is `export * from "src"`.
type ExportAll struct {
	Base
	Src *StrLit
}

func (*BlockStmt) stmtNode()     {}
func (*ExprStmt) stmtNode()      {}
func (*ReturnStmt) stmtNode()    {}
func (*IfStmt) stmtNode()        {}
func (*ForStmt) stmtNode()       {}
func (*ForInOfStmt) stmtNode()   {}
func (*WhileStmt) stmtNode()     {}
func (*DoWhileStmt) stmtNode()   {}
func (*ThrowStmt) stmtNode()     {}
func (*TryStmt) stmtNode()       {}
func (*SwitchStmt) stmtNode()    {}
func (*BreakStmt) stmtNode()     {}
func (*ContinueStmt) stmtNode()  {}
func (*LabeledStmt) stmtNode()   {}
func (*EmptyStmt) stmtNode()     {}
func (*VarDecl) stmtNode()       {}
func (*FnDecl) stmtNode()        {}
func (*ClassDecl) stmtNode()     {}
func (*InterfaceDecl) stmtNode() {}
func (*TypeAliasDecl) stmtNode() {}
func (*EnumDecl) stmtNode()      {}
func (*ImportDecl) stmtNode()    {}
func (*ExportDecl) stmtNode()    {}
func (*ExportNamed) stmtNode()   {}
func (*ExportDefault) stmtNode() {}
func (*ExportAll) stmtNode()     {}
