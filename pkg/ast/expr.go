package ast

// --- Literals ---

// Ident is an identifier reference.
type Ident struct {
	Base
	Name string
}

// StrLit is a string literal.
type StrLit struct {
	Base
	Value string
}

// NumLit is a numeric literal.
type NumLit struct {
	Base
	Value float64
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Base
	Value bool
}

// NullLit is `null`.
type NullLit struct {
	Base
}

// RegexLit is a regular expression literal.
type RegexLit struct {
	Base
	Pattern string
	Flags   string
}

// TemplateLit is a template literal; only the embedded expressions matter
// for typing.
type TemplateLit struct {
	Base
	Exprs []Expr
}

// --- Composite literals ---

// ExprOrSpread is one call argument or array element.
type ExprOrSpread struct {
	Spread bool
	Expr   Expr
}

// ArrayLit is an array literal. Holes are nil entries.
type ArrayLit struct {
	Base
	Elems []*ExprOrSpread
}

// Prop is an object literal member.
type Prop interface {
	Node
	propNode()
}

// KeyValueProp is `key: value`.
type KeyValueProp struct {
	Base
	Key   *PropName
	Value Expr
}

// ShorthandProp is `{ name }`.
type ShorthandProp struct {
	Base
	Name *Ident
}

// MethodProp is `{ m() {} }`, including getters and setters.
type MethodProp struct {
	Base
	Key  *PropName
	Fn   *Function
	Kind MethodKind
}

// SpreadProp is `{ ...expr }`.
type SpreadProp struct {
	Base
	Expr Expr
}

func (*KeyValueProp) propNode()  {}
func (*ShorthandProp) propNode() {}
func (*MethodProp) propNode()    {}
func (*SpreadProp) propNode()    {}

// ObjectLit is an object literal.
type ObjectLit struct {
	Base
	Props []Prop
}

// --- Functions and classes ---

// FnExpr is a function expression, optionally named.
type FnExpr struct {
	Base
	Ident *Ident
	Fn    *Function
}

// ArrowExpr is an arrow function. Exactly one of Body and ExprBody is set.
type ArrowExpr struct {
	Base
	TypeParams []*TypeParamDecl
	Params     []Pat
	ReturnType TsType
	Body       *BlockStmt
	ExprBody   Expr
	Async      bool
}

// ClassExpr is a class expression, optionally named.
type ClassExpr struct {
	Base
	Ident *Ident
	Class *Class
}

// --- Operators ---

// UnaryExpr is a prefix operator: `!`, `-`, `+`, `~`, `typeof`, `void`, `delete`.
type UnaryExpr struct {
	Base
	Op  string
	Arg Expr
}

// UpdateExpr is `++`/`--`.
type UpdateExpr struct {
	Base
	Op     string
	Prefix bool
	Arg    Expr
}

// BinExpr is a binary or logical operator.
type BinExpr struct {
	Base
	Op    string
	Left  Expr
	Right Expr
}

// AssignExpr is `=` or a compound assignment.
type AssignExpr struct {
	Base
	Op    string
	Left  Expr
	Right Expr
}

// CondExpr is `test ? cons : alt`.
type CondExpr struct {
	Base
	Test Expr
	Cons Expr
	Alt  Expr
}

// SeqExpr is a comma expression.
type SeqExpr struct {
	Base
	Exprs []Expr
}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	Base
	Expr Expr
}

// --- Access and invocation ---

// MemberExpr is `obj.prop` or `obj[prop]`. For non-computed access Prop is an *Ident.
type MemberExpr struct {
	Base
	Obj      Expr
	Prop     Expr
	Computed bool
}

// PropName returns the static property name of the access, if any.
func (m *MemberExpr) PropName() (string, bool) {
	switch p := m.Prop.(type) {
	case *Ident:
		if !m.Computed {
			return p.Name, true
		}
	case *StrLit:
		return p.Value, true
	}
	return "", false
}

// CallExpr is a call.
type CallExpr struct {
	Base
	Callee   Expr
	Args     []*ExprOrSpread
	TypeArgs []TsType
}

// NewExpr is a `new` expression.
type NewExpr struct {
	Base
	Callee   Expr
	Args     []*ExprOrSpread
	TypeArgs []TsType
}

// ThisExpr is `this`.
type ThisExpr struct {
	Base
}

// SuperExpr is `super` used as a callee or member object.
type SuperExpr struct {
	Base
}

// --- TypeScript expression forms ---

// AsExpr is `expr as T`.
type AsExpr struct {
	Base
	Expr Expr
	Type TsType
}

// NonNullExpr is `expr!`.
type NonNullExpr struct {
	Base
	Expr Expr
}

// AwaitExpr is `await expr`.
type AwaitExpr struct {
	Base
	Arg Expr
}

// InvalidExpr stands in for source the frontend could not parse.
type InvalidExpr struct {
	Base
}

func (*Ident) exprNode()       {}
func (*StrLit) exprNode()      {}
func (*NumLit) exprNode()      {}
func (*BoolLit) exprNode()     {}
func (*NullLit) exprNode()     {}
func (*RegexLit) exprNode()    {}
func (*TemplateLit) exprNode() {}
func (*ArrayLit) exprNode()    {}
func (*ObjectLit) exprNode()   {}
func (*FnExpr) exprNode()      {}
func (*ArrowExpr) exprNode()   {}
func (*ClassExpr) exprNode()   {}
func (*UnaryExpr) exprNode()   {}
func (*UpdateExpr) exprNode()  {}
func (*BinExpr) exprNode()     {}
func (*AssignExpr) exprNode()  {}
func (*CondExpr) exprNode()    {}
func (*SeqExpr) exprNode()     {}
func (*ParenExpr) exprNode()   {}
func (*MemberExpr) exprNode()  {}
func (*CallExpr) exprNode()    {}
func (*NewExpr) exprNode()     {}
func (*ThisExpr) exprNode()    {}
func (*SuperExpr) exprNode()   {}
func (*AsExpr) exprNode()      {}
func (*NonNullExpr) exprNode() {}
func (*AwaitExpr) exprNode()   {}
func (*InvalidExpr) exprNode() {}
