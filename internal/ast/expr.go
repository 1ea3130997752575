package ast

import "github.com/sail-lang/sailcheck/internal/types"

// Expr is a Sail expression, as produced by the parser.
type Expr interface {
	Node
	exprNode()
}

// LitKind enumerates the literal forms the checker gives dedicated rules for.
type LitKind int

const (
	LitUnit LitKind = iota
	LitBool
	LitNum     // L_num n
	LitBits    // 0b... binary vector literal
	LitHex     // 0x... hex vector literal
	LitString
	LitUndef // L_undef
)

// Literal is a literal expression (and, reused verbatim, a literal
// pattern).
type Literal struct {
	Kind  LitKind
	Value interface{} // int64 for LitNum, bool for LitBool, string for LitBits/LitHex/LitString
	Pos   Pos
}

func (l *Literal) Position() Pos { return l.Pos }
func (l *Literal) exprNode()     {}
func (l *Literal) patternNode()  {}

// Var is a reference to a local, register, or top-level value.
type Var struct {
	Name Id
	Pos  Pos
}

func (v *Var) Position() Pos { return v.Pos }
func (v *Var) exprNode()     {}

// Block is a sequence of expressions; all but the last are checked at unit,
// the last against the block's target type. Assignments and asserts inside
// a block thread the environment forward to later statements.
type Block struct {
	Stmts []Expr
	Pos   Pos
}

func (b *Block) Position() Pos { return b.Pos }
func (b *Block) exprNode()     {}

// Assert is `assert(cond)` (optionally with a message); when cond is a pure
// constraint expression its proposition is added to the environment for the
// remainder of the enclosing block.
type Assert struct {
	Cond    Expr
	Message Expr // optional, may be nil
	Pos     Pos
}

func (a *Assert) Position() Pos { return a.Pos }
func (a *Assert) exprNode()     {}

// If is a conditional.
type If struct {
	Cond, Then, Else Expr
	Pos              Pos
}

func (i *If) Position() Pos { return i.Pos }
func (i *If) exprNode()     {}

// MatchArm is one clause of a Match.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // optional
	Body    Expr
}

// Match is pattern matching over an inferred scrutinee.
type Match struct {
	Scrutinee Expr
	Arms      []MatchArm
	Pos       Pos
}

func (m *Match) Position() Pos { return m.Pos }
func (m *Match) exprNode()     {}

// Let is `let pat [: T] = value in body` (or, at the block level, `let pat
// = value;` followed by the remaining statements as Body).
type Let struct {
	Pattern Pattern
	Ascribe types.Typ // optional type ascription on Pattern
	Value   Expr
	Body    Expr
	Pos     Pos
}

func (l *Let) Position() Pos { return l.Pos }
func (l *Let) exprNode()     {}

// App is function, union-constructor, or mapping application.
type App struct {
	Func Expr
	Args []Expr
	Pos  Pos
}

func (a *App) Position() Pos { return a.Pos }
func (a *App) exprNode()     {}

// Tuple is a tuple expression.
type Tuple struct {
	Elems []Expr
	Pos   Pos
}

func (t *Tuple) Position() Pos { return t.Pos }
func (t *Tuple) exprNode()     {}

// VectorLit is a vector literal; each element is checked against the
// target's element type, and the target's length is verified against the
// literal's length.
type VectorLit struct {
	Elems []Expr
	Pos   Pos
}

func (v *VectorLit) Position() Pos { return v.Pos }
func (v *VectorLit) exprNode()     {}

// RecordUpdate is `{ base with field1 = e1, field2 = e2 }`. The type
// determines the record identifier; each field expression is checked
// against the field's type exactly as declared. No substitution from the
// record's parameters to the observed instance is applied.
type RecordUpdate struct {
	Base   Expr // optional, nil for record construction from scratch
	Record Id   // the record type's identifier, when known from an ascription
	Fields map[string]Expr
	Pos    Pos
}

func (r *RecordUpdate) Position() Pos { return r.Pos }
func (r *RecordUpdate) exprNode()     {}

// FieldAccess is `e.field`.
type FieldAccess struct {
	Record Expr
	Field  string
	Pos    Pos
}

func (f *FieldAccess) Position() Pos { return f.Pos }
func (f *FieldAccess) exprNode()     {}

// Cast is an explicit ascription `e : T` that may trigger coercion search.
type Cast struct {
	Expr Expr
	Type types.Typ
	Pos  Pos
}

func (c *Cast) Position() Pos { return c.Pos }
func (c *Cast) exprNode()     {}

// Assign is an l-expression assignment `lexpr = e` used as a statement
// inside a block.
type Assign struct {
	LExpr LExpr
	Value Expr
	Pos   Pos
}

func (a *Assign) Position() Pos { return a.Pos }
func (a *Assign) exprNode()     {}

// Solve is the user-written `__solve(e)` assertion that asks the oracle's
// companion solve operation for a witness integer.
type Solve struct {
	NExp types.NExp
	Pos  Pos
}

func (s *Solve) Position() Pos { return s.Pos }
func (s *Solve) exprNode()     {}
