package ast

import "github.com/sail-lang/sailcheck/internal/types"

// LExpr is the left-hand side of an assignment statement.
type LExpr interface {
	Node
	lexprNode()
}

// LId assigns a bare local or register identifier.
type LId struct {
	Name Id
	Pos  Pos
}

func (l *LId) Position() Pos { return l.Pos }
func (l *LId) lexprNode()    {}

// LCast re-ascribes the target's type before binding, e.g. `(x : bits(8)) = v`.
type LCast struct {
	Inner LExpr
	Type  types.Typ
	Pos   Pos
}

func (l *LCast) Position() Pos { return l.Pos }
func (l *LCast) lexprNode()    {}

// LTuple destructures an assignment across several targets at once.
type LTuple struct {
	Elems []LExpr
	Pos   Pos
}

func (l *LTuple) Position() Pos { return l.Pos }
func (l *LTuple) lexprNode()    {}

// LVectorIndex assigns a single element of a vector-typed target.
type LVectorIndex struct {
	Vector LExpr
	Index  Expr
	Pos    Pos
}

func (l *LVectorIndex) Position() Pos { return l.Pos }
func (l *LVectorIndex) lexprNode()    {}

// LVectorRange assigns a contiguous slice of a vector-typed target.
type LVectorRange struct {
	Vector     LExpr
	High, Low  Expr
	Pos        Pos
}

func (l *LVectorRange) Position() Pos { return l.Pos }
func (l *LVectorRange) lexprNode()    {}

// LField assigns a single field of a record-typed target.
type LField struct {
	Record LExpr
	Field  string
	Pos    Pos
}

func (l *LField) Position() Pos { return l.Pos }
func (l *LField) lexprNode()    {}

// LDeref assigns through a register reference, `*r = v`.
type LDeref struct {
	Reg Expr
	Pos Pos
}

func (l *LDeref) Position() Pos { return l.Pos }
func (l *LDeref) lexprNode()    {}
