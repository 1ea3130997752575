// Package typedast defines the checker's annotated output: every syntactic
// node paired with the (environment, type, effect) triple it was checked
// or inferred at, plus the expected type it was checked against when
// relevant. This is spelled out separately from internal/ast because the
// checker never mutates its input — it builds a parallel annotated tree.
package typedast

import (
	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/types"
)

// Annotation is the (environment, type, effect) triple the checker attaches
// to every expression node, plus the expected type it was checked against
// (nil when the node was produced in infer mode).
type Annotation struct {
	Env      *env.Environment
	Type     types.Typ
	Effects  types.EffectSet
	Expected types.Typ
}

// Expr is an annotated expression: the original syntax node plus its
// Annotation and, for compound forms, the annotated children.
type Expr struct {
	Source   ast.Expr
	Ann      Annotation
	Children []Expr
}

// Pattern is an annotated pattern: the original syntax node, the type it
// was bound at, and the bindings it introduced (name -> type).
type Pattern struct {
	Source   ast.Pattern
	Type     types.Typ
	Bindings map[string]types.Typ
}

// LExpr is an annotated l-expression: the type the target location was
// bound (or re-bound) at.
type LExpr struct {
	Source ast.LExpr
	Type   types.Typ
}

// MappingClause is an annotated mapping clause: both the Left and Right
// annotated patterns, for a bidirectional clause, or just one populated
// side for a one-directional clause.
type MappingClause struct {
	Source      ast.MapClause
	Left, Right *Pattern
}

// Def is an annotated top-level definition: the original syntax node, the
// final environment it produced (nil if checking it failed), and any
// checked function/mapping clauses it contains.
type Def struct {
	Source  ast.Def
	Env     *env.Environment
	Clauses []Expr
}
