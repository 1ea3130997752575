// Package check implements the bidirectional type checker. Check and Infer
// are mutually recursive, covering literals, blocks, conditionals, matches,
// lets, application (function/constructor/mapping), record update, vector
// literals, casts, and l-expression assignment.
package check

import (
	"context"
	"fmt"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/oracle"
	"github.com/sail-lang/sailcheck/internal/subtype"
	"github.com/sail-lang/sailcheck/internal/typedast"
	"github.com/sail-lang/sailcheck/internal/types"
	"github.com/sail-lang/sailcheck/internal/unify"
)

// Error is a checking failure tagged with the node's source position and
// a kind that diagnostic rendering dispatches on.
type Error struct {
	Pos     ast.Pos
	Kind    ErrKind
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Message) }

// ErrKind classifies a checking failure for diagnostic rendering:
// Subtype, No_casts, No_overloading, Unresolved_quants, No_num_ident, Other.
type ErrKind int

const (
	ErrSubtype ErrKind = iota
	ErrNoCasts
	ErrNoOverloading
	ErrUnresolvedQuants
	ErrNoNumIdent
	ErrOther
)

func errAt(pos ast.Pos, kind ErrKind, format string, args ...interface{}) error {
	return &Error{Pos: pos, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Result bundles what every Check/Infer call produces: the annotated node,
// the (possibly extended) environment flowing into subsequent statements,
// and the node's effect set.
type Result struct {
	Node    typedast.Expr
	Env     *env.Environment
	Effects types.EffectSet
}

// Check verifies e against expected, in check mode. Most forms fall
// through to inferring e and then subtyping the inferred type against
// expected; literals,
// blocks, conditionals, matches, lets, vector literals and record updates have dedicated rules
// tried first because they need the expected type to guide elaboration
// (the undef literal, a bare vector literal's length, a conditional's
// witness extraction).
func Check(ctx context.Context, e *env.Environment, expr ast.Expr, expected types.Typ) (Result, error) {
	expected = e.ExpandSynonyms(expected)

	switch v := expr.(type) {
	case *ast.Literal:
		return checkLiteral(ctx, e, v, expected)
	case *ast.Block:
		return checkBlock(ctx, e, v, expected)
	case *ast.If:
		return checkIf(ctx, e, v, expected)
	case *ast.Match:
		return checkMatch(ctx, e, v, expected)
	case *ast.Let:
		return checkLet(ctx, e, v, expected)
	case *ast.VectorLit:
		return checkVectorLit(ctx, e, v, expected)
	case *ast.RecordUpdate:
		return checkRecordUpdate(ctx, e, v, expected)
	}

	res, err := Infer(ctx, e, expr)
	if err != nil {
		return Result{}, err
	}
	if err := subtype.Subtype(ctx, res.Env, res.Node.Ann.Type, expected); err != nil {
		if casted, ok := tryCast(ctx, res.Env, res.Node, expected); ok {
			return casted, nil
		}
		return Result{}, errAt(expr.Position(), ErrSubtype, "%v", err)
	}
	res.Node.Ann.Expected = expected
	return res, nil
}

// Infer computes e's type and effects without a target, the mode every
// "Selected rule" not named above uses directly: identifiers, tuples,
// application, field access, assertions, explicit casts, assignments and
// the solve-witness form.
func Infer(ctx context.Context, e *env.Environment, expr ast.Expr) (Result, error) {
	switch v := expr.(type) {
	case *ast.Literal:
		return inferLiteral(e, v)
	case *ast.Var:
		return inferVar(e, v)
	case *ast.Block:
		return inferBlock(ctx, e, v)
	case *ast.Assert:
		return inferAssert(ctx, e, v)
	case *ast.If:
		return inferIf(ctx, e, v)
	case *ast.Match:
		return inferMatch(ctx, e, v)
	case *ast.Let:
		return inferLet(ctx, e, v)
	case *ast.Tuple:
		return inferTuple(ctx, e, v)
	case *ast.App:
		return inferApp(ctx, e, v)
	case *ast.VectorLit:
		return inferVectorLit(ctx, e, v)
	case *ast.RecordUpdate:
		return inferRecordUpdate(ctx, e, v)
	case *ast.FieldAccess:
		return inferFieldAccess(ctx, e, v)
	case *ast.Cast:
		return inferCast(ctx, e, v)
	case *ast.Assign:
		return inferAssign(ctx, e, v)
	case *ast.Solve:
		return inferSolve(ctx, e, v)
	default:
		return Result{}, errAt(expr.Position(), ErrOther, "unhandled expression form %T", expr)
	}
}

// tryCast attempts the checker's coercion search: each registered cast
// is a unary function; a cast succeeds when its argument type accepts
// node's inferred type and its return type subtypes expected. Casts are
// tried in declaration order and the first success wins, matching the
// environment's ordered-list semantics.
func tryCast(ctx context.Context, e *env.Environment, node typedast.Expr, expected types.Typ) (Result, bool) {
	for _, name := range e.Casts() {
		vs, ok := e.LookupValSpec(name.Name)
		if !ok {
			continue
		}
		fn, ok := vs.Canonical.Body.(types.TyFunc)
		if !ok || len(fn.Args) != 1 {
			continue
		}
		inst, subs := instantiateScheme(e, vs.Canonical)
		fnInst := inst.(types.TyFunc)
		_ = subs
		if _, _, err := unify.UnifyExist(e, fnInst.Args[0], node.Ann.Type); err != nil {
			continue
		}
		if err := subtype.Subtype(ctx, e, fnInst.Return, expected); err != nil {
			continue
		}
		castNode := typedast.Expr{
			Source:   node.Source,
			Ann:      typedast.Annotation{Env: e, Type: expected, Effects: node.Ann.Effects},
			Children: []typedast.Expr{node},
		}
		return Result{Node: castNode, Env: e, Effects: node.Ann.Effects}, true
	}
	return Result{}, false
}

// Discharge is discharge exported for callers outside this package that
// need to discharge an instantiated scheme's constraints directly — a
// function or mapping definition's own val spec obligations.
func Discharge(ctx context.Context, e *env.Environment, pos ast.Pos, nc types.NConstraint) error {
	return discharge(ctx, e, pos, nc)
}

// discharge asks the oracle to prove nc under e's current assumptions. A
// constraint is discharged iff the oracle returns Proved; both Disproved
// and Unknown fail checking, since an obligation the decision procedure
// can't resolve has not been shown to hold.
func discharge(ctx context.Context, e *env.Environment, pos ast.Pos, nc types.NConstraint) error {
	if types.IsTrivialTrue(nc) {
		return nil
	}
	verdict, err := e.Oracle.Prove(ctx, e.Facts(), nc)
	if err != nil {
		return errAt(pos, ErrOther, "oracle error: %v", err)
	}
	if verdict != oracle.Proved {
		return errAt(pos, ErrSubtype, "could not prove numeric obligation %s", nc.String())
	}
	return nil
}
