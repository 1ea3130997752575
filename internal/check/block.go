package check

import (
	"context"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/subtype"
	"github.com/sail-lang/sailcheck/internal/typedast"
	"github.com/sail-lang/sailcheck/internal/types"
)

// inferBlock checks every statement but the last against unit and infers
// the last, threading the environment forward so an assignment or assert
// earlier in the block is visible to later statements.
func inferBlock(ctx context.Context, e *env.Environment, b *ast.Block) (Result, error) {
	if len(b.Stmts) == 0 {
		return leaf(e, b, types.TyUnit), nil
	}
	cur := e
	children := make([]typedast.Expr, 0, len(b.Stmts))
	eff := types.NoEffect()
	for _, stmt := range b.Stmts[:len(b.Stmts)-1] {
		r, err := Check(ctx, cur, stmt, types.TyUnit)
		if err != nil {
			return Result{}, err
		}
		children = append(children, r.Node)
		eff = eff.Union(r.Effects)
		cur = r.Env
	}
	last := b.Stmts[len(b.Stmts)-1]
	r, err := Infer(ctx, cur, last)
	if err != nil {
		return Result{}, err
	}
	children = append(children, r.Node)
	eff = eff.Union(r.Effects)
	node := typedast.Expr{Source: b, Ann: typedast.Annotation{Env: r.Env, Type: r.Node.Ann.Type, Effects: eff}, Children: children}
	return Result{Node: node, Env: r.Env, Effects: eff}, nil
}

// checkBlock is inferBlock with the last statement checked against
// expected instead of inferred.
func checkBlock(ctx context.Context, e *env.Environment, b *ast.Block, expected types.Typ) (Result, error) {
	if len(b.Stmts) == 0 {
		if err := subtype.Subtype(ctx, e, types.TyUnit, expected); err != nil {
			return Result{}, errAt(b.Pos, ErrSubtype, "%v", err)
		}
		return leaf(e, b, expected), nil
	}
	cur := e
	children := make([]typedast.Expr, 0, len(b.Stmts))
	eff := types.NoEffect()
	for _, stmt := range b.Stmts[:len(b.Stmts)-1] {
		r, err := Check(ctx, cur, stmt, types.TyUnit)
		if err != nil {
			return Result{}, err
		}
		children = append(children, r.Node)
		eff = eff.Union(r.Effects)
		cur = r.Env
	}
	last := b.Stmts[len(b.Stmts)-1]
	r, err := Check(ctx, cur, last, expected)
	if err != nil {
		return Result{}, err
	}
	children = append(children, r.Node)
	eff = eff.Union(r.Effects)
	node := typedast.Expr{Source: b, Ann: typedast.Annotation{Env: r.Env, Type: expected, Effects: eff, Expected: expected}, Children: children}
	return Result{Node: node, Env: r.Env, Effects: eff}, nil
}

// inferAssert infers cond as bool, threads an optional message, and — when
// cond is expressible as a numeric comparison — extends the environment
// with the asserted proposition for the remainder of the enclosing block.
func inferAssert(ctx context.Context, e *env.Environment, a *ast.Assert) (Result, error) {
	condRes, err := Check(ctx, e, a.Cond, types.TyBool)
	if err != nil {
		return Result{}, err
	}
	cur := condRes.Env
	eff := condRes.Effects
	children := []typedast.Expr{condRes.Node}
	if a.Message != nil {
		msgRes, err := Check(ctx, cur, a.Message, types.TyString)
		if err != nil {
			return Result{}, err
		}
		cur = msgRes.Env
		eff = eff.Union(msgRes.Effects)
		children = append(children, msgRes.Node)
	}
	if nc, ok := exprAsConstraint(condRes.Node); ok {
		cur = cur.AddConstraint(nc)
	}
	eff = eff.Union(types.NewEffectSet(types.EffEscape))
	node := typedast.Expr{Source: a, Ann: typedast.Annotation{Env: cur, Type: types.TyUnit, Effects: eff}, Children: children}
	return Result{Node: node, Env: cur, Effects: eff}, nil
}
