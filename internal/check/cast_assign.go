package check

import (
	"context"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/subtype"
	"github.com/sail-lang/sailcheck/internal/typedast"
	"github.com/sail-lang/sailcheck/internal/types"
)

// inferCast checks e.Expr in infer mode, then accepts it directly if it
// already subtypes e.Type, and otherwise falls back to coercion search —
// the same ordered cast-search tryCast uses for an implicit check-mode
// mismatch.
func inferCast(ctx context.Context, e *env.Environment, c *ast.Cast) (Result, error) {
	res, err := Infer(ctx, e, c.Expr)
	if err != nil {
		return Result{}, err
	}
	if err := subtype.Subtype(ctx, res.Env, res.Node.Ann.Type, c.Type); err == nil {
		res.Node.Ann.Expected = c.Type
		castNode := typedast.Expr{Source: c, Ann: typedast.Annotation{Env: res.Env, Type: c.Type, Effects: res.Effects}, Children: []typedast.Expr{res.Node}}
		return Result{Node: castNode, Env: res.Env, Effects: res.Effects}, nil
	}
	if casted, ok := tryCast(ctx, res.Env, res.Node, c.Type); ok {
		return casted, nil
	}
	return Result{}, errAt(c.Pos, ErrNoCasts, "no registered cast converts %s to %s", res.Node.Ann.Type, c.Type)
}

// resolveLExpr computes the type an l-expression's target location holds,
// the write effect assigning through it incurs, and — for a vector
// index/range target, unless the no_lexp_bounds_check policy flag is set —
// discharges the obligation that the index falls within the target
// vector's declared bounds)").
func resolveLExpr(ctx context.Context, e *env.Environment, l ast.LExpr) (types.Typ, types.Effect, *env.Environment, error) {
	switch v := l.(type) {
	case *ast.LId:
		if b, ok := e.LookupLocal(v.Name.Name); ok {
			return b.Scheme.Body, "", e, nil
		}
		if t, _, writeEff, ok := e.LookupRegister(v.Name.Name); ok {
			return t, writeEff, e, nil
		}
		return nil, "", nil, errAt(v.Pos, ErrOther, "unbound assignment target %q", v.Name.Name)

	case *ast.LField:
		baseTyp, eff, cur, err := resolveLExpr(ctx, e, v.Record)
		if err != nil {
			return nil, "", nil, err
		}
		entry, ok := cur.LookupField(v.Field)
		if !ok {
			return nil, "", nil, errAt(v.Pos, ErrOther, "unknown field %q", v.Field)
		}
		if err := subtype.Subtype(ctx, cur, baseTyp, types.TyId{Name: entry.Record}); err != nil {
			return nil, "", nil, errAt(v.Pos, ErrSubtype, "%v", err)
		}
		return entry.Type, eff, cur, nil

	case *ast.LVectorIndex:
		vecTyp, eff, cur, err := resolveLExpr(ctx, e, v.Vector)
		if err != nil {
			return nil, "", nil, err
		}
		app, ok := vecTyp.(types.TyApp)
		if !ok || app.Ctor != "vector" {
			return nil, "", nil, errAt(v.Pos, ErrOther, "indexed assignment target is not a vector")
		}
		idxRes, err := Check(ctx, cur, v.Index, types.TyInt)
		if err != nil {
			return nil, "", nil, err
		}
		cur = idxRes.Env
		if !cur.Policy.NoLExprBoundsCheck {
			if n, ok := nexpOfType(idxRes.Node.Ann.Type); ok {
				bounds := types.And(
					types.NCCompare{Op: types.CmpGe, Left: n, Right: types.Lit(0)},
					types.NCCompare{Op: types.CmpLe, Left: types.Add(n, types.Lit(1)), Right: app.Args[0].N},
				)
				if err := discharge(ctx, cur, v.Pos, bounds); err != nil {
					return nil, "", nil, err
				}
			}
		}
		return app.Args[2].T, eff, cur, nil

	case *ast.LVectorRange:
		vecTyp, eff, cur, err := resolveLExpr(ctx, e, v.Vector)
		if err != nil {
			return nil, "", nil, err
		}
		app, ok := vecTyp.(types.TyApp)
		if !ok || app.Ctor != "vector" {
			return nil, "", nil, errAt(v.Pos, ErrOther, "ranged assignment target is not a vector")
		}
		highRes, err := Check(ctx, cur, v.High, types.TyInt)
		if err != nil {
			return nil, "", nil, err
		}
		lowRes, err := Check(ctx, cur, v.Low, types.TyInt)
		if err != nil {
			return nil, "", nil, err
		}
		if !cur.Policy.NoLExprBoundsCheck {
			for _, r := range []Result{highRes, lowRes} {
				if n, ok := nexpOfType(r.Node.Ann.Type); ok {
					bounds := types.And(
						types.NCCompare{Op: types.CmpGe, Left: n, Right: types.Lit(0)},
						types.NCCompare{Op: types.CmpLe, Left: types.Add(n, types.Lit(1)), Right: app.Args[0].N},
					)
					if err := discharge(ctx, cur, v.Pos, bounds); err != nil {
						return nil, "", nil, err
					}
				}
			}
		}
		return vecTyp, eff, cur, nil

	case *ast.LTuple:
		cur := e
		var lastEff types.Effect
		for _, sub := range v.Elems {
			_, eff, next, err := resolveLExpr(ctx, cur, sub)
			if err != nil {
				return nil, "", nil, err
			}
			cur, lastEff = next, eff
		}
		return types.TyUnit, lastEff, cur, nil

	case *ast.LDeref:
		res, err := Infer(ctx, e, v.Reg)
		if err != nil {
			return nil, "", nil, err
		}
		return res.Node.Ann.Type, types.EffWreg, res.Env, nil

	case *ast.LCast:
		_, eff, cur, err := resolveLExpr(ctx, e, v.Inner)
		if err != nil {
			return nil, "", nil, err
		}
		return v.Type, eff, cur, nil

	default:
		return nil, "", nil, errAt(l.Position(), ErrOther, "unhandled l-expression form %T", l)
	}
}

// inferAssign checks value against the l-expression's target type and
// threads the write effect into the result.
func inferAssign(ctx context.Context, e *env.Environment, a *ast.Assign) (Result, error) {
	targetTyp, writeEff, cur, err := resolveLExpr(ctx, e, a.LExpr)
	if err != nil {
		return Result{}, err
	}
	valRes, err := Check(ctx, cur, a.Value, targetTyp)
	if err != nil {
		return Result{}, err
	}
	eff := valRes.Effects
	if writeEff != "" {
		eff = eff.Union(types.NewEffectSet(writeEff))
	}
	node := typedast.Expr{
		Source:   a,
		Ann:      typedast.Annotation{Env: valRes.Env, Type: types.TyUnit, Effects: eff},
		Children: []typedast.Expr{valRes.Node},
	}
	return Result{Node: node, Env: valRes.Env, Effects: eff}, nil
}

// inferSolve asks the oracle for a witness satisfying the given N-exp's
// implicit "exists a solution" obligation (the N-exp must have exactly one
// free variable, which is the one solved for); when a witness is found the expression's type
// pins down the exact value found, and when none is, the expression is
// given the unconstrained int type carrying the nondet effect rather than
// being rejected outright — the witness search is best-effort.
func inferSolve(ctx context.Context, e *env.Environment, s *ast.Solve) (Result, error) {
	free := types.FreeNumVars(s.NExp)
	if len(free) != 1 {
		return Result{}, errAt(s.Pos, ErrOther, "__solve requires exactly one free numeric variable, found %d", len(free))
	}
	var kid string
	for k := range free {
		kid = k
	}
	// The goal itself is trivially true: Solve conjoins facts with goal, so
	// passing a real constraint here (rather than leaving the search to the
	// environment's existing facts on kid) would force an unrelated equality
	// and reject every witness the facts already allow.
	n, ok, err := e.Oracle.Solve(ctx, e.Facts(), kid, types.NCTrue{})
	if err != nil {
		return Result{}, errAt(s.Pos, ErrOther, "oracle error: %v", err)
	}
	var typ types.Typ
	var eff types.EffectSet
	if ok {
		typ = types.AtomType(types.Lit(n))
		eff = types.NoEffect()
	} else {
		typ = types.TyInt
		eff = types.NewEffectSet(types.EffNondet)
	}
	node := typedast.Expr{Source: s, Ann: typedast.Annotation{Env: e, Type: typ, Effects: eff}}
	return Result{Node: node, Env: e, Effects: eff}, nil
}
