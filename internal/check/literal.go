package check

import (
	"context"
	"strings"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/subtype"
	"github.com/sail-lang/sailcheck/internal/typedast"
	"github.com/sail-lang/sailcheck/internal/types"
)

func leaf(e *env.Environment, src ast.Expr, t types.Typ) Result {
	return Result{
		Node:    typedast.Expr{Source: src, Ann: typedast.Annotation{Env: e, Type: t, Effects: types.NoEffect()}},
		Env:     e,
		Effects: types.NoEffect(),
	}
}

// inferLiteral gives every literal form its dedicated type: units/bools map
// to fixed types, L_num infers as the singleton atom(n), bit/hex string
// literals infer as a bitvector of their written length, and L_undef is
// only inferable in check mode.
func inferLiteral(e *env.Environment, lit *ast.Literal) (Result, error) {
	switch lit.Kind {
	case ast.LitUnit:
		return leaf(e, lit, types.TyUnit), nil
	case ast.LitBool:
		return leaf(e, lit, types.TyBool), nil
	case ast.LitNum:
		n, _ := lit.Value.(int64)
		return leaf(e, lit, types.AtomType(types.Lit(n))), nil
	case ast.LitBits:
		s, _ := lit.Value.(string)
		s = strings.TrimPrefix(s, "0b")
		order, _ := e.DefaultOrder()
		return leaf(e, lit, types.BitVectorType(types.Lit(int64(len(s))), order)), nil
	case ast.LitHex:
		s, _ := lit.Value.(string)
		s = strings.TrimPrefix(s, "0x")
		order, _ := e.DefaultOrder()
		return leaf(e, lit, types.BitVectorType(types.Lit(int64(len(s)*4)), order)), nil
	case ast.LitString:
		return leaf(e, lit, types.TyString), nil
	case ast.LitUndef:
		return Result{}, errAt(lit.Pos, ErrOther, "undefined literal has no principal type; it can only be checked against an expected type")
	}
	return Result{}, errAt(lit.Pos, ErrOther, "unknown literal kind")
}

// checkLiteral handles L_undef, the one literal form that is only
// inferable in check mode, and falls back to inferring everything else and
// subtyping the result against expected.
func checkLiteral(ctx context.Context, e *env.Environment, lit *ast.Literal, expected types.Typ) (Result, error) {
	if lit.Kind == ast.LitUndef {
		return Result{
			Node:    typedast.Expr{Source: lit, Ann: typedast.Annotation{Env: e, Type: expected, Effects: types.NewEffectSet(types.EffUndef), Expected: expected}},
			Env:     e,
			Effects: types.NewEffectSet(types.EffUndef),
		}, nil
	}
	res, err := inferLiteral(e, lit)
	if err != nil {
		return Result{}, err
	}
	if err := subtype.Subtype(ctx, e, res.Node.Ann.Type, expected); err != nil {
		return Result{}, errAt(lit.Pos, ErrSubtype, "%v", err)
	}
	res.Node.Ann.Expected = expected
	return res, nil
}

// inferVar looks up a local binding first (shadowing any same-named
// top-level value specification), then the environment's registered value
// specifications, instantiating a polymorphic scheme and discharging its
// declared constraints immediately.
func inferVar(e *env.Environment, v *ast.Var) (Result, error) {
	if b, ok := e.LookupLocal(v.Name.Name); ok {
		t := b.Scheme.Body
		if len(b.Scheme.Quantifier) > 0 || len(b.Scheme.Constraints) > 0 {
			inst, subs := instantiateScheme(e, b.Scheme)
			t = inst
			for _, c := range instantiatedConstraints(b.Scheme, subs) {
				if err := discharge(context.Background(), e, v.Pos, c); err != nil {
					return Result{}, err
				}
			}
		}
		return leaf(e, v, t), nil
	}
	if vs, ok := e.LookupValSpec(v.Name.Name); ok {
		inst, subs := instantiateScheme(e, vs.Canonical)
		for _, c := range instantiatedConstraints(vs.Canonical, subs) {
			if err := discharge(context.Background(), e, v.Pos, c); err != nil {
				return Result{}, err
			}
		}
		var eff types.EffectSet
		if fn, ok := inst.(types.TyFunc); ok {
			eff = fn.Effects
		} else {
			eff = types.NoEffect()
		}
		return Result{
			Node:    typedast.Expr{Source: v, Ann: typedast.Annotation{Env: e, Type: inst, Effects: eff}},
			Env:     e,
			Effects: eff,
		}, nil
	}
	if t, readEff, _, ok := e.LookupRegister(v.Name.Name); ok {
		return Result{
			Node:    typedast.Expr{Source: v, Ann: typedast.Annotation{Env: e, Type: t, Effects: types.NewEffectSet(readEff)}},
			Env:     e,
			Effects: types.NewEffectSet(readEff),
		}, nil
	}
	return Result{}, errAt(v.Pos, ErrOther, "unbound identifier %q", v.Name.Name)
}

func inferTuple(ctx context.Context, e *env.Environment, t *ast.Tuple) (Result, error) {
	elems := make([]typedast.Expr, len(t.Elems))
	types_ := make([]types.Typ, len(t.Elems))
	eff := types.NoEffect()
	cur := e
	for i, el := range t.Elems {
		r, err := Infer(ctx, cur, el)
		if err != nil {
			return Result{}, err
		}
		elems[i] = r.Node
		types_[i] = r.Node.Ann.Type
		eff = eff.Union(r.Effects)
		cur = r.Env
	}
	node := typedast.Expr{Source: t, Ann: typedast.Annotation{Env: cur, Type: types.TyTuple{Elems: types_}, Effects: eff}, Children: elems}
	return Result{Node: node, Env: cur, Effects: eff}, nil
}
