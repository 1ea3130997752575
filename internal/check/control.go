package check

import (
	"context"
	"fmt"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/subtype"
	"github.com/sail-lang/sailcheck/internal/typedast"
	"github.com/sail-lang/sailcheck/internal/types"
)

// branchEnvs checks cond as bool and builds the two branch-local
// environments, each extended with the witness extracted from cond (or
// its negation) when cond is expressible as a numeric comparison.
func branchEnvs(ctx context.Context, e *env.Environment, cond ast.Expr) (condRes Result, thenEnv, elseEnv *env.Environment, err error) {
	condRes, err = Check(ctx, e, cond, types.TyBool)
	if err != nil {
		return Result{}, nil, nil, err
	}
	thenEnv, elseEnv = condRes.Env, condRes.Env
	if nc, ok := exprAsConstraint(condRes.Node); ok {
		thenEnv = condRes.Env.AddConstraint(nc)
		elseEnv = condRes.Env.AddConstraint(types.Negate(nc))
	}
	return condRes, thenEnv, elseEnv, nil
}

// inferIf infers both branches independently and combines their types: if
// one side subtypes the other the wider type wins outright (no witness
// lost), otherwise — when both branches are numeric — the two are joined
// into a canonicalised existential rather than rejected, so `if c then 1
// else 2` infers `exists k, k in {1, 2}. atom(k)` instead of failing
// because atom(2) isn't a subtype of atom(1).
func inferIf(ctx context.Context, e *env.Environment, f *ast.If) (Result, error) {
	condRes, thenEnv, elseEnv, err := branchEnvs(ctx, e, f.Cond)
	if err != nil {
		return Result{}, err
	}
	thenRes, err := Infer(ctx, thenEnv, f.Then)
	if err != nil {
		return Result{}, err
	}
	elseRes, err := Infer(ctx, elseEnv, f.Else)
	if err != nil {
		return Result{}, err
	}

	resultType, err := joinBranchTypes(ctx, elseRes.Env, thenRes.Node.Ann.Type, elseRes.Node.Ann.Type)
	if err != nil {
		return Result{}, errAt(f.Pos, ErrSubtype, "%v", err)
	}

	eff := condRes.Effects.Union(thenRes.Effects).Union(elseRes.Effects)
	node := typedast.Expr{
		Source:   f,
		Ann:      typedast.Annotation{Env: elseRes.Env, Type: resultType, Effects: eff},
		Children: []typedast.Expr{condRes.Node, thenRes.Node, elseRes.Node},
	}
	return Result{Node: node, Env: elseRes.Env, Effects: eff}, nil
}

// joinBranchTypes combines two inferred branch types into one: an exact
// structural match or a subtype in either direction short-circuits to the
// wider side; two distinct numeric types join into an existential; anything
// else is a genuine mismatch.
func joinBranchTypes(ctx context.Context, e *env.Environment, t1, t2 types.Typ) (types.Typ, error) {
	if types.StructEquals(t1, t2) {
		return t1, nil
	}
	if err := subtype.Subtype(ctx, e, t1, t2); err == nil {
		return t2, nil
	}
	if err := subtype.Subtype(ctx, e, t2, t1); err == nil {
		return t1, nil
	}
	if types.IsNumericType(t1) && types.IsNumericType(t2) {
		joined := types.JoinNumeric(t1, t2, e.FreshKid)
		canon, err := types.Canonicalise(joined, e.FreshKid)
		if err != nil {
			return nil, err
		}
		return canon, nil
	}
	return nil, fmt.Errorf("branches have incompatible types %s and %s", t1.String(), t2.String())
}

func checkIf(ctx context.Context, e *env.Environment, f *ast.If, expected types.Typ) (Result, error) {
	condRes, thenEnv, elseEnv, err := branchEnvs(ctx, e, f.Cond)
	if err != nil {
		return Result{}, err
	}
	thenRes, err := Check(ctx, thenEnv, f.Then, expected)
	if err != nil {
		return Result{}, err
	}
	elseRes, err := Check(ctx, elseEnv, f.Else, expected)
	if err != nil {
		return Result{}, err
	}
	eff := condRes.Effects.Union(thenRes.Effects).Union(elseRes.Effects)
	node := typedast.Expr{
		Source:   f,
		Ann:      typedast.Annotation{Env: elseRes.Env, Type: expected, Effects: eff, Expected: expected},
		Children: []typedast.Expr{condRes.Node, thenRes.Node, elseRes.Node},
	}
	return Result{Node: node, Env: elseRes.Env, Effects: eff}, nil
}

// matchArmEnv checks one arm's pattern against the scrutinee type and folds
// in the optional guard, returning the pattern-extended environment the
// caller checks or infers the body in; the body itself is not touched here.
func matchArmEnv(ctx context.Context, e *env.Environment, arm ast.MatchArm, scrutTyp types.Typ) (*env.Environment, typedast.Pattern, error) {
	bindings, armEnv, err := bindPattern(ctx, e, arm.Pattern, scrutTyp)
	if err != nil {
		return nil, typedast.Pattern{}, err
	}
	if arm.Guard != nil {
		gr, err := Check(ctx, armEnv, arm.Guard, types.TyBool)
		if err != nil {
			return nil, typedast.Pattern{}, err
		}
		armEnv = gr.Env
	}
	return armEnv, typedast.Pattern{Source: arm.Pattern, Type: scrutTyp, Bindings: bindings}, nil
}

func inferMatch(ctx context.Context, e *env.Environment, m *ast.Match) (Result, error) {
	scrutRes, err := Infer(ctx, e, m.Scrutinee)
	if err != nil {
		return Result{}, err
	}
	if len(m.Arms) == 0 {
		return Result{}, errAt(m.Pos, ErrOther, "match with no arms has no type")
	}
	var resultType types.Typ
	eff := scrutRes.Effects
	children := []typedast.Expr{scrutRes.Node}
	var finalEnv *env.Environment = scrutRes.Env
	for i, arm := range m.Arms {
		armEnv, _, err := matchArmEnv(ctx, scrutRes.Env, arm, scrutRes.Node.Ann.Type)
		if err != nil {
			return Result{}, err
		}
		var bodyRes Result
		if i == 0 {
			bodyRes, err = Infer(ctx, armEnv, arm.Body)
			if err == nil {
				resultType = bodyRes.Node.Ann.Type
			}
		} else {
			bodyRes, err = Check(ctx, armEnv, arm.Body, resultType)
		}
		if err != nil {
			return Result{}, err
		}
		eff = eff.Union(bodyRes.Effects)
		children = append(children, bodyRes.Node)
		finalEnv = bodyRes.Env
	}
	node := typedast.Expr{Source: m, Ann: typedast.Annotation{Env: finalEnv, Type: resultType, Effects: eff}, Children: children}
	return Result{Node: node, Env: finalEnv, Effects: eff}, nil
}

func checkMatch(ctx context.Context, e *env.Environment, m *ast.Match, expected types.Typ) (Result, error) {
	scrutRes, err := Infer(ctx, e, m.Scrutinee)
	if err != nil {
		return Result{}, err
	}
	eff := scrutRes.Effects
	children := []typedast.Expr{scrutRes.Node}
	finalEnv := scrutRes.Env
	for _, arm := range m.Arms {
		armEnv, _, err := matchArmEnv(ctx, scrutRes.Env, arm, scrutRes.Node.Ann.Type)
		if err != nil {
			return Result{}, err
		}
		bodyRes, err := Check(ctx, armEnv, arm.Body, expected)
		if err != nil {
			return Result{}, err
		}
		eff = eff.Union(bodyRes.Effects)
		children = append(children, bodyRes.Node)
		finalEnv = bodyRes.Env
	}
	node := typedast.Expr{Source: m, Ann: typedast.Annotation{Env: finalEnv, Type: expected, Effects: eff, Expected: expected}, Children: children}
	return Result{Node: node, Env: finalEnv, Effects: eff}, nil
}
