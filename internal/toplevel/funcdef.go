package toplevel

import (
	"context"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/check"
	"github.com/sail-lang/sailcheck/internal/typedast"
	"github.com/sail-lang/sailcheck/internal/types"
)

// funSignature locates the function's declared type: a prior val spec
// naming it, instantiated fresh for this definition, with its own
// obligations discharged against the environment once up front.
func (s *Session) funSignature(ctx context.Context, v *ast.FunDef) (types.TyFunc, error) {
	vs, ok := s.Root.LookupValSpec(v.Name.Name)
	if !ok {
		return types.TyFunc{}, errAt(v.Pos, "function %s has no value specification", v.Name.Name)
	}
	if _, isFn := vs.Canonical.Body.(types.TyFunc); !isFn {
		return types.TyFunc{}, errAt(v.Pos, "value specification for %s is not a function type", v.Name.Name)
	}
	inst, subs := check.InstantiateScheme(s.Root, vs.Canonical)
	fn := inst.(types.TyFunc)
	for _, nc := range check.InstantiatedConstraints(vs.Canonical, subs) {
		if err := check.Discharge(ctx, s.Root, v.Pos, nc); err != nil {
			return types.TyFunc{}, err
		}
	}
	return fn, nil
}

// checkFunDef checks every clause of v against the function's declared
// signature: binds the argument pattern (a tuple pattern when the
// signature takes more than one argument), checks the guard (if any)
// against bool, checks the body in check mode against the declared return
// type, and unions every clause's effects. The union must be a subset of
// the declared effect set unless effect checking is switched off, since a
// function's val spec is meant to be an upper bound on what any clause
// actually does.
func (s *Session) checkFunDef(ctx context.Context, v *ast.FunDef) (typedast.Def, error) {
	if s.Root.IsDefined(v.Name.Name) {
		return typedast.Def{}, errAt(v.Pos, "function %s is already defined", v.Name.Name)
	}
	sig, err := s.funSignature(ctx, v)
	if err != nil {
		return typedast.Def{}, err
	}

	argType := types.Typ(types.TyTuple{Elems: sig.Args})
	if len(sig.Args) == 1 {
		argType = sig.Args[0]
	}

	eff := types.NoEffect()
	clauseNodes := make([]typedast.Expr, 0, len(v.Clauses))
	for _, clause := range v.Clauses {
		_, clauseEnv, err := check.BindPattern(ctx, s.Root, clause.Pattern, argType)
		if err != nil {
			return typedast.Def{}, errAt(clause.Pos, "function %s: %v", v.Name.Name, err)
		}
		if clause.Guard != nil {
			guardRes, err := check.Check(ctx, clauseEnv, clause.Guard, types.TyBool)
			if err != nil {
				return typedast.Def{}, errAt(clause.Pos, "function %s guard: %v", v.Name.Name, err)
			}
			clauseEnv = guardRes.Env
			eff = eff.Union(guardRes.Effects)
		}
		bodyRes, err := check.Check(ctx, clauseEnv, clause.Body, sig.Return)
		if err != nil {
			return typedast.Def{}, errAt(clause.Pos, "function %s: %v", v.Name.Name, err)
		}
		eff = eff.Union(bodyRes.Effects)
		clauseNodes = append(clauseNodes, bodyRes.Node)
	}

	if !s.Root.Policy.NoEffects && !eff.SubsetOf(sig.Effects) {
		return typedast.Def{}, errAt(v.Pos, "function %s has effects %s not covered by its declared effect set %s", v.Name.Name, eff, sig.Effects)
	}

	if err := s.Root.MarkDefined(v.Name.Name); err != nil {
		return typedast.Def{}, errAt(v.Pos, "%v", err)
	}
	return typedast.Def{Source: v, Env: s.Root, Clauses: clauseNodes}, nil
}
