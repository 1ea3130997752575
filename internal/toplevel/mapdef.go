package toplevel

import (
	"context"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/check"
	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/kind"
	"github.com/sail-lang/sailcheck/internal/typedast"
	"github.com/sail-lang/sailcheck/internal/types"
)

// isStringType reports whether t is the base string type, the trigger for
// synthesizing a mapping's prefix-matching companion.
func isStringType(t types.Typ) bool {
	id, ok := t.(types.TyId)
	return ok && id.Name == "string"
}

// prefixMatchResult builds the "option of the other side plus a prefix
// length" return type a _matches_prefix companion wraps: an existentially
// quantified natural-number length paired with a value of the other side.
func (s *Session) prefixMatchResult(other types.Typ) types.Typ {
	k := s.Root.FreshKid()
	nonneg := types.NCCompare{Op: types.CmpGe, Left: types.NVar{Name: k}, Right: types.Lit(0)}
	body := types.TyTuple{Elems: []types.Typ{other, types.AtomType(types.NVar{Name: k})}}
	existential := types.TyExist{Kids: []kind.KindedID{{Name: k, K: kind.Int}}, NC: nonneg, Body: body}
	return types.TyApp{Ctor: "option", Args: []types.TypeArg{types.ArgT(existential)}}
}

// companionScheme wraps a function type in the same quantifier/constraints
// as the mapping's own scheme: a companion is exercised with exactly the
// type variables and obligations the mapping itself carries.
func companionScheme(base types.TypeScheme, fn types.TyFunc) types.TypeScheme {
	return types.TypeScheme{Quantifier: base.Quantifier, Constraints: base.Constraints, Body: fn}
}

// registerMappingValSpec is invoked when a val spec's canonicalised body is
// a TyBidir: besides the ordinary val spec entry, it records the mapping
// itself and synthesizes the four always-present companion value
// specifications plus, when one side is string, the prefix-matching fifth.
func (s *Session) registerMappingValSpec(name string, canon types.TypeScheme) {
	bidir := canon.Body.(types.TyBidir)
	left, right := bidir.Left, bidir.Right

	fwd := name + "_forwards"
	bwd := name + "_backwards"
	fwdM := name + "_forwards_matches"
	bwdM := name + "_backwards_matches"
	prefix := ""

	s.Root.AddValSpec(fwd, env.ValSpec{Canonical: companionScheme(canon, types.TyFunc{Args: []types.Typ{left}, Return: right})})
	s.Root.AddValSpec(bwd, env.ValSpec{Canonical: companionScheme(canon, types.TyFunc{Args: []types.Typ{right}, Return: left})})
	s.Root.AddValSpec(fwdM, env.ValSpec{Canonical: companionScheme(canon, types.TyFunc{Args: []types.Typ{left}, Return: types.TyBool})})
	s.Root.AddValSpec(bwdM, env.ValSpec{Canonical: companionScheme(canon, types.TyFunc{Args: []types.Typ{right}, Return: types.TyBool})})

	if isStringType(left) || isStringType(right) {
		prefix = name + "_matches_prefix"
		other := right
		if isStringType(right) {
			other = left
		}
		s.Root.AddValSpec(prefix, env.ValSpec{Canonical: companionScheme(canon, types.TyFunc{Args: []types.Typ{types.TyString}, Return: s.prefixMatchResult(other)})})
	}

	s.Root.AddMapping(name, env.MappingInfo{
		Left: left, Right: right,
		Forwards: fwd, Backwards: bwd,
		ForwardsMatches: fwdM, BackwardsMatches: bwdM,
		MatchesPrefix: prefix,
	})
}

// checkMapDef checks every clause of a mapping definition. A bidirectional
// clause builds its left-hand bindings by inferring the LHS pattern
// against Left, and its right-hand bindings from the RHS pattern against
// Right, then checks each side again in the *other* side's resulting
// environment, so a variable bound only on one side is still in scope
// while validating the other. A forwards-only or backwards-only clause
// binds its source side first and then the other side in the resulting
// environment (see checkMapClause).
func (s *Session) checkMapDef(ctx context.Context, v *ast.MapDef) (typedast.Def, error) {
	if s.Root.IsDefined(v.Name.Name) {
		return typedast.Def{}, errAt(v.Pos, "mapping %s is already defined", v.Name.Name)
	}
	info, ok := s.Root.LookupMapping(v.Name.Name)
	if !ok {
		return typedast.Def{}, errAt(v.Pos, "mapping %s has no value specification", v.Name.Name)
	}

	eff := types.NoEffect()
	for _, clause := range v.Clauses {
		clauseEff, err := s.checkMapClause(ctx, v, clause, info)
		if err != nil {
			return typedast.Def{}, err
		}
		eff = eff.Union(clauseEff)
	}

	allowed := types.NewEffectSet(types.EffEscape)
	if !s.Root.Policy.NoEffects && !eff.SubsetOf(allowed) {
		return typedast.Def{}, errAt(v.Pos, "mapping %s has effects %s outside the {escape} a mapping clause may raise", v.Name.Name, eff)
	}

	if err := s.Root.MarkDefined(v.Name.Name); err != nil {
		return typedast.Def{}, errAt(v.Pos, "%v", err)
	}
	return typedast.Def{Source: v, Env: s.Root}, nil
}

// checkMapClause binds each side of the clause as a pattern against its
// declared type. For a forwards-only clause Right is the reparsed result
// pattern, checked in the environment the Left pattern bound (its
// variables, and the numeric constraints matching Left may have refined,
// are in scope for typing the derived result); a backwards-only clause is
// the mirror image. A bidirectional clause binds both sides independently
// and then re-checks each pattern in the other side's environment, so a
// name bound on only one side is still visible while validating the
// other, matching the spec's two-environments-cross-checked rule.
func (s *Session) checkMapClause(ctx context.Context, v *ast.MapDef, clause ast.MapClause, info env.MappingInfo) (types.EffectSet, error) {
	eff := types.NoEffect()

	switch clause.Kind {
	case ast.MapForwardsOnly:
		_, leftEnv, err := check.BindPattern(ctx, s.Root, clause.Left, info.Left)
		if err != nil {
			return eff, errAt(clause.Pos, "mapping %s: %v", v.Name.Name, err)
		}
		if _, _, err := check.BindPattern(ctx, leftEnv, clause.Right, info.Right); err != nil {
			return eff, errAt(clause.Pos, "mapping %s: %v", v.Name.Name, err)
		}
		return eff, nil

	case ast.MapBackwardsOnly:
		_, rightEnv, err := check.BindPattern(ctx, s.Root, clause.Right, info.Right)
		if err != nil {
			return eff, errAt(clause.Pos, "mapping %s: %v", v.Name.Name, err)
		}
		if _, _, err := check.BindPattern(ctx, rightEnv, clause.Left, info.Left); err != nil {
			return eff, errAt(clause.Pos, "mapping %s: %v", v.Name.Name, err)
		}
		return eff, nil

	default: // MapBidir
		_, leftEnv, err := check.BindPattern(ctx, s.Root, clause.Left, info.Left)
		if err != nil {
			return eff, errAt(clause.Pos, "mapping %s: %v", v.Name.Name, err)
		}
		_, rightEnv, err := check.BindPattern(ctx, s.Root, clause.Right, info.Right)
		if err != nil {
			return eff, errAt(clause.Pos, "mapping %s: %v", v.Name.Name, err)
		}
		if _, _, err := check.BindPattern(ctx, rightEnv, clause.Left, info.Left); err != nil {
			return eff, errAt(clause.Pos, "mapping %s left pattern checked against the right side's environment: %v", v.Name.Name, err)
		}
		if _, _, err := check.BindPattern(ctx, leftEnv, clause.Right, info.Right); err != nil {
			return eff, errAt(clause.Pos, "mapping %s right pattern checked against the left side's environment: %v", v.Name.Name, err)
		}
		return eff, nil
	}
}
