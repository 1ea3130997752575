// Package unify implements structural unification of types and N-exps.
package unify

import (
	"fmt"

	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/types"
)

// Error reports a unification failure: two types (or N-exps) that cannot
// be made equal. Always a user-facing error, never a bug in the checker
// itself.
type Error struct {
	Left, Right fmt.Stringer
	Reason      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot unify %s with %s: %s", e.Left, e.Right, e.Reason)
}

func stringerErr(l, r fmt.Stringer, reason string) error {
	return &Error{Left: l, Right: r, Reason: reason}
}

// Unify computes the most general substitution making pat and actual
// structurally equal. pat is conventionally the pattern/expected side and
// actual the already-inferred side. Existentials are opened only where they
// appear on pat's side; an existential on actual's side facing a
// non-existential fails to unify.
func Unify(e *env.Environment, pat, actual types.Typ) (types.Subst, error) {
	pat = e.ExpandSynonyms(pat)
	actual = e.ExpandSynonyms(actual)
	return unify1(e, pat, actual)
}

func unify1(e *env.Environment, a, b types.Typ) (types.Subst, error) {
	switch av := a.(type) {
	case types.TyVar:
		return bindTyVar(av.Name, b)
	case types.TyUnknown:
		return types.Empty(), nil
	default:
	}
	if bv, ok := b.(types.TyVar); ok {
		return bindTyVar(bv.Name, a)
	}
	if _, ok := b.(types.TyUnknown); ok {
		return types.Empty(), nil
	}

	switch av := a.(type) {
	case types.TyId:
		bv, ok := b.(types.TyId)
		if !ok || av.Name != bv.Name {
			return types.Subst{}, stringerErr(a, b, "different base types")
		}
		return types.Empty(), nil

	case types.TyTuple:
		bv, ok := b.(types.TyTuple)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return types.Subst{}, stringerErr(a, b, "tuple shapes differ")
		}
		return unifyList(e, av.Elems, bv.Elems)

	case types.TyApp:
		bv, ok := b.(types.TyApp)
		if !ok || av.Ctor != bv.Ctor || len(av.Args) != len(bv.Args) {
			return types.Subst{}, stringerErr(a, b, "different type constructors")
		}
		subs := types.Empty()
		for i := range av.Args {
			s, err := unifyArg(e, av.Args[i], bv.Args[i])
			if err != nil {
				return types.Subst{}, err
			}
			subs = types.Compose(subs, s)
		}
		return subs, nil

	case types.TyFunc:
		bv, ok := b.(types.TyFunc)
		if !ok || len(av.Args) != len(bv.Args) {
			return types.Subst{}, stringerErr(a, b, "function arities differ")
		}
		subs, err := unifyList(e, av.Args, bv.Args)
		if err != nil {
			return types.Subst{}, err
		}
		rs, err := unify1(e, types.ApplyTy(subs, av.Return), types.ApplyTy(subs, bv.Return))
		if err != nil {
			return types.Subst{}, err
		}
		subs = types.Compose(subs, rs)
		if !av.Effects.Equals(bv.Effects) {
			return types.Subst{}, stringerErr(a, b, "effect sets differ")
		}
		return subs, nil

	case types.TyBidir:
		bv, ok := b.(types.TyBidir)
		if !ok {
			return types.Subst{}, stringerErr(a, b, "not a mapping type")
		}
		s1, err := unify1(e, av.Left, bv.Left)
		if err != nil {
			return types.Subst{}, err
		}
		s2, err := unify1(e, types.ApplyTy(s1, av.Right), types.ApplyTy(s1, bv.Right))
		if err != nil {
			return types.Subst{}, err
		}
		return types.Compose(s1, s2), nil

	case types.TyExist:
		// Opening: freshen a's binders and recurse on the body. The
		// freshened constraint is dropped here; only UnifyExist, below,
		// returns the constraints of existentials at the top of either side.
		_, ncA, bodyA := env.FreshenBind(e, av.Kids, av.NC, av.Body)
		_ = ncA
		return unify1(e, bodyA, b)

	default:
		return types.Subst{}, stringerErr(a, b, "unsupported type shape")
	}
}

// UnifyExist behaves like Unify but additionally returns the freshened
// numeric constraint of any existential opened on either side, so the
// caller (typically subtype.Subtype or check's argument-unification step)
// can add it to the environment rather than silently discharging it.
func UnifyExist(e *env.Environment, a, b types.Typ) (types.Subst, types.NConstraint, error) {
	a = e.ExpandSynonyms(a)
	b = e.ExpandSynonyms(b)
	nc := types.NConstraint(types.NCTrue{})
	if av, ok := a.(types.TyExist); ok {
		_, ncA, bodyA := env.FreshenBind(e, av.Kids, av.NC, av.Body)
		nc = types.And(nc, ncA)
		a = bodyA
	}
	if bv, ok := b.(types.TyExist); ok {
		_, ncB, bodyB := env.FreshenBind(e, bv.Kids, bv.NC, bv.Body)
		nc = types.And(nc, ncB)
		b = bodyB
	}
	s, err := unify1(e, a, b)
	return s, nc, err
}

func unifyList(e *env.Environment, as, bs []types.Typ) (types.Subst, error) {
	subs := types.Empty()
	for i := range as {
		a := types.ApplyTy(subs, as[i])
		b := types.ApplyTy(subs, bs[i])
		s, err := unify1(e, a, b)
		if err != nil {
			return types.Subst{}, err
		}
		subs = types.Compose(subs, s)
	}
	return subs, nil
}

func unifyArg(e *env.Environment, a, b types.TypeArg) (types.Subst, error) {
	switch {
	case a.T != nil && b.T != nil:
		return unify1(e, a.T, b.T)
	case a.N != nil && b.N != nil:
		return UnifyNExp(a.N, b.N)
	case a.O != nil && b.O != nil:
		return unifyOrder(a.O, b.O)
	default:
		return types.Subst{}, stringerErr(a, b, "type-constructor argument kinds differ")
	}
}

func bindTyVar(name string, t types.Typ) (types.Subst, error) {
	if tv, ok := t.(types.TyVar); ok && tv.Name == name {
		return types.Empty(), nil
	}
	if occursTy(name, t) {
		return types.Subst{}, &Error{Left: types.TyVar{Name: name}, Right: t, Reason: "occurs check failed"}
	}
	s := types.Empty()
	s.Ty[name] = t
	return s, nil
}

func occursTy(name string, t types.Typ) bool {
	fv := types.FreeVarsOf(t, nil)
	return fv.Ty[name]
}

func unifyOrder(a, b types.Order) (types.Subst, error) {
	if av, ok := a.(types.OVar); ok {
		s := types.Empty()
		s.Order[av.Name] = b
		return s, nil
	}
	if bv, ok := b.(types.OVar); ok {
		s := types.Empty()
		s.Order[bv.Name] = a
		return s, nil
	}
	ac, aok := a.(types.OConst)
	bc, bok := b.(types.OConst)
	if aok && bok && ac.Inc == bc.Inc {
		return types.Empty(), nil
	}
	return types.Subst{}, stringerErr(a, b, "conflicting bit orders")
}
