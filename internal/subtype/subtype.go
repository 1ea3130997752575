// Package subtype implements the five-step subtyping procedure.
package subtype

import (
	"context"
	"fmt"

	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/oracle"
	"github.com/sail-lang/sailcheck/internal/types"
	"github.com/sail-lang/sailcheck/internal/unify"
)

// Error reports a subtyping failure.
type Error struct {
	Sub, Super types.Typ
	Reason     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s is not a subtype of %s: %s", e.Sub, e.Super, e.Reason)
}

// Subtype decides whether t1 <: t2, following, in order: pointwise tuple
// subtyping; numeric-type destructuring dispatched to the oracle when both
// sides are numeric; an alpha-equivalence shortcut; opening t1 when it is
// an existential and recursing with its constraint added to scope;
// otherwise canonicalising both sides, unifying, and dispatching any
// residual numeric obligation to the oracle.
func Subtype(ctx context.Context, e *env.Environment, t1, t2 types.Typ) error {
	t1 = e.ExpandSynonyms(t1)
	t2 = e.ExpandSynonyms(t2)

	if v1, ok := t1.(types.TyTuple); ok {
		if v2, ok := t2.(types.TyTuple); ok {
			if len(v1.Elems) != len(v2.Elems) {
				return &Error{Sub: t1, Super: t2, Reason: "tuple arities differ"}
			}
			for i := range v1.Elems {
				if err := Subtype(ctx, e, v1.Elems[i], v2.Elems[i]); err != nil {
					return err
				}
			}
			return nil
		}
	}

	if types.IsNumericType(t1) && types.IsNumericType(t2) {
		return subtypeNumeric(ctx, e, t1, t2)
	}

	if types.AlphaEquals(t1, t2) {
		return nil
	}

	if v1, ok := t1.(types.TyExist); ok {
		sub, nc, body := env.FreshenBind(e, v1.Kids, v1.NC, v1.Body)
		_ = sub
		opened := e.AddConstraint(nc)
		return Subtype(ctx, opened, body, t2)
	}

	c1, err := types.Canonicalise(t1, e.FreshKid)
	if err != nil {
		return &Error{Sub: t1, Super: t2, Reason: err.Error()}
	}
	c2, err := types.Canonicalise(t2, e.FreshKid)
	if err != nil {
		return &Error{Sub: t1, Super: t2, Reason: err.Error()}
	}
	subs, existNC, err := unify.UnifyExist(e, c1, c2)
	if err != nil {
		return &Error{Sub: t1, Super: t2, Reason: err.Error()}
	}
	_ = subs
	if types.IsTrivialTrue(existNC) {
		return nil
	}
	verdict, err := e.Oracle.Prove(ctx, e.Facts(), existNC)
	if err != nil {
		return &Error{Sub: t1, Super: t2, Reason: err.Error()}
	}
	if verdict != oracle.Proved {
		return &Error{Sub: t1, Super: t2, Reason: "residual constraint " + existNC.String() + " not provable"}
	}
	return nil
}

// subtypeNumeric destructures both sides via DestructureNumeric — which
// mints fresh kid names rather than reusing a type's own literal bound
// variable, so two independently-scoped existentials that happen to share
// a source name (both called 'n, as real Sail source commonly does) never
// have their kids conflated in the oracle query. Step 2 of the numeric
// subtyping procedure adds t1's destructured kids and constraint to the
// environment; the obligation t1's witness value must satisfy is then
// t2's own constraint with its bound kid replaced by that witness value
// directly — the substitution a type's existential quantifier describes,
// not a fresh equality needing its own existential.
func subtypeNumeric(ctx context.Context, e *env.Environment, t1, t2 types.Typ) error {
	_, nc1, nexp1 := types.DestructureNumeric(t1, e.FreshKid)
	kids2, nc2, nexp2 := types.DestructureNumeric(t2, e.FreshKid)

	env2 := e
	if !types.IsTrivialTrue(nc1) {
		env2 = e.AddConstraint(nc1)
	}

	subs := types.Empty()
	for _, k := range kids2 {
		subs.Num[k] = nexp1
	}
	obligation := types.ApplyNumSubstC(subs, nc2)
	if len(kids2) == 0 {
		// t2 carries no bound kid of its own (e.g. another atom): the
		// obligation is value equality rather than membership.
		obligation = types.And(obligation, types.NCCompare{Op: types.CmpEq, Left: nexp1, Right: nexp2})
	}

	verdict, err := env2.Oracle.Prove(ctx, env2.Facts(), obligation)
	if err != nil {
		return &Error{Sub: t1, Super: t2, Reason: err.Error()}
	}
	if verdict != oracle.Proved {
		return &Error{Sub: t1, Super: t2, Reason: "not every value of " + t1.String() + " satisfies " + t2.String()}
	}
	return nil
}

// TypEquality decides type equality the way the checker's Typ_bidir rule
// does: structurally equal up to alpha-renaming of existential binders.
func TypEquality(a, b types.Typ) bool {
	return types.AlphaEquals(a, b)
}
