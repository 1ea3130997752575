package check

import (
	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/kind"
	"github.com/sail-lang/sailcheck/internal/types"
)

// InstantiateScheme is instantiateScheme exported for callers outside this
// package that need to instantiate a declared scheme directly — a
// function or mapping definition checking its own clauses against its val
// spec, rather than an application site.
func InstantiateScheme(e *env.Environment, scheme types.TypeScheme) (types.Typ, types.Subst) {
	return instantiateScheme(e, scheme)
}

// InstantiatedConstraints is instantiatedConstraints exported likewise.
func InstantiatedConstraints(scheme types.TypeScheme, subs types.Subst) []types.NConstraint {
	return instantiatedConstraints(scheme, subs)
}

// instantiateScheme freshens every quantified variable in scheme with a
// fresh name, returning the instantiated body and the substitution used
// (the caller is responsible for discharging scheme.Constraints, rewritten
// through the same substitution, against the oracle).
func instantiateScheme(e *env.Environment, scheme types.TypeScheme) (types.Typ, types.Subst) {
	subs := types.Empty()
	for _, q := range scheme.Quantifier {
		fresh := e.FreshKid()
		switch q.K {
		case kind.Int:
			subs.Num[q.Name] = types.NVar{Name: fresh}
		case kind.Type:
			subs.Ty[q.Name] = types.TyVar{Name: fresh}
		case kind.Order:
			subs.Order[q.Name] = types.OVar{Name: fresh}
		}
	}
	return types.ApplyTy(subs, scheme.Body), subs
}

// instantiatedConstraints rewrites scheme's declared constraints through
// subs, the shape the application rule's final constraint-resolution step
// consumes.
func instantiatedConstraints(scheme types.TypeScheme, subs types.Subst) []types.NConstraint {
	out := make([]types.NConstraint, len(scheme.Constraints))
	for i, c := range scheme.Constraints {
		out[i] = types.ApplyNumSubstC(subs, c)
	}
	return out
}
