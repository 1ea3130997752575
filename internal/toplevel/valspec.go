package toplevel

import (
	"sort"
	"strings"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/kind"
	"github.com/sail-lang/sailcheck/internal/subtype"
	"github.com/sail-lang/sailcheck/internal/typedast"
	"github.com/sail-lang/sailcheck/internal/types"
)

// canonicalizeValSpecScheme expands synonyms in scheme's body when the
// expand_valspec policy flag asks for it, then canonicalises the body,
// folding any existential lifted out of an argument position into the
// scheme's own quantifier and constraint list.
func (s *Session) canonicalizeValSpecScheme(scheme types.TypeScheme) (types.TypeScheme, error) {
	body := scheme.Body
	if s.Root.Policy.ExpandValSpec {
		body = s.Root.ExpandSynonyms(body)
	}
	canonBody, extraKids, extraNC, err := types.CanonicaliseSchemeBody(body, s.Root.Naming.FreshKid)
	if err != nil {
		return types.TypeScheme{}, err
	}
	out := types.TypeScheme{
		Quantifier:  append(append([]kind.KindedID{}, scheme.Quantifier...), extraKids...),
		Constraints: append(append([]types.NConstraint{}, scheme.Constraints...), splitConstraint(extraNC)...),
		Body:        canonBody,
	}
	return out, nil
}

// splitConstraint flattens a conjunction into its conjuncts so a scheme's
// Constraints list stays one constraint per element rather than growing a
// single deeply-nested NCAnd tree; a trivial-true extra contributes
// nothing.
func splitConstraint(nc types.NConstraint) []types.NConstraint {
	if types.IsTrivialTrue(nc) {
		return nil
	}
	if and, ok := nc.(types.NCAnd); ok {
		return append(splitConstraint(and.Left), splitConstraint(and.Right)...)
	}
	return []types.NConstraint{nc}
}

func (s *Session) checkValSpecDef(v *ast.ValSpecDef) (typedast.Def, error) {
	canon, err := s.canonicalizeValSpecScheme(v.Scheme)
	if err != nil {
		return typedast.Def{}, errAt(v.Pos, "value specification %s: %v", v.Name.Name, err)
	}
	if existing, ok := s.Root.LookupValSpec(v.Name.Name); ok {
		if !schemesStructurallyEqual(existing.Canonical, canon) {
			return typedast.Def{}, errAt(v.Pos, "value specification %s redeclared with a different type", v.Name.Name)
		}
		return typedast.Def{Source: v, Env: s.Root}, nil
	}
	s.Root.AddValSpec(v.Name.Name, env.ValSpec{Original: v.Scheme, Canonical: canon})
	if _, ok := canon.Body.(types.TyBidir); ok {
		s.registerMappingValSpec(v.Name.Name, canon)
	}
	return typedast.Def{Source: v, Env: s.Root}, nil
}

// schemesStructurallyEqual compares two canonicalised schemes: quantifier
// lists must agree in length and kinds, the bodies must be alpha-equivalent
// (existential binders may differ in name, quantified variables may not),
// and the constraint sets, stringified and sorted, must match textually.
func schemesStructurallyEqual(a, b types.TypeScheme) bool {
	if len(a.Quantifier) != len(b.Quantifier) {
		return false
	}
	for i := range a.Quantifier {
		if a.Quantifier[i].K != b.Quantifier[i].K {
			return false
		}
	}
	if !subtype.TypEquality(a.Body, b.Body) {
		return false
	}
	return sortedConstraintStrings(a.Constraints) == sortedConstraintStrings(b.Constraints)
}

func sortedConstraintStrings(cs []types.NConstraint) string {
	strs := make([]string, len(cs))
	for i, c := range cs {
		strs[i] = c.String()
	}
	sort.Strings(strs)
	return strings.Join(strs, ";")
}
