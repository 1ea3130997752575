package types

import (
	"strings"

	"github.com/sail-lang/sailcheck/internal/kind"
)

// TypeScheme is a universal quantifier over kinded variables plus a list of
// N-constraints, paired with a monomorphic body.
type TypeScheme struct {
	Quantifier  []kind.KindedID
	Constraints []NConstraint
	Body        Typ
}

func (s *TypeScheme) String() string {
	if len(s.Quantifier) == 0 && len(s.Constraints) == 0 {
		return s.Body.String()
	}
	vars := make([]string, len(s.Quantifier))
	for i, q := range s.Quantifier {
		vars[i] = q.Name
	}
	cs := make([]string, len(s.Constraints))
	for i, c := range s.Constraints {
		cs[i] = c.String()
	}
	head := "forall " + strings.Join(vars, " ")
	if len(cs) > 0 {
		head += ", " + strings.Join(cs, " & ")
	}
	return head + ". " + s.Body.String()
}

// QuantItemKind distinguishes the two residual-quantifier shapes tracked
// during function-application instantiation.
type QuantItemKind int

const (
	// QIConst is a residual numeric constraint that must be discharged via
	// the oracle.
	QIConst QuantItemKind = iota
	// QIID is a quantified variable that must have been unified away by
	// the time instantiation finishes.
	QIID
)

// QuantItem is one element of the pending-quantifier list threaded through
// function-application instantiation.
type QuantItem struct {
	Kind QuantItemKind
	ID   kind.KindedID // valid when Kind == QIID
	NC   NConstraint   // valid when Kind == QIConst
}

func (q QuantItem) String() string {
	if q.Kind == QIID {
		return q.ID.Name
	}
	return q.NC.String()
}

// QuantItemsFromScheme turns a scheme's quantifier+constraints into the
// initial pending-quantifier list function-application instantiation
// consumes: one QIID per bound variable, one QIConst per declared
// constraint.
func QuantItemsFromScheme(s *TypeScheme) []QuantItem {
	items := make([]QuantItem, 0, len(s.Quantifier)+len(s.Constraints))
	for _, q := range s.Quantifier {
		items = append(items, QuantItem{Kind: QIID, ID: q})
	}
	for _, c := range s.Constraints {
		items = append(items, QuantItem{Kind: QIConst, NC: c})
	}
	return items
}
