package ast

import "strings"

// Id is a Sail identifier: either a plain name or the "de-infixed" form of
// an operator name (e.g. the name bound for `+` when it is referenced as an
// ordinary function). Both compare by their string payload.
type Id struct {
	Name string
	Pos  Pos
}

func (i Id) String() string { return i.Name }

// Equal compares identifiers by payload only, ignoring position.
func (i Id) Equal(other Id) bool { return i.Name == other.Name }

const deinfixPrefix = "operator "

// DeInfix produces the de-infixed form of an operator identifier: Sail
// writes the infix operator `op` as the plain identifier `operator op` when
// it needs to be used as an ordinary function (e.g. passed to an overload
// table or taken as a cast). De-infixing is idempotent.
func DeInfix(op string) Id {
	if strings.HasPrefix(op, deinfixPrefix) {
		return Id{Name: op}
	}
	return Id{Name: deinfixPrefix + op}
}

// IsInfixForm reports whether an identifier is already in de-infixed form.
func (i Id) IsInfixForm() bool {
	return strings.HasPrefix(i.Name, deinfixPrefix)
}

// ReInfix recovers the bare operator spelling from a de-infixed identifier,
// or returns the identifier unchanged if it was not de-infixed.
func (i Id) ReInfix() string {
	if i.IsInfixForm() {
		return strings.TrimPrefix(i.Name, deinfixPrefix)
	}
	return i.Name
}
