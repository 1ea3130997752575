package ast

import "github.com/sail-lang/sailcheck/internal/types"

// Pattern is a Sail pattern, as produced by the parser. Patterns are typed
// bidirectionally against a scrutinee type, binding names into scope.
type Pattern interface {
	Node
	patternNode()
}

// Node is satisfied by every syntactic form the checker annotates.
type Node interface {
	Position() Pos
}

// PWild is the wildcard pattern `_`.
type PWild struct{ Pos Pos }

func (p *PWild) Position() Pos { return p.Pos }
func (p *PWild) patternNode()  {}

// PVar is a plain identifier pattern: binds a fresh name, or refers to a
// nullary union/enum constructor if one is in scope with that name.
type PVar struct {
	Name Id
	Pos  Pos
}

func (p *PVar) Position() Pos { return p.Pos }
func (p *PVar) patternNode()  {}

// PLit is a literal pattern (numeric, boolean, unit, bit/hex vector,
// string).
type PLit struct {
	Lit Literal
	Pos Pos
}

func (p *PLit) Position() Pos { return p.Pos }
func (p *PLit) patternNode()  {}

// PTuple is a tuple pattern.
type PTuple struct {
	Elems []Pattern
	Pos   Pos
}

func (p *PTuple) Position() Pos { return p.Pos }
func (p *PTuple) patternNode()  {}

// PCtor is a union-constructor pattern applied to a single argument pattern
// (multi-argument constructor syntax is re-parsed, before reaching the
// checker, as a single tuple argument — ).
type PCtor struct {
	Ctor Id
	Arg  Pattern // may be nil for a nullary constructor
	Pos  Pos
}

func (p *PCtor) Position() Pos { return p.Pos }
func (p *PCtor) patternNode()  {}

// PAs ascribes a type to a sub-pattern, e.g. `(n, v) as (atom('n),
// bit('n))`; it binds no name of its own.
type PAs struct {
	Inner Pattern
	Type  types.Typ
	Pos   Pos
}

func (p *PAs) Position() Pos { return p.Pos }
func (p *PAs) patternNode()  {}

// PMapping is a mapping applied as a pattern: `m(pat)`, tried forwards
// then backwards against the scrutinee type.
type PMapping struct {
	Mapping Id
	Arg     Pattern
	Pos     Pos
}

func (p *PMapping) Position() Pos { return p.Pos }
func (p *PMapping) patternNode()  {}

// PTypeAscribe is `pat : T`, guiding check-mode pattern binding.
type PTypeAscribe struct {
	Inner Pattern
	Type  types.Typ
	Pos   Pos
}

func (p *PTypeAscribe) Position() Pos { return p.Pos }
func (p *PTypeAscribe) patternNode()  {}
