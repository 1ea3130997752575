package ast

import (
	"github.com/sail-lang/sailcheck/internal/kind"
	"github.com/sail-lang/sailcheck/internal/types"
)

// Def is a top-level definition in a definition stream. The checker
// processes a stream of Defs, threading the accumulated environment from
// one to the next.
type Def interface {
	Node
	defNode()
}

// KindDef declares a kind-level identifier (a bare numeric or order
// variable usable across subsequent definitions).
type KindDef struct {
	Name kind.KindedID
	Pos  Pos
}

func (d *KindDef) Position() Pos { return d.Pos }
func (d *KindDef) defNode()      {}

// TypeSynonymDef is `type id(params) = T`. Checking it registers a type
// synonym only; no constraint synonym is derived from it.
type TypeSynonymDef struct {
	Name   Id
	Params []kind.KindedID
	Body   types.Typ
	Pos    Pos
}

func (d *TypeSynonymDef) Position() Pos { return d.Pos }
func (d *TypeSynonymDef) defNode()      {}

// RecordField is one field of a record declaration.
type RecordField struct {
	Name string
	Type types.Typ
}

// RecordDef declares a record type and its fields.
type RecordDef struct {
	Name   Id
	Params []kind.KindedID
	Fields []RecordField
	Pos    Pos
}

func (d *RecordDef) Position() Pos { return d.Pos }
func (d *RecordDef) defNode()      {}

// VariantCtor is one constructor of a union/variant declaration.
type VariantCtor struct {
	Name Id
	Arg  types.Typ // nil for a nullary constructor
}

// VariantDef declares a tagged union type.
type VariantDef struct {
	Name   Id
	Params []kind.KindedID
	Ctors  []VariantCtor
	Pos    Pos
}

func (d *VariantDef) Position() Pos { return d.Pos }
func (d *VariantDef) defNode()      {}

// EnumDef declares a closed enumeration type.
type EnumDef struct {
	Name    Id
	Members []Id
	Pos     Pos
}

func (d *EnumDef) Position() Pos { return d.Pos }
func (d *EnumDef) defNode()      {}

// BitfieldSegment names a named sub-range of a bitfield's backing vector.
type BitfieldSegment struct {
	Name     string
	Low, High int
}

// BitfieldDef declares a named view over a fixed-width bit vector. The
// top-level checker expands it inline into a record with one bitvector
// field per segment; no accessor functions are generated.
type BitfieldDef struct {
	Name     Id
	Width    int
	Segments []BitfieldSegment
	Pos      Pos
}

func (d *BitfieldDef) Position() Pos { return d.Pos }
func (d *BitfieldDef) defNode()      {}

// ValSpecDef is `val id : T` (or a mapping's `val id : T1 <-> T2`, recorded
// via a TyBidir body). External names for backend linkage are not
// represented.
type ValSpecDef struct {
	Name   Id
	Scheme types.TypeScheme
	Pos    Pos
}

func (d *ValSpecDef) Position() Pos { return d.Pos }
func (d *ValSpecDef) defNode()      {}

// FunClause is one `function id(pat) = body` or `function id(pat) if guard
// = body` clause.
type FunClause struct {
	Pattern Pattern
	Guard   Expr // optional
	Body    Expr
	Pos     Pos
}

// FunDef is a (possibly multi-clause) function definition.
type FunDef struct {
	Name    Id
	Clauses []FunClause
	Pos     Pos
}

func (d *FunDef) Position() Pos { return d.Pos }
func (d *FunDef) defNode()      {}

// MapClauseKind distinguishes the three flavours a mapping clause may be
// written in: bidirectional (same pattern on both sides, checked both
// ways), forwards-only, or backwards-only.
type MapClauseKind int

const (
	MapBidir MapClauseKind = iota
	MapForwardsOnly
	MapBackwardsOnly
)

// MapClause is one clause of a mapping definition.
type MapClause struct {
	Kind MapClauseKind
	Left Pattern
	// Right is the right-hand pattern for MapBidir/MapBackwardsOnly, or the
	// forwards result expression (reparsed into a one-sided pattern by the
	// upstream parser) for MapForwardsOnly; checked per the Kind.
	Right Pattern
	Pos   Pos
}

// MapDef is a mapping definition: a finite set of clauses relating two
// types, queried by applying it forwards or backwards.
type MapDef struct {
	Name    Id
	Clauses []MapClause
	Pos     Pos
}

func (d *MapDef) Position() Pos { return d.Pos }
func (d *MapDef) defNode()      {}

// LetDef is a top-level `let pat = e` binding.
type LetDef struct {
	Pattern Pattern
	Value   Expr
	Pos     Pos
}

func (d *LetDef) Position() Pos { return d.Pos }
func (d *LetDef) defNode()      {}

// DefaultOrderDef installs the module-wide default bit order. Declaring it
// twice with conflicting orders is an error.
type DefaultOrderDef struct {
	Order types.Order
	Pos   Pos
}

func (d *DefaultOrderDef) Position() Pos { return d.Pos }
func (d *DefaultOrderDef) defNode()      {}

// OverloadDef appends a name to an overload set's resolution-order list.
type OverloadDef struct {
	Name      Id
	Members   []Id
	Pos       Pos
}

func (d *OverloadDef) Position() Pos { return d.Pos }
func (d *OverloadDef) defNode()      {}

// RegisterEffectKind classifies the effect a register declaration grants
// access through.
type RegisterEffectKind int

const (
	RegisterReadWrite RegisterEffectKind = iota
	RegisterConfig
)

// RegisterDef declares a mutable register of a given type.
type RegisterDef struct {
	Name Id
	Type types.Typ
	Kind RegisterEffectKind
	Pos  Pos
}

func (d *RegisterDef) Position() Pos { return d.Pos }
func (d *RegisterDef) defNode()      {}

// CastDef marks a previously-declared value specification as usable by
// automatic cast search; it is appended after every cast registered before
// it, so casts are tried in declaration order.
type CastDef struct {
	Name Id
	Pos  Pos
}

func (d *CastDef) Position() Pos { return d.Pos }
func (d *CastDef) defNode()      {}
