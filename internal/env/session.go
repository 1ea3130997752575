// Package env implements the checker's environment. A Session owns the
// symbol tables that grow monotonically as a definition stream is
// processed (value specifications, records/unions/enums, mappings,
// overloads, casts, numeric constants, synonyms, the SMT-op table and
// policy flags); an Environment is the persistent, cons-style local scope
// threaded through expression checking.
package env

import (
	"fmt"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/kind"
	"github.com/sail-lang/sailcheck/internal/naming"
	"github.com/sail-lang/sailcheck/internal/oracle"
	"github.com/sail-lang/sailcheck/internal/types"
)

// RecordInfo describes a declared record type.
type RecordInfo struct {
	Params []kind.KindedID
	Fields []ast.RecordField
}

// UnionInfo describes a declared tagged-union type.
type UnionInfo struct {
	Params []kind.KindedID
	Ctors  []ast.VariantCtor
}

// EnumInfo describes a declared enumeration type.
type EnumInfo struct {
	Members []ast.Id
}

// FieldEntry records which record a field name projects from, resolving
// the shared-field-name case by the most recently declared owner.
type FieldEntry struct {
	Record string
	Type   types.Typ
}

// MappingInfo holds a mapping's declared bidirectional type plus its
// auto-synthesized companion names, each bound as an ordinary value
// specification the moment the mapping is declared.
type MappingInfo struct {
	Left, Right types.Typ
	// Forwards, Backwards, ForwardsMatches, BackwardsMatches, MatchesPrefix
	// name the synthesized companions: id_forwards, id_backwards,
	// id_forwards_matches, id_backwards_matches, id_matches_prefix.
	Forwards, Backwards                string
	ForwardsMatches, BackwardsMatches  string
	MatchesPrefix                      string
}

// ValSpec is a registered value specification, holding both the
// user-written scheme and its canonical form.
type ValSpec struct {
	Original  types.TypeScheme
	Canonical types.TypeScheme
}

// Policy bundles the five process-wide checker toggles; Session reads it but never mutates it.
type Policy struct {
	TCDebug             bool
	NoEffects           bool
	NoLExprBoundsCheck  bool
	ConstraintSynonyms  bool
	ExpandValSpec       bool
}

// Session is the mutable, append-only symbol table shared by every
// Environment node spawned while processing one definition stream. Nothing
// in Session is ever removed; a failed definition simply does not add to
// it.
type Session struct {
	Naming *naming.Context
	Oracle *oracle.Oracle
	Policy Policy

	valSpecs           map[string]*ValSpec
	typeSynonyms       map[string]typeSynonym
	constraintSynonyms map[string]constraintSynonym
	numericConstants   map[string]int64
	records            map[string]RecordInfo
	unions             map[string]UnionInfo
	enums              map[string]EnumInfo
	fields             map[string]FieldEntry
	mappings           map[string]MappingInfo
	registers          map[string]registerEntry
	overloads          map[string][]ast.Id
	casts              []ast.Id
	smtOps             map[string]string
	defaultOrder       *types.Order
	defined            map[string]bool // functions/mappings already given a body, rejecting redefinition
}

type typeSynonym struct {
	Params []kind.KindedID
	Body   types.Typ
}

type constraintSynonym struct {
	Params []kind.KindedID
	Body   types.NConstraint
}

type registerEntry struct {
	Type types.Typ
	Kind ast.RegisterEffectKind
}

// NewSession creates an empty Session ready to process a definition stream.
func NewSession(policy Policy, solverName string) (*Session, error) {
	o, err := oracle.New(solverName, &oracle.Init{Debug: policy.TCDebug})
	if err != nil {
		return nil, err
	}
	return &Session{
		Naming:             naming.New(),
		Oracle:             o,
		Policy:             policy,
		valSpecs:           map[string]*ValSpec{},
		typeSynonyms:       map[string]typeSynonym{},
		constraintSynonyms: map[string]constraintSynonym{},
		numericConstants:   map[string]int64{},
		records:            map[string]RecordInfo{},
		unions:             map[string]UnionInfo{},
		enums:              map[string]EnumInfo{},
		fields:             map[string]FieldEntry{},
		mappings:           map[string]MappingInfo{},
		registers:          map[string]registerEntry{},
		overloads:          map[string][]ast.Id{},
		smtOps:             map[string]string{},
		defined:            map[string]bool{},
	}, nil
}

// AddValSpec registers name's scheme. Redeclaring an existing name with a
// structurally-unequal (after canonicalisation) scheme is the caller's
// responsibility to reject; Session.AddValSpec always overwrites, matching
// the top-level checker's "canonicalise, then compare, then install"
// sequencing.
func (s *Session) AddValSpec(name string, v ValSpec) {
	cp := v
	s.valSpecs[name] = &cp
}

// LookupValSpec returns the registered scheme for name, or ok=false.
func (s *Session) LookupValSpec(name string) (*ValSpec, bool) {
	v, ok := s.valSpecs[name]
	return v, ok
}

// MarkDefined records that name now has a checked body, so a second
// `function`/mapping definition for the same name is rejected.
func (s *Session) MarkDefined(name string) error {
	if s.defined[name] {
		return fmt.Errorf("%s is already defined", name)
	}
	s.defined[name] = true
	return nil
}

func (s *Session) IsDefined(name string) bool { return s.defined[name] }

func (s *Session) AddTypeSynonym(name string, params []kind.KindedID, body types.Typ) {
	s.typeSynonyms[name] = typeSynonym{Params: params, Body: body}
}

func (s *Session) LookupTypeSynonym(name string) ([]kind.KindedID, types.Typ, bool) {
	v, ok := s.typeSynonyms[name]
	return v.Params, v.Body, ok
}

func (s *Session) AddConstraintSynonym(name string, params []kind.KindedID, body types.NConstraint) {
	s.constraintSynonyms[name] = constraintSynonym{Params: params, Body: body}
}

func (s *Session) LookupConstraintSynonym(name string) ([]kind.KindedID, types.NConstraint, bool) {
	v, ok := s.constraintSynonyms[name]
	return v.Params, v.Body, ok
}

func (s *Session) AddNumericConstant(name string, value int64) {
	s.numericConstants[name] = value
}

func (s *Session) LookupNumericConstant(name string) (int64, bool) {
	v, ok := s.numericConstants[name]
	return v, ok
}

// KnownConstants snapshots the numeric-constant table in the shape the
// oracle's Facts expects.
func (s *Session) KnownConstants() map[string]int64 {
	out := make(map[string]int64, len(s.numericConstants))
	for k, v := range s.numericConstants {
		out[k] = v
	}
	return out
}

func (s *Session) AddRecord(name string, info RecordInfo) {
	s.records[name] = info
	for _, f := range info.Fields {
		s.fields[f.Name] = FieldEntry{Record: name, Type: f.Type}
	}
}

func (s *Session) LookupRecord(name string) (RecordInfo, bool) {
	v, ok := s.records[name]
	return v, ok
}

func (s *Session) LookupField(name string) (FieldEntry, bool) {
	v, ok := s.fields[name]
	return v, ok
}

func (s *Session) AddUnion(name string, info UnionInfo) {
	s.unions[name] = info
}

func (s *Session) LookupUnion(name string) (UnionInfo, bool) {
	v, ok := s.unions[name]
	return v, ok
}

// LookupCtor finds which union declares ctor and its argument type, or
// ok=false if ctor names no known constructor.
func (s *Session) LookupCtor(ctor string) (union string, arg types.Typ, ok bool) {
	for uname, u := range s.unions {
		for _, c := range u.Ctors {
			if c.Name.Name == ctor {
				return uname, c.Arg, true
			}
		}
	}
	return "", nil, false
}

func (s *Session) AddEnum(name string, info EnumInfo) {
	s.enums[name] = info
}

func (s *Session) LookupEnum(name string) (EnumInfo, bool) {
	v, ok := s.enums[name]
	return v, ok
}

func (s *Session) AddMapping(name string, info MappingInfo) {
	s.mappings[name] = info
}

func (s *Session) LookupMapping(name string) (MappingInfo, bool) {
	v, ok := s.mappings[name]
	return v, ok
}

func (s *Session) AddRegister(name string, t types.Typ, k ast.RegisterEffectKind) {
	s.registers[name] = registerEntry{Type: t, Kind: k}
}

// LookupRegister returns the register's type and the effects reading and
// writing it grant, per its declared RegisterEffectKind.
func (s *Session) LookupRegister(name string) (t types.Typ, readEff, writeEff types.Effect, ok bool) {
	v, ok := s.registers[name]
	if !ok {
		return nil, "", "", false
	}
	if v.Kind == ast.RegisterConfig {
		return v.Type, types.EffConfig, types.EffConfig, true
	}
	return v.Type, types.EffRreg, types.EffWreg, true
}

func (s *Session) AddOverloadMember(name string, member ast.Id) {
	s.overloads[name] = append(s.overloads[name], member)
}

func (s *Session) LookupOverload(name string) ([]ast.Id, bool) {
	v, ok := s.overloads[name]
	return v, ok
}

// AppendCast appends name to the ordered cast-search list; casts are tried
// in declaration order.
func (s *Session) AppendCast(name ast.Id) {
	s.casts = append(s.casts, name)
}

func (s *Session) Casts() []ast.Id {
	out := make([]ast.Id, len(s.casts))
	copy(out, s.casts)
	return out
}

func (s *Session) AddSMTOp(name, symbol string) {
	s.smtOps[name] = symbol
}

func (s *Session) LookupSMTOp(name string) (string, bool) {
	v, ok := s.smtOps[name]
	return v, ok
}

// SetDefaultOrder installs the module's default bit order. Redeclaring it
// with a conflicting order is an error.
func (s *Session) SetDefaultOrder(o types.Order) error {
	if s.defaultOrder != nil {
		if (*s.defaultOrder).String() != o.String() {
			return fmt.Errorf("conflicting default Order declaration: already %s, now %s", *s.defaultOrder, o)
		}
		return nil
	}
	s.defaultOrder = &o
	return nil
}

func (s *Session) DefaultOrder() (types.Order, bool) {
	if s.defaultOrder == nil {
		return nil, false
	}
	return *s.defaultOrder, true
}
