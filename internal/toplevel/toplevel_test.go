package toplevel

import (
	"context"
	"testing"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/kind"
	"github.com/sail-lang/sailcheck/internal/types"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := env.NewSession(env.Policy{}, "omega")
	if err != nil {
		t.Fatal(err)
	}
	return NewSession(s)
}

func id(name string) ast.Id { return ast.Id{Name: name} }

func TestCheckDefKindDefExtendsTypeVar(t *testing.T) {
	s := newTestSession(t)
	def := &ast.KindDef{Name: kind.KindedID{Name: "'n", K: kind.Int}}
	checked, err := s.CheckDef(context.Background(), def)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := checked.Env.LookupTypeVar("'n"); !ok {
		t.Error("expected a kind declaration to extend the environment with the new type variable")
	}
}

func TestCheckDefTypeSynonym(t *testing.T) {
	s := newTestSession(t)
	def := &ast.TypeSynonymDef{Name: id("myint"), Body: types.TyId{Name: "int"}}
	if _, err := s.CheckDef(context.Background(), def); err != nil {
		t.Fatal(err)
	}
	_, body, ok := s.Root.LookupTypeSynonym("myint")
	if !ok {
		t.Fatal("expected the type synonym to be registered")
	}
	if !types.StructEquals(body, types.TyId{Name: "int"}) {
		t.Errorf("synonym body = %s, want int", body)
	}
}

func TestCheckDefRecordRejectsIllFormedField(t *testing.T) {
	s := newTestSession(t)
	def := &ast.RecordDef{
		Name:   id("bad"),
		Fields: []ast.RecordField{{Name: "n", Type: types.AtomType(types.NVar{Name: "'unbound"})}},
	}
	if _, err := s.CheckDef(context.Background(), def); err == nil {
		t.Error("expected a record field referencing an unbound numeric variable to fail well-formedness")
	}
}

func TestCheckDefRecordRegistersFields(t *testing.T) {
	s := newTestSession(t)
	def := &ast.RecordDef{
		Name:   id("point"),
		Fields: []ast.RecordField{{Name: "x", Type: types.TyInt}, {Name: "y", Type: types.TyInt}},
	}
	if _, err := s.CheckDef(context.Background(), def); err != nil {
		t.Fatal(err)
	}
	info, ok := s.Root.LookupRecord("point")
	if !ok || len(info.Fields) != 2 {
		t.Errorf("expected point to be registered with 2 fields, got %+v (ok=%v)", info, ok)
	}
}

func TestCheckDefVariantRejectsIllFormedCtorArg(t *testing.T) {
	s := newTestSession(t)
	def := &ast.VariantDef{
		Name: id("bad"),
		Ctors: []ast.VariantCtor{
			{Name: id("Some"), Arg: types.AtomType(types.NVar{Name: "'unbound"})},
		},
	}
	if _, err := s.CheckDef(context.Background(), def); err == nil {
		t.Error("expected a variant constructor argument referencing an unbound numeric variable to fail")
	}
}

func TestCheckDefVariantRegistersCtors(t *testing.T) {
	s := newTestSession(t)
	def := &ast.VariantDef{
		Name: id("option_like"),
		Ctors: []ast.VariantCtor{
			{Name: id("None")},
			{Name: id("Some"), Arg: types.TyInt},
		},
	}
	if _, err := s.CheckDef(context.Background(), def); err != nil {
		t.Fatal(err)
	}
	union, arg, ok := s.Root.LookupCtor("Some")
	if !ok || union != "option_like" {
		t.Errorf("expected Some to resolve to union option_like, got union=%q ok=%v", union, ok)
	}
	if !types.StructEquals(arg, types.TyInt) {
		t.Errorf("Some's argument = %s, want int", arg)
	}
}

func TestCheckDefEnum(t *testing.T) {
	s := newTestSession(t)
	def := &ast.EnumDef{Name: id("color"), Members: []ast.Id{id("Red"), id("Green"), id("Blue")}}
	if _, err := s.CheckDef(context.Background(), def); err != nil {
		t.Fatal(err)
	}
	info, ok := s.Root.LookupEnum("color")
	if !ok || len(info.Members) != 3 {
		t.Errorf("expected color to be registered with 3 members, got %+v (ok=%v)", info, ok)
	}
}

func TestCheckDefBitfieldExpandsToRecordOfCorrectWidths(t *testing.T) {
	s := newTestSession(t)
	def := &ast.BitfieldDef{
		Name:  id("flags"),
		Width: 8,
		Segments: []ast.BitfieldSegment{
			{Name: "low", Low: 0, High: 2},
			{Name: "hi", Low: 3, High: 3},
		},
	}
	if _, err := s.CheckDef(context.Background(), def); err != nil {
		t.Fatal(err)
	}
	info, ok := s.Root.LookupRecord("flags")
	if !ok || len(info.Fields) != 2 {
		t.Fatalf("expected flags to expand into a 2-field record, got %+v (ok=%v)", info, ok)
	}
	for i, w := range []int64{3, 1} {
		app, isApp := info.Fields[i].Type.(types.TyApp)
		if !isApp || !types.NExpEquals(app.Args[0].N, types.Lit(w)) {
			t.Errorf("segment %s has type %s, want a bitvector of width %d", info.Fields[i].Name, info.Fields[i].Type, w)
		}
	}
}

func TestCheckDefValSpecRejectsConflictingRedeclaration(t *testing.T) {
	s := newTestSession(t)
	first := &ast.ValSpecDef{Name: id("f"), Scheme: types.TypeScheme{Body: types.TyFunc{
		Args: []types.Typ{types.TyInt}, Return: types.TyBool, Effects: types.NoEffect(),
	}}}
	if _, err := s.CheckDef(context.Background(), first); err != nil {
		t.Fatal(err)
	}
	second := &ast.ValSpecDef{Name: id("f"), Scheme: types.TypeScheme{Body: types.TyFunc{
		Args: []types.Typ{types.TyBool}, Return: types.TyInt, Effects: types.NoEffect(),
	}}}
	if _, err := s.CheckDef(context.Background(), second); err == nil {
		t.Error("expected redeclaring f with a different type to fail")
	}
}

func TestCheckDefValSpecAllowsIdenticalRedeclaration(t *testing.T) {
	s := newTestSession(t)
	def := func() *ast.ValSpecDef {
		return &ast.ValSpecDef{Name: id("f"), Scheme: types.TypeScheme{Body: types.TyFunc{
			Args: []types.Typ{types.TyInt}, Return: types.TyBool, Effects: types.NoEffect(),
		}}}
	}
	if _, err := s.CheckDef(context.Background(), def()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CheckDef(context.Background(), def()); err != nil {
		t.Errorf("expected an identical redeclaration of f to be accepted: %v", err)
	}
}

func TestCheckDefValSpecMappingRegistersCompanions(t *testing.T) {
	s := newTestSession(t)
	def := &ast.ValSpecDef{Name: id("flag"), Scheme: types.TypeScheme{
		Body: types.TyBidir{Left: types.TyBool, Right: types.AtomType(types.Lit(1))},
	}}
	if _, err := s.CheckDef(context.Background(), def); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Root.LookupMapping("flag"); !ok {
		t.Fatal("expected flag to be registered as a mapping")
	}
	if _, ok := s.Root.LookupValSpec("flag_forwards"); !ok {
		t.Error("expected flag_forwards companion val spec to be synthesized")
	}
	if _, ok := s.Root.LookupValSpec("flag_backwards"); !ok {
		t.Error("expected flag_backwards companion val spec to be synthesized")
	}
}

func TestCheckDefFunDefChecksBodyAgainstSignature(t *testing.T) {
	s := newTestSession(t)
	spec := &ast.ValSpecDef{Name: id("one"), Scheme: types.TypeScheme{Body: types.TyFunc{
		Args: []types.Typ{types.TyInt}, Return: types.AtomType(types.Lit(1)), Effects: types.NoEffect(),
	}}}
	if _, err := s.CheckDef(context.Background(), spec); err != nil {
		t.Fatal(err)
	}
	fn := &ast.FunDef{
		Name: id("one"),
		Clauses: []ast.FunClause{
			{Pattern: &ast.PVar{Name: id("x")}, Body: &ast.Literal{Kind: ast.LitNum, Value: int64(1)}},
		},
	}
	if _, err := s.CheckDef(context.Background(), fn); err != nil {
		t.Fatalf("expected a function returning literal 1 to check against atom(1): %v", err)
	}
	if !s.Root.IsDefined("one") {
		t.Error("expected one to be marked defined after a successful function definition")
	}
}

func TestCheckDefFunDefRejectsMismatchedReturn(t *testing.T) {
	s := newTestSession(t)
	spec := &ast.ValSpecDef{Name: id("two"), Scheme: types.TypeScheme{Body: types.TyFunc{
		Args: []types.Typ{types.TyInt}, Return: types.AtomType(types.Lit(2)), Effects: types.NoEffect(),
	}}}
	if _, err := s.CheckDef(context.Background(), spec); err != nil {
		t.Fatal(err)
	}
	fn := &ast.FunDef{
		Name: id("two"),
		Clauses: []ast.FunClause{
			{Pattern: &ast.PVar{Name: id("x")}, Body: &ast.Literal{Kind: ast.LitNum, Value: int64(1)}},
		},
	}
	if _, err := s.CheckDef(context.Background(), fn); err == nil {
		t.Error("expected a function body returning 1 to fail against a declared return type of atom(2)")
	}
}

func TestCheckDefFunDefRequiresValSpec(t *testing.T) {
	s := newTestSession(t)
	fn := &ast.FunDef{
		Name:    id("nospec"),
		Clauses: []ast.FunClause{{Pattern: &ast.PWild{}, Body: &ast.Literal{Kind: ast.LitUnit}}},
	}
	if _, err := s.CheckDef(context.Background(), fn); err == nil {
		t.Error("expected a function with no prior value specification to fail")
	}
}

func TestCheckDefFunDefRejectsRedefinition(t *testing.T) {
	s := newTestSession(t)
	spec := &ast.ValSpecDef{Name: id("dup"), Scheme: types.TypeScheme{Body: types.TyFunc{
		Args: []types.Typ{types.TyInt}, Return: types.TyInt, Effects: types.NoEffect(),
	}}}
	if _, err := s.CheckDef(context.Background(), spec); err != nil {
		t.Fatal(err)
	}
	fn := func() *ast.FunDef {
		return &ast.FunDef{
			Name:    id("dup"),
			Clauses: []ast.FunClause{{Pattern: &ast.PVar{Name: id("x")}, Body: &ast.Var{Name: id("x")}}},
		}
	}
	if _, err := s.CheckDef(context.Background(), fn()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CheckDef(context.Background(), fn()); err == nil {
		t.Error("expected a second definition of dup to fail as already defined")
	}
}

func TestCheckDefMapDefBidirectional(t *testing.T) {
	s := newTestSession(t)
	spec := &ast.ValSpecDef{Name: id("flag"), Scheme: types.TypeScheme{
		Body: types.TyBidir{Left: types.TyBool, Right: types.AtomType(types.Lit(1))},
	}}
	if _, err := s.CheckDef(context.Background(), spec); err != nil {
		t.Fatal(err)
	}
	mapDef := &ast.MapDef{
		Name: id("flag"),
		Clauses: []ast.MapClause{
			{Kind: ast.MapBidir,
				Left:  &ast.PLit{Lit: ast.Literal{Kind: ast.LitBool, Value: true}},
				Right: &ast.PLit{Lit: ast.Literal{Kind: ast.LitNum, Value: int64(1)}}},
		},
	}
	if _, err := s.CheckDef(context.Background(), mapDef); err != nil {
		t.Fatalf("expected a bidirectional mapping clause between true and 1 to check: %v", err)
	}
	if !s.Root.IsDefined("flag") {
		t.Error("expected flag to be marked defined after a successful mapping definition")
	}
}

func TestCheckDefMapDefRequiresValSpec(t *testing.T) {
	s := newTestSession(t)
	mapDef := &ast.MapDef{Name: id("nospec")}
	if _, err := s.CheckDef(context.Background(), mapDef); err == nil {
		t.Error("expected a mapping with no prior value specification to fail")
	}
}

func TestCheckDefLetDefBindsPattern(t *testing.T) {
	s := newTestSession(t)
	def := &ast.LetDef{
		Pattern: &ast.PVar{Name: id("answer")},
		Value:   &ast.Literal{Kind: ast.LitNum, Value: int64(42)},
	}
	checked, err := s.CheckDef(context.Background(), def)
	if err != nil {
		t.Fatal(err)
	}
	local, ok := checked.Env.LookupLocal("answer")
	if !ok {
		t.Fatal("expected answer to be bound in the resulting environment")
	}
	want := types.AtomType(types.Lit(42))
	if !types.StructEquals(local.Scheme.Body, want) {
		t.Errorf("answer : %s, want %s", local.Scheme.Body, want)
	}
}

func TestCheckDefDefaultOrderConflictErrors(t *testing.T) {
	s := newTestSession(t)
	inc := &ast.DefaultOrderDef{Order: types.OConst{Inc: true}}
	if _, err := s.CheckDef(context.Background(), inc); err != nil {
		t.Fatal(err)
	}
	dec := &ast.DefaultOrderDef{Order: types.OConst{Inc: false}}
	if _, err := s.CheckDef(context.Background(), dec); err == nil {
		t.Error("expected declaring a conflicting default order to fail")
	}
}

func TestCheckDefOverloadRegistersMembersInOrder(t *testing.T) {
	s := newTestSession(t)
	def := &ast.OverloadDef{Name: id("show"), Members: []ast.Id{id("show_int"), id("show_bool")}}
	if _, err := s.CheckDef(context.Background(), def); err != nil {
		t.Fatal(err)
	}
	members, ok := s.Root.LookupOverload("show")
	if !ok || len(members) != 2 || members[0].Name != "show_int" || members[1].Name != "show_bool" {
		t.Errorf("unexpected overload members: %+v (ok=%v)", members, ok)
	}
}

func TestCheckDefRegisterRecordsKind(t *testing.T) {
	s := newTestSession(t)
	def := &ast.RegisterDef{Name: id("PC"), Type: types.TyInt, Kind: ast.RegisterReadWrite}
	if _, err := s.CheckDef(context.Background(), def); err != nil {
		t.Fatal(err)
	}
	typ, _, _, ok := s.Root.LookupRegister("PC")
	if !ok || !types.StructEquals(typ, types.TyInt) {
		t.Errorf("expected PC to be registered as int, got %s (ok=%v)", typ, ok)
	}
}

func TestCheckDefUnhandledFormErrors(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.CheckDef(context.Background(), unknownDef{}); err == nil {
		t.Error("expected an unrecognized definition form to fail")
	}
}

// unknownDef embeds ast.Def to pick up its unexported marker method, which
// a type outside package ast cannot declare for itself.
type unknownDef struct{ ast.Def }

func (unknownDef) Position() ast.Pos { return ast.Pos{} }

func TestCheckStreamStopsOnFirstErrorByDefault(t *testing.T) {
	s := newTestSession(t)
	good := &ast.EnumDef{Name: id("a"), Members: []ast.Id{id("X")}}
	bad := &ast.FunDef{Name: id("missing"), Clauses: []ast.FunClause{{Pattern: &ast.PWild{}, Body: &ast.Literal{Kind: ast.LitUnit}}}}
	after := &ast.EnumDef{Name: id("b"), Members: []ast.Id{id("Y")}}

	checked, err := s.CheckStream(context.Background(), []ast.Def{good, bad, after}, false)
	if err == nil {
		t.Fatal("expected CheckStream to report the failing definition")
	}
	if len(checked) != 1 {
		t.Errorf("expected exactly the one definition before the failure to be returned, got %d", len(checked))
	}
	if _, ok := s.Root.LookupEnum("b"); ok {
		t.Error("expected processing to have stopped before reaching the definition after the failure")
	}
}

func TestCheckStreamContinuesOnErrorWhenRequested(t *testing.T) {
	s := newTestSession(t)
	good := &ast.EnumDef{Name: id("a"), Members: []ast.Id{id("X")}}
	bad := &ast.FunDef{Name: id("missing"), Clauses: []ast.FunClause{{Pattern: &ast.PWild{}, Body: &ast.Literal{Kind: ast.LitUnit}}}}
	after := &ast.EnumDef{Name: id("b"), Members: []ast.Id{id("Y")}}

	checked, err := s.CheckStream(context.Background(), []ast.Def{good, bad, after}, true)
	if err == nil {
		t.Fatal("expected CheckStream to still report the first error even in continue mode")
	}
	if len(checked) != 2 {
		t.Errorf("expected both successful definitions to be returned despite the failure in between, got %d", len(checked))
	}
	if _, ok := s.Root.LookupEnum("b"); !ok {
		t.Error("expected processing to have continued past the failing definition")
	}
}
