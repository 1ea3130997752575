package check

import (
	"context"
	"testing"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/kind"
	"github.com/sail-lang/sailcheck/internal/types"
	"github.com/sail-lang/sailcheck/testutil"
)

func newTestEnv(t *testing.T) *env.Environment {
	t.Helper()
	s, err := env.NewSession(env.Policy{}, "omega")
	if err != nil {
		t.Fatal(err)
	}
	return env.NewRoot(s)
}

func numLit(n int64) *ast.Literal { return &ast.Literal{Kind: ast.LitNum, Value: n} }
func boolLit(b bool) *ast.Literal { return &ast.Literal{Kind: ast.LitBool, Value: b} }
func varExpr(name string) *ast.Var { return &ast.Var{Name: ast.Id{Name: name}} }

// --- Concrete scenario 1: f(3) infers atom(4) for f : atom('n) -> atom('n+1) ---

func TestScenarioSuccessorFunction(t *testing.T) {
	e := newTestEnv(t)
	scheme := types.TypeScheme{
		Quantifier: []kind.KindedID{{Name: "'n", K: kind.Int}},
		Body: types.TyFunc{
			Args:    []types.Typ{types.AtomType(types.NVar{Name: "'n"})},
			Return:  types.AtomType(types.Add(types.NVar{Name: "'n"}, types.Lit(1))),
			Effects: types.NoEffect(),
		},
	}
	e = e.ExtendScheme("f", scheme)
	app := &ast.App{Func: varExpr("f"), Args: []ast.Expr{numLit(3)}}
	res, err := Infer(context.Background(), e, app)
	if err != nil {
		t.Fatal(err)
	}
	want := types.AtomType(types.Lit(4))
	if !types.StructEquals(res.Node.Ann.Type, want) {
		t.Errorf("f(3) inferred %s, want %s", res.Node.Ann.Type, want)
	}
}

// --- Concrete scenario 2: g(2,3) is atom(6), and is not atom(7) ---

func TestScenarioProductOfAtoms(t *testing.T) {
	e := newTestEnv(t)
	scheme := types.TypeScheme{
		Quantifier: []kind.KindedID{{Name: "'n", K: kind.Int}, {Name: "'m", K: kind.Int}},
		Body: types.TyFunc{
			Args: []types.Typ{
				types.AtomType(types.NVar{Name: "'n"}),
				types.AtomType(types.NVar{Name: "'m"}),
			},
			Return:  types.AtomType(types.Mul(types.NVar{Name: "'n"}, types.NVar{Name: "'m"})),
			Effects: types.NoEffect(),
		},
	}
	e = e.ExtendScheme("g", scheme)
	app := &ast.App{Func: varExpr("g"), Args: []ast.Expr{numLit(2), numLit(3)}}

	if _, err := Check(context.Background(), e, app, types.AtomType(types.Lit(6))); err != nil {
		t.Errorf("g(2,3) should check against atom(6): %v", err)
	}
	if _, err := Check(context.Background(), e, app, types.AtomType(types.Lit(7))); err == nil {
		t.Error("g(2,3) should not check against atom(7)")
	}
}

// --- Concrete scenario 3: a mapping dispatches forwards and backwards ---

func TestScenarioMappingBothDirections(t *testing.T) {
	e := newTestEnv(t)
	e.AddMapping("flag", env.MappingInfo{Left: types.TyBool, Right: types.AtomType(types.Lit(1))})

	fwd := &ast.App{Func: varExpr("flag"), Args: []ast.Expr{boolLit(true)}}
	res, err := Infer(context.Background(), e, fwd)
	if err != nil {
		t.Fatal(err)
	}
	if !types.StructEquals(res.Node.Ann.Type, types.AtomType(types.Lit(1))) {
		t.Errorf("flag(true) forwards = %s, want atom(1)", res.Node.Ann.Type)
	}

	bwd := &ast.App{Func: varExpr("flag"), Args: []ast.Expr{numLit(1)}}
	res, err = Infer(context.Background(), e, bwd)
	if err != nil {
		t.Fatal(err)
	}
	if !types.StructEquals(res.Node.Ann.Type, types.TyBool) {
		t.Errorf("flag(1) backwards = %s, want bool", res.Node.Ann.Type)
	}
}

// --- Concrete scenario 4: if c then 1 else 2 joins into an existential ---

func TestScenarioIfJoinsDistinctAtoms(t *testing.T) {
	e := newTestEnv(t)
	f := &ast.If{Cond: boolLit(true), Then: numLit(1), Else: numLit(2)}
	res, err := Infer(context.Background(), e, f)
	if err != nil {
		t.Fatal(err)
	}
	joined := res.Node.Ann.Type
	if _, ok := joined.(types.TyExist); !ok {
		t.Fatalf("if c then 1 else 2 should infer an existential, got %T (%s)", joined, joined)
	}
	if err := subtypeCheck(t, e, types.AtomType(types.Lit(1)), joined); err != nil {
		t.Errorf("atom(1) should satisfy the joined type: %v", err)
	}
	if err := subtypeCheck(t, e, types.AtomType(types.Lit(2)), joined); err != nil {
		t.Errorf("atom(2) should satisfy the joined type: %v", err)
	}
	if err := subtypeCheck(t, e, types.AtomType(types.Lit(3)), joined); err == nil {
		t.Error("atom(3) should not satisfy a join of only {1, 2}")
	}
}

// --- Concrete scenario 5: assert narrows a later numeric obligation ---

func TestScenarioAssertNarrowsFlow(t *testing.T) {
	e := newTestEnv(t)
	geScheme := types.TypeScheme{
		Quantifier: []kind.KindedID{{Name: "'n", K: kind.Int}, {Name: "'m", K: kind.Int}},
		Body: types.TyFunc{
			Args:    []types.Typ{types.AtomType(types.NVar{Name: "'n"}), types.AtomType(types.NVar{Name: "'m"})},
			Return:  types.TyBool,
			Effects: types.NoEffect(),
		},
	}
	e = e.ExtendScheme("operator >=", geScheme)
	e = e.ExtendScheme("operator <=", geScheme)

	// x is bound to atom('k), an unresolved type-level variable brought into
	// scope directly (standing in for a function parameter).
	e = e.ExtendTypeVar(kind.KindedID{Name: "'k", K: kind.Int})
	e = e.ExtendLocal("x", types.AtomType(types.NVar{Name: "'k"}))

	target := types.RangeType(types.Lit(0), types.Lit(1000))
	castNoAssert := &ast.Cast{Expr: varExpr("x"), Type: target}
	if _, err := Infer(context.Background(), e, castNoAssert); err == nil {
		t.Fatal("expected casting an unconstrained atom('k) into range(0,1000) to fail without a narrowing assert")
	}

	block := &ast.Block{Stmts: []ast.Expr{
		&ast.Assert{Cond: &ast.App{Func: varExpr("operator >="), Args: []ast.Expr{varExpr("x"), numLit(0)}}},
		&ast.Assert{Cond: &ast.App{Func: varExpr("operator <="), Args: []ast.Expr{varExpr("x"), numLit(1000)}}},
		&ast.Cast{Expr: varExpr("x"), Type: target},
	}}
	res, err := Infer(context.Background(), e, block)
	if err != nil {
		t.Fatalf("expected the two asserts to narrow x enough to satisfy range(0,1000): %v", err)
	}
	if !types.StructEquals(res.Node.Ann.Type, target) {
		t.Errorf("block result = %s, want %s", res.Node.Ann.Type, target)
	}
}

// --- Concrete scenario 6: overload dispatch tries members in order ---

func TestScenarioOverloadDispatch(t *testing.T) {
	e := newTestEnv(t)
	intScheme := types.TypeScheme{Body: types.TyFunc{
		Args: []types.Typ{types.TyInt}, Return: types.TyString, Effects: types.NoEffect(),
	}}
	boolScheme := types.TypeScheme{Body: types.TyFunc{
		Args: []types.Typ{types.TyBool}, Return: types.TyString, Effects: types.NoEffect(),
	}}
	e.AddValSpec("show_int", env.ValSpec{Original: intScheme, Canonical: intScheme})
	e.AddValSpec("show_bool", env.ValSpec{Original: boolScheme, Canonical: boolScheme})
	e.AddOverloadMember("show", ast.Id{Name: "show_int"})
	e.AddOverloadMember("show", ast.Id{Name: "show_bool"})

	appBool := &ast.App{Func: varExpr("show"), Args: []ast.Expr{boolLit(true)}}
	res, err := Infer(context.Background(), e, appBool)
	if err != nil {
		t.Fatalf("overload dispatch should fall through to show_bool for a bool argument: %v", err)
	}
	if !types.StructEquals(res.Node.Ann.Type, types.TyString) {
		t.Errorf("show(true) = %s, want string", res.Node.Ann.Type)
	}
}

func subtypeCheck(t *testing.T, e *env.Environment, sub, super types.Typ) error {
	t.Helper()
	_, err := Check(context.Background(), e, &ast.Cast{Expr: dummyOf(sub), Type: super}, super)
	return err
}

// dummyOf builds a minimal expression inferring exactly t, for feeding
// through Check/Infer in tests that only care about type relationships.
func dummyOf(t types.Typ) ast.Expr {
	if app, ok := t.(types.TyApp); ok && app.Ctor == "atom" {
		if c, ok := app.Args[0].N.(types.NConstant); ok {
			return numLit(c.Value)
		}
	}
	return numLit(0)
}

// --- Testable property: annotation idempotence ---

func TestPropertyAnnotationIdempotence(t *testing.T) {
	e := newTestEnv(t)
	lit := numLit(7)
	res1, err := Infer(context.Background(), e, lit)
	if err != nil {
		t.Fatal(err)
	}
	res2, err := Infer(context.Background(), e, lit)
	if err != nil {
		t.Fatal(err)
	}
	if !types.StructEquals(res1.Node.Ann.Type, res2.Node.Ann.Type) {
		t.Errorf("inferring the same literal twice gave different types: %s vs %s", res1.Node.Ann.Type, res2.Node.Ann.Type)
	}
}

// --- Testable property: coercion soundness ---

func TestPropertyCoercionSoundness(t *testing.T) {
	e := newTestEnv(t)
	castScheme := types.TypeScheme{Body: types.TyFunc{
		Args: []types.Typ{types.TyBool}, Return: types.AtomType(types.Lit(1)), Effects: types.NoEffect(),
	}}
	e.AddValSpec("bool_to_one", env.ValSpec{Original: castScheme, Canonical: castScheme})
	e.AppendCast(ast.Id{Name: "bool_to_one"})

	res, err := Check(context.Background(), e, boolLit(true), types.AtomType(types.Lit(1)))
	if err != nil {
		t.Fatalf("expected the registered bool->atom(1) cast to apply: %v", err)
	}
	if !types.StructEquals(res.Node.Ann.Type, types.AtomType(types.Lit(1))) {
		t.Errorf("coerced result = %s, want atom(1)", res.Node.Ann.Type)
	}

	// No cast targets atom(2): coercion must not invent one.
	if _, err := Check(context.Background(), e, boolLit(true), types.AtomType(types.Lit(2))); err == nil {
		t.Error("expected checking bool against atom(2) to fail: no registered cast produces it")
	}
}

// --- Testable property: effect monotonicity ---

func TestPropertyEffectMonotonicity(t *testing.T) {
	a := types.NewEffectSet(types.EffRreg)
	b := types.NewEffectSet(types.EffWreg)
	union := a.Union(b)
	if !a.SubsetOf(union) || !b.SubsetOf(union) {
		t.Error("a union of effect sets must remain a superset of each operand")
	}
	if !a.SubsetOf(a) {
		t.Error("an effect set must be a subset of itself")
	}
	testutil.AssertEqual(t, []types.Effect{types.EffRreg, types.EffWreg}, union.Sorted())
}

// --- Testable property: function application completeness (per-argument
// cast-coercion fallback when plain unification fails) ---

func TestPropertyApplicationCastFallback(t *testing.T) {
	e := newTestEnv(t)
	castScheme := types.TypeScheme{Body: types.TyFunc{
		Args: []types.Typ{types.TyBool}, Return: types.AtomType(types.Lit(5)), Effects: types.NoEffect(),
	}}
	e.AddValSpec("bool_to_five", env.ValSpec{Original: castScheme, Canonical: castScheme})
	e.AppendCast(ast.Id{Name: "bool_to_five"})

	hScheme := types.TypeScheme{Body: types.TyFunc{
		Args: []types.Typ{types.AtomType(types.Lit(5))}, Return: types.TyBool, Effects: types.NoEffect(),
	}}
	e = e.ExtendScheme("h", hScheme)

	app := &ast.App{Func: varExpr("h"), Args: []ast.Expr{boolLit(true)}}
	res, err := Infer(context.Background(), e, app)
	if err != nil {
		t.Fatalf("expected h(true) to succeed via the per-argument cast fallback: %v", err)
	}
	if !types.StructEquals(res.Node.Ann.Type, types.TyBool) {
		t.Errorf("h(true) = %s, want bool", res.Node.Ann.Type)
	}
}

// --- Testable property: existential lift invariant ---

func TestPropertyExistentialLiftInvariant(t *testing.T) {
	e := newTestEnv(t)
	nested := types.TyTuple{Elems: []types.Typ{
		types.TyExist{
			Kids: []kind.KindedID{{Name: "'n", K: kind.Int}},
			NC:   types.NCCompare{Op: types.CmpGe, Left: types.NVar{Name: "'n"}, Right: types.Lit(0)},
			Body: types.AtomType(types.NVar{Name: "'n"}),
		},
		types.TyBool,
	}}
	canon, err := types.Canonicalise(nested, e.FreshKid)
	if err != nil {
		t.Fatal(err)
	}
	outer, ok := canon.(types.TyExist)
	if !ok {
		t.Fatalf("expected a tuple-nested existential to lift into one outer existential, got %T", canon)
	}
	if len(outer.Kids) != 1 {
		t.Errorf("expected exactly one lifted kid, got %d", len(outer.Kids))
	}
	if _, ok := outer.Body.(types.TyTuple); !ok {
		t.Errorf("lifted body should still be a tuple, got %T", outer.Body)
	}
}
