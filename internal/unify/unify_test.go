package unify

import (
	"testing"

	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/kind"
	"github.com/sail-lang/sailcheck/internal/types"
)

func newTestEnv(t *testing.T) *env.Environment {
	t.Helper()
	s, err := env.NewSession(env.Policy{}, "omega")
	if err != nil {
		t.Fatal(err)
	}
	return env.NewRoot(s)
}

func TestUnifyBindsTypeVar(t *testing.T) {
	e := newTestEnv(t)
	s, err := Unify(e, types.TyVar{Name: "'a"}, types.TyId{Name: "bool"})
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := s.Ty["'a"]; !ok || got.String() != (types.TyId{Name: "bool"}).String() {
		t.Errorf("expected 'a bound to bool, got %v", s.Ty)
	}
}

func TestUnifyOccursCheckFails(t *testing.T) {
	e := newTestEnv(t)
	self := types.TyTuple{Elems: []types.Typ{types.TyVar{Name: "'a"}}}
	if _, err := Unify(e, types.TyVar{Name: "'a"}, self); err == nil {
		t.Error("expected an occurs-check failure unifying 'a with a tuple containing 'a")
	}
}

func TestUnifyMismatchedBaseTypes(t *testing.T) {
	e := newTestEnv(t)
	if _, err := Unify(e, types.TyId{Name: "bool"}, types.TyId{Name: "unit"}); err == nil {
		t.Error("expected unification of distinct base types to fail")
	}
}

func TestUnifyTupleArityMismatch(t *testing.T) {
	e := newTestEnv(t)
	a := types.TyTuple{Elems: []types.Typ{types.TyId{Name: "bool"}}}
	b := types.TyTuple{Elems: []types.Typ{types.TyId{Name: "bool"}, types.TyId{Name: "bool"}}}
	if _, err := Unify(e, a, b); err == nil {
		t.Error("expected differing tuple arities to fail unification")
	}
}

// TestUnifyExistSurfacesConstraint exercises property #2 (preservation of
// subtyping by unification): unifying an existential against a concrete
// atom surfaces the existential's numeric constraint rather than silently
// discharging it, so the caller can verify the concrete value actually
// satisfies it.
func TestUnifyExistSurfacesConstraint(t *testing.T) {
	e := newTestEnv(t)
	existType := types.TyExist{
		Kids: []kind.KindedID{{Name: "'n", K: kind.Int}},
		NC:   types.NCCompare{Op: types.CmpGe, Left: types.NVar{Name: "'n"}, Right: types.Lit(0)},
		Body: types.AtomType(types.NVar{Name: "'n"}),
	}
	concrete := types.AtomType(types.Lit(5))
	_, nc, err := UnifyExist(e, existType, concrete)
	if err != nil {
		t.Fatal(err)
	}
	if types.IsTrivialTrue(nc) {
		t.Error("expected UnifyExist to surface the existential's numeric constraint, got trivially true")
	}
}

func TestUnifyNExpBindsVariable(t *testing.T) {
	s, err := UnifyNExp(types.NVar{Name: "'n"}, types.Lit(3))
	if err != nil {
		t.Fatal(err)
	}
	bound, ok := s.Num["'n"]
	if !ok {
		t.Fatal("expected 'n to be bound")
	}
	if types.NExpEquals(bound, types.Lit(3)) == false {
		t.Errorf("expected 'n bound to 3, got %v", bound)
	}
}

func TestUnifyNExpGroundRewrite(t *testing.T) {
	// x + 1 = 4  =>  x = 3
	expr := types.Add(types.NVar{Name: "x"}, types.Lit(1))
	s, err := UnifyNExp(expr, types.Lit(4))
	if err != nil {
		t.Fatal(err)
	}
	bound, ok := s.Num["x"]
	if !ok || !types.NExpEquals(bound, types.Lit(3)) {
		t.Errorf("expected x bound to 3, got %v (ok=%v)", bound, ok)
	}
}

func TestUnifyNExpDistinctLiteralsFail(t *testing.T) {
	if _, err := UnifyNExp(types.Lit(1), types.Lit(2)); err == nil {
		t.Error("expected distinct numeric literals to fail unification")
	}
}

func TestUnifyNExpMulIsolate(t *testing.T) {
	// 2 * x = 6  =>  x = 3
	expr := types.Mul(types.Lit(2), types.NVar{Name: "x"})
	s, err := UnifyNExp(expr, types.Lit(6))
	if err != nil {
		t.Fatal(err)
	}
	bound, ok := s.Num["x"]
	if !ok || !types.NExpEquals(bound, types.Lit(3)) {
		t.Errorf("expected x bound to 3, got %v (ok=%v)", bound, ok)
	}
}
