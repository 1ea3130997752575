package oracle

import (
	"context"
	"testing"

	"github.com/sail-lang/sailcheck/internal/types"
)

func n(name string) types.NVar { return types.NVar{Name: name} }

func TestOracleProveTrivialTrue(t *testing.T) {
	o, err := New("omega", &Init{})
	if err != nil {
		t.Fatal(err)
	}
	verdict, err := o.Prove(context.Background(), Facts{}, types.NCTrue{})
	if err != nil {
		t.Fatal(err)
	}
	if verdict != Proved {
		t.Errorf("trivial true goal should be Proved, got %v", verdict)
	}
}

func TestOracleProveTrivialFalse(t *testing.T) {
	o, err := New("omega", &Init{})
	if err != nil {
		t.Fatal(err)
	}
	verdict, err := o.Prove(context.Background(), Facts{}, types.NCFalse{})
	if err != nil {
		t.Fatal(err)
	}
	if verdict != Disproved {
		t.Errorf("trivial false goal should be Disproved, got %v", verdict)
	}
}

func TestOracleProveFromFacts(t *testing.T) {
	o, err := New("omega", &Init{})
	if err != nil {
		t.Fatal(err)
	}
	// x == 3 entails x <= 5.
	facts := Facts{Assumptions: []types.NConstraint{
		types.NCCompare{Op: types.CmpEq, Left: n("x"), Right: types.Lit(3)},
	}}
	goal := types.NCCompare{Op: types.CmpLe, Left: n("x"), Right: types.Lit(5)}
	verdict, err := o.Prove(context.Background(), facts, goal)
	if err != nil {
		t.Fatal(err)
	}
	if verdict != Proved {
		t.Errorf("x==3 should prove x<=5, got %v", verdict)
	}
}

func TestOracleProveDisprovedFromFacts(t *testing.T) {
	o, err := New("omega", &Init{})
	if err != nil {
		t.Fatal(err)
	}
	// x == 7 does not entail x <= 5.
	facts := Facts{Assumptions: []types.NConstraint{
		types.NCCompare{Op: types.CmpEq, Left: n("x"), Right: types.Lit(7)},
	}}
	goal := types.NCCompare{Op: types.CmpLe, Left: n("x"), Right: types.Lit(5)}
	verdict, err := o.Prove(context.Background(), facts, goal)
	if err != nil {
		t.Fatal(err)
	}
	if verdict != Disproved {
		t.Errorf("x==7 should disprove x<=5, got %v", verdict)
	}
}

func TestOracleSolveUsesFacts(t *testing.T) {
	o, err := New("omega", &Init{})
	if err != nil {
		t.Fatal(err)
	}
	// facts pin k == 4; a trivially-true goal must let that witness through.
	facts := Facts{Assumptions: []types.NConstraint{
		types.NCCompare{Op: types.CmpEq, Left: n("k"), Right: types.Lit(4)},
	}}
	val, ok, err := o.Solve(context.Background(), facts, "k", types.NCTrue{})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a witness for k given facts pinning it to 4")
	}
	if val != 4 {
		t.Errorf("Solve(k, true) under k==4 = %d, want 4", val)
	}
}

func TestOracleSolveNoWitness(t *testing.T) {
	o, err := New("omega", &Init{})
	if err != nil {
		t.Fatal(err)
	}
	// k == 4 && k == 5 is unsatisfiable: no witness exists.
	facts := Facts{Assumptions: []types.NConstraint{
		types.NCCompare{Op: types.CmpEq, Left: n("k"), Right: types.Lit(4)},
		types.NCCompare{Op: types.CmpEq, Left: n("k"), Right: types.Lit(5)},
	}}
	_, ok, err := o.Solve(context.Background(), facts, "k", types.NCTrue{})
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected no witness for an unsatisfiable fact set")
	}
}

func TestLookupFallsBackToDefault(t *testing.T) {
	s, err := Lookup("no-such-solver-registered")
	if err != nil {
		t.Fatalf("Lookup should fall back to the default solver, got error: %v", err)
	}
	if s == nil {
		t.Fatal("Lookup returned a nil solver")
	}
}

func TestLookupOmegaIsRegistered(t *testing.T) {
	s, err := Lookup("omega")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*OmegaSolver); !ok {
		t.Errorf("Lookup(\"omega\") = %T, want *OmegaSolver", s)
	}
}
