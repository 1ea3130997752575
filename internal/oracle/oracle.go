// Package oracle implements the constraint oracle: the decision procedure
// the checker consults whenever a numeric obligation cannot be discharged
// syntactically.
//
// The oracle is pluggable: a Solver is registered by name and looked up
// from a Session's configured strategy, mirroring how a type-inference
// engine keeps its unification backend swappable rather than hard-wired.
package oracle

import (
	"context"
	"fmt"
	"sort"

	"github.com/sail-lang/sailcheck/internal/types"
)

// Verdict is the three-valued result a Solver may return: a numeric
// constraint over unbounded integers is not, in general, decidable once
// uninterpreted NApp symbols are involved, so "don't know" is a legitimate
// answer distinct from "false".
type Verdict int

const (
	Unknown Verdict = iota
	Proved
	Disproved
)

// Facts is the read-only view of environment state a Solver needs: the
// accumulated constraint list (conjoined assumptions) and a lookup from
// NApp/NConst names to whatever uninterpreted symbol table the environment
// maintains. The oracle package never imports env directly — env imports
// oracle — so Facts is the narrow interface env satisfies.
type Facts struct {
	// Assumptions are the environment's accumulated constraints (already
	// in scope): flow-sensitive refinements, let/assert propositions,
	// function argument constraints.
	Assumptions []types.NConstraint
	// KnownConstants maps a registered numeric constant's name to its
	// fixed value, when known.
	KnownConstants map[string]int64
}

// Init carries the handles a Solver needs before its first query.
type Init struct {
	Debug bool
	Logf  func(format string, args ...interface{})
}

// Solver is the oracle's pluggable backend.
type Solver interface {
	Init(init *Init) error
	// Prove reports whether goal is entailed by facts.
	Prove(ctx context.Context, facts Facts, goal types.NConstraint) (Verdict, error)
	// Solve searches for an integer witness n: the value kid takes in some
	// assignment satisfying facts together with goal; ok is false when
	// no witness was found within the solver's search bound.
	Solve(ctx context.Context, facts Facts, kid string, goal types.NConstraint) (n int64, ok bool, err error)
}

var registry = map[string]func() Solver{}

// Register installs a Solver constructor under name. A blank name
// registers the default solver used when a Session's strategy does not
// name one explicitly.
func Register(name string, ctor func() Solver) {
	registry[name] = ctor
}

// Lookup constructs a fresh Solver instance for name, falling back to the
// default ("") registration.
func Lookup(name string) (Solver, error) {
	ctor, ok := registry[name]
	if !ok {
		ctor, ok = registry[""]
	}
	if !ok {
		return nil, fmt.Errorf("oracle: no solver registered for %q and no default", name)
	}
	return ctor(), nil
}

func init() {
	Register("", func() Solver { return &OmegaSolver{} })
	Register("omega", func() Solver { return &OmegaSolver{} })
}

// Oracle wraps a configured Solver with the trivial syntactic fast path
// every query attempts first, so the (comparatively expensive) decision
// procedure is only invoked when the goal is not an immediate syntactic
// tautology.
type Oracle struct {
	Solver Solver
}

// New constructs an Oracle around the named solver.
func New(solverName string, init *Init) (*Oracle, error) {
	s, err := Lookup(solverName)
	if err != nil {
		return nil, err
	}
	if err := s.Init(init); err != nil {
		return nil, fmt.Errorf("oracle: initializing solver %q: %w", solverName, err)
	}
	return &Oracle{Solver: s}, nil
}

// Prove reports whether goal holds given facts, trying the syntactic
// shortcut first.
func (o *Oracle) Prove(ctx context.Context, facts Facts, goal types.NConstraint) (Verdict, error) {
	if types.IsTrivialTrue(goal) {
		return Proved, nil
	}
	if _, isFalse := goal.(types.NCFalse); isFalse {
		return Disproved, nil
	}
	for _, a := range facts.Assumptions {
		if constraintSyntacticallyImplies(a, goal) {
			return Proved, nil
		}
	}
	return o.Solver.Prove(ctx, facts, goal)
}

// Solve asks for a witness for kid satisfying goal.
func (o *Oracle) Solve(ctx context.Context, facts Facts, kid string, goal types.NConstraint) (int64, bool, error) {
	return o.Solver.Solve(ctx, facts, kid, goal)
}

// constraintSyntacticallyImplies is the cheap check: an assumption that is
// textually identical to the goal (after simplification) discharges it
// without delegating to the solver.
func constraintSyntacticallyImplies(assumption, goal types.NConstraint) bool {
	ac, aok := assumption.(types.NCCompare)
	gc, gok := goal.(types.NCCompare)
	if !aok || !gok {
		return false
	}
	return ac.Op == gc.Op &&
		types.NExpEquals(ac.Left, gc.Left) &&
		types.NExpEquals(ac.Right, gc.Right)
}

// sortedConstantNames returns the keys of a facts.KnownConstants map in
// sorted order (map order is randomised by the runtime). No solver in this
// package calls it.
func sortedConstantNames(m map[string]int64) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
