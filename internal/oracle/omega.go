package oracle

import (
	"context"

	"github.com/sail-lang/sailcheck/internal/types"
)

// OmegaSolver is a bounded decision procedure for conjunctions of linear
// integer (in)equalities over a handful of free variables, in the spirit of
// the Omega test: every atom is first flattened into a "coefficients plus
// constant" linear form, then satisfiability is settled by bounded
// exhaustive search over a small search box. Anything that escapes this
// fragment — any NApp, NPow2 or non-linear product, or a system with more
// than three free variables — is reported Unknown rather than guessed at.
type OmegaSolver struct {
	init *Init
}

// searchBound is the half-width of the per-variable box the exhaustive
// fallback enumerates; this is a width Sail's own small numeric-kind
// programs (bit-vector lengths, small enum cardinalities) comfortably fit
// inside, and is cheap enough to try before giving up with Unknown.
const searchBound = 256

func (s *OmegaSolver) Init(init *Init) error {
	s.init = init
	return nil
}

func (s *OmegaSolver) logf(format string, args ...interface{}) {
	if s.init != nil && s.init.Debug && s.init.Logf != nil {
		s.init.Logf(format, args...)
	}
}

func (s *OmegaSolver) Prove(ctx context.Context, facts Facts, goal types.NConstraint) (Verdict, error) {
	// Entailment facts |= goal reduces to unsatisfiability of facts ∧ ¬goal.
	assumption := types.AndAll(facts.Assumptions)
	negGoal := types.Negate(goal)
	combined := types.And(assumption, negGoal)

	sys, ok := flattenConstraint(combined, facts.KnownConstants)
	if !ok {
		s.logf("omega: goal escapes linear fragment, returning Unknown")
		return Unknown, nil
	}
	sat, definite := sys.satisfiable()
	if !definite {
		return Unknown, nil
	}
	if sat {
		return Disproved, nil // facts ∧ ¬goal is satisfiable: goal is not entailed
	}
	return Proved, nil
}

func (s *OmegaSolver) Solve(ctx context.Context, facts Facts, kid string, goal types.NConstraint) (int64, bool, error) {
	assumption := types.AndAll(facts.Assumptions)
	sys, ok := flattenConstraint(types.And(assumption, goal), facts.KnownConstants)
	if !ok {
		return 0, false, nil
	}
	vars := sys.freeVars()
	if _, present := vars[kid]; !present {
		// kid doesn't occur: any witness does, try 0 first.
		assignment := map[string]int64{}
		for v := range vars {
			assignment[v] = 0
		}
		if sys.holds(assignment) {
			return 0, true, nil
		}
	}
	assignment, ok := sys.search(vars)
	if !ok {
		return 0, false, nil
	}
	n, present := assignment[kid]
	if !present {
		return 0, false, nil
	}
	return n, true, nil
}

// linAtom is a flattened linear (in)equality: sum(coeffs[v]*v) + const <cmp> 0.
type linAtom struct {
	coeffs map[string]int64
	cst    int64
	// cmp is one of "==", "!=", "<=" meaning (sum+cst) <cmp> 0.
	cmp string
}

// linSystem is a disjunction of conjunctions of linAtoms (disjunctive
// normal form), produced by flattening an NConstraint tree. NCOr widens the
// clause list; NCAnd multiplies every left clause against every right
// clause.
type linSystem struct {
	clauses [][]linAtom
}

func flattenConstraint(c types.NConstraint, known map[string]int64) (linSystem, bool) {
	switch v := c.(type) {
	case types.NCTrue:
		return linSystem{clauses: [][]linAtom{{}}}, true
	case types.NCFalse:
		return linSystem{clauses: nil}, true
	case types.NCCompare:
		atom, ok := flattenCompare(v, known)
		if !ok {
			return linSystem{}, false
		}
		return linSystem{clauses: [][]linAtom{{atom}}}, true
	case types.NCSet:
		// kid in {m1, m2, ...} flattens to a disjunction of equalities.
		var clauses [][]linAtom
		for _, m := range v.Members {
			atom, ok := flattenCompare(types.NCCompare{Op: types.CmpEq, Left: types.NVar{Name: v.Kid}, Right: m}, known)
			if !ok {
				return linSystem{}, false
			}
			clauses = append(clauses, []linAtom{atom})
		}
		return linSystem{clauses: clauses}, true
	case types.NCAnd:
		l, ok := flattenConstraint(v.Left, known)
		if !ok {
			return linSystem{}, false
		}
		r, ok := flattenConstraint(v.Right, known)
		if !ok {
			return linSystem{}, false
		}
		var clauses [][]linAtom
		for _, lc := range l.clauses {
			for _, rc := range r.clauses {
				merged := append(append([]linAtom{}, lc...), rc...)
				clauses = append(clauses, merged)
			}
		}
		return linSystem{clauses: clauses}, true
	case types.NCOr:
		l, ok := flattenConstraint(v.Left, known)
		if !ok {
			return linSystem{}, false
		}
		r, ok := flattenConstraint(v.Right, known)
		if !ok {
			return linSystem{}, false
		}
		return linSystem{clauses: append(append([][]linAtom{}, l.clauses...), r.clauses...)}, true
	default:
		return linSystem{}, false // NCApp: uninterpreted, escapes the fragment
	}
}

func flattenCompare(c types.NCCompare, known map[string]int64) (linAtom, bool) {
	lCoeffs, lCst, ok := flattenNExp(c.Left, known)
	if !ok {
		return linAtom{}, false
	}
	rCoeffs, rCst, ok := flattenNExp(c.Right, known)
	if !ok {
		return linAtom{}, false
	}
	coeffs := map[string]int64{}
	for k, v := range lCoeffs {
		coeffs[k] += v
	}
	for k, v := range rCoeffs {
		coeffs[k] -= v
	}
	cst := lCst - rCst
	switch c.Op {
	case types.CmpEq:
		return linAtom{coeffs: coeffs, cst: cst, cmp: "=="}, true
	case types.CmpNeq:
		return linAtom{coeffs: coeffs, cst: cst, cmp: "!="}, true
	case types.CmpLe:
		return linAtom{coeffs: coeffs, cst: cst, cmp: "<="}, true
	case types.CmpGe:
		// l >= r  <=>  -(l-r) <= 0
		neg := map[string]int64{}
		for k, v := range coeffs {
			neg[k] = -v
		}
		return linAtom{coeffs: neg, cst: -cst, cmp: "<="}, true
	}
	return linAtom{}, false
}

// flattenNExp reduces an N-exp to coefficients over free variables plus a
// constant, resolving any NConst against known. Multiplication by anything
// other than a literal, and any NApp, escapes the linear fragment.
func flattenNExp(n types.NExp, known map[string]int64) (map[string]int64, int64, bool) {
	switch e := types.Simplify(n).(type) {
	case types.NConstant:
		return map[string]int64{}, e.Value, true
	case types.NVar:
		return map[string]int64{e.Name: 1}, 0, true
	case types.NConst:
		if v, ok := known[e.Name]; ok {
			return map[string]int64{}, v, true
		}
		return map[string]int64{e.Name: 1}, 0, true // unresolved constant treated as an opaque variable
	case types.NNeg:
		c, cst, ok := flattenNExp(e.Operand, known)
		if !ok {
			return nil, 0, false
		}
		neg := map[string]int64{}
		for k, v := range c {
			neg[k] = -v
		}
		return neg, -cst, true
	case types.NBinary:
		lc, lcst, ok := flattenNExp(e.Left, known)
		if !ok {
			return nil, 0, false
		}
		rc, rcst, ok := flattenNExp(e.Right, known)
		if !ok {
			return nil, 0, false
		}
		switch e.Op {
		case types.OpAdd:
			return mergeCoeffs(lc, rc, 1), lcst + rcst, true
		case types.OpSub:
			return mergeCoeffs(lc, rc, -1), lcst - rcst, true
		case types.OpMul:
			// Linear only if one side is a pure constant (no free vars).
			if len(lc) == 0 {
				return scaleCoeffs(rc, lcst), rcst * lcst, true
			}
			if len(rc) == 0 {
				return scaleCoeffs(lc, rcst), lcst * rcst, true
			}
			return nil, 0, false
		}
	}
	return nil, 0, false // NPow2 and anything else escapes the fragment
}

func mergeCoeffs(a, b map[string]int64, sign int64) map[string]int64 {
	out := map[string]int64{}
	for k, v := range a {
		out[k] += v
	}
	for k, v := range b {
		out[k] += sign * v
	}
	return out
}

func scaleCoeffs(a map[string]int64, factor int64) map[string]int64 {
	out := map[string]int64{}
	for k, v := range a {
		out[k] = v * factor
	}
	return out
}

func (s linSystem) freeVars() map[string]bool {
	free := map[string]bool{}
	for _, clause := range s.clauses {
		for _, atom := range clause {
			for v := range atom.coeffs {
				free[v] = true
			}
		}
	}
	return free
}

func (a linAtom) eval(assignment map[string]int64) int64 {
	total := a.cst
	for v, coeff := range a.coeffs {
		total += coeff * assignment[v]
	}
	return total
}

func (a linAtom) holds(assignment map[string]int64) bool {
	v := a.eval(assignment)
	switch a.cmp {
	case "==":
		return v == 0
	case "!=":
		return v != 0
	case "<=":
		return v <= 0
	}
	return false
}

func (s linSystem) holds(assignment map[string]int64) bool {
	for _, clause := range s.clauses {
		ok := true
		for _, atom := range clause {
			if !atom.holds(assignment) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// satisfiable reports whether s has any satisfying assignment within the
// search box; definite is false when the variable count is too large for
// the box to be an exhaustive check (too many variables to brute force),
// in which case the caller should treat the result as Unknown.
func (s linSystem) satisfiable() (sat bool, definite bool) {
	if len(s.clauses) == 0 {
		return false, true // false (empty disjunction)
	}
	vars := s.freeVars()
	if len(vars) == 0 {
		return s.holds(map[string]int64{}), true
	}
	if len(vars) > 3 {
		return false, false // too wide to brute force; report Unknown
	}
	_, ok := s.search(vars)
	return ok, true
}

// search exhaustively enumerates assignments for vars within
// [-searchBound, searchBound] and returns the first one satisfying s.
func (s linSystem) search(vars map[string]bool) (map[string]int64, bool) {
	names := make([]string, 0, len(vars))
	for v := range vars {
		names = append(names, v)
	}
	if len(names) > 3 {
		return nil, false
	}
	assignment := make(map[string]int64, len(names))
	var rec func(i int) bool
	rec = func(i int) bool {
		if i == len(names) {
			return s.holds(assignment)
		}
		for n := int64(-searchBound); n <= searchBound; n++ {
			assignment[names[i]] = n
			if rec(i + 1) {
				return true
			}
		}
		return false
	}
	if rec(0) {
		return assignment, true
	}
	return nil, false
}
