package unify

import (
	"github.com/sail-lang/sailcheck/internal/types"
)

// UnifyNExp unifies two N-exps. The algorithm tries, in order: syntactic
// identity after simplification; ground-value consistency; binding a bare
// variable on either side (goal-bind); rewriting a ground additive/
// subtractive combination to isolate a single variable; and, for
// multiplication, two strategies — isolating a variable when the other
// factor is a nonzero ground constant, or matching two applications of the
// same named function pointwise.
func UnifyNExp(a, b types.NExp) (types.Subst, error) {
	a = types.Simplify(a)
	b = types.Simplify(b)

	if types.NExpEquals(a, b) {
		return types.Empty(), nil
	}

	if av, ok := a.(types.NConstant); ok {
		if bv, ok := b.(types.NConstant); ok {
			if av.Value == bv.Value {
				return types.Empty(), nil
			}
			return types.Subst{}, stringerErr(a, b, "distinct numeric literals")
		}
	}

	if av, ok := a.(types.NVar); ok {
		return bindNVar(av.Name, b)
	}
	if bv, ok := b.(types.NVar); ok {
		return bindNVar(bv.Name, a)
	}

	// Ground-rewrite: n1 + n2 = n3 (or n1 - n2 = n3) where exactly one of
	// the operands is a bare variable and everything else simplifies to a
	// constant isolates that variable by inverting the operator.
	if s, ok, err := tryGroundRewrite(a, b); ok {
		return s, err
	}
	if s, ok, err := tryGroundRewrite(b, a); ok {
		return s, err
	}

	// Multiplication strategy 1: k * x = c (k, c ground) isolates x = c/k
	// when k divides c exactly.
	if s, ok, err := tryMulIsolate(a, b); ok {
		return s, err
	}
	if s, ok, err := tryMulIsolate(b, a); ok {
		return s, err
	}

	// Multiplication strategy 2 / uninterpreted application: two
	// applications of the same named function unify pointwise on their
	// arguments.
	if av, ok := a.(types.NApp); ok {
		if bv, ok := b.(types.NApp); ok && av.Name == bv.Name && len(av.Args) == len(bv.Args) {
			subs := types.Empty()
			for i := range av.Args {
				s, err := UnifyNExp(types.ApplyNumSubst(subs, av.Args[i]), types.ApplyNumSubst(subs, bv.Args[i]))
				if err != nil {
					return types.Subst{}, err
				}
				subs = types.Compose(subs, s)
			}
			return subs, nil
		}
	}

	return types.Subst{}, stringerErr(a, b, "numeric expressions do not unify")
}

func bindNVar(name string, n types.NExp) (types.Subst, error) {
	if nv, ok := n.(types.NVar); ok && nv.Name == name {
		return types.Empty(), nil
	}
	if occursNum(name, n) {
		return types.Subst{}, stringerErr(types.NVar{Name: name}, n, "occurs check failed")
	}
	s := types.Empty()
	s.Num[name] = n
	return s, nil
}

func occursNum(name string, n types.NExp) bool {
	return types.FreeNumVars(n)[name]
}

// tryGroundRewrite handles lhs = rhs where lhs is `x op k` (x a bare
// variable, k a literal, op +/-) and rhs simplifies to a literal: it
// isolates x = rhs ∓ k.
func tryGroundRewrite(lhs, rhs types.NExp) (types.Subst, bool, error) {
	bin, ok := lhs.(types.NBinary)
	if !ok || (bin.Op != types.OpAdd && bin.Op != types.OpSub) {
		return types.Subst{}, false, nil
	}
	rc, ok := rhs.(types.NConstant)
	if !ok {
		return types.Subst{}, false, nil
	}
	xVar, xOnLeft, k, kOk := isolateVar(bin)
	if !kOk {
		return types.Subst{}, false, nil
	}
	var value int64
	switch {
	case bin.Op == types.OpAdd:
		value = rc.Value - k
	case bin.Op == types.OpSub && xOnLeft:
		value = rc.Value + k
	case bin.Op == types.OpSub && !xOnLeft:
		value = k - rc.Value
	}
	s := types.Empty()
	s.Num[xVar] = types.NConstant{Value: value}
	return s, true, nil
}

// isolateVar reports whether exactly one side of bin is a bare variable and
// the other a literal, returning the variable name, whether it was the left
// operand, and the literal value.
func isolateVar(bin types.NBinary) (name string, onLeft bool, k int64, ok bool) {
	lv, lIsVar := bin.Left.(types.NVar)
	rc, rIsConst := bin.Right.(types.NConstant)
	if lIsVar && rIsConst {
		return lv.Name, true, rc.Value, true
	}
	rv, rIsVar := bin.Right.(types.NVar)
	lc, lIsConst := bin.Left.(types.NConstant)
	if rIsVar && lIsConst {
		return rv.Name, false, lc.Value, true
	}
	return "", false, 0, false
}

// tryMulIsolate handles lhs = rhs where lhs is `k * x` or `x * k` (k a
// nonzero literal) and rhs is a literal divisible by k.
func tryMulIsolate(lhs, rhs types.NExp) (types.Subst, bool, error) {
	bin, ok := lhs.(types.NBinary)
	if !ok || bin.Op != types.OpMul {
		return types.Subst{}, false, nil
	}
	rc, ok := rhs.(types.NConstant)
	if !ok {
		return types.Subst{}, false, nil
	}
	var varName string
	var k int64
	if lv, ok := bin.Left.(types.NVar); ok {
		if kc, ok := bin.Right.(types.NConstant); ok && kc.Value != 0 {
			varName, k = lv.Name, kc.Value
		}
	}
	if varName == "" {
		if rv, ok := bin.Right.(types.NVar); ok {
			if kc, ok := bin.Left.(types.NConstant); ok && kc.Value != 0 {
				varName, k = rv.Name, kc.Value
			}
		}
	}
	if varName == "" {
		return types.Subst{}, false, nil
	}
	if rc.Value%k != 0 {
		return types.Subst{}, true, stringerErr(lhs, rhs, "no integer solution for multiplicative isolation")
	}
	s := types.Empty()
	s.Num[varName] = types.NConstant{Value: rc.Value / k}
	return s, true, nil
}
