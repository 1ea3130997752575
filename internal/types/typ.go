package types

import (
	"strings"

	"github.com/sail-lang/sailcheck/internal/kind"
)

// Order is a bit-vector direction: a concrete increasing/decreasing literal
// or an Order-kinded variable.
type Order interface {
	order()
	String() string
}

// OConst is a concrete default-order literal.
type OConst struct{ Inc bool }

func (OConst) order() {}
func (o OConst) String() string {
	if o.Inc {
		return "inc"
	}
	return "dec"
}

// OVar is an Order-kinded variable.
type OVar struct{ Name string }

func (OVar) order() {}
func (o OVar) String() string { return o.Name }

// TypeArg is one argument to a type-constructor application: a type, an
// N-exp, or an order.
type TypeArg struct {
	T Typ
	N NExp
	O Order
}

func ArgT(t Typ) TypeArg { return TypeArg{T: t} }
func ArgN(n NExp) TypeArg { return TypeArg{N: n} }
func ArgO(o Order) TypeArg { return TypeArg{O: o} }

func (a TypeArg) String() string {
	switch {
	case a.T != nil:
		return a.T.String()
	case a.N != nil:
		return a.N.String()
	case a.O != nil:
		return a.O.String()
	default:
		return "<empty arg>"
	}
}

// Typ is a Sail type. Variants: base identifiers, type variables, function
// types, bidirectional types, tuples, type-constructor applications, and
// existentials. A distinguished Unknown sentinel is used only during
// mapping-clause elaboration.
type Typ interface {
	typ()
	String() string
}

// TyId is a base type identifier (int, bool, bit, string, unit, ...) or a
// user-declared type/record/union/enum name with no arguments.
type TyId struct{ Name string }

func (TyId) typ() {}
func (t TyId) String() string { return t.Name }

// TyVar is a Type-kinded type variable.
type TyVar struct{ Name string }

func (TyVar) typ() {}
func (t TyVar) String() string { return "'" + t.Name }

// TyFunc is a function type with an argument list, return type and effect
// set.
type TyFunc struct {
	Args    []Typ
	Return  Typ
	Effects EffectSet
}

func (TyFunc) typ() {}
func (t TyFunc) String() string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	eff := ""
	if len(t.Effects) > 0 {
		eff = " ! " + t.Effects.String()
	}
	return "(" + strings.Join(args, ", ") + ") -> " + t.Return.String() + eff
}

// TyBidir is T1 <-> T2, used for mappings.
type TyBidir struct{ Left, Right Typ }

func (TyBidir) typ() {}
func (t TyBidir) String() string { return t.Left.String() + " <-> " + t.Right.String() }

// TyTuple is a tuple of component types.
type TyTuple struct{ Elems []Typ }

func (TyTuple) typ() {}
func (t TyTuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// TyApp is the application of a named type constructor to a list of
// arguments, each a type, an N-exp, or an order.
type TyApp struct {
	Ctor string
	Args []TypeArg
}

func (TyApp) typ() {}
func (t TyApp) String() string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Ctor + "(" + strings.Join(args, ", ") + ")"
}

// TyExist is an existential: exists kids. NC. Body.
type TyExist struct {
	Kids []kind.KindedID
	NC   NConstraint
	Body Typ
}

func (TyExist) typ() {}
func (t TyExist) String() string {
	kids := make([]string, len(t.Kids))
	for i, k := range t.Kids {
		kids[i] = k.Name
	}
	return "exists " + strings.Join(kids, " ") + ". " + t.NC.String() + ". " + t.Body.String()
}

// TyUnknown is the distinguished sentinel used only during mapping-clause
// elaboration, before both sides of a bidirectional pattern are resolved.
type TyUnknown struct{}

func (TyUnknown) typ() {}
func (TyUnknown) String() string { return "?" }

// Convenience constructors for the glossary's named numeric types.

// AtomType builds atom(n), the singleton integer type.
func AtomType(n NExp) Typ { return TyApp{Ctor: "atom", Args: []TypeArg{ArgN(n)}} }

// RangeType builds range(lo, hi).
func RangeType(lo, hi NExp) Typ {
	return TyApp{Ctor: "range", Args: []TypeArg{ArgN(lo), ArgN(hi)}}
}

// Common base types.
var (
	TyInt    = TyId{Name: "int"}
	TyNat    = TyId{Name: "nat"}
	TyBool   = TyId{Name: "bool"}
	TyUnit   = TyId{Name: "unit"}
	TyString = TyId{Name: "string"}
	TyBit    = TyId{Name: "bit"}
)

// BitVectorType builds bitvector(n, order): a vector of bits of length n in the
// given default order.
func BitVectorType(n NExp, o Order) Typ {
	return TyApp{Ctor: "bitvector", Args: []TypeArg{ArgN(n), ArgO(o)}}
}

// VectorType builds vector(n, order, elem).
func VectorType(n NExp, o Order, elem Typ) Typ {
	return TyApp{Ctor: "vector", Args: []TypeArg{ArgN(n), ArgO(o), ArgT(elem)}}
}

// IsNumericType reports whether t is one of the forms subtyping rule 2
// dispatches on specially: atom(n), range(lo,hi), int, nat, or an
// existential whose body is itself numeric.
func IsNumericType(t Typ) bool {
	switch v := t.(type) {
	case TyId:
		return v.Name == "int" || v.Name == "nat"
	case TyApp:
		return v.Ctor == "atom" || v.Ctor == "range"
	case TyExist:
		return IsNumericType(v.Body)
	default:
		return false
	}
}

// DestructureNumeric pulls the (kids, nc, nexp) triple out of a numeric type
// for subtyping rule 2: atom(n) destructures to ([], true, n); range(lo,hi)
// to ([k], lo<=k && k<=hi, k) for a fresh kid k; int/nat destructure with no
// bound and a fresh unconstrained/non-negative kid; an existential
// destructures to its own kids/constraint plus its body's nexp.
func DestructureNumeric(t Typ, fresh func() string) (kids []string, nc NConstraint, nexp NExp) {
	switch v := t.(type) {
	case TyApp:
		if v.Ctor == "atom" {
			return nil, NCTrue{}, v.Args[0].N
		}
		if v.Ctor == "range" {
			k := fresh()
			lo, hi := v.Args[0].N, v.Args[1].N
			return []string{k}, And(NCCompare{Op: CmpLe, Left: lo, Right: NVar{Name: k}}, NCCompare{Op: CmpLe, Left: NVar{Name: k}, Right: hi}), NVar{Name: k}
		}
	case TyId:
		k := fresh()
		if v.Name == "nat" {
			return []string{k}, NCCompare{Op: CmpGe, Left: NVar{Name: k}, Right: Lit(0)}, NVar{Name: k}
		}
		return []string{k}, NCTrue{}, NVar{Name: k}
	case TyExist:
		// Freshen v's own binders before recursing: two destructured
		// existentials must never share a bound name, whether with each
		// other or with an unrelated fact already in the caller's
		// environment, or the numeric facts built from them would be
		// conflated under that shared name.
		subs := Empty()
		for _, kd := range v.Kids {
			subs.Num[kd.Name] = NVar{Name: fresh()}
		}
		freshNC := ApplyNumSubstC(subs, v.NC)
		freshBody := ApplyTy(subs, v.Body)
		innerKids, innerNC, innerNexp := DestructureNumeric(freshBody, fresh)
		allKids := make([]string, 0, len(v.Kids)+len(innerKids))
		for _, kd := range v.Kids {
			if nv, ok := subs.Num[kd.Name].(NVar); ok {
				allKids = append(allKids, nv.Name)
			}
		}
		allKids = append(allKids, innerKids...)
		return allKids, And(freshNC, innerNC), innerNexp
	}
	return nil, NCTrue{}, NConstant{Value: 0}
}

// JoinNumeric builds the least upper bound of two numeric types, the way an
// if-expression's branches combine when they disagree on an exact value:
// exists k. (nc1 && k = nexp1) || (nc2 && k = nexp2). atom(k). When both
// sides are plain literals with no extra kids (atom(1) vs atom(2)), this
// collapses to the more readable exists k, k in {1, 2}. atom(k).
func JoinNumeric(t1, t2 Typ, fresh func() string) Typ {
	kids1, nc1, nexp1 := DestructureNumeric(t1, fresh)
	kids2, nc2, nexp2 := DestructureNumeric(t2, fresh)
	k := fresh()
	kv := NVar{Name: k}

	if len(kids1) == 0 && len(kids2) == 0 && IsTrivialTrue(nc1) && IsTrivialTrue(nc2) {
		return TyExist{
			Kids: []kind.KindedID{{Name: k, K: kind.Int}},
			NC:   NCSet{Kid: k, Members: []NExp{nexp1, nexp2}},
			Body: AtomType(kv),
		}
	}

	branch1 := And(nc1, NCCompare{Op: CmpEq, Left: kv, Right: nexp1})
	branch2 := And(nc2, NCCompare{Op: CmpEq, Left: kv, Right: nexp2})

	allKids := make([]kind.KindedID, 0, len(kids1)+len(kids2)+1)
	for _, name := range kids1 {
		allKids = append(allKids, kind.KindedID{Name: name, K: kind.Int})
	}
	for _, name := range kids2 {
		allKids = append(allKids, kind.KindedID{Name: name, K: kind.Int})
	}
	allKids = append(allKids, kind.KindedID{Name: k, K: kind.Int})

	return TyExist{
		Kids: allKids,
		NC:   NCOr{Left: branch1, Right: branch2},
		Body: AtomType(kv),
	}
}
