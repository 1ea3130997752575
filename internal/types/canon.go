package types

import "github.com/sail-lang/sailcheck/internal/kind"

// Canonicalise transforms a type into its normal form: nested existentials
// are flattened into one, and any existential appearing as a tuple
// component or type-constructor argument is lifted into one outer
// existential merging N-constraints by conjunction. Function arguments are
// never reordered. Canonicalisation fails if a function type would end up
// with an existential in a non-return position after lifting attempts a
// scope it cannot reach.
func Canonicalise(t Typ, fresh func() string) (Typ, error) {
	body, kids, nc, err := canonLift(t, fresh)
	if err != nil {
		return nil, err
	}
	if len(kids) == 0 {
		return body, nil
	}
	return TyExist{Kids: kids, NC: nc, Body: body}, nil
}

// CanonicaliseSchemeBody canonicalises a value-spec's body (almost always a
// TyFunc): existentials lifted out of its argument positions are merged
// into the returned extra quantifier/constraints rather than wrapped as an
// outer existential, because a scheme's body must remain literally a
// function type.
func CanonicaliseSchemeBody(t Typ, fresh func() string) (body Typ, extraKids []kind.KindedID, extraNC NConstraint, err error) {
	return canonLift(t, fresh)
}

func canonLift(t Typ, fresh func() string) (Typ, []kind.KindedID, NConstraint, error) {
	switch v := t.(type) {
	case TyExist:
		innerBody, innerKids, innerNC, err := canonLift(v.Body, fresh)
		if err != nil {
			return nil, nil, nil, err
		}
		kids := append(append([]kind.KindedID{}, v.Kids...), innerKids...)
		return innerBody, kids, And(v.NC, innerNC), nil

	case TyTuple:
		newElems := make([]Typ, len(v.Elems))
		var kids []kind.KindedID
		var nc NConstraint = NCTrue{}
		for i, e := range v.Elems {
			b, k, n, err := canonLift(e, fresh)
			if err != nil {
				return nil, nil, nil, err
			}
			b, k, n = freshenCollisions(b, k, n, kids, fresh)
			newElems[i] = b
			kids = append(kids, k...)
			nc = And(nc, n)
		}
		return TyTuple{Elems: newElems}, kids, nc, nil

	case TyApp:
		newArgs := make([]TypeArg, len(v.Args))
		var kids []kind.KindedID
		var nc NConstraint = NCTrue{}
		for i, a := range v.Args {
			if a.T == nil {
				newArgs[i] = a
				continue
			}
			b, k, n, err := canonLift(a.T, fresh)
			if err != nil {
				return nil, nil, nil, err
			}
			b, k, n = freshenCollisions(b, k, n, kids, fresh)
			newArgs[i] = ArgT(b)
			kids = append(kids, k...)
			nc = And(nc, n)
		}
		return TyApp{Ctor: v.Ctor, Args: newArgs}, kids, nc, nil

	case TyFunc:
		newArgs := make([]Typ, len(v.Args))
		var kids []kind.KindedID
		var nc NConstraint = NCTrue{}
		for i, a := range v.Args {
			b, k, n, err := canonLift(a, fresh)
			if err != nil {
				return nil, nil, nil, err
			}
			if len(k) > 0 {
				if _, isFunc := b.(TyFunc); isFunc {
					return nil, nil, nil, &CanonError{
						Msg: "canonicalisation: higher-order argument would leave an existential in a non-return position",
					}
				}
				// Lifted from a first-order argument: fold into this
				// function's own quantifier, after freshening away any
				// name already claimed by a sibling argument.
				b, k, n = freshenCollisions(b, k, n, kids, fresh)
				kids = append(kids, k...)
				nc = And(nc, n)
			}
			newArgs[i] = b
		}
		retCanon, err := Canonicalise(v.Return, fresh)
		if err != nil {
			return nil, nil, nil, err
		}
		return TyFunc{Args: newArgs, Return: retCanon, Effects: v.Effects}, kids, nc, nil

	case TyBidir:
		left, err := Canonicalise(v.Left, fresh)
		if err != nil {
			return nil, nil, nil, err
		}
		right, err := Canonicalise(v.Right, fresh)
		if err != nil {
			return nil, nil, nil, err
		}
		return TyBidir{Left: left, Right: right}, nil, NCTrue{}, nil

	default:
		return t, nil, NCTrue{}, nil
	}
}

// freshenCollisions alpha-renames any kid in k that already appears in
// taken, so merging existentials from sibling tuple/app positions never
// accidentally captures a name.
func freshenCollisions(body Typ, k []kind.KindedID, nc NConstraint, taken []kind.KindedID, fresh func() string) (Typ, []kind.KindedID, NConstraint) {
	takenSet := map[string]bool{}
	for _, t := range taken {
		takenSet[t.Name] = true
	}
	renamed := make([]kind.KindedID, len(k))
	changed := false
	subs := Subst{Ty: TySubst{}, Num: NumSubst{}, Order: OrderSubst{}}
	for i, kd := range k {
		if takenSet[kd.Name] {
			newName := fresh()
			renamed[i] = kind.KindedID{Name: newName, K: kd.K}
			changed = true
			switch kd.K {
			case kind.Int:
				subs.Num[kd.Name] = NVar{Name: newName}
			case kind.Type:
				subs.Ty[kd.Name] = TyVar{Name: newName}
			case kind.Order:
				subs.Order[kd.Name] = OVar{Name: newName}
			}
		} else {
			renamed[i] = kd
		}
	}
	if !changed {
		return body, k, nc
	}
	return ApplyTy(subs, body), renamed, ApplyNumSubstC(subs, nc)
}

// CanonError reports a canonicalisation failure — always a user error,
// never an internal invariant violation.
type CanonError struct{ Msg string }

func (e *CanonError) Error() string { return e.Msg }
