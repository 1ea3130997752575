package types

// StructEquals is strict structural identity: type variables must share the
// same name. Used for "stripped-location equality" rather than renaming.
func StructEquals(a, b Typ) bool {
	return alphaEq(a, b, nil)
}

// AlphaEquals decides type equality up to renaming of bound (existential)
// variables. this is what Typ_bidir's
// "structurally equal sides" check and the "α-equivalent" subtyping rule
// both use.
func AlphaEquals(a, b Typ) bool {
	return alphaEq(a, b, map[string]string{})
}

// renaming, when non-nil, maps a-side existential kid names to the b-side
// names they correspond to; nil means "require literal identity" (used by
// StructEquals internally, which never populates any entry).
func alphaEq(a, b Typ, renaming map[string]string) bool {
	switch av := a.(type) {
	case TyId:
		bv, ok := b.(TyId)
		return ok && av.Name == bv.Name
	case TyVar:
		bv, ok := b.(TyVar)
		if !ok {
			return false
		}
		if renaming != nil {
			if mapped, seen := renaming[av.Name]; seen {
				return mapped == bv.Name
			}
		}
		return av.Name == bv.Name
	case TyFunc:
		bv, ok := b.(TyFunc)
		if !ok || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !alphaEq(av.Args[i], bv.Args[i], renaming) {
				return false
			}
		}
		return alphaEq(av.Return, bv.Return, renaming) && av.Effects.Equals(bv.Effects)
	case TyBidir:
		bv, ok := b.(TyBidir)
		return ok && alphaEq(av.Left, bv.Left, renaming) && alphaEq(av.Right, bv.Right, renaming)
	case TyTuple:
		bv, ok := b.(TyTuple)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !alphaEq(av.Elems[i], bv.Elems[i], renaming) {
				return false
			}
		}
		return true
	case TyApp:
		bv, ok := b.(TyApp)
		if !ok || av.Ctor != bv.Ctor || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !argEq(av.Args[i], bv.Args[i], renaming) {
				return false
			}
		}
		return true
	case TyExist:
		bv, ok := b.(TyExist)
		if !ok || len(av.Kids) != len(bv.Kids) {
			return false
		}
		inner := renaming
		if renaming != nil {
			inner = cloneRenaming(renaming)
			for i, k := range av.Kids {
				if k.K != bv.Kids[i].K {
					return false
				}
				inner[k.Name] = bv.Kids[i].Name
			}
		}
		return nconstraintAlphaEq(av.NC, bv.NC, inner) && alphaEq(av.Body, bv.Body, inner)
	case TyUnknown:
		_, ok := b.(TyUnknown)
		return ok
	default:
		return false
	}
}

func argEq(a, b TypeArg, renaming map[string]string) bool {
	switch {
	case a.T != nil:
		return b.T != nil && alphaEq(a.T, b.T, renaming)
	case a.N != nil:
		return b.N != nil && nexpAlphaEq(a.N, b.N, renaming)
	case a.O != nil:
		return b.O != nil && orderEq(a.O, b.O, renaming)
	default:
		return b.T == nil && b.N == nil && b.O == nil
	}
}

func orderEq(a, b Order, renaming map[string]string) bool {
	switch av := a.(type) {
	case OConst:
		bv, ok := b.(OConst)
		return ok && av.Inc == bv.Inc
	case OVar:
		bv, ok := b.(OVar)
		if !ok {
			return false
		}
		if renaming != nil {
			if mapped, seen := renaming[av.Name]; seen {
				return mapped == bv.Name
			}
		}
		return av.Name == bv.Name
	}
	return false
}

func nexpAlphaEq(a, b NExp, renaming map[string]string) bool {
	sa, sb := Simplify(a), Simplify(b)
	if renaming == nil || len(renaming) == 0 {
		return nexpEqualRaw(sa, sb)
	}
	return nexpEqualRawRenamed(sa, sb, renaming)
}

func nexpEqualRawRenamed(a, b NExp, renaming map[string]string) bool {
	switch x := a.(type) {
	case NVar:
		y, ok := b.(NVar)
		if !ok {
			return false
		}
		if mapped, seen := renaming[x.Name]; seen {
			return mapped == y.Name
		}
		return x.Name == y.Name
	case NBinary:
		y, ok := b.(NBinary)
		return ok && x.Op == y.Op && nexpEqualRawRenamed(x.Left, y.Left, renaming) && nexpEqualRawRenamed(x.Right, y.Right, renaming)
	case NNeg:
		y, ok := b.(NNeg)
		return ok && nexpEqualRawRenamed(x.Operand, y.Operand, renaming)
	case NPow2:
		y, ok := b.(NPow2)
		return ok && nexpEqualRawRenamed(x.Exponent, y.Exponent, renaming)
	case NApp:
		y, ok := b.(NApp)
		if !ok || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !nexpEqualRawRenamed(x.Args[i], y.Args[i], renaming) {
				return false
			}
		}
		return true
	default:
		return nexpEqualRaw(a, b)
	}
}

func nconstraintAlphaEq(a, b NConstraint, renaming map[string]string) bool {
	switch av := a.(type) {
	case NCTrue:
		_, ok := b.(NCTrue)
		return ok
	case NCFalse:
		_, ok := b.(NCFalse)
		return ok
	case NCCompare:
		bv, ok := b.(NCCompare)
		return ok && av.Op == bv.Op && nexpAlphaEq(av.Left, bv.Left, renaming) && nexpAlphaEq(av.Right, bv.Right, renaming)
	case NCSet:
		bv, ok := b.(NCSet)
		if !ok || len(av.Members) != len(bv.Members) {
			return false
		}
		kidOK := av.Kid == bv.Kid
		if mapped, seen := renaming[av.Kid]; seen {
			kidOK = mapped == bv.Kid
		}
		if !kidOK {
			return false
		}
		for i := range av.Members {
			if !nexpAlphaEq(av.Members[i], bv.Members[i], renaming) {
				return false
			}
		}
		return true
	case NCAnd:
		bv, ok := b.(NCAnd)
		return ok && nconstraintAlphaEq(av.Left, bv.Left, renaming) && nconstraintAlphaEq(av.Right, bv.Right, renaming)
	case NCOr:
		bv, ok := b.(NCOr)
		return ok && nconstraintAlphaEq(av.Left, bv.Left, renaming) && nconstraintAlphaEq(av.Right, bv.Right, renaming)
	case NCApp:
		bv, ok := b.(NCApp)
		if !ok || av.Name != bv.Name || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !nexpAlphaEq(av.Args[i], bv.Args[i], renaming) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func cloneRenaming(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
