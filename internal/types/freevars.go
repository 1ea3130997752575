package types

import "github.com/sail-lang/sailcheck/internal/kind"

// FreeVars is the set of free type, numeric and order variables of a type,
// computed with an "excluded" set so existential binders can be skipped.
type FreeVars struct {
	Ty    map[string]bool
	Num   map[string]bool
	Order map[string]bool
}

func newFreeVars() FreeVars {
	return FreeVars{Ty: map[string]bool{}, Num: map[string]bool{}, Order: map[string]bool{}}
}

// FreeVarsOf computes the free variables of t, excluding any name in
// excluded (used so callers can ask "free in T but not in U").
func FreeVarsOf(t Typ, excluded map[string]bool) FreeVars {
	fv := newFreeVars()
	collectFreeVars(t, excluded, &fv)
	return fv
}

func collectFreeVars(t Typ, excluded map[string]bool, fv *FreeVars) {
	switch v := t.(type) {
	case TyVar:
		if !excluded[v.Name] {
			fv.Ty[v.Name] = true
		}
	case TyId:
	case TyFunc:
		for _, a := range v.Args {
			collectFreeVars(a, excluded, fv)
		}
		collectFreeVars(v.Return, excluded, fv)
	case TyBidir:
		collectFreeVars(v.Left, excluded, fv)
		collectFreeVars(v.Right, excluded, fv)
	case TyTuple:
		for _, e := range v.Elems {
			collectFreeVars(e, excluded, fv)
		}
	case TyApp:
		for _, a := range v.Args {
			collectFreeVarsArg(a, excluded, fv)
		}
	case TyExist:
		inner := unionExcl(excluded, v.Kids)
		for name := range FreeNumVarsC(v.NC) {
			if !inner[name] {
				fv.Num[name] = true
			}
		}
		collectFreeVars(v.Body, inner, fv)
	}
}

func collectFreeVarsArg(a TypeArg, excluded map[string]bool, fv *FreeVars) {
	switch {
	case a.T != nil:
		collectFreeVars(a.T, excluded, fv)
	case a.N != nil:
		for name := range FreeNumVars(a.N) {
			if !excluded[name] {
				fv.Num[name] = true
			}
		}
	case a.O != nil:
		if ov, ok := a.O.(OVar); ok && !excluded[ov.Name] {
			fv.Order[ov.Name] = true
		}
	}
}

func unionExcl(excluded map[string]bool, kids []kind.KindedID) map[string]bool {
	out := map[string]bool{}
	for k, v := range excluded {
		out[k] = v
	}
	for _, k := range kids {
		out[k.Name] = true
	}
	return out
}
