package env

import (
	"fmt"

	"github.com/sail-lang/sailcheck/internal/kind"
	"github.com/sail-lang/sailcheck/internal/oracle"
	"github.com/sail-lang/sailcheck/internal/types"
)

// LocalBinding is a local variable's binding: either a monomorphic type
// (the common case, a function parameter or let-bound name) or a full
// polymorphic scheme.
type LocalBinding struct {
	Scheme types.TypeScheme // Quantifier/Constraints empty for a monomorphic binding
}

// Environment is the persistent, cons-style local scope: every Extend*
// method returns a new child node sharing its parent by pointer, so
// branches (e.g. the two arms of a match) can extend independently from a
// common environment without the extensions leaking into each other.
type Environment struct {
	parent *Environment
	*Session

	locals      map[string]LocalBinding
	typeVars    map[string]kind.KindedID
	constraints []types.NConstraint
}

// NewRoot creates the root environment for a Session, before any
// definition has been processed.
func NewRoot(s *Session) *Environment {
	return &Environment{Session: s, locals: map[string]LocalBinding{}, typeVars: map[string]kind.KindedID{}}
}

// ExtendLocal returns a child environment binding name to typ monomorphically.
func (e *Environment) ExtendLocal(name string, t types.Typ) *Environment {
	child := e.child()
	child.locals[name] = LocalBinding{Scheme: types.TypeScheme{Body: t}}
	return child
}

// ExtendScheme returns a child environment binding name to a full scheme.
func (e *Environment) ExtendScheme(name string, scheme types.TypeScheme) *Environment {
	child := e.child()
	child.locals[name] = LocalBinding{Scheme: scheme}
	return child
}

// ExtendTypeVar returns a child environment bringing a kinded variable into
// scope, e.g. while checking inside a polymorphic function's body.
func (e *Environment) ExtendTypeVar(id kind.KindedID) *Environment {
	child := e.child()
	child.typeVars[id.Name] = id
	return child
}

func (e *Environment) child() *Environment {
	return &Environment{
		parent:  e,
		Session: e.Session,
		locals:  map[string]LocalBinding{},
		typeVars: map[string]kind.KindedID{},
	}
}

// LookupLocal walks the parent chain looking for name, innermost binding
// wins (shadowing).
func (e *Environment) LookupLocal(name string) (LocalBinding, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if b, ok := cur.locals[name]; ok {
			return b, true
		}
	}
	return LocalBinding{}, false
}

// LookupTypeVar walks the parent chain for an in-scope kinded variable.
func (e *Environment) LookupTypeVar(name string) (kind.KindedID, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if v, ok := cur.typeVars[name]; ok {
			return v, true
		}
	}
	return kind.KindedID{}, false
}

// AddConstraint returns a child environment with nc conjoined into the
// accumulated flow-sensitive constraint list — used by assert, by an if
// branch's witness, and by subtyping and application when they open an
// existential.
func (e *Environment) AddConstraint(nc types.NConstraint) *Environment {
	if types.IsTrivialTrue(nc) {
		return e
	}
	child := e.child()
	child.constraints = append(append([]types.NConstraint{}, e.allConstraints()...), nc)
	return child
}

// allConstraints flattens this environment's own constraint list together
// with every ancestor's, outermost (root) first — the shape oracle.Facts wants.
func (e *Environment) allConstraints() []types.NConstraint {
	var out []types.NConstraint
	var chain []*Environment
	for cur := e; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i].constraints...)
	}
	return out
}

// Facts builds the oracle.Facts snapshot for a Prove/Solve query against
// this environment's accumulated assumptions.
func (e *Environment) Facts() oracle.Facts {
	return oracle.Facts{
		Assumptions:    e.allConstraints(),
		KnownConstants: e.KnownConstants(),
	}
}

// FreshKid mints a fresh existential/numeric variable name via the shared
// Session naming context.
func (e *Environment) FreshKid() string { return e.Naming.FreshKid() }

// FreshenBind opens an existential's binders with fresh names before
// unifying against it, returning the substitution and the freshened
// constraint and body.
func FreshenBind(e *Environment, kids []kind.KindedID, nc types.NConstraint, body types.Typ) (types.Subst, types.NConstraint, types.Typ) {
	subs := types.Empty()
	for _, kd := range kids {
		fresh := e.FreshKid()
		switch kd.K {
		case kind.Int:
			subs.Num[kd.Name] = types.NVar{Name: fresh}
		case kind.Type:
			subs.Ty[kd.Name] = types.TyVar{Name: fresh}
		case kind.Order:
			subs.Order[kd.Name] = types.OVar{Name: fresh}
		}
	}
	return subs, types.ApplyNumSubstC(subs, nc), types.ApplyTy(subs, body)
}

// ExpandSynonyms rewrites every type-synonym application reachable in t,
// substituting each synonym's parameters for its supplied arguments and
// then expanding the instantiated body again, so synonyms defined in terms
// of other synonyms unfold completely. Constraint synonyms are not
// expanded: N-constraints, including an existential's, are left as written.
func (e *Environment) ExpandSynonyms(t types.Typ) types.Typ {
	switch v := t.(type) {
	case types.TyApp:
		args := make([]types.TypeArg, len(v.Args))
		for i, a := range v.Args {
			args[i] = e.expandArg(a)
		}
		if params, body, ok := e.LookupTypeSynonym(v.Ctor); ok && len(params) == len(args) {
			subs := types.Empty()
			for i, p := range params {
				bindSynonymArg(subs, p, args[i])
			}
			return e.ExpandSynonyms(types.ApplyTy(subs, body))
		}
		return types.TyApp{Ctor: v.Ctor, Args: args}
	case types.TyFunc:
		newArgs := make([]types.Typ, len(v.Args))
		for i, a := range v.Args {
			newArgs[i] = e.ExpandSynonyms(a)
		}
		return types.TyFunc{Args: newArgs, Return: e.ExpandSynonyms(v.Return), Effects: v.Effects}
	case types.TyTuple:
		elems := make([]types.Typ, len(v.Elems))
		for i, el := range v.Elems {
			elems[i] = e.ExpandSynonyms(el)
		}
		return types.TyTuple{Elems: elems}
	case types.TyBidir:
		return types.TyBidir{Left: e.ExpandSynonyms(v.Left), Right: e.ExpandSynonyms(v.Right)}
	case types.TyExist:
		return types.TyExist{Kids: v.Kids, NC: v.NC, Body: e.ExpandSynonyms(v.Body)}
	default:
		return t
	}
}

func (e *Environment) expandArg(a types.TypeArg) types.TypeArg {
	if a.T != nil {
		return types.ArgT(e.ExpandSynonyms(a.T))
	}
	return a
}

func bindSynonymArg(subs types.Subst, param kind.KindedID, arg types.TypeArg) {
	switch param.K {
	case kind.Type:
		if arg.T != nil {
			subs.Ty[param.Name] = arg.T
		}
	case kind.Int:
		if arg.N != nil {
			subs.Num[param.Name] = arg.N
		}
	case kind.Order:
		if arg.O != nil {
			subs.Order[param.Name] = arg.O
		}
	}
}

// WellFormed checks that every free type/numeric/order variable occurring
// in t is bound somewhere in scope (as an in-scope type variable, or for a
// numeric variable, a registered numeric constant) — the well-formedness side condition several
// checker rules require before installing a type.
func (e *Environment) WellFormed(t types.Typ) error {
	fv := types.FreeVarsOf(t, map[string]bool{})
	for name := range fv.Ty {
		if _, ok := e.LookupTypeVar(name); !ok {
			return fmt.Errorf("unbound type variable %q", name)
		}
	}
	for name := range fv.Num {
		if _, ok := e.LookupTypeVar(name); !ok {
			if _, ok := e.LookupNumericConstant(name); !ok {
				return fmt.Errorf("unbound numeric variable %q", name)
			}
		}
	}
	for name := range fv.Order {
		if _, ok := e.LookupTypeVar(name); !ok {
			return fmt.Errorf("unbound order variable %q", name)
		}
	}
	return nil
}
