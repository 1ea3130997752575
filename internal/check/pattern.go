package check

import (
	"context"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/subtype"
	"github.com/sail-lang/sailcheck/internal/types"
	"github.com/sail-lang/sailcheck/internal/unify"
)

// BindPattern is bindPattern exported for callers outside this package
// that need to extend an environment with a pattern's bindings before
// handing it to Check/Infer — a function clause's parameter pattern or a
// mapping clause's two sides.
func BindPattern(ctx context.Context, e *env.Environment, pat ast.Pattern, target types.Typ) (map[string]types.Typ, *env.Environment, error) {
	return bindPattern(ctx, e, pat, target)
}

// bindPattern checks pat against target, extending e with every name the
// pattern binds and returning the binding map for the typed-output node.
func bindPattern(ctx context.Context, e *env.Environment, pat ast.Pattern, target types.Typ) (map[string]types.Typ, *env.Environment, error) {
	target = e.ExpandSynonyms(target)
	bindings := map[string]types.Typ{}

	switch p := pat.(type) {
	case *ast.PWild:
		return bindings, e, nil

	case *ast.PVar:
		if union, arg, ok := e.LookupCtor(p.Name.Name); ok && arg == nil {
			_ = union
			return bindings, e, nil // nullary constructor reference, not a binder
		}
		bindings[p.Name.Name] = target
		return bindings, e.ExtendLocal(p.Name.Name, target), nil

	case *ast.PLit:
		litRes, err := inferLiteral(e, &p.Lit)
		if err != nil {
			return nil, nil, err
		}
		if err := subtype.Subtype(ctx, e, litRes.Node.Ann.Type, target); err != nil {
			return nil, nil, errAt(p.Pos, ErrSubtype, "%v", err)
		}
		return bindings, e, nil

	case *ast.PTuple:
		tt, ok := target.(types.TyTuple)
		if !ok || len(tt.Elems) != len(p.Elems) {
			return nil, nil, errAt(p.Pos, ErrSubtype, "pattern tuple arity does not match scrutinee type %s", target)
		}
		cur := e
		for i, sub := range p.Elems {
			bs, next, err := bindPattern(ctx, cur, sub, tt.Elems[i])
			if err != nil {
				return nil, nil, err
			}
			for k, v := range bs {
				bindings[k] = v
			}
			cur = next
		}
		return bindings, cur, nil

	case *ast.PCtor:
		unionName, argTyp, ok := e.LookupCtor(p.Ctor.Name)
		if !ok {
			return nil, nil, errAt(p.Pos, ErrOther, "unknown constructor %q", p.Ctor.Name)
		}
		if err := subtype.Subtype(ctx, e, types.TyId{Name: unionName}, target); err != nil {
			return nil, nil, errAt(p.Pos, ErrSubtype, "%v", err)
		}
		if p.Arg == nil {
			return bindings, e, nil
		}
		return bindPattern(ctx, e, p.Arg, argTyp)

	case *ast.PAs, *ast.PTypeAscribe:
		var inner ast.Pattern
		var declared types.Typ
		if as, ok := pat.(*ast.PAs); ok {
			inner, declared = as.Inner, as.Type
		} else {
			ta := pat.(*ast.PTypeAscribe)
			inner, declared = ta.Inner, ta.Type
		}
		if err := subtype.Subtype(ctx, e, declared, target); err != nil {
			return nil, nil, errAt(pat.Position(), ErrSubtype, "%v", err)
		}
		return bindPattern(ctx, e, inner, declared)

	case *ast.PMapping:
		info, ok := e.LookupMapping(p.Mapping.Name)
		if !ok {
			return nil, nil, errAt(p.Pos, ErrOther, "unknown mapping %q", p.Mapping.Name)
		}
		// Tried forwards then backwards: forwards means target unifies
		// with the mapping's Right side and the argument pattern binds
		// against Left; backwards is the mirror image.
		if _, err := unify.Unify(e, info.Right, target); err == nil {
			return bindPattern(ctx, e, p.Arg, info.Left)
		}
		if _, err := unify.Unify(e, info.Left, target); err == nil {
			return bindPattern(ctx, e, p.Arg, info.Right)
		}
		return nil, nil, errAt(p.Pos, ErrSubtype, "mapping %q matches neither direction against %s", p.Mapping.Name, target)

	default:
		return nil, nil, errAt(pat.Position(), ErrOther, "unhandled pattern form %T", pat)
	}
}
