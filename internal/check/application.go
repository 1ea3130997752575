package check

import (
	"context"
	"strings"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/kind"
	"github.com/sail-lang/sailcheck/internal/typedast"
	"github.com/sail-lang/sailcheck/internal/types"
	"github.com/sail-lang/sailcheck/internal/unify"
)

// inferApp dispatches application to the right flavour — function,
// union-constructor, mapping, or an overload set tried in declaration
// order — by instantiating a fresh copy of the callee's scheme, unifying
// each argument against the instantiated parameter types left to right
// (opening any existential the unification crosses and carrying its
// numeric constraint into scope),
// apply the accumulated substitution to the return type, and discharge
// every constraint the scheme declared.
func inferApp(ctx context.Context, e *env.Environment, app *ast.App) (Result, error) {
	callee, ok := app.Func.(*ast.Var)
	if !ok {
		return Result{}, errAt(app.Pos, ErrOther, "application target must be a named function, constructor or mapping")
	}
	name := callee.Name.Name

	if members, ok := e.LookupOverload(name); ok {
		var errs []string
		for _, m := range members {
			res, err := applyNamed(ctx, e, app, m.Name)
			if err == nil {
				return res, nil
			}
			errs = append(errs, err.Error())
		}
		return Result{}, errAt(app.Pos, ErrNoOverloading, "no overload of %q applies: %s", name, strings.Join(errs, "; "))
	}

	if _, _, ok := e.LookupCtor(name); ok {
		return applyCtor(ctx, e, app, name)
	}

	if _, ok := e.LookupMapping(name); ok {
		return applyMapping(ctx, e, app, name)
	}

	return applyNamed(ctx, e, app, name)
}

// applyNamed applies an ordinary (possibly polymorphic) function value,
// found either as a local binding or a registered value specification.
func applyNamed(ctx context.Context, e *env.Environment, app *ast.App, name string) (Result, error) {
	var scheme types.TypeScheme
	if b, ok := e.LookupLocal(name); ok {
		scheme = b.Scheme
	} else if vs, ok := e.LookupValSpec(name); ok {
		scheme = vs.Canonical
	} else {
		return Result{}, errAt(app.Pos, ErrOther, "unbound function %q", name)
	}
	inst, subs := instantiateScheme(e, scheme)
	fn, ok := inst.(types.TyFunc)
	if !ok {
		return Result{}, errAt(app.Pos, ErrOther, "%q is not a function", name)
	}
	return applyInstantiated(ctx, e, app, fn, scheme, subs)
}

// applyInstantiated unifies app's arguments against fn's (already
// instantiated) parameter list one at a time, threading the accumulated
// substitution and environment forward, then discharges the scheme's
// declared constraints and builds the resulting typed node.
func applyInstantiated(ctx context.Context, e *env.Environment, app *ast.App, fn types.TyFunc, scheme types.TypeScheme, subs types.Subst) (Result, error) {
	if len(app.Args) != len(fn.Args) {
		return Result{}, errAt(app.Pos, ErrOther, "expected %d argument(s), got %d", len(fn.Args), len(app.Args))
	}
	cur := e
	eff := types.NoEffect()
	children := make([]typedast.Expr, 0, len(app.Args)+1)
	for i, argExpr := range app.Args {
		formal := types.ApplyTy(subs, fn.Args[i])
		argRes, err := Infer(ctx, cur, argExpr)
		if err != nil {
			return Result{}, err
		}
		s, existNC, unifyErr := unify.UnifyExist(argRes.Env, formal, argRes.Node.Ann.Type)
		if unifyErr != nil {
			// Straightforward unification failed: before rejecting the whole
			// application, try a registered cast at this argument position —
			// an implicit coercion the call site never spelled out.
			casted, ok := tryCast(ctx, argRes.Env, argRes.Node, formal)
			if !ok {
				return Result{}, errAt(argExpr.Position(), ErrSubtype, "argument %d: %v", i+1, unifyErr)
			}
			argRes = casted
			s, existNC = types.Empty(), types.NCTrue{}
		}
		subs = types.Compose(subs, s)
		cur = argRes.Env
		if !types.IsTrivialTrue(existNC) {
			cur = cur.AddConstraint(existNC)
		}
		eff = eff.Union(argRes.Effects)
		children = append(children, argRes.Node)
	}
	for _, c := range instantiatedConstraints(scheme, subs) {
		if err := discharge(ctx, cur, app.Pos, c); err != nil {
			return Result{}, err
		}
	}
	retType := types.ApplyTy(subs, fn.Return)
	eff = eff.Union(fn.Effects)
	node := typedast.Expr{
		Source:   app,
		Ann:      typedast.Annotation{Env: cur, Type: retType, Effects: eff},
		Children: children,
	}
	return Result{Node: node, Env: cur, Effects: eff}, nil
}

// applyCtor applies a union constructor: a multi-argument constructor call
// is re-parsed upstream into a single tuple argument, so ctor application
// always has exactly one argument position.
func applyCtor(ctx context.Context, e *env.Environment, app *ast.App, ctorName string) (Result, error) {
	unionName, argTyp, _ := e.LookupCtor(ctorName)
	info, _ := e.LookupUnion(unionName)

	subs := types.Empty()
	retArgs := make([]types.TypeArg, len(info.Params))
	for i, p := range info.Params {
		fresh := e.FreshKid()
		switch p.K {
		case kind.Int:
			subs.Num[p.Name] = types.NVar{Name: fresh}
			retArgs[i] = types.ArgN(types.NVar{Name: fresh})
		case kind.Type:
			subs.Ty[p.Name] = types.TyVar{Name: fresh}
			retArgs[i] = types.ArgT(types.TyVar{Name: fresh})
		case kind.Order:
			subs.Order[p.Name] = types.OVar{Name: fresh}
			retArgs[i] = types.ArgO(types.OVar{Name: fresh})
		}
	}
	var retType types.Typ = types.TyId{Name: unionName}
	if len(info.Params) > 0 {
		retType = types.TyApp{Ctor: unionName, Args: retArgs}
	}
	var fnArgs []types.Typ
	if argTyp != nil {
		fnArgs = []types.Typ{types.ApplyTy(subs, argTyp)}
	}
	fn := types.TyFunc{Args: fnArgs, Return: retType, Effects: types.NoEffect()}
	scheme := types.TypeScheme{Quantifier: info.Params, Body: fn}
	return applyInstantiated(ctx, e, app, fn, scheme, types.Empty())
}

// applyMapping applies a mapping as an ordinary function call, trying its
// forwards direction first and its backwards direction if forwards fails
// to unify against the argument's inferred type.
func applyMapping(ctx context.Context, e *env.Environment, app *ast.App, name string) (Result, error) {
	info, _ := e.LookupMapping(name)
	if len(app.Args) != 1 {
		return Result{}, errAt(app.Pos, ErrOther, "mapping %q takes exactly one argument", name)
	}
	argRes, err := Infer(ctx, e, app.Args[0])
	if err != nil {
		return Result{}, err
	}
	tryDir := func(from, to types.Typ) (Result, error) {
		s, existNC, err := unify.UnifyExist(argRes.Env, from, argRes.Node.Ann.Type)
		if err != nil {
			return Result{}, err
		}
		cur := argRes.Env
		if !types.IsTrivialTrue(existNC) {
			cur = cur.AddConstraint(existNC)
		}
		retType := types.ApplyTy(s, to)
		node := typedast.Expr{
			Source:   app,
			Ann:      typedast.Annotation{Env: cur, Type: retType, Effects: argRes.Effects},
			Children: []typedast.Expr{argRes.Node},
		}
		return Result{Node: node, Env: cur, Effects: argRes.Effects}, nil
	}
	if res, err := tryDir(info.Left, info.Right); err == nil {
		return res, nil
	}
	res, err := tryDir(info.Right, info.Left)
	if err != nil {
		return Result{}, errAt(app.Pos, ErrSubtype, "mapping %q matches neither direction: %v", name, err)
	}
	return res, nil
}
