package check

import (
	"context"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/subtype"
	"github.com/sail-lang/sailcheck/internal/typedast"
	"github.com/sail-lang/sailcheck/internal/types"
)

// inferVectorLit requires at least one element (a vector literal has no
// principal type when empty — its length and element type are both
// unconstrained) and unifies every element's inferred type against the
// first.
func inferVectorLit(ctx context.Context, e *env.Environment, v *ast.VectorLit) (Result, error) {
	if len(v.Elems) == 0 {
		return Result{}, errAt(v.Pos, ErrOther, "empty vector literal has no principal type; it can only be checked against an expected type")
	}
	first, err := Infer(ctx, e, v.Elems[0])
	if err != nil {
		return Result{}, err
	}
	cur := first.Env
	eff := first.Effects
	children := []typedast.Expr{first.Node}
	for _, el := range v.Elems[1:] {
		r, err := Check(ctx, cur, el, first.Node.Ann.Type)
		if err != nil {
			return Result{}, err
		}
		cur = r.Env
		eff = eff.Union(r.Effects)
		children = append(children, r.Node)
	}
	order, _ := cur.DefaultOrder()
	vt := types.VectorType(types.Lit(int64(len(v.Elems))), order, first.Node.Ann.Type)
	node := typedast.Expr{Source: v, Ann: typedast.Annotation{Env: cur, Type: vt, Effects: eff}, Children: children}
	return Result{Node: node, Env: cur, Effects: eff}, nil
}

// checkVectorLit checks every element against expected's element type and
// discharges the obligation that expected's declared length equals the
// literal's written length.
func checkVectorLit(ctx context.Context, e *env.Environment, v *ast.VectorLit, expected types.Typ) (Result, error) {
	app, ok := expected.(types.TyApp)
	if !ok || app.Ctor != "vector" || len(app.Args) != 3 {
		return Result{}, errAt(v.Pos, ErrSubtype, "vector literal checked against non-vector type %s", expected)
	}
	elemT := app.Args[2].T
	cur := e
	eff := types.NoEffect()
	children := make([]typedast.Expr, 0, len(v.Elems))
	for _, el := range v.Elems {
		r, err := Check(ctx, cur, el, elemT)
		if err != nil {
			return Result{}, err
		}
		cur = r.Env
		eff = eff.Union(r.Effects)
		children = append(children, r.Node)
	}
	lenNC := types.NCCompare{Op: types.CmpEq, Left: app.Args[0].N, Right: types.Lit(int64(len(v.Elems)))}
	if err := discharge(ctx, cur, v.Pos, lenNC); err != nil {
		return Result{}, err
	}
	node := typedast.Expr{Source: v, Ann: typedast.Annotation{Env: cur, Type: expected, Effects: eff, Expected: expected}, Children: children}
	return Result{Node: node, Env: cur, Effects: eff}, nil
}

// recordTypeName resolves which record declaration an update/construction
// expression refers to: an explicit Record identifier, or (failing that)
// the type of its Base expression.
func recordTypeName(r *ast.RecordUpdate, baseTyp types.Typ) (string, bool) {
	if r.Record.Name != "" {
		return r.Record.Name, true
	}
	if tid, ok := baseTyp.(types.TyId); ok {
		return tid.Name, true
	}
	return "", false
}

func inferRecordUpdate(ctx context.Context, e *env.Environment, r *ast.RecordUpdate) (Result, error) {
	cur := e
	eff := types.NoEffect()
	var baseNode *typedast.Expr
	var baseTyp types.Typ
	if r.Base != nil {
		baseRes, err := Infer(ctx, cur, r.Base)
		if err != nil {
			return Result{}, err
		}
		cur = baseRes.Env
		eff = baseRes.Effects
		baseNode = &baseRes.Node
		baseTyp = baseRes.Node.Ann.Type
	}
	recName, ok := recordTypeName(r, baseTyp)
	if !ok {
		return Result{}, errAt(r.Pos, ErrOther, "record update has no principal type; ascribe it or update a typed base expression")
	}
	info, ok := e.LookupRecord(recName)
	if !ok {
		return Result{}, errAt(r.Pos, ErrOther, "unknown record type %q", recName)
	}
	children := make([]typedast.Expr, 0, len(r.Fields)+1)
	if baseNode != nil {
		children = append(children, *baseNode)
	}
	for _, f := range info.Fields {
		valExpr, given := r.Fields[f.Name]
		if !given {
			continue
		}
		fr, err := Check(ctx, cur, valExpr, f.Type)
		if err != nil {
			return Result{}, err
		}
		cur = fr.Env
		eff = eff.Union(fr.Effects)
		children = append(children, fr.Node)
	}
	typ := types.TyId{Name: recName}
	node := typedast.Expr{Source: r, Ann: typedast.Annotation{Env: cur, Type: typ, Effects: eff}, Children: children}
	return Result{Node: node, Env: cur, Effects: eff}, nil
}

func checkRecordUpdate(ctx context.Context, e *env.Environment, r *ast.RecordUpdate, expected types.Typ) (Result, error) {
	res, err := inferRecordUpdate(ctx, e, r)
	if err != nil {
		return Result{}, err
	}
	if err := subtype.Subtype(ctx, res.Env, res.Node.Ann.Type, expected); err != nil {
		return Result{}, errAt(r.Pos, ErrSubtype, "%v", err)
	}
	res.Node.Ann.Expected = expected
	return res, nil
}

// inferFieldAccess resolves Field via the environment's field/accessor
// table to find which record declares it, then requires the base
// expression's type to match that record.
func inferFieldAccess(ctx context.Context, e *env.Environment, f *ast.FieldAccess) (Result, error) {
	baseRes, err := Infer(ctx, e, f.Record)
	if err != nil {
		return Result{}, err
	}
	entry, ok := baseRes.Env.LookupField(f.Field)
	if !ok {
		return Result{}, errAt(f.Pos, ErrOther, "unknown field %q", f.Field)
	}
	if err := subtype.Subtype(ctx, baseRes.Env, baseRes.Node.Ann.Type, types.TyId{Name: entry.Record}); err != nil {
		return Result{}, errAt(f.Pos, ErrSubtype, "%v", err)
	}
	node := typedast.Expr{
		Source:   f,
		Ann:      typedast.Annotation{Env: baseRes.Env, Type: entry.Type, Effects: baseRes.Effects},
		Children: []typedast.Expr{baseRes.Node},
	}
	return Result{Node: node, Env: baseRes.Env, Effects: baseRes.Effects}, nil
}
