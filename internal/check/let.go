package check

import (
	"context"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/typedast"
	"github.com/sail-lang/sailcheck/internal/types"
)

func checkLetCommon(ctx context.Context, e *env.Environment, l *ast.Let) (valueRes Result, bodyEnv *env.Environment, err error) {
	if l.Ascribe != nil {
		valueRes, err = Check(ctx, e, l.Value, l.Ascribe)
	} else {
		valueRes, err = Infer(ctx, e, l.Value)
	}
	if err != nil {
		return Result{}, nil, err
	}
	_, ext, perr := bindPattern(ctx, valueRes.Env, l.Pattern, valueRes.Node.Ann.Type)
	if perr != nil {
		return Result{}, nil, perr
	}
	return valueRes, ext, nil
}

func inferLet(ctx context.Context, e *env.Environment, l *ast.Let) (Result, error) {
	valueRes, bodyEnv, err := checkLetCommon(ctx, e, l)
	if err != nil {
		return Result{}, err
	}
	bodyRes, err := Infer(ctx, bodyEnv, l.Body)
	if err != nil {
		return Result{}, err
	}
	eff := valueRes.Effects.Union(bodyRes.Effects)
	node := typedast.Expr{
		Source:   l,
		Ann:      typedast.Annotation{Env: bodyRes.Env, Type: bodyRes.Node.Ann.Type, Effects: eff},
		Children: []typedast.Expr{valueRes.Node, bodyRes.Node},
	}
	return Result{Node: node, Env: bodyRes.Env, Effects: eff}, nil
}

func checkLet(ctx context.Context, e *env.Environment, l *ast.Let, expected types.Typ) (Result, error) {
	valueRes, bodyEnv, err := checkLetCommon(ctx, e, l)
	if err != nil {
		return Result{}, err
	}
	bodyRes, err := Check(ctx, bodyEnv, l.Body, expected)
	if err != nil {
		return Result{}, err
	}
	eff := valueRes.Effects.Union(bodyRes.Effects)
	node := typedast.Expr{
		Source:   l,
		Ann:      typedast.Annotation{Env: bodyRes.Env, Type: expected, Effects: eff, Expected: expected},
		Children: []typedast.Expr{valueRes.Node, bodyRes.Node},
	}
	return Result{Node: node, Env: bodyRes.Env, Effects: eff}, nil
}
