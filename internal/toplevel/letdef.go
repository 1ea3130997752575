package toplevel

import (
	"context"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/check"
	"github.com/sail-lang/sailcheck/internal/typedast"
	"github.com/sail-lang/sailcheck/internal/types"
)

// checkLetDef infers a top-level `let pat = e` binding and extends the
// session's root environment with every name the pattern binds. A
// top-level let must be effect-free, since there is no enclosing function
// val spec for it to borrow an allowance from; effect checking being off
// lifts the restriction like everywhere else.
func (s *Session) checkLetDef(ctx context.Context, v *ast.LetDef) (typedast.Def, error) {
	res, err := check.Infer(ctx, s.Root, v.Value)
	if err != nil {
		return typedast.Def{}, errAt(v.Pos, "%v", err)
	}
	if !s.Root.Policy.NoEffects && !res.Effects.Equals(types.NoEffect()) {
		return typedast.Def{}, errAt(v.Pos, "top-level let has effects %s, which is not allowed outside a function body", res.Effects)
	}
	_, ext, err := check.BindPattern(ctx, res.Env, v.Pattern, res.Node.Ann.Type)
	if err != nil {
		return typedast.Def{}, errAt(v.Pos, "%v", err)
	}
	s.Root = ext
	return typedast.Def{Source: v, Env: s.Root, Clauses: []typedast.Expr{res.Node}}, nil
}
