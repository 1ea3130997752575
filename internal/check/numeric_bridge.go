package check

import (
	"strings"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/typedast"
	"github.com/sail-lang/sailcheck/internal/types"
)

// nexpOfType extracts the N-exp an atom(n)-typed expression's value
// statically carries, used to read back the singleton numeric value a
// checked sub-expression was shown to have.
func nexpOfType(t types.Typ) (types.NExp, bool) {
	if app, ok := t.(types.TyApp); ok && app.Ctor == "atom" {
		return app.Args[0].N, true
	}
	return nil, false
}

var comparisonOps = map[string]types.CmpOp{
	"==": types.CmpEq,
	"!=": types.CmpNeq,
	"<=": types.CmpLe,
	">=": types.CmpGe,
}

// exprAsConstraint recognizes an `assert`/`if` condition written as a
// direct comparison between two numeric-singleton sub-expressions (an
// application of a de-infixed comparison operator to two atom(n)-typed
// arguments) and turns it into the N-constraint the environment can track
// as a flow refinement. Anything else is left untracked — the condition
// still type checks as bool, it simply contributes no refinement.
func exprAsConstraint(node typedast.Expr) (types.NConstraint, bool) {
	app, ok := node.Source.(*ast.App)
	if !ok || len(app.Args) != 2 || len(node.Children) != 2 {
		return nil, false
	}
	v, ok := app.Func.(*ast.Var)
	if !ok {
		return nil, false
	}
	op, ok := comparisonOps[strings.TrimPrefix(v.Name.Name, "operator ")]
	if !ok {
		return nil, false
	}
	l, lok := nexpOfType(node.Children[0].Ann.Type)
	r, rok := nexpOfType(node.Children[1].Ann.Type)
	if !lok || !rok {
		return nil, false
	}
	return types.NCCompare{Op: op, Left: l, Right: r}, true
}
