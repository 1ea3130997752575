package types

import "testing"

func TestDecodeNExpVariants(t *testing.T) {
	c, err := DecodeNExp([]byte(`{"kind":"const","value":5}`))
	if err != nil {
		t.Fatalf("const: %v", err)
	}
	if cv, ok := c.(NConstant); !ok || cv.Value != 5 {
		t.Errorf("const decoded as %+v", c)
	}

	v, err := DecodeNExp([]byte(`{"kind":"var","name":"'n"}`))
	if err != nil {
		t.Fatalf("var: %v", err)
	}
	if nv, ok := v.(NVar); !ok || nv.Name != "'n" {
		t.Errorf("var decoded as %+v", v)
	}

	bin, err := DecodeNExp([]byte(
		`{"kind":"binop","op":"+","left":{"kind":"const","value":1},"right":{"kind":"var","name":"'m"}}`))
	if err != nil {
		t.Fatalf("binop: %v", err)
	}
	nb, ok := bin.(NBinary)
	if !ok || nb.Op != OpAdd {
		t.Errorf("binop decoded as %+v", bin)
	}

	neg, err := DecodeNExp([]byte(`{"kind":"neg","operand":{"kind":"const","value":3}}`))
	if err != nil {
		t.Fatalf("neg: %v", err)
	}
	if _, ok := neg.(NNeg); !ok {
		t.Errorf("expected NNeg, got %T", neg)
	}

	pow, err := DecodeNExp([]byte(`{"kind":"pow2","exponent":{"kind":"const","value":4}}`))
	if err != nil {
		t.Fatalf("pow2: %v", err)
	}
	if _, ok := pow.(NPow2); !ok {
		t.Errorf("expected NPow2, got %T", pow)
	}
}

func TestDecodeNExpUnknownKindErrors(t *testing.T) {
	if _, err := DecodeNExp([]byte(`{"kind":"nonsense"}`)); err == nil {
		t.Error("expected an unknown n-exp kind to error")
	}
	if _, err := DecodeNExp([]byte(`{"kind":"binop","op":"?","left":{"kind":"const","value":1},"right":{"kind":"const","value":1}}`)); err == nil {
		t.Error("expected an unknown binary operator to error")
	}
}

func TestDecodeNConstraintVariants(t *testing.T) {
	tru, err := DecodeNConstraint([]byte(`{"kind":"true"}`))
	if err != nil || tru == nil {
		t.Fatalf("true: %v", err)
	}
	fls, err := DecodeNConstraint([]byte(`{"kind":"false"}`))
	if err != nil || fls == nil {
		t.Fatalf("false: %v", err)
	}

	cmp, err := DecodeNConstraint([]byte(
		`{"kind":"compare","op":">=","left":{"kind":"var","name":"'n"},"right":{"kind":"const","value":0}}`))
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	nc, ok := cmp.(NCCompare)
	if !ok || nc.Op != CmpGe {
		t.Errorf("compare decoded as %+v", cmp)
	}

	and, err := DecodeNConstraint([]byte(
		`{"kind":"and","left":{"kind":"true"},"right":{"kind":"false"}}`))
	if err != nil {
		t.Fatalf("and: %v", err)
	}
	if _, ok := and.(NCAnd); !ok {
		t.Errorf("expected NCAnd, got %T", and)
	}

	or, err := DecodeNConstraint([]byte(
		`{"kind":"or","left":{"kind":"true"},"right":{"kind":"false"}}`))
	if err != nil {
		t.Fatalf("or: %v", err)
	}
	if _, ok := or.(NCOr); !ok {
		t.Errorf("expected NCOr, got %T", or)
	}

	set, err := DecodeNConstraint([]byte(
		`{"kind":"set","kid":"'n","members":[{"kind":"const","value":1},{"kind":"const","value":2}]}`))
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	ns, ok := set.(NCSet)
	if !ok || len(ns.Members) != 2 {
		t.Errorf("set decoded as %+v", set)
	}
}

func TestDecodeNConstraintUnknownKindErrors(t *testing.T) {
	if _, err := DecodeNConstraint([]byte(`{"kind":"nonsense"}`)); err == nil {
		t.Error("expected an unknown n-constraint kind to error")
	}
	if _, err := DecodeNConstraint([]byte(
		`{"kind":"compare","op":"?","left":{"kind":"const","value":1},"right":{"kind":"const","value":1}}`)); err == nil {
		t.Error("expected an unknown comparison operator to error")
	}
}

func TestDecodeTypVariants(t *testing.T) {
	id, err := DecodeTyp([]byte(`{"kind":"id","name":"int"}`))
	if err != nil {
		t.Fatalf("id: %v", err)
	}
	if ti, ok := id.(TyId); !ok || ti.Name != "int" {
		t.Errorf("id decoded as %+v", id)
	}

	fn, err := DecodeTyp([]byte(
		`{"kind":"func","args":[{"kind":"id","name":"int"}],"return":{"kind":"id","name":"bool"},"effects":["rreg"]}`))
	if err != nil {
		t.Fatalf("func: %v", err)
	}
	tf, ok := fn.(TyFunc)
	if !ok || len(tf.Args) != 1 || !tf.Effects.SubsetOf(NewEffectSet(EffRreg)) {
		t.Errorf("func decoded as %+v", fn)
	}

	tup, err := DecodeTyp([]byte(
		`{"kind":"tuple","elems":[{"kind":"id","name":"int"},{"kind":"id","name":"bool"}]}`))
	if err != nil {
		t.Fatalf("tuple: %v", err)
	}
	if tt, ok := tup.(TyTuple); !ok || len(tt.Elems) != 2 {
		t.Errorf("tuple decoded as %+v", tup)
	}

	app, err := DecodeTyp([]byte(
		`{"kind":"app","ctor":"atom","args":[{"kind":"const","value":4}]}`))
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	ta, ok := app.(TyApp)
	if !ok || ta.Ctor != "atom" || len(ta.Args) != 1 {
		t.Errorf("app decoded as %+v", app)
	}

	exist, err := DecodeTyp([]byte(
		`{"kind":"exist","kids":[{"name":"'n","kind":"Int"}],"nc":{"kind":"true"},"body":{"kind":"app","ctor":"atom","args":[{"kind":"var","name":"'n"}]}}`))
	if err != nil {
		t.Fatalf("exist: %v", err)
	}
	te, ok := exist.(TyExist)
	if !ok || len(te.Kids) != 1 || te.Kids[0].Name != "'n" {
		t.Errorf("exist decoded as %+v", exist)
	}

	unk, err := DecodeTyp([]byte(`{"kind":"unknown"}`))
	if err != nil {
		t.Fatalf("unknown: %v", err)
	}
	if _, ok := unk.(TyUnknown); !ok {
		t.Errorf("expected TyUnknown, got %T", unk)
	}
}

func TestDecodeTypUnknownKindErrors(t *testing.T) {
	if _, err := DecodeTyp([]byte(`{"kind":"nonsense"}`)); err == nil {
		t.Error("expected an unknown type kind to error")
	}
}

func TestDecodeTypeSchemeParsesQuantifierConstraintsAndBody(t *testing.T) {
	data := []byte(`{
		"quantifier": [{"name":"'n","kind":"Int"}],
		"constraints": [{"kind":"compare","op":">=","left":{"kind":"var","name":"'n"},"right":{"kind":"const","value":0}}],
		"body": {"kind":"app","ctor":"atom","args":[{"kind":"var","name":"'n"}]}
	}`)
	scheme, err := DecodeTypeScheme(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(scheme.Quantifier) != 1 || scheme.Quantifier[0].Name != "'n" {
		t.Errorf("quantifier decoded as %+v", scheme.Quantifier)
	}
	if len(scheme.Constraints) != 1 {
		t.Errorf("expected 1 constraint, got %d", len(scheme.Constraints))
	}
	if _, ok := scheme.Body.(TyApp); !ok {
		t.Errorf("expected a TyApp body, got %T", scheme.Body)
	}
}

func TestDecodeTypeArgDisambiguatesOrderTypeAndNExp(t *testing.T) {
	app, err := DecodeTyp([]byte(
		`{"kind":"app","ctor":"bitvector","args":[{"kind":"const","value":8},{"kind":"order-inc"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	ta, ok := app.(TyApp)
	if !ok || len(ta.Args) != 2 {
		t.Fatalf("expected a 2-argument TyApp, got %+v", app)
	}
	if ta.Args[0].N == nil {
		t.Error("expected the first argument to decode as an n-exp")
	}
	if ta.Args[1].O == nil {
		t.Error("expected the second argument to decode as an order")
	}
}
