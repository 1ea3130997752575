// This file implements the decoder for the external JSON definition-stream
// format the engine reads in place of running its own parser: each
// syntactic node is a JSON object carrying a "kind" discriminator plus
// whatever fields that node needs, mirroring the tagged-union shape the
// Go types themselves already use.
package ast

import (
	"encoding/json"
	"fmt"

	"github.com/sail-lang/sailcheck/internal/kind"
	"github.com/sail-lang/sailcheck/internal/types"
)

func decodeNode(data []byte) (string, map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return "", nil, err
	}
	var k string
	if raw, ok := m["kind"]; ok {
		if err := json.Unmarshal(raw, &k); err != nil {
			return "", nil, err
		}
	}
	return k, m, nil
}

func field(m map[string]json.RawMessage, key string, out interface{}) error {
	raw, ok := m[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func decodePos(m map[string]json.RawMessage) (Pos, error) {
	var p Pos
	if err := field(m, "pos", &p); err != nil {
		return Pos{}, err
	}
	return p, nil
}

func decodeId(m map[string]json.RawMessage, key string) (Id, error) {
	var raw struct {
		Name string `json:"name"`
		Pos  Pos    `json:"pos"`
	}
	if err := field(m, key, &raw); err != nil {
		return Id{}, err
	}
	return Id{Name: raw.Name, Pos: raw.Pos}, nil
}

func decodeKindedID(data json.RawMessage) (kind.KindedID, error) {
	var raw struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return kind.KindedID{}, err
	}
	k := kind.Type
	switch raw.Kind {
	case "Int":
		k = kind.Int
	case "Order":
		k = kind.Order
	}
	return kind.KindedID{Name: raw.Name, K: k}, nil
}

func decodeKindedIDs(m map[string]json.RawMessage, key string) ([]kind.KindedID, error) {
	var raws []json.RawMessage
	if err := field(m, key, &raws); err != nil {
		return nil, err
	}
	out := make([]kind.KindedID, len(raws))
	for i, r := range raws {
		kd, err := decodeKindedID(r)
		if err != nil {
			return nil, err
		}
		out[i] = kd
	}
	return out, nil
}

func decodeTyp(m map[string]json.RawMessage, key string) (types.Typ, error) {
	raw, ok := m[key]
	if !ok {
		return nil, nil
	}
	return types.DecodeTyp(raw)
}

// DecodeLiteral parses a literal node (used both as an expression and,
// verbatim, as a pattern).
func DecodeLiteral(data []byte) (*Literal, error) {
	k, m, err := decodeNode(data)
	if err != nil {
		return nil, err
	}
	pos, err := decodePos(m)
	if err != nil {
		return nil, err
	}
	lit := &Literal{Pos: pos}
	switch k {
	case "lit-unit":
		lit.Kind = LitUnit
	case "lit-bool":
		var v bool
		if err := field(m, "value", &v); err != nil {
			return nil, err
		}
		lit.Kind, lit.Value = LitBool, v
	case "lit-num":
		var v int64
		if err := field(m, "value", &v); err != nil {
			return nil, err
		}
		lit.Kind, lit.Value = LitNum, v
	case "lit-bits":
		var v string
		if err := field(m, "value", &v); err != nil {
			return nil, err
		}
		lit.Kind, lit.Value = LitBits, v
	case "lit-hex":
		var v string
		if err := field(m, "value", &v); err != nil {
			return nil, err
		}
		lit.Kind, lit.Value = LitHex, v
	case "lit-string":
		var v string
		if err := field(m, "value", &v); err != nil {
			return nil, err
		}
		lit.Kind, lit.Value = LitString, v
	case "lit-undef":
		lit.Kind = LitUndef
	default:
		return nil, fmt.Errorf("ast: unknown literal kind %q", k)
	}
	return lit, nil
}

func isLiteralKind(k string) bool {
	switch k {
	case "lit-unit", "lit-bool", "lit-num", "lit-bits", "lit-hex", "lit-string", "lit-undef":
		return true
	default:
		return false
	}
}

// DecodePattern parses one pattern node from JSON.
func DecodePattern(data []byte) (Pattern, error) {
	k, m, err := decodeNode(data)
	if err != nil {
		return nil, err
	}
	if isLiteralKind(k) {
		lit, err := DecodeLiteral(data)
		if err != nil {
			return nil, err
		}
		pos, _ := decodePos(m)
		return &PLit{Lit: *lit, Pos: pos}, nil
	}
	pos, err := decodePos(m)
	if err != nil {
		return nil, err
	}
	switch k {
	case "p-wild":
		return &PWild{Pos: pos}, nil
	case "p-var":
		name, err := decodeId(m, "name")
		if err != nil {
			return nil, err
		}
		return &PVar{Name: name, Pos: pos}, nil
	case "p-tuple":
		var rawElems []json.RawMessage
		if err := field(m, "elems", &rawElems); err != nil {
			return nil, err
		}
		elems := make([]Pattern, len(rawElems))
		for i, r := range rawElems {
			elems[i], err = DecodePattern(r)
			if err != nil {
				return nil, err
			}
		}
		return &PTuple{Elems: elems, Pos: pos}, nil
	case "p-ctor":
		ctor, err := decodeId(m, "ctor")
		if err != nil {
			return nil, err
		}
		var arg Pattern
		if raw, ok := m["arg"]; ok && string(raw) != "null" {
			arg, err = DecodePattern(raw)
			if err != nil {
				return nil, err
			}
		}
		return &PCtor{Ctor: ctor, Arg: arg, Pos: pos}, nil
	case "p-as":
		var rawInner json.RawMessage
		if err := field(m, "inner", &rawInner); err != nil {
			return nil, err
		}
		inner, err := DecodePattern(rawInner)
		if err != nil {
			return nil, err
		}
		t, err := decodeTyp(m, "type")
		if err != nil {
			return nil, err
		}
		return &PAs{Inner: inner, Type: t, Pos: pos}, nil
	case "p-mapping":
		mapping, err := decodeId(m, "mapping")
		if err != nil {
			return nil, err
		}
		var rawArg json.RawMessage
		if err := field(m, "arg", &rawArg); err != nil {
			return nil, err
		}
		arg, err := DecodePattern(rawArg)
		if err != nil {
			return nil, err
		}
		return &PMapping{Mapping: mapping, Arg: arg, Pos: pos}, nil
	case "p-ascribe":
		var rawInner json.RawMessage
		if err := field(m, "inner", &rawInner); err != nil {
			return nil, err
		}
		inner, err := DecodePattern(rawInner)
		if err != nil {
			return nil, err
		}
		t, err := decodeTyp(m, "type")
		if err != nil {
			return nil, err
		}
		return &PTypeAscribe{Inner: inner, Type: t, Pos: pos}, nil
	default:
		return nil, fmt.Errorf("ast: unknown pattern kind %q", k)
	}
}

// DecodeExpr parses one expression node from JSON.
func DecodeExpr(data []byte) (Expr, error) {
	k, m, err := decodeNode(data)
	if err != nil {
		return nil, err
	}
	if isLiteralKind(k) {
		return DecodeLiteral(data)
	}
	pos, err := decodePos(m)
	if err != nil {
		return nil, err
	}
	switch k {
	case "var":
		name, err := decodeId(m, "name")
		if err != nil {
			return nil, err
		}
		return &Var{Name: name, Pos: pos}, nil
	case "block":
		stmts, err := decodeExprs(m, "stmts")
		if err != nil {
			return nil, err
		}
		return &Block{Stmts: stmts, Pos: pos}, nil
	case "assert":
		cond, err := decodeExprField(m, "cond")
		if err != nil {
			return nil, err
		}
		var msg Expr
		if raw, ok := m["message"]; ok && string(raw) != "null" {
			msg, err = DecodeExpr(raw)
			if err != nil {
				return nil, err
			}
		}
		return &Assert{Cond: cond, Message: msg, Pos: pos}, nil
	case "if":
		cond, err := decodeExprField(m, "cond")
		if err != nil {
			return nil, err
		}
		then, err := decodeExprField(m, "then")
		if err != nil {
			return nil, err
		}
		els, err := decodeExprField(m, "else")
		if err != nil {
			return nil, err
		}
		return &If{Cond: cond, Then: then, Else: els, Pos: pos}, nil
	case "match":
		scrut, err := decodeExprField(m, "scrutinee")
		if err != nil {
			return nil, err
		}
		var rawArms []struct {
			Pattern json.RawMessage `json:"pattern"`
			Guard   json.RawMessage `json:"guard"`
			Body    json.RawMessage `json:"body"`
		}
		if err := field(m, "arms", &rawArms); err != nil {
			return nil, err
		}
		arms := make([]MatchArm, len(rawArms))
		for i, ra := range rawArms {
			pat, err := DecodePattern(ra.Pattern)
			if err != nil {
				return nil, err
			}
			var guard Expr
			if len(ra.Guard) > 0 && string(ra.Guard) != "null" {
				guard, err = DecodeExpr(ra.Guard)
				if err != nil {
					return nil, err
				}
			}
			body, err := DecodeExpr(ra.Body)
			if err != nil {
				return nil, err
			}
			arms[i] = MatchArm{Pattern: pat, Guard: guard, Body: body}
		}
		return &Match{Scrutinee: scrut, Arms: arms, Pos: pos}, nil
	case "let":
		var rawPat json.RawMessage
		if err := field(m, "pattern", &rawPat); err != nil {
			return nil, err
		}
		pat, err := DecodePattern(rawPat)
		if err != nil {
			return nil, err
		}
		ascribe, err := decodeTyp(m, "ascribe")
		if err != nil {
			return nil, err
		}
		value, err := decodeExprField(m, "value")
		if err != nil {
			return nil, err
		}
		var body Expr
		if raw, ok := m["body"]; ok && string(raw) != "null" {
			body, err = DecodeExpr(raw)
			if err != nil {
				return nil, err
			}
		}
		return &Let{Pattern: pat, Ascribe: ascribe, Value: value, Body: body, Pos: pos}, nil
	case "app":
		fn, err := decodeExprField(m, "func")
		if err != nil {
			return nil, err
		}
		args, err := decodeExprs(m, "args")
		if err != nil {
			return nil, err
		}
		return &App{Func: fn, Args: args, Pos: pos}, nil
	case "tuple":
		elems, err := decodeExprs(m, "elems")
		if err != nil {
			return nil, err
		}
		return &Tuple{Elems: elems, Pos: pos}, nil
	case "vector":
		elems, err := decodeExprs(m, "elems")
		if err != nil {
			return nil, err
		}
		return &VectorLit{Elems: elems, Pos: pos}, nil
	case "record-update":
		var base Expr
		if raw, ok := m["base"]; ok && string(raw) != "null" {
			base, err = DecodeExpr(raw)
			if err != nil {
				return nil, err
			}
		}
		record, err := decodeId(m, "record")
		if err != nil {
			return nil, err
		}
		var rawFields map[string]json.RawMessage
		if err := field(m, "fields", &rawFields); err != nil {
			return nil, err
		}
		fields := make(map[string]Expr, len(rawFields))
		for name, r := range rawFields {
			fields[name], err = DecodeExpr(r)
			if err != nil {
				return nil, err
			}
		}
		return &RecordUpdate{Base: base, Record: record, Fields: fields, Pos: pos}, nil
	case "field-access":
		rec, err := decodeExprField(m, "record")
		if err != nil {
			return nil, err
		}
		var f string
		if err := field(m, "field", &f); err != nil {
			return nil, err
		}
		return &FieldAccess{Record: rec, Field: f, Pos: pos}, nil
	case "cast":
		e, err := decodeExprField(m, "expr")
		if err != nil {
			return nil, err
		}
		t, err := decodeTyp(m, "type")
		if err != nil {
			return nil, err
		}
		return &Cast{Expr: e, Type: t, Pos: pos}, nil
	case "assign":
		var rawL json.RawMessage
		if err := field(m, "lexpr", &rawL); err != nil {
			return nil, err
		}
		lexpr, err := DecodeLExpr(rawL)
		if err != nil {
			return nil, err
		}
		value, err := decodeExprField(m, "value")
		if err != nil {
			return nil, err
		}
		return &Assign{LExpr: lexpr, Value: value, Pos: pos}, nil
	case "solve":
		var rawN json.RawMessage
		if err := field(m, "nexp", &rawN); err != nil {
			return nil, err
		}
		n, err := types.DecodeNExp(rawN)
		if err != nil {
			return nil, err
		}
		return &Solve{NExp: n, Pos: pos}, nil
	default:
		return nil, fmt.Errorf("ast: unknown expression kind %q", k)
	}
}

func decodeExprField(m map[string]json.RawMessage, key string) (Expr, error) {
	raw, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("ast: missing field %q", key)
	}
	return DecodeExpr(raw)
}

func decodeExprs(m map[string]json.RawMessage, key string) ([]Expr, error) {
	var raws []json.RawMessage
	if err := field(m, key, &raws); err != nil {
		return nil, err
	}
	out := make([]Expr, len(raws))
	for i, r := range raws {
		e, err := DecodeExpr(r)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// DecodeLExpr parses one l-expression node from JSON.
func DecodeLExpr(data []byte) (LExpr, error) {
	k, m, err := decodeNode(data)
	if err != nil {
		return nil, err
	}
	pos, err := decodePos(m)
	if err != nil {
		return nil, err
	}
	switch k {
	case "l-id":
		name, err := decodeId(m, "name")
		if err != nil {
			return nil, err
		}
		return &LId{Name: name, Pos: pos}, nil
	case "l-cast":
		var rawInner json.RawMessage
		if err := field(m, "inner", &rawInner); err != nil {
			return nil, err
		}
		inner, err := DecodeLExpr(rawInner)
		if err != nil {
			return nil, err
		}
		t, err := decodeTyp(m, "type")
		if err != nil {
			return nil, err
		}
		return &LCast{Inner: inner, Type: t, Pos: pos}, nil
	case "l-tuple":
		var raws []json.RawMessage
		if err := field(m, "elems", &raws); err != nil {
			return nil, err
		}
		elems := make([]LExpr, len(raws))
		for i, r := range raws {
			elems[i], err = DecodeLExpr(r)
			if err != nil {
				return nil, err
			}
		}
		return &LTuple{Elems: elems, Pos: pos}, nil
	case "l-vector-index":
		vec, err := decodeLExprField(m, "vector")
		if err != nil {
			return nil, err
		}
		idx, err := decodeExprField(m, "index")
		if err != nil {
			return nil, err
		}
		return &LVectorIndex{Vector: vec, Index: idx, Pos: pos}, nil
	case "l-vector-range":
		vec, err := decodeLExprField(m, "vector")
		if err != nil {
			return nil, err
		}
		hi, err := decodeExprField(m, "high")
		if err != nil {
			return nil, err
		}
		lo, err := decodeExprField(m, "low")
		if err != nil {
			return nil, err
		}
		return &LVectorRange{Vector: vec, High: hi, Low: lo, Pos: pos}, nil
	case "l-field":
		rec, err := decodeLExprField(m, "record")
		if err != nil {
			return nil, err
		}
		var f string
		if err := field(m, "field", &f); err != nil {
			return nil, err
		}
		return &LField{Record: rec, Field: f, Pos: pos}, nil
	case "l-deref":
		reg, err := decodeExprField(m, "reg")
		if err != nil {
			return nil, err
		}
		return &LDeref{Reg: reg, Pos: pos}, nil
	default:
		return nil, fmt.Errorf("ast: unknown l-expression kind %q", k)
	}
}

func decodeLExprField(m map[string]json.RawMessage, key string) (LExpr, error) {
	raw, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("ast: missing field %q", key)
	}
	return DecodeLExpr(raw)
}

// DecodeDef parses one top-level definition node from JSON.
func DecodeDef(data []byte) (Def, error) {
	k, m, err := decodeNode(data)
	if err != nil {
		return nil, err
	}
	pos, err := decodePos(m)
	if err != nil {
		return nil, err
	}
	switch k {
	case "kind-def":
		var raw json.RawMessage
		if err := field(m, "name", &raw); err != nil {
			return nil, err
		}
		kd, err := decodeKindedID(raw)
		if err != nil {
			return nil, err
		}
		return &KindDef{Name: kd, Pos: pos}, nil
	case "type-synonym":
		name, err := decodeId(m, "name")
		if err != nil {
			return nil, err
		}
		params, err := decodeKindedIDs(m, "params")
		if err != nil {
			return nil, err
		}
		body, err := decodeTyp(m, "body")
		if err != nil {
			return nil, err
		}
		return &TypeSynonymDef{Name: name, Params: params, Body: body, Pos: pos}, nil
	case "record":
		name, err := decodeId(m, "name")
		if err != nil {
			return nil, err
		}
		params, err := decodeKindedIDs(m, "params")
		if err != nil {
			return nil, err
		}
		var rawFields []struct {
			Name string          `json:"name"`
			Type json.RawMessage `json:"type"`
		}
		if err := field(m, "fields", &rawFields); err != nil {
			return nil, err
		}
		fields := make([]RecordField, len(rawFields))
		for i, rf := range rawFields {
			t, err := types.DecodeTyp(rf.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = RecordField{Name: rf.Name, Type: t}
		}
		return &RecordDef{Name: name, Params: params, Fields: fields, Pos: pos}, nil
	case "variant":
		name, err := decodeId(m, "name")
		if err != nil {
			return nil, err
		}
		params, err := decodeKindedIDs(m, "params")
		if err != nil {
			return nil, err
		}
		var rawCtors []struct {
			Name json.RawMessage `json:"name"`
			Arg  json.RawMessage `json:"arg"`
		}
		if err := field(m, "ctors", &rawCtors); err != nil {
			return nil, err
		}
		ctors := make([]VariantCtor, len(rawCtors))
		for i, rc := range rawCtors {
			var idRaw struct {
				Name string `json:"name"`
				Pos  Pos    `json:"pos"`
			}
			if err := json.Unmarshal(rc.Name, &idRaw); err != nil {
				return nil, err
			}
			var arg types.Typ
			if len(rc.Arg) > 0 && string(rc.Arg) != "null" {
				arg, err = types.DecodeTyp(rc.Arg)
				if err != nil {
					return nil, err
				}
			}
			ctors[i] = VariantCtor{Name: Id{Name: idRaw.Name, Pos: idRaw.Pos}, Arg: arg}
		}
		return &VariantDef{Name: name, Params: params, Ctors: ctors, Pos: pos}, nil
	case "enum":
		name, err := decodeId(m, "name")
		if err != nil {
			return nil, err
		}
		members, err := decodeIds(m, "members")
		if err != nil {
			return nil, err
		}
		return &EnumDef{Name: name, Members: members, Pos: pos}, nil
	case "bitfield":
		name, err := decodeId(m, "name")
		if err != nil {
			return nil, err
		}
		var width int
		if err := field(m, "width", &width); err != nil {
			return nil, err
		}
		var segs []BitfieldSegment
		if err := field(m, "segments", &segs); err != nil {
			return nil, err
		}
		return &BitfieldDef{Name: name, Width: width, Segments: segs, Pos: pos}, nil
	case "val-spec":
		name, err := decodeId(m, "name")
		if err != nil {
			return nil, err
		}
		var rawScheme json.RawMessage
		if err := field(m, "scheme", &rawScheme); err != nil {
			return nil, err
		}
		scheme, err := types.DecodeTypeScheme(rawScheme)
		if err != nil {
			return nil, err
		}
		return &ValSpecDef{Name: name, Scheme: scheme, Pos: pos}, nil
	case "function":
		name, err := decodeId(m, "name")
		if err != nil {
			return nil, err
		}
		var rawClauses []struct {
			Pattern json.RawMessage `json:"pattern"`
			Guard   json.RawMessage `json:"guard"`
			Body    json.RawMessage `json:"body"`
			Pos     Pos             `json:"pos"`
		}
		if err := field(m, "clauses", &rawClauses); err != nil {
			return nil, err
		}
		clauses := make([]FunClause, len(rawClauses))
		for i, rc := range rawClauses {
			pat, err := DecodePattern(rc.Pattern)
			if err != nil {
				return nil, err
			}
			var guard Expr
			if len(rc.Guard) > 0 && string(rc.Guard) != "null" {
				guard, err = DecodeExpr(rc.Guard)
				if err != nil {
					return nil, err
				}
			}
			body, err := DecodeExpr(rc.Body)
			if err != nil {
				return nil, err
			}
			clauses[i] = FunClause{Pattern: pat, Guard: guard, Body: body, Pos: rc.Pos}
		}
		return &FunDef{Name: name, Clauses: clauses, Pos: pos}, nil
	case "mapping":
		name, err := decodeId(m, "name")
		if err != nil {
			return nil, err
		}
		var rawClauses []struct {
			Kind  string          `json:"kind"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
			Pos   Pos             `json:"pos"`
		}
		if err := field(m, "clauses", &rawClauses); err != nil {
			return nil, err
		}
		clauses := make([]MapClause, len(rawClauses))
		for i, rc := range rawClauses {
			left, err := DecodePattern(rc.Left)
			if err != nil {
				return nil, err
			}
			right, err := DecodePattern(rc.Right)
			if err != nil {
				return nil, err
			}
			mk := MapBidir
			switch rc.Kind {
			case "forwards":
				mk = MapForwardsOnly
			case "backwards":
				mk = MapBackwardsOnly
			}
			clauses[i] = MapClause{Kind: mk, Left: left, Right: right, Pos: rc.Pos}
		}
		return &MapDef{Name: name, Clauses: clauses, Pos: pos}, nil
	case "let-def":
		var rawPat json.RawMessage
		if err := field(m, "pattern", &rawPat); err != nil {
			return nil, err
		}
		pat, err := DecodePattern(rawPat)
		if err != nil {
			return nil, err
		}
		value, err := decodeExprField(m, "value")
		if err != nil {
			return nil, err
		}
		return &LetDef{Pattern: pat, Value: value, Pos: pos}, nil
	case "default-order":
		var om map[string]json.RawMessage
		if err := field(m, "order", &om); err != nil {
			return nil, err
		}
		var ok string
		if err := field(om, "kind", &ok); err != nil {
			return nil, err
		}
		var order types.Order
		switch ok {
		case "inc":
			order = types.OConst{Inc: true}
		case "dec":
			order = types.OConst{Inc: false}
		default:
			return nil, fmt.Errorf("ast: default order must be a concrete inc/dec literal, got %q", ok)
		}
		return &DefaultOrderDef{Order: order, Pos: pos}, nil
	case "overload":
		name, err := decodeId(m, "name")
		if err != nil {
			return nil, err
		}
		members, err := decodeIds(m, "members")
		if err != nil {
			return nil, err
		}
		return &OverloadDef{Name: name, Members: members, Pos: pos}, nil
	case "register":
		name, err := decodeId(m, "name")
		if err != nil {
			return nil, err
		}
		t, err := decodeTyp(m, "type")
		if err != nil {
			return nil, err
		}
		var rk string
		if err := field(m, "register_kind", &rk); err != nil {
			return nil, err
		}
		rek := RegisterReadWrite
		if rk == "config" {
			rek = RegisterConfig
		}
		return &RegisterDef{Name: name, Type: t, Kind: rek, Pos: pos}, nil
	case "cast":
		name, err := decodeId(m, "name")
		if err != nil {
			return nil, err
		}
		return &CastDef{Name: name, Pos: pos}, nil
	default:
		return nil, fmt.Errorf("ast: unknown definition kind %q", k)
	}
}

func decodeIds(m map[string]json.RawMessage, key string) ([]Id, error) {
	var raws []struct {
		Name string `json:"name"`
		Pos  Pos    `json:"pos"`
	}
	if err := field(m, key, &raws); err != nil {
		return nil, err
	}
	out := make([]Id, len(raws))
	for i, r := range raws {
		out[i] = Id{Name: r.Name, Pos: r.Pos}
	}
	return out, nil
}

// DecodeProgram parses a whole definition stream: a JSON array of
// individually tagged Def nodes, in source order.
func DecodeProgram(data []byte) ([]Def, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	defs := make([]Def, len(raws))
	for i, r := range raws {
		d, err := DecodeDef(r)
		if err != nil {
			return nil, fmt.Errorf("ast: definition %d: %w", i, err)
		}
		defs[i] = d
	}
	return defs, nil
}
