package toplevel

import (
	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/typedast"
)

func (s *Session) checkTypeSynonymDef(v *ast.TypeSynonymDef) (typedast.Def, error) {
	s.Root.AddTypeSynonym(v.Name.Name, v.Params, v.Body)
	return typedast.Def{Source: v, Env: s.Root}, nil
}

func (s *Session) checkRecordDef(v *ast.RecordDef) (typedast.Def, error) {
	cur := s.Root
	for _, p := range v.Params {
		cur = cur.ExtendTypeVar(p)
	}
	for _, f := range v.Fields {
		if err := cur.WellFormed(f.Type); err != nil {
			return typedast.Def{}, errAt(v.Pos, "record %s field %q: %v", v.Name.Name, f.Name, err)
		}
	}
	s.Root.AddRecord(v.Name.Name, env.RecordInfo{Params: v.Params, Fields: v.Fields})
	return typedast.Def{Source: v, Env: s.Root}, nil
}

func (s *Session) checkVariantDef(v *ast.VariantDef) (typedast.Def, error) {
	cur := s.Root
	for _, p := range v.Params {
		cur = cur.ExtendTypeVar(p)
	}
	for _, c := range v.Ctors {
		if c.Arg == nil {
			continue
		}
		if err := cur.WellFormed(c.Arg); err != nil {
			return typedast.Def{}, errAt(v.Pos, "union %s constructor %q: %v", v.Name.Name, c.Name.Name, err)
		}
	}
	s.Root.AddUnion(v.Name.Name, env.UnionInfo{Params: v.Params, Ctors: v.Ctors})
	return typedast.Def{Source: v, Env: s.Root}, nil
}

func (s *Session) checkEnumDef(v *ast.EnumDef) (typedast.Def, error) {
	s.Root.AddEnum(v.Name.Name, env.EnumInfo{Members: v.Members})
	return typedast.Def{Source: v, Env: s.Root}, nil
}
