package toplevel

import (
	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/types"
	"github.com/sail-lang/sailcheck/internal/typedast"
)

// expandBitfield turns a bitfield declaration into the record-shaped
// projection it stands for: one field per named segment, each sized to
// the segment's bit width. Field access/assignment syntax (FieldAccess,
// LField) already gives callers the get/set sugar a bitfield segment
// needs, so no separate accessor function is synthesized — the generated
// record is the whole expansion.
func (s *Session) expandBitfield(def *ast.BitfieldDef) *ast.RecordDef {
	order, _ := s.Root.DefaultOrder()
	fields := make([]ast.RecordField, len(def.Segments))
	for i, seg := range def.Segments {
		w := seg.High - seg.Low
		if w < 0 {
			w = -w
		}
		w++
		fields[i] = ast.RecordField{Name: seg.Name, Type: types.BitVectorType(types.Lit(int64(w)), order)}
	}
	return &ast.RecordDef{Name: def.Name, Fields: fields, Pos: def.Pos}
}

// checkBitfieldDef expands def into its backing record and re-runs it
// through the ordinary record-definition path, so the segments' field
// types are validated the same way a user-written record's would be.
func (s *Session) checkBitfieldDef(def *ast.BitfieldDef) (typedast.Def, error) {
	rec := s.expandBitfield(def)
	return s.checkRecordDef(rec)
}
