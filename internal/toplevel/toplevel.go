// Package toplevel implements the top-level definition checker: the driver
// that threads the environment through a definition stream, delegating
// each expression to internal/check. A Session owns the naming context,
// the global policy flags and the accumulated environment, so a
// multi-file driver can process several definition streams while
// resetting the fresh-name counters between independent checking sessions.
package toplevel

import (
	"context"
	"fmt"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/env"
	"github.com/sail-lang/sailcheck/internal/typedast"
)

// Session drives a definition stream against a single checking session. A
// zero Session is not usable; construct one with NewSession.
type Session struct {
	Root *env.Environment
}

// NewSession creates a Session over a fresh environment rooted at s.
func NewSession(s *env.Session) *Session {
	return &Session{Root: env.NewRoot(s)}
}

// Error wraps a definition-level failure with the offending definition's
// source location. Its structured error-kind taxonomy is carried unchanged
// by the wrapped *check.Error when present.
type Error struct {
	Pos ast.Pos
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Pos, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

func errAt(pos ast.Pos, format string, args ...interface{}) error {
	return &Error{Pos: pos, Err: fmt.Errorf(format, args...)}
}

// CheckStream processes defs in source order, threading the environment
// from one definition to the next. It stops at the first failing
// definition and returns everything checked so far plus the error,
// unless continueOnError is set, in which case it skips the failing
// definition (leaving the environment unchanged) and keeps going —
// mirroring the opt-in multi-definition continuation behaviour.
func (s *Session) CheckStream(ctx context.Context, defs []ast.Def, continueOnError bool) ([]typedast.Def, error) {
	var out []typedast.Def
	var firstErr error
	for _, d := range defs {
		checked, err := s.CheckDef(ctx, d)
		if err != nil {
			if !continueOnError {
				return out, err
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out = append(out, checked)
	}
	return out, firstErr
}

// CheckDef processes a single definition against the Session's current
// environment, advancing it on success. The environment is left untouched
// on failure.
func (s *Session) CheckDef(ctx context.Context, d ast.Def) (typedast.Def, error) {
	switch v := d.(type) {
	case *ast.KindDef:
		next := s.Root.ExtendTypeVar(v.Name)
		s.Root = next
		return typedast.Def{Source: d, Env: next}, nil

	case *ast.TypeSynonymDef:
		return s.checkTypeSynonymDef(v)

	case *ast.RecordDef:
		return s.checkRecordDef(v)

	case *ast.VariantDef:
		return s.checkVariantDef(v)

	case *ast.EnumDef:
		return s.checkEnumDef(v)

	case *ast.BitfieldDef:
		return s.checkBitfieldDef(v)

	case *ast.ValSpecDef:
		return s.checkValSpecDef(v)

	case *ast.FunDef:
		return s.checkFunDef(ctx, v)

	case *ast.MapDef:
		return s.checkMapDef(ctx, v)

	case *ast.LetDef:
		return s.checkLetDef(ctx, v)

	case *ast.DefaultOrderDef:
		if err := s.Root.SetDefaultOrder(v.Order); err != nil {
			return typedast.Def{}, errAt(v.Pos, "%v", err)
		}
		return typedast.Def{Source: d, Env: s.Root}, nil

	case *ast.OverloadDef:
		for _, m := range v.Members {
			s.Root.AddOverloadMember(v.Name.Name, m)
		}
		return typedast.Def{Source: d, Env: s.Root}, nil

	case *ast.RegisterDef:
		s.Root.AddRegister(v.Name.Name, v.Type, v.Kind)
		return typedast.Def{Source: d, Env: s.Root}, nil

	case *ast.CastDef:
		s.Root.AppendCast(v.Name)
		return typedast.Def{Source: d, Env: s.Root}, nil

	default:
		return typedast.Def{}, errAt(d.Position(), "unhandled definition form %T", d)
	}
}
