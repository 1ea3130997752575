package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sail-lang/sailcheck/internal/ast"
	"github.com/sail-lang/sailcheck/internal/toplevel"
)

func TestLoadConfigDefaultsWhenNoPathSet(t *testing.T) {
	old := cfgPath
	cfgPath = ""
	defer func() { cfgPath = old }()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Policy.ConstraintSynonyms {
		t.Error("expected the default config to turn constraint_synonyms on")
	}
	if len(cfg.Sources) != 0 {
		t.Errorf("expected no sources in the default config, got %v", cfg.Sources)
	}
}

func TestNewSessionWiresPolicyAndSolver(t *testing.T) {
	old := cfgPath
	cfgPath = ""
	defer func() { cfgPath = old }()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := newSession(cfg); err != nil {
		t.Errorf("expected the default config to build a valid session: %v", err)
	}
}

func TestAsToplevelErrorUnwrapsWrappedError(t *testing.T) {
	inner := &toplevel.Error{Pos: ast.Pos{File: "f.sail", Line: 1, Column: 1}, Err: errors.New("boom")}
	wrapped := fmt.Errorf("while doing something: %w", inner)

	var out *toplevel.Error
	if !asToplevelError(wrapped, &out) {
		t.Fatal("expected asToplevelError to find the wrapped toplevel.Error")
	}
	if out != inner {
		t.Error("expected asToplevelError to return the original toplevel.Error")
	}
}

func TestAsToplevelErrorFalseForUnrelatedError(t *testing.T) {
	var out *toplevel.Error
	if asToplevelError(errors.New("plain"), &out) {
		t.Error("expected asToplevelError to report false for an error with no toplevel.Error in its chain")
	}
}

func TestHistoryFilePathIsNonEmpty(t *testing.T) {
	if historyFilePath() == "" {
		t.Error("expected a non-empty history file path")
	}
}
