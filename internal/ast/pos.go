// Package ast defines the syntax-level data model the static semantics
// engine consumes: source positions, identifiers, patterns, expressions and
// l-expressions. These shapes are produced by an upstream parser (out of
// scope for this engine) and annotated in place by the checker.
package ast

import "fmt"

// Pos is a source location. Every syntactic node carries one.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a range between two positions.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}
