// Package ident normalizes Sail source identifiers the way the teacher's
// lexer normalizes tokens before comparison: Unicode NFC form so two
// byte-distinct but canonically-equivalent spellings of an identifier
// collide, and a case-folded key for the diagnostics that need to report
// "did you mean %s" on a near-miss name.
package ident

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var foldCaser = cases.Fold()

// Normalize puts name into NFC form, the canonical spelling the checker's
// symbol tables key on. Two identifiers that render identically but use
// different combining-character sequences must resolve to the same
// binding.
func Normalize(name string) string {
	return norm.NFC.String(name)
}

// FoldKey produces a case- and form-insensitive comparison key for name,
// used only for suggestion matching ("unbound name x, did you mean X?"),
// never for binding resolution — Sail identifiers are case-sensitive.
func FoldKey(name string) string {
	return foldCaser.String(norm.NFC.String(name))
}

// Suggest returns the candidate from known whose fold key matches name's
// most closely by Levenshtein distance, or "" if nothing is within dist.
func Suggest(name string, known []string, maxDist int) string {
	target := FoldKey(name)
	best := ""
	bestDist := maxDist + 1
	for _, cand := range known {
		d := levenshtein(target, FoldKey(cand))
		if d < bestDist {
			bestDist = d
			best = cand
		}
	}
	if bestDist > maxDist {
		return ""
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
