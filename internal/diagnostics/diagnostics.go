// Package diagnostics renders checker errors for a terminal: colourised,
// with the offending file:line:column and a structured error code a caller
// can group or filter on.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/sail-lang/sailcheck/internal/ast"
)

var (
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// Code classifies a diagnostic for machine consumption (sorting, counting,
// suppressing a class of warnings) independent of its prose message.
type Code string

const (
	CodeUnboundName       Code = "SC001"
	CodeKindMismatch      Code = "SC002"
	CodeTypeMismatch      Code = "SC003"
	CodeConstraintFailed  Code = "SC004"
	CodeEffectOverrun     Code = "SC005"
	CodeRedefinition      Code = "SC006"
	CodeMalformedPattern  Code = "SC007"
	CodeUnhandledForm     Code = "SC008"
)

// Diagnostic is a single reported problem: a position, a code, a message,
// and an optional one-line fix suggestion.
type Diagnostic struct {
	Pos     ast.Pos `json:"pos"`
	Code    Code    `json:"code"`
	Message string  `json:"message"`
	Fix     string  `json:"fix,omitempty"`
}

// FromError wraps err into a Diagnostic carrying CodeUnhandledForm and
// err's own message; it does not inspect err to choose a more specific code.
func FromError(pos ast.Pos, err error) Diagnostic {
	return Diagnostic{Pos: pos, Code: CodeUnhandledForm, Message: err.Error()}
}

// Print writes d to w in human-readable, colourised form: "file:line:col:
// code message", followed by an indented fix line when present.
func Print(w io.Writer, d Diagnostic) {
	fmt.Fprintf(w, "%s %s %s\n", red(d.Pos.String()+":"), dim(string(d.Code)), d.Message)
	if d.Fix != "" {
		fmt.Fprintf(w, "  %s %s\n", cyan("fix:"), d.Fix)
	}
}

// PrintWarning writes a non-fatal diagnostic in yellow rather than red.
func PrintWarning(w io.Writer, d Diagnostic) {
	fmt.Fprintf(w, "%s %s %s\n", yellow(d.Pos.String()+":"), dim(string(d.Code)), d.Message)
}

// PrintJSON writes d as a single-line JSON object, for machine-readable
// output modes (editor integrations, CI log parsing).
func PrintJSON(w io.Writer, d Diagnostic) error {
	enc := json.NewEncoder(w)
	return enc.Encode(d)
}

// Summary renders a final "N error(s)" / "no errors" line the way a CLI
// exit banner does.
func Summary(w io.Writer, n int) {
	if n == 0 {
		fmt.Fprintln(w, color.New(color.FgGreen).Sprint("no errors"))
		return
	}
	plural := "s"
	if n == 1 {
		plural = ""
	}
	fmt.Fprintln(w, red(fmt.Sprintf("%d error%s", n, plural)))
}
