package diagnostics

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sail-lang/sailcheck/internal/ast"
)

func TestFromErrorFallsBackToUnhandled(t *testing.T) {
	pos := ast.Pos{File: "f.sail", Line: 3, Column: 1}
	d := FromError(pos, errors.New("boom"))
	if d.Code != CodeUnhandledForm {
		t.Errorf("FromError code = %s, want %s", d.Code, CodeUnhandledForm)
	}
	if d.Message != "boom" {
		t.Errorf("FromError message = %q, want %q", d.Message, "boom")
	}
	if d.Pos != pos {
		t.Errorf("FromError position = %v, want %v", d.Pos, pos)
	}
}

func TestPrintIncludesPositionCodeAndFix(t *testing.T) {
	var buf bytes.Buffer
	d := Diagnostic{
		Pos:     ast.Pos{File: "f.sail", Line: 1, Column: 2},
		Code:    CodeTypeMismatch,
		Message: "expected int",
		Fix:     "cast to int",
	}
	Print(&buf, d)
	out := buf.String()
	if !strings.Contains(out, string(CodeTypeMismatch)) {
		t.Errorf("Print output missing code: %s", out)
	}
	if !strings.Contains(out, "expected int") {
		t.Errorf("Print output missing message: %s", out)
	}
	if !strings.Contains(out, "cast to int") {
		t.Errorf("Print output missing fix line: %s", out)
	}
}

func TestPrintOmitsFixLineWhenAbsent(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, Diagnostic{Pos: ast.Pos{File: "f.sail", Line: 1, Column: 1}, Code: CodeUnboundName, Message: "unbound x"})
	if strings.Contains(buf.String(), "fix:") {
		t.Error("expected no fix line when Fix is empty")
	}
}

func TestPrintJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	d := Diagnostic{
		Pos:     ast.Pos{File: "f.sail", Line: 5, Column: 9},
		Code:    CodeEffectOverrun,
		Message: "declared effects too narrow",
	}
	if err := PrintJSON(&buf, d); err != nil {
		t.Fatal(err)
	}
	var got Diagnostic
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got != d {
		t.Errorf("round-tripped diagnostic = %+v, want %+v", got, d)
	}
}

func TestSummaryPluralization(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, 0)
	if !strings.Contains(buf.String(), "no errors") {
		t.Errorf("Summary(0) = %q, want it to mention no errors", buf.String())
	}

	buf.Reset()
	Summary(&buf, 1)
	if !strings.Contains(buf.String(), "1 error") || strings.Contains(buf.String(), "1 errors") {
		t.Errorf("Summary(1) = %q, want singular form", buf.String())
	}

	buf.Reset()
	Summary(&buf, 3)
	if !strings.Contains(buf.String(), "3 errors") {
		t.Errorf("Summary(3) = %q, want plural form", buf.String())
	}
}
