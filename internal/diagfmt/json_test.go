package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"didls/internal/diag"
	"didls/internal/source"
)

func TestBuildDiagnostic(t *testing.T) {
	fs, id := virtualFile(t, "main.did", "type A = nat;\ntype = nat;")
	d := diag.NewError(diag.SynUnexpectedToken,
		source.Span{File: id, Start: 19, End: 20}, "unexpected token '='")

	got := BuildDiagnostic(d, fs, JSONOpts{IncludePositions: true})
	if got.Severity != "ERROR" {
		t.Errorf("severity: got %q, want ERROR", got.Severity)
	}
	if got.Code != "SYN2003" {
		t.Errorf("code: got %q, want SYN2003", got.Code)
	}
	if got.Title != "Unexpected token" {
		t.Errorf("title: got %q", got.Title)
	}
	if got.Message != "unexpected token '='" {
		t.Errorf("message: got %q", got.Message)
	}
	loc := got.Location
	if loc.File != "main.did" {
		t.Errorf("file: got %q", loc.File)
	}
	if loc.Start != 19 || loc.End != 20 {
		t.Errorf("offsets: got %d..%d, want 19..20", loc.Start, loc.End)
	}
	if loc.StartLine != 2 || loc.StartCol != 6 {
		t.Errorf("start position: got %d:%d, want 2:6", loc.StartLine, loc.StartCol)
	}
	if loc.EndLine != 2 || loc.EndCol != 7 {
		t.Errorf("end position: got %d:%d, want 2:7", loc.EndLine, loc.EndCol)
	}
}

func TestBuildDiagnosticWithoutPositions(t *testing.T) {
	fs, id := virtualFile(t, "main.did", "type A = nat;")
	d := diag.NewError(diag.SynUnexpectedToken,
		source.Span{File: id, Start: 5, End: 6}, "unexpected token 'A'")

	got := BuildDiagnostic(d, fs, JSONOpts{})
	if got.Location.StartLine != 0 || got.Location.StartCol != 0 {
		t.Errorf("positions resolved without the flag: %d:%d",
			got.Location.StartLine, got.Location.StartCol)
	}
}

func TestBuildDiagnosticNotes(t *testing.T) {
	fs, id := virtualFile(t, "main.did", "type A = nat;")
	d := diag.NewError(diag.SemaUndefinedVariable,
		source.Span{File: id, Start: 9, End: 12}, "undefined variable nat").
		WithNote(source.Span{File: id, Start: 5, End: 6}, "defined here")

	if got := BuildDiagnostic(d, fs, JSONOpts{}); len(got.Notes) != 0 {
		t.Fatalf("notes emitted without the flag: %d", len(got.Notes))
	}

	got := BuildDiagnostic(d, fs, JSONOpts{IncludeNotes: true})
	if len(got.Notes) != 1 {
		t.Fatalf("notes: got %d, want 1", len(got.Notes))
	}
	if got.Notes[0].Message != "defined here" {
		t.Errorf("note message: got %q", got.Notes[0].Message)
	}
	if got.Notes[0].Location.Start != 5 {
		t.Errorf("note offset: got %d, want 5", got.Notes[0].Location.Start)
	}
}

func TestBuildDiagnosticsOutputMax(t *testing.T) {
	fs, id := virtualFile(t, "main.did", "type = nat;\ntype = nat;")
	bag := diag.NewBag(8)
	bag.Add(diag.NewError(diag.SynExpectIdent,
		source.Span{File: id, Start: 5, End: 6}, "expected type name after 'type'"))
	bag.Add(diag.NewError(diag.SynExpectIdent,
		source.Span{File: id, Start: 17, End: 18}, "expected type name after 'type'"))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if len(out.Diagnostics) != 1 {
		t.Fatalf("diagnostics: got %d, want 1", len(out.Diagnostics))
	}
	if out.Count != 2 {
		t.Errorf("count should report the full bag: got %d, want 2", out.Count)
	}

	all := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	if len(all.Diagnostics) != 2 {
		t.Fatalf("unlimited diagnostics: got %d, want 2", len(all.Diagnostics))
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	fs, id := virtualFile(t, "main.did", "type = nat;")
	bag := diag.NewBag(8)
	bag.Add(diag.NewError(diag.SynExpectIdent,
		source.Span{File: id, Start: 5, End: 6}, "expected type name after 'type'"))

	var buf bytes.Buffer
	opts := JSONOpts{IncludePositions: true}
	if err := WriteJSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("output: count %d, %d diagnostics", out.Count, len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.Code != "SYN2006" || d.Location.StartLine != 1 || d.Location.StartCol != 6 {
		t.Errorf("diagnostic: code %q at %d:%d", d.Code, d.Location.StartLine, d.Location.StartCol)
	}
}
