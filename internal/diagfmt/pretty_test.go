package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"didls/internal/diag"
	"didls/internal/source"
)

func virtualFile(t *testing.T, name, text string) (*source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	return fs, fs.AddVirtual(name, text)
}

func renderDiagnostic(d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) string {
	var buf bytes.Buffer
	PrettyDiagnostic(&buf, d, fs, opts)
	return buf.String()
}

func TestPrettyDiagnosticBasic(t *testing.T) {
	fs, id := virtualFile(t, "main.did", "type A = nat;\ntype = nat;")
	d := diag.NewError(diag.SynUnexpectedToken,
		source.Span{File: id, Start: 19, End: 20}, "unexpected token '='")

	got := renderDiagnostic(d, fs, PrettyOpts{})
	want := "main.did:2:6: ERROR SYN2003: unexpected token '='\n" +
		"  2 | type = nat;\n" +
		"    |      ^\n"
	if got != want {
		t.Fatalf("frame:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyMultiRuneSpan(t *testing.T) {
	fs, id := virtualFile(t, "main.did", "type A = nat;\ntype = nat;")
	d := diag.NewError(diag.SemaUndefinedVariable,
		source.Span{File: id, Start: 9, End: 12}, "undefined variable nat")

	got := renderDiagnostic(d, fs, PrettyOpts{})
	want := "main.did:1:10: ERROR SEM3001: undefined variable nat\n" +
		"  1 | type A = nat;\n" +
		"    |          ^~~\n"
	if got != want {
		t.Fatalf("underline:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyContextLines(t *testing.T) {
	fs, id := virtualFile(t, "main.did", "type A = nat;\ntype = nat;\ntype B = bool;")
	d := diag.NewError(diag.SynUnexpectedToken,
		source.Span{File: id, Start: 19, End: 20}, "unexpected token '='")

	got := renderDiagnostic(d, fs, PrettyOpts{Context: 1})
	want := "main.did:2:6: ERROR SYN2003: unexpected token '='\n" +
		"  1 | type A = nat;\n" +
		"  2 | type = nat;\n" +
		"    |      ^\n" +
		"  3 | type B = bool;\n"
	if got != want {
		t.Fatalf("context:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyEmptySpanHeaderOnly(t *testing.T) {
	fs, id := virtualFile(t, "empty.did", "")
	d := diag.NewError(diag.IOLoadFileError,
		source.Span{File: id}, "failed to load file: boom")

	got := renderDiagnostic(d, fs, PrettyOpts{})
	if got != "empty.did:1:1: ERROR IO4001: failed to load file: boom\n" {
		t.Fatalf("header: got %q", got)
	}
}

func TestPrettyTabIndent(t *testing.T) {
	fs, id := virtualFile(t, "main.did", "\ttype = nat;")
	d := diag.NewError(diag.SynUnexpectedToken,
		source.Span{File: id, Start: 6, End: 7}, "unexpected token '='")

	got := renderDiagnostic(d, fs, PrettyOpts{})
	want := "main.did:1:7: ERROR SYN2003: unexpected token '='\n" +
		"  1 | \ttype = nat;\n" +
		"    | \t     ^\n"
	if got != want {
		t.Fatalf("tab alignment:\ngot:\n%q\nwant:\n%q", got, want)
	}
}

func TestPrettyWideRune(t *testing.T) {
	fs, id := virtualFile(t, "main.did", "type 好 = nat;")
	d := diag.NewError(diag.SynUnexpectedToken,
		source.Span{File: id, Start: 7, End: 8}, "unexpected token '='")

	got := renderDiagnostic(d, fs, PrettyOpts{})
	want := "main.did:1:8: ERROR SYN2003: unexpected token '='\n" +
		"  1 | type 好 = nat;\n" +
		"    |         ^\n"
	if got != want {
		t.Fatalf("wide rune alignment:\ngot:\n%q\nwant:\n%q", got, want)
	}
}

func TestPrettyMultilineSpanStopsAtLineEnd(t *testing.T) {
	fs, id := virtualFile(t, "main.did", "type A = nat;\ntype = nat;")
	d := diag.NewError(diag.SynExpectSemicolon,
		source.Span{File: id, Start: 9, End: 20}, "expected ';'")

	got := renderDiagnostic(d, fs, PrettyOpts{})
	want := "main.did:1:10: ERROR SYN2007: expected ';'\n" +
		"  1 | type A = nat;\n" +
		"    |          ^~~~\n"
	if got != want {
		t.Fatalf("multiline span:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyNotes(t *testing.T) {
	fs, id := virtualFile(t, "main.did", "type A = nat;\ntype A = bool;")
	d := diag.NewError(diag.SemaUndefinedVariable,
		source.Span{File: id, Start: 19, End: 20}, "duplicate definition of A").
		WithNote(source.Span{File: id, Start: 5, End: 6}, "first defined here").
		WithNote(source.Span{File: id}, "rename one of them")

	hidden := renderDiagnostic(d, fs, PrettyOpts{})
	if strings.Contains(hidden, "note:") {
		t.Fatalf("notes shown without the flag:\n%s", hidden)
	}

	shown := renderDiagnostic(d, fs, PrettyOpts{ShowNotes: true})
	for _, part := range []string{
		"  note: first defined here\n",
		"  1 | type A = nat;\n",
		"    |      ^\n",
		"  note: rename one of them\n",
	} {
		if !strings.Contains(shown, part) {
			t.Errorf("notes output missing %q:\n%s", part, shown)
		}
	}
}

func TestPrettyPathModeBasename(t *testing.T) {
	fs, id := virtualFile(t, "deep/nested/dir/main.did", "type A = nat;")
	d := diag.NewError(diag.SynUnexpectedToken,
		source.Span{File: id, Start: 5, End: 6}, "unexpected token 'A'")

	got := renderDiagnostic(d, fs, PrettyOpts{PathMode: PathModeBasename})
	if !strings.HasPrefix(got, "main.did:1:6:") {
		t.Fatalf("basename path: got %q", got)
	}
}

func TestPrettyColor(t *testing.T) {
	restore := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = restore }()

	fs, id := virtualFile(t, "main.did", "type = nat;")
	d := diag.NewError(diag.SynExpectIdent,
		source.Span{File: id, Start: 5, End: 6}, "expected type name after 'type'")

	got := renderDiagnostic(d, fs, PrettyOpts{Color: true})
	if !strings.Contains(got, "\x1b[31;1mERROR\x1b[0m") {
		t.Fatalf("severity not colorized:\n%q", got)
	}
	if !strings.Contains(got, "\x1b[31;1m^\x1b[0m") {
		t.Fatalf("underline not colorized:\n%q", got)
	}

	plain := renderDiagnostic(d, fs, PrettyOpts{})
	if strings.Contains(plain, "\x1b[") {
		t.Fatalf("escape codes without the flag:\n%q", plain)
	}
}

func TestPrettySkipsNilBag(t *testing.T) {
	fs, _ := virtualFile(t, "main.did", "type A = nat;")
	var buf bytes.Buffer
	Pretty(&buf, nil, fs, PrettyOpts{})
	if buf.Len() != 0 {
		t.Fatalf("nil bag wrote %q", buf.String())
	}
}

func TestPrettyWritesBagInOrder(t *testing.T) {
	fs, id := virtualFile(t, "main.did", "type = nat;\ntype = nat;")
	bag := diag.NewBag(8)
	bag.Add(diag.NewError(diag.SynExpectIdent,
		source.Span{File: id, Start: 17, End: 18}, "expected type name after 'type'"))
	bag.Add(diag.NewError(diag.SynExpectIdent,
		source.Span{File: id, Start: 5, End: 6}, "expected type name after 'type'"))
	bag.Sort()

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	out := buf.String()
	first := strings.Index(out, "main.did:1:6:")
	second := strings.Index(out, "main.did:2:6:")
	if first == -1 || second == -1 || first > second {
		t.Fatalf("diagnostics out of order:\n%s", out)
	}
}
