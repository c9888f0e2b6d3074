package render

import (
	"testing"

	"didls/internal/ast"
	"didls/internal/diag"
	"didls/internal/parser"
	"didls/internal/source"
)

func parseProg(t *testing.T, src string) *ast.Prog {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("render_test.did", src))
	bag := diag.NewBag(100)
	res := parser.Parse(file, parser.Options{
		MaxErrors: 100,
		Reporter:  &diag.BagReporter{Bag: bag},
	})
	if bag.HasErrors() {
		t.Fatalf("parse errors in %q: %v", src, bag.Items())
	}
	return res.Prog
}

func parseBinding(t *testing.T, src string) *ast.Binding {
	t.Helper()
	prog := parseProg(t, src)
	if len(prog.Decs) != 1 || prog.Decs[0].Kind != ast.DecType {
		t.Fatalf("expected a single type declaration in %q", src)
	}
	return prog.Decs[0].Binding
}

func TestBinding_Simple(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"type A = nat;", "type A = nat"},
		{"type A = Other;", "type A = Other"},
		{"type A = principal;", "type A = principal"},
		{"type A = opt opt text;", "type A = opt opt text"},
		{"type A = vec text;", "type A = vec text"},
		{"type A = vec nat8;", "type A = blob"},
		{"type A = blob;", "type A = blob"},
		{"type A = func (text, nat) -> (bool) query;", "type A = func (text, nat) -> (bool) query"},
		{"type A = func (name : text) -> ();", "type A = func (text) -> ()"},
		{"type A = func () -> () oneway;", "type A = func () -> () oneway"},
		{"type A = record { text; nat };", "type A = record { text; nat }"},
		{"type A = record { 0 : text; 1 : nat };", "type A = record { text; nat }"},
	}
	for _, tt := range tests {
		b := parseBinding(t, tt.src)
		if got := Binding(b); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestBinding_Record(t *testing.T) {
	b := parseBinding(t, "type PaperSummary = record { id : text; title : text };")
	want := "type PaperSummary = record {\n  id : text;\n  title : text;\n}"
	if got := Binding(b); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBinding_NumberedField(t *testing.T) {
	// A single field numbered 5 is not a tuple, so the label is shown.
	b := parseBinding(t, "type A = record { 5 : text };")
	want := "type A = record {\n  5 : text;\n}"
	if got := Binding(b); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBinding_Variant(t *testing.T) {
	b := parseBinding(t, "type Citation = variant { Url : text; Paper; Other : text };")
	want := "type Citation = variant {\n  Url : text;\n  Paper;\n  Other : text;\n}"
	if got := Binding(b); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBinding_QuotedLabels(t *testing.T) {
	b := parseBinding(t, `type A = record { "nat" : text; plain : nat };`)
	want := "type A = record {\n  \"nat\" : text;\n  plain : nat;\n}"
	if got := Binding(b); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Only primitive-name collisions are quoted; other quoted labels come
	// back bare.
	b = parseBinding(t, `type B = record { "weird name" : nat };`)
	want = "type B = record {\n  weird name : nat;\n}"
	if got := Binding(b); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBinding_NestedIndent(t *testing.T) {
	b := parseBinding(t, "type Outer = record { inner : record { a : nat }; tags : variant { a; b } };")
	want := "type Outer = record {\n" +
		"  inner : record {\n" +
		"    a : nat;\n" +
		"  };\n" +
		"  tags : variant {\n" +
		"    a;\n" +
		"    b;\n" +
		"  };\n" +
		"}"
	if got := Binding(b); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBinding_ServiceType(t *testing.T) {
	b := parseBinding(t, "type S = service { ping : () -> (); f : MyFunc };")
	want := "type S = service {\n  ping : () -> ();\n  f : MyFunc;\n}"
	if got := Binding(b); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInlineType(t *testing.T) {
	// opt and vec wrap without deepening the indent.
	b := parseBinding(t, "type A = opt vec record { a : nat };")
	want := "opt vec record {\n  a : nat;\n}"
	if got := InlineType(b.Typ); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestActorDeclaration(t *testing.T) {
	prog := parseProg(t, "service Counter : { get : () -> (nat) query; set : (nat) -> (); }")
	if prog.Actor == nil {
		t.Fatal("actor missing")
	}
	got, ok := ActorDeclaration("Counter", prog.Actor.Typ)
	if !ok {
		t.Fatal("expected a rendered declaration")
	}
	want := "service Counter : {\n  get : () -> (nat) query;\n  set : (nat) -> ();\n}"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got, ok = ActorDeclaration("", prog.Actor.Typ)
	if !ok {
		t.Fatal("expected a rendered declaration")
	}
	if want := "service : {\n  get : () -> (nat) query;\n  set : (nat) -> ();\n}"; got != want {
		t.Errorf("anonymous: got %q, want %q", got, want)
	}
}

func TestActorDeclaration_NonLiteral(t *testing.T) {
	prog := parseProg(t, "type S = service { run : () -> () };\nservice : S")
	if prog.Actor == nil {
		t.Fatal("actor missing")
	}
	if _, ok := ActorDeclaration("", prog.Actor.Typ); ok {
		t.Error("type reference actors have no inline rendering")
	}

	prog = parseProg(t, "service : (text) -> { run : () -> () }")
	if _, ok := ActorDeclaration("", prog.Actor.Typ); ok {
		t.Error("constructor actors have no inline rendering")
	}
	// The constructor type itself still renders.
	want := "(text) -> service {\n  run : () -> ();\n}"
	if got := InlineType(prog.Actor.Typ); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
