package lsp

import (
	"strings"
	"testing"

	"didls/internal/render"
	"didls/internal/sema"
	"didls/internal/source"
)

func hoverAt(t *testing.T, s *Server, text, needle string) *hover {
	t.Helper()
	pos := positionAt(t, text, mustIndex(t, text, needle))
	return s.hoverFor(hoverParams{
		TextDocument: textDocumentIdentifier{URI: testURI},
		Position:     pos,
	})
}

func TestHoverKeywordShowsKeywordDocOnly(t *testing.T) {
	text := "service : {\n  method : (text) -> (text) query;\n}"
	s := newTestServer(t, text, 1)

	h := hoverAt(t, s, text, "query")
	if h == nil {
		t.Fatal("no hover")
	}
	want, ok := render.KeywordDoc("query")
	if !ok {
		t.Fatal("no keyword doc")
	}
	if h.Contents.Value != want {
		t.Fatalf("got %q, want %q", h.Contents.Value, want)
	}
	if h.Contents.Kind != markupKindMarkdown {
		t.Fatalf("kind %q", h.Contents.Kind)
	}
}

func TestHoverMethodShowsSignature(t *testing.T) {
	text := "service : {\n  method : (text) -> (text) query;\n}"
	s := newTestServer(t, text, 1)

	h := hoverAt(t, s, text, "method")
	if h == nil {
		t.Fatal("no hover")
	}
	want := "```candid\nmethod : (text) -> (text) query\n```"
	if h.Contents.Value != want {
		t.Fatalf("got %q", h.Contents.Value)
	}

	// The reported range covers the method name, not the declaration.
	start := positionAt(t, text, mustIndex(t, text, "method"))
	if h.Range == nil || h.Range.Start != start {
		t.Fatalf("range %+v", h.Range)
	}
	if h.Range.End.Character != start.Character+len("method") {
		t.Fatalf("range end %+v", h.Range.End)
	}
}

func TestHoverPrimitive(t *testing.T) {
	text := "type Token = nat;"
	s := newTestServer(t, text, 1)

	h := hoverAt(t, s, text, "nat")
	if h == nil {
		t.Fatal("no hover")
	}
	want, ok := render.PrimitiveDoc("nat")
	if !ok {
		t.Fatal("no primitive doc")
	}
	if h.Contents.Value != want {
		t.Fatalf("got %q", h.Contents.Value)
	}
}

func TestHoverTypeDeclaration(t *testing.T) {
	text := "// The palette.\ntype Color = variant { Red; Green };"
	s := newTestServer(t, text, 1)

	h := hoverAt(t, s, text, "Color")
	if h == nil {
		t.Fatal("no hover")
	}
	got := h.Contents.Value
	if !strings.Contains(got, "```candid\ntype Color") {
		t.Fatalf("no rendered declaration in %q", got)
	}
	if !strings.Contains(got, "---") || !strings.Contains(got, "The palette.") {
		t.Fatalf("no docs section in %q", got)
	}
}

func TestHoverTypeAliasWithoutDocs(t *testing.T) {
	s := newTestServer(t, pairSource, 1)

	h := hoverAt(t, s, pairSource, "Token")
	if h == nil {
		t.Fatal("no hover")
	}
	if h.Contents.Value != "```candid\ntype Token = nat\n```" {
		t.Fatalf("got %q", h.Contents.Value)
	}
}

func TestHoverFieldShowsParentType(t *testing.T) {
	s := newTestServer(t, pairSource, 1)

	h := hoverAt(t, s, pairSource, "left")
	if h == nil {
		t.Fatal("no hover")
	}
	want := "```candid\nPair\n```\n\n```candid\nleft : Token\n```"
	if h.Contents.Value != want {
		t.Fatalf("got %q", h.Contents.Value)
	}
}

func TestHoverActor(t *testing.T) {
	text := "// Registry of users.\nservice registry : {\n  ping : () -> ();\n}"
	s := newTestServer(t, text, 1)

	h := hoverAt(t, s, text, "registry")
	if h == nil {
		t.Fatal("no hover")
	}
	got := h.Contents.Value
	if !strings.Contains(got, "service registry") {
		t.Fatalf("no declaration in %q", got)
	}
	if !strings.Contains(got, "Registry of users.") {
		t.Fatalf("no docs in %q", got)
	}
}

func TestHoverImport(t *testing.T) {
	text := "import service \"api.did\";\ntype A = nat;"
	s := newTestServer(t, text, 1)

	h := hoverAt(t, s, text, "api.did")
	if h == nil {
		t.Fatal("no hover")
	}
	if !strings.Contains(h.Contents.Value, "Imported service from `api.did`") {
		t.Fatalf("got %q", h.Contents.Value)
	}
}

func TestHoverDefinitionFallback(t *testing.T) {
	text := "type Foo = nat;"
	doc := newDocumentSnapshot(testURI, text, 1)
	snapshot, _ := analyzeSnapshot(doc)

	info := sema.IdentifierInfo{
		DefinitionSpan: source.Span{
			Start: runeOffset(text, mustIndex(t, text, "Foo")),
			End:   runeOffset(text, mustIndex(t, text, "Foo")+len("Foo")),
		},
	}
	got, ok := buildHoverContents(doc.File, snapshot.Sem, info)
	if !ok {
		t.Fatal("no contents")
	}
	if got != "Definition: `Foo`" {
		t.Fatalf("got %q", got)
	}
}

func TestHoverNothingToShow(t *testing.T) {
	s := newTestServer(t, "service : {\n  ping : () -> ();\n}", 1)

	// Whitespace just inside the body resolves to no identifier.
	h := s.hoverFor(hoverParams{
		TextDocument: textDocumentIdentifier{URI: testURI},
		Position:     position{Line: 1, Character: 1},
	})
	if h != nil {
		t.Fatalf("got %q", h.Contents.Value)
	}

	if s.hoverFor(hoverParams{TextDocument: textDocumentIdentifier{URI: "file:///other.did"}}) != nil {
		t.Fatal("hover for an unopened document")
	}

	// A position outside the document resolves to nothing.
	if hoverOut := s.hoverFor(hoverParams{
		TextDocument: textDocumentIdentifier{URI: testURI},
		Position:     position{Line: 40, Character: 0},
	}); hoverOut != nil {
		t.Fatal("hover past the end of the document")
	}
}

func TestHoverRequiresSemantics(t *testing.T) {
	// The broken reference discards the semantic result, so hover goes dark.
	s := newTestServer(t, "type Good = nat;\ntype Bad = Missing;", 1)
	h := s.hoverFor(hoverParams{
		TextDocument: textDocumentIdentifier{URI: testURI},
		Position:     position{0, 5},
	})
	if h != nil {
		t.Fatal("hover served without semantics")
	}
}

func TestSnippetFromSpan(t *testing.T) {
	text := "  service x : {\n  a : nat;\n}"
	doc := newDocumentSnapshot(testURI, text, 1)

	full := source.Span{Start: 0, End: doc.File.RuneLen()}
	if got := snippetFromSpan(doc.File, full); got != "service x : { …" {
		t.Fatalf("got %q", got)
	}

	oneLine := source.Span{Start: 2, End: 13}
	if got := snippetFromSpan(doc.File, oneLine); got != "service x :" {
		t.Fatalf("got %q", got)
	}

	if got := snippetFromSpan(doc.File, source.Span{Start: 5, End: 5}); got != "" {
		t.Fatalf("got %q", got)
	}
	if got := snippetFromSpan(nil, full); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestHoverStartsItsOwnTaskGeneration(t *testing.T) {
	s := newTestServer(t, pairSource, 1)

	stale := s.tasks.Start(testURI, taskHover)
	if h := hoverAt(t, s, pairSource, "left"); h == nil {
		t.Fatal("no hover")
	}
	if !stale.IsCancelled() {
		t.Fatal("earlier hover generation survived the request")
	}
}
