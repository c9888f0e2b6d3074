package lsp

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"
)

const testURI = "file:///test.did"

// openTestDoc parses and analyzes one document the way the server does on
// didOpen, without a connection.
func openTestDoc(t *testing.T, text string, version int32) (*DocumentSnapshot, *AnalysisSnapshot, []lspDiagnostic) {
	t.Helper()
	doc := newDocumentSnapshot(testURI, text, version)
	if doc == nil {
		t.Fatal("no document snapshot")
	}
	snapshot, diags := analyzeSnapshot(doc)
	if snapshot == nil {
		t.Fatal("no analysis snapshot")
	}
	return doc, snapshot, diags
}

// newTestServer builds a connection-less server with one document open at
// testURI and its background analysis finished. Diagnostics publishing is a
// no-op without a connection.
func newTestServer(t *testing.T, text string, version int32) *Server {
	t.Helper()
	s := NewServer(true)
	s.onChange(context.Background(), testURI, text, version)
	s.analysisWG.Wait()
	if _, ok := s.documents.get(testURI); !ok {
		t.Fatal("document not stored")
	}
	return s
}

// positionAt converts a byte offset in text into an LSP position. Columns
// count runes, matching the server's position mapping.
func positionAt(t *testing.T, text string, byteOffset int) position {
	t.Helper()
	if byteOffset < 0 || byteOffset > len(text) {
		t.Fatalf("byte offset %d out of range", byteOffset)
	}
	prefix := text[:byteOffset]
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	return position{
		Line:      strings.Count(prefix, "\n"),
		Character: utf8.RuneCountInString(prefix[lineStart:]),
	}
}

// mustIndex locates needle in text as a byte offset.
func mustIndex(t *testing.T, text, needle string) int {
	t.Helper()
	idx := strings.Index(text, needle)
	if idx < 0 {
		t.Fatalf("%q not found in source", needle)
	}
	return idx
}

// runeOffset converts a byte offset in text into the rune offset spans are
// expressed in.
func runeOffset(text string, byteOffset int) uint32 {
	return uint32(utf8.RuneCountInString(text[:byteOffset]))
}

func findItem(items []completionItem, label string) *completionItem {
	for i := range items {
		if items[i].Label == label {
			return &items[i]
		}
	}
	return nil
}

func itemLabels(items []completionItem) []string {
	labels := make([]string, 0, len(items))
	for _, item := range items {
		labels = append(labels, item.Label)
	}
	return labels
}
