package render

import "strings"

// Markdown accumulates the sections of a hover or completion document.
// Sections are separated by blank lines; an empty writer produces nothing.
type Markdown struct {
	buf      strings.Builder
	sections int
}

// IsEmpty reports whether no section has been written yet.
func (m *Markdown) IsEmpty() bool {
	return m.sections == 0
}

// Text appends a plain Markdown section.
func (m *Markdown) Text(text string) {
	m.startSection()
	m.buf.WriteString(text)
}

// Rule appends a horizontal rule section.
func (m *Markdown) Rule() {
	m.startSection()
	m.buf.WriteString("---")
}

// CodeBlock appends the snippet as a fenced candid code section.
func (m *Markdown) CodeBlock(snippet string) {
	m.startSection()
	m.buf.WriteString("```candid\n")
	m.buf.WriteString(snippet)
	if !strings.HasSuffix(snippet, "\n") {
		m.buf.WriteByte('\n')
	}
	m.buf.WriteString("```")
}

// SnippetWithDocs appends a code section followed, when docs is non-empty,
// by a rule and the documentation text.
func (m *Markdown) SnippetWithDocs(snippet, docs string) {
	m.CodeBlock(snippet)
	m.DocsSection(docs)
}

// DocsSection appends a rule and the documentation text. Empty docs append
// nothing.
func (m *Markdown) DocsSection(docs string) {
	if docs == "" {
		return
	}
	m.Rule()
	m.Text(docs)
}

// Finish returns the assembled document. It reports false when no section
// was written, which callers treat as "no content to show".
func (m *Markdown) Finish() (string, bool) {
	if m.sections == 0 {
		return "", false
	}
	return m.buf.String(), true
}

func (m *Markdown) startSection() {
	if m.sections > 0 {
		m.buf.WriteString("\n\n")
	}
	m.sections++
}

// SnippetWithDocsMarkdown is a one-shot helper for completion item
// documentation.
func SnippetWithDocsMarkdown(snippet, docs string) string {
	var m Markdown
	m.SnippetWithDocs(snippet, docs)
	s, _ := m.Finish()
	return s
}

// TextMarkdown wraps a plain text block as a standalone document.
func TextMarkdown(text string) string {
	var m Markdown
	m.Text(text)
	s, _ := m.Finish()
	return s
}
