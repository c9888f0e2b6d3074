package lsp

import (
	"strings"
	"unicode"

	"didls/internal/render"
	"didls/internal/sema"
	"didls/internal/source"
	"didls/internal/symbols"
)

// hoverFor builds a hover response for one request, or nil when the
// position yields nothing to show.
func (s *Server) hoverFor(params hoverParams) *hover {
	uri := params.TextDocument.URI
	analysis, ok := s.analyses.get(uri)
	if !ok || analysis.Sem == nil {
		return nil
	}
	doc, ok := s.documents.get(uri)
	if !ok {
		return nil
	}
	token := s.tasks.Start(uri, taskHover)
	offset, ok := s.resolveOffset(uri, doc.File, params.Position)
	if !ok {
		return nil
	}
	info, ok := sema.LookupIdentifier(analysis.Sem, offset)
	if !ok {
		return nil
	}
	value, ok := buildHoverContents(doc.File, analysis.Sem, info)
	if !ok || token.IsCancelled() {
		return nil
	}
	hoverRange := rangeForSpan(doc.File, info.IdentSpan)
	return &hover{
		Contents: markupContent{Kind: markupKindMarkdown, Value: value},
		Range:    &hoverRange,
	}
}

// buildHoverContents renders the hover markup for one resolved identifier.
// Subject sections describe what the identifier is; reference sections add
// primitive, keyword and import documentation; a definition snippet is the
// last resort when everything else came up empty.
func buildHoverContents(file *source.File, sem *sema.Semantic, info sema.IdentifierInfo) (string, bool) {
	md := &render.Markdown{}
	cache := newSnippetCache(file)

	hasInlineDoc := info.Primitive != sema.PrimNone || info.Keyword != sema.KeywordNone
	if !hasInlineDoc {
		collectSubjectSections(md, cache, sem, info)
	}
	collectReferenceSections(md, sem, info)
	if md.IsEmpty() && !info.DefinitionSpan.Empty() && info.DefinitionSpan != info.IdentSpan {
		if snippet := cache.snippet(info.DefinitionSpan); snippet != "" {
			md.Text("Definition: `" + snippet + "`")
		}
	}
	return md.Finish()
}

// collectSubjectSections picks the most specific subject the identifier
// resolves to and renders it. A candidate without a usable snippet falls
// through to the next one.
func collectSubjectSections(md *render.Markdown, cache *snippetCache, sem *sema.Semantic, info sema.IdentifierInfo) {
	if param, ok := sem.Param(info.Param); ok {
		if snippet := cache.snippet(param.Span); snippet != "" {
			md.CodeBlock(snippet)
			return
		}
	}
	if method, ok := sem.Method(info.Method); ok {
		if snippet := cache.snippet(method.Span); snippet != "" {
			if method.Parent != "" {
				md.CodeBlock(method.Parent)
			}
			md.SnippetWithDocs(snippet, method.Docs)
			return
		}
	}
	if info.Actor && sem.Actor != nil {
		actor := sem.Actor
		if actor.Rendered != "" {
			md.SnippetWithDocs(actor.Rendered, actor.Docs)
			return
		}
		if snippet := cache.snippet(actor.Span); snippet != "" {
			md.SnippetWithDocs(snippet, actor.Docs)
			return
		}
	}
	if field, ok := sem.Field(info.Field); ok {
		if snippet := cache.snippet(field.Span); snippet != "" {
			if field.Parent != "" {
				md.CodeBlock(field.Parent)
			}
			md.SnippetWithDocs(snippet, field.Docs)
			return
		}
	}
	if doc, ok := sem.TypeDocFor(info.Symbol); ok {
		md.SnippetWithDocs(doc.Rendered, doc.Docs)
		return
	}
	if snippet := cache.snippet(info.IdentSpan); snippet != "" {
		md.CodeBlock(snippet)
	}
}

func collectReferenceSections(md *render.Markdown, sem *sema.Semantic, info sema.IdentifierInfo) {
	if info.Primitive != sema.PrimNone {
		if doc, ok := render.PrimitiveDoc(info.Primitive.String()); ok {
			md.Text(doc)
		}
	}
	if info.Keyword != sema.KeywordNone {
		if doc, ok := render.KeywordDoc(info.Keyword.String()); ok {
			md.Text(doc)
		}
	}
	if info.Symbol.IsValid() {
		if imp, ok := sem.Table.ImportFor(info.Symbol); ok {
			noun := "type"
			if imp.Kind == symbols.ImportService {
				noun = "service"
			}
			md.Text("Imported " + noun + " from `" + imp.Path + "`")
		}
	}
}

// snippetCache memoizes span snippets within one hover build; the same
// span is often requested for both the subject and the fallback.
type snippetCache struct {
	file *source.File
	memo map[[2]uint32]string
}

func newSnippetCache(file *source.File) *snippetCache {
	return &snippetCache{file: file, memo: make(map[[2]uint32]string)}
}

func (c *snippetCache) snippet(span source.Span) string {
	key := [2]uint32{span.Start, span.End}
	if got, ok := c.memo[key]; ok {
		return got
	}
	snippet := snippetFromSpan(c.file, span)
	c.memo[key] = snippet
	return snippet
}

// snippetFromSpan reduces a span to a one-line display snippet: trimmed,
// first line only, with an ellipsis marking elided lines.
func snippetFromSpan(file *source.File, span source.Span) string {
	if file == nil || span.Start >= span.End {
		return ""
	}
	trimmed := strings.TrimSpace(file.Slice(span))
	if trimmed == "" {
		return ""
	}
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		return strings.TrimRightFunc(trimmed[:idx], unicode.IsSpace) + " …"
	}
	return trimmed
}
