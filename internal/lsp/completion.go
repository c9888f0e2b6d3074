package lsp

import (
	"didls/internal/ast"
	"didls/internal/sema"
	"didls/internal/source"
)

// buildCompletionParams carries everything the item builder needs, so the
// build can run without touching server state after the snapshot is taken.
type buildCompletionParams struct {
	context            completionContext
	sem                *sema.Semantic
	file               *source.File
	style              ServiceSnippetStyle
	scopeIndex         *scopeBindingIndex
	offset             *uint32
	insideServiceBlock bool
	cursorCtx          *cursorContext
	lightweight        bool
}

// buildCompletionItems assembles the item list for one classified request.
// The token is polled before the dispatch, after it and before returning;
// a newer completion request for the same document aborts this one at the
// next checkpoint.
func buildCompletionItems(p buildCompletionParams, token *TaskToken) ([]completionItem, error) {
	if token.IsCancelled() {
		return nil, token.Err()
	}
	seen := make(map[itemKey]struct{})
	var items []completionItem

	switch p.context {
	case contextValue:
		if p.offset != nil {
			appendSortedItems(&items, seen, valueItemsFor(p))
		}
	case contextDefinition:
		// Definition names are free-form except inside a service body,
		// where the method vocabulary applies.
		if p.offset == nil || !p.insideServiceBlock {
			return items, nil
		}
		appendSortedItems(&items, seen, valueItemsFor(p))
	case contextTopLevel:
		for _, item := range topLevelCompletionItems() {
			pushUniqueItem(&items, seen, item)
		}
	case contextComment:
		return items, nil
	default:
		for _, item := range staticCompletionItems() {
			pushUniqueItem(&items, seen, item)
		}
		if !p.lightweight && p.sem != nil {
			appendSortedItems(&items, seen, semanticCompletionItems(p.sem, p.file))
		}
	}

	if token.IsCancelled() {
		return nil, token.Err()
	}
	if p.context != contextValue && p.context != contextDefinition &&
		p.sem != nil && p.offset != nil && p.insideServiceBlock {
		appendSortedItems(&items, seen,
			serviceMethodItems(p.sem, p.file, *p.offset, p.style, p.cursorCtx, p.lightweight))
	}
	if token.IsCancelled() {
		return nil, token.Err()
	}
	return items, nil
}

func valueItemsFor(p buildCompletionParams) []completionItem {
	if p.lightweight {
		return lightweightValueCompletionItems(p.sem, *p.offset, p.file, p.scopeIndex)
	}
	if p.sem == nil {
		return nil
	}
	return valueCompletionItems(p.sem, p.file, *p.offset, p.style, p.scopeIndex)
}

// completionItemsFor runs the full completion flow for one request:
// snapshot the document and analysis, classify the position, then build
// items under a fresh task token. A cancelled build yields an empty list,
// never an error to the client.
func (s *Server) completionItemsFor(params completionParams) []completionItem {
	uri := params.TextDocument.URI
	file, version := s.documentFile(uri)

	var offset *uint32
	if off, ok := s.resolveOffset(uri, file, params.Position); ok {
		offset = &off
	}
	var cursorCtx *cursorContext
	if offset != nil {
		derived := newCursorContext(file, *offset)
		cursorCtx = &derived
	}

	cfg := s.config.snapshot()
	lightweight := cfg.Completion.Lightweight(file)

	var (
		semantic *sema.Semantic
		prog     *ast.Prog
		cache    *completionDocumentCache
	)
	if analysis, ok := s.analyses.get(uri); ok {
		semantic = analysis.Sem
		prog = analysis.AST
		if analysis.Completion.isFresh(version) {
			cache = analysis.Completion
		}
	}
	scopeIndex := cache.scopeIndex(semantic, version)
	context := determineContext(offset, cache, semantic, prog, file, cursorCtx, version)

	insideService := false
	if cursorCtx != nil {
		insideService = cursorCtx.insideServiceBlock
	}

	token := s.tasks.Start(uri, taskCompletion)
	items, err := buildCompletionItems(buildCompletionParams{
		context:            context,
		sem:                semantic,
		file:               file,
		style:              cfg.SnippetStyle,
		scopeIndex:         scopeIndex,
		offset:             offset,
		insideServiceBlock: insideService,
		cursorCtx:          cursorCtx,
		lightweight:        lightweight,
	}, token)
	if err != nil || items == nil {
		return []completionItem{}
	}
	return items
}

// documentFile returns the file and version of an open document, or an
// empty stand-in for URIs the server has never seen.
func (s *Server) documentFile(uri string) (*source.File, *int32) {
	if doc, ok := s.documents.get(uri); ok {
		v := doc.Version
		return doc.File, &v
	}
	return newDocumentSnapshot(uri, "", 0).File, nil
}

// resolveOffset maps a request position through the shared LRU cache.
func (s *Server) resolveOffset(uri string, file *source.File, pos position) (uint32, bool) {
	key := positionCacheKey{uri: uri, line: pos.Line, character: pos.Character}
	if off, ok := s.positions.get(key); ok {
		return off, true
	}
	off, ok := positionToOffset(file, pos)
	if !ok {
		return 0, false
	}
	s.positions.put(key, off)
	return off, true
}
