package lsp

import (
	"didls/internal/sema"
)

// definitionFor resolves a goto-definition request to the defining span in
// the same document, or nil when the identifier at the position has no
// recorded definition.
func (s *Server) definitionFor(params definitionParams) *location {
	uri := params.TextDocument.URI
	analysis, ok := s.analyses.get(uri)
	if !ok || analysis.Sem == nil {
		return nil
	}
	doc, ok := s.documents.get(uri)
	if !ok {
		return nil
	}
	offset, ok := positionToOffset(doc.File, params.Position)
	if !ok {
		return nil
	}
	info, ok := sema.LookupIdentifier(analysis.Sem, offset)
	if !ok || info.DefinitionSpan.Empty() {
		return nil
	}
	return &location{
		URI:   uri,
		Range: rangeForSpan(doc.File, info.DefinitionSpan),
	}
}
