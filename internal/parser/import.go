package parser

import (
	"strings"

	"didls/internal/ast"
	"didls/internal/diag"
	"didls/internal/token"
)

// parseImportDec разбирает 'import "путь";' и 'import service "путь";'.
func (p *Parser) parseImportDec() (ast.Dec, bool) {
	kw := p.advance() // 'import'
	kind := ast.DecImportType
	if p.at(token.KwService) {
		p.advance()
		kind = ast.DecImportService
	}

	lit, ok := p.expect(token.TextLit, diag.SynExpectImportPath, "expected import path string")
	if !ok {
		return ast.Dec{}, false
	}
	path, ok := token.Unquote(lit.Text)
	if !ok {
		// литерал с ошибкой в escape уже зарепорчен лексером
		path = strings.Trim(lit.Text, `"`)
	}
	span := kw.Span.Cover(lit.Span)
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after import")

	return ast.Dec{
		Kind:   kind,
		Span:   span,
		Import: &ast.Import{Path: path, PathSpan: lit.Span},
	}, true
}
