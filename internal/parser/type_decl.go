package parser

import (
	"didls/internal/ast"
	"didls/internal/diag"
	"didls/internal/token"
)

// parseTypeDec разбирает 'type Имя = Тип ;'.
// Точка с запятой обязательна, но при её отсутствии декларация сохраняется:
// дальше по файлу обычно просто начата следующая строка.
func (p *Parser) parseTypeDec() (ast.Dec, bool) {
	kw := p.advance() // 'type'
	docs := collectDocs(kw.Leading, p.isFirstToken())

	name, ok := p.expect(token.Ident, diag.SynExpectIdent, "expected type name after 'type'")
	if !ok {
		return ast.Dec{}, false
	}
	if _, ok := p.expect(token.Assign, diag.SynExpectAssign, "expected '=' in type declaration"); !ok {
		return ast.Dec{}, false
	}
	typ, ok := p.parseType()
	if !ok {
		return ast.Dec{}, false
	}
	span := kw.Span.Cover(typ.Span)
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after type declaration")

	binding := &ast.Binding{
		ID:       name.Text,
		NameSpan: name.Span,
		Span:     span,
		Typ:      typ,
		Docs:     docs,
	}
	return ast.Dec{Kind: ast.DecType, Span: span, Binding: binding}, true
}
