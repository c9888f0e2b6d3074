package parser

import (
	"strconv"
	"strings"

	"didls/internal/ast"
	"didls/internal/diag"
	"didls/internal/source"
	"didls/internal/token"
)

// parseType распознаёт полное типовое выражение:
//
//	примитив / имя типа / principal
//	opt T, vec T, blob (раскрывается в vec nat8)
//	record { поля }, variant { поля }
//	func (args) -> (rets) режимы
//	service { методы }
func (p *Parser) parseType() (*ast.Type, bool) {
	p.skipInvalid()
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		if token.IsPrimitiveName(tok.Text) {
			return &ast.Type{Kind: ast.TypePrim, Span: tok.Span, Prim: tok.Text}, true
		}
		return &ast.Type{Kind: ast.TypeVar, Span: tok.Span, Var: tok.Text}, true

	case token.NullLit:
		p.advance()
		return &ast.Type{Kind: ast.TypePrim, Span: tok.Span, Prim: "null"}, true

	case token.KwPrincipal:
		p.advance()
		return &ast.Type{Kind: ast.TypePrincipal, Span: tok.Span}, true

	case token.KwBlob:
		// blob — сокращение для vec nat8; оба узла наследуют span токена
		p.advance()
		elem := &ast.Type{Kind: ast.TypePrim, Span: tok.Span, Prim: "nat8"}
		return &ast.Type{Kind: ast.TypeVec, Span: tok.Span, Elem: elem}, true

	case token.KwOpt:
		kw := p.advance()
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		return &ast.Type{Kind: ast.TypeOpt, Span: kw.Span.Cover(elem.Span), Elem: elem}, true

	case token.KwVec:
		kw := p.advance()
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		return &ast.Type{Kind: ast.TypeVec, Span: kw.Span.Cover(elem.Span), Elem: elem}, true

	case token.KwRecord:
		kw := p.advance()
		fields, blockSpan, ok := p.parseFieldBlock(false)
		if !ok {
			return nil, false
		}
		return &ast.Type{Kind: ast.TypeRecord, Span: kw.Span.Cover(blockSpan), Fields: fields}, true

	case token.KwVariant:
		kw := p.advance()
		fields, blockSpan, ok := p.parseFieldBlock(true)
		if !ok {
			return nil, false
		}
		return &ast.Type{Kind: ast.TypeVariant, Span: kw.Span.Cover(blockSpan), Fields: fields}, true

	case token.KwFunc:
		kw := p.advance()
		sig, sigSpan, ok := p.parseFuncSig()
		if !ok {
			return nil, false
		}
		return &ast.Type{Kind: ast.TypeFunc, Span: kw.Span.Cover(sigSpan), Func: sig}, true

	case token.KwService:
		kw := p.advance()
		methods, blockSpan, ok := p.parseServiceBlock()
		if !ok {
			return nil, false
		}
		return &ast.Type{Kind: ast.TypeService, Span: kw.Span.Cover(blockSpan), Methods: methods}, true

	default:
		p.errHere(diag.SynExpectType, "expected a type, found "+tok.Kind.String())
		return nil, false
	}
}

// parseFieldBlock разбирает '{ поле; поле; ... }' записи или варианта.
// Ошибочные поля пропускаются до следующего ';' или '}', разбор продолжается.
// Возвращаемый span покрывает фигурные скобки.
func (p *Parser) parseFieldBlock(variant bool) ([]ast.Field, source.Span, bool) {
	lb, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return nil, lb.Span, false
	}

	var fields []ast.Field
	var nextID uint32
	for {
		p.skipInvalid()
		if p.at(token.RBrace) || p.at(token.EOF) {
			break
		}
		field, ok := p.parseField(variant, &nextID)
		if !ok {
			p.resyncUntil(token.Semicolon, token.RBrace)
			if p.at(token.Semicolon) {
				p.advance()
			}
			continue
		}
		fields = append(fields, field)
		if p.at(token.Semicolon) {
			p.advance()
			continue
		}
		if p.at(token.RBrace) {
			break
		}
		p.errHere(diag.SynExpectSemicolon, "expected ';' after field")
		p.resyncUntil(token.Semicolon, token.RBrace)
		if p.at(token.Semicolon) {
			p.advance()
		}
	}

	span := lb.Span
	if rb, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close field list"); ok {
		span = span.Cover(rb.Span)
	} else {
		span = span.Cover(p.lastSpan)
	}
	return fields, span, true
}

// parseField разбирает одно поле записи или варианта:
//
//	имя : тип
//	число : тип
//	тип            (позиционное поле, метка берётся из счётчика)
//	имя | число    (только вариант: тег без типа, тип — null с пустым span)
//
// Счётчик позиционных меток обновляется после каждого поля так же, как
// нумерует поля бинарный формат: явная метка задаёт значение счётчика + 1.
func (p *Parser) parseField(variant bool, nextID *uint32) (ast.Field, bool) {
	first := p.lx.Peek()
	docs := collectDocs(first.Leading, false)

	switch first.Kind {
	case token.DecimalLit, token.HexLit:
		numTok := p.advance()
		id, ok := parseLabelValue(numTok)
		if !ok {
			p.report(diag.SynInvalidToken, diag.SevError, numTok.Span, "field label does not fit in 32 bits")
			return ast.Field{}, false
		}
		label := ast.Label{Kind: ast.LabelID, ID: id, Span: numTok.Span}
		*nextID = id + 1
		if variant && !p.at(token.Colon) {
			return bareTagField(label, numTok.Span, docs), true
		}
		if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after field label"); !ok {
			return ast.Field{}, false
		}
		typ, ok := p.parseType()
		if !ok {
			return ast.Field{}, false
		}
		return ast.Field{Span: numTok.Span.Cover(typ.Span), Label: label, Typ: typ, Docs: docs}, true

	case token.Ident, token.TextLit:
		nameTok := p.advance()
		if p.at(token.Colon) {
			p.advance()
			name, ok := fieldName(nameTok)
			if !ok {
				p.report(diag.SynInvalidToken, diag.SevError, nameTok.Span, "malformed text literal in field label")
			}
			typ, ok := p.parseType()
			if !ok {
				return ast.Field{}, false
			}
			label := ast.Label{Kind: ast.LabelNamed, Name: name, Span: nameTok.Span}
			*nextID = ast.LabelHash(name) + 1
			return ast.Field{Span: nameTok.Span.Cover(typ.Span), Label: label, Typ: typ, Docs: docs}, true
		}
		if variant {
			// тег без типа
			name, ok := fieldName(nameTok)
			if !ok {
				p.report(diag.SynInvalidToken, diag.SevError, nameTok.Span, "malformed text literal in field label")
			}
			label := ast.Label{Kind: ast.LabelNamed, Name: name, Span: nameTok.Span}
			*nextID = ast.LabelHash(name) + 1
			return bareTagField(label, nameTok.Span, docs), true
		}
		if nameTok.Kind == token.TextLit {
			p.errHere(diag.SynExpectColon, "expected ':' after field label")
			return ast.Field{}, false
		}
		// позиционное поле, Ident оказался самим типом
		typ := &ast.Type{Kind: ast.TypeVar, Span: nameTok.Span, Var: nameTok.Text}
		if token.IsPrimitiveName(nameTok.Text) {
			typ = &ast.Type{Kind: ast.TypePrim, Span: nameTok.Span, Prim: nameTok.Text}
		}
		label := ast.Label{Kind: ast.LabelUnnamed, ID: *nextID}
		*nextID++
		return ast.Field{Span: typ.Span, Label: label, Typ: typ, Docs: docs}, true

	default:
		typ, ok := p.parseType()
		if !ok {
			return ast.Field{}, false
		}
		label := ast.Label{Kind: ast.LabelUnnamed, ID: *nextID}
		*nextID++
		return ast.Field{Span: typ.Span, Label: label, Typ: typ, Docs: docs}, true
	}
}

// bareTagField строит поле-тег варианта: тип null с пустым span сразу за меткой.
func bareTagField(label ast.Label, labelSpan source.Span, docs []string) ast.Field {
	nullSpan := source.Span{File: labelSpan.File, Start: labelSpan.End, End: labelSpan.End}
	typ := &ast.Type{Kind: ast.TypePrim, Span: nullSpan, Prim: "null"}
	return ast.Field{Span: labelSpan, Label: label, Typ: typ, Docs: docs}
}

// fieldName возвращает текст метки: идентификатор как есть, строковый
// литерал — без кавычек и с раскрытыми escape-последовательностями.
func fieldName(tok token.Token) (string, bool) {
	if tok.Kind != token.TextLit {
		return tok.Text, true
	}
	if name, ok := token.Unquote(tok.Text); ok {
		return name, true
	}
	return strings.Trim(tok.Text, `"`), false
}

// parseLabelValue переводит числовой токен метки в u32.
func parseLabelValue(tok token.Token) (uint32, bool) {
	text := strings.ReplaceAll(tok.Text, "_", "")
	var v uint64
	var err error
	if tok.Kind == token.HexLit {
		v, err = strconv.ParseUint(text[2:], 16, 32)
	} else {
		v, err = strconv.ParseUint(text, 10, 32)
	}
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// parseFuncSig разбирает сигнатуру '(args) -> (rets) режим*'.
// Возвращаемый span покрывает сигнатуру вместе с режимами.
func (p *Parser) parseFuncSig() (*ast.FuncSig, source.Span, bool) {
	args, argsSpan, ok := p.parseTupType()
	if !ok {
		return nil, argsSpan, false
	}
	if _, ok := p.expect(token.Arrow, diag.SynExpectArrow, "expected '->' in function signature"); !ok {
		return nil, argsSpan, false
	}
	rets, retsSpan, ok := p.parseTupType()
	if !ok {
		return nil, argsSpan, false
	}
	span := argsSpan.Cover(retsSpan)

	var modes []ast.FuncMode
	for p.lx.Peek().IsFuncMode() {
		modeTok := p.advance()
		switch modeTok.Kind {
		case token.KwQuery:
			modes = append(modes, ast.ModeQuery)
		case token.KwOneway:
			modes = append(modes, ast.ModeOneway)
		case token.KwCompositeQuery:
			modes = append(modes, ast.ModeCompositeQuery)
		}
		span = span.Cover(modeTok.Span)
	}
	return &ast.FuncSig{Modes: modes, Args: args, Rets: rets}, span, true
}

// parseTupType разбирает список типов в круглых скобках, с запятыми и
// допустимой завершающей запятой. Возвращаемый span покрывает скобки.
func (p *Parser) parseTupType() ([]*ast.Type, source.Span, bool) {
	lp, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	if !ok {
		return nil, lp.Span, false
	}
	var args []*ast.Type
	if !p.at(token.RParen) {
		for {
			arg, ok := p.parseArgType()
			if !ok {
				return nil, lp.Span.Cover(p.lastSpan), false
			}
			args = append(args, arg)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
			if p.at(token.RParen) {
				break
			}
		}
	}
	rp, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close argument list")
	if !ok {
		return nil, lp.Span.Cover(p.lastSpan), false
	}
	return args, lp.Span.Cover(rp.Span), true
}

// parseArgType разбирает один элемент списка аргументов: 'имя : тип' либо
// просто тип. Имя аргумента в дерево не попадает, остаётся только в тексте.
func (p *Parser) parseArgType() (*ast.Type, bool) {
	p.skipInvalid()
	if p.at(token.Ident) || p.at(token.TextLit) {
		nameTok := p.advance()
		if p.at(token.Colon) {
			p.advance()
			return p.parseType()
		}
		if nameTok.Kind == token.TextLit {
			p.report(diag.SynExpectType, diag.SevError, nameTok.Span, "expected a type, found text literal")
			return nil, false
		}
		if token.IsPrimitiveName(nameTok.Text) {
			return &ast.Type{Kind: ast.TypePrim, Span: nameTok.Span, Prim: nameTok.Text}, true
		}
		return &ast.Type{Kind: ast.TypeVar, Span: nameTok.Span, Var: nameTok.Text}, true
	}
	return p.parseType()
}
