package parser

import (
	"strings"

	"didls/internal/ast"
	"didls/internal/diag"
	"didls/internal/source"
	"didls/internal/token"
)

// parseActor разбирает главную декларацию сервиса:
//
//	service Имя? : (ИнитАргументы) -> ТелоИлиИмя ;?
//	service Имя? : ТелоИлиИмя ;?
//
// где тело — '{ методы }', а имя отсылает к ранее объявленному типу.
func (p *Parser) parseActor() (*ast.Actor, bool) {
	kw := p.advance() // 'service'
	docs := collectDocs(kw.Leading, p.isFirstToken())

	actor := &ast.Actor{Docs: docs}
	if p.at(token.Ident) {
		name := p.advance()
		actor.Name = name.Text
		actor.NameSpan = name.Span
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' in service declaration"); !ok {
		return nil, false
	}
	typ, ok := p.parseActorType()
	if !ok {
		return nil, false
	}
	actor.Typ = typ
	actor.Span = kw.Span.Cover(typ.Span)
	if p.at(token.Semicolon) {
		p.advance()
	}
	return actor, true
}

// parseActorType различает конструктор сервиса '(args) -> тело' и
// обычное тело сервиса.
func (p *Parser) parseActorType() (*ast.Type, bool) {
	if !p.at(token.LParen) {
		return p.parseActorRef()
	}
	args, argsSpan, ok := p.parseTupType()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Arrow, diag.SynExpectArrow, "expected '->' in service constructor"); !ok {
		return nil, false
	}
	ret, ok := p.parseActorRef()
	if !ok {
		return nil, false
	}
	return &ast.Type{
		Kind:      ast.TypeClass,
		Span:      argsSpan.Cover(ret.Span),
		ClassArgs: args,
		ClassRet:  ret,
	}, true
}

// parseActorRef — тело сервиса: блок методов либо имя типа.
// Span блока покрывает только фигурные скобки, ключевое слово service
// в него не входит.
func (p *Parser) parseActorRef() (*ast.Type, bool) {
	switch p.lx.Peek().Kind {
	case token.LBrace:
		methods, span, ok := p.parseServiceBlock()
		if !ok {
			return nil, false
		}
		return &ast.Type{Kind: ast.TypeService, Span: span, Methods: methods}, true
	case token.Ident:
		tok := p.advance()
		return &ast.Type{Kind: ast.TypeVar, Span: tok.Span, Var: tok.Text}, true
	default:
		p.errHere(diag.SynExpectType, "expected service body or type name")
		return nil, false
	}
}

// parseServiceBlock разбирает '{ метод; метод; ... }'.
// Ошибочные методы пропускаются до следующего ';' или '}'.
func (p *Parser) parseServiceBlock() ([]ast.Binding, source.Span, bool) {
	lb, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to open service body")
	if !ok {
		return nil, lb.Span, false
	}

	var methods []ast.Binding
	for {
		p.skipInvalid()
		if p.at(token.RBrace) || p.at(token.EOF) {
			break
		}
		m, ok := p.parseMethod()
		if !ok {
			p.resyncUntil(token.Semicolon, token.RBrace)
			if p.at(token.Semicolon) {
				p.advance()
			}
			continue
		}
		methods = append(methods, m)
		if p.at(token.Semicolon) {
			p.advance()
			continue
		}
		if p.at(token.RBrace) {
			break
		}
		p.errHere(diag.SynExpectSemicolon, "expected ';' after method")
		p.resyncUntil(token.Semicolon, token.RBrace)
		if p.at(token.Semicolon) {
			p.advance()
		}
	}

	span := lb.Span
	if rb, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close service body"); ok {
		span = span.Cover(rb.Span)
	} else {
		span = span.Cover(p.lastSpan)
	}
	return methods, span, true
}

// parseMethod разбирает 'имя : сигнатура' либо 'имя : ИмяТипа'.
// Имя метода может быть строковым литералом. Имя типа здесь никогда не
// трактуется как примитив: оно обязано указывать на функциональный тип,
// что проверяет семантика, а не парсер.
func (p *Parser) parseMethod() (ast.Binding, bool) {
	first := p.lx.Peek()
	docs := collectDocs(first.Leading, false)

	if first.Kind != token.Ident && first.Kind != token.TextLit {
		p.errHere(diag.SynExpectIdent, "expected method name, found "+first.Kind.String())
		return ast.Binding{}, false
	}
	nameTok := p.advance()
	name := nameTok.Text
	if nameTok.Kind == token.TextLit {
		if unq, ok := token.Unquote(nameTok.Text); ok {
			name = unq
		} else {
			name = strings.Trim(nameTok.Text, `"`)
		}
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after method name"); !ok {
		return ast.Binding{}, false
	}
	typ, ok := p.parseMethodType()
	if !ok {
		return ast.Binding{}, false
	}
	return ast.Binding{
		ID:       name,
		NameSpan: nameTok.Span,
		Span:     nameTok.Span.Cover(typ.Span),
		Typ:      typ,
		Docs:     docs,
	}, true
}

// parseMethodType — тип метода: сигнатура без ключевого слова func либо
// отсылка к именованному типу.
func (p *Parser) parseMethodType() (*ast.Type, bool) {
	switch p.lx.Peek().Kind {
	case token.LParen:
		sig, span, ok := p.parseFuncSig()
		if !ok {
			return nil, false
		}
		return &ast.Type{Kind: ast.TypeFunc, Span: span, Func: sig}, true
	case token.Ident:
		tok := p.advance()
		return &ast.Type{Kind: ast.TypeVar, Span: tok.Span, Var: tok.Text}, true
	default:
		p.errHere(diag.SynExpectType, "expected method signature or type name")
		return nil, false
	}
}
