package parser

import (
	"slices"

	"didls/internal/ast"
	"didls/internal/diag"
	"didls/internal/lexer"
	"didls/internal/source"
	"didls/internal/token"
)

type Options struct {
	MaxErrors uint
	Reporter  diag.Reporter
}

// Result is the complete parse output for one document: the (possibly
// partial) syntax tree, the significant-token stream in source order with
// leading trivia attached, and the diagnostics bag when the reporter
// collects into one.
type Result struct {
	Prog   *ast.Prog
	Tokens []token.Token
	Bag    *diag.Bag
}

// Parser — состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	file     *source.File
	opts     Options
	errors   uint
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	tokens   []token.Token
	prog     *ast.Prog
}

// Parse — входная точка для разбора одного файла. Лексер создаётся внутри и
// репортит в тот же Reporter, что и парсер.
func Parse(file *source.File, opts Options) Result {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	p := Parser{
		lx:       lx,
		file:     file,
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
		prog:     &ast.Prog{},
	}

	p.parseProgram()

	var bag *diag.Bag
	if br, ok := opts.Reporter.(*diag.BagReporter); ok {
		bag = br.Bag
	}
	return Result{Prog: p.prog, Tokens: p.tokens, Bag: bag}
}

// parseProgram — основной цикл верхнего уровня: пока не EOF — декларация.
// Ошибочные декларации выбрасываются, разбор продолжается со следующей.
func (p *Parser) parseProgram() {
	for {
		p.skipInvalid()
		if p.at(token.EOF) {
			break
		}
		tok := p.lx.Peek()
		switch tok.Kind {
		case token.KwType:
			if dec, ok := p.parseTypeDec(); ok {
				p.prog.Decs = append(p.prog.Decs, dec)
			} else {
				p.resyncTop()
			}
		case token.KwImport:
			if dec, ok := p.parseImportDec(); ok {
				p.prog.Decs = append(p.prog.Decs, dec)
			} else {
				p.resyncTop()
			}
		case token.KwService:
			actor, ok := p.parseActor()
			if !ok {
				p.resyncTop()
				continue
			}
			if p.prog.Actor != nil {
				p.report(diag.SynDuplicateActor, diag.SevError, actor.Span, "duplicate service declaration")
				continue
			}
			p.prog.Actor = actor
		default:
			if p.prog.Actor != nil {
				p.report(diag.SynExtraToken, diag.SevError, tok.Span, "extra token after service declaration: "+tok.Kind.String())
			} else {
				p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span, "unexpected token at top level: "+tok.Kind.String())
			}
			p.advance()
			p.resyncTop()
		}
	}
	// EOF тоже попадает в поток токенов: на нём висят хвостовые trivia файла
	p.advance()
}

// resyncTop — восстановление после ошибки на верхнем уровне:
// прокручиваем до ';' ИЛИ до стартового токена следующей декларации ИЛИ EOF.
func (p *Parser) resyncTop() {
	p.resyncUntil(token.Semicolon, token.KwType, token.KwImport, token.KwService)

	// Если нашли semicolon, съедаем его
	if p.at(token.Semicolon) {
		p.advance()
	}
}

// resyncUntil прокручивает токены до одного из stop-токенов или EOF.
func (p *Parser) resyncUntil(stop ...token.Kind) {
	for {
		k := p.lx.Peek().Kind
		if k == token.EOF || slices.Contains(stop, k) {
			return
		}
		p.advance()
	}
}
