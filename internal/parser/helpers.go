package parser

import (
	"slices"
	"strings"

	"didls/internal/diag"
	"didls/internal/source"
	"didls/internal/token"
)

// advance — съедает следующий токен, записывает его в поток и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	p.tokens = append(p.tokens, tok)
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

// Invalid-токены уже зарепорчены лексером; парсер их молча пропускает.
func (p *Parser) skipInvalid() {
	for p.at(token.Invalid) {
		p.advance()
	}
}

// isFirstToken — true, если только что съеденный токен был первым в файле.
// Нужен для привязки док-комментариев в самом начале документа.
func (p *Parser) isFirstToken() bool {
	return len(p.tokens) == 1
}

// getDiagnosticSpan — возвращает лучший span для диагностики.
// На EOF используем позицию сразу после последнего съеденного токена.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{
			File:  p.lastSpan.File,
			Start: p.lastSpan.End,
			End:   p.lastSpan.End,
		}
	}
	return peek.Span
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем (invalid,false).
// На EOF код повышается до SynUnexpectedEOF.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	if p.at(token.EOF) {
		code = diag.SynUnexpectedEOF
	}
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.lx.Peek().Text}, false
}

// errHere репортует ошибку на текущем спане с EOF-повышением кода.
func (p *Parser) errHere(code diag.Code, msg string) {
	if p.at(token.EOF) {
		code = diag.SynUnexpectedEOF
	}
	p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.opts.Reporter == nil {
		return false
	}
	if sev == diag.SevError {
		p.errors++
	}
	if p.opts.MaxErrors != 0 && p.errors > p.opts.MaxErrors {
		return false // достигли максимального количества ошибок
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil)
	return true
}

// collectDocs отбирает из leading trivia док-комментарии декларации:
// подряд идущие строчные комментарии, каждый на своей строке, без пустой
// строки между последним комментарием и самой декларацией. Хвостовой
// комментарий предыдущей строки доком не считается.
func collectDocs(leading []token.Trivia, atFileStart bool) []string {
	var docs []string
	sawNewline := false
	confirmed := true
walk:
	for i := len(leading) - 1; i >= 0; i-- {
		tr := leading[i]
		switch tr.Kind {
		case token.TriviaSpace:
			continue
		case token.TriviaNewline:
			confirmed = true
			if strings.Count(tr.Text, "\n") > 1 {
				// пустая строка обрывает блок
				break walk
			}
			sawNewline = true
		case token.TriviaLineComment:
			if !sawNewline {
				break walk
			}
			docs = append(docs, tr.Text)
			sawNewline = false
			confirmed = false
		default:
			break walk
		}
	}
	// последний собранный комментарий должен начинаться со своей строки
	if !confirmed && !atFileStart && len(docs) > 0 {
		docs = docs[:len(docs)-1]
	}
	slices.Reverse(docs)
	return docs
}
