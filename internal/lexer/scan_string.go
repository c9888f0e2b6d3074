package lexer

import (
	"fmt"

	"didls/internal/diag"
	"didls/internal/source"
	"didls/internal/token"
)

// scanString сканирует текстовый литерал "...".
// Escape-последовательности Candid: \n \r \t \\ \" \' , \hh (два hex-знака) и \u{hex+}.
// Литерал может содержать перевод строки. Token.Text — ровно исходный срез, включая кавычки.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	if !lx.cursor.Eat('"') {
		return lx.scanOperatorOrPunct()
	}

	for !lx.cursor.EOF() {
		r := lx.cursor.Bump()
		if r == '"' {
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.TextLit, Span: sp, Text: lx.file.Slice(sp)}
		}
		if r == '\\' {
			lx.scanEscape()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated text literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.file.Slice(sp)}
}

// scanEscape валидирует одну escape-последовательность; '\' уже потреблён.
// На ошибке репортим и продолжаем лексить литерал дальше.
func (lx *Lexer) scanEscape() {
	if lx.cursor.EOF() {
		// обрыв на '\' — внешний цикл сообщит об unterminated литерале
		return
	}
	escStart := lx.cursor.Off - 1

	spanFromEsc := func() source.Span {
		return source.Span{File: lx.file.ID, Start: escStart, End: lx.cursor.Off}
	}

	r := lx.cursor.Peek()
	switch {
	case r == 'n' || r == 'r' || r == 't' || r == '\\' || r == '"' || r == '\'':
		lx.cursor.Bump()

	case isHex(r):
		// \hh — ровно два hex-знака
		lx.cursor.Bump()
		if isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			return
		}
		lx.errLex(diag.LexBadEscape, spanFromEsc(), "expected two hex digits in escape")

	case r == 'u':
		// \u{hex+}
		lx.cursor.Bump()
		if !lx.cursor.Eat('{') {
			lx.errLex(diag.LexBadEscape, spanFromEsc(), "expected '{' after '\\u'")
			return
		}
		digits := 0
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			digits++
		}
		if digits == 0 || !lx.cursor.Eat('}') {
			lx.errLex(diag.LexBadEscape, spanFromEsc(), "malformed unicode escape")
		}

	default:
		lx.cursor.Bump()
		lx.errLex(diag.LexBadEscape, spanFromEsc(), fmt.Sprintf("unknown escape '\\%c'", r))
	}
}
