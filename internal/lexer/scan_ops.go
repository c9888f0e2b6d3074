package lexer

import (
	"fmt"

	"didls/internal/diag"
	"didls/internal/token"
)

// scanOperatorOrPunct сканирует операторы, скобки и разделители.
// Многосимвольные ('->', '==', '!=', '!:') пробуем раньше односимвольных.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	mk := func(kind token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: kind, Span: sp, Text: lx.file.Slice(sp)}
	}

	// двухсимвольные
	switch {
	case lx.try2('-', '>'):
		return mk(token.Arrow)
	case lx.try2('=', '='):
		return mk(token.EqEq)
	case lx.try2('!', '='):
		return mk(token.BangEq)
	case lx.try2('!', ':'):
		return mk(token.NotDecode)
	}

	// односимвольные
	r := lx.cursor.Bump()
	switch r {
	case '=':
		return mk(token.Assign)
	case '+':
		return mk(token.Plus)
	case '-':
		return mk(token.Minus)
	case ':':
		return mk(token.Colon)
	case ';':
		return mk(token.Semicolon)
	case ',':
		return mk(token.Comma)
	case '.':
		return mk(token.Dot)
	case '(':
		return mk(token.LParen)
	case ')':
		return mk(token.RParen)
	case '{':
		return mk(token.LBrace)
	case '}':
		return mk(token.RBrace)
	}

	// неизвестный символ
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("unknown character %q", r))
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.file.Slice(sp)}
}
