package lexer

import (
	"didls/internal/diag"
	"didls/internal/token"
)

// Поддержка: 0, 123, 1_000, 0xDEAD_BEEF, 1.0, 1., 1e-3, 1.0e+10.
// Грамматика Candid не знает 0b/0o — такие формы распадутся на число и идентификатор.
// Неверные формы — репорт в opts.Reporter, токен по возможности завершаем.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.DecimalLit

	// ведущий "0x"?
	if lx.cursor.Peek() == '0' {
		lx.cursor.Bump()
		if lx.cursor.Peek() == 'x' || lx.cursor.Peek() == 'X' {
			lx.cursor.Bump()
			if !isHex(lx.cursor.Peek()) {
				sp := lx.cursor.SpanFrom(start)
				lx.errLex(diag.LexBadNumber, sp, "expected hex digit after '0x'")
				return token.Token{Kind: token.Invalid, Span: sp, Text: lx.file.Slice(sp)}
			}
			for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.HexLit, Span: sp, Text: lx.file.Slice(sp)}
		}
		// просто "0" (возможно далее десятичная дробь)
	}

	// десятичная целая часть
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}

	// дробная часть ("1." без цифр после точки — допустимый float)
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.FloatLit
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	// экспонента
	if lx.cursor.Peek() == 'e' || lx.cursor.Peek() == 'E' {
		kind = token.FloatLit
		lx.cursor.Bump()
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadNumber, sp, "expected digit after exponent")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.file.Slice(sp)}
		}
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.file.Slice(sp)}
}
