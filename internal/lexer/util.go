package lexer

// ===== Классификаторы =====

// Идентификаторы в Candid чисто ASCII: [A-Za-z_][A-Za-z0-9_]*.
func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}
func isIdentContinue(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isDec(r rune) bool { return r >= '0' && r <= '9' }
func isHex(r rune) bool {
	return (r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'f') ||
		(r >= 'A' && r <= 'F')
}

// ===== Матчеры последовательностей операторов (жадность) =====

// try2 пробует "съесть" 2 руны, если совпадает.
func (lx *Lexer) try2(a, b rune) bool {
	r0, r1, ok := lx.cursor.Peek2()
	if !ok || r0 != a || r1 != b {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()
	return true
}
