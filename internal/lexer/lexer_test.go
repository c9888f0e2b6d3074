package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"didls/internal/diag"
	"didls/internal/lexer"
	"didls/internal/source"
	"didls/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

// Report реализует интерфейс diag.Reporter
func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

// ErrorCount возвращает количество ошибок
func (r *testReporter) ErrorCount() int {
	count := 0
	for _, d := range r.diagnostics {
		if d.Severity == diag.SevError {
			count++
		}
	}
	return count
}

// ErrorMessages возвращает список сообщений об ошибках
func (r *testReporter) ErrorMessages() []string {
	messages := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		messages = append(messages, fmt.Sprintf("[%s] %s: %s", d.Code.ID(), d.Severity, d.Message))
	}
	return messages
}

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.did", input)
	file := fs.Get(fileID)

	reporter := &testReporter{diagnostics: make([]diag.Diagnostic, 0)}
	opts := lexer.Options{Reporter: reporter}
	lx := lexer.New(file, opts)

	return lx, reporter
}

// collectAllTokens собирает все токены до EOF
func collectAllTokens(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}

// expectTokens проверяет последовательность токенов
func expectTokens(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tokens := collectAllTokens(lx)

	// убираем EOF из сравнения
	if len(tokens) > 0 && tokens[len(tokens)-1].Kind == token.EOF {
		tokens = tokens[:len(tokens)-1]
	}

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d\nInput: %q\nTokens: %v\nErrors: %v",
			len(expected), len(tokens), input, tokensToString(tokens), reporter.ErrorMessages())
	}

	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("Token %d: expected %v, got %v (text: %q)",
				i, expected[i], tok.Kind, tok.Text)
		}
	}
}

// expectSingleToken проверяет, что вход создаёт ровно один токен
func expectSingleToken(t *testing.T, input string, expectedKind token.Kind, expectedText string) {
	t.Helper()
	lx, _ := makeTestLexer(input)
	tok := lx.Next()

	if tok.Kind != expectedKind {
		t.Errorf("Input %q: expected kind %v, got %v", input, expectedKind, tok.Kind)
	}
	if tok.Text != expectedText {
		t.Errorf("Input %q: expected text %q, got %q", input, expectedText, tok.Text)
	}
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ====== Тесты для scan_ident.go ======

func TestIdentifiers_ASCII(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		text  string
	}{
		{"foo", token.Ident, "foo"},
		{"_bar", token.Ident, "_bar"},
		{"__test", token.Ident, "__test"},
		{"_", token.Ident, "_"},
		{"x123", token.Ident, "x123"},
		{"camelCase", token.Ident, "camelCase"},
		{"UPPER", token.Ident, "UPPER"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.text)
		})
	}
}

func TestKeywords_Lowercase(t *testing.T) {
	// Ключевые слова регистрозависимые — только строчные распознаются как ключевые слова
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"type", token.KwType},
		{"service", token.KwService},
		{"import", token.KwImport},
		{"func", token.KwFunc},
		{"opt", token.KwOpt},
		{"vec", token.KwVec},
		{"record", token.KwRecord},
		{"variant", token.KwVariant},
		{"blob", token.KwBlob},
		{"principal", token.KwPrincipal},
		{"oneway", token.KwOneway},
		{"query", token.KwQuery},
		{"composite_query", token.KwCompositeQuery},
		{"null", token.NullLit},
		{"true", token.BoolLit},
		{"false", token.BoolLit},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestKeywords_CapitalizedAreIdents(t *testing.T) {
	tests := []string{"Type", "SERVICE", "Query", "Record", "Null", "True"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.Ident, input)
		})
	}
}

func TestPrimitiveNamesAreIdents(t *testing.T) {
	// Имена примитивов лексер не выделяет — это работа семантики
	tests := []string{"nat", "nat8", "int", "int64", "float32", "float64", "bool", "text", "reserved", "empty"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.Ident, input)
		})
	}
}

// ====== Тесты для scan_number.go ======

func TestNumbers_Decimal(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{"0", "0"},
		{"7", "7"},
		{"123", "123"},
		{"007", "007"},
		{"1_000_000", "1_000_000"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, token.DecimalLit, tt.text)
		})
	}
}

func TestNumbers_Hexadecimal(t *testing.T) {
	tests := []string{"0x0", "0xDEAD_BEEF", "0x1a2B", "0X7F"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.HexLit, input)
		})
	}
}

func TestNumbers_Float(t *testing.T) {
	tests := []string{"1.0", "1.", "0.5", "3.14159", "1e3", "1E3", "1e+3", "1.5e-3", "2.e2"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.FloatLit, input)
		})
	}
}

func TestNumbers_InvalidExponent(t *testing.T) {
	lx, reporter := makeTestLexer("1e")
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Errorf("Expected Invalid token, got %v", tok.Kind)
	}
	if reporter.ErrorCount() != 1 {
		t.Errorf("Expected 1 error, got %d: %v", reporter.ErrorCount(), reporter.ErrorMessages())
	}
}

func TestNumbers_BareHexPrefix(t *testing.T) {
	lx, reporter := makeTestLexer("0x")
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Errorf("Expected Invalid token, got %v", tok.Kind)
	}
	if reporter.ErrorCount() != 1 {
		t.Errorf("Expected 1 error, got %d: %v", reporter.ErrorCount(), reporter.ErrorMessages())
	}
}

func TestNumbers_SignIsSeparateToken(t *testing.T) {
	expectTokens(t, "-42", []token.Kind{token.Minus, token.DecimalLit})
	expectTokens(t, "+3.5", []token.Kind{token.Plus, token.FloatLit})
}

// ====== Тесты для scan_string.go ======

func TestString_Simple(t *testing.T) {
	expectSingleToken(t, `"hello"`, token.TextLit, `"hello"`)
	expectSingleToken(t, `""`, token.TextLit, `""`)
}

func TestString_Escapes(t *testing.T) {
	tests := []string{
		`"a\nb"`,
		`"tab\there"`,
		`"quote\""`,
		`"back\\slash"`,
		`"\e2\98\83"`,
		`"\u{2603}"`,
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lx, reporter := makeTestLexer(input)
			tok := lx.Next()
			if tok.Kind != token.TextLit {
				t.Errorf("Expected TextLit, got %v", tok.Kind)
			}
			if tok.Text != input {
				t.Errorf("Expected text %q, got %q", input, tok.Text)
			}
			if reporter.ErrorCount() != 0 {
				t.Errorf("Unexpected errors: %v", reporter.ErrorMessages())
			}
		})
	}
}

func TestString_BadEscape(t *testing.T) {
	lx, reporter := makeTestLexer(`"a\qb"`)
	tok := lx.Next()
	// литерал всё равно закрывается, но ошибка зарепорчена
	if tok.Kind != token.TextLit {
		t.Errorf("Expected TextLit, got %v", tok.Kind)
	}
	if reporter.ErrorCount() != 1 {
		t.Errorf("Expected 1 error, got %d: %v", reporter.ErrorCount(), reporter.ErrorMessages())
	}
}

func TestString_Unterminated(t *testing.T) {
	lx, reporter := makeTestLexer(`"abc`)
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Errorf("Expected Invalid token, got %v", tok.Kind)
	}
	if reporter.ErrorCount() != 1 {
		t.Errorf("Expected 1 error, got %d: %v", reporter.ErrorCount(), reporter.ErrorMessages())
	}
	if len(reporter.diagnostics) > 0 && reporter.diagnostics[0].Code != diag.LexUnterminatedString {
		t.Errorf("Expected LexUnterminatedString, got %v", reporter.diagnostics[0].Code)
	}
}

func TestString_NewlineAllowed(t *testing.T) {
	// Грамматика Candid разрешает перевод строки внутри текстового литерала
	input := "\"line one\nline two\""
	lx, reporter := makeTestLexer(input)
	tok := lx.Next()
	if tok.Kind != token.TextLit {
		t.Errorf("Expected TextLit, got %v", tok.Kind)
	}
	if reporter.ErrorCount() != 0 {
		t.Errorf("Unexpected errors: %v", reporter.ErrorMessages())
	}
}

// ====== Тесты для scan_ops.go ======

func TestOperators_Single(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"=", token.Assign},
		{"+", token.Plus},
		{"-", token.Minus},
		{":", token.Colon},
		{";", token.Semicolon},
		{",", token.Comma},
		{".", token.Dot},
		{"(", token.LParen},
		{")", token.RParen},
		{"{", token.LBrace},
		{"}", token.RBrace},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestOperators_Double(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"->", token.Arrow},
		{"==", token.EqEq},
		{"!=", token.BangEq},
		{"!:", token.NotDecode},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestOperators_Greedy(t *testing.T) {
	expectTokens(t, "->-", []token.Kind{token.Arrow, token.Minus})
	expectTokens(t, "===", []token.Kind{token.EqEq, token.Assign})
	expectTokens(t, "!=:", []token.Kind{token.BangEq, token.Colon})
	expectTokens(t, "-->", []token.Kind{token.Minus, token.Arrow})
}

func TestOperators_BareBangIsUnknown(t *testing.T) {
	lx, reporter := makeTestLexer("!")
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Errorf("Expected Invalid token, got %v", tok.Kind)
	}
	if reporter.ErrorCount() != 1 {
		t.Errorf("Expected 1 error, got %d", reporter.ErrorCount())
	}
}

func TestUnknownCharacter(t *testing.T) {
	lx, reporter := makeTestLexer("@")
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Errorf("Expected Invalid token, got %v", tok.Kind)
	}
	if reporter.ErrorCount() != 1 {
		t.Errorf("Expected 1 error, got %d", reporter.ErrorCount())
	}
	if len(reporter.diagnostics) > 0 && reporter.diagnostics[0].Code != diag.LexUnknownChar {
		t.Errorf("Expected LexUnknownChar, got %v", reporter.diagnostics[0].Code)
	}
}

// ====== Тесты для trivia.go ======

func TestTrivia_SpacesAttached(t *testing.T) {
	lx, _ := makeTestLexer("   type")
	tok := lx.Next()
	if tok.Kind != token.KwType {
		t.Fatalf("Expected KwType, got %v", tok.Kind)
	}
	if len(tok.Leading) != 1 {
		t.Fatalf("Expected 1 leading trivia, got %d", len(tok.Leading))
	}
	if tok.Leading[0].Kind != token.TriviaSpace {
		t.Errorf("Expected TriviaSpace, got %v", tok.Leading[0].Kind)
	}
	if tok.Leading[0].Text != "   " {
		t.Errorf("Expected three spaces, got %q", tok.Leading[0].Text)
	}
}

func TestTrivia_NewlinesCoalesced(t *testing.T) {
	lx, _ := makeTestLexer("\n\n\ntype")
	tok := lx.Next()
	if len(tok.Leading) != 1 {
		t.Fatalf("Expected 1 leading trivia, got %d", len(tok.Leading))
	}
	if tok.Leading[0].Kind != token.TriviaNewline {
		t.Errorf("Expected TriviaNewline, got %v", tok.Leading[0].Kind)
	}
}

func TestTrivia_LineComment(t *testing.T) {
	lx, _ := makeTestLexer("// hello\ntype")
	tok := lx.Next()
	if tok.Kind != token.KwType {
		t.Fatalf("Expected KwType, got %v", tok.Kind)
	}
	if len(tok.Leading) != 2 {
		t.Fatalf("Expected 2 leading trivia, got %d", len(tok.Leading))
	}
	if tok.Leading[0].Kind != token.TriviaLineComment {
		t.Errorf("Expected TriviaLineComment, got %v", tok.Leading[0].Kind)
	}
	if tok.Leading[0].Text != "// hello" {
		t.Errorf("Expected comment text, got %q", tok.Leading[0].Text)
	}
	if tok.Leading[1].Kind != token.TriviaNewline {
		t.Errorf("Expected TriviaNewline, got %v", tok.Leading[1].Kind)
	}
}

func TestTrivia_BlockCommentNested(t *testing.T) {
	lx, reporter := makeTestLexer("/* outer /* inner */ still */type")
	tok := lx.Next()
	if tok.Kind != token.KwType {
		t.Fatalf("Expected KwType, got %v", tok.Kind)
	}
	if len(tok.Leading) != 1 {
		t.Fatalf("Expected 1 leading trivia, got %d", len(tok.Leading))
	}
	if tok.Leading[0].Kind != token.TriviaBlockComment {
		t.Errorf("Expected TriviaBlockComment, got %v", tok.Leading[0].Kind)
	}
	if reporter.ErrorCount() != 0 {
		t.Errorf("Unexpected errors: %v", reporter.ErrorMessages())
	}
}

func TestTrivia_UnterminatedBlockComment(t *testing.T) {
	lx, reporter := makeTestLexer("/* never closed")
	tok := lx.Next()
	if tok.Kind != token.EOF {
		t.Fatalf("Expected EOF, got %v", tok.Kind)
	}
	if reporter.ErrorCount() != 1 {
		t.Errorf("Expected 1 error, got %d", reporter.ErrorCount())
	}
	if len(reporter.diagnostics) > 0 && reporter.diagnostics[0].Code != diag.LexUnterminatedBlockComment {
		t.Errorf("Expected LexUnterminatedBlockComment, got %v", reporter.diagnostics[0].Code)
	}
}

func TestTrivia_TrailingCommentOnEOF(t *testing.T) {
	// хвостовые комментарии файла приклеиваются к EOF
	lx, _ := makeTestLexer("type T = nat; // done")
	tokens := collectAllTokens(lx)
	eof := tokens[len(tokens)-1]
	if eof.Kind != token.EOF {
		t.Fatalf("Expected EOF last, got %v", eof.Kind)
	}
	if len(eof.Leading) != 2 {
		t.Fatalf("Expected 2 leading trivia on EOF, got %d", len(eof.Leading))
	}
	if eof.Leading[1].Kind != token.TriviaLineComment {
		t.Errorf("Expected TriviaLineComment, got %v", eof.Leading[1].Kind)
	}
}

// ====== Спаны в рунах ======

func TestSpans_RuneOffsets(t *testing.T) {
	// 'é' — одна руна; спаны считаем в рунах, не в байтах
	lx, _ := makeTestLexer("// é\nx")
	tok := lx.Next()
	if tok.Kind != token.Ident || tok.Text != "x" {
		t.Fatalf("Expected Ident 'x', got %v %q", tok.Kind, tok.Text)
	}
	if tok.Span.Start != 5 || tok.Span.End != 6 {
		t.Errorf("Expected span 5-6, got %d-%d", tok.Span.Start, tok.Span.End)
	}
}

// ====== Peek ======

func TestPeek_DoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("type T")
	p := lx.Peek()
	n := lx.Next()
	if p.Kind != n.Kind || p.Span != n.Span {
		t.Errorf("Peek/Next mismatch: %v vs %v", p.Kind, n.Kind)
	}
	if lx.Next().Kind != token.Ident {
		t.Errorf("Expected Ident after peeked keyword")
	}
}

// ====== Интеграционный прогон ======

func TestServiceSnippet(t *testing.T) {
	input := "service : {\n  greet : (text) -> (text) query;\n}"
	expectTokens(t, input, []token.Kind{
		token.KwService, token.Colon, token.LBrace,
		token.Ident, token.Colon,
		token.LParen, token.Ident, token.RParen,
		token.Arrow,
		token.LParen, token.Ident, token.RParen,
		token.KwQuery, token.Semicolon,
		token.RBrace,
	})
}

func TestTypeDeclSnippet(t *testing.T) {
	input := `type Entry = record { key : text; value : vec nat8; };`
	expectTokens(t, input, []token.Kind{
		token.KwType, token.Ident, token.Assign,
		token.KwRecord, token.LBrace,
		token.Ident, token.Colon, token.Ident, token.Semicolon,
		token.Ident, token.Colon, token.KwVec, token.Ident, token.Semicolon,
		token.RBrace, token.Semicolon,
	})
}

func TestImportSnippet(t *testing.T) {
	input := `import "common.did";`
	expectTokens(t, input, []token.Kind{
		token.KwImport, token.TextLit, token.Semicolon,
	})
}
