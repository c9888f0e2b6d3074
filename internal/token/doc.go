// Package token defines lexical token kinds and trivia for Candid sources.
// Invariants:
//   - Token.Text is the decoded lexeme; for text literals it is the unescaped
//     value, for everything else the raw source slice.
//   - Token.Span matches the raw lexeme exactly, in rune offsets.
//   - Comments never appear in the main token stream; they ride as leading
//     Trivia on the next significant token (or on EOF).
//   - Primitive type names (nat, int8, text, ...) are identifiers. They are
//     recognized by the parser, not the lexer. blob and principal are
//     keywords because the grammar treats them specially.
//   - query, oneway and composite_query are keywords only in function-mode
//     position; the parser decides, the lexer always emits the keyword kind.
package token
