package token

import "didls/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "space"
	case TriviaNewline:
		return "newline"
	case TriviaLineComment:
		return "line comment"
	case TriviaBlockComment:
		return "block comment"
	}
	return "unknown"
}

// Trivia is whitespace or a comment preceding a significant token.
// Comment text keeps its delimiters so spans and source text line up.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// IsComment reports whether the trivia is a line or block comment.
func (tr Trivia) IsComment() bool {
	return tr.Kind == TriviaLineComment || tr.Kind == TriviaBlockComment
}
