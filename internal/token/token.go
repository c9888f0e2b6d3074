package token

import (
	"didls/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, boolean, null, or text literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case NullLit, BoolLit, DecimalLit, HexLit, FloatLit, TextLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwType, KwService, KwImport, KwFunc, KwOpt, KwVec, KwRecord,
		KwVariant, KwBlob, KwPrincipal, KwOneway, KwQuery, KwCompositeQuery:
		return true
	default:
		return false
	}
}

// IsFuncMode reports whether the token is a function-mode keyword.
func (t Token) IsFuncMode() bool {
	switch t.Kind {
	case KwOneway, KwQuery, KwCompositeQuery:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is punctuation or an operator.
func (t Token) IsPunctOrOp() bool {
	switch t.Kind {
	case Assign, EqEq, BangEq, NotDecode, Plus, Minus, Colon, Semicolon,
		Comma, Dot, Arrow, LParen, RParen, LBrace, RBrace:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
