package lsp

import (
	"strings"

	"didls/internal/source"
	"didls/internal/token"
)

// Legend indices. The order is part of the wire contract: clients decode
// the tokenType field of every emitted token against exactly this list.
const (
	tokenTypeComment = iota
	tokenTypeCommentDelimiter
	tokenTypeKeyword
	tokenTypeType
	tokenTypeConstant
	tokenTypeNumber
	tokenTypeString
	tokenTypeStringDelimiter
	tokenTypeOperator
	tokenTypePunctuationBracket
	tokenTypePunctuationDelimiter
	tokenTypeIdentifier
)

var semanticTokenTypes = []string{
	"comment",
	"commentDelimiter",
	"keyword",
	"type",
	"constant",
	"number",
	"string",
	"stringDelimiter",
	"operator",
	"punctuationBracket",
	"punctuationDelimiter",
	"identifier",
}

// semanticTokensFor encodes the token stream stored with the document's
// analysis snapshot, or nil when the document is unknown.
func (s *Server) semanticTokensFor(params semanticTokensParams) *semanticTokens {
	uri := params.TextDocument.URI
	analysis, ok := s.analyses.get(uri)
	if !ok {
		return nil
	}
	doc, ok := s.documents.get(uri)
	if !ok {
		return nil
	}
	highlights := collectHighlights(analysis.Tokens)
	return &semanticTokens{Data: encodeSemanticTokens(doc.File, highlights)}
}

// tokenHighlight is one classified source span before relative encoding.
type tokenHighlight struct {
	start     uint32
	length    uint32
	tokenType uint32
}

// collectHighlights classifies the token stream in source order. Comments
// ride as leading trivia, so each token contributes its trivia first; the
// EOF token contributes trailing comments the same way.
func collectHighlights(tokens []token.Token) []tokenHighlight {
	highlights := make([]tokenHighlight, 0, len(tokens))
	for _, tok := range tokens {
		for _, tr := range tok.Leading {
			highlights = appendCommentHighlights(highlights, tr)
		}
		switch tok.Kind {
		case token.EOF, token.Invalid:
		case token.TextLit:
			highlights = appendStringHighlights(highlights, tok)
		default:
			if tokenType, ok := semanticTokenTypeFor(tok.Kind); ok {
				highlights = append(highlights, tokenHighlight{
					start:     tok.Span.Start,
					length:    tok.Span.Len(),
					tokenType: tokenType,
				})
			}
		}
	}
	return highlights
}

func semanticTokenTypeFor(kind token.Kind) (uint32, bool) {
	switch kind {
	case token.KwType, token.KwService, token.KwImport, token.KwFunc,
		token.KwOpt, token.KwVec, token.KwRecord, token.KwVariant,
		token.KwOneway, token.KwQuery, token.KwCompositeQuery:
		return tokenTypeKeyword, true
	case token.KwBlob, token.KwPrincipal:
		return tokenTypeType, true
	case token.NullLit, token.BoolLit:
		return tokenTypeConstant, true
	case token.DecimalLit, token.HexLit, token.FloatLit:
		return tokenTypeNumber, true
	case token.Assign, token.EqEq, token.BangEq, token.NotDecode,
		token.Plus, token.Minus:
		return tokenTypeOperator, true
	case token.LParen, token.RParen, token.LBrace, token.RBrace:
		return tokenTypePunctuationBracket, true
	case token.Comma, token.Semicolon, token.Colon, token.Dot, token.Arrow:
		return tokenTypePunctuationDelimiter, true
	case token.Ident:
		return tokenTypeIdentifier, true
	}
	return 0, false
}

// appendCommentHighlights splits a comment into delimiter and body spans.
// An unterminated block comment has no closing delimiter to report.
func appendCommentHighlights(highlights []tokenHighlight, tr token.Trivia) []tokenHighlight {
	if !tr.IsComment() {
		return highlights
	}
	start := tr.Span.Start
	length := tr.Span.Len()
	opening := length
	if opening > 2 {
		opening = 2
	}
	if opening == 0 {
		return highlights
	}
	highlights = append(highlights, tokenHighlight{
		start:     start,
		length:    opening,
		tokenType: tokenTypeCommentDelimiter,
	})

	bodyStart := start + opening
	bodyEnd := start + length
	closed := tr.Kind == token.TriviaBlockComment && length >= 4 && strings.HasSuffix(tr.Text, "*/")
	if closed {
		bodyEnd -= 2
	}
	if bodyEnd > bodyStart {
		highlights = append(highlights, tokenHighlight{
			start:     bodyStart,
			length:    bodyEnd - bodyStart,
			tokenType: tokenTypeComment,
		})
	}
	if closed {
		highlights = append(highlights, tokenHighlight{
			start:     bodyEnd,
			length:    2,
			tokenType: tokenTypeCommentDelimiter,
		})
	}
	return highlights
}

// appendStringHighlights splits a text literal into its quotes and body.
func appendStringHighlights(highlights []tokenHighlight, tok token.Token) []tokenHighlight {
	start := tok.Span.Start
	length := tok.Span.Len()
	if length == 0 {
		return highlights
	}
	highlights = append(highlights, tokenHighlight{
		start:     start,
		length:    1,
		tokenType: tokenTypeStringDelimiter,
	})
	if length == 1 {
		return highlights
	}
	if length > 2 {
		highlights = append(highlights, tokenHighlight{
			start:     start + 1,
			length:    length - 2,
			tokenType: tokenTypeString,
		})
	}
	highlights = append(highlights, tokenHighlight{
		start:     start + length - 1,
		length:    1,
		tokenType: tokenTypeStringDelimiter,
	})
	return highlights
}

// encodeSemanticTokens converts classified spans into the relative LSP
// encoding: five uint32 values per token, lines and start columns encoded
// as deltas from the previous token. The wire format cannot represent a
// token crossing a line break, so multi-line spans are split first.
func encodeSemanticTokens(file *source.File, highlights []tokenHighlight) []uint32 {
	data := make([]uint32, 0, len(highlights)*5)
	var prevLine, prevStart uint32
	for _, h := range highlights {
		for _, seg := range splitAtLineBreaks(file, h) {
			pos, ok := offsetToPosition(file, seg.start)
			if !ok {
				continue
			}
			line := safeUint32(pos.Line)
			col := safeUint32(pos.Character)
			deltaLine := line - prevLine
			deltaStart := col
			if deltaLine == 0 {
				deltaStart = col - prevStart
			}
			data = append(data, deltaLine, deltaStart, seg.length, seg.tokenType, 0)
			prevLine, prevStart = line, col
		}
	}
	return data
}

// splitAtLineBreaks cuts a highlight at every newline it covers. The
// newline characters themselves are dropped.
func splitAtLineBreaks(file *source.File, h tokenHighlight) []tokenHighlight {
	start := h.start
	end := h.start + h.length
	if n := file.RuneLen(); end > n {
		end = n
	}
	if start >= end {
		return nil
	}
	segments := make([]tokenHighlight, 0, 1)
	for start < end {
		segEnd := end
		line := file.LineAt(start)
		if idx := int(line) - 1; idx < len(file.LineIdx) {
			if nl := file.LineIdx[idx]; nl < segEnd {
				segEnd = nl
			}
		}
		if segEnd > start {
			segments = append(segments, tokenHighlight{
				start:     start,
				length:    segEnd - start,
				tokenType: h.tokenType,
			})
		}
		if segEnd == end {
			break
		}
		start = segEnd + 1
	}
	return segments
}
