package sema

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"didls/internal/ast"
	"didls/internal/source"
)

// findIdentifierSpan locates needle as a plain substring of the span text
// and returns its rune span. fromEnd picks the last occurrence instead of
// the first. There is no word-boundary check; callers narrow the search
// span instead.
func findIdentifierSpan(file *source.File, span source.Span, needle string, fromEnd bool) (source.Span, bool) {
	if needle == "" || span.Empty() {
		return source.Span{}, false
	}
	text := file.Slice(span)
	var idx int
	if fromEnd {
		idx = strings.LastIndex(text, needle)
	} else {
		idx = strings.Index(text, needle)
	}
	if idx < 0 {
		return source.Span{}, false
	}
	start := span.Start + uint32(utf8.RuneCountInString(text[:idx]))
	end := start + uint32(utf8.RuneCountInString(needle))
	return source.Span{File: span.File, Start: start, End: end}, true
}

// findCharInSpan returns the rune offset of the first occurrence of c
// inside the span.
func findCharInSpan(file *source.File, span source.Span, c rune) (uint32, bool) {
	if span.Empty() {
		return 0, false
	}
	text := file.Slice(span)
	idx := strings.IndexRune(text, c)
	if idx < 0 {
		return 0, false
	}
	return span.Start + uint32(utf8.RuneCountInString(text[:idx])), true
}

// spanTextEquals reports whether the span text equals want once surrounding
// whitespace is stripped.
func spanTextEquals(file *source.File, span source.Span, want string) bool {
	if span.Empty() {
		return false
	}
	return strings.TrimSpace(file.Slice(span)) == want
}

// argsRegionStart is the first rune offset inside the argument parens of a
// function type, or the span start when the text carries no '('.
func argsRegionStart(file *source.File, span source.Span) uint32 {
	if off, ok := findCharInSpan(file, span, '('); ok {
		return off + 1
	}
	return span.Start
}

// computeBindingIdentSpan locates the declared name inside the binding
// text, between the start of the binding and the start of its type
// expression. The search runs backwards so a short name does not match
// inside the leading keyword.
func computeBindingIdentSpan(file *source.File, b *ast.Binding) (source.Span, bool) {
	if b.ID == "" {
		return source.Span{}, false
	}
	region := source.Span{File: b.Span.File, Start: b.Span.Start, End: b.Span.End}
	if b.Typ != nil && b.Typ.Span.Start > region.Start {
		region.End = b.Typ.Span.Start
	}
	return findIdentifierSpan(file, region, b.ID, true)
}

// computeFieldLabelSpan locates the label text before the field's type
// expression. Fields whose span starts at the type fall back to searching
// the whole field, which can hit label-shaped digits inside the type text.
func computeFieldLabelSpan(file *source.File, f *ast.Field) (source.Span, bool) {
	label := f.Label.Text()
	if label == "" {
		return source.Span{}, false
	}
	region := source.Span{File: f.Span.File, Start: f.Span.Start, End: f.Span.End}
	if f.Typ != nil && f.Typ.Span.Start > region.Start {
		region.End = f.Typ.Span.Start
	}
	return findIdentifierSpan(file, region, label, true)
}

// computeParamNameSpan recovers a parameter name from the text between the
// previous argument and the current one: the identifier right before the
// last ':' in that region.
func computeParamNameSpan(file *source.File, region source.Span) (source.Span, bool) {
	if region.Empty() {
		return source.Span{}, false
	}
	text := file.Slice(region)
	colon := strings.LastIndexByte(text, ':')
	if colon < 0 {
		return source.Span{}, false
	}
	candidate := text[:colon]
	if cut := strings.LastIndexAny(candidate, "(,"); cut >= 0 {
		candidate = candidate[cut+1:]
	}
	name := strings.TrimSpace(candidate)
	if name == "" {
		return source.Span{}, false
	}
	return findIdentifierSpan(file, region, name, true)
}

// computeActorName recovers the service name from the text between the
// start of the actor declaration and its first ':'.
func computeActorName(file *source.File, actorSpan source.Span) (string, source.Span, bool) {
	colon, ok := findCharInSpan(file, actorSpan, ':')
	if !ok {
		return "", source.Span{}, false
	}
	region := source.Span{File: actorSpan.File, Start: actorSpan.Start, End: colon}
	trimmed := strings.TrimLeftFunc(file.Slice(region), unicode.IsSpace)
	rest, ok := strings.CutPrefix(trimmed, "service")
	if !ok {
		return "", source.Span{}, false
	}
	words := strings.Fields(rest)
	if len(words) == 0 {
		return "", source.Span{}, false
	}
	span, ok := findIdentifierSpan(file, region, words[0], false)
	if !ok {
		return "", source.Span{}, false
	}
	return file.Slice(span), span, true
}
