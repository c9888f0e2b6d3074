// Package diag defines the diagnostic model shared by the lexer, parser and
// semantic analyzer.
//
// Diagnostic is the central record: severity, a stable numeric code, a short
// message, the primary source span and optional notes. Producers emit through
// a Reporter so they stay decoupled from storage; BagReporter aggregates into
// a Bag, which supports sorting and deduplication for deterministic output.
//
// Rendering lives in internal/diagfmt; this package does no formatting or IO.
package diag
