// Package candid is the front door to the Candid language pipeline: one
// call takes a source file through the lexer and parser and hands back the
// syntax tree, the token stream and the collected diagnostics.
package candid

import (
	"didls/internal/ast"
	"didls/internal/diag"
	"didls/internal/parser"
	"didls/internal/source"
	"didls/internal/token"
)

// DefaultMaxDiagnostics caps diagnostics per document when the caller does
// not say otherwise.
const DefaultMaxDiagnostics = 100

// ParseResult bundles everything one parse produces. Prog is non-nil even
// for badly broken input; Errors holds lexer and parser diagnostics in
// source order; Tokens is the significant-token stream with leading trivia
// attached, ending with EOF.
type ParseResult struct {
	Prog   *ast.Prog
	Errors []diag.Diagnostic
	Tokens []token.Token
}

// Parse runs the lexer and parser over a file and collects diagnostics into
// a fresh bag capped at DefaultMaxDiagnostics.
func Parse(file *source.File) ParseResult {
	return ParseWithLimit(file, DefaultMaxDiagnostics)
}

// ParseWithLimit is Parse with an explicit diagnostics cap. Non-positive
// caps fall back to the default.
func ParseWithLimit(file *source.File, maxDiagnostics int) ParseResult {
	if maxDiagnostics <= 0 {
		maxDiagnostics = DefaultMaxDiagnostics
	}
	bag := diag.NewBag(maxDiagnostics)
	res := parser.Parse(file, parser.Options{
		Reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
	})
	bag.Sort()
	return ParseResult{
		Prog:   res.Prog,
		Errors: bag.Items(),
		Tokens: res.Tokens,
	}
}
