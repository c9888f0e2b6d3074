package lsp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode"

	"didls/internal/ast"
	"didls/internal/candid"
	"didls/internal/diag"
	"didls/internal/sema"
	"didls/internal/source"
	"didls/internal/token"
)

// AnalysisSnapshot is the immutable analysis result for one document
// revision. A new revision replaces the whole snapshot, so readers never
// observe the AST of one revision paired with the semantics of another.
type AnalysisSnapshot struct {
	AST           *ast.Prog
	Sem           *sema.Semantic
	Completion    *completionDocumentCache
	ParseErrCount int
	Version       int32
	Tokens        []token.Token
}

// analysisStore maps document URIs to their latest analysis snapshot.
type analysisStore struct {
	mu      sync.Mutex
	entries map[string]*AnalysisSnapshot
}

func newAnalysisStore() *analysisStore {
	return &analysisStore{entries: make(map[string]*AnalysisSnapshot)}
}

// set stores a snapshot unless its analysis token has been superseded. The
// token check happens under the store lock: a fresh token there means no
// newer revision has started its analysis yet, so the newest revision always
// wins regardless of how slow older analyses finish. A nil token is never
// superseded.
func (st *analysisStore) set(uri string, snapshot *AnalysisSnapshot, token *TaskToken) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if token.IsCancelled() {
		return false
	}
	st.entries[uri] = snapshot
	return true
}

func (st *analysisStore) get(uri string) (*AnalysisSnapshot, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	snapshot, ok := st.entries[uri]
	return snapshot, ok
}

func (st *analysisStore) delete(uri string) {
	st.mu.Lock()
	delete(st.entries, uri)
	st.mu.Unlock()
}

// analyzeSnapshot parses and analyzes one document revision. A parse that
// yields no program still yields a snapshot: tokens and diagnostics remain
// useful even when the AST does not. A semantic error discards the semantic
// result entirely and surfaces as one more diagnostic.
func analyzeSnapshot(doc *DocumentSnapshot) (*AnalysisSnapshot, []lspDiagnostic) {
	result := candid.Parse(doc.File)

	diagnostics := make([]lspDiagnostic, 0, len(result.Errors)+1)
	for _, item := range result.Errors {
		diagnostics = append(diagnostics, lspDiagnosticFrom(doc.File, item))
	}

	var semantic *sema.Semantic
	if result.Prog != nil {
		sem, err := sema.Analyze(result.Prog, doc.File)
		if err != nil {
			diagnostics = append(diagnostics, semanticErrorDiagnostic(doc.File, err))
		} else {
			semantic = sem
		}
	}

	version := doc.Version
	return &AnalysisSnapshot{
		AST:           result.Prog,
		Sem:           semantic,
		Completion:    newCompletionDocumentCache(result.Prog, semantic, &version),
		ParseErrCount: len(result.Errors),
		Version:       version,
		Tokens:        result.Tokens,
	}, diagnostics
}

// runAnalysis analyzes a document revision, stores the snapshot and
// publishes diagnostics stamped with that revision's version. The token was
// issued when the revision arrived; a newer revision (or a close) bumps the
// same generation, and the superseded analysis discards its result instead
// of storing or publishing stale state. The version stamp on the publish
// lets the client drop any notification that still races past the check.
func (s *Server) runAnalysis(ctx context.Context, doc *DocumentSnapshot, token *TaskToken) {
	snapshot, diagnostics := analyzeSnapshot(doc)
	if !s.analyses.set(doc.URI, snapshot, token) {
		return
	}
	version := snapshot.Version
	s.publishDiagnostics(ctx, doc.URI, diagnostics, &version)
}

func lspDiagnosticFrom(file *source.File, d diag.Diagnostic) lspDiagnostic {
	return lspDiagnostic{
		Range:    rangeForSpan(file, d.Primary),
		Severity: lspSeverity(d.Severity),
		Code:     d.Code.ID(),
		Source:   diagnosticSource(d.Code),
		Message:  cleanDiagnosticMessage(d.Message),
	}
}

func semanticErrorDiagnostic(file *source.File, err error) lspDiagnostic {
	var span source.Span
	var undef *sema.UndefinedVariableError
	if errors.As(err, &undef) {
		span = undef.Span
	}
	return lspDiagnostic{
		Range:    rangeForSpan(file, span),
		Severity: diagnosticSeverityError,
		Source:   "semantic",
		Message:  cleanDiagnosticMessage(err.Error()),
	}
}

func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevWarning:
		return diagnosticSeverityWarning
	case diag.SevInfo:
		return diagnosticSeverityInformation
	case diag.SevHint:
		return diagnosticSeverityHint
	}
	return diagnosticSeverityError
}

func diagnosticSource(code diag.Code) string {
	id := code.ID()
	switch {
	case strings.HasPrefix(id, "LEX"):
		return "lexer"
	case strings.HasPrefix(id, "SYN"):
		return "parser"
	case strings.HasPrefix(id, "SEM"):
		return "semantic"
	}
	return "candid"
}

// cleanDiagnosticMessage strips a trailing " at N..M" offset suffix from an
// error text. The client already receives the range as structured data, so
// repeating raw offsets in the message only adds noise.
func cleanDiagnosticMessage(message string) string {
	const marker = " at "
	idx := strings.LastIndex(message, marker)
	if idx < 0 {
		return message
	}
	suffix := strings.TrimSpace(message[idx+len(marker):])
	start, end, ok := strings.Cut(suffix, "..")
	if !ok || !allASCIIDigits(start) || !allASCIIDigits(end) {
		return message
	}
	return strings.TrimRightFunc(message[:idx], unicode.IsSpace)
}

func allASCIIDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
