package diagfmt

import (
	"encoding/json"
	"io"

	"didls/internal/diag"
	"didls/internal/source"
)

// LocationJSON is a span resolved for machine consumers. Offsets are rune
// offsets; line/col pairs are 1-based and present only when requested.
type LocationJSON struct {
	File      string `json:"file" msgpack:"file"`
	Start     uint32 `json:"start" msgpack:"start"`
	End       uint32 `json:"end" msgpack:"end"`
	StartLine uint32 `json:"start_line,omitempty" msgpack:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty" msgpack:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty" msgpack:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty" msgpack:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message" msgpack:"message"`
	Location LocationJSON `json:"location" msgpack:"location"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity" msgpack:"severity"`
	Code     string       `json:"code" msgpack:"code"`
	Title    string       `json:"title,omitempty" msgpack:"title,omitempty"`
	Message  string       `json:"message" msgpack:"message"`
	Location LocationJSON `json:"location" msgpack:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty" msgpack:"notes,omitempty"`
}

// DiagnosticsOutput is the root of a standalone diagnostics dump.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics" msgpack:"diagnostics"`
	Count       int              `json:"count" msgpack:"count"`
}

func makeLocation(span source.Span, fs *source.FileSet, opts JSONOpts) LocationJSON {
	f := fs.Get(span.File)
	loc := LocationJSON{
		File:  displayPath(f, fs, opts.PathMode),
		Start: span.Start,
		End:   span.End,
	}
	if opts.IncludePositions {
		start, end := fs.Resolve(span)
		loc.StartLine = start.Line
		loc.StartCol = start.Col
		loc.EndLine = end.Line
		loc.EndCol = end.Col
	}
	return loc
}

// BuildDiagnostic converts one diagnostic for serialization.
func BuildDiagnostic(d diag.Diagnostic, fs *source.FileSet, opts JSONOpts) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Location: makeLocation(d.Primary, fs, opts),
	}
	if opts.IncludeNotes {
		for _, note := range d.Notes {
			out.Notes = append(out.Notes, NoteJSON{
				Message:  note.Msg,
				Location: makeLocation(note.Span, fs, opts),
			})
		}
	}
	return out
}

// BuildDiagnosticsOutput converts a bag without serializing it. Count is
// the bag size even when Max trims the emitted list.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	limit := len(items)
	if opts.Max > 0 && opts.Max < limit {
		limit = opts.Max
	}
	diagnostics := make([]DiagnosticJSON, 0, limit)
	for _, d := range items[:limit] {
		diagnostics = append(diagnostics, BuildDiagnostic(d, fs, opts))
	}
	return DiagnosticsOutput{Diagnostics: diagnostics, Count: bag.Len()}
}

// WriteJSON serializes a bag as an indented JSON document.
func WriteJSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
