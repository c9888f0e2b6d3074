package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"didls/internal/diag"
	"didls/internal/source"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow, color.Bold)
	infoColor  = color.New(color.FgCyan, color.Bold)
	noteColor  = color.New(color.FgCyan)
	gutterSep  = " | "
)

// Pretty writes every diagnostic in the bag as a caret-annotated frame:
//
//	main.did:2:6: ERROR SYN2003: Unexpected token
//	  2 | type = nat;
//	    |      ^~~~~
//
// The bag is printed in its current order; callers sort it first.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	for _, d := range bag.Items() {
		PrettyDiagnostic(w, d, fs, opts)
	}
}

// PrettyDiagnostic writes one diagnostic frame.
func PrettyDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	file := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)

	sev := paint(severityColor(d.Severity), opts.Color, d.Severity.String())
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		displayPath(file, fs, opts.PathMode), start.Line, start.Col, sev, d.Code.ID(), d.Message)

	if !d.Primary.Empty() {
		writeFrame(w, file, fs, d.Primary, severityColor(d.Severity), opts)
	}
	if !opts.ShowNotes {
		return
	}
	for _, note := range d.Notes {
		fmt.Fprintf(w, "  %s: %s\n", paint(noteColor, opts.Color, "note"), note.Msg)
		if !note.Span.Empty() {
			writeFrame(w, fs.Get(note.Span.File), fs, note.Span, noteColor, opts)
		}
	}
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warnColor
	}
	return infoColor
}

func paint(c *color.Color, enabled bool, s string) string {
	if !enabled {
		return s
	}
	return c.Sprint(s)
}

func displayPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	}
	return f.FormatPath("auto", "")
}

// writeFrame prints the span's line with a gutter and a caret row, plus
// optional plain context lines. A span crossing lines is underlined to the
// end of its first line.
func writeFrame(w io.Writer, file *source.File, fs *source.FileSet, span source.Span, c *color.Color, opts PrettyOpts) {
	start, end := fs.Resolve(span)

	firstLine := start.Line
	if ctx := uint32(max(opts.Context, 0)); firstLine > ctx {
		firstLine -= ctx
	} else {
		firstLine = 1
	}
	lastLine := start.Line + uint32(max(opts.Context, 0))
	if lines := file.LineCount(); lastLine > lines {
		lastLine = lines
	}
	gutter := len(fmt.Sprintf("%d", lastLine)) + 2

	for line := firstLine; line <= lastLine; line++ {
		text := file.GetLine(line)
		fmt.Fprintf(w, "%*d%s%s\n", gutter, line, gutterSep, text)
		if line != start.Line {
			continue
		}
		prefix, width := caretLayout([]rune(text), start, end)
		underline := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s%s%s%s\n", strings.Repeat(" ", gutter), gutterSep, prefix, paint(c, opts.Color, underline))
	}
}

// caretLayout computes the whitespace run that positions the caret under
// the span start and the display width of the underlined segment. Tabs in
// the prefix are copied through so the caret row indents exactly like the
// source line.
func caretLayout(lineRunes []rune, start, end source.LineCol) (string, int) {
	startIdx := int(start.Col) - 1
	if startIdx < 0 {
		startIdx = 0
	}
	if startIdx > len(lineRunes) {
		startIdx = len(lineRunes)
	}
	endIdx := len(lineRunes)
	if end.Line == start.Line {
		endIdx = int(end.Col) - 1
		if endIdx < startIdx {
			endIdx = startIdx
		}
		if endIdx > len(lineRunes) {
			endIdx = len(lineRunes)
		}
	}

	var prefix strings.Builder
	for _, r := range lineRunes[:startIdx] {
		if r == '\t' {
			prefix.WriteByte('\t')
			continue
		}
		prefix.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := runewidth.StringWidth(string(lineRunes[startIdx:endIdx]))
	if width < 1 {
		width = 1
	}
	return prefix.String(), width
}
