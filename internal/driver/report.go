package driver

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/vmihailenco/msgpack/v5"

	"didls/internal/diag"
	"didls/internal/diagfmt"
	"didls/internal/observ"
)

// ReportFormat selects the encoding WriteReport uses.
type ReportFormat string

const (
	FormatPretty  ReportFormat = "pretty"
	FormatJSON    ReportFormat = "json"
	FormatMsgpack ReportFormat = "msgpack"
)

// ParseReportFormat validates a --format flag value.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch ReportFormat(s) {
	case FormatPretty, FormatJSON, FormatMsgpack:
		return ReportFormat(s), nil
	}
	return "", fmt.Errorf("unknown format: %s", s)
}

// ReportOptions controls how WriteReport renders a CheckResult.
type ReportOptions struct {
	Format    ReportFormat
	Color     bool
	Quiet     bool // drop the trailing summary line in pretty output
	Timings   bool
	PathMode  diagfmt.PathMode
	ShowNotes bool
}

// FileReportJSON and CheckReportJSON are the machine shapes shared by the
// json and msgpack report formats.
type FileReportJSON struct {
	Path        string                   `json:"path" msgpack:"path"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics" msgpack:"diagnostics"`
	Errors      int                      `json:"errors" msgpack:"errors"`
	Warnings    int                      `json:"warnings" msgpack:"warnings"`
	Symbols     int                      `json:"symbols" msgpack:"symbols"`
	Methods     int                      `json:"methods" msgpack:"methods"`
	Timing      *observ.Report           `json:"timings,omitempty" msgpack:"timings,omitempty"`
}

type CheckReportJSON struct {
	Files    []FileReportJSON `json:"files" msgpack:"files"`
	Errors   int              `json:"errors" msgpack:"errors"`
	Warnings int              `json:"warnings" msgpack:"warnings"`
}

// BuildReport converts a CheckResult into the machine report shape.
func BuildReport(result *CheckResult, opts ReportOptions) CheckReportJSON {
	jsonOpts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         opts.PathMode,
		IncludeNotes:     opts.ShowNotes,
	}

	report := CheckReportJSON{Files: make([]FileReportJSON, 0, len(result.Files))}
	for _, file := range result.Files {
		entry := FileReportJSON{
			Path:        reportPath(result, file),
			Diagnostics: []diagfmt.DiagnosticJSON{},
			Symbols:     file.Symbols,
			Methods:     file.Methods,
		}
		if opts.Timings {
			entry.Timing = file.Timing
		}
		if file.Bag != nil {
			for _, d := range file.Bag.Items() {
				entry.Diagnostics = append(entry.Diagnostics, diagfmt.BuildDiagnostic(d, result.FileSet, jsonOpts))
				switch d.Severity {
				case diag.SevError:
					entry.Errors++
				case diag.SevWarning:
					entry.Warnings++
				}
			}
		}
		report.Errors += entry.Errors
		report.Warnings += entry.Warnings
		report.Files = append(report.Files, entry)
	}
	return report
}

// WriteReport renders a CheckResult in the requested format. Pretty output
// is for terminals; json and msgpack carry the same report shape for tools.
func WriteReport(w io.Writer, result *CheckResult, opts ReportOptions) error {
	switch opts.Format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(BuildReport(result, opts))
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(BuildReport(result, opts))
	default:
		return writePretty(w, result, opts)
	}
}

func writePretty(w io.Writer, result *CheckResult, opts ReportOptions) error {
	prettyOpts := diagfmt.PrettyOpts{
		Color:     opts.Color,
		Context:   2,
		PathMode:  opts.PathMode,
		ShowNotes: opts.ShowNotes,
	}
	for _, file := range result.Files {
		if file.Bag == nil || file.Bag.Len() == 0 {
			continue
		}
		diagfmt.Pretty(w, file.Bag, result.FileSet, prettyOpts)
	}

	if opts.Timings {
		for _, file := range result.Files {
			if file.Timing == nil {
				continue
			}
			writeFileTimings(w, reportPath(result, file), file.Timing)
		}
	}

	if opts.Quiet {
		return nil
	}
	errs, warns := result.Totals()
	line := fmt.Sprintf("%d files checked: %d errors, %d warnings", len(result.Files), errs, warns)
	if opts.Color {
		line = summaryColor(errs, warns).Sprint(line)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

func summaryColor(errs, warns int) *color.Color {
	switch {
	case errs > 0:
		return color.New(color.FgRed, color.Bold)
	case warns > 0:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

// writeFileTimings renders one file's phase timings in the same layout as
// the timer summary, prefixed with the file path.
func writeFileTimings(w io.Writer, path string, timing *observ.Report) {
	fmt.Fprintf(w, "timings %s\n", path)
	for _, phase := range timing.Phases {
		fmt.Fprintf(w, "  %-12s %7.2f ms", phase.Name, phase.DurationMS)
		if phase.Note != "" {
			fmt.Fprintf(w, "  // %s", phase.Note)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "  %-12s %7.2f ms\n", "total", timing.TotalMS)
}

func reportPath(result *CheckResult, file FileReport) string {
	f := result.FileSet.Get(file.FileID)
	return f.FormatPath("auto", result.FileSet.BaseDir())
}
