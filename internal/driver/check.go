// Package driver runs the batch analysis pipeline over Candid files on
// disk. The LSP server keeps its own per-document pipeline; this package
// serves the command line, where whole files or trees are checked in one
// shot and the results are rendered as a report.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"didls/internal/candid"
	"didls/internal/diag"
	"didls/internal/observ"
	"didls/internal/parser"
	"didls/internal/sema"
	"didls/internal/source"
)

// CheckRequest configures one Check run.
type CheckRequest struct {
	// Paths are files or directories. Directories are walked recursively
	// for *.did files; explicit file paths are taken as given. An empty
	// list means the current directory.
	Paths []string
	// MaxDiagnostics caps the bag of each file. Non-positive means the
	// default cap.
	MaxDiagnostics int
	// Jobs bounds the worker pool. Non-positive means GOMAXPROCS.
	Jobs int
	// Timings records per-file phase durations into FileReport.Timing.
	Timings bool
	// Events, when set, receives progress events from the workers.
	Events EventSink
}

// FileReport is the outcome for one checked file.
type FileReport struct {
	Path    string
	FileID  source.FileID
	Bag     *diag.Bag
	Symbols int
	Methods int
	Timing  *observ.Report
}

// HasErrors reports whether the file produced at least one error.
func (r FileReport) HasErrors() bool {
	return r.Bag != nil && r.Bag.HasErrors()
}

// CheckResult holds the reports of a run in sorted file order, plus the
// FileSet the diagnostics' spans resolve against.
type CheckResult struct {
	FileSet *source.FileSet
	Files   []FileReport
}

// Totals counts errors and warnings across all files.
func (r *CheckResult) Totals() (errs, warns int) {
	for _, file := range r.Files {
		if file.Bag == nil {
			continue
		}
		for _, d := range file.Bag.Items() {
			switch d.Severity {
			case diag.SevError:
				errs++
			case diag.SevWarning:
				warns++
			}
		}
	}
	return errs, warns
}

// HasErrors reports whether any file produced an error.
func (r *CheckResult) HasErrors() bool {
	for _, file := range r.Files {
		if file.HasErrors() {
			return true
		}
	}
	return false
}

// collectFiles expands the request paths into a sorted, deduplicated file
// list. Directories are walked for *.did; explicit files are kept whatever
// their extension, so `didls check foo.txt` still works.
func collectFiles(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		walkErr := filepath.WalkDir(path, func(sub string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() && strings.HasSuffix(sub, ".did") {
				add(sub)
			}
			return nil
		})
		if walkErr != nil {
			return nil, walkErr
		}
	}
	sort.Strings(files)
	return files, nil
}

// ListFiles expands request paths into the sorted file list Check would
// process, without running anything. The command line uses it to size the
// progress view up front.
func ListFiles(paths []string) ([]string, error) {
	return collectFiles(paths)
}

// Check loads and analyzes every requested file. Files are parsed and
// analyzed in parallel; the returned reports are in sorted path order
// regardless of completion order. A file that fails to load still gets a
// report, carrying a single I/O diagnostic.
func Check(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	files, err := collectFiles(req.Paths)
	if err != nil {
		return nil, err
	}

	fileSet := source.NewFileSet()
	result := &CheckResult{FileSet: fileSet}
	if len(files) == 0 {
		return result, nil
	}

	maxDiagnostics := req.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = candid.DefaultMaxDiagnostics
	}

	// The FileSet is not synchronized, so all loads happen up front and
	// the workers only read from it. Files that fail to load are still
	// registered with empty text: their diagnostics then carry a real
	// file ID and render under the right path.
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		emit(req.Events, path, StageParse, StatusQueued)
		id, loadErr := fileSet.Load(path)
		if loadErr != nil {
			loadErrors[path] = loadErr
			id = fileSet.Add(path, "", 0)
		}
		fileIDs[path] = id
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// One slot per file; each worker writes only its own index.
	reports := make([]FileReport, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			reports[i] = checkFile(req, fileSet, path, fileIDs[path], loadErrors[path], maxDiagnostics)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Files = reports
	return result, nil
}

func checkFile(req CheckRequest, fileSet *source.FileSet, path string, id source.FileID, loadErr error, maxDiagnostics int) FileReport {
	bag := diag.NewBag(maxDiagnostics)
	report := FileReport{Path: path, FileID: id, Bag: bag}

	if loadErr != nil {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.IOLoadFileError,
			Primary:  source.Span{File: id},
			Message:  "failed to load file: " + loadErr.Error(),
		})
		emit(req.Events, path, StageParse, StatusError)
		return report
	}

	var timer *observ.Timer
	if req.Timings {
		timer = observ.NewTimer()
	}
	begin := func(name string) int {
		if timer == nil {
			return -1
		}
		return timer.Begin(name)
	}
	end := func(idx int, note string) {
		if timer == nil || idx < 0 {
			return
		}
		timer.End(idx, note)
	}

	file := fileSet.Get(id)

	emit(req.Events, path, StageParse, StatusWorking)
	parseIdx := begin("parse")
	parsed := parser.Parse(file, parser.Options{
		Reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
	})
	parseNote := ""
	if timer != nil && parsed.Prog != nil {
		parseNote = fmt.Sprintf("decls=%d", len(parsed.Prog.Decs))
	}
	end(parseIdx, parseNote)

	emit(req.Events, path, StageAnalyze, StatusWorking)
	if parsed.Prog != nil {
		analyzeIdx := begin("analyze")
		analyzeNote := ""
		sem, err := sema.Analyze(parsed.Prog, file)
		if err != nil {
			bag.Add(semaDiagnostic(id, err))
		} else if sem != nil && sem.Table != nil {
			report.Symbols = sem.Table.NumSymbols()
			report.Methods = len(sem.Methods) - 1
			if timer != nil {
				analyzeNote = fmt.Sprintf("symbols=%d", report.Symbols)
			}
		}
		end(analyzeIdx, analyzeNote)
	}

	bag.Sort()
	if timer != nil {
		timing := timer.Report()
		report.Timing = &timing
	}

	status := StatusDone
	if bag.HasErrors() {
		status = StatusError
	}
	emit(req.Events, path, StageAnalyze, status)
	return report
}

// semaDiagnostic converts the semantic pass error into a diagnostic. The
// undefined-variable error is the only kind the pass produces; anything
// else lands on the start of the file.
func semaDiagnostic(id source.FileID, err error) diag.Diagnostic {
	span := source.Span{File: id}
	var undef *sema.UndefinedVariableError
	if errors.As(err, &undef) {
		span = undef.Span
	}
	return diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SemaUndefinedVariable,
		Primary:  span,
		Message:  err.Error(),
	}
}
