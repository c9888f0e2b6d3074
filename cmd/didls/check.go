package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"didls/internal/diagfmt"
	"didls/internal/driver"
	"didls/internal/ui"
)

var (
	checkFormat   string
	checkJobs     int
	checkUI       string
	checkNotes    bool
	checkFullPath bool
)

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "pretty", "output format (pretty|json|msgpack)")
	checkCmd.Flags().IntVar(&checkJobs, "jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().StringVar(&checkUI, "ui", "auto", "interactive progress view (auto|on|off)")
	checkCmd.Flags().BoolVar(&checkNotes, "with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().BoolVar(&checkFullPath, "fullpath", false, "emit absolute file paths in output")
}

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Parse and analyze Candid files and report diagnostics",
	Long:  `Check parses and semantically analyzes the given Candid files, walking directories recursively for *.did, and prints every diagnostic found. Without arguments it checks the current directory.`,
	RunE:  runCheck,
}

// wantTUI resolves the --ui flag; "auto" means a terminal on stdout.
func wantTUI(value string) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return isTerminal(os.Stdout), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := driver.ParseReportFormat(checkFormat)
	if err != nil {
		return err
	}
	tui, err := wantTUI(checkUI)
	if err != nil {
		return err
	}

	root := cmd.Root().PersistentFlags()
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return err
	}
	timings, err := root.GetBool("timings")
	if err != nil {
		return err
	}
	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	colorOn, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}

	files, err := driver.ListFiles(args)
	if err != nil {
		return err
	}

	req := driver.CheckRequest{
		Paths:          files,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           checkJobs,
		Timings:        timings,
	}

	// The live view only makes sense for interactive multi-file runs with
	// human-readable output.
	var result *driver.CheckResult
	if format == driver.FormatPretty && len(files) > 1 && tui {
		result, err = runCheckWithUI(cmd, files, req)
	} else {
		result, err = driver.Check(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	pathMode := diagfmt.PathModeAuto
	if checkFullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	opts := driver.ReportOptions{
		Format:    format,
		Color:     colorOn,
		Quiet:     quiet,
		Timings:   timings,
		PathMode:  pathMode,
		ShowNotes: checkNotes,
	}
	if err := driver.WriteReport(os.Stdout, result, opts); err != nil {
		return err
	}

	if result.HasErrors() {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // silent: diagnostics already printed
	}
	return nil
}

// runCheckWithUI runs the check in the background while a Bubble Tea
// program renders its progress events. Closing the event channel after the
// check ends is what lets the program quit.
func runCheckWithUI(cmd *cobra.Command, files []string, req driver.CheckRequest) (*driver.CheckResult, error) {
	type outcome struct {
		result *driver.CheckResult
		err    error
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan outcome, 1)

	go func() {
		reqCopy := req
		reqCopy.Events = driver.ChannelSink{Ch: events}
		res, err := driver.Check(cmd.Context(), reqCopy)
		outcomeCh <- outcome{result: res, err: err}
		close(events)
	}()

	title := fmt.Sprintf("checking %d files", len(files))
	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	out := <-outcomeCh
	if uiErr != nil {
		return out.result, uiErr
	}
	return out.result, out.err
}
