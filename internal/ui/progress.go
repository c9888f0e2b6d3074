// Package ui renders the interactive terminal view for long check runs.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"didls/internal/driver"
)

// progressModel drives the live file-by-file view of a check run. Events
// arrive on a channel owned by the caller; closing the channel ends the
// program.
type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	files   []fileState
	index   map[string]int
	stage   string
	width   int
	done    bool
}

type fileState struct {
	path   string
	stage  driver.Stage
	status driver.Status
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model showing per-file check
// progress. The files slice fixes the display order; events for paths not
// in it are ignored.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	states := make([]fileState, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		states = append(states, fileState{path: file, status: driver.StatusQueued})
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		files:   states,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.nextEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.apply(driver.Event(msg))
		return m, tea.Batch(cmd, m.nextEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		updated, cmd := m.bar.Update(msg)
		m.bar = updated.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.files) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.stage != "" {
		header = fmt.Sprintf("%s (%s)", header, m.stage)
	}
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := max(m.width-statusWidth-4, 20)

	for _, file := range m.files {
		label := file.label()
		styled := statusStyle(file.status).Render(fmt.Sprintf("%12s", label))
		b.WriteString(fmt.Sprintf("  %s %s\n", styled, truncate(file.path, nameWidth)))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")

	return b.String()
}

// nextEvent waits for one driver event. A closed channel means the run is
// over.
func (m *progressModel) nextEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	idx, ok := m.index[ev.Path]
	if !ok {
		return nil
	}
	m.files[idx].stage = ev.Stage
	m.files[idx].status = ev.Status
	if ev.Status == driver.StatusWorking {
		m.stage = workingLabel(ev.Stage)
	}
	return m.bar.SetPercent(m.completion())
}

// completion averages per-file fractions: a finished file counts as one,
// a file mid-stage counts as that stage's share of the pipeline.
func (m *progressModel) completion() float64 {
	if len(m.files) == 0 {
		return 1
	}
	total := 0.0
	for _, file := range m.files {
		total += file.fraction()
	}
	return total / float64(len(m.files))
}

func (f fileState) fraction() float64 {
	switch f.status {
	case driver.StatusDone, driver.StatusError:
		return 1
	case driver.StatusWorking:
		if f.stage == driver.StageAnalyze {
			return 0.9
		}
		return 0.5
	default:
		return 0
	}
}

func (f fileState) label() string {
	switch f.status {
	case driver.StatusWorking:
		return workingLabel(f.stage)
	case driver.StatusDone:
		return "done"
	case driver.StatusError:
		return "error"
	default:
		return "queued"
	}
}

func workingLabel(stage driver.Stage) string {
	if stage == driver.StageAnalyze {
		return "analyzing"
	}
	return "parsing"
}

func statusStyle(status driver.Status) lipgloss.Style {
	switch status {
	case driver.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case driver.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case driver.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
