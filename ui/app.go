package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/ftahirops/xmon/engine"
	"github.com/ftahirops/xmon/model"
)

// Screen identifies the current view.
type Screen int

const (
	ScreenProcesses Screen = iota
	ScreenGraphs
)

// DefaultTopN is how many processes the table shows.
const DefaultTopN = 30

// statusTTL is how long a status line message stays visible.
const statusTTL = 10 * time.Second

// snapshotMsg carries one snapshot from the sampler worker. ok is false once
// the worker has stopped.
type snapshotMsg struct {
	snap *model.Snapshot
	ok   bool
}

// Options configure the model.
type Options struct {
	TopN     int
	Theme    Theme
	Interval time.Duration
}

// Model is the bubbletea model. Every Controller call happens inside Update,
// which bubbletea runs on a single goroutine.
type Model struct {
	ctrl  *engine.Controller
	snaps <-chan *model.Snapshot
	opts  Options

	width  int
	height int

	screen   Screen
	selected int
	showHelp bool
	paused   bool
	stopped  bool

	theme  Theme
	styles styles

	status    string
	statusErr bool
	statusAt  time.Time
}

// NewModel creates a model that applies snapshots from snaps to ctrl.
func NewModel(ctrl *engine.Controller, snaps <-chan *model.Snapshot, opts Options) Model {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.Interval <= 0 {
		opts.Interval = engine.DefaultInterval
	}
	return Model{
		ctrl:   ctrl,
		snaps:  snaps,
		opts:   opts,
		theme:  opts.Theme,
		styles: newStyles(opts.Theme),
	}
}

func (m Model) Init() tea.Cmd {
	return waitForSnapshot(m.snaps)
}

func waitForSnapshot(ch <-chan *model.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		return snapshotMsg{snap: snap, ok: ok}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case snapshotMsg:
		if !msg.ok {
			m.stopped = true
			m.setStatus("sampler stopped", true)
			return m, nil
		}
		// While paused the worker keeps sampling; those snapshots are dropped.
		if !m.paused {
			m.ctrl.Dispatch(engine.SnapshotReady{Snapshot: msg.snap})
			m.clampSelection()
		}
		return m, waitForSnapshot(m.snaps)

	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "?":
			m.showHelp = true
		case "g":
			m.screen = ScreenGraphs
		case "b", "esc":
			m.screen = ScreenProcesses
		case "j", "down":
			m.selected++
			m.clampSelection()
		case "k", "up":
			if m.selected > 0 {
				m.selected--
			}
		case "home":
			m.selected = 0
		case "p", "a":
			m.paused = !m.paused
		case "t":
			m.theme = m.theme.Next()
			m.styles = newStyles(m.theme)
			m.setStatus("theme: "+m.theme.String(), false)
		case "e":
			m.export()
		case "x", "delete":
			m.terminateSelected()
		}
	}
	return m, nil
}

func (m *Model) export() {
	res := m.ctrl.Dispatch(engine.ExportRequested{})
	if res.Err != nil {
		m.setStatus("export failed: "+res.Err.Error(), true)
		return
	}
	m.setStatus("exported to "+res.ExportPath, false)
}

func (m *Model) terminateSelected() {
	proc, ok := m.selectedProcess()
	if !ok {
		m.setStatus("no process selected", true)
		return
	}
	res := m.ctrl.Dispatch(engine.TerminateRequested{PID: proc.PID})
	switch res.Outcome {
	case engine.OutcomeSignaled:
		m.setStatus(fmt.Sprintf("sent SIGTERM to %s (%d)", proc.Name, proc.PID), false)
	case engine.OutcomeNotFound:
		m.setStatus(fmt.Sprintf("%s (%d) already exited", proc.Name, proc.PID), false)
	case engine.OutcomeDenied:
		m.setStatus(fmt.Sprintf("not permitted to stop %s (%d)", proc.Name, proc.PID), true)
	default:
		m.setStatus(fmt.Sprintf("cannot stop pid %d", proc.PID), true)
	}
}

// selectedProcess returns the highlighted row of the last published snapshot.
func (m Model) selectedProcess() (model.RankedProcess, bool) {
	rows := m.ctrl.Current().Top(m.opts.TopN)
	if m.selected < 0 || m.selected >= len(rows) {
		return model.RankedProcess{}, false
	}
	return rows[m.selected], true
}

func (m *Model) clampSelection() {
	n := len(m.ctrl.Current().Top(m.opts.TopN))
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
	m.statusAt = time.Now()
	if isErr {
		log.WithField("status", msg).Debug("status line error")
	}
}

func (m Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}
	if m.width == 0 {
		return "Loading..."
	}
	cur := m.ctrl.Current()
	if cur == nil {
		return "Collecting first sample..."
	}

	var content string
	switch m.screen {
	case ScreenGraphs:
		content = m.renderGraphs(cur)
	default:
		content = m.renderProcesses(cur)
	}

	lines := strings.Split(m.renderHeader(cur)+"\n"+content, "\n")
	maxLines := m.height - 1
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return strings.Join(lines, "\n") + "\n" + m.renderStatusBar()
}

func (m Model) renderHeader(cur *model.RankedSnapshot) string {
	s := m.styles
	snap := cur.Snapshot
	memPct := 0.0
	if snap.MemoryTotal > 0 {
		memPct = float64(snap.MemoryUsed) / float64(snap.MemoryTotal) * 100
	}

	var sb strings.Builder
	sb.WriteString(s.title.Render("xmon"))
	sb.WriteString("  ")
	sb.WriteString(s.label.Render("CPU "))
	sb.WriteString(s.pctColor(snap.CPUPercent).Render(fmt.Sprintf("%5.1f%%", snap.CPUPercent)))
	sb.WriteString(" ")
	sb.WriteString(s.bar(snap.CPUPercent, 10))
	sb.WriteString("  ")
	sb.WriteString(s.label.Render("Mem "))
	sb.WriteString(s.value.Render(fmtBytes(snap.MemoryUsed) + " / " + fmtBytes(snap.MemoryTotal)))
	sb.WriteString(" ")
	sb.WriteString(s.bar(memPct, 10))
	sb.WriteString("  ")
	sb.WriteString(s.label.Render(fmt.Sprintf("%d cores  %d procs", cur.CoreCount, len(cur.Ranked))))
	if m.paused {
		sb.WriteString("  ")
		sb.WriteString(s.warn.Render("PAUSED"))
	}
	if len(snap.Errors) > 0 {
		sb.WriteString("  ")
		sb.WriteString(s.warn.Render(fmt.Sprintf("%d collector errors", len(snap.Errors))))
	}
	return sb.String()
}

func (m Model) renderProcesses(cur *model.RankedSnapshot) string {
	s := m.styles
	nameW := m.width - 8 - 9 - 9 - 11 - 4
	if nameW < 10 {
		nameW = 10
	}

	var sb strings.Builder
	sb.WriteString(s.header.Render(
		padLeft("PID", 8) + " " + padRight("NAME", nameW) + " " +
			padLeft("CPU%", 8) + " " + padLeft("NORM%", 8) + " " + padLeft("MEM", 10)))
	sb.WriteString("\n")

	for i, p := range cur.Top(m.opts.TopN) {
		row := padLeft(fmt.Sprintf("%d", p.PID), 8) + " " +
			padRight(truncate(p.Name, nameW), nameW) + " " +
			padLeft(fmt.Sprintf("%.1f", p.CPUPercent), 8) + " " +
			padLeft(fmt.Sprintf("%.1f", p.NormalizedCPU), 8) + " " +
			padLeft(fmtBytes(p.MemoryBytes), 10)
		if i == m.selected {
			sb.WriteString(s.selected.Render(padRight(row, m.width)))
		} else {
			sb.WriteString(s.value.Render(row))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) renderGraphs(cur *model.RankedSnapshot) string {
	chartH := (m.height - 10) / 2
	if chartH < 3 {
		chartH = 3
	}
	cpu := m.styles.areaChart(m.ctrl.CPUHistory(), "CPU %", m.width, chartH, 100, m.opts.Interval)
	mem := m.styles.areaChart(percentOf(m.ctrl.MemoryHistory(), cur.Snapshot.MemoryTotal),
		"Memory %", m.width, chartH, 100, m.opts.Interval)
	return cpu + "\n\n" + mem
}

func (m Model) renderStatusBar() string {
	s := m.styles
	if m.status != "" && time.Since(m.statusAt) < statusTTL {
		if m.statusErr {
			return s.crit.Render(m.status)
		}
		return s.ok.Render(m.status)
	}
	screen := "processes"
	if m.screen == ScreenGraphs {
		screen = "graphs"
	}
	return s.help.Render(fmt.Sprintf("[%s] g graphs  b back  j/k select  x terminate  e export  t theme  p pause  ? help  q quit", screen))
}

func (m Model) renderHelp() string {
	s := m.styles
	var sb strings.Builder
	sb.WriteString(s.title.Render("xmon - process and resource monitor"))
	sb.WriteString("\n\n")
	sb.WriteString(s.header.Render("Screens"))
	sb.WriteString("\n")
	sb.WriteString("  g         CPU and memory history graphs\n")
	sb.WriteString("  b / Esc   Back to the process table\n")
	sb.WriteString("\n")
	sb.WriteString(s.header.Render("Controls"))
	sb.WriteString("\n")
	sb.WriteString("  j/k       Move selection down/up\n")
	sb.WriteString("  x / Del   Send SIGTERM to the selected process\n")
	sb.WriteString(fmt.Sprintf("  e         Export the ranked list to %s\n", m.ctrl.ExportPath()))
	sb.WriteString("  t         Cycle theme (dark, light, dracula)\n")
	sb.WriteString("  p / a     Pause or resume updates\n")
	sb.WriteString("  ?         Toggle this help\n")
	sb.WriteString("  q/Ctrl+C  Quit\n")
	sb.WriteString("\n")
	sb.WriteString(s.help.Render("Press any key to close"))
	return sb.String()
}
