package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftahirops/xmon/engine"
	"github.com/ftahirops/xmon/model"
)

type staticSource struct{ cores int }

func (s staticSource) Refresh(context.Context) (*model.Snapshot, error) { return nil, nil }
func (s staticSource) CoreCount() int                                     { return s.cores }

func testSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Timestamp:   time.Now(),
		CPUPercent:  40,
		MemoryUsed:  512 << 20,
		MemoryTotal: 2048 << 20,
		Processes: []model.ProcessRecord{
			{PID: 10, Name: "idle", CPUPercent: 1, MemoryBytes: 1 << 20},
			{PID: 1 << 30, Name: "busy", CPUPercent: 150, MemoryBytes: 64 << 20},
			{PID: 30, Name: "mid", CPUPercent: 20, MemoryBytes: 8 << 20},
		},
	}
}

func newTestModel(t *testing.T) (Model, chan *model.Snapshot, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.csv")
	ctrl := engine.NewController(staticSource{cores: 2}, engine.WithExporter(engine.NewExporter(path)))
	ch := make(chan *model.Snapshot, 1)
	m := NewModel(ctrl, ch, Options{TopN: 2})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, ch, path
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSnapshotMessageDispatchesToController(t *testing.T) {
	m, _, _ := newTestModel(t)
	next, cmd := m.Update(snapshotMsg{snap: testSnapshot(), ok: true})
	m = next.(Model)

	require.NotNil(t, cmd, "model keeps listening for snapshots")
	cur := m.ctrl.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "busy", cur.Ranked[0].Name)
	assert.InDelta(t, 75, cur.Ranked[0].NormalizedCPU, 1e-9)
	hist := m.ctrl.CPUHistory()
	assert.Equal(t, 40.0, hist[len(hist)-1])
}

func TestPausedModelDropsSnapshots(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = update(t, m, key("p"))
	m = update(t, m, snapshotMsg{snap: testSnapshot(), ok: true})
	assert.Nil(t, m.ctrl.Current())

	m = update(t, m, key("p"))
	m = update(t, m, snapshotMsg{snap: testSnapshot(), ok: true})
	assert.NotNil(t, m.ctrl.Current())
}

func TestClosedChannelStopsListening(t *testing.T) {
	m, _, _ := newTestModel(t)
	next, cmd := m.Update(snapshotMsg{ok: false})
	assert.Nil(t, cmd)
	assert.True(t, next.(Model).stopped)
}

func TestWaitForSnapshotReadsChannel(t *testing.T) {
	ch := make(chan *model.Snapshot, 1)
	snap := testSnapshot()
	ch <- snap
	msg := waitForSnapshot(ch)().(snapshotMsg)
	assert.True(t, msg.ok)
	assert.Same(t, snap, msg.snap)

	close(ch)
	msg = waitForSnapshot(ch)().(snapshotMsg)
	assert.False(t, msg.ok)
}

func TestSelectionStaysWithinTopN(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = update(t, m, snapshotMsg{snap: testSnapshot(), ok: true})
	for i := 0; i < 5; i++ {
		m = update(t, m, key("j"))
	}
	assert.Equal(t, 1, m.selected, "TopN is 2")
	m = update(t, m, key("k"))
	m = update(t, m, key("k"))
	assert.Equal(t, 0, m.selected)
}

func TestExportKeyWritesFile(t *testing.T) {
	m, _, path := newTestModel(t)
	m = update(t, m, snapshotMsg{snap: testSnapshot(), ok: true})
	m = update(t, m, key("e"))

	assert.False(t, m.statusErr)
	assert.Contains(t, m.status, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4, "export is not truncated to TopN")
	assert.Equal(t, engine.ExportHeader, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "busy,"))
}

func TestTerminateWithoutSnapshot(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = update(t, m, key("x"))
	assert.True(t, m.statusErr)
	assert.Equal(t, "no process selected", m.status)
}

func TestTerminateSelectedLeavesStateUnchanged(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = update(t, m, snapshotMsg{snap: testSnapshot(), ok: true})
	before := m.ctrl.Current()
	hist := m.ctrl.CPUHistory()

	// The top row is pid 1<<30, which does not exist.
	m = update(t, m, key("x"))
	assert.Contains(t, m.status, "1073741824")
	assert.Same(t, before, m.ctrl.Current())
	assert.Equal(t, hist, m.ctrl.CPUHistory())
}

func TestThemeKeyCycles(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = update(t, m, key("t"))
	assert.Equal(t, ThemeLight, m.theme)
	m = update(t, m, key("t"))
	m = update(t, m, key("t"))
	assert.Equal(t, ThemeDark, m.theme)
}

func TestViewScreens(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Equal(t, "Collecting first sample...", m.View())

	m = update(t, m, snapshotMsg{snap: testSnapshot(), ok: true})
	view := m.View()
	assert.Contains(t, view, "busy")
	assert.Contains(t, view, "mid")
	assert.NotContains(t, view, "idle", "only TopN rows are shown")

	m = update(t, m, key("g"))
	assert.Contains(t, m.View(), "CPU %")
	assert.Contains(t, m.View(), "Memory %")

	m = update(t, m, key("b"))
	assert.Equal(t, ScreenProcesses, m.screen)
}

func TestQuitKey(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
