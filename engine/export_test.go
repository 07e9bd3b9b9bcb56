package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftahirops/xmon/model"
)

func rankedFixture() *model.RankedSnapshot {
	snap := &model.Snapshot{Processes: []model.ProcessRecord{
		{PID: 10, Name: "a,b", CPUPercent: 200, MemoryBytes: 12_345_678},
		{PID: 11, Name: "idle", CPUPercent: 0, MemoryBytes: 0},
	}}
	return &model.RankedSnapshot{Snapshot: snap, Ranked: Rank(snap.Processes, 4), CoreCount: 4}
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"a,b":         "a.b",
		"plain":       "plain",
		",,":          "..",
		"two\nlines":  "two lines",
		"crlf\r\nend": "crlf  end",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeName(in), "input %q", in)
	}
}

func TestWriteExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExport(&buf, rankedFixture()))

	want := "Process,CPU %,Memory (MB)\n" +
		"a.b,50.00,12.35\n" +
		"idle,0.00,0.00\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteExportNilSnapshotWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExport(&buf, nil))
	assert.Equal(t, ExportHeader+"\n", buf.String())
}

func TestExporterOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	exp := NewExporter(path)

	require.NoError(t, exp.Export(rankedFixture()))

	small := &model.RankedSnapshot{Ranked: []model.RankedProcess{
		{ProcessRecord: model.ProcessRecord{Name: "only"}, NormalizedCPU: 1},
	}}
	require.NoError(t, exp.Export(small))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Process,CPU %,Memory (MB)\nonly,1.00,0.00\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestExporterFileMode(t *testing.T) {
	for _, tc := range []struct {
		name     string
		existing os.FileMode
		want     os.FileMode
	}{
		{name: "new file", want: 0644},
		{name: "keeps private mode", existing: 0600, want: 0600},
		{name: "keeps group write", existing: 0664, want: 0664},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.csv")
			if tc.existing != 0 {
				require.NoError(t, os.WriteFile(path, []byte("old\n"), tc.existing))
				require.NoError(t, os.Chmod(path, tc.existing))
			}
			require.NoError(t, NewExporter(path).Export(rankedFixture()))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, info.Mode().Perm())
		})
	}
}

func TestExporterFailureIsReported(t *testing.T) {
	exp := NewExporter(filepath.Join(t.TempDir(), "missing", "out.csv"))
	err := exp.Export(rankedFixture())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "out.csv"))
}

func TestNewExporterDefaultPath(t *testing.T) {
	assert.Equal(t, DefaultExportPath, NewExporter("").Path())
}
