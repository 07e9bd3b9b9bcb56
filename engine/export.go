package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"emperror.dev/errors"

	"github.com/ftahirops/xmon/model"
)

// ExportHeader is the first line of every export file.
const ExportHeader = "Process,CPU %,Memory (MB)"

// DefaultExportPath is used when no export path is configured.
const DefaultExportPath = "processes.csv"

// nameReplacer keeps a process name inside its own field and record.
var nameReplacer = strings.NewReplacer(",", ".", "\n", " ", "\r", " ")

// SanitizeName makes a process name safe for the comma-delimited export.
func SanitizeName(name string) string {
	return nameReplacer.Replace(name)
}

// Exporter writes ranked snapshots to a fixed path, replacing the file's
// previous content on every call.
type Exporter struct {
	path string
}

// NewExporter creates an exporter targeting path.
func NewExporter(path string) *Exporter {
	if path == "" {
		path = DefaultExportPath
	}
	return &Exporter{path: path}
}

// Path returns the export target.
func (e *Exporter) Path() string { return e.path }

// Export writes ranked to the target path. The content goes to a temporary
// file in the same directory first, so a failed write leaves any previous
// export intact.
func (e *Exporter) Export(ranked *model.RankedSnapshot) error {
	dir := filepath.Dir(e.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(e.path)+".*")
	if err != nil {
		return errors.WrapIff(err, "export to %s", e.path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := WriteExport(tmp, ranked); err != nil {
		tmp.Close()
		return errors.WrapIff(err, "export to %s", e.path)
	}
	if err := tmp.Chmod(exportMode(e.path)); err != nil {
		tmp.Close()
		return errors.WrapIff(err, "export to %s", e.path)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIff(err, "export to %s", e.path)
	}
	if err := os.Rename(tmpName, e.path); err != nil {
		return errors.WrapIff(err, "export to %s", e.path)
	}
	return nil
}

// exportMode keeps the permissions of an existing target; a new file gets 0644.
func exportMode(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		return info.Mode().Perm()
	}
	return 0644
}

// WriteExport serializes ranked as a header plus one record per process.
// A nil snapshot produces the header alone.
func WriteExport(w io.Writer, ranked *model.RankedSnapshot) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, ExportHeader); err != nil {
		return err
	}
	if ranked != nil {
		for _, p := range ranked.Ranked {
			if _, err := fmt.Fprintf(bw, "%s,%.2f,%.2f\n", SanitizeName(p.Name), p.NormalizedCPU, p.MemoryMB()); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
