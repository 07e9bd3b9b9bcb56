package collector

import (
	"context"
	"io/fs"

	"emperror.dev/errors"

	"github.com/ftahirops/xmon/model"
	"github.com/ftahirops/xmon/util"
)

// MemoryCollector reads /proc/meminfo.
type MemoryCollector struct {
	fsys fs.FS
}

// NewMemoryCollector reads meminfo from fsys, which is rooted at /proc.
func NewMemoryCollector(fsys fs.FS) *MemoryCollector {
	return &MemoryCollector{fsys: fsys}
}

func (m *MemoryCollector) Name() string { return "memory" }

func (m *MemoryCollector) Collect(_ context.Context, snap *model.Snapshot) error {
	kv, err := util.ParseKeyValueFile(m.fsys, "meminfo")
	if err != nil {
		return errors.WrapIf(err, "read /proc/meminfo")
	}

	total := util.ParseKB(kv["MemTotal"])
	avail, ok := kv["MemAvailable"]
	var available uint64
	if ok {
		available = util.ParseKB(avail)
	} else {
		// Kernels before 3.14 have no MemAvailable.
		available = util.ParseKB(kv["MemFree"]) + util.ParseKB(kv["Buffers"]) + util.ParseKB(kv["Cached"])
	}

	snap.MemoryTotal = total
	snap.MemoryUsed = util.Delta(available, total)
	return nil
}
