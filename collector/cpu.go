package collector

import (
	"context"
	"io/fs"
	"strings"

	"emperror.dev/errors"

	"github.com/ftahirops/xmon/model"
	"github.com/ftahirops/xmon/util"
)

// cpuTimes is the jiffies split of one /proc/stat cpu line.
type cpuTimes struct {
	Active uint64
	Total  uint64
}

// CPUCollector derives global CPU utilisation from /proc/stat deltas.
type CPUCollector struct {
	fsys   fs.FS
	prev   cpuTimes
	primed bool
}

// NewCPUCollector reads stat from fsys, which is rooted at /proc.
func NewCPUCollector(fsys fs.FS) *CPUCollector {
	return &CPUCollector{fsys: fsys}
}

func (c *CPUCollector) Name() string { return "cpu" }

func (c *CPUCollector) Collect(_ context.Context, snap *model.Snapshot) error {
	cur, _, err := readCPUStat(c.fsys)
	if err != nil {
		return err
	}
	if c.primed {
		snap.CPUPercent = util.CPUPct(c.prev.Active, cur.Active, c.prev.Total, cur.Total)
	}
	c.prev = cur
	c.primed = true
	return nil
}

// readCPUStat returns the aggregate cpu line and the number of per-CPU lines.
func readCPUStat(fsys fs.FS) (cpuTimes, int, error) {
	lines, err := util.ReadFileLines(fsys, "stat")
	if err != nil {
		return cpuTimes{}, 0, errors.WrapIf(err, "read /proc/stat")
	}

	var total cpuTimes
	found := false
	cpus := 0
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "cpu "):
			total = parseCPULine(line)
			found = true
		case strings.HasPrefix(line, "cpu"):
			cpus++
		}
	}
	if !found {
		return cpuTimes{}, 0, errors.New("no aggregate cpu line in /proc/stat")
	}
	return total, cpus, nil
}

// parseCPULine parses "cpu user nice system idle iowait irq softirq steal ...".
// guest and guest_nice are already accounted in user and nice.
func parseCPULine(line string) cpuTimes {
	fields := strings.Fields(line)
	var v [8]uint64
	for i := 0; i < len(v) && i+1 < len(fields); i++ {
		v[i] = util.ParseUint64(fields[i+1])
	}
	idle := v[3] + v[4]
	active := v[0] + v[1] + v[2] + v[5] + v[6] + v[7]
	return cpuTimes{Active: active, Total: active + idle}
}
