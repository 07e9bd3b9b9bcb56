package collector

import (
	"context"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"emperror.dev/errors"

	"github.com/ftahirops/xmon/model"
	"github.com/ftahirops/xmon/util"
)

// procSample is what the previous tick saw of one pid.
type procSample struct {
	ticks     uint64 // utime + stime
	startTime string // field 22 of stat, changes when the pid is reused
}

// ProcessCollector reads per-PID stats from /proc.
type ProcessCollector struct {
	fsys      fs.FS
	cpus      int
	prevTotal uint64
	prev      map[int32]procSample
}

// NewProcessCollector reads from fsys, which is rooted at /proc. cpus scales
// the per-process share so that n saturated cores read as n*100.
func NewProcessCollector(fsys fs.FS, cpus int) *ProcessCollector {
	if cpus <= 0 {
		cpus = 1
	}
	return &ProcessCollector{
		fsys: fsys,
		cpus: cpus,
		prev: make(map[int32]procSample),
	}
}

func (p *ProcessCollector) Name() string { return "process" }

func (p *ProcessCollector) Collect(ctx context.Context, snap *model.Snapshot) error {
	total, _, err := readCPUStat(p.fsys)
	if err != nil {
		return err
	}
	entries, err := fs.ReadDir(p.fsys, ".")
	if err != nil {
		return errors.WrapIf(err, "read /proc")
	}

	var totalDelta uint64
	if p.prevTotal > 0 {
		totalDelta = util.Delta(p.prevTotal, total.Total)
	}

	next := make(map[int32]procSample, len(p.prev))
	procs := make([]model.ProcessRecord, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !e.IsDir() {
			continue
		}
		pid64, err := strconv.ParseInt(e.Name(), 10, 32)
		if err != nil || pid64 <= 0 {
			continue
		}
		pid := int32(pid64)

		rec, sample, err := p.readProcess(pid)
		if err != nil {
			continue // process may have exited
		}
		if prev, ok := p.prev[pid]; ok && prev.startTime == sample.startTime {
			rec.CPUPercent = util.ShareOfTotal(prev.ticks, sample.ticks, totalDelta, p.cpus)
		}
		next[pid] = sample
		procs = append(procs, rec)
	}

	p.prev = next
	p.prevTotal = total.Total
	snap.Processes = procs
	return nil
}

func (p *ProcessCollector) readProcess(pid int32) (model.ProcessRecord, procSample, error) {
	rec := model.ProcessRecord{PID: pid}
	dir := strconv.Itoa(int(pid))

	content, err := util.ReadFileString(p.fsys, path.Join(dir, "stat"))
	if err != nil {
		return rec, procSample{}, err
	}
	name, sample, err := parseProcStat(content)
	if err != nil {
		return rec, procSample{}, err
	}
	rec.Name = name

	// status may vanish after stat was read; the record is still usable.
	if kv, err := util.ParseKeyValueFile(p.fsys, path.Join(dir, "status")); err == nil {
		rec.MemoryBytes = util.ParseKB(kv["VmRSS"])
	}
	return rec, sample, nil
}

// parseProcStat parses "pid (comm) state ppid ...". comm can contain spaces
// and parens, so the last ')' splits it from the numeric fields.
func parseProcStat(content string) (string, procSample, error) {
	openIdx := strings.Index(content, "(")
	closeIdx := strings.LastIndex(content, ")")
	if openIdx < 0 || closeIdx < openIdx || closeIdx+2 > len(content) {
		return "", procSample{}, errors.New("bad stat format")
	}
	rest := strings.Fields(content[closeIdx+1:])
	if len(rest) < 20 {
		return "", procSample{}, errors.New("stat too short")
	}
	return content[openIdx+1 : closeIdx], procSample{
		ticks:     util.ParseUint64(rest[11]) + util.ParseUint64(rest[12]),
		startTime: rest[19],
	}, nil
}
