package collector

import (
	"context"

	"emperror.dev/errors"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/ftahirops/xmon/model"
)

// PsutilCPUCollector computes global CPU utilisation from gopsutil times.
// It keeps its own previous sample instead of relying on cpu.Percent's
// package-level state.
type PsutilCPUCollector struct {
	prevBusy, prevTotal float64
	primed              bool
}

func (c *PsutilCPUCollector) Name() string { return "cpu" }

func (c *PsutilCPUCollector) Collect(ctx context.Context, snap *model.Snapshot) error {
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return errors.WrapIf(err, "cpu times")
	}
	if len(times) == 0 {
		return errors.New("cpu times: empty result")
	}
	snap.CPUPercent = c.observe(times[0])
	return nil
}

// observe records t and returns the busy percent since the previous call.
// The first call, and a call where total time did not advance, yield 0.
func (c *PsutilCPUCollector) observe(t cpu.TimesStat) float64 {
	total := t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
	busy := total - t.Idle - t.Iowait

	pct := 0.0
	if c.primed && total > c.prevTotal {
		pct = (busy - c.prevBusy) / (total - c.prevTotal) * 100
		if pct < 0 {
			pct = 0
		}
	}
	c.prevBusy, c.prevTotal = busy, total
	c.primed = true
	return pct
}

// PsutilMemoryCollector reads used and total memory through gopsutil.
type PsutilMemoryCollector struct{}

func (m *PsutilMemoryCollector) Name() string { return "memory" }

func (m *PsutilMemoryCollector) Collect(ctx context.Context, snap *model.Snapshot) error {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return errors.WrapIf(err, "virtual memory")
	}
	snap.MemoryUsed = vm.Used
	snap.MemoryTotal = vm.Total
	return nil
}

// psHandle is a gopsutil process kept across ticks. Percent(0) measures
// against the previous call on the same handle.
type psHandle struct {
	proc    *process.Process
	created int64
}

// PsutilProcessCollector enumerates processes through gopsutil.
type PsutilProcessCollector struct {
	handles map[int32]psHandle
	open    func(ctx context.Context, pid int32) (psHandle, error)
}

// NewPsutilProcessCollector creates a collector with an empty handle table.
func NewPsutilProcessCollector() *PsutilProcessCollector {
	return &PsutilProcessCollector{
		handles: make(map[int32]psHandle),
		open:    openPsutilProcess,
	}
}

func openPsutilProcess(ctx context.Context, pid int32) (psHandle, error) {
	proc, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return psHandle{}, err
	}
	created, err := proc.CreateTimeWithContext(ctx)
	if err != nil {
		return psHandle{}, err
	}
	return psHandle{proc: proc, created: created}, nil
}

func (p *PsutilProcessCollector) Name() string { return "process" }

func (p *PsutilProcessCollector) Collect(ctx context.Context, snap *model.Snapshot) error {
	pids, err := process.PidsWithContext(ctx)
	if err != nil {
		return errors.WrapIf(err, "list pids")
	}

	next := make(map[int32]psHandle, len(pids))
	procs := make([]model.ProcessRecord, 0, len(pids))
	for _, pid := range pids {
		if err := ctx.Err(); err != nil {
			return err
		}
		h, ok := p.handle(ctx, pid)
		if !ok {
			continue // process may have exited
		}
		rec, ok := readPsutilProcess(ctx, h.proc)
		if !ok {
			continue
		}
		next[pid] = h
		procs = append(procs, rec)
	}

	p.handles = next
	snap.Processes = procs
	return nil
}

// handle returns the cached handle for pid unless the pid now belongs to a
// different process, detected by a changed create time.
func (p *PsutilProcessCollector) handle(ctx context.Context, pid int32) (psHandle, bool) {
	fresh, err := p.open(ctx, pid)
	if err != nil {
		return psHandle{}, false
	}
	if h, ok := p.handles[pid]; ok && h.created == fresh.created {
		return h, true
	}
	return fresh, true
}

func readPsutilProcess(ctx context.Context, proc *process.Process) (model.ProcessRecord, bool) {
	name, err := proc.NameWithContext(ctx)
	if err != nil {
		return model.ProcessRecord{}, false
	}
	pct, err := proc.PercentWithContext(ctx, 0)
	if err != nil {
		return model.ProcessRecord{}, false
	}
	mi, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return model.ProcessRecord{}, false
	}
	return model.ProcessRecord{
		PID:         proc.Pid,
		Name:        name,
		CPUPercent:  pct,
		MemoryBytes: mi.RSS,
	}, true
}

// psutilCoreCount returns the number of logical CPUs, or 0 when unknown.
func psutilCoreCount(ctx context.Context) int {
	n, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return 0
	}
	return n
}
