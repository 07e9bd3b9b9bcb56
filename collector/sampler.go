package collector

import (
	"context"
	"io/fs"
	"os"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ftahirops/xmon/model"
)

const procRoot = "/proc"

// Sampler produces a fresh Snapshot per call. It owns the backend state
// (previous counters, process handles) used to turn counters into percents.
type Sampler struct {
	backend  Backend
	registry *Registry
	cores    int
	now      func() time.Time
}

// NewSampler builds a sampler for the requested backend. BackendAuto picks
// the /proc reader when /proc/stat is readable and gopsutil otherwise.
func NewSampler(ctx context.Context, backend Backend) (*Sampler, error) {
	if backend == "" || backend == BackendAuto {
		backend = BackendPsutil
		if _, err := os.Stat(procRoot + "/stat"); err == nil {
			backend = BackendProc
		}
	}
	switch backend {
	case BackendProc:
		return NewProcSampler(os.DirFS(procRoot)), nil
	case BackendPsutil:
		return NewPsutilSampler(ctx), nil
	}
	_, err := ParseBackend(string(backend))
	return nil, err
}

// NewProcSampler reads everything from fsys, which must look like /proc.
func NewProcSampler(fsys fs.FS) *Sampler {
	cores := 0
	if _, n, err := readCPUStat(fsys); err == nil {
		cores = n
	}
	cores = resolveCores(cores)
	return newSampler(BackendProc, NewRegistry(
		NewCPUCollector(fsys),
		NewMemoryCollector(fsys),
		NewProcessCollector(fsys, cores),
	), cores)
}

// NewPsutilSampler queries the OS through gopsutil.
func NewPsutilSampler(ctx context.Context) *Sampler {
	return newSampler(BackendPsutil, NewRegistry(
		&PsutilCPUCollector{},
		&PsutilMemoryCollector{},
		NewPsutilProcessCollector(),
	), resolveCores(psutilCoreCount(ctx)))
}

func newSampler(backend Backend, reg *Registry, cores int) *Sampler {
	return &Sampler{
		backend:  backend,
		registry: reg,
		cores:    cores,
		now:      time.Now,
	}
}

// resolveCores falls back to the Go runtime's view when the OS gave nothing.
func resolveCores(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Backend reports which backend this sampler uses.
func (s *Sampler) Backend() Backend { return s.backend }

// CoreCount is the number of logical CPUs, read once at construction.
func (s *Sampler) CoreCount() int { return s.cores }

// Refresh samples the OS. Collector failures are recorded in
// Snapshot.Errors; only context cancellation is returned as an error.
func (s *Sampler) Refresh(ctx context.Context) (*model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := &model.Snapshot{Timestamp: s.now()}
	for _, err := range s.registry.CollectAll(ctx, snap) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.WithError(err).WithField("backend", s.backend).Debug("collector failed")
		snap.Errors = append(snap.Errors, err.Error())
	}
	return snap, nil
}
