package engine

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/ftahirops/xmon/model"
)

// Controller owns the rolling histories and the published ranked snapshot.
// Dispatch must be called from a single goroutine; every mutation happens
// there, so a command always sees the last published snapshot.
type Controller struct {
	source   Source
	exporter *Exporter
	executor *Executor
	metrics  *Metrics

	historySize int
	cpuHist     *HistoryBuffer
	memHist     *HistoryBuffer
	cores       int
	current     *model.RankedSnapshot
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithHistorySize sets the capacity of the CPU and memory histories.
func WithHistorySize(n int) ControllerOption {
	return func(c *Controller) { c.historySize = n }
}

// WithExporter replaces the default exporter.
func WithExporter(e *Exporter) ControllerOption {
	return func(c *Controller) { c.exporter = e }
}

// WithExecutor replaces the default termination executor.
func WithExecutor(e *Executor) ControllerOption {
	return func(c *Controller) { c.executor = e }
}

// WithMetrics publishes controller activity to m.
func WithMetrics(m *Metrics) ControllerOption {
	return func(c *Controller) { c.metrics = m }
}

// NewController creates a controller reading from source. The core count is
// taken from the source once, here.
func NewController(source Source, opts ...ControllerOption) *Controller {
	c := &Controller{
		source:      source,
		historySize: DefaultHistorySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.exporter == nil {
		c.exporter = NewExporter(DefaultExportPath)
	}
	if c.executor == nil {
		c.executor = NewExecutor()
	}
	c.cpuHist = NewHistoryBuffer(c.historySize)
	c.memHist = NewHistoryBuffer(c.historySize)
	c.cores = source.CoreCount()
	if c.cores <= 0 {
		c.cores = 1
	}
	return c
}

// Tick samples the source synchronously and dispatches the result.
func (c *Controller) Tick(ctx context.Context) (Result, error) {
	snap, err := c.source.Refresh(ctx)
	if err != nil {
		return Result{Ranked: c.current}, err
	}
	return c.Dispatch(SnapshotReady{Snapshot: snap}), nil
}

// Dispatch applies one event and reports the outcome. No event is fatal.
func (c *Controller) Dispatch(ev Event) Result {
	res := Result{Event: ev}
	switch ev := ev.(type) {
	case SnapshotReady:
		if ev.Snapshot != nil {
			c.apply(ev.Snapshot)
		}
	case ExportRequested:
		res.ExportPath = c.exporter.Path()
		res.Err = c.exporter.Export(c.rankedOrEmpty())
		if res.Err != nil {
			log.WithError(res.Err).Error("export failed")
		} else {
			log.WithField("path", res.ExportPath).Info("exported process list")
		}
		c.metrics.observeExport(res.Err)
	case TerminateRequested:
		res.Outcome = c.executor.Terminate(ev.PID)
		c.metrics.observeTerminate(res.Outcome)
	default:
		log.WithField("event", fmt.Sprintf("%T", ev)).Warn("ignoring unknown event")
	}
	res.Ranked = c.current
	return res
}

func (c *Controller) apply(snap *model.Snapshot) {
	c.cpuHist.Append(snap.CPUPercent)
	c.memHist.Append(float64(snap.MemoryUsed))
	c.current = &model.RankedSnapshot{
		Snapshot:  snap,
		Ranked:    Rank(snap.Processes, c.cores),
		CoreCount: c.cores,
	}
	c.metrics.observeSnapshot(snap)
}

// rankedOrEmpty lets an export before the first tick write a header-only file.
func (c *Controller) rankedOrEmpty() *model.RankedSnapshot {
	if c.current != nil {
		return c.current
	}
	return &model.RankedSnapshot{CoreCount: c.cores}
}

// Current returns the last published ranked snapshot, or nil before the
// first tick.
func (c *Controller) Current() *model.RankedSnapshot { return c.current }

// CPUHistory returns global CPU percent samples, oldest to newest.
func (c *Controller) CPUHistory() []float64 { return c.cpuHist.Values() }

// MemoryHistory returns used-memory samples in bytes, oldest to newest.
func (c *Controller) MemoryHistory() []float64 { return c.memHist.Values() }

// CoreCount is the normalization divisor.
func (c *Controller) CoreCount() int { return c.cores }

// ExportPath is where ExportRequested writes.
func (c *Controller) ExportPath() string { return c.exporter.Path() }
