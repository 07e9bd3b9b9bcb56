package engine

import (
	"context"
	"net/http"
	"time"

	"emperror.dev/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ftahirops/xmon/model"
)

// Metrics exposes controller activity as Prometheus metrics. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	cpu          prometheus.Gauge
	memUsed      prometheus.Gauge
	memTotal     prometheus.Gauge
	procs        prometheus.Gauge
	ticks        prometheus.Counter
	sampleErrors prometheus.Counter
	exports      *prometheus.CounterVec
	terminations *prometheus.CounterVec
}

// NewMetrics creates metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cpu: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xmon_cpu_percent",
			Help: "Global CPU utilisation of the last sample.",
		}),
		memUsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xmon_memory_used_bytes",
			Help: "Used memory of the last sample.",
		}),
		memTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xmon_memory_total_bytes",
			Help: "Total memory of the last sample.",
		}),
		procs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xmon_processes",
			Help: "Processes in the last sample.",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xmon_ticks_total",
			Help: "Snapshots applied by the controller.",
		}),
		sampleErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xmon_sample_errors_total",
			Help: "Collector failures recorded in snapshots.",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xmon_exports_total",
			Help: "Export requests by result.",
		}, []string{"result"}),
		terminations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xmon_terminations_total",
			Help: "Termination requests by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.cpu, m.memUsed, m.memTotal, m.procs, m.ticks,
		m.sampleErrors, m.exports, m.terminations)
	return m
}

func (m *Metrics) observeSnapshot(s *model.Snapshot) {
	if m == nil {
		return
	}
	m.cpu.Set(s.CPUPercent)
	m.memUsed.Set(float64(s.MemoryUsed))
	m.memTotal.Set(float64(s.MemoryTotal))
	m.procs.Set(float64(len(s.Processes)))
	m.ticks.Inc()
	m.sampleErrors.Add(float64(len(s.Errors)))
}

func (m *Metrics) observeExport(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.exports.WithLabelValues(result).Inc()
}

func (m *Metrics) observeTerminate(o TerminateOutcome) {
	if m == nil {
		return
	}
	m.terminations.WithLabelValues(o.String()).Inc()
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve listens on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return errors.WrapIff(err, "metrics listener on %s", addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.WrapIf(err, "metrics shutdown")
		}
		return nil
	}
}
