package engine

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftahirops/xmon/model"
)

func TestMetricsObserve(t *testing.T) {
	m := NewMetrics()
	m.observeSnapshot(&model.Snapshot{
		CPUPercent:  42,
		MemoryUsed:  1000,
		MemoryTotal: 4000,
		Processes:   make([]model.ProcessRecord, 3),
		Errors:      []string{"memory: boom"},
	})
	m.observeExport(nil)
	m.observeExport(errors.New("disk full"))
	m.observeTerminate(OutcomeNotFound)

	assert.Equal(t, 42.0, testutil.ToFloat64(m.cpu))
	assert.Equal(t, 1000.0, testutil.ToFloat64(m.memUsed))
	assert.Equal(t, 4000.0, testutil.ToFloat64(m.memTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.procs))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sampleErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exports.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exports.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.terminations.WithLabelValues("not_found")))
}

func TestNilMetricsIsNoOp(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observeSnapshot(&model.Snapshot{})
		m.observeExport(nil)
		m.observeTerminate(OutcomeSignaled)
	})
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	c := NewController(&fakeSource{cores: 2}, WithMetrics(m))
	c.Dispatch(SnapshotReady{Snapshot: snapshot(12.5, 2048)})

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	parser := expfmt.TextParser{}
	fams, err := parser.TextToMetricFamilies(rr.Body)
	require.NoError(t, err)

	gauge := func(name string) float64 {
		mf := fams[name]
		require.NotNil(t, mf, name)
		require.Len(t, mf.GetMetric(), 1)
		return mf.GetMetric()[0].GetGauge().GetValue()
	}
	assert.Equal(t, 12.5, gauge("xmon_cpu_percent"))
	assert.Equal(t, 2048.0, gauge("xmon_memory_used_bytes"))

	ticks := fams["xmon_ticks_total"]
	require.NotNil(t, ticks)
	assert.Equal(t, dto.MetricType_COUNTER, ticks.GetType())
	assert.Equal(t, 1.0, ticks.GetMetric()[0].GetCounter().GetValue())
}
