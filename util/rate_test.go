package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCPUPct(t *testing.T) {
	tests := []struct {
		name                                         string
		prevActive, currActive, prevTotal, currTotal uint64
		want                                         float64
	}{
		{"half busy", 100, 150, 1000, 1100, 50},
		{"idle", 100, 100, 1000, 1100, 0},
		{"no elapsed ticks", 100, 150, 1000, 1000, 0},
		{"counter wrap", 200, 100, 1000, 1100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CPUPct(tt.prevActive, tt.currActive, tt.prevTotal, tt.currTotal)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestShareOfTotalExceedsHundredOnMultiCore(t *testing.T) {
	// 4 CPUs, 400 total ticks elapsed, the process used 200 of them: two full cores.
	assert.InDelta(t, 200.0, ShareOfTotal(0, 200, 400, 4), 0.001)
	assert.Zero(t, ShareOfTotal(0, 200, 0, 4))
	assert.Zero(t, ShareOfTotal(300, 200, 400, 4))
}

func TestParseKB(t *testing.T) {
	assert.Equal(t, uint64(1234*1024), ParseKB("1234 kB"))
	assert.Equal(t, uint64(0), ParseKB(""))
	assert.Equal(t, uint64(0), ParseKB("garbage kB"))
}

func TestParseKeyValueLines(t *testing.T) {
	kv := ParseKeyValueLines([]string{
		"MemTotal:       16384 kB",
		"VmRSS:\t  512 kB",
		"pgfault 42",
		"",
	})
	assert.Equal(t, "16384 kB", kv["MemTotal"])
	assert.Equal(t, "512 kB", kv["VmRSS"])
	assert.Equal(t, "42", kv["pgfault"])
}
