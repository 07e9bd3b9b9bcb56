package model

import "time"

// Snapshot holds one consistent reading of host and per-process metrics.
// A Snapshot is never modified after the sampler returns it.
type Snapshot struct {
	Timestamp   time.Time       `json:"timestamp"`
	CPUPercent  float64         `json:"cpu_percent"`
	MemoryUsed  uint64          `json:"memory_used"`
	MemoryTotal uint64          `json:"memory_total"`
	Processes   []ProcessRecord `json:"processes"`
	Errors      []string        `json:"errors,omitempty"`
}

// ProcessRecord is one process as seen by the sampler.
type ProcessRecord struct {
	PID  int32  `json:"pid"`
	Name string `json:"name"`
	// CPUPercent is summed across cores and exceeds 100 when a process
	// saturates more than one CPU.
	CPUPercent  float64 `json:"cpu_percent"`
	MemoryBytes uint64  `json:"memory_bytes"`
}

// MemoryMB returns the resident size in megabytes (10^6 bytes).
func (p ProcessRecord) MemoryMB() float64 {
	return float64(p.MemoryBytes) / 1_000_000
}

// RankedProcess pairs a record with its per-core normalized CPU percent.
type RankedProcess struct {
	ProcessRecord
	NormalizedCPU float64 `json:"normalized_cpu"`
}

// RankedSnapshot is a snapshot together with its ranked process order.
type RankedSnapshot struct {
	Snapshot  *Snapshot       `json:"snapshot"`
	Ranked    []RankedProcess `json:"ranked"`
	CoreCount int             `json:"core_count"`
}

// Find returns the ranked entry for pid, if present.
func (r *RankedSnapshot) Find(pid int32) (RankedProcess, bool) {
	if r == nil {
		return RankedProcess{}, false
	}
	for _, p := range r.Ranked {
		if p.PID == pid {
			return p, true
		}
	}
	return RankedProcess{}, false
}

// Top returns at most n ranked entries. n <= 0 returns all of them.
func (r *RankedSnapshot) Top(n int) []RankedProcess {
	if r == nil {
		return nil
	}
	if n <= 0 || n >= len(r.Ranked) {
		return r.Ranked
	}
	return r.Ranked[:n]
}
