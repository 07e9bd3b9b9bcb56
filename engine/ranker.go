package engine

import (
	"sort"

	"github.com/ftahirops/xmon/model"
)

// Rank orders processes by raw CPU percent, highest first, and attaches the
// per-core normalized value. Equal values keep their input order. Every
// input record appears in the output; the input slice is not modified.
func Rank(procs []model.ProcessRecord, coreCount int) []model.RankedProcess {
	if coreCount <= 0 {
		coreCount = 1
	}
	ranked := make([]model.RankedProcess, len(procs))
	for i, p := range procs {
		ranked[i] = model.RankedProcess{
			ProcessRecord: p,
			NormalizedCPU: Normalize(p.CPUPercent, coreCount),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CPUPercent > ranked[j].CPUPercent
	})
	return ranked
}

// Normalize spreads a summed-across-cores percent over coreCount CPUs.
func Normalize(raw float64, coreCount int) float64 {
	if coreCount <= 0 {
		return raw
	}
	return raw / float64(coreCount)
}
