package util

// CPUPct computes CPU usage percentage from two active and total tick values.
func CPUPct(prevActive, currActive, prevTotal, currTotal uint64) float64 {
	dtotal := Delta(prevTotal, currTotal)
	if dtotal == 0 {
		return 0
	}
	return float64(Delta(prevActive, currActive)) / float64(dtotal) * 100
}

// ShareOfTotal returns what percentage of a total-tick delta one consumer
// used, scaled by cpus so a process saturating n CPUs reports n*100.
func ShareOfTotal(prev, curr, totalDelta uint64, cpus int) float64 {
	if totalDelta == 0 || cpus <= 0 {
		return 0
	}
	return float64(Delta(prev, curr)) / float64(totalDelta) * 100 * float64(cpus)
}

// Delta returns curr - prev, or 0 if curr < prev (counter wrap).
func Delta(prev, curr uint64) uint64 {
	if curr < prev {
		return 0
	}
	return curr - prev
}
