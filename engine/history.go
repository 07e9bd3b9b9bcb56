package engine

import "sync"

// DefaultHistorySize is the number of samples kept per series.
const DefaultHistorySize = 100

// HistoryBuffer is a fixed-capacity ring of float samples, oldest first.
// It starts full of zeros so charts always span the whole width.
type HistoryBuffer struct {
	buf  []float64
	head int // index of the oldest sample
	size int
	mu   sync.RWMutex
}

// NewHistoryBuffer creates a buffer of the given capacity pre-filled with
// zeros. A capacity below 1 uses DefaultHistorySize.
func NewHistoryBuffer(capacity int) *HistoryBuffer {
	if capacity < 1 {
		capacity = DefaultHistorySize
	}
	return &HistoryBuffer{
		buf:  make([]float64, capacity),
		size: capacity,
	}
}

// Append adds v as the newest sample, evicting the oldest when full.
func (h *HistoryBuffer) Append(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	idx := (h.head + h.size) % len(h.buf)
	h.buf[idx] = v
	if h.size < len(h.buf) {
		h.size++
		return
	}
	h.head = (h.head + 1) % len(h.buf)
}

// Values returns a copy of the samples, oldest to newest.
func (h *HistoryBuffer) Values() []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]float64, h.size)
	for i := range out {
		out[i] = h.buf[(h.head+i)%len(h.buf)]
	}
	return out
}

// Len returns the number of samples held.
func (h *HistoryBuffer) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.size
}

// Cap returns the fixed capacity.
func (h *HistoryBuffer) Cap() int {
	return len(h.buf)
}
