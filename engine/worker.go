package engine

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ftahirops/xmon/model"
)

// DefaultInterval is the sampling cadence.
const DefaultInterval = time.Second

// SamplerWorker samples a Source on its own goroutine so the interactive
// loop never waits on OS queries. It holds at most one undelivered snapshot;
// a newer one replaces it.
type SamplerWorker struct {
	source   Source
	interval time.Duration
	out      chan *model.Snapshot
}

// NewSamplerWorker creates a worker sampling source every interval.
func NewSamplerWorker(source Source, interval time.Duration) *SamplerWorker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &SamplerWorker{
		source:   source,
		interval: interval,
		out:      make(chan *model.Snapshot, 1),
	}
}

// Snapshots delivers sampled snapshots. It is closed when Run returns.
func (w *SamplerWorker) Snapshots() <-chan *model.Snapshot {
	return w.out
}

// Run samples once immediately and then on every interval until ctx is done.
func (w *SamplerWorker) Run(ctx context.Context) {
	defer close(w.out)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		snap, err := w.source.Refresh(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.WithError(err).Warn("sample failed")
		} else if snap != nil {
			w.publish(snap)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// publish never blocks: a snapshot the consumer has not picked up yet is
// dropped in favour of the newer one. Run is the only sender.
func (w *SamplerWorker) publish(snap *model.Snapshot) {
	select {
	case w.out <- snap:
		return
	default:
	}
	select {
	case stale := <-w.out:
		log.WithField("sampled_at", stale.Timestamp).Debug("dropping undelivered snapshot")
	default:
	}
	select {
	case w.out <- snap:
	default:
	}
}
