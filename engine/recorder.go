package engine

import (
	"context"
	"io"
	"runtime"
	"sync"

	"emperror.dev/errors"
	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"

	"github.com/ftahirops/xmon/model"
)

// recordFrame is one snapshot frame written to disk.
type recordFrame struct {
	Snapshot  model.Snapshot `json:"snapshot"`
	CoreCount int            `json:"core_count"`
}

// Recorder wraps a Source and writes every sampled snapshot as a JSON line.
type Recorder struct {
	inner  Source
	writer *json.Encoder
	mu     sync.Mutex
}

// NewRecorder creates a recorder that writes JSON lines to w.
func NewRecorder(inner Source, w io.Writer) *Recorder {
	return &Recorder{
		inner:  inner,
		writer: json.NewEncoder(w),
	}
}

// CoreCount returns the wrapped source's core count.
func (r *Recorder) CoreCount() int { return r.inner.CoreCount() }

// Refresh samples the wrapped source and records the result. A write
// failure is logged and does not fail the sample.
func (r *Recorder) Refresh(ctx context.Context) (*model.Snapshot, error) {
	snap, err := r.inner.Refresh(ctx)
	if err != nil || snap == nil {
		return snap, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writer.Encode(recordFrame{Snapshot: *snap, CoreCount: r.inner.CoreCount()}); err != nil {
		log.WithError(err).Warn("recording snapshot failed")
	}
	return snap, nil
}

// Player replays recorded frames as a Source.
type Player struct {
	frames []recordFrame
	idx    int
	cores  int
	mu     sync.Mutex
}

// NewPlayer reads a recorded file (JSON lines). Reading stops at the first
// malformed line.
func NewPlayer(r io.Reader) (*Player, error) {
	dec := json.NewDecoder(r)
	var frames []recordFrame
	for {
		var frame recordFrame
		if err := dec.Decode(&frame); err != nil {
			if !errors.Is(err, io.EOF) {
				// The decoder cannot resynchronise after a bad line; keep
				// what was read so far.
				log.WithError(err).WithField("frames", len(frames)).Warn("recording truncated")
			}
			break
		}
		frames = append(frames, frame)
	}
	if len(frames) == 0 {
		return nil, errors.New("recording contains no frames")
	}

	cores := frames[0].CoreCount
	if cores <= 0 {
		cores = runtime.NumCPU()
	}
	return &Player{frames: frames, cores: cores}, nil
}

// CoreCount is the core count of the recorded host.
func (p *Player) CoreCount() int { return p.cores }

// Refresh returns the next recorded snapshot, or the last one once the
// recording is exhausted.
func (p *Player) Refresh(ctx context.Context) (*model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.idx
	if i >= len(p.frames) {
		i = len(p.frames) - 1
	} else {
		p.idx++
	}
	snap := p.frames[i].Snapshot // copy
	return &snap, nil
}

// Len returns the number of frames available.
func (p *Player) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.frames)
}
