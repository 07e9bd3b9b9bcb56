package engine

import (
	"context"

	"github.com/ftahirops/xmon/model"
)

// Source abstracts a data source that can produce snapshots: the live
// sampler or a recorded file.
type Source interface {
	Refresh(ctx context.Context) (*model.Snapshot, error)
	CoreCount() int
}
