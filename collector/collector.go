package collector

import (
	"context"
	"strings"

	"emperror.dev/errors"

	"github.com/ftahirops/xmon/model"
)

// Collector fills part of a snapshot.
type Collector interface {
	Name() string
	Collect(ctx context.Context, snap *model.Snapshot) error
}

// Registry holds the collectors of one backend.
type Registry struct {
	collectors []Collector
}

// NewRegistry creates a registry running the given collectors in order.
func NewRegistry(collectors ...Collector) *Registry {
	return &Registry{collectors: collectors}
}

// Names lists the registered collectors in run order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.collectors))
	for _, c := range r.collectors {
		names = append(names, c.Name())
	}
	return names
}

// CollectAll runs all collectors, populating the snapshot. A failing
// collector does not stop the ones after it.
func (r *Registry) CollectAll(ctx context.Context, snap *model.Snapshot) []error {
	var errs []error
	for _, c := range r.collectors {
		if err := ctx.Err(); err != nil {
			return append(errs, err)
		}
		if err := c.Collect(ctx, snap); err != nil {
			errs = append(errs, errors.WrapIf(err, c.Name()))
		}
	}
	return errs
}

// Backend selects how the OS is queried.
type Backend string

const (
	BackendAuto   Backend = "auto"
	BackendProc   Backend = "proc"
	BackendPsutil Backend = "psutil"
)

// ParseBackend validates a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendAuto, BackendProc, BackendPsutil:
		return b, nil
	case "":
		return BackendAuto, nil
	}
	return "", errors.Errorf("unknown backend %q (want auto, proc or psutil)", s)
}
