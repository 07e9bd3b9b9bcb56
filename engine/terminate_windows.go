//go:build windows

package engine

import (
	"context"

	"emperror.dev/errors"
	"github.com/shirou/gopsutil/v4/process"
)

func terminateProcess(pid int32) TerminateOutcome {
	ctx := context.Background()
	proc, err := process.NewProcessWithContext(ctx, pid)
	if errors.Is(err, process.ErrorProcessNotRunning) {
		return OutcomeNotFound
	}
	if err != nil {
		return OutcomeDenied
	}
	if err := proc.TerminateWithContext(ctx); err != nil {
		if running, rerr := proc.IsRunningWithContext(ctx); rerr == nil && !running {
			return OutcomeNotFound
		}
		return OutcomeDenied
	}
	return OutcomeSignaled
}
