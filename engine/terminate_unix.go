//go:build !windows

package engine

import (
	"emperror.dev/errors"
	"golang.org/x/sys/unix"
)

func terminateProcess(pid int32) TerminateOutcome {
	err := unix.Kill(int(pid), unix.SIGTERM)
	switch {
	case err == nil:
		return OutcomeSignaled
	case errors.Is(err, unix.ESRCH):
		return OutcomeNotFound
	}
	// EPERM and anything else: the process exists but cannot be signaled.
	return OutcomeDenied
}
