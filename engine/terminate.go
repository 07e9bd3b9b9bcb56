package engine

import (
	log "github.com/sirupsen/logrus"
)

// TerminateOutcome describes what happened to a termination request. None
// of the outcomes is an error for the caller.
type TerminateOutcome int

const (
	OutcomeSignaled TerminateOutcome = iota
	OutcomeNotFound
	OutcomeDenied
	OutcomeInvalid
)

func (o TerminateOutcome) String() string {
	switch o {
	case OutcomeSignaled:
		return "signaled"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeDenied:
		return "denied"
	case OutcomeInvalid:
		return "invalid"
	}
	return "unknown"
}

// Executor asks the OS to stop processes. It trusts the pid it is given and
// does not re-check it against a newer sample.
type Executor struct {
	signal func(pid int32) TerminateOutcome
}

// NewExecutor creates an executor backed by the platform signal call.
func NewExecutor() *Executor {
	return &Executor{signal: terminateProcess}
}

// Terminate requests that pid stop. A pid that no longer exists is a no-op.
func (e *Executor) Terminate(pid int32) TerminateOutcome {
	if pid <= 0 {
		return OutcomeInvalid
	}
	outcome := e.signal(pid)
	entry := log.WithField("pid", pid).WithField("outcome", outcome)
	switch outcome {
	case OutcomeSignaled:
		entry.Info("termination requested")
	case OutcomeNotFound:
		entry.Info("process already gone")
	default:
		entry.Warn("termination not delivered")
	}
	return outcome
}
