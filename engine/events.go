package engine

import "github.com/ftahirops/xmon/model"

// Event is an input to the Controller.
type Event interface {
	event()
}

// SnapshotReady delivers a freshly sampled snapshot; it is the tick.
type SnapshotReady struct {
	Snapshot *model.Snapshot
}

// ExportRequested asks for the current ranked snapshot to be written out.
type ExportRequested struct{}

// TerminateRequested asks for a process to be stopped.
type TerminateRequested struct {
	PID int32
}

func (SnapshotReady) event()      {}
func (ExportRequested) event()    {}
func (TerminateRequested) event() {}

// Result reports what handling an event did.
type Result struct {
	Event Event
	// Ranked is the snapshot published after the event; unchanged by commands.
	Ranked *model.RankedSnapshot
	// Err is set when an export failed.
	Err error
	// ExportPath is the file written by ExportRequested.
	ExportPath string
	// Outcome is set for TerminateRequested.
	Outcome TerminateOutcome
}
