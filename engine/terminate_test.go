package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubExecutor(outcome TerminateOutcome, calls *[]int32) *Executor {
	return &Executor{signal: func(pid int32) TerminateOutcome {
		*calls = append(*calls, pid)
		return outcome
	}}
}

func TestExecutorRejectsNonPositivePID(t *testing.T) {
	var calls []int32
	ex := stubExecutor(OutcomeSignaled, &calls)

	assert.Equal(t, OutcomeInvalid, ex.Terminate(0))
	assert.Equal(t, OutcomeInvalid, ex.Terminate(-1))
	assert.Empty(t, calls, "a non-positive pid would signal a process group")
}

func TestExecutorPassesOutcomeThrough(t *testing.T) {
	for _, want := range []TerminateOutcome{OutcomeSignaled, OutcomeNotFound, OutcomeDenied} {
		var calls []int32
		got := stubExecutor(want, &calls).Terminate(1234)
		assert.Equal(t, want, got)
		assert.Equal(t, []int32{1234}, calls)
	}
}

func TestTerminateOutcomeString(t *testing.T) {
	assert.Equal(t, "signaled", OutcomeSignaled.String())
	assert.Equal(t, "not_found", OutcomeNotFound.String())
	assert.Equal(t, "denied", OutcomeDenied.String())
	assert.Equal(t, "invalid", OutcomeInvalid.String())
	assert.Equal(t, "unknown", TerminateOutcome(99).String())
}
