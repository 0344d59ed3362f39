package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentcore/agentcore/pkg/types"
)

func TestNewState_ZdrTranscriptNilUnlessDisabled(t *testing.T) {
	assert.Nil(t, newState(false).zdrTranscript)
	assert.NotNil(t, newState(true).zdrTranscript)
}

func TestState_PartialClone_CarriesApprovedCommandsAndPrevID(t *testing.T) {
	s := newState(false)
	s.approvedCommands[commandKey([]string{"ls", "-la"})] = true
	s.previousResponseID = "resp-1"
	s.pendingInput = []types.ResponseItem{{Type: types.ResponseItemMessage}}

	clone := s.partialClone()

	assert.True(t, clone.approvedCommands[commandKey([]string{"ls", "-la"})])
	assert.Equal(t, "resp-1", clone.previousResponseID)
	assert.Nil(t, clone.pendingInput, "pending input must not survive a session replacement")
	assert.Nil(t, clone.currentTask, "the running task must not survive a session replacement")
	assert.NotNil(t, clone.pendingApprovals, "a fresh session needs its own approval registry")
}

func TestState_PartialClone_CarriesZdrTranscript(t *testing.T) {
	s := newState(true)
	s.zdrTranscript = append(s.zdrTranscript, types.NewAssistantMessage("hello"))

	clone := s.partialClone()

	assert.Len(t, clone.zdrTranscript, 1)

	// Mutating the clone's transcript must not reach back into the
	// original — partialClone copies the slice, it does not alias it.
	clone.zdrTranscript = append(clone.zdrTranscript, types.NewAssistantMessage("again"))
	assert.Len(t, s.zdrTranscript, 1)
}

func TestCommandKey_DistinguishesArgBoundaries(t *testing.T) {
	a := commandKey([]string{"ab", "c"})
	b := commandKey([]string{"a", "bc"})
	assert.NotEqual(t, a, b)
}
