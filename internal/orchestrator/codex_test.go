package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcore/agentcore/internal/ptyexec"
	"github.com/agentcore/agentcore/pkg/types"
)

func TestCodex_ConfigureThenShutdown(t *testing.T) {
	builder := NewBuilder(ptyexec.NewManager(), stubNewClient)
	codex, err := builder.Spawn(context.Background(), types.Config{})
	require.NoError(t, err)
	defer codex.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, codex.Submit(ctx, types.NewConfigureSession(types.ConfigureSessionOp{Model: "m1"})))
	ev, err := codex.NextEvent(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.MsgSessionConfigured, ev.Msg.Type)

	require.NoError(t, codex.Submit(ctx, types.NewShutdown()))
	ev, err = codex.NextEvent(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.MsgShutdownComplete, ev.Msg.Type)
}

func TestCodex_NextEvent_CollapsesToErrInternalAgentDiedAfterShutdown(t *testing.T) {
	builder := NewBuilder(ptyexec.NewManager(), stubNewClient)
	codex, err := builder.Spawn(context.Background(), types.Config{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, codex.Submit(ctx, types.NewShutdown()))
	_, err = codex.NextEvent(ctx) // drains shutdown_complete
	require.NoError(t, err)

	_, err = codex.NextEvent(ctx)
	assert.ErrorIs(t, err, types.ErrInternalAgentDied)

	err = codex.Submit(ctx, types.NewInterrupt())
	assert.ErrorIs(t, err, types.ErrInternalAgentDied)
}

func TestCodex_Close_CancelsTheLoop(t *testing.T) {
	builder := NewBuilder(ptyexec.NewManager(), stubNewClient)
	codex, err := builder.Spawn(context.Background(), types.Config{})
	require.NoError(t, err)

	codex.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = codex.NextEvent(ctx)
	assert.ErrorIs(t, err, types.ErrInternalAgentDied)
}
