package orchestrator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSimulatedConversationIDsAreUnique(t *testing.T) {
	o := NewSimulatedOrchestrator(zap.NewNop())

	a, err := o.CreateConversation(context.Background())
	require.NoError(t, err)
	b, err := o.CreateConversation(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a, "demo_thread_"))
	assert.NotEqual(t, a, b)
}

func TestSimulatedReplyEchoesMessage(t *testing.T) {
	o := NewSimulatedOrchestrator(zap.NewNop())
	o.replyDelay = 0

	reply, err := o.SendMessage(context.Background(), "demo_thread_x", "asst_1", "what is Go?", nil)
	require.NoError(t, err)
	assert.Contains(t, reply, `"what is Go?"`)
	assert.Contains(t, reply, "simulated response")
}

func TestSimulatedReplyHonorsCancellation(t *testing.T) {
	o := NewSimulatedOrchestrator(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.SendMessage(ctx, "demo_thread_x", "asst_1", "hello", nil)
	assert.ErrorIs(t, err, context.Canceled)
}
