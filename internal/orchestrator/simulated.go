package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SimulatedOrchestrator stands in for the assistant API when no API key is
// configured. Conversations get synthetic identifiers and every message gets
// a canned reply after a short delay, so the chat surface stays usable in
// demo deployments.
type SimulatedOrchestrator struct {
	replyDelay time.Duration
	logger     *zap.Logger
}

// NewSimulatedOrchestrator creates a demo-mode orchestrator
func NewSimulatedOrchestrator(logger *zap.Logger) *SimulatedOrchestrator {
	return &SimulatedOrchestrator{
		replyDelay: 1500 * time.Millisecond,
		logger:     logger,
	}
}

func (o *SimulatedOrchestrator) CreateConversation(ctx context.Context) (string, error) {
	id := "demo_thread_" + uuid.NewString()
	o.logger.Info("Created simulated conversation", zap.String("thread_id", id))
	return id, nil
}

func (o *SimulatedOrchestrator) SendMessage(ctx context.Context, conversationID, assistantRemoteID, content string, attachments []Attachment) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(o.replyDelay):
	}

	reply := fmt.Sprintf(
		"Thank you for your message: %q. This is a simulated response. Configure an OpenAI API key to get real assistant replies.",
		content)
	return reply, nil
}
