package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/alex-clyr/clyr-gpts/prometheus"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// assistantAPI is the slice of the OpenAI client the orchestrator uses.
// *openai.Client satisfies it; tests substitute a scripted fake.
type assistantAPI interface {
	CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error)
	CreateMessage(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error)
	CreateRun(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error)
	RetrieveRun(ctx context.Context, threadID string, runID string) (openai.Run, error)
	ListMessage(ctx context.Context, threadID string, limit *int, order *string, after *string, before *string, runID *string) (openai.MessagesList, error)
}

// OpenAIOrchestrator drives assistant runs through the OpenAI assistants API.
type OpenAIOrchestrator struct {
	client       assistantAPI
	pollInterval time.Duration
	runTimeout   time.Duration
	logger       *zap.Logger
}

// NewOpenAIOrchestrator creates an orchestrator backed by the OpenAI API
func NewOpenAIOrchestrator(apiKey string, pollInterval, runTimeout time.Duration, logger *zap.Logger) *OpenAIOrchestrator {
	return &OpenAIOrchestrator{
		client:       openai.NewClient(apiKey),
		pollInterval: pollInterval,
		runTimeout:   runTimeout,
		logger:       logger,
	}
}

func (o *OpenAIOrchestrator) CreateConversation(ctx context.Context) (string, error) {
	thread, err := o.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		o.logger.Error("Failed to create conversation thread", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	return thread.ID, nil
}

func (o *OpenAIOrchestrator) SendMessage(ctx context.Context, conversationID, assistantRemoteID, content string, attachments []Attachment) (string, error) {
	req := openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: content,
	}
	for _, att := range attachments {
		req.Attachments = append(req.Attachments, openai.ThreadAttachment{
			FileID: att.FileID,
			Tools:  []openai.ThreadAttachmentTool{{Type: "file_search"}},
		})
	}

	// The user message must be durably posted before the run starts.
	if _, err := o.client.CreateMessage(ctx, conversationID, req); err != nil {
		o.logger.Error("Failed to post message to conversation",
			zap.String("thread_id", conversationID),
			zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	run, err := o.client.CreateRun(ctx, conversationID, openai.RunRequest{
		AssistantID: assistantRemoteID,
	})
	if err != nil {
		o.logger.Error("Failed to start run",
			zap.String("thread_id", conversationID),
			zap.String("assistant_id", assistantRemoteID),
			zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	if err := o.waitForRun(ctx, conversationID, &run); err != nil {
		return "", err
	}

	return o.latestAssistantReply(ctx, conversationID)
}

// waitForRun polls the run until it reaches a terminal status. The interval
// starts at pollInterval and backs off by half each round, capped at five
// intervals; the overall wait is bounded by runTimeout.
func (o *OpenAIOrchestrator) waitForRun(ctx context.Context, conversationID string, run *openai.Run) error {
	prometheus.ActiveRunsGauge.Inc()
	defer prometheus.ActiveRunsGauge.Dec()

	start := time.Now()
	defer func() {
		prometheus.RunDuration.Observe(time.Since(start).Seconds())
	}()

	deadline := start.Add(o.runTimeout)
	interval := o.pollInterval
	maxInterval := 5 * o.pollInterval

	for {
		switch classify(run.Status) {
		case runSucceeded:
			return nil
		case runFailed:
			o.logger.Warn("Run reached a failure status",
				zap.String("thread_id", conversationID),
				zap.String("run_id", run.ID),
				zap.String("status", string(run.Status)))
			return &RunFailedError{Status: run.Status}
		}

		// Not terminal (or not a status we recognize as terminal): keep
		// polling until the deadline.
		if time.Now().After(deadline) {
			o.logger.Warn("Run exceeded maximum wait",
				zap.String("thread_id", conversationID),
				zap.String("run_id", run.ID),
				zap.String("last_status", string(run.Status)),
				zap.Duration("timeout", o.runTimeout))
			return fmt.Errorf("%w after %s (last status %q)", ErrRunTimeout, o.runTimeout, run.Status)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for run %s: %w", run.ID, ctx.Err())
		case <-time.After(interval):
		}

		next, err := o.client.RetrieveRun(ctx, conversationID, run.ID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
		}
		*run = next

		interval += interval / 2
		if interval > maxInterval {
			interval = maxInterval
		}
	}
}

func (o *OpenAIOrchestrator) latestAssistantReply(ctx context.Context, conversationID string) (string, error) {
	limit := 1
	order := "desc"
	messages, err := o.client.ListMessage(ctx, conversationID, &limit, &order, nil, nil, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	if len(messages.Messages) == 0 {
		return "", ErrNoReply
	}

	latest := messages.Messages[0]
	if latest.Role != openai.ChatMessageRoleAssistant {
		return "", ErrNoReply
	}
	for _, part := range latest.Content {
		if part.Type == "text" && part.Text != nil {
			return part.Text.Value, nil
		}
	}
	return "", ErrNoReply
}

type runOutcome int

const (
	runPending runOutcome = iota
	runSucceeded
	runFailed
)

// classify maps a run status to an outcome. Unrecognized statuses are treated
// as still pending rather than misread as terminal; the deadline bounds them.
func classify(status openai.RunStatus) runOutcome {
	switch status {
	case openai.RunStatusCompleted:
		return runSucceeded
	case openai.RunStatusFailed,
		openai.RunStatusCancelled,
		openai.RunStatusExpired,
		openai.RunStatusIncomplete,
		// Tool calls are not supported here, so a run demanding action
		// can never make progress.
		openai.RunStatusRequiresAction:
		return runFailed
	default:
		return runPending
	}
}
