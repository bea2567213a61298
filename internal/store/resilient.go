package store

import (
	"context"
	"errors"

	"github.com/alex-clyr/clyr-gpts/internal/model"
	"github.com/alex-clyr/clyr-gpts/prometheus"
	"go.uber.org/zap"
)

// Resilient wraps a live store and degrades read operations to the fallback
// data set when the live call fails. Write failures always propagate: a write
// against the fallback set must never look like it succeeded. A missing row
// (ErrNotFound) is an answer, not a failure, and is passed through.
type Resilient struct {
	live     Store
	fallback Store
	logger   *zap.Logger
}

// NewResilient creates a degrading wrapper around the live store
func NewResilient(live, fallback Store, logger *zap.Logger) *Resilient {
	return &Resilient{
		live:     live,
		fallback: fallback,
		logger:   logger,
	}
}

// degraded reports whether the live error calls for the fallback path, and
// records the degraded-mode event when it does.
func (s *Resilient) degraded(op string, err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) {
		return false
	}
	prometheus.RecordFallbackRead(op)
	s.logger.Warn("Live backend read failed, serving fallback data",
		zap.String("operation", op),
		zap.Error(err))
	return true
}

func (s *Resilient) ListAssistants(ctx context.Context) ([]model.Assistant, error) {
	assistants, err := s.live.ListAssistants(ctx)
	if s.degraded("list_assistants", err) {
		return s.fallback.ListAssistants(ctx)
	}
	return assistants, err
}

func (s *Resilient) ListAllAssistants(ctx context.Context) ([]model.Assistant, error) {
	assistants, err := s.live.ListAllAssistants(ctx)
	if s.degraded("list_all_assistants", err) {
		return s.fallback.ListAllAssistants(ctx)
	}
	return assistants, err
}

func (s *Resilient) GetAssistant(ctx context.Context, id string) (*model.Assistant, error) {
	assistant, err := s.live.GetAssistant(ctx, id)
	if s.degraded("get_assistant", err) {
		return s.fallback.GetAssistant(ctx, id)
	}
	return assistant, err
}

func (s *Resilient) CreateAssistant(ctx context.Context, assistant *model.Assistant) error {
	return s.live.CreateAssistant(ctx, assistant)
}

func (s *Resilient) UpdateAssistant(ctx context.Context, assistant *model.Assistant) error {
	return s.live.UpdateAssistant(ctx, assistant)
}

func (s *Resilient) DeactivateAssistant(ctx context.Context, id string) error {
	return s.live.DeactivateAssistant(ctx, id)
}

func (s *Resilient) ListThreads(ctx context.Context, userID string) ([]model.Thread, error) {
	threads, err := s.live.ListThreads(ctx, userID)
	if s.degraded("list_threads", err) {
		return s.fallback.ListThreads(ctx, userID)
	}
	return threads, err
}

func (s *Resilient) GetThread(ctx context.Context, id string) (*model.Thread, error) {
	thread, err := s.live.GetThread(ctx, id)
	if s.degraded("get_thread", err) {
		return s.fallback.GetThread(ctx, id)
	}
	return thread, err
}

func (s *Resilient) CreateThread(ctx context.Context, thread *model.Thread) error {
	return s.live.CreateThread(ctx, thread)
}

func (s *Resilient) TouchThread(ctx context.Context, id string) error {
	return s.live.TouchThread(ctx, id)
}

func (s *Resilient) ListMessages(ctx context.Context, threadID string) ([]model.Message, error) {
	messages, err := s.live.ListMessages(ctx, threadID)
	if s.degraded("list_messages", err) {
		return s.fallback.ListMessages(ctx, threadID)
	}
	return messages, err
}

func (s *Resilient) CreateMessage(ctx context.Context, message *model.Message) error {
	return s.live.CreateMessage(ctx, message)
}

func (s *Resilient) ListActiveSubscriptions(ctx context.Context, userID string) ([]model.Subscription, error) {
	subs, err := s.live.ListActiveSubscriptions(ctx, userID)
	if s.degraded("list_active_subscriptions", err) {
		return s.fallback.ListActiveSubscriptions(ctx, userID)
	}
	return subs, err
}

func (s *Resilient) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	subs, err := s.live.ListSubscriptions(ctx)
	if s.degraded("list_subscriptions", err) {
		return s.fallback.ListSubscriptions(ctx)
	}
	return subs, err
}

// User reads never degrade to fixtures: serving a canned user would let a
// caller authenticate as someone who does not exist.
func (s *Resilient) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.live.GetUserByEmail(ctx, email)
}

func (s *Resilient) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.live.GetUser(ctx, id)
}

func (s *Resilient) CreateUser(ctx context.Context, user *model.User) error {
	return s.live.CreateUser(ctx, user)
}

func (s *Resilient) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.live.ListUsers(ctx)
}

func (s *Resilient) Close() error {
	return s.live.Close()
}
