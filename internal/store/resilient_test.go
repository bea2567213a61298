package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alex-clyr/clyr-gpts/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errTransport = errors.New("connection refused")

// brokenStore simulates a live backend whose transport is down.
type brokenStore struct {
	DemoStore
}

func (s *brokenStore) ListAssistants(ctx context.Context) ([]model.Assistant, error) {
	return nil, errTransport
}

func (s *brokenStore) GetAssistant(ctx context.Context, id string) (*model.Assistant, error) {
	return nil, errTransport
}

func (s *brokenStore) ListThreads(ctx context.Context, userID string) ([]model.Thread, error) {
	return nil, errTransport
}

func (s *brokenStore) ListActiveSubscriptions(ctx context.Context, userID string) ([]model.Subscription, error) {
	return nil, errTransport
}

func (s *brokenStore) CreateAssistant(ctx context.Context, assistant *model.Assistant) error {
	return errTransport
}

// notFoundStore answers reads with a clean miss rather than a failure.
type notFoundStore struct {
	DemoStore
}

func (s *notFoundStore) GetAssistant(ctx context.Context, id string) (*model.Assistant, error) {
	return nil, ErrNotFound
}

func TestResilientFallsBackOnReadFailure(t *testing.T) {
	s := NewResilient(&brokenStore{}, NewDemoStore(), zap.NewNop())
	ctx := context.Background()

	// A transport failure on a read is absorbed; the caller sees the
	// fallback catalog, not an error.
	assistants, err := s.ListAssistants(ctx)
	require.NoError(t, err)
	require.Len(t, assistants, 6)
	assert.Equal(t, "Code Assistant", assistants[0].Name)

	assistant, err := s.GetAssistant(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Writing Coach", assistant.Name)

	threads, err := s.ListThreads(ctx, "demo-user")
	require.NoError(t, err)
	assert.Empty(t, threads)

	subs, err := s.ListActiveSubscriptions(ctx, "demo-user")
	require.NoError(t, err)
	require.Len(t, subs, 1)
}

func TestResilientPropagatesWriteFailure(t *testing.T) {
	s := NewResilient(&brokenStore{}, NewDemoStore(), zap.NewNop())
	ctx := context.Background()

	err := s.CreateAssistant(ctx, &model.Assistant{Name: "X", OpenAIAssistantID: "asst_x"})
	assert.ErrorIs(t, err, errTransport)
}

func TestResilientPassesThroughNotFound(t *testing.T) {
	s := NewResilient(&notFoundStore{}, NewDemoStore(), zap.NewNop())
	ctx := context.Background()

	// A clean miss is an answer from the live backend, not a degraded read;
	// the fallback set must not resurrect the row.
	_, err := s.GetAssistant(ctx, "1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResilientServesLiveDataWhenHealthy(t *testing.T) {
	// DemoStore doubles as a healthy live store here; the fallback is a
	// broken store that would fail loudly if consulted.
	s := NewResilient(NewDemoStore(), &brokenStore{}, zap.NewNop())
	ctx := context.Background()

	assistants, err := s.ListAssistants(ctx)
	require.NoError(t, err)
	assert.Len(t, assistants, 6)
}
