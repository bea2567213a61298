package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alex-clyr/clyr-gpts/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoStoreCatalog(t *testing.T) {
	s := NewDemoStore()
	ctx := context.Background()

	assistants, err := s.ListAssistants(ctx)
	require.NoError(t, err)
	require.Len(t, assistants, 6)

	// Catalog order is fixed.
	wantIDs := []string{"1", "2", "3", "4", "5", "6"}
	for i, a := range assistants {
		assert.Equal(t, wantIDs[i], a.ID)
		assert.True(t, a.Active)
		assert.True(t, model.ValidTier(a.SubscriptionType))
		assert.NotEmpty(t, a.OpenAIAssistantID)
	}

	assert.Equal(t, "Code Assistant", assistants[0].Name)
	assert.Equal(t, model.TierFree, assistants[0].SubscriptionType)
	assert.Equal(t, model.TierPerAssistant, assistants[5].SubscriptionType)
}

func TestDemoStoreReadsAreIdempotent(t *testing.T) {
	s := NewDemoStore()
	ctx := context.Background()

	first, err := s.ListAssistants(ctx)
	require.NoError(t, err)

	// Mutating a returned slice must not leak into later reads.
	first[0].Name = "Mutated"
	first[0].Active = false

	second, err := s.ListAssistants(ctx)
	require.NoError(t, err)
	require.Len(t, second, 6)
	assert.Equal(t, "Code Assistant", second[0].Name)
	assert.True(t, second[0].Active)
}

func TestDemoStoreGetAssistant(t *testing.T) {
	s := NewDemoStore()
	ctx := context.Background()

	assistant, err := s.GetAssistant(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "Data Analyst", assistant.Name)
	assert.Equal(t, model.TierPerAssistant, assistant.SubscriptionType)

	_, err = s.GetAssistant(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDemoStoreRejectsWrites(t *testing.T) {
	s := NewDemoStore()
	ctx := context.Background()

	before, err := s.ListAssistants(ctx)
	require.NoError(t, err)

	err = s.CreateAssistant(ctx, &model.Assistant{Name: "Rogue", OpenAIAssistantID: "asst_rogue"})
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	err = s.CreateThread(ctx, &model.Thread{UserID: "u", AssistantID: "1"})
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	err = s.CreateMessage(ctx, &model.Message{ThreadID: "t", Role: model.MessageRoleUser, Content: "hi"})
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	err = s.CreateUser(ctx, &model.User{Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	// The shared catalog is untouched by rejected writes.
	after, err := s.ListAssistants(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
}

func TestDemoStoreSubscriptions(t *testing.T) {
	s := NewDemoStore()
	ctx := context.Background()

	subs, err := s.ListActiveSubscriptions(ctx, "demo-user")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, model.SubscriptionUniversal, subs[0].Type)

	subs, err = s.ListActiveSubscriptions(ctx, "demo-analyst")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, model.SubscriptionPerAssistant, subs[0].Type)
	require.NotNil(t, subs[0].AssistantID)
	assert.Equal(t, "3", *subs[0].AssistantID)

	subs, err = s.ListActiveSubscriptions(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestDemoStoreNeverFakesAuth(t *testing.T) {
	s := NewDemoStore()
	ctx := context.Background()

	_, err := s.GetUserByEmail(ctx, "demo@example.com")
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	_, err = s.GetUser(ctx, "demo-user")
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	_, err = s.ListUsers(ctx)
	assert.True(t, errors.Is(err, ErrBackendUnavailable))
}

func TestDemoStoreThreadsAreEmpty(t *testing.T) {
	s := NewDemoStore()
	ctx := context.Background()

	threads, err := s.ListThreads(ctx, "demo-user")
	require.NoError(t, err)
	assert.Empty(t, threads)

	_, err = s.GetThread(ctx, "t1")
	assert.ErrorIs(t, err, ErrNotFound)

	messages, err := s.ListMessages(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, messages)
}
