package access

import (
	"context"
	"errors"
	"testing"

	"github.com/alex-clyr/clyr-gpts/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSubscriptions struct {
	subs []model.Subscription
	err  error
}

func (f *fakeSubscriptions) ListActiveSubscriptions(ctx context.Context, userID string) ([]model.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Subscription
	for _, s := range f.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubscriptions) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	return f.subs, f.err
}

func strPtrT(s string) *string { return &s }

func assistantWithTier(id, tier string) *model.Assistant {
	return &model.Assistant{
		ID:                id,
		Name:              "Assistant " + id,
		SubscriptionType:  tier,
		OpenAIAssistantID: "asst_" + id,
		Active:            true,
	}
}

func TestFreeAssistantAlwaysAccessible(t *testing.T) {
	// No subscription records at all; free assistants still open.
	checker := NewChecker(&fakeSubscriptions{}, false, zap.NewNop())

	allowed, err := checker.CheckAccess(context.Background(), "anyone", assistantWithTier("a1", model.TierFree))
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestUniversalSubscriptionCoversAllPaidAssistants(t *testing.T) {
	subs := &fakeSubscriptions{subs: []model.Subscription{
		{ID: "s1", UserID: "u1", Type: model.SubscriptionUniversal, Status: model.SubscriptionActive},
	}}
	checker := NewChecker(subs, false, zap.NewNop())

	for _, tier := range []string{model.TierPremium, model.TierPerAssistant} {
		allowed, err := checker.CheckAccess(context.Background(), "u1", assistantWithTier("a1", tier))
		require.NoError(t, err)
		assert.True(t, allowed, "tier %s", tier)
	}

	// Another user holds no grant.
	allowed, err := checker.CheckAccess(context.Background(), "u2", assistantWithTier("a1", model.TierPremium))
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestPerAssistantSubscriptionIsScoped(t *testing.T) {
	subs := &fakeSubscriptions{subs: []model.Subscription{
		{ID: "s1", UserID: "u1", Type: model.SubscriptionPerAssistant, AssistantID: strPtrT("a1"), Status: model.SubscriptionActive},
	}}
	checker := NewChecker(subs, false, zap.NewNop())

	allowed, err := checker.CheckAccess(context.Background(), "u1", assistantWithTier("a1", model.TierPerAssistant))
	require.NoError(t, err)
	assert.True(t, allowed)

	// The grant does not extend to a different assistant.
	allowed, err = checker.CheckAccess(context.Background(), "u1", assistantWithTier("a2", model.TierPerAssistant))
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestInactiveSubscriptionGrantsNothing(t *testing.T) {
	subs := &fakeSubscriptions{subs: []model.Subscription{
		{ID: "s1", UserID: "u1", Type: model.SubscriptionUniversal, Status: model.SubscriptionInactive},
	}}
	checker := NewChecker(subs, false, zap.NewNop())

	allowed, err := checker.CheckAccess(context.Background(), "u1", assistantWithTier("a1", model.TierPremium))
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestLookupFailurePolicy(t *testing.T) {
	lookupErr := errors.New("subscriptions table unreachable")

	// Fail-open: a broken lookup grants access.
	open := NewChecker(&fakeSubscriptions{err: lookupErr}, true, zap.NewNop())
	allowed, err := open.CheckAccess(context.Background(), "u1", assistantWithTier("a1", model.TierPremium))
	require.NoError(t, err)
	assert.True(t, allowed)

	// Fail-closed: the error propagates and access is withheld.
	closed := NewChecker(&fakeSubscriptions{err: lookupErr}, false, zap.NewNop())
	allowed, err = closed.CheckAccess(context.Background(), "u1", assistantWithTier("a1", model.TierPremium))
	require.Error(t, err)
	assert.ErrorIs(t, err, lookupErr)
	assert.False(t, allowed)

	// Free assistants never consult the subscription table, so the broken
	// lookup is irrelevant either way.
	allowed, err = closed.CheckAccess(context.Background(), "u1", assistantWithTier("a1", model.TierFree))
	require.NoError(t, err)
	assert.True(t, allowed)
}
