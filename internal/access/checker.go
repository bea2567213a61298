package access

import (
	"context"
	"fmt"

	"github.com/alex-clyr/clyr-gpts/internal/model"
	"github.com/alex-clyr/clyr-gpts/internal/store"
	"github.com/alex-clyr/clyr-gpts/prometheus"
	"go.uber.org/zap"
)

// Checker decides whether a user may converse with an assistant.
//
// Access is granted when the assistant's tier is free, when the user holds an
// active universal subscription, or when the user holds an active
// per_assistant subscription scoped to that exact assistant.
//
// FailOpen controls what happens when subscription records cannot be read: a
// transient lookup failure grants access when true and propagates the error
// when false. The integrator picks the policy; it is not hard-coded.
type Checker struct {
	subscriptions store.SubscriptionStore
	failOpen      bool
	logger        *zap.Logger
}

// NewChecker creates an access checker with the given failure policy
func NewChecker(subscriptions store.SubscriptionStore, failOpen bool, logger *zap.Logger) *Checker {
	return &Checker{
		subscriptions: subscriptions,
		failOpen:      failOpen,
		logger:        logger,
	}
}

// CheckAccess reports whether the user may use the assistant.
func (c *Checker) CheckAccess(ctx context.Context, userID string, assistant *model.Assistant) (bool, error) {
	if assistant.SubscriptionType == model.TierFree {
		prometheus.RecordAccessCheck("granted")
		return true, nil
	}

	subs, err := c.subscriptions.ListActiveSubscriptions(ctx, userID)
	if err != nil {
		if c.failOpen {
			prometheus.RecordAccessCheck("fail_open")
			c.logger.Warn("Subscription lookup failed, granting access per fail-open policy",
				zap.String("user_id", userID),
				zap.String("assistant_id", assistant.ID),
				zap.Error(err))
			return true, nil
		}
		prometheus.RecordAccessCheck("fail_closed")
		return false, fmt.Errorf("checking subscriptions: %w", err)
	}

	for _, sub := range subs {
		if sub.Covers(assistant.ID) {
			prometheus.RecordAccessCheck("granted")
			return true, nil
		}
	}

	prometheus.RecordAccessCheck("denied")
	return false, nil
}
