package handler

import (
	"net/http"

	"github.com/alex-clyr/clyr-gpts/internal/middleware"
	"github.com/alex-clyr/clyr-gpts/internal/store"
	"github.com/alex-clyr/clyr-gpts/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SubscriptionHandler serves the user's own subscription grants. Grants are
// created by the billing collaborator; this surface is read-only.
type SubscriptionHandler struct {
	store store.Store
}

// NewSubscriptionHandler creates a subscription handler
func NewSubscriptionHandler(s store.Store) *SubscriptionHandler {
	return &SubscriptionHandler{store: s}
}

// ListMine returns the authenticated user's active subscriptions
func (h *SubscriptionHandler) ListMine(c echo.Context) error {
	log := logger.FromEcho(c)
	claims := middleware.UserClaims(c)

	subs, err := h.store.ListActiveSubscriptions(c.Request().Context(), claims.UserID)
	if err != nil {
		log.Error("Failed to list subscriptions", zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to retrieve subscriptions"})
	}

	return c.JSON(http.StatusOK, subs)
}
