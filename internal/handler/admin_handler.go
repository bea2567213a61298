package handler

import (
	"net/http"

	"github.com/alex-clyr/clyr-gpts/internal/model"
	"github.com/alex-clyr/clyr-gpts/internal/store"
	"github.com/alex-clyr/clyr-gpts/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AssistantRequest defines the structure for assistant creation/update requests
type AssistantRequest struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	AvatarURL         string `json:"avatar_url"`
	Category          string `json:"category"`
	SubscriptionType  string `json:"subscription_type"`
	OpenAIAssistantID string `json:"openai_assistant_id"`
	Active            *bool  `json:"active,omitempty"`
}

// AdminHandler serves the admin dashboard API.
type AdminHandler struct {
	store store.Store
}

// NewAdminHandler creates an admin handler
func NewAdminHandler(s store.Store) *AdminHandler {
	return &AdminHandler{store: s}
}

// ListAssistants returns every assistant, including deactivated ones
func (h *AdminHandler) ListAssistants(c echo.Context) error {
	log := logger.FromEcho(c)

	assistants, err := h.store.ListAllAssistants(c.Request().Context())
	if err != nil {
		log.Error("Failed to list assistants", zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to retrieve assistants"})
	}

	return c.JSON(http.StatusOK, assistants)
}

// CreateAssistant handles creating a new assistant
func (h *AdminHandler) CreateAssistant(c echo.Context) error {
	log := logger.FromEcho(c)

	var req AssistantRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if req.Name == "" || req.OpenAIAssistantID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and openai_assistant_id are required"})
	}
	if req.SubscriptionType == "" {
		req.SubscriptionType = model.TierFree
	}
	if !model.ValidTier(req.SubscriptionType) {
		log.Warn("Invalid subscription type", zap.String("subscription_type", req.SubscriptionType))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "subscription_type must be free, premium or per_assistant"})
	}

	assistant := model.Assistant{
		Name:              req.Name,
		Description:       req.Description,
		AvatarURL:         req.AvatarURL,
		Category:          req.Category,
		SubscriptionType:  req.SubscriptionType,
		OpenAIAssistantID: req.OpenAIAssistantID,
		Active:            true,
	}

	if err := h.store.CreateAssistant(c.Request().Context(), &assistant); err != nil {
		log.Error("Failed to create assistant",
			zap.String("name", req.Name),
			zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to create assistant"})
	}

	log.Info("Assistant created",
		zap.String("assistant_id", assistant.ID),
		zap.String("name", assistant.Name),
		zap.String("subscription_type", assistant.SubscriptionType))
	return c.JSON(http.StatusCreated, assistant)
}

// UpdateAssistant handles updating an existing assistant
func (h *AdminHandler) UpdateAssistant(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var req AssistantRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data",
			zap.String("assistant_id", id),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	assistant, err := h.store.GetAssistant(c.Request().Context(), id)
	if err != nil {
		log.Error("Assistant not found for update",
			zap.String("assistant_id", id),
			zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Assistant not found"})
	}

	if req.SubscriptionType != "" && !model.ValidTier(req.SubscriptionType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "subscription_type must be free, premium or per_assistant"})
	}

	if req.Name != "" {
		assistant.Name = req.Name
	}
	if req.Description != "" {
		assistant.Description = req.Description
	}
	if req.AvatarURL != "" {
		assistant.AvatarURL = req.AvatarURL
	}
	if req.Category != "" {
		assistant.Category = req.Category
	}
	if req.SubscriptionType != "" {
		assistant.SubscriptionType = req.SubscriptionType
	}
	if req.OpenAIAssistantID != "" {
		assistant.OpenAIAssistantID = req.OpenAIAssistantID
	}
	if req.Active != nil {
		assistant.Active = *req.Active
	}

	if err := h.store.UpdateAssistant(c.Request().Context(), assistant); err != nil {
		log.Error("Failed to update assistant",
			zap.String("assistant_id", id),
			zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to update assistant"})
	}

	log.Info("Assistant updated",
		zap.String("assistant_id", id),
		zap.String("name", assistant.Name))
	return c.JSON(http.StatusOK, assistant)
}

// DeactivateAssistant soft-disables an assistant; assistants are never hard-deleted
func (h *AdminHandler) DeactivateAssistant(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	if err := h.store.DeactivateAssistant(c.Request().Context(), id); err != nil {
		log.Error("Failed to deactivate assistant",
			zap.String("assistant_id", id),
			zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to deactivate assistant"})
	}

	log.Info("Assistant deactivated", zap.String("assistant_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Assistant deactivated"})
}

// ListUsers returns all registered users
func (h *AdminHandler) ListUsers(c echo.Context) error {
	log := logger.FromEcho(c)

	users, err := h.store.ListUsers(c.Request().Context())
	if err != nil {
		log.Error("Failed to list users", zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to retrieve users"})
	}

	return c.JSON(http.StatusOK, users)
}

// ListSubscriptions returns all subscription grants
func (h *AdminHandler) ListSubscriptions(c echo.Context) error {
	log := logger.FromEcho(c)

	subs, err := h.store.ListSubscriptions(c.Request().Context())
	if err != nil {
		log.Error("Failed to list subscriptions", zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to retrieve subscriptions"})
	}

	return c.JSON(http.StatusOK, subs)
}

// Stats returns the counts shown on the admin overview cards
func (h *AdminHandler) Stats(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	assistants, err := h.store.ListAllAssistants(ctx)
	if err != nil {
		log.Error("Failed to count assistants", zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to retrieve stats"})
	}

	active := 0
	for _, a := range assistants {
		if a.Active {
			active++
		}
	}

	users, err := h.store.ListUsers(ctx)
	if err != nil {
		log.Error("Failed to count users", zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to retrieve stats"})
	}

	subs, err := h.store.ListSubscriptions(ctx)
	if err != nil {
		log.Error("Failed to count subscriptions", zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to retrieve stats"})
	}

	activeSubs := 0
	for _, s := range subs {
		if s.Status == model.SubscriptionActive {
			activeSubs++
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"assistants": echo.Map{
			"total":  len(assistants),
			"active": active,
		},
		"users": echo.Map{
			"total": len(users),
		},
		"subscriptions": echo.Map{
			"total":  len(subs),
			"active": activeSubs,
		},
	})
}
