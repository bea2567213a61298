package handler

import (
	"net/http"

	"github.com/alex-clyr/clyr-gpts/internal/access"
	"github.com/alex-clyr/clyr-gpts/internal/middleware"
	"github.com/alex-clyr/clyr-gpts/internal/store"
	"github.com/alex-clyr/clyr-gpts/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AssistantHandler serves the public assistant catalog.
type AssistantHandler struct {
	store   store.Store
	checker *access.Checker
}

// NewAssistantHandler creates an assistant catalog handler
func NewAssistantHandler(s store.Store, checker *access.Checker) *AssistantHandler {
	return &AssistantHandler{store: s, checker: checker}
}

// List handles retrieving the active assistant catalog
func (h *AssistantHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)

	assistants, err := h.store.ListAssistants(c.Request().Context())
	if err != nil {
		log.Error("Failed to list assistants", zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to retrieve assistants"})
	}

	log.Info("Assistants retrieved successfully", zap.Int("count", len(assistants)))
	return c.JSON(http.StatusOK, assistants)
}

// Get handles retrieving a single assistant by ID
func (h *AssistantHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	assistant, err := h.store.GetAssistant(c.Request().Context(), id)
	if err != nil {
		log.Error("Assistant not found",
			zap.String("assistant_id", id),
			zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Assistant not found"})
	}

	return c.JSON(http.StatusOK, assistant)
}

// CheckAccess reports whether the authenticated user may use the assistant
func (h *AssistantHandler) CheckAccess(c echo.Context) error {
	log := logger.FromEcho(c)
	claims := middleware.UserClaims(c)
	id := c.Param("id")

	assistant, err := h.store.GetAssistant(c.Request().Context(), id)
	if err != nil {
		log.Error("Assistant not found for access check",
			zap.String("assistant_id", id),
			zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Assistant not found"})
	}

	allowed, err := h.checker.CheckAccess(c.Request().Context(), claims.UserID, assistant)
	if err != nil {
		log.Error("Access check failed",
			zap.String("assistant_id", id),
			zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to check access"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"assistant_id": assistant.ID,
		"has_access":   allowed,
	})
}
