package handler

import (
	"errors"
	"net/http"

	"github.com/alex-clyr/clyr-gpts/internal/access"
	"github.com/alex-clyr/clyr-gpts/internal/middleware"
	"github.com/alex-clyr/clyr-gpts/internal/model"
	"github.com/alex-clyr/clyr-gpts/internal/orchestrator"
	"github.com/alex-clyr/clyr-gpts/internal/store"
	"github.com/alex-clyr/clyr-gpts/pkg/logger"
	"github.com/alex-clyr/clyr-gpts/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FileRequest is one attachment reference in a send-message request. The file
// must already be uploaded to the assistant API; only its identifier travels
// through here.
type FileRequest struct {
	Name   string `json:"name"`
	FileID string `json:"file_id"`
	URL    string `json:"url,omitempty"`
}

// ChatHandler serves thread and message operations.
type ChatHandler struct {
	store   store.Store
	orch    orchestrator.Orchestrator
	checker *access.Checker
}

// NewChatHandler creates a chat handler
func NewChatHandler(s store.Store, orch orchestrator.Orchestrator, checker *access.Checker) *ChatHandler {
	return &ChatHandler{store: s, orch: orch, checker: checker}
}

// ListThreads handles retrieving the user's threads, most recent first
func (h *ChatHandler) ListThreads(c echo.Context) error {
	log := logger.FromEcho(c)
	claims := middleware.UserClaims(c)

	threads, err := h.store.ListThreads(c.Request().Context(), claims.UserID)
	if err != nil {
		log.Error("Failed to list threads", zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to retrieve threads"})
	}

	return c.JSON(http.StatusOK, threads)
}

// CreateThread allocates a remote conversation context and persists the thread
func (h *ChatHandler) CreateThread(c echo.Context) error {
	log := logger.FromEcho(c)
	claims := middleware.UserClaims(c)

	var req struct {
		AssistantID string `json:"assistant_id"`
		Title       string `json:"title"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if req.AssistantID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "assistant_id is required"})
	}

	assistant, err := h.store.GetAssistant(c.Request().Context(), req.AssistantID)
	if err != nil {
		log.Error("Assistant not found",
			zap.String("assistant_id", req.AssistantID),
			zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Assistant not found"})
	}
	if !assistant.Active {
		log.Warn("Thread requested for inactive assistant",
			zap.String("assistant_id", assistant.ID))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Assistant is not available"})
	}

	allowed, err := h.checker.CheckAccess(c.Request().Context(), claims.UserID, assistant)
	if err != nil {
		log.Error("Access check failed", zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to check access"})
	}
	if !allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Subscription required for this assistant"})
	}

	conversationID, err := h.orch.CreateConversation(c.Request().Context())
	if err != nil {
		log.Error("Failed to create conversation context",
			zap.String("assistant_id", assistant.ID),
			zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to create thread"})
	}

	title := req.Title
	if title == "" {
		title = "Chat with " + assistant.Name
	}

	thread := model.Thread{
		UserID:         claims.UserID,
		AssistantID:    assistant.ID,
		Title:          title,
		OpenAIThreadID: conversationID,
	}

	if err := h.store.CreateThread(c.Request().Context(), &thread); err != nil {
		log.Error("Failed to persist thread", zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to create thread"})
	}

	log.Info("Thread created",
		zap.String("thread_id", thread.ID),
		zap.String("assistant_id", assistant.ID))
	return c.JSON(http.StatusCreated, thread)
}

// ListMessages handles retrieving a thread's messages in send order
func (h *ChatHandler) ListMessages(c echo.Context) error {
	log := logger.FromEcho(c)
	claims := middleware.UserClaims(c)
	threadID := c.Param("id")

	thread, err := h.store.GetThread(c.Request().Context(), threadID)
	if err != nil {
		log.Error("Thread not found",
			zap.String("thread_id", threadID),
			zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Thread not found"})
	}
	if thread.UserID != claims.UserID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Not your thread"})
	}

	messages, err := h.store.ListMessages(c.Request().Context(), threadID)
	if err != nil {
		log.Error("Failed to list messages",
			zap.String("thread_id", threadID),
			zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to retrieve messages"})
	}

	return c.JSON(http.StatusOK, messages)
}

// SendMessage posts a user message, drives the assistant run to completion
// and persists both sides of the exchange
func (h *ChatHandler) SendMessage(c echo.Context) error {
	log := logger.FromEcho(c)
	claims := middleware.UserClaims(c)
	threadID := c.Param("id")

	var req struct {
		Message string        `json:"message"`
		Files   []FileRequest `json:"files,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message is required"})
	}

	thread, err := h.store.GetThread(c.Request().Context(), threadID)
	if err != nil {
		log.Error("Thread not found",
			zap.String("thread_id", threadID),
			zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Thread not found"})
	}
	if thread.UserID != claims.UserID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Not your thread"})
	}

	assistant, err := h.store.GetAssistant(c.Request().Context(), thread.AssistantID)
	if err != nil {
		log.Error("Assistant not found for thread",
			zap.String("thread_id", threadID),
			zap.String("assistant_id", thread.AssistantID),
			zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Assistant not found"})
	}

	allowed, err := h.checker.CheckAccess(c.Request().Context(), claims.UserID, assistant)
	if err != nil {
		log.Error("Access check failed", zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to check access"})
	}
	if !allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Subscription required for this assistant"})
	}

	// Persist the user's turn before contacting the assistant API.
	userMessage := model.Message{
		ThreadID: thread.ID,
		Role:     model.MessageRoleUser,
		Content:  req.Message,
	}
	fileRefs := make([]model.FileRef, 0, len(req.Files))
	attachments := make([]orchestrator.Attachment, 0, len(req.Files))
	for _, f := range req.Files {
		fileRefs = append(fileRefs, model.FileRef{Name: f.Name, ID: f.FileID, URL: f.URL})
		attachments = append(attachments, orchestrator.Attachment{FileID: f.FileID, Name: f.Name})
	}
	if err := userMessage.SetFiles(fileRefs); err != nil {
		log.Error("Failed to encode attachments", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid attachments"})
	}
	if err := h.store.CreateMessage(c.Request().Context(), &userMessage); err != nil {
		log.Error("Failed to persist user message",
			zap.String("thread_id", thread.ID),
			zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to send message"})
	}

	reply, err := h.orch.SendMessage(
		c.Request().Context(),
		thread.OpenAIThreadID,
		assistant.OpenAIAssistantID,
		req.Message,
		attachments,
	)
	if err != nil {
		prometheus.RecordChatRun(runOutcomeLabel(err))
		log.Error("Assistant run failed",
			zap.String("thread_id", thread.ID),
			zap.String("assistant_id", assistant.ID),
			zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to get response from assistant"})
	}
	prometheus.RecordChatRun("completed")

	assistantMessage := model.Message{
		ThreadID: thread.ID,
		Role:     model.MessageRoleAssistant,
		Content:  reply,
	}
	if err := h.store.CreateMessage(c.Request().Context(), &assistantMessage); err != nil {
		log.Error("Failed to persist assistant reply",
			zap.String("thread_id", thread.ID),
			zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": "Failed to store assistant reply"})
	}

	if err := h.store.TouchThread(c.Request().Context(), thread.ID); err != nil {
		// The reply was produced and stored; a stale last_message_at is not
		// worth failing the request over.
		log.Warn("Failed to advance thread last_message_at",
			zap.String("thread_id", thread.ID),
			zap.Error(err))
	}

	log.Info("Assistant reply delivered",
		zap.String("thread_id", thread.ID),
		zap.String("assistant_id", assistant.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"message": reply,
	})
}

// runOutcomeLabel buckets an orchestrator error for metrics.
func runOutcomeLabel(err error) string {
	var runFailed *orchestrator.RunFailedError
	switch {
	case errors.As(err, &runFailed):
		return "failed"
	case errors.Is(err, orchestrator.ErrRunTimeout):
		return "timeout"
	case errors.Is(err, orchestrator.ErrNoReply):
		return "no_reply"
	default:
		return "unavailable"
	}
}
