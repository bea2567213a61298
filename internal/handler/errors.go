package handler

import (
	"errors"
	"net/http"

	"github.com/alex-clyr/clyr-gpts/internal/orchestrator"
	"github.com/alex-clyr/clyr-gpts/internal/store"
)

// statusForError maps the service error taxonomy to HTTP statuses.
func statusForError(err error) int {
	var runFailed *orchestrator.RunFailedError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrBackendUnavailable),
		errors.Is(err, orchestrator.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, orchestrator.ErrRunTimeout):
		return http.StatusGatewayTimeout
	case errors.As(err, &runFailed), errors.Is(err, orchestrator.ErrNoReply):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
