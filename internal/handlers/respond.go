package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"cerdas/internal/metrics"
	"cerdas/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON renders a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError maps service errors to HTTP statuses. Unexpected errors are
// logged and hidden behind a generic message.
func respondError(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNoQuestions):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrGameCompleted),
		errors.Is(err, service.ErrGameUnfinished),
		errors.Is(err, service.ErrDuplicateAnswer),
		errors.Is(err, service.ErrOutOfOrder),
		errors.Is(err, service.ErrAlreadyLinked):
		status = http.StatusConflict
	default:
		metrics.HandlerErrors.Inc()
		log.Errorw("handler error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeJSON parses a request body into dst
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return service.ErrValidation
	}
	return nil
}
