package shared

import (
	"errors"
	"log/slog"
	"net/http"

	"hrdesk/internal/domain/apperr"
	"hrdesk/internal/transport/http/api"
)

func FailValidation(w http.ResponseWriter, requestID string, issues []apperr.FieldIssue) {
	if issues == nil {
		issues = []apperr.FieldIssue{}
	}
	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		"validation_error",
		"payload validation failed",
		map[string]any{"fields": issues},
		requestID,
	)
}

// WriteError maps a domain error onto the response envelope. Errors outside
// the apperr taxonomy become a 500 with the supplied code and message.
func WriteError(w http.ResponseWriter, err error, failCode, failMessage, requestID string) {
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		api.Fail(w, http.StatusUnauthorized, "unauthorized", err.Error(), requestID)
	case errors.Is(err, apperr.ErrForbidden):
		reason, _ := apperr.ForbiddenReason(err)
		api.FailWithDetails(w, http.StatusForbidden, "forbidden", err.Error(), map[string]any{"reason": reason}, requestID)
	case errors.Is(err, apperr.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, apperr.ErrValidation):
		FailValidation(w, requestID, apperr.Issues(err))
	case errors.Is(err, apperr.ErrConflict):
		api.Fail(w, http.StatusConflict, "conflict", err.Error(), requestID)
	default:
		slog.Error(failMessage, "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, failCode, failMessage, requestID)
	}
}
