// Package errhttp maps shop domain errors to HTTP status codes and
// {"error", "details"} response bodies.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/lenos/pkg/httpx"
	"github.com/ghuser/lenos/services/shop/domain"
)

// internalMessage replaces the text of unrecognized errors so driver and
// SQL details never reach the client.
const internalMessage = "internal server error"

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	status := mapErrorToStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = internalMessage
	}
	httpx.JSONErrorDetails(w, status, msg, details(err))
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrPrecondition),
		errors.Is(err, domain.ErrDuplicateNumber),
		errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict // 409
	default:
		return http.StatusInternalServerError // 500
	}
}

// details extracts the structured fields of the typed domain errors.
// Returns nil when err carries none.
func details(err error) map[string]any {
	var (
		ve *domain.ValidationError
		nf *domain.NotFoundError
		it *domain.InvalidTransitionError
		pe *domain.PreconditionError
	)
	switch {
	case errors.As(err, &ve):
		return map[string]any{"field": ve.Field, "reason": ve.Reason}
	case errors.As(err, &nf):
		return map[string]any{"kind": nf.Kind, "id": nf.ID}
	case errors.As(err, &it):
		return map[string]any{"job_id": it.JobID, "current": it.From, "requested": it.To}
	case errors.As(err, &pe):
		return map[string]any{"job_id": pe.JobID, "status": pe.Status}
	}
	return nil
}
