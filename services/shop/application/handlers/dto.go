package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/pkg/httpx"
	"github.com/ghuser/lenos/services/shop/domain/models"
)

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error   string         `json:"error"             example:"job 7 not found"`
	Details map[string]any `json:"details,omitempty"`
} // @name ErrorResponse

// IDResponse is returned when a record is created.
type IDResponse struct {
	ID int64 `json:"id" example:"1"`
} // @name IDResponse

func moneyPtr(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.StringFixed(2)
	return &s
}

func datePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := models.FormatDate(t)
	return &s
}

func statusStrings(ss []models.JobStatus) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, s.String())
	}
	return out
}

// pathID parses the named URL parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := httpx.IDParam(r, name)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return id, true
}

// parseDate converts a validated YYYY-MM-DD request field, writing a 422 on failure.
func parseDate(w http.ResponseWriter, field string, s *string) (*time.Time, bool) {
	if s == nil {
		return nil, true
	}
	t, err := models.ParseDate(field, *s)
	if err != nil {
		httpx.JSONErrorDetails(w, http.StatusUnprocessableEntity, "Validation failed", map[string]any{field: err.Error()})
		return nil, false
	}
	return t, true
}
