package handlers

import (
	"net/http"
	"time"

	"github.com/ghuser/lenos/pkg/errhttp"
	"github.com/ghuser/lenos/pkg/httpx"
	pkgvalidator "github.com/ghuser/lenos/pkg/validator"
	appsvcs "github.com/ghuser/lenos/services/shop/application/services"
	"github.com/ghuser/lenos/services/shop/domain/models"
)

// CreateQualityCheckRequest is the request body for POST /quality-checks.
type CreateQualityCheckRequest struct {
	JobID     int64  `json:"job_id"     validate:"required,gt=0"           example:"1"`
	CheckType string `json:"check_type" validate:"required,min=1,max=100"  example:"weld penetration"`
	Result    string `json:"result"     validate:"required,min=1,max=100"  example:"pass"`
	Notes     string `json:"notes"      validate:"max=2000"`
	CheckedBy string `json:"checked_by" validate:"max=255"                 example:"sam"`
} // @name CreateQualityCheckRequest

// QualityCheckResponse is one inspection record.
type QualityCheckResponse struct {
	ID        int64     `json:"id"         example:"1"`
	JobID     int64     `json:"job_id"     example:"1"`
	CheckType string    `json:"check_type" example:"weld penetration"`
	Result    string    `json:"result"     example:"pass"`
	Notes     string    `json:"notes"`
	CheckedBy string    `json:"checked_by" example:"sam"`
	CheckedAt time.Time `json:"checked_at"`
} // @name QualityCheckResponse

// QualityChecksHandler serves /quality-checks.
type QualityChecksHandler struct {
	svc *appsvcs.Services
}

// NewQualityChecksHandler returns a QualityChecksHandler backed by the given services.
func NewQualityChecksHandler(svc *appsvcs.Services) *QualityChecksHandler {
	return &QualityChecksHandler{svc: svc}
}

// Create records an inspection against a job. The job's status is not affected.
//
//	@Summary	Record quality check
//	@Tags		quality-checks
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateQualityCheckRequest	true	"Check"
//	@Success	201		{object}	IDResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/quality-checks [post]
func (h *QualityChecksHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateQualityCheckRequest](w, r)
	if !ok {
		return
	}
	qc, err := h.svc.QualityChecks.Record(r.Context(), models.NewQualityCheckParams{
		JobID:     req.JobID,
		CheckType: req.CheckType,
		Result:    req.Result,
		Notes:     req.Notes,
		CheckedBy: req.CheckedBy,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, IDResponse{ID: qc.ID})
}

// ListByJob returns a job's checks, newest first.
//
//	@Summary	List quality checks for a job
//	@Tags		quality-checks
//	@Produce	json
//	@Param		jobId	path		int	true	"Job ID"
//	@Success	200		{array}		QualityCheckResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/quality-checks/{jobId} [get]
func (h *QualityChecksHandler) ListByJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(w, r, "jobId")
	if !ok {
		return
	}
	checks, err := h.svc.QualityChecks.ListByJob(r.Context(), jobID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]QualityCheckResponse, 0, len(checks))
	for _, qc := range checks {
		out = append(out, QualityCheckResponse{
			ID:        qc.ID,
			JobID:     qc.JobID,
			CheckType: qc.CheckType,
			Result:    qc.Result,
			Notes:     qc.Notes,
			CheckedBy: qc.CheckedBy,
			CheckedAt: qc.CheckedAt,
		})
	}
	httpx.JSON(w, http.StatusOK, out)
}
