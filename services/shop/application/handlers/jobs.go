package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/pkg/errhttp"
	"github.com/ghuser/lenos/pkg/httpx"
	pkgvalidator "github.com/ghuser/lenos/pkg/validator"
	appsvcs "github.com/ghuser/lenos/services/shop/application/services"
	"github.com/ghuser/lenos/services/shop/domain/models"
)

// CreateJobRequest is the request body for POST /jobs.
type CreateJobRequest struct {
	CustomerID    *int64           `json:"customer_id"    validate:"omitempty,gt=0"                   example:"1"`
	Description   string           `json:"description"    validate:"required,min=1,max=2000"          example:"Weld trailer hitch"`
	QuotedPrice   *decimal.Decimal `json:"quoted_price"   validate:"omitempty,gte=0,lte=99999999.99"                  example:"120.50" swaggertype:"string"`
	ScheduledDate *string          `json:"scheduled_date" validate:"omitempty,datetime=2006-01-02"    example:"2026-11-02"`
	Notes         string           `json:"notes"          validate:"max=2000"`
} // @name CreateJobRequest

// CreateJobResponse is returned by POST /jobs.
type CreateJobResponse struct {
	ID        int64  `json:"id"         example:"1"`
	JobNumber string `json:"job_number" example:"JOB-1791990245123"`
} // @name CreateJobResponse

// UpdateJobRequest is the request body for PATCH /jobs/{id}. Omitted fields are unchanged.
type UpdateJobRequest struct {
	CustomerID    *int64           `json:"customer_id"    validate:"omitempty,gt=0"`
	Description   *string          `json:"description"    validate:"omitempty,min=1,max=2000"`
	QuotedPrice   *decimal.Decimal `json:"quoted_price"   validate:"omitempty,gte=0,lte=99999999.99" swaggertype:"string"`
	ActualPrice   *decimal.Decimal `json:"actual_price"   validate:"omitempty,gte=0,lte=99999999.99" swaggertype:"string"`
	ScheduledDate *string          `json:"scheduled_date" validate:"omitempty,datetime=2006-01-02"`
	Notes         *string          `json:"notes"          validate:"omitempty,max=2000"`
} // @name UpdateJobRequest

// ChangeStatusRequest is the request body for PUT /jobs/{id}/status.
type ChangeStatusRequest struct {
	Status      string           `json:"status"       validate:"required"         example:"in_progress" enums:"quoted,in_progress,completed"`
	ActualPrice *decimal.Decimal `json:"actual_price" validate:"omitempty,gte=0,lte=99999999.99"  example:"95.00"       swaggertype:"string"`
} // @name ChangeStatusRequest

// StatusChangeResponse is returned by PUT /jobs/{id}/status.
type StatusChangeResponse struct {
	ID                 int64    `json:"id"                  example:"1"`
	Status             string   `json:"status"              example:"completed"`
	CompletionDate     *string  `json:"completion_date"     example:"2026-10-14"`
	ActualPrice        *string  `json:"actual_price"        example:"95.00"`
	AllowedTransitions []string `json:"allowed_transitions"`
} // @name StatusChangeResponse

// JobResponse is a job joined with its customer name.
type JobResponse struct {
	ID                 int64     `json:"id"                            example:"1"`
	JobNumber          string    `json:"job_number"                    example:"JOB-1791990245123"`
	CustomerID         *int64    `json:"customer_id"                   example:"1"`
	CustomerName       string    `json:"customer_name"                 example:"Acme Fabrication"`
	Description        string    `json:"description"                   example:"Weld trailer hitch"`
	Status             string    `json:"status"                        example:"quoted"`
	QuotedPrice        *string   `json:"quoted_price"                  example:"120.50"`
	ActualPrice        *string   `json:"actual_price"`
	QuotedDate         string    `json:"quoted_date"                   example:"2026-10-14"`
	ScheduledDate      *string   `json:"scheduled_date"`
	CompletionDate     *string   `json:"completion_date"`
	Notes              string    `json:"notes"`
	CreatedAt          time.Time `json:"created_at"`
	AllowedTransitions []string  `json:"allowed_transitions,omitempty"`
} // @name JobResponse

func newJobResponse(v *models.JobView) JobResponse {
	return JobResponse{
		ID:             v.ID,
		JobNumber:      v.JobNumber,
		CustomerID:     v.CustomerID,
		CustomerName:   v.CustomerName,
		Description:    v.Description,
		Status:         v.Status.String(),
		QuotedPrice:    moneyPtr(v.QuotedPrice),
		ActualPrice:    moneyPtr(v.ActualPrice),
		QuotedDate:     models.FormatDate(&v.QuotedDate),
		ScheduledDate:  datePtr(v.ScheduledDate),
		CompletionDate: datePtr(v.CompletionDate),
		Notes:          v.Notes,
		CreatedAt:      v.CreatedAt,
	}
}

func newJobDetailResponse(v *models.JobView) JobResponse {
	resp := newJobResponse(v)
	resp.AllowedTransitions = statusStrings(v.Status.AllowedTransitions())
	return resp
}

// JobsHandler serves /jobs and its sub-resources.
type JobsHandler struct {
	svc *appsvcs.Services
}

// NewJobsHandler returns a JobsHandler backed by the given services.
func NewJobsHandler(svc *appsvcs.Services) *JobsHandler {
	return &JobsHandler{svc: svc}
}

// Create opens a new job in status quoted.
//
//	@Summary		Create job
//	@Description	Creates a quoted job and assigns it a JOB- number.
//	@Tags			jobs
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateJobRequest	true	"Job"
//	@Success		201		{object}	CreateJobResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse	"Customer not found"
//	@Failure		422		{object}	ErrorResponse
//	@Router			/jobs [post]
func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateJobRequest](w, r)
	if !ok {
		return
	}
	scheduled, ok := parseDate(w, "scheduled_date", req.ScheduledDate)
	if !ok {
		return
	}
	job, err := h.svc.Jobs.Create(r.Context(), models.NewJobParams{
		CustomerID:    req.CustomerID,
		Description:   req.Description,
		QuotedPrice:   req.QuotedPrice,
		ScheduledDate: scheduled,
		Notes:         req.Notes,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, CreateJobResponse{ID: job.ID, JobNumber: job.JobNumber})
}

// List returns all jobs, newest first.
//
//	@Summary	List jobs
//	@Tags		jobs
//	@Produce	json
//	@Success	200	{array}		JobResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/jobs [get]
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.Jobs.List(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]JobResponse, 0, len(views))
	for _, v := range views {
		out = append(out, newJobResponse(v))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Get returns one job with the statuses it may move to next.
//
//	@Summary	Get job
//	@Tags		jobs
//	@Produce	json
//	@Param		id	path		int	true	"Job ID"
//	@Success	200	{object}	JobResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/jobs/{id} [get]
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	v, err := h.svc.Jobs.Get(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newJobDetailResponse(v))
}

// Update patches a job's descriptive fields.
//
//	@Summary		Update job
//	@Description	Status and completion date are not patchable; use PUT /jobs/{id}/status.
//	@Tags			jobs
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"Job ID"
//	@Param			request	body		UpdateJobRequest	true	"Fields to change"
//	@Success		200		{object}	JobResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/jobs/{id} [patch]
func (h *JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[UpdateJobRequest](w, r)
	if !ok {
		return
	}
	scheduled, ok := parseDate(w, "scheduled_date", req.ScheduledDate)
	if !ok {
		return
	}
	v, err := h.svc.Jobs.Update(r.Context(), id, models.JobPatch{
		CustomerID:    req.CustomerID,
		Description:   req.Description,
		QuotedPrice:   req.QuotedPrice,
		ActualPrice:   req.ActualPrice,
		ScheduledDate: scheduled,
		Notes:         req.Notes,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newJobDetailResponse(v))
}

// ChangeStatus moves a job along its lifecycle.
//
//	@Summary		Change job status
//	@Description	Allowed steps are quoted to in_progress and in_progress to completed.
//	@Tags			jobs
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"Job ID"
//	@Param			request	body		ChangeStatusRequest	true	"Target status"
//	@Success		200		{object}	StatusChangeResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"Invalid transition"
//	@Failure		422		{object}	ErrorResponse
//	@Router			/jobs/{id}/status [put]
func (h *JobsHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[ChangeStatusRequest](w, r)
	if !ok {
		return
	}
	job, err := h.svc.Jobs.ChangeStatus(r.Context(), id, req.Status, req.ActualPrice)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, StatusChangeResponse{
		ID:                 job.ID,
		Status:             job.Status.String(),
		CompletionDate:     datePtr(job.CompletionDate),
		ActualPrice:        moneyPtr(job.ActualPrice),
		AllowedTransitions: statusStrings(job.Status.AllowedTransitions()),
	})
}
