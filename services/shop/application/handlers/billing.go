package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/pkg/errhttp"
	"github.com/ghuser/lenos/pkg/httpx"
	pkgvalidator "github.com/ghuser/lenos/pkg/validator"
	appsvcs "github.com/ghuser/lenos/services/shop/application/services"
	"github.com/ghuser/lenos/services/shop/domain/models"
)

// CreateInvoiceRequest is the request body for POST /invoices.
type CreateInvoiceRequest struct {
	JobID   int64            `json:"job_id"   validate:"required,gt=0"                   example:"1"`
	Amount  *decimal.Decimal `json:"amount"   validate:"required,gte=0,lte=99999999.99"                  example:"95.00" swaggertype:"string"`
	DueDate *string          `json:"due_date" validate:"omitempty,datetime=2006-01-02"   example:"2026-11-13"`
} // @name CreateInvoiceRequest

// CreateInvoiceResponse is returned by POST /invoices.
type CreateInvoiceResponse struct {
	ID            int64  `json:"id"             example:"1"`
	InvoiceNumber string `json:"invoice_number" example:"INV-1791990311942"`
} // @name CreateInvoiceResponse

// InvoiceResponse is an invoice joined with its job number and customer name.
type InvoiceResponse struct {
	ID            int64   `json:"id"             example:"1"`
	JobID         int64   `json:"job_id"         example:"1"`
	JobNumber     string  `json:"job_number"     example:"JOB-1791990245123"`
	CustomerName  string  `json:"customer_name"  example:"Acme Fabrication"`
	InvoiceNumber string  `json:"invoice_number" example:"INV-1791990311942"`
	Amount        string  `json:"amount"         example:"95.00"`
	Status        string  `json:"status"         example:"pending"`
	IssueDate     string  `json:"issue_date"     example:"2026-10-14"`
	DueDate       *string `json:"due_date"       example:"2026-11-13"`
	PaidDate      *string `json:"paid_date"`
} // @name InvoiceResponse

// DashboardResponse holds the shop summary figures.
type DashboardResponse struct {
	TotalJobs      int    `json:"total_jobs"       example:"12"`
	InProgressJobs int    `json:"in_progress_jobs" example:"3"`
	CompletedJobs  int    `json:"completed_jobs"   example:"7"`
	TotalRevenue   string `json:"total_revenue"    example:"4210.00"`
} // @name DashboardResponse

// BillingHandler serves /invoices and /dashboard.
type BillingHandler struct {
	svc *appsvcs.Services
}

// NewBillingHandler returns a BillingHandler backed by the given services.
func NewBillingHandler(svc *appsvcs.Services) *BillingHandler {
	return &BillingHandler{svc: svc}
}

// CreateInvoice bills a completed job.
//
//	@Summary		Create invoice
//	@Description	Only completed jobs can be invoiced. A job may be invoiced more than once.
//	@Tags			invoices
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateInvoiceRequest	true	"Invoice"
//	@Success		201		{object}	CreateInvoiceResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"Job not completed"
//	@Failure		422		{object}	ErrorResponse
//	@Router			/invoices [post]
func (h *BillingHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateInvoiceRequest](w, r)
	if !ok {
		return
	}
	due, ok := parseDate(w, "due_date", req.DueDate)
	if !ok {
		return
	}
	inv, err := h.svc.Billing.CreateInvoice(r.Context(), models.NewInvoiceParams{
		JobID:   req.JobID,
		Amount:  *req.Amount,
		DueDate: due,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, CreateInvoiceResponse{ID: inv.ID, InvoiceNumber: inv.InvoiceNumber})
}

// ListInvoices returns all invoices, newest first.
//
//	@Summary	List invoices
//	@Tags		invoices
//	@Produce	json
//	@Success	200	{array}		InvoiceResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/invoices [get]
func (h *BillingHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.Billing.ListInvoices(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]InvoiceResponse, 0, len(views))
	for _, v := range views {
		out = append(out, InvoiceResponse{
			ID:            v.ID,
			JobID:         v.JobID,
			JobNumber:     v.JobNumber,
			CustomerName:  v.CustomerName,
			InvoiceNumber: v.InvoiceNumber,
			Amount:        v.Amount.StringFixed(2),
			Status:        string(v.Status),
			IssueDate:     models.FormatDate(&v.IssueDate),
			DueDate:       datePtr(v.DueDate),
			PaidDate:      datePtr(v.PaidDate),
		})
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Dashboard returns job counts and revenue from completed jobs.
//
//	@Summary	Dashboard statistics
//	@Tags		dashboard
//	@Produce	json
//	@Success	200	{object}	DashboardResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/dashboard [get]
func (h *BillingHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Billing.Dashboard(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, DashboardResponse{
		TotalJobs:      stats.TotalJobs,
		InProgressJobs: stats.InProgressJobs,
		CompletedJobs:  stats.CompletedJobs,
		TotalRevenue:   stats.TotalRevenue.StringFixed(2),
	})
}
