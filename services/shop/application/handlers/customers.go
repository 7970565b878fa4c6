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

// CreateCustomerRequest is the request body for POST /customers.
type CreateCustomerRequest struct {
	Name    string `json:"name"    validate:"required,min=1,max=255" example:"Acme Fabrication"`
	Email   string `json:"email"   validate:"omitempty,email,max=255" example:"ops@acme.test"`
	Phone   string `json:"phone"   validate:"max=50"                 example:"+1 555 0100"`
	Address string `json:"address" validate:"max=500"                example:"1 Foundry Lane"`
} // @name CreateCustomerRequest

// CustomerResponse is a customer as returned by the API.
type CustomerResponse struct {
	ID        int64     `json:"id"         example:"1"`
	Name      string    `json:"name"       example:"Acme Fabrication"`
	Email     string    `json:"email"      example:"ops@acme.test"`
	Phone     string    `json:"phone"      example:"+1 555 0100"`
	Address   string    `json:"address"    example:"1 Foundry Lane"`
	CreatedAt time.Time `json:"created_at" example:"2026-10-14T15:04:05Z"`
} // @name CustomerResponse

// CustomersHandler serves /customers.
type CustomersHandler struct {
	svc *appsvcs.Services
}

// NewCustomersHandler returns a CustomersHandler backed by the given services.
func NewCustomersHandler(svc *appsvcs.Services) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

// Create creates a customer.
//
//	@Summary		Create customer
//	@Tags			customers
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateCustomerRequest	true	"Customer"
//	@Success		201		{object}	IDResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/customers [post]
func (h *CustomersHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateCustomerRequest](w, r)
	if !ok {
		return
	}
	c, err := h.svc.Customers.Create(r.Context(), models.NewCustomerParams{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, IDResponse{ID: c.ID})
}

// List returns all customers, newest first.
//
//	@Summary	List customers
//	@Tags		customers
//	@Produce	json
//	@Success	200	{array}		CustomerResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/customers [get]
func (h *CustomersHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.Customers.List(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, CustomerResponse{
			ID:        c.ID,
			Name:      c.Name.String(),
			Email:     c.Email,
			Phone:     c.Phone,
			Address:   c.Address,
			CreatedAt: c.CreatedAt,
		})
	}
	httpx.JSON(w, http.StatusOK, out)
}
