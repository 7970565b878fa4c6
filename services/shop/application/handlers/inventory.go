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

// CreateInventoryRequest is the request body for POST /inventory.
type CreateInventoryRequest struct {
	Name            string           `json:"name"              validate:"required,min=1,max=255" example:"Steel sheet 2mm"`
	Type            string           `json:"type"              validate:"max=100"                example:"sheet"`
	QuantityInStock int              `json:"quantity_in_stock" validate:"gte=0"                  example:"40"`
	UnitCost        *decimal.Decimal `json:"unit_cost"         validate:"omitempty,gte=0,lte=99999999.99"        example:"12.75" swaggertype:"string"`
	Supplier        string           `json:"supplier"          validate:"max=255"                example:"Northern Metals"`
	ReorderLevel    int              `json:"reorder_level"     validate:"gte=0"                  example:"10"`
} // @name CreateInventoryRequest

// AdjustInventoryRequest is the request body for PATCH /inventory/{id}. Omitted fields are unchanged.
type AdjustInventoryRequest struct {
	Type            *string          `json:"type"              validate:"omitempty,max=100"`
	QuantityInStock *int             `json:"quantity_in_stock" validate:"omitempty,gte=0"`
	UnitCost        *decimal.Decimal `json:"unit_cost"         validate:"omitempty,gte=0,lte=99999999.99" swaggertype:"string"`
	Supplier        *string          `json:"supplier"          validate:"omitempty,max=255"`
	ReorderLevel    *int             `json:"reorder_level"     validate:"omitempty,gte=0"`
} // @name AdjustInventoryRequest

// InventoryResponse is an inventory item with its low-stock flag.
type InventoryResponse struct {
	ID              int64     `json:"id"                example:"1"`
	Name            string    `json:"name"              example:"Steel sheet 2mm"`
	Type            string    `json:"type"              example:"sheet"`
	QuantityInStock int       `json:"quantity_in_stock" example:"40"`
	UnitCost        *string   `json:"unit_cost"         example:"12.75"`
	Supplier        string    `json:"supplier"          example:"Northern Metals"`
	ReorderLevel    int       `json:"reorder_level"     example:"10"`
	LowStock        bool      `json:"low_stock"         example:"false"`
	CreatedAt       time.Time `json:"created_at"`
} // @name InventoryResponse

// RecordUsageRequest is the request body for POST /jobs/{id}/inventory-usage.
type RecordUsageRequest struct {
	InventoryID  int64            `json:"inventory_id"  validate:"required,gt=0"     example:"1"`
	QuantityUsed int              `json:"quantity_used" validate:"required,gt=0"     example:"3"`
	CostPerUnit  *decimal.Decimal `json:"cost_per_unit" validate:"omitempty,gte=0,lte=99999999.99"   example:"12.75" swaggertype:"string"`
} // @name RecordUsageRequest

// RecordUsageResponse is returned by POST /jobs/{id}/inventory-usage.
type RecordUsageResponse struct {
	ID             int64 `json:"id"              example:"1"`
	RemainingStock int   `json:"remaining_stock" example:"37"`
	LowStock       bool  `json:"low_stock"       example:"false"`
} // @name RecordUsageResponse

// UsageResponse is one inventory usage record.
type UsageResponse struct {
	ID           int64     `json:"id"            example:"1"`
	JobID        int64     `json:"job_id"        example:"1"`
	InventoryID  int64     `json:"inventory_id"  example:"1"`
	QuantityUsed int       `json:"quantity_used" example:"3"`
	CostPerUnit  *string   `json:"cost_per_unit" example:"12.75"`
	LineCost     string    `json:"line_cost"     example:"38.25"`
	RecordedAt   time.Time `json:"recorded_at"`
} // @name UsageResponse

func newInventoryResponse(v models.InventoryView) InventoryResponse {
	return InventoryResponse{
		ID:              v.ID,
		Name:            v.Name.String(),
		Type:            v.Type,
		QuantityInStock: v.QuantityInStock,
		UnitCost:        moneyPtr(v.UnitCost),
		Supplier:        v.Supplier,
		ReorderLevel:    v.ReorderLevel,
		LowStock:        v.LowStock,
		CreatedAt:       v.CreatedAt,
	}
}

func inventoryResponses(views []models.InventoryView) []InventoryResponse {
	out := make([]InventoryResponse, 0, len(views))
	for _, v := range views {
		out = append(out, newInventoryResponse(v))
	}
	return out
}

// InventoryHandler serves /inventory and job inventory usage.
type InventoryHandler struct {
	svc *appsvcs.Services
}

// NewInventoryHandler returns an InventoryHandler backed by the given services.
func NewInventoryHandler(svc *appsvcs.Services) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// Create adds an inventory item.
//
//	@Summary	Create inventory item
//	@Tags		inventory
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateInventoryRequest	true	"Item"
//	@Success	201		{object}	IDResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/inventory [post]
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateInventoryRequest](w, r)
	if !ok {
		return
	}
	item, err := h.svc.Inventory.Create(r.Context(), models.NewInventoryItemParams{
		Name:            req.Name,
		Type:            req.Type,
		QuantityInStock: req.QuantityInStock,
		UnitCost:        req.UnitCost,
		Supplier:        req.Supplier,
		ReorderLevel:    req.ReorderLevel,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, IDResponse{ID: item.ID})
}

// List returns all items ordered by name.
//
//	@Summary	List inventory
//	@Tags		inventory
//	@Produce	json
//	@Success	200	{array}		InventoryResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/inventory [get]
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.Inventory.List(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inventoryResponses(views))
}

// LowStock returns items at or below their reorder level.
//
//	@Summary	List low-stock inventory
//	@Tags		inventory
//	@Produce	json
//	@Success	200	{array}		InventoryResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.Inventory.LowStock(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inventoryResponses(views))
}

// Adjust patches an inventory item.
//
//	@Summary	Adjust inventory item
//	@Tags		inventory
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int						true	"Inventory ID"
//	@Param		request	body		AdjustInventoryRequest	true	"Fields to change"
//	@Success	200		{object}	InventoryResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/inventory/{id} [patch]
func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[AdjustInventoryRequest](w, r)
	if !ok {
		return
	}
	v, err := h.svc.Inventory.Adjust(r.Context(), id, models.InventoryPatch{
		Type:            req.Type,
		QuantityInStock: req.QuantityInStock,
		UnitCost:        req.UnitCost,
		Supplier:        req.Supplier,
		ReorderLevel:    req.ReorderLevel,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newInventoryResponse(v))
}

// RecordUsage consumes stock for a job.
//
//	@Summary		Record inventory usage
//	@Description	Decrements stock atomically; fails with 409 when stock is insufficient.
//	@Tags			inventory
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"Job ID"
//	@Param			request	body		RecordUsageRequest	true	"Usage"
//	@Success		201		{object}	RecordUsageResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"Insufficient stock"
//	@Failure		422		{object}	ErrorResponse
//	@Router			/jobs/{id}/inventory-usage [post]
func (h *InventoryHandler) RecordUsage(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[RecordUsageRequest](w, r)
	if !ok {
		return
	}
	u, item, err := h.svc.Inventory.RecordUsage(r.Context(), models.NewInventoryUsageParams{
		JobID:        jobID,
		InventoryID:  req.InventoryID,
		QuantityUsed: req.QuantityUsed,
		CostPerUnit:  req.CostPerUnit,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, RecordUsageResponse{
		ID:             u.ID,
		RemainingStock: item.QuantityInStock,
		LowStock:       item.LowStock,
	})
}

// ListUsage returns the stock a job consumed, oldest first.
//
//	@Summary	List inventory usage for a job
//	@Tags		inventory
//	@Produce	json
//	@Param		id	path		int	true	"Job ID"
//	@Success	200	{array}		UsageResponse
//	@Failure	400	{object}	ErrorResponse
//	@Router		/jobs/{id}/inventory-usage [get]
func (h *InventoryHandler) ListUsage(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	usage, err := h.svc.Inventory.ListUsage(r.Context(), jobID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]UsageResponse, 0, len(usage))
	for _, u := range usage {
		out = append(out, UsageResponse{
			ID:           u.ID,
			JobID:        u.JobID,
			InventoryID:  u.InventoryID,
			QuantityUsed: u.QuantityUsed,
			CostPerUnit:  moneyPtr(u.CostPerUnit),
			LineCost:     u.LineCost().StringFixed(2),
			RecordedAt:   u.RecordedAt,
		})
	}
	httpx.JSON(w, http.StatusOK, out)
}
