package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"purchasing/internal/core/apperror"
	"purchasing/internal/core/id"
	"purchasing/internal/domain"
	"purchasing/internal/domain/documents/purchase_order"
	"purchasing/internal/domain/lifecycle"
	"purchasing/internal/infrastructure/http/v1/dto"
	"purchasing/internal/infrastructure/storage/postgres"
)

// PurchaseOrderHandler handles HTTP requests for purchase order documents.
type PurchaseOrderHandler struct {
	*BaseHandler
	service *purchase_order.Service
	audit   *postgres.AuditService
}

// NewPurchaseOrderHandler creates a new purchase order handler. audit may be
// nil, the history endpoint then reports not found.
func NewPurchaseOrderHandler(base *BaseHandler, service *purchase_order.Service, audit *postgres.AuditService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		BaseHandler: base,
		service:     service,
		audit:       audit,
	}
}

// List handles GET /document/purchase-orders - list with filtering.
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := purchase_order.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "date DESC")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	if supplierID := c.Query("supplierId"); supplierID != "" {
		parsed, err := id.Parse(supplierID)
		if err == nil {
			filter.SupplierID = &parsed
		}
	}

	if warehouseID := c.Query("warehouseId"); warehouseID != "" {
		parsed, err := id.Parse(warehouseID)
		if err == nil {
			filter.WarehouseID = &parsed
		}
	}

	if recStatus := c.Query("recStatus"); recStatus != "" {
		val := h.ParseIntQuery(c, "recStatus", 0)
		filter.RecordStatus = &val
	}

	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if parsed, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			filter.DateFrom = &parsed
		}
	}

	if dateTo := c.Query("dateTo"); dateTo != "" {
		if parsed, err := time.Parse(time.RFC3339, dateTo); err == nil {
			filter.DateTo = &parsed
		}
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.PurchaseOrderResponse, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromPurchaseOrder(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Create handles POST /document/purchase-orders.
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity()

	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromPurchaseOrder(doc))
}

// Get handles GET /document/purchase-orders/:id. The path parameter is the
// document UUID; a value that is not a UUID is treated as a document number.
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	doc, err := h.resolve(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromPurchaseOrder(doc))
}

// Update handles PUT /document/purchase-orders/:id.
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdatePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(doc)

	if err := h.service.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromPurchaseOrder(doc))
}

// Cancel handles POST /document/purchase-orders/:id/cancel. The request body
// must carry confirm=true; a passing guard check alone is not sufficient.
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	doc, err := h.resolve(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.CancelPurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if !req.Confirm {
		h.Error(c, apperror.NewValidation("cancellation requires explicit confirmation").
			WithDetail("field", "confirm"))
		return
	}

	if err := h.service.Cancel(ctx, doc.RunNo); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "document cancelled")
}

// CheckStatus handles GET /document/purchase-orders/:id/status. The mode
// query parameter selects the action to evaluate: edit (default) or cancel.
// The snapshot behind the decision is always read fresh from storage.
func (h *PurchaseOrderHandler) CheckStatus(c *gin.Context) {
	ctx := c.Request.Context()

	doc, err := h.resolve(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	mode := lifecycle.ModeEdit
	switch c.DefaultQuery("mode", "edit") {
	case "edit":
	case "cancel":
		mode = lifecycle.ModeCancel
	default:
		h.Error(c, apperror.NewValidation("mode must be edit or cancel"))
		return
	}

	decision, err := h.service.CheckStatus(ctx, doc.RunNo, mode)
	if err != nil {
		h.Error(c, err)
		return
	}

	state, err := h.service.State(ctx, decision.Snapshot)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromDecision(decision, state))
}

// SubmitApproval handles POST /document/purchase-orders/:id/approval.
func (h *PurchaseOrderHandler) SubmitApproval(c *gin.Context) {
	ctx := c.Request.Context()

	doc, err := h.resolve(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.SubmitApprovalRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SubmitApproval(ctx, doc.RunNo, req.Level, req.Action, req.Comment); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "approval submitted")
}

// History handles GET /document/purchase-orders/:id/history.
func (h *PurchaseOrderHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	if h.audit == nil {
		h.Error(c, apperror.NewNotFound("audit trail", c.Param("id")))
		return
	}

	doc, err := h.resolve(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)

	entries, err := h.audit.GetEntityHistory(ctx, "purchase_order", doc.ID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.AuditEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = dto.FromAuditEntry(e)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// resolve loads the document addressed by the :id path parameter, by UUID or
// by document number.
func (h *PurchaseOrderHandler) resolve(c *gin.Context) (*purchase_order.PurchaseOrder, error) {
	ctx := c.Request.Context()
	param := c.Param("id")

	if docID, err := id.Parse(param); err == nil {
		return h.service.GetByID(ctx, docID)
	}
	return h.service.GetByNumber(ctx, param)
}
