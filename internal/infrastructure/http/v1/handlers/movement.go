package handlers

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/ledger"
	"stockbook/internal/domain/period"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// MovementHandler serves stock movement endpoints.
type MovementHandler struct {
	*BaseHandler
	ledger *ledger.Service
}

// NewMovementHandler creates a movement handler.
func NewMovementHandler(base *BaseHandler, svc *ledger.Service) *MovementHandler {
	return &MovementHandler{BaseHandler: base, ledger: svc}
}

// Apply handles POST /movements.
func (h *MovementHandler) Apply(c *gin.Context) {
	var req dto.MovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.ledger.ApplyMovement(c.Request.Context(), req.ToMovement())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, entry)
}

// ApplyBatch handles POST /movements/batch.
func (h *MovementHandler) ApplyBatch(c *gin.Context) {
	var req dto.BatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.ledger.ApplyBatch(c.Request.Context(), req.ToMovements(), req.Defaults)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// List handles GET /movements.
func (h *MovementHandler) List(c *gin.Context) {
	var q dto.ListMovementsQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := ledger.Filter{
		ProductID: q.ProductID,
		ProjectID: q.ProjectID,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
	if q.Kind != nil {
		kind := ledger.Kind(*q.Kind)
		filter.Kind = &kind
	}

	entries, err := h.ledger.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"movements": entries})
}

// Get handles GET /movements/:id.
func (h *MovementHandler) Get(c *gin.Context) {
	id, ok := h.ParseIntParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.ledger.GetEntry(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, entry)
}

// ListOutbound handles GET /movements/outbound.
func (h *MovementHandler) ListOutbound(c *gin.Context) {
	var q dto.PeriodQuery
	if !h.BindQuery(c, &q) {
		return
	}

	records, err := h.ledger.ListOutbound(c.Request.Context(), period.Period{Year: q.Year, Month: q.Month})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"movements": records})
}
