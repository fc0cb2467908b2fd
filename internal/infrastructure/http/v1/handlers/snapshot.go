package handlers

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/period"
	"stockbook/internal/domain/snapshot"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// SnapshotHandler serves monthly snapshot endpoints.
type SnapshotHandler struct {
	*BaseHandler
	generator *snapshot.Generator
}

// NewSnapshotHandler creates a snapshot handler.
func NewSnapshotHandler(base *BaseHandler, gen *snapshot.Generator) *SnapshotHandler {
	return &SnapshotHandler{BaseHandler: base, generator: gen}
}

// Generate handles POST /snapshots/generate.
func (h *SnapshotHandler) Generate(c *gin.Context) {
	var req dto.GenerateSnapshotRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), period.Period{Year: req.Year, Month: req.Month})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// GenerateRange handles POST /snapshots/generate-range.
func (h *SnapshotHandler) GenerateRange(c *gin.Context) {
	var req dto.GenerateRangeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	results, err := h.generator.GenerateRange(c.Request.Context(),
		period.Period{Year: req.FromYear, Month: req.FromMonth},
		period.Period{Year: req.ToYear, Month: req.ToMonth},
	)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"results": results})
}

// List handles GET /snapshots.
func (h *SnapshotHandler) List(c *gin.Context) {
	stats, err := h.generator.ListMonths(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"months": stats})
}

// Detail handles GET /snapshots/:year/:month.
func (h *SnapshotHandler) Detail(c *gin.Context) {
	p, ok := h.periodParams(c)
	if !ok {
		return
	}

	groups, err := h.generator.Detail(c.Request.Context(), p)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"year": p.Year, "month": p.Month, "categories": groups})
}

// Delete handles DELETE /snapshots/:year/:month.
func (h *SnapshotHandler) Delete(c *gin.Context) {
	p, ok := h.periodParams(c)
	if !ok {
		return
	}

	if err := h.generator.DeleteMonth(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

func (h *SnapshotHandler) periodParams(c *gin.Context) (period.Period, bool) {
	year, ok := h.ParseIntParam(c, "year")
	if !ok {
		return period.Period{}, false
	}
	month, ok := h.ParseIntParam(c, "month")
	if !ok {
		return period.Period{}, false
	}
	return period.Period{Year: int(year), Month: int(month)}, true
}
