package handlers

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/period"
	"stockbook/internal/domain/product"
	"stockbook/internal/domain/report"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// ReportHandler serves period ledger reports.
type ReportHandler struct {
	*BaseHandler
	builder  *report.Builder
	products product.Repository
}

// NewReportHandler creates a report handler.
func NewReportHandler(base *BaseHandler, builder *report.Builder, products product.Repository) *ReportHandler {
	return &ReportHandler{BaseHandler: base, builder: builder, products: products}
}

// MonthlyLedger handles GET /ledger/monthly.
func (h *ReportHandler) MonthlyLedger(c *gin.Context) {
	var q dto.PeriodQuery
	if !h.BindQuery(c, &q) {
		return
	}

	ml, err := h.builder.BuildMonthlyLedger(c.Request.Context(), period.Period{Year: q.Year, Month: q.Month})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, ml)
}

// Valuation handles GET /ledger/valuation. It returns the total stock
// value across all products at current cost.
func (h *ReportHandler) Valuation(c *gin.Context) {
	total, err := h.products.TotalValuation(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"total_value": total})
}
