// Package dto defines the HTTP wire shapes.
package dto

import (
	"github.com/shopspring/decimal"

	"stockbook/internal/domain/ledger"
)

// MovementRequest is the body of POST /movements.
type MovementRequest struct {
	ProductID int64           `json:"product_id" binding:"required"`
	Kind      string          `json:"kind" binding:"required,oneof=IN OUT"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Requester string          `json:"requester"`
	Purpose   string          `json:"purpose"`
	ProjectID *int64          `json:"project_id"`
}

// ToMovement converts the request to a domain movement.
func (r *MovementRequest) ToMovement() ledger.Movement {
	return ledger.Movement{
		ProductID: r.ProductID,
		Kind:      ledger.Kind(r.Kind),
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
		Requester: r.Requester,
		Purpose:   r.Purpose,
		ProjectID: r.ProjectID,
	}
}

// BatchRequest is the body of POST /movements/batch.
type BatchRequest struct {
	Movements []MovementRequest    `json:"movements" binding:"required,min=1,dive"`
	Defaults  ledger.BatchDefaults `json:"defaults"`
}

// ToMovements converts the batch items to domain movements.
func (r *BatchRequest) ToMovements() []ledger.Movement {
	movements := make([]ledger.Movement, 0, len(r.Movements))
	for _, item := range r.Movements {
		movements = append(movements, item.ToMovement())
	}
	return movements
}

// ListMovementsQuery holds GET /movements query parameters.
type ListMovementsQuery struct {
	ProductID *int64  `form:"product_id"`
	Kind      *string `form:"kind" binding:"omitempty,oneof=IN OUT"`
	ProjectID *int64  `form:"project_id"`
	Limit     int     `form:"limit"`
	Offset    int     `form:"offset"`
}

// PeriodQuery holds year/month query parameters.
type PeriodQuery struct {
	Year  int `form:"year" binding:"required"`
	Month int `form:"month" binding:"required"`
}
