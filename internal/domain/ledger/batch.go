package ledger

import (
	"context"
	"errors"

	"stockbook/internal/core/apperror"
	"stockbook/pkg/logger"
)

// BatchDefaults are applied to batch items that leave the
// corresponding field empty.
type BatchDefaults struct {
	Requester string `json:"requester"`
	Purpose   string `json:"purpose"`
	ProjectID *int64 `json:"project_id"`
}

// BatchFailure records one rejected batch item.
type BatchFailure struct {
	Index     int    `json:"index"`
	ProductID int64  `json:"product_id"`
	Code      string `json:"code"`
	Reason    string `json:"reason"`
}

// BatchResult aggregates per-item outcomes of a batch.
type BatchResult struct {
	Applied []Entry        `json:"applied"`
	Failed  []BatchFailure `json:"failed"`
}

// errBatchAllFailed aborts the batch transaction when no item
// succeeded, so an all-failed batch leaves zero entries behind.
var errBatchAllFailed = errors.New("all batch items failed")

// ApplyBatch applies an ordered list of movements inside one
// transaction. A business rejection of one item is collected into
// Failed and does not roll back items already applied; partial success
// is the intended behavior for bulk stock-taking. Infrastructure
// faults abort the whole batch.
func (s *Service) ApplyBatch(ctx context.Context, movements []Movement, defaults BatchDefaults) (*BatchResult, error) {
	if len(movements) == 0 {
		return nil, apperror.NewValidation("batch must contain at least one movement")
	}

	result := &BatchResult{}

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		for i, m := range movements {
			if m.Requester == "" {
				m.Requester = defaults.Requester
			}
			if m.Purpose == "" {
				m.Purpose = defaults.Purpose
			}
			if m.ProjectID == nil {
				m.ProjectID = defaults.ProjectID
			}

			entry, err := s.applyOne(ctx, m)
			if err != nil {
				if !apperror.IsMovementRejection(err) {
					return err
				}
				appErr, _ := apperror.AsAppError(err)
				result.Failed = append(result.Failed, BatchFailure{
					Index:     i,
					ProductID: m.ProductID,
					Code:      appErr.Code,
					Reason:    appErr.Message,
				})
				continue
			}
			result.Applied = append(result.Applied, *entry)
		}

		if len(result.Applied) == 0 {
			return errBatchAllFailed
		}
		return nil
	})
	if err != nil && !errors.Is(err, errBatchAllFailed) {
		return nil, err
	}

	logger.Info(ctx, "applied movement batch",
		"total", len(movements),
		"applied", len(result.Applied),
		"failed", len(result.Failed),
	)

	return result, nil
}
