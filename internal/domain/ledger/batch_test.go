package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
)

func TestApplyBatchPartialSuccess(t *testing.T) {
	svc, fp, fe := newTestService(emptyProduct(1), emptyProduct(2))
	ctx := context.Background()

	result, err := svc.ApplyBatch(ctx, []Movement{
		{ProductID: 1, Kind: KindIn, Quantity: dec("10"), UnitPrice: dec("5")},
		{ProductID: 2, Kind: KindOut, Quantity: dec("50")}, // nothing in stock
		{ProductID: 2, Kind: KindIn, Quantity: dec("4"), UnitPrice: dec("2.50")},
	}, BatchDefaults{})
	require.NoError(t, err)

	assert.Len(t, result.Applied, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, 1, result.Failed[0].Index)
	assert.Equal(t, apperror.CodeInsufficientStock, result.Failed[0].Code)
	assert.Equal(t, int64(2), result.Failed[0].ProductID)

	// The two valid items are persisted despite the middle failure.
	assert.Len(t, fe.rows, 2)
	assert.True(t, fp.byID[1].Stock.Equal(dec("10")))
	assert.True(t, fp.byID[2].Stock.Equal(dec("4")))
}

func TestApplyBatchAllFailedAppliesNothing(t *testing.T) {
	svc, fp, fe := newTestService(emptyProduct(1))

	result, err := svc.ApplyBatch(context.Background(), []Movement{
		{ProductID: 1, Kind: KindOut, Quantity: dec("5")},
		{ProductID: 1, Kind: KindIn, Quantity: dec("-1"), UnitPrice: dec("2")},
	}, BatchDefaults{})
	require.NoError(t, err)

	assert.Empty(t, result.Applied)
	assert.Len(t, result.Failed, 2)
	assert.Empty(t, fe.rows)
	assert.True(t, fp.byID[1].Stock.IsZero())
}

func TestApplyBatchAppliesDefaults(t *testing.T) {
	svc, _, fe := newTestService(emptyProduct(1))
	projectID := int64(7)

	result, err := svc.ApplyBatch(context.Background(), []Movement{
		{ProductID: 1, Kind: KindIn, Quantity: dec("1"), UnitPrice: dec("3")},
		{ProductID: 1, Kind: KindIn, Quantity: dec("1"), UnitPrice: dec("3"), Requester: "alex"},
	}, BatchDefaults{Requester: "warehouse", Purpose: "stock-taking", ProjectID: &projectID})
	require.NoError(t, err)
	require.Len(t, result.Applied, 2)

	assert.Equal(t, "warehouse", fe.rows[0].Requester)
	assert.Equal(t, "stock-taking", fe.rows[0].Purpose)
	require.NotNil(t, fe.rows[0].ProjectID)
	assert.Equal(t, projectID, *fe.rows[0].ProjectID)

	// Explicit item values win over defaults.
	assert.Equal(t, "alex", fe.rows[1].Requester)
}

func TestApplyBatchEmptyRejected(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ApplyBatch(context.Background(), nil, BatchDefaults{})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestApplyBatchSequentialItemsSeeEarlierEffects(t *testing.T) {
	svc, fp, _ := newTestService(emptyProduct(1))

	// The OUT succeeds only because the preceding IN already applied.
	result, err := svc.ApplyBatch(context.Background(), []Movement{
		{ProductID: 1, Kind: KindIn, Quantity: dec("10"), UnitPrice: dec("2")},
		{ProductID: 1, Kind: KindOut, Quantity: dec("10")},
	}, BatchDefaults{})
	require.NoError(t, err)

	assert.Len(t, result.Applied, 2)
	assert.Empty(t, result.Failed)
	assert.True(t, fp.byID[1].Stock.IsZero())
	assert.True(t, fp.byID[1].StockValue.IsZero())
}
