// Package tx defines the transaction management abstraction.
package tx

import "context"

// Manager runs a function within a database transaction. The transaction
// is carried in the returned context; repositories pick it up through
// their querier resolution. Nested calls reuse the outer transaction.
// If fn returns an error the transaction is rolled back, otherwise it
// is committed.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Noop is a pass-through Manager for tests and non-transactional callers.
type Noop struct{}

func (Noop) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
