// Package tx defines the transaction management abstraction used by domain
// services. The PostgreSQL implementation lives in infrastructure/storage.
package tx

import "context"

// Manager runs functions within a database transaction.
// Nested calls reuse the transaction already present in the context.
type Manager interface {
	// RunInTransaction executes fn atomically. If fn returns an error the
	// transaction is rolled back and the error is returned unchanged.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// ReadOnly executes fn in a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
