package repository

import "context"

// TxRunner executes a function inside a single document-store
// transaction. The context passed to fn carries the transaction scope;
// repository calls made with it are atomic against concurrent writers.
// Returning an error from fn aborts the transaction.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (interface{}, error)
}
