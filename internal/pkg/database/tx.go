package database

import (
	"context"
)

// TxRunner scopes a function to a single all-or-nothing transaction. The
// PostgreSQL implementation lives in the repository package; tests substitute
// a pass-through.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
