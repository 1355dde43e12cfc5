package postgresql

import (
	"context"

	"github.com/peopledesk/hrops-backend-go/internal/pkg/database"
)

// TxManager is the database.TxRunner backed by pgx transactions.
type TxManager struct {
	db *database.DB
}

func NewTxManager(db *database.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, m.db, fn)
}
