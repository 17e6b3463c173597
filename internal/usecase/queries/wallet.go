package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TransactionView struct {
	ID                  uuid.UUID  `json:"id"`
	AmountCents         int64      `json:"amount_cents"`
	Category            string     `json:"category"`
	Description         string     `json:"description"`
	Status              string     `json:"status"`
	BookingID           *uuid.UUID `json:"booking_id,omitempty"`
	ContractID          *uuid.UUID `json:"contract_id,omitempty"`
	RecoupAppliedCents  *int64     `json:"recoup_applied_cents,omitempty"`
	ProviderAmountCents *int64     `json:"provider_amount_cents,omitempty"`
	LabelAmountCents    *int64     `json:"label_amount_cents,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

type WalletReadStore interface {
	FindByOwner(ctx context.Context, ownerID uuid.UUID, limit int32) ([]*TransactionView, error)
	BalanceCents(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type WalletQueries interface {
	ListTransactions(ctx context.Context, ownerID uuid.UUID, limit int32) ([]*TransactionView, error)
	Balance(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type walletQueriesImpl struct {
	readStore WalletReadStore
}

func NewWalletQueries(readStore WalletReadStore) WalletQueries {
	return &walletQueriesImpl{readStore: readStore}
}

func (q *walletQueriesImpl) ListTransactions(ctx context.Context, ownerID uuid.UUID, limit int32) ([]*TransactionView, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return q.readStore.FindByOwner(ctx, ownerID, limit)
}

func (q *walletQueriesImpl) Balance(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	return q.readStore.BalanceCents(ctx, ownerID)
}
