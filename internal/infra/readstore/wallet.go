package readstore

import (
	"context"

	"stoodioz/internal/infra"
	"stoodioz/internal/infra/db"
	"stoodioz/internal/pkg/pgconv"
	"stoodioz/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type WalletReadStore struct {
	db db.DBTX
}

func NewWalletReadStore(dbtx db.DBTX) *WalletReadStore {
	return &WalletReadStore{db: dbtx}
}

const findTransactionsByOwnerSQL = `
SELECT id, amount_cents, category, description, status,
       booking_id, contract_id, recoup_applied_cents, provider_amount_cents, label_amount_cents,
       created_at
FROM wallet_transactions
WHERE owner_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`

func (r *WalletReadStore) FindByOwner(ctx context.Context, ownerID uuid.UUID, limit int32) ([]*queries.TransactionView, error) {
	rows, err := r.db.Query(ctx, findTransactionsByOwnerSQL, ownerID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find wallet transactions", err)
	}
	defer rows.Close()

	var result []*queries.TransactionView
	for rows.Next() {
		var view queries.TransactionView
		var bookingID, contractID pgtype.UUID
		if err := rows.Scan(
			&view.ID, &view.AmountCents, &view.Category, &view.Description, &view.Status,
			&bookingID, &contractID, &view.RecoupAppliedCents, &view.ProviderAmountCents, &view.LabelAmountCents,
			&view.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan wallet transaction", err)
		}
		view.BookingID = pgconv.UUIDPtrFromPgtype(bookingID)
		view.ContractID = pgconv.UUIDPtrFromPgtype(contractID)
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate wallet transactions", err)
	}
	return result, nil
}

const walletBalanceSQL = `
SELECT COALESCE(SUM(amount_cents), 0)
FROM wallet_transactions
WHERE owner_id = $1 AND status = 'completed'`

func (r *WalletReadStore) BalanceCents(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var balance int64
	if err := r.db.QueryRow(ctx, walletBalanceSQL, ownerID).Scan(&balance); err != nil {
		return 0, infra.WrapRepoErr("failed to compute wallet balance", err)
	}
	return balance, nil
}
