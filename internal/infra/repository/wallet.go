package repository

import (
	"context"

	"stoodioz/internal/domain/wallet"
	"stoodioz/internal/infra"
	"stoodioz/internal/infra/db"
	"stoodioz/internal/pkg/pgconv"
)

type WalletRepository struct{}

func NewWalletRepository() *WalletRepository {
	return &WalletRepository{}
}

const insertWalletTransactionSQL = `
INSERT INTO wallet_transactions (
	id, owner_id, owner_kind, amount_cents, category, description, status,
	booking_id, contract_id, recoup_applied_cents, provider_amount_cents, label_amount_cents
) VALUES (
	$1, $2, $3, $4, $5, $6, $7,
	$8, $9, $10, $11, $12
)
ON CONFLICT (id) DO NOTHING`

// Insert appends a ledger entry. Entry ids are deterministic per
// booking leg, so a retried routing run hits the ON CONFLICT guard
// instead of double-crediting.
func (r *WalletRepository) Insert(ctx context.Context, dbtx db.DBTX, entry *wallet.Entry) error {
	_, err := dbtx.Exec(ctx, insertWalletTransactionSQL,
		entry.ID, entry.OwnerID, string(entry.OwnerKind),
		entry.AmountCents, string(entry.Category), entry.Description, string(entry.Status),
		pgconv.UUIDPtrToPgtype(entry.BookingID),
		pgconv.UUIDPtrToPgtype(entry.ContractID),
		entry.RecoupAppliedCents, entry.ProviderAmountCents, entry.LabelAmountCents,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert wallet transaction", err)
	}
	return nil
}
