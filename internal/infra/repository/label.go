package repository

import (
	"context"

	"stoodioz/internal/infra"
	"stoodioz/internal/infra/db"

	"github.com/google/uuid"
)

type LabelBudgetRepository struct{}

func NewLabelBudgetRepository() *LabelBudgetRepository {
	return &LabelBudgetRepository{}
}

const recordLabelSpendSQL = `
UPDATE label_budgets
SET spent_cents = spent_cents + $2, updated_at = now()
WHERE label_id = $1`

const recordAllocationSpendSQL = `
UPDATE label_artist_allocations
SET spent_cents = spent_cents + $3, updated_at = now()
WHERE label_id = $1 AND artist_id = $2`

// RecordSpend debits the label total and, when an allocation row exists
// for the artist, that allocation too. The affordability check already
// ran in the same transaction; this is a soft limit, not a constraint.
func (r *LabelBudgetRepository) RecordSpend(ctx context.Context, dbtx db.DBTX, labelID, artistID uuid.UUID, amountCents int64) error {
	tag, err := dbtx.Exec(ctx, recordLabelSpendSQL, labelID, amountCents)
	if err != nil {
		return infra.WrapRepoErr("failed to record label spend", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("label budget not found", nil, infra.KindNotFound)
	}

	// No allocation row is fine; the artist draws from the label total.
	if _, err := dbtx.Exec(ctx, recordAllocationSpendSQL, labelID, artistID, amountCents); err != nil {
		return infra.WrapRepoErr("failed to record allocation spend", err)
	}
	return nil
}
