package repository

import (
	"context"

	"stoodioz/internal/domain/contract"
	"stoodioz/internal/infra"
	"stoodioz/internal/infra/db"

	"github.com/google/uuid"
)

type ContractRepository struct{}

func NewContractRepository() *ContractRepository {
	return &ContractRepository{}
}

const findActiveContractForUpdateSQL = `
SELECT id, label_id, talent_user_id, talent_role, contract_type,
       split_percent, recoup_balance_cents, status, created_at, updated_at
FROM label_contracts
WHERE talent_user_id = $1 AND status = 'active'
FOR UPDATE`

// FindActiveByTalentForUpdate row-locks the contract so concurrent
// completions for the same talent serialize on recoup_balance.
func (r *ContractRepository) FindActiveByTalentForUpdate(ctx context.Context, dbtx db.DBTX, talentUserID uuid.UUID) (*contract.Contract, error) {
	var p contract.Params
	var talentRole, contractType, status string

	err := dbtx.QueryRow(ctx, findActiveContractForUpdateSQL, talentUserID).Scan(
		&p.ID, &p.LabelID, &p.TalentUserID, &talentRole, &contractType,
		&p.SplitPercent, &p.RecoupBalanceCents, &status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find active contract", err)
	}

	p.TalentRole = contract.TalentRole(talentRole)
	p.ContractType = contract.Type(contractType)
	p.Status = contract.Status(status)

	restored, err := contract.Restore(p)
	if err != nil {
		return nil, infra.WrapRepoErr("persisted contract state is invalid", err, infra.KindDBFailure)
	}
	return restored, nil
}

const updateRecoupBalanceSQL = `
UPDATE label_contracts
SET recoup_balance_cents = $2, updated_at = now()
WHERE id = $1`

func (r *ContractRepository) UpdateRecoupBalance(ctx context.Context, dbtx db.DBTX, contractID uuid.UUID, newBalanceCents int64) error {
	tag, err := dbtx.Exec(ctx, updateRecoupBalanceSQL, contractID, newBalanceCents)
	if err != nil {
		return infra.WrapRepoErr("failed to update recoup balance", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("contract not found", nil, infra.KindNotFound)
	}
	return nil
}
