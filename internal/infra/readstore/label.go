package readstore

import (
	"context"

	"stoodioz/internal/domain/label"
	"stoodioz/internal/infra"
	"stoodioz/internal/infra/db"
	"stoodioz/internal/pkg/pgconv"
	"stoodioz/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type LabelReadStore struct {
	db db.DBTX
}

func NewLabelReadStore(dbtx db.DBTX) *LabelReadStore {
	return &LabelReadStore{db: dbtx}
}

const findLabelBudgetSQL = `
SELECT b.label_id, b.total_budget_cents, b.spent_cents
FROM label_budgets b
WHERE b.label_id = $1`

const findAllocationsSQL = `
SELECT artist_id, allocation_cents, spent_cents
FROM label_artist_allocations
WHERE label_id = $1`

// FindBudget loads the domain budget snapshot the affordability check
// runs against.
func (r *LabelReadStore) FindBudget(ctx context.Context, labelID uuid.UUID) (*label.BudgetOverview, error) {
	var overview label.BudgetOverview
	err := r.db.QueryRow(ctx, findLabelBudgetSQL, labelID).Scan(
		&overview.LabelID, &overview.TotalBudgetCents, &overview.SpentCents,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("label budget not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find label budget", err)
	}

	rows, err := r.db.Query(ctx, findAllocationsSQL, labelID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load artist allocations", err)
	}
	defer rows.Close()

	for rows.Next() {
		var alloc label.ArtistAllocation
		if err := rows.Scan(&alloc.ArtistID, &alloc.AllocationCents, &alloc.SpentCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan artist allocation", err)
		}
		overview.Allocations = append(overview.Allocations, alloc)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate artist allocations", err)
	}
	return &overview, nil
}

const findBudgetOverviewSQL = `
SELECT b.label_id, l.name, b.total_budget_cents, b.spent_cents
FROM label_budgets b
JOIN labels l ON l.id = b.label_id
WHERE b.label_id = $1`

const findAllocationViewsSQL = `
SELECT a.artist_id, u.email, a.allocation_cents, a.spent_cents
FROM label_artist_allocations a
JOIN users u ON u.id = a.artist_id
WHERE a.label_id = $1
ORDER BY u.email`

func (r *LabelReadStore) FindBudgetOverview(ctx context.Context, labelID uuid.UUID) (*queries.BudgetOverviewView, error) {
	var view queries.BudgetOverviewView
	err := r.db.QueryRow(ctx, findBudgetOverviewSQL, labelID).Scan(
		&view.LabelID, &view.LabelName, &view.TotalBudgetCents, &view.SpentCents,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("label budget not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find label budget overview", err)
	}

	rows, err := r.db.Query(ctx, findAllocationViewsSQL, labelID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load allocation views", err)
	}
	defer rows.Close()

	for rows.Next() {
		var alloc queries.ArtistAllocationView
		if err := rows.Scan(&alloc.ArtistID, &alloc.ArtistEmail, &alloc.AllocationCents, &alloc.SpentCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan allocation view", err)
		}
		view.Allocations = append(view.Allocations, alloc)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate allocation views", err)
	}
	return &view, nil
}

const findContractsSQL = `
SELECT c.id, c.label_id, c.talent_user_id, u.email, c.talent_role,
       c.contract_type, c.split_percent, c.recoup_balance_cents, c.status, c.created_at
FROM label_contracts c
JOIN users u ON u.id = c.talent_user_id
WHERE c.label_id = $1
ORDER BY c.created_at DESC`

func (r *LabelReadStore) FindContracts(ctx context.Context, labelID uuid.UUID) ([]*queries.ContractView, error) {
	rows, err := r.db.Query(ctx, findContractsSQL, labelID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find label contracts", err)
	}
	defer rows.Close()

	var result []*queries.ContractView
	for rows.Next() {
		var view queries.ContractView
		if err := rows.Scan(
			&view.ID, &view.LabelID, &view.TalentUserID, &view.TalentEmail, &view.TalentRole,
			&view.ContractType, &view.SplitPercent, &view.RecoupBalanceCents, &view.Status, &view.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan contract view", err)
		}
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate contract views", err)
	}
	return result, nil
}

const findMemberLabelIDSQL = `
SELECT label_id
FROM users
WHERE id = $1`

func (r *LabelReadStore) FindMemberLabelID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	var labelID pgtype.UUID
	err := r.db.QueryRow(ctx, findMemberLabelIDSQL, userID).Scan(&labelID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find member label", err)
	}
	return pgconv.UUIDPtrFromPgtype(labelID), nil
}
