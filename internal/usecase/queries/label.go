package queries

import (
	"context"
	"time"

	"stoodioz/internal/domain/user"
	"stoodioz/internal/infra"
	"stoodioz/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrLabelNotFound = errs.New("label not found")
	ErrLabelAccess   = errs.New("label access denied")
)

type ArtistAllocationView struct {
	ArtistID        uuid.UUID `json:"artist_id"`
	ArtistEmail     string    `json:"artist_email"`
	AllocationCents int64     `json:"allocation_cents"`
	SpentCents      int64     `json:"spent_cents"`
}

type BudgetOverviewView struct {
	LabelID          uuid.UUID              `json:"label_id"`
	LabelName        string                 `json:"label_name"`
	TotalBudgetCents int64                  `json:"total_budget_cents"`
	SpentCents       int64                  `json:"spent_cents"`
	Allocations      []ArtistAllocationView `json:"allocations"`
}

type ContractView struct {
	ID                 uuid.UUID `json:"id"`
	LabelID            uuid.UUID `json:"label_id"`
	TalentUserID       uuid.UUID `json:"talent_user_id"`
	TalentEmail        string    `json:"talent_email"`
	TalentRole         string    `json:"talent_role"`
	ContractType       string    `json:"contract_type"`
	SplitPercent       float64   `json:"split_percent"`
	RecoupBalanceCents int64     `json:"recoup_balance_cents"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
}

type LabelReadStore interface {
	FindBudgetOverview(ctx context.Context, labelID uuid.UUID) (*BudgetOverviewView, error)
	FindContracts(ctx context.Context, labelID uuid.UUID) ([]*ContractView, error)
	FindMemberLabelID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
}

type LabelQueries interface {
	GetBudgetOverview(ctx context.Context, labelID, requesterID uuid.UUID, role user.Role) (*BudgetOverviewView, error)
	ListContracts(ctx context.Context, labelID, requesterID uuid.UUID, role user.Role) ([]*ContractView, error)
}

type labelQueriesImpl struct {
	readStore LabelReadStore
}

func NewLabelQueries(readStore LabelReadStore) LabelQueries {
	return &labelQueriesImpl{readStore: readStore}
}

func (q *labelQueriesImpl) GetBudgetOverview(ctx context.Context, labelID, requesterID uuid.UUID, role user.Role) (*BudgetOverviewView, error) {
	if err := q.authorize(ctx, labelID, requesterID, role); err != nil {
		return nil, err
	}

	overview, err := q.readStore.FindBudgetOverview(ctx, labelID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrLabelNotFound
		}
		return nil, err
	}
	return overview, nil
}

func (q *labelQueriesImpl) ListContracts(ctx context.Context, labelID, requesterID uuid.UUID, role user.Role) ([]*ContractView, error) {
	if err := q.authorize(ctx, labelID, requesterID, role); err != nil {
		return nil, err
	}
	return q.readStore.FindContracts(ctx, labelID)
}

// Only the label's own members and admins can read budgets and rosters.
func (q *labelQueriesImpl) authorize(ctx context.Context, labelID, requesterID uuid.UUID, role user.Role) error {
	if role == user.RoleAdmin {
		return nil
	}
	memberLabelID, err := q.readStore.FindMemberLabelID(ctx, requesterID)
	if err != nil {
		return err
	}
	if memberLabelID == nil || *memberLabelID != labelID {
		return ErrLabelAccess
	}
	return nil
}
