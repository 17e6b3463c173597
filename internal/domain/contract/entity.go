package contract

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidSplitPercent = errors.New("split percent must be between 0 and 100")
	ErrNegativeRecoup      = errors.New("recoup balance cannot be negative")
)

// Contract relates a label to a contracted talent. At most one active
// contract exists per talent; recoup_balance is only ever decreased by
// revenue routing (top-ups happen through the label management flow).
type Contract struct {
	id                 uuid.UUID
	labelID            uuid.UUID
	talentUserID       uuid.UUID
	talentRole         TalentRole
	contractType       Type
	splitPercent       float64
	recoupBalanceCents int64
	status             Status
	createdAt          time.Time
	updatedAt          time.Time
}

type Params struct {
	ID                 uuid.UUID
	LabelID            uuid.UUID
	TalentUserID       uuid.UUID
	TalentRole         TalentRole
	ContractType       Type
	SplitPercent       float64
	RecoupBalanceCents int64
	Status             Status
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Restore rebuilds a contract from persisted state.
func Restore(p Params) (*Contract, error) {
	if p.ContractType == TypePercentage && (p.SplitPercent < 0 || p.SplitPercent > 100) {
		return nil, ErrInvalidSplitPercent
	}
	if p.RecoupBalanceCents < 0 {
		return nil, ErrNegativeRecoup
	}
	return &Contract{
		id:                 p.ID,
		labelID:            p.LabelID,
		talentUserID:       p.TalentUserID,
		talentRole:         p.TalentRole,
		contractType:       p.ContractType,
		splitPercent:       p.SplitPercent,
		recoupBalanceCents: p.RecoupBalanceCents,
		status:             p.Status,
		createdAt:          p.CreatedAt,
		updatedAt:          p.UpdatedAt,
	}, nil
}

func (c *Contract) ID() uuid.UUID             { return c.id }
func (c *Contract) LabelID() uuid.UUID        { return c.labelID }
func (c *Contract) TalentUserID() uuid.UUID   { return c.talentUserID }
func (c *Contract) TalentRole() TalentRole    { return c.talentRole }
func (c *Contract) ContractType() Type        { return c.contractType }
func (c *Contract) SplitPercent() float64     { return c.splitPercent }
func (c *Contract) RecoupBalanceCents() int64 { return c.recoupBalanceCents }
func (c *Contract) Status() Status            { return c.status }
func (c *Contract) IsActive() bool            { return c.status == StatusActive }
func (c *Contract) CreatedAt() time.Time      { return c.createdAt }
func (c *Contract) UpdatedAt() time.Time      { return c.updatedAt }
