package label

import (
	"fmt"

	"github.com/google/uuid"
)

// ArtistAllocation is a per-artist slice of a label's budget. An artist
// without an allocation record is only bounded by the label total.
type ArtistAllocation struct {
	ArtistID        uuid.UUID
	AllocationCents int64
	SpentCents      int64
}

func (a ArtistAllocation) RemainingCents() int64 {
	return a.AllocationCents - a.SpentCents
}

// BudgetOverview is the label budget snapshot the affordability check
// reads. amount_spent <= total_budget is a soft invariant: this check
// is the only guard, there is no database constraint behind it.
type BudgetOverview struct {
	LabelID          uuid.UUID
	TotalBudgetCents int64
	SpentCents       int64
	Allocations      []ArtistAllocation
}

func (b *BudgetOverview) RemainingTotalCents() int64 {
	return b.TotalBudgetCents - b.SpentCents
}

func (b *BudgetOverview) AllocationFor(artistID uuid.UUID) *ArtistAllocation {
	for i := range b.Allocations {
		if b.Allocations[i].ArtistID == artistID {
			return &b.Allocations[i]
		}
	}
	return nil
}

// InsufficientFundsError carries the remaining figures so the caller can
// show the artist exactly how short the budget is.
type InsufficientFundsError struct {
	RemainingTotalCents      int64
	RemainingAllocationCents *int64
}

func (e *InsufficientFundsError) Error() string {
	if e.RemainingAllocationCents != nil {
		return fmt.Sprintf("insufficient label funds: remaining total %d cents, remaining allocation %d cents",
			e.RemainingTotalCents, *e.RemainingAllocationCents)
	}
	return fmt.Sprintf("insufficient label funds: remaining total %d cents", e.RemainingTotalCents)
}

// CheckAffordable validates the label can cover totalCents for this
// artist. Both the label total and, when an allocation record exists,
// the artist's remaining allocation must cover the full amount. Pure
// read-then-decide; the actual debit happens when the booking is
// recorded.
func (b *BudgetOverview) CheckAffordable(artistID uuid.UUID, totalCents int64) error {
	remainingTotal := b.RemainingTotalCents()
	alloc := b.AllocationFor(artistID)

	insufficient := remainingTotal < totalCents
	var remainingAlloc *int64
	if alloc != nil {
		r := alloc.RemainingCents()
		remainingAlloc = &r
		if r < totalCents {
			insufficient = true
		}
	}

	if insufficient {
		return &InsufficientFundsError{
			RemainingTotalCents:      remainingTotal,
			RemainingAllocationCents: remainingAlloc,
		}
	}
	return nil
}
