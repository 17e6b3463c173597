package contract

import (
	"math"

	"github.com/google/uuid"
)

// Provider is the talent who performed a session, resolved once at the
// top of routing: the engineer when one is assigned, else the producer.
type Provider struct {
	UserID uuid.UUID
	Role   TalentRole
}

// ResolveProvider picks the paid party for a session. ok is false for
// studio-only sessions with nobody to pay.
func ResolveProvider(engineerID, producerID *uuid.UUID) (Provider, bool) {
	if engineerID != nil {
		return Provider{UserID: *engineerID, Role: TalentEngineer}, true
	}
	if producerID != nil {
		return Provider{UserID: *producerID, Role: TalentProducer}, true
	}
	return Provider{}, false
}

// RoutingPlan is the outcome of splitting a session's gross earnings.
// Every cent of gross lands in exactly one of the label or provider
// legs: LabelAmountCents + ProviderAmountCents == gross always.
type RoutingPlan struct {
	ContractID            *uuid.UUID
	LabelID               *uuid.UUID
	GrossCents            int64
	LabelAmountCents      int64
	ProviderAmountCents   int64
	RecoupAppliedCents    int64
	NewRecoupBalanceCents int64
	RecoupBalanceChanged  bool
}

// PlanRouting computes how grossCents splits between the label and the
// provider under the given contract. A nil contract pays the provider
// in full.
//
// Under PERCENTAGE contracts recoupment is tracked but not deducted
// from the label's payout: recoup_applied decrements the balance for
// reporting while the label still receives its full split. This mirrors
// the platform's contract terms as shipped.
func PlanRouting(c *Contract, grossCents int64) RoutingPlan {
	if c == nil {
		return RoutingPlan{
			GrossCents:          grossCents,
			ProviderAmountCents: grossCents,
		}
	}

	plan := RoutingPlan{
		ContractID: ptrTo(c.id),
		LabelID:    ptrTo(c.labelID),
		GrossCents: grossCents,
	}

	switch c.contractType {
	case TypeFullRecoup:
		if c.recoupBalanceCents > 0 {
			taken := min(grossCents, c.recoupBalanceCents)
			plan.LabelAmountCents = taken
			plan.ProviderAmountCents = grossCents - taken
			plan.RecoupAppliedCents = taken
		} else {
			plan.ProviderAmountCents = grossCents
		}

	case TypePercentage:
		labelAmount := int64(math.Round(float64(grossCents) * c.splitPercent / 100.0))
		plan.LabelAmountCents = labelAmount
		plan.ProviderAmountCents = grossCents - labelAmount
		if c.recoupBalanceCents > 0 {
			plan.RecoupAppliedCents = min(labelAmount, c.recoupBalanceCents)
		}
	}

	plan.NewRecoupBalanceCents = c.recoupBalanceCents
	if plan.RecoupAppliedCents > 0 {
		plan.NewRecoupBalanceCents = max(0, c.recoupBalanceCents-plan.RecoupAppliedCents)
		plan.RecoupBalanceChanged = true
	}

	return plan
}

func ptrTo(id uuid.UUID) *uuid.UUID {
	return &id
}
