package commands

import (
	"context"
	"log/slog"

	"stoodioz/internal/domain/booking"
	"stoodioz/internal/domain/contract"
	"stoodioz/internal/domain/user"
	"stoodioz/internal/domain/wallet"
	"stoodioz/internal/infra"
	"stoodioz/internal/pkg/errs"
	"stoodioz/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound       = errs.New("booking not found")
	ErrBookingNotCompletable = errs.New("booking cannot be completed in its current status")
	ErrCompletionForbidden   = errs.New("not allowed to complete this booking")
	ErrLedgerWrite           = errs.New("ledger write failed")
)

// RoutingResult reports where a completed session's earnings went.
type RoutingResult struct {
	BookingID             uuid.UUID
	ProviderUserID        *uuid.UUID
	ContractID            *uuid.UUID
	GrossCents            int64
	LabelAmountCents      int64
	ProviderAmountCents   int64
	RecoupAppliedCents    int64
	NewRecoupBalanceCents *int64
	TipCents              int64
}

type CompletionCommands interface {
	Complete(ctx context.Context, bookingID, actorID uuid.UUID, role user.Role, tipCents int64) (*RoutingResult, error)
}

type completionUseCaseImpl struct {
	uow shared.UnitOfWork
}

func NewCompletionUseCase(uow shared.UnitOfWork) CompletionCommands {
	return &completionUseCaseImpl{uow: uow}
}

// Complete transitions the booking to completed and routes the session's
// gross payout between the provider and any contracted label. The status
// update, both ledger legs, and the recoup balance update commit in one
// transaction; ledger ids are derived from the booking so a retry after
// a partial failure re-issues the same rows.
func (c *completionUseCaseImpl) Complete(
	ctx context.Context,
	bookingID, actorID uuid.UUID,
	role user.Role,
	tipCents int64,
) (*RoutingResult, error) {
	if tipCents < 0 {
		return nil, ErrDomainValidation
	}

	result := &RoutingResult{BookingID: bookingID, TipCents: tipCents}

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().BookingByID(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if role != user.RoleAdmin && snap.ArtistID != actorID {
			return ErrCompletionForbidden
		}
		if !snap.Status.CanTransitionTo(booking.StatusCompleted) {
			return ErrBookingNotCompletable
		}

		if err := tx.Bookings().UpdateStatus(ctx, tx.DB(), bookingID, snap.Status, booking.StatusCompleted); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrBookingNotCompletable
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		provider, ok := contract.ResolveProvider(snap.EngineerID, snap.ProducerID)
		if !ok {
			// Studio-only session, nobody to pay.
			slog.Info("no provider to route for booking", "booking_id", bookingID)
			return nil
		}
		result.ProviderUserID = &provider.UserID

		if tipCents > 0 {
			if err := tx.Bookings().SetTip(ctx, tx.DB(), bookingID, tipCents); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		gross := snap.GrossPayoutCents()
		result.GrossCents = gross

		active, err := c.findActiveContract(ctx, tx, provider.UserID)
		if err != nil {
			return err
		}

		plan := contract.PlanRouting(active, gross)
		result.ContractID = plan.ContractID
		result.LabelAmountCents = plan.LabelAmountCents
		result.ProviderAmountCents = plan.ProviderAmountCents
		result.RecoupAppliedCents = plan.RecoupAppliedCents
		if active != nil {
			balance := plan.NewRecoupBalanceCents
			result.NewRecoupBalanceCents = &balance
		}

		if err := c.writeLedger(ctx, tx, bookingID, provider, active, plan, tipCents); err != nil {
			return err
		}

		if plan.RecoupBalanceChanged {
			if err := tx.Contracts().UpdateRecoupBalance(ctx, tx.DB(), active.ID(), plan.NewRecoupBalanceCents); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// findActiveContract row-locks the provider's active contract for the
// rest of the transaction. Not found means the provider is uncontracted
// and keeps the full payout.
func (c *completionUseCaseImpl) findActiveContract(ctx context.Context, tx shared.Tx, talentUserID uuid.UUID) (*contract.Contract, error) {
	active, err := tx.Contracts().FindActiveByTalentForUpdate(ctx, tx.DB(), talentUserID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return active, nil
}

// writeLedger appends the routing legs. Every completed session with a
// provider touches the provider's wallet at least once, even when the
// whole gross was recouped.
func (c *completionUseCaseImpl) writeLedger(
	ctx context.Context,
	tx shared.Tx,
	bookingID uuid.UUID,
	provider contract.Provider,
	active *contract.Contract,
	plan contract.RoutingPlan,
	tipCents int64,
) error {
	if plan.LabelAmountCents > 0 {
		entry, err := wallet.NewEntry(
			wallet.EntryID(bookingID, "label"),
			*plan.LabelID,
			wallet.OwnerLabel,
			plan.LabelAmountCents,
			wallet.CategoryContractPayout,
			"contract share of session earnings",
		)
		if err != nil {
			return errs.Mark(err, ErrLedgerWrite)
		}
		entry.BookingID = &bookingID
		entry.ContractID = plan.ContractID
		entry.RecoupAppliedCents = &plan.RecoupAppliedCents
		entry.ProviderAmountCents = &plan.ProviderAmountCents
		if err := tx.Wallets().Insert(ctx, tx.DB(), entry); err != nil {
			return errs.Mark(err, ErrLedgerWrite)
		}
	}

	switch {
	case plan.ProviderAmountCents > 0:
		entry, err := wallet.NewEntry(
			wallet.EntryID(bookingID, "provider"),
			provider.UserID,
			wallet.OwnerUser,
			plan.ProviderAmountCents,
			wallet.CategorySessionPayout,
			"session payout",
		)
		if err != nil {
			return errs.Mark(err, ErrLedgerWrite)
		}
		entry.BookingID = &bookingID
		entry.ContractID = plan.ContractID
		entry.LabelAmountCents = &plan.LabelAmountCents
		if err := tx.Wallets().Insert(ctx, tx.DB(), entry); err != nil {
			return errs.Mark(err, ErrLedgerWrite)
		}

	case active != nil:
		// Zero-amount audit entry: the whole gross went to recoupment.
		entry, err := wallet.NewEntry(
			wallet.EntryID(bookingID, "provider"),
			provider.UserID,
			wallet.OwnerUser,
			0,
			wallet.CategoryContractRecoup,
			"session earnings applied to recoupment",
		)
		if err != nil {
			return errs.Mark(err, ErrLedgerWrite)
		}
		entry.BookingID = &bookingID
		entry.ContractID = plan.ContractID
		entry.LabelAmountCents = &plan.LabelAmountCents
		entry.RecoupAppliedCents = &plan.RecoupAppliedCents
		if err := tx.Wallets().Insert(ctx, tx.DB(), entry); err != nil {
			return errs.Mark(err, ErrLedgerWrite)
		}
	}

	if tipCents > 0 {
		entry, err := wallet.NewEntry(
			wallet.EntryID(bookingID, "tip"),
			provider.UserID,
			wallet.OwnerUser,
			tipCents,
			wallet.CategoryTip,
			"session tip",
		)
		if err != nil {
			return errs.Mark(err, ErrLedgerWrite)
		}
		entry.BookingID = &bookingID
		if err := tx.Wallets().Insert(ctx, tx.DB(), entry); err != nil {
			return errs.Mark(err, ErrLedgerWrite)
		}
	}

	return nil
}
