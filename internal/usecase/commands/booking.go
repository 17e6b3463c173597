package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"stoodioz/internal/domain/booking"
	"stoodioz/internal/domain/label"
	"stoodioz/internal/domain/user"
	reqdto "stoodioz/internal/handler/dto/request"
	"stoodioz/internal/infra"
	"stoodioz/internal/pkg/clock"
	"stoodioz/internal/pkg/errs"
	"stoodioz/internal/usecase/queries"
	"stoodioz/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrRoomNotFound            = errs.New("room not found")
	ErrEngineerNotFound        = errs.New("engineer not found")
	ErrEngineerUnavailable     = errs.New("engineer unavailable")
	ErrProducerNotFound        = errs.New("producer not found")
	ErrProducerUnavailable     = errs.New("producer unavailable")
	ErrBeatNotFound            = errs.New("beat not found")
	ErrLabelBudgetNotFound     = errs.New("label budget not found")
	ErrDuplicateBooking        = errs.New("duplicate booking request")
	ErrIdempotencyKeyRequired  = errs.New("idempotency key required")
	ErrIdempotencyInProgress   = errs.New("idempotency in progress")
	ErrIdempotencyCheckFailed  = errs.New("idempotency check failed")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
	ErrBookingNotCancelable    = errs.New("booking cannot be canceled in its current status")
	ErrCancelForbidden         = errs.New("not allowed to cancel this booking")
)

const createBookingEndpoint = "POST /bookings"

// QuoteResult carries the priced breakdown plus, for label-funded
// requests, the advisory budget shortfall so the client can warn the
// artist before submission.
type QuoteResult struct {
	Quote         *booking.Quote
	BudgetWarning *label.InsufficientFundsError
}

type CreateBookingResult struct {
	Booking    *queries.BookingView
	IsReplayed bool
}

type BookingCommands interface {
	Quote(ctx context.Context, req reqdto.QuoteRequest, artistID uuid.UUID) (*QuoteResult, error)
	CreateBooking(ctx context.Context, req reqdto.CreateBookingRequest, artistID uuid.UUID, idempotencyKey uuid.UUID) (*CreateBookingResult, error)
	CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID, role user.Role) error
}

type bookingUseCaseImpl struct {
	uow            shared.UnitOfWork
	calculator     *booking.Calculator
	bookingQueries queries.BookingQueries
	clock          clock.Clock
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	calculator *booking.Calculator,
	bookingQueries queries.BookingQueries,
	clk clock.Clock,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:            uow,
		calculator:     calculator,
		bookingQueries: bookingQueries,
		clock:          clk,
	}
}

func (b *bookingUseCaseImpl) Quote(ctx context.Context, req reqdto.QuoteRequest, artistID uuid.UUID) (*QuoteResult, error) {
	in, err := b.buildQuoteInput(ctx, b.uow.CommandReads(), req)
	if err != nil {
		return nil, err
	}

	quote, err := b.calculator.Quote(in)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	result := &QuoteResult{Quote: quote}

	if booking.PaymentSource(req.PaymentSource) == booking.PaidByLabel && req.LabelID != nil {
		budget, err := b.uow.CommandReads().LabelBudgetByID(ctx, *req.LabelID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrLabelBudgetNotFound
			}
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if checkErr := budget.CheckAffordable(artistID, quote.Total.Cents()); checkErr != nil {
			var insufficient *label.InsufficientFundsError
			if errors.As(checkErr, &insufficient) {
				result.BudgetWarning = insufficient
			}
		}
	}

	return result, nil
}

func (b *bookingUseCaseImpl) CreateBooking(
	ctx context.Context,
	req reqdto.CreateBookingRequest,
	artistID uuid.UUID,
	idempotencyKey uuid.UUID,
) (*CreateBookingResult, error) {
	requestHash := calculateRequestHash(req)
	expiresAt := b.clock.Now().Add(24 * time.Hour)

	var (
		replayID  *uuid.UUID
		createdID uuid.UUID
	)

	err := b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		inserted, err := tx.Idempotency().TryInsert(ctx, tx.DB(), idempotencyKey, artistID, createBookingEndpoint, requestHash, expiresAt)
		if err != nil {
			return errs.Mark(err, ErrIdempotencyCheckFailed)
		}
		if !inserted {
			id, err := b.resolveExistingKey(ctx, tx, idempotencyKey, artistID, requestHash)
			if err != nil {
				return err
			}
			replayID = id
			return nil
		}

		id, err := b.createNewBooking(ctx, tx, req, artistID)
		if err != nil {
			return err
		}

		if err := tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), idempotencyKey, artistID, calculateIDHash(id), id); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		createdID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	if replayID != nil {
		view, err := b.bookingQueries.GetByIDSystem(ctx, *replayID)
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return &CreateBookingResult{Booking: view, IsReplayed: true}, nil
	}

	// Read-after-write: return the full view from the read store
	view, err := b.bookingQueries.GetByIDSystem(ctx, createdID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return &CreateBookingResult{Booking: view, IsReplayed: false}, nil
}

// CancelBooking is a plain status transition; nothing is refunded here
// because payment collection lives outside this service. Bookings are
// never deleted.
func (b *bookingUseCaseImpl) CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID, role user.Role) error {
	return b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().BookingByID(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if role != user.RoleAdmin && snap.ArtistID != actorID {
			return ErrCancelForbidden
		}
		if !snap.Status.CanTransitionTo(booking.StatusCanceled) {
			return ErrBookingNotCancelable
		}

		if err := tx.Bookings().UpdateStatus(ctx, tx.DB(), bookingID, snap.Status, booking.StatusCanceled); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrBookingNotCancelable
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

// resolveExistingKey decides what an already-claimed idempotency key
// means: a completed request replays its booking, an in-flight request
// with the same payload waits, anything else is a conflicting reuse.
func (b *bookingUseCaseImpl) resolveExistingKey(
	ctx context.Context,
	tx shared.Tx,
	idempotencyKey, artistID uuid.UUID,
	requestHash string,
) (*uuid.UUID, error) {
	existing, err := tx.Reads().IdempotencyByKey(ctx, idempotencyKey, artistID)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}

	switch existing.Status {
	case "completed":
		if existing.ResultBookingID == nil {
			return nil, errs.New("completed request missing result booking ID")
		}
		return existing.ResultBookingID, nil

	case "processing":
		if existing.RequestHash != requestHash {
			return nil, ErrDuplicateBooking
		}
		return nil, ErrIdempotencyInProgress

	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (b *bookingUseCaseImpl) createNewBooking(
	ctx context.Context,
	tx shared.Tx,
	req reqdto.CreateBookingRequest,
	artistID uuid.UUID,
) (uuid.UUID, error) {
	in, err := b.buildQuoteInput(ctx, tx.Reads(), req.QuoteRequest)
	if err != nil {
		return uuid.Nil, err
	}

	quote, err := b.calculator.Quote(in)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	paymentSource := booking.PaymentSource(req.PaymentSource)
	if !paymentSource.IsValid() {
		return uuid.Nil, ErrDomainValidation
	}

	if paymentSource == booking.PaidByLabel {
		if req.LabelID == nil {
			return uuid.Nil, errs.Mark(booking.ErrMissingLabel, ErrDomainValidation)
		}
		budget, err := tx.Reads().LabelBudgetByID(ctx, *req.LabelID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return uuid.Nil, ErrLabelBudgetNotFound
			}
			return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := budget.CheckAffordable(artistID, quote.Total.Cents()); err != nil {
			return uuid.Nil, err
		}
	}

	entity, err := booking.NewBooking(booking.NewBookingParams{
		RoomID:        in.Room.ID,
		StoodioID:     in.Room.StoodioID,
		ArtistID:      artistID,
		EngineerID:    req.EngineerID,
		ProducerID:    req.ProducerID,
		LabelID:       req.LabelID,
		SessionStart:  req.SessionStart,
		DurationHours: req.DurationHours,
		RequestType:   in.RequestType,
		PaymentSource: paymentSource,
		Quote:         *quote,
		Beats:         in.Beats,
	})
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	id, err := tx.Bookings().Create(ctx, tx.DB(), entity)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if paymentSource == booking.PaidByLabel {
		if err := tx.LabelBudgets().RecordSpend(ctx, tx.DB(), *req.LabelID, artistID, quote.Total.Cents()); err != nil {
			return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}

	return id, nil
}

// buildQuoteInput resolves every referenced catalog entity into the
// rate snapshots the calculator prices from.
func (b *bookingUseCaseImpl) buildQuoteInput(ctx context.Context, reads shared.CommandReads, req reqdto.QuoteRequest) (booking.QuoteInput, error) {
	requestType := booking.RequestType(req.RequestType)
	if !requestType.IsValid() {
		return booking.QuoteInput{}, ErrDomainValidation
	}

	room, err := reads.RoomByID(ctx, req.RoomID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return booking.QuoteInput{}, ErrRoomNotFound
		}
		return booking.QuoteInput{}, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	in := booking.QuoteInput{
		Room:                room.Room,
		Stoodio:             room.Stoodio,
		DurationHours:       req.DurationHours,
		RequestType:         requestType,
		RequestedEngineerID: req.EngineerID,
	}

	if req.EngineerID != nil && requestType != booking.RequestBringYourOwn {
		engineer, err := reads.EngineerByID(ctx, *req.EngineerID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return booking.QuoteInput{}, ErrEngineerNotFound
			}
			return booking.QuoteInput{}, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !engineer.IsActive {
			return booking.QuoteInput{}, ErrEngineerUnavailable
		}
		in.Engineer = &engineer.Spec
	}

	if req.ProducerID != nil {
		producer, err := reads.ProducerByID(ctx, *req.ProducerID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return booking.QuoteInput{}, ErrProducerNotFound
			}
			return booking.QuoteInput{}, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !producer.IsActive {
			return booking.QuoteInput{}, ErrProducerUnavailable
		}
		in.IncludeProducer = true
		in.ProducerPullUpFeeCents = producer.PullUpFeeCents
	}

	if len(req.BeatIDs) > 0 {
		beats, err := reads.BeatsByIDs(ctx, req.BeatIDs)
		if err != nil {
			return booking.QuoteInput{}, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if len(beats) != len(req.BeatIDs) {
			return booking.QuoteInput{}, ErrBeatNotFound
		}
		in.Beats = beats
	}

	if req.MixingTracks != nil && *req.MixingTracks > 0 {
		in.Mixing = &booking.MixingSpec{TrackCount: *req.MixingTracks}
	}

	return in, nil
}

func calculateRequestHash(req reqdto.CreateBookingRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func calculateIDHash(id uuid.UUID) string {
	hash := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(hash[:])
}
