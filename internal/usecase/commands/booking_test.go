//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"stoodioz/internal/domain/booking"
	"stoodioz/internal/domain/label"
	"stoodioz/internal/domain/user"
	reqdto "stoodioz/internal/handler/dto/request"
	"stoodioz/internal/infra"
	"stoodioz/internal/pkg/clock"
	"stoodioz/internal/usecase/commands"
	"stoodioz/internal/usecase/queries"
	"stoodioz/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBookingQueries serves the read-after-write lookup without a
// database; it returns a canned view for any id.
type fakeBookingQueries struct {
	view *queries.BookingView
	err  error
}

func (q *fakeBookingQueries) GetByID(_ context.Context, _ uuid.UUID, _ uuid.UUID, _ user.Role) (*queries.BookingView, error) {
	return q.view, q.err
}

func (q *fakeBookingQueries) GetByIDSystem(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	if q.err != nil {
		return nil, q.err
	}
	view := *q.view
	view.ID = id
	return &view, nil
}

func (q *fakeBookingQueries) ListForUser(_ context.Context, _ uuid.UUID, _ int32) ([]*queries.BookingListItem, error) {
	return nil, nil
}

func newBookingUseCase(uow *fakeUoW) commands.BookingCommands {
	calculator := booking.NewCalculator(0.15, 12)
	clk := clock.NewMockClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	return commands.NewBookingUseCase(uow, calculator, &fakeBookingQueries{view: &queries.BookingView{}}, clk)
}

func roomSnapshot(hourlyRateCents, engineerPayRateCents int64) *shared.RoomSnapshot {
	return &shared.RoomSnapshot{
		Room: booking.RoomSpec{
			ID:              uuid.New(),
			StoodioID:       uuid.New(),
			HourlyRateCents: hourlyRateCents,
		},
		Stoodio: booking.StoodioSpec{
			EngineerPayRateCents: engineerPayRateCents,
			InHouseRates:         map[uuid.UUID]int64{},
		},
	}
}

func quoteRequest(roomID uuid.UUID, hours int) reqdto.QuoteRequest {
	return reqdto.QuoteRequest{
		RoomID:        roomID,
		DurationHours: hours,
		RequestType:   string(booking.RequestFindAvailable),
		PaymentSource: string(booking.PaidByArtist),
	}
}

func TestQuote_PricesTheSession(t *testing.T) {
	uow := newFakeUoW()
	// room $150/h, engineer $60/h, 4 hours
	snap := roomSnapshot(15000, 6000)
	uow.tx.reads.room = snap

	uc := newBookingUseCase(uow)
	result, err := uc.Quote(context.Background(), quoteRequest(snap.Room.ID, 4), uuid.New())
	require.NoError(t, err)

	q := result.Quote
	assert.Equal(t, int64(60000), q.StoodioCost.Cents())
	assert.Equal(t, int64(24000), q.EngineerFee.Cents())
	assert.Equal(t, int64(84000), q.Subtotal.Cents())
	assert.Equal(t, int64(12600), q.ServiceFee.Cents())
	assert.Equal(t, int64(96600), q.Total.Cents())
	assert.Nil(t, result.BudgetWarning)
}

func TestQuote_ResolutionErrors(t *testing.T) {
	t.Run("unknown room", func(t *testing.T) {
		uow := newFakeUoW()
		uc := newBookingUseCase(uow)
		_, err := uc.Quote(context.Background(), quoteRequest(uuid.New(), 4), uuid.New())
		require.ErrorIs(t, err, commands.ErrRoomNotFound)
	})

	t.Run("inactive engineer is unavailable", func(t *testing.T) {
		uow := newFakeUoW()
		snap := roomSnapshot(15000, 6000)
		uow.tx.reads.room = snap
		engineerID := uuid.New()
		uow.tx.reads.engineer = &shared.EngineerSnapshot{
			Spec:     booking.EngineerSpec{ID: engineerID},
			IsActive: false,
		}

		req := quoteRequest(snap.Room.ID, 4)
		req.RequestType = string(booking.RequestSpecificEngineer)
		req.EngineerID = &engineerID

		uc := newBookingUseCase(uow)
		_, err := uc.Quote(context.Background(), req, uuid.New())
		require.ErrorIs(t, err, commands.ErrEngineerUnavailable)
	})

	t.Run("missing beat fails the whole quote", func(t *testing.T) {
		uow := newFakeUoW()
		snap := roomSnapshot(15000, 6000)
		uow.tx.reads.room = snap
		uow.tx.reads.beats = []booking.BeatSpec{{ID: uuid.New(), LeasePriceCents: 5000}}

		req := quoteRequest(snap.Room.ID, 4)
		req.BeatIDs = []uuid.UUID{uuid.New(), uuid.New()}

		uc := newBookingUseCase(uow)
		_, err := uc.Quote(context.Background(), req, uuid.New())
		require.ErrorIs(t, err, commands.ErrBeatNotFound)
	})

	t.Run("duration past the cap", func(t *testing.T) {
		uow := newFakeUoW()
		snap := roomSnapshot(15000, 6000)
		uow.tx.reads.room = snap

		uc := newBookingUseCase(uow)
		_, err := uc.Quote(context.Background(), quoteRequest(snap.Room.ID, 13), uuid.New())
		require.ErrorIs(t, err, commands.ErrDomainValidation)
	})
}

func TestQuote_LabelBudgetWarning(t *testing.T) {
	uow := newFakeUoW()
	snap := roomSnapshot(15000, 6000)
	uow.tx.reads.room = snap

	artistID := uuid.New()
	labelID := uuid.New()
	// Budget short of the $966 total; the quote still succeeds.
	uow.tx.reads.labelBudget = &label.BudgetOverview{
		LabelID:          labelID,
		TotalBudgetCents: 50000,
		SpentCents:       0,
	}

	req := quoteRequest(snap.Room.ID, 4)
	req.PaymentSource = string(booking.PaidByLabel)
	req.LabelID = &labelID

	uc := newBookingUseCase(uow)
	result, err := uc.Quote(context.Background(), req, artistID)
	require.NoError(t, err)

	require.NotNil(t, result.BudgetWarning)
	assert.Equal(t, int64(50000), result.BudgetWarning.RemainingTotalCents)
	assert.Equal(t, int64(96600), result.Quote.Total.Cents())
}

func createRequest(roomID uuid.UUID, hours int) reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		QuoteRequest: quoteRequest(roomID, hours),
		SessionStart: time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC),
	}
}

func TestCreateBooking_New(t *testing.T) {
	uow := newFakeUoW()
	snap := roomSnapshot(15000, 6000)
	uow.tx.reads.room = snap
	uow.tx.idempotency.inserted = true

	uc := newBookingUseCase(uow)
	result, err := uc.CreateBooking(context.Background(), createRequest(snap.Room.ID, 4), uuid.New(), uuid.New())
	require.NoError(t, err)

	assert.False(t, result.IsReplayed)
	require.Len(t, uow.tx.bookings.created, 1)
	created := uow.tx.bookings.created[0]
	assert.Equal(t, snap.Room.ID, created.RoomID())
	assert.Equal(t, int64(96600), created.Quote().Total.Cents())
	// The key was marked completed inside the same transaction.
	assert.Len(t, uow.tx.idempotency.completedKeys, 1)
}

func TestCreateBooking_IdempotencyReplay(t *testing.T) {
	existingBookingID := uuid.New()
	key := uuid.New()
	artistID := uuid.New()
	req := createRequest(uuid.New(), 4)

	t.Run("completed key replays the original booking", func(t *testing.T) {
		uow := newFakeUoW()
		uow.tx.idempotency.inserted = false
		uow.tx.reads.idemRecord = &shared.IdempotencyRecord{
			Key:             key,
			UserID:          artistID,
			Status:          "completed",
			ResultBookingID: &existingBookingID,
		}

		uc := newBookingUseCase(uow)
		result, err := uc.CreateBooking(context.Background(), req, artistID, key)
		require.NoError(t, err)

		assert.True(t, result.IsReplayed)
		assert.Equal(t, existingBookingID, result.Booking.ID)
		// No second booking was written.
		assert.Empty(t, uow.tx.bookings.created)
	})

	t.Run("in-flight key with the same payload reports in progress", func(t *testing.T) {
		uow := newFakeUoW()
		uow.tx.idempotency.inserted = false
		uow.tx.reads.idemRecord = &shared.IdempotencyRecord{
			Key:         key,
			UserID:      artistID,
			Status:      "processing",
			RequestHash: requestHashFor(req),
		}

		uc := newBookingUseCase(uow)
		_, err := uc.CreateBooking(context.Background(), req, artistID, key)
		require.ErrorIs(t, err, commands.ErrIdempotencyInProgress)
	})

	t.Run("key reuse with a different payload conflicts", func(t *testing.T) {
		uow := newFakeUoW()
		uow.tx.idempotency.inserted = false
		uow.tx.reads.idemRecord = &shared.IdempotencyRecord{
			Key:         key,
			UserID:      artistID,
			Status:      "processing",
			RequestHash: "different-request-hash",
		}

		uc := newBookingUseCase(uow)
		_, err := uc.CreateBooking(context.Background(), req, artistID, key)
		require.ErrorIs(t, err, commands.ErrDuplicateBooking)
	})
}

func TestCreateBooking_LabelFunded(t *testing.T) {
	artistID := uuid.New()
	labelID := uuid.New()

	labelRequest := func(roomID uuid.UUID) reqdto.CreateBookingRequest {
		req := createRequest(roomID, 4)
		req.PaymentSource = string(booking.PaidByLabel)
		req.LabelID = &labelID
		return req
	}

	t.Run("affordable booking debits the label", func(t *testing.T) {
		uow := newFakeUoW()
		snap := roomSnapshot(15000, 6000)
		uow.tx.reads.room = snap
		uow.tx.idempotency.inserted = true
		uow.tx.reads.labelBudget = &label.BudgetOverview{
			LabelID:          labelID,
			TotalBudgetCents: 200000,
		}

		uc := newBookingUseCase(uow)
		_, err := uc.CreateBooking(context.Background(), labelRequest(snap.Room.ID), artistID, uuid.New())
		require.NoError(t, err)

		require.Len(t, uow.tx.budgets.spends, 1)
		assert.Equal(t, labelID, uow.tx.budgets.spends[0].LabelID)
		assert.Equal(t, artistID, uow.tx.budgets.spends[0].ArtistID)
		assert.Equal(t, int64(96600), uow.tx.budgets.spends[0].AmountCents)
	})

	t.Run("insufficient budget blocks submission", func(t *testing.T) {
		uow := newFakeUoW()
		snap := roomSnapshot(15000, 6000)
		uow.tx.reads.room = snap
		uow.tx.idempotency.inserted = true
		uow.tx.reads.labelBudget = &label.BudgetOverview{
			LabelID:          labelID,
			TotalBudgetCents: 10000,
		}

		uc := newBookingUseCase(uow)
		_, err := uc.CreateBooking(context.Background(), labelRequest(snap.Room.ID), artistID, uuid.New())

		var insufficient *label.InsufficientFundsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, int64(10000), insufficient.RemainingTotalCents)
		assert.Empty(t, uow.tx.bookings.created)
	})

	t.Run("artist allocation caps the spend", func(t *testing.T) {
		uow := newFakeUoW()
		snap := roomSnapshot(15000, 6000)
		uow.tx.reads.room = snap
		uow.tx.idempotency.inserted = true
		uow.tx.reads.labelBudget = &label.BudgetOverview{
			LabelID:          labelID,
			TotalBudgetCents: 1000000,
			Allocations: []label.ArtistAllocation{
				{ArtistID: artistID, AllocationCents: 50000},
			},
		}

		uc := newBookingUseCase(uow)
		_, err := uc.CreateBooking(context.Background(), labelRequest(snap.Room.ID), artistID, uuid.New())

		var insufficient *label.InsufficientFundsError
		require.ErrorAs(t, err, &insufficient)
		require.NotNil(t, insufficient.RemainingAllocationCents)
		assert.Equal(t, int64(50000), *insufficient.RemainingAllocationCents)
	})
}

func TestCancelBooking(t *testing.T) {
	bookingID := uuid.New()
	artistID := uuid.New()

	snapshot := func(status booking.Status) *shared.BookingSnapshot {
		return &shared.BookingSnapshot{
			ID:       bookingID,
			ArtistID: artistID,
			Status:   status,
		}
	}

	t.Run("artist cancels a pending booking", func(t *testing.T) {
		uow := newFakeUoW()
		uow.tx.reads.booking = snapshot(booking.StatusPendingApproval)

		uc := newBookingUseCase(uow)
		err := uc.CancelBooking(context.Background(), bookingID, artistID, user.RoleArtist)
		require.NoError(t, err)

		require.Len(t, uow.tx.bookings.statusChanges, 1)
		change := uow.tx.bookings.statusChanges[0]
		assert.Equal(t, bookingID, change.ID)
		assert.Equal(t, booking.StatusPendingApproval, change.From)
		assert.Equal(t, booking.StatusCanceled, change.To)
	})

	t.Run("admin can cancel someone else's booking", func(t *testing.T) {
		uow := newFakeUoW()
		uow.tx.reads.booking = snapshot(booking.StatusConfirmed)

		uc := newBookingUseCase(uow)
		err := uc.CancelBooking(context.Background(), bookingID, uuid.New(), user.RoleAdmin)
		require.NoError(t, err)
		assert.Len(t, uow.tx.bookings.statusChanges, 1)
	})

	t.Run("another artist is rejected", func(t *testing.T) {
		uow := newFakeUoW()
		uow.tx.reads.booking = snapshot(booking.StatusConfirmed)

		uc := newBookingUseCase(uow)
		err := uc.CancelBooking(context.Background(), bookingID, uuid.New(), user.RoleArtist)
		require.ErrorIs(t, err, commands.ErrCancelForbidden)
		assert.Empty(t, uow.tx.bookings.statusChanges)
	})

	t.Run("completed booking cannot be canceled", func(t *testing.T) {
		uow := newFakeUoW()
		uow.tx.reads.booking = snapshot(booking.StatusCompleted)

		uc := newBookingUseCase(uow)
		err := uc.CancelBooking(context.Background(), bookingID, artistID, user.RoleArtist)
		require.ErrorIs(t, err, commands.ErrBookingNotCancelable)
	})

	t.Run("unknown booking", func(t *testing.T) {
		uow := newFakeUoW()

		uc := newBookingUseCase(uow)
		err := uc.CancelBooking(context.Background(), uuid.New(), artistID, user.RoleArtist)
		require.ErrorIs(t, err, commands.ErrBookingNotFound)
	})

	t.Run("lost status race surfaces as not cancelable", func(t *testing.T) {
		uow := newFakeUoW()
		uow.tx.reads.booking = snapshot(booking.StatusConfirmed)
		uow.tx.bookings.updateStatusErr = infra.WrapRepoErr("status moved", nil, infra.KindConflict)

		uc := newBookingUseCase(uow)
		err := uc.CancelBooking(context.Background(), bookingID, artistID, user.RoleArtist)
		require.ErrorIs(t, err, commands.ErrBookingNotCancelable)
	})
}

// requestHashFor mirrors the command's request fingerprint so replay
// tests can line up payloads.
func requestHashFor(req reqdto.CreateBookingRequest) string {
	return commands.RequestHashForTesting(req)
}
