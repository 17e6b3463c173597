//go:build unit

package booking_test

import (
	"testing"
	"time"

	"stoodioz/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseParams() booking.NewBookingParams {
	return booking.NewBookingParams{
		RoomID:        uuid.New(),
		StoodioID:     uuid.New(),
		ArtistID:      uuid.New(),
		SessionStart:  time.Date(2026, 9, 12, 14, 0, 0, 0, time.UTC),
		DurationHours: 2,
		RequestType:   booking.RequestFindAvailable,
		PaymentSource: booking.PaidByArtist,
		Quote: booking.Quote{
			Total:                booking.MustMoney(17250),
			EngineerPayRateCents: 4000,
		},
	}
}

func TestNewBooking(t *testing.T) {
	t.Run("confirms immediately for find-available requests", func(t *testing.T) {
		b, err := booking.NewBooking(baseParams())
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, b.ID())
		assert.Equal(t, booking.StatusConfirmed, b.Status())
	})

	t.Run("specific engineer requests start pending approval", func(t *testing.T) {
		engineerID := uuid.New()
		p := baseParams()
		p.RequestType = booking.RequestSpecificEngineer
		p.EngineerID = &engineerID

		b, err := booking.NewBooking(p)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPendingApproval, b.Status())
	})

	t.Run("validation", func(t *testing.T) {
		testCases := []struct {
			name   string
			mutate func(p *booking.NewBookingParams)
			errIs  error
		}{
			{
				name:   "missing session time",
				mutate: func(p *booking.NewBookingParams) { p.SessionStart = time.Time{} },
				errIs:  booking.ErrMissingSessionTime,
			},
			{
				name:   "zero duration",
				mutate: func(p *booking.NewBookingParams) { p.DurationHours = 0 },
				errIs:  booking.ErrInvalidDuration,
			},
			{
				name: "specific engineer without engineer",
				mutate: func(p *booking.NewBookingParams) {
					p.RequestType = booking.RequestSpecificEngineer
					p.EngineerID = nil
				},
				errIs: booking.ErrMissingEngineer,
			},
			{
				name: "label payment without label",
				mutate: func(p *booking.NewBookingParams) {
					p.PaymentSource = booking.PaidByLabel
					p.LabelID = nil
				},
				errIs: booking.ErrMissingLabel,
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				p := baseParams()
				tc.mutate(&p)

				b, err := booking.NewBooking(p)
				require.Nil(t, b)
				require.ErrorIs(t, err, tc.errIs)
			})
		}
	})
}

func TestBooking_GrossPayout(t *testing.T) {
	t.Run("pay rate snapshot times duration", func(t *testing.T) {
		p := baseParams()
		p.DurationHours = 3
		p.Quote.EngineerPayRateCents = 5000

		b, err := booking.NewBooking(p)
		require.NoError(t, err)
		assert.Equal(t, int64(15000), b.GrossPayoutCents())
	})

	t.Run("nothing to route for bring-your-own sessions", func(t *testing.T) {
		p := baseParams()
		p.RequestType = booking.RequestBringYourOwn

		b, err := booking.NewBooking(p)
		require.NoError(t, err)
		assert.Zero(t, b.GrossPayoutCents())
	})

	t.Run("nothing to route for beat purchases", func(t *testing.T) {
		p := baseParams()
		p.RequestType = booking.RequestBeatPurchase

		b, err := booking.NewBooking(p)
		require.NoError(t, err)
		assert.Zero(t, b.GrossPayoutCents())
	})
}

func TestStatus_CanTransitionTo(t *testing.T) {
	testCases := []struct {
		from    booking.Status
		to      booking.Status
		allowed bool
	}{
		{booking.StatusPendingApproval, booking.StatusConfirmed, true},
		{booking.StatusPendingApproval, booking.StatusCanceled, true},
		{booking.StatusPendingApproval, booking.StatusCompleted, false},
		{booking.StatusConfirmed, booking.StatusInProgress, true},
		{booking.StatusConfirmed, booking.StatusCompleted, true},
		{booking.StatusConfirmed, booking.StatusCanceled, true},
		{booking.StatusInProgress, booking.StatusCompleted, true},
		{booking.StatusInProgress, booking.StatusCanceled, false},
		{booking.StatusCompleted, booking.StatusCanceled, false},
		{booking.StatusCanceled, booking.StatusConfirmed, false},
	}

	for _, tc := range testCases {
		t.Run(tc.from.String()+"->"+tc.to.String(), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}
