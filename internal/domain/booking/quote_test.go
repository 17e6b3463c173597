//go:build unit

package booking_test

import (
	"testing"

	"stoodioz/internal/domain/booking"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dollars(d int64) int64 { return d * 100 }

func baseInput() booking.QuoteInput {
	return booking.QuoteInput{
		Room: booking.RoomSpec{
			ID:              uuid.New(),
			StoodioID:       uuid.New(),
			HourlyRateCents: dollars(75),
		},
		Stoodio: booking.StoodioSpec{
			ID:                   uuid.New(),
			EngineerPayRateCents: dollars(40),
		},
		DurationHours: 2,
		RequestType:   booking.RequestBringYourOwn,
	}
}

func TestCalculator_Quote(t *testing.T) {
	calc := booking.NewCalculator(0.15, 12)

	t.Run("bring your own engineer, no add-ons", func(t *testing.T) {
		// $75/hr x 2h = $150, 15% fee = $22.50, total $172.50
		quote, err := calc.Quote(baseInput())
		require.NoError(t, err)

		expected := &booking.Quote{
			StoodioCost:          booking.MustMoney(15000),
			Subtotal:             booking.MustMoney(15000),
			ServiceFee:           booking.MustMoney(2250),
			Total:                booking.MustMoney(17250),
			EngineerPayRateCents: dollars(40),
		}
		if diff := cmp.Diff(expected, quote, cmp.AllowUnexported(booking.Money{})); diff != "" {
			t.Errorf("quote mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("specific engineer with in-house rate plus mixing", func(t *testing.T) {
		engineerID := uuid.New()
		in := baseInput()
		in.DurationHours = 3
		in.RequestType = booking.RequestSpecificEngineer
		in.RequestedEngineerID = &engineerID
		in.Stoodio.InHouseRates = map[uuid.UUID]int64{engineerID: dollars(50)}
		in.Engineer = &booking.EngineerSpec{
			ID:                       engineerID,
			MixingEnabled:            true,
			MixingPricePerTrackCents: dollars(20),
		}
		in.Mixing = &booking.MixingSpec{TrackCount: 4}

		quote, err := calc.Quote(in)
		require.NoError(t, err)

		assert.Equal(t, dollars(225), quote.StoodioCost.Cents())
		assert.Equal(t, dollars(150), quote.EngineerFee.Cents())
		assert.Equal(t, dollars(80), quote.MixingCost.Cents())
		assert.Equal(t, dollars(455), quote.Subtotal.Cents())
		assert.Equal(t, int64(6825), quote.ServiceFee.Cents())
		assert.Equal(t, int64(52325), quote.Total.Cents())
		assert.Equal(t, dollars(50), quote.EngineerPayRateCents)
	})

	t.Run("falls back to stoodio rate without in-house record", func(t *testing.T) {
		engineerID := uuid.New()
		in := baseInput()
		in.RequestType = booking.RequestSpecificEngineer
		in.RequestedEngineerID = &engineerID

		quote, err := calc.Quote(in)
		require.NoError(t, err)
		assert.Equal(t, dollars(40), quote.EngineerPayRateCents)
		assert.Equal(t, dollars(80), quote.EngineerFee.Cents())
	})

	t.Run("bring your own zeroes engineer fee regardless of rates", func(t *testing.T) {
		in := baseInput()
		in.Stoodio.EngineerPayRateCents = dollars(500)

		quote, err := calc.Quote(in)
		require.NoError(t, err)
		assert.True(t, quote.EngineerFee.IsZero())
	})

	t.Run("beats and pull-up fee contribute to subtotal", func(t *testing.T) {
		in := baseInput()
		in.Beats = []booking.BeatSpec{
			{ID: uuid.New(), Title: "Night Drive", LeasePriceCents: dollars(30)},
			{ID: uuid.New(), Title: "Cold Keys", LeasePriceCents: dollars(45)},
		}
		in.IncludeProducer = true
		in.ProducerPullUpFeeCents = dollars(100)

		quote, err := calc.Quote(in)
		require.NoError(t, err)
		assert.Equal(t, dollars(75), quote.BeatsCost.Cents())
		assert.Equal(t, dollars(100), quote.PullUpFee.Cents())
		// 150 + 75 + 100 = 325
		assert.Equal(t, dollars(325), quote.Subtotal.Cents())
	})

	t.Run("producer without pull-up flag adds nothing", func(t *testing.T) {
		in := baseInput()
		in.IncludeProducer = false
		in.ProducerPullUpFeeCents = dollars(100)

		quote, err := calc.Quote(in)
		require.NoError(t, err)
		assert.True(t, quote.PullUpFee.IsZero())
	})

	t.Run("mixing without engineer offering is free", func(t *testing.T) {
		in := baseInput()
		in.Engineer = &booking.EngineerSpec{ID: uuid.New(), MixingEnabled: false, MixingPricePerTrackCents: dollars(25)}
		in.Mixing = &booking.MixingSpec{TrackCount: 6}

		quote, err := calc.Quote(in)
		require.NoError(t, err)
		assert.True(t, quote.MixingCost.IsZero())
	})

	t.Run("total equals subtotal plus service fee for every breakdown", func(t *testing.T) {
		in := baseInput()
		in.RequestType = booking.RequestFindAvailable
		in.Beats = []booking.BeatSpec{{ID: uuid.New(), LeasePriceCents: 3333}}
		in.IncludeProducer = true
		in.ProducerPullUpFeeCents = 9999

		quote, err := calc.Quote(in)
		require.NoError(t, err)

		sum := quote.StoodioCost.Add(quote.EngineerFee).Add(quote.BeatsCost).Add(quote.PullUpFee).Add(quote.MixingCost)
		assert.Equal(t, sum.Cents(), quote.Subtotal.Cents())
		assert.Equal(t, quote.Subtotal.Add(quote.ServiceFee).Cents(), quote.Total.Cents())
	})

	t.Run("service fee percentage is injected, not fixed", func(t *testing.T) {
		flat := booking.NewCalculator(0, 12)
		quote, err := flat.Quote(baseInput())
		require.NoError(t, err)
		assert.True(t, quote.ServiceFee.IsZero())
		assert.Equal(t, quote.Subtotal.Cents(), quote.Total.Cents())
	})
}

func TestCalculator_Quote_Validation(t *testing.T) {
	calc := booking.NewCalculator(0.15, 12)

	testCases := []struct {
		name   string
		mutate func(in *booking.QuoteInput)
		errIs  error
	}{
		{
			name:   "zero duration",
			mutate: func(in *booking.QuoteInput) { in.DurationHours = 0 },
			errIs:  booking.ErrInvalidDuration,
		},
		{
			name:   "negative duration",
			mutate: func(in *booking.QuoteInput) { in.DurationHours = -3 },
			errIs:  booking.ErrInvalidDuration,
		},
		{
			name:   "duration above platform max",
			mutate: func(in *booking.QuoteInput) { in.DurationHours = 13 },
			errIs:  booking.ErrInvalidDuration,
		},
		{
			name: "specific engineer without selection",
			mutate: func(in *booking.QuoteInput) {
				in.RequestType = booking.RequestSpecificEngineer
				in.RequestedEngineerID = nil
			},
			errIs: booking.ErrMissingEngineer,
		},
		{
			name:   "unknown request type",
			mutate: func(in *booking.QuoteInput) { in.RequestType = booking.RequestType("vip") },
			errIs:  booking.ErrInvalidRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := baseInput()
			tc.mutate(&in)

			quote, err := calc.Quote(in)
			require.Nil(t, quote)
			require.ErrorIs(t, err, tc.errIs)
		})
	}
}
