package booking

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidDuration = errors.New("invalid session duration")
	ErrMissingEngineer = errors.New("engineer must be selected for this request type")
	ErrInvalidRequest  = errors.New("invalid booking request")
)

// RoomSpec is the room rate snapshot a quote is computed from. The rate
// is copied into the booking at creation time so later room edits never
// reprice a confirmed session.
type RoomSpec struct {
	ID              uuid.UUID
	StoodioID       uuid.UUID
	HourlyRateCents int64
}

// StoodioSpec carries the studio's default freelance engineer rate and
// any in-house per-engineer overrides on file.
type StoodioSpec struct {
	ID                   uuid.UUID
	EngineerPayRateCents int64
	InHouseRates         map[uuid.UUID]int64
}

// EngineerSpec is the resolved engineer for a session, including their
// mixing add-on offering.
type EngineerSpec struct {
	ID                       uuid.UUID
	MixingEnabled            bool
	MixingPricePerTrackCents int64
}

type BeatSpec struct {
	ID              uuid.UUID
	Title           string
	LeasePriceCents int64
}

type MixingSpec struct {
	TrackCount int
}

type QuoteInput struct {
	Room                   RoomSpec
	Stoodio                StoodioSpec
	DurationHours          int
	RequestType            RequestType
	RequestedEngineerID    *uuid.UUID
	Engineer               *EngineerSpec
	IncludeProducer        bool
	ProducerPullUpFeeCents int64
	Beats                  []BeatSpec
	Mixing                 *MixingSpec
}

// Quote is the full monetary breakdown of a prospective booking.
type Quote struct {
	StoodioCost          Money
	EngineerFee          Money
	BeatsCost            Money
	PullUpFee            Money
	MixingCost           Money
	Subtotal             Money
	ServiceFee           Money
	Total                Money
	EngineerPayRateCents int64
}

// Calculator computes booking quotes. Pure: no persistence or network
// side effects, safe for concurrent use.
type Calculator struct {
	serviceFeePct   float64
	maxSessionHours int
}

func NewCalculator(serviceFeePct float64, maxSessionHours int) *Calculator {
	return &Calculator{
		serviceFeePct:   serviceFeePct,
		maxSessionHours: maxSessionHours,
	}
}

func (c *Calculator) Quote(in QuoteInput) (*Quote, error) {
	if in.DurationHours < 1 || in.DurationHours > c.maxSessionHours {
		return nil, ErrInvalidDuration
	}
	if !in.RequestType.IsValid() {
		return nil, ErrInvalidRequest
	}
	if in.RequestType == RequestSpecificEngineer && in.RequestedEngineerID == nil {
		return nil, ErrMissingEngineer
	}

	payRate := c.effectiveEngineerPayRate(in)

	stoodioCost := MustMoney(in.Room.HourlyRateCents).Mul(in.DurationHours)

	engineerFee := Money{}
	if in.RequestType != RequestBringYourOwn {
		engineerFee = MustMoney(payRate).Mul(in.DurationHours)
	}

	beatsCost := Money{}
	for _, beat := range in.Beats {
		beatsCost = beatsCost.Add(MustMoney(beat.LeasePriceCents))
	}

	pullUpFee := Money{}
	if in.IncludeProducer && in.ProducerPullUpFeeCents > 0 {
		pullUpFee = MustMoney(in.ProducerPullUpFeeCents)
	}

	mixingCost := Money{}
	if in.Mixing != nil && in.Mixing.TrackCount >= 1 && in.Engineer != nil && in.Engineer.MixingEnabled {
		mixingCost = MustMoney(in.Engineer.MixingPricePerTrackCents).Mul(in.Mixing.TrackCount)
	}

	subtotal := stoodioCost.Add(engineerFee).Add(beatsCost).Add(pullUpFee).Add(mixingCost)
	serviceFee := subtotal.Percent(c.serviceFeePct)
	total := subtotal.Add(serviceFee)

	return &Quote{
		StoodioCost:          stoodioCost,
		EngineerFee:          engineerFee,
		BeatsCost:            beatsCost,
		PullUpFee:            pullUpFee,
		MixingCost:           mixingCost,
		Subtotal:             subtotal,
		ServiceFee:           serviceFee,
		Total:                total,
		EngineerPayRateCents: payRate,
	}, nil
}

// effectiveEngineerPayRate prefers an in-house rate on file for the
// requested engineer at this studio; otherwise the studio default.
func (c *Calculator) effectiveEngineerPayRate(in QuoteInput) int64 {
	if in.RequestType == RequestSpecificEngineer && in.RequestedEngineerID != nil {
		if rate, ok := in.Stoodio.InHouseRates[*in.RequestedEngineerID]; ok {
			return rate
		}
	}
	return in.Stoodio.EngineerPayRateCents
}
