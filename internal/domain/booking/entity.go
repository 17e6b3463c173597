package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingSessionTime = errors.New("session date and start time are required")
	ErrInvalidTransition  = errors.New("invalid booking status transition")
	ErrMissingLabel       = errors.New("label payment source requires a label")
)

// Booking is the persisted session record. The quote breakdown and the
// engineer pay rate are snapshots taken at submission; status is the
// only thing that changes afterwards.
type Booking struct {
	id            uuid.UUID
	roomID        uuid.UUID
	stoodioID     uuid.UUID
	artistID      uuid.UUID
	engineerID    *uuid.UUID
	producerID    *uuid.UUID
	labelID       *uuid.UUID
	sessionStart  time.Time
	durationHours int
	requestType   RequestType
	paymentSource PaymentSource
	quote         Quote
	beats         []BeatSpec
	tip           Money
	status        Status
	createdAt     time.Time
	updatedAt     time.Time
}

type NewBookingParams struct {
	RoomID        uuid.UUID
	StoodioID     uuid.UUID
	ArtistID      uuid.UUID
	EngineerID    *uuid.UUID
	ProducerID    *uuid.UUID
	LabelID       *uuid.UUID
	SessionStart  time.Time
	DurationHours int
	RequestType   RequestType
	PaymentSource PaymentSource
	Quote         Quote
	Beats         []BeatSpec
}

// NewBooking applies the submission validity gate: session time present,
// positive duration, and an engineer selected when the request names one.
// A SPECIFIC_ENGINEER request starts pending that engineer's approval;
// everything else confirms immediately.
func NewBooking(p NewBookingParams) (*Booking, error) {
	if p.SessionStart.IsZero() {
		return nil, ErrMissingSessionTime
	}
	if p.DurationHours < 1 {
		return nil, ErrInvalidDuration
	}
	if p.RequestType == RequestSpecificEngineer && p.EngineerID == nil {
		return nil, ErrMissingEngineer
	}
	if p.PaymentSource == PaidByLabel && p.LabelID == nil {
		return nil, ErrMissingLabel
	}

	status := StatusConfirmed
	if p.RequestType == RequestSpecificEngineer {
		status = StatusPendingApproval
	}

	return &Booking{
		id:            uuid.New(),
		roomID:        p.RoomID,
		stoodioID:     p.StoodioID,
		artistID:      p.ArtistID,
		engineerID:    p.EngineerID,
		producerID:    p.ProducerID,
		labelID:       p.LabelID,
		sessionStart:  p.SessionStart,
		durationHours: p.DurationHours,
		requestType:   p.RequestType,
		paymentSource: p.PaymentSource,
		quote:         p.Quote,
		beats:         p.Beats,
		status:        status,
	}, nil
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) RoomID() uuid.UUID            { return b.roomID }
func (b *Booking) StoodioID() uuid.UUID         { return b.stoodioID }
func (b *Booking) ArtistID() uuid.UUID          { return b.artistID }
func (b *Booking) EngineerID() *uuid.UUID       { return b.engineerID }
func (b *Booking) ProducerID() *uuid.UUID       { return b.producerID }
func (b *Booking) LabelID() *uuid.UUID          { return b.labelID }
func (b *Booking) SessionStart() time.Time      { return b.sessionStart }
func (b *Booking) DurationHours() int           { return b.durationHours }
func (b *Booking) RequestType() RequestType     { return b.requestType }
func (b *Booking) PaymentSource() PaymentSource { return b.paymentSource }
func (b *Booking) Quote() Quote                 { return b.quote }
func (b *Booking) Beats() []BeatSpec            { return b.beats }
func (b *Booking) Tip() Money                   { return b.tip }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }

// GrossPayoutCents is what the session's talent earned: the snapshotted
// engineer pay rate over the booked hours. Bring-your-own and pure beat
// purchases pay no engineer fee, so nothing is routed for them.
func (b *Booking) GrossPayoutCents() int64 {
	if b.requestType == RequestBringYourOwn || b.requestType == RequestBeatPurchase {
		return 0
	}
	return b.quote.EngineerPayRateCents * int64(b.durationHours)
}
