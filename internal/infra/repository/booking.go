package repository

import (
	"context"

	"stoodioz/internal/domain/booking"
	"stoodioz/internal/infra"
	"stoodioz/internal/infra/db"
	"stoodioz/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

const insertBookingSQL = `
INSERT INTO bookings (
	id, room_id, stoodio_id, artist_id, engineer_id, producer_id, label_id,
	session_start, duration_hours, request_type, payment_source, status,
	stoodio_cost_cents, engineer_fee_cents, beats_cost_cents, pull_up_fee_cents,
	mixing_cost_cents, subtotal_cents, service_fee_cents, total_cents,
	engineer_pay_rate_cents
) VALUES (
	$1, $2, $3, $4, $5, $6, $7,
	$8, $9, $10, $11, $12,
	$13, $14, $15, $16,
	$17, $18, $19, $20,
	$21
)
RETURNING id`

const insertBookingBeatSQL = `
INSERT INTO booking_beats (booking_id, beat_id, title, lease_price_cents)
VALUES ($1, $2, $3, $4)`

func (r *BookingRepository) Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	quote := b.Quote()

	var id uuid.UUID
	err := dbtx.QueryRow(ctx, insertBookingSQL,
		b.ID(), b.RoomID(), b.StoodioID(), b.ArtistID(),
		pgconv.UUIDPtrToPgtype(b.EngineerID()),
		pgconv.UUIDPtrToPgtype(b.ProducerID()),
		pgconv.UUIDPtrToPgtype(b.LabelID()),
		b.SessionStart(), int32(b.DurationHours()),
		b.RequestType().String(), string(b.PaymentSource()), b.Status().String(),
		quote.StoodioCost.Cents(), quote.EngineerFee.Cents(), quote.BeatsCost.Cents(),
		quote.PullUpFee.Cents(), quote.MixingCost.Cents(), quote.Subtotal.Cents(),
		quote.ServiceFee.Cents(), quote.Total.Cents(),
		quote.EngineerPayRateCents,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}

	for _, beat := range b.Beats() {
		if _, err := dbtx.Exec(ctx, insertBookingBeatSQL, id, beat.ID, beat.Title, beat.LeasePriceCents); err != nil {
			return uuid.Nil, infra.WrapRepoErr("failed to attach beat to booking", err)
		}
	}

	return id, nil
}

const updateBookingStatusSQL = `
UPDATE bookings
SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2`

// UpdateStatus performs a compare-and-set on the status column; a row
// that moved on concurrently reports a conflict instead of silently
// overwriting.
func (r *BookingRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, from, to booking.Status) error {
	tag, err := dbtx.Exec(ctx, updateBookingStatusSQL, id, from.String(), to.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking status changed concurrently", nil, infra.KindConflict)
	}
	return nil
}

const setBookingTipSQL = `
UPDATE bookings
SET tip_cents = $2, updated_at = now()
WHERE id = $1`

func (r *BookingRepository) SetTip(ctx context.Context, dbtx db.DBTX, id uuid.UUID, tipCents int64) error {
	tag, err := dbtx.Exec(ctx, setBookingTipSQL, id, tipCents)
	if err != nil {
		return infra.WrapRepoErr("failed to set booking tip", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}
