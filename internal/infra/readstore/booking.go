package readstore

import (
	"context"

	"stoodioz/internal/domain/booking"
	"stoodioz/internal/infra"
	"stoodioz/internal/infra/db"
	"stoodioz/internal/pkg/pgconv"
	"stoodioz/internal/usecase/queries"
	"stoodioz/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const findBookingByIDSQL = `
SELECT b.id, b.room_id, r.name, b.stoodio_id, s.name,
       b.artist_id, b.engineer_id, b.producer_id, b.label_id,
       b.session_start, b.duration_hours, b.request_type, b.payment_source, b.status,
       b.stoodio_cost_cents, b.engineer_fee_cents, b.beats_cost_cents, b.pull_up_fee_cents,
       b.mixing_cost_cents, b.subtotal_cents, b.service_fee_cents, b.total_cents,
       b.engineer_pay_rate_cents, b.tip_cents, b.created_at, b.updated_at
FROM bookings b
JOIN rooms r ON r.id = b.room_id
JOIN stoodioz s ON s.id = b.stoodio_id
WHERE b.id = $1`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var view queries.BookingView
	var engineerID, producerID, labelID pgtype.UUID

	err := r.db.QueryRow(ctx, findBookingByIDSQL, id).Scan(
		&view.ID, &view.RoomID, &view.RoomName, &view.StoodioID, &view.StoodioName,
		&view.ArtistID, &engineerID, &producerID, &labelID,
		&view.SessionStart, &view.DurationHours, &view.RequestType, &view.PaymentSource, &view.Status,
		&view.StoodioCostCents, &view.EngineerFeeCents, &view.BeatsCostCents, &view.PullUpFeeCents,
		&view.MixingCostCents, &view.SubtotalCents, &view.ServiceFeeCents, &view.TotalCents,
		&view.EngineerPayRateCents, &view.TipCents, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	view.EngineerID = pgconv.UUIDPtrFromPgtype(engineerID)
	view.ProducerID = pgconv.UUIDPtrFromPgtype(producerID)
	view.LabelID = pgconv.UUIDPtrFromPgtype(labelID)
	return &view, nil
}

const findBookingsByPartySQL = `
SELECT b.id, r.name, s.name, b.session_start, b.duration_hours, b.status, b.total_cents, b.created_at
FROM bookings b
JOIN rooms r ON r.id = b.room_id
JOIN stoodioz s ON s.id = b.stoodio_id
WHERE b.artist_id = $1 OR b.engineer_id = $1 OR b.producer_id = $1
ORDER BY b.created_at DESC, b.id DESC
LIMIT $2`

func (r *BookingReadStore) FindByParty(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, findBookingsByPartySQL, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings for user", err)
	}
	defer rows.Close()

	var result []*queries.BookingListItem
	for rows.Next() {
		var item queries.BookingListItem
		if err := rows.Scan(
			&item.ID, &item.RoomName, &item.StoodioName, &item.SessionStart,
			&item.DurationHours, &item.Status, &item.TotalCents, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}
	return result, nil
}

const findBookingSnapshotSQL = `
SELECT id, artist_id, stoodio_id, engineer_id, producer_id, label_id,
       status, request_type, duration_hours, engineer_pay_rate_cents, total_cents
FROM bookings
WHERE id = $1`

// FindSnapshot returns the minimal state command flows need, without
// the catalog joins of the full view.
func (r *BookingReadStore) FindSnapshot(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	var snap shared.BookingSnapshot
	var engineerID, producerID, labelID pgtype.UUID
	var status, requestType string
	var durationHours int32

	err := r.db.QueryRow(ctx, findBookingSnapshotSQL, id).Scan(
		&snap.ID, &snap.ArtistID, &snap.StoodioID, &engineerID, &producerID, &labelID,
		&status, &requestType, &durationHours, &snap.EngineerPayRateCents, &snap.TotalCents,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking snapshot", err)
	}

	snap.EngineerID = pgconv.UUIDPtrFromPgtype(engineerID)
	snap.ProducerID = pgconv.UUIDPtrFromPgtype(producerID)
	snap.LabelID = pgconv.UUIDPtrFromPgtype(labelID)
	snap.Status = booking.Status(status)
	snap.RequestType = booking.RequestType(requestType)
	snap.DurationHours = int(durationHours)
	return &snap, nil
}
