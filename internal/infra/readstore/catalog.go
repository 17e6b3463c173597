package readstore

import (
	"context"

	"stoodioz/internal/domain/booking"
	"stoodioz/internal/infra"
	"stoodioz/internal/infra/db"
	"stoodioz/internal/pkg/pgconv"
	"stoodioz/internal/usecase/shared"

	"github.com/google/uuid"
)

// CatalogReadStore resolves rooms, engineers, producers, and beats into
// the rate snapshots the pricing calculator consumes.
type CatalogReadStore struct {
	db db.DBTX
}

func NewCatalogReadStore(dbtx db.DBTX) *CatalogReadStore {
	return &CatalogReadStore{db: dbtx}
}

const findRoomSQL = `
SELECT r.id, r.stoodio_id, r.hourly_rate_cents, s.engineer_pay_rate_cents
FROM rooms r
JOIN stoodioz s ON s.id = r.stoodio_id
WHERE r.id = $1 AND r.is_active`

const findInHouseRatesSQL = `
SELECT engineer_user_id, pay_rate_cents
FROM in_house_engineers
WHERE stoodio_id = $1`

func (r *CatalogReadStore) FindRoom(ctx context.Context, id uuid.UUID) (*shared.RoomSnapshot, error) {
	var snap shared.RoomSnapshot
	err := r.db.QueryRow(ctx, findRoomSQL, id).Scan(
		&snap.Room.ID, &snap.Room.StoodioID, &snap.Room.HourlyRateCents,
		&snap.Stoodio.EngineerPayRateCents,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("room not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find room", err)
	}
	snap.Stoodio.ID = snap.Room.StoodioID

	rows, err := r.db.Query(ctx, findInHouseRatesSQL, snap.Room.StoodioID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load in-house rates", err)
	}
	defer rows.Close()

	snap.Stoodio.InHouseRates = make(map[uuid.UUID]int64)
	for rows.Next() {
		var engineerID uuid.UUID
		var rate int64
		if err := rows.Scan(&engineerID, &rate); err != nil {
			return nil, infra.WrapRepoErr("failed to scan in-house rate", err)
		}
		snap.Stoodio.InHouseRates[engineerID] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate in-house rates", err)
	}

	return &snap, nil
}

const findEngineerSQL = `
SELECT e.user_id, e.mixing_enabled, e.mixing_price_per_track_cents, u.is_active
FROM engineer_profiles e
JOIN users u ON u.id = e.user_id
WHERE e.user_id = $1`

func (r *CatalogReadStore) FindEngineer(ctx context.Context, id uuid.UUID) (*shared.EngineerSnapshot, error) {
	var snap shared.EngineerSnapshot
	err := r.db.QueryRow(ctx, findEngineerSQL, id).Scan(
		&snap.Spec.ID, &snap.Spec.MixingEnabled, &snap.Spec.MixingPricePerTrackCents, &snap.IsActive,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("engineer not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find engineer", err)
	}
	return &snap, nil
}

const findProducerSQL = `
SELECT p.user_id, p.pull_up_fee_cents, u.is_active
FROM producer_profiles p
JOIN users u ON u.id = p.user_id
WHERE p.user_id = $1`

func (r *CatalogReadStore) FindProducer(ctx context.Context, id uuid.UUID) (*shared.ProducerSnapshot, error) {
	var snap shared.ProducerSnapshot
	err := r.db.QueryRow(ctx, findProducerSQL, id).Scan(&snap.ID, &snap.PullUpFeeCents, &snap.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("producer not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find producer", err)
	}
	return &snap, nil
}

const findBeatsSQL = `
SELECT id, title, lease_price_cents
FROM beats
WHERE id = ANY($1) AND is_active`

func (r *CatalogReadStore) FindBeats(ctx context.Context, ids []uuid.UUID) ([]booking.BeatSpec, error) {
	rows, err := r.db.Query(ctx, findBeatsSQL, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find beats", err)
	}
	defer rows.Close()

	var beats []booking.BeatSpec
	for rows.Next() {
		var beat booking.BeatSpec
		if err := rows.Scan(&beat.ID, &beat.Title, &beat.LeasePriceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan beat row", err)
		}
		beats = append(beats, beat)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate beat rows", err)
	}
	return beats, nil
}
