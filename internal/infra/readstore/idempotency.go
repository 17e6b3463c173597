package readstore

import (
	"context"

	"stoodioz/internal/infra"
	"stoodioz/internal/infra/db"
	"stoodioz/internal/pkg/pgconv"
	"stoodioz/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyReadStore struct {
	db db.DBTX
}

func NewIdempotencyReadStore(dbtx db.DBTX) *IdempotencyReadStore {
	return &IdempotencyReadStore{db: dbtx}
}

const getIdempotencyKeySQL = `
SELECT key, user_id, endpoint, request_hash, status, result_booking_id, expires_at
FROM idempotency_keys
WHERE key = $1 AND user_id = $2`

func (r *IdempotencyReadStore) Get(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var record shared.IdempotencyRecord
	var resultBookingID pgtype.UUID

	err := r.db.QueryRow(ctx, getIdempotencyKeySQL, key, userID).Scan(
		&record.Key, &record.UserID, &record.Endpoint, &record.RequestHash,
		&record.Status, &resultBookingID, &record.ExpiresAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}

	record.ResultBookingID = pgconv.UUIDPtrFromPgtype(resultBookingID)
	return &record, nil
}
