package queries

import (
	"context"
	"time"

	"stoodioz/internal/domain/user"
	"stoodioz/internal/infra"
	"stoodioz/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound = errs.New("booking not found")
	ErrBookingAccess   = errs.New("booking access denied")
)

// BookingView is the read model returned to clients; monetary fields
// are the cent snapshots taken at submission.
type BookingView struct {
	ID                   uuid.UUID  `json:"id"`
	RoomID               uuid.UUID  `json:"room_id"`
	RoomName             string     `json:"room_name"`
	StoodioID            uuid.UUID  `json:"stoodio_id"`
	StoodioName          string     `json:"stoodio_name"`
	ArtistID             uuid.UUID  `json:"artist_id"`
	EngineerID           *uuid.UUID `json:"engineer_id,omitempty"`
	ProducerID           *uuid.UUID `json:"producer_id,omitempty"`
	LabelID              *uuid.UUID `json:"label_id,omitempty"`
	SessionStart         time.Time  `json:"session_start"`
	DurationHours        int32      `json:"duration_hours"`
	RequestType          string     `json:"request_type"`
	PaymentSource        string     `json:"payment_source"`
	Status               string     `json:"status"`
	StoodioCostCents     int64      `json:"stoodio_cost_cents"`
	EngineerFeeCents     int64      `json:"engineer_fee_cents"`
	BeatsCostCents       int64      `json:"beats_cost_cents"`
	PullUpFeeCents       int64      `json:"pull_up_fee_cents"`
	MixingCostCents      int64      `json:"mixing_cost_cents"`
	SubtotalCents        int64      `json:"subtotal_cents"`
	ServiceFeeCents      int64      `json:"service_fee_cents"`
	TotalCents           int64      `json:"total_cents"`
	EngineerPayRateCents int64      `json:"engineer_pay_rate_cents"`
	TipCents             int64      `json:"tip_cents"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

type BookingListItem struct {
	ID            uuid.UUID `json:"id"`
	RoomName      string    `json:"room_name"`
	StoodioName   string    `json:"stoodio_name"`
	SessionStart  time.Time `json:"session_start"`
	DurationHours int32     `json:"duration_hours"`
	Status        string    `json:"status"`
	TotalCents    int64     `json:"total_cents"`
	CreatedAt     time.Time `json:"created_at"`
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByParty(ctx context.Context, userID uuid.UUID, limit int32) ([]*BookingListItem, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, role user.Role) (*BookingView, error)
	// GetByIDSystem bypasses access checks for internal flows such as
	// idempotency replays.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit int32) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	readStore BookingReadStore
}

func NewBookingQueries(readStore BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{readStore: readStore}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, role user.Role) (*BookingView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canSeeBooking(view, requesterID, role) {
		return nil, ErrBookingAccess
	}
	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListForUser(ctx context.Context, userID uuid.UUID, limit int32) ([]*BookingListItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return q.readStore.FindByParty(ctx, userID, limit)
}

// canSeeBooking: the artist, the assigned talent, and admins see the
// booking; everyone else does not.
func canSeeBooking(view *BookingView, requesterID uuid.UUID, role user.Role) bool {
	if role == user.RoleAdmin {
		return true
	}
	if view.ArtistID == requesterID {
		return true
	}
	if view.EngineerID != nil && *view.EngineerID == requesterID {
		return true
	}
	if view.ProducerID != nil && *view.ProducerID == requesterID {
		return true
	}
	if view.LabelID != nil && role == user.RoleLabel {
		return true
	}
	return false
}
