package shared

import (
	"context"
	"time"

	"stoodioz/internal/domain/booking"
	"stoodioz/internal/domain/contract"
	"stoodioz/internal/domain/label"
	"stoodioz/internal/domain/wallet"
	"stoodioz/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Wallets() WalletRepository
	Contracts() ContractRepository
	LabelBudgets() LabelBudgetRepository
	Idempotency() IdempotencyRepository
	Users() UserRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	RoomByID(ctx context.Context, id uuid.UUID) (*RoomSnapshot, error)
	EngineerByID(ctx context.Context, id uuid.UUID) (*EngineerSnapshot, error)
	ProducerByID(ctx context.Context, id uuid.UUID) (*ProducerSnapshot, error)
	BeatsByIDs(ctx context.Context, ids []uuid.UUID) ([]booking.BeatSpec, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	LabelBudgetByID(ctx context.Context, labelID uuid.UUID) (*label.BudgetOverview, error)
	IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
}

// RoomSnapshot joins the room with its studio's engineer rates; one
// read feeds the whole quote.
type RoomSnapshot struct {
	Room    booking.RoomSpec
	Stoodio booking.StoodioSpec
}

type EngineerSnapshot struct {
	Spec     booking.EngineerSpec
	IsActive bool
}

type ProducerSnapshot struct {
	ID             uuid.UUID
	PullUpFeeCents int64
	IsActive       bool
}

// BookingSnapshot is the minimal booking state completion needs.
type BookingSnapshot struct {
	ID                   uuid.UUID
	ArtistID             uuid.UUID
	StoodioID            uuid.UUID
	EngineerID           *uuid.UUID
	ProducerID           *uuid.UUID
	LabelID              *uuid.UUID
	Status               booking.Status
	RequestType          booking.RequestType
	DurationHours        int
	EngineerPayRateCents int64
	TotalCents           int64
}

// GrossPayoutCents mirrors the booking entity's payout rule for flows
// that only hold the persisted snapshot.
func (s *BookingSnapshot) GrossPayoutCents() int64 {
	if s.RequestType == booking.RequestBringYourOwn || s.RequestType == booking.RequestBeatPurchase {
		return 0
	}
	return s.EngineerPayRateCents * int64(s.DurationHours)
}

type IdempotencyRecord struct {
	Key             uuid.UUID
	UserID          uuid.UUID
	Endpoint        string
	RequestHash     string
	Status          string
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
}

type BookingRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (uuid.UUID, error)
	// UpdateStatus transitions from->to and reports conflict when the
	// booking is no longer in the expected status.
	UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, from, to booking.Status) error
	SetTip(ctx context.Context, dbtx db.DBTX, id uuid.UUID, tipCents int64) error
}

type WalletRepository interface {
	// Insert is idempotent on entry ID: a retried routing run re-inserts
	// the same deterministic ids and the duplicates are dropped.
	Insert(ctx context.Context, dbtx db.DBTX, entry *wallet.Entry) error
}

type ContractRepository interface {
	// FindActiveByTalentForUpdate row-locks the contract so concurrent
	// completions for the same talent serialize on recoup_balance.
	FindActiveByTalentForUpdate(ctx context.Context, dbtx db.DBTX, talentUserID uuid.UUID) (*contract.Contract, error)
	UpdateRecoupBalance(ctx context.Context, dbtx db.DBTX, contractID uuid.UUID, newBalanceCents int64) error
}

type LabelBudgetRepository interface {
	RecordSpend(ctx context.Context, dbtx db.DBTX, labelID uuid.UUID, artistID uuid.UUID, amountCents int64) error
}

type IdempotencyRepository interface {
	// TryInsert claims the key. inserted is false when another request
	// already holds it; the caller decides replay vs conflict.
	TryInsert(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (inserted bool, err error)
	UpdateStatusCompleted(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, resultHash string, bookingID uuid.UUID) error
}

type UserRepository interface {
	UpdateLastLogin(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error
}
