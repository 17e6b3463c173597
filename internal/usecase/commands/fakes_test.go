//go:build unit

package commands_test

import (
	"context"
	"time"

	"stoodioz/internal/domain/booking"
	"stoodioz/internal/domain/contract"
	"stoodioz/internal/domain/label"
	"stoodioz/internal/domain/wallet"
	"stoodioz/internal/infra"
	"stoodioz/internal/infra/db"
	"stoodioz/internal/usecase/shared"

	"github.com/google/uuid"
)

// In-memory doubles for the unit of work. Each fake records the calls
// it receives so tests can assert on the write set of a transaction.

type fakeUoW struct {
	tx *fakeTx
	// withinErr short-circuits Within before fn runs.
	withinErr error
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{tx: newFakeTx()}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if u.withinErr != nil {
		return u.withinErr
	}
	return fn(ctx, u.tx)
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return u.tx.reads
}

type fakeTx struct {
	reads       *fakeReads
	bookings    *fakeBookingRepo
	wallets     *fakeWalletRepo
	contracts   *fakeContractRepo
	budgets     *fakeLabelBudgetRepo
	idempotency *fakeIdempotencyRepo
	users       *fakeUserRepo
}

func newFakeTx() *fakeTx {
	return &fakeTx{
		reads:       &fakeReads{},
		bookings:    &fakeBookingRepo{},
		wallets:     &fakeWalletRepo{},
		contracts:   &fakeContractRepo{},
		budgets:     &fakeLabelBudgetRepo{},
		idempotency: &fakeIdempotencyRepo{},
		users:       &fakeUserRepo{},
	}
}

func (t *fakeTx) Bookings() shared.BookingRepository         { return t.bookings }
func (t *fakeTx) Wallets() shared.WalletRepository           { return t.wallets }
func (t *fakeTx) Contracts() shared.ContractRepository       { return t.contracts }
func (t *fakeTx) LabelBudgets() shared.LabelBudgetRepository { return t.budgets }
func (t *fakeTx) Idempotency() shared.IdempotencyRepository  { return t.idempotency }
func (t *fakeTx) Users() shared.UserRepository               { return t.users }
func (t *fakeTx) Reads() shared.CommandReads                 { return t.reads }
func (t *fakeTx) DB() db.DBTX                                { return nil }

type fakeReads struct {
	room        *shared.RoomSnapshot
	engineer    *shared.EngineerSnapshot
	producer    *shared.ProducerSnapshot
	beats       []booking.BeatSpec
	booking     *shared.BookingSnapshot
	labelBudget *label.BudgetOverview
	idemRecord  *shared.IdempotencyRecord
}

func notFound(what string) error {
	return infra.WrapRepoErr(what+" not found", nil, infra.KindNotFound)
}

func (r *fakeReads) RoomByID(_ context.Context, _ uuid.UUID) (*shared.RoomSnapshot, error) {
	if r.room == nil {
		return nil, notFound("room")
	}
	return r.room, nil
}

func (r *fakeReads) EngineerByID(_ context.Context, _ uuid.UUID) (*shared.EngineerSnapshot, error) {
	if r.engineer == nil {
		return nil, notFound("engineer")
	}
	return r.engineer, nil
}

func (r *fakeReads) ProducerByID(_ context.Context, _ uuid.UUID) (*shared.ProducerSnapshot, error) {
	if r.producer == nil {
		return nil, notFound("producer")
	}
	return r.producer, nil
}

func (r *fakeReads) BeatsByIDs(_ context.Context, _ []uuid.UUID) ([]booking.BeatSpec, error) {
	return r.beats, nil
}

func (r *fakeReads) BookingByID(_ context.Context, _ uuid.UUID) (*shared.BookingSnapshot, error) {
	if r.booking == nil {
		return nil, notFound("booking")
	}
	return r.booking, nil
}

func (r *fakeReads) LabelBudgetByID(_ context.Context, _ uuid.UUID) (*label.BudgetOverview, error) {
	if r.labelBudget == nil {
		return nil, notFound("label budget")
	}
	return r.labelBudget, nil
}

func (r *fakeReads) IdempotencyByKey(_ context.Context, _, _ uuid.UUID) (*shared.IdempotencyRecord, error) {
	if r.idemRecord == nil {
		return nil, notFound("idempotency key")
	}
	return r.idemRecord, nil
}

type statusChange struct {
	ID   uuid.UUID
	From booking.Status
	To   booking.Status
}

type fakeBookingRepo struct {
	created         []*booking.Booking
	createErr       error
	statusChanges   []statusChange
	updateStatusErr error
	tips            map[uuid.UUID]int64
}

func (r *fakeBookingRepo) Create(_ context.Context, _ db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	if r.createErr != nil {
		return uuid.Nil, r.createErr
	}
	r.created = append(r.created, b)
	return b.ID(), nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, _ db.DBTX, id uuid.UUID, from, to booking.Status) error {
	if r.updateStatusErr != nil {
		return r.updateStatusErr
	}
	r.statusChanges = append(r.statusChanges, statusChange{ID: id, From: from, To: to})
	return nil
}

func (r *fakeBookingRepo) SetTip(_ context.Context, _ db.DBTX, id uuid.UUID, tipCents int64) error {
	if r.tips == nil {
		r.tips = make(map[uuid.UUID]int64)
	}
	r.tips[id] = tipCents
	return nil
}

type fakeWalletRepo struct {
	entries   []*wallet.Entry
	insertErr error
}

func (r *fakeWalletRepo) Insert(_ context.Context, _ db.DBTX, entry *wallet.Entry) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeWalletRepo) byLeg(bookingID uuid.UUID, leg string) *wallet.Entry {
	id := wallet.EntryID(bookingID, leg)
	for _, e := range r.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

type recoupUpdate struct {
	ContractID uuid.UUID
	NewBalance int64
}

type fakeContractRepo struct {
	active        *contract.Contract
	findErr       error
	recoupUpdates []recoupUpdate
}

func (r *fakeContractRepo) FindActiveByTalentForUpdate(_ context.Context, _ db.DBTX, _ uuid.UUID) (*contract.Contract, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if r.active == nil {
		return nil, notFound("contract")
	}
	return r.active, nil
}

func (r *fakeContractRepo) UpdateRecoupBalance(_ context.Context, _ db.DBTX, contractID uuid.UUID, newBalanceCents int64) error {
	r.recoupUpdates = append(r.recoupUpdates, recoupUpdate{ContractID: contractID, NewBalance: newBalanceCents})
	return nil
}

type spend struct {
	LabelID     uuid.UUID
	ArtistID    uuid.UUID
	AmountCents int64
}

type fakeLabelBudgetRepo struct {
	spends   []spend
	spendErr error
}

func (r *fakeLabelBudgetRepo) RecordSpend(_ context.Context, _ db.DBTX, labelID, artistID uuid.UUID, amountCents int64) error {
	if r.spendErr != nil {
		return r.spendErr
	}
	r.spends = append(r.spends, spend{LabelID: labelID, ArtistID: artistID, AmountCents: amountCents})
	return nil
}

type fakeIdempotencyRepo struct {
	inserted      bool
	tryInsertErr  error
	completedKeys []uuid.UUID
}

func (r *fakeIdempotencyRepo) TryInsert(_ context.Context, _ db.DBTX, _, _ uuid.UUID, _, _ string, _ time.Time) (bool, error) {
	if r.tryInsertErr != nil {
		return false, r.tryInsertErr
	}
	return r.inserted, nil
}

func (r *fakeIdempotencyRepo) UpdateStatusCompleted(_ context.Context, _ db.DBTX, key, _ uuid.UUID, _ string, _ uuid.UUID) error {
	r.completedKeys = append(r.completedKeys, key)
	return nil
}

type fakeUserRepo struct {
	lastLogins []uuid.UUID
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, _ db.DBTX, userID uuid.UUID) error {
	r.lastLogins = append(r.lastLogins, userID)
	return nil
}
