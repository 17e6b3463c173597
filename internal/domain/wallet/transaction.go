package wallet

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidCategory = errors.New("invalid transaction category")

// OwnerKind distinguishes whose ledger an entry belongs to.
type OwnerKind string

const (
	OwnerUser  OwnerKind = "user"
	OwnerLabel OwnerKind = "label"
)

type Category string

const (
	CategorySessionPayout  Category = "session_payout"
	CategoryContractPayout Category = "contract_payout"
	CategoryContractRecoup Category = "contract_recoup"
	CategoryBookingPayment Category = "booking_payment"
	CategoryLabelTopUp     Category = "label_top_up"
	CategoryTip            Category = "tip"
)

func (c Category) IsValid() bool {
	switch c {
	case CategorySessionPayout, CategoryContractPayout, CategoryContractRecoup,
		CategoryBookingPayment, CategoryLabelTopUp, CategoryTip:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
)

// ledgerNamespace seeds deterministic entry IDs so retried routing runs
// upsert the same rows instead of double-crediting.
var ledgerNamespace = uuid.MustParse("8f2f6f1c-9a1e-4a7b-b1d3-4c5e6a7b8c9d")

// EntryID derives the ledger entry id for one leg of a booking's
// payout. Same booking + leg always yields the same id.
func EntryID(bookingID uuid.UUID, leg string) uuid.UUID {
	return uuid.NewSHA1(ledgerNamespace, []byte(bookingID.String()+":"+leg))
}

// Entry is one append-only ledger row. Amounts are signed cents;
// positive credits the owner. Entries are never mutated after creation:
// corrections are new entries.
type Entry struct {
	ID                  uuid.UUID
	OwnerID             uuid.UUID
	OwnerKind           OwnerKind
	AmountCents         int64
	Category            Category
	Description         string
	Status              Status
	BookingID           *uuid.UUID
	ContractID          *uuid.UUID
	RecoupAppliedCents  *int64
	ProviderAmountCents *int64
	LabelAmountCents    *int64
	CreatedAt           time.Time
}

func NewEntry(id, ownerID uuid.UUID, kind OwnerKind, amountCents int64, category Category, description string) (*Entry, error) {
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}
	return &Entry{
		ID:          id,
		OwnerID:     ownerID,
		OwnerKind:   kind,
		AmountCents: amountCents,
		Category:    category,
		Description: description,
		Status:      StatusCompleted,
	}, nil
}
