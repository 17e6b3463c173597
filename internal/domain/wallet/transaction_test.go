//go:build unit

package wallet_test

import (
	"testing"

	"stoodioz/internal/domain/wallet"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryID(t *testing.T) {
	bookingID := uuid.New()

	t.Run("same booking and leg always derive the same id", func(t *testing.T) {
		assert.Equal(t,
			wallet.EntryID(bookingID, "provider"),
			wallet.EntryID(bookingID, "provider"))
	})

	t.Run("legs of one booking get distinct ids", func(t *testing.T) {
		assert.NotEqual(t,
			wallet.EntryID(bookingID, "provider"),
			wallet.EntryID(bookingID, "label"))
	})

	t.Run("bookings never collide", func(t *testing.T) {
		assert.NotEqual(t,
			wallet.EntryID(bookingID, "provider"),
			wallet.EntryID(uuid.New(), "provider"))
	})
}

func TestNewEntry(t *testing.T) {
	t.Run("zero-amount audit entries are allowed", func(t *testing.T) {
		entry, err := wallet.NewEntry(uuid.New(), uuid.New(), wallet.OwnerUser, 0, wallet.CategoryContractRecoup, "recouped in full")
		require.NoError(t, err)
		assert.Zero(t, entry.AmountCents)
		assert.Equal(t, wallet.StatusCompleted, entry.Status)
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		_, err := wallet.NewEntry(uuid.New(), uuid.New(), wallet.OwnerUser, 100, wallet.Category("bonus"), "")
		require.ErrorIs(t, err, wallet.ErrInvalidCategory)
	})
}
