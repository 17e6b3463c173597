//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"stoodioz/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestPassword is the plaintext behind every fixture user.
const TestPassword = "password123"

var (
	hashOnce   sync.Once
	hashValue  string
	hashSetErr error
)

func testPasswordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		hashValue, hashSetErr = password.HashPassword(TestPassword)
	})
	require.NoError(t, hashSetErr)
	return hashValue
}

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email, password_hash, role, is_active) VALUES ($1, $2, $3, $4, true) ON CONFLICT (email) DO NOTHING",
		userID, email, testPasswordHash(t), role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

func CreateTestLabel(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	labelID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO labels (id, name) VALUES ($1, $2)", labelID, name)
	require.NoError(t, err)
	return labelID
}

func AttachUserToLabel(t *testing.T, db DBLike, userID, labelID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE users SET label_id = $2 WHERE id = $1", userID, labelID)
	require.NoError(t, err)
}

func CreateTestStoodio(t *testing.T, db DBLike, name string, engineerPayRateCents int64) uuid.UUID {
	t.Helper()

	stoodioID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO stoodioz (id, name, engineer_pay_rate_cents) VALUES ($1, $2, $3)",
		stoodioID, name, engineerPayRateCents)
	require.NoError(t, err)
	return stoodioID
}

func CreateTestRoom(t *testing.T, db DBLike, stoodioID uuid.UUID, name string, hourlyRateCents int64) uuid.UUID {
	t.Helper()

	roomID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO rooms (id, stoodio_id, name, hourly_rate_cents, is_active) VALUES ($1, $2, $3, $4, true)",
		roomID, stoodioID, name, hourlyRateCents)
	require.NoError(t, err)
	return roomID
}

func AddInHouseEngineer(t *testing.T, db DBLike, stoodioID, engineerID uuid.UUID, payRateCents int64) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"INSERT INTO in_house_engineers (stoodio_id, engineer_user_id, pay_rate_cents) VALUES ($1, $2, $3)",
		stoodioID, engineerID, payRateCents)
	require.NoError(t, err)
}

func CreateEngineerProfile(t *testing.T, db DBLike, userID uuid.UUID, mixingEnabled bool, mixingPricePerTrackCents int64) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"INSERT INTO engineer_profiles (user_id, mixing_enabled, mixing_price_per_track_cents) VALUES ($1, $2, $3)",
		userID, mixingEnabled, mixingPricePerTrackCents)
	require.NoError(t, err)
}

func CreateProducerProfile(t *testing.T, db DBLike, userID uuid.UUID, pullUpFeeCents int64) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"INSERT INTO producer_profiles (user_id, pull_up_fee_cents) VALUES ($1, $2)",
		userID, pullUpFeeCents)
	require.NoError(t, err)
}

func CreateTestBeat(t *testing.T, db DBLike, producerID uuid.UUID, title string, leasePriceCents int64) uuid.UUID {
	t.Helper()

	beatID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO beats (id, producer_user_id, title, lease_price_cents, is_active) VALUES ($1, $2, $3, $4, true)",
		beatID, producerID, title, leasePriceCents)
	require.NoError(t, err)
	return beatID
}

func CreateActiveContract(t *testing.T, db DBLike, labelID, talentID uuid.UUID, talentRole, contractType string, splitPercent float64, recoupBalanceCents int64) uuid.UUID {
	t.Helper()

	contractID := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO label_contracts
		     (id, label_id, talent_user_id, talent_role, contract_type, split_percent, recoup_balance_cents, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 'active')`,
		contractID, labelID, talentID, talentRole, contractType, splitPercent, recoupBalanceCents)
	require.NoError(t, err)
	return contractID
}

// ConfirmBooking flips a pending booking to confirmed, standing in for
// the engineer approval flow.
func ConfirmBooking(t *testing.T, db DBLike, bookingID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE bookings SET status = 'confirmed' WHERE id = $1", bookingID)
	require.NoError(t, err)
}

func SetLabelBudget(t *testing.T, db DBLike, labelID uuid.UUID, totalBudgetCents int64) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		`INSERT INTO label_budgets (label_id, total_budget_cents, spent_cents) VALUES ($1, $2, 0)
		 ON CONFLICT (label_id) DO UPDATE SET total_budget_cents = EXCLUDED.total_budget_cents, spent_cents = 0`,
		labelID, totalBudgetCents)
	require.NoError(t, err)
}

func SetArtistAllocation(t *testing.T, db DBLike, labelID, artistID uuid.UUID, allocationCents int64) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		`INSERT INTO label_artist_allocations (label_id, artist_id, allocation_cents, spent_cents) VALUES ($1, $2, $3, 0)
		 ON CONFLICT (label_id, artist_id) DO UPDATE SET allocation_cents = EXCLUDED.allocation_cents, spent_cents = 0`,
		labelID, artistID, allocationCents)
	require.NoError(t, err)
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO stoodioz (id, name, engineer_pay_rate_cents)
		SELECT gen_random_uuid(), 'Default Stoodio', 10000
		WHERE NOT EXISTS (SELECT 1 FROM stoodioz WHERE name = 'Default Stoodio');
	`)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var tbl string
			if err := rows.Scan(&tbl); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, tbl)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
