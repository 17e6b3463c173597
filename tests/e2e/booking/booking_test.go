//go:build e2e

package booking_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"stoodioz/internal/domain/user"
	reqdto "stoodioz/internal/handler/dto/request"
	resdto "stoodioz/internal/handler/dto/response"
	"stoodioz/tests/common/authtest"
	"stoodioz/tests/common/dbtest"
	"stoodioz/tests/common/httptest"
	"stoodioz/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	quoteURL    = "/api/bookings/quote"
	bookingsURL = "/api/bookings"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

// sessionFixture is the minimal catalog a bookable session needs: a
// stoodio with one room and one in-house engineer.
type sessionFixture struct {
	StoodioID  uuid.UUID
	RoomID     uuid.UUID
	EngineerID uuid.UUID
	ArtistID   uuid.UUID
	Token      string
}

func (s *BookingSuite) createSessionFixture(artistEmail string) sessionFixture {
	t := s.T()

	stoodioID := dbtest.CreateTestStoodio(t, s.DB, "Pressure Room", 10000)
	roomID := dbtest.CreateTestRoom(t, s.DB, stoodioID, "A Room", 15000)

	engineerID := dbtest.CreateTestUser(t, s.DB, "engineer-"+artistEmail, string(user.RoleEngineer))
	dbtest.CreateEngineerProfile(t, s.DB, engineerID, false, 0)
	dbtest.AddInHouseEngineer(t, s.DB, stoodioID, engineerID, 10000)

	artistID, token := authtest.CreateAndLogin(t, s.DB, s.Router, artistEmail, string(user.RoleArtist))

	return sessionFixture{
		StoodioID:  stoodioID,
		RoomID:     roomID,
		EngineerID: engineerID,
		ArtistID:   artistID,
		Token:      token,
	}
}

func createRequest(env sessionFixture) reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		QuoteRequest: reqdto.QuoteRequest{
			RoomID:        env.RoomID,
			DurationHours: 4,
			RequestType:   "specific_engineer",
			EngineerID:    &env.EngineerID,
			PaymentSource: "artist",
		},
		SessionStart: time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second),
	}
}

func authedHeaders(token string, idempotencyKey uuid.UUID) map[string]string {
	return map[string]string{
		"Authorization":   "Bearer " + token,
		"Idempotency-Key": idempotencyKey.String(),
	}
}

func (s *BookingSuite) TestQuoteAndBook() {
	s.Run("Normal case: quote prices the session and booking snapshots it", func() {
		t := s.T()
		env := s.createSessionFixture("artist1@example.com")

		req := createRequest(env)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, quoteURL, req.QuoteRequest, env.Token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var quote resdto.QuoteResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &quote))
		require.Equal(t, int64(60000), quote.StoodioCostCents)
		require.Equal(t, int64(40000), quote.EngineerFeeCents)
		require.Equal(t, int64(100000), quote.SubtotalCents)
		require.Equal(t, int64(15000), quote.ServiceFeeCents)
		require.Equal(t, int64(115000), quote.TotalCents)

		key := uuid.New()
		cw := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, req,
			authedHeaders(env.Token, key))
		require.Equal(t, http.StatusCreated, cw.Code, cw.Body.String())

		var created resdto.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, cw.Body, &created))
		require.Equal(t, "pending_approval", created.Status)
		require.Equal(t, int64(115000), created.TotalCents)
		require.Equal(t, env.ArtistID, created.ArtistID)

		gw := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL+"/"+created.ID.String(), nil, env.Token)
		require.Equal(t, http.StatusOK, gw.Code)
	})

	s.Run("Normal case: replaying the idempotency key returns the original booking", func() {
		t := s.T()
		env := s.createSessionFixture("artist2@example.com")

		req := createRequest(env)
		key := uuid.New()

		w1 := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, req,
			authedHeaders(env.Token, key))
		require.Equal(t, http.StatusCreated, w1.Code, w1.Body.String())
		var first resdto.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w1.Body, &first))

		w2 := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, req,
			authedHeaders(env.Token, key))
		require.Equal(t, http.StatusOK, w2.Code, w2.Body.String())
		var second resdto.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w2.Body, &second))
		require.Equal(t, first.ID, second.ID)

		// Same key with a different payload must not silently book twice.
		changed := req
		changed.DurationHours = 6
		w3 := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, changed,
			authedHeaders(env.Token, key))
		require.Equal(t, http.StatusConflict, w3.Code, w3.Body.String())
	})

	s.Run("Auth test: booking without a token is rejected", func() {
		t := s.T()
		env := s.createSessionFixture("artist3@example.com")

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, createRequest(env),
			map[string]string{"Idempotency-Key": uuid.NewString()})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func (s *BookingSuite) createConfirmedBooking(env sessionFixture) uuid.UUID {
	t := s.T()

	w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, createRequest(env),
		authedHeaders(env.Token, uuid.New()))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created resdto.BookingResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
	dbtest.ConfirmBooking(t, s.DB, created.ID)
	return created.ID
}

func (s *BookingSuite) TestCompletion() {
	s.Run("Normal case: uncontracted engineer receives the full gross plus tip", func() {
		t := s.T()
		env := s.createSessionFixture("artist4@example.com")
		bookingID := s.createConfirmedBooking(env)

		body := reqdto.CompleteBookingRequest{TipCents: 5000}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			bookingsURL+"/"+bookingID.String()+"/complete", body, env.Token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result resdto.CompletionResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &result))
		require.Equal(t, int64(40000), result.GrossCents)
		require.Equal(t, int64(40000), result.ProviderAmountCents)
		require.Equal(t, int64(0), result.LabelAmountCents)
		require.Equal(t, int64(5000), result.TipCents)

		engineerToken := authtest.LoginUser(t, s.Router, "engineer-artist4@example.com", dbtest.TestPassword)
		ww := httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/wallet/transactions", nil, engineerToken)
		require.Equal(t, http.StatusOK, ww.Code)

		var wallet resdto.WalletTransactionsResponse
		require.NoError(t, httptest.DecodeResponseBody(t, ww.Body, &wallet))
		require.Equal(t, int64(45000), wallet.BalanceCents)
		require.Len(t, wallet.Transactions, 2)
	})

	s.Run("Normal case: full recoup contract splits the gross and pays down the balance", func() {
		t := s.T()
		env := s.createSessionFixture("artist5@example.com")

		labelID := dbtest.CreateTestLabel(t, s.DB, "Heavy Rotation")
		contractID := dbtest.CreateActiveContract(t, s.DB, labelID, env.EngineerID,
			"engineer", "full_recoup", 0, 20000)

		bookingID := s.createConfirmedBooking(env)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			bookingsURL+"/"+bookingID.String()+"/complete", nil, env.Token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result resdto.CompletionResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &result))
		require.Equal(t, int64(40000), result.GrossCents)
		require.Equal(t, int64(20000), result.LabelAmountCents)
		require.Equal(t, int64(20000), result.ProviderAmountCents)
		require.Equal(t, int64(20000), result.RecoupAppliedCents)
		require.NotNil(t, result.NewRecoupBalanceCents)
		require.Equal(t, int64(0), *result.NewRecoupBalanceCents)

		var balance int64
		err := s.DB.QueryRow(context.Background(),
			"SELECT recoup_balance_cents FROM label_contracts WHERE id = $1", contractID).Scan(&balance)
		require.NoError(t, err)
		require.Equal(t, int64(0), balance)

		var labelCredit int64
		err = s.DB.QueryRow(context.Background(),
			"SELECT amount_cents FROM wallet_transactions WHERE owner_id = $1 AND category = 'contract_payout'",
			labelID).Scan(&labelCredit)
		require.NoError(t, err)
		require.Equal(t, int64(20000), labelCredit)
	})

	s.Run("Normal case: retried completion does not double-pay", func() {
		t := s.T()
		env := s.createSessionFixture("artist6@example.com")
		bookingID := s.createConfirmedBooking(env)

		url := bookingsURL + "/" + bookingID.String() + "/complete"
		w1 := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, env.Token)
		require.Equal(t, http.StatusOK, w1.Code, w1.Body.String())

		// The status machine rejects the second attempt outright.
		w2 := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, env.Token)
		require.Equal(t, http.StatusConflict, w2.Code)

		var count int
		err := s.DB.QueryRow(context.Background(),
			"SELECT count(*) FROM wallet_transactions WHERE booking_id = $1", bookingID).Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})

	s.Run("Error case: a pending booking cannot be completed", func() {
		t := s.T()
		env := s.createSessionFixture("artist7@example.com")

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, createRequest(env),
			authedHeaders(env.Token, uuid.New()))
		require.Equal(t, http.StatusCreated, w.Code)
		var created resdto.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		cw := httptest.PerformRequest(t, s.Router, http.MethodPost,
			bookingsURL+"/"+created.ID.String()+"/complete", nil, env.Token)
		require.Equal(t, http.StatusConflict, cw.Code)
	})
}

func (s *BookingSuite) TestCancellation() {
	s.Run("Normal case: the artist cancels and the session cannot complete afterwards", func() {
		t := s.T()
		env := s.createSessionFixture("artist8@example.com")

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, createRequest(env),
			authedHeaders(env.Token, uuid.New()))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created resdto.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		url := bookingsURL + "/" + created.ID.String()
		cw := httptest.PerformRequest(t, s.Router, http.MethodPost, url+"/cancel", nil, env.Token)
		require.Equal(t, http.StatusNoContent, cw.Code, cw.Body.String())

		var status string
		err := s.DB.QueryRow(context.Background(),
			"SELECT status FROM bookings WHERE id = $1", created.ID).Scan(&status)
		require.NoError(t, err)
		require.Equal(t, "canceled", status)

		done := httptest.PerformRequest(t, s.Router, http.MethodPost, url+"/complete", nil, env.Token)
		require.Equal(t, http.StatusConflict, done.Code)
	})

	s.Run("Auth test: a different artist cannot cancel the booking", func() {
		t := s.T()
		env := s.createSessionFixture("artist9@example.com")
		bookingID := s.createConfirmedBooking(env)

		_, otherToken := authtest.CreateAndLogin(t, s.DB, s.Router, "bystander@example.com", string(user.RoleArtist))
		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			bookingsURL+"/"+bookingID.String()+"/cancel", nil, otherToken)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}
