//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"stoodioz/internal/domain/booking"
	"stoodioz/internal/domain/user"
	"stoodioz/internal/handler/api"
	reqdto "stoodioz/internal/handler/dto/request"
	resdto "stoodioz/internal/handler/dto/response"
	"stoodioz/internal/usecase/commands"
	"stoodioz/internal/usecase/queries"
	"stoodioz/tests/common/httptest"
	"stoodioz/tests/common/testutil"
	commandsmock "stoodioz/tests/mock/commands"
	queriesmock "stoodioz/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockCtrl       *gomock.Controller
	mockBookings   *commandsmock.MockBookingCommands
	mockCompletion *commandsmock.MockCompletionCommands
	mockQueries    *queriesmock.MockBookingQueries
	handler        *api.BookingHandler
	userID         uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.userID = uuid.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockBookings = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockCompletion = commandsmock.NewMockCompletionCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockBookings, s.mockCompletion, s.mockQueries)

	// Stand-in for RequireAuth: inject the authenticated identity.
	authed := func(h gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("user_id", s.userID)
			c.Set("user_role", user.RoleArtist)
			h(c)
		}
	}

	s.router.POST("/bookings/quote", authed(s.handler.Quote))
	s.router.POST("/bookings", authed(s.handler.CreateBooking))
	s.router.GET("/bookings/:id", authed(s.handler.GetBooking))
	s.router.POST("/bookings/:id/complete", authed(s.handler.CompleteBooking))
	s.router.POST("/bookings/:id/cancel", authed(s.handler.CancelBooking))
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) quoteBody() map[string]any {
	return map[string]any{
		"room_id":        uuid.New().String(),
		"duration_hours": 4,
		"request_type":   "find_available",
		"payment_source": "artist",
	}
}

func quoteOf(totalCents int64) *booking.Quote {
	return &booking.Quote{
		Subtotal: booking.MustMoney(totalCents * 100 / 115),
		Total:    booking.MustMoney(totalCents),
	}
}

func (s *BookingHandlerTestSuite) TestQuote() {
	url := "/bookings/quote"

	s.Run("success: returns the priced breakdown", func() {
		s.mockBookings.EXPECT().Quote(gomock.Any(), gomock.Any(), s.userID).
			Return(&commands.QuoteResult{Quote: quoteOf(96600)}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.quoteBody(), "")

		var response resdto.QuoteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(96600), response.TotalCents)
	})

	s.Run("error: 404 when the room is unknown", func() {
		s.mockBookings.EXPECT().Quote(gomock.Any(), gomock.Any(), s.userID).
			Return(nil, commands.ErrRoomNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.quoteBody(), "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Room not found")
	})

	s.Run("error: 400 on a malformed body", func() {
		body := testutil.DtoMap(s.T(), s.quoteBody(), testutil.Field("room_id", "nope"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) createBody() map[string]any {
	body := s.quoteBody()
	body["session_start"] = "2026-03-02T14:00:00Z"
	return body
}

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	url := "/bookings"

	s.Run("success: 201 for a fresh booking", func() {
		key := uuid.New()
		view := &queries.BookingView{ID: uuid.New(), TotalCents: 96600, Status: "confirmed"}
		s.mockBookings.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), s.userID, key).
			Return(&commands.CreateBookingResult{Booking: view, IsReplayed: false}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, s.createBody(),
			map[string]string{"Idempotency-Key": key.String()})

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(view.ID, response.ID)
	})

	s.Run("success: 200 when the key replays an earlier booking", func() {
		key := uuid.New()
		view := &queries.BookingView{ID: uuid.New(), TotalCents: 96600, Status: "confirmed"}
		s.mockBookings.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), s.userID, key).
			Return(&commands.CreateBookingResult{Booking: view, IsReplayed: true}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, s.createBody(),
			map[string]string{"Idempotency-Key": key.String()})
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 400 without an Idempotency-Key header", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.createBody(), "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 400 when session_start is missing", func() {
		body := testutil.DtoMap(s.T(), s.createBody(), testutil.Field("session_start", nil))
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, body,
			map[string]string{"Idempotency-Key": uuid.NewString()})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 409 when the key is reused with a different payload", func() {
		key := uuid.New()
		s.mockBookings.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), s.userID, key).
			Return(nil, commands.ErrDuplicateBooking).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, s.createBody(),
			map[string]string{"Idempotency-Key": key.String()})
		s.Equal(http.StatusConflict, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestGetBooking() {
	bookingID := uuid.New()

	s.Run("success: returns the booking view", func() {
		view := &queries.BookingView{ID: bookingID, Status: "confirmed"}
		s.mockQueries.EXPECT().GetByID(gomock.Any(), bookingID, s.userID, user.RoleArtist).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+bookingID.String(), nil, "")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(bookingID, response.ID)
	})

	s.Run("error: 404 for an unknown booking", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), bookingID, s.userID, user.RoleArtist).
			Return(nil, queries.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+bookingID.String(), nil, "")
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("error: 403 for a booking the user is not party to", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), bookingID, s.userID, user.RoleArtist).
			Return(nil, queries.ErrBookingAccess).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+bookingID.String(), nil, "")
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("error: 400 for a malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/not-a-uuid", nil, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestCompleteBooking() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String() + "/complete"

	s.Run("success: returns the routing result", func() {
		providerID := uuid.New()
		s.mockCompletion.EXPECT().Complete(gomock.Any(), bookingID, s.userID, user.RoleArtist, int64(0)).
			Return(&commands.RoutingResult{
				BookingID:           bookingID,
				ProviderUserID:      &providerID,
				GrossCents:          40000,
				ProviderAmountCents: 40000,
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		var response resdto.CompletionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(40000), response.GrossCents)
		s.Equal(int64(40000), response.ProviderAmountCents)
	})

	s.Run("success: the tip is forwarded", func() {
		s.mockCompletion.EXPECT().Complete(gomock.Any(), bookingID, s.userID, user.RoleArtist, int64(2500)).
			Return(&commands.RoutingResult{BookingID: bookingID, TipCents: 2500}, nil).Times(1)

		body := reqdto.CompleteBookingRequest{TipCents: 2500}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 409 when the booking is not completable", func() {
		s.mockCompletion.EXPECT().Complete(gomock.Any(), bookingID, s.userID, user.RoleArtist, int64(0)).
			Return(nil, commands.ErrBookingNotCompletable).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("error: 403 when the actor may not complete", func() {
		s.mockCompletion.EXPECT().Complete(gomock.Any(), bookingID, s.userID, user.RoleArtist, int64(0)).
			Return(nil, commands.ErrCompletionForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestCancelBooking() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String() + "/cancel"

	s.Run("success: 204 on cancellation", func() {
		s.mockBookings.EXPECT().CancelBooking(gomock.Any(), bookingID, s.userID, user.RoleArtist).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 404 for an unknown booking", func() {
		s.mockBookings.EXPECT().CancelBooking(gomock.Any(), bookingID, s.userID, user.RoleArtist).
			Return(commands.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("error: 403 when the actor is not the booking's artist", func() {
		s.mockBookings.EXPECT().CancelBooking(gomock.Any(), bookingID, s.userID, user.RoleArtist).
			Return(commands.ErrCancelForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("error: 409 once the session has already completed", func() {
		s.mockBookings.EXPECT().CancelBooking(gomock.Any(), bookingID, s.userID, user.RoleArtist).
			Return(commands.ErrBookingNotCancelable).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("error: 400 for a malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/not-a-uuid/cancel", nil, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
