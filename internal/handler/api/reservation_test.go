//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"roomsense/internal/domain/user"
	"roomsense/internal/handler/api"
	resdto "roomsense/internal/handler/dto/response"
	"roomsense/internal/usecase/commands"
	"roomsense/internal/usecase/queries"
	"roomsense/tests/common/builder"
	"roomsense/tests/common/httptest"
	"roomsense/tests/common/testutil"
	commandsmock "roomsense/tests/mock/commands"
	queriesmock "roomsense/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockReservationQueries
	handler      *api.ReservationHandler
	userID       uuid.UUID
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewReservationHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("user_id", s.userID)
		role := user.RoleUser
		if c.GetHeader("Authorization") == "Bearer admin" {
			role = user.RoleAdmin
		}
		c.Set("user_role", role)
		c.Next()
	}

	// Setup routes
	s.router.POST("/reservations", authMiddleware, s.handler.CreateReservation)
	s.router.GET("/reservations", authMiddleware, s.handler.ListOwnReservations)
	s.router.GET("/reservations/:id", authMiddleware, s.handler.GetReservation)
	s.router.PATCH("/reservations/:id", authMiddleware, s.handler.ModifyReservation)
	s.router.DELETE("/reservations/:id", authMiddleware, s.handler.CancelReservation)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func (s *ReservationHandlerTestSuite) reservationView() *queries.ReservationView {
	return &queries.ReservationView{
		ID:        uuid.New(),
		RoomID:    uuid.New(),
		RoomCode:  "R-101",
		UserID:    s.userID,
		UserEmail: "user@example.com",
		StartTime: builder.BaseTime.Add(time.Hour),
		EndTime:   builder.BaseTime.Add(2 * time.Hour),
		Headcount: 4,
	}
}

func (s *ReservationHandlerTestSuite) createBody() map[string]any {
	return testutil.DtoMap(s.T(), map[string]any{
		"room_id":    uuid.New(),
		"start_time": builder.BaseTime.Add(time.Hour).Format(time.RFC3339),
		"end_time":   builder.BaseTime.Add(2 * time.Hour).Format(time.RFC3339),
		"headcount":  4,
	})
}

// ================================================================================
// TestCreateReservation
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCreateReservation() {
	url := "/reservations"

	s.Run("Success_Created", func() {
		view := s.reservationView()
		s.mockCommands.EXPECT().
			CreateReservation(gomock.Any(), s.userID, gomock.Any(), uuid.Nil).
			Return(&commands.CreateReservationResult{Reservation: view}, nil)

		w := httptest.PerformRequest(s.T(), s.router, "POST", url, s.createBody(), "token")

		var resp resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &resp)
		s.Equal(view.ID, resp.ID)
		s.Equal("R-101", resp.RoomCode)
	})

	s.Run("Success_IdempotentReplay", func() {
		key := uuid.New()
		view := s.reservationView()
		s.mockCommands.EXPECT().
			CreateReservation(gomock.Any(), s.userID, gomock.Any(), key).
			Return(&commands.CreateReservationResult{Reservation: view, IsReplayed: true}, nil)

		w := httptest.PerformRequestWithHeaders(s.T(), s.router, "POST", url, s.createBody(), "token",
			map[string]string{"Idempotency-Key": key.String()})

		// Replay answers 200, not 201
		var resp resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.Equal(view.ID, resp.ID)
	})

	s.Run("Error_MalformedIdempotencyKey", func() {
		w := httptest.PerformRequestWithHeaders(s.T(), s.router, "POST", url, s.createBody(), "token",
			map[string]string{"Idempotency-Key": "not-a-uuid"})

		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "idempotency key")
	})

	s.Run("Error_Unauthorized", func() {
		w := httptest.PerformRequest(s.T(), s.router, "POST", url, s.createBody(), "")

		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "")
	})

	s.Run("Error_MissingHeadcount", func() {
		body := s.createBody()
		testutil.Field("headcount", nil)(body)

		w := httptest.PerformRequest(s.T(), s.router, "POST", url, body, "token")

		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "")
	})

	commandErrs := []struct {
		name       string
		err        error
		expectCode int
	}{
		{"Error_RoomNotFound", commands.ErrRoomNotFound, http.StatusNotFound},
		{"Error_UserBanned", commands.ErrUserBanned, http.StatusForbidden},
		{"Error_InvalidTimeRange", commands.ErrInvalidTimeRange, http.StatusUnprocessableEntity},
		{"Error_StartInPast", commands.ErrStartInPast, http.StatusUnprocessableEntity},
		{"Error_CapacityExceeded", commands.ErrCapacityExceeded, http.StatusUnprocessableEntity},
		{"Error_RoomConflict", commands.ErrRoomConflict, http.StatusConflict},
		{"Error_IdempotencyInProgress", commands.ErrIdempotencyInProgress, http.StatusConflict},
		{"Error_DuplicateBookingRequest", commands.ErrDuplicateBookingRequest, http.StatusConflict},
	}

	for _, tc := range commandErrs {
		s.Run(tc.name, func() {
			s.mockCommands.EXPECT().
				CreateReservation(gomock.Any(), s.userID, gomock.Any(), uuid.Nil).
				Return(nil, tc.err)

			w := httptest.PerformRequest(s.T(), s.router, "POST", url, s.createBody(), "token")

			httptest.AssertErrorResponse(s.T(), w, tc.expectCode, "")
		})
	}
}

// ================================================================================
// TestGetReservation
// ================================================================================

func (s *ReservationHandlerTestSuite) TestGetReservation() {
	s.Run("Success", func() {
		view := s.reservationView()
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), s.userID, false, view.ID).
			Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, "GET", "/reservations/"+view.ID.String(), nil, "token")

		var resp resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.Equal(view.ID, resp.ID)
	})

	s.Run("Success_AdminSeesAny", func() {
		view := s.reservationView()
		view.UserID = uuid.New()
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), s.userID, true, view.ID).
			Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, "GET", "/reservations/"+view.ID.String(), nil, "admin")

		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, nil)
	})

	s.Run("Error_NotVisibleMapsToNotFound", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), s.userID, false, id).
			Return(nil, queries.ErrNotVisible)

		w := httptest.PerformRequest(s.T(), s.router, "GET", "/reservations/"+id.String(), nil, "token")

		httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "not found")
	})

	s.Run("Error_InvalidID", func() {
		w := httptest.PerformRequest(s.T(), s.router, "GET", "/reservations/abc", nil, "token")

		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "")
	})
}

// ================================================================================
// TestListOwnReservations
// ================================================================================

func (s *ReservationHandlerTestSuite) TestListOwnReservations() {
	s.Run("Success", func() {
		items := []*queries.ReservationListItem{
			{ID: uuid.New(), RoomCode: "R-101", Headcount: 2},
			{ID: uuid.New(), RoomCode: "R-202", Headcount: 6},
		}
		s.mockQueries.EXPECT().
			ListByUser(gomock.Any(), s.userID).
			Return(items, nil)

		w := httptest.PerformRequest(s.T(), s.router, "GET", "/reservations", nil, "token")

		var resp []*resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.Len(resp, 2)
	})

	s.Run("Success_Empty", func() {
		s.mockQueries.EXPECT().
			ListByUser(gomock.Any(), s.userID).
			Return(nil, nil)

		w := httptest.PerformRequest(s.T(), s.router, "GET", "/reservations", nil, "token")

		var resp []*resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.Empty(resp)
	})
}

// ================================================================================
// TestModifyReservation
// ================================================================================

func (s *ReservationHandlerTestSuite) TestModifyReservation() {
	body := map[string]any{
		"start_time": builder.BaseTime.Add(3 * time.Hour).Format(time.RFC3339),
		"end_time":   builder.BaseTime.Add(4 * time.Hour).Format(time.RFC3339),
		"headcount":  2,
	}

	s.Run("Success", func() {
		view := s.reservationView()
		s.mockCommands.EXPECT().
			ModifyReservation(gomock.Any(), view.ID, s.userID, false, gomock.Any()).
			Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, "PATCH", "/reservations/"+view.ID.String(), body, "token")

		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, nil)
	})

	s.Run("Error_NotOwner", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().
			ModifyReservation(gomock.Any(), id, s.userID, false, gomock.Any()).
			Return(nil, commands.ErrNotOwner)

		w := httptest.PerformRequest(s.T(), s.router, "PATCH", "/reservations/"+id.String(), body, "token")

		httptest.AssertErrorResponse(s.T(), w, http.StatusForbidden, "owner")
	})

	s.Run("Error_AlreadyStarted", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().
			ModifyReservation(gomock.Any(), id, s.userID, false, gomock.Any()).
			Return(nil, commands.ErrAlreadyStarted)

		w := httptest.PerformRequest(s.T(), s.router, "PATCH", "/reservations/"+id.String(), body, "token")

		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "started")
	})
}

// ================================================================================
// TestCancelReservation
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCancelReservation() {
	s.Run("Success_NoContent", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().
			CancelReservation(gomock.Any(), id, s.userID, false).
			Return(nil)

		w := httptest.PerformRequest(s.T(), s.router, "DELETE", "/reservations/"+id.String(), nil, "token")

		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("Error_NotFound", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().
			CancelReservation(gomock.Any(), id, s.userID, false).
			Return(commands.ErrReservationNotFound)

		w := httptest.PerformRequest(s.T(), s.router, "DELETE", "/reservations/"+id.String(), nil, "token")

		httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "")
	})

	s.Run("Error_AlreadyStarted", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().
			CancelReservation(gomock.Any(), id, s.userID, false).
			Return(commands.ErrAlreadyStarted)

		w := httptest.PerformRequest(s.T(), s.router, "DELETE", "/reservations/"+id.String(), nil, "token")

		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "")
	})
}
