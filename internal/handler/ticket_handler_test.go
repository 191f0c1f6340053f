package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-ticket-dispatch/internal/handler"
	"go-ticket-dispatch/internal/model"
	svcmocks "go-ticket-dispatch/internal/service/mocks"
	apperrors "go-ticket-dispatch/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTicketRouter(svc *svcmocks.MockDispatcherService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handler.Identity())
	handler.NewTicketHandler(svc).RegisterRoutes(router)
	return router
}

func TestTicketHandler_CreateTicket(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := svcmocks.NewMockDispatcherService(t)
		router := setupTicketRouter(svc)

		created := &model.Ticket{
			ID:             uuid.New(),
			ServicePointID: "sp1",
			Class:          model.ClassNormal,
			Number:         7,
			DisplayCode:    "N-007",
			Status:         model.StatusWaiting,
		}
		svc.On("CreateTicket", mock.Anything, "sp1", model.CreateTicketRequest{Class: model.ClassNormal}).
			Return(created, nil)

		body := bytes.NewBufferString(`{"class":"normal"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/service-points/sp1/tickets", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var got model.Ticket
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "N-007", got.DisplayCode)
		assert.Equal(t, model.StatusWaiting, got.Status)
	})

	t.Run("invalid body", func(t *testing.T) {
		svc := svcmocks.NewMockDispatcherService(t)
		router := setupTicketRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/service-points/sp1/tickets", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "CreateTicket")
	})

	t.Run("class not configured", func(t *testing.T) {
		svc := svcmocks.NewMockDispatcherService(t)
		router := setupTicketRouter(svc)

		svc.On("CreateTicket", mock.Anything, "sp1", model.CreateTicketRequest{Class: model.ClassPriority}).
			Return(nil, apperrors.ErrClassNotConfigured)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/service-points/sp1/tickets", bytes.NewBufferString(`{"class":"priority"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("sequence busy", func(t *testing.T) {
		svc := svcmocks.NewMockDispatcherService(t)
		router := setupTicketRouter(svc)

		svc.On("CreateTicket", mock.Anything, "sp1", model.CreateTicketRequest{Class: model.ClassNormal}).
			Return(nil, apperrors.ErrSequenceConflict)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/service-points/sp1/tickets", bytes.NewBufferString(`{"class":"normal"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestTicketHandler_GetTicket(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := svcmocks.NewMockDispatcherService(t)
		router := setupTicketRouter(svc)

		ticketID := uuid.New()
		svc.On("GetTicket", mock.Anything, ticketID).
			Return(&model.Ticket{ID: ticketID, DisplayCode: "P-001", Status: model.StatusCalled}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets/"+ticketID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := svcmocks.NewMockDispatcherService(t)
		router := setupTicketRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "GetTicket")
	})

	t.Run("not found", func(t *testing.T) {
		svc := svcmocks.NewMockDispatcherService(t)
		router := setupTicketRouter(svc)

		ticketID := uuid.New()
		svc.On("GetTicket", mock.Anything, ticketID).Return(nil, apperrors.ErrTicketNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets/"+ticketID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTicketHandler_ListTickets(t *testing.T) {
	t.Run("status filter parsed from query", func(t *testing.T) {
		svc := svcmocks.NewMockDispatcherService(t)
		router := setupTicketRouter(svc)

		statuses := []model.TicketStatus{model.StatusWaiting, model.StatusCalled}
		svc.On("ListTickets", mock.Anything, "sp1", statuses).
			Return([]*model.Ticket{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/service-points/sp1/tickets?status=waiting,called", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc := svcmocks.NewMockDispatcherService(t)
		router := setupTicketRouter(svc)

		svc.On("ListTickets", mock.Anything, "sp1", []model.TicketStatus{"bogus"}).
			Return(nil, apperrors.ErrInvalidInput)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/service-points/sp1/tickets?status=bogus", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
