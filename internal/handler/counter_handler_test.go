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

func setupCounterRouter(counterSvc *svcmocks.MockCounterService, ticketSvc *svcmocks.MockDispatcherService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handler.Identity())
	handler.NewCounterHandler(counterSvc, ticketSvc).RegisterRoutes(router)
	return router
}

func TestCounterHandler_Bind(t *testing.T) {
	t.Run("bound", func(t *testing.T) {
		counterSvc := svcmocks.NewMockCounterService(t)
		ticketSvc := svcmocks.NewMockDispatcherService(t)
		router := setupCounterRouter(counterSvc, ticketSvc)

		attendant := "att-1"
		counterSvc.On("Bind", mock.Anything, "C1", "att-1").
			Return(&model.Counter{ID: "C1", Active: true, AttendantID: &attendant}, nil)

		req := httptest.NewRequest(http.MethodPut, "/api/v1/counters/C1/bind", nil)
		req.Header.Set(handler.HeaderAttendantID, "att-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var got model.Counter
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.NotNil(t, got.AttendantID)
		assert.Equal(t, "att-1", *got.AttendantID)
	})

	t.Run("occupied by another attendant", func(t *testing.T) {
		counterSvc := svcmocks.NewMockCounterService(t)
		ticketSvc := svcmocks.NewMockDispatcherService(t)
		router := setupCounterRouter(counterSvc, ticketSvc)

		counterSvc.On("Bind", mock.Anything, "C1", "att-2").Return(nil, apperrors.ErrCounterOccupied)

		req := httptest.NewRequest(http.MethodPut, "/api/v1/counters/C1/bind", nil)
		req.Header.Set(handler.HeaderAttendantID, "att-2")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing identity", func(t *testing.T) {
		counterSvc := svcmocks.NewMockCounterService(t)
		ticketSvc := svcmocks.NewMockDispatcherService(t)
		router := setupCounterRouter(counterSvc, ticketSvc)

		req := httptest.NewRequest(http.MethodPut, "/api/v1/counters/C1/bind", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		counterSvc.AssertNotCalled(t, "Bind")
	})
}

func TestCounterHandler_Release(t *testing.T) {
	t.Run("released by owner", func(t *testing.T) {
		counterSvc := svcmocks.NewMockCounterService(t)
		ticketSvc := svcmocks.NewMockDispatcherService(t)
		router := setupCounterRouter(counterSvc, ticketSvc)

		counterSvc.On("Release", mock.Anything, "C1", "att-1", false).
			Return(&model.Counter{ID: "C1", Active: true}, nil)

		req := httptest.NewRequest(http.MethodPut, "/api/v1/counters/C1/release", nil)
		req.Header.Set(handler.HeaderAttendantID, "att-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("forced release", func(t *testing.T) {
		counterSvc := svcmocks.NewMockCounterService(t)
		ticketSvc := svcmocks.NewMockDispatcherService(t)
		router := setupCounterRouter(counterSvc, ticketSvc)

		counterSvc.On("Release", mock.Anything, "C1", "admin", true).
			Return(&model.Counter{ID: "C1", Active: true}, nil)

		body := bytes.NewBufferString(`{"force":true}`)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/counters/C1/release", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(handler.HeaderAttendantID, "admin")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not owner", func(t *testing.T) {
		counterSvc := svcmocks.NewMockCounterService(t)
		ticketSvc := svcmocks.NewMockDispatcherService(t)
		router := setupCounterRouter(counterSvc, ticketSvc)

		counterSvc.On("Release", mock.Anything, "C1", "att-2", false).Return(nil, apperrors.ErrNotCounterOwner)

		req := httptest.NewRequest(http.MethodPut, "/api/v1/counters/C1/release", nil)
		req.Header.Set(handler.HeaderAttendantID, "att-2")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCounterHandler_GetCurrentTicket(t *testing.T) {
	t.Run("serving ticket", func(t *testing.T) {
		counterSvc := svcmocks.NewMockCounterService(t)
		ticketSvc := svcmocks.NewMockDispatcherService(t)
		router := setupCounterRouter(counterSvc, ticketSvc)

		counterID := "C1"
		ticketSvc.On("CurrentAtCounter", mock.Anything, "C1").
			Return(&model.Ticket{ID: uuid.New(), DisplayCode: "N-010", Status: model.StatusInService, CounterID: &counterID}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/counters/C1/current", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Ticket *model.Ticket `json:"ticket"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Ticket)
		assert.Equal(t, "N-010", resp.Ticket.DisplayCode)
	})

	t.Run("idle counter", func(t *testing.T) {
		counterSvc := svcmocks.NewMockCounterService(t)
		ticketSvc := svcmocks.NewMockDispatcherService(t)
		router := setupCounterRouter(counterSvc, ticketSvc)

		ticketSvc.On("CurrentAtCounter", mock.Anything, "C1").Return(nil, apperrors.ErrTicketNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/counters/C1/current", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Ticket *model.Ticket `json:"ticket"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Nil(t, resp.Ticket)
	})
}
