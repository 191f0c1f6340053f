package handler

import (
	"errors"
	"go-ticket-dispatch/internal/model"
	"go-ticket-dispatch/internal/service"
	apperrors "go-ticket-dispatch/pkg/app_errors"
	"go-ticket-dispatch/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CounterHandler struct {
	service       service.CounterService
	ticketService service.DispatcherService
}

func NewCounterHandler(counterService service.CounterService, ticketService service.DispatcherService) *CounterHandler {
	return &CounterHandler{
		service:       counterService,
		ticketService: ticketService,
	}
}

func (h *CounterHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("counters/:id", h.GetCounter)
		router.GET("counters/:id/current", h.GetCurrentTicket)
		router.PUT("counters/:id/bind", RequireAttendant(), h.Bind)
		router.PUT("counters/:id/release", RequireAttendant(), h.Release)
	}
}

func (h *CounterHandler) GetCounter(c *gin.Context) {
	counter, err := h.service.GetCounter(c, c.Param("id"))
	if err != nil {
		h.handleCounterError(c, err, "GetCounter")
		return
	}

	c.JSON(http.StatusOK, counter)
}

// GetCurrentTicket 顯示看板用：櫃台目前叫到或服務中的票
func (h *CounterHandler) GetCurrentTicket(c *gin.Context) {
	ticket, err := h.ticketService.CurrentAtCounter(c, c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrTicketNotFound) {
			c.JSON(http.StatusOK, gin.H{"ticket": nil})
			return
		}
		h.handleCounterError(c, err, "GetCurrentTicket")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

func (h *CounterHandler) Bind(c *gin.Context) {
	counter, err := h.service.Bind(c, c.Param("id"), AttendantID(c))
	if err != nil {
		h.handleCounterError(c, err, "Bind")
		return
	}

	c.JSON(http.StatusOK, counter)
}

func (h *CounterHandler) Release(c *gin.Context) {
	var req model.BindCounterRequest
	// body 可省略，預設非強制
	_ = c.ShouldBindJSON(&req)

	counter, err := h.service.Release(c, c.Param("id"), AttendantID(c), req.Force)
	if err != nil {
		h.handleCounterError(c, err, "Release")
		return
	}

	c.JSON(http.StatusOK, counter)
}

// Helper functions

func (h *CounterHandler) handleCounterError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrCounterNotFound):
		log.Warn("Counter not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Counter not found",
		})
	case errors.Is(err, apperrors.ErrCounterOccupied):
		log.Warn("Counter occupied")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Counter occupied",
		})
	case errors.Is(err, apperrors.ErrCounterInactive):
		log.Warn("Counter inactive")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Counter inactive",
		})
	case errors.Is(err, apperrors.ErrNotCounterOwner):
		log.Warn("Attendant does not own counter")
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Attendant does not own counter",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
