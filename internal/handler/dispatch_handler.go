package handler

import (
	"errors"
	"go-ticket-dispatch/internal/model"
	"go-ticket-dispatch/internal/service"
	apperrors "go-ticket-dispatch/pkg/app_errors"
	"go-ticket-dispatch/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DispatchHandler 服務人員主控台的操作入口：叫號與票券生命週期轉換
type DispatchHandler struct {
	service service.DispatcherService
}

func NewDispatchHandler(service service.DispatcherService) *DispatchHandler {
	return &DispatchHandler{service: service}
}

func (h *DispatchHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1", RequireAttendant())
	{
		router.POST("service-points/:sp/counters/:counter/call-next", h.CallNext)
		router.POST("tickets/:id/repeat", h.Repeat)
		router.POST("tickets/:id/start", h.StartService)
		router.POST("tickets/:id/complete", h.Complete)
		router.POST("tickets/:id/skip", h.Skip)
		router.POST("tickets/:id/cancel", h.Cancel)
	}
}

func (h *DispatchHandler) CallNext(c *gin.Context) {
	ticket, err := h.service.CallNext(c, c.Param("sp"), c.Param("counter"), AttendantID(c))
	if err != nil {
		// 佇列空了不是錯誤，是叫號的合法結果
		if errors.Is(err, apperrors.ErrQueueEmpty) {
			c.JSON(http.StatusOK, gin.H{"ticket": nil})
			return
		}
		h.handleDispatchError(c, err, "CallNext")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

func (h *DispatchHandler) Repeat(c *gin.Context) {
	h.runTransition(c, "Repeat", func(id uuid.UUID) (*model.Ticket, error) {
		return h.service.Repeat(c, id)
	})
}

func (h *DispatchHandler) StartService(c *gin.Context) {
	h.runTransition(c, "StartService", func(id uuid.UUID) (*model.Ticket, error) {
		return h.service.StartService(c, id)
	})
}

func (h *DispatchHandler) Complete(c *gin.Context) {
	h.runTransition(c, "Complete", func(id uuid.UUID) (*model.Ticket, error) {
		return h.service.Complete(c, id)
	})
}

func (h *DispatchHandler) Skip(c *gin.Context) {
	var req model.ActionReasonRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	h.runTransition(c, "Skip", func(id uuid.UUID) (*model.Ticket, error) {
		return h.service.Skip(c, id, req.Reason)
	})
}

func (h *DispatchHandler) Cancel(c *gin.Context) {
	var req model.ActionReasonRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	h.runTransition(c, "Cancel", func(id uuid.UUID) (*model.Ticket, error) {
		return h.service.Cancel(c, id, req.Reason)
	})
}

// Helper functions

func (h *DispatchHandler) runTransition(c *gin.Context, operation string, apply func(id uuid.UUID) (*model.Ticket, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket id"})
		return
	}

	ticket, err := apply(id)
	if err != nil {
		h.handleDispatchError(c, err, operation)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

func (h *DispatchHandler) handleDispatchError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrTicketNotFound):
		log.Warn("Ticket not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Ticket not found",
		})
	case errors.Is(err, apperrors.ErrCounterNotFound):
		log.Warn("Counter not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Counter not found",
		})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		log.Warn("Invalid transition")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Invalid ticket transition",
		})
	case errors.Is(err, apperrors.ErrCounterOccupied):
		log.Warn("Counter occupied")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Counter already serving a ticket",
		})
	case errors.Is(err, apperrors.ErrCounterUnbound):
		log.Warn("Counter has no attendant")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Counter has no attendant",
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
	case errors.Is(err, apperrors.ErrReasonRequired):
		log.Warn("Reason required")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Reason required",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
