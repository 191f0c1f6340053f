package handler

import (
	"errors"
	"go-ticket-dispatch/internal/model"
	"go-ticket-dispatch/internal/service"
	apperrors "go-ticket-dispatch/pkg/app_errors"
	"go-ticket-dispatch/pkg/logger"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TicketHandler struct {
	service service.DispatcherService
}

func NewTicketHandler(service service.DispatcherService) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("service-points/:sp/tickets", h.CreateTicket)
		router.GET("service-points/:sp/tickets", h.ListTickets)
		router.GET("tickets/:id", h.GetTicket)
	}
}

func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var ticketReq model.CreateTicketRequest

	if err := BindJson(c, &ticketReq); err != nil {
		return
	}

	created, err := h.service.CreateTicket(c, c.Param("sp"), ticketReq)
	if err != nil {
		h.handleTicketError(c, err, "CreateTicket")
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *TicketHandler) ListTickets(c *gin.Context) {
	var statuses []model.TicketStatus
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			statuses = append(statuses, model.TicketStatus(s))
		}
	}

	tickets, err := h.service.ListTickets(c, c.Param("sp"), statuses)
	if err != nil {
		h.handleTicketError(c, err, "ListTickets")
		return
	}

	c.JSON(http.StatusOK, tickets)
}

func (h *TicketHandler) GetTicket(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket id"})
		return
	}

	ticket, err := h.service.GetTicket(c, id)
	if err != nil {
		h.handleTicketError(c, err, "GetTicket")
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// Helper functions

func (h *TicketHandler) handleTicketError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrTicketNotFound):
		log.Warn("Ticket not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Ticket not found",
		})
	case errors.Is(err, apperrors.ErrClassNotConfigured):
		log.Warn("Ticket class not configured")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Ticket class not configured",
		})
	case errors.Is(err, apperrors.ErrSequenceConflict):
		log.Warn("Sequence conflict")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Numbering busy, try again",
		})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid input",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
