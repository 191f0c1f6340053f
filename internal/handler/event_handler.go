package handler

import (
	"context"
	"go-ticket-dispatch/internal/broadcast"
	"go-ticket-dispatch/pkg/logger"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenValidator 訂閱時驗證一次 bearer 憑證的外部協作者；nil 表示開放訂閱
type TokenValidator interface {
	Validate(ctx context.Context, token string) error
}

// EventHandler 把 hub 的事件以 SSE 推給顯示看板與各式檢視端
type EventHandler struct {
	hub       *broadcast.Hub
	validator TokenValidator
	heartbeat time.Duration
}

func NewEventHandler(hub *broadcast.Hub, validator TokenValidator, heartbeat time.Duration) *EventHandler {
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	return &EventHandler{
		hub:       hub,
		validator: validator,
		heartbeat: heartbeat,
	}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("service-points/:sp/events", h.Subscribe)
	}
}

func (h *EventHandler) Subscribe(c *gin.Context) {
	if h.validator != nil {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if err := h.validator.Validate(c, token); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
	}

	sub := h.hub.Subscribe(c.Param("sp"))
	defer h.hub.Unsubscribe(sub)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	clientGone := c.Request.Context().Done()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-sub.Events:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Type), event)
			return true
		case <-heartbeat.C:
			// 固定間隔探測，順便讓代理不要收掉閒置連線
			c.SSEvent("heartbeat", gin.H{"ts": time.Now().UTC()})
			return true
		case <-clientGone:
			logger.WithComponent("handler").Info("sse client disconnected",
				zap.String("subscriber_id", sub.ID))
			return false
		}
	})
}
