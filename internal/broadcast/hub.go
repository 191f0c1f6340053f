package broadcast

import (
	"go-ticket-dispatch/internal/model"
	"go-ticket-dispatch/pkg/logger"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 每個訂閱者的獨立緩衝長度。塞滿代表消費太慢，直接丟棄該訂閱者的這筆事件。
const subscriberBufferSize = 32

// Subscriber 一條訂閱連線：只收自己註冊的 service point 的事件。
type Subscriber struct {
	ID             string
	ServicePointID string
	Events         chan model.QueueEvent
}

// Hub 把 Dispatcher 的事件扇出給所有訂閱端。
// Publish 絕不等待任何訂閱者：慢速或斷線的訂閱者丟事件，不拖累其他人。
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]*Subscriber),
	}
}

// Subscribe 註冊一條以 service point 為範圍的訂閱
func (h *Hub) Subscribe(servicePointID string) *Subscriber {
	sub := &Subscriber{
		ID:             uuid.New().String(),
		ServicePointID: servicePointID,
		Events:         make(chan model.QueueEvent, subscriberBufferSize),
	}

	h.mu.Lock()
	h.subscribers[sub.ID] = sub
	count := len(h.subscribers)
	h.mu.Unlock()

	logger.WithComponent("hub").Info("subscriber registered",
		zap.String("subscriber_id", sub.ID),
		zap.String("service_point_id", servicePointID),
		zap.Int("subscribers", count))
	return sub
}

// Unsubscribe 拆除訂閱並關閉其隊列
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[sub.ID]
	if ok {
		delete(h.subscribers, sub.ID)
		close(sub.Events)
	}
	count := len(h.subscribers)
	h.mu.Unlock()

	if ok {
		logger.WithComponent("hub").Info("subscriber removed",
			zap.String("subscriber_id", sub.ID),
			zap.Int("subscribers", count))
	}
}

// Publish 對同一 service point 的訂閱者依呼叫順序投遞；緩衝滿則丟棄該筆
func (h *Hub) Publish(event model.QueueEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subscribers {
		if sub.ServicePointID != event.ServicePointID {
			continue
		}
		select {
		case sub.Events <- event:
		default:
			logger.WithComponent("hub").Warn("drop event for slow subscriber",
				zap.String("subscriber_id", sub.ID),
				zap.String("event_type", string(event.Type)))
		}
	}
}

// SubscriberCount 目前連線數，供觀測用
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
