package model

import "time"

// EventType 狀態變更事件類型
type EventType string

const (
	EventCreated         EventType = "CREATED"
	EventCalled          EventType = "CALLED"
	EventRepeated        EventType = "REPEATED"
	EventStarted         EventType = "STARTED"
	EventCompleted       EventType = "COMPLETED"
	EventSkipped         EventType = "SKIPPED"
	EventCancelled       EventType = "CANCELLED"
	EventCounterAssigned EventType = "COUNTER_ASSIGNED"
	EventCounterReleased EventType = "COUNTER_RELEASED"
)

// QueueEvent 推送給訂閱端的事件信封。Ticket 與 Counter 依事件類型擇一填入。
type QueueEvent struct {
	Type           EventType `json:"type"`
	ServicePointID string    `json:"service_point_id"`
	Ticket         *Ticket   `json:"ticket,omitempty"`
	Counter        *Counter  `json:"counter,omitempty"`
	EmittedAt      time.Time `json:"emitted_at"`
}

// NewTicketEvent 由票券轉換組出事件
func NewTicketEvent(eventType EventType, ticket *Ticket) QueueEvent {
	return QueueEvent{
		Type:           eventType,
		ServicePointID: ticket.ServicePointID,
		Ticket:         ticket,
		EmittedAt:      time.Now().UTC(),
	}
}

// NewCounterEvent 由櫃台綁定變更組出事件
func NewCounterEvent(eventType EventType, counter *Counter) QueueEvent {
	return QueueEvent{
		Type:           eventType,
		ServicePointID: counter.ServicePointID,
		Counter:        counter,
		EmittedAt:      time.Now().UTC(),
	}
}
