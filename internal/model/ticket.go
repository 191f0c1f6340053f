package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TicketClass 票種類型
type TicketClass string

const (
	ClassNormal   TicketClass = "normal"
	ClassPriority TicketClass = "priority"
)

// IsValid 驗證票種是否有效
func (c TicketClass) IsValid() bool {
	switch c {
	case ClassNormal, ClassPriority:
		return true
	}
	return false
}

// TicketStatus 票券狀態類型
type TicketStatus string

const (
	StatusWaiting   TicketStatus = "waiting"
	StatusCalled    TicketStatus = "called"
	StatusInService TicketStatus = "in_service"
	StatusCompleted TicketStatus = "completed"
	StatusSkipped   TicketStatus = "skipped"
	StatusCancelled TicketStatus = "cancelled"
)

// IsValid 驗證狀態是否有效
func (s TicketStatus) IsValid() bool {
	switch s {
	case StatusWaiting, StatusCalled, StatusInService, StatusCompleted, StatusSkipped, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal 終態不可再轉換
func (s TicketStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusSkipped, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s TicketStatus) CanTransitionTo(target TicketStatus) bool {
	transitions := map[TicketStatus][]TicketStatus{
		StatusWaiting:   {StatusCalled, StatusCancelled},
		StatusCalled:    {StatusInService, StatusSkipped, StatusCancelled},
		StatusInService: {StatusCompleted, StatusSkipped},
		StatusCompleted: {},
		StatusSkipped:   {},
		StatusCancelled: {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Ticket 號碼牌模型。(service_point, class, day, number) 唯一，display_code 派生後不變。
type Ticket struct {
	ID             uuid.UUID    `json:"id" db:"id"`
	ServicePointID string       `json:"service_point_id" db:"service_point_id"`
	Class          TicketClass  `json:"class" db:"class"`
	Day            time.Time    `json:"day" db:"day"`
	Number         int64        `json:"number" db:"number"`
	DisplayCode    string       `json:"display_code" db:"display_code"`
	Status         TicketStatus `json:"status" db:"status"`
	PriorityWeight int          `json:"priority_weight" db:"priority_weight"`
	ClientInfo     *string      `json:"client_info,omitempty" db:"client_info"`
	CounterID      *string      `json:"counter_id,omitempty" db:"counter_id"`
	AttendantID    *string      `json:"attendant_id,omitempty" db:"attendant_id"`
	Reason         *string      `json:"reason,omitempty" db:"reason"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	CalledAt       *time.Time   `json:"called_at,omitempty" db:"called_at"`
	ServedAt       *time.Time   `json:"served_at,omitempty" db:"served_at"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty" db:"completed_at"`
}

// FormatDisplayCode 組合顯示代碼，如 N-001、P-042
func FormatDisplayCode(prefix string, number int64) string {
	return fmt.Sprintf("%s-%03d", prefix, number)
}

// CreateTicketRequest 取號請求
type CreateTicketRequest struct {
	Class      TicketClass `json:"class" binding:"required"`
	ClientInfo *string     `json:"client_info,omitempty"`
}

// ActionReasonRequest skip / cancel 需要附帶原因
type ActionReasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}
