package model

import "time"

// Counter 櫃台模型。AttendantID 為 nil 表示未綁定。
type Counter struct {
	ID             string     `json:"id" db:"id"`
	ServicePointID string     `json:"service_point_id" db:"service_point_id"`
	Number         int        `json:"number" db:"number"`
	Active         bool       `json:"active" db:"active"`
	AttendantID    *string    `json:"attendant_id,omitempty" db:"attendant_id"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	BoundAt        *time.Time `json:"bound_at,omitempty" db:"bound_at"`
}

// IsBound 檢查櫃台是否已有服務人員
func (c *Counter) IsBound() bool {
	return c.AttendantID != nil
}

// BindCounterRequest 綁定請求，身份由 X-Attendant-ID 帶入
type BindCounterRequest struct {
	Force bool `json:"force"`
}
