package model

// ClassSetting 每個服務據點、每個票種一筆：顯示前綴、起始號碼與派號權重。
// Dispatcher 只讀取，不修改。
type ClassSetting struct {
	ServicePointID string      `json:"service_point_id" db:"service_point_id"`
	Class          TicketClass `json:"class" db:"class"`
	Prefix         string      `json:"prefix" db:"prefix"`
	StartNumber    int64       `json:"start_number" db:"start_number"`
	PriorityWeight int         `json:"priority_weight" db:"priority_weight"`
}
