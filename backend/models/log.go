package models

import "time"

type LogEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	Level     string    `json:"level" gorm:"index"`
	Message   string    `json:"message"`
	Source    string    `json:"source" gorm:"index"`
	UserID    *uint     `json:"user_id" gorm:"index"`
	Data      string    `json:"data"`
}

// ActivityEntry is the audit trail: one row per security-relevant user action
// (login, 2FA verification, password changes, ...).
type ActivityEntry struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UserID      uint      `json:"user_id" gorm:"index"`
	Action      string    `json:"action" gorm:"index"`
	Description string    `json:"description"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
}
