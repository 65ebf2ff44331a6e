package models

import "time"

// Email delivery outcomes.
const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// EmailLog records one attempted outbound email. Rows are never updated.
type EmailLog struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Recipient string     `gorm:"size:255;index;not null" json:"recipient"`
	Subject   string     `gorm:"size:255;not null" json:"subject"`
	Message   string     `gorm:"type:text" json:"message"`
	Type      string     `gorm:"size:64;index" json:"type"`
	Status    string     `gorm:"size:16;index;not null" json:"status"`
	Error     string     `gorm:"type:text" json:"error,omitempty"`
	SentAt    *time.Time `json:"sent_at"`
	CreatedAt time.Time  `json:"created_at"`
}
