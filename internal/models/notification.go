package models

import "time"

// Notification types.
const (
	NotificationApplicationApproved = "application_approved"
	NotificationApplicationRejected = "application_rejected"
	NotificationApplicationPending  = "application_pending"
	NotificationScholarshipDeadline = "scholarship_deadline"
	NotificationGeneral             = "general"
)

// RelatedTypeApplication marks notifications that point back at an application.
const RelatedTypeApplication = "application"

// Notification is an in-app message addressed to a (user id, user type) pair.
// Rows are append-only; IsRead is the only field that changes.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index:idx_notification_owner" json:"user_id"`
	UserType    string    `gorm:"size:16;not null;index:idx_notification_owner" json:"user_type"`
	Type        string    `gorm:"size:64;not null" json:"type"`
	Title       string    `gorm:"size:255" json:"title"`
	Message     string    `gorm:"type:text" json:"message"`
	IsRead      bool      `gorm:"not null;default:false" json:"is_read"`
	RelatedType string    `gorm:"size:32" json:"related_type"`
	RelatedID   *uint     `json:"related_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// NotificationTypeForStatus maps an application status to its notification type.
func NotificationTypeForStatus(status string) string {
	switch status {
	case ApplicationStatusApproved:
		return NotificationApplicationApproved
	case ApplicationStatusRejected:
		return NotificationApplicationRejected
	default:
		return NotificationApplicationPending
	}
}
