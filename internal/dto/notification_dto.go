package dto

import (
	"time"

	"github.com/noah-isme/scholarship-portal-api/internal/models"
)

// NotificationCreateRequest describes the payload to create a notification.
type NotificationCreateRequest struct {
	UserID      uint   `json:"user_id" validate:"required"`
	UserType    string `json:"user_type" validate:"required,oneof=student staff admin"`
	Type        string `json:"type" validate:"required,max=64"`
	Title       string `json:"title" validate:"omitempty,max=255"`
	Message     string `json:"message" validate:"required,min=1,max=4000"`
	RelatedType string `json:"related_type" validate:"omitempty,max=32"`
	RelatedID   *uint  `json:"related_id"`
}

// NotificationResponse represents notification data returned to clients.
type NotificationResponse struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	UserType    string    `json:"user_type"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read"`
	RelatedType string    `json:"related_type,omitempty"`
	RelatedID   *uint     `json:"related_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NotificationDetailResponse is the expanded view of one notification.
type NotificationDetailResponse struct {
	Notification NotificationResponse `json:"notification"`
	Application  *ApplicationResponse `json:"application,omitempty"`
	Rejection    *RejectionView       `json:"rejection,omitempty"`
	Evaluation   *RejectionEvaluation `json:"evaluation,omitempty"`
}

// NewNotificationResponse converts a notification model to DTO.
func NewNotificationResponse(model models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          model.ID,
		UserID:      model.UserID,
		UserType:    model.UserType,
		Type:        model.Type,
		Title:       model.Title,
		Message:     model.Message,
		IsRead:      model.IsRead,
		RelatedType: model.RelatedType,
		RelatedID:   model.RelatedID,
		CreatedAt:   model.CreatedAt,
	}
}

// NewNotificationResponseSlice converts a slice to DTOs.
func NewNotificationResponseSlice(items []models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewNotificationResponse(item))
	}
	return out
}
