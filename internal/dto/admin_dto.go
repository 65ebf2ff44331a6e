package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/noah-isme/scholarship-portal-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// AdminActivityListRequest defines filters for retrieving activity logs.
type AdminActivityListRequest struct {
	Page       int
	PageSize   int
	ActorID    uint
	Action     string
	EntityType string
}

// AdminActivityResponse serializes activity log entries.
type AdminActivityResponse struct {
	ID         uint                   `json:"id"`
	ActorID    uint                   `json:"actor_id"`
	ActorRole  string                 `json:"actor_role"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *uint                  `json:"entity_id"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"created_at"`
}

// AdminActivityListResponse wraps paginated activity logs.
type AdminActivityListResponse struct {
	Items      []AdminActivityResponse `json:"items"`
	Pagination PaginationMeta          `json:"pagination"`
}

// EmailLogListRequest filters the email log listing.
type EmailLogListRequest struct {
	Page      int
	PageSize  int
	Status    string
	Recipient string
}

// EmailLogResponse serializes a single email attempt.
type EmailLogResponse struct {
	ID        uint       `json:"id"`
	Recipient string     `json:"recipient"`
	Subject   string     `json:"subject"`
	Type      string     `json:"type"`
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	SentAt    *time.Time `json:"sent_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// EmailLogListResponse wraps paginated email logs.
type EmailLogListResponse struct {
	Items      []EmailLogResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

func metadataFromJSON(data datatypes.JSONMap) map[string]interface{} {
	if data == nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}(data)
}

// NewAdminActivityResponse converts a model into an activity DTO.
func NewAdminActivityResponse(entry models.ActivityLog) AdminActivityResponse {
	return AdminActivityResponse{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		ActorRole:  entry.ActorRole,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   metadataFromJSON(entry.Metadata),
		CreatedAt:  entry.CreatedAt,
	}
}

// NewEmailLogResponse converts an email log model into a DTO.
func NewEmailLogResponse(entry models.EmailLog) EmailLogResponse {
	return EmailLogResponse{
		ID:        entry.ID,
		Recipient: entry.Recipient,
		Subject:   entry.Subject,
		Type:      entry.Type,
		Status:    entry.Status,
		Error:     entry.Error,
		SentAt:    entry.SentAt,
		CreatedAt: entry.CreatedAt,
	}
}
