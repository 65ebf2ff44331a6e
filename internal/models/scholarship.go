package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Scholarship statuses.
const (
	ScholarshipStatusActive   = "active"
	ScholarshipStatusInactive = "inactive"
	ScholarshipStatusClosed   = "closed"
)

// Document types every application must include regardless of the scholarship.
const (
	DocumentTranscript           = "transcript_of_records"
	DocumentRegistration         = "certificate_of_registration"
	DocumentValidID              = "valid_id"
	DocumentRecommendationLetter = "recommendation_letter"
)

// CoreDocumentTypes lists the always-required documents in display order.
var CoreDocumentTypes = []string{
	DocumentTranscript,
	DocumentRegistration,
	DocumentValidID,
	DocumentRecommendationLetter,
}

// Scholarship is an opportunity students may apply to while it is active and open.
type Scholarship struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Title             string         `gorm:"size:255;not null" json:"title"`
	Description       string         `gorm:"type:text" json:"description"`
	Amount            float64        `gorm:"not null;default:0" json:"amount"`
	Deadline          time.Time      `gorm:"index;not null" json:"deadline"`
	MinGWA            *float64       `json:"min_gwa"`
	Status            string         `gorm:"size:16;index;not null;default:active" json:"status"`
	RequiredDocuments datatypes.JSON `gorm:"type:json" json:"required_documents"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// IsOpen reports whether applications can be created at the given instant.
func (s Scholarship) IsOpen(now time.Time) bool {
	return s.Status == ScholarshipStatusActive && !s.Deadline.Before(now)
}

// ExtraDocumentTypes decodes the scholarship specific document list.
func (s Scholarship) ExtraDocumentTypes() []string {
	if len(s.RequiredDocuments) == 0 {
		return nil
	}
	var raw []string
	if err := json.Unmarshal(s.RequiredDocuments, &raw); err != nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		trimmed := strings.ToLower(strings.TrimSpace(item))
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// AllRequiredDocumentTypes returns the core documents followed by the extra ones, without duplicates.
func (s Scholarship) AllRequiredDocumentTypes() []string {
	seen := make(map[string]struct{}, len(CoreDocumentTypes))
	out := make([]string, 0, len(CoreDocumentTypes))
	for _, docType := range append(append([]string{}, CoreDocumentTypes...), s.ExtraDocumentTypes()...) {
		if _, ok := seen[docType]; ok {
			continue
		}
		seen[docType] = struct{}{}
		out = append(out, docType)
	}
	return out
}

// EncodeDocumentTypes builds the JSON column value for RequiredDocuments.
func EncodeDocumentTypes(types []string) datatypes.JSON {
	if len(types) == 0 {
		return datatypes.JSON("[]")
	}
	payload, err := json.Marshal(types)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(payload)
}
