package dto

import (
	"time"

	"github.com/noah-isme/scholarship-portal-api/internal/models"
)

// ScholarshipResponse serializes a scholarship for the browse pages.
type ScholarshipResponse struct {
	ID                uint      `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Amount            float64   `json:"amount"`
	Deadline          time.Time `json:"deadline"`
	MinGWA            *float64  `json:"min_gwa"`
	Status            string    `json:"status"`
	RequiredDocuments []string  `json:"required_documents"`
	IsOpen            bool      `json:"is_open"`
}

// NewScholarshipResponse converts a model, evaluating openness at now.
func NewScholarshipResponse(model models.Scholarship, now time.Time) ScholarshipResponse {
	return ScholarshipResponse{
		ID:                model.ID,
		Title:             model.Title,
		Description:       model.Description,
		Amount:            model.Amount,
		Deadline:          model.Deadline,
		MinGWA:            model.MinGWA,
		Status:            model.Status,
		RequiredDocuments: model.AllRequiredDocumentTypes(),
		IsOpen:            model.IsOpen(now),
	}
}
