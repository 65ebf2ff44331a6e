package dto

import (
	"time"

	"github.com/noah-isme/scholarship-portal-api/internal/models"
)

// Reviewer decisions accepted by the decision endpoint.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// RejectionDetails carries the structured reason chosen by a reviewer.
type RejectionDetails struct {
	ReasonCode       string `json:"reason_code" validate:"omitempty,max=64"`
	CustomReasonText string `json:"custom_reason_text" validate:"omitempty,max=2000"`
	AdditionalNotes  string `json:"additional_notes" validate:"omitempty,max=4000"`
}

// DecisionRequest is the payload for deciding a single application.
type DecisionRequest struct {
	Decision         string            `json:"decision" validate:"required,oneof=approve reject"`
	RejectionDetails *RejectionDetails `json:"rejection_details" validate:"omitempty"`
}

// DecisionResponse summarises a committed decision.
type DecisionResponse struct {
	ApplicationID uint   `json:"application_id"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

// BulkDecisionRequest applies one terminal status to many applications.
// IDs are decoded loosely and coerced by the service.
type BulkDecisionRequest struct {
	IDs    []interface{} `json:"ids"`
	Status string        `json:"status" validate:"required,oneof=approved rejected"`
}

// BulkDecisionResponse reports the rows a bulk decision actually changed.
type BulkDecisionResponse struct {
	UpdatedCount int64  `json:"updated_count"`
	ProcessedIDs []uint `json:"processed_ids"`
	Message      string `json:"message"`
}

// ApplicationListRequest filters the reviewer listing.
type ApplicationListRequest struct {
	Page          int
	PageSize      int
	Status        string
	ScholarshipID uint
	StudentID     uint
	Search        string
}

// ApplicationSubmitRequest is the non-file part of a student submission.
type ApplicationSubmitRequest struct {
	ScholarshipID uint `json:"scholarship_id" form:"scholarship_id" validate:"required,gt=0"`
}

// ChecklistItem is one line of the evaluation checklist shown to students.
type ChecklistItem struct {
	Label  string `json:"label"`
	Passed bool   `json:"passed"`
}

// RejectionEvaluation explains a rejection in checklist form.
type RejectionEvaluation struct {
	Category    string          `json:"category"`
	FailedItem  string          `json:"failed_item"`
	Checklist   []ChecklistItem `json:"checklist"`
	Suggestions []string        `json:"suggestions"`
}

// RejectionView exposes the stored rejection fields.
type RejectionView struct {
	Code            string `json:"code,omitempty"`
	Reason          string `json:"reason"`
	AdditionalNotes string `json:"additional_notes,omitempty"`
}

// DocumentResponse describes an uploaded document and what the file store knows about it.
type DocumentResponse struct {
	ID           uint       `json:"id"`
	DocumentType string     `json:"document_type"`
	FileName     string     `json:"file_name"`
	Path         string     `json:"path"`
	MimeType     string     `json:"mime_type"`
	SizeBytes    int64      `json:"size_bytes"`
	Exists       bool       `json:"exists"`
	ModifiedAt   *time.Time `json:"modified_at,omitempty"`
}

// ApplicationResponse serializes an application for students and reviewers.
type ApplicationResponse struct {
	ID               uint                 `json:"id"`
	StudentID        uint                 `json:"student_id"`
	StudentName      string               `json:"student_name,omitempty"`
	ScholarshipID    uint                 `json:"scholarship_id"`
	ScholarshipTitle string               `json:"scholarship_title,omitempty"`
	FullName         string               `json:"full_name"`
	Email            string               `json:"email"`
	GWA              *float64             `json:"gwa"`
	YearLevel        string               `json:"year_level"`
	Program          string               `json:"program"`
	Department       string               `json:"department"`
	Status           string               `json:"status"`
	ApplicationDate  time.Time            `json:"application_date"`
	ReviewDate       *time.Time           `json:"review_date"`
	ReviewedBy       *uint                `json:"reviewed_by"`
	Rejection        *RejectionView       `json:"rejection,omitempty"`
	Evaluation       *RejectionEvaluation `json:"evaluation,omitempty"`
	Documents        []DocumentResponse   `json:"documents,omitempty"`
}

// ApplicationListResponse wraps a page of applications.
type ApplicationListResponse struct {
	Items      []ApplicationResponse `json:"items"`
	Pagination PaginationMeta        `json:"pagination"`
}

// NewApplicationResponse converts an application model without document metadata.
func NewApplicationResponse(model models.Application) ApplicationResponse {
	response := ApplicationResponse{
		ID:               model.ID,
		StudentID:        model.StudentID,
		StudentName:      model.Student.Name,
		ScholarshipID:    model.ScholarshipID,
		ScholarshipTitle: model.Scholarship.Title,
		FullName:         model.FullName,
		Email:            model.Email,
		GWA:              model.GWA,
		YearLevel:        model.YearLevel,
		Program:          model.Program,
		Department:       model.Department,
		Status:           model.Status,
		ApplicationDate:  model.ApplicationDate,
		ReviewDate:       model.ReviewDate,
		ReviewedBy:       model.ReviewedBy,
	}
	if len(model.Documents) > 0 {
		docs := make([]DocumentResponse, 0, len(model.Documents))
		for _, doc := range model.Documents {
			docs = append(docs, DocumentResponse{
				ID:           doc.ID,
				DocumentType: doc.DocumentType,
				FileName:     doc.FileName,
				Path:         doc.Path,
				MimeType:     doc.MimeType,
				SizeBytes:    doc.SizeBytes,
			})
		}
		response.Documents = docs
	}
	return response
}
