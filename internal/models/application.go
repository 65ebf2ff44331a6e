package models

import "time"

// Application statuses. pending is the only non-terminal state.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// Application is one student's submission to one scholarship.
type Application struct {
	ID              uint                  `gorm:"primaryKey" json:"id"`
	StudentID       uint                  `gorm:"not null;uniqueIndex:idx_application_student_scholarship" json:"student_id"`
	ScholarshipID   uint                  `gorm:"not null;uniqueIndex:idx_application_student_scholarship;index" json:"scholarship_id"`
	FullName        string                `gorm:"size:255;not null" json:"full_name"`
	Email           string                `gorm:"size:255;not null" json:"email"`
	GWA             *float64              `json:"gwa"`
	YearLevel       string                `gorm:"size:32" json:"year_level"`
	Program         string                `gorm:"size:128" json:"program"`
	Department      string                `gorm:"size:128" json:"department"`
	Status          string                `gorm:"size:16;index;not null;default:pending" json:"status"`
	ApplicationDate time.Time             `gorm:"not null" json:"application_date"`
	ReviewDate      *time.Time            `json:"review_date"`
	ReviewedBy      *uint                 `json:"reviewed_by"`
	RejectionCode   string                `gorm:"size:64" json:"rejection_code"`
	RejectionReason string                `gorm:"type:text" json:"rejection_reason"`
	RejectionNotes  string                `gorm:"type:text" json:"rejection_notes"`
	ReviewBatch     *string               `gorm:"size:64;index" json:"review_batch,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Student         Student               `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	Scholarship     Scholarship           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"scholarship"`
	Documents       []ApplicationDocument `json:"documents"`
}

// IsPending reports whether a reviewer may still decide the application.
func (a Application) IsPending() bool {
	return a.Status == ApplicationStatusPending
}

// ApplicationDocument references an uploaded supporting document by path.
type ApplicationDocument struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ApplicationID uint      `gorm:"index;not null" json:"application_id"`
	DocumentType  string    `gorm:"size:64;not null" json:"document_type"`
	FileName      string    `gorm:"size:255;not null" json:"file_name"`
	Path          string    `gorm:"size:512;not null" json:"path"`
	MimeType      string    `gorm:"size:128" json:"mime_type"`
	SizeBytes     int64     `json:"size_bytes"`
	Checksum      string    `gorm:"size:128" json:"checksum"`
	CreatedAt     time.Time `json:"created_at"`
}
