package models

import "time"

// Student represents an applicant who can browse and apply to scholarships.
type Student struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StudentNumber *string   `gorm:"size:32;uniqueIndex" json:"student_number"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Email         string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Program       string    `gorm:"size:128" json:"program"`
	Department    string    `gorm:"size:128" json:"department"`
	YearLevel     string    `gorm:"size:32" json:"year_level"`
	GWA           *float64  `json:"gwa"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
