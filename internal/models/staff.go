package models

import "time"

// Reviewer roles. Both may decide applications.
const (
	RoleAdmin   = "admin"
	RoleStaff   = "staff"
	RoleStudent = "student"
)

// Staff is a reviewer account. Administrators share the table and are told apart by Role.
type Staff struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:16;not null;default:staff" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsReviewerRole reports whether the role may review applications.
func IsReviewerRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}
