package service

import (
	"errors"
	"fmt"
)

var (
	// ErrAccessDenied indicates the caller is not a reviewer.
	ErrAccessDenied = errors.New("access denied")
	// ErrApplicationNotFound indicates the application does not exist or is not visible to the caller.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrScholarshipNotFound indicates the scholarship does not exist.
	ErrScholarshipNotFound = errors.New("scholarship not found")
	// ErrNotificationNotFound indicates the notification does not exist or belongs to another user.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrInvalidState indicates the application is no longer pending.
	ErrInvalidState = errors.New("application is not pending")
	// ErrNoEligibleApplications indicates a bulk selection contained no pending application.
	ErrNoEligibleApplications = errors.New("no eligible pending applications selected")
	// ErrPersistence indicates the database rejected a write.
	ErrPersistence = errors.New("failed to persist changes")
	// ErrInvalidInput indicates a malformed request that the validator does not cover.
	ErrInvalidInput = errors.New("invalid input")
	// ErrScholarshipClosed indicates the scholarship is inactive or past its deadline.
	ErrScholarshipClosed = errors.New("scholarship is not accepting applications")
	// ErrDuplicateApplication indicates the student already applied to the scholarship.
	ErrDuplicateApplication = errors.New("you have already applied to this scholarship")
	// ErrGWARequirement indicates the student does not meet the minimum GWA.
	ErrGWARequirement = errors.New("gwa does not meet the scholarship requirement")
	// ErrMissingDocuments indicates required documents were not uploaded.
	ErrMissingDocuments = errors.New("required documents are missing")
)

// IneligibleSelectionError reports how many selected applications were not pending.
type IneligibleSelectionError struct {
	NonPending int
}

func (e *IneligibleSelectionError) Error() string {
	return fmt.Sprintf("Only pending applications can be bulk updated. You have selected %d non-pending application(s).", e.NonPending)
}

// Unwrap lets callers match the error with errors.Is(err, ErrInvalidState).
func (e *IneligibleSelectionError) Unwrap() error {
	return ErrInvalidState
}

// MissingDocumentsError lists the document types absent from a submission.
type MissingDocumentsError struct {
	Types []string
}

func (e *MissingDocumentsError) Error() string {
	return fmt.Sprintf("required documents are missing: %v", e.Types)
}

// Unwrap exposes ErrMissingDocuments.
func (e *MissingDocumentsError) Unwrap() error {
	return ErrMissingDocuments
}
