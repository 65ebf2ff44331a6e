package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/scholarship-portal-api/internal/models"
)

func TestApplicationRepositoryCreateWithDocuments(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	student, scholarship := seedApplicant(t, db, "Maria Santos")

	application := models.Application{
		StudentID:       student.ID,
		ScholarshipID:   scholarship.ID,
		FullName:        "Maria Santos",
		Email:           student.Email,
		Status:          models.ApplicationStatusPending,
		ApplicationDate: time.Now().UTC(),
		Documents: []models.ApplicationDocument{
			{DocumentType: models.DocumentTranscript, FileName: "tor.pdf", Path: "a/tor.pdf"},
			{DocumentType: models.DocumentValidID, FileName: "id.png", Path: "a/id.png"},
		},
	}
	require.NoError(t, repo.Create(context.Background(), &application))
	require.NotZero(t, application.ID)

	loaded, err := repo.GetByID(context.Background(), application.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Documents, 2)
	require.Equal(t, scholarship.Title, loaded.Scholarship.Title)
	require.Equal(t, "Maria Santos", loaded.Student.Name)

	exists, err := repo.ExistsForStudent(context.Background(), student.ID, scholarship.ID)
	require.NoError(t, err)
	require.True(t, exists)

	_, err = repo.GetByID(context.Background(), 9999)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestApplicationRepositoryUpdatePendingIsGuarded(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)
	application := seedApplication(t, db, "Jose Rizal", models.ApplicationStatusPending)

	now := time.Now().UTC()
	rows, err := repo.UpdatePending(context.Background(), application.ID, map[string]interface{}{
		"status":      models.ApplicationStatusApproved,
		"reviewed_by": uint(7),
		"review_date": now,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	rows, err = repo.UpdatePending(context.Background(), application.ID, map[string]interface{}{
		"status": models.ApplicationStatusRejected,
	})
	require.NoError(t, err)
	require.Zero(t, rows)

	loaded, err := repo.GetByID(context.Background(), application.ID)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusApproved, loaded.Status)
	require.NotNil(t, loaded.ReviewedBy)
	require.Equal(t, uint(7), *loaded.ReviewedBy)
}

func TestApplicationRepositoryBulkUpdatePendingReportsChangedRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)

	first := seedApplication(t, db, "Ana", models.ApplicationStatusPending)
	second := seedApplication(t, db, "Ben", models.ApplicationStatusPending)
	decided := seedApplication(t, db, "Cora", models.ApplicationStatusRejected)

	statuses, err := repo.StatusesByIDs(context.Background(), []uint{first.ID, decided.ID, 4242})
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	require.Equal(t, models.ApplicationStatusRejected, statuses[decided.ID])

	updated, err := repo.BulkUpdatePending(context.Background(), []uint{first.ID, second.ID, decided.ID}, BulkStatusUpdate{
		Status:     models.ApplicationStatusApproved,
		ReviewedBy: 3,
		Batch:      "batch-1",
		At:         time.Now().UTC(),
	})
	require.NoError(t, err)
	require.Len(t, updated, 2)
	require.Equal(t, first.ID, updated[0].ID)
	require.Equal(t, second.ID, updated[1].ID)
	require.NotEmpty(t, updated[0].Scholarship.Title)

	var untouched models.Application
	require.NoError(t, db.First(&untouched, decided.ID).Error)
	require.Equal(t, models.ApplicationStatusRejected, untouched.Status)
	require.Nil(t, untouched.ReviewBatch)
}

func TestApplicationRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)

	seedApplication(t, db, "Alice Reyes", models.ApplicationStatusPending)
	seedApplication(t, db, "Bruno Cruz", models.ApplicationStatusApproved)

	items, total, err := repo.List(context.Background(), ApplicationFilter{Status: models.ApplicationStatusPending, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Alice Reyes", items[0].FullName)

	items, total, err = repo.List(context.Background(), ApplicationFilter{Search: "cruz", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Bruno Cruz", items[0].FullName)
}
