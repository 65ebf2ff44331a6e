package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/scholarship-portal-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedApplicant(t *testing.T, db *gorm.DB, name string) (models.Student, models.Scholarship) {
	t.Helper()
	student := models.Student{Name: name, Email: fmt.Sprintf("%d@example.edu", time.Now().UnixNano())}
	require.NoError(t, db.Create(&student).Error)

	scholarship := models.Scholarship{
		Title:             "Merit Grant " + name,
		Deadline:          time.Now().UTC().Add(72 * time.Hour),
		Status:            models.ScholarshipStatusActive,
		RequiredDocuments: models.EncodeDocumentTypes(nil),
	}
	require.NoError(t, db.Create(&scholarship).Error)
	return student, scholarship
}

func seedApplication(t *testing.T, db *gorm.DB, name, status string) models.Application {
	t.Helper()
	student, scholarship := seedApplicant(t, db, name)
	application := models.Application{
		StudentID:       student.ID,
		ScholarshipID:   scholarship.ID,
		FullName:        name,
		Email:           student.Email,
		Status:          status,
		ApplicationDate: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&application).Error)
	return application
}
