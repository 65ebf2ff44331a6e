package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/scholarship-portal-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func ptrUint(v uint) *uint {
	return &v
}

func ptrFloat(v float64) *float64 {
	return &v
}

type testFixtures struct {
	db *gorm.DB
}

func (f *testFixtures) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var total int64
	require.NoError(t, f.db.Model(model).Count(&total).Error)
	return total
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []StatusChangeEvent
}

func (r *recordingNotifier) Notify(event StatusChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingNotifier) all() []StatusChangeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]StatusChangeEvent(nil), r.events...)
}

type recordingSink struct {
	mu      sync.Mutex
	entries []ActivityEntry
}

func (r *recordingSink) Emit(entry ActivityEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (f *testFixtures) scholarship(t *testing.T, title string) models.Scholarship {
	t.Helper()
	scholarship := models.Scholarship{
		Title:             title,
		Deadline:          time.Now().UTC().Add(48 * time.Hour),
		Status:            models.ScholarshipStatusActive,
		RequiredDocuments: models.EncodeDocumentTypes(nil),
	}
	require.NoError(t, f.db.Create(&scholarship).Error)
	return scholarship
}

func (f *testFixtures) student(t *testing.T, name string) models.Student {
	t.Helper()
	student := models.Student{Name: name, Email: fmt.Sprintf("s%d@example.edu", time.Now().UnixNano())}
	require.NoError(t, f.db.Create(&student).Error)
	return student
}

func (f *testFixtures) application(t *testing.T, status string) models.Application {
	t.Helper()
	student := f.student(t, "Applicant")
	scholarship := f.scholarship(t, "Merit Grant")
	application := models.Application{
		StudentID:       student.ID,
		ScholarshipID:   scholarship.ID,
		FullName:        "Applicant",
		Email:           student.Email,
		GWA:             ptrFloat(1.75),
		YearLevel:       "3rd Year",
		Program:         "BS Computer Science",
		Department:      "CCS",
		Status:          status,
		ApplicationDate: time.Now().UTC().Add(-time.Hour).Truncate(time.Second),
	}
	require.NoError(t, f.db.Create(&application).Error)
	return application
}

func (f *testFixtures) reload(t *testing.T, id uint) models.Application {
	t.Helper()
	var application models.Application
	require.NoError(t, f.db.First(&application, id).Error)
	return application
}
