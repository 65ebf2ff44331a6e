package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/scholarship-portal-api/internal/models"
)

// ScholarshipRepository reads scholarships.
type ScholarshipRepository interface {
	ListOpen(ctx context.Context, now time.Time) ([]models.Scholarship, error)
	GetByID(ctx context.Context, id uint) (models.Scholarship, error)
}

type scholarshipRepository struct {
	db *gorm.DB
}

// NewScholarshipRepository constructs the scholarship repository.
func NewScholarshipRepository(db *gorm.DB) ScholarshipRepository {
	return &scholarshipRepository{db: db}
}

func (r *scholarshipRepository) ListOpen(ctx context.Context, now time.Time) ([]models.Scholarship, error) {
	var scholarships []models.Scholarship
	if err := r.db.WithContext(ctx).
		Where("status = ? AND deadline >= ?", models.ScholarshipStatusActive, now).
		Order("deadline ASC").
		Find(&scholarships).Error; err != nil {
		return nil, err
	}
	return scholarships, nil
}

func (r *scholarshipRepository) GetByID(ctx context.Context, id uint) (models.Scholarship, error) {
	var scholarship models.Scholarship
	if err := r.db.WithContext(ctx).First(&scholarship, id).Error; err != nil {
		return models.Scholarship{}, err
	}
	return scholarship, nil
}
