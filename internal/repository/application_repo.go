package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/scholarship-portal-api/internal/models"
)

// ApplicationFilter narrows application listings.
type ApplicationFilter struct {
	Status        string
	ScholarshipID uint
	StudentID     uint
	Search        string
	Page          int
	PageSize      int
}

// ApplicationRepository persists scholarship applications and their review state.
type ApplicationRepository interface {
	Create(ctx context.Context, application *models.Application) error
	GetByID(ctx context.Context, id uint) (models.Application, error)
	ExistsForStudent(ctx context.Context, studentID, scholarshipID uint) (bool, error)
	List(ctx context.Context, filter ApplicationFilter) ([]models.Application, int64, error)
	UpdatePending(ctx context.Context, id uint, updates map[string]interface{}) (int64, error)
	StatusesByIDs(ctx context.Context, ids []uint) (map[uint]string, error)
	BulkUpdatePending(ctx context.Context, ids []uint, update BulkStatusUpdate) ([]models.Application, error)
}

// BulkStatusUpdate describes the columns written by a bulk decision.
type BulkStatusUpdate struct {
	Status     string
	ReviewedBy uint
	Batch      string
	At         time.Time
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository constructs a repository backed by GORM.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(application).Error
	})
}

func (r *applicationRepository) GetByID(ctx context.Context, id uint) (models.Application, error) {
	var application models.Application
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Scholarship").
		Preload("Documents", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("id ASC")
		}).
		First(&application, id).Error; err != nil {
		return models.Application{}, err
	}
	return application, nil
}

func (r *applicationRepository) ExistsForStudent(ctx context.Context, studentID, scholarshipID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("student_id = ? AND scholarship_id = ?", studentID, scholarshipID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]models.Application, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Application{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ScholarshipID > 0 {
		query = query.Where("scholarship_id = ?", filter.ScholarshipID)
	}
	if filter.StudentID > 0 {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var applications []models.Application
	if err := query.
		Preload("Student").
		Preload("Scholarship").
		Order("application_date DESC").
		Order("id DESC").
		Find(&applications).Error; err != nil {
		return nil, 0, err
	}

	return applications, total, nil
}

// UpdatePending writes the review columns only while the row is still pending.
// The affected row count is zero when another reviewer got there first.
func (r *applicationRepository) UpdatePending(ctx context.Context, id uint, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND status = ?", id, models.ApplicationStatusPending).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *applicationRepository) StatusesByIDs(ctx context.Context, ids []uint) (map[uint]string, error) {
	statuses := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return statuses, nil
	}

	var rows []struct {
		ID     uint
		Status string
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("id", "status").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		statuses[row.ID] = row.Status
	}
	return statuses, nil
}

// BulkUpdatePending moves every still-pending id to the target status in one statement
// and returns the rows this call changed, identified by the batch marker.
func (r *applicationRepository) BulkUpdatePending(ctx context.Context, ids []uint, update BulkStatusUpdate) ([]models.Application, error) {
	var updated []models.Application
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Application{}).
			Where("id IN ? AND status = ?", ids, models.ApplicationStatusPending).
			Updates(map[string]interface{}{
				"status":       update.Status,
				"reviewed_by":  update.ReviewedBy,
				"review_date":  update.At,
				"review_batch": update.Batch,
				"updated_at":   update.At,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		return tx.Preload("Scholarship").
			Where("review_batch = ?", update.Batch).
			Order("id ASC").
			Find(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
