package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/scholarship-portal-api/internal/models"
)

// EmailLogFilter narrows email log queries.
type EmailLogFilter struct {
	Page      int
	PageSize  int
	Status    string
	Recipient string
}

// EmailLogRepository appends and reads email delivery attempts.
type EmailLogRepository interface {
	Create(ctx context.Context, entry *models.EmailLog) error
	List(ctx context.Context, filter EmailLogFilter) ([]models.EmailLog, int64, error)
}

type emailLogRepository struct {
	db *gorm.DB
}

// NewEmailLogRepository constructs the email log repository.
func NewEmailLogRepository(db *gorm.DB) EmailLogRepository {
	return &emailLogRepository{db: db}
}

func (r *emailLogRepository) Create(ctx context.Context, entry *models.EmailLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *emailLogRepository) List(ctx context.Context, filter EmailLogFilter) ([]models.EmailLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.EmailLog{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Recipient != "" {
		query = query.Where("recipient = ?", filter.Recipient)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var entries []models.EmailLog
	if err := query.Order("created_at DESC").Order("id DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
