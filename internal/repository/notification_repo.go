package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/scholarship-portal-api/internal/models"
)

// NotificationRepository handles persistence for notification entities.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID uint, userType string, limit, offset int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID uint, userType string) (models.Notification, error)
	FindForUser(ctx context.Context, id, userID uint, userType string) (models.Notification, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository constructs a repository backed by GORM.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uint, userType string, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var notifications []models.Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND user_type = ?", userID, userType).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, err
	}

	return notifications, nil
}

// MarkRead flips is_read for the owner only. Other users get gorm.ErrRecordNotFound.
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uint, userType string) (models.Notification, error) {
	notification, err := r.FindForUser(ctx, id, userID, userType)
	if err != nil {
		return models.Notification{}, err
	}

	if notification.IsRead {
		return notification, nil
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", notification.ID).
		Update("is_read", true).Error; err != nil {
		return models.Notification{}, err
	}

	notification.IsRead = true
	return notification, nil
}

func (r *notificationRepository) FindForUser(ctx context.Context, id, userID uint, userType string) (models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND user_type = ?", id, userID, userType).
		First(&notification).Error; err != nil {
		return models.Notification{}, err
	}
	return notification, nil
}
