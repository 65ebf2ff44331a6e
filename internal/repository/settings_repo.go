package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/scholarship-portal-api/internal/models"
)

// SettingsRepository reads the system_settings table.
type SettingsRepository interface {
	All(ctx context.Context) (map[string]string, error)
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository constructs the settings repository.
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) All(ctx context.Context) (map[string]string, error) {
	var rows []models.SystemSetting
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}
