package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/scholarship-portal-api/internal/models"
)

func TestNotificationRepositoryMarkReadOwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)

	notification := models.Notification{UserID: 5, UserType: models.RoleStudent, Type: models.NotificationGeneral, Message: "hello"}
	require.NoError(t, repo.Create(context.Background(), &notification))

	_, err := repo.MarkRead(context.Background(), notification.ID, 6, models.RoleStudent)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = repo.MarkRead(context.Background(), notification.ID, 5, models.RoleStaff)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	updated, err := repo.MarkRead(context.Background(), notification.ID, 5, models.RoleStudent)
	require.NoError(t, err)
	require.True(t, updated.IsRead)

	items, err := repo.ListByUser(context.Background(), 5, models.RoleStudent, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.True(t, items[0].IsRead)
}

func TestSettingsRepositoryAll(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.SystemSetting{Key: "email_enabled", Value: "0"}).Error)
	require.NoError(t, db.Create(&models.SystemSetting{Key: "site_name", Value: "Scholarships"}).Error)

	values, err := NewSettingsRepository(db).All(context.Background())
	require.NoError(t, err)
	require.Equal(t, "0", values["email_enabled"])
	require.Equal(t, "Scholarships", values["site_name"])
}
