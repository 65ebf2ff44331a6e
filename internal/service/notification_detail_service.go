package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/scholarship-portal-api/internal/dto"
	"github.com/noah-isme/scholarship-portal-api/internal/models"
	"github.com/noah-isme/scholarship-portal-api/internal/repository"
)

// NotificationDetailService expands a notification with the application it refers to.
type NotificationDetailService interface {
	Detail(ctx context.Context, id uint, recipient NotificationRecipient) (dto.NotificationDetailResponse, error)
}

type notificationDetailService struct {
	notifications repository.NotificationRepository
	applications  repository.ApplicationRepository
	logger        zerolog.Logger
}

// NewNotificationDetailService constructs the detail resolver.
func NewNotificationDetailService(notifications repository.NotificationRepository, applications repository.ApplicationRepository, logger zerolog.Logger) NotificationDetailService {
	return &notificationDetailService{
		notifications: notifications,
		applications:  applications,
		logger:        logger.With().Str("component", "notification_detail_service").Logger(),
	}
}

func (s *notificationDetailService) Detail(ctx context.Context, id uint, recipient NotificationRecipient) (dto.NotificationDetailResponse, error) {
	userType := strings.ToLower(strings.TrimSpace(recipient.UserType))
	notification, err := s.notifications.FindForUser(ctx, id, recipient.UserID, userType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NotificationDetailResponse{}, ErrNotificationNotFound
		}
		return dto.NotificationDetailResponse{}, err
	}

	response := dto.NotificationDetailResponse{Notification: dto.NewNotificationResponse(notification)}
	if notification.RelatedType != models.RelatedTypeApplication || notification.RelatedID == nil {
		return response, nil
	}

	application, err := s.applications.GetByID(ctx, *notification.RelatedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug().Uint("notification_id", notification.ID).Uint("application_id", *notification.RelatedID).Msg("related application missing")
			return response, nil
		}
		return dto.NotificationDetailResponse{}, err
	}
	if userType == models.RoleStudent && application.StudentID != recipient.UserID {
		return response, nil
	}

	summary := dto.NewApplicationResponse(application)
	summary.Documents = nil
	response.Application = &summary
	if view := rejectionViewFor(application); view != nil {
		evaluation := EvaluateRejection(view.Reason)
		response.Rejection = view
		response.Evaluation = &evaluation
	}
	return response, nil
}
