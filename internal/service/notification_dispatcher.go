package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/scholarship-portal-api/internal/config"
	"github.com/noah-isme/scholarship-portal-api/internal/dto"
	"github.com/noah-isme/scholarship-portal-api/internal/models"
	"github.com/noah-isme/scholarship-portal-api/internal/observability"
	"github.com/noah-isme/scholarship-portal-api/internal/repository"
)

// StatusChangeEvent describes an application status change a student should hear about.
type StatusChangeEvent struct {
	StudentID        uint
	ApplicationID    uint
	ScholarshipTitle string
	Status           string
	StudentName      string
	Email            string
	Reason           string
	Notes            string
}

// MailTransport sends one HTML email.
type MailTransport interface {
	Send(ctx context.Context, to, subject, html string) error
}

// NotificationDispatcher turns status changes into in-app notifications and emails.
type NotificationDispatcher interface {
	// NotifyApplicationStatus reports whether an email was delivered. It never fails the caller.
	NotifyApplicationStatus(ctx context.Context, event StatusChangeEvent) bool
}

var errRecipientMissing = errors.New("recipient email unavailable")

type notificationDispatcher struct {
	notifications NotificationService
	emailLogs     repository.EmailLogRepository
	students      repository.StudentRepository
	transport     MailTransport
	settings      config.NotificationSettings
	emailTimeout  time.Duration
	logger        zerolog.Logger
	tracer        trace.Tracer
	now           func() time.Time
}

// NewNotificationDispatcher wires the dispatcher with settings resolved at startup.
func NewNotificationDispatcher(notifications NotificationService, emailLogs repository.EmailLogRepository, students repository.StudentRepository, transport MailTransport, settings config.NotificationSettings, emailTimeout time.Duration, logger zerolog.Logger) NotificationDispatcher {
	if emailTimeout <= 0 {
		emailTimeout = 15 * time.Second
	}
	return &notificationDispatcher{
		notifications: notifications,
		emailLogs:     emailLogs,
		students:      students,
		transport:     transport,
		settings:      settings,
		emailTimeout:  emailTimeout,
		logger:        logger.With().Str("component", "notification_dispatcher").Logger(),
		tracer:        otel.Tracer("github.com/noah-isme/scholarship-portal-api/internal/service/notification_dispatcher"),
		now:           time.Now,
	}
}

func (d *notificationDispatcher) NotifyApplicationStatus(ctx context.Context, event StatusChangeEvent) bool {
	ctx, span := d.tracer.Start(ctx, "notifications.dispatch_status", trace.WithAttributes(
		attribute.Int64("application.id", int64(event.ApplicationID)),
		attribute.String("application.status", event.Status),
	))
	defer span.End()

	notificationType := models.NotificationTypeForStatus(event.Status)
	d.publishInApp(ctx, event, notificationType)

	if !d.settings.EmailEnabled {
		span.SetAttributes(attribute.Bool("email.enabled", false))
		return false
	}

	recipient, name := d.resolveRecipient(ctx, event)
	subject, body, err := renderStatusEmail(statusEmailData{
		SiteName:         d.settings.SiteName,
		PortalURL:        d.settings.PortalURL,
		StudentName:      name,
		ScholarshipTitle: event.ScholarshipTitle,
		ApplicationID:    event.ApplicationID,
		Reason:           event.Reason,
		Notes:            event.Notes,
	}, event.Status)

	if err == nil && recipient == "" {
		err = errRecipientMissing
	}
	if err == nil {
		sendCtx, cancel := context.WithTimeout(ctx, d.emailTimeout)
		err = d.transport.Send(sendCtx, recipient, subject, body)
		cancel()
	}

	entry := models.EmailLog{
		Recipient: recipient,
		Subject:   subject,
		Message:   body,
		Type:      notificationType,
		Status:    models.EmailStatusSent,
	}
	if err != nil {
		entry.Status = models.EmailStatusFailed
		entry.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, "email_failed")
		d.logger.Warn().Err(err).
			Uint("application_id", event.ApplicationID).
			Str("recipient", maskEmail(recipient)).
			Msg("status email not delivered")
	} else {
		sentAt := d.now().UTC()
		entry.SentAt = &sentAt
	}
	observability.EmailsTotal().WithLabelValues(entry.Status).Inc()

	logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.emailTimeout)
	defer cancel()
	if logErr := d.emailLogs.Create(logCtx, &entry); logErr != nil {
		d.logger.Error().Err(logErr).Uint("application_id", event.ApplicationID).Msg("failed to write email log")
	}

	return err == nil
}

func (d *notificationDispatcher) publishInApp(ctx context.Context, event StatusChangeEvent, notificationType string) {
	title, message := inAppCopy(event.Status, event.ScholarshipTitle)
	relatedID := event.ApplicationID

	_, err := d.notifications.Publish(ctx, dto.NotificationCreateRequest{
		UserID:      event.StudentID,
		UserType:    models.RoleStudent,
		Type:        notificationType,
		Title:       title,
		Message:     message,
		RelatedType: models.RelatedTypeApplication,
		RelatedID:   &relatedID,
	})
	if err != nil {
		d.logger.Error().Err(err).
			Uint("application_id", event.ApplicationID).
			Uint("student_id", event.StudentID).
			Msg("failed to create in-app notification")
	}
}

func (d *notificationDispatcher) resolveRecipient(ctx context.Context, event StatusChangeEvent) (string, string) {
	if event.Email != "" || d.students == nil {
		return event.Email, event.StudentName
	}

	student, err := d.students.GetByID(ctx, event.StudentID)
	if err != nil {
		d.logger.Warn().Err(err).Uint("student_id", event.StudentID).Msg("failed to resolve student email")
		return "", event.StudentName
	}
	name := event.StudentName
	if name == "" {
		name = student.Name
	}
	return student.Email, name
}

func inAppCopy(status, scholarshipTitle string) (string, string) {
	switch status {
	case models.ApplicationStatusApproved:
		return "Application Approved", fmt.Sprintf("Congratulations! Your application for %s has been approved.", scholarshipTitle)
	case models.ApplicationStatusRejected:
		return "Application Not Approved", fmt.Sprintf("Your application for %s was not approved. Open this notification to see the evaluation details.", scholarshipTitle)
	default:
		return "Application Submitted", fmt.Sprintf("Your application for %s has been received and is pending review.", scholarshipTitle)
	}
}
