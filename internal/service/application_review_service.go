package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/scholarship-portal-api/internal/dto"
	"github.com/noah-isme/scholarship-portal-api/internal/models"
	"github.com/noah-isme/scholarship-portal-api/internal/observability"
	"github.com/noah-isme/scholarship-portal-api/internal/repository"
)

// ApplicationReviewService lets reviewers inspect and decide applications.
type ApplicationReviewService interface {
	List(ctx context.Context, req dto.ApplicationListRequest) (dto.ApplicationListResponse, error)
	Get(ctx context.Context, id uint) (dto.ApplicationResponse, error)
	Decide(ctx context.Context, applicationID uint, actor ActivityActor, payload dto.DecisionRequest) (dto.DecisionResponse, error)
}

type applicationReviewService struct {
	repo         repository.ApplicationRepository
	validator    *validator.Validate
	notifier     StatusNotifier
	activity     ActivitySink
	files        FileInspector
	writeTimeout time.Duration
	logger       zerolog.Logger
	tracer       trace.Tracer
	now          func() time.Time
}

// NewApplicationReviewService constructs the single-decision state machine.
func NewApplicationReviewService(repo repository.ApplicationRepository, validate *validator.Validate, notifier StatusNotifier, activity ActivitySink, files FileInspector, writeTimeout time.Duration, logger zerolog.Logger) ApplicationReviewService {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &applicationReviewService{
		repo:         repo,
		validator:    validate,
		notifier:     notifier,
		activity:     activity,
		files:        files,
		writeTimeout: writeTimeout,
		logger:       logger.With().Str("component", "application_review_service").Logger(),
		tracer:       otel.Tracer("github.com/noah-isme/scholarship-portal-api/internal/service/application_review"),
		now:          time.Now,
	}
}

func (s *applicationReviewService) List(ctx context.Context, req dto.ApplicationListRequest) (dto.ApplicationListResponse, error) {
	items, total, err := s.repo.List(ctx, repository.ApplicationFilter{
		Status:        strings.ToLower(strings.TrimSpace(req.Status)),
		ScholarshipID: req.ScholarshipID,
		StudentID:     req.StudentID,
		Search:        strings.TrimSpace(req.Search),
		Page:          req.Page,
		PageSize:      req.PageSize,
	})
	if err != nil {
		return dto.ApplicationListResponse{}, err
	}

	responses := make([]dto.ApplicationResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.NewApplicationResponse(item))
	}

	return dto.ApplicationListResponse{
		Items:      responses,
		Pagination: buildPagination(req.Page, req.PageSize, total),
	}, nil
}

func (s *applicationReviewService) Get(ctx context.Context, id uint) (dto.ApplicationResponse, error) {
	application, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrApplicationNotFound
		}
		return dto.ApplicationResponse{}, err
	}
	return buildApplicationDetail(ctx, application, s.files), nil
}

func (s *applicationReviewService) Decide(ctx context.Context, applicationID uint, actor ActivityActor, payload dto.DecisionRequest) (dto.DecisionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "review.decide")
	span.SetAttributes(
		attribute.Int64("review.application_id", int64(applicationID)),
		attribute.Int64("review.actor_id", int64(actor.ID)),
		attribute.String("review.decision", payload.Decision),
	)
	defer span.End()

	if actor.ID == 0 || !models.IsReviewerRole(strings.ToLower(actor.Role)) {
		span.SetStatus(codes.Error, "access_denied")
		return dto.DecisionResponse{}, ErrAccessDenied
	}

	payload.Decision = strings.ToLower(strings.TrimSpace(payload.Decision))
	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.DecisionResponse{}, err
	}

	application, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "application_not_found")
			return dto.DecisionResponse{}, ErrApplicationNotFound
		}
		span.SetStatus(codes.Error, "application_lookup_failed")
		return dto.DecisionResponse{}, err
	}

	if !application.IsPending() {
		span.SetStatus(codes.Error, "invalid_state")
		return dto.DecisionResponse{}, fmt.Errorf("application %d is %s: %w", application.ID, application.Status, ErrInvalidState)
	}

	now := s.now().UTC()
	status := models.ApplicationStatusApproved
	rejection := Rejection{}
	if payload.Decision == dto.DecisionReject {
		status = models.ApplicationStatusRejected
		rejection = ResolveRejection(payload.RejectionDetails)
	}

	updates := map[string]interface{}{
		"status":           status,
		"reviewed_by":      actor.ID,
		"review_date":      now,
		"rejection_code":   rejection.Code,
		"rejection_reason": rejection.Reason,
		"rejection_notes":  rejection.Notes,
		"updated_at":       now,
	}

	writeCtx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	rows, err := s.repo.UpdatePending(writeCtx, application.ID, updates)
	cancel()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist_failed")
		s.logger.Error().Err(err).Uint("application_id", application.ID).Msg("failed to persist decision")
		return dto.DecisionResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if rows == 0 {
		span.SetStatus(codes.Error, "decided_concurrently")
		return dto.DecisionResponse{}, fmt.Errorf("application %d was decided by another reviewer: %w", application.ID, ErrInvalidState)
	}

	observability.ReviewDecisions().WithLabelValues(status).Inc()

	s.notifier.Notify(StatusChangeEvent{
		StudentID:        application.StudentID,
		ApplicationID:    application.ID,
		ScholarshipTitle: application.Scholarship.Title,
		Status:           status,
		StudentName:      firstNonEmpty(application.FullName, application.Student.Name),
		Email:            firstNonEmpty(application.Email, application.Student.Email),
		Reason:           rejection.Reason,
		Notes:            rejection.Notes,
	})

	metadata := map[string]interface{}{
		"scholarship_id": application.ScholarshipID,
		"student_id":     application.StudentID,
	}
	if rejection.Code != "" {
		metadata["rejection_code"] = rejection.Code
	}
	s.activity.Emit(ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     "application." + status,
		EntityType: "application",
		EntityID:   &application.ID,
		Metadata:   metadata,
	})

	s.logger.Info().
		Uint("application_id", application.ID).
		Uint("reviewer_id", actor.ID).
		Str("status", status).
		Msg("application decided")

	message := "Application approved successfully. The student will be notified."
	if status == models.ApplicationStatusRejected {
		message = "Application rejected. The student will be notified with the reason provided."
	}

	return dto.DecisionResponse{
		ApplicationID: application.ID,
		Status:        status,
		Message:       message,
	}, nil
}

// FileInspector reports metadata for stored documents.
type FileInspector interface {
	Stat(ctx context.Context, location string) (fs.FileInfo, error)
}

// buildApplicationDetail adds document metadata and the rejection evaluation.
func buildApplicationDetail(ctx context.Context, application models.Application, files FileInspector) dto.ApplicationResponse {
	response := dto.NewApplicationResponse(application)

	for i := range response.Documents {
		doc := &response.Documents[i]
		if files == nil {
			doc.Exists = true
			continue
		}
		info, err := files.Stat(ctx, doc.Path)
		if err != nil {
			continue
		}
		doc.Exists = true
		doc.SizeBytes = info.Size()
		modified := info.ModTime().UTC()
		doc.ModifiedAt = &modified
	}

	if view := rejectionViewFor(application); view != nil {
		evaluation := EvaluateRejection(view.Reason)
		response.Rejection = view
		response.Evaluation = &evaluation
	}
	return response
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
