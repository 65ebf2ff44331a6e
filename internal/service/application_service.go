package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
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
	"github.com/noah-isme/scholarship-portal-api/internal/repository"
)

// DocumentWriter stores submission documents and cleans up after failed submissions.
type DocumentWriter interface {
	Store(ctx context.Context, documentType string, file *multipart.FileHeader) (models.ApplicationDocument, error)
	Discard(ctx context.Context, documents []models.ApplicationDocument)
}

// ApplicationService exposes the student side of the application lifecycle.
type ApplicationService interface {
	Submit(ctx context.Context, studentID uint, payload dto.ApplicationSubmitRequest, files map[string]*multipart.FileHeader) (dto.ApplicationResponse, error)
	ListMine(ctx context.Context, studentID uint, page, pageSize int) (dto.ApplicationListResponse, error)
	GetMine(ctx context.Context, studentID, applicationID uint) (dto.ApplicationResponse, error)
}

type applicationService struct {
	applications repository.ApplicationRepository
	scholarships repository.ScholarshipRepository
	students     repository.StudentRepository
	documents    DocumentWriter
	files        FileInspector
	notifier     StatusNotifier
	validator    *validator.Validate
	logger       zerolog.Logger
	tracer       trace.Tracer
	now          func() time.Time
}

// NewApplicationService wires the submission flow.
func NewApplicationService(applications repository.ApplicationRepository, scholarships repository.ScholarshipRepository, students repository.StudentRepository, documents DocumentWriter, files FileInspector, notifier StatusNotifier, validate *validator.Validate, logger zerolog.Logger) ApplicationService {
	return &applicationService{
		applications: applications,
		scholarships: scholarships,
		students:     students,
		documents:    documents,
		files:        files,
		notifier:     notifier,
		validator:    validate,
		logger:       logger.With().Str("component", "application_service").Logger(),
		tracer:       otel.Tracer("github.com/noah-isme/scholarship-portal-api/internal/service/application"),
		now:          time.Now,
	}
}

func (s *applicationService) Submit(ctx context.Context, studentID uint, payload dto.ApplicationSubmitRequest, files map[string]*multipart.FileHeader) (dto.ApplicationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "application.submit")
	span.SetAttributes(
		attribute.Int64("application.student_id", int64(studentID)),
		attribute.Int64("application.scholarship_id", int64(payload.ScholarshipID)),
	)
	defer span.End()

	if studentID == 0 {
		span.SetStatus(codes.Error, "access_denied")
		return dto.ApplicationResponse{}, ErrAccessDenied
	}
	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.ApplicationResponse{}, err
	}

	scholarship, err := s.scholarships.GetByID(ctx, payload.ScholarshipID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "scholarship_not_found")
			return dto.ApplicationResponse{}, ErrScholarshipNotFound
		}
		span.SetStatus(codes.Error, "scholarship_lookup_failed")
		return dto.ApplicationResponse{}, err
	}

	now := s.now().UTC()
	if !scholarship.IsOpen(now) {
		span.SetStatus(codes.Error, "scholarship_closed")
		return dto.ApplicationResponse{}, ErrScholarshipClosed
	}

	exists, err := s.applications.ExistsForStudent(ctx, studentID, scholarship.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "duplicate_check_failed")
		return dto.ApplicationResponse{}, err
	}
	if exists {
		span.SetStatus(codes.Error, "duplicate_application")
		return dto.ApplicationResponse{}, ErrDuplicateApplication
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "student_not_found")
			return dto.ApplicationResponse{}, ErrAccessDenied
		}
		span.SetStatus(codes.Error, "student_lookup_failed")
		return dto.ApplicationResponse{}, err
	}

	if scholarship.MinGWA != nil {
		if student.GWA == nil || *student.GWA < *scholarship.MinGWA {
			span.SetStatus(codes.Error, "gwa_requirement")
			return dto.ApplicationResponse{}, ErrGWARequirement
		}
	}

	required := scholarship.AllRequiredDocumentTypes()
	missing := make([]string, 0)
	for _, docType := range required {
		if files[docType] == nil {
			missing = append(missing, docType)
		}
	}
	if len(missing) > 0 {
		span.SetStatus(codes.Error, "missing_documents")
		return dto.ApplicationResponse{}, &MissingDocumentsError{Types: missing}
	}

	stored := make([]models.ApplicationDocument, 0, len(required))
	for _, docType := range required {
		doc, err := s.documents.Store(ctx, docType, files[docType])
		if err != nil {
			s.documents.Discard(context.WithoutCancel(ctx), stored)
			span.RecordError(err)
			span.SetStatus(codes.Error, "document_rejected")
			return dto.ApplicationResponse{}, err
		}
		stored = append(stored, doc)
	}

	application := models.Application{
		StudentID:       student.ID,
		ScholarshipID:   scholarship.ID,
		FullName:        student.Name,
		Email:           student.Email,
		GWA:             student.GWA,
		YearLevel:       student.YearLevel,
		Program:         student.Program,
		Department:      student.Department,
		Status:          models.ApplicationStatusPending,
		ApplicationDate: now,
		Documents:       stored,
	}

	if err := s.applications.Create(ctx, &application); err != nil {
		s.documents.Discard(context.WithoutCancel(ctx), stored)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			span.SetStatus(codes.Error, "duplicate")
			return dto.ApplicationResponse{}, ErrDuplicateApplication
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist_failed")
		s.logger.Error().Err(err).Uint("student_id", studentID).Uint("scholarship_id", scholarship.ID).Msg("failed to create application")
		return dto.ApplicationResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	application.Student = student
	application.Scholarship = scholarship

	s.notifier.Notify(StatusChangeEvent{
		StudentID:        student.ID,
		ApplicationID:    application.ID,
		ScholarshipTitle: scholarship.Title,
		Status:           models.ApplicationStatusPending,
		StudentName:      student.Name,
		Email:            student.Email,
	})

	s.logger.Info().
		Uint("application_id", application.ID).
		Uint("student_id", student.ID).
		Uint("scholarship_id", scholarship.ID).
		Int("documents", len(stored)).
		Msg("application submitted")

	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) ListMine(ctx context.Context, studentID uint, page, pageSize int) (dto.ApplicationListResponse, error) {
	if studentID == 0 {
		return dto.ApplicationListResponse{}, ErrAccessDenied
	}
	items, total, err := s.applications.List(ctx, repository.ApplicationFilter{
		StudentID: studentID,
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		return dto.ApplicationListResponse{}, err
	}

	responses := make([]dto.ApplicationResponse, 0, len(items))
	for _, item := range items {
		response := dto.NewApplicationResponse(item)
		response.Rejection = rejectionViewFor(item)
		responses = append(responses, response)
	}
	return dto.ApplicationListResponse{
		Items:      responses,
		Pagination: buildPagination(page, pageSize, total),
	}, nil
}

func (s *applicationService) GetMine(ctx context.Context, studentID, applicationID uint) (dto.ApplicationResponse, error) {
	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrApplicationNotFound
		}
		return dto.ApplicationResponse{}, err
	}
	if application.StudentID != studentID {
		return dto.ApplicationResponse{}, ErrApplicationNotFound
	}
	return buildApplicationDetail(ctx, application, s.files), nil
}
