package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/scholarship-portal-api/internal/dto"
	"github.com/noah-isme/scholarship-portal-api/internal/models"
	"github.com/noah-isme/scholarship-portal-api/internal/observability"
	"github.com/noah-isme/scholarship-portal-api/internal/repository"
)

// BulkReviewService applies one terminal status to many pending applications.
type BulkReviewService interface {
	BulkUpdate(ctx context.Context, actor ActivityActor, payload dto.BulkDecisionRequest) (dto.BulkDecisionResponse, error)
}

type bulkReviewService struct {
	repo         repository.ApplicationRepository
	validator    *validator.Validate
	notifier     StatusNotifier
	activity     ActivitySink
	writeTimeout time.Duration
	logger       zerolog.Logger
	tracer       trace.Tracer
	now          func() time.Time
	newBatchID   func() string
}

// NewBulkReviewService constructs the bulk coordinator.
func NewBulkReviewService(repo repository.ApplicationRepository, validate *validator.Validate, notifier StatusNotifier, activity ActivitySink, writeTimeout time.Duration, logger zerolog.Logger) BulkReviewService {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &bulkReviewService{
		repo:         repo,
		validator:    validate,
		notifier:     notifier,
		activity:     activity,
		writeTimeout: writeTimeout,
		logger:       logger.With().Str("component", "bulk_review_service").Logger(),
		tracer:       otel.Tracer("github.com/noah-isme/scholarship-portal-api/internal/service/bulk_review"),
		now:          time.Now,
		newBatchID:   uuid.NewString,
	}
}

func (s *bulkReviewService) BulkUpdate(ctx context.Context, actor ActivityActor, payload dto.BulkDecisionRequest) (dto.BulkDecisionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "review.bulk_update")
	span.SetAttributes(
		attribute.Int64("review.actor_id", int64(actor.ID)),
		attribute.Int("review.requested", len(payload.IDs)),
	)
	defer span.End()

	if actor.ID == 0 || !models.IsReviewerRole(strings.ToLower(actor.Role)) {
		span.SetStatus(codes.Error, "access_denied")
		return dto.BulkDecisionResponse{}, ErrAccessDenied
	}

	payload.Status = strings.ToLower(strings.TrimSpace(payload.Status))
	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.BulkDecisionResponse{}, err
	}

	ids := CoerceApplicationIDs(payload.IDs)
	if len(ids) == 0 {
		span.SetStatus(codes.Error, "no_valid_ids")
		return dto.BulkDecisionResponse{}, fmt.Errorf("no valid application ids selected: %w", ErrInvalidInput)
	}
	span.SetAttributes(attribute.Int("review.valid_ids", len(ids)))

	statuses, err := s.repo.StatusesByIDs(ctx, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "status_lookup_failed")
		return dto.BulkDecisionResponse{}, err
	}

	eligible := make([]uint, 0, len(ids))
	nonPending := 0
	for _, id := range ids {
		status, ok := statuses[id]
		if !ok {
			continue
		}
		if status != models.ApplicationStatusPending {
			nonPending++
			continue
		}
		eligible = append(eligible, id)
	}

	if nonPending > 0 {
		span.SetStatus(codes.Error, "non_pending_selected")
		return dto.BulkDecisionResponse{}, &IneligibleSelectionError{NonPending: nonPending}
	}
	if len(eligible) == 0 {
		span.SetStatus(codes.Error, "no_eligible")
		return dto.BulkDecisionResponse{}, ErrNoEligibleApplications
	}

	batchID := s.newBatchID()
	writeCtx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	updated, err := s.repo.BulkUpdatePending(writeCtx, eligible, repository.BulkStatusUpdate{
		Status:     payload.Status,
		ReviewedBy: actor.ID,
		Batch:      batchID,
		At:         s.now().UTC(),
	})
	cancel()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist_failed")
		s.logger.Error().Err(err).Int("eligible", len(eligible)).Msg("bulk update failed")
		return dto.BulkDecisionResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	processed := make([]uint, 0, len(updated))
	for _, application := range updated {
		processed = append(processed, application.ID)
		s.notifier.Notify(StatusChangeEvent{
			StudentID:        application.StudentID,
			ApplicationID:    application.ID,
			ScholarshipTitle: application.Scholarship.Title,
			Status:           payload.Status,
			StudentName:      application.FullName,
			Email:            application.Email,
		})
	}

	count := int64(len(processed))
	observability.BulkReviewRows().WithLabelValues(payload.Status).Add(float64(count))
	span.SetAttributes(attribute.Int64("review.updated", count))

	if count < int64(len(eligible)) {
		s.logger.Warn().
			Int("eligible", len(eligible)).
			Int64("updated", count).
			Msg("some applications were decided concurrently during bulk update")
	}

	s.activity.Emit(ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     "application.bulk_" + payload.Status,
		EntityType: "application",
		Metadata: map[string]interface{}{
			"batch_id":      batchID,
			"requested_ids": ids,
			"processed_ids": processed,
			"updated_count": count,
		},
	})

	verb := "approved"
	if payload.Status == models.ApplicationStatusRejected {
		verb = "rejected"
	}

	return dto.BulkDecisionResponse{
		UpdatedCount: count,
		ProcessedIDs: processed,
		Message:      fmt.Sprintf("Successfully %s %d pending application(s)", verb, count),
	}, nil
}

// CoerceApplicationIDs keeps positive integral ids in request order without duplicates.
// JSON numbers, numeric strings and Go integer types are accepted; everything else is dropped.
func CoerceApplicationIDs(raw []interface{}) []uint {
	seen := make(map[uint]struct{}, len(raw))
	ids := make([]uint, 0, len(raw))
	for _, value := range raw {
		id, ok := coerceID(value)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func coerceID(value interface{}) (uint, bool) {
	switch v := value.(type) {
	case float64:
		if v < 1 || v != math.Trunc(v) || v > math.MaxUint32 {
			return 0, false
		}
		return uint(v), true
	case json.Number:
		return parseIDString(v.String())
	case string:
		return parseIDString(v)
	case int:
		if v < 1 {
			return 0, false
		}
		return uint(v), true
	case int64:
		if v < 1 {
			return 0, false
		}
		return uint(v), true
	case uint:
		return v, v > 0
	default:
		return 0, false
	}
}

func parseIDString(value string) (uint, bool) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil || parsed == 0 {
		return 0, false
	}
	return uint(parsed), true
}
