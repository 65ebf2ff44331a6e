package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/scholarship-portal-api/internal/dto"
	"github.com/noah-isme/scholarship-portal-api/internal/service"
	"github.com/noah-isme/scholarship-portal-api/internal/utils"
)

// AdminApplicationHandler exposes the reviewer endpoints.
type AdminApplicationHandler struct {
	review service.ApplicationReviewService
	bulk   service.BulkReviewService
	logger zerolog.Logger
}

// NewAdminApplicationHandler constructs the handler.
func NewAdminApplicationHandler(review service.ApplicationReviewService, bulk service.BulkReviewService, logger zerolog.Logger) *AdminApplicationHandler {
	return &AdminApplicationHandler{
		review: review,
		bulk:   bulk,
		logger: logger.With().Str("component", "admin_application_handler").Logger(),
	}
}

// Register attaches reviewer routes to the router group.
func (h *AdminApplicationHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("/bulk-decision", h.bulkDecision)
	router.Get("/:id", h.get)
	router.Post("/:id/decision", h.decide)
}

func (h *AdminApplicationHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	scholarshipID, err := parseQueryUint(c, "scholarship_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid scholarship id")
	}

	response, err := h.review.List(requestContext(c), dto.ApplicationListRequest{
		Page:          page,
		PageSize:      pageSize,
		Status:        c.Query("status"),
		ScholarshipID: scholarshipID,
		Search:        c.Query("search"),
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list applications")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list applications")
	}
	return utils.SendSuccess(c, "applications", response)
}

func (h *AdminApplicationHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid application id")
	}

	response, err := h.review.Get(requestContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrApplicationNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("application_id", id).Msg("failed to load application")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load application")
	}
	return utils.SendSuccess(c, "application", response)
}

func (h *AdminApplicationHandler) decide(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid application id")
	}

	var payload dto.DecisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.review.Decide(requestContext(c), id, activityActorFromContext(c), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccessDenied):
			return utils.SendError(c, fiber.StatusForbidden, "Access denied")
		case isValidationError(err):
			return utils.Fail(c, fiber.StatusBadRequest, "invalid decision payload", validationDetails(err))
		case errors.Is(err, service.ErrApplicationNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "Application not found")
		case errors.Is(err, service.ErrInvalidState):
			return utils.SendError(c, fiber.StatusConflict, "Application has already been reviewed")
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("application_id", id).Msg("failed to decide application")
			return utils.SendError(c, fiber.StatusInternalServerError, "Failed to update application")
		}
	}

	return utils.SendSuccess(c, response.Message, fiber.Map{
		"application_id": response.ApplicationID,
		"status":         response.Status,
	})
}

func (h *AdminApplicationHandler) bulkDecision(c *fiber.Ctx) error {
	var payload dto.BulkDecisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.bulk.BulkUpdate(requestContext(c), activityActorFromContext(c), payload)
	if err != nil {
		var ineligible *service.IneligibleSelectionError
		switch {
		case errors.Is(err, service.ErrAccessDenied):
			return utils.SendError(c, fiber.StatusForbidden, "Access denied")
		case isValidationError(err):
			return utils.Fail(c, fiber.StatusBadRequest, "invalid bulk payload", validationDetails(err))
		case errors.As(err, &ineligible):
			return utils.SendError(c, fiber.StatusBadRequest, ineligible.Error())
		case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrNoEligibleApplications):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("bulk decision failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "Failed to update applications")
		}
	}

	return utils.SendSuccess(c, response.Message, fiber.Map{
		"updated_count": response.UpdatedCount,
		"processed_ids": response.ProcessedIDs,
	})
}
