package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/scholarship-portal-api/internal/service"
	"github.com/noah-isme/scholarship-portal-api/internal/utils"
)

// ScholarshipHandler serves the scholarship browse endpoints.
type ScholarshipHandler struct {
	service service.ScholarshipService
	logger  zerolog.Logger
}

// NewScholarshipHandler constructs the handler.
func NewScholarshipHandler(service service.ScholarshipService, logger zerolog.Logger) *ScholarshipHandler {
	return &ScholarshipHandler{
		service: service,
		logger:  logger.With().Str("component", "scholarship_handler").Logger(),
	}
}

// Register binds the scholarship routes.
func (h *ScholarshipHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

func (h *ScholarshipHandler) list(c *fiber.Ctx) error {
	items, err := h.service.ListOpen(requestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list scholarships")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list scholarships")
	}
	return utils.OK(c, items, "scholarships", fiber.Map{"count": len(items)})
}

func (h *ScholarshipHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid scholarship id")
	}

	item, err := h.service.Get(requestContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrScholarshipNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("scholarship_id", id).Msg("failed to load scholarship")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load scholarship")
	}
	return utils.SendSuccess(c, "scholarship", item)
}
