package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/scholarship-portal-api/internal/dto"
	"github.com/noah-isme/scholarship-portal-api/internal/service"
	"github.com/noah-isme/scholarship-portal-api/internal/utils"
)

// EmailLogHandler lists outbound email attempts.
type EmailLogHandler struct {
	service service.EmailLogService
	logger  zerolog.Logger
}

// NewEmailLogHandler constructs the handler.
func NewEmailLogHandler(service service.EmailLogService, logger zerolog.Logger) *EmailLogHandler {
	return &EmailLogHandler{
		service: service,
		logger:  logger.With().Str("component", "email_log_handler").Logger(),
	}
}

// Register attaches the email log routes.
func (h *EmailLogHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *EmailLogHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.List(requestContext(c), dto.EmailLogListRequest{
		Page:      page,
		PageSize:  pageSize,
		Status:    c.Query("status"),
		Recipient: c.Query("recipient"),
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list email logs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list email logs")
	}
	return utils.SendSuccess(c, "email logs", response)
}
