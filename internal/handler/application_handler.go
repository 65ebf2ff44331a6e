package handler

import (
	"errors"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/scholarship-portal-api/internal/dto"
	"github.com/noah-isme/scholarship-portal-api/internal/service"
	"github.com/noah-isme/scholarship-portal-api/internal/utils"
)

// ApplicationHandler serves the student application endpoints.
type ApplicationHandler struct {
	service service.ApplicationService
	logger  zerolog.Logger
}

// NewApplicationHandler constructs the handler.
func NewApplicationHandler(service service.ApplicationService, logger zerolog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		service: service,
		logger:  logger.With().Str("component", "application_handler").Logger(),
	}
}

// Register binds the student application routes.
func (h *ApplicationHandler) Register(router fiber.Router) {
	router.Post("", h.submit)
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

func (h *ApplicationHandler) submit(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "multipart form required")
	}

	scholarshipID, err := strconv.ParseUint(strings.TrimSpace(c.FormValue("scholarship_id")), 10, 64)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid scholarship id")
	}

	files := make(map[string]*multipart.FileHeader, len(form.File))
	for field, headers := range form.File {
		if len(headers) > 0 {
			files[strings.ToLower(strings.TrimSpace(field))] = headers[0]
		}
	}

	response, err := h.service.Submit(requestContext(c), studentID, dto.ApplicationSubmitRequest{ScholarshipID: uint(scholarshipID)}, files)
	if err != nil {
		var missing *service.MissingDocumentsError
		switch {
		case isValidationError(err):
			return utils.Fail(c, fiber.StatusBadRequest, "invalid application payload", validationDetails(err))
		case errors.As(err, &missing):
			return utils.Fail(c, fiber.StatusBadRequest, "Please upload all required documents", fiber.Map{"missing_documents": missing.Types})
		case errors.Is(err, service.ErrScholarshipNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrDuplicateApplication):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrScholarshipClosed), errors.Is(err, service.ErrGWARequirement):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrUploadTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, service.ErrUploadTypeNotAllowed), errors.Is(err, service.ErrUploadScanFailed):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAccessDenied):
			return utils.SendError(c, fiber.StatusForbidden, "Access denied")
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("student_id", studentID).Msg("application submission failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit application")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "Application submitted successfully", response)
}

func (h *ApplicationHandler) list(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.ListMine(requestContext(c), studentID, page, pageSize)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list student applications")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list applications")
	}
	return utils.SendSuccess(c, "applications", response)
}

func (h *ApplicationHandler) get(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid application id")
	}

	response, err := h.service.GetMine(requestContext(c), studentID, id)
	if err != nil {
		if errors.Is(err, service.ErrApplicationNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("application_id", id).Msg("failed to load application")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load application")
	}
	return utils.SendSuccess(c, "application", response)
}
