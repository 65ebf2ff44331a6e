package handler

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/scholarship-portal-api/internal/service"
	"github.com/noah-isme/scholarship-portal-api/internal/utils"
)

// NotificationHandler manages notification listing, detail and live streams.
type NotificationHandler struct {
	service service.NotificationService
	details service.NotificationDetailService
	logger  zerolog.Logger
	timeout time.Duration
}

// NewNotificationHandler constructs a handler instance.
func NewNotificationHandler(service service.NotificationService, details service.NotificationDetailService, logger zerolog.Logger, timeout time.Duration) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		details: details,
		logger:  logger.With().Str("component", "notification_handler").Logger(),
		timeout: timeout,
	}
}

// Register binds the notification routes.
func (h *NotificationHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Get("/stream", h.stream)
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("recipient", recipientFromContext(c))
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(h.socket))
	router.Get("/:id", h.detail)
	router.Patch("/:id/read", h.markRead)
}

func (h *NotificationHandler) list(c *fiber.Ctx) error {
	recipient := recipientFromContext(c)
	if recipient.UserID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	notifications, err := h.service.List(requestContext(c), recipient, limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list notifications")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list notifications")
	}

	return utils.SendSuccess(c, "notifications", notifications)
}

func (h *NotificationHandler) detail(c *fiber.Ctx) error {
	recipient := recipientFromContext(c)
	if recipient.UserID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid notification id")
	}

	response, err := h.details.Detail(requestContext(c), id, recipient)
	if err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("notification_id", id).Msg("failed to load notification")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load notification")
	}
	return utils.SendSuccess(c, "notification", response)
}

func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	recipient := recipientFromContext(c)
	if recipient.UserID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid notification id")
	}

	notification, err := h.service.MarkRead(requestContext(c), id, recipient)
	if err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("notification_id", id).Msg("failed to mark notification read")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update notification")
	}

	return utils.SendSuccess(c, "notification updated", notification)
}

func (h *NotificationHandler) stream(c *fiber.Ctx) error {
	recipient := recipientFromContext(c)
	if recipient.UserID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	stream, cleanup := h.service.Subscribe(recipient)
	keepAlive := h.keepAliveInterval()

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cleanup()

		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		for {
			select {
			case notification, ok := <-stream:
				if !ok {
					return
				}
				if err := writeNotificationEvent(w, notification); err != nil {
					h.logger.Debug().Err(err).Msg("failed to write notification event")
					return
				}
			case <-ticker.C:
				if err := writeKeepAlive(w); err != nil {
					h.logger.Debug().Err(err).Msg("failed to write notification keepalive")
					return
				}
			}
		}
	})

	return nil
}

func (h *NotificationHandler) socket(conn *websocket.Conn) {
	recipient, _ := conn.Locals("recipient").(service.NotificationRecipient)
	if recipient.UserID == 0 {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "user not authenticated"))
		_ = conn.Close()
		return
	}

	stream, cleanup := h.service.Subscribe(recipient)
	defer cleanup()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.keepAliveInterval())
	defer ticker.Stop()

	h.logger.Debug().Uint("user_id", recipient.UserID).Str("user_type", recipient.UserType).Msg("notification websocket connected")
	for {
		select {
		case notification, ok := <-stream:
			if !ok {
				return
			}
			if err := conn.WriteJSON(fiber.Map{"event": "notification", "data": notification}); err != nil {
				h.logger.Debug().Err(err).Msg("failed to write websocket notification")
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			h.logger.Debug().Uint("user_id", recipient.UserID).Msg("notification websocket disconnected")
			return
		}
	}
}

func (h *NotificationHandler) keepAliveInterval() time.Duration {
	if h.timeout <= 0 {
		return 15 * time.Second
	}
	return h.timeout / 2
}

func writeNotificationEvent(w *bufio.Writer, notification interface{}) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: notification\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

func writeKeepAlive(w *bufio.Writer) error {
	if _, err := fmt.Fprintf(w, ": keep-alive %s\n\n", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return w.Flush()
}
