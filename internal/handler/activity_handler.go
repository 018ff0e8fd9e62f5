package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/service"
	"github.com/academica-app/academica-api/internal/utils"
)

// ActivityHandler exposes the audit trail query endpoint.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

func NewActivityHandler(activityService service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: activityService,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	req := dto.ActivityLogListRequest{
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}
	if actorID, err := parseQueryUint(c, "actor_id"); err == nil && actorID != nil {
		req.ActorID = *actorID
	}
	if limit, err := parseQueryInt(c, "limit"); err == nil && limit > 0 {
		req.Limit = limit
	}
	if offset, err := parseQueryInt(c, "offset"); err == nil && offset > 0 {
		req.Offset = offset
	}

	entries, err := h.service.List(c.Context(), req)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return utils.SendError(c, fiber.StatusBadRequest, utils.ValidationMessage(validationErrors))
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "activity log retrieved", entries)
}
