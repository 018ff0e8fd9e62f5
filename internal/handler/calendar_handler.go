package handler

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/service"
	"github.com/academica-app/academica-api/internal/utils"
)

// CalendarHandler exposes academic years, terms and calendar events.
type CalendarHandler struct {
	service service.CalendarService
	logger  zerolog.Logger
}

func NewCalendarHandler(calendarService service.CalendarService, logger zerolog.Logger) *CalendarHandler {
	return &CalendarHandler{
		service: calendarService,
		logger:  logger.With().Str("component", "calendar_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *CalendarHandler) Register(router fiber.Router, requireAdmin fiber.Handler) {
	router.Get("/years", h.listYears)
	router.Post("/years", requireAdmin, h.createYear)
	router.Post("/years/:id/activate", requireAdmin, h.activateYear)
	router.Get("/years/:id/terms", h.listTerms)
	router.Post("/terms", requireAdmin, h.createTerm)
	router.Post("/terms/:id/activate", requireAdmin, h.activateTerm)
	router.Get("/events", h.listEvents)
	router.Post("/events", requireAdmin, h.createEvent)
	router.Delete("/events/:id", requireAdmin, h.deleteEvent)
}

func (h *CalendarHandler) listYears(c *fiber.Ctx) error {
	years, err := h.service.ListYears(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "academic years retrieved", years)
}

func (h *CalendarHandler) createYear(c *fiber.Ctx) error {
	var payload dto.AcademicYearCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	year, err := h.service.CreateYear(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "academic year created", year)
}

func (h *CalendarHandler) activateYear(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid academic year id")
	}

	year, err := h.service.ActivateYear(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "academic year activated", year)
}

func (h *CalendarHandler) listTerms(c *fiber.Ctx) error {
	yearID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid academic year id")
	}

	terms, err := h.service.ListTerms(c.Context(), yearID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "academic terms retrieved", terms)
}

func (h *CalendarHandler) createTerm(c *fiber.Ctx) error {
	var payload dto.AcademicTermCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	term, err := h.service.CreateTerm(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "academic term created", term)
}

func (h *CalendarHandler) activateTerm(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid academic term id")
	}

	term, err := h.service.ActivateTerm(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "academic term activated", term)
}

func (h *CalendarHandler) listEvents(c *fiber.Ctx) error {
	filter := dto.CalendarEventFilter{}
	if eventType := c.Query("event_type"); eventType != "" {
		filter.EventType = &eventType
	}
	if departmentID, err := parseQueryUint(c, "department_id"); err == nil && departmentID != nil {
		filter.DepartmentID = departmentID
	}
	if courseID, err := parseQueryUint(c, "course_id"); err == nil && courseID != nil {
		filter.CourseID = courseID
	}
	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid from timestamp")
		}
		filter.From = &parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid to timestamp")
		}
		filter.To = &parsed
	}

	events, err := h.service.ListEvents(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "calendar events retrieved", events)
}

func (h *CalendarHandler) createEvent(c *fiber.Ctx) error {
	var payload dto.CalendarEventCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	event, err := h.service.CreateEvent(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "calendar event created", event)
}

func (h *CalendarHandler) deleteEvent(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid calendar event id")
	}

	if err := h.service.DeleteEvent(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "calendar event deleted", nil)
}

func (h *CalendarHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var domainErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrAcademicPeriodNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "academic period not found")
	case errors.As(err, &domainErr):
		return utils.SendError(c, fiber.StatusBadRequest, domainErr.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, utils.ValidationMessage(validationErrors))
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
