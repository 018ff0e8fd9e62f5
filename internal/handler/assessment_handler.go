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

// AssessmentHandler manages assessment lifecycle endpoints. Listing and
// reads go through the visibility resolver so every caller only sees what
// their role permits.
type AssessmentHandler struct {
	service    service.AssessmentService
	visibility service.VisibilityService
	logger     zerolog.Logger
}

// NewAssessmentHandler builds an assessment handler instance.
func NewAssessmentHandler(assessmentService service.AssessmentService, visibility service.VisibilityService, logger zerolog.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		service:    assessmentService,
		visibility: visibility,
		logger:     logger.With().Str("component", "assessment_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. Role guards
// are applied by the router.
func (h *AssessmentHandler) Register(router fiber.Router, requireStaff, requireApprover fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", requireStaff, h.create)
	router.Put("/:id", requireStaff, h.update)
	router.Post("/:id/submit", requireStaff, h.submitForApproval)
	router.Post("/:id/approve", requireApprover, h.approve)
	router.Post("/:id/schedule", requireApprover, h.schedule)
	router.Post("/:id/cancel", requireApprover, h.cancel)
	router.Delete("/:id", requireApprover, h.destroy)
}

func (h *AssessmentHandler) list(c *fiber.Ctx) error {
	filter := dto.AssessmentFilter{}
	if courseID, err := parseQueryUint(c, "course_id"); err == nil && courseID != nil {
		filter.CourseID = courseID
	}
	if assessmentType := c.Query("type"); assessmentType != "" {
		filter.Type = &assessmentType
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}

	assessments, err := h.visibility.ListAssessments(c.Context(), identityFromContext(c), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assessments retrieved", assessments)
}

func (h *AssessmentHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}

	assessment, err := h.visibility.GetAssessment(c.Context(), id, identityFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assessment retrieved", assessment)
}

func (h *AssessmentHandler) create(c *fiber.Ctx) error {
	var payload dto.AssessmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assessment, err := h.service.Create(c.Context(), payload, identityFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assessment created", assessment)
}

func (h *AssessmentHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}

	var payload dto.AssessmentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assessment, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assessment updated", assessment)
}

func (h *AssessmentHandler) submitForApproval(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}

	assessment, err := h.service.SubmitForApproval(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assessment submitted for approval", assessment)
}

func (h *AssessmentHandler) approve(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}

	var payload dto.AssessmentApprovalRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	approve := true
	if payload.Approve != nil {
		approve = *payload.Approve
	}

	assessment, err := h.service.Approve(c.Context(), id, approve, identityFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	message := "assessment approved"
	if !approve {
		message = "assessment rejected"
	}
	return utils.SendSuccess(c, message, assessment)
}

func (h *AssessmentHandler) schedule(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}

	var payload dto.AssessmentScheduleRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assessment, err := h.service.Schedule(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assessment scheduled", assessment)
}

func (h *AssessmentHandler) cancel(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}

	assessment, err := h.service.Cancel(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assessment cancelled", assessment)
}

func (h *AssessmentHandler) destroy(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assessment deleted", nil)
}

func (h *AssessmentHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var domainErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrAssessmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assessment not found")
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrInvalidStatusTransition):
		return utils.SendError(c, fiber.StatusConflict, "assessment cannot change state from its current status")
	case errors.As(err, &domainErr):
		return utils.SendError(c, fiber.StatusBadRequest, domainErr.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, utils.ValidationMessage(validationErrors))
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
