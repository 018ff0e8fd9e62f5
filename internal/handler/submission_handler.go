package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/service"
	"github.com/academica-app/academica-api/internal/utils"
)

// SubmissionHandler covers submitting, listing and grading assessment
// submissions. Reads go through the visibility resolver.
type SubmissionHandler struct {
	service    service.SubmissionService
	grading    service.GradingService
	visibility service.VisibilityService
	logger     zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(submissionService service.SubmissionService, grading service.GradingService, visibility service.VisibilityService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service:    submissionService,
		grading:    grading,
		visibility: visibility,
		logger:     logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SubmissionHandler) Register(router fiber.Router, requireStudent, requireGrader fiber.Handler, submitLimiter fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", requireStudent, submitLimiter, h.submit)
	router.Post("/:id/grade", requireGrader, h.grade)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	filter := dto.SubmissionFilter{}
	if assessmentID, err := parseQueryUint(c, "assessment_id"); err == nil && assessmentID != nil {
		filter.AssessmentID = assessmentID
	}
	if studentID, err := parseQueryUint(c, "student_id"); err == nil && studentID != nil {
		filter.StudentID = studentID
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}

	submissions, err := h.visibility.ListSubmissions(c.Context(), identityFromContext(c), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *SubmissionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	submission, err := h.visibility.GetSubmission(c.Context(), id, identityFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission retrieved", submission)
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	payload, file, err := h.parseSubmitRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.service.Submit(c.Context(), payload, file, identityFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission received", submission)
}

// parseSubmitRequest accepts either a JSON body or a multipart form with an
// optional response file. Answers in multipart requests travel as a JSON
// encoded form field.
func (h *SubmissionHandler) parseSubmitRequest(c *fiber.Ctx) (dto.SubmissionCreateRequest, *multipart.FileHeader, error) {
	var payload dto.SubmissionCreateRequest

	if form, err := c.MultipartForm(); err == nil && form != nil {
		if err := c.BodyParser(&payload); err != nil {
			return payload, nil, err
		}
		if raw := c.FormValue("answers"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &payload.Answers); err != nil {
				return payload, nil, err
			}
		}
		file, err := c.FormFile("file")
		if err != nil {
			return payload, nil, nil
		}
		return payload, file, nil
	}

	if err := c.BodyParser(&payload); err != nil {
		return payload, nil, err
	}
	return payload, nil, nil
}

func (h *SubmissionHandler) grade(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	var payload dto.GradeSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.grading.Grade(c.Context(), id, payload, identityFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission graded", submission)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var domainErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrAssessmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assessment not found")
	case errors.Is(err, service.ErrSubmissionWindowClosed):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "the submission window for this assessment is closed")
	case errors.Is(err, service.ErrDuplicateSubmission):
		return utils.SendError(c, fiber.StatusConflict, "a submission already exists for this assessment")
	case errors.Is(err, service.ErrScoreExceedsTotal):
		return utils.SendError(c, fiber.StatusBadRequest, "score exceeds the assessment total marks")
	case errors.Is(err, service.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "access to this resource is not permitted")
	case errors.As(err, &domainErr):
		return utils.SendError(c, fiber.StatusBadRequest, domainErr.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, utils.ValidationMessage(validationErrors))
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
