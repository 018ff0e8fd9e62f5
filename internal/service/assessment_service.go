package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/models"
	"github.com/academica-app/academica-api/internal/repository"
)

// AssessmentService owns the assessment lifecycle: draft creation, the
// approval round-trip, scheduling and cancellation. Role checks live with
// the transport layer; the lifecycle methods only guard state transitions.
type AssessmentService interface {
	Create(ctx context.Context, payload dto.AssessmentCreateRequest, actor Identity) (dto.AssessmentResponse, error)
	Update(ctx context.Context, id uint, payload dto.AssessmentUpdateRequest) (dto.AssessmentResponse, error)
	Get(ctx context.Context, id uint) (dto.AssessmentResponse, error)
	SubmitForApproval(ctx context.Context, id uint) (dto.AssessmentResponse, error)
	Approve(ctx context.Context, id uint, approve bool, actor Identity) (dto.AssessmentResponse, error)
	Schedule(ctx context.Context, id uint, payload dto.AssessmentScheduleRequest) (dto.AssessmentResponse, error)
	Cancel(ctx context.Context, id uint) (dto.AssessmentResponse, error)
	Delete(ctx context.Context, id uint) error
}

type assessmentService struct {
	assessments repository.AssessmentRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	activity    ActivityRecorder
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAssessmentService constructs an AssessmentService instance.
func NewAssessmentService(assessmentRepo repository.AssessmentRepository, courseRepo repository.CourseRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) AssessmentService {
	return &assessmentService{
		assessments: assessmentRepo,
		courses:     courseRepo,
		validator:   validate,
		activity:    activity,
		logger:      logger.With().Str("component", "assessment_service").Logger(),
		now:         time.Now,
	}
}

func (s *assessmentService) Create(ctx context.Context, payload dto.AssessmentCreateRequest, actor Identity) (dto.AssessmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssessmentResponse{}, err
	}

	if _, err := s.courses.GetByID(ctx, payload.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssessmentResponse{}, ErrCourseNotFound
		}
		return dto.AssessmentResponse{}, err
	}

	questions := toQuestionModels(payload.Questions)
	if err := validateFormatPairing(payload.Type, payload.SubmissionFormat, questions); err != nil {
		return dto.AssessmentResponse{}, err
	}

	if payload.ScheduledAt != nil && payload.ClosesAt != nil && !payload.ScheduledAt.Before(*payload.ClosesAt) {
		return dto.AssessmentResponse{}, newValidationError("closes_at", "close time must be after scheduled time")
	}

	if payload.Type != models.AssessmentTypeExam {
		questions = nil
	}

	createdBy := actor.ID
	assessment := models.Assessment{
		CourseID:         payload.CourseID,
		Title:            payload.Title,
		Type:             payload.Type,
		Description:      payload.Description,
		Instructions:     payload.Instructions,
		DurationMinutes:  payload.DurationMinutes,
		TotalMarks:       payload.TotalMarks,
		Status:           models.AssessmentStatusDraft,
		SubmissionFormat: payload.SubmissionFormat,
		ScheduledAt:      payload.ScheduledAt,
		ClosesAt:         payload.ClosesAt,
		CreatedByID:      &createdBy,
	}
	if assessment.DurationMinutes == 0 {
		assessment.DurationMinutes = 60
	}
	if assessment.TotalMarks == 0 {
		assessment.TotalMarks = 100
	}
	assessment.SetContent(toContentModels(payload.Content))
	assessment.SetQuestions(questions)

	if err := s.assessments.Create(ctx, &assessment); err != nil {
		return dto.AssessmentResponse{}, err
	}

	created, err := s.assessments.GetByID(ctx, assessment.ID)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	s.logger.Info().Uint("assessment_id", created.ID).Str("type", created.Type).Msg("assessment created")

	return dto.NewAssessmentResponse(created), nil
}

func (s *assessmentService) Update(ctx context.Context, id uint, payload dto.AssessmentUpdateRequest) (dto.AssessmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssessmentResponse{}, err
	}

	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	if payload.Title != nil {
		assessment.Title = *payload.Title
	}
	if payload.Description != nil {
		assessment.Description = *payload.Description
	}
	if payload.Instructions != nil {
		assessment.Instructions = *payload.Instructions
	}
	if payload.DurationMinutes != nil {
		assessment.DurationMinutes = *payload.DurationMinutes
	}
	if payload.TotalMarks != nil {
		assessment.TotalMarks = *payload.TotalMarks
	}
	if payload.SubmissionFormat != nil {
		assessment.SubmissionFormat = *payload.SubmissionFormat
	}
	if payload.Content != nil {
		assessment.SetContent(toContentModels(payload.Content))
	}

	questions := assessment.QuestionList()
	if payload.Questions != nil {
		questions = toQuestionModels(payload.Questions)
	}
	if err := validateFormatPairing(assessment.Type, assessment.SubmissionFormat, questions); err != nil {
		return dto.AssessmentResponse{}, err
	}
	if assessment.Type != models.AssessmentTypeExam {
		questions = nil
	}
	assessment.SetQuestions(questions)

	if err := s.assessments.Update(ctx, &assessment); err != nil {
		return dto.AssessmentResponse{}, err
	}

	updated, err := s.assessments.GetByID(ctx, assessment.ID)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	return dto.NewAssessmentResponse(updated), nil
}

func (s *assessmentService) Get(ctx context.Context, id uint) (dto.AssessmentResponse, error) {
	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	return dto.NewAssessmentResponse(assessment), nil
}

func (s *assessmentService) SubmitForApproval(ctx context.Context, id uint) (dto.AssessmentResponse, error) {
	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	if assessment.Status != models.AssessmentStatusDraft {
		return dto.AssessmentResponse{}, ErrInvalidStatusTransition
	}

	assessment.Status = models.AssessmentStatusSubmitted
	if err := s.assessments.Update(ctx, &assessment); err != nil {
		return dto.AssessmentResponse{}, err
	}

	s.logger.Info().Uint("assessment_id", assessment.ID).Msg("assessment submitted for approval")

	return dto.NewAssessmentResponse(assessment), nil
}

func (s *assessmentService) Approve(ctx context.Context, id uint, approve bool, actor Identity) (dto.AssessmentResponse, error) {
	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	if assessment.Status != models.AssessmentStatusSubmitted {
		return dto.AssessmentResponse{}, ErrInvalidStatusTransition
	}

	if approve {
		approvedBy := actor.ID
		approvedAt := s.now()
		assessment.Status = models.AssessmentStatusApproved
		assessment.ApprovedByID = &approvedBy
		assessment.ApprovedAt = &approvedAt
	} else {
		assessment.Status = models.AssessmentStatusDraft
		assessment.ApprovedByID = nil
		assessment.ApprovedAt = nil
	}

	if err := s.assessments.Update(ctx, &assessment); err != nil {
		return dto.AssessmentResponse{}, err
	}

	if s.activity != nil {
		action := "assessment.approved"
		if !approve {
			action = "assessment.rejected"
		}
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     action,
			EntityType: "assessment",
			EntityID:   &assessment.ID,
			Metadata:   map[string]interface{}{"course_id": assessment.CourseID},
		})
	}

	return dto.NewAssessmentResponse(assessment), nil
}

func (s *assessmentService) Schedule(ctx context.Context, id uint, payload dto.AssessmentScheduleRequest) (dto.AssessmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssessmentResponse{}, err
	}

	if !payload.ScheduledAt.Before(payload.ClosesAt) {
		return dto.AssessmentResponse{}, newValidationError("closes_at", "close time must be after scheduled time")
	}
	if payload.ScheduledAt.Before(s.now()) {
		return dto.AssessmentResponse{}, newValidationError("scheduled_at", "scheduled time must be in the future")
	}

	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	if assessment.IsTerminal() {
		return dto.AssessmentResponse{}, ErrInvalidStatusTransition
	}

	assessment.Status = models.AssessmentStatusScheduled
	assessment.ScheduledAt = &payload.ScheduledAt
	assessment.ClosesAt = &payload.ClosesAt

	if err := s.assessments.Update(ctx, &assessment); err != nil {
		return dto.AssessmentResponse{}, err
	}

	s.logger.Info().
		Uint("assessment_id", assessment.ID).
		Time("scheduled_at", payload.ScheduledAt).
		Time("closes_at", payload.ClosesAt).
		Msg("assessment scheduled")

	return dto.NewAssessmentResponse(assessment), nil
}

func (s *assessmentService) Cancel(ctx context.Context, id uint) (dto.AssessmentResponse, error) {
	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	if assessment.IsTerminal() {
		return dto.AssessmentResponse{}, ErrInvalidStatusTransition
	}

	assessment.Status = models.AssessmentStatusCancelled
	if err := s.assessments.Update(ctx, &assessment); err != nil {
		return dto.AssessmentResponse{}, err
	}

	return dto.NewAssessmentResponse(assessment), nil
}

func (s *assessmentService) Delete(ctx context.Context, id uint) error {
	if err := s.assessments.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssessmentNotFound
		}
		return err
	}
	return nil
}

func (s *assessmentService) getAssessment(ctx context.Context, id uint) (models.Assessment, error) {
	assessment, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assessment{}, ErrAssessmentNotFound
		}
		return models.Assessment{}, err
	}
	return assessment, nil
}

// validateFormatPairing enforces the EXAM/ONLINE coupling and, for exams,
// the structural rules of the question set.
func validateFormatPairing(assessmentType, submissionFormat string, questions []models.Question) error {
	if assessmentType == models.AssessmentTypeExam {
		if submissionFormat != models.SubmissionFormatOnline {
			return newValidationError("submission_format", "exams must use the online submission format")
		}
		if len(questions) == 0 {
			return newValidationError("questions", "exams must include questions")
		}
		return validateQuestions(questions)
	}

	if submissionFormat == models.SubmissionFormatOnline {
		return newValidationError("submission_format", "only exams can use the online submission format")
	}
	return nil
}

// validateQuestions checks each MCQ question for at least two options with
// exactly one marked correct. Error messages carry the 1-based index.
func validateQuestions(questions []models.Question) error {
	for idx, question := range questions {
		if question.Kind() != models.QuestionTypeMCQ {
			continue
		}
		if len(question.Options) < 2 {
			return newValidationError("questions", "question %d (MCQ) must have at least two options", idx+1)
		}
		correct := 0
		for _, option := range question.Options {
			if option.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return newValidationError("questions", "question %d (MCQ) must have exactly one correct option", idx+1)
		}
	}
	return nil
}

func toContentModels(blocks []dto.ContentBlockPayload) []models.ContentBlock {
	result := make([]models.ContentBlock, 0, len(blocks))
	for _, block := range blocks {
		result = append(result, models.ContentBlock{
			Title:       block.Title,
			Body:        block.Body,
			ContentType: block.ContentType,
		})
	}
	return result
}

func toQuestionModels(questions []dto.QuestionPayload) []models.Question {
	result := make([]models.Question, 0, len(questions))
	for _, question := range questions {
		entry := models.Question{
			Type:   question.Type,
			Prompt: question.Prompt,
			Marks:  question.Marks,
		}
		for _, option := range question.Options {
			entry.Options = append(entry.Options, models.QuestionOption{
				Text:      option.Text,
				IsCorrect: option.IsCorrect,
			})
		}
		result = append(result, entry)
	}
	return result
}
