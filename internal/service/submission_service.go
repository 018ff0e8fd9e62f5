package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/models"
	"github.com/academica-app/academica-api/internal/observability"
	"github.com/academica-app/academica-api/internal/repository"
)

// FileUploader abstracts uploading binary data and returning a URL.
type FileUploader interface {
	Upload(ctx context.Context, filename string, reader io.Reader) (string, error)
}

// SubmissionService accepts student submissions, validates them against the
// assessment's format and question set, and auto-grades objective answers
// synchronously at submission time.
type SubmissionService interface {
	Submit(ctx context.Context, payload dto.SubmissionCreateRequest, file *multipart.FileHeader, student Identity) (dto.SubmissionResponse, error)
	Get(ctx context.Context, id uint) (dto.SubmissionResponse, error)
	List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assessments repository.AssessmentRepository
	validator   *validator.Validate
	uploader    FileUploader
	events      EventPublisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(submissionRepo repository.SubmissionRepository, assessmentRepo repository.AssessmentRepository, validate *validator.Validate, uploader FileUploader, events EventPublisher, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissionRepo,
		assessments: assessmentRepo,
		validator:   validate,
		uploader:    uploader,
		events:      events,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, payload dto.SubmissionCreateRequest, file *multipart.FileHeader, student Identity) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	assessment, err := s.assessments.GetByID(ctx, payload.AssessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssessmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if !assessment.WindowOpenAt(s.now()) {
		return dto.SubmissionResponse{}, ErrSubmissionWindowClosed
	}

	if _, err := s.submissions.GetByAssessmentAndStudent(ctx, assessment.ID, student.ID); err == nil {
		return dto.SubmissionResponse{}, ErrDuplicateSubmission
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubmissionResponse{}, err
	}

	submission := models.AssessmentSubmission{
		AssessmentID: assessment.ID,
		StudentID:    student.ID,
		Status:       models.SubmissionStatusSubmitted,
		SubmittedAt:  s.now(),
	}

	if err := s.applyFormat(ctx, &submission, assessment, payload, file); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if assessment.SubmissionFormat == models.SubmissionFormatOnline {
		s.autoGrade(&submission, assessment)
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		// The unique index over (assessment_id, student_id) decides races
		// between concurrent attempts; the loser gets a conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.SubmissionResponse{}, ErrDuplicateSubmission
		}
		return dto.SubmissionResponse{}, err
	}

	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", created.ID).
		Uint("assessment_id", assessment.ID).
		Str("status", created.Status).
		Msg("submission created")

	observability.SubmissionsCreated().WithLabelValues(assessment.SubmissionFormat).Inc()

	if s.events != nil {
		s.events.Publish(ctx, "submission.created", map[string]interface{}{
			"submission_id": created.ID,
			"assessment_id": assessment.ID,
			"student_id":    student.ID,
			"status":        created.Status,
		})
	}

	return dto.NewSubmissionResponse(created), nil
}

// applyFormat validates the payload against the assessment's submission
// format and populates exactly the response fields that format carries,
// clearing the rest.
func (s *submissionService) applyFormat(ctx context.Context, submission *models.AssessmentSubmission, assessment models.Assessment, payload dto.SubmissionCreateRequest, file *multipart.FileHeader) error {
	switch assessment.SubmissionFormat {
	case models.SubmissionFormatText:
		if strings.TrimSpace(payload.TextResponse) == "" {
			return newValidationError("text_response", "text response is required")
		}
		submission.TextResponse = payload.TextResponse

	case models.SubmissionFormatFile:
		if file == nil {
			return newValidationError("file_response", "file upload is required")
		}
		url, err := s.uploadResponse(ctx, file)
		if err != nil {
			return err
		}
		submission.FileURL = url

	case models.SubmissionFormatTextAndFile:
		if strings.TrimSpace(payload.TextResponse) == "" {
			return newValidationError("text_response", "text response is required")
		}
		if file == nil {
			return newValidationError("file_response", "file upload is required")
		}
		url, err := s.uploadResponse(ctx, file)
		if err != nil {
			return err
		}
		submission.TextResponse = payload.TextResponse
		submission.FileURL = url

	case models.SubmissionFormatOnline:
		questions := assessment.QuestionList()
		if len(payload.Answers) == 0 {
			return newValidationError("answers", "please answer every question before submitting")
		}
		if len(payload.Answers) != len(questions) {
			return newValidationError("answers", "an answer is required for each question")
		}
		for idx, answer := range payload.Answers {
			question := questions[idx]
			if question.Kind() != models.QuestionTypeMCQ {
				continue
			}
			if answer.Selected == nil && answer.Text == nil {
				continue
			}
			if answer.Selected == nil || *answer.Selected < 0 || *answer.Selected >= len(question.Options) {
				return newValidationError("answers", "question %d contains an invalid selection", idx+1)
			}
		}
		submission.SetAnswers(payload.Answers)

	default:
		return newValidationError("submission_format", "unknown submission format %q", assessment.SubmissionFormat)
	}

	return nil
}

// autoGrade scores the objective questions of an online submission. The
// submission is final (GRADED) only when no subjective question remains;
// otherwise the partial objective score is recorded and the submission
// stays SUBMITTED awaiting manual grading.
func (s *submissionService) autoGrade(submission *models.AssessmentSubmission, assessment models.Assessment) {
	questions := assessment.QuestionList()
	answers := submission.AnswerList()

	score := 0.0
	hasSubjective := false
	for idx, question := range questions {
		if question.Kind() == models.QuestionTypeSubjective {
			hasSubjective = true
			continue
		}
		if idx >= len(answers) {
			continue
		}
		selected := answers[idx].Selected
		if selected == nil || *selected < 0 || *selected >= len(question.Options) {
			continue
		}
		if question.Options[*selected].IsCorrect {
			score += float64(question.MarksOrDefault())
		}
	}

	submission.Score = &score
	if !hasSubjective {
		submission.Status = models.SubmissionStatusGraded
	}
}

func (s *submissionService) uploadResponse(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if err := validateResponseFileType(file); err != nil {
		return "", err
	}

	reader, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	url, err := s.uploader.Upload(ctx, file.Filename, reader)
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return url, nil
}

func (s *submissionService) Get(ctx context.Context, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	repoFilter := repository.SubmissionFilter{
		AssessmentID: filter.AssessmentID,
		StudentID:    filter.StudentID,
		Status:       filter.Status,
	}

	submissions, err := s.submissions.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func validateResponseFileType(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return fmt.Errorf("failed to detect file type: %w", err)
	}

	allowed := []string{"application/pdf", "application/zip", "application/x-zip-compressed", "text/plain", "image/png", "image/jpeg"}
	for _, a := range allowed {
		if mime.Is(a) {
			return nil
		}
	}

	return newValidationError("file_response", "unsupported file type: %s", mime.String())
}
