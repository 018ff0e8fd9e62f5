package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/models"
	"github.com/academica-app/academica-api/internal/observability"
	"github.com/academica-app/academica-api/internal/repository"
)

// GradingService finalizes submissions with a manual score and feedback.
// Grading always overwrites whatever score the submission carried, including
// partial scores produced by automatic objective grading.
type GradingService interface {
	Grade(ctx context.Context, submissionID uint, payload dto.GradeSubmissionRequest, actor Identity) (dto.SubmissionResponse, error)
}

type gradingService struct {
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	activity    ActivityRecorder
	events      EventPublisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewGradingService constructs the grading service.
func NewGradingService(submissionRepo repository.SubmissionRepository, validate *validator.Validate, activity ActivityRecorder, events EventPublisher, logger zerolog.Logger) GradingService {
	return &gradingService{
		submissions: submissionRepo,
		validator:   validate,
		activity:    activity,
		events:      events,
		logger:      logger.With().Str("component", "grading_service").Logger(),
		now:         time.Now,
	}
}

func (s *gradingService) Grade(ctx context.Context, submissionID uint, payload dto.GradeSubmissionRequest, actor Identity) (dto.SubmissionResponse, error) {
	tracer := otel.Tracer("github.com/academica-app/academica-api/internal/service/grading")
	ctx, span := tracer.Start(ctx, "grading.finalize")
	span.SetAttributes(
		attribute.Int64("grading.submission_id", int64(submissionID)),
		attribute.Int64("grading.actor_id", int64(actor.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_lookup_failed")
		return dto.SubmissionResponse{}, err
	}

	maxScore := float64(submission.Assessment.TotalMarks)
	if maxScore <= 0 {
		maxScore = 100
	}
	if payload.Score > maxScore+1e-9 {
		span.RecordError(ErrScoreExceedsTotal)
		span.SetStatus(codes.Error, "score_exceeds_total")
		return dto.SubmissionResponse{}, ErrScoreExceedsTotal
	}

	score := payload.Score
	submission.Score = &score
	submission.Feedback = strings.TrimSpace(payload.Feedback)
	submission.Status = models.SubmissionStatusGraded
	gradedAt := s.now()
	submission.GradedAt = &gradedAt
	gradedBy := actor.ID
	submission.GradedByID = &gradedBy

	if err := s.submissions.Update(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_update_failed")
		return dto.SubmissionResponse{}, err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "submission.graded",
			EntityType: "submission",
			EntityID:   &submission.ID,
			Metadata: map[string]interface{}{
				"assessment_id": submission.AssessmentID,
				"student_id":    submission.StudentID,
				"score":         payload.Score,
			},
		})
	}

	if s.events != nil {
		s.events.Publish(ctx, "submission.graded", map[string]interface{}{
			"submission_id": submission.ID,
			"assessment_id": submission.AssessmentID,
			"student_id":    submission.StudentID,
			"score":         payload.Score,
		})
	}

	span.SetAttributes(
		attribute.Float64("grading.score", payload.Score),
		attribute.String("grading.status", submission.Status),
	)

	observability.SubmissionsGraded().Inc()

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Float64("score", payload.Score).
		Msg("submission graded")

	return dto.NewSubmissionResponse(submission), nil
}
