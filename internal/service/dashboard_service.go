package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/models"
	"github.com/academica-app/academica-api/internal/observability"
	"github.com/academica-app/academica-api/internal/repository"
)

// StudentDashboardService aggregates a student's standing across the
// assessments visible to them. Results are cached per student; the cache is
// best effort and a dead Redis falls through to the database.
type StudentDashboardService interface {
	GetDashboard(ctx context.Context, student Identity) (dto.StudentDashboardResponse, error)
}

type studentDashboardService struct {
	assessments repository.AssessmentRepository
	submissions repository.SubmissionRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewStudentDashboardService builds the dashboard aggregator.
func NewStudentDashboardService(assessmentRepo repository.AssessmentRepository, submissionRepo repository.SubmissionRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) StudentDashboardService {
	return &studentDashboardService{
		assessments: assessmentRepo,
		submissions: submissionRepo,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "student_dashboard_service").Logger(),
		now:         time.Now,
	}
}

func (s *studentDashboardService) GetDashboard(ctx context.Context, student Identity) (dto.StudentDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:student:%d", student.ID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.StudentDashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("student_id", student.ID).Msg("dashboard cache hit")
				observability.DashboardCacheLookups().WithLabelValues("hit").Inc()
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
		observability.DashboardCacheLookups().WithLabelValues("miss").Inc()
	}

	assessments, err := s.assessments.ListVisibleToStudent(ctx, student.ID, student.DepartmentID, studentVisibleStatuses, repository.AssessmentFilter{})
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	studentID := student.ID
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &studentID})
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	response := s.buildResponse(assessments, submissions)

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func (s *studentDashboardService) buildResponse(assessments []models.Assessment, submissions []models.AssessmentSubmission) dto.StudentDashboardResponse {
	now := s.now()

	submissionByAssessment := map[uint]models.AssessmentSubmission{}
	for _, submission := range submissions {
		if _, exists := submissionByAssessment[submission.AssessmentID]; !exists {
			submissionByAssessment[submission.AssessmentID] = submission
		}
	}

	summary := dto.DashboardSummary{}
	upcoming := make([]dto.UpcomingAssessment, 0)
	var scoreTotal float64
	var scoredCount int

	for _, assessment := range assessments {
		summary.VisibleAssessments++

		submission, submitted := submissionByAssessment[assessment.ID]
		if submitted {
			summary.Submitted++
			if submission.IsGraded() {
				summary.Graded++
				if submission.Score != nil {
					scoreTotal += *submission.Score
					scoredCount++
				}
			}
			continue
		}

		summary.Pending++
		if assessment.WindowOpenAt(now) {
			upcoming = append(upcoming, dto.UpcomingAssessment{
				AssessmentID:     assessment.ID,
				Title:            assessment.Title,
				Type:             assessment.Type,
				SubmissionFormat: assessment.SubmissionFormat,
				ScheduledAt:      assessment.ScheduledAt,
				ClosesAt:         assessment.ClosesAt,
			})
		}
	}

	if scoredCount > 0 {
		summary.AverageScore = scoreTotal / float64(scoredCount)
	}

	recent := make([]dto.SubmissionSnapshot, 0, len(submissions))
	for idx, submission := range submissions {
		if idx >= 5 {
			break
		}
		recent = append(recent, dto.SubmissionSnapshot{
			SubmissionID: submission.ID,
			AssessmentID: submission.AssessmentID,
			Title:        submission.Assessment.Title,
			Status:       submission.Status,
			Score:        submission.Score,
			SubmittedAt:  submission.SubmittedAt,
		})
	}

	return dto.StudentDashboardResponse{
		Summary:  summary,
		Upcoming: upcoming,
		Recent:   recent,
	}
}
