package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/models"
)

func newGradingFixture(submission models.AssessmentSubmission) (GradingService, *fakeSubmissionRepo, *stubActivityRecorder, *stubEventPublisher) {
	submissions := newFakeSubmissionRepo(submission)
	activity := &stubActivityRecorder{}
	events := &stubEventPublisher{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewGradingService(submissions, validate, activity, events, testLogger())
	return svc, submissions, activity, events
}

func TestGradeOverwritesAutoScore(t *testing.T) {
	autoScore := 40.0
	svc, submissions, activity, events := newGradingFixture(models.AssessmentSubmission{
		ID:           1,
		AssessmentID: 2,
		StudentID:    3,
		Status:       models.SubmissionStatusSubmitted,
		Score:        &autoScore,
		Assessment:   models.Assessment{ID: 2, TotalMarks: 100},
	})

	result, err := svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{Score: 85, Feedback: "solid work"}, Identity{ID: 9, Role: models.RoleTeacher})
	require.NoError(t, err)

	require.Equal(t, models.SubmissionStatusGraded, result.Status)
	require.InDelta(t, 85.0, *result.Score, 1e-9)
	require.Equal(t, "solid work", result.Feedback)
	require.NotNil(t, result.GradedByID)
	require.Equal(t, uint(9), *result.GradedByID)
	require.NotNil(t, result.GradedAt)
	require.Equal(t, 1, submissions.updateCalls)
	require.Len(t, activity.entries, 1)
	require.Equal(t, "submission.graded", activity.entries[0].Action)
	require.Len(t, events.events, 1)
	require.Equal(t, "submission.graded", events.events[0].Subject)
}

func TestGradeRegrade(t *testing.T) {
	firstScore := 70.0
	gradedBy := uint(4)
	svc, submissions, _, _ := newGradingFixture(models.AssessmentSubmission{
		ID:           1,
		AssessmentID: 2,
		StudentID:    3,
		Status:       models.SubmissionStatusGraded,
		Score:        &firstScore,
		GradedByID:   &gradedBy,
		Assessment:   models.Assessment{ID: 2, TotalMarks: 100},
	})

	result, err := svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{Score: 95, Feedback: "revised"}, Identity{ID: 9, Role: models.RoleHOD})
	require.NoError(t, err)

	require.InDelta(t, 95.0, *result.Score, 1e-9)
	require.Equal(t, uint(9), *result.GradedByID)
	require.Equal(t, 1, submissions.updateCalls)
}

func TestGradeRejectsScoreAboveTotal(t *testing.T) {
	svc, submissions, activity, _ := newGradingFixture(models.AssessmentSubmission{
		ID:         1,
		Status:     models.SubmissionStatusSubmitted,
		Assessment: models.Assessment{ID: 2, TotalMarks: 50},
	})

	_, err := svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{Score: 51}, Identity{ID: 9, Role: models.RoleTeacher})
	require.ErrorIs(t, err, ErrScoreExceedsTotal)
	require.Equal(t, 0, submissions.updateCalls)
	require.Empty(t, activity.entries)
}

func TestGradeDefaultsTotalWhenUnset(t *testing.T) {
	svc, _, _, _ := newGradingFixture(models.AssessmentSubmission{
		ID:         1,
		Status:     models.SubmissionStatusSubmitted,
		Assessment: models.Assessment{ID: 2, TotalMarks: 0},
	})

	_, err := svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{Score: 100}, Identity{ID: 9, Role: models.RoleTeacher})
	require.NoError(t, err)

	_, err = svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{Score: 101}, Identity{ID: 9, Role: models.RoleTeacher})
	require.ErrorIs(t, err, ErrScoreExceedsTotal)
}

func TestGradeUnknownSubmission(t *testing.T) {
	svc, _, _, _ := newGradingFixture(models.AssessmentSubmission{ID: 1, Assessment: models.Assessment{TotalMarks: 100}})

	_, err := svc.Grade(context.Background(), 42, dto.GradeSubmissionRequest{Score: 10}, Identity{ID: 9, Role: models.RoleTeacher})
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}
