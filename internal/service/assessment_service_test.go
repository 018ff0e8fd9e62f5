package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/models"
)

func newAssessmentFixture(t *testing.T, assessments ...models.Assessment) (AssessmentService, *fakeAssessmentRepo, *stubActivityRecorder) {
	t.Helper()
	repo := newFakeAssessmentRepo(assessments...)
	courses := newFakeCourseRepo(models.Course{ID: 3, DepartmentID: 5, Status: models.CourseStatusActive})
	activity := &stubActivityRecorder{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewAssessmentService(repo, courses, validate, activity, testLogger())
	return svc, repo, activity
}

func examCreateRequest() dto.AssessmentCreateRequest {
	return dto.AssessmentCreateRequest{
		CourseID:         3,
		Title:            "Midterm",
		Type:             models.AssessmentTypeExam,
		SubmissionFormat: models.SubmissionFormatOnline,
		Content: []dto.ContentBlockPayload{
			{Title: "Rules", Body: "No notes.", ContentType: models.ContentTypeInstruction},
		},
		Questions: []dto.QuestionPayload{
			{
				Prompt: "2+2",
				Marks:  2,
				Options: []dto.QuestionOptionPayload{
					{Text: "4", IsCorrect: true},
					{Text: "5"},
				},
			},
		},
	}
}

func TestCreateExamStartsAsDraft(t *testing.T) {
	svc, _, _ := newAssessmentFixture(t)

	result, err := svc.Create(context.Background(), examCreateRequest(), Identity{ID: 9, Role: models.RoleTeacher})
	require.NoError(t, err)

	require.Equal(t, models.AssessmentStatusDraft, result.Status)
	require.Equal(t, 60, result.DurationMinutes)
	require.Equal(t, 100, result.TotalMarks)
	require.NotNil(t, result.CreatedByID)
	require.Equal(t, uint(9), *result.CreatedByID)
}

func TestCreateExamRequiresOnlineFormat(t *testing.T) {
	svc, _, _ := newAssessmentFixture(t)

	payload := examCreateRequest()
	payload.SubmissionFormat = models.SubmissionFormatText

	_, err := svc.Create(context.Background(), payload, Identity{ID: 9, Role: models.RoleTeacher})
	require.True(t, IsValidationError(err))
}

func TestCreateNonExamRejectsOnlineFormat(t *testing.T) {
	svc, _, _ := newAssessmentFixture(t)

	payload := examCreateRequest()
	payload.Type = models.AssessmentTypeQuiz

	_, err := svc.Create(context.Background(), payload, Identity{ID: 9, Role: models.RoleTeacher})
	require.True(t, IsValidationError(err))
}

func TestCreateValidatesMCQOptions(t *testing.T) {
	svc, _, _ := newAssessmentFixture(t)

	payload := examCreateRequest()
	payload.Questions[0].Options = []dto.QuestionOptionPayload{
		{Text: "4", IsCorrect: true},
		{Text: "also 4", IsCorrect: true},
	}

	_, err := svc.Create(context.Background(), payload, Identity{ID: 9, Role: models.RoleTeacher})
	require.True(t, IsValidationError(err))
	require.Contains(t, err.Error(), "question 1")
}

func TestCreateUnknownCourse(t *testing.T) {
	svc, _, _ := newAssessmentFixture(t)

	payload := examCreateRequest()
	payload.CourseID = 99

	_, err := svc.Create(context.Background(), payload, Identity{ID: 9, Role: models.RoleTeacher})
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestApprovalLifecycle(t *testing.T) {
	svc, repo, activity := newAssessmentFixture(t, models.Assessment{
		ID:               1,
		CourseID:         3,
		Type:             models.AssessmentTypeQuiz,
		SubmissionFormat: models.SubmissionFormatText,
		Status:           models.AssessmentStatusDraft,
	})

	submitted, err := svc.SubmitForApproval(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, models.AssessmentStatusSubmitted, submitted.Status)

	approved, err := svc.Approve(context.Background(), 1, true, Identity{ID: 4, Role: models.RoleHOD})
	require.NoError(t, err)
	require.Equal(t, models.AssessmentStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedByID)
	require.Equal(t, uint(4), *approved.ApprovedByID)
	require.Len(t, activity.entries, 1)
	require.Equal(t, "assessment.approved", activity.entries[0].Action)

	stored, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, models.AssessmentStatusApproved, stored.Status)
}

func TestRejectReturnsToDraft(t *testing.T) {
	svc, _, activity := newAssessmentFixture(t, models.Assessment{
		ID:     1,
		Status: models.AssessmentStatusSubmitted,
	})

	result, err := svc.Approve(context.Background(), 1, false, Identity{ID: 4, Role: models.RoleHOD})
	require.NoError(t, err)
	require.Equal(t, models.AssessmentStatusDraft, result.Status)
	require.Nil(t, result.ApprovedByID)
	require.Equal(t, "assessment.rejected", activity.entries[0].Action)
}

func TestApproveRequiresSubmittedStatus(t *testing.T) {
	svc, _, _ := newAssessmentFixture(t, models.Assessment{
		ID:     1,
		Status: models.AssessmentStatusDraft,
	})

	_, err := svc.Approve(context.Background(), 1, true, Identity{ID: 4, Role: models.RoleHOD})
	require.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestScheduleSetsWindow(t *testing.T) {
	svc, _, _ := newAssessmentFixture(t, models.Assessment{
		ID:     1,
		Status: models.AssessmentStatusApproved,
	})

	opens := time.Now().Add(time.Hour)
	closes := opens.Add(2 * time.Hour)
	result, err := svc.Schedule(context.Background(), 1, dto.AssessmentScheduleRequest{ScheduledAt: opens, ClosesAt: closes})
	require.NoError(t, err)
	require.Equal(t, models.AssessmentStatusScheduled, result.Status)
	require.NotNil(t, result.ScheduledAt)
	require.NotNil(t, result.ClosesAt)
}

func TestScheduleRejectsInvertedWindow(t *testing.T) {
	svc, _, _ := newAssessmentFixture(t, models.Assessment{
		ID:     1,
		Status: models.AssessmentStatusApproved,
	})

	opens := time.Now().Add(2 * time.Hour)
	closes := opens.Add(-time.Hour)
	_, err := svc.Schedule(context.Background(), 1, dto.AssessmentScheduleRequest{ScheduledAt: opens, ClosesAt: closes})
	require.True(t, IsValidationError(err))
}

func TestCancelTerminalAssessment(t *testing.T) {
	svc, _, _ := newAssessmentFixture(t, models.Assessment{
		ID:     1,
		Status: models.AssessmentStatusCompleted,
	})

	_, err := svc.Cancel(context.Background(), 1)
	require.ErrorIs(t, err, ErrInvalidStatusTransition)
}
