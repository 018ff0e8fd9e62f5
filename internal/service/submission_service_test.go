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

func scheduledExam(questions []models.Question) models.Assessment {
	opens := time.Now().Add(-time.Hour)
	closes := time.Now().Add(time.Hour)
	assessment := models.Assessment{
		ID:               1,
		CourseID:         3,
		Title:            "Midterm",
		Type:             models.AssessmentTypeExam,
		Status:           models.AssessmentStatusInProgress,
		SubmissionFormat: models.SubmissionFormatOnline,
		TotalMarks:       100,
		ScheduledAt:      &opens,
		ClosesAt:         &closes,
	}
	assessment.SetQuestions(questions)
	return assessment
}

func mcq(prompt string, marks int, correct int, options ...string) models.Question {
	question := models.Question{Type: models.QuestionTypeMCQ, Prompt: prompt, Marks: marks}
	for idx, text := range options {
		question.Options = append(question.Options, models.QuestionOption{Text: text, IsCorrect: idx == correct})
	}
	return question
}

func newSubmissionFixture(assessment models.Assessment) (SubmissionService, *fakeSubmissionRepo, *stubEventPublisher) {
	submissions := newFakeSubmissionRepo()
	assessments := newFakeAssessmentRepo(assessment)
	events := &stubEventPublisher{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewSubmissionService(submissions, assessments, validate, nil, events, testLogger())
	return svc, submissions, events
}

func TestSubmitRejectsClosedWindow(t *testing.T) {
	assessment := scheduledExam([]models.Question{mcq("2+2", 1, 0, "4", "5")})
	closed := time.Now().Add(-time.Minute)
	assessment.ClosesAt = &closed

	svc, _, _ := newSubmissionFixture(assessment)

	selected := 0
	_, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{
		AssessmentID: 1,
		Answers:      []models.Answer{{Selected: &selected}},
	}, nil, Identity{ID: 7, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrSubmissionWindowClosed)
}

func TestSubmitRejectsDuplicate(t *testing.T) {
	assessment := scheduledExam([]models.Question{mcq("2+2", 1, 0, "4", "5")})
	svc, _, _ := newSubmissionFixture(assessment)

	selected := 0
	payload := dto.SubmissionCreateRequest{
		AssessmentID: 1,
		Answers:      []models.Answer{{Selected: &selected}},
	}
	student := Identity{ID: 7, Role: models.RoleStudent}

	_, err := svc.Submit(context.Background(), payload, nil, student)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), payload, nil, student)
	require.ErrorIs(t, err, ErrDuplicateSubmission)
}

func TestSubmitRequiresTextForTextFormat(t *testing.T) {
	assessment := scheduledExam(nil)
	assessment.Type = models.AssessmentTypeAssignment
	assessment.SubmissionFormat = models.SubmissionFormatText

	svc, _, _ := newSubmissionFixture(assessment)

	_, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{
		AssessmentID: 1,
		TextResponse: "   ",
	}, nil, Identity{ID: 7, Role: models.RoleStudent})
	require.True(t, IsValidationError(err))
}

func TestSubmitAutoGradesObjectiveExam(t *testing.T) {
	assessment := scheduledExam([]models.Question{
		mcq("2+2", 3, 0, "4", "5"),
		mcq("3+3", 2, 1, "5", "6"),
	})
	svc, _, events := newSubmissionFixture(assessment)

	right := 0
	wrong := 0
	result, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{
		AssessmentID: 1,
		Answers:      []models.Answer{{Selected: &right}, {Selected: &wrong}},
	}, nil, Identity{ID: 7, Role: models.RoleStudent})
	require.NoError(t, err)

	require.Equal(t, models.SubmissionStatusGraded, result.Status)
	require.NotNil(t, result.Score)
	require.InDelta(t, 3.0, *result.Score, 1e-9)
	require.Len(t, events.events, 1)
	require.Equal(t, "submission.created", events.events[0].Subject)
}

func TestSubmitKeepsSubjectiveExamPending(t *testing.T) {
	assessment := scheduledExam([]models.Question{
		mcq("2+2", 5, 0, "4", "5"),
		{Type: models.QuestionTypeSubjective, Prompt: "Explain your reasoning", Marks: 10},
	})
	svc, _, _ := newSubmissionFixture(assessment)

	selected := 0
	essay := "Because addition is commutative."
	result, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{
		AssessmentID: 1,
		Answers:      []models.Answer{{Selected: &selected}, {Text: &essay}},
	}, nil, Identity{ID: 7, Role: models.RoleStudent})
	require.NoError(t, err)

	require.Equal(t, models.SubmissionStatusSubmitted, result.Status)
	require.NotNil(t, result.Score)
	require.InDelta(t, 5.0, *result.Score, 1e-9)
}

func TestSubmitRejectsAnswerCountMismatch(t *testing.T) {
	assessment := scheduledExam([]models.Question{
		mcq("2+2", 1, 0, "4", "5"),
		mcq("3+3", 1, 1, "5", "6"),
	})
	svc, _, _ := newSubmissionFixture(assessment)

	selected := 0
	_, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{
		AssessmentID: 1,
		Answers:      []models.Answer{{Selected: &selected}},
	}, nil, Identity{ID: 7, Role: models.RoleStudent})
	require.True(t, IsValidationError(err))
}

func TestSubmitRejectsOutOfRangeSelection(t *testing.T) {
	assessment := scheduledExam([]models.Question{mcq("2+2", 1, 0, "4", "5")})
	svc, _, _ := newSubmissionFixture(assessment)

	selected := 9
	_, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{
		AssessmentID: 1,
		Answers:      []models.Answer{{Selected: &selected}},
	}, nil, Identity{ID: 7, Role: models.RoleStudent})
	require.True(t, IsValidationError(err))
	require.Contains(t, err.Error(), "question 1")
}

func TestSubmitUnknownAssessment(t *testing.T) {
	svc, _, _ := newSubmissionFixture(scheduledExam([]models.Question{mcq("2+2", 1, 0, "4", "5")}))

	selected := 0
	_, err := svc.Submit(context.Background(), dto.SubmissionCreateRequest{
		AssessmentID: 99,
		Answers:      []models.Answer{{Selected: &selected}},
	}, nil, Identity{ID: 7, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrAssessmentNotFound)
}
