package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/models"
)

func visibilityFixture() (VisibilityService, *fakeAssessmentRepo, *fakeSubmissionRepo, *fakeCourseRepo) {
	creator := uint(20)
	assessments := newFakeAssessmentRepo(
		models.Assessment{
			ID:          1,
			CourseID:    3,
			Status:      models.AssessmentStatusScheduled,
			CreatedByID: &creator,
			Course:      models.Course{ID: 3, DepartmentID: 5},
		},
		models.Assessment{
			ID:          2,
			CourseID:    4,
			Status:      models.AssessmentStatusDraft,
			CreatedByID: &creator,
			Course:      models.Course{ID: 4, DepartmentID: 6},
		},
	)
	submissions := newFakeSubmissionRepo(
		models.AssessmentSubmission{
			ID:           1,
			AssessmentID: 1,
			StudentID:    30,
			Status:       models.SubmissionStatusSubmitted,
			Assessment: models.Assessment{
				ID:          1,
				CourseID:    3,
				CreatedByID: &creator,
				Course:      models.Course{ID: 3, DepartmentID: 5},
			},
		},
	)
	courses := newFakeCourseRepo(models.Course{ID: 3, DepartmentID: 5}, models.Course{ID: 4, DepartmentID: 6})
	svc := NewVisibilityService(assessments, submissions, courses, testLogger())
	return svc, assessments, submissions, courses
}

func TestAdminSeesEverything(t *testing.T) {
	svc, _, _, _ := visibilityFixture()

	assessments, err := svc.ListAssessments(context.Background(), Identity{ID: 1, Role: models.RoleAdmin}, dto.AssessmentFilter{})
	require.NoError(t, err)
	require.Len(t, assessments, 2)
}

func TestHODWithoutDepartmentSeesNothing(t *testing.T) {
	svc, _, _, _ := visibilityFixture()

	assessments, err := svc.ListAssessments(context.Background(), Identity{ID: 2, Role: models.RoleHOD}, dto.AssessmentFilter{})
	require.NoError(t, err)
	require.Empty(t, assessments)
}

func TestHODScopedToDepartment(t *testing.T) {
	svc, _, _, _ := visibilityFixture()
	dept := uint(5)

	assessments, err := svc.ListAssessments(context.Background(), Identity{ID: 2, Role: models.RoleHOD, DepartmentID: &dept}, dto.AssessmentFilter{})
	require.NoError(t, err)
	require.Len(t, assessments, 1)
	require.Equal(t, uint(1), assessments[0].ID)
}

func TestStudentListRedactsAndFiltersStatus(t *testing.T) {
	svc, _, _, _ := visibilityFixture()
	dept := uint(5)

	assessments, err := svc.ListAssessments(context.Background(), Identity{ID: 30, Role: models.RoleStudent, DepartmentID: &dept}, dto.AssessmentFilter{})
	require.NoError(t, err)
	require.Len(t, assessments, 1)
	require.Equal(t, uint(1), assessments[0].ID)
	for _, question := range assessments[0].Questions {
		for _, option := range question.Options {
			require.False(t, option.IsCorrect)
		}
	}
}

func TestStudentCannotFetchDraftAssessment(t *testing.T) {
	svc, _, _, courses := visibilityFixture()
	courses.enroll(30, 4)

	_, err := svc.GetAssessment(context.Background(), 2, Identity{ID: 30, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrAssessmentNotFound)
}

func TestTeacherSeesAssignedCourseAssessment(t *testing.T) {
	svc, _, _, courses := visibilityFixture()
	courses.assign(40, 3)

	result, err := svc.GetAssessment(context.Background(), 1, Identity{ID: 40, Role: models.RoleTeacher})
	require.NoError(t, err)
	require.Equal(t, uint(1), result.ID)
}

func TestTeacherDeniedUnrelatedAssessment(t *testing.T) {
	svc, _, _, _ := visibilityFixture()

	_, err := svc.GetAssessment(context.Background(), 1, Identity{ID: 41, Role: models.RoleTeacher})
	require.ErrorIs(t, err, ErrAssessmentNotFound)
}

func TestStudentListSubmissionsScopedToSelf(t *testing.T) {
	svc, _, _, _ := visibilityFixture()

	own, err := svc.ListSubmissions(context.Background(), Identity{ID: 30, Role: models.RoleStudent}, dto.SubmissionFilter{})
	require.NoError(t, err)
	require.Len(t, own, 1)

	other, err := svc.ListSubmissions(context.Background(), Identity{ID: 31, Role: models.RoleStudent}, dto.SubmissionFilter{})
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestStudentCannotFetchAnotherStudentsSubmission(t *testing.T) {
	svc, _, _, _ := visibilityFixture()

	_, err := svc.GetSubmission(context.Background(), 1, Identity{ID: 31, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrSubmissionNotFound)

	result, err := svc.GetSubmission(context.Background(), 1, Identity{ID: 30, Role: models.RoleStudent})
	require.NoError(t, err)
	require.Equal(t, uint(1), result.ID)
}
