package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/academica-app/academica-api/internal/models"
)

func setupSubmissionTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Department{},
		&models.User{},
		&models.Course{},
		&models.Assessment{},
		&models.AssessmentSubmission{},
	))
	return db
}

func seedAssessment(t *testing.T, db *gorm.DB, code string, departmentID uint, teacherID *uint) models.Assessment {
	t.Helper()

	course := models.Course{
		DepartmentID:      departmentID,
		Code:              code,
		Title:             "Linear Algebra",
		Status:            models.CourseStatusActive,
		AssignedTeacherID: teacherID,
	}
	require.NoError(t, db.Create(&course).Error)

	assessment := models.Assessment{
		CourseID:         course.ID,
		Title:            "Midterm",
		Type:             models.AssessmentTypeExam,
		Status:           models.AssessmentStatusScheduled,
		SubmissionFormat: models.SubmissionFormatOnline,
		TotalMarks:       100,
	}
	require.NoError(t, db.Create(&assessment).Error)
	return assessment
}

func TestSubmissionCreateDuplicatePair(t *testing.T) {
	db := setupSubmissionTestDB(t)
	repo := NewSubmissionRepository(db)

	department := models.Department{Name: "Mathematics", Code: "MATH"}
	require.NoError(t, db.Create(&department).Error)
	assessment := seedAssessment(t, db, "MATH101", department.ID, nil)

	student := models.User{Name: "Ada", Email: "ada@example.edu", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	first := models.AssessmentSubmission{
		AssessmentID: assessment.ID,
		StudentID:    student.ID,
		Status:       models.SubmissionStatusSubmitted,
		SubmittedAt:  time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), &first))

	second := models.AssessmentSubmission{
		AssessmentID: assessment.ID,
		StudentID:    student.ID,
		Status:       models.SubmissionStatusSubmitted,
		SubmittedAt:  time.Now(),
	}
	err := repo.Create(context.Background(), &second)
	require.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestSubmissionScopedListings(t *testing.T) {
	db := setupSubmissionTestDB(t)
	repo := NewSubmissionRepository(db)

	math := models.Department{Name: "Mathematics", Code: "MATH"}
	physics := models.Department{Name: "Physics", Code: "PHYS"}
	require.NoError(t, db.Create(&math).Error)
	require.NoError(t, db.Create(&physics).Error)

	teacher := models.User{Name: "Grace", Email: "grace@example.edu", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&teacher).Error)

	mathExam := seedAssessment(t, db, "MATH201", math.ID, &teacher.ID)
	physicsExam := seedAssessment(t, db, "PHYS101", physics.ID, nil)

	student := models.User{Name: "Ada", Email: "ada@example.edu", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	require.NoError(t, repo.Create(context.Background(), &models.AssessmentSubmission{
		AssessmentID: mathExam.ID,
		StudentID:    student.ID,
		Status:       models.SubmissionStatusSubmitted,
		SubmittedAt:  time.Now(),
	}))
	require.NoError(t, repo.Create(context.Background(), &models.AssessmentSubmission{
		AssessmentID: physicsExam.ID,
		StudentID:    student.ID,
		Status:       models.SubmissionStatusGraded,
		SubmittedAt:  time.Now().Add(-time.Hour),
	}))

	all, err := repo.List(context.Background(), SubmissionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	graded := models.SubmissionStatusGraded
	filtered, err := repo.List(context.Background(), SubmissionFilter{Status: &graded})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, physicsExam.ID, filtered[0].AssessmentID)

	byDepartment, err := repo.ListByDepartment(context.Background(), math.ID, SubmissionFilter{})
	require.NoError(t, err)
	require.Len(t, byDepartment, 1)
	require.Equal(t, mathExam.ID, byDepartment[0].AssessmentID)
	require.Equal(t, math.ID, byDepartment[0].Assessment.Course.DepartmentID)

	byTeacher, err := repo.ListByTeacher(context.Background(), teacher.ID, SubmissionFilter{})
	require.NoError(t, err)
	require.Len(t, byTeacher, 1)
	require.Equal(t, mathExam.ID, byTeacher[0].AssessmentID)
}

func TestSubmissionGetByAssessmentAndStudent(t *testing.T) {
	db := setupSubmissionTestDB(t)
	repo := NewSubmissionRepository(db)

	department := models.Department{Name: "Mathematics", Code: "MATH"}
	require.NoError(t, db.Create(&department).Error)
	assessment := seedAssessment(t, db, "MATH101", department.ID, nil)

	student := models.User{Name: "Ada", Email: "ada@example.edu", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	created := models.AssessmentSubmission{
		AssessmentID: assessment.ID,
		StudentID:    student.ID,
		Status:       models.SubmissionStatusSubmitted,
		SubmittedAt:  time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), &created))

	found, err := repo.GetByAssessmentAndStudent(context.Background(), assessment.ID, student.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)
	require.Equal(t, "Ada", found.Student.Name)

	_, err = repo.GetByAssessmentAndStudent(context.Background(), assessment.ID, 999)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
