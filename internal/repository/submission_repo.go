package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/academica-app/academica-api/internal/models"
)

// SubmissionFilter narrows submission queries.
type SubmissionFilter struct {
	AssessmentID *uint
	StudentID    *uint
	Status       *string
}

// SubmissionRepository defines data operations for assessment submissions.
// Create relies on the storage-level unique index over (assessment_id,
// student_id); a violated constraint surfaces as gorm.ErrDuplicatedKey.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.AssessmentSubmission, error)
	ListByDepartment(ctx context.Context, departmentID uint, filter SubmissionFilter) ([]models.AssessmentSubmission, error)
	ListByTeacher(ctx context.Context, teacherID uint, filter SubmissionFilter) ([]models.AssessmentSubmission, error)
	GetByID(ctx context.Context, id uint) (models.AssessmentSubmission, error)
	GetByAssessmentAndStudent(ctx context.Context, assessmentID, studentID uint) (models.AssessmentSubmission, error)
	Create(ctx context.Context, submission *models.AssessmentSubmission) error
	Update(ctx context.Context, submission *models.AssessmentSubmission) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.AssessmentSubmission{}).
		Preload("Assessment").
		Preload("Assessment.Course").
		Preload("Student")
}

func applySubmissionFilter(query *gorm.DB, filter SubmissionFilter) *gorm.DB {
	if filter.AssessmentID != nil {
		query = query.Where("assessment_submissions.assessment_id = ?", *filter.AssessmentID)
	}
	if filter.StudentID != nil {
		query = query.Where("assessment_submissions.student_id = ?", *filter.StudentID)
	}
	if filter.Status != nil {
		query = query.Where("assessment_submissions.status = ?", *filter.Status)
	}
	return query
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.AssessmentSubmission, error) {
	var submissions []models.AssessmentSubmission
	query := applySubmissionFilter(r.baseQuery(ctx), filter)
	if err := query.Order("assessment_submissions.submitted_at DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) ListByDepartment(ctx context.Context, departmentID uint, filter SubmissionFilter) ([]models.AssessmentSubmission, error) {
	var submissions []models.AssessmentSubmission
	query := applySubmissionFilter(r.baseQuery(ctx), filter).
		Joins("JOIN assessments ON assessments.id = assessment_submissions.assessment_id").
		Joins("JOIN courses ON courses.id = assessments.course_id").
		Where("courses.department_id = ?", departmentID)
	if err := query.Order("assessment_submissions.submitted_at DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) ListByTeacher(ctx context.Context, teacherID uint, filter SubmissionFilter) ([]models.AssessmentSubmission, error) {
	var submissions []models.AssessmentSubmission
	query := applySubmissionFilter(r.baseQuery(ctx), filter).
		Joins("JOIN assessments ON assessments.id = assessment_submissions.assessment_id").
		Joins("JOIN courses ON courses.id = assessments.course_id").
		Where("courses.assigned_teacher_id = ?", teacherID)
	if err := query.Order("assessment_submissions.submitted_at DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.AssessmentSubmission, error) {
	var submission models.AssessmentSubmission
	if err := r.baseQuery(ctx).First(&submission, id).Error; err != nil {
		return models.AssessmentSubmission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) GetByAssessmentAndStudent(ctx context.Context, assessmentID, studentID uint) (models.AssessmentSubmission, error) {
	var submission models.AssessmentSubmission
	if err := r.baseQuery(ctx).
		Where("assessment_submissions.assessment_id = ?", assessmentID).
		Where("assessment_submissions.student_id = ?", studentID).
		First(&submission).Error; err != nil {
		return models.AssessmentSubmission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.AssessmentSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.AssessmentSubmission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}
