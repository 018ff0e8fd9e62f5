package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/academica-app/academica-api/internal/models"
)

// AssessmentFilter narrows assessment queries.
type AssessmentFilter struct {
	CourseID *uint
	Type     *string
	Status   *string
}

// AssessmentRepository defines persistence operations for assessments,
// including the role-scoped listing queries used by the visibility resolver.
type AssessmentRepository interface {
	List(ctx context.Context, filter AssessmentFilter) ([]models.Assessment, error)
	ListByDepartment(ctx context.Context, departmentID uint, filter AssessmentFilter) ([]models.Assessment, error)
	ListByTeacher(ctx context.Context, teacherID uint, filter AssessmentFilter) ([]models.Assessment, error)
	ListVisibleToStudent(ctx context.Context, studentID uint, departmentID *uint, statuses []string, filter AssessmentFilter) ([]models.Assessment, error)
	GetByID(ctx context.Context, id uint) (models.Assessment, error)
	Create(ctx context.Context, assessment *models.Assessment) error
	Update(ctx context.Context, assessment *models.Assessment) error
	Delete(ctx context.Context, id uint) error
}

type assessmentRepository struct {
	db *gorm.DB
}

// NewAssessmentRepository instantiates a GORM-backed repository.
func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Assessment{}).Preload("Course")
}

func applyAssessmentFilter(query *gorm.DB, filter AssessmentFilter) *gorm.DB {
	if filter.CourseID != nil {
		query = query.Where("assessments.course_id = ?", *filter.CourseID)
	}
	if filter.Type != nil {
		query = query.Where("assessments.type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("assessments.status = ?", *filter.Status)
	}
	return query
}

func (r *assessmentRepository) List(ctx context.Context, filter AssessmentFilter) ([]models.Assessment, error) {
	var assessments []models.Assessment
	query := applyAssessmentFilter(r.baseQuery(ctx), filter)
	if err := query.Order("assessments.created_at DESC").Find(&assessments).Error; err != nil {
		return nil, err
	}

	return assessments, nil
}

func (r *assessmentRepository) ListByDepartment(ctx context.Context, departmentID uint, filter AssessmentFilter) ([]models.Assessment, error) {
	var assessments []models.Assessment
	query := applyAssessmentFilter(r.baseQuery(ctx), filter).
		Joins("JOIN courses ON courses.id = assessments.course_id").
		Where("courses.department_id = ?", departmentID)
	if err := query.Order("assessments.created_at DESC").Find(&assessments).Error; err != nil {
		return nil, err
	}

	return assessments, nil
}

func (r *assessmentRepository) ListByTeacher(ctx context.Context, teacherID uint, filter AssessmentFilter) ([]models.Assessment, error) {
	var assessments []models.Assessment
	query := applyAssessmentFilter(r.baseQuery(ctx), filter).
		Joins("JOIN courses ON courses.id = assessments.course_id").
		Where("assessments.created_by_id = ? OR courses.assigned_teacher_id = ?", teacherID, teacherID)
	if err := query.Order("assessments.created_at DESC").Find(&assessments).Error; err != nil {
		return nil, err
	}

	return assessments, nil
}

func (r *assessmentRepository) ListVisibleToStudent(ctx context.Context, studentID uint, departmentID *uint, statuses []string, filter AssessmentFilter) ([]models.Assessment, error) {
	enrolled := r.db.Model(&models.CourseEnrollment{}).
		Select("course_id").
		Where("student_id = ?", studentID)

	query := applyAssessmentFilter(r.baseQuery(ctx), filter).
		Joins("JOIN courses ON courses.id = assessments.course_id").
		Where("assessments.status IN ?", statuses)

	if departmentID != nil {
		query = query.Where("assessments.course_id IN (?) OR courses.department_id = ?", enrolled, *departmentID)
	} else {
		query = query.Where("assessments.course_id IN (?)", enrolled)
	}

	var assessments []models.Assessment
	if err := query.Order("assessments.created_at DESC").Find(&assessments).Error; err != nil {
		return nil, err
	}

	return assessments, nil
}

func (r *assessmentRepository) GetByID(ctx context.Context, id uint) (models.Assessment, error) {
	var assessment models.Assessment
	if err := r.baseQuery(ctx).First(&assessment, id).Error; err != nil {
		return models.Assessment{}, err
	}

	return assessment, nil
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	return r.db.WithContext(ctx).Create(assessment).Error
}

func (r *assessmentRepository) Update(ctx context.Context, assessment *models.Assessment) error {
	return r.db.WithContext(ctx).Save(assessment).Error
}

func (r *assessmentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Assessment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
