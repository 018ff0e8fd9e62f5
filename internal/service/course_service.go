package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/models"
	"github.com/academica-app/academica-api/internal/repository"
)

// CourseService manages courses and student enrollments.
type CourseService interface {
	List(ctx context.Context, filter dto.CourseFilter) ([]dto.CourseResponse, error)
	Get(ctx context.Context, id uint) (dto.CourseResponse, error)
	Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	Approve(ctx context.Context, id uint, actor Identity) (dto.CourseResponse, error)
	Delete(ctx context.Context, id uint) error
	Enroll(ctx context.Context, payload dto.EnrollmentCreateRequest) (dto.EnrollmentResponse, error)
	ListEnrollments(ctx context.Context, courseID uint) ([]dto.EnrollmentResponse, error)
}

type courseService struct {
	courses     repository.CourseRepository
	departments repository.DepartmentRepository
	users       repository.UserRepository
	validator   *validator.Validate
	activity    ActivityRecorder
	logger      zerolog.Logger
	now         func() time.Time
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(courseRepo repository.CourseRepository, departmentRepo repository.DepartmentRepository, userRepo repository.UserRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:     courseRepo,
		departments: departmentRepo,
		users:       userRepo,
		validator:   validate,
		activity:    activity,
		logger:      logger.With().Str("component", "course_service").Logger(),
		now:         time.Now,
	}
}

func (s *courseService) List(ctx context.Context, filter dto.CourseFilter) ([]dto.CourseResponse, error) {
	courses, err := s.courses.List(ctx, repository.CourseFilter{
		DepartmentID: filter.DepartmentID,
		Status:       filter.Status,
		Search:       strings.TrimSpace(filter.Search),
	})
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) Get(ctx context.Context, id uint) (dto.CourseResponse, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	if _, err := s.departments.GetByID(ctx, payload.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrDepartmentNotFound
		}
		return dto.CourseResponse{}, err
	}

	if err := s.checkTeacher(ctx, payload.AssignedTeacherID); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		DepartmentID:      payload.DepartmentID,
		Code:              strings.ToUpper(strings.TrimSpace(payload.Code)),
		Title:             strings.TrimSpace(payload.Title),
		Description:       strings.TrimSpace(payload.Description),
		Credits:           payload.Credits,
		Status:            models.CourseStatusDraft,
		AssignedTeacherID: payload.AssignedTeacherID,
	}
	if course.Credits == 0 {
		course.Credits = 3
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Str("code", course.Code).Msg("course created")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	if payload.Title != nil {
		course.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Description != nil {
		course.Description = strings.TrimSpace(*payload.Description)
	}
	if payload.Credits != nil {
		course.Credits = *payload.Credits
	}
	if payload.Status != nil {
		course.Status = *payload.Status
	}
	if payload.AssignedTeacherID != nil {
		if err := s.checkTeacher(ctx, payload.AssignedTeacherID); err != nil {
			return dto.CourseResponse{}, err
		}
		course.AssignedTeacherID = payload.AssignedTeacherID
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Approve(ctx context.Context, id uint, actor Identity) (dto.CourseResponse, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	if course.Status != models.CourseStatusPendingApproval && course.Status != models.CourseStatusDraft {
		return dto.CourseResponse{}, ErrInvalidStatusTransition
	}

	course.Status = models.CourseStatusActive
	approvedBy := actor.ID
	course.ApprovedByID = &approvedBy
	approvedAt := s.now()
	course.ApprovedAt = &approvedAt

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "course.approved",
			EntityType: "course",
			EntityID:   &course.ID,
			Metadata:   map[string]interface{}{"department_id": course.DepartmentID},
		})
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, id uint) error {
	if _, err := s.courses.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	return s.courses.Delete(ctx, id)
}

func (s *courseService) Enroll(ctx context.Context, payload dto.EnrollmentCreateRequest) (dto.EnrollmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrCourseNotFound
		}
		return dto.EnrollmentResponse{}, err
	}
	if course.Status != models.CourseStatusActive {
		return dto.EnrollmentResponse{}, newValidationError("course_id", "course %s is not open for enrollment", course.Code)
	}

	student, err := s.users.GetByID(ctx, payload.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, newValidationError("student_id", "user %d does not exist", payload.StudentID)
		}
		return dto.EnrollmentResponse{}, err
	}
	if student.Role != models.RoleStudent {
		return dto.EnrollmentResponse{}, newValidationError("student_id", "user %d is not a student", payload.StudentID)
	}

	enrolled, err := s.courses.IsEnrolled(ctx, payload.StudentID, payload.CourseID)
	if err != nil {
		return dto.EnrollmentResponse{}, err
	}
	if enrolled {
		return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
	}

	enrollment := models.CourseEnrollment{
		CourseID:   payload.CourseID,
		StudentID:  payload.StudentID,
		Status:     models.EnrollmentStatusEnrolled,
		EnrolledAt: s.now(),
	}

	if err := s.courses.Enroll(ctx, &enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
		}
		return dto.EnrollmentResponse{}, err
	}

	s.logger.Info().
		Uint("course_id", payload.CourseID).
		Uint("student_id", payload.StudentID).
		Msg("student enrolled")

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *courseService) ListEnrollments(ctx context.Context, courseID uint) ([]dto.EnrollmentResponse, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	enrollments, err := s.courses.ListEnrollments(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewEnrollmentResponseSlice(enrollments), nil
}

func (s *courseService) checkTeacher(ctx context.Context, teacherID *uint) error {
	if teacherID == nil {
		return nil
	}

	teacher, err := s.users.GetByID(ctx, *teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newValidationError("assigned_teacher_id", "user %d does not exist", *teacherID)
		}
		return err
	}
	if teacher.Role != models.RoleTeacher && teacher.Role != models.RoleHOD {
		return newValidationError("assigned_teacher_id", "user %d cannot teach a course", *teacherID)
	}

	return nil
}
