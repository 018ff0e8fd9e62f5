package dto

import (
	"time"

	"github.com/academica-app/academica-api/internal/models"
)

// CourseCreateRequest carries a new course.
type CourseCreateRequest struct {
	DepartmentID      uint   `json:"department_id" validate:"required,gt=0"`
	Code              string `json:"code" validate:"required,max=50"`
	Title             string `json:"title" validate:"required,max=255"`
	Description       string `json:"description"`
	Credits           int    `json:"credits" validate:"omitempty,gt=0"`
	AssignedTeacherID *uint  `json:"assigned_teacher_id" validate:"omitempty,gt=0"`
}

// CourseUpdateRequest carries a partial course update.
type CourseUpdateRequest struct {
	Title             *string `json:"title" validate:"omitempty,max=255"`
	Description       *string `json:"description"`
	Credits           *int    `json:"credits" validate:"omitempty,gt=0"`
	Status            *string `json:"status" validate:"omitempty,oneof=DRAFT PENDING_APPROVAL ACTIVE ARCHIVED"`
	AssignedTeacherID *uint   `json:"assigned_teacher_id" validate:"omitempty,gt=0"`
}

// CourseFilter narrows course listings.
type CourseFilter struct {
	DepartmentID *uint   `query:"department_id"`
	Status       *string `query:"status" validate:"omitempty,oneof=DRAFT PENDING_APPROVAL ACTIVE ARCHIVED"`
	Search       string  `query:"search"`
}

// CourseResponse is the API representation of a course.
type CourseResponse struct {
	ID                uint       `json:"id"`
	DepartmentID      uint       `json:"department_id"`
	Code              string     `json:"code"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Credits           int        `json:"credits"`
	Status            string     `json:"status"`
	AssignedTeacherID *uint      `json:"assigned_teacher_id"`
	ApprovedByID      *uint      `json:"approved_by_id"`
	ApprovedAt        *time.Time `json:"approved_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// EnrollmentCreateRequest enrolls a student into a course.
type EnrollmentCreateRequest struct {
	CourseID  uint `json:"course_id" validate:"required,gt=0"`
	StudentID uint `json:"student_id" validate:"required,gt=0"`
}

// EnrollmentResponse is the API representation of an enrollment.
type EnrollmentResponse struct {
	ID          uint       `json:"id"`
	CourseID    uint       `json:"course_id"`
	StudentID   uint       `json:"student_id"`
	Status      string     `json:"status"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// NewCourseResponse converts a Course model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	return CourseResponse{
		ID:                model.ID,
		DepartmentID:      model.DepartmentID,
		Code:              model.Code,
		Title:             model.Title,
		Description:       model.Description,
		Credits:           model.Credits,
		Status:            model.Status,
		AssignedTeacherID: model.AssignedTeacherID,
		ApprovedByID:      model.ApprovedByID,
		ApprovedAt:        model.ApprovedAt,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

// NewCourseResponseSlice converts course models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}

	return responses
}

// NewEnrollmentResponse converts an enrollment model into a DTO.
func NewEnrollmentResponse(model models.CourseEnrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:          model.ID,
		CourseID:    model.CourseID,
		StudentID:   model.StudentID,
		Status:      model.Status,
		EnrolledAt:  model.EnrolledAt,
		CompletedAt: model.CompletedAt,
	}
}

// NewEnrollmentResponseSlice converts enrollment models into DTOs.
func NewEnrollmentResponseSlice(enrollments []models.CourseEnrollment) []EnrollmentResponse {
	responses := make([]EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		responses = append(responses, NewEnrollmentResponse(enrollment))
	}

	return responses
}
