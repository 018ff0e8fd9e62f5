package models

import "time"

// Course is a unit of instruction offered by a department.
type Course struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	DepartmentID      uint       `gorm:"not null;index" json:"department_id"`
	Code              string     `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Title             string     `gorm:"size:255;not null" json:"title"`
	Description       string     `gorm:"type:text" json:"description"`
	Credits           int        `gorm:"default:3" json:"credits"`
	Status            string     `gorm:"size:32;not null" json:"status"`
	AssignedTeacherID *uint      `gorm:"index" json:"assigned_teacher_id"`
	ApprovedByID      *uint      `json:"approved_by_id"`
	ApprovedAt        *time.Time `json:"approved_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	Department        Department `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"department"`
}

const (
	// CourseStatusDraft marks a course that is not yet offered.
	CourseStatusDraft = "DRAFT"
	// CourseStatusPendingApproval marks a course awaiting departmental sign-off.
	CourseStatusPendingApproval = "PENDING_APPROVAL"
	// CourseStatusActive marks a course open for enrollment.
	CourseStatusActive = "ACTIVE"
	// CourseStatusArchived marks a course no longer offered.
	CourseStatusArchived = "ARCHIVED"
)

// CourseEnrollment links a student to a course. One row per (course, student).
type CourseEnrollment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CourseID    uint       `gorm:"not null;uniqueIndex:idx_course_student" json:"course_id"`
	StudentID   uint       `gorm:"not null;uniqueIndex:idx_course_student" json:"student_id"`
	Status      string     `gorm:"size:20;not null" json:"status"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Course      Course     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"course"`
	Student     User       `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}

const (
	// EnrollmentStatusEnrolled indicates an active enrollment.
	EnrollmentStatusEnrolled = "ENROLLED"
	// EnrollmentStatusCompleted indicates the student finished the course.
	EnrollmentStatusCompleted = "COMPLETED"
	// EnrollmentStatusDropped indicates the student left the course.
	EnrollmentStatusDropped = "DROPPED"
)
