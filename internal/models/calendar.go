package models

import "time"

// AcademicYear bounds an academic cycle. At most one year is active.
type AcademicYear struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	IsActive  bool      `gorm:"default:false" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AcademicTerm subdivides an academic year. At most one term per year is active.
type AcademicTerm struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	AcademicYearID uint         `gorm:"not null;uniqueIndex:idx_year_term_name" json:"academic_year_id"`
	Name           string       `gorm:"size:64;not null;uniqueIndex:idx_year_term_name" json:"name"`
	StartDate      time.Time    `gorm:"not null" json:"start_date"`
	EndDate        time.Time    `gorm:"not null" json:"end_date"`
	IsActive       bool         `gorm:"default:false" json:"is_active"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	AcademicYear   AcademicYear `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"academic_year"`
}

// CalendarEvent is a dated entry on the institutional calendar, optionally
// scoped to a department or course.
type CalendarEvent struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	EventType      string    `gorm:"size:20;not null" json:"event_type"`
	StartAt        time.Time `gorm:"not null;index" json:"start_at"`
	EndAt          time.Time `gorm:"not null" json:"end_at"`
	AcademicTermID uint      `gorm:"not null;index" json:"academic_term_id"`
	DepartmentID   *uint     `json:"department_id"`
	CourseID       *uint     `json:"course_id"`
	CreatedByID    *uint     `json:"created_by_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

const (
	// EventTypeExam marks a scheduled examination slot.
	EventTypeExam = "EXAM"
	// EventTypeClass marks a regular class session.
	EventTypeClass = "CLASS"
	// EventTypeHoliday marks a non-working day.
	EventTypeHoliday = "HOLIDAY"
	// EventTypeMeeting marks a staff meeting.
	EventTypeMeeting = "MEETING"
	// EventTypeDeadline marks a submission or administrative deadline.
	EventTypeDeadline = "DEADLINE"
)
