package dto

import (
	"time"

	"github.com/academica-app/academica-api/internal/models"
)

// AcademicYearCreateRequest carries a new academic year.
type AcademicYearCreateRequest struct {
	Name      string    `json:"name" validate:"required,max=64"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

// AcademicTermCreateRequest carries a new term within a year.
type AcademicTermCreateRequest struct {
	AcademicYearID uint      `json:"academic_year_id" validate:"required,gt=0"`
	Name           string    `json:"name" validate:"required,max=64"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required"`
}

// CalendarEventCreateRequest carries a new calendar event.
type CalendarEventCreateRequest struct {
	Title          string    `json:"title" validate:"required,max=255"`
	Description    string    `json:"description"`
	EventType      string    `json:"event_type" validate:"required,oneof=EXAM CLASS HOLIDAY MEETING DEADLINE"`
	StartAt        time.Time `json:"start_at" validate:"required"`
	EndAt          time.Time `json:"end_at" validate:"required"`
	AcademicTermID uint      `json:"academic_term_id" validate:"required,gt=0"`
	DepartmentID   *uint     `json:"department_id" validate:"omitempty,gt=0"`
	CourseID       *uint     `json:"course_id" validate:"omitempty,gt=0"`
}

// CalendarEventFilter narrows event listings.
type CalendarEventFilter struct {
	EventType    *string    `query:"event_type" validate:"omitempty,oneof=EXAM CLASS HOLIDAY MEETING DEADLINE"`
	DepartmentID *uint      `query:"department_id"`
	CourseID     *uint      `query:"course_id"`
	From         *time.Time `query:"from"`
	To           *time.Time `query:"to"`
}

// AcademicYearResponse is the API representation of an academic year.
type AcademicYearResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  bool      `json:"is_active"`
}

// AcademicTermResponse is the API representation of an academic term.
type AcademicTermResponse struct {
	ID             uint      `json:"id"`
	AcademicYearID uint      `json:"academic_year_id"`
	Name           string    `json:"name"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	IsActive       bool      `json:"is_active"`
}

// CalendarEventResponse is the API representation of a calendar event.
type CalendarEventResponse struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	EventType      string    `json:"event_type"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	AcademicTermID uint      `json:"academic_term_id"`
	DepartmentID   *uint     `json:"department_id"`
	CourseID       *uint     `json:"course_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewAcademicYearResponse converts an AcademicYear model into a DTO.
func NewAcademicYearResponse(model models.AcademicYear) AcademicYearResponse {
	return AcademicYearResponse{
		ID:        model.ID,
		Name:      model.Name,
		StartDate: model.StartDate,
		EndDate:   model.EndDate,
		IsActive:  model.IsActive,
	}
}

// NewAcademicTermResponse converts an AcademicTerm model into a DTO.
func NewAcademicTermResponse(model models.AcademicTerm) AcademicTermResponse {
	return AcademicTermResponse{
		ID:             model.ID,
		AcademicYearID: model.AcademicYearID,
		Name:           model.Name,
		StartDate:      model.StartDate,
		EndDate:        model.EndDate,
		IsActive:       model.IsActive,
	}
}

// NewCalendarEventResponse converts a CalendarEvent model into a DTO.
func NewCalendarEventResponse(model models.CalendarEvent) CalendarEventResponse {
	return CalendarEventResponse{
		ID:             model.ID,
		Title:          model.Title,
		Description:    model.Description,
		EventType:      model.EventType,
		StartAt:        model.StartAt,
		EndAt:          model.EndAt,
		AcademicTermID: model.AcademicTermID,
		DepartmentID:   model.DepartmentID,
		CourseID:       model.CourseID,
		CreatedAt:      model.CreatedAt,
	}
}

// NewCalendarEventResponseSlice converts event models into DTOs.
func NewCalendarEventResponseSlice(events []models.CalendarEvent) []CalendarEventResponse {
	responses := make([]CalendarEventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, NewCalendarEventResponse(event))
	}

	return responses
}
