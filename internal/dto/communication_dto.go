package dto

import (
	"time"

	"github.com/academica-app/academica-api/internal/models"
)

// AnnouncementCreateRequest carries a new announcement draft.
type AnnouncementCreateRequest struct {
	Title        string     `json:"title" validate:"required,max=255"`
	Message      string     `json:"message" validate:"required"`
	Audience     string     `json:"audience" validate:"required,oneof=ALL DEPARTMENT COURSE"`
	DepartmentID *uint      `json:"department_id" validate:"omitempty,gt=0"`
	CourseID     *uint      `json:"course_id" validate:"omitempty,gt=0"`
	ScheduledFor *time.Time `json:"scheduled_for"`
}

// AnnouncementResponse is the API representation of an announcement.
type AnnouncementResponse struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Message      string     `json:"message"`
	Audience     string     `json:"audience"`
	Status       string     `json:"status"`
	DepartmentID *uint      `json:"department_id"`
	CourseID     *uint      `json:"course_id"`
	ScheduledFor *time.Time `json:"scheduled_for"`
	SentAt       *time.Time `json:"sent_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NotificationCreateRequest targets a notification at one user.
type NotificationCreateRequest struct {
	UserID  uint   `json:"user_id" validate:"required,gt=0"`
	Subject string `json:"subject" validate:"required,max=255"`
	Body    string `json:"body"`
}

// NotificationResponse is the API representation of a notification.
type NotificationResponse struct {
	ID        uint       `json:"id"`
	UserID    uint       `json:"user_id"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewAnnouncementResponse converts an Announcement model into a DTO.
func NewAnnouncementResponse(model models.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:           model.ID,
		Title:        model.Title,
		Message:      model.Message,
		Audience:     model.Audience,
		Status:       model.Status,
		DepartmentID: model.DepartmentID,
		CourseID:     model.CourseID,
		ScheduledFor: model.ScheduledFor,
		SentAt:       model.SentAt,
		CreatedAt:    model.CreatedAt,
	}
}

// NewAnnouncementResponseSlice converts announcement models into DTOs.
func NewAnnouncementResponseSlice(announcements []models.Announcement) []AnnouncementResponse {
	responses := make([]AnnouncementResponse, 0, len(announcements))
	for _, announcement := range announcements {
		responses = append(responses, NewAnnouncementResponse(announcement))
	}

	return responses
}

// NewNotificationResponse converts a Notification model into a DTO.
func NewNotificationResponse(model models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        model.ID,
		UserID:    model.UserID,
		Subject:   model.Subject,
		Body:      model.Body,
		IsRead:    model.IsRead,
		ReadAt:    model.ReadAt,
		CreatedAt: model.CreatedAt,
	}
}

// NewNotificationResponseSlice converts notification models into DTOs.
func NewNotificationResponseSlice(notifications []models.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, NewNotificationResponse(notification))
	}

	return responses
}
