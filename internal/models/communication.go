package models

import "time"

// Announcement is a message broadcast to an audience. Delivery (email, push)
// is handled by external collaborators; the backend records and publishes it.
type Announcement struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Message      string     `gorm:"type:text;not null" json:"message"`
	Audience     string     `gorm:"size:20;not null" json:"audience"`
	Status       string     `gorm:"size:20;not null" json:"status"`
	DepartmentID *uint      `json:"department_id"`
	CourseID     *uint      `json:"course_id"`
	ScheduledFor *time.Time `json:"scheduled_for"`
	SentAt       *time.Time `json:"sent_at"`
	CreatedByID  *uint      `json:"created_by_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

const (
	// AudienceAll targets every active user.
	AudienceAll = "ALL"
	// AudienceDepartment targets members of one department.
	AudienceDepartment = "DEPARTMENT"
	// AudienceCourse targets students enrolled in one course.
	AudienceCourse = "COURSE"
)

const (
	// AnnouncementStatusDraft is the initial unsent state.
	AnnouncementStatusDraft = "DRAFT"
	// AnnouncementStatusScheduled means the announcement awaits its send time.
	AnnouncementStatusScheduled = "SCHEDULED"
	// AnnouncementStatusSent means the announcement was published.
	AnnouncementStatusSent = "SENT"
	// AnnouncementStatusCancelled means the announcement was withdrawn.
	AnnouncementStatusCancelled = "CANCELLED"
)

// Notification is a per-user inbox entry.
type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Subject   string     `gorm:"size:255;not null" json:"subject"`
	Body      string     `gorm:"type:text" json:"body"`
	IsRead    bool       `gorm:"not null;default:false" json:"is_read"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
