package models

import "time"

// DocumentCategory groups shared documents.
type DocumentCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:120;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Document is an uploaded file shared with a department or course.
type Document struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	Title        string            `gorm:"size:255;not null" json:"title"`
	Description  string            `gorm:"type:text" json:"description"`
	CategoryID   *uint             `json:"category_id"`
	FileURL      string            `gorm:"size:512;not null" json:"file_url"`
	ContentType  string            `gorm:"size:128" json:"content_type"`
	SizeBytes    int64             `json:"size_bytes"`
	OwnerID      uint              `gorm:"not null;index" json:"owner_id"`
	DepartmentID *uint             `json:"department_id"`
	CourseID     *uint             `json:"course_id"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Category     *DocumentCategory `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
}
