package models

import "time"

// User represents a platform account with a role-based permission level.
type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"size:255;not null" json:"name"`
	Email        string      `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role         string      `gorm:"size:20;not null" json:"role"`
	DepartmentID *uint       `json:"department_id"`
	PhoneNumber  string      `gorm:"size:32" json:"phone_number"`
	IsActive     bool        `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Department   *Department `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"department,omitempty"`
}

const (
	// RoleAdmin grants unrestricted access to every record.
	RoleAdmin = "ADMIN"
	// RoleHOD scopes access to the head's own department.
	RoleHOD = "HOD"
	// RoleTeacher scopes access to courses the user created or teaches.
	RoleTeacher = "TEACHER"
	// RoleStudent scopes access to enrolled courses and own submissions.
	RoleStudent = "STUDENT"
)

// IsElevated reports whether the role may manage assessments.
func (u User) IsElevated() bool {
	switch u.Role {
	case RoleAdmin, RoleHOD, RoleTeacher:
		return true
	}
	return false
}
