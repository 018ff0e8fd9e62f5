package service

import "github.com/academica-app/academica-api/internal/models"

// Identity is the authenticated principal attached to each request by the
// auth middleware: who is acting, with which role, in which department.
type Identity struct {
	ID           uint
	Role         string
	DepartmentID *uint
}

// IsElevated reports whether the identity may manage assessments.
func (i Identity) IsElevated() bool {
	switch i.Role {
	case models.RoleAdmin, models.RoleHOD, models.RoleTeacher:
		return true
	}
	return false
}
