package dto

import "github.com/academica-app/academica-api/internal/models"

// NewUserLite converts a User model into the compact representation.
func NewUserLite(model models.User) UserLite {
	return UserLite{
		ID:    model.ID,
		Name:  model.Name,
		Email: model.Email,
		Role:  model.Role,
	}
}
