package dto

import (
	"time"

	"github.com/academica-app/academica-api/internal/models"
)

// DepartmentCreateRequest carries a new department.
type DepartmentCreateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Code        string `json:"code" validate:"required,max=50"`
	Description string `json:"description"`
	HeadID      *uint  `json:"head_id" validate:"omitempty,gt=0"`
}

// DepartmentUpdateRequest carries a partial department update.
type DepartmentUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description"`
	HeadID      *uint   `json:"head_id" validate:"omitempty,gt=0"`
}

// DepartmentResponse is the API representation of a department.
type DepartmentResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	HeadID      *uint     `json:"head_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDepartmentResponse converts a Department model into a DTO.
func NewDepartmentResponse(model models.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          model.ID,
		Name:        model.Name,
		Code:        model.Code,
		Description: model.Description,
		HeadID:      model.HeadID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewDepartmentResponseSlice converts department models into DTOs.
func NewDepartmentResponseSlice(departments []models.Department) []DepartmentResponse {
	responses := make([]DepartmentResponse, 0, len(departments))
	for _, department := range departments {
		responses = append(responses, NewDepartmentResponse(department))
	}

	return responses
}
