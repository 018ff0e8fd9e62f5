package dto

import (
	"time"

	"github.com/academica-app/academica-api/internal/models"
)

// DocumentCreateRequest carries document metadata; the file itself arrives
// as a multipart part alongside it.
type DocumentCreateRequest struct {
	Title        string `form:"title" validate:"required,max=255"`
	Description  string `form:"description"`
	CategoryID   *uint  `form:"category_id" validate:"omitempty,gt=0"`
	DepartmentID *uint  `form:"department_id" validate:"omitempty,gt=0"`
	CourseID     *uint  `form:"course_id" validate:"omitempty,gt=0"`
}

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	CategoryID   *uint `query:"category_id"`
	DepartmentID *uint `query:"department_id"`
	CourseID     *uint `query:"course_id"`
	OwnerID      *uint `query:"owner_id"`
}

// DocumentCategoryCreateRequest carries a new document category.
type DocumentCategoryCreateRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description"`
}

// DocumentResponse is the API representation of a shared document.
type DocumentResponse struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CategoryID   *uint     `json:"category_id"`
	FileURL      string    `json:"file_url"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	OwnerID      uint      `json:"owner_id"`
	DepartmentID *uint     `json:"department_id"`
	CourseID     *uint     `json:"course_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// DocumentCategoryResponse is the API representation of a category.
type DocumentCategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewDocumentResponse converts a Document model into a DTO.
func NewDocumentResponse(model models.Document) DocumentResponse {
	return DocumentResponse{
		ID:           model.ID,
		Title:        model.Title,
		Description:  model.Description,
		CategoryID:   model.CategoryID,
		FileURL:      model.FileURL,
		ContentType:  model.ContentType,
		SizeBytes:    model.SizeBytes,
		OwnerID:      model.OwnerID,
		DepartmentID: model.DepartmentID,
		CourseID:     model.CourseID,
		CreatedAt:    model.CreatedAt,
	}
}

// NewDocumentResponseSlice converts document models into DTOs.
func NewDocumentResponseSlice(documents []models.Document) []DocumentResponse {
	responses := make([]DocumentResponse, 0, len(documents))
	for _, document := range documents {
		responses = append(responses, NewDocumentResponse(document))
	}

	return responses
}

// NewDocumentCategoryResponse converts a category model into a DTO.
func NewDocumentCategoryResponse(model models.DocumentCategory) DocumentCategoryResponse {
	return DocumentCategoryResponse{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
	}
}
