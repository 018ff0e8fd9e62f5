package dto

import (
	"time"

	"github.com/academica-app/academica-api/internal/models"
)

// SubmissionCreateRequest carries a student's response to an assessment.
// Text, file and answers are interpreted according to the assessment's
// submission format; extraneous fields are cleared by the engine.
type SubmissionCreateRequest struct {
	AssessmentID uint            `json:"assessment_id" form:"assessment_id" validate:"required,gt=0"`
	TextResponse string          `json:"text_response" form:"text_response"`
	Answers      []models.Answer `json:"answers"`
}

// GradeSubmissionRequest applies a manual score and feedback.
type GradeSubmissionRequest struct {
	Score    float64 `json:"score" validate:"gte=0"`
	Feedback string  `json:"feedback"`
}

// SubmissionFilter narrows submission listings.
type SubmissionFilter struct {
	AssessmentID *uint   `query:"assessment_id"`
	StudentID    *uint   `query:"student_id"`
	Status       *string `query:"status" validate:"omitempty,oneof=SUBMITTED GRADED LATE"`
}

// SubmissionResponse is the API representation of a submission.
type SubmissionResponse struct {
	ID           uint            `json:"id"`
	AssessmentID uint            `json:"assessment_id"`
	StudentID    uint            `json:"student_id"`
	Status       string          `json:"status"`
	Score        *float64        `json:"score"`
	Feedback     string          `json:"feedback"`
	GradedByID   *uint           `json:"graded_by_id"`
	GradedAt     *time.Time      `json:"graded_at"`
	TextResponse string          `json:"text_response"`
	FileURL      string          `json:"file_url"`
	Answers      []models.Answer `json:"answers"`
	SubmittedAt  time.Time       `json:"submitted_at"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Assessment   AssessmentLite  `json:"assessment"`
	Student      UserLite        `json:"student"`
}

// AssessmentLite summarizes an assessment in submission responses.
type AssessmentLite struct {
	ID               uint   `json:"id"`
	Title            string `json:"title"`
	Type             string `json:"type"`
	SubmissionFormat string `json:"submission_format"`
	CourseID         uint   `json:"course_id"`
}

// UserLite summarizes a user without exposing full profile data.
type UserLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// NewSubmissionResponse converts an AssessmentSubmission model into a DTO.
func NewSubmissionResponse(model models.AssessmentSubmission) SubmissionResponse {
	response := SubmissionResponse{
		ID:           model.ID,
		AssessmentID: model.AssessmentID,
		StudentID:    model.StudentID,
		Status:       model.Status,
		Score:        model.Score,
		Feedback:     model.Feedback,
		GradedByID:   model.GradedByID,
		GradedAt:     model.GradedAt,
		TextResponse: model.TextResponse,
		FileURL:      model.FileURL,
		Answers:      model.AnswerList(),
		SubmittedAt:  model.SubmittedAt,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}

	if model.Assessment.ID != 0 {
		response.Assessment = AssessmentLite{
			ID:               model.Assessment.ID,
			Title:            model.Assessment.Title,
			Type:             model.Assessment.Type,
			SubmissionFormat: model.Assessment.SubmissionFormat,
			CourseID:         model.Assessment.CourseID,
		}
	}

	if model.Student.ID != 0 {
		response.Student = UserLite{
			ID:    model.Student.ID,
			Name:  model.Student.Name,
			Email: model.Student.Email,
			Role:  model.Student.Role,
		}
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.AssessmentSubmission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
