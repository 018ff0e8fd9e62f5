package dto

import (
	"time"

	"github.com/academica-app/academica-api/internal/models"
)

// ContentBlockPayload is one instructional block in create/update requests.
type ContentBlockPayload struct {
	Title       string `json:"title" validate:"required,max=255"`
	Body        string `json:"body" validate:"required"`
	ContentType string `json:"content_type" validate:"required,oneof=INSTRUCTION QUESTION RESOURCE"`
}

// QuestionOptionPayload is one MCQ option in create/update requests.
type QuestionOptionPayload struct {
	Text      string `json:"text" validate:"required,max=512"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionPayload is one exam question in create/update requests. Type
// defaults to MCQ when omitted.
type QuestionPayload struct {
	Type    string                  `json:"type" validate:"omitempty,oneof=MCQ SUBJECTIVE"`
	Prompt  string                  `json:"prompt" validate:"required,max=1024"`
	Marks   int                     `json:"marks" validate:"omitempty,gte=1"`
	Options []QuestionOptionPayload `json:"options" validate:"omitempty,dive"`
}

// AssessmentCreateRequest carries a new draft assessment.
type AssessmentCreateRequest struct {
	CourseID         uint                  `json:"course_id" validate:"required,gt=0"`
	Title            string                `json:"title" validate:"required,max=255"`
	Type             string                `json:"type" validate:"required,oneof=EXAM QUIZ ASSIGNMENT PROJECT"`
	Description      string                `json:"description"`
	Instructions     string                `json:"instructions"`
	Content          []ContentBlockPayload `json:"content" validate:"required,min=1,dive"`
	Questions        []QuestionPayload     `json:"questions" validate:"omitempty,dive"`
	DurationMinutes  int                   `json:"duration_minutes" validate:"omitempty,gt=0"`
	TotalMarks       int                   `json:"total_marks" validate:"omitempty,gt=0"`
	SubmissionFormat string                `json:"submission_format" validate:"required,oneof=ONLINE TEXT FILE TEXT_AND_FILE"`
	ScheduledAt      *time.Time            `json:"scheduled_at"`
	ClosesAt         *time.Time            `json:"closes_at"`
}

// AssessmentUpdateRequest carries a partial update of a draft assessment.
type AssessmentUpdateRequest struct {
	Title            *string               `json:"title" validate:"omitempty,max=255"`
	Description      *string               `json:"description"`
	Instructions     *string               `json:"instructions"`
	Content          []ContentBlockPayload `json:"content" validate:"omitempty,min=1,dive"`
	Questions        []QuestionPayload     `json:"questions" validate:"omitempty,dive"`
	DurationMinutes  *int                  `json:"duration_minutes" validate:"omitempty,gt=0"`
	TotalMarks       *int                  `json:"total_marks" validate:"omitempty,gt=0"`
	SubmissionFormat *string               `json:"submission_format" validate:"omitempty,oneof=ONLINE TEXT FILE TEXT_AND_FILE"`
}

// AssessmentApprovalRequest resolves a pending approval either way.
type AssessmentApprovalRequest struct {
	Approve *bool `json:"approve" validate:"required"`
}

// AssessmentScheduleRequest opens a submission window.
type AssessmentScheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	ClosesAt    time.Time `json:"closes_at" validate:"required"`
}

// AssessmentFilter narrows assessment listings.
type AssessmentFilter struct {
	CourseID *uint   `query:"course_id"`
	Type     *string `query:"type" validate:"omitempty,oneof=EXAM QUIZ ASSIGNMENT PROJECT"`
	Status   *string `query:"status" validate:"omitempty,oneof=DRAFT SUBMITTED APPROVED SCHEDULED IN_PROGRESS COMPLETED CANCELLED"`
}

// AssessmentResponse is the API representation of an assessment.
type AssessmentResponse struct {
	ID               uint                  `json:"id"`
	CourseID         uint                  `json:"course_id"`
	Title            string                `json:"title"`
	Type             string                `json:"type"`
	Description      string                `json:"description"`
	Instructions     string                `json:"instructions"`
	Content          []ContentBlockPayload `json:"content"`
	Questions        []QuestionResponse    `json:"questions"`
	DurationMinutes  int                   `json:"duration_minutes"`
	TotalMarks       int                   `json:"total_marks"`
	Status           string                `json:"status"`
	SubmissionFormat string                `json:"submission_format"`
	ScheduledAt      *time.Time            `json:"scheduled_at"`
	ClosesAt         *time.Time            `json:"closes_at"`
	CreatedByID      *uint                 `json:"created_by_id"`
	ApprovedByID     *uint                 `json:"approved_by_id"`
	ApprovedAt       *time.Time            `json:"approved_at"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
	Course           CourseLite            `json:"course"`
}

// QuestionResponse mirrors a stored question. Correct-answer flags are only
// exposed to graders; student-facing listings use the redacted form.
type QuestionResponse struct {
	Type    string                  `json:"type"`
	Prompt  string                  `json:"prompt"`
	Marks   int                     `json:"marks"`
	Options []QuestionOptionPayload `json:"options,omitempty"`
}

// CourseLite summarizes a course in nested responses.
type CourseLite struct {
	ID           uint   `json:"id"`
	Code         string `json:"code"`
	Title        string `json:"title"`
	DepartmentID uint   `json:"department_id"`
}

// NewAssessmentResponse converts an Assessment model into a DTO.
func NewAssessmentResponse(model models.Assessment) AssessmentResponse {
	response := AssessmentResponse{
		ID:               model.ID,
		CourseID:         model.CourseID,
		Title:            model.Title,
		Type:             model.Type,
		Description:      model.Description,
		Instructions:     model.Instructions,
		DurationMinutes:  model.DurationMinutes,
		TotalMarks:       model.TotalMarks,
		Status:           model.Status,
		SubmissionFormat: model.SubmissionFormat,
		ScheduledAt:      model.ScheduledAt,
		ClosesAt:         model.ClosesAt,
		CreatedByID:      model.CreatedByID,
		ApprovedByID:     model.ApprovedByID,
		ApprovedAt:       model.ApprovedAt,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}

	for _, block := range model.ContentBlocks() {
		response.Content = append(response.Content, ContentBlockPayload{
			Title:       block.Title,
			Body:        block.Body,
			ContentType: block.ContentType,
		})
	}

	for _, question := range model.QuestionList() {
		entry := QuestionResponse{
			Type:   question.Kind(),
			Prompt: question.Prompt,
			Marks:  question.MarksOrDefault(),
		}
		for _, option := range question.Options {
			entry.Options = append(entry.Options, QuestionOptionPayload{
				Text:      option.Text,
				IsCorrect: option.IsCorrect,
			})
		}
		response.Questions = append(response.Questions, entry)
	}

	if model.Course.ID != 0 {
		response.Course = CourseLite{
			ID:           model.Course.ID,
			Code:         model.Course.Code,
			Title:        model.Course.Title,
			DepartmentID: model.Course.DepartmentID,
		}
	}

	return response
}

// Redacted returns a copy with correct-answer flags stripped, for
// student-facing exam views.
func (r AssessmentResponse) Redacted() AssessmentResponse {
	if len(r.Questions) == 0 {
		return r
	}

	questions := make([]QuestionResponse, len(r.Questions))
	for i, question := range r.Questions {
		entry := question
		if len(question.Options) > 0 {
			options := make([]QuestionOptionPayload, len(question.Options))
			for j, option := range question.Options {
				options[j] = QuestionOptionPayload{Text: option.Text}
			}
			entry.Options = options
		}
		questions[i] = entry
	}
	r.Questions = questions
	return r
}

// NewAssessmentResponseSlice converts assessment models into DTOs.
func NewAssessmentResponseSlice(assessments []models.Assessment) []AssessmentResponse {
	responses := make([]AssessmentResponse, 0, len(assessments))
	for _, assessment := range assessments {
		responses = append(responses, NewAssessmentResponse(assessment))
	}

	return responses
}
