package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Assessment is a gradable unit of coursework with an approval lifecycle
// and submission rules derived from its type and format.
type Assessment struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	CourseID         uint           `gorm:"not null;index" json:"course_id"`
	Title            string         `gorm:"size:255;not null" json:"title"`
	Type             string         `gorm:"size:20;not null" json:"type"`
	Description      string         `gorm:"type:text" json:"description"`
	Instructions     string         `gorm:"type:text" json:"instructions"`
	Content          datatypes.JSON `gorm:"type:json" json:"-"`
	Questions        datatypes.JSON `gorm:"type:json" json:"-"`
	DurationMinutes  int            `gorm:"default:60" json:"duration_minutes"`
	TotalMarks       int            `gorm:"default:100" json:"total_marks"`
	Status           string         `gorm:"size:20;not null" json:"status"`
	SubmissionFormat string         `gorm:"size:20;not null" json:"submission_format"`
	ScheduledAt      *time.Time     `json:"scheduled_at"`
	ClosesAt         *time.Time     `json:"closes_at"`
	CreatedByID      *uint          `json:"created_by_id"`
	ApprovedByID     *uint          `json:"approved_by_id"`
	ApprovedAt       *time.Time     `json:"approved_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	Course           Course         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"course"`
}

const (
	// AssessmentTypeExam requires the online submission format and a question set.
	AssessmentTypeExam = "EXAM"
	// AssessmentTypeQuiz is a short assessment graded manually.
	AssessmentTypeQuiz = "QUIZ"
	// AssessmentTypeAssignment is regular coursework.
	AssessmentTypeAssignment = "ASSIGNMENT"
	// AssessmentTypeProject is long-form coursework.
	AssessmentTypeProject = "PROJECT"
)

const (
	// AssessmentStatusDraft is the initial state after creation.
	AssessmentStatusDraft = "DRAFT"
	// AssessmentStatusSubmitted means the assessment awaits approval.
	AssessmentStatusSubmitted = "SUBMITTED"
	// AssessmentStatusApproved means the assessment may be scheduled.
	AssessmentStatusApproved = "APPROVED"
	// AssessmentStatusScheduled means a submission window has been set.
	AssessmentStatusScheduled = "SCHEDULED"
	// AssessmentStatusInProgress means the window is currently open.
	AssessmentStatusInProgress = "IN_PROGRESS"
	// AssessmentStatusCompleted means the window has closed.
	AssessmentStatusCompleted = "COMPLETED"
	// AssessmentStatusCancelled is the terminal aborted state.
	AssessmentStatusCancelled = "CANCELLED"
)

const (
	// SubmissionFormatOnline collects structured answers to the question set.
	SubmissionFormatOnline = "ONLINE"
	// SubmissionFormatText collects a free-text response.
	SubmissionFormatText = "TEXT"
	// SubmissionFormatFile collects an uploaded file.
	SubmissionFormatFile = "FILE"
	// SubmissionFormatTextAndFile collects both a text response and a file.
	SubmissionFormatTextAndFile = "TEXT_AND_FILE"
)

// ContentBlock is one instructional block attached to an assessment.
type ContentBlock struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	ContentType string `json:"content_type"`
}

const (
	// ContentTypeInstruction holds instructions shown before the work starts.
	ContentTypeInstruction = "INSTRUCTION"
	// ContentTypeQuestion holds an inline prose question.
	ContentTypeQuestion = "QUESTION"
	// ContentTypeResource holds supporting reference material.
	ContentTypeResource = "RESOURCE"
)

// QuestionOption is one selectable choice of an MCQ question.
type QuestionOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Question is one entry of an exam's ordered question set. MCQ questions
// carry options with exactly one marked correct; subjective questions
// carry none and are graded manually.
type Question struct {
	Type    string           `json:"type"`
	Prompt  string           `json:"prompt"`
	Marks   int              `json:"marks"`
	Options []QuestionOption `json:"options,omitempty"`
}

const (
	// QuestionTypeMCQ is an objective multiple-choice question.
	QuestionTypeMCQ = "MCQ"
	// QuestionTypeSubjective is a free-form question graded manually.
	QuestionTypeSubjective = "SUBJECTIVE"
)

// Kind resolves the question type, defaulting absent values to MCQ.
func (q Question) Kind() string {
	if q.Type == "" {
		return QuestionTypeMCQ
	}
	return q.Type
}

// MarksOrDefault resolves the marks awarded for a correct answer.
func (q Question) MarksOrDefault() int {
	if q.Marks <= 0 {
		return 1
	}
	return q.Marks
}

// SetQuestions serializes the question set into the JSON storage column.
func (a *Assessment) SetQuestions(questions []Question) {
	data, err := json.Marshal(questions)
	if err != nil {
		a.Questions = datatypes.JSON([]byte("[]"))
		return
	}
	a.Questions = datatypes.JSON(data)
}

// QuestionList deserializes the stored question set.
func (a Assessment) QuestionList() []Question {
	if len(a.Questions) == 0 {
		return nil
	}

	var questions []Question
	if err := json.Unmarshal(a.Questions, &questions); err != nil {
		return nil
	}

	return questions
}

// SetContent serializes the content blocks into the JSON storage column.
func (a *Assessment) SetContent(blocks []ContentBlock) {
	data, err := json.Marshal(blocks)
	if err != nil {
		a.Content = datatypes.JSON([]byte("[]"))
		return
	}
	a.Content = datatypes.JSON(data)
}

// ContentBlocks deserializes the stored content blocks.
func (a Assessment) ContentBlocks() []ContentBlock {
	if len(a.Content) == 0 {
		return nil
	}

	var blocks []ContentBlock
	if err := json.Unmarshal(a.Content, &blocks); err != nil {
		return nil
	}

	return blocks
}

// WindowOpenAt reports whether the submission window admits a submission at
// the given instant. Unset bounds do not constrain.
func (a Assessment) WindowOpenAt(reference time.Time) bool {
	if a.ScheduledAt != nil && reference.Before(*a.ScheduledAt) {
		return false
	}
	if a.ClosesAt != nil && reference.After(*a.ClosesAt) {
		return false
	}
	return true
}

// IsTerminal reports whether no further lifecycle transition is allowed.
func (a Assessment) IsTerminal() bool {
	return a.Status == AssessmentStatusCompleted || a.Status == AssessmentStatusCancelled
}
