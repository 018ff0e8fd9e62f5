package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// AssessmentSubmission is one student's response to one assessment. The
// (assessment, student) pair is unique; content fields are immutable after
// creation and only score, feedback and status change during grading.
type AssessmentSubmission struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	AssessmentID uint           `gorm:"not null;uniqueIndex:idx_assessment_student" json:"assessment_id"`
	StudentID    uint           `gorm:"not null;uniqueIndex:idx_assessment_student" json:"student_id"`
	Status       string         `gorm:"size:20;not null" json:"status"`
	Score        *float64       `json:"score"`
	Feedback     string         `gorm:"type:text" json:"feedback"`
	GradedByID   *uint          `json:"graded_by_id"`
	GradedAt     *time.Time     `json:"graded_at"`
	TextResponse string         `gorm:"type:text" json:"text_response"`
	FileURL      string         `gorm:"size:512" json:"file_url"`
	Answers      datatypes.JSON `gorm:"type:json" json:"-"`
	SubmittedAt  time.Time      `json:"submitted_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Assessment   Assessment     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assessment"`
	Student      User           `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}

const (
	// SubmissionStatusSubmitted indicates receipt; subjective parts may still
	// await manual grading even when a partial objective score is recorded.
	SubmissionStatusSubmitted = "SUBMITTED"
	// SubmissionStatusGraded indicates a final score. Terminal.
	SubmissionStatusGraded = "GRADED"
	// SubmissionStatusLate flags a submission accepted past the deadline.
	SubmissionStatusLate = "LATE"
)

// IsGraded reports whether the submission carries a final score.
func (s AssessmentSubmission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}

// Answer is one entry of a submission's answer sequence, aligned by index
// with the assessment's questions. MCQ answers carry a selected option
// index, subjective answers carry free text; either may be absent.
type Answer struct {
	Selected *int
	Text     *string
}

// MarshalJSON renders the answer as the wire value the client sent: an
// option index, a string, or null.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Selected != nil {
		return json.Marshal(*a.Selected)
	}
	if a.Text != nil {
		return json.Marshal(*a.Text)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts the mixed wire forms: integers select an MCQ
// option, strings answer subjective questions, null leaves the question
// unanswered.
func (a *Answer) UnmarshalJSON(data []byte) error {
	*a = Answer{}

	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		if v != float64(int(v)) {
			return fmt.Errorf("answer index must be an integer")
		}
		selected := int(v)
		a.Selected = &selected
		return nil
	case string:
		text := v
		a.Text = &text
		return nil
	default:
		return fmt.Errorf("unsupported answer value")
	}
}

// SetAnswers serializes the answer sequence into the JSON storage column.
func (s *AssessmentSubmission) SetAnswers(answers []Answer) {
	data, err := json.Marshal(answers)
	if err != nil {
		s.Answers = datatypes.JSON([]byte("[]"))
		return
	}
	s.Answers = datatypes.JSON(data)
}

// AnswerList deserializes the stored answer sequence.
func (s AssessmentSubmission) AnswerList() []Answer {
	if len(s.Answers) == 0 {
		return nil
	}

	var answers []Answer
	if err := json.Unmarshal(s.Answers, &answers); err != nil {
		return nil
	}

	return answers
}
