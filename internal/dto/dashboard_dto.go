package dto

import "time"

// StudentDashboardResponse aggregates a student's standing across visible
// assessments.
type StudentDashboardResponse struct {
	Summary  DashboardSummary     `json:"summary"`
	Upcoming []UpcomingAssessment `json:"upcoming"`
	Recent   []SubmissionSnapshot `json:"recent"`
}

// DashboardSummary holds aggregate counters for the dashboard header.
type DashboardSummary struct {
	VisibleAssessments int     `json:"visible_assessments"`
	Submitted          int     `json:"submitted"`
	Graded             int     `json:"graded"`
	Pending            int     `json:"pending"`
	AverageScore       float64 `json:"average_score"`
}

// UpcomingAssessment lists an assessment whose window has not yet closed.
type UpcomingAssessment struct {
	AssessmentID     uint       `json:"assessment_id"`
	Title            string     `json:"title"`
	Type             string     `json:"type"`
	SubmissionFormat string     `json:"submission_format"`
	ScheduledAt      *time.Time `json:"scheduled_at"`
	ClosesAt         *time.Time `json:"closes_at"`
}

// SubmissionSnapshot summarizes one of the student's recent submissions.
type SubmissionSnapshot struct {
	SubmissionID uint      `json:"submission_id"`
	AssessmentID uint      `json:"assessment_id"`
	Title        string    `json:"title"`
	Status       string    `json:"status"`
	Score        *float64  `json:"score"`
	SubmittedAt  time.Time `json:"submitted_at"`
}
