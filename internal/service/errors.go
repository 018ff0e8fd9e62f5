package service

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the assessment workflow. None is retryable:
// each one is a deterministic rejection of an invalid request.
var (
	// ErrAssessmentNotFound indicates the assessment could not be located.
	ErrAssessmentNotFound = errors.New("assessment not found")
	// ErrSubmissionNotFound indicates the submission could not be located.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrCourseNotFound indicates the referenced course does not exist.
	ErrCourseNotFound = errors.New("course not found")
	// ErrDepartmentNotFound indicates the department could not be located.
	ErrDepartmentNotFound = errors.New("department not found")
	// ErrDocumentNotFound indicates the document could not be located.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrNotificationNotFound indicates the notification could not be located.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrAnnouncementNotFound indicates the announcement could not be located.
	ErrAnnouncementNotFound = errors.New("announcement not found")

	// ErrSubmissionWindowClosed rejects submissions outside the assessment's
	// scheduled window.
	ErrSubmissionWindowClosed = errors.New("submission window is closed")
	// ErrDuplicateSubmission rejects a second submission for the same
	// (assessment, student) pair.
	ErrDuplicateSubmission = errors.New("submission already exists for this assessment")
	// ErrInvalidStatusTransition rejects a lifecycle call from an
	// incompatible status.
	ErrInvalidStatusTransition = errors.New("invalid assessment status transition")
	// ErrAlreadyEnrolled rejects a duplicate course enrollment.
	ErrAlreadyEnrolled = errors.New("student already enrolled in this course")
	// ErrScoreExceedsTotal rejects a grade above the assessment's total marks.
	ErrScoreExceedsTotal = errors.New("score exceeds assessment total marks")
	// ErrForbidden rejects access to a resource outside the actor's scope.
	ErrForbidden = errors.New("access to this resource is not permitted")
)

// ValidationError reports a field-level domain validation failure. It is
// distinct from struct-tag validation at the DTO boundary: these are the
// business rules the engine checks against loaded state.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a domain validation failure.
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
