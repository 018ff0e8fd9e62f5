package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/models"
	"github.com/academica-app/academica-api/internal/repository"
)

// studentVisibleStatuses are the lifecycle states students may observe.
// Drafts and assessments still in the approval pipeline stay hidden.
var studentVisibleStatuses = []string{
	models.AssessmentStatusApproved,
	models.AssessmentStatusScheduled,
	models.AssessmentStatusInProgress,
	models.AssessmentStatusCompleted,
}

// VisibilityService resolves which assessments and submissions an actor may
// see. Admins see everything, heads of department see their department,
// teachers see what they created or teach, students see published
// assessments for their courses and only their own submissions. Responses
// for students never include answer keys.
type VisibilityService interface {
	ListAssessments(ctx context.Context, actor Identity, filter dto.AssessmentFilter) ([]dto.AssessmentResponse, error)
	GetAssessment(ctx context.Context, id uint, actor Identity) (dto.AssessmentResponse, error)
	ListSubmissions(ctx context.Context, actor Identity, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
	GetSubmission(ctx context.Context, id uint, actor Identity) (dto.SubmissionResponse, error)
}

type visibilityService struct {
	assessments repository.AssessmentRepository
	submissions repository.SubmissionRepository
	courses     repository.CourseRepository
	logger      zerolog.Logger
}

// NewVisibilityService constructs the visibility resolver.
func NewVisibilityService(assessmentRepo repository.AssessmentRepository, submissionRepo repository.SubmissionRepository, courseRepo repository.CourseRepository, logger zerolog.Logger) VisibilityService {
	return &visibilityService{
		assessments: assessmentRepo,
		submissions: submissionRepo,
		courses:     courseRepo,
		logger:      logger.With().Str("component", "visibility_service").Logger(),
	}
}

func (s *visibilityService) ListAssessments(ctx context.Context, actor Identity, filter dto.AssessmentFilter) ([]dto.AssessmentResponse, error) {
	repoFilter := repository.AssessmentFilter{
		CourseID: filter.CourseID,
		Type:     filter.Type,
		Status:   filter.Status,
	}

	switch actor.Role {
	case models.RoleAdmin:
		assessments, err := s.assessments.List(ctx, repoFilter)
		if err != nil {
			return nil, err
		}
		return dto.NewAssessmentResponseSlice(assessments), nil

	case models.RoleHOD:
		if actor.DepartmentID == nil {
			return []dto.AssessmentResponse{}, nil
		}
		assessments, err := s.assessments.ListByDepartment(ctx, *actor.DepartmentID, repoFilter)
		if err != nil {
			return nil, err
		}
		return dto.NewAssessmentResponseSlice(assessments), nil

	case models.RoleTeacher:
		assessments, err := s.assessments.ListByTeacher(ctx, actor.ID, repoFilter)
		if err != nil {
			return nil, err
		}
		return dto.NewAssessmentResponseSlice(assessments), nil

	case models.RoleStudent:
		assessments, err := s.assessments.ListVisibleToStudent(ctx, actor.ID, actor.DepartmentID, studentVisibleStatuses, repoFilter)
		if err != nil {
			return nil, err
		}
		responses := make([]dto.AssessmentResponse, 0, len(assessments))
		for _, assessment := range assessments {
			responses = append(responses, dto.NewAssessmentResponse(assessment).Redacted())
		}
		return responses, nil

	default:
		return nil, ErrForbidden
	}
}

func (s *visibilityService) GetAssessment(ctx context.Context, id uint, actor Identity) (dto.AssessmentResponse, error) {
	assessment, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssessmentResponse{}, ErrAssessmentNotFound
		}
		return dto.AssessmentResponse{}, err
	}

	allowed, err := s.canViewAssessment(ctx, assessment, actor)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}
	if !allowed {
		// Hidden resources read as absent so probing cannot confirm IDs.
		return dto.AssessmentResponse{}, ErrAssessmentNotFound
	}

	response := dto.NewAssessmentResponse(assessment)
	if actor.Role == models.RoleStudent {
		response = response.Redacted()
	}
	return response, nil
}

func (s *visibilityService) canViewAssessment(ctx context.Context, assessment models.Assessment, actor Identity) (bool, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return true, nil

	case models.RoleHOD:
		return actor.DepartmentID != nil && assessment.Course.DepartmentID == *actor.DepartmentID, nil

	case models.RoleTeacher:
		if assessment.CreatedByID != nil && *assessment.CreatedByID == actor.ID {
			return true, nil
		}
		return s.courses.IsAssignedTeacher(ctx, actor.ID, assessment.CourseID)

	case models.RoleStudent:
		if !statusVisibleToStudents(assessment.Status) {
			return false, nil
		}
		if actor.DepartmentID != nil && assessment.Course.DepartmentID == *actor.DepartmentID {
			return true, nil
		}
		return s.courses.IsEnrolled(ctx, actor.ID, assessment.CourseID)

	default:
		return false, nil
	}
}

func (s *visibilityService) ListSubmissions(ctx context.Context, actor Identity, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	repoFilter := repository.SubmissionFilter{
		AssessmentID: filter.AssessmentID,
		StudentID:    filter.StudentID,
		Status:       filter.Status,
	}

	switch actor.Role {
	case models.RoleAdmin:
		submissions, err := s.submissions.List(ctx, repoFilter)
		if err != nil {
			return nil, err
		}
		return dto.NewSubmissionResponseSlice(submissions), nil

	case models.RoleHOD:
		if actor.DepartmentID == nil {
			return []dto.SubmissionResponse{}, nil
		}
		submissions, err := s.submissions.ListByDepartment(ctx, *actor.DepartmentID, repoFilter)
		if err != nil {
			return nil, err
		}
		return dto.NewSubmissionResponseSlice(submissions), nil

	case models.RoleTeacher:
		submissions, err := s.submissions.ListByTeacher(ctx, actor.ID, repoFilter)
		if err != nil {
			return nil, err
		}
		return dto.NewSubmissionResponseSlice(submissions), nil

	case models.RoleStudent:
		studentID := actor.ID
		repoFilter.StudentID = &studentID
		submissions, err := s.submissions.List(ctx, repoFilter)
		if err != nil {
			return nil, err
		}
		return dto.NewSubmissionResponseSlice(submissions), nil

	default:
		return nil, ErrForbidden
	}
}

func (s *visibilityService) GetSubmission(ctx context.Context, id uint, actor Identity) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	allowed, err := s.canViewSubmission(ctx, submission, actor)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if !allowed {
		return dto.SubmissionResponse{}, ErrSubmissionNotFound
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *visibilityService) canViewSubmission(ctx context.Context, submission models.AssessmentSubmission, actor Identity) (bool, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return true, nil

	case models.RoleHOD:
		if actor.DepartmentID == nil {
			return false, nil
		}
		return submission.Assessment.Course.DepartmentID == *actor.DepartmentID, nil

	case models.RoleTeacher:
		createdBy := submission.Assessment.CreatedByID
		if createdBy != nil && *createdBy == actor.ID {
			return true, nil
		}
		return s.courses.IsAssignedTeacher(ctx, actor.ID, submission.Assessment.CourseID)

	case models.RoleStudent:
		return submission.StudentID == actor.ID, nil

	default:
		return false, nil
	}
}

func statusVisibleToStudents(status string) bool {
	for _, visible := range studentVisibleStatuses {
		if status == visible {
			return true
		}
	}
	return false
}
