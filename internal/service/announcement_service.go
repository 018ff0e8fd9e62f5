package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/models"
	"github.com/academica-app/academica-api/internal/repository"
)

// AnnouncementService drafts announcements and fans them out to their
// audience as per-user notifications. Message bodies are sanitized before
// persisting so stored content is always safe to render.
type AnnouncementService interface {
	List(ctx context.Context) ([]dto.AnnouncementResponse, error)
	Get(ctx context.Context, id uint) (dto.AnnouncementResponse, error)
	Create(ctx context.Context, payload dto.AnnouncementCreateRequest, actor Identity) (dto.AnnouncementResponse, error)
	Send(ctx context.Context, id uint, actor Identity) (dto.AnnouncementResponse, error)
	Cancel(ctx context.Context, id uint) (dto.AnnouncementResponse, error)
}

type announcementService struct {
	announcements repository.AnnouncementRepository
	notifications repository.NotificationRepository
	users         repository.UserRepository
	courses       repository.CourseRepository
	validator     *validator.Validate
	events        EventPublisher
	policy        *bluemonday.Policy
	logger        zerolog.Logger
	now           func() time.Time
}

// NewAnnouncementService constructs the announcement service.
func NewAnnouncementService(announcementRepo repository.AnnouncementRepository, notificationRepo repository.NotificationRepository, userRepo repository.UserRepository, courseRepo repository.CourseRepository, validate *validator.Validate, events EventPublisher, logger zerolog.Logger) AnnouncementService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("p", "strong", "em", "a", "ul", "ol", "li", "br")
	policy.AllowAttrs("href", "title", "target").OnElements("a")

	return &announcementService{
		announcements: announcementRepo,
		notifications: notificationRepo,
		users:         userRepo,
		courses:       courseRepo,
		validator:     validate,
		events:        events,
		policy:        policy,
		logger:        logger.With().Str("component", "announcement_service").Logger(),
		now:           time.Now,
	}
}

func (s *announcementService) List(ctx context.Context) ([]dto.AnnouncementResponse, error) {
	announcements, err := s.announcements.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewAnnouncementResponseSlice(announcements), nil
}

func (s *announcementService) Get(ctx context.Context, id uint) (dto.AnnouncementResponse, error) {
	announcement, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AnnouncementResponse{}, ErrAnnouncementNotFound
		}
		return dto.AnnouncementResponse{}, err
	}

	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *announcementService) Create(ctx context.Context, payload dto.AnnouncementCreateRequest, actor Identity) (dto.AnnouncementResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	switch payload.Audience {
	case models.AudienceDepartment:
		if payload.DepartmentID == nil {
			return dto.AnnouncementResponse{}, newValidationError("department_id", "department audience requires a department")
		}
	case models.AudienceCourse:
		if payload.CourseID == nil {
			return dto.AnnouncementResponse{}, newValidationError("course_id", "course audience requires a course")
		}
	}

	message := strings.TrimSpace(s.policy.Sanitize(payload.Message))
	if message == "" {
		return dto.AnnouncementResponse{}, newValidationError("message", "message empty after sanitization")
	}

	status := models.AnnouncementStatusDraft
	if payload.ScheduledFor != nil {
		if payload.ScheduledFor.Before(s.now()) {
			return dto.AnnouncementResponse{}, newValidationError("scheduled_for", "scheduled time must be in the future")
		}
		status = models.AnnouncementStatusScheduled
	}

	createdBy := actor.ID
	announcement := models.Announcement{
		Title:        strings.TrimSpace(payload.Title),
		Message:      message,
		Audience:     payload.Audience,
		Status:       status,
		DepartmentID: payload.DepartmentID,
		CourseID:     payload.CourseID,
		ScheduledFor: payload.ScheduledFor,
		CreatedByID:  &createdBy,
	}

	if err := s.announcements.Create(ctx, &announcement); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	s.logger.Info().
		Uint("announcement_id", announcement.ID).
		Str("audience", announcement.Audience).
		Msg("announcement created")

	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *announcementService) Send(ctx context.Context, id uint, actor Identity) (dto.AnnouncementResponse, error) {
	announcement, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AnnouncementResponse{}, ErrAnnouncementNotFound
		}
		return dto.AnnouncementResponse{}, err
	}

	if announcement.Status == models.AnnouncementStatusSent || announcement.Status == models.AnnouncementStatusCancelled {
		return dto.AnnouncementResponse{}, ErrInvalidStatusTransition
	}

	recipients, err := s.resolveRecipients(ctx, announcement)
	if err != nil {
		return dto.AnnouncementResponse{}, err
	}

	for _, userID := range recipients {
		notification := models.Notification{
			UserID:  userID,
			Subject: announcement.Title,
			Body:    announcement.Message,
		}
		if err := s.notifications.Create(ctx, &notification); err != nil {
			s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to create notification")
		}
	}

	announcement.Status = models.AnnouncementStatusSent
	sentAt := s.now()
	announcement.SentAt = &sentAt

	if err := s.announcements.Update(ctx, &announcement); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	if s.events != nil {
		s.events.Publish(ctx, "announcement.sent", map[string]interface{}{
			"announcement_id": announcement.ID,
			"audience":        announcement.Audience,
			"recipients":      len(recipients),
			"sent_by":         actor.ID,
		})
	}

	s.logger.Info().
		Uint("announcement_id", announcement.ID).
		Int("recipients", len(recipients)).
		Msg("announcement sent")

	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *announcementService) Cancel(ctx context.Context, id uint) (dto.AnnouncementResponse, error) {
	announcement, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AnnouncementResponse{}, ErrAnnouncementNotFound
		}
		return dto.AnnouncementResponse{}, err
	}

	if announcement.Status == models.AnnouncementStatusSent {
		return dto.AnnouncementResponse{}, ErrInvalidStatusTransition
	}

	announcement.Status = models.AnnouncementStatusCancelled
	if err := s.announcements.Update(ctx, &announcement); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *announcementService) resolveRecipients(ctx context.Context, announcement models.Announcement) ([]uint, error) {
	switch announcement.Audience {
	case models.AudienceAll:
		users, err := s.users.List(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]uint, 0, len(users))
		for _, user := range users {
			ids = append(ids, user.ID)
		}
		return ids, nil

	case models.AudienceDepartment:
		if announcement.DepartmentID == nil {
			return nil, newValidationError("department_id", "department audience requires a department")
		}
		users, err := s.users.ListByDepartment(ctx, *announcement.DepartmentID)
		if err != nil {
			return nil, err
		}
		ids := make([]uint, 0, len(users))
		for _, user := range users {
			ids = append(ids, user.ID)
		}
		return ids, nil

	case models.AudienceCourse:
		if announcement.CourseID == nil {
			return nil, newValidationError("course_id", "course audience requires a course")
		}
		enrollments, err := s.courses.ListEnrollments(ctx, *announcement.CourseID)
		if err != nil {
			return nil, err
		}
		ids := make([]uint, 0, len(enrollments))
		for _, enrollment := range enrollments {
			if enrollment.Status == models.EnrollmentStatusEnrolled {
				ids = append(ids, enrollment.StudentID)
			}
		}
		return ids, nil

	default:
		return nil, newValidationError("audience", "unknown audience %s", announcement.Audience)
	}
}
