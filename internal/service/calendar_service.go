package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/models"
	"github.com/academica-app/academica-api/internal/repository"
)

// ErrAcademicPeriodNotFound indicates the year or term could not be located.
var ErrAcademicPeriodNotFound = errors.New("academic period not found")

// CalendarService manages academic years, terms and calendar events.
// At most one year and one term are active at a time; activation archives
// the previous holder.
type CalendarService interface {
	ListYears(ctx context.Context) ([]dto.AcademicYearResponse, error)
	CreateYear(ctx context.Context, payload dto.AcademicYearCreateRequest) (dto.AcademicYearResponse, error)
	ActivateYear(ctx context.Context, id uint) (dto.AcademicYearResponse, error)
	ListTerms(ctx context.Context, yearID uint) ([]dto.AcademicTermResponse, error)
	CreateTerm(ctx context.Context, payload dto.AcademicTermCreateRequest) (dto.AcademicTermResponse, error)
	ActivateTerm(ctx context.Context, id uint) (dto.AcademicTermResponse, error)
	ListEvents(ctx context.Context, filter dto.CalendarEventFilter) ([]dto.CalendarEventResponse, error)
	CreateEvent(ctx context.Context, payload dto.CalendarEventCreateRequest) (dto.CalendarEventResponse, error)
	DeleteEvent(ctx context.Context, id uint) error
}

type calendarService struct {
	repo      repository.CalendarRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCalendarService constructs a CalendarService instance.
func NewCalendarService(repo repository.CalendarRepository, validate *validator.Validate, logger zerolog.Logger) CalendarService {
	return &calendarService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "calendar_service").Logger(),
	}
}

func (s *calendarService) ListYears(ctx context.Context) ([]dto.AcademicYearResponse, error) {
	years, err := s.repo.ListYears(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AcademicYearResponse, 0, len(years))
	for _, year := range years {
		responses = append(responses, dto.NewAcademicYearResponse(year))
	}
	return responses, nil
}

func (s *calendarService) CreateYear(ctx context.Context, payload dto.AcademicYearCreateRequest) (dto.AcademicYearResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AcademicYearResponse{}, err
	}
	if !payload.StartDate.Before(payload.EndDate) {
		return dto.AcademicYearResponse{}, newValidationError("end_date", "end date must be after start date")
	}

	year := models.AcademicYear{
		Name:      strings.TrimSpace(payload.Name),
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
	}

	if err := s.repo.CreateYear(ctx, &year); err != nil {
		return dto.AcademicYearResponse{}, err
	}

	s.logger.Info().Uint("year_id", year.ID).Str("name", year.Name).Msg("academic year created")

	return dto.NewAcademicYearResponse(year), nil
}

func (s *calendarService) ActivateYear(ctx context.Context, id uint) (dto.AcademicYearResponse, error) {
	if err := s.repo.ActivateYear(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AcademicYearResponse{}, ErrAcademicPeriodNotFound
		}
		return dto.AcademicYearResponse{}, err
	}

	year, err := s.repo.GetYear(ctx, id)
	if err != nil {
		return dto.AcademicYearResponse{}, err
	}

	return dto.NewAcademicYearResponse(year), nil
}

func (s *calendarService) ListTerms(ctx context.Context, yearID uint) ([]dto.AcademicTermResponse, error) {
	terms, err := s.repo.ListTerms(ctx, yearID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AcademicTermResponse, 0, len(terms))
	for _, term := range terms {
		responses = append(responses, dto.NewAcademicTermResponse(term))
	}
	return responses, nil
}

func (s *calendarService) CreateTerm(ctx context.Context, payload dto.AcademicTermCreateRequest) (dto.AcademicTermResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AcademicTermResponse{}, err
	}
	if !payload.StartDate.Before(payload.EndDate) {
		return dto.AcademicTermResponse{}, newValidationError("end_date", "end date must be after start date")
	}

	year, err := s.repo.GetYear(ctx, payload.AcademicYearID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AcademicTermResponse{}, ErrAcademicPeriodNotFound
		}
		return dto.AcademicTermResponse{}, err
	}

	if payload.StartDate.Before(year.StartDate) || payload.EndDate.After(year.EndDate) {
		return dto.AcademicTermResponse{}, newValidationError("start_date", "term must fall within academic year %s", year.Name)
	}

	term := models.AcademicTerm{
		AcademicYearID: payload.AcademicYearID,
		Name:           strings.TrimSpace(payload.Name),
		StartDate:      payload.StartDate,
		EndDate:        payload.EndDate,
	}

	if err := s.repo.CreateTerm(ctx, &term); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.AcademicTermResponse{}, newValidationError("name", "term %s already exists in this year", term.Name)
		}
		return dto.AcademicTermResponse{}, err
	}

	return dto.NewAcademicTermResponse(term), nil
}

func (s *calendarService) ActivateTerm(ctx context.Context, id uint) (dto.AcademicTermResponse, error) {
	if err := s.repo.ActivateTerm(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AcademicTermResponse{}, ErrAcademicPeriodNotFound
		}
		return dto.AcademicTermResponse{}, err
	}

	term, err := s.repo.GetTerm(ctx, id)
	if err != nil {
		return dto.AcademicTermResponse{}, err
	}

	return dto.NewAcademicTermResponse(term), nil
}

func (s *calendarService) ListEvents(ctx context.Context, filter dto.CalendarEventFilter) ([]dto.CalendarEventResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	events, err := s.repo.ListEvents(ctx, repository.CalendarEventFilter{
		EventType:    filter.EventType,
		DepartmentID: filter.DepartmentID,
		CourseID:     filter.CourseID,
		From:         filter.From,
		To:           filter.To,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewCalendarEventResponseSlice(events), nil
}

func (s *calendarService) CreateEvent(ctx context.Context, payload dto.CalendarEventCreateRequest) (dto.CalendarEventResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CalendarEventResponse{}, err
	}
	if !payload.StartAt.Before(payload.EndAt) {
		return dto.CalendarEventResponse{}, newValidationError("end_at", "event end must be after start")
	}

	if _, err := s.repo.GetTerm(ctx, payload.AcademicTermID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CalendarEventResponse{}, ErrAcademicPeriodNotFound
		}
		return dto.CalendarEventResponse{}, err
	}

	event := models.CalendarEvent{
		Title:          strings.TrimSpace(payload.Title),
		Description:    strings.TrimSpace(payload.Description),
		EventType:      payload.EventType,
		StartAt:        payload.StartAt,
		EndAt:          payload.EndAt,
		AcademicTermID: payload.AcademicTermID,
		DepartmentID:   payload.DepartmentID,
		CourseID:       payload.CourseID,
	}

	if err := s.repo.CreateEvent(ctx, &event); err != nil {
		return dto.CalendarEventResponse{}, err
	}

	return dto.NewCalendarEventResponse(event), nil
}

func (s *calendarService) DeleteEvent(ctx context.Context, id uint) error {
	return s.repo.DeleteEvent(ctx, id)
}
