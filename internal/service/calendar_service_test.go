package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/models"
	"github.com/academica-app/academica-api/internal/repository"
)

type fakeCalendarRepo struct {
	years      map[uint]models.AcademicYear
	terms      map[uint]models.AcademicTerm
	events     map[uint]models.CalendarEvent
	nextYear   uint
	nextTerm   uint
	nextEvent  uint
	duplicates bool
}

func newFakeCalendarRepo() *fakeCalendarRepo {
	return &fakeCalendarRepo{
		years:     map[uint]models.AcademicYear{},
		terms:     map[uint]models.AcademicTerm{},
		events:    map[uint]models.CalendarEvent{},
		nextYear:  1,
		nextTerm:  1,
		nextEvent: 1,
	}
}

func (f *fakeCalendarRepo) ListYears(ctx context.Context) ([]models.AcademicYear, error) {
	result := make([]models.AcademicYear, 0, len(f.years))
	for _, year := range f.years {
		result = append(result, year)
	}
	return result, nil
}

func (f *fakeCalendarRepo) GetYear(ctx context.Context, id uint) (models.AcademicYear, error) {
	year, ok := f.years[id]
	if !ok {
		return models.AcademicYear{}, gorm.ErrRecordNotFound
	}
	return year, nil
}

func (f *fakeCalendarRepo) CreateYear(ctx context.Context, year *models.AcademicYear) error {
	year.ID = f.nextYear
	f.nextYear++
	f.years[year.ID] = *year
	return nil
}

func (f *fakeCalendarRepo) ActivateYear(ctx context.Context, id uint) error {
	target, ok := f.years[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for otherID, year := range f.years {
		year.IsActive = otherID == id
		f.years[otherID] = year
	}
	target.IsActive = true
	f.years[id] = target
	return nil
}

func (f *fakeCalendarRepo) ListTerms(ctx context.Context, yearID uint) ([]models.AcademicTerm, error) {
	result := []models.AcademicTerm{}
	for _, term := range f.terms {
		if term.AcademicYearID == yearID {
			result = append(result, term)
		}
	}
	return result, nil
}

func (f *fakeCalendarRepo) GetTerm(ctx context.Context, id uint) (models.AcademicTerm, error) {
	term, ok := f.terms[id]
	if !ok {
		return models.AcademicTerm{}, gorm.ErrRecordNotFound
	}
	return term, nil
}

func (f *fakeCalendarRepo) CreateTerm(ctx context.Context, term *models.AcademicTerm) error {
	if f.duplicates {
		return gorm.ErrDuplicatedKey
	}
	term.ID = f.nextTerm
	f.nextTerm++
	f.terms[term.ID] = *term
	return nil
}

func (f *fakeCalendarRepo) ActivateTerm(ctx context.Context, id uint) error {
	target, ok := f.terms[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for otherID, term := range f.terms {
		term.IsActive = otherID == id
		f.terms[otherID] = term
	}
	target.IsActive = true
	f.terms[id] = target
	return nil
}

func (f *fakeCalendarRepo) ListEvents(ctx context.Context, filter repository.CalendarEventFilter) ([]models.CalendarEvent, error) {
	result := []models.CalendarEvent{}
	for _, event := range f.events {
		if filter.EventType != nil && event.EventType != *filter.EventType {
			continue
		}
		if filter.From != nil && event.EndAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && event.StartAt.After(*filter.To) {
			continue
		}
		result = append(result, event)
	}
	return result, nil
}

func (f *fakeCalendarRepo) CreateEvent(ctx context.Context, event *models.CalendarEvent) error {
	event.ID = f.nextEvent
	f.nextEvent++
	f.events[event.ID] = *event
	return nil
}

func (f *fakeCalendarRepo) DeleteEvent(ctx context.Context, id uint) error {
	if _, ok := f.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.events, id)
	return nil
}

func newCalendarFixture(t *testing.T) (CalendarService, *fakeCalendarRepo) {
	t.Helper()
	repo := newFakeCalendarRepo()
	svc := NewCalendarService(repo, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	return svc, repo
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestCreateYearRejectsInvertedDates(t *testing.T) {
	svc, _ := newCalendarFixture(t)

	_, err := svc.CreateYear(context.Background(), dto.AcademicYearCreateRequest{
		Name:      "2026/2027",
		StartDate: date(2027, time.June, 30),
		EndDate:   date(2026, time.September, 1),
	})
	require.True(t, IsValidationError(err))
}

func TestActivateYearArchivesPrevious(t *testing.T) {
	svc, repo := newCalendarFixture(t)
	repo.years[1] = models.AcademicYear{ID: 1, Name: "2025/2026", IsActive: true}
	repo.years[2] = models.AcademicYear{ID: 2, Name: "2026/2027"}

	activated, err := svc.ActivateYear(context.Background(), 2)
	require.NoError(t, err)
	require.True(t, activated.IsActive)
	require.False(t, repo.years[1].IsActive)

	_, err = svc.ActivateYear(context.Background(), 99)
	require.ErrorIs(t, err, ErrAcademicPeriodNotFound)
}

func TestCreateTermMustFitWithinYear(t *testing.T) {
	svc, repo := newCalendarFixture(t)
	repo.years[1] = models.AcademicYear{
		ID:        1,
		Name:      "2026/2027",
		StartDate: date(2026, time.September, 1),
		EndDate:   date(2027, time.June, 30),
	}

	_, err := svc.CreateTerm(context.Background(), dto.AcademicTermCreateRequest{
		AcademicYearID: 1,
		Name:           "Summer",
		StartDate:      date(2027, time.July, 1),
		EndDate:        date(2027, time.August, 15),
	})
	require.True(t, IsValidationError(err))

	created, err := svc.CreateTerm(context.Background(), dto.AcademicTermCreateRequest{
		AcademicYearID: 1,
		Name:           "First Term",
		StartDate:      date(2026, time.September, 1),
		EndDate:        date(2026, time.December, 20),
	})
	require.NoError(t, err)
	require.Equal(t, uint(1), created.AcademicYearID)
	require.Equal(t, "First Term", created.Name)
}

func TestCreateTermUnknownYear(t *testing.T) {
	svc, _ := newCalendarFixture(t)

	_, err := svc.CreateTerm(context.Background(), dto.AcademicTermCreateRequest{
		AcademicYearID: 42,
		Name:           "First Term",
		StartDate:      date(2026, time.September, 1),
		EndDate:        date(2026, time.December, 20),
	})
	require.ErrorIs(t, err, ErrAcademicPeriodNotFound)
}

func TestCreateTermDuplicateName(t *testing.T) {
	svc, repo := newCalendarFixture(t)
	repo.years[1] = models.AcademicYear{
		ID:        1,
		StartDate: date(2026, time.September, 1),
		EndDate:   date(2027, time.June, 30),
	}
	repo.duplicates = true

	_, err := svc.CreateTerm(context.Background(), dto.AcademicTermCreateRequest{
		AcademicYearID: 1,
		Name:           "First Term",
		StartDate:      date(2026, time.September, 1),
		EndDate:        date(2026, time.December, 20),
	})
	require.True(t, IsValidationError(err))
}

func TestActivateTermArchivesPrevious(t *testing.T) {
	svc, repo := newCalendarFixture(t)
	repo.terms[1] = models.AcademicTerm{ID: 1, AcademicYearID: 1, Name: "First Term", IsActive: true}
	repo.terms[2] = models.AcademicTerm{ID: 2, AcademicYearID: 1, Name: "Second Term"}

	activated, err := svc.ActivateTerm(context.Background(), 2)
	require.NoError(t, err)
	require.True(t, activated.IsActive)
	require.False(t, repo.terms[1].IsActive)
}

func TestCreateEventRequiresExistingTerm(t *testing.T) {
	svc, repo := newCalendarFixture(t)

	payload := dto.CalendarEventCreateRequest{
		Title:          "Final exams",
		EventType:      models.EventTypeExam,
		StartAt:        date(2026, time.December, 1),
		EndAt:          date(2026, time.December, 12),
		AcademicTermID: 1,
	}

	_, err := svc.CreateEvent(context.Background(), payload)
	require.ErrorIs(t, err, ErrAcademicPeriodNotFound)

	repo.terms[1] = models.AcademicTerm{ID: 1, AcademicYearID: 1, Name: "First Term"}
	created, err := svc.CreateEvent(context.Background(), payload)
	require.NoError(t, err)
	require.Equal(t, "Final exams", created.Title)
	require.Equal(t, models.EventTypeExam, created.EventType)
}

func TestCreateEventRejectsInvertedWindow(t *testing.T) {
	svc, repo := newCalendarFixture(t)
	repo.terms[1] = models.AcademicTerm{ID: 1, AcademicYearID: 1}

	_, err := svc.CreateEvent(context.Background(), dto.CalendarEventCreateRequest{
		Title:          "Backwards",
		EventType:      models.EventTypeHoliday,
		StartAt:        date(2026, time.December, 12),
		EndAt:          date(2026, time.December, 1),
		AcademicTermID: 1,
	})
	require.True(t, IsValidationError(err))
}

func TestListEventsFiltersByTypeAndRange(t *testing.T) {
	svc, repo := newCalendarFixture(t)
	repo.events[1] = models.CalendarEvent{
		ID:        1,
		Title:     "Midterms",
		EventType: models.EventTypeExam,
		StartAt:   date(2026, time.October, 10),
		EndAt:     date(2026, time.October, 15),
	}
	repo.events[2] = models.CalendarEvent{
		ID:        2,
		Title:     "Winter break",
		EventType: models.EventTypeHoliday,
		StartAt:   date(2026, time.December, 20),
		EndAt:     date(2027, time.January, 5),
	}

	examType := models.EventTypeExam
	events, err := svc.ListEvents(context.Background(), dto.CalendarEventFilter{EventType: &examType})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "Midterms", events[0].Title)

	from := date(2026, time.December, 1)
	events, err = svc.ListEvents(context.Background(), dto.CalendarEventFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "Winter break", events[0].Title)
}

func TestDeleteEvent(t *testing.T) {
	svc, repo := newCalendarFixture(t)
	repo.events[1] = models.CalendarEvent{ID: 1, Title: "Orientation"}

	require.NoError(t, svc.DeleteEvent(context.Background(), 1))
	require.Empty(t, repo.events)
}
