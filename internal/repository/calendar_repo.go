package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/academica-app/academica-api/internal/models"
)

// CalendarEventFilter narrows calendar event queries.
type CalendarEventFilter struct {
	EventType    *string
	DepartmentID *uint
	CourseID     *uint
	From         *time.Time
	To           *time.Time
}

// CalendarRepository defines persistence operations for academic years,
// terms and calendar events.
type CalendarRepository interface {
	ListYears(ctx context.Context) ([]models.AcademicYear, error)
	GetYear(ctx context.Context, id uint) (models.AcademicYear, error)
	CreateYear(ctx context.Context, year *models.AcademicYear) error
	ActivateYear(ctx context.Context, id uint) error
	ListTerms(ctx context.Context, yearID uint) ([]models.AcademicTerm, error)
	GetTerm(ctx context.Context, id uint) (models.AcademicTerm, error)
	CreateTerm(ctx context.Context, term *models.AcademicTerm) error
	ActivateTerm(ctx context.Context, id uint) error
	ListEvents(ctx context.Context, filter CalendarEventFilter) ([]models.CalendarEvent, error)
	CreateEvent(ctx context.Context, event *models.CalendarEvent) error
	DeleteEvent(ctx context.Context, id uint) error
}

type calendarRepository struct {
	db *gorm.DB
}

// NewCalendarRepository instantiates a GORM-backed repository.
func NewCalendarRepository(db *gorm.DB) CalendarRepository {
	return &calendarRepository{db: db}
}

func (r *calendarRepository) ListYears(ctx context.Context) ([]models.AcademicYear, error) {
	var years []models.AcademicYear
	if err := r.db.WithContext(ctx).Order("start_date DESC").Find(&years).Error; err != nil {
		return nil, err
	}

	return years, nil
}

func (r *calendarRepository) GetYear(ctx context.Context, id uint) (models.AcademicYear, error) {
	var year models.AcademicYear
	if err := r.db.WithContext(ctx).First(&year, id).Error; err != nil {
		return models.AcademicYear{}, err
	}

	return year, nil
}

func (r *calendarRepository) CreateYear(ctx context.Context, year *models.AcademicYear) error {
	return r.db.WithContext(ctx).Create(year).Error
}

// ActivateYear flips the active flag to the given year, deactivating every
// other one inside a single transaction.
func (r *calendarRepository) ActivateYear(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.AcademicYear{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		result := tx.Model(&models.AcademicYear{}).
			Where("id = ?", id).
			Update("is_active", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *calendarRepository) ListTerms(ctx context.Context, yearID uint) ([]models.AcademicTerm, error) {
	var terms []models.AcademicTerm
	if err := r.db.WithContext(ctx).
		Where("academic_year_id = ?", yearID).
		Order("start_date ASC").
		Find(&terms).Error; err != nil {
		return nil, err
	}

	return terms, nil
}

func (r *calendarRepository) GetTerm(ctx context.Context, id uint) (models.AcademicTerm, error) {
	var term models.AcademicTerm
	if err := r.db.WithContext(ctx).First(&term, id).Error; err != nil {
		return models.AcademicTerm{}, err
	}

	return term, nil
}

func (r *calendarRepository) CreateTerm(ctx context.Context, term *models.AcademicTerm) error {
	return r.db.WithContext(ctx).Create(term).Error
}

// ActivateTerm activates one term and deactivates its siblings within the
// same academic year.
func (r *calendarRepository) ActivateTerm(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var term models.AcademicTerm
		if err := tx.First(&term, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.AcademicTerm{}).
			Where("academic_year_id = ? AND is_active = ?", term.AcademicYearID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.AcademicTerm{}).
			Where("id = ?", id).
			Update("is_active", true).Error
	})
}

func (r *calendarRepository) ListEvents(ctx context.Context, filter CalendarEventFilter) ([]models.CalendarEvent, error) {
	query := r.db.WithContext(ctx).Model(&models.CalendarEvent{})

	if filter.EventType != nil {
		query = query.Where("event_type = ?", *filter.EventType)
	}
	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.CourseID != nil {
		query = query.Where("course_id = ?", *filter.CourseID)
	}

	var events []models.CalendarEvent
	if err := query.Order("start_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r *calendarRepository) CreateEvent(ctx context.Context, event *models.CalendarEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *calendarRepository) DeleteEvent(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.CalendarEvent{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
