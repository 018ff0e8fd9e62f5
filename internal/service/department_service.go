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

// DepartmentService manages academic departments.
type DepartmentService interface {
	List(ctx context.Context) ([]dto.DepartmentResponse, error)
	Get(ctx context.Context, id uint) (dto.DepartmentResponse, error)
	Create(ctx context.Context, payload dto.DepartmentCreateRequest) (dto.DepartmentResponse, error)
	Update(ctx context.Context, id uint, payload dto.DepartmentUpdateRequest) (dto.DepartmentResponse, error)
	Delete(ctx context.Context, id uint) error
}

type departmentService struct {
	repo      repository.DepartmentRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewDepartmentService constructs a DepartmentService instance.
func NewDepartmentService(repo repository.DepartmentRepository, userRepo repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) DepartmentService {
	return &departmentService{
		repo:      repo,
		users:     userRepo,
		validator: validate,
		logger:    logger.With().Str("component", "department_service").Logger(),
	}
}

func (s *departmentService) List(ctx context.Context) ([]dto.DepartmentResponse, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewDepartmentResponseSlice(departments), nil
}

func (s *departmentService) Get(ctx context.Context, id uint) (dto.DepartmentResponse, error) {
	department, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DepartmentResponse{}, ErrDepartmentNotFound
		}
		return dto.DepartmentResponse{}, err
	}

	return dto.NewDepartmentResponse(department), nil
}

func (s *departmentService) Create(ctx context.Context, payload dto.DepartmentCreateRequest) (dto.DepartmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DepartmentResponse{}, err
	}

	if err := s.checkHead(ctx, payload.HeadID); err != nil {
		return dto.DepartmentResponse{}, err
	}

	department := models.Department{
		Name:        strings.TrimSpace(payload.Name),
		Code:        strings.ToUpper(strings.TrimSpace(payload.Code)),
		Description: strings.TrimSpace(payload.Description),
		HeadID:      payload.HeadID,
	}

	if err := s.repo.Create(ctx, &department); err != nil {
		return dto.DepartmentResponse{}, err
	}

	s.logger.Info().Uint("department_id", department.ID).Str("code", department.Code).Msg("department created")

	return dto.NewDepartmentResponse(department), nil
}

func (s *departmentService) Update(ctx context.Context, id uint, payload dto.DepartmentUpdateRequest) (dto.DepartmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DepartmentResponse{}, err
	}

	department, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DepartmentResponse{}, ErrDepartmentNotFound
		}
		return dto.DepartmentResponse{}, err
	}

	if payload.Name != nil {
		department.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Description != nil {
		department.Description = strings.TrimSpace(*payload.Description)
	}
	if payload.HeadID != nil {
		if err := s.checkHead(ctx, payload.HeadID); err != nil {
			return dto.DepartmentResponse{}, err
		}
		department.HeadID = payload.HeadID
	}

	if err := s.repo.Update(ctx, &department); err != nil {
		return dto.DepartmentResponse{}, err
	}

	return dto.NewDepartmentResponse(department), nil
}

func (s *departmentService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return err
	}

	return s.repo.Delete(ctx, id)
}

// The department head must exist and hold an elevated role.
func (s *departmentService) checkHead(ctx context.Context, headID *uint) error {
	if headID == nil {
		return nil
	}

	head, err := s.users.GetByID(ctx, *headID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newValidationError("head_id", "user %d does not exist", *headID)
		}
		return err
	}
	if head.Role != models.RoleHOD && head.Role != models.RoleAdmin {
		return newValidationError("head_id", "user %d cannot head a department", *headID)
	}

	return nil
}
