package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/models"
	"github.com/academica-app/academica-api/internal/repository"
)

var (
	// ErrDocumentTooLarge indicates the payload exceeded the configured limit.
	ErrDocumentTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrDocumentTypeNotAllowed indicates the MIME type is not permitted.
	ErrDocumentTypeNotAllowed = errors.New("file type not allowed")
)

// DocumentService stores shared documents. Uploads are type-sniffed from
// content, never trusted from the client-declared header.
type DocumentService interface {
	List(ctx context.Context, filter dto.DocumentFilter) ([]dto.DocumentResponse, error)
	Get(ctx context.Context, id uint) (dto.DocumentResponse, error)
	Upload(ctx context.Context, payload dto.DocumentCreateRequest, file *multipart.FileHeader, owner Identity) (dto.DocumentResponse, error)
	Delete(ctx context.Context, id uint, actor Identity) error
	ListCategories(ctx context.Context) ([]dto.DocumentCategoryResponse, error)
	CreateCategory(ctx context.Context, payload dto.DocumentCategoryCreateRequest) (dto.DocumentCategoryResponse, error)
}

type documentService struct {
	repo      repository.DocumentRepository
	storage   FileUploader
	validator *validator.Validate
	logger    zerolog.Logger
	maxSize   int64
}

// NewDocumentService constructs a DocumentService instance.
func NewDocumentService(repo repository.DocumentRepository, storage FileUploader, maxSizeMB int, validate *validator.Validate, logger zerolog.Logger) DocumentService {
	if maxSizeMB <= 0 {
		maxSizeMB = 25
	}
	return &documentService{
		repo:      repo,
		storage:   storage,
		validator: validate,
		logger:    logger.With().Str("component", "document_service").Logger(),
		maxSize:   int64(maxSizeMB) * 1024 * 1024,
	}
}

func (s *documentService) List(ctx context.Context, filter dto.DocumentFilter) ([]dto.DocumentResponse, error) {
	documents, err := s.repo.List(ctx, repository.DocumentFilter{
		CategoryID:   filter.CategoryID,
		DepartmentID: filter.DepartmentID,
		CourseID:     filter.CourseID,
		OwnerID:      filter.OwnerID,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewDocumentResponseSlice(documents), nil
}

func (s *documentService) Get(ctx context.Context, id uint) (dto.DocumentResponse, error) {
	document, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DocumentResponse{}, ErrDocumentNotFound
		}
		return dto.DocumentResponse{}, err
	}

	return dto.NewDocumentResponse(document), nil
}

func (s *documentService) Upload(ctx context.Context, payload dto.DocumentCreateRequest, file *multipart.FileHeader, owner Identity) (dto.DocumentResponse, error) {
	tracer := otel.Tracer("github.com/academica-app/academica-api/internal/service/document")
	ctx, span := tracer.Start(ctx, "document.store")
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.DocumentResponse{}, err
	}

	if file == nil {
		err := newValidationError("file", "file is required")
		span.RecordError(err)
		return dto.DocumentResponse{}, err
	}
	span.SetAttributes(
		attribute.String("document.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("document.request_size", file.Size),
	)

	if file.Size > s.maxSize {
		span.RecordError(ErrDocumentTooLarge)
		span.SetStatus(codes.Error, "payload_too_large")
		return dto.DocumentResponse{}, ErrDocumentTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		return dto.DocumentResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		return dto.DocumentResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		span.RecordError(ErrDocumentTooLarge)
		span.SetStatus(codes.Error, "payload_too_large")
		return dto.DocumentResponse{}, ErrDocumentTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	span.SetAttributes(attribute.String("document.detected_mime", mime.String()))
	if !isAllowedDocumentType(mime.String()) {
		span.RecordError(ErrDocumentTypeNotAllowed)
		span.SetStatus(codes.Error, "type_not_allowed")
		return dto.DocumentResponse{}, ErrDocumentTypeNotAllowed
	}

	name := sanitizeDocumentName(file.Filename)
	url, err := s.storage.Upload(ctx, name, bytes.NewReader(buf.Bytes()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage_failed")
		return dto.DocumentResponse{}, err
	}

	document := models.Document{
		Title:        strings.TrimSpace(payload.Title),
		Description:  strings.TrimSpace(payload.Description),
		CategoryID:   payload.CategoryID,
		FileURL:      url,
		ContentType:  mime.String(),
		SizeBytes:    int64(buf.Len()),
		OwnerID:      owner.ID,
		DepartmentID: payload.DepartmentID,
		CourseID:     payload.CourseID,
	}

	if err := s.repo.Create(ctx, &document); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence_failed")
		return dto.DocumentResponse{}, err
	}

	span.SetStatus(codes.Ok, "stored")
	s.logger.Info().
		Uint("document_id", document.ID).
		Str("content_type", document.ContentType).
		Msg("document stored")

	return dto.NewDocumentResponse(document), nil
}

func (s *documentService) Delete(ctx context.Context, id uint, actor Identity) error {
	document, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}

	if !actor.IsElevated() && document.OwnerID != actor.ID {
		return ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}

func (s *documentService) ListCategories(ctx context.Context) ([]dto.DocumentCategoryResponse, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.DocumentCategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, dto.NewDocumentCategoryResponse(category))
	}
	return responses, nil
}

func (s *documentService) CreateCategory(ctx context.Context, payload dto.DocumentCategoryCreateRequest) (dto.DocumentCategoryResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DocumentCategoryResponse{}, err
	}

	category := models.DocumentCategory{
		Name:        strings.TrimSpace(payload.Name),
		Description: strings.TrimSpace(payload.Description),
	}

	if err := s.repo.CreateCategory(ctx, &category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.DocumentCategoryResponse{}, newValidationError("name", "category %s already exists", category.Name)
		}
		return dto.DocumentCategoryResponse{}, err
	}

	return dto.NewDocumentCategoryResponse(category), nil
}

func sanitizeDocumentName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.ToLower(base)
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, base)
	base = strings.Trim(base, "-")
	if base == "" {
		base = fmt.Sprintf("document-%d", time.Now().Unix())
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = ".bin"
	}
	return base + ext
}

func isAllowedDocumentType(mime string) bool {
	lower := strings.ToLower(strings.TrimSpace(mime))
	if strings.HasPrefix(lower, "image/") || strings.HasPrefix(lower, "text/") {
		return true
	}
	switch lower {
	case "application/pdf",
		"application/zip", "application/x-zip-compressed",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation":
		return true
	default:
		return false
	}
}
