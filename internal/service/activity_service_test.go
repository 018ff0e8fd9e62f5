package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/academica-app/academica-api/internal/dto"
	"github.com/academica-app/academica-api/internal/models"
	"github.com/academica-app/academica-api/internal/repository"
)

type memoryActivityRepo struct {
	entries []models.ActivityLog
}

func (m *memoryActivityRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	entry.ID = uint(len(m.entries) + 1)
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryActivityRepo) List(ctx context.Context, filter repository.ActivityLogFilter) ([]models.ActivityLog, error) {
	result := []models.ActivityLog{}
	for _, entry := range m.entries {
		if filter.ActorID != nil && entry.ActorID != *filter.ActorID {
			continue
		}
		if filter.Action != "" && entry.Action != filter.Action {
			continue
		}
		result = append(result, entry)
	}
	return result, nil
}

func TestActivityRecordNormalizesFields(t *testing.T) {
	repo := &memoryActivityRepo{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewActivityService(repo, validate, testLogger())

	entityID := uint(12)
	entry, err := svc.Record(context.Background(), ActivityEntry{
		ActorID:    1,
		ActorRole:  "admin",
		Action:     " Assessment.Approved ",
		EntityType: "Assessment",
		EntityID:   &entityID,
	})
	require.NoError(t, err)

	require.Equal(t, "ADMIN", entry.ActorRole)
	require.Equal(t, "assessment.approved", entry.Action)
	require.Equal(t, "assessment", entry.EntityType)
	require.Equal(t, entityID, *entry.EntityID)
}

func TestActivityRecordMasksSensitiveMetadata(t *testing.T) {
	repo := &memoryActivityRepo{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewActivityService(repo, validate, testLogger())

	entry, err := svc.Record(context.Background(), ActivityEntry{
		ActorID:    1,
		Action:     "user.updated",
		EntityType: "user",
		Metadata: map[string]interface{}{
			"student_email": "a@b.edu",
			"api_token":     "secret",
			"course_id":     3,
		},
	})
	require.NoError(t, err)

	require.Equal(t, "***", entry.Metadata["student_email"])
	require.Equal(t, "***", entry.Metadata["api_token"])
	require.Equal(t, 3, entry.Metadata["course_id"])
	require.Equal(t, "SYSTEM", entry.ActorRole)
}

func TestActivityRecordRequiresAction(t *testing.T) {
	repo := &memoryActivityRepo{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewActivityService(repo, validate, testLogger())

	_, err := svc.Record(context.Background(), ActivityEntry{ActorID: 1, EntityType: "user"})
	require.Error(t, err)
	require.Empty(t, repo.entries)
}

func TestActivityListFilters(t *testing.T) {
	repo := &memoryActivityRepo{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewActivityService(repo, validate, testLogger())

	for _, action := range []string{"submission.graded", "assessment.approved"} {
		_, err := svc.Record(context.Background(), ActivityEntry{ActorID: 1, Action: action, EntityType: "x"})
		require.NoError(t, err)
	}

	entries, err := svc.List(context.Background(), dto.ActivityLogListRequest{Action: "submission.graded"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "submission.graded", entries[0].Action)
}

func TestActivityListRejectsExcessiveLimit(t *testing.T) {
	repo := &memoryActivityRepo{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewActivityService(repo, validate, testLogger())

	_, err := svc.List(context.Background(), dto.ActivityLogListRequest{Limit: 500})
	require.Error(t, err)
}
