package dto

import (
	"time"

	"github.com/academica-app/academica-api/internal/models"
)

// ActivityLogListRequest filters audit trail queries.
type ActivityLogListRequest struct {
	ActorID    uint   `query:"actor_id"`
	Action     string `query:"action"`
	EntityType string `query:"entity_type"`
	Limit      int    `query:"limit" validate:"omitempty,gte=1,lte=200"`
	Offset     int    `query:"offset" validate:"omitempty,gte=0"`
}

// ActivityLogResponse is the API representation of an audit trail entry.
type ActivityLogResponse struct {
	ID            uint                   `json:"id"`
	ActorID       uint                   `json:"actor_id"`
	ActorRole     string                 `json:"actor_role"`
	Action        string                 `json:"action"`
	EntityType    string                 `json:"entity_type"`
	EntityID      *uint                  `json:"entity_id"`
	CorrelationID string                 `json:"correlation_id"`
	Metadata      map[string]interface{} `json:"metadata"`
	CreatedAt     time.Time              `json:"created_at"`
}

// NewActivityLogResponse converts an ActivityLog model into a DTO.
func NewActivityLogResponse(model models.ActivityLog) ActivityLogResponse {
	return ActivityLogResponse{
		ID:            model.ID,
		ActorID:       model.ActorID,
		ActorRole:     model.ActorRole,
		Action:        model.Action,
		EntityType:    model.EntityType,
		EntityID:      model.EntityID,
		CorrelationID: model.CorrelationID,
		Metadata:      model.Metadata,
		CreatedAt:     model.CreatedAt,
	}
}

// NewActivityLogResponseSlice converts activity log models into DTOs.
func NewActivityLogResponseSlice(entries []models.ActivityLog) []ActivityLogResponse {
	responses := make([]ActivityLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewActivityLogResponse(entry))
	}

	return responses
}
