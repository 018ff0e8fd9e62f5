package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// EventPublisher broadcasts domain events to external collaborators
// (notification dispatch, email, analytics). Publishing is fire-and-forget:
// failures are logged by the implementation, never surfaced to the caller.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload map[string]interface{})
}

type domainEvent struct {
	Subject string                 `json:"subject"`
	Payload map[string]interface{} `json:"payload"`
	SentAt  time.Time              `json:"sent_at"`
}

type natsEventPublisher struct {
	conn   *nats.Conn
	prefix string
	logger zerolog.Logger
}

// NewNATSEventPublisher publishes domain events on NATS subjects under the
// given prefix ("academica" yields "academica.submission.created" and so on).
// A nil connection yields a publisher that drops every event, so callers can
// wire it unconditionally.
func NewNATSEventPublisher(conn *nats.Conn, prefix string, logger zerolog.Logger) EventPublisher {
	return &natsEventPublisher{
		conn:   conn,
		prefix: strings.Trim(prefix, "."),
		logger: logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *natsEventPublisher) Publish(_ context.Context, subject string, payload map[string]interface{}) {
	if p.conn == nil {
		return
	}

	event := domainEvent{
		Subject: subject,
		Payload: payload,
		SentAt:  time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to encode domain event")
		return
	}

	full := subject
	if p.prefix != "" {
		full = p.prefix + "." + subject
	}

	if err := p.conn.Publish(full, data); err != nil {
		p.logger.Warn().Err(err).Str("subject", full).Msg("failed to publish domain event")
	}
}
