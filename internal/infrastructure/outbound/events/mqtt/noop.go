package mqtt

import (
	"context"

	model "simple-social-service/internal/domain/models"
	"simple-social-service/internal/domain/ports/output/events"
)

var _ events.Publisher = NoopPublisher{}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishPostCreated(context.Context, *model.Post) error { return nil }

func (NoopPublisher) Close() error { return nil }
