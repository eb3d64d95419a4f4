package events

import (
	"context"

	model "simple-social-service/internal/domain/models"
)

//go:generate mockery --name Publisher --dir . --output ../../../../../mocks/events --outpkg mocks --filename Publisher.go
type Publisher interface {
	PublishPostCreated(ctx context.Context, post *model.Post) error
	Close() error
}
