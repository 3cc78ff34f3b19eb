package repository

import (
	"context"
	"time"

	"farewatch-service/internal/domain/entity"
)

// NotificationRepository defines the interface for notification event storage
type NotificationRepository interface {
	Create(ctx context.Context, event *entity.NotificationEvent) error
	GetByID(ctx context.Context, id string) (*entity.NotificationEvent, error)
	// MarkSent flips the sent flag only when it is still false and
	// reports whether this call won the transition. A false return with
	// nil error means another dispatcher already delivered the event.
	MarkSent(ctx context.Context, id string, sentAt time.Time) (bool, error)
	SetLastError(ctx context.Context, id string, reason string) error
	FindUnsent(ctx context.Context, limit int) ([]*entity.NotificationEvent, error)
}
