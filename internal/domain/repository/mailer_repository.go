package repository

import (
	"context"

	"farewatch-service/internal/domain/entity"
)

// MailerRepository defines the interface for the notification delivery
// channel. The actual email transport lives in an external service; this
// side only hands over a rendered event and reports success or failure.
type MailerRepository interface {
	SendAlert(ctx context.Context, event *entity.NotificationEvent) error
}
