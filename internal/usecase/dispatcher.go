package usecase

import (
	"context"
	"fmt"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"
	"farewatch-service/pkg/logger"
	"farewatch-service/pkg/metrics"
	"farewatch-service/templates"

	"github.com/google/uuid"
)

// NotificationDispatcher creates notification events and delivers them
// idempotently: a given event reaches sent=true at most once no matter
// how many times delivery is attempted.
type NotificationDispatcher struct {
	notificationRepo repository.NotificationRepository
	mailerRepo       repository.MailerRepository
	recipient        string
	metrics          *metrics.Metrics
	logger           logger.Logger
}

// NewNotificationDispatcher creates a new dispatcher
func NewNotificationDispatcher(
	notificationRepo repository.NotificationRepository,
	mailerRepo repository.MailerRepository,
	recipient string,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *NotificationDispatcher {
	return &NotificationDispatcher{
		notificationRepo: notificationRepo,
		mailerRepo:       mailerRepo,
		recipient:        recipient,
		metrics:          metrics,
		logger:           logger,
	}
}

// DispatchPriceChange creates the event for a classified price move and
// attempts delivery. The returned error covers event creation only;
// delivery failure leaves the event unsent for a later retry and is not
// an error here.
func (d *NotificationDispatcher) DispatchPriceChange(
	ctx context.Context,
	flight *entity.WatchedFlight,
	change ChangeType,
	oldPrice, newPrice, changePercent float64,
) (*entity.NotificationEvent, error) {
	var (
		eventType entity.NotificationType
		subject   string
		message   string
	)
	switch change {
	case ChangeDrop:
		eventType = entity.PriceDrop
		subject, message = templates.RenderPriceDrop(flight, oldPrice, newPrice, changePercent)
	case ChangeIncrease:
		eventType = entity.PriceIncrease
		subject, message = templates.RenderPriceIncrease(flight, oldPrice, newPrice, changePercent)
	default:
		return nil, fmt.Errorf("change type %q is not notifiable", change)
	}

	event := &entity.NotificationEvent{
		ID:            uuid.NewString(),
		FlightID:      flight.ID,
		Recipient:     d.recipient,
		Type:          eventType,
		OldPrice:      oldPrice,
		NewPrice:      newPrice,
		ChangePercent: changePercent,
		Subject:       subject,
		Message:       message,
		CreatedAt:     time.Now(),
	}

	if err := d.notificationRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create notification event: %w", err)
	}

	event.Sent = d.Deliver(ctx, event.ID)
	return event, nil
}

// DispatchTrackingStarted sends the confirmation for a newly tracked flight
func (d *NotificationDispatcher) DispatchTrackingStarted(ctx context.Context, flight *entity.WatchedFlight) (*entity.NotificationEvent, error) {
	subject, message := templates.RenderTrackingStarted(flight)
	event := &entity.NotificationEvent{
		ID:        uuid.NewString(),
		FlightID:  flight.ID,
		Recipient: d.recipient,
		Type:      entity.TrackingStarted,
		OldPrice:  flight.OriginalPrice,
		NewPrice:  flight.OriginalPrice,
		Subject:   subject,
		Message:   message,
		CreatedAt: time.Now(),
	}

	if err := d.notificationRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create tracking notification: %w", err)
	}

	event.Sent = d.Deliver(ctx, event.ID)
	return event, nil
}

// Deliver attempts delivery of a stored event and reports whether the
// event is sent afterwards. Already-sent events are a no-op; a delivery
// failure is logged, recorded on the event and left for a later retry.
func (d *NotificationDispatcher) Deliver(ctx context.Context, eventID string) bool {
	event, err := d.notificationRepo.GetByID(ctx, eventID)
	if err != nil {
		d.logger.Error("Failed to load notification event", "eventId", eventID, "error", err)
		return false
	}
	if event.Sent {
		d.logger.Debug("Notification already sent", "eventId", eventID)
		return true
	}

	if err := d.mailerRepo.SendAlert(ctx, event); err != nil {
		d.logger.Error("Notification delivery failed",
			"eventId", eventID,
			"flightId", event.FlightID,
			"error", err)
		if d.metrics != nil {
			d.metrics.ErrorsCount.WithLabelValues("notification_send").Inc()
		}
		if setErr := d.notificationRepo.SetLastError(ctx, eventID, err.Error()); setErr != nil {
			d.logger.Error("Failed to record delivery error", "eventId", eventID, "error", setErr)
		}
		return false
	}

	won, err := d.notificationRepo.MarkSent(ctx, eventID, time.Now())
	if err != nil {
		d.logger.Error("Failed to mark notification sent", "eventId", eventID, "error", err)
		return false
	}
	if !won {
		// A concurrent dispatcher completed delivery first.
		d.logger.Warn("Notification already marked sent elsewhere", "eventId", eventID)
		return true
	}

	if d.metrics != nil {
		d.metrics.NotificationsSent.Inc()
	}
	d.logger.Info("Notification sent",
		"eventId", eventID,
		"flightId", event.FlightID,
		"type", event.Type)
	return true
}

// RetryUnsent re-attempts delivery of events whose earlier send failed.
// Returns how many were delivered this pass.
func (d *NotificationDispatcher) RetryUnsent(ctx context.Context, limit int) (int, error) {
	events, err := d.notificationRepo.FindUnsent(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("find unsent notifications: %w", err)
	}

	delivered := 0
	for _, event := range events {
		if d.Deliver(ctx, event.ID) {
			delivered++
		}
	}
	return delivered, nil
}
