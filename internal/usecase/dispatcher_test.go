package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/pkg/logger"
)

func testFlight() *entity.WatchedFlight {
	return &entity.WatchedFlight{
		ID:                "flight_ab12cd34",
		Origin:            "SLC",
		Destination:       "SFO",
		DepartureDate:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		OriginalPrice:     300,
		CurrentPrice:      300,
		LowestPrice:       300,
		MonitoringEnabled: true,
		NotifyEnabled:     true,
		DecreaseThreshold: 0.05,
		IncreaseThreshold: 0.10,
	}
}

func newTestDispatcher(store *fakeNotificationRepo, mailer *fakeMailer) *NotificationDispatcher {
	return NewNotificationDispatcher(store, mailer, "traveler@example.com", nil, logger.NewNop())
}

func TestDispatchPriceDrop(t *testing.T) {
	store := newFakeNotificationRepo()
	mailer := &fakeMailer{}
	d := newTestDispatcher(store, mailer)

	event, err := d.DispatchPriceChange(context.Background(), testFlight(), ChangeDrop, 300, 280, -6.67)
	if err != nil {
		t.Fatalf("DispatchPriceChange returned error: %v", err)
	}
	if event.Type != entity.PriceDrop {
		t.Errorf("event type = %v, want %v", event.Type, entity.PriceDrop)
	}
	if !event.Sent {
		t.Error("event should be sent after successful delivery")
	}
	if mailer.calls != 1 {
		t.Errorf("mailer called %d times, want 1", mailer.calls)
	}
	if !strings.Contains(event.Subject, "Price Drop") {
		t.Errorf("subject %q should mention the price drop", event.Subject)
	}
	if !strings.Contains(event.Message, "$280.00") {
		t.Errorf("message should contain the new price, got %q", event.Message)
	}

	stored, err := store.GetByID(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("stored event not found: %v", err)
	}
	if !stored.Sent || stored.SentAt == nil {
		t.Error("stored event should be marked sent with a timestamp")
	}
	if stored.OldPrice != 300 || stored.NewPrice != 280 {
		t.Errorf("stored prices = %v/%v, want 300/280", stored.OldPrice, stored.NewPrice)
	}
}

func TestDeliverIsIdempotent(t *testing.T) {
	store := newFakeNotificationRepo()
	mailer := &fakeMailer{}
	d := newTestDispatcher(store, mailer)

	event, err := d.DispatchPriceChange(context.Background(), testFlight(), ChangeIncrease, 300, 330, 10.00)
	if err != nil {
		t.Fatalf("DispatchPriceChange returned error: %v", err)
	}

	// A second delivery of the same event must be a no-op.
	if sent := d.Deliver(context.Background(), event.ID); !sent {
		t.Error("second Deliver should report the event as sent")
	}
	if mailer.calls != 1 {
		t.Errorf("mailer called %d times, want exactly 1", mailer.calls)
	}
}

func TestDeliveryFailureLeavesEventUnsent(t *testing.T) {
	store := newFakeNotificationRepo()
	mailer := &fakeMailer{sendErr: errors.New("mailer unreachable")}
	d := newTestDispatcher(store, mailer)

	event, err := d.DispatchPriceChange(context.Background(), testFlight(), ChangeDrop, 300, 280, -6.67)
	if err != nil {
		t.Fatalf("DispatchPriceChange returned error: %v", err)
	}
	if event.Sent {
		t.Error("event should not be sent after delivery failure")
	}

	stored, _ := store.GetByID(context.Background(), event.ID)
	if stored.Sent {
		t.Error("stored event should remain unsent")
	}
	if !strings.Contains(stored.LastError, "mailer unreachable") {
		t.Errorf("last error %q should record the delivery failure", stored.LastError)
	}

	// Once the mailer recovers, the retry sweep delivers it.
	mailer.sendErr = nil
	delivered, err := d.RetryUnsent(context.Background(), 10)
	if err != nil {
		t.Fatalf("RetryUnsent returned error: %v", err)
	}
	if delivered != 1 {
		t.Errorf("delivered = %d, want 1", delivered)
	}
	stored, _ = store.GetByID(context.Background(), event.ID)
	if !stored.Sent {
		t.Error("event should be sent after retry")
	}
	if mailer.calls != 2 {
		t.Errorf("mailer called %d times, want 2", mailer.calls)
	}
}

func TestDispatchTrackingStarted(t *testing.T) {
	store := newFakeNotificationRepo()
	mailer := &fakeMailer{}
	d := newTestDispatcher(store, mailer)

	event, err := d.DispatchTrackingStarted(context.Background(), testFlight())
	if err != nil {
		t.Fatalf("DispatchTrackingStarted returned error: %v", err)
	}
	if event.Type != entity.TrackingStarted {
		t.Errorf("event type = %v, want %v", event.Type, entity.TrackingStarted)
	}
	if !event.Sent {
		t.Error("confirmation should be delivered")
	}
	if !strings.Contains(event.Subject, "Tracking Confirmed") {
		t.Errorf("subject %q should confirm tracking", event.Subject)
	}
}

func TestDispatchRejectsNonNotifiableChange(t *testing.T) {
	store := newFakeNotificationRepo()
	mailer := &fakeMailer{}
	d := newTestDispatcher(store, mailer)

	if _, err := d.DispatchPriceChange(context.Background(), testFlight(), ChangeNone, 300, 301, 0.33); err == nil {
		t.Error("ChangeNone should not produce an event")
	}
	if mailer.calls != 0 {
		t.Errorf("mailer called %d times, want 0", mailer.calls)
	}
}
