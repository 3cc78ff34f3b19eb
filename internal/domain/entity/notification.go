// internal/domain/entity/notification.go
package entity

import (
	"time"
)

// NotificationType defines the kind of a notification event
type NotificationType string

const (
	PriceDrop       NotificationType = "price_drop"
	PriceIncrease   NotificationType = "price_increase"
	TrackingStarted NotificationType = "tracking_started"
)

// NotificationEvent records a single notifiable price event for a flight.
// Created exactly once by the decision pipeline; the dispatcher flips
// Sent false -> true at most once and never back.
type NotificationEvent struct {
	ID            string
	FlightID      string
	Recipient     string
	Type          NotificationType
	OldPrice      float64
	NewPrice      float64
	ChangePercent float64
	Subject       string
	Message       string
	Sent          bool
	SentAt        *time.Time
	LastError     string
	CreatedAt     time.Time
}
