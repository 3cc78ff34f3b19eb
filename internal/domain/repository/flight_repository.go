package repository

import (
	"context"
	"time"

	"farewatch-service/internal/domain/entity"
)

// FlightRepository defines the interface for watched flight operations.
// The engine reads flight rows and writes only the price and check fields;
// everything else belongs to the flight-management collaborator.
type FlightRepository interface {
	GetByID(ctx context.Context, id string) (*entity.WatchedFlight, error)
	// ListEligible returns enabled flights whose last check is older than
	// the cooldown (or never checked), oldest first, at most limit rows.
	ListEligible(ctx context.Context, cooldown time.Duration, limit int) ([]*entity.WatchedFlight, error)
	ListAll(ctx context.Context) ([]*entity.WatchedFlight, error)
	// UpdatePrices commits the engine-owned fields in one write.
	UpdatePrices(ctx context.Context, id string, currentPrice, lowestPrice float64, checkedAt time.Time) error
	MarkChecked(ctx context.Context, id string, checkedAt time.Time) error
	// ListCompleted returns enabled flights whose travel window ended
	// before the given date.
	ListCompleted(ctx context.Context, before time.Time) ([]*entity.WatchedFlight, error)
	DisableMonitoring(ctx context.Context, id string) error
}
