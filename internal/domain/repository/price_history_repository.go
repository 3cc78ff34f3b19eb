package repository

import (
	"context"

	"farewatch-service/internal/domain/entity"
)

// PriceHistoryRepository defines the interface for the append-only price
// ledger. Append is the only write; points are never updated or removed.
type PriceHistoryRepository interface {
	Append(ctx context.Context, point *entity.PricePoint) error
	FindByFlight(ctx context.Context, flightID string, limit int) ([]*entity.PricePoint, error)
}
