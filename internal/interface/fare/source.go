package fare

import (
	"context"

	"farewatch-service/internal/domain/entity"
)

// PriceSource fetches the current fare for a route/date pair. A source is
// a pure query: no side effects beyond its own latency. Simulated and real
// backends satisfy the identical contract so callers stay backend-agnostic.
type PriceSource interface {
	Name() string
	Fetch(ctx context.Context, query entity.FareQuery) (*entity.FareQuote, error)
}
