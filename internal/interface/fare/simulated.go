package fare

import (
	"context"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/pkg/utils"
)

// SimulatedSource generates plausible fares without touching any external
// site. Each route gets a stable base price derived from its query, and
// every fetch jitters around that base, so repeated checks of the same
// flight produce realistic small movements.
type SimulatedSource struct {
	mu          sync.Mutex
	rng         *rand.Rand
	latency     time.Duration
	failureRate float64
}

// NewSimulatedSource creates a simulated backend. A fixed seed makes the
// jitter sequence reproducible. failureRate in [0,1] injects transient
// failures for exercising the retry path.
func NewSimulatedSource(seed int64, latency time.Duration, failureRate float64) *SimulatedSource {
	return &SimulatedSource{
		rng:         rand.New(rand.NewSource(seed)),
		latency:     latency,
		failureRate: failureRate,
	}
}

// Name identifies the backend in price point source tags.
func (s *SimulatedSource) Name() string {
	return "simulated"
}

// Fetch returns a jittered fare around the route's base price.
func (s *SimulatedSource) Fetch(ctx context.Context, query entity.FareQuery) (*entity.FareQuote, error) {
	if err := ValidateQuery(query); err != nil {
		return nil, err
	}

	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-ctx.Done():
			return nil, &TransientError{Reason: "simulated fetch timed out", Err: ctx.Err()}
		}
	}

	s.mu.Lock()
	roll := s.rng.Float64()
	jitter := 0.85 + s.rng.Float64()*0.30
	s.mu.Unlock()

	if roll < s.failureRate {
		return nil, &TransientError{Reason: "simulated source unavailable"}
	}

	price := utils.Round2(basePrice(query) * jitter)
	return &entity.FareQuote{
		Price:         price,
		Airline:       "Delta",
		FlightNumbers: query.FlightNumbers,
		Source:        s.Name(),
		FetchedAt:     time.Now(),
	}, nil
}

// basePrice maps a query to a stable price between 150 and 1150.
// Round trips cost roughly double a one-way on the same route.
func basePrice(query entity.FareQuery) float64 {
	h := fnv.New32a()
	h.Write([]byte(query.Origin))
	h.Write([]byte(query.Destination))
	base := 150.0 + float64(h.Sum32()%500)
	if query.RoundTrip() {
		base *= 2
	}
	return base
}
