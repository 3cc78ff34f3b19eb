package usecase

import (
	"context"
	"fmt"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/interface/fare"
	"farewatch-service/pkg/logger"
	"farewatch-service/pkg/metrics"
)

// FareFetcher wraps a price source with retries, per-attempt timeouts and
// a sanity band on returned prices. Callers get a single outcome: a quote,
// or a failure with a human-readable reason.
type FareFetcher struct {
	source   fare.PriceSource
	attempts int
	delay    time.Duration
	timeout  time.Duration
	bandMin  float64
	bandMax  float64
	metrics  *metrics.Metrics
	logger   logger.Logger
}

// NewFareFetcher creates a retrying fetcher around a price source
func NewFareFetcher(
	source fare.PriceSource,
	attempts int,
	delay time.Duration,
	timeout time.Duration,
	bandMin float64,
	bandMax float64,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *FareFetcher {
	if attempts < 1 {
		attempts = 1
	}
	return &FareFetcher{
		source:   source,
		attempts: attempts,
		delay:    delay,
		timeout:  timeout,
		bandMin:  bandMin,
		bandMax:  bandMax,
		metrics:  metrics,
		logger:   logger,
	}
}

// Fetch drives one adapter call to completion. Validation failures and
// "no fare" answers surface immediately; transient failures are retried
// up to the attempt limit with a fixed delay between tries.
func (f *FareFetcher) Fetch(ctx context.Context, query entity.FareQuery) (*entity.FareQuote, error) {
	if err := fare.ValidateQuery(query); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= f.attempts; attempt++ {
		if attempt > 1 {
			if f.metrics != nil {
				f.metrics.FetchRetries.Inc()
			}
			select {
			case <-time.After(f.delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("fare fetch cancelled: %w", ctx.Err())
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
		quote, err := f.source.Fetch(attemptCtx, query)
		cancel()

		if err != nil {
			if fare.IsPermanent(err) {
				return nil, err
			}
			lastErr = err
			f.logger.Warn("Fare fetch attempt failed",
				"source", f.source.Name(),
				"attempt", attempt,
				"error", err)
			continue
		}

		if quote.Price < f.bandMin || quote.Price > f.bandMax {
			// Out-of-band quotes are adapter anomalies, not fares.
			lastErr = fmt.Errorf("quote price %.2f outside sane band [%.0f, %.0f]",
				quote.Price, f.bandMin, f.bandMax)
			f.logger.Warn("Rejected anomalous quote",
				"source", f.source.Name(),
				"attempt", attempt,
				"price", quote.Price)
			continue
		}

		return quote, nil
	}

	return nil, fmt.Errorf("all %d fetch attempts failed: %w", f.attempts, lastErr)
}
