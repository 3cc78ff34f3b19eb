package usecase

import (
	"context"
	"fmt"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"
	"farewatch-service/pkg/logger"
	"farewatch-service/pkg/metrics"

	"golang.org/x/time/rate"
)

// CheckOutcome is the per-flight result of one monitoring pass
type CheckOutcome struct {
	FlightID         string  `json:"flight_id"`
	Route            string  `json:"route"`
	OldPrice         float64 `json:"old_price"`
	NewPrice         float64 `json:"new_price"`
	ChangePercent    float64 `json:"change_percent"`
	NotificationSent bool    `json:"notification_sent"`
	Success          bool    `json:"success"`
	Error            string  `json:"error,omitempty"`
}

// BatchResult aggregates the outcomes of one scheduler invocation
type BatchResult struct {
	Success        bool           `json:"success"`
	FlightsChecked int            `json:"flights_checked"`
	Notified       int            `json:"notified"`
	Failed         int            `json:"failed"`
	Results        []CheckOutcome `json:"results"`
}

// PriceMonitor drives the price check pipeline: select eligible flights,
// fetch with retries, append to the ledger, decide, dispatch. Flights are
// processed strictly sequentially with a limiter pacing fetches so the
// external source is never hammered.
type PriceMonitor struct {
	flightRepo       repository.FlightRepository
	historyRepo      repository.PriceHistoryRepository
	fetcher          *FareFetcher
	dispatcher       *NotificationDispatcher
	limiter          *rate.Limiter
	cooldown         time.Duration
	batchLimit       int
	defaultDecrease  float64
	defaultIncrease  float64
	metrics          *metrics.Metrics
	logger           logger.Logger
}

// NewPriceMonitor creates a new price monitor
func NewPriceMonitor(
	flightRepo repository.FlightRepository,
	historyRepo repository.PriceHistoryRepository,
	fetcher *FareFetcher,
	dispatcher *NotificationDispatcher,
	requestDelay time.Duration,
	cooldown time.Duration,
	batchLimit int,
	decreaseThreshold float64,
	increaseThreshold float64,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *PriceMonitor {
	limit := rate.Inf
	if requestDelay > 0 {
		limit = rate.Every(requestDelay)
	}
	return &PriceMonitor{
		flightRepo:      flightRepo,
		historyRepo:     historyRepo,
		fetcher:         fetcher,
		dispatcher:      dispatcher,
		limiter:         rate.NewLimiter(limit, 1),
		cooldown:        cooldown,
		batchLimit:      batchLimit,
		defaultDecrease: decreaseThreshold,
		defaultIncrease: increaseThreshold,
		metrics:         metrics,
		logger:          logger,
	}
}

// CheckAll runs one batch cycle over all eligible flights. Only the
// selection query is batch-fatal; per-flight failures are recorded in
// their outcome and the cycle moves on.
func (m *PriceMonitor) CheckAll(ctx context.Context) (*BatchResult, error) {
	flights, err := m.flightRepo.ListEligible(ctx, m.cooldown, m.batchLimit)
	if err != nil {
		return nil, fmt.Errorf("select eligible flights: %w", err)
	}

	m.logger.Info("Starting monitoring cycle", "eligible", len(flights))

	result := &BatchResult{Success: true, Results: make([]CheckOutcome, 0, len(flights))}
	for _, flight := range flights {
		outcome := m.checkFlight(ctx, flight)
		result.Results = append(result.Results, outcome)
		result.FlightsChecked++
		if outcome.NotificationSent {
			result.Notified++
		}
		if !outcome.Success {
			result.Failed++
		}
	}

	m.logger.Info("Monitoring cycle completed",
		"checked", result.FlightsChecked,
		"notified", result.Notified,
		"failed", result.Failed)
	return result, nil
}

// CheckOne runs the pipeline for a single flight regardless of cooldown.
// Used by the manual trigger.
func (m *PriceMonitor) CheckOne(ctx context.Context, flightID string) (*BatchResult, error) {
	flight, err := m.flightRepo.GetByID(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("load flight %s: %w", flightID, err)
	}

	outcome := m.checkFlight(ctx, flight)
	result := &BatchResult{
		Success:        true,
		FlightsChecked: 1,
		Results:        []CheckOutcome{outcome},
	}
	if outcome.NotificationSent {
		result.Notified = 1
	}
	if !outcome.Success {
		result.Failed = 1
	}
	return result, nil
}

// checkFlight runs the per-flight pipeline. The last-checked stamp lands
// first, even when the fetch fails, so a broken route cannot hot-loop.
func (m *PriceMonitor) checkFlight(ctx context.Context, flight *entity.WatchedFlight) CheckOutcome {
	start := time.Now()
	defer func() {
		if m.metrics != nil {
			m.metrics.FlightsChecked.Inc()
			m.metrics.CheckDuration.Observe(time.Since(start).Seconds())
		}
	}()

	outcome := CheckOutcome{
		FlightID: flight.ID,
		Route:    flight.Route(),
		OldPrice: flight.Baseline(),
	}

	// A flight seen for the first time gets its tracking confirmation
	// before any price comparison happens.
	if flight.LastChecked == nil && flight.NotifyEnabled {
		if _, err := m.dispatcher.DispatchTrackingStarted(ctx, flight); err != nil {
			m.logger.Warn("Tracking confirmation failed", "flightId", flight.ID, "error", err)
		}
	}

	now := time.Now()
	if err := m.flightRepo.MarkChecked(ctx, flight.ID, now); err != nil {
		return m.failOutcome(outcome, "flight_update", fmt.Errorf("mark checked: %w", err))
	}

	if err := m.limiter.Wait(ctx); err != nil {
		return m.failOutcome(outcome, "pacing", err)
	}

	quote, err := m.fetcher.Fetch(ctx, fareQueryFor(flight))
	if err != nil {
		m.logger.Warn("Price fetch failed", "flightId", flight.ID, "route", outcome.Route, "error", err)
		return m.failOutcome(outcome, "fetch", err)
	}

	outcome.NewPrice = quote.Price
	outcome.ChangePercent = ComputeChange(outcome.OldPrice, quote.Price)

	point := &entity.PricePoint{
		FlightID:   flight.ID,
		Price:      quote.Price,
		Source:     quote.Source,
		RecordedAt: now,
	}
	if err := m.historyRepo.Append(ctx, point); err != nil {
		return m.failOutcome(outcome, "history_append", fmt.Errorf("append price point: %w", err))
	}
	if m.metrics != nil {
		m.metrics.PricePointsRecorded.Inc()
	}

	lowest := flight.LowestPrice
	if lowest <= 0 {
		lowest = flight.OriginalPrice
	}
	if lowest <= 0 || quote.Price < lowest {
		lowest = quote.Price
	}
	if err := m.flightRepo.UpdatePrices(ctx, flight.ID, quote.Price, lowest, now); err != nil {
		return m.failOutcome(outcome, "flight_update", fmt.Errorf("update prices: %w", err))
	}

	m.logger.Info("Price recorded",
		"flightId", flight.ID,
		"route", outcome.Route,
		"oldPrice", outcome.OldPrice,
		"newPrice", quote.Price,
		"changePercent", outcome.ChangePercent,
		"lowest", lowest)

	decrease := flight.DecreaseThreshold
	if decrease <= 0 {
		decrease = m.defaultDecrease
	}
	increase := flight.IncreaseThreshold
	if increase <= 0 {
		increase = m.defaultIncrease
	}
	change := Classify(outcome.ChangePercent, decrease, increase)
	if change == ChangeNone || outcome.OldPrice <= 0 || !flight.NotifyEnabled {
		outcome.Success = true
		return outcome
	}

	event, err := m.dispatcher.DispatchPriceChange(ctx, flight, change, outcome.OldPrice, quote.Price, outcome.ChangePercent)
	if err != nil {
		return m.failOutcome(outcome, "notification_create", err)
	}
	outcome.NotificationSent = event.Sent
	outcome.Success = true
	return outcome
}

// SweepCompleted disables monitoring for flights whose travel window has
// already passed, so they stop being selected in future cycles.
func (m *PriceMonitor) SweepCompleted(ctx context.Context) (int, error) {
	today := time.Now().Truncate(24 * time.Hour)
	flights, err := m.flightRepo.ListCompleted(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("list completed flights: %w", err)
	}

	disabled := 0
	for _, flight := range flights {
		if err := m.flightRepo.DisableMonitoring(ctx, flight.ID); err != nil {
			m.logger.Error("Failed to disable completed flight", "flightId", flight.ID, "error", err)
			continue
		}
		savings := flight.OriginalPrice - flight.LowestPrice
		if savings < 0 {
			savings = 0
		}
		m.logger.Info("Flight completed, monitoring disabled",
			"flightId", flight.ID,
			"route", flight.Route(),
			"originalPrice", flight.OriginalPrice,
			"lowestPrice", flight.LowestPrice,
			"savings", savings)
		disabled++
	}
	return disabled, nil
}

func (m *PriceMonitor) failOutcome(outcome CheckOutcome, operation string, err error) CheckOutcome {
	if m.metrics != nil {
		m.metrics.ErrorsCount.WithLabelValues(operation).Inc()
	}
	outcome.Success = false
	outcome.Error = err.Error()
	return outcome
}

func fareQueryFor(flight *entity.WatchedFlight) entity.FareQuery {
	query := entity.FareQuery{
		Origin:        flight.Origin,
		Destination:   flight.Destination,
		DepartureDate: flight.DepartureDate,
		FlightNumbers: flight.FlightNumbers,
	}
	if flight.RoundTrip() {
		query.ReturnDate = *flight.ReturnDate
	}
	return query
}
