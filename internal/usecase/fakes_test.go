package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"farewatch-service/internal/domain/entity"
)

var errNotFound = errors.New("record not found")

// fakeFlightRepo is an in-memory FlightRepository.
type fakeFlightRepo struct {
	flights map[string]*entity.WatchedFlight
	listErr error
}

func newFakeFlightRepo(flights ...*entity.WatchedFlight) *fakeFlightRepo {
	repo := &fakeFlightRepo{flights: make(map[string]*entity.WatchedFlight)}
	for _, f := range flights {
		repo.flights[f.ID] = f
	}
	return repo
}

func (r *fakeFlightRepo) GetByID(ctx context.Context, id string) (*entity.WatchedFlight, error) {
	f, ok := r.flights[id]
	if !ok {
		return nil, errNotFound
	}
	clone := *f
	return &clone, nil
}

func (r *fakeFlightRepo) ListEligible(ctx context.Context, cooldown time.Duration, limit int) ([]*entity.WatchedFlight, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	now := time.Now()
	var eligible []*entity.WatchedFlight
	for _, f := range r.flights {
		if !f.MonitoringEnabled {
			continue
		}
		cutoff := now.Add(-f.Cooldown(cooldown))
		if f.LastChecked == nil || f.LastChecked.Before(cutoff) {
			clone := *f
			eligible = append(eligible, &clone)
		}
	}
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].ID < eligible[j].ID })
	if len(eligible) > limit {
		eligible = eligible[:limit]
	}
	return eligible, nil
}

func (r *fakeFlightRepo) ListAll(ctx context.Context) ([]*entity.WatchedFlight, error) {
	var all []*entity.WatchedFlight
	for _, f := range r.flights {
		clone := *f
		all = append(all, &clone)
	}
	return all, nil
}

func (r *fakeFlightRepo) UpdatePrices(ctx context.Context, id string, currentPrice, lowestPrice float64, checkedAt time.Time) error {
	f, ok := r.flights[id]
	if !ok {
		return errNotFound
	}
	f.CurrentPrice = currentPrice
	f.LowestPrice = lowestPrice
	f.LastChecked = &checkedAt
	return nil
}

func (r *fakeFlightRepo) MarkChecked(ctx context.Context, id string, checkedAt time.Time) error {
	f, ok := r.flights[id]
	if !ok {
		return errNotFound
	}
	f.LastChecked = &checkedAt
	return nil
}

func (r *fakeFlightRepo) ListCompleted(ctx context.Context, before time.Time) ([]*entity.WatchedFlight, error) {
	var completed []*entity.WatchedFlight
	for _, f := range r.flights {
		if f.MonitoringEnabled && f.EndDate().Before(before) {
			clone := *f
			completed = append(completed, &clone)
		}
	}
	return completed, nil
}

func (r *fakeFlightRepo) DisableMonitoring(ctx context.Context, id string) error {
	f, ok := r.flights[id]
	if !ok {
		return errNotFound
	}
	f.MonitoringEnabled = false
	return nil
}

// fakeHistoryRepo is an in-memory append-only ledger.
type fakeHistoryRepo struct {
	points    []*entity.PricePoint
	appendErr error
}

func (r *fakeHistoryRepo) Append(ctx context.Context, point *entity.PricePoint) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.points = append(r.points, point)
	return nil
}

func (r *fakeHistoryRepo) FindByFlight(ctx context.Context, flightID string, limit int) ([]*entity.PricePoint, error) {
	var found []*entity.PricePoint
	for _, p := range r.points {
		if p.FlightID == flightID {
			found = append(found, p)
		}
	}
	return found, nil
}

// fakeNotificationRepo is an in-memory NotificationRepository.
type fakeNotificationRepo struct {
	events    map[string]*entity.NotificationEvent
	order     []string
	createErr error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{events: make(map[string]*entity.NotificationEvent)}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, event *entity.NotificationEvent) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *event
	clone.Sent = false
	r.events[event.ID] = &clone
	r.order = append(r.order, event.ID)
	return nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*entity.NotificationEvent, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, errNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *fakeNotificationRepo) MarkSent(ctx context.Context, id string, sentAt time.Time) (bool, error) {
	e, ok := r.events[id]
	if !ok {
		return false, errNotFound
	}
	if e.Sent {
		return false, nil
	}
	e.Sent = true
	e.SentAt = &sentAt
	e.LastError = ""
	return true, nil
}

func (r *fakeNotificationRepo) SetLastError(ctx context.Context, id string, reason string) error {
	e, ok := r.events[id]
	if !ok {
		return errNotFound
	}
	e.LastError = reason
	return nil
}

func (r *fakeNotificationRepo) FindUnsent(ctx context.Context, limit int) ([]*entity.NotificationEvent, error) {
	var unsent []*entity.NotificationEvent
	for _, id := range r.order {
		if len(unsent) == limit {
			break
		}
		if e := r.events[id]; !e.Sent {
			clone := *e
			unsent = append(unsent, &clone)
		}
	}
	return unsent, nil
}

// fakeMailer counts delivery attempts and can be told to fail.
type fakeMailer struct {
	sendErr error
	calls   int
	sentIDs []string
}

func (m *fakeMailer) SendAlert(ctx context.Context, event *entity.NotificationEvent) error {
	m.calls++
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sentIDs = append(m.sentIDs, event.ID)
	return nil
}

// stubSource serves a scripted sequence of quotes and errors.
type stubSource struct {
	responses []stubResponse
	calls     int
}

type stubResponse struct {
	price float64
	err   error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(ctx context.Context, query entity.FareQuery) (*entity.FareQuote, error) {
	idx := s.calls
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	s.calls++
	r := s.responses[idx]
	if r.err != nil {
		return nil, r.err
	}
	return &entity.FareQuote{
		Price:     r.price,
		Airline:   "Delta",
		Source:    s.Name(),
		FetchedAt: time.Now(),
	}, nil
}
