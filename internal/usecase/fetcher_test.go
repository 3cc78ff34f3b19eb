package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/interface/fare"
	"farewatch-service/pkg/logger"
)

func testQuery() entity.FareQuery {
	return entity.FareQuery{
		Origin:        "SLC",
		Destination:   "SFO",
		DepartureDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		ReturnDate:    time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC),
	}
}

func newTestFetcher(source fare.PriceSource, attempts int) *FareFetcher {
	return NewFareFetcher(source, attempts, time.Millisecond, time.Second, 100, 2000, nil, logger.NewNop())
}

func TestFetcherRetriesTransientFailures(t *testing.T) {
	source := &stubSource{responses: []stubResponse{
		{err: &fare.TransientError{Reason: "timeout"}},
		{err: &fare.TransientError{Reason: "rate limited"}},
		{price: 420},
	}}
	fetcher := newTestFetcher(source, 3)

	quote, err := fetcher.Fetch(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if quote.Price != 420 {
		t.Errorf("quote price = %v, want 420", quote.Price)
	}
	if source.calls != 3 {
		t.Errorf("source called %d times, want 3", source.calls)
	}
}

func TestFetcherExhaustsAttempts(t *testing.T) {
	source := &stubSource{responses: []stubResponse{
		{err: &fare.TransientError{Reason: "site unavailable"}},
	}}
	fetcher := newTestFetcher(source, 3)

	_, err := fetcher.Fetch(context.Background(), testQuery())
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if source.calls != 3 {
		t.Errorf("source called %d times, want 3", source.calls)
	}
	if !strings.Contains(err.Error(), "all 3 fetch attempts failed") {
		t.Errorf("error %q should mention exhausted attempts", err)
	}
	if !strings.Contains(err.Error(), "site unavailable") {
		t.Errorf("error %q should carry the underlying reason", err)
	}
}

func TestFetcherDoesNotRetryValidationErrors(t *testing.T) {
	source := &stubSource{responses: []stubResponse{{price: 420}}}
	fetcher := newTestFetcher(source, 3)

	query := testQuery()
	query.Origin = "slc"
	_, err := fetcher.Fetch(context.Background(), query)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !fare.IsPermanent(err) {
		t.Errorf("validation error should be permanent, got %v", err)
	}
	if source.calls != 0 {
		t.Errorf("source called %d times, want 0", source.calls)
	}
}

func TestFetcherDoesNotRetryNoFare(t *testing.T) {
	source := &stubSource{responses: []stubResponse{{err: fare.ErrNoFare}}}
	fetcher := newTestFetcher(source, 3)

	_, err := fetcher.Fetch(context.Background(), testQuery())
	if err == nil {
		t.Fatal("expected no-fare error")
	}
	if source.calls != 1 {
		t.Errorf("source called %d times, want 1", source.calls)
	}
}

func TestFetcherRejectsOutOfBandQuotes(t *testing.T) {
	source := &stubSource{responses: []stubResponse{{price: 2500}}}
	fetcher := newTestFetcher(source, 2)

	_, err := fetcher.Fetch(context.Background(), testQuery())
	if err == nil {
		t.Fatal("expected out-of-band quote to fail")
	}
	if !strings.Contains(err.Error(), "outside sane band") {
		t.Errorf("error %q should mention the sane band", err)
	}
	if source.calls != 2 {
		t.Errorf("source called %d times, want 2", source.calls)
	}
}
