// internal/domain/entity/flight.go
package entity

import (
	"fmt"
	"time"
)

// WatchedFlight is a flight a user asked the service to monitor.
// The record is owned by the flight-management collaborator; the engine
// only reads it and writes CurrentPrice, LowestPrice and LastChecked.
type WatchedFlight struct {
	ID            string
	Description   string
	Origin        string
	Destination   string
	DepartureDate time.Time
	ReturnDate    *time.Time
	Airline       string
	FlightNumbers []string

	OriginalPrice float64
	CurrentPrice  float64
	LowestPrice   float64

	MonitoringEnabled bool
	NotifyEnabled     bool

	// Threshold fractions, e.g. 0.05 means a 5% move.
	DecreaseThreshold float64
	IncreaseThreshold float64

	CheckFrequencyHours int
	LastChecked         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Route returns the "SLC -> SFO" display form of the flight's route.
func (f *WatchedFlight) Route() string {
	return fmt.Sprintf("%s -> %s", f.Origin, f.Destination)
}

// RoundTrip reports whether the flight has a return leg.
func (f *WatchedFlight) RoundTrip() bool {
	return f.ReturnDate != nil && !f.ReturnDate.IsZero()
}

// EndDate is the last travel date: the return date for a round trip,
// otherwise the departure date.
func (f *WatchedFlight) EndDate() time.Time {
	if f.RoundTrip() {
		return *f.ReturnDate
	}
	return f.DepartureDate
}

// Baseline is the price a new observation is compared against: the
// previous current price, seeded from the original purchase price.
func (f *WatchedFlight) Baseline() float64 {
	if f.CurrentPrice > 0 {
		return f.CurrentPrice
	}
	return f.OriginalPrice
}

// Cooldown returns the per-flight check frequency as a duration,
// falling back to fallback when the flight has none configured.
func (f *WatchedFlight) Cooldown(fallback time.Duration) time.Duration {
	if f.CheckFrequencyHours <= 0 {
		return fallback
	}
	return time.Duration(f.CheckFrequencyHours) * time.Hour
}
