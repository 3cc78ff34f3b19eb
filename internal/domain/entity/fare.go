// internal/domain/entity/fare.go
package entity

import (
	"time"
)

// FareQuery describes one route/date pair to price. A zero ReturnDate
// means a one-way search.
type FareQuery struct {
	Origin        string
	Destination   string
	DepartureDate time.Time
	ReturnDate    time.Time
	FlightNumbers []string
}

// RoundTrip reports whether the query has a return leg.
func (q FareQuery) RoundTrip() bool {
	return !q.ReturnDate.IsZero()
}

// FareQuote is the result of a successful price fetch.
type FareQuote struct {
	Price         float64
	Airline       string
	FlightNumbers []string
	Source        string
	FetchedAt     time.Time
}
