// internal/domain/entity/price_point.go
package entity

import (
	"time"
)

// PricePoint is a single immutable price observation for a flight.
// Points are append-only: the engine never mutates or deletes them.
type PricePoint struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	FlightID   string    `bson:"flightId" json:"flight_id"`
	Price      float64   `bson:"price" json:"price"`
	Source     string    `bson:"source" json:"source"`
	RecordedAt time.Time `bson:"recordedAt" json:"recorded_at"`
}
