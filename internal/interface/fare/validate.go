package fare

import (
	"fmt"
	"regexp"

	"farewatch-service/internal/domain/entity"
)

var airportCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateQuery checks a fare query before it reaches any backend.
// All failures are *ValidationError and therefore permanent.
func ValidateQuery(q entity.FareQuery) error {
	if !airportCodeRe.MatchString(q.Origin) {
		return &ValidationError{Reason: fmt.Sprintf("invalid origin airport code %q", q.Origin)}
	}
	if !airportCodeRe.MatchString(q.Destination) {
		return &ValidationError{Reason: fmt.Sprintf("invalid destination airport code %q", q.Destination)}
	}
	if q.Origin == q.Destination {
		return &ValidationError{Reason: "origin and destination must differ"}
	}
	if q.DepartureDate.IsZero() {
		return &ValidationError{Reason: "departure date is required"}
	}
	if q.RoundTrip() && !q.ReturnDate.After(q.DepartureDate) {
		return &ValidationError{Reason: "return date must be after departure date"}
	}
	return nil
}
