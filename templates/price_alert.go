package templates

import (
	"fmt"
	"strings"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/pkg/utils"
)

const priceDropTemplate = `Price Drop Alert!

Flight: %s
Route: %s
Departure: %s%s

Previous Price: %s
Current Price: %s
Change: %+.2f%%

You can save %s. Contact the airline to claim a credit for the difference.`

const priceIncreaseTemplate = `Price Increase Notice

Flight: %s
Route: %s
Departure: %s%s

Previous Price: %s
Current Price: %s
Change: %+.2f%%

The fare moved up by %s. Your booked price is unaffected.`

const trackingStartedTemplate = `Flight Tracking Confirmed

Flight: %s
Route: %s
Departure: %s%s
Original Price: %s

We will check this fare on the configured schedule and alert you when the
price moves past your thresholds.`

// RenderPriceDrop builds the subject and body for a price drop alert
func RenderPriceDrop(flight *entity.WatchedFlight, oldPrice, newPrice, changePercent float64) (string, string) {
	savings := utils.FormatMoney(oldPrice - newPrice)
	subject := fmt.Sprintf("Price Drop Alert - %s - Save %s", flight.Route(), savings)
	body := fmt.Sprintf(priceDropTemplate,
		flightLabel(flight),
		flight.Route(),
		flight.DepartureDate.Format(utils.DATE_LAYOUT),
		returnLine(flight),
		utils.FormatMoney(oldPrice),
		utils.FormatMoney(newPrice),
		changePercent,
		savings,
	)
	return subject, body
}

// RenderPriceIncrease builds the subject and body for a price increase notice
func RenderPriceIncrease(flight *entity.WatchedFlight, oldPrice, newPrice, changePercent float64) (string, string) {
	premium := utils.FormatMoney(newPrice - oldPrice)
	subject := fmt.Sprintf("Price Increase - %s - Up %s", flight.Route(), premium)
	body := fmt.Sprintf(priceIncreaseTemplate,
		flightLabel(flight),
		flight.Route(),
		flight.DepartureDate.Format(utils.DATE_LAYOUT),
		returnLine(flight),
		utils.FormatMoney(oldPrice),
		utils.FormatMoney(newPrice),
		changePercent,
		premium,
	)
	return subject, body
}

// RenderTrackingStarted builds the confirmation sent when monitoring begins
func RenderTrackingStarted(flight *entity.WatchedFlight) (string, string) {
	subject := fmt.Sprintf("Flight Tracking Confirmed - %s", flight.Route())
	body := fmt.Sprintf(trackingStartedTemplate,
		flightLabel(flight),
		flight.Route(),
		flight.DepartureDate.Format(utils.DATE_LAYOUT),
		returnLine(flight),
		utils.FormatMoney(flight.OriginalPrice),
	)
	return subject, body
}

func flightLabel(flight *entity.WatchedFlight) string {
	if flight.Description != "" {
		return flight.Description
	}
	if len(flight.FlightNumbers) > 0 {
		return strings.Join(flight.FlightNumbers, ", ")
	}
	return flight.Route()
}

func returnLine(flight *entity.WatchedFlight) string {
	if flight.RoundTrip() {
		return "\nReturn: " + flight.ReturnDate.Format(utils.DATE_LAYOUT)
	}
	return ""
}
