package usecase

import (
	"farewatch-service/pkg/utils"
)

// ChangeType classifies a price movement
type ChangeType string

const (
	ChangeDrop     ChangeType = "price_drop"
	ChangeIncrease ChangeType = "price_increase"
	ChangeNone     ChangeType = "none"
)

// Default threshold fractions used when a flight has none configured.
const (
	DefaultDecreaseThreshold = 0.05
	DefaultIncreaseThreshold = 0.10
)

// ComputeChange returns the percentage move from oldPrice to newPrice,
// rounded to two decimals. A missing or zero baseline yields 0 so a
// freshly tracked flight never divides by zero or fires an alert.
func ComputeChange(oldPrice, newPrice float64) float64 {
	if oldPrice <= 0 {
		return 0
	}
	return utils.Round2((newPrice - oldPrice) / oldPrice * 100)
}

// Classify maps a percentage change to a change type. Thresholds are
// fractions (0.05 = 5%) and both boundaries are inclusive: a move of
// exactly the threshold triggers.
func Classify(changePercent, decreaseThreshold, increaseThreshold float64) ChangeType {
	if decreaseThreshold <= 0 {
		decreaseThreshold = DefaultDecreaseThreshold
	}
	if increaseThreshold <= 0 {
		increaseThreshold = DefaultIncreaseThreshold
	}

	switch {
	case changePercent <= -decreaseThreshold*100:
		return ChangeDrop
	case changePercent >= increaseThreshold*100:
		return ChangeIncrease
	default:
		return ChangeNone
	}
}
