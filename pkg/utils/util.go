package utils

import (
	"fmt"
	"math"
)

// Constants
const (
	DATE_LAYOUT = "2006-01-02"
)

// Round2 rounds a value to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatMoney renders a price as a dollar amount with two decimals.
func FormatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
