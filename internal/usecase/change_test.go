package usecase

import (
	"testing"
)

func TestComputeChange(t *testing.T) {
	tests := []struct {
		name     string
		oldPrice float64
		newPrice float64
		want     float64
	}{
		{"drop from 300 to 280", 300, 280, -6.67},
		{"increase from 300 to 330", 300, 330, 10.00},
		{"no movement", 450, 450, 0},
		{"zero baseline", 0, 280, 0},
		{"negative baseline", -10, 280, 0},
		{"rounding to two decimals", 299.99, 280, -6.66},
		{"small drop", 300, 299, -0.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeChange(tt.oldPrice, tt.newPrice)
			if got != tt.want {
				t.Errorf("ComputeChange(%v, %v) = %v, want %v", tt.oldPrice, tt.newPrice, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		changePercent float64
		decrease      float64
		increase      float64
		want          ChangeType
	}{
		{"drop beyond threshold", -6.67, 0.05, 0.10, ChangeDrop},
		{"drop exactly at threshold is inclusive", -5.00, 0.05, 0.10, ChangeDrop},
		{"drop just inside threshold", -4.99, 0.05, 0.10, ChangeNone},
		{"increase beyond threshold", 12.5, 0.05, 0.10, ChangeIncrease},
		{"increase exactly at threshold is inclusive", 10.00, 0.05, 0.10, ChangeIncrease},
		{"increase just inside threshold", 9.99, 0.05, 0.10, ChangeNone},
		{"zero change", 0, 0.05, 0.10, ChangeNone},
		{"defaults applied when thresholds unset", -5.00, 0, 0, ChangeDrop},
		{"custom tight thresholds", -2.00, 0.02, 0.03, ChangeDrop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.changePercent, tt.decrease, tt.increase)
			if got != tt.want {
				t.Errorf("Classify(%v, %v, %v) = %v, want %v", tt.changePercent, tt.decrease, tt.increase, got, tt.want)
			}
		})
	}
}
