package exporter

import (
	"fmt"
)

// formatValue formats a series value for CSV output according to its unit.
// Currency and percent values always carry two decimal places so 13.4
// appears as 13.40; counts render without a fraction when whole.
func formatValue(v float64, unit Unit) string {
	switch unit {
	case UnitCount:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
