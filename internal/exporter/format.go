package exporter

import (
	"strconv"

	"billingdash/pkg/contracts/domain"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatOptFloat leaves absent and null values as empty cells
func formatOptFloat(o domain.Opt[float64]) string {
	if v, ok := o.Get(); ok {
		return formatFloat(v)
	}
	return ""
}

func formatOptString(o domain.Opt[string]) string {
	v, _ := o.Get()
	return v
}
