package report

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/Simplici0/tourpricing/internal/pricing"
)

const (
	currencyPrefix = "NT$ "
	placeholder    = "—"
)

// Money formats an amount rounded to the nearest dollar with thousands separators.
func Money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return currencyPrefix + placeholder
	}
	return currencyPrefix + humanize.Comma(int64(math.Round(v)))
}

// OptionalMoney formats v, or the placeholder when v is nil.
func OptionalMoney(v *float64) string {
	if v == nil {
		return currencyPrefix + placeholder
	}
	return Money(*v)
}

// Percent formats a rate with one decimal place.
func Percent(rate float64) string {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return placeholder
	}
	return fmt.Sprintf("%.1f%%", rate*100)
}

// Headcount formats a group size, or the placeholder when it is unreachable.
func Headcount(n *int) string {
	if n == nil {
		return placeholder
	}
	return fmt.Sprintf("%d people", *n)
}

// RiskLabel describes a risk state for people.
func RiskLabel(risk string) string {
	switch pricing.Risk(risk) {
	case pricing.RiskBlocking:
		return "Price below cost, the trip cannot run"
	case pricing.RiskHigh:
		return "Target headcount below breakeven, high risk"
	case pricing.RiskLowMargin:
		return "Breaks even, but margin is below target"
	case pricing.RiskHealthy:
		return "Healthy"
	default:
		return risk
	}
}

func rowLabel(status string) string {
	switch pricing.RowStatus(status) {
	case pricing.RowBelowBreakeven:
		return "below breakeven"
	case pricing.RowBelowTarget:
		return "below target"
	default:
		return "ok"
	}
}
