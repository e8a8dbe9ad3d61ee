package snapshot

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/Simplici0/tourpricing/internal/pricing"
)

// ParseMoney keeps only the digits of raw and reads them as a whole amount.
// It never fails and never returns a negative value: empty or digit-free
// input is 0, and separators such as "45,800" or "NT$ 45,800" are tolerated.
// Amounts above pricing.MaxAmount are capped.
func ParseMoney(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return math.Min(v, pricing.MaxAmount)
}

// ParseCount reads a headcount such as "20" or "20 people". Fractions are
// floored and digit-free input is 0.
func ParseCount(raw string) int {
	v := parseNumber(raw)
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(v))
}

// ParsePercent reads a percentage such as "2.4" and returns it as a rate (0.024).
// Digit-free input is 0.
func ParsePercent(raw string) float64 {
	return parseNumber(raw) / 100
}

// ParsePriceEnding maps the form value to a price ending; unknown values mean 800.
func ParsePriceEnding(raw string) pricing.PriceEnding {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(pricing.EndingHundred):
		return pricing.EndingHundred
	case string(pricing.Ending900):
		return pricing.Ending900
	default:
		return pricing.Ending800
	}
}

// ParseTicketMode maps the form value to a ticket mode; anything but
// "exclude" includes the ticket.
func ParseTicketMode(raw string) pricing.TicketMode {
	if strings.EqualFold(strings.TrimSpace(raw), string(pricing.TicketExclude)) {
		return pricing.TicketExclude
	}
	return pricing.TicketInclude
}

// parseNumber keeps the digits of raw and its first decimal point, so signs,
// separators and units are dropped.
func parseNumber(raw string) float64 {
	var b strings.Builder
	dot := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !dot:
			dot = true
			b.WriteRune(r)
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsInf(v, 0) {
		return 0
	}
	return v
}
