package pricing

// Risk is the overall state of a pricing result.
type Risk string

const (
	// RiskBlocking means the price never covers the per-person cost.
	RiskBlocking Risk = "blocking"
	// RiskHigh means the target headcount is below breakeven.
	RiskHigh Risk = "high_risk"
	// RiskLowMargin means the trip breaks even but misses the target margin.
	RiskLowMargin Risk = "low_margin"
	RiskHealthy   Risk = "healthy"
)

// Risk classifies the result for display.
func (r Result) Risk() Risk {
	switch {
	case !r.Outlook.Breakeven.Reachable:
		return RiskBlocking
	case r.Composition.TargetPeople < r.Outlook.Breakeven.N:
		return RiskHigh
	case r.Outlook.MarginAtTarget < r.Outlook.TargetMarginRate:
		return RiskLowMargin
	default:
		return RiskHealthy
	}
}

// CapacityExceeded reports whether the target headcount needs a bigger bus.
func (r Result) CapacityExceeded() bool {
	return r.Composition.TargetPeople > RecommendedCapacity
}

// CostPart is one named per-person cost component.
type CostPart struct {
	Name  string
	Value float64
}

// CostParts lists the per-person cost components in display order, card fee included.
func (r Result) CostParts() []CostPart {
	c := r.Breakdown.Costs
	return []CostPart{
		{Name: "japan_land", Value: c.JapanLand},
		{Name: "flight", Value: c.Flight},
		{Name: "insurance", Value: c.Insurance},
		{Name: "sim_card", Value: c.SIMCard},
		{Name: "handbook", Value: c.Handbook},
		{Name: "big_bus", Value: c.BigBusSurcharge},
		{Name: "card_fee", Value: r.Breakdown.AvgCardFeePerPerson},
		{Name: "other", Value: c.OtherExtra},
	}
}
