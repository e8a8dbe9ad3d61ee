package pricing

import "math"

const (
	// DepositAmount is the per-person deposit paid outside the card terminal.
	DepositAmount = 15000.0
	// TicketExcludedDiscount is taken off the normal price when flights are not sold.
	TicketExcludedDiscount = 10000.0
	// RecommendedCapacity is the student capacity of the current bus.
	RecommendedCapacity = 17
	// ReferenceGroupSize is the smaller reference point on the margin rings.
	ReferenceGroupSize = 15
	// MaxAmount is the largest money amount the model accepts. Larger inputs
	// are capped to it.
	MaxAmount = 1e15

	maxTargetMarginRate = 0.95
	maxCardFeeRate      = 0.2
)

// TicketMode tells whether the package price includes the flight ticket.
type TicketMode string

const (
	TicketInclude TicketMode = "include"
	TicketExclude TicketMode = "exclude"
)

// PriceEnding is the retail ending a suggested price is rounded up to.
type PriceEnding string

const (
	EndingHundred PriceEnding = "hundred"
	Ending800     PriceEnding = "800"
	Ending900     PriceEnding = "900"
)

// Costs are the per-person cost components of one trip.
type Costs struct {
	JapanLand       float64
	Flight          float64
	Insurance       float64
	SIMCard         float64
	Handbook        float64
	BigBusSurcharge float64
	OtherExtra      float64
}

// Total sums every per-person component.
func (c Costs) Total() float64 {
	return c.JapanLand + c.Flight + c.Insurance + c.SIMCard + c.Handbook + c.BigBusSurcharge + c.OtherExtra
}

// Inputs represents every business parameter of one pricing computation.
type Inputs struct {
	TargetPeople  int
	EarlyCount    int
	StudentCount  int
	DesiredPeople int

	NormalPrice   float64
	EarlyDiscount float64
	StudentBuffer float64
	PriceEnding   PriceEnding

	TargetGrossMarginRate float64

	Costs Costs

	AdCostPerSignup float64
	FixedOtherCost  float64

	CardSettlementCount int
	CardFeeRate         float64

	TicketMode TicketMode
}

// Composition is the headcount split across the three tiers.
type Composition struct {
	TargetPeople  int
	NormalCount   int
	EarlyCount    int
	StudentCount  int
	DesiredPeople int
}

// Prices holds the tier prices and their enrollment-weighted blend.
type Prices struct {
	Normal           float64
	Early            float64
	Student          float64
	AverageBeforeFee float64
}

// Breakdown contains the per-person and fixed cost figures of the calculation.
type Breakdown struct {
	Costs               Costs
	BaseCostPerPerson   float64
	RemainderPerPerson  float64
	TotalCardFee        float64
	AvgCardFeePerPerson float64
	CostPerPerson       float64
	FixedCostTotal      float64
	CardSettlementCount int
	CardFeeRate         float64
}

// Outlook groups the profitability figures derived from the linear model.
type Outlook struct {
	Breakeven        GroupSize
	MarginAt15       float64
	MarginAt17       float64
	MarginAtTarget   float64
	TargetMarginRate float64
	Suggestion       Suggestion
}

// Result groups the full pricing output.
type Result struct {
	TicketMode  TicketMode
	Composition Composition
	Prices      Prices
	Breakdown   Breakdown
	Outlook     Outlook
}

// Normalize clamps counts and rates to their documented ranges and applies the
// ticket mode to the flight cost and normal price.
func Normalize(in Inputs) Inputs {
	out := in
	out.TargetPeople = max(1, in.TargetPeople)
	out.EarlyCount = max(0, in.EarlyCount)
	out.StudentCount = max(0, in.StudentCount)
	out.DesiredPeople = max(1, in.DesiredPeople)
	out.CardSettlementCount = max(0, in.CardSettlementCount)

	out.NormalPrice = nonNegative(in.NormalPrice)
	out.EarlyDiscount = nonNegative(in.EarlyDiscount)
	out.StudentBuffer = nonNegative(in.StudentBuffer)
	out.AdCostPerSignup = nonNegative(in.AdCostPerSignup)
	out.FixedOtherCost = nonNegative(in.FixedOtherCost)
	out.Costs = Costs{
		JapanLand:       nonNegative(in.Costs.JapanLand),
		Flight:          nonNegative(in.Costs.Flight),
		Insurance:       nonNegative(in.Costs.Insurance),
		SIMCard:         nonNegative(in.Costs.SIMCard),
		Handbook:        nonNegative(in.Costs.Handbook),
		BigBusSurcharge: nonNegative(in.Costs.BigBusSurcharge),
		OtherExtra:      nonNegative(in.Costs.OtherExtra),
	}

	out.TargetGrossMarginRate = clamp(in.TargetGrossMarginRate, 0, maxTargetMarginRate)
	out.CardFeeRate = clamp(in.CardFeeRate, 0, maxCardFeeRate)

	switch in.PriceEnding {
	case EndingHundred, Ending800, Ending900:
	default:
		out.PriceEnding = Ending800
	}

	if in.TicketMode != TicketExclude {
		out.TicketMode = TicketInclude
	}
	if out.TicketMode == TicketExclude {
		out.Costs.Flight = 0
		out.NormalPrice = math.Max(0, out.NormalPrice-TicketExcludedDiscount)
	}

	return out
}

// Calculate computes the pricing result for one set of inputs.
func Calculate(raw Inputs) Result {
	in := Normalize(raw)

	comp := Composition{
		TargetPeople:  in.TargetPeople,
		NormalCount:   max(0, in.TargetPeople-in.EarlyCount-in.StudentCount),
		EarlyCount:    in.EarlyCount,
		StudentCount:  in.StudentCount,
		DesiredPeople: in.DesiredPeople,
	}

	baseCost := in.Costs.Total()
	earlyPrice := math.Max(0, in.NormalPrice-in.EarlyDiscount)
	studentPrice := baseCost + in.StudentBuffer
	fixed := in.AdCostPerSignup*float64(in.TargetPeople) + in.FixedOtherCost

	headcount := float64(max(1, in.TargetPeople))
	avg := (in.NormalPrice*float64(comp.NormalCount) +
		earlyPrice*float64(comp.EarlyCount) +
		studentPrice*float64(comp.StudentCount)) / headcount

	// Only the balance above the deposit goes through the card terminal, and
	// only for the members settling by card. The fee is then spread over everyone.
	remainder := math.Max(0, avg-DepositAmount)
	totalCardFee := remainder * float64(in.CardSettlementCount) * in.CardFeeRate
	avgCardFee := totalCardFee / headcount
	costPer := baseCost + avgCardFee

	res := Result{
		TicketMode:  in.TicketMode,
		Composition: comp,
		Prices: Prices{
			Normal:           in.NormalPrice,
			Early:            earlyPrice,
			Student:          studentPrice,
			AverageBeforeFee: avg,
		},
		Breakdown: Breakdown{
			Costs:               in.Costs,
			BaseCostPerPerson:   baseCost,
			RemainderPerPerson:  remainder,
			TotalCardFee:        totalCardFee,
			AvgCardFeePerPerson: avgCardFee,
			CostPerPerson:       costPer,
			FixedCostTotal:      fixed,
			CardSettlementCount: in.CardSettlementCount,
			CardFeeRate:         in.CardFeeRate,
		},
	}

	res.Outlook = Outlook{
		Breakeven:        SolveBreakeven(avg, costPer, fixed),
		MarginAt15:       res.GrossMarginRate(ReferenceGroupSize),
		MarginAt17:       res.GrossMarginRate(RecommendedCapacity),
		MarginAtTarget:   res.GrossMarginRate(float64(in.TargetPeople)),
		TargetMarginRate: in.TargetGrossMarginRate,
		Suggestion:       suggestNormalPrice(in, comp, studentPrice, costPer, fixed),
	}

	return res
}

// nonNegative bounds a money amount to [0, MaxAmount].
func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return math.Min(v, MaxAmount)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
