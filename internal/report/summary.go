package report

import "github.com/Simplici0/tourpricing/internal/pricing"

// CostPart is one per-person cost component of the stacked cost bar.
type CostPart struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Summary is the JSON form of a pricing result. Unreachable breakeven and
// suggestion values are encoded as null.
type Summary struct {
	TicketMode string `json:"ticketMode"`

	TargetPeople  int `json:"targetPeople"`
	NormalCount   int `json:"normalCount"`
	EarlyCount    int `json:"earlyCount"`
	StudentCount  int `json:"studentCount"`
	DesiredPeople int `json:"desiredPeople"`

	NormalPrice           float64 `json:"normalPrice"`
	EarlyPrice            float64 `json:"earlyPrice"`
	StudentPrice          float64 `json:"studentPrice"`
	AveragePriceBeforeFee float64 `json:"averagePriceBeforeFee"`

	BaseCostPerPerson   float64 `json:"baseCostPerPerson"`
	RemainderPerPerson  float64 `json:"remainderPerPerson"`
	TotalCardFee        float64 `json:"totalCardFee"`
	AvgCardFeePerPerson float64 `json:"avgCardFeePerPerson"`
	CostPerPerson       float64 `json:"costPerPerson"`
	FixedCostTotal      float64 `json:"fixedCostTotal"`
	CardSettlementCount int     `json:"cardSettlementCount"`
	CardFeeRate         float64 `json:"cardFeeRate"`

	BreakevenGroupSize    *int    `json:"breakevenGroupSize"`
	GrossMarginAt15       float64 `json:"grossMarginAt15"`
	GrossMarginAt17       float64 `json:"grossMarginAt17"`
	GrossMarginAtTarget   float64 `json:"grossMarginAtTarget"`
	TargetGrossMarginRate float64 `json:"targetGrossMarginRate"`

	SuggestedNormalPrice    *float64 `json:"suggestedNormalPrice"`
	UnroundedSuggestedPrice *float64 `json:"unroundedSuggestedPrice"`

	Risk                string     `json:"risk"`
	RecommendedCapacity int        `json:"recommendedCapacity"`
	CapacityExceeded    bool       `json:"capacityExceeded"`
	CostParts           []CostPart `json:"costParts"`
}

// MarginRow is the JSON form of one margin table row.
type MarginRow struct {
	People      int     `json:"people"`
	MarginRate  float64 `json:"marginRate"`
	GrossProfit float64 `json:"grossProfit"`
	Status      string  `json:"status"`
}

// Margins is a margin table plus the sparkline samples over the same range.
type Margins struct {
	From  int         `json:"from"`
	To    int         `json:"to"`
	Rows  []MarginRow `json:"rows"`
	Curve []float64   `json:"curve"`
}

// Summarize flattens a result for JSON output.
func Summarize(r pricing.Result) Summary {
	s := Summary{
		TicketMode: string(r.TicketMode),

		TargetPeople:  r.Composition.TargetPeople,
		NormalCount:   r.Composition.NormalCount,
		EarlyCount:    r.Composition.EarlyCount,
		StudentCount:  r.Composition.StudentCount,
		DesiredPeople: r.Composition.DesiredPeople,

		NormalPrice:           r.Prices.Normal,
		EarlyPrice:            r.Prices.Early,
		StudentPrice:          r.Prices.Student,
		AveragePriceBeforeFee: r.Prices.AverageBeforeFee,

		BaseCostPerPerson:   r.Breakdown.BaseCostPerPerson,
		RemainderPerPerson:  r.Breakdown.RemainderPerPerson,
		TotalCardFee:        r.Breakdown.TotalCardFee,
		AvgCardFeePerPerson: r.Breakdown.AvgCardFeePerPerson,
		CostPerPerson:       r.Breakdown.CostPerPerson,
		FixedCostTotal:      r.Breakdown.FixedCostTotal,
		CardSettlementCount: r.Breakdown.CardSettlementCount,
		CardFeeRate:         r.Breakdown.CardFeeRate,

		GrossMarginAt15:       r.Outlook.MarginAt15,
		GrossMarginAt17:       r.Outlook.MarginAt17,
		GrossMarginAtTarget:   r.Outlook.MarginAtTarget,
		TargetGrossMarginRate: r.Outlook.TargetMarginRate,

		Risk:                string(r.Risk()),
		RecommendedCapacity: pricing.RecommendedCapacity,
		CapacityExceeded:    r.CapacityExceeded(),
	}

	if b := r.Outlook.Breakeven; b.Reachable {
		n := b.N
		s.BreakevenGroupSize = &n
	}
	if sg := r.Outlook.Suggestion; sg.Reachable {
		price, raw := sg.Price, sg.Raw
		s.SuggestedNormalPrice = &price
		s.UnroundedSuggestedPrice = &raw
	}

	for _, p := range r.CostParts() {
		s.CostParts = append(s.CostParts, CostPart{Name: p.Name, Value: p.Value})
	}

	return s
}

// BuildMargins evaluates the margin table and curve for [from, to].
func BuildMargins(r pricing.Result, from, to int) Margins {
	from, to = pricing.MarginRange(from, to)

	rows := r.MarginTable(from, to)
	out := Margins{
		From:  from,
		To:    to,
		Rows:  make([]MarginRow, 0, len(rows)),
		Curve: r.MarginCurve(from, to, pricing.DefaultCurveSteps),
	}
	for _, row := range rows {
		out.Rows = append(out.Rows, MarginRow{
			People:      row.People,
			MarginRate:  row.MarginRate,
			GrossProfit: row.GrossProfit,
			Status:      string(row.Status),
		})
	}
	return out
}
