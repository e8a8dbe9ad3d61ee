package pricing

import "math"

const (
	// DefaultCurveSteps is the number of samples in a margin sparkline.
	DefaultCurveSteps = 10
	// MaxMarginSpan is the widest headcount range a margin table covers.
	MaxMarginSpan = 500
	// MaxMarginStart is the largest first headcount of a margin table.
	MaxMarginStart = 1_000_000
)

// RowStatus classifies one headcount in a margin table.
type RowStatus string

const (
	RowBelowBreakeven RowStatus = "below_breakeven"
	RowBelowTarget    RowStatus = "below_target"
	RowOK             RowStatus = "ok"
)

// MarginRow is one headcount of a margin table.
type MarginRow struct {
	People      int
	MarginRate  float64
	GrossProfit float64
	Status      RowStatus
}

// Revenue is the total revenue of a group of n people at the blended price.
func (r Result) Revenue(n float64) float64 {
	return r.Prices.AverageBeforeFee * n
}

// TotalCost is the variable cost of n people plus the fixed costs.
func (r Result) TotalCost(n float64) float64 {
	return r.Breakdown.CostPerPerson*n + r.Breakdown.FixedCostTotal
}

// GrossProfit is revenue minus total cost for n people. It may be negative.
func (r Result) GrossProfit(n float64) float64 {
	return r.Revenue(n) - r.TotalCost(n)
}

// GrossMarginRate is the gross profit of n people over their revenue, or 0
// when there is no revenue.
func (r Result) GrossMarginRate(n float64) float64 {
	revenue := r.Revenue(n)
	if revenue <= 0 {
		return 0
	}
	return (revenue - r.TotalCost(n)) / revenue
}

// MarginRange normalizes a headcount range to 1 <= from <= MaxMarginStart
// and from <= to <= from+MaxMarginSpan.
func MarginRange(from, to int) (int, int) {
	from = min(max(1, from), MaxMarginStart)
	to = min(max(from, to), from+MaxMarginSpan)
	return from, to
}

// MarginTable evaluates every headcount in [from, to].
func (r Result) MarginTable(from, to int) []MarginRow {
	from, to = MarginRange(from, to)

	rows := make([]MarginRow, 0, to-from+1)
	for n := from; n <= to; n++ {
		rate := r.GrossMarginRate(float64(n))
		row := MarginRow{
			People:      n,
			MarginRate:  rate,
			GrossProfit: r.GrossProfit(float64(n)),
			Status:      RowOK,
		}
		switch {
		case r.Outlook.Breakeven.Reachable && n < r.Outlook.Breakeven.N:
			row.Status = RowBelowBreakeven
		case rate < r.Outlook.TargetMarginRate:
			row.Status = RowBelowTarget
		}
		rows = append(rows, row)
	}

	return rows
}

// MarginCurve samples the margin rate at steps evenly spaced headcounts from
// from to to, clamped to [0, 1] for plotting.
func (r Result) MarginCurve(from, to, steps int) []float64 {
	from, to = MarginRange(from, to)
	if steps < 2 {
		steps = 2
	}

	points := make([]float64, steps)
	for i := range points {
		n := float64(from) + float64(to-from)*float64(i)/float64(steps-1)
		points[i] = math.Max(0, math.Min(1, r.GrossMarginRate(n)))
	}
	return points
}
