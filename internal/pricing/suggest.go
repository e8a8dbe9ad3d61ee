package pricing

import "math"

// Suggestion is the normal price that reaches the target per-head average at
// the desired headcount. Raw is the unrounded solve.
type Suggestion struct {
	Price     float64
	Raw       float64
	Reachable bool
}

// suggestNormalPrice inverts the blended-average formula for the normal price.
// The tier composition of the target scenario is kept; only the fixed-cost
// spreading uses the desired headcount.
func suggestNormalPrice(in Inputs, comp Composition, studentPrice, costPerPerson, fixed float64) Suggestion {
	avgRequired := costPerPerson + fixed/float64(comp.DesiredPeople)

	denom := comp.NormalCount + comp.EarlyCount
	if denom == 0 {
		return Suggestion{}
	}

	raw := (avgRequired*float64(comp.TargetPeople) +
		in.EarlyDiscount*float64(comp.EarlyCount) -
		studentPrice*float64(comp.StudentCount)) / float64(denom)
	raw = math.Max(0, raw)
	if math.IsNaN(raw) || raw > MaxAmount {
		return Suggestion{}
	}

	return Suggestion{
		Price:     float64(BeautifyPriceUp(raw, in.PriceEnding)),
		Raw:       raw,
		Reachable: true,
	}
}

// BeautifyPriceUp rounds x up to a retail price ending. EndingHundred rounds
// to the next multiple of 100; Ending800 and Ending900 land on the first
// thousand-block ending that is not below x. Unknown modes round like Ending800.
// x is bounded to [0, MaxAmount] first, so the result always fits in an int64.
func BeautifyPriceUp(x float64, mode PriceEnding) int64 {
	if math.IsNaN(x) || x < 0 {
		x = 0
	}
	v := int64(math.Ceil(math.Min(x, MaxAmount)))

	if mode == EndingHundred {
		return ceilDiv(v, 100) * 100
	}

	ending := int64(800)
	if mode == Ending900 {
		ending = 900
	}

	base := floorDiv(v, 1000) * 1000
	if candidate := base + ending; candidate >= v {
		return candidate
	}
	return base + 1000 + ending
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}
