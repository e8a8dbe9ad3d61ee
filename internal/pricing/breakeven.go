package pricing

import "math"

// MaxGroupSize is the largest headcount the breakeven solver reports. A trip
// that needs more people than this never breaks even.
const MaxGroupSize = math.MaxInt32

// GroupSize is a headcount that may have no finite solution.
type GroupSize struct {
	N         int
	Reachable bool
}

// Unreachable reports the sentinel for a trip that never breaks even.
func Unreachable() GroupSize {
	return GroupSize{}
}

// SolveBreakeven returns the smallest headcount n for which
// avgPrice*n >= costPerPerson*n + fixed. When the per-head margin is not
// positive, or the solve exceeds MaxGroupSize, the result is unreachable.
func SolveBreakeven(avgPrice, costPerPerson, fixed float64) GroupSize {
	perHead := avgPrice - costPerPerson
	if perHead <= 0 {
		return Unreachable()
	}

	n := math.Ceil(fixed / perHead)
	if math.IsNaN(n) || n > MaxGroupSize {
		return Unreachable()
	}
	return GroupSize{N: max(1, int(n)), Reachable: true}
}
