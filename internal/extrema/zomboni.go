package extrema

import (
	"math"

	"posbound/internal/agentdb"
)

// zomboniBounds steps both spawn extremes tick by tick. Freeze triggers do
// not affect this model.
func zomboniBounds(p *agentdb.AgentParameters, ticks int64) Bounds {
	lo, hi := float64(p.SpawnMin), float64(p.SpawnMax)
	for range ticks {
		lo -= zomboniStep(lo)
		hi -= zomboniStep(hi)
	}
	return Bounds{Min: lo, Max: hi}
}

// zomboniStep is full speed right of x=700 and slows down further left.
func zomboniStep(x float64) float64 {
	return min(max(math.Floor(x-700)/2000+0.25, 0.1), 0.25)
}
