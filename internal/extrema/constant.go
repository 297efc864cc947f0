package extrema

import (
	"posbound/internal/agentdb"
	"posbound/internal/freeze"
	"posbound/internal/rational"
)

// fixedDenom is the resolution of the game's fixed-point speeds.
const fixedDenom = 16384

// chillRatio is the slowed fraction of a constant speed.
var chillRatio = rational.New(2, 5)

func fixedPoint(v rational.Num) rational.Num {
	return v.MulInt(fixedDenom).Round().DivInt(fixedDenom)
}

func constantBounds(p *agentdb.AgentParameters, triggers []int64, ticks int64) (Bounds, error) {
	pair, err := freeze.ForAgent(p.Immunity(), triggers, ticks)
	if err != nil {
		return Bounds{}, err
	}
	minNorm, maxNorm := fixedPoint(p.SpeedMin), fixedPoint(p.SpeedMax)
	minChill, maxChill := fixedPoint(p.SpeedMin.Mul(chillRatio)), fixedPoint(p.SpeedMax.Mul(chillRatio))

	lo := rational.FromInt(p.SpawnMin)
	for _, s := range pair.Min.Segments {
		v := maxNorm
		if s.Slowed {
			v = maxChill
		}
		lo = lo.Sub(v.MulInt(s.Ticks))
	}

	hi := rational.FromInt(p.SpawnMax)
	for _, s := range pair.Max.Segments {
		v := minNorm
		if s.Slowed {
			v = minChill
		}
		hi = hi.Sub(v.MulInt(s.Ticks))
	}
	return Bounds{Min: lo.Float64(), Max: hi.Float64()}, nil
}
