package extrema

import (
	"context"
	"fmt"
	"log/slog"

	"posbound/internal/agentdb"
	"posbound/internal/display"
	"posbound/internal/freeze"
	"posbound/internal/rational"
)

// animSpeedScale converts a walking speed into animation frames per tick.
var animSpeedScale = rational.New(47, 100)

// dancerWalkCap and dancerWalkFloor bound how long a dancer walks before summoning.
const (
	dancerWalkCap   = 310
	dancerWalkFloor = 299
)

// animation bounds an agent moved by one cyclic frame table.
func (e *Engine) animation(ctx context.Context, p *agentdb.AgentParameters, frames []rational.Num, triggers []int64, ticks int64) (Bounds, error) {
	pair, err := freeze.ForAgent(p.Immunity(), triggers, ticks)
	if err != nil {
		return Bounds{}, err
	}
	lower, err := e.walk(ctx, p, frames, pair.Min)
	if err != nil {
		return Bounds{}, err
	}
	upper, err := e.walk(ctx, p, frames, pair.Max)
	if err != nil {
		return Bounds{}, err
	}
	return Bounds{Min: lower.lo.Float64(), Max: upper.hi.Float64()}, nil
}

// walk evaluates one timeline over every interval of the phase rate k on
// which all floored frame indices stay fixed.
//
// k is the phase advance per slowed tick; unslowed ticks advance by 2k.
// Within [l, r) displacement grows with k, so the l tables give the upper
// candidate and the r tables the lower one.
func (e *Engine) walk(ctx context.Context, p *agentdb.AgentParameters, frames []rational.Num, tl freeze.Timeline) (bounds, error) {
	total := rational.Sum(frames)
	if len(frames) == 0 || total.Sign() == 0 {
		return bounds{}, fmt.Errorf("%s: %w", p.Type, ErrEmptyFrameTable)
	}
	size := int64(len(frames))
	speedScale := animSpeedScale.MulInt(size).Div(total)

	kMin := p.SpeedMin.Mul(speedScale).DivInt(2)
	kMax := p.SpeedMax.Mul(speedScale).DivInt(2)
	points := CriticalFractions(tl.Weighted(), kMin, kMax)
	if e.logger.Enabled(ctx, slog.LevelDebug) {
		e.logger.Debug("walk intervals",
			"agent", p.Type, "timeline", display.Timeline(tl), "weighted_ticks", tl.Weighted(), "intervals", len(points)-1)
	}

	w := newWalker(frames, tl, p.SpawnMin, p.SpawnMax)
	return reduceIntervals(ctx, e.workers, points, w.eval)
}

// shiftTable rounds each frame's displacement at the given scale to unit
// steps and expresses it in fixed-point world units.
func shiftTable(frames []rational.Num, scale rational.Num, unit int64) []rational.Num {
	out := make([]rational.Num, len(frames))
	for i, f := range frames {
		out[i] = f.Mul(scale).MulInt(unit).Round().DivInt(fixedDenom)
	}
	return out
}

// regular bounds an agent that may use either of two walk cycles.
func (e *Engine) regular(ctx context.Context, p *agentdb.AgentParameters, m agentdb.RegularWalk, triggers []int64, ticks int64) (Bounds, error) {
	first, err := e.animation(ctx, p, m.Walk, triggers, ticks)
	if err != nil {
		return Bounds{}, err
	}
	second, err := e.animation(ctx, p, m.Walk2, triggers, ticks)
	if err != nil {
		return Bounds{}, err
	}
	return Bounds{Min: min(first.Min, second.Min), Max: max(first.Max, second.Max)}, nil
}

// dancing bounds an agent that walks only during its first unslowed stretch.
func (e *Engine) dancing(ctx context.Context, p *agentdb.AgentParameters, frames []rational.Num, triggers []int64, ticks int64) (Bounds, error) {
	pair, err := freeze.ForAgent(p.Immunity(), triggers, ticks)
	if err != nil {
		return Bounds{}, err
	}
	walked := pair.Min.FirstUnslowed()

	lower, err := e.animation(ctx, p, frames, nil, min(walked, dancerWalkCap))
	if err != nil {
		return Bounds{}, err
	}
	upper, err := e.animation(ctx, p, frames, nil, max(walked, dancerWalkFloor))
	if err != nil {
		return Bounds{}, err
	}
	return Bounds{Min: lower.Min, Max: upper.Max}, nil
}
