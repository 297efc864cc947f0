// Package freeze turns freeze-trigger ticks into compact slowed/unslowed timelines.
//
// A trigger freezes the agent in place for a number of ticks, after which it
// walks slowed until SlowWindow ticks have passed since the trigger. A trigger
// landing inside an active slow window refreshes it with the shorter Refresh
// freeze instead of the Initial one.
package freeze

import (
	"errors"
	"fmt"
	"slices"
)

// SlowWindow is the number of ticks a trigger keeps the agent frozen or slowed.
const SlowWindow = 1999

var (
	// ErrNegativeTicks is returned for a negative tick count.
	ErrNegativeTicks = errors.New("negative tick count")
	// ErrDegenerateTimeline is returned when a trigger lands while the agent is still frozen.
	ErrDegenerateTimeline = errors.New("degenerate freeze timeline")
)

// Durations is the pair of freeze lengths applied by a first trigger and a refreshing one.
type Durations struct {
	Initial int64
	Refresh int64
}

var (
	// MinDurations produces the timeline with the most forward progress.
	MinDurations = Durations{Initial: 399, Refresh: 299}
	// MaxDurations produces the timeline with the least forward progress.
	MaxDurations = Durations{Initial: 599, Refresh: 399}
	// NoDurations is used for freeze-immune agents.
	NoDurations = Durations{}
)

// Segment is a run of ticks spent walking either slowed or at normal speed.
type Segment struct {
	Ticks  int64
	Slowed bool
}

// Timeline is a run-length compressed sequence of walking segments plus the
// number of ticks spent frozen in place.
type Timeline struct {
	Segments []Segment
	Frozen   int64
}

// Moving returns the number of ticks spent walking.
func (tl Timeline) Moving() int64 {
	var total int64
	for _, s := range tl.Segments {
		total += s.Ticks
	}
	return total
}

// Weighted returns the walking ticks in half-tick phase units: slowed ticks
// count once, unslowed ticks twice.
func (tl Timeline) Weighted() int64 {
	var total int64
	for _, s := range tl.Segments {
		if s.Slowed {
			total += s.Ticks
		} else {
			total += 2 * s.Ticks
		}
	}
	return total
}

// FirstUnslowed returns the length of the leading unslowed segment, or 0 when
// the timeline is empty or starts slowed.
func (tl Timeline) FirstUnslowed() int64 {
	if len(tl.Segments) == 0 || tl.Segments[0].Slowed {
		return 0
	}
	return tl.Segments[0].Ticks
}

// Validate checks the compression invariants.
func (tl Timeline) Validate() error {
	for i, s := range tl.Segments {
		if s.Ticks <= 0 {
			return fmt.Errorf("segment %d: non-positive length %d", i, s.Ticks)
		}
		if i > 0 && tl.Segments[i-1].Slowed == s.Slowed {
			return fmt.Errorf("segment %d: same slowed state as its predecessor", i)
		}
	}
	if tl.Frozen < 0 {
		return fmt.Errorf("negative frozen ticks %d", tl.Frozen)
	}
	return nil
}

// Reduce builds the timeline for 1-indexed trigger ticks over ticks total ticks.
// Triggers may be unsorted, repeated or out of range.
//
// A trigger that lands while the previous freeze is still running, other
// than the final tick, fails with ErrDegenerateTimeline. It is not turned
// into a negative slowed stretch folded into the following segment, so every
// segment in a returned timeline has a positive length.
func Reduce(triggers []int64, ticks int64, d Durations) (Timeline, error) {
	if ticks < 0 {
		return Timeline{}, fmt.Errorf("%w: %d", ErrNegativeTicks, ticks)
	}
	marks := make([]int64, 0, len(triggers)+1)
	for _, t := range triggers {
		if t--; t >= 0 && t < ticks {
			marks = append(marks, t)
		}
	}
	slices.Sort(marks)
	marks = slices.Compact(marks)
	marks = append(marks, ticks)

	var (
		raw        []Segment
		frozen     int64
		lastIce    int64 = -1
		lastFreeze int64
	)
	for i, t := range marks {
		gap := t - lastIce
		switch {
		case lastIce < 0:
			raw = append(raw, Segment{Ticks: t})
			lastFreeze = d.Initial
		case gap < SlowWindow:
			if gap < lastFreeze {
				if i < len(marks)-1 {
					return Timeline{}, fmt.Errorf("%w: trigger at tick %d lands %d ticks into a %d-tick freeze",
						ErrDegenerateTimeline, t+1, gap, lastFreeze)
				}
				// still frozen when time runs out
				frozen += gap
				break
			}
			raw = append(raw, Segment{Ticks: gap - lastFreeze, Slowed: true})
			frozen += lastFreeze
			lastFreeze = d.Refresh
		default:
			raw = append(raw,
				Segment{Ticks: SlowWindow - lastFreeze, Slowed: true},
				Segment{Ticks: gap - SlowWindow})
			frozen += lastFreeze
			lastFreeze = d.Initial
		}
		lastIce = t
	}
	return Timeline{Segments: compress(raw), Frozen: frozen}, nil
}

// compress drops empty segments and merges neighbours with the same state.
func compress(raw []Segment) []Segment {
	var out []Segment
	for _, s := range raw {
		if s.Ticks == 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Slowed == s.Slowed {
			out[n-1].Ticks += s.Ticks
			continue
		}
		out = append(out, s)
	}
	return out
}
