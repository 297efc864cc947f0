package freeze

// Immunity describes which slowing effects an agent ignores.
type Immunity struct {
	Chill  bool // ignores every slowing effect
	Freeze bool // ignores the freeze itself but not the chill that follows
}

// Pair holds the timeline that minimizes the final position (Min) and the one
// that maximizes it (Max).
type Pair struct {
	Min Timeline
	Max Timeline
}

// ForAgent builds both timelines for an agent with the given immunity.
func ForAgent(imm Immunity, triggers []int64, ticks int64) (Pair, error) {
	if ticks < 0 {
		return Pair{}, ErrNegativeTicks
	}
	if imm.Chill {
		walk := Timeline{Segments: compress([]Segment{{Ticks: ticks}})}
		return Pair{Min: walk, Max: walk}, nil
	}
	if imm.Freeze {
		tl, err := Reduce(triggers, ticks, NoDurations)
		if err != nil {
			return Pair{}, err
		}
		return Pair{Min: tl, Max: tl}, nil
	}

	lo, err := Reduce(triggers, ticks, MinDurations)
	if err != nil {
		return Pair{}, err
	}
	hi, err := Reduce(triggers, ticks, MaxDurations)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Min: lo, Max: hi}, nil
}
