package format

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"posbound/internal/agentdb"
	"posbound/internal/batch"
	"posbound/internal/display"
	"posbound/internal/store"
)

// Outcomes renders batch outcomes, one row per query, with a failure count footer.
func Outcomes(m Mode, outcomes []batch.Outcome) string {
	tb := NewTable(m)
	tb.Header("Agent", "Triggers", "Ticks", "Min", "Max", "Cached", "Approximate", "Error")
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			tb.Row(o.Query.Agent, Triggers(o.Query.Canonical()), o.Query.Ticks, "", "", "", "", Truncate(o.Err.Error(), 60))
			continue
		}
		tb.Row(o.Query.Agent, Triggers(o.Query.Canonical()), o.Query.Ticks,
			Pos(o.Bounds.Min), Pos(o.Bounds.Max), BoolMark(o.Cached), BoolMark(o.Approximate), "")
	}
	tb.Footer("", "", "", "", "", "", "failed", failed)
	tb.Columns(
		ColumnConfig{Number: 3, Align: AlignRight},
		ColumnConfig{Number: 4, Align: AlignRight},
		ColumnConfig{Number: 5, Align: AlignRight},
	)
	return tb.String()
}

// Agents renders the agent database in declaration order.
func Agents(m Mode, agents []*agentdb.AgentParameters) string {
	tb := NewTable(m)
	tb.Header("Type", "Model", "Speed", "Spawn", "Chill immune", "Freeze immune", "Approximate")
	for _, p := range agents {
		model := "none"
		if p.Movement != nil {
			model = display.ModelWithCode(p.Movement.Name())
		}
		tb.Row(p.Type, model,
			p.SpeedMin.String()+" - "+p.SpeedMax.String(),
			strconv.FormatInt(p.SpawnMin, 10)+" - "+strconv.FormatInt(p.SpawnMax, 10),
			BoolMark(p.ChillImmune), BoolMark(p.FreezeImmune), BoolMark(p.Approximate))
	}
	return tb.String()
}

// Results renders cached results, oldest first.
func Results(m Mode, results []*store.Result) string {
	tb := NewTable(m)
	tb.Header("Key", "Agent", "Triggers", "Ticks", "Min", "Max", "Created")
	for _, r := range results {
		tb.Row(r.Key, r.Agent, Triggers(r.Triggers), r.Ticks, Pos(r.Min), Pos(r.Max), r.CreatedAt.Format(time.RFC3339))
	}
	tb.Columns(ColumnConfig{Number: 3, MaxWidth: 40})
	return tb.String()
}

// Triggers joins trigger ticks with commas, or "-" when there are none.
func Triggers(ticks []int64) string {
	if len(ticks) == 0 {
		return "-"
	}
	parts := make([]string, len(ticks))
	for i, t := range ticks {
		parts[i] = strconv.FormatInt(t, 10)
	}
	return strings.Join(parts, ",")
}

// Pos formats a position with the fewest digits that round-trip.
func Pos(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// Truncate shortens s to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:max(maxLen, 0)])
	}
	return string(r[:maxLen-3]) + "..."
}

// BoolMark returns "✓" for true and "✗" for false.
func BoolMark(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}
