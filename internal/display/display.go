// Package display provides human-readable names for machine codes.
//
// Rule: code is for machines, words are for humans.
// Use these functions in tables and logs. Keep raw codes for JSON fields,
// database files and flag values.
package display

import (
	"strconv"
	"strings"

	"posbound/internal/freeze"
)

// --- Movement models ---

var models = map[string]string{
	"constant":    "Constant speed",
	"animation":   "Animated walk",
	"regular":     "Two walk cycles",
	"dance_cheat": "Dance cheat",
	"dancing":     "Walk then summon",
	"zomboni":     "Decelerating drive",
}

// Model returns the human-readable name for a movement model code.
// Unknown codes are returned as-is.
func Model(code string) string {
	if name, ok := models[code]; ok {
		return name
	}
	return code
}

// ModelWithCode returns "Animated walk (animation)" format.
func ModelWithCode(code string) string {
	if name, ok := models[code]; ok {
		return name + " (" + code + ")"
	}
	return code
}

// --- Timelines ---

// Timeline renders a freeze timeline as "99 normal → 451 slowed".
func Timeline(tl freeze.Timeline) string {
	if len(tl.Segments) == 0 {
		return "none"
	}
	parts := make([]string, len(tl.Segments))
	for i, s := range tl.Segments {
		kind := "normal"
		if s.Slowed {
			kind = "slowed"
		}
		parts[i] = strconv.FormatInt(s.Ticks, 10) + " " + kind
	}
	return strings.Join(parts, " → ")
}
