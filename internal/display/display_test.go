package display

import (
	"testing"

	"posbound/internal/freeze"
)

func TestModel(t *testing.T) {
	cases := []struct {
		code, want string
	}{
		{"constant", "Constant speed"},
		{"animation", "Animated walk"},
		{"regular", "Two walk cycles"},
		{"dance_cheat", "Dance cheat"},
		{"dancing", "Walk then summon"},
		{"zomboni", "Decelerating drive"},
		{"hover", "hover"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Model(tc.code); got != tc.want {
			t.Errorf("Model(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestModelWithCode(t *testing.T) {
	if got := ModelWithCode("zomboni"); got != "Decelerating drive (zomboni)" {
		t.Errorf("got %q", got)
	}
	if got := ModelWithCode("hover"); got != "hover" {
		t.Errorf("got %q", got)
	}
}

func TestTimeline(t *testing.T) {
	tl := freeze.Timeline{Segments: []freeze.Segment{{Ticks: 99}, {Ticks: 451, Slowed: true}}}
	if got := Timeline(tl); got != "99 normal → 451 slowed" {
		t.Errorf("Timeline = %q", got)
	}
	if got := Timeline(freeze.Timeline{}); got != "none" {
		t.Errorf("empty Timeline = %q", got)
	}
}
