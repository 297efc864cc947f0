package freeze

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReduce(t *testing.T) {
	cases := []struct {
		name     string
		triggers []int64
		ticks    int64
		d        Durations
		want     Timeline
	}{
		{
			name:  "no triggers",
			ticks: 225, d: MinDurations,
			want: Timeline{Segments: []Segment{{Ticks: 225}}},
		},
		{
			name:     "single trigger min",
			triggers: []int64{100}, ticks: 949, d: MinDurations,
			want: Timeline{Segments: []Segment{{Ticks: 99}, {Ticks: 451, Slowed: true}}, Frozen: 399},
		},
		{
			name:     "single trigger max",
			triggers: []int64{100}, ticks: 949, d: MaxDurations,
			want: Timeline{Segments: []Segment{{Ticks: 99}, {Ticks: 251, Slowed: true}}, Frozen: 599},
		},
		{
			name:     "slow window elapses",
			triggers: []int64{200}, ticks: 2500, d: MinDurations,
			want: Timeline{Segments: []Segment{{Ticks: 199}, {Ticks: 1600, Slowed: true}, {Ticks: 302}}, Frozen: 399},
		},
		{
			name:     "refresh merges slowed runs",
			triggers: []int64{600, 100}, ticks: 1000, d: MinDurations,
			want: Timeline{Segments: []Segment{{Ticks: 99}, {Ticks: 203, Slowed: true}}, Frozen: 698},
		},
		{
			name:     "duplicates and out of range are dropped",
			triggers: []int64{0, 100, 100, 5000, -3}, ticks: 949, d: MinDurations,
			want: Timeline{Segments: []Segment{{Ticks: 99}, {Ticks: 451, Slowed: true}}, Frozen: 399},
		},
		{
			name:     "still frozen at the end",
			triggers: []int64{100}, ticks: 300, d: MinDurations,
			want: Timeline{Segments: []Segment{{Ticks: 99}}, Frozen: 201},
		},
		{
			name:     "trigger on the first tick",
			triggers: []int64{1}, ticks: 100, d: MinDurations,
			want: Timeline{Frozen: 100},
		},
		{
			name:     "freeze immune",
			triggers: []int64{100}, ticks: 949, d: NoDurations,
			want: Timeline{Segments: []Segment{{Ticks: 99}, {Ticks: 850, Slowed: true}}},
		},
		{
			name: "zero ticks",
			d:    MaxDurations,
			want: Timeline{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Reduce(tc.triggers, tc.ticks, tc.d)
			if err != nil {
				t.Fatalf("Reduce: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Reduce mismatch (-want +got):\n%s", diff)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
			if got.Moving()+got.Frozen != tc.ticks {
				t.Errorf("moving %d + frozen %d != %d", got.Moving(), got.Frozen, tc.ticks)
			}
		})
	}
}

func TestReduce_Errors(t *testing.T) {
	if _, err := Reduce(nil, -1, MinDurations); !errors.Is(err, ErrNegativeTicks) {
		t.Errorf("negative ticks: got %v", err)
	}
	_, err := Reduce([]int64{100, 600}, 1000, MaxDurations)
	if !errors.Is(err, ErrDegenerateTimeline) {
		t.Errorf("retrigger while frozen: got %v", err)
	}
}

func TestReduce_RandomTriggersKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for iter := 0; iter < 500; iter++ {
		ticks := rng.Int64N(6000)
		triggers := make([]int64, rng.IntN(6))
		for i := range triggers {
			triggers[i] = rng.Int64N(ticks+2) - 1
		}
		for _, d := range []Durations{NoDurations, MinDurations, MaxDurations} {
			tl, err := Reduce(triggers, ticks, d)
			if errors.Is(err, ErrDegenerateTimeline) && d != NoDurations {
				continue
			}
			if err != nil {
				t.Fatalf("Reduce(%v, %d, %v): %v", triggers, ticks, d, err)
			}
			if err := tl.Validate(); err != nil {
				t.Fatalf("Reduce(%v, %d, %v): %v", triggers, ticks, d, err)
			}
			if tl.Moving()+tl.Frozen != ticks {
				t.Fatalf("Reduce(%v, %d, %v): moving %d + frozen %d", triggers, ticks, d, tl.Moving(), tl.Frozen)
			}
			if d == NoDurations && tl.Moving() != ticks {
				t.Fatalf("freeze-free timeline covers %d of %d ticks", tl.Moving(), ticks)
			}
		}
	}
}

func TestTimelineAccessors(t *testing.T) {
	tl := Timeline{Segments: []Segment{{Ticks: 10}, {Ticks: 5, Slowed: true}, {Ticks: 3}}}
	if got := tl.Weighted(); got != 31 {
		t.Errorf("Weighted = %d, want 31", got)
	}
	if got := tl.FirstUnslowed(); got != 10 {
		t.Errorf("FirstUnslowed = %d, want 10", got)
	}
	slowedFirst := Timeline{Segments: []Segment{{Ticks: 5, Slowed: true}}}
	if got := slowedFirst.FirstUnslowed(); got != 0 {
		t.Errorf("FirstUnslowed(slowed) = %d, want 0", got)
	}
	if got := (Timeline{}).FirstUnslowed(); got != 0 {
		t.Errorf("FirstUnslowed(empty) = %d, want 0", got)
	}

	bad := Timeline{Segments: []Segment{{Ticks: 1}, {Ticks: 2}}}
	if bad.Validate() == nil {
		t.Error("expected uncompressed timeline to fail validation")
	}
}

func TestForAgent(t *testing.T) {
	triggers := []int64{100}

	p, err := ForAgent(Immunity{Chill: true}, triggers, 949)
	if err != nil {
		t.Fatal(err)
	}
	walk := Timeline{Segments: []Segment{{Ticks: 949}}}
	if diff := cmp.Diff(Pair{Min: walk, Max: walk}, p); diff != "" {
		t.Errorf("chill immune (-want +got):\n%s", diff)
	}

	p, err = ForAgent(Immunity{Freeze: true}, triggers, 949)
	if err != nil {
		t.Fatal(err)
	}
	if p.Min.Frozen != 0 || p.Max.Frozen != 0 || p.Min.Moving() != 949 {
		t.Errorf("freeze immune: %+v", p)
	}

	p, err = ForAgent(Immunity{}, triggers, 949)
	if err != nil {
		t.Fatal(err)
	}
	if p.Min.Frozen != 399 || p.Max.Frozen != 599 {
		t.Errorf("frozen ticks = %d/%d, want 399/599", p.Min.Frozen, p.Max.Frozen)
	}

	p, err = ForAgent(Immunity{Chill: true}, nil, 0)
	if err != nil || len(p.Min.Segments) != 0 {
		t.Errorf("zero ticks: %+v %v", p, err)
	}
}
