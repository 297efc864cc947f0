package extrema

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"strings"
	"testing"

	"posbound/internal/agentdb"
	"posbound/internal/freeze"
	"posbound/internal/logging"
	"posbound/internal/rational"
)

const testAgents = `
agents:
  - type: Walker
    speed: ["3/10", "1/2"]
    spawn: [700, 720]
    movement: {model: animation, frames: ["1/2", 1, "3/2", 1]}
  - type: WalkerAlt
    speed: ["3/10", "1/2"]
    spawn: [700, 720]
    movement: {model: animation, frames: [2, 1, 0, 1, 1]}
  - type: Twin
    speed: ["3/10", "1/2"]
    spawn: [700, 720]
    movement: {model: regular, frames: ["1/2", 1, "3/2", 1], frames2: [2, 1, 0, 1, 1]}
  - type: Stoic
    speed: ["3/10", "1/2"]
    spawn: [700, 720]
    chill_immune: true
    movement: {model: animation, frames: ["1/2", 1, "3/2", 1]}
  - type: Dancer
    speed: ["3/10", "31/100"]
    spawn: [700, 720]
    movement: {model: dancing, frames: ["1/2", 1, "3/2", 1]}
  - type: DancerWalk
    speed: ["3/10", "31/100"]
    spawn: [700, 720]
    movement: {model: animation, frames: ["1/2", 1, "3/2", 1]}
  - type: Cheat
    speed: ["3/10", "1/2"]
    spawn: [700, 720]
    movement: {model: dance_cheat}
  - type: Runner
    speed: ["1/2", "1/2"]
    spawn: [100, 100]
    movement: {model: constant}
  - type: Plow
    speed: ["1/4", "1/4"]
    spawn: [800, 900]
    movement: {model: zomboni}
  - type: Still
    speed: ["3/10", "1/2"]
    spawn: [700, 720]
    movement: {model: animation, frames: [0, 0]}
`

func testEngine(t testing.TB, opts ...Option) (*Engine, *agentdb.Registry) {
	t.Helper()
	reg, err := agentdb.Load([]byte(testAgents))
	if err != nil {
		t.Fatalf("load test agents: %v", err)
	}
	opts = append([]Option{WithLogger(logging.Discard())}, opts...)
	return New(reg, opts...), reg
}

func mustExtrema(t testing.TB, e *Engine, agent agentdb.AgentType, triggers []int64, ticks int64) Bounds {
	t.Helper()
	b, err := e.CalculateExtrema(context.Background(), agent, triggers, ticks)
	if err != nil {
		t.Fatalf("CalculateExtrema(%s, %v, %d): %v", agent, triggers, ticks, err)
	}
	return b
}

// simulate walks an animated agent tick by tick at phase rate k.
func simulate(frames []rational.Num, spawn int64, k rational.Num, tl freeze.Timeline) rational.Num {
	size := int64(len(frames))
	disScale := rational.New(size+1, size).Mul(k)
	norm := shiftTable(frames, disScale, 2*fixedDenom)
	chill := shiftTable(frames, disScale, fixedDenom)

	x := rational.FromInt(spawn)
	phase := k.MulInt(2)
	for _, s := range tl.Segments {
		for range s.Ticks {
			idx := phase.Floor()
			if s.Slowed {
				x = x.Sub(at(chill, idx))
				phase = phase.Add(k)
			} else {
				x = x.Sub(at(norm, idx))
				phase = phase.Add(k.MulInt(2))
			}
		}
	}
	return x
}

// criticalRates reproduces the rate partition used for an animated agent.
func criticalRates(p *agentdb.AgentParameters, frames []rational.Num, tl freeze.Timeline) []rational.Num {
	scale := animSpeedScale.MulInt(int64(len(frames))).Div(rational.Sum(frames))
	kMin := p.SpeedMin.Mul(scale).DivInt(2)
	kMax := p.SpeedMax.Mul(scale).DivInt(2)
	return CriticalFractions(tl.Weighted(), kMin, kMax)
}

func TestAnimation_MatchesDirectSimulation(t *testing.T) {
	e, reg := testEngine(t)
	p, _ := reg.Lookup("Walker")
	frames := p.Movement.(agentdb.Animation).Frames
	triggers := []int64{30}
	const ticks = 700

	got := mustExtrema(t, e, "Walker", triggers, ticks)
	pair, err := freeze.ForAgent(p.Immunity(), triggers, ticks)
	if err != nil {
		t.Fatal(err)
	}

	// The upper bound is attained exactly at the left end of some interval.
	rates := criticalRates(p, frames, pair.Max)
	best := rational.Zero
	for _, k := range rates[:len(rates)-1] {
		best = rational.Max(best, simulate(frames, p.SpawnMax, k, pair.Max))
	}
	if got.Max != best.Float64() {
		t.Errorf("Max = %v, want %v", got.Max, best.Float64())
	}

	// No agent walking at the left end of an interval ends left of the lower bound.
	rates = criticalRates(p, frames, pair.Min)
	for _, k := range rates[:len(rates)-1] {
		if x := simulate(frames, p.SpawnMin, k, pair.Min).Float64(); x < got.Min {
			t.Fatalf("rate %s reaches %v, left of Min %v", k, x, got.Min)
		}
	}
	if got.Min > got.Max {
		t.Errorf("Min %v > Max %v", got.Min, got.Max)
	}
}

func TestAnimation_DeterministicAcrossWorkerCounts(t *testing.T) {
	serial, _ := testEngine(t, WithWorkers(1))
	parallel, _ := testEngine(t, WithWorkers(7))
	triggers := []int64{40}
	want := mustExtrema(t, serial, "Twin", triggers, 600)
	for i := 0; i < 3; i++ {
		if got := mustExtrema(t, parallel, "Twin", triggers, 600); got != want {
			t.Fatalf("run %d: %+v, want %+v", i, got, want)
		}
	}
}

func TestRegular_CombinesBothWalks(t *testing.T) {
	e, _ := testEngine(t)
	triggers := []int64{60}
	a := mustExtrema(t, e, "Walker", triggers, 600)
	b := mustExtrema(t, e, "WalkerAlt", triggers, 600)
	got := mustExtrema(t, e, "Twin", triggers, 600)
	want := Bounds{Min: math.Min(a.Min, b.Min), Max: math.Max(a.Max, b.Max)}
	if got != want {
		t.Errorf("Twin = %+v, want %+v", got, want)
	}
}

func TestChillImmune_IgnoresTriggers(t *testing.T) {
	e, _ := testEngine(t)
	want := mustExtrema(t, e, "Stoic", nil, 120)
	for _, triggers := range [][]int64{{30}, {10, 100, 110}, {119, 1}} {
		if got := mustExtrema(t, e, "Stoic", triggers, 120); got != want {
			t.Errorf("triggers %v: %+v, want %+v", triggers, got, want)
		}
	}
}

func TestDancing_WalksUntilFirstTrigger(t *testing.T) {
	e, _ := testEngine(t)

	// The dancer walks 49 ticks before the trigger; the upper bound still
	// assumes at least 299 ticks of walking.
	got := mustExtrema(t, e, "Dancer", []int64{50}, 400)
	lower := mustExtrema(t, e, "DancerWalk", nil, 49)
	upper := mustExtrema(t, e, "DancerWalk", nil, 299)
	if want := (Bounds{Min: lower.Min, Max: upper.Max}); got != want {
		t.Errorf("Dancer = %+v, want %+v", got, want)
	}

	// Without triggers the walk is capped at 310 ticks.
	got = mustExtrema(t, e, "Dancer", nil, 400)
	lower = mustExtrema(t, e, "DancerWalk", nil, 310)
	upper = mustExtrema(t, e, "DancerWalk", nil, 400)
	if want := (Bounds{Min: lower.Min, Max: upper.Max}); got != want {
		t.Errorf("Dancer = %+v, want %+v", got, want)
	}
}

func TestConstant(t *testing.T) {
	e, _ := testEngine(t)

	if got := mustExtrema(t, e, "Runner", nil, 10); got != (Bounds{Min: 95, Max: 95}) {
		t.Errorf("no triggers: %+v", got)
	}

	// 2 normal ticks, then 599 (min) or 399 (max) slowed ticks at 3277/16384.
	chill := rational.New(3277, 16384)
	lo := rational.FromInt(99).Sub(chill.MulInt(599))
	hi := rational.FromInt(99).Sub(chill.MulInt(399))
	got := mustExtrema(t, e, "Runner", []int64{3}, 1000)
	if want := (Bounds{Min: lo.Float64(), Max: hi.Float64()}); got != want {
		t.Errorf("with trigger: %+v, want %+v", got, want)
	}
}

func TestZomboni(t *testing.T) {
	e, _ := testEngine(t)
	want := Bounds{Min: 775, Max: 875}
	if got := mustExtrema(t, e, "Plow", nil, 100); got != want {
		t.Errorf("Plow = %+v, want %+v", got, want)
	}
	if got := mustExtrema(t, e, "Plow", []int64{5, 50}, 100); got != want {
		t.Errorf("triggers must not matter: %+v", got)
	}
	if got := zomboniStep(699.75); math.Abs(got-0.2495) > 1e-12 {
		t.Errorf("zomboniStep(699.75) = %v", got)
	}
	if got := zomboniStep(100); got != 0.1 {
		t.Errorf("zomboniStep(100) = %v", got)
	}
}

type stubDB struct{ p *agentdb.AgentParameters }

func (s stubDB) Lookup(agentdb.AgentType) (*agentdb.AgentParameters, error) { return s.p, nil }

func TestCalculateExtrema_Errors(t *testing.T) {
	e, _ := testEngine(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		agent    agentdb.AgentType
		triggers []int64
		ticks    int64
		want     error
	}{
		{"dance cheat", "Cheat", nil, 100, ErrNotImplemented},
		{"unknown agent", "Nobody", nil, 100, agentdb.ErrNotFound},
		{"negative ticks", "Walker", nil, -1, freeze.ErrNegativeTicks},
		{"empty frames", "Still", nil, 100, ErrEmptyFrameTable},
		{"trigger while frozen", "Walker", []int64{100, 600}, 1000, freeze.ErrDegenerateTimeline},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.CalculateExtrema(ctx, tc.agent, tc.triggers, tc.ticks)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := e.CalculateExtrema(cancelled, "Walker", nil, 100); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled context: err = %v", err)
	}

	noModel := New(stubDB{p: &agentdb.AgentParameters{Type: "Ghost"}}, WithLogger(logging.Discard()))
	if _, err := noModel.CalculateExtrema(ctx, "Ghost", nil, 10); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("missing model: err = %v", err)
	}
}

func TestBundledAgents_MinNotAboveMax(t *testing.T) {
	reg, err := agentdb.Default()
	if err != nil {
		t.Fatal(err)
	}
	e := New(reg, WithLogger(logging.Discard()))
	for _, typ := range reg.Types() {
		b, err := e.CalculateExtrema(context.Background(), typ, []int64{50}, 600)
		if err != nil {
			t.Fatalf("%s: %v", typ, err)
		}
		if b.Min > b.Max {
			t.Errorf("%s: Min %v > Max %v", typ, b.Min, b.Max)
		}
	}
}

// TestReferenceDatabase checks published values against a database holding
// the frame tables extracted from the game's animation data.
func TestReferenceDatabase(t *testing.T) {
	path := os.Getenv("POSBOUND_REFERENCE_DB")
	if path == "" {
		t.Skip("POSBOUND_REFERENCE_DB not set")
	}
	reg, err := agentdb.LoadFromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	e := New(reg, WithLogger(logging.Discard()))
	cases := []struct {
		agent    agentdb.AgentType
		triggers []int64
		ticks    int64
		min, max float64
	}{
		{agentdb.GigaGargantuar, nil, 225, 788.594, 817.877},
		{agentdb.Gargantuar, []int64{100}, 949, 781.973, 817.944},
		{agentdb.Regular, []int64{200}, 2500, 551.467, 687.030},
	}
	for _, tc := range cases {
		got := mustExtrema(t, e, tc.agent, tc.triggers, tc.ticks)
		if math.Abs(got.Min-tc.min) > 1e-3 || math.Abs(got.Max-tc.max) > 1e-3 {
			t.Errorf("%s %v %d = %+v, want (%v, %v)", tc.agent, tc.triggers, tc.ticks, got, tc.min, tc.max)
		}
	}
}

func TestWalk_DebugLogFollowsLevel(t *testing.T) {
	for _, tc := range []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelDebug, true},
		{slog.LevelInfo, false},
	} {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: tc.level}))
		e, _ := testEngine(t, WithLogger(logger))
		mustExtrema(t, e, "Walker", []int64{20}, 60)
		if got := strings.Contains(buf.String(), "walk intervals"); got != tc.want {
			t.Errorf("level %s: walk intervals logged = %v, want %v\n%s", tc.level, got, tc.want, buf.String())
		}
		if tc.want && !strings.Contains(buf.String(), "timeline=") {
			t.Errorf("level %s: timeline missing from debug record\n%s", tc.level, buf.String())
		}
	}
}
