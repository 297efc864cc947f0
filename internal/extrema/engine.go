// Package extrema computes the leftmost and rightmost position an agent can
// reach after a number of ticks, given the ticks at which it may be frozen.
//
// All intermediate values are exact rationals; they are converted to float64
// only in the returned Bounds.
package extrema

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"posbound/internal/agentdb"
	"posbound/internal/freeze"
	"posbound/internal/logging"
)

var (
	// ErrNotImplemented is returned for movement models the engine does not support.
	ErrNotImplemented = errors.New("movement model not implemented")
	// ErrUnknownModel is returned for a movement model the dispatcher does not know.
	ErrUnknownModel = errors.New("unknown movement model")
	// ErrEmptyFrameTable is returned for an animation without displacement.
	ErrEmptyFrameTable = errors.New("empty frame table")
)

// Bounds is the (minimum, maximum) position reachable after the requested ticks.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Engine evaluates bounds against an agent database.
// An Engine is safe for concurrent use.
type Engine struct {
	db      agentdb.Database
	workers int
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets how many goroutines evaluate speed intervals in parallel.
// Values below 1 are treated as 1.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = max(1, n) }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New returns an Engine reading agent parameters from db.
func New(db agentdb.Database, opts ...Option) *Engine {
	e := &Engine{
		db:      db,
		workers: runtime.GOMAXPROCS(0),
		logger:  logging.New("extrema"),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// CalculateExtrema returns the bounds for agent after ticks ticks, given
// 1-indexed freeze trigger ticks in any order.
func (e *Engine) CalculateExtrema(ctx context.Context, agent agentdb.AgentType, triggers []int64, ticks int64) (Bounds, error) {
	if ticks < 0 {
		return Bounds{}, fmt.Errorf("%w: %d", freeze.ErrNegativeTicks, ticks)
	}
	p, err := e.db.Lookup(agent)
	if err != nil {
		return Bounds{}, err
	}
	e.logger.Debug("calculate extrema",
		"agent", agent, "model", modelName(p.Movement), "triggers", len(triggers), "ticks", ticks)

	switch m := p.Movement.(type) {
	case agentdb.Constant:
		return constantBounds(p, triggers, ticks)
	case agentdb.Animation:
		return e.animation(ctx, p, m.Frames, triggers, ticks)
	case agentdb.RegularWalk:
		return e.regular(ctx, p, m, triggers, ticks)
	case agentdb.DanceCheat:
		return Bounds{}, fmt.Errorf("%s: %w", agent, ErrNotImplemented)
	case agentdb.DancingWalk:
		return e.dancing(ctx, p, m.Frames, triggers, ticks)
	case agentdb.ZomboniDrive:
		return zomboniBounds(p, ticks), nil
	default:
		return Bounds{}, fmt.Errorf("%s: %w: %T", agent, ErrUnknownModel, m)
	}
}

func modelName(m agentdb.MovementModel) string {
	if m == nil {
		return "none"
	}
	return m.Name()
}
