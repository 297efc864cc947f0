// Package batch evaluates many bounds queries on a bounded worker pool,
// reading and filling a result cache.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"posbound/internal/agentdb"
	"posbound/internal/extrema"
	"posbound/internal/logging"
	"posbound/internal/store"
)

// Calculator computes bounds for one query. *extrema.Engine implements it.
type Calculator interface {
	CalculateExtrema(ctx context.Context, agent agentdb.AgentType, triggers []int64, ticks int64) (extrema.Bounds, error)
}

// Outcome is the result of one query. Err is set when the query failed.
type Outcome struct {
	Query       store.Query
	Bounds      extrema.Bounds
	Cached      bool
	// Approximate is set when the agent's parameters are estimates.
	Approximate bool
	Err         error
}

// Runner evaluates queries. Store may be nil to disable caching, Agents nil
// to skip marking approximate outcomes.
type Runner struct {
	Engine      Calculator
	Store       store.Store
	Agents      agentdb.Database
	Fingerprint string
	// Parallel bounds the number of queries evaluated at once; values below 1 mean 1.
	Parallel int
	Logger   *slog.Logger
}

// Run evaluates every query and returns outcomes in query order.
// A failing query never stops the others.
func (r *Runner) Run(ctx context.Context, queries []store.Query) []Outcome {
	logger := r.Logger
	if logger == nil {
		logger = logging.New("batch")
	}
	logger.Info("batch start", "queries", len(queries), "parallel", max(1, r.Parallel))

	out := make([]Outcome, len(queries))
	var g errgroup.Group
	g.SetLimit(max(1, r.Parallel))
	for i, q := range queries {
		g.Go(func() error {
			out[i] = r.one(ctx, logger, q)
			return nil
		})
	}
	_ = g.Wait() // errors captured in Outcome.Err

	failed := 0
	for _, o := range out {
		if o.Err != nil {
			failed++
			logger.Error("query failed", "agent", o.Query.Agent, "ticks", o.Query.Ticks, "error", o.Err)
		}
	}
	logger.Info("batch done", "queries", len(queries), "failed", failed)
	return out
}

func (r *Runner) one(ctx context.Context, logger *slog.Logger, q store.Query) Outcome {
	o := Outcome{Query: q}
	if err := ctx.Err(); err != nil {
		o.Err = err
		return o
	}
	if r.Agents != nil {
		if p, err := r.Agents.Lookup(q.Agent); err == nil {
			o.Approximate = p.Approximate
		}
	}

	key := q.Key(r.Fingerprint)
	if r.Store != nil {
		hit, err := r.Store.Get(key)
		if err != nil {
			logger.Warn("cache read failed", "key", key, "error", err)
		}
		if hit != nil {
			o.Bounds = extrema.Bounds{Min: hit.Min, Max: hit.Max}
			o.Cached = true
			return o
		}
	}

	b, err := r.Engine.CalculateExtrema(ctx, q.Agent, q.Triggers, q.Ticks)
	if err != nil {
		o.Err = fmt.Errorf("%s after %d ticks: %w", q.Agent, q.Ticks, err)
		return o
	}
	o.Bounds = b
	if r.Store != nil {
		if err := r.Store.Put(store.NewResult(q, r.Fingerprint, b.Min, b.Max)); err != nil {
			logger.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return o
}

type queryFile struct {
	Queries []store.Query `yaml:"queries"`
}

// LoadQueries reads a YAML file with a top-level queries list.
func LoadQueries(path string) ([]store.Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}
	return ParseQueries(data)
}

// ParseQueries parses a queries document.
func ParseQueries(data []byte) ([]store.Query, error) {
	var f queryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse queries yaml: %w", err)
	}
	for i, q := range f.Queries {
		if q.Agent == "" {
			return nil, fmt.Errorf("query #%d: missing agent", i+1)
		}
		if q.Ticks < 0 {
			return nil, fmt.Errorf("query #%d: negative ticks %d", i+1, q.Ticks)
		}
	}
	return f.Queries, nil
}
