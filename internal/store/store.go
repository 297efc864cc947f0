// Package store caches computed bounds keyed by query and agent database.
package store

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"

	"posbound/internal/agentdb"
)

// DefaultDBPath is the default relative path for the SQLite cache.
const DefaultDBPath = ".posbound/cache.db"

// Query is one bounds request.
type Query struct {
	Agent    agentdb.AgentType `yaml:"agent" json:"agent"`
	Triggers []int64           `yaml:"triggers" json:"triggers"`
	Ticks    int64             `yaml:"ticks" json:"ticks"`
}

// Canonical returns the triggers sorted with duplicates removed.
func (q Query) Canonical() []int64 {
	out := slices.Clone(q.Triggers)
	slices.Sort(out)
	return slices.Compact(out)
}

// Key identifies q against the agent database with the given fingerprint.
// Queries that differ only in trigger order or repetition share a key.
func (q Query) Key(fingerprint string) string {
	var b strings.Builder
	b.WriteString(fingerprint)
	b.WriteByte('|')
	b.WriteString(string(q.Agent))
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(q.Ticks, 10))
	b.WriteByte('|')
	for i, t := range q.Canonical() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(t, 10))
	}
	return fmt.Sprintf("%016x", xxh3.HashString(b.String()))
}

// Result is a cached bounds computation.
type Result struct {
	ID        uuid.UUID
	Key       string
	Agent     agentdb.AgentType
	Triggers  []int64
	Ticks     int64
	Min       float64
	Max       float64
	CreatedAt time.Time
}

// NewResult builds a Result for q with a fresh ID.
func NewResult(q Query, fingerprint string, minPos, maxPos float64) *Result {
	return &Result{
		ID:        uuid.New(),
		Key:       q.Key(fingerprint),
		Agent:     q.Agent,
		Triggers:  q.Canonical(),
		Ticks:     q.Ticks,
		Min:       minPos,
		Max:       maxPos,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// Store persists results. Implementations are SQLite or in-memory.
type Store interface {
	// Get returns the result for key, or nil if none is cached.
	Get(key string) (*Result, error)
	// Put inserts r, replacing any result with the same key.
	Put(r *Result) error
	// List returns all results, oldest first.
	List() ([]*Result, error)
	Close() error
}
