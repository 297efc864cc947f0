package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"posbound/internal/agentdb"

	_ "modernc.org/sqlite"
)

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite DB at path and runs migrations.
// Creates the parent directory (e.g. .posbound) if it does not exist.
func Open(path string) (*SqlStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) migrate() error {
	var tableCount int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableCount == 0 {
		return s.freshInstall()
	}

	var v int
	err = s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return s.freshInstall()
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v != currentSchemaVersion {
		return fmt.Errorf("unknown schema version %d", v)
	}
	return nil
}

func (s *SqlStore) freshInstall() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(schemaV1); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO schema_version(version) VALUES(?)", currentSchemaVersion); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SqlStore) Close() error {
	return s.db.Close()
}

const selectResult = `SELECT id, cache_key, agent, triggers, ticks, min_pos, max_pos, created_at FROM results`

// Get implements Store.
func (s *SqlStore) Get(key string) (*Result, error) {
	r, err := scanResult(s.db.QueryRow(selectResult+" WHERE cache_key = ?", key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get result %s: %w", key, err)
	}
	return r, nil
}

// Put implements Store.
func (s *SqlStore) Put(r *Result) error {
	id := r.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	triggers, err := json.Marshal(r.Triggers)
	if err != nil {
		return fmt.Errorf("encode triggers: %w", err)
	}
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = s.db.Exec(
		`INSERT INTO results(id, cache_key, agent, triggers, ticks, min_pos, max_pos, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
		   id = excluded.id, agent = excluded.agent, triggers = excluded.triggers,
		   ticks = excluded.ticks, min_pos = excluded.min_pos, max_pos = excluded.max_pos,
		   created_at = excluded.created_at`,
		id.String(), r.Key, string(r.Agent), string(triggers), r.Ticks, r.Min, r.Max,
		created.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// List implements Store.
func (s *SqlStore) List() ([]*Result, error) {
	rows, err := s.db.Query(selectResult + " ORDER BY created_at, rowid")
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []*Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*Result, error) {
	var r Result
	var id, agent, trig, created string
	if err := row.Scan(&id, &r.Key, &agent, &trig, &r.Ticks, &r.Min, &r.Max, &created); err != nil {
		return nil, err
	}
	var err error
	if r.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("result id: %w", err)
	}
	if err := json.Unmarshal([]byte(trig), &r.Triggers); err != nil {
		return nil, fmt.Errorf("result triggers: %w", err)
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return nil, fmt.Errorf("result created_at: %w", err)
	}
	r.Agent = agentdb.AgentType(agent)
	return &r, nil
}
