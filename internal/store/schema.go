package store

// schemaVersionV1 is the first results table layout.
const schemaVersionV1 = 1

// currentSchemaVersion is the target schema version for this build.
const currentSchemaVersion = schemaVersionV1

var schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS results (
	id         TEXT PRIMARY KEY,
	cache_key  TEXT NOT NULL UNIQUE,
	agent      TEXT NOT NULL,
	triggers   TEXT NOT NULL,
	ticks      INTEGER NOT NULL,
	min_pos    REAL NOT NULL,
	max_pos    REAL NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_agent ON results(agent);
`
