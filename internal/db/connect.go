package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:quizmaster.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/quizmaster?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

// The four collections are independent tables with no cross-table
// constraints: multi-row operations (bulk result deletes, batch imports)
// run per row and may partially fail.
const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS questions (
  id TEXT PRIMARY KEY,
  subject TEXT NOT NULL,
  volume TEXT NOT NULL,
  unit TEXT NOT NULL,
  content TEXT NOT NULL,
  options_json TEXT NOT NULL,
  option_images_json TEXT NOT NULL DEFAULT '',
  correct_index INTEGER NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  rationale TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL,
  created_by TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS results (
  id TEXT PRIMARY KEY,
  student_name TEXT NOT NULL,
  score INTEGER NOT NULL,
  unit TEXT NOT NULL,
  total_questions INTEGER NOT NULL,
  correct_count INTEGER NOT NULL,
  attempt INTEGER NOT NULL DEFAULT 1,
  mistakes_json TEXT NOT NULL,
  submitted_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  reveal_threshold INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS roster (
  student_id TEXT PRIMARY KEY,
  student_name TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS questions (
  id TEXT PRIMARY KEY,
  subject TEXT NOT NULL,
  volume TEXT NOT NULL,
  unit TEXT NOT NULL,
  content TEXT NOT NULL,
  options_json TEXT NOT NULL,
  option_images_json TEXT NOT NULL DEFAULT '',
  correct_index INTEGER NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  rationale TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL,
  created_by TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS results (
  id TEXT PRIMARY KEY,
  student_name TEXT NOT NULL,
  score INTEGER NOT NULL,
  unit TEXT NOT NULL,
  total_questions INTEGER NOT NULL,
  correct_count INTEGER NOT NULL,
  attempt INTEGER NOT NULL DEFAULT 1,
  mistakes_json TEXT NOT NULL,
  submitted_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  reveal_threshold INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS roster (
  student_id TEXT PRIMARY KEY,
  student_name TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`
