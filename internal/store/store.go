package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/kgraph/internal/graph"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Seeded well-known vocabulary
// 2 - Added idx_statements_object
const currentSchemaVersion = 2

// systemContributor owns seeded vocabulary.
const systemContributor = "system"

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store provides durable storage for the knowledge graph.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db    *sql.DB
	q     querier
	clock Sequencer
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithSequencer replaces the logical clock. Tests use this with a
// deterministic clock to get stable ids.
func WithSequencer(seq Sequencer) Option {
	return func(s *Store) {
		s.clock = seq
	}
}

// WithNow replaces the wall clock used for created_at.
func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas, migrations and vocabulary seeding automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &Store{db: db, q: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if s.clock == nil {
		last, err := s.LastSeq(context.Background())
		if err != nil {
			db.Close()
			return nil, err
		}
		s.clock = NewClockAt(last)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// WithTx runs fn against a Store bound to a single transaction.
// The transaction commits if fn returns nil and rolls back otherwise,
// so a pipeline that fails partway through leaves no writes behind.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	if _, nested := s.q.(*sql.Tx); nested {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	child := &Store{db: s.db, q: tx, clock: s.clock, now: s.now}
	if err := fn(child); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LastSeq returns the highest seq used by any thing or statement.
// Used on open to resume the logical clock from the correct position.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var maxSeq int64
	err := s.q.QueryRowContext(ctx, `
		SELECT MAX(
			(SELECT COALESCE(MAX(seq), 0) FROM things),
			(SELECT COALESCE(MAX(seq), 0) FROM statements)
		)
	`).Scan(&maxSeq)
	if err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	return maxSeq, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}
	if version < 2 {
		if err := migrateToV2(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 seeds the well-known predicates and classes with their fixed
// ids. Seeded things have seq 0 and sort before everything else.
func migrateToV1(db *sql.DB) error {
	epoch := time.Unix(0, 0).UTC().Format(time.RFC3339Nano)

	seed := func(kind graph.ThingKind, labels map[graph.ThingID]string) error {
		ids := make([]string, 0, len(labels))
		for id := range labels {
			ids = append(ids, string(id))
		}
		sort.Strings(ids)

		for _, id := range ids {
			_, err := db.Exec(`
				INSERT INTO things (id, kind, label, modifiable, created_by, created_at, seq)
				VALUES (?, ?, ?, 0, ?, ?, 0)
				ON CONFLICT(id) DO NOTHING
			`, id, string(kind), labels[graph.ThingID(id)], systemContributor, epoch)
			if err != nil {
				return fmt.Errorf("migrate to v1: seed %s %s: %w", kind, id, err)
			}
		}
		return nil
	}

	if err := seed(graph.KindPredicate, graph.WellKnownPredicates); err != nil {
		return err
	}
	return seed(graph.KindClass, graph.WellKnownClasses)
}

// migrateToV2 adds the object index for databases created before v2.
// New databases get this from schema.sql.
func migrateToV2(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_statements_object
		ON statements(object_id, seq)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v2: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}

var _ graph.Repository = (*Store)(nil)
