/*
Package sqlstore persists the history of computed payoff plans.

PURPOSE:
  Every plan the service computes is recorded as one summary row so the
  user can look back at what they explored. Only headline figures are
  stored; debt rows never reach the database.

DRIVERS:
  sqlite3   github.com/mattn/go-sqlite3 (default, ":memory:" for tests)
  postgres  github.com/lib/pq

  Queries are written with "?" placeholders and rebound to "$n" for
  PostgreSQL. The schema uses only types both engines accept.

KEY TABLES:
  plan_runs: one row per computed plan

MONEY:
  Amounts are stored as TEXT decimals rounded to cents, so the database
  never sees binary floating point.

USAGE:
  store, err := sqlstore.New("sqlite3", "./data/planner.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
*/
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// ErrUnsupportedDriver is returned by New for drivers other than sqlite3 and postgres.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Fixed-width so lexical order matches time order.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

const dateLayout = "2006-01-02"

// Store implements run history on top of database/sql.
type Store struct {
	db     *sql.DB
	driver string
	mu     sync.RWMutex
}

// New opens the database and migrates the schema.
func New(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite:
		dsn += "?_foreign_keys=on&_journal_mode=WAL"
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == DriverSQLite {
		// Every new connection to ":memory:" is a separate empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, driver: driver}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS plan_runs (
			id TEXT PRIMARY KEY,
			strategy TEXT NOT NULL,
			monthly_extra TEXT NOT NULL,
			start_date TEXT NOT NULL,
			debt_count INTEGER NOT NULL,
			initial_balance TEXT NOT NULL,
			months INTEGER NOT NULL,
			total_interest TEXT NOT NULL,
			debt_free_date TEXT,
			resolved BOOLEAN NOT NULL,
			cache_key TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_plan_runs_created_at
			ON plan_runs(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// PLAN RUNS
// =============================================================================

// Run is the stored summary of one computed plan.
type Run struct {
	ID             string
	Strategy       string
	MonthlyExtra   float64
	StartDate      time.Time
	DebtCount      int
	InitialBalance float64
	Months         int
	TotalInterest  float64
	DebtFreeDate   time.Time // zero when the plan had no months
	Resolved       bool
	CacheKey       string
	CreatedAt      time.Time
}

// SaveRun inserts a run. CreatedAt defaults to now.
func (s *Store) SaveRun(ctx context.Context, r Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	var debtFree *string
	if !r.DebtFreeDate.IsZero() {
		d := r.DebtFreeDate.Format(dateLayout)
		debtFree = &d
	}

	query := `
		INSERT INTO plan_runs (id, strategy, monthly_extra, start_date, debt_count,
			initial_balance, months, total_interest, debt_free_date, resolved, cache_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, s.rebind(query),
		r.ID, r.Strategy, cents(r.MonthlyExtra), r.StartDate.Format(dateLayout), r.DebtCount,
		cents(r.InitialBalance), r.Months, cents(r.TotalInterest), debtFree, r.Resolved,
		nullString(r.CacheKey), r.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save plan run: %w", err)
	}
	return nil
}

// GetRun returns the run with id, or nil if it does not exist.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, strategy, monthly_extra, start_date, debt_count, initial_balance,
			months, total_interest, debt_free_date, resolved, cache_key, created_at
		FROM plan_runs WHERE id = ?
	`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), id)
	if err != nil {
		return nil, fmt.Errorf("failed to query plan run: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	r, err := scanRun(rows)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRuns returns the most recent runs first. limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, strategy, monthly_extra, start_date, debt_count, initial_balance,
			months, total_interest, debt_free_date, resolved, cache_key, created_at
		FROM plan_runs
		ORDER BY created_at DESC, id DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query plan runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// PruneRuns deletes runs created before the cutoff and reports how many went.
func (s *Store) PruneRuns(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM plan_runs WHERE created_at < ?`),
		before.UTC().Format(timestampLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to prune plan runs: %w", err)
	}
	return res.RowsAffected()
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		r                        Run
		extra, initial, interest string
		startDate, createdAt     string
		debtFreeDate, cacheKey   sql.NullString
	)

	err := rows.Scan(
		&r.ID, &r.Strategy, &extra, &startDate, &r.DebtCount, &initial,
		&r.Months, &interest, &debtFreeDate, &r.Resolved, &cacheKey, &createdAt,
	)
	if err != nil {
		return r, fmt.Errorf("failed to scan plan run: %w", err)
	}

	if r.MonthlyExtra, err = parseCents(extra); err != nil {
		return r, fmt.Errorf("failed to parse plan run %s monthly_extra: %w", r.ID, err)
	}
	if r.InitialBalance, err = parseCents(initial); err != nil {
		return r, fmt.Errorf("failed to parse plan run %s initial_balance: %w", r.ID, err)
	}
	if r.TotalInterest, err = parseCents(interest); err != nil {
		return r, fmt.Errorf("failed to parse plan run %s total_interest: %w", r.ID, err)
	}
	if r.StartDate, err = time.Parse(dateLayout, startDate); err != nil {
		return r, fmt.Errorf("failed to parse plan run %s start_date: %w", r.ID, err)
	}
	if debtFreeDate.Valid {
		if r.DebtFreeDate, err = time.Parse(dateLayout, debtFreeDate.String); err != nil {
			return r, fmt.Errorf("failed to parse plan run %s debt_free_date: %w", r.ID, err)
		}
	}
	r.CacheKey = cacheKey.String
	if r.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
		return r, fmt.Errorf("failed to parse plan run %s created_at: %w", r.ID, err)
	}

	return r, nil
}

// Helper functions

// rebind rewrites "?" placeholders as "$1", "$2", ... for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func cents(f float64) string {
	return decimal.NewFromFloat(f).StringFixed(2)
}

func parseCents(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
