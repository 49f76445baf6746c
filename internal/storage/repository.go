// Package storage persists users, categories and financial records in
// SQLite and pushes filter-driven aggregation into SQL.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"moneytrack/internal/core"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Repository bundles the collections backed by a single SQLite database.
type Repository struct {
	db           *sql.DB
	Users        *UserStore
	Categories   *CategoryStore
	Transactions *RecordCollection
	Debts        *RecordCollection
}

// New opens (or creates) the database at dbPath and applies migrations.
func New(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return attach(db), nil
}

// NewInMemory opens a private in-memory database, used by tests and local
// experiments. The pool is pinned to one connection so every query sees the
// same database.
func NewInMemory() (*Repository, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return attach(db), nil
}

func attach(db *sql.DB) *Repository {
	return &Repository{
		db:           db,
		Users:        &UserStore{db: db},
		Categories:   &CategoryStore{db: db},
		Transactions: &RecordCollection{db: db, table: "transactions", family: core.FamilyTransactions},
		Debts:        &RecordCollection{db: db, table: "debts", family: core.FamilyDebts},
	}
}

// Collection returns the record collection for a family.
func (r *Repository) Collection(f core.Family) *RecordCollection {
	if f == core.FamilyDebts {
		return r.Debts
	}
	return r.Transactions
}

// Ping reports whether the database is reachable, for readiness checks.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// formatTime renders a timestamp the way occurred_on is stored: RFC3339 UTC,
// so lexicographic comparison matches chronological order.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
