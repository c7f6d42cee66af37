// Package sqlstore implements repository.Store on SQLite and PostgreSQL through sqlx.
// Queries are written with ? placeholders and rebound for the active driver.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/internal/repository"
)

// Driver names as registered with database/sql
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

var _ repository.Store = (*Store)(nil)

// Config selects the driver and connection string
type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	// SkipMigrations leaves the schema alone on Open
	SkipMigrations bool
}

// SQLiteDSN builds a connection string for a database file. Writers take the
// database lock at BEGIN so concurrent transactions queue instead of failing
// half way through.
func SQLiteDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Set("_txlock", "immediate")
	return path + "?" + q.Encode()
}

// Store is a repository.Store backed by a SQL database
type Store struct {
	db *sqlx.DB
	queries
}

// Open connects, applies pending migrations and returns a ready Store
func Open(ctx context.Context, cfg Config) (*Store, error) {
	switch cfg.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", cfg.Driver)
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("sqlstore: dsn is required")
	}

	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Driver, err)
	}

	switch {
	case cfg.Driver == DriverSQLite:
		db.SetMaxOpenConns(1)
	case cfg.MaxOpenConns > 0:
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	s := New(db)
	if !cfg.SkipMigrations {
		if err := s.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}
	return s, nil
}

// New wraps an existing connection. The schema is assumed to be in place.
func New(db *sqlx.DB) *Store {
	return &Store{db: db, queries: queries{ext: db}}
}

// DB exposes the underlying handle
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

// WithinTx runs fn in a database transaction
func (s *Store) WithinTx(ctx context.Context, fn repository.TxFunc) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", classify(err))
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, &queries{ext: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, context.Canceled) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", classify(err))
	}
	return nil
}

func (s *Store) UpsertJob(ctx context.Context, job domain.Job) error {
	return s.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.(*queries).upsertJob(ctx, job)
	})
}

func (s *Store) SetCandidateSkills(ctx context.Context, userID domain.UserID, skills []domain.SkillID) error {
	return s.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.(*queries).setCandidateSkills(ctx, userID, skills)
	})
}

func (s *Store) ListApplicationsByJob(ctx context.Context, jobID domain.JobID, f repository.ApplicationFilter) ([]domain.Application, error) {
	return s.listApplications(ctx, "job_id", jobID, f)
}

func (s *Store) ListApplicationsByApplicant(ctx context.Context, applicantID domain.UserID, f repository.ApplicationFilter) ([]domain.Application, error) {
	return s.listApplications(ctx, "applicant_id", applicantID, f)
}
