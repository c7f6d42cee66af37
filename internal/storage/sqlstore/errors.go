package sqlstore

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/honeycarbs/jobmatch/internal/repository"
)

// PostgreSQL SQLSTATE codes the store reacts to
const (
	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// classify maps driver errors onto the repository sentinels, keeping the
// driver error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isNoRows(err) {
		return fmt.Errorf("%w: %w", repository.ErrNotFound, err)
	}

	var le *sqlite.Error
	if errors.As(err, &le) {
		switch le.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %w", repository.ErrUniqueViolation, err)
		}
		switch le.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return fmt.Errorf("%w: %w", repository.ErrConflict, err)
		}
		return err
	}

	var pe *pq.Error
	if errors.As(err, &pe) {
		switch string(pe.Code) {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %w", repository.ErrUniqueViolation, err)
		case pqSerializationFailure, pqDeadlockDetected:
			return fmt.Errorf("%w: %w", repository.ErrConflict, err)
		}
	}
	return err
}
