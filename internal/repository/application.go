package repository

import (
	"context"
	"errors"
	"time"

	"github.com/honeycarbs/jobmatch/internal/domain"
)

var (
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrUniqueViolation is returned when an insert hits a uniqueness constraint
	ErrUniqueViolation = errors.New("unique constraint violated")
	// ErrConflict is returned when a compare-and-set misses or the store
	// aborts the transaction because of concurrent writers
	ErrConflict = errors.New("concurrent modification")
)

// StateUpdate is a compare-and-set of an application's status.
// The update applies only while the stored status equals Expected.
type StateUpdate struct {
	ID             domain.ApplicationID
	Expected       domain.ApplicationStatus
	Status         domain.ApplicationStatus
	IsWithdrawn    bool
	WithdrawReason string
	UpdatedAt      time.Time
}

// ApplicationStore persists applications
type ApplicationStore interface {
	GetApplication(ctx context.Context, id domain.ApplicationID) (domain.Application, error)
	FindApplicationByPair(ctx context.Context, jobID domain.JobID, applicantID domain.UserID) (domain.Application, error)
	// InsertApplication returns ErrUniqueViolation when the (job, applicant)
	// pair already has an application.
	InsertApplication(ctx context.Context, app domain.Application) error
	UpdateApplicationState(ctx context.Context, u StateUpdate) error
	UpdateMatchScore(ctx context.Context, id domain.ApplicationID, score int, updatedAt time.Time) error
	AppendNote(ctx context.Context, id domain.ApplicationID, note domain.Note) error
	AppendInterview(ctx context.Context, id domain.ApplicationID, iv domain.Interview) error
}

// NotificationStore persists notifications
type NotificationStore interface {
	CreateNotification(ctx context.Context, n domain.Notification) error
}

// Tx is the unit of work handed to a TxFunc. Everything written through it
// commits or rolls back together.
type Tx interface {
	JobDirectory
	SkillDirectory
	ApplicationStore
	NotificationStore
}

// TxFunc runs inside a transaction; a non-nil error rolls it back
type TxFunc func(ctx context.Context, tx Tx) error

// ApplicationFilter narrows list queries
type ApplicationFilter struct {
	Status *domain.ApplicationStatus
}

// Store is implemented by every storage backend
type Store interface {
	DirectoryWriter

	WithinTx(ctx context.Context, fn TxFunc) error

	GetJob(ctx context.Context, id domain.JobID) (domain.Job, error)
	GetApplication(ctx context.Context, id domain.ApplicationID) (domain.Application, error)
	ListApplicationsByJob(ctx context.Context, jobID domain.JobID, f ApplicationFilter) ([]domain.Application, error)
	ListApplicationsByApplicant(ctx context.Context, applicantID domain.UserID, f ApplicationFilter) ([]domain.Application, error)
	ListNotifications(ctx context.Context, recipientID domain.UserID) ([]domain.Notification, error)

	Close(ctx context.Context) error
}
